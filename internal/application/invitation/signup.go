package invitation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Mentoria-api/internal/application/dto"
	"github.com/jhoicas/Mentoria-api/internal/application/notification"
	"github.com/jhoicas/Mentoria-api/internal/domain"
	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
	"github.com/jhoicas/Mentoria-api/pkg/metrics"
)

// SignupCorporate registra un corporate (sin invitación) y devuelve sus enlaces de invitación.
func (s *Service) SignupCorporate(ctx context.Context, in dto.CorporateSignupRequest) (*dto.SignupResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}

	user, err := s.createIdentity(ctx, entity.RoleCorporate, in.Email, in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	corp := &entity.CorporateProfile{
		ID:          uuid.New().String(),
		UserID:      user.ID,
		CompanyName: strings.TrimSpace(in.CompanyName),
		Industry:    strings.TrimSpace(in.Industry),
		CompanySize: strings.TrimSpace(in.CompanySize),
		CreatedAt:   now,
	}
	err = s.tx.Run(ctx, func(r Repos) error {
		if err := assignRole(ctx, r, user.ID, entity.RoleCorporate, now); err != nil {
			return err
		}
		return r.Corporates.Create(ctx, corp)
	})
	if err != nil {
		return nil, s.profileFailed(ctx, entity.RoleCorporate, user, err)
	}

	links := s.InvitationLinks(corp.ID)
	s.notifyAsync(notification.Notification{
		Type:  notification.TypeCorporateWelcome,
		Email: user.Email,
		Data: map[string]string{
			notification.DataCompanyName:  corp.CompanyName,
			notification.DataDashboardURL: s.dashboardURL(entity.RoleCorporate),
			"mentorSignupUrl":             links.MentorSignupURL,
			"schoolSignupUrl":             links.SchoolSignupURL,
		},
	})

	metrics.Signups.WithLabelValues(string(entity.RoleCorporate)).Inc()
	s.log.Info().Str("user_id", user.ID).Str("corporate_id", corp.ID).Msg("corporate registrado")

	return &dto.SignupResponse{
		UserID:    user.ID,
		Role:      string(entity.RoleCorporate),
		ProfileID: corp.ID,
		Redirect:  entity.RoleCorporate.Dashboard(),
		Links:     &links,
	}, nil
}

// SignupMentor registra un mentor a través del enlace de invitación de corporateID:
// identidad → rol → vínculo de colegio → perfil, y notificaciones en segundo plano.
func (s *Service) SignupMentor(ctx context.Context, corporateID string, in dto.MentorSignupRequest) (*dto.SignupResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	v, err := s.ValidateInvitation(ctx, corporateID)
	if err != nil {
		return nil, err
	}
	corp := v.Corporate

	user, err := s.createIdentity(ctx, entity.RoleMentor, in.Email, in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	mentor := &entity.MentorProfile{
		ID:             uuid.New().String(),
		UserID:         user.ID,
		CorporateID:    &corp.ID,
		FullName:       strings.TrimSpace(in.FullName),
		Company:        strings.TrimSpace(in.CompanyName),
		JobTitle:       strings.TrimSpace(in.JobTitle),
		BackgroundInfo: strings.TrimSpace(in.BackgroundInfo),
		CreatedAt:      now,
	}
	err = s.tx.Run(ctx, func(r Repos) error {
		if err := assignRole(ctx, r, user.ID, entity.RoleMentor, now); err != nil {
			return err
		}
		link, err := resolveSchoolLink(ctx, r, corp.ID, mentor.ID, in.SchoolName, in.IsNewSchool, now)
		if err != nil {
			return err
		}
		mentor.School = link
		return r.Mentors.Create(ctx, mentor)
	})
	if err != nil {
		return nil, s.profileFailed(ctx, entity.RoleMentor, user, err)
	}

	s.notifyAsync(
		notification.Notification{
			Type:  notification.TypeMentorWelcome,
			Email: user.Email,
			Data: map[string]string{
				notification.DataName:         mentor.FullName,
				notification.DataCompanyName:  corp.CompanyName,
				notification.DataDashboardURL: s.dashboardURL(entity.RoleMentor),
			},
		},
		s.newSignupNotice(corp.ID, entity.RoleMentor, mentor.FullName),
	)

	metrics.Signups.WithLabelValues(string(entity.RoleMentor)).Inc()
	s.log.Info().Str("user_id", user.ID).Str("corporate_id", corp.ID).Msg("mentor registrado")

	return &dto.SignupResponse{
		UserID:    user.ID,
		Role:      string(entity.RoleMentor),
		ProfileID: mentor.ID,
		Redirect:  entity.RoleMentor.Dashboard(),
	}, nil
}

// SignupSchool registra un colegio a través del enlace de invitación de corporateID.
// Si el corporate tenía un colegio pendiente con el mismo nombre, se reemplaza por el registro
// y sus mentores pasan a apuntar al colegio registrado.
func (s *Service) SignupSchool(ctx context.Context, corporateID string, in dto.SchoolSignupRequest) (*dto.SignupResponse, error) {
	if err := in.Validate(s.cfg.PhoneRegion); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	phone, err := dto.NormalizePhone(in.Phone, s.cfg.PhoneRegion)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	v, err := s.ValidateInvitation(ctx, corporateID)
	if err != nil {
		return nil, err
	}
	corp := v.Corporate

	user, err := s.createIdentity(ctx, entity.RoleSchool, in.Email, in.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	school := &entity.SchoolProfile{
		ID:            uuid.New().String(),
		UserID:        user.ID,
		CorporateID:   &corp.ID,
		SchoolName:    entity.CleanSchoolName(in.SchoolName),
		SchoolType:    strings.TrimSpace(in.SchoolType),
		Location:      strings.TrimSpace(in.Location),
		StudentCount:  in.StudentCount,
		FSMPercentage: in.FSMPercentage,
		ContactName:   strings.TrimSpace(in.ContactName),
		ContactRole:   strings.TrimSpace(in.ContactRole),
		Phone:         phone,
		CreatedAt:     now,
	}
	var relinked int64
	err = s.tx.Run(ctx, func(r Repos) error {
		if err := assignRole(ctx, r, user.ID, entity.RoleSchool, now); err != nil {
			return err
		}
		if err := r.Schools.Create(ctx, school); err != nil {
			return err
		}
		if _, err := r.Directory.Upsert(ctx, school.SchoolName); err != nil {
			return err
		}
		pending, err := r.PendingSchools.FindActiveByCorporateAndName(ctx, corp.ID, school.SchoolName)
		if err != nil || pending == nil {
			return err
		}
		if relinked, err = r.Mentors.RelinkPendingSchool(ctx, pending.ID, school.ID); err != nil {
			return err
		}
		return r.PendingSchools.Supersede(ctx, pending.ID, school.ID)
	})
	if err != nil {
		return nil, s.profileFailed(ctx, entity.RoleSchool, user, err)
	}

	s.notifyAsync(
		notification.Notification{
			Type:  notification.TypeSchoolWelcome,
			Email: user.Email,
			Data: map[string]string{
				notification.DataName:         school.ContactName,
				notification.DataSchoolName:   school.SchoolName,
				notification.DataCompanyName:  corp.CompanyName,
				notification.DataDashboardURL: s.dashboardURL(entity.RoleSchool),
			},
		},
		s.newSignupNotice(corp.ID, entity.RoleSchool, school.SchoolName),
	)

	metrics.Signups.WithLabelValues(string(entity.RoleSchool)).Inc()
	s.log.Info().
		Str("user_id", user.ID).
		Str("corporate_id", corp.ID).
		Int64("mentors_relinked", relinked).
		Msg("colegio registrado")

	return &dto.SignupResponse{
		UserID:    user.ID,
		Role:      string(entity.RoleSchool),
		ProfileID: school.ID,
		Redirect:  entity.RoleSchool.Dashboard(),
	}, nil
}

func (s *Service) createIdentity(ctx context.Context, role entity.Role, email, password string) (*entity.Identity, error) {
	user, err := s.provider.SignUp(ctx, strings.TrimSpace(email), password)
	if err == nil {
		return user, nil
	}
	metrics.SignupFailures.WithLabelValues(string(role), "identity").Inc()
	if errors.Is(err, domain.ErrDuplicateEmail) || errors.Is(err, domain.ErrProvider) {
		return nil, err
	}
	return nil, fmt.Errorf("%w: %v", domain.ErrProvider, err)
}

// profileFailed borra la identidad recién creada (mejor esfuerzo) y devuelve ErrProfileCreation.
func (s *Service) profileFailed(ctx context.Context, role entity.Role, user *entity.Identity, cause error) error {
	metrics.SignupFailures.WithLabelValues(string(role), "profile").Inc()
	s.log.Error().Err(cause).Str("user_id", user.ID).Str("role", string(role)).Msg("creación de perfil fallida")

	if err := s.provider.AdminDeleteUser(context.WithoutCancel(ctx), user.ID); err != nil {
		s.log.Error().Err(err).Str("user_id", user.ID).Msg("no se pudo borrar la identidad huérfana")
	}
	return fmt.Errorf("%w: %v", domain.ErrProfileCreation, cause)
}

func (s *Service) newSignupNotice(corporateID string, role entity.Role, name string) notification.Notification {
	return notification.Notification{
		Type: notification.TypeNewSignup,
		Data: map[string]string{
			notification.DataCorporateID:  corporateID,
			notification.DataRole:         string(role),
			notification.DataName:         name,
			notification.DataDashboardURL: s.dashboardURL(entity.RoleCorporate),
		},
	}
}

func assignRole(ctx context.Context, r Repos, userID string, role entity.Role, now time.Time) error {
	return r.Roles.Assign(ctx, &entity.RoleAssignment{
		ID:        uuid.New().String(),
		UserID:    userID,
		Role:      role,
		CreatedAt: now,
	})
}

// resolveSchoolLink traduce el nombre elegido por el mentor a su vínculo de colegio, siempre
// dentro del corporate: pendiente existente, colegio registrado, o un pendiente nuevo.
// Los nombres nuevos se añaden además al directorio global.
func resolveSchoolLink(
	ctx context.Context,
	r Repos,
	corporateID, mentorID, schoolName string,
	isNew bool,
	now time.Time,
) (entity.SchoolLink, error) {
	name := entity.CleanSchoolName(schoolName)
	if name == "" {
		return entity.Unassigned(), nil
	}

	if isNew {
		if _, err := r.Directory.Upsert(ctx, name); err != nil {
			return entity.SchoolLink{}, err
		}
	}

	pending, err := r.PendingSchools.FindActiveByCorporateAndName(ctx, corporateID, name)
	if err != nil {
		return entity.SchoolLink{}, err
	}
	if pending != nil {
		return entity.PendingSchoolLink(pending.ID), nil
	}

	school, err := r.Schools.FindByCorporateAndName(ctx, corporateID, name)
	if err != nil {
		return entity.SchoolLink{}, err
	}
	if school != nil {
		return entity.RegisteredSchool(school.ID), nil
	}

	created := &entity.PendingSchool{
		ID:          uuid.New().String(),
		CorporateID: corporateID,
		SchoolName:  name,
		CreatedAt:   now,
	}
	if mentorID != "" {
		created.CreatedByMentorID = &mentorID
	}
	if err := r.PendingSchools.Create(ctx, created); err != nil {
		return entity.SchoolLink{}, err
	}
	return entity.PendingSchoolLink(created.ID), nil
}
