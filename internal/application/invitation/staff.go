package invitation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Mentoria-api/internal/application/dto"
	"github.com/jhoicas/Mentoria-api/internal/application/notification"
	"github.com/jhoicas/Mentoria-api/internal/domain"
	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
)

// CorporateForUser perfil de corporate del usuario autenticado.
func (s *Service) CorporateForUser(ctx context.Context, userID string) (*entity.CorporateProfile, error) {
	corp, err := s.repos.Corporates.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if corp == nil {
		return nil, domain.ErrNotFound
	}
	return corp, nil
}

// ListMentors mentores del corporate.
func (s *Service) ListMentors(ctx context.Context, corporateID string) ([]dto.MentorResponse, error) {
	list, err := s.repos.Mentors.ListByCorporate(ctx, corporateID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MentorResponse, 0, len(list))
	for _, m := range list {
		out = append(out, ToMentorResponse(m))
	}
	return out, nil
}

// ListSchools colegios registrados del corporate.
func (s *Service) ListSchools(ctx context.Context, corporateID string) ([]dto.SchoolResponse, error) {
	list, err := s.repos.Schools.ListByCorporate(ctx, corporateID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SchoolResponse, 0, len(list))
	for _, sc := range list {
		out = append(out, ToSchoolResponse(sc))
	}
	return out, nil
}

// ListPendingSchools colegios pendientes (no reemplazados) del corporate.
func (s *Service) ListPendingSchools(ctx context.Context, corporateID string) ([]dto.PendingSchoolResponse, error) {
	list, err := s.repos.PendingSchools.ListByCorporate(ctx, corporateID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PendingSchoolResponse, 0, len(list))
	for _, p := range list {
		if p.Superseded() {
			continue
		}
		out = append(out, ToPendingSchoolResponse(p))
	}
	return out, nil
}

// AssignSchool (re)asigna el colegio de un mentor del corporate. Es el único punto de escritura del
// vínculo: deja exactamente uno de school_id / pending_school_id.
func (s *Service) AssignSchool(ctx context.Context, corporateID, mentorID string, choice dto.SchoolChoice) (*dto.MentorResponse, error) {
	if err := choice.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	mentor, err := s.repos.Mentors.GetByID(ctx, mentorID)
	if err != nil {
		return nil, err
	}
	if mentor == nil {
		return nil, domain.ErrNotFound
	}
	if mentor.CorporateID == nil || *mentor.CorporateID != corporateID {
		return nil, domain.ErrForbidden
	}

	now := time.Now()
	var invite *notification.Notification
	err = s.tx.Run(ctx, func(r Repos) error {
		link, err := s.chosenLink(ctx, r, corporateID, choice, now)
		if err != nil {
			return err
		}
		if link.Kind() == entity.SchoolLinkPending && choice.Kind == dto.SchoolChoiceNew && choice.Email != "" {
			n := s.schoolInvite(corporateID, choice.Email, entity.CleanSchoolName(choice.Name))
			invite = &n
		}
		mentor.School = link
		return r.Mentors.SetSchoolLink(ctx, mentor.ID, link)
	})
	if err != nil {
		return nil, err
	}
	if invite != nil {
		s.notifyAsync(*invite)
	}

	s.log.Info().
		Str("corporate_id", corporateID).
		Str("mentor_id", mentor.ID).
		Str("kind", choice.Kind).
		Msg("colegio asignado a mentor")
	resp := ToMentorResponse(mentor)
	return &resp, nil
}

func (s *Service) chosenLink(ctx context.Context, r Repos, corporateID string, choice dto.SchoolChoice, now time.Time) (entity.SchoolLink, error) {
	switch choice.Kind {
	case dto.SchoolChoiceRegistered:
		school, err := r.Schools.GetByID(ctx, choice.ID)
		if err != nil {
			return entity.SchoolLink{}, err
		}
		if school == nil {
			return entity.SchoolLink{}, domain.ErrNotFound
		}
		if school.CorporateID == nil || *school.CorporateID != corporateID {
			return entity.SchoolLink{}, domain.ErrForbidden
		}
		return entity.RegisteredSchool(school.ID), nil

	case dto.SchoolChoicePending:
		pending, err := r.PendingSchools.GetByID(ctx, choice.ID)
		if err != nil {
			return entity.SchoolLink{}, err
		}
		if pending == nil {
			return entity.SchoolLink{}, domain.ErrNotFound
		}
		if pending.CorporateID != corporateID {
			return entity.SchoolLink{}, domain.ErrForbidden
		}
		if pending.Superseded() {
			return entity.RegisteredSchool(*pending.SupersededBySchoolID), nil
		}
		return entity.PendingSchoolLink(pending.ID), nil

	case dto.SchoolChoiceNew:
		// un nombre que el corporate ya tiene registrado se vincula al colegio, sin invitación
		registered, err := r.Schools.FindByCorporateAndName(ctx, corporateID, entity.CleanSchoolName(choice.Name))
		if err != nil {
			return entity.SchoolLink{}, err
		}
		if registered != nil {
			return entity.RegisteredSchool(registered.ID), nil
		}
		pending, err := s.invitePending(ctx, r, corporateID, choice.Name, choice.Email, now)
		if err != nil {
			return entity.SchoolLink{}, err
		}
		return entity.PendingSchoolLink(pending.ID), nil
	}
	return entity.SchoolLink{}, domain.ErrInvalidInput
}

// InviteSchool invita un colegio por nombre y email: crea (o reutiliza) el pendiente del corporate,
// sella la invitación y envía el enlace de registro.
func (s *Service) InviteSchool(ctx context.Context, corporateID string, in dto.InviteSchoolRequest) (*dto.PendingSchoolResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	name := entity.CleanSchoolName(in.SchoolName)

	var pending *entity.PendingSchool
	err := s.tx.Run(ctx, func(r Repos) error {
		registered, err := r.Schools.FindByCorporateAndName(ctx, corporateID, name)
		if err != nil {
			return err
		}
		if registered != nil {
			return fmt.Errorf("%w: el colegio ya está registrado", domain.ErrConflict)
		}
		pending, err = s.invitePending(ctx, r, corporateID, name, in.Email, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}

	s.notifyAsync(s.schoolInvite(corporateID, in.Email, name))
	resp := ToPendingSchoolResponse(pending)
	return &resp, nil
}

// invitePending upsert en el directorio y pendiente nuevo o existente con la invitación sellada.
func (s *Service) invitePending(ctx context.Context, r Repos, corporateID, name, email string, now time.Time) (*entity.PendingSchool, error) {
	name = entity.CleanSchoolName(name)
	email = strings.TrimSpace(email)
	if _, err := r.Directory.Upsert(ctx, name); err != nil {
		return nil, err
	}

	pending, err := r.PendingSchools.FindActiveByCorporateAndName(ctx, corporateID, name)
	if err != nil {
		return nil, err
	}
	if pending == nil {
		pending = &entity.PendingSchool{
			ID:          newID(),
			CorporateID: corporateID,
			SchoolName:  name,
			CreatedAt:   now,
		}
		if email != "" {
			pending.InvitedEmail = &email
			pending.InvitedAt = &now
		}
		if err := r.PendingSchools.Create(ctx, pending); err != nil {
			return nil, err
		}
		return pending, nil
	}

	if email != "" {
		if err := r.PendingSchools.MarkInvited(ctx, pending.ID, email, now); err != nil {
			return nil, err
		}
		pending.InvitedEmail = &email
		pending.InvitedAt = &now
	}
	return pending, nil
}

func (s *Service) schoolInvite(corporateID, email, schoolName string) notification.Notification {
	return notification.Notification{
		Type:  notification.TypeSchoolInvite,
		Email: email,
		Data: map[string]string{
			notification.DataCorporateID: corporateID,
			notification.DataSchoolName:  schoolName,
			notification.DataSignupURL:   BuildSignupURL(s.cfg.PublicURL, SchoolSignupPath, corporateID),
		},
	}
}

// SendNotification envío manual de notificaciones por el staff del corporate. Solo admite la
// invitación a un colegio y el aviso de alta al propio corporate. Enlaces, corporateId y
// destinatario del aviso se construyen en el servidor; lo que llegue en data para esas claves se
// ignora.
func (s *Service) SendNotification(ctx context.Context, corp *entity.CorporateProfile, in dto.NotificationRequest) error {
	if err := in.Validate(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	typ, err := notification.ParseType(in.Type)
	if err != nil {
		return err
	}

	var n notification.Notification
	switch typ {
	case notification.TypeSchoolInvite:
		name := entity.CleanSchoolName(in.Data[notification.DataSchoolName])
		if strings.TrimSpace(in.Email) == "" || name == "" {
			return fmt.Errorf("%w: email y data.schoolName son obligatorios", domain.ErrInvalidInput)
		}
		n = s.schoolInvite(corp.ID, strings.TrimSpace(in.Email), name)
	case notification.TypeNewSignup:
		role, err := entity.ParseRole(in.Data[notification.DataRole])
		if err != nil || role == entity.RoleCorporate {
			return fmt.Errorf("%w: data.role debe ser mentor o school", domain.ErrInvalidInput)
		}
		n = s.newSignupNotice(corp.ID, role, in.Data[notification.DataName])
	default:
		return fmt.Errorf("%w: %s no se envía manualmente", domain.ErrForbidden, typ)
	}

	if err := s.notifier.Dispatch(ctx, n); err != nil {
		return err
	}
	s.log.Info().
		Str("corporate_id", corp.ID).
		Str("type", string(typ)).
		Msg("notificación enviada por el staff")
	return nil
}

// InvitationPack PDF con los enlaces (y QR) de registro del corporate.
func (s *Service) InvitationPack(ctx context.Context, corporateID string) ([]byte, error) {
	corp, err := s.repos.Corporates.GetByID(ctx, corporateID)
	if err != nil {
		return nil, err
	}
	if corp == nil {
		return nil, domain.ErrNotFound
	}
	return s.pack.GenerateInvitationPack(corp, s.InvitationLinks(corp.ID))
}
