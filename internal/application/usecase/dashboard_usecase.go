package usecase

import (
	"context"

	"github.com/jhoicas/Mentoria-api/internal/application/dto"
	"github.com/jhoicas/Mentoria-api/internal/application/invitation"
	"github.com/jhoicas/Mentoria-api/internal/domain"
	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
	"github.com/jhoicas/Mentoria-api/internal/domain/repository"
)

// LinkBuilder construye los enlaces de invitación de un corporate.
type LinkBuilder interface {
	InvitationLinks(corporateID string) dto.InvitationLinks
}

// DashboardUseCase datos de los tres paneles, uno por rol.
type DashboardUseCase struct {
	corporates repository.CorporateRepository
	schools    repository.SchoolRepository
	pending    repository.PendingSchoolRepository
	mentors    repository.MentorRepository
	links      LinkBuilder
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	corporates repository.CorporateRepository,
	schools repository.SchoolRepository,
	pending repository.PendingSchoolRepository,
	mentors repository.MentorRepository,
	links LinkBuilder,
) *DashboardUseCase {
	return &DashboardUseCase{corporates: corporates, schools: schools, pending: pending, mentors: mentors, links: links}
}

// Corporate panel del corporate del usuario: enlaces, mentores, colegios y pendientes.
func (uc *DashboardUseCase) Corporate(ctx context.Context, userID string) (*dto.CorporateDashboard, error) {
	corp, err := uc.corporates.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if corp == nil {
		return nil, domain.ErrNotFound
	}

	mentors, err := uc.mentors.ListByCorporate(ctx, corp.ID)
	if err != nil {
		return nil, err
	}
	schools, err := uc.schools.ListByCorporate(ctx, corp.ID)
	if err != nil {
		return nil, err
	}
	pending, err := uc.pending.ListByCorporate(ctx, corp.ID)
	if err != nil {
		return nil, err
	}

	out := &dto.CorporateDashboard{
		Corporate:      invitation.ToCorporateResponse(corp),
		Links:          uc.links.InvitationLinks(corp.ID),
		Mentors:        make([]dto.MentorResponse, 0, len(mentors)),
		Schools:        make([]dto.SchoolResponse, 0, len(schools)),
		PendingSchools: make([]dto.PendingSchoolResponse, 0, len(pending)),
	}
	for _, m := range mentors {
		out.Mentors = append(out.Mentors, invitation.ToMentorResponse(m))
	}
	for _, s := range schools {
		out.Schools = append(out.Schools, invitation.ToSchoolResponse(s))
	}
	for _, p := range pending {
		if !p.Superseded() {
			out.PendingSchools = append(out.PendingSchools, invitation.ToPendingSchoolResponse(p))
		}
	}
	return out, nil
}

// School panel del colegio: sus datos y los mentores asignados.
func (uc *DashboardUseCase) School(ctx context.Context, userID string) (*dto.SchoolDashboard, error) {
	school, err := uc.schools.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if school == nil {
		return nil, domain.ErrNotFound
	}
	mentors, err := uc.mentors.ListBySchool(ctx, school.ID)
	if err != nil {
		return nil, err
	}

	out := &dto.SchoolDashboard{
		School:  invitation.ToSchoolResponse(school),
		Mentors: make([]dto.MentorResponse, 0, len(mentors)),
	}
	if school.CorporateID != nil {
		out.CorporateName = uc.corporateName(ctx, *school.CorporateID)
	}
	for _, m := range mentors {
		out.Mentors = append(out.Mentors, invitation.ToMentorResponse(m))
	}
	return out, nil
}

// Mentor panel del mentor: su perfil y el estado de su colegio.
func (uc *DashboardUseCase) Mentor(ctx context.Context, userID string) (*dto.MentorDashboard, error) {
	mentor, err := uc.mentors.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if mentor == nil {
		return nil, domain.ErrNotFound
	}

	out := &dto.MentorDashboard{
		Mentor:       invitation.ToMentorResponse(mentor),
		SchoolStatus: "unassigned",
	}
	if mentor.CorporateID != nil {
		out.CorporateName = uc.corporateName(ctx, *mentor.CorporateID)
	}

	switch mentor.School.Kind() {
	case entity.SchoolLinkRegistered:
		out.SchoolStatus = "registered"
		school, err := uc.schools.GetByID(ctx, *mentor.School.SchoolID())
		if err != nil {
			return nil, err
		}
		if school != nil {
			out.SchoolName = school.SchoolName
		}
	case entity.SchoolLinkPending:
		out.SchoolStatus = "pending"
		pending, err := uc.pending.GetByID(ctx, *mentor.School.PendingSchoolID())
		if err != nil {
			return nil, err
		}
		if pending != nil {
			out.SchoolName = pending.SchoolName
		}
	}
	return out, nil
}

func (uc *DashboardUseCase) corporateName(ctx context.Context, corporateID string) string {
	corp, err := uc.corporates.GetByID(ctx, corporateID)
	if err != nil || corp == nil {
		return ""
	}
	return corp.CompanyName
}
