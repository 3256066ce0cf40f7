package repository

import (
	"context"

	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
)

// MentorRepository puerto de persistencia para MentorProfile.
type MentorRepository interface {
	Create(ctx context.Context, mentor *entity.MentorProfile) error
	GetByID(ctx context.Context, id string) (*entity.MentorProfile, error)
	GetByUserID(ctx context.Context, userID string) (*entity.MentorProfile, error)
	ListByCorporate(ctx context.Context, corporateID string) ([]*entity.MentorProfile, error)
	ListBySchool(ctx context.Context, schoolID string) ([]*entity.MentorProfile, error)
	// SetSchoolLink escribe school_id y pending_school_id en una sola sentencia.
	SetSchoolLink(ctx context.Context, mentorID string, link entity.SchoolLink) error
	// RelinkPendingSchool mueve a todos los mentores de un pendiente al colegio registrado.
	RelinkPendingSchool(ctx context.Context, pendingSchoolID, schoolID string) (int64, error)
}
