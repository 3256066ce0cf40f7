package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
)

// SchoolRepository colegios registrados. Las búsquedas por nombre comparan entity.SchoolNameKey.
type SchoolRepository interface {
	Create(ctx context.Context, school *entity.SchoolProfile) error
	GetByID(ctx context.Context, id string) (*entity.SchoolProfile, error)
	GetByUserID(ctx context.Context, userID string) (*entity.SchoolProfile, error)
	FindByCorporateAndName(ctx context.Context, corporateID, schoolName string) (*entity.SchoolProfile, error)
	ListByCorporate(ctx context.Context, corporateID string) ([]*entity.SchoolProfile, error)
}

// PendingSchoolRepository colegios pendientes, siempre acotados a un corporate.
type PendingSchoolRepository interface {
	Create(ctx context.Context, pending *entity.PendingSchool) error
	GetByID(ctx context.Context, id string) (*entity.PendingSchool, error)
	// FindActiveByCorporateAndName ignora los pendientes ya reemplazados por un registro.
	FindActiveByCorporateAndName(ctx context.Context, corporateID, schoolName string) (*entity.PendingSchool, error)
	ListByCorporate(ctx context.Context, corporateID string) ([]*entity.PendingSchool, error)
	Supersede(ctx context.Context, pendingID, schoolID string) error
	// MarkInvited sella invited_email / invited_at.
	MarkInvited(ctx context.Context, pendingID, email string, at time.Time) error
}

// SchoolDirectoryRepository espacio plano de nombres de colegio (sugerencias).
type SchoolDirectoryRepository interface {
	// Upsert inserta el nombre si su clave no existe y devuelve la entrada resultante.
	Upsert(ctx context.Context, schoolName string) (*entity.SchoolDirectoryEntry, error)
	Search(ctx context.Context, query string, limit int) ([]*entity.SchoolDirectoryEntry, error)
}
