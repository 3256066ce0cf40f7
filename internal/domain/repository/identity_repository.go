package repository

import (
	"context"

	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
)

// IdentityRepository puerto de persistencia de identidades (credenciales).
// Los Get* devuelven (nil, nil) cuando no existe el registro.
type IdentityRepository interface {
	Create(ctx context.Context, identity *entity.Identity) error
	GetByID(ctx context.Context, id string) (*entity.Identity, error)
	GetByEmail(ctx context.Context, email string) (*entity.Identity, error)
	Delete(ctx context.Context, id string) error
}
