package repository

import (
	"context"

	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
)

// RoleRepository puerto de persistencia de user_roles.
type RoleRepository interface {
	// Assign inserta la asignación. Devuelve domain.ErrDuplicate si el usuario ya tiene rol.
	Assign(ctx context.Context, assignment *entity.RoleAssignment) error
	// FindByUserID devuelve (nil, nil) si el usuario no tiene rol todavía.
	FindByUserID(ctx context.Context, userID string) (*entity.RoleAssignment, error)
}
