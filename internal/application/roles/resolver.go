// Package roles resuelve el rol asignado a una identidad autenticada.
package roles

import (
	"context"
	"fmt"

	"github.com/jhoicas/Mentoria-api/internal/domain"
	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
	"github.com/jhoicas/Mentoria-api/internal/domain/repository"
	"github.com/jhoicas/Mentoria-api/pkg/metrics"
)

// Resolver consulta user_roles.
type Resolver struct {
	repo repository.RoleRepository
}

// NewResolver construye el resolver con el puerto de persistencia.
func NewResolver(repo repository.RoleRepository) *Resolver {
	return &Resolver{repo: repo}
}

// ResolveRole devuelve el rol del usuario, o (nil, nil) si todavía no tiene ninguno
// (identidad creada pero perfil sin completar). Un fallo de la consulta se devuelve
// envuelto en domain.ErrRoleLookup.
func (r *Resolver) ResolveRole(ctx context.Context, userID string) (*entity.Role, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userID vacío", domain.ErrInvalidInput)
	}
	assignment, err := r.repo.FindByUserID(ctx, userID)
	if err != nil {
		metrics.RoleLookupErrors.Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrRoleLookup, err)
	}
	if assignment == nil {
		return nil, nil
	}
	role, err := entity.ParseRole(string(assignment.Role))
	if err != nil {
		metrics.RoleLookupErrors.Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrRoleLookup, err)
	}
	return &role, nil
}
