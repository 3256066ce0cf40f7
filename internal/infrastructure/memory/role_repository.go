package memory

import (
	"context"

	"github.com/jhoicas/Mentoria-api/internal/domain"
	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
	"github.com/jhoicas/Mentoria-api/internal/domain/repository"
)

var _ repository.RoleRepository = (*RoleRepository)(nil)

// RoleRepository user_roles en memoria (una fila por usuario).
type RoleRepository struct {
	s *Store
}

// NewRoleRepository construye el repositorio.
func NewRoleRepository(s *Store) *RoleRepository {
	return &RoleRepository{s: s}
}

func (r *RoleRepository) Assign(_ context.Context, a *entity.RoleAssignment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.roles[a.UserID]; ok {
		return domain.ErrDuplicate
	}
	r.s.roles[a.UserID] = *a
	return nil
}

func (r *RoleRepository) FindByUserID(_ context.Context, userID string) (*entity.RoleAssignment, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	a, ok := r.s.roles[userID]
	if !ok {
		return nil, nil
	}
	return &a, nil
}
