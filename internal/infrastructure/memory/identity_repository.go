package memory

import (
	"context"
	"strings"

	"github.com/jhoicas/Mentoria-api/internal/domain"
	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
	"github.com/jhoicas/Mentoria-api/internal/domain/repository"
)

var _ repository.IdentityRepository = (*IdentityRepository)(nil)

// IdentityRepository identidades en memoria. El email es único sin distinguir mayúsculas.
type IdentityRepository struct {
	s *Store
}

// NewIdentityRepository construye el repositorio.
func NewIdentityRepository(s *Store) *IdentityRepository {
	return &IdentityRepository{s: s}
}

func (r *IdentityRepository) Create(_ context.Context, identity *entity.Identity) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.identities {
		if strings.EqualFold(existing.Email, identity.Email) {
			return domain.ErrDuplicate
		}
	}
	if _, ok := r.s.identities[identity.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.identities[identity.ID] = *identity
	return nil
}

func (r *IdentityRepository) GetByID(_ context.Context, id string) (*entity.Identity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	identity, ok := r.s.identities[id]
	if !ok {
		return nil, nil
	}
	return &identity, nil
}

func (r *IdentityRepository) GetByEmail(_ context.Context, email string) (*entity.Identity, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, identity := range r.s.identities {
		if strings.EqualFold(identity.Email, email) {
			out := identity
			return &out, nil
		}
	}
	return nil, nil
}

// Delete borra la identidad y, como el ON DELETE CASCADE de postgres, su rol y perfiles.
func (r *IdentityRepository) Delete(_ context.Context, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.identities[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.identities, id)
	delete(r.s.roles, id)
	for k, v := range r.s.corporates {
		if v.UserID == id {
			delete(r.s.corporates, k)
		}
	}
	for k, v := range r.s.schools {
		if v.UserID == id {
			delete(r.s.schools, k)
		}
	}
	for k, v := range r.s.mentors {
		if v.UserID == id {
			delete(r.s.mentors, k)
		}
	}
	return nil
}
