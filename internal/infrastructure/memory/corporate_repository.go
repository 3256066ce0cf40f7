package memory

import (
	"context"

	"github.com/jhoicas/Mentoria-api/internal/domain"
	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
	"github.com/jhoicas/Mentoria-api/internal/domain/repository"
)

var _ repository.CorporateRepository = (*CorporateRepository)(nil)

// CorporateRepository corporate_profiles en memoria.
type CorporateRepository struct {
	s *Store
}

// NewCorporateRepository construye el repositorio.
func NewCorporateRepository(s *Store) *CorporateRepository {
	return &CorporateRepository{s: s}
}

func (r *CorporateRepository) Create(_ context.Context, c *entity.CorporateProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.corporates[c.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, existing := range r.s.corporates {
		if existing.UserID == c.UserID {
			return domain.ErrDuplicate
		}
	}
	r.s.corporates[c.ID] = *c
	return nil
}

func (r *CorporateRepository) GetByID(_ context.Context, id string) (*entity.CorporateProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.corporates[id]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (r *CorporateRepository) GetByUserID(_ context.Context, userID string) (*entity.CorporateProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, c := range r.s.corporates {
		if c.UserID == userID {
			out := c
			return &out, nil
		}
	}
	return nil, nil
}
