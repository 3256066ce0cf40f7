package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Mentoria-api/internal/domain"
	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
	"github.com/jhoicas/Mentoria-api/internal/domain/repository"
)

var (
	_ repository.SchoolRepository          = (*SchoolRepository)(nil)
	_ repository.PendingSchoolRepository   = (*PendingSchoolRepository)(nil)
	_ repository.SchoolDirectoryRepository = (*SchoolDirectoryRepository)(nil)
)

// SchoolRepository school_profiles en memoria.
type SchoolRepository struct {
	s *Store
}

// NewSchoolRepository construye el repositorio.
func NewSchoolRepository(s *Store) *SchoolRepository {
	return &SchoolRepository{s: s}
}

func (r *SchoolRepository) Create(_ context.Context, school *entity.SchoolProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.schools[school.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.schools[school.ID] = *school
	return nil
}

func (r *SchoolRepository) GetByID(_ context.Context, id string) (*entity.SchoolProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	school, ok := r.s.schools[id]
	if !ok {
		return nil, nil
	}
	return &school, nil
}

func (r *SchoolRepository) GetByUserID(_ context.Context, userID string) (*entity.SchoolProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, school := range r.s.schools {
		if school.UserID == userID {
			out := school
			return &out, nil
		}
	}
	return nil, nil
}

// FindByCorporateAndName devuelve el registro más antiguo si hubiera varios.
func (r *SchoolRepository) FindByCorporateAndName(_ context.Context, corporateID, schoolName string) (*entity.SchoolProfile, error) {
	key := entity.SchoolNameKey(schoolName)
	list := r.filter(func(s entity.SchoolProfile) bool {
		return s.CorporateID != nil && *s.CorporateID == corporateID && entity.SchoolNameKey(s.SchoolName) == key
	})
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (r *SchoolRepository) ListByCorporate(_ context.Context, corporateID string) ([]*entity.SchoolProfile, error) {
	return r.filter(func(s entity.SchoolProfile) bool {
		return s.CorporateID != nil && *s.CorporateID == corporateID
	}), nil
}

func (r *SchoolRepository) filter(keep func(entity.SchoolProfile) bool) []*entity.SchoolProfile {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.SchoolProfile, 0)
	for _, school := range r.s.schools {
		if keep(school) {
			sc := school
			out = append(out, &sc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return before(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out
}

// PendingSchoolRepository pending_schools en memoria.
type PendingSchoolRepository struct {
	s *Store
}

// NewPendingSchoolRepository construye el repositorio.
func NewPendingSchoolRepository(s *Store) *PendingSchoolRepository {
	return &PendingSchoolRepository{s: s}
}

func (r *PendingSchoolRepository) Create(_ context.Context, p *entity.PendingSchool) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.pending[p.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.pending[p.ID] = *p
	return nil
}

func (r *PendingSchoolRepository) GetByID(_ context.Context, id string) (*entity.PendingSchool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.pending[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (r *PendingSchoolRepository) FindActiveByCorporateAndName(_ context.Context, corporateID, schoolName string) (*entity.PendingSchool, error) {
	key := entity.SchoolNameKey(schoolName)
	list := r.filter(func(p entity.PendingSchool) bool {
		return p.CorporateID == corporateID && !p.Superseded() && entity.SchoolNameKey(p.SchoolName) == key
	})
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (r *PendingSchoolRepository) ListByCorporate(_ context.Context, corporateID string) ([]*entity.PendingSchool, error) {
	return r.filter(func(p entity.PendingSchool) bool { return p.CorporateID == corporateID }), nil
}

func (r *PendingSchoolRepository) Supersede(_ context.Context, pendingID, schoolID string) error {
	return r.update(pendingID, func(p *entity.PendingSchool) {
		p.SupersededBySchoolID = &schoolID
	})
}

func (r *PendingSchoolRepository) MarkInvited(_ context.Context, pendingID, email string, at time.Time) error {
	return r.update(pendingID, func(p *entity.PendingSchool) {
		p.InvitedEmail = &email
		p.InvitedAt = &at
	})
}

func (r *PendingSchoolRepository) update(id string, fn func(*entity.PendingSchool)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.pending[id]
	if !ok {
		return domain.ErrNotFound
	}
	fn(&p)
	r.s.pending[id] = p
	return nil
}

func (r *PendingSchoolRepository) filter(keep func(entity.PendingSchool) bool) []*entity.PendingSchool {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.PendingSchool, 0)
	for _, p := range r.s.pending {
		if keep(p) {
			pp := p
			out = append(out, &pp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return before(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out
}

// SchoolDirectoryRepository school_directory en memoria, indexado por SchoolNameKey.
type SchoolDirectoryRepository struct {
	s *Store
}

// NewSchoolDirectoryRepository construye el repositorio.
func NewSchoolDirectoryRepository(s *Store) *SchoolDirectoryRepository {
	return &SchoolDirectoryRepository{s: s}
}

func (r *SchoolDirectoryRepository) Upsert(_ context.Context, schoolName string) (*entity.SchoolDirectoryEntry, error) {
	name := entity.CleanSchoolName(schoolName)
	key := entity.SchoolNameKey(name)
	if key == "" {
		return nil, domain.ErrInvalidInput
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if e, ok := r.s.directory[key]; ok {
		return &e, nil
	}
	e := entity.SchoolDirectoryEntry{ID: uuid.New().String(), SchoolName: name, CreatedAt: time.Now()}
	r.s.directory[key] = e
	return &e, nil
}

// Search coincidencias por subcadena de la clave; primero las que empiezan por la consulta.
func (r *SchoolDirectoryRepository) Search(_ context.Context, query string, limit int) ([]*entity.SchoolDirectoryEntry, error) {
	q := entity.SchoolNameKey(query)
	r.s.mu.RLock()
	type hit struct {
		e      entity.SchoolDirectoryEntry
		key    string
		prefix bool
	}
	hits := make([]hit, 0)
	for key, e := range r.s.directory {
		if q == "" || strings.Contains(key, q) {
			hits = append(hits, hit{e: e, key: key, prefix: strings.HasPrefix(key, q)})
		}
	}
	r.s.mu.RUnlock()

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].prefix != hits[j].prefix {
			return hits[i].prefix
		}
		return hits[i].key < hits[j].key
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	out := make([]*entity.SchoolDirectoryEntry, 0, len(hits))
	for _, h := range hits {
		e := h.e
		out = append(out, &e)
	}
	return out, nil
}

func before(a, b time.Time, idA, idB string) bool {
	if !a.Equal(b) {
		return a.Before(b)
	}
	return idA < idB
}
