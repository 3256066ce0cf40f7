package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/Mentoria-api/internal/domain"
	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
	"github.com/jhoicas/Mentoria-api/internal/domain/repository"
)

var _ repository.MentorRepository = (*MentorRepository)(nil)

// MentorRepository mentor_profiles en memoria.
type MentorRepository struct {
	s *Store
}

// NewMentorRepository construye el repositorio.
func NewMentorRepository(s *Store) *MentorRepository {
	return &MentorRepository{s: s}
}

func (r *MentorRepository) Create(_ context.Context, m *entity.MentorProfile) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.mentors[m.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.mentors[m.ID] = *m
	return nil
}

func (r *MentorRepository) GetByID(_ context.Context, id string) (*entity.MentorProfile, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.mentors[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

func (r *MentorRepository) GetByUserID(_ context.Context, userID string) (*entity.MentorProfile, error) {
	list := r.filter(func(m entity.MentorProfile) bool { return m.UserID == userID })
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

func (r *MentorRepository) ListByCorporate(_ context.Context, corporateID string) ([]*entity.MentorProfile, error) {
	return r.filter(func(m entity.MentorProfile) bool {
		return m.CorporateID != nil && *m.CorporateID == corporateID
	}), nil
}

func (r *MentorRepository) ListBySchool(_ context.Context, schoolID string) ([]*entity.MentorProfile, error) {
	return r.filter(func(m entity.MentorProfile) bool {
		id := m.School.SchoolID()
		return id != nil && *id == schoolID
	}), nil
}

func (r *MentorRepository) SetSchoolLink(_ context.Context, mentorID string, link entity.SchoolLink) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.mentors[mentorID]
	if !ok {
		return domain.ErrNotFound
	}
	m.School = link
	r.s.mentors[mentorID] = m
	return nil
}

func (r *MentorRepository) RelinkPendingSchool(_ context.Context, pendingSchoolID, schoolID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, m := range r.s.mentors {
		if p := m.School.PendingSchoolID(); p != nil && *p == pendingSchoolID {
			m.School = entity.RegisteredSchool(schoolID)
			r.s.mentors[id] = m
			n++
		}
	}
	return n, nil
}

func (r *MentorRepository) filter(keep func(entity.MentorProfile) bool) []*entity.MentorProfile {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.MentorProfile, 0)
	for _, m := range r.s.mentors {
		if keep(m) {
			mm := m
			out = append(out, &mm)
		}
	}
	sort.Slice(out, func(i, j int) bool { return before(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out
}
