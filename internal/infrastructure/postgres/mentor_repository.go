package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Mentoria-api/internal/domain"
	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
	"github.com/jhoicas/Mentoria-api/internal/domain/repository"
)

var _ repository.MentorRepository = (*MentorRepo)(nil)

// MentorRepo mentor_profiles. El vínculo con el colegio se guarda en school_id / pending_school_id;
// el CHECK mentor_profiles_one_school impide informar ambas.
type MentorRepo struct {
	db Querier
}

// NewMentorRepository construye el adaptador.
func NewMentorRepository(db Querier) *MentorRepo {
	return &MentorRepo{db: db}
}

const mentorColumns = `id, user_id, corporate_id, full_name, company, job_title, background_info,
	school_id, pending_school_id, created_at`

func (r *MentorRepo) Create(ctx context.Context, m *entity.MentorProfile) error {
	query := `
		INSERT INTO mentor_profiles (` + mentorColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Exec(ctx, query,
		m.ID, m.UserID, m.CorporateID, m.FullName, m.Company, m.JobTitle, m.BackgroundInfo,
		m.School.SchoolID(), m.School.PendingSchoolID(), m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert mentor profile: %w", err)
	}
	return nil
}

func (r *MentorRepo) GetByID(ctx context.Context, id string) (*entity.MentorProfile, error) {
	return getOne(ctx, r.db, scanMentor, "get mentor by id",
		`SELECT `+mentorColumns+` FROM mentor_profiles WHERE id = $1`, id)
}

func (r *MentorRepo) GetByUserID(ctx context.Context, userID string) (*entity.MentorProfile, error) {
	return getOne(ctx, r.db, scanMentor, "get mentor by user",
		`SELECT `+mentorColumns+` FROM mentor_profiles WHERE user_id = $1`, userID)
}

func (r *MentorRepo) ListByCorporate(ctx context.Context, corporateID string) ([]*entity.MentorProfile, error) {
	return getMany(ctx, r.db, scanMentor, "list mentors by corporate",
		`SELECT `+mentorColumns+` FROM mentor_profiles WHERE corporate_id = $1 ORDER BY created_at, id`,
		corporateID)
}

func (r *MentorRepo) ListBySchool(ctx context.Context, schoolID string) ([]*entity.MentorProfile, error) {
	return getMany(ctx, r.db, scanMentor, "list mentors by school",
		`SELECT `+mentorColumns+` FROM mentor_profiles WHERE school_id = $1 ORDER BY created_at, id`,
		schoolID)
}

// SetSchoolLink ambas columnas en un único UPDATE.
func (r *MentorRepo) SetSchoolLink(ctx context.Context, mentorID string, link entity.SchoolLink) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE mentor_profiles SET school_id = $2, pending_school_id = $3 WHERE id = $1`,
		mentorID, link.SchoolID(), link.PendingSchoolID())
	if err != nil {
		if isInvalidText(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("set mentor school link: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *MentorRepo) RelinkPendingSchool(ctx context.Context, pendingSchoolID, schoolID string) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE mentor_profiles SET school_id = $2, pending_school_id = NULL WHERE pending_school_id = $1`,
		pendingSchoolID, schoolID)
	if err != nil {
		return 0, fmt.Errorf("relink pending school mentors: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanMentor(row pgxScanner) (*entity.MentorProfile, error) {
	var m entity.MentorProfile
	var schoolID, pendingID *string
	err := row.Scan(&m.ID, &m.UserID, &m.CorporateID, &m.FullName, &m.Company, &m.JobTitle,
		&m.BackgroundInfo, &schoolID, &pendingID, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	link, err := entity.SchoolLinkFromColumns(schoolID, pendingID)
	if err != nil {
		return nil, fmt.Errorf("mentor %s: %w", m.ID, err)
	}
	m.School = link
	return &m, nil
}
