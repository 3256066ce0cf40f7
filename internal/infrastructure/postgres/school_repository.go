package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Mentoria-api/internal/domain"
	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
	"github.com/jhoicas/Mentoria-api/internal/domain/repository"
)

var (
	_ repository.SchoolRepository          = (*SchoolRepo)(nil)
	_ repository.PendingSchoolRepository   = (*PendingSchoolRepo)(nil)
	_ repository.SchoolDirectoryRepository = (*SchoolDirectoryRepo)(nil)
)

// ── school_profiles ──────────────────────────────────────────────────────────

// SchoolRepo colegios registrados. school_name_key se calcula con entity.SchoolNameKey al escribir.
type SchoolRepo struct {
	db Querier
}

// NewSchoolRepository construye el adaptador.
func NewSchoolRepository(db Querier) *SchoolRepo {
	return &SchoolRepo{db: db}
}

const schoolColumns = `id, user_id, corporate_id, school_name, school_type, location, student_count,
	fsm_percentage, contact_name, contact_role, phone, created_at`

func (r *SchoolRepo) Create(ctx context.Context, s *entity.SchoolProfile) error {
	query := `
		INSERT INTO school_profiles (id, user_id, corporate_id, school_name, school_name_key, school_type,
			location, student_count, fsm_percentage, contact_name, contact_role, phone, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.db.Exec(ctx, query,
		s.ID, s.UserID, s.CorporateID, s.SchoolName, entity.SchoolNameKey(s.SchoolName), s.SchoolType,
		s.Location, s.StudentCount, s.FSMPercentage, s.ContactName, s.ContactRole, s.Phone, s.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert school profile: %w", err)
	}
	return nil
}

func (r *SchoolRepo) GetByID(ctx context.Context, id string) (*entity.SchoolProfile, error) {
	return getOne(ctx, r.db, scanSchool, "get school by id",
		`SELECT `+schoolColumns+` FROM school_profiles WHERE id = $1`, id)
}

func (r *SchoolRepo) GetByUserID(ctx context.Context, userID string) (*entity.SchoolProfile, error) {
	return getOne(ctx, r.db, scanSchool, "get school by user",
		`SELECT `+schoolColumns+` FROM school_profiles WHERE user_id = $1`, userID)
}

// FindByCorporateAndName el registro más antiguo con la misma clave de nombre dentro del corporate.
func (r *SchoolRepo) FindByCorporateAndName(ctx context.Context, corporateID, schoolName string) (*entity.SchoolProfile, error) {
	return getOne(ctx, r.db, scanSchool, "find school by name",
		`SELECT `+schoolColumns+` FROM school_profiles
		 WHERE corporate_id = $1 AND school_name_key = $2
		 ORDER BY created_at, id LIMIT 1`,
		corporateID, entity.SchoolNameKey(schoolName))
}

func (r *SchoolRepo) ListByCorporate(ctx context.Context, corporateID string) ([]*entity.SchoolProfile, error) {
	return getMany(ctx, r.db, scanSchool, "list schools by corporate",
		`SELECT `+schoolColumns+` FROM school_profiles WHERE corporate_id = $1 ORDER BY created_at, id`,
		corporateID)
}

func scanSchool(row pgxScanner) (*entity.SchoolProfile, error) {
	var s entity.SchoolProfile
	err := row.Scan(&s.ID, &s.UserID, &s.CorporateID, &s.SchoolName, &s.SchoolType, &s.Location,
		&s.StudentCount, &s.FSMPercentage, &s.ContactName, &s.ContactRole, &s.Phone, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// ── pending_schools ──────────────────────────────────────────────────────────

// PendingSchoolRepo colegios pendientes acotados a un corporate.
type PendingSchoolRepo struct {
	db Querier
}

// NewPendingSchoolRepository construye el adaptador.
func NewPendingSchoolRepository(db Querier) *PendingSchoolRepo {
	return &PendingSchoolRepo{db: db}
}

const pendingColumns = `id, corporate_id, created_by_mentor_id, school_name, invited_email, invited_at,
	superseded_by_school_id, created_at`

func (r *PendingSchoolRepo) Create(ctx context.Context, p *entity.PendingSchool) error {
	query := `
		INSERT INTO pending_schools (id, corporate_id, created_by_mentor_id, school_name, school_name_key,
			invited_email, invited_at, superseded_by_school_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query,
		p.ID, p.CorporateID, p.CreatedByMentorID, p.SchoolName, entity.SchoolNameKey(p.SchoolName),
		p.InvitedEmail, p.InvitedAt, p.SupersededBySchoolID, p.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert pending school: %w", err)
	}
	return nil
}

func (r *PendingSchoolRepo) GetByID(ctx context.Context, id string) (*entity.PendingSchool, error) {
	return getOne(ctx, r.db, scanPending, "get pending school by id",
		`SELECT `+pendingColumns+` FROM pending_schools WHERE id = $1`, id)
}

func (r *PendingSchoolRepo) FindActiveByCorporateAndName(ctx context.Context, corporateID, schoolName string) (*entity.PendingSchool, error) {
	return getOne(ctx, r.db, scanPending, "find pending school by name",
		`SELECT `+pendingColumns+` FROM pending_schools
		 WHERE corporate_id = $1 AND school_name_key = $2 AND superseded_by_school_id IS NULL
		 ORDER BY created_at, id LIMIT 1`,
		corporateID, entity.SchoolNameKey(schoolName))
}

func (r *PendingSchoolRepo) ListByCorporate(ctx context.Context, corporateID string) ([]*entity.PendingSchool, error) {
	return getMany(ctx, r.db, scanPending, "list pending schools",
		`SELECT `+pendingColumns+` FROM pending_schools WHERE corporate_id = $1 ORDER BY created_at, id`,
		corporateID)
}

func (r *PendingSchoolRepo) Supersede(ctx context.Context, pendingID, schoolID string) error {
	return r.update(ctx, "supersede pending school",
		`UPDATE pending_schools SET superseded_by_school_id = $2 WHERE id = $1`, pendingID, schoolID)
}

func (r *PendingSchoolRepo) MarkInvited(ctx context.Context, pendingID, email string, at time.Time) error {
	return r.update(ctx, "mark pending school invited",
		`UPDATE pending_schools SET invited_email = $2, invited_at = $3 WHERE id = $1`, pendingID, email, at)
}

func (r *PendingSchoolRepo) update(ctx context.Context, what, query string, args ...any) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if isInvalidText(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("%s: %w", what, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanPending(row pgxScanner) (*entity.PendingSchool, error) {
	var p entity.PendingSchool
	err := row.Scan(&p.ID, &p.CorporateID, &p.CreatedByMentorID, &p.SchoolName, &p.InvitedEmail,
		&p.InvitedAt, &p.SupersededBySchoolID, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ── school_directory ─────────────────────────────────────────────────────────

// SchoolDirectoryRepo nombres conocidos de colegio para sugerencias.
type SchoolDirectoryRepo struct {
	db Querier
}

// NewSchoolDirectoryRepository construye el adaptador.
func NewSchoolDirectoryRepository(db Querier) *SchoolDirectoryRepo {
	return &SchoolDirectoryRepo{db: db}
}

// Upsert el DO UPDATE vacío hace que RETURNING devuelva también la fila existente.
func (r *SchoolDirectoryRepo) Upsert(ctx context.Context, schoolName string) (*entity.SchoolDirectoryEntry, error) {
	name := entity.CleanSchoolName(schoolName)
	key := entity.SchoolNameKey(name)
	if key == "" {
		return nil, domain.ErrInvalidInput
	}
	query := `
		INSERT INTO school_directory (id, school_name, school_name_key, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (school_name_key) DO UPDATE SET school_name_key = EXCLUDED.school_name_key
		RETURNING id, school_name, created_at`
	var e entity.SchoolDirectoryEntry
	err := r.db.QueryRow(ctx, query, newID(), name, key, time.Now()).Scan(&e.ID, &e.SchoolName, &e.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("upsert school directory: %w", err)
	}
	return &e, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Search coincidencias por subcadena de la clave; primero las que empiezan por la consulta.
func (r *SchoolDirectoryRepo) Search(ctx context.Context, query string, limit int) ([]*entity.SchoolDirectoryEntry, error) {
	q := likeEscaper.Replace(entity.SchoolNameKey(query))
	if limit <= 0 {
		limit = 10
	}
	return getMany(ctx, r.db, scanDirectoryEntry, "search school directory",
		`SELECT id, school_name, created_at FROM school_directory
		 WHERE school_name_key LIKE '%' || $1 || '%'
		 ORDER BY (school_name_key LIKE $1 || '%') DESC, school_name_key
		 LIMIT $2`,
		q, limit)
}

func scanDirectoryEntry(row pgxScanner) (*entity.SchoolDirectoryEntry, error) {
	var e entity.SchoolDirectoryEntry
	if err := row.Scan(&e.ID, &e.SchoolName, &e.CreatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}
