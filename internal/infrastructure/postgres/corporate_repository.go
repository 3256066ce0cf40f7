package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Mentoria-api/internal/domain"
	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
	"github.com/jhoicas/Mentoria-api/internal/domain/repository"
)

var _ repository.CorporateRepository = (*CorporateRepo)(nil)

// CorporateRepo corporate_profiles sobre PostgreSQL.
type CorporateRepo struct {
	db Querier
}

// NewCorporateRepository construye el adaptador.
func NewCorporateRepository(db Querier) *CorporateRepo {
	return &CorporateRepo{db: db}
}

const corporateColumns = `id, user_id, company_name, industry, company_size, created_at`

func (r *CorporateRepo) Create(ctx context.Context, c *entity.CorporateProfile) error {
	query := `
		INSERT INTO corporate_profiles (` + corporateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Exec(ctx, query, c.ID, c.UserID, c.CompanyName, c.Industry, c.CompanySize, c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert corporate profile: %w", err)
	}
	return nil
}

func (r *CorporateRepo) GetByID(ctx context.Context, id string) (*entity.CorporateProfile, error) {
	return getOne(ctx, r.db, scanCorporate, "get corporate by id",
		`SELECT `+corporateColumns+` FROM corporate_profiles WHERE id = $1`, id)
}

func (r *CorporateRepo) GetByUserID(ctx context.Context, userID string) (*entity.CorporateProfile, error) {
	return getOne(ctx, r.db, scanCorporate, "get corporate by user",
		`SELECT `+corporateColumns+` FROM corporate_profiles WHERE user_id = $1`, userID)
}

func scanCorporate(row pgxScanner) (*entity.CorporateProfile, error) {
	var c entity.CorporateProfile
	if err := row.Scan(&c.ID, &c.UserID, &c.CompanyName, &c.Industry, &c.CompanySize, &c.CreatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
