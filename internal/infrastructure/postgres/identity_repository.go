package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Mentoria-api/internal/domain"
	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
	"github.com/jhoicas/Mentoria-api/internal/domain/repository"
)

var _ repository.IdentityRepository = (*IdentityRepo)(nil)

// IdentityRepo identidades (email + hash de contraseña) sobre PostgreSQL.
type IdentityRepo struct {
	db Querier
}

// NewIdentityRepository construye el adaptador de persistencia de identidades.
func NewIdentityRepository(db Querier) *IdentityRepo {
	return &IdentityRepo{db: db}
}

const identityColumns = `id, email, password_hash, created_at, updated_at`

// Create persiste una identidad. El email es único sin distinguir mayúsculas.
func (r *IdentityRepo) Create(ctx context.Context, identity *entity.Identity) error {
	query := `
		INSERT INTO identities (` + identityColumns + `)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.Exec(ctx, query,
		identity.ID, identity.Email, identity.PasswordHash, identity.CreatedAt, identity.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert identity: %w", err)
	}
	return nil
}

func (r *IdentityRepo) GetByID(ctx context.Context, id string) (*entity.Identity, error) {
	return getOne(ctx, r.db, scanIdentity, "get identity by id",
		`SELECT `+identityColumns+` FROM identities WHERE id = $1`, id)
}

func (r *IdentityRepo) GetByEmail(ctx context.Context, email string) (*entity.Identity, error) {
	return getOne(ctx, r.db, scanIdentity, "get identity by email",
		`SELECT `+identityColumns+` FROM identities WHERE lower(email) = lower($1)`, email)
}

// Delete borra la identidad; rol y perfiles caen por ON DELETE CASCADE.
func (r *IdentityRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM identities WHERE id = $1`, id)
	if err != nil {
		if isInvalidText(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete identity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanIdentity(row pgxScanner) (*entity.Identity, error) {
	var i entity.Identity
	if err := row.Scan(&i.ID, &i.Email, &i.PasswordHash, &i.CreatedAt, &i.UpdatedAt); err != nil {
		return nil, err
	}
	return &i, nil
}
