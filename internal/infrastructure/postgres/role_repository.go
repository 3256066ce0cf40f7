package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Mentoria-api/internal/domain"
	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
	"github.com/jhoicas/Mentoria-api/internal/domain/repository"
)

var _ repository.RoleRepository = (*RoleRepo)(nil)

// RoleRepo tabla user_roles. UNIQUE(user_id) garantiza un solo rol por usuario.
type RoleRepo struct {
	db Querier
}

// NewRoleRepository construye el adaptador.
func NewRoleRepository(db Querier) *RoleRepo {
	return &RoleRepo{db: db}
}

func (r *RoleRepo) Assign(ctx context.Context, a *entity.RoleAssignment) error {
	query := `
		INSERT INTO user_roles (id, user_id, role, created_at)
		VALUES ($1, $2, $3, $4)`
	if _, err := r.db.Exec(ctx, query, a.ID, a.UserID, string(a.Role), a.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert user role: %w", err)
	}
	return nil
}

func (r *RoleRepo) FindByUserID(ctx context.Context, userID string) (*entity.RoleAssignment, error) {
	return getOne(ctx, r.db, scanRole, "get user role",
		`SELECT id, user_id, role, created_at FROM user_roles WHERE user_id = $1`, userID)
}

func scanRole(row pgxScanner) (*entity.RoleAssignment, error) {
	var a entity.RoleAssignment
	var role string
	if err := row.Scan(&a.ID, &a.UserID, &role, &a.CreatedAt); err != nil {
		return nil, err
	}
	parsed, err := entity.ParseRole(role)
	if err != nil {
		return nil, err
	}
	a.Role = parsed
	return &a, nil
}
