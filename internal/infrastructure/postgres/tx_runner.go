package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Mentoria-api/internal/application/invitation"
)

var _ invitation.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Repos repositorios del flujo de invitaciones sobre db (pool o tx).
func Repos(db Querier) invitation.Repos {
	return invitation.Repos{
		Roles:          NewRoleRepository(db),
		Corporates:     NewCorporateRepository(db),
		Schools:        NewSchoolRepository(db),
		PendingSchools: NewPendingSchoolRepository(db),
		Mentors:        NewMentorRepository(db),
		Directory:      NewSchoolDirectoryRepository(db),
	}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(repos invitation.Repos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(Repos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func newID() string { return uuid.New().String() }
