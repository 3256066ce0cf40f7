package memory

import (
	"context"

	"github.com/jhoicas/Mentoria-api/internal/application/invitation"
)

var _ invitation.TxRunner = (*TxRunner)(nil)

// TxRunner transacción en memoria: serializa las transacciones y aplica sus cambios al terminar.
type TxRunner struct {
	s *Store
}

// NewTxRunner construye el runner.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

// Repos repositorios sobre el store.
func Repos(s *Store) invitation.Repos {
	return invitation.Repos{
		Roles:          NewRoleRepository(s),
		Corporates:     NewCorporateRepository(s),
		Schools:        NewSchoolRepository(s),
		PendingSchools: NewPendingSchoolRepository(s),
		Mentors:        NewMentorRepository(s),
		Directory:      NewSchoolDirectoryRepository(s),
	}
}

// Run ejecuta fn sobre una copia de trabajo y solo la aplica si fn y ctx terminan sin error. Lo
// escrito dentro de fn no es visible fuera hasta el commit.
func (r *TxRunner) Run(ctx context.Context, fn func(repos invitation.Repos) error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	work, base := r.s.fork()
	if err := fn(Repos(work)); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.commit(base, work)
	return nil
}
