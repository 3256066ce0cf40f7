package invitation

import (
	"context"

	"github.com/jhoicas/Mentoria-api/internal/application/dto"
	"github.com/jhoicas/Mentoria-api/internal/application/notification"
	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
	"github.com/jhoicas/Mentoria-api/internal/domain/repository"
)

// IdentityProvider operaciones del proveedor de identidad que usa el registro.
type IdentityProvider interface {
	// SignUp devuelve domain.ErrDuplicateEmail si el email ya existe.
	SignUp(ctx context.Context, email, password string) (*entity.Identity, error)
	AdminDeleteUser(ctx context.Context, userID string) error
}

// Notifier contrato de notificaciones {type, email, data}.
type Notifier interface {
	Dispatch(ctx context.Context, n notification.Notification) error
}

// Repos repositorios atados a una misma transacción.
type Repos struct {
	Roles          repository.RoleRepository
	Corporates     repository.CorporateRepository
	Schools        repository.SchoolRepository
	PendingSchools repository.PendingSchoolRepository
	Mentors        repository.MentorRepository
	Directory      repository.SchoolDirectoryRepository
}

// TxRunner ejecuta fn dentro de una transacción del Account Store: Commit si fn devuelve nil,
// Rollback en caso contrario.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repos) error) error
}

// PackGenerator genera el PDF imprimible con los enlaces de invitación de un corporate.
type PackGenerator interface {
	GenerateInvitationPack(corporate *entity.CorporateProfile, links dto.InvitationLinks) ([]byte, error)
}
