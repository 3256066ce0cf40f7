package auth

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Mentoria-api/internal/application/dto"
	"github.com/jhoicas/Mentoria-api/internal/application/guard"
	"github.com/jhoicas/Mentoria-api/internal/domain"
	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
)

// IdentityProvider operaciones de sesión del proveedor de identidad.
type IdentityProvider interface {
	SignInWithPassword(ctx context.Context, email, password string) (*entity.Session, error)
	Refresh(ctx context.Context, refreshToken string) (*entity.Session, error)
	SignOut(ctx context.Context, refreshToken string) error
	AdminGetUserByID(ctx context.Context, userID string) (*entity.Identity, error)
}

// RoleResolver resolución de rol; (nil, nil) = perfil sin completar.
type RoleResolver interface {
	ResolveRole(ctx context.Context, userID string) (*entity.Role, error)
}

// AuthUseCase casos de uso de autenticación: login, refresh, logout y sesión actual.
type AuthUseCase struct {
	provider IdentityProvider
	roles    RoleResolver
	log      zerolog.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(provider IdentityProvider, roles RoleResolver, log zerolog.Logger) *AuthUseCase {
	return &AuthUseCase{provider: provider, roles: roles, log: log.With().Str("component", "auth").Logger()}
}

// Login verifica credenciales y calcula el destino: ?redirect= si es local, si no el dashboard del rol.
// Sin rol (perfil incompleto) no hay destino.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	sess, err := uc.provider.SignInWithPassword(ctx, in.Email, in.Password)
	if err != nil {
		return nil, err
	}
	return uc.loginResponse(ctx, sess, in.Redirect), nil
}

// Refresh rota el refresh token.
func (uc *AuthUseCase) Refresh(ctx context.Context, in dto.RefreshRequest) (*dto.LoginResponse, error) {
	if in.RefreshToken == "" {
		return nil, domain.ErrUnauthorized
	}
	sess, err := uc.provider.Refresh(ctx, in.RefreshToken)
	if err != nil {
		return nil, err
	}
	return uc.loginResponse(ctx, sess, ""), nil
}

// Logout revoca la sesión de refresco.
func (uc *AuthUseCase) Logout(ctx context.Context, refreshToken string) error {
	return uc.provider.SignOut(ctx, refreshToken)
}

// Me estado de autenticación del usuario del token. Un fallo de la consulta de rol no es error:
// se devuelve role = nil.
func (uc *AuthUseCase) Me(ctx context.Context, userID string) (*dto.MeResponse, error) {
	user, err := uc.provider.AdminGetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	role := uc.roleOrNil(ctx, userID)
	out := &dto.MeResponse{
		User:            toUserResponse(user),
		Role:            roleString(role),
		IsAuthenticated: true,
	}
	if role != nil {
		out.Dashboard = role.Dashboard()
	}
	return out, nil
}

// Role resolución de rol. A diferencia de Me, propaga domain.ErrRoleLookup.
func (uc *AuthUseCase) Role(ctx context.Context, userID string) (*dto.RoleResponse, error) {
	role, err := uc.roles.ResolveRole(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.RoleResponse{UserID: userID, Role: roleString(role)}, nil
}

func (uc *AuthUseCase) loginResponse(ctx context.Context, sess *entity.Session, redirectParam string) *dto.LoginResponse {
	role := uc.roleOrNil(ctx, sess.User.ID)
	out := &dto.LoginResponse{
		Session: toSessionResponse(sess),
		Role:    roleString(role),
	}
	if role != nil {
		out.Redirect = guard.PostLoginTarget(*role, redirectParam, "")
	}
	return out
}

func (uc *AuthUseCase) roleOrNil(ctx context.Context, userID string) *entity.Role {
	role, err := uc.roles.ResolveRole(ctx, userID)
	if err != nil {
		uc.log.Error().Err(err).Str("user_id", userID).Msg("no se pudo resolver el rol")
		return nil
	}
	return role
}

func roleString(r *entity.Role) *string {
	if r == nil {
		return nil
	}
	s := string(*r)
	return &s
}

func toUserResponse(u *entity.Identity) dto.UserResponse {
	return dto.UserResponse{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}

func toSessionResponse(s *entity.Session) dto.SessionResponse {
	return dto.SessionResponse{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresAt:    s.ExpiresAt,
		User:         toUserResponse(&s.User),
	}
}
