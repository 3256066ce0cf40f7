package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Mentoria-api/internal/application/auth"
	"github.com/jhoicas/Mentoria-api/internal/application/dto"
	"github.com/jhoicas/Mentoria-api/internal/application/roles"
	"github.com/jhoicas/Mentoria-api/internal/domain"
	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
	"github.com/jhoicas/Mentoria-api/internal/infrastructure/identity"
	"github.com/jhoicas/Mentoria-api/internal/infrastructure/memory"
)

type fixture struct {
	uc       *auth.AuthUseCase
	provider *identity.Provider
	roleRepo *memory.RoleRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	provider := identity.NewProvider(memory.NewIdentityRepository(store), identity.NewMemorySessionStore(),
		identity.Config{JWTSecret: "test-secret", AccessTTLMinutes: 5, RefreshTTL: time.Hour}, zerolog.Nop())
	roleRepo := memory.NewRoleRepository(store)
	return &fixture{
		uc:       auth.NewAuthUseCase(provider, roles.NewResolver(roleRepo), zerolog.Nop()),
		provider: provider,
		roleRepo: roleRepo,
	}
}

func (f *fixture) user(t *testing.T, email string, role *entity.Role) string {
	t.Helper()
	u, err := f.provider.SignUp(context.Background(), email, "password123")
	require.NoError(t, err)
	if role != nil {
		require.NoError(t, f.roleRepo.Assign(context.Background(), &entity.RoleAssignment{ID: "r-" + u.ID, UserID: u.ID, Role: *role}))
	}
	return u.ID
}

func rolePtr(r entity.Role) *entity.Role { return &r }

func TestLogin_RedirigeAlDashboard(t *testing.T) {
	f := newFixture(t)
	f.user(t, "corp@example.com", rolePtr(entity.RoleCorporate))

	resp, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: "corp@example.com", Password: "password123"})
	require.NoError(t, err)
	require.NotNil(t, resp.Role)
	assert.Equal(t, "corporate", *resp.Role)
	assert.Equal(t, "/corporate-dashboard", resp.Redirect)
	assert.NotEmpty(t, resp.Session.AccessToken)
}

func TestLogin_ConsumeRedirect(t *testing.T) {
	f := newFixture(t)
	f.user(t, "maya@example.com", rolePtr(entity.RoleMentor))

	resp, err := f.uc.Login(context.Background(), dto.LoginRequest{
		Email: "maya@example.com", Password: "password123", Redirect: "/mentor-dashboard?tab=sessions",
	})
	require.NoError(t, err)
	assert.Equal(t, "/mentor-dashboard?tab=sessions", resp.Redirect)

	resp, err = f.uc.Login(context.Background(), dto.LoginRequest{
		Email: "maya@example.com", Password: "password123", Redirect: "https://evil.example",
	})
	require.NoError(t, err)
	assert.Equal(t, "/mentor-dashboard", resp.Redirect)
}

func TestLogin_SinRol(t *testing.T) {
	f := newFixture(t)
	f.user(t, "orphan@example.com", nil)

	resp, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: "orphan@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Nil(t, resp.Role)
	assert.Empty(t, resp.Redirect)
}

func TestLogin_PasswordIncorrecta(t *testing.T) {
	f := newFixture(t)
	f.user(t, "maya@example.com", rolePtr(entity.RoleMentor))

	_, err := f.uc.Login(context.Background(), dto.LoginRequest{Email: "maya@example.com", Password: "otra-cosa"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.uc.Login(context.Background(), dto.LoginRequest{Email: "no-email", Password: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestMe_Y_Role(t *testing.T) {
	f := newFixture(t)
	id := f.user(t, "head@school.example", rolePtr(entity.RoleSchool))

	me, err := f.uc.Me(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, me.IsAuthenticated)
	assert.Equal(t, "/school-dashboard", me.Dashboard)

	role, err := f.uc.Role(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, role.Role)
	assert.Equal(t, "school", *role.Role)

	_, err = f.uc.Me(context.Background(), "desconocido")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestRefresh_Logout(t *testing.T) {
	f := newFixture(t)
	f.user(t, "maya@example.com", rolePtr(entity.RoleMentor))
	ctx := context.Background()

	login, err := f.uc.Login(ctx, dto.LoginRequest{Email: "maya@example.com", Password: "password123"})
	require.NoError(t, err)

	refreshed, err := f.uc.Refresh(ctx, dto.RefreshRequest{RefreshToken: login.Session.RefreshToken})
	require.NoError(t, err)
	assert.Equal(t, "/mentor-dashboard", refreshed.Redirect)

	require.NoError(t, f.uc.Logout(ctx, refreshed.Session.RefreshToken))
	_, err = f.uc.Refresh(ctx, dto.RefreshRequest{RefreshToken: refreshed.Session.RefreshToken})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
