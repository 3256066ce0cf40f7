package identity_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Mentoria-api/internal/domain"
	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
	"github.com/jhoicas/Mentoria-api/internal/infrastructure/identity"
	"github.com/jhoicas/Mentoria-api/internal/infrastructure/memory"
)

const testSecret = "test-secret"

func newProvider(t *testing.T) *identity.Provider {
	t.Helper()
	users := memory.NewIdentityRepository(memory.NewStore())
	return identity.NewProvider(users, identity.NewMemorySessionStore(), identity.Config{
		JWTSecret:        testSecret,
		Issuer:           "mentoria-test",
		AccessTTLMinutes: 5,
		RefreshTTL:       time.Hour,
	}, zerolog.Nop())
}

func TestProvider_SignUp_EmailDuplicado(t *testing.T) {
	p := newProvider(t)
	ctx := context.Background()

	user, err := p.SignUp(ctx, "Ana@Example.com ", "password123")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.NotEqual(t, "password123", user.PasswordHash)

	_, err = p.SignUp(ctx, "ana@example.com", "otra-password")
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestProvider_SignIn_CredencialesIncorrectas(t *testing.T) {
	p := newProvider(t)
	ctx := context.Background()
	_, err := p.SignUp(ctx, "ana@example.com", "password123")
	require.NoError(t, err)

	_, err = p.SignInWithPassword(ctx, "ana@example.com", "mala")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = p.SignInWithPassword(ctx, "nadie@example.com", "password123")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestProvider_SignIn_GetUser_Refresh(t *testing.T) {
	p := newProvider(t)
	ctx := context.Background()
	created, err := p.SignUp(ctx, "ana@example.com", "password123")
	require.NoError(t, err)

	var events []entity.AuthEventType
	unsubscribe := p.OnAuthStateChange(func(ev entity.AuthEvent) { events = append(events, ev.Type) })
	defer unsubscribe()

	sess, err := p.SignInWithPassword(ctx, "ana@example.com", "password123")
	require.NoError(t, err)
	assert.NotEmpty(t, sess.AccessToken)
	assert.NotEmpty(t, sess.RefreshToken)

	user, err := p.GetUser(ctx, sess.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	refreshed, err := p.Refresh(ctx, sess.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, sess.RefreshToken, refreshed.RefreshToken)

	// rotación: el token usado ya no vale
	_, err = p.Refresh(ctx, sess.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	require.NoError(t, p.SignOut(ctx, refreshed.RefreshToken))
	_, err = p.Refresh(ctx, refreshed.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	assert.Equal(t, []entity.AuthEventType{
		entity.AuthEventSignedIn,
		entity.AuthEventTokenRefreshed,
		entity.AuthEventSignedOut,
	}, events)
}

func TestProvider_GetUser_TokenInvalido(t *testing.T) {
	p := newProvider(t)
	_, err := p.GetUser(context.Background(), "no-es-un-jwt")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestProvider_AdminDeleteUser_RevocaSesiones(t *testing.T) {
	p := newProvider(t)
	ctx := context.Background()
	user, err := p.SignUp(ctx, "ana@example.com", "password123")
	require.NoError(t, err)
	sess, err := p.SignInWithPassword(ctx, "ana@example.com", "password123")
	require.NoError(t, err)

	var deleted bool
	p.OnAuthStateChange(func(ev entity.AuthEvent) {
		if ev.Type == entity.AuthEventUserDeleted {
			deleted = true
		}
	})

	require.NoError(t, p.AdminDeleteUser(ctx, user.ID))
	assert.True(t, deleted)

	got, err := p.AdminGetUserByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = p.Refresh(ctx, sess.RefreshToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = p.GetUser(ctx, sess.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestProvider_Unsubscribe(t *testing.T) {
	p := newProvider(t)
	calls := 0
	unsubscribe := p.OnAuthStateChange(func(entity.AuthEvent) { calls++ })
	unsubscribe()
	require.NoError(t, p.SignOut(context.Background(), ""))
	assert.Zero(t, calls)
}
