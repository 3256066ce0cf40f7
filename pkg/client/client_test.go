package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Mentoria-api/internal/application/dto"
	"github.com/jhoicas/Mentoria-api/internal/application/session"
	"github.com/jhoicas/Mentoria-api/internal/domain"
	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
	"github.com/jhoicas/Mentoria-api/pkg/client"
)

// ──────────────────────────────────────────────────────────────────────────────
// Servidor de prueba
// ──────────────────────────────────────────────────────────────────────────────

const (
	testUserID = "00000000-0000-0000-0000-000000000001"
	testToken  = "access-1"
)

type fakeAPI struct {
	role        *string
	roleCalls   atomic.Int32
	logoutCalls atomic.Int32
	expiresIn   time.Duration
}

func (f *fakeAPI) server(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, status int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	session := func(access, refresh string) dto.SessionResponse {
		return dto.SessionResponse{
			AccessToken: access, RefreshToken: refresh, ExpiresAt: time.Now().Add(f.expiresIn),
			User: dto.UserResponse{ID: testUserID, Email: "ada@acme.test"},
		}
	}
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in dto.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.Password != "password-123" {
			writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
			return
		}
		writeJSON(w, http.StatusOK, dto.LoginResponse{Session: session(testToken, "refresh-1"), Role: f.role})
	})
	mux.HandleFunc("/api/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		var in dto.RefreshRequest
		_ = json.NewDecoder(r.Body).Decode(&in)
		if in.RefreshToken != "refresh-1" {
			writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED"})
			return
		}
		f.expiresIn = time.Hour
		writeJSON(w, http.StatusOK, dto.LoginResponse{Session: session("access-2", "refresh-2"), Role: f.role})
	})
	mux.HandleFunc("/api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		f.logoutCalls.Add(1)
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("/api/auth/role", func(w http.ResponseWriter, r *http.Request) {
		f.roleCalls.Add(1)
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
			writeJSON(w, http.StatusUnauthorized, dto.ErrorResponse{Code: "MISSING_TOKEN"})
			return
		}
		writeJSON(w, http.StatusOK, dto.RoleResponse{UserID: testUserID, Role: f.role})
	})
	mux.HandleFunc("/api/invitations/validate", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("corporate") != "corp-1" {
			writeJSON(w, http.StatusNotFound, dto.InvitationResponse{Status: "invalid"})
			return
		}
		writeJSON(w, http.StatusOK, dto.InvitationResponse{Status: "valid", CorporateID: "corp-1", CompanyName: "Acme Ltd"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func strPtr(s string) *string { return &s }

// ──────────────────────────────────────────────────────────────────────────────
// Tests del cliente
// ──────────────────────────────────────────────────────────────────────────────

func TestClient_SignIn_EmiteEventoYGuardaSesion(t *testing.T) {
	api := &fakeAPI{role: strPtr("mentor"), expiresIn: time.Hour}
	store := client.NewFileTokenStore(filepath.Join(t.TempDir(), "session.json"))
	c := client.New(api.server(t).URL, client.WithTokenStore(store))

	var events []entity.AuthEventType
	c.OnAuthStateChange(func(ev entity.AuthEvent) { events = append(events, ev.Type) })

	out, err := c.SignIn(context.Background(), "ada@acme.test", "password-123")
	require.NoError(t, err)
	assert.Equal(t, testToken, out.Session.AccessToken)
	assert.Equal(t, []entity.AuthEventType{entity.AuthEventSignedIn}, events)

	saved, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, testUserID, saved.User.ID)
}

func TestClient_SignIn_CredencialesInvalidas(t *testing.T) {
	api := &fakeAPI{expiresIn: time.Hour}
	c := client.New(api.server(t).URL)

	_, err := c.SignIn(context.Background(), "ada@acme.test", "mala")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

// failingStore TokenStore que no puede escribir.
type failingStore struct{ err error }

func (failingStore) Load() (*entity.Session, error) { return nil, nil }
func (f failingStore) Save(*entity.Session) error   { return f.err }
func (f failingStore) Clear() error                 { return f.err }

func TestClient_SignIn_ErrorAlGuardarSesion(t *testing.T) {
	api := &fakeAPI{expiresIn: time.Hour}
	errDisk := errors.New("disco lleno")
	c := client.New(api.server(t).URL, client.WithTokenStore(failingStore{err: errDisk}))

	var events []entity.AuthEventType
	c.OnAuthStateChange(func(ev entity.AuthEvent) { events = append(events, ev.Type) })

	_, err := c.SignIn(context.Background(), "ada@acme.test", "password-123")
	assert.ErrorIs(t, err, errDisk)
	// la sesión en memoria sigue activa
	assert.Equal(t, []entity.AuthEventType{entity.AuthEventSignedIn}, events)
}

func TestClient_SignOut_ErrorAlBorrarSesion(t *testing.T) {
	api := &fakeAPI{expiresIn: time.Hour}
	errDisk := errors.New("permiso denegado")
	c := client.New(api.server(t).URL, client.WithTokenStore(failingStore{err: errDisk}))
	_, _ = c.SignIn(context.Background(), "ada@acme.test", "password-123")

	err := c.SignOut(context.Background())
	assert.ErrorIs(t, err, errDisk)
	assert.Equal(t, int32(1), api.logoutCalls.Load())
}

func TestClient_GetSession_DesdeArchivo(t *testing.T) {
	api := &fakeAPI{expiresIn: time.Hour}
	path := filepath.Join(t.TempDir(), "session.json")
	first := client.New(api.server(t).URL, client.WithTokenStore(client.NewFileTokenStore(path)))
	_, err := first.SignIn(context.Background(), "ada@acme.test", "password-123")
	require.NoError(t, err)

	second := client.New(api.server(t).URL, client.WithTokenStore(client.NewFileTokenStore(path)))
	sess, err := second.GetSession(context.Background())
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, testToken, sess.AccessToken)
}

func TestClient_GetSession_TokenExpirado_Refresca(t *testing.T) {
	api := &fakeAPI{expiresIn: -time.Minute}
	c := client.New(api.server(t).URL)
	_, err := c.SignIn(context.Background(), "ada@acme.test", "password-123")
	require.NoError(t, err)

	var events []entity.AuthEventType
	c.OnAuthStateChange(func(ev entity.AuthEvent) { events = append(events, ev.Type) })

	sess, err := c.GetSession(context.Background())
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, "access-2", sess.AccessToken)
	assert.Equal(t, []entity.AuthEventType{entity.AuthEventTokenRefreshed}, events)
}

func TestClient_SignOut_LimpiaSesion(t *testing.T) {
	api := &fakeAPI{expiresIn: time.Hour}
	c := client.New(api.server(t).URL)
	_, err := c.SignIn(context.Background(), "ada@acme.test", "password-123")
	require.NoError(t, err)

	require.NoError(t, c.SignOut(context.Background()))
	assert.Equal(t, int32(1), api.logoutCalls.Load())

	sess, err := c.GetSession(context.Background())
	require.NoError(t, err)
	assert.Nil(t, sess)
}

func TestClient_ResolveRole(t *testing.T) {
	api := &fakeAPI{role: strPtr("school"), expiresIn: time.Hour}
	c := client.New(api.server(t).URL)
	_, err := c.SignIn(context.Background(), "ada@acme.test", "password-123")
	require.NoError(t, err)

	role, err := c.ResolveRole(context.Background(), testUserID)
	require.NoError(t, err)
	require.NotNil(t, role)
	assert.Equal(t, entity.RoleSchool, *role)
}

func TestClient_ResolveRole_SinRol(t *testing.T) {
	api := &fakeAPI{expiresIn: time.Hour}
	c := client.New(api.server(t).URL)
	_, err := c.SignIn(context.Background(), "ada@acme.test", "password-123")
	require.NoError(t, err)

	role, err := c.ResolveRole(context.Background(), testUserID)
	require.NoError(t, err)
	assert.Nil(t, role)
}

func TestClient_ResolveRole_SinSesion_ErrRoleLookup(t *testing.T) {
	api := &fakeAPI{expiresIn: time.Hour}
	c := client.New(api.server(t).URL)

	_, err := c.ResolveRole(context.Background(), testUserID)
	assert.ErrorIs(t, err, domain.ErrRoleLookup)
}

func TestClient_ValidateInvitation(t *testing.T) {
	api := &fakeAPI{expiresIn: time.Hour}
	c := client.New(api.server(t).URL)

	out, err := c.ValidateInvitation(context.Background(), "corp-1")
	require.NoError(t, err)
	assert.Equal(t, "Acme Ltd", out.CompanyName)

	_, err = c.ValidateInvitation(context.Background(), "otro")
	assert.ErrorIs(t, err, domain.ErrInvalidInvitation)
}

// ──────────────────────────────────────────────────────────────────────────────
// Integración con session.Manager
// ──────────────────────────────────────────────────────────────────────────────

// El cliente emite SIGNED_IN con su lock tomado y ResolveRole necesita ese lock:
// el Manager debe resolver el rol fuera del callback.
func TestClient_ConSessionManager_ResuelveRolSinBloqueo(t *testing.T) {
	api := &fakeAPI{role: strPtr("corporate"), expiresIn: time.Hour}
	c := client.New(api.server(t).URL)
	m := session.NewManager(c, c, zerolog.Nop())
	t.Cleanup(m.Close)
	m.Initialize(context.Background())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	st, err := m.WaitUntilLoaded(ctx)
	require.NoError(t, err)
	assert.False(t, st.IsAuthenticated)

	done := make(chan error, 1)
	go func() {
		_, err := c.SignIn(context.Background(), "ada@acme.test", "password-123")
		done <- err
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("SignIn quedó bloqueado en el callback")
	}

	assert.Eventually(t, func() bool {
		st := m.State()
		return !st.IsLoading && st.Role != nil && *st.Role == entity.RoleCorporate
	}, 2*time.Second, 10*time.Millisecond)
	assert.GreaterOrEqual(t, api.roleCalls.Load(), int32(1))
}
