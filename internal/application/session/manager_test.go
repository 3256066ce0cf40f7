package session_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Mentoria-api/internal/application/guard"
	"github.com/jhoicas/Mentoria-api/internal/application/session"
	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
)

// fakeProvider emite eventos con su lock interno tomado, como el cliente real.
type fakeProvider struct {
	mu         sync.Mutex
	current    *entity.Session
	listeners  map[int]func(entity.AuthEvent)
	next       int
	signOutErr error
}

func newFakeProvider(current *entity.Session) *fakeProvider {
	return &fakeProvider{current: current, listeners: map[int]func(entity.AuthEvent){}}
}

func (p *fakeProvider) OnAuthStateChange(fn func(entity.AuthEvent)) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.next
	p.next++
	p.listeners[id] = fn
	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

func (p *fakeProvider) GetSession(context.Context) (*entity.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current, nil
}

func (p *fakeProvider) SignOut(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = nil
	return p.signOutErr
}

// emit notifica a los listeners sin soltar el lock.
func (p *fakeProvider) emit(typ entity.AuthEventType, sess *entity.Session) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = sess
	for _, fn := range p.listeners {
		fn(entity.AuthEvent{Type: typ, Session: sess})
	}
}

// fakeResolver toma el lock del proveedor, igual que un resolver que lee el token del cliente.
type fakeResolver struct {
	provider *fakeProvider
	mu       sync.Mutex
	roles    map[string]entity.Role
	err      error
	calls    atomic.Int32
}

func (r *fakeResolver) ResolveRole(_ context.Context, userID string) (*entity.Role, error) {
	r.calls.Add(1)
	if r.provider != nil {
		r.provider.mu.Lock()
		defer r.provider.mu.Unlock()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	role, ok := r.roles[userID]
	if !ok {
		return nil, nil
	}
	return &role, nil
}

func sessionFor(id string) *entity.Session {
	return &entity.Session{
		AccessToken: "tok-" + id,
		User:        entity.Identity{ID: id, Email: id + "@example.com"},
	}
}

func newManager(t *testing.T, p *fakeProvider, r *fakeResolver) *session.Manager {
	t.Helper()
	m := session.NewManager(p, r, zerolog.Nop())
	t.Cleanup(m.Close)
	return m
}

func waitLoaded(t *testing.T, m *session.Manager) session.State {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	st, err := m.WaitUntilLoaded(ctx)
	require.NoError(t, err)
	return st
}

// ──────────────────────────────────────────────────────────────────────────────
// Inicialización
// ──────────────────────────────────────────────────────────────────────────────

func TestManager_EstadoInicial(t *testing.T) {
	p := newFakeProvider(nil)
	m := newManager(t, p, &fakeResolver{})

	st := m.State()
	assert.Nil(t, st.User)
	assert.Nil(t, st.Session)
	assert.Nil(t, st.Role)
	assert.True(t, st.IsLoading)
	assert.False(t, st.IsAuthenticated)
}

func TestManager_Initialize_SinSesion(t *testing.T) {
	p := newFakeProvider(nil)
	m := newManager(t, p, &fakeResolver{})
	m.Initialize(context.Background())

	st := waitLoaded(t, m)
	assert.Nil(t, st.User)
	assert.Nil(t, st.Role)
	assert.False(t, st.IsAuthenticated)
}

func TestManager_Initialize_SesionExistente(t *testing.T) {
	p := newFakeProvider(sessionFor("u1"))
	r := &fakeResolver{provider: p, roles: map[string]entity.Role{"u1": entity.RoleMentor}}
	m := newManager(t, p, r)
	m.Initialize(context.Background())

	st := waitLoaded(t, m)
	require.NotNil(t, st.User)
	assert.Equal(t, "u1", st.User.ID)
	require.NotNil(t, st.Role)
	assert.Equal(t, entity.RoleMentor, *st.Role)
	assert.True(t, st.IsAuthenticated)
}

func TestManager_UsuarioSinRol_RolNil(t *testing.T) {
	p := newFakeProvider(sessionFor("u1"))
	m := newManager(t, p, &fakeResolver{roles: map[string]entity.Role{}})
	m.Initialize(context.Background())

	st := waitLoaded(t, m)
	assert.True(t, st.IsAuthenticated)
	assert.Nil(t, st.Role)
}

// ──────────────────────────────────────────────────────────────────────────────
// Eventos y diferimiento
// ──────────────────────────────────────────────────────────────────────────────

// El resolver necesita el lock que el proveedor mantiene durante el callback:
// si la resolución fuese síncrona esto no terminaría.
func TestManager_EventoConLockTomado_NoBloquea(t *testing.T) {
	p := newFakeProvider(nil)
	r := &fakeResolver{provider: p, roles: map[string]entity.Role{"u2": entity.RoleCorporate}}
	m := newManager(t, p, r)
	m.Initialize(context.Background())
	waitLoaded(t, m)

	done := make(chan struct{})
	go func() {
		p.emit(entity.AuthEventSignedIn, sessionFor("u2"))
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("el callback del proveedor quedó bloqueado")
	}

	assert.Eventually(t, func() bool {
		st := m.State()
		return !st.IsLoading && st.Role != nil && *st.Role == entity.RoleCorporate
	}, 2*time.Second, 10*time.Millisecond)
}

func TestManager_EventoActualizaUsuarioSincrono(t *testing.T) {
	p := newFakeProvider(nil)
	r := &fakeResolver{provider: p, roles: map[string]entity.Role{"u3": entity.RoleSchool}}
	m := newManager(t, p, r)
	m.Initialize(context.Background())
	waitLoaded(t, m)

	p.emit(entity.AuthEventSignedIn, sessionFor("u3"))

	st := m.State()
	require.NotNil(t, st.User, "user se actualiza dentro del callback")
	assert.Equal(t, "u3", st.User.ID)
	assert.True(t, st.IsAuthenticated)
}

func TestManager_EventoSignedOut_LimpiaRol(t *testing.T) {
	p := newFakeProvider(sessionFor("u1"))
	r := &fakeResolver{roles: map[string]entity.Role{"u1": entity.RoleMentor}}
	m := newManager(t, p, r)
	m.Initialize(context.Background())
	waitLoaded(t, m)

	p.emit(entity.AuthEventSignedOut, nil)

	st := m.State()
	assert.Nil(t, st.User)
	assert.Nil(t, st.Role)
	assert.False(t, st.IsLoading)
	assert.False(t, st.IsAuthenticated)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fallo de consulta (fail-open)
// ──────────────────────────────────────────────────────────────────────────────

func TestManager_FalloResolucion_FailOpen(t *testing.T) {
	p := newFakeProvider(sessionFor("u1"))
	r := &fakeResolver{err: errors.New("db caída")}
	m := newManager(t, p, r)
	m.Initialize(context.Background())

	st := waitLoaded(t, m)
	assert.False(t, st.IsLoading)
	assert.Nil(t, st.Role)
}

// ──────────────────────────────────────────────────────────────────────────────
// SignOut / RefreshRole
// ──────────────────────────────────────────────────────────────────────────────

func TestManager_SignOut_LimpiaAunqueFalleProveedor(t *testing.T) {
	p := newFakeProvider(sessionFor("u1"))
	p.signOutErr = errors.New("red caída")
	r := &fakeResolver{roles: map[string]entity.Role{"u1": entity.RoleMentor}}
	m := newManager(t, p, r)
	m.Initialize(context.Background())
	waitLoaded(t, m)

	err := m.SignOut(context.Background())
	assert.Error(t, err)
	assert.Equal(t, session.State{}, m.State())
}

func TestManager_RefreshRole_Idempotente(t *testing.T) {
	p := newFakeProvider(sessionFor("u1"))
	r := &fakeResolver{provider: p, roles: map[string]entity.Role{"u1": entity.RoleSchool}}
	m := newManager(t, p, r)
	m.Initialize(context.Background())
	waitLoaded(t, m)

	require.NoError(t, m.RefreshRole(context.Background()))
	first := m.State().Role
	require.NoError(t, m.RefreshRole(context.Background()))
	second := m.State().Role

	require.NotNil(t, first)
	require.NotNil(t, second)
	assert.Equal(t, *first, *second)
}

func TestManager_RefreshRole_RecogeRolNuevo(t *testing.T) {
	p := newFakeProvider(sessionFor("u1"))
	r := &fakeResolver{roles: map[string]entity.Role{}}
	m := newManager(t, p, r)
	m.Initialize(context.Background())
	assert.Nil(t, waitLoaded(t, m).Role)

	r.mu.Lock()
	r.roles["u1"] = entity.RoleMentor
	r.mu.Unlock()

	require.NoError(t, m.RefreshRole(context.Background()))
	require.NotNil(t, m.State().Role)
	assert.Equal(t, entity.RoleMentor, *m.State().Role)
}

func TestManager_RefreshRole_SinUsuarioNoOp(t *testing.T) {
	p := newFakeProvider(nil)
	r := &fakeResolver{}
	m := newManager(t, p, r)
	m.Initialize(context.Background())
	waitLoaded(t, m)

	require.NoError(t, m.RefreshRole(context.Background()))
	assert.Equal(t, int32(0), r.calls.Load())
}

// ──────────────────────────────────────────────────────────────────────────────
// Suscriptores y guardas
// ──────────────────────────────────────────────────────────────────────────────

func TestManager_Subscribe_YGuardState(t *testing.T) {
	p := newFakeProvider(nil)
	r := &fakeResolver{roles: map[string]entity.Role{"u9": entity.RoleSchool}}
	m := newManager(t, p, r)

	var mu sync.Mutex
	var seen []session.State
	unsubscribe := m.Subscribe(func(st session.State) {
		mu.Lock()
		seen = append(seen, st)
		mu.Unlock()
	})
	defer unsubscribe()

	m.Initialize(context.Background())
	waitLoaded(t, m)
	p.emit(entity.AuthEventSignedIn, sessionFor("u9"))

	assert.Eventually(t, func() bool { return m.State().Role != nil }, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	assert.NotEmpty(t, seen)
	mu.Unlock()

	d := guard.RequireRole(m.GuardState(), entity.RoleCorporate, "/corporate-dashboard")
	assert.Equal(t, guard.Redirect, d.Action)
	assert.Equal(t, "/school-dashboard", d.Location)
}
