// Package session mantiene, durante la vida del proceso cliente, quién está autenticado y con qué rol.
//
// El Manager se construye una vez y se pasa explícitamente a quien lo necesite. La resolución de rol
// nunca se ejecuta dentro del callback del proveedor de identidad: se encola y la ejecuta un worker
// propio, porque el proveedor puede invocar el callback con su lock interno tomado.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Mentoria-api/internal/application/guard"
	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
)

// IdentityProvider puerto hacia el proveedor de identidad del lado cliente.
type IdentityProvider interface {
	OnAuthStateChange(fn func(entity.AuthEvent)) (unsubscribe func())
	GetSession(ctx context.Context) (*entity.Session, error)
	SignOut(ctx context.Context) error
}

// RoleResolver puerto de resolución de rol. (nil, nil) = identidad sin rol.
type RoleResolver interface {
	ResolveRole(ctx context.Context, userID string) (*entity.Role, error)
}

// State espejo en memoria de la sesión actual.
type State struct {
	User            *entity.Identity
	Session         *entity.Session
	Role            *entity.Role
	IsLoading       bool
	IsAuthenticated bool
}

// UserID id del usuario actual o "".
func (s State) UserID() string {
	if s.User == nil {
		return ""
	}
	return s.User.ID
}

func initialState() State { return State{IsLoading: true} }

// Manager fuente única de verdad de la sesión. Seguro para uso concurrente.
type Manager struct {
	provider IdentityProvider
	resolver RoleResolver
	log      zerolog.Logger

	mu    sync.RWMutex
	state State
	// gen cambia cada vez que cambia el usuario; descarta resultados obsoletos.
	gen uint64

	subsMu  sync.Mutex
	subs    map[int]func(State)
	nextSub int

	queue *taskQueue

	startOnce   sync.Once
	closeOnce   sync.Once
	unsubscribe func()
	cancel      context.CancelFunc
	stopped     chan struct{}
}

// NewManager crea el manager en estado inicial {nil, nil, nil, true, false}.
func NewManager(provider IdentityProvider, resolver RoleResolver, log zerolog.Logger) *Manager {
	return &Manager{
		provider: provider,
		resolver: resolver,
		log:      log.With().Str("component", "session").Logger(),
		state:    initialState(),
		subs:     make(map[int]func(State)),
		queue:    newTaskQueue(),
		stopped:  make(chan struct{}),
	}
}

// Initialize se suscribe a los eventos del proveedor y lanza la lectura inicial de la sesión.
// Solo tiene efecto la primera vez. No bloquea: usar WaitUntilLoaded para esperar el primer estado.
func (m *Manager) Initialize(ctx context.Context) {
	m.startOnce.Do(func() {
		workerCtx, cancel := context.WithCancel(ctx)
		m.cancel = cancel
		go m.run(workerCtx)

		m.unsubscribe = m.provider.OnAuthStateChange(m.handleEvent)

		m.mu.RLock()
		gen := m.gen
		m.mu.RUnlock()
		m.queue.push(func(ctx context.Context) { m.loadInitialSession(ctx, gen) })
	})
}

// Close cancela la suscripción y detiene el worker. Las tareas pendientes se descartan.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		if m.unsubscribe != nil {
			m.unsubscribe()
		}
		if m.cancel != nil {
			m.cancel()
			<-m.stopped
		}
	})
}

// State copia del estado actual.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// GuardState vista del estado para las guardas de rutas.
func (m *Manager) GuardState() guard.State {
	st := m.State()
	return guard.State{
		IsLoading:       st.IsLoading,
		IsAuthenticated: st.IsAuthenticated,
		UserID:          st.UserID(),
		Role:            st.Role,
	}
}

// Subscribe registra fn, que recibe el estado tras cada cambio. Devuelve la función para desuscribirse.
func (m *Manager) Subscribe(fn func(State)) (unsubscribe func()) {
	m.subsMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.subsMu.Unlock()

	return func() {
		m.subsMu.Lock()
		delete(m.subs, id)
		m.subsMu.Unlock()
	}
}

// WaitUntilLoaded bloquea hasta que IsLoading sea false o ctx termine.
func (m *Manager) WaitUntilLoaded(ctx context.Context) (State, error) {
	changed := make(chan struct{}, 1)
	unsubscribe := m.Subscribe(func(State) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer unsubscribe()

	for {
		st := m.State()
		if !st.IsLoading {
			return st, nil
		}
		select {
		case <-changed:
		case <-ctx.Done():
			return st, ctx.Err()
		}
	}
}

// SignOut cierra la sesión en el proveedor y limpia el estado local sin esperar al evento.
// El estado se limpia aunque el proveedor falle; su error se devuelve.
func (m *Manager) SignOut(ctx context.Context) error {
	err := m.provider.SignOut(ctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("sign out en el proveedor falló; se limpia la sesión local igualmente")
	}

	m.mu.Lock()
	m.gen++
	m.state = State{}
	st := m.state
	m.mu.Unlock()

	m.notify(st)
	return err
}

// RefreshRole vuelve a resolver el rol del usuario actual y espera el resultado.
// Sin usuario no hace nada. Un fallo de la consulta deja role = nil y se devuelve.
func (m *Manager) RefreshRole(ctx context.Context) error {
	m.mu.RLock()
	userID := m.state.UserID()
	gen := m.gen
	m.mu.RUnlock()
	if userID == "" {
		return nil
	}

	result := make(chan error, 1)
	m.queue.push(func(ctx context.Context) {
		result <- m.resolveRole(ctx, userID, gen)
	})

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	case <-m.stopped:
		return errors.New("session manager cerrado")
	}
}

// handleEvent corre dentro del callback del proveedor: solo actualiza estado y encola.
func (m *Manager) handleEvent(ev entity.AuthEvent) {
	userID, gen, st := m.applySession(ev.Session)
	m.notify(st)
	if userID == "" {
		return
	}
	m.queue.push(func(ctx context.Context) {
		_ = m.resolveRole(ctx, userID, gen)
	})
}

func (m *Manager) loadInitialSession(ctx context.Context, gen uint64) {
	sess, err := m.provider.GetSession(ctx)
	if err != nil {
		m.log.Error().Err(err).Msg("no se pudo leer la sesión inicial")
		sess = nil
	}

	m.mu.RLock()
	stale := m.gen != gen
	m.mu.RUnlock()
	if stale {
		// un evento llegó mientras tanto y es más reciente
		return
	}

	userID, newGen, st := m.applySession(sess)
	m.notify(st)
	if userID != "" {
		_ = m.resolveRole(ctx, userID, newGen)
	}
}

// applySession actualiza user/session/isAuthenticated. Si el usuario cambia, el rol anterior
// deja de valer y se vuelve a IsLoading hasta resolverlo.
func (m *Manager) applySession(sess *entity.Session) (userID string, gen uint64, st State) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sess == nil {
		if m.state.User != nil {
			m.gen++
		}
		m.state = State{}
		return "", m.gen, m.state
	}

	user := sess.User
	if m.state.UserID() != user.ID {
		m.gen++
		m.state.Role = nil
		m.state.IsLoading = true
	}
	m.state.User = &user
	m.state.Session = sess
	m.state.IsAuthenticated = true
	return user.ID, m.gen, m.state
}

func (m *Manager) resolveRole(ctx context.Context, userID string, gen uint64) error {
	role, err := m.resolver.ResolveRole(ctx, userID)

	m.mu.Lock()
	if m.gen != gen || m.state.UserID() != userID {
		m.mu.Unlock()
		m.log.Debug().Str("user_id", userID).Msg("resultado de rol obsoleto descartado")
		return err
	}
	if err != nil {
		m.state.Role = nil
		m.state.IsLoading = false
	} else {
		m.state.Role = role
		m.state.IsLoading = false
		m.state.IsAuthenticated = true
	}
	st := m.state
	m.mu.Unlock()

	if err != nil {
		m.log.Error().Err(err).Str("user_id", userID).Msg("no se pudo resolver el rol")
	}
	m.notify(st)
	return err
}

func (m *Manager) notify(st State) {
	m.subsMu.Lock()
	fns := make([]func(State), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subsMu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
}

func (m *Manager) run(ctx context.Context) {
	defer close(m.stopped)
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.queue.wake:
		}
		for _, task := range m.queue.drain() {
			if ctx.Err() != nil {
				return
			}
			task(ctx)
		}
	}
}

// taskQueue cola FIFO sin límite: push nunca bloquea.
type taskQueue struct {
	mu    sync.Mutex
	tasks []func(context.Context)
	wake  chan struct{}
}

func newTaskQueue() *taskQueue {
	return &taskQueue{wake: make(chan struct{}, 1)}
}

func (q *taskQueue) push(task func(context.Context)) {
	q.mu.Lock()
	q.tasks = append(q.tasks, task)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

func (q *taskQueue) drain() []func(context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	tasks := q.tasks
	q.tasks = nil
	return tasks
}
