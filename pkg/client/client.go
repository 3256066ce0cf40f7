// Package client es el cliente HTTP de la API de Mentoria. Implementa los puertos que necesita
// session.Manager (GetSession, SignOut, OnAuthStateChange y ResolveRole).
//
// El cliente emite los eventos de sesión con su lock interno tomado: un listener que vuelva a
// llamar al cliente de forma síncrona se bloquea. session.Manager difiere por eso la resolución
// del rol a su propio worker.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/jhoicas/Mentoria-api/internal/application/dto"
	"github.com/jhoicas/Mentoria-api/internal/application/session"
	"github.com/jhoicas/Mentoria-api/internal/domain"
	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
)

var (
	_ session.IdentityProvider = (*Client)(nil)
	_ session.RoleResolver     = (*Client)(nil)
)

// refreshMargin antelación con la que se renueva un access token a punto de expirar.
const refreshMargin = 30 * time.Second

// Client cliente de la API. Seguro para uso concurrente.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      TokenStore

	mu        sync.Mutex
	session   *entity.Session
	loaded    bool
	listeners map[int]func(entity.AuthEvent)
	nextID    int
}

// Option configura el cliente.
type Option func(*Client)

// WithHTTPClient reemplaza el *http.Client por defecto (timeout de 15 s).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenStore persiste la sesión entre ejecuciones.
func WithTokenStore(store TokenStore) Option {
	return func(c *Client) { c.store = store }
}

// New construye el cliente contra baseURL (ej. http://localhost:8080).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		store:      noopStore{},
		listeners:  make(map[int]func(entity.AuthEvent)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ── Puerto session.IdentityProvider ──────────────────────────────────────────

// OnAuthStateChange registra fn para los eventos de sesión.
func (c *Client) OnAuthStateChange(fn func(entity.AuthEvent)) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = fn
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// GetSession sesión actual (cargada del TokenStore la primera vez). Si el access token expiró
// intenta renovarlo; si no puede, la sesión se descarta y se devuelve nil.
func (c *Client) GetSession(ctx context.Context) (*entity.Session, error) {
	c.mu.Lock()
	if !c.loaded {
		c.loaded = true
		sess, err := c.store.Load()
		if err != nil {
			c.mu.Unlock()
			return nil, fmt.Errorf("client: leer sesión guardada: %w", err)
		}
		c.session = sess
	}
	sess := c.session
	c.mu.Unlock()

	if sess == nil {
		return nil, nil
	}
	if time.Until(sess.ExpiresAt) > refreshMargin {
		return sess, nil
	}
	refreshed, err := c.Refresh(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return nil, c.clear(entity.AuthEventSignedOut)
		}
		return nil, err
	}
	return refreshed, nil
}

// SignOut revoca la sesión en el servidor y la borra localmente. La sesión local se borra aunque
// la llamada falle.
func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	sess := c.session
	c.mu.Unlock()

	var err error
	if sess != nil {
		err = c.do(ctx, http.MethodPost, "/api/auth/logout", "", dto.RefreshRequest{RefreshToken: sess.RefreshToken}, nil)
	}
	return errors.Join(err, c.clear(entity.AuthEventSignedOut))
}

// ── Puerto session.RoleResolver ──────────────────────────────────────────────

// ResolveRole consulta GET /api/auth/role con el token actual. Toma el lock del cliente para leer
// el token. (nil, nil) si la identidad no tiene rol.
func (c *Client) ResolveRole(ctx context.Context, userID string) (*entity.Role, error) {
	c.mu.Lock()
	sess := c.session
	c.mu.Unlock()
	if sess == nil || sess.User.ID != userID {
		return nil, fmt.Errorf("%w: no hay sesión para %s", domain.ErrRoleLookup, userID)
	}

	var out dto.RoleResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/role", sess.AccessToken, nil, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRoleLookup, err)
	}
	if out.Role == nil {
		return nil, nil
	}
	role, err := entity.ParseRole(*out.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrRoleLookup, err)
	}
	return &role, nil
}

// ── Operaciones de la API ────────────────────────────────────────────────────

// SignIn inicia sesión con email y contraseña y emite SIGNED_IN.
func (c *Client) SignIn(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	var out dto.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	if err := c.set(toSession(out.Session), entity.AuthEventSignedIn); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh rota el refresh token y emite TOKEN_REFRESHED.
func (c *Client) Refresh(ctx context.Context) (*entity.Session, error) {
	c.mu.Lock()
	sess := c.session
	c.mu.Unlock()
	if sess == nil {
		return nil, domain.ErrUnauthorized
	}

	var out dto.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/refresh", "", dto.RefreshRequest{RefreshToken: sess.RefreshToken}, &out); err != nil {
		return nil, err
	}
	next := toSession(out.Session)
	if err := c.set(next, entity.AuthEventTokenRefreshed); err != nil {
		return nil, err
	}
	return next, nil
}

// Me GET /api/auth/session.
func (c *Client) Me(ctx context.Context) (*dto.MeResponse, error) {
	token, err := c.accessToken()
	if err != nil {
		return nil, err
	}
	var out dto.MeResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/session", token, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidateInvitation GET /api/invitations/validate. Un enlace inválido devuelve
// domain.ErrInvalidInvitation.
func (c *Client) ValidateInvitation(ctx context.Context, corporateID string) (*dto.InvitationResponse, error) {
	var out dto.InvitationResponse
	path := "/api/invitations/validate?corporate=" + url.QueryEscape(corporateID)
	if err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, domain.ErrInvalidInvitation
		}
		return nil, err
	}
	return &out, nil
}

func (c *Client) accessToken() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return "", domain.ErrUnauthorized
	}
	return c.session.AccessToken, nil
}

// set guarda la sesión y notifica con el lock tomado. La sesión en memoria y el evento no
// dependen del TokenStore; su error se devuelve al llamador.
func (c *Client) set(sess *entity.Session, typ entity.AuthEventType) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = sess
	c.loaded = true
	err := c.store.Save(sess)
	c.emitLocked(entity.AuthEvent{Type: typ, Session: sess})
	if err != nil {
		return fmt.Errorf("client: guardar sesión: %w", err)
	}
	return nil
}

func (c *Client) clear(typ entity.AuthEventType) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = nil
	c.loaded = true
	err := c.store.Clear()
	c.emitLocked(entity.AuthEvent{Type: typ})
	if err != nil {
		return fmt.Errorf("client: borrar sesión guardada: %w", err)
	}
	return nil
}

func (c *Client) emitLocked(ev entity.AuthEvent) {
	for _, fn := range c.listeners {
		fn(ev)
	}
}

// APIError respuesta de error de la API.
type APIError struct {
	Status int
	dto.ErrorResponse
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api %d %s: %s", e.Status, e.Code, e.Message)
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("client: serializar request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("client: crear HTTP request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("client: timeout o cancelación: %w", ctx.Err())
		}
		return fmt.Errorf("client: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("client: leer respuesta: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		_ = json.Unmarshal(raw, &apiErr.ErrorResponse)
		if resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("%w: %v", domain.ErrUnauthorized, apiErr)
		}
		return apiErr
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("client: parsear respuesta: %w", err)
	}
	return nil
}

func toSession(s dto.SessionResponse) *entity.Session {
	return &entity.Session{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		ExpiresAt:    s.ExpiresAt,
		User: entity.Identity{
			ID:        s.User.ID,
			Email:     s.User.Email,
			CreatedAt: s.User.CreatedAt,
		},
	}
}
