// Package identity es el proveedor de identidad local: credenciales, sesiones (JWT + refresh
// token), interfaz de administración y stream de eventos de sesión.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Mentoria-api/internal/domain"
	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
	"github.com/jhoicas/Mentoria-api/internal/domain/repository"
	"github.com/jhoicas/Mentoria-api/pkg/jwt"
	"github.com/jhoicas/Mentoria-api/pkg/metrics"
)

// SessionStore sesiones de refresco indexadas por hash del token.
type SessionStore interface {
	Save(ctx context.Context, tokenHash, userID string, ttl time.Duration) error
	// Consume devuelve el usuario y borra la sesión; "" si no existe o expiró.
	Consume(ctx context.Context, tokenHash string) (string, error)
	Revoke(ctx context.Context, tokenHash string) error
	RevokeUser(ctx context.Context, userID string) error
}

// Config parámetros de emisión de tokens.
type Config struct {
	JWTSecret        string
	Issuer           string
	AccessTTLMinutes int
	RefreshTTL       time.Duration
}

// Provider proveedor de identidad.
type Provider struct {
	users    repository.IdentityRepository
	sessions SessionStore
	cfg      Config
	log      zerolog.Logger

	mu        sync.Mutex
	listeners map[int]func(entity.AuthEvent)
	nextID    int
}

// NewProvider construye el proveedor.
func NewProvider(users repository.IdentityRepository, sessions SessionStore, cfg Config, log zerolog.Logger) *Provider {
	if cfg.AccessTTLMinutes <= 0 {
		cfg.AccessTTLMinutes = 60
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = 30 * 24 * time.Hour
	}
	return &Provider{
		users:     users,
		sessions:  sessions,
		cfg:       cfg,
		log:       log.With().Str("component", "identity").Logger(),
		listeners: make(map[int]func(entity.AuthEvent)),
	}
}

// SignUp crea la identidad. domain.ErrDuplicateEmail si el email ya está registrado.
func (p *Provider) SignUp(ctx context.Context, email, password string) (*entity.Identity, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: %w", domain.ErrProvider, domain.ErrInvalidInput)
	}
	existing, err := p.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProvider, err)
	}
	if existing != nil {
		return nil, domain.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProvider, err)
	}
	now := time.Now()
	user := &entity.Identity{
		ID:           uuid.New().String(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := p.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrProvider, err)
	}
	return user, nil
}

// SignInWithPassword verifica credenciales y abre una sesión. domain.ErrUnauthorized si no coinciden.
func (p *Provider) SignInWithPassword(ctx context.Context, email, password string) (*entity.Session, error) {
	user, err := p.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProvider, err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}

	sess, err := p.issue(ctx, user)
	if err != nil {
		return nil, err
	}
	p.emit(entity.AuthEvent{Type: entity.AuthEventSignedIn, Session: sess})
	return sess, nil
}

// Refresh canjea el refresh token por una sesión nueva (rotación: el token usado deja de valer).
func (p *Provider) Refresh(ctx context.Context, refreshToken string) (*entity.Session, error) {
	if refreshToken == "" {
		return nil, domain.ErrUnauthorized
	}
	userID, err := p.sessions.Consume(ctx, hashToken(refreshToken))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProvider, err)
	}
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	user, err := p.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProvider, err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}

	sess, err := p.issue(ctx, user)
	if err != nil {
		return nil, err
	}
	p.emit(entity.AuthEvent{Type: entity.AuthEventTokenRefreshed, Session: sess})
	return sess, nil
}

// SignOut revoca la sesión de refresco. Un token desconocido no es error.
func (p *Provider) SignOut(ctx context.Context, refreshToken string) error {
	if refreshToken != "" {
		if err := p.sessions.Revoke(ctx, hashToken(refreshToken)); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrProvider, err)
		}
	}
	p.emit(entity.AuthEvent{Type: entity.AuthEventSignedOut})
	return nil
}

// GetUser valida el access token y devuelve su identidad.
func (p *Provider) GetUser(ctx context.Context, accessToken string) (*entity.Identity, error) {
	userID, _, err := jwt.Parse(p.cfg.JWTSecret, accessToken)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}
	user, err := p.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProvider, err)
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	return user, nil
}

// AdminGetUserByID lectura administrativa; (nil, nil) si no existe.
func (p *Provider) AdminGetUserByID(ctx context.Context, userID string) (*entity.Identity, error) {
	user, err := p.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProvider, err)
	}
	return user, nil
}

// AdminDeleteUser borra la identidad y revoca todas sus sesiones.
func (p *Provider) AdminDeleteUser(ctx context.Context, userID string) error {
	if err := p.sessions.RevokeUser(ctx, userID); err != nil {
		p.log.Warn().Err(err).Str("user_id", userID).Msg("no se pudieron revocar las sesiones")
	}
	if err := p.users.Delete(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: %v", domain.ErrProvider, err)
	}
	p.emit(entity.AuthEvent{Type: entity.AuthEventUserDeleted})
	return nil
}

// OnAuthStateChange registra fn para los eventos de sesión. Los eventos se entregan de forma
// síncrona en la goroutine que los produce.
func (p *Provider) OnAuthStateChange(fn func(entity.AuthEvent)) (unsubscribe func()) {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		delete(p.listeners, id)
		p.mu.Unlock()
	}
}

func (p *Provider) emit(ev entity.AuthEvent) {
	metrics.AuthEvents.WithLabelValues(string(ev.Type)).Inc()

	p.mu.Lock()
	fns := make([]func(entity.AuthEvent), 0, len(p.listeners))
	for _, fn := range p.listeners {
		fns = append(fns, fn)
	}
	p.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func (p *Provider) issue(ctx context.Context, user *entity.Identity) (*entity.Session, error) {
	access, expiresAt, err := jwt.Generate(p.cfg.JWTSecret, user.ID, user.Email, p.cfg.Issuer, p.cfg.AccessTTLMinutes)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProvider, err)
	}
	refresh, err := newRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProvider, err)
	}
	if err := p.sessions.Save(ctx, hashToken(refresh), user.ID, p.cfg.RefreshTTL); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrProvider, err)
	}
	return &entity.Session{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresAt:    expiresAt,
		User:         *user,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
