package entity

import "time"

// Identity usuario del proveedor de identidad (credenciales + email).
type Identity struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano después de persistir
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Session sesión emitida por el proveedor de identidad.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         Identity
}

// AuthEventType tipo de evento del stream "session changed".
type AuthEventType string

const (
	AuthEventInitialSession AuthEventType = "INITIAL_SESSION"
	AuthEventSignedIn       AuthEventType = "SIGNED_IN"
	AuthEventSignedOut      AuthEventType = "SIGNED_OUT"
	AuthEventTokenRefreshed AuthEventType = "TOKEN_REFRESHED"
	AuthEventUserDeleted    AuthEventType = "USER_DELETED"
)

// AuthEvent evento emitido por el proveedor. Session es nil cuando no hay usuario.
type AuthEvent struct {
	Type    AuthEventType
	Session *Session
}
