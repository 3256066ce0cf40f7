package dto

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// LoginRequest entrada para login. Redirect es el query param ?redirect= de la página de login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Redirect string `json:"redirect,omitempty"`
}

// Validate valida el payload de login.
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// RefreshRequest entrada para rotar el refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UserResponse salida de una identidad (sin password).
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// SessionResponse sesión emitida por el proveedor de identidad.
type SessionResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresAt    time.Time    `json:"expires_at"`
	User         UserResponse `json:"user"`
}

// LoginResponse salida del login: sesión, rol (nil si el perfil no está completo) y destino.
type LoginResponse struct {
	Session  SessionResponse `json:"session"`
	Role     *string         `json:"role"`
	Redirect string          `json:"redirect"`
}

// MeResponse estado de autenticación del usuario actual.
type MeResponse struct {
	User            UserResponse `json:"user"`
	Role            *string      `json:"role"`
	Dashboard       string       `json:"dashboard,omitempty"`
	IsAuthenticated bool         `json:"is_authenticated"`
}

// RoleResponse respuesta de resolución de rol.
type RoleResponse struct {
	UserID string  `json:"user_id"`
	Role   *string `json:"role"`
}
