package http

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Mentoria-api/internal/application/dto"
	"github.com/jhoicas/Mentoria-api/internal/domain"
	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
)

// Locals keys para la identidad y el rol en Fiber.
const (
	LocalUserID    = "user_id"
	LocalEmail     = "email"
	LocalRole      = "role"
	LocalCorporate = "corporate"
)

// AccessTokenCookie cookie de sesión para las rutas de página.
const AccessTokenCookie = "access_token"

// Authenticator valida un access token contra el proveedor de identidad.
type Authenticator interface {
	GetUser(ctx context.Context, accessToken string) (*entity.Identity, error)
}

// RoleResolver resolución de rol; (nil, nil) = perfil sin completar.
type RoleResolver interface {
	ResolveRole(ctx context.Context, userID string) (*entity.Role, error)
}

// AuthMiddleware valida el Bearer Token (o la cookie access_token) y carga UserID y Email en c.Locals.
func AuthMiddleware(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, code, msg := accessToken(c)
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: code, Message: msg})
		}
		user, err := auth.GetUser(c.Context(), token)
		if err != nil {
			if errors.Is(err, domain.ErrUnauthorized) {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
			}
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "PROVIDER_ERROR", Message: "no se pudo validar la sesión"})
		}
		c.Locals(LocalUserID, user.ID)
		c.Locals(LocalEmail, user.Email)
		return c.Next()
	}
}

// OptionalAuth como AuthMiddleware pero sin rechazar: si no hay sesión válida sigue sin UserID.
func OptionalAuth(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if token, _, _ := accessToken(c); token != "" {
			if user, err := auth.GetUser(c.Context(), token); err == nil {
				c.Locals(LocalUserID, user.ID)
				c.Locals(LocalEmail, user.Email)
			}
		}
		return c.Next()
	}
}

// RequireRole resuelve el rol del usuario (después de AuthMiddleware) y lo compara con allowed.
//   - 401 sin usuario en el contexto
//   - 403 PROFILE_INCOMPLETE si la identidad no tiene rol, FORBIDDEN si tiene otro
//   - 503 si la consulta del rol falla
func RequireRole(resolver RoleResolver, allowed ...entity.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := GetUserID(c)
		if userID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "sesión requerida"})
		}
		role, err := resolver.ResolveRole(c.Context(), userID)
		if err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "ROLE_LOOKUP_FAILED", Message: "no se pudo consultar el rol, intente más tarde"})
		}
		if role == nil {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "PROFILE_INCOMPLETE", Message: "el usuario no tiene perfil"})
		}
		for _, r := range allowed {
			if *role == r {
				c.Locals(LocalRole, string(*role))
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "rol sin acceso a este recurso"})
	}
}

// accessToken Authorization: Bearer <token>, o la cookie de sesión si no hay header.
func accessToken(c *fiber.Ctx) (token, code, msg string) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		if cookie := strings.TrimSpace(c.Cookies(AccessTokenCookie)); cookie != "" {
			return cookie, "", ""
		}
		return "", "MISSING_TOKEN", "Authorization header requerido"
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", "INVALID_TOKEN", "formato: Bearer <token>"
	}
	tokenString := strings.TrimSpace(parts[1])
	if tokenString == "" {
		return "", "MISSING_TOKEN", "token vacío"
	}
	return tokenString, "", ""
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	return localString(c, LocalUserID)
}

// GetEmail devuelve el email del usuario autenticado.
func GetEmail(c *fiber.Ctx) string {
	return localString(c, LocalEmail)
}

// GetRole devuelve el rol ya verificado por RequireRole.
func GetRole(c *fiber.Ctx) string {
	return localString(c, LocalRole)
}

func localString(c *fiber.Ctx, key string) string {
	v := c.Locals(key)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
