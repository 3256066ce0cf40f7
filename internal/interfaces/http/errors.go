package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Mentoria-api/internal/application/dto"
	"github.com/jhoicas/Mentoria-api/internal/domain"
)

// writeError traduce los errores de dominio al cuerpo dto.ErrorResponse y su status.
func writeError(c *fiber.Ctx, log zerolog.Logger, err error) error {
	status, body := errorResponse(err)
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Msg("error interno")
	}
	return c.Status(status).JSON(body)
}

func errorResponse(err error) (int, dto.ErrorResponse) {
	if fields := dto.ValidationFields(err); fields != nil {
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: "revise los campos del formulario", Fields: fields}
	}
	switch {
	case errors.Is(err, domain.ErrInvalidInvitation):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "INVALID_INVITATION", Message: "el enlace de invitación no es válido"}
	case errors.Is(err, domain.ErrDuplicateEmail):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "EMAIL_EXISTS", Message: "el email ya está registrado, inicie sesión"}
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"}
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"}
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"}
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()}
	case errors.Is(err, domain.ErrRoleLookup):
		return fiber.StatusServiceUnavailable, dto.ErrorResponse{Code: "ROLE_LOOKUP_FAILED", Message: "no se pudo consultar el rol"}
	case errors.Is(err, domain.ErrProvider):
		return fiber.StatusBadGateway, dto.ErrorResponse{Code: "PROVIDER_ERROR", Message: "el proveedor de identidad no respondió"}
	case errors.Is(err, domain.ErrProfileCreation):
		return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "PROFILE_CREATION_FAILED", Message: "no se pudo crear el perfil, intente de nuevo"}
	case errors.Is(err, domain.ErrNotification):
		return fiber.StatusBadGateway, dto.ErrorResponse{Code: "NOTIFICATION_FAILED", Message: "no se pudo enviar la notificación"}
	}
	return fiber.StatusInternalServerError, dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"}
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
