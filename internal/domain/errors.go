package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound     = errors.New("recurso no encontrado")
	ErrInvalidInput = errors.New("entrada inválida")
	ErrDuplicate    = errors.New("recurso duplicado")
	ErrUnauthorized = errors.New("no autorizado")
	ErrForbidden    = errors.New("acceso denegado")
	ErrConflict     = errors.New("conflicto con el estado actual")

	// Taxonomía del flujo de registro e invitaciones.
	ErrInvalidInvitation = errors.New("invitación inválida")
	ErrDuplicateEmail    = errors.New("el email ya está registrado")
	ErrProvider          = errors.New("error del proveedor de identidad")
	ErrProfileCreation   = errors.New("no se pudo crear el perfil")
	ErrNotification      = errors.New("no se pudo enviar la notificación")
	ErrRoleLookup        = errors.New("no se pudo consultar el rol")
)
