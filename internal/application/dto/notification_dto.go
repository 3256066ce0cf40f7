package dto

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// NotificationRequest contrato {type, email, data} del envío de notificaciones.
type NotificationRequest struct {
	Type  string            `json:"type"`
	Email string            `json:"email"`
	Data  map[string]string `json:"data"`
}

// Validate el tipo se comprueba contra el catálogo en notification.ParseType.
func (r NotificationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Type, validation.Required),
		validation.Field(&r.Email, is.Email),
	)
}
