package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Mentoria-api/internal/application/dto"
	"github.com/jhoicas/Mentoria-api/internal/application/invitation"
)

// NotificationHandler reenvío manual de notificaciones por el staff del corporate.
// Requiere AuthMiddleware + RequireRole(corporate) + LoadCorporate.
type NotificationHandler struct {
	svc *invitation.Service
	log zerolog.Logger
}

// NewNotificationHandler construye el handler.
func NewNotificationHandler(svc *invitation.Service, log zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{svc: svc, log: log}
}

// Send godoc
// @Summary      Reenviar una invitación a colegio o un aviso de alta
// @Description  Solo school_invite y new_signup_notification. El enlace de registro y el corporateId los pone el servidor.
// @Tags         notifications
// @Accept       json
// @Security     BearerAuth
// @Param        body  body  dto.NotificationRequest  true  "type, email, data"
// @Success      202
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/notifications [post]
func (h *NotificationHandler) Send(c *fiber.Ctx) error {
	var in dto.NotificationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.svc.SendNotification(c.Context(), corporateOf(c), in); err != nil {
		h.log.Warn().Err(err).Str("type", in.Type).Msg("notificación no enviada")
		return writeError(c, h.log, err)
	}
	return c.SendStatus(fiber.StatusAccepted)
}
