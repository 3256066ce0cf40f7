package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Mentoria-api/internal/application/dto"
	"github.com/jhoicas/Mentoria-api/internal/application/invitation"
	"github.com/jhoicas/Mentoria-api/internal/domain"
)

// InvitationHandler validación de enlaces y registros de corporate, mentor y colegio.
type InvitationHandler struct {
	svc *invitation.Service
	log zerolog.Logger
}

// NewInvitationHandler construye el handler.
func NewInvitationHandler(svc *invitation.Service, log zerolog.Logger) *InvitationHandler {
	return &InvitationHandler{svc: svc, log: log}
}

// Validate godoc
// @Summary      Validar un enlace de invitación
// @Tags         invitations
// @Produce      json
// @Param        corporate  query  string  true  "ID del corporate"
// @Success      200   {object}  dto.InvitationResponse
// @Failure      404   {object}  dto.InvitationResponse
// @Router       /api/invitations/validate [get]
func (h *InvitationHandler) Validate(c *fiber.Ctx) error {
	v, err := h.svc.ValidateInvitation(c.Context(), c.Query(invitation.CorporateParam))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInvitation) {
			return c.Status(fiber.StatusNotFound).JSON(dto.InvitationResponse{Status: string(invitation.StatusInvalid)})
		}
		return writeError(c, h.log, err)
	}
	return c.JSON(dto.InvitationResponse{
		Status:      string(v.Status),
		CorporateID: v.Corporate.ID,
		CompanyName: v.Corporate.CompanyName,
	})
}

// SignupCorporate godoc
// @Summary      Registro de corporate
// @Tags         signup
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CorporateSignupRequest  true  "formulario"
// @Success      201   {object}  dto.SignupResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/signup/corporate [post]
func (h *InvitationHandler) SignupCorporate(c *fiber.Ctx) error {
	var in dto.CorporateSignupRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.SignupCorporate(c.Context(), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// SignupMentor godoc
// @Summary      Registro de mentor vía invitación
// @Tags         signup
// @Accept       json
// @Produce      json
// @Param        corporate  query  string  true  "ID del corporate"
// @Param        body  body  dto.MentorSignupRequest  true  "formulario"
// @Success      201   {object}  dto.SignupResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/signup/mentor [post]
func (h *InvitationHandler) SignupMentor(c *fiber.Ctx) error {
	var in dto.MentorSignupRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.SignupMentor(c.Context(), c.Query(invitation.CorporateParam), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// SignupSchool godoc
// @Summary      Registro de colegio vía invitación
// @Tags         signup
// @Accept       json
// @Produce      json
// @Param        corporate  query  string  true  "ID del corporate"
// @Param        body  body  dto.SchoolSignupRequest  true  "formulario"
// @Success      201   {object}  dto.SignupResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/signup/school [post]
func (h *InvitationHandler) SignupSchool(c *fiber.Ctx) error {
	var in dto.SchoolSignupRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.SignupSchool(c.Context(), c.Query(invitation.CorporateParam), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
