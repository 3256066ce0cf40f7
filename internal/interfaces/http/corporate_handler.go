package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Mentoria-api/internal/application/dto"
	"github.com/jhoicas/Mentoria-api/internal/application/invitation"
	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
)

// CorporateHandler operaciones del staff del corporate. Todas las rutas van detrás de
// AuthMiddleware + RequireRole(corporate) + LoadCorporate.
type CorporateHandler struct {
	svc *invitation.Service
	log zerolog.Logger
}

// NewCorporateHandler construye el handler.
func NewCorporateHandler(svc *invitation.Service, log zerolog.Logger) *CorporateHandler {
	return &CorporateHandler{svc: svc, log: log}
}

// LoadCorporate carga en c.Locals el CorporateProfile del usuario autenticado.
func (h *CorporateHandler) LoadCorporate(c *fiber.Ctx) error {
	corp, err := h.svc.CorporateForUser(c.Context(), GetUserID(c))
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Locals(LocalCorporate, corp)
	return c.Next()
}

func corporateOf(c *fiber.Ctx) *entity.CorporateProfile {
	corp, _ := c.Locals(LocalCorporate).(*entity.CorporateProfile)
	return corp
}

// Profile godoc
// @Summary      Perfil del corporate y sus enlaces de invitación
// @Tags         corporate
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  dto.CorporateResponse
// @Router       /api/corporate/profile [get]
func (h *CorporateHandler) Profile(c *fiber.Ctx) error {
	return c.JSON(invitation.ToCorporateResponse(corporateOf(c)))
}

// Links godoc
// @Summary      Enlaces de invitación de mentor y colegio
// @Tags         corporate
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  dto.InvitationLinks
// @Router       /api/corporate/invitation-links [get]
func (h *CorporateHandler) Links(c *fiber.Ctx) error {
	return c.JSON(h.svc.InvitationLinks(corporateOf(c).ID))
}

// InvitationPack godoc
// @Summary      PDF imprimible con los enlaces y sus códigos QR
// @Tags         corporate
// @Produce      application/pdf
// @Security     BearerAuth
// @Success      200
// @Router       /api/corporate/invitation-pack [get]
func (h *CorporateHandler) InvitationPack(c *fiber.Ctx) error {
	pdf, err := h.svc.InvitationPack(c.Context(), corporateOf(c).ID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="invitation-pack.pdf"`)
	return c.Send(pdf)
}

// ListMentors godoc
// @Summary      Mentores del corporate
// @Tags         corporate
// @Produce      json
// @Security     BearerAuth
// @Success      200   {array}  dto.MentorResponse
// @Router       /api/corporate/mentors [get]
func (h *CorporateHandler) ListMentors(c *fiber.Ctx) error {
	out, err := h.svc.ListMentors(c.Context(), corporateOf(c).ID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListSchools godoc
// @Summary      Colegios registrados del corporate
// @Tags         corporate
// @Produce      json
// @Security     BearerAuth
// @Success      200   {array}  dto.SchoolResponse
// @Router       /api/corporate/schools [get]
func (h *CorporateHandler) ListSchools(c *fiber.Ctx) error {
	out, err := h.svc.ListSchools(c.Context(), corporateOf(c).ID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// ListPendingSchools godoc
// @Summary      Colegios pendientes del corporate
// @Tags         corporate
// @Produce      json
// @Security     BearerAuth
// @Success      200   {array}  dto.PendingSchoolResponse
// @Router       /api/corporate/pending-schools [get]
func (h *CorporateHandler) ListPendingSchools(c *fiber.Ctx) error {
	out, err := h.svc.ListPendingSchools(c.Context(), corporateOf(c).ID)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// AssignSchool godoc
// @Summary      Asignar o reasignar el colegio de un mentor
// @Tags         corporate
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string  true  "ID del mentor"
// @Param        body  body  dto.SchoolChoice  true  "registered | pending | new"
// @Success      200   {object}  dto.MentorResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/corporate/mentors/{id}/school [put]
func (h *CorporateHandler) AssignSchool(c *fiber.Ctx) error {
	var in dto.SchoolChoice
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.AssignSchool(c.Context(), corporateOf(c).ID, c.Params("id"), in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}

// InviteSchool godoc
// @Summary      Invitar un colegio por email
// @Tags         corporate
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body  dto.InviteSchoolRequest  true  "school_name, email"
// @Success      201   {object}  dto.PendingSchoolResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/corporate/schools/invite [post]
func (h *CorporateHandler) InviteSchool(c *fiber.Ctx) error {
	var in dto.InviteSchoolRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.InviteSchool(c.Context(), corporateOf(c).ID, in)
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
