package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Mentoria-api/internal/application/dto"
	"github.com/jhoicas/Mentoria-api/internal/application/guard"
	"github.com/jhoicas/Mentoria-api/internal/application/invitation"
	"github.com/jhoicas/Mentoria-api/internal/application/usecase"
	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
)

// PageHandler rutas de página: aplica las guardas y responde con el payload de cada pantalla.
// Necesita OptionalAuth antes para conocer al usuario.
type PageHandler struct {
	roles      RoleResolver
	dashboards *usecase.DashboardUseCase
	invites    *invitation.Service
	log        zerolog.Logger
}

// NewPageHandler construye el handler.
func NewPageHandler(roles RoleResolver, dashboards *usecase.DashboardUseCase, invites *invitation.Service, log zerolog.Logger) *PageHandler {
	return &PageHandler{roles: roles, dashboards: dashboards, invites: invites, log: log}
}

// guardState estado de sesión de la petición. Un fallo al resolver el rol se registra y se trata
// como rol desconocido.
func (h *PageHandler) guardState(c *fiber.Ctx) guard.State {
	userID := GetUserID(c)
	if userID == "" {
		return guard.State{}
	}
	st := guard.State{IsAuthenticated: true, UserID: userID}
	role, err := h.roles.ResolveRole(c.Context(), userID)
	if err != nil {
		h.log.Error().Err(err).Str("user_id", userID).Msg("guarda: no se pudo resolver el rol")
		return st
	}
	st.Role = role
	return st
}

// Dashboard ruta protegida por rol. render produce el payload del panel cuando la guarda deja pasar.
func (h *PageHandler) Dashboard(role entity.Role, render func(ctx context.Context, userID string) (any, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d := guard.RequireRole(h.guardState(c), role, c.OriginalURL())
		if d.Action == guard.Redirect {
			return c.Redirect(d.Location, fiber.StatusFound)
		}
		out, err := render(c.Context(), GetUserID(c))
		if err != nil {
			return writeError(c, h.log, err)
		}
		return c.JSON(out)
	}
}

// CorporateDashboard godoc
// @Summary      Panel corporate (redirige si el rol no coincide)
// @Tags         pages
// @Produce      json
// @Success      200   {object}  dto.CorporateDashboard
// @Success      302
// @Router       /corporate-dashboard [get]
func (h *PageHandler) CorporateDashboard() fiber.Handler {
	return h.Dashboard(entity.RoleCorporate, func(ctx context.Context, userID string) (any, error) {
		return h.dashboards.Corporate(ctx, userID)
	})
}

// SchoolDashboard godoc
// @Summary      Panel de colegio (redirige si el rol no coincide)
// @Tags         pages
// @Produce      json
// @Success      200   {object}  dto.SchoolDashboard
// @Success      302
// @Router       /school-dashboard [get]
func (h *PageHandler) SchoolDashboard() fiber.Handler {
	return h.Dashboard(entity.RoleSchool, func(ctx context.Context, userID string) (any, error) {
		return h.dashboards.School(ctx, userID)
	})
}

// MentorDashboard godoc
// @Summary      Panel de mentor (redirige si el rol no coincide)
// @Tags         pages
// @Produce      json
// @Success      200   {object}  dto.MentorDashboard
// @Success      302
// @Router       /mentor-dashboard [get]
func (h *PageHandler) MentorDashboard() fiber.Handler {
	return h.Dashboard(entity.RoleMentor, func(ctx context.Context, userID string) (any, error) {
		return h.dashboards.Mentor(ctx, userID)
	})
}

// pageResponse payload de las páginas públicas.
type pageResponse struct {
	Page       string                  `json:"page"`
	Reason     string                  `json:"reason,omitempty"`
	Redirect   string                  `json:"redirect,omitempty"`
	Invitation *dto.InvitationResponse `json:"invitation,omitempty"`
}

// Login página de login: quien ya tiene sesión y rol sale hacia ?redirect= o su dashboard.
func (h *PageHandler) Login(c *fiber.Ctx) error {
	if d := guard.RedirectIfAuthenticated(h.guardState(c), c.Query("redirect"), ""); d.Action == guard.Redirect {
		return c.Redirect(d.Location, fiber.StatusFound)
	}
	return c.JSON(pageResponse{Page: guard.LoginPath, Reason: c.Query("reason"), Redirect: c.Query("redirect")})
}

// CorporateSignup página de registro de corporate.
func (h *PageHandler) CorporateSignup(c *fiber.Ctx) error {
	if d := guard.RedirectIfAuthenticated(h.guardState(c), "", ""); d.Action == guard.Redirect {
		return c.Redirect(d.Location, fiber.StatusFound)
	}
	return c.JSON(pageResponse{Page: invitation.CorporateSignupPath})
}

// InvitedSignup páginas de registro por invitación: incluyen el resultado de validar ?corporate=.
func (h *PageHandler) InvitedSignup(path string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if d := guard.RedirectIfAuthenticated(h.guardState(c), "", ""); d.Action == guard.Redirect {
			return c.Redirect(d.Location, fiber.StatusFound)
		}
		inv := dto.InvitationResponse{Status: string(invitation.StatusInvalid)}
		if v, err := h.invites.ValidateInvitation(c.Context(), c.Query(invitation.CorporateParam)); err == nil {
			inv = dto.InvitationResponse{Status: string(v.Status), CorporateID: v.Corporate.ID, CompanyName: v.Corporate.CompanyName}
		}
		return c.JSON(pageResponse{Page: path, Invitation: &inv})
	}
}

// Public páginas sin guarda.
func (h *PageHandler) Public(c *fiber.Ctx) error {
	return c.JSON(pageResponse{Page: c.Path()})
}
