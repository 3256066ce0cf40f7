package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Mentoria-api/internal/application/auth"
	"github.com/jhoicas/Mentoria-api/internal/application/guard"
	"github.com/jhoicas/Mentoria-api/internal/application/invitation"
	"github.com/jhoicas/Mentoria-api/internal/application/usecase"
	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	Invitations  *invitation.Service
	Dashboards   *usecase.DashboardUseCase
	SchoolSearch *usecase.SchoolSearchUseCase
	Auth         Authenticator
	Roles        RoleResolver
	Log          zerolog.Logger
}

// Router registra las rutas de la API y de las páginas.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")
	requireAuth := AuthMiddleware(deps.Auth)

	// Auth
	authHandler := NewAuthHandler(deps.AuthUC, deps.Log)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Get("/session", requireAuth, authHandler.Session)
	authGroup.Get("/role", requireAuth, authHandler.Role)

	// Invitaciones y registro (público)
	invHandler := NewInvitationHandler(deps.Invitations, deps.Log)
	api.Get("/invitations/validate", invHandler.Validate)
	signup := api.Group("/signup")
	signup.Post("/corporate", invHandler.SignupCorporate)
	signup.Post("/mentor", invHandler.SignupMentor)
	signup.Post("/school", invHandler.SignupSchool)

	// Directorio de colegios (público, sugerencias del formulario de mentor)
	schoolHandler := NewSchoolHandler(deps.SchoolSearch, deps.Log)
	api.Get("/schools/search", schoolHandler.Search)

	// Staff del corporate (JWT + RBAC)
	corpHandler := NewCorporateHandler(deps.Invitations, deps.Log)
	staff := []fiber.Handler{requireAuth, RequireRole(deps.Roles, entity.RoleCorporate), corpHandler.LoadCorporate}
	corporate := api.Group("/corporate", staff...)
	corporate.Get("/profile", corpHandler.Profile)
	corporate.Get("/invitation-links", corpHandler.Links)
	corporate.Get("/invitation-pack", corpHandler.InvitationPack)
	corporate.Get("/mentors", corpHandler.ListMentors)
	corporate.Put("/mentors/:id/school", corpHandler.AssignSchool)
	corporate.Get("/schools", corpHandler.ListSchools)
	corporate.Post("/schools/invite", corpHandler.InviteSchool)
	corporate.Get("/pending-schools", corpHandler.ListPendingSchools)

	// Notificaciones (staff del corporate)
	notifHandler := NewNotificationHandler(deps.Invitations, deps.Log)
	api.Post("/notifications", append(staff, notifHandler.Send)...)

	// Páginas
	pages := NewPageHandler(deps.Roles, deps.Dashboards, deps.Invitations, deps.Log)
	optional := OptionalAuth(deps.Auth)
	app.Get(entity.RoleCorporate.Dashboard(), optional, pages.CorporateDashboard())
	app.Get(entity.RoleSchool.Dashboard(), optional, pages.SchoolDashboard())
	app.Get(entity.RoleMentor.Dashboard(), optional, pages.MentorDashboard())
	app.Get(guard.LoginPath, optional, pages.Login)
	app.Get(invitation.CorporateSignupPath, optional, pages.CorporateSignup)
	app.Get(invitation.MentorSignupPath, optional, pages.InvitedSignup(invitation.MentorSignupPath))
	app.Get(invitation.SchoolSignupPath, optional, pages.InvitedSignup(invitation.SchoolSignupPath))
	for _, p := range guard.PublicRoutes() {
		switch p {
		case guard.LoginPath, invitation.CorporateSignupPath, invitation.MentorSignupPath, invitation.SchoolSignupPath:
			continue
		}
		app.Get(p, pages.Public)
	}
}
