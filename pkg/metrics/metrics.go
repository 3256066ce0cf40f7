// Package metrics expone los contadores Prometheus del servicio.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Signups registros completados por rol.
	Signups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mentoria",
		Name:      "signups_total",
		Help:      "Registros completados por rol.",
	}, []string{"role"})

	// SignupFailures registros fallidos por rol y etapa (identity | profile).
	SignupFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mentoria",
		Name:      "signup_failures_total",
		Help:      "Registros fallidos por rol y etapa.",
	}, []string{"role", "stage"})

	// InvitationValidations validaciones de enlaces de invitación por resultado.
	InvitationValidations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mentoria",
		Name:      "invitation_validations_total",
		Help:      "Validaciones de enlaces de invitación por resultado.",
	}, []string{"status"})

	// Notifications notificaciones despachadas por tipo y resultado.
	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mentoria",
		Name:      "notifications_total",
		Help:      "Notificaciones despachadas por tipo y resultado.",
	}, []string{"type", "result"})

	// RoleLookupErrors fallos al resolver el rol de un usuario.
	RoleLookupErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "mentoria",
		Name:      "role_lookup_errors_total",
		Help:      "Fallos al consultar el rol de un usuario.",
	})

	// AuthEvents eventos del proveedor de identidad por tipo.
	AuthEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "mentoria",
		Name:      "auth_events_total",
		Help:      "Eventos de sesión emitidos por el proveedor de identidad.",
	}, []string{"type"})
)
