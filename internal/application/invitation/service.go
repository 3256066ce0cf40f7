// Package invitation implementa la validación de enlaces de invitación, los registros de
// corporate, mentor y colegio, y las operaciones del staff del corporate sobre sus colegios.
package invitation

import (
	"context"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Mentoria-api/internal/application/dto"
	"github.com/jhoicas/Mentoria-api/internal/application/notification"
	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
)

// Parámetro de query que lleva el id del corporate en los enlaces de invitación.
const CorporateParam = "corporate"

// Rutas de las páginas de registro.
const (
	MentorSignupPath    = "/mentor-signup"
	SchoolSignupPath    = "/school-signup"
	CorporateSignupPath = "/corporate-signup"
)

// Config parámetros del servicio.
type Config struct {
	// PublicURL origen con el que se construyen los enlaces (ej. https://app.mentoria.org).
	PublicURL string
	// NotifyTimeout límite de cada notificación en segundo plano.
	NotifyTimeout time.Duration
	// PhoneRegion región por defecto para interpretar teléfonos (ej. GB).
	PhoneRegion string
}

// Service casos de uso de invitaciones y registro.
type Service struct {
	tx       TxRunner
	repos    Repos
	provider IdentityProvider
	notifier Notifier
	pack     PackGenerator
	cfg      Config
	log      zerolog.Logger

	inflight sync.WaitGroup
}

// NewService construye el servicio. repos se usa para lecturas fuera de transacción.
func NewService(
	tx TxRunner,
	repos Repos,
	provider IdentityProvider,
	notifier Notifier,
	pack PackGenerator,
	cfg Config,
	log zerolog.Logger,
) *Service {
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = 15 * time.Second
	}
	if cfg.PhoneRegion == "" {
		cfg.PhoneRegion = "GB"
	}
	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")
	return &Service{
		tx:       tx,
		repos:    repos,
		provider: provider,
		notifier: notifier,
		pack:     pack,
		cfg:      cfg,
		log:      log.With().Str("component", "invitation").Logger(),
	}
}

// BuildSignupURL construye <origin><path>?corporate=<id>.
func BuildSignupURL(origin, path, corporateID string) string {
	q := url.Values{}
	q.Set(CorporateParam, corporateID)
	return strings.TrimRight(origin, "/") + path + "?" + q.Encode()
}

// InvitationLinks enlaces de registro de mentores y colegios de un corporate.
func (s *Service) InvitationLinks(corporateID string) dto.InvitationLinks {
	return dto.InvitationLinks{
		CorporateID:     corporateID,
		MentorSignupURL: BuildSignupURL(s.cfg.PublicURL, MentorSignupPath, corporateID),
		SchoolSignupURL: BuildSignupURL(s.cfg.PublicURL, SchoolSignupPath, corporateID),
	}
}

func (s *Service) dashboardURL(role entity.Role) string {
	return s.cfg.PublicURL + role.Dashboard()
}

// notifyAsync despacha sin esperar. Los fallos solo se registran.
func (s *Service) notifyAsync(notes ...notification.Notification) {
	for _, n := range notes {
		s.inflight.Add(1)
		go func(n notification.Notification) {
			defer s.inflight.Done()
			ctx, cancel := context.WithTimeout(context.Background(), s.cfg.NotifyTimeout)
			defer cancel()
			if err := s.notifier.Dispatch(ctx, n); err != nil {
				s.log.Warn().Err(err).
					Str("type", string(n.Type)).
					Str("corporate_id", n.Data[notification.DataCorporateID]).
					Msg("notificación fallida")
			}
		}(n)
	}
}

// WaitNotifications espera a las notificaciones en curso (apagado ordenado).
func (s *Service) WaitNotifications() {
	s.inflight.Wait()
}
