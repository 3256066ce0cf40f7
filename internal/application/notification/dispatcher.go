// Package notification despacha los emails transaccionales del flujo de registro.
package notification

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/jhoicas/Mentoria-api/internal/domain"
	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
	"github.com/jhoicas/Mentoria-api/internal/domain/repository"
	"github.com/jhoicas/Mentoria-api/pkg/metrics"
)

// Type tipo de notificación. Conjunto cerrado.
type Type string

const (
	TypeCorporateWelcome Type = "corporate_welcome"
	TypeMentorWelcome    Type = "mentor_welcome"
	TypeSchoolWelcome    Type = "school_welcome"
	TypeNewSignup        Type = "new_signup_notification"
	TypeSchoolInvite     Type = "school_invite"
)

// Claves habituales de Notification.Data.
const (
	DataCorporateID  = "corporateId"
	DataName         = "name"
	DataRole         = "role"
	DataCompanyName  = "companyName"
	DataSchoolName   = "schoolName"
	DataSignupURL    = "signupUrl"
	DataDashboardURL = "dashboardUrl"
)

// ParseType valida el tipo recibido por la API.
func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypeCorporateWelcome, TypeMentorWelcome, TypeSchoolWelcome, TypeNewSignup, TypeSchoolInvite:
		return Type(s), nil
	}
	return "", fmt.Errorf("%w: tipo de notificación desconocido %q", domain.ErrInvalidInput, s)
}

// Notification contrato único de envío: {type, email, data}.
// Para TypeNewSignup el Email se ignora y el destinatario sale de Data["corporateId"].
type Notification struct {
	Type  Type
	Email string
	Data  map[string]string
}

// Sender entrega una notificación ya resuelta a un destinatario (SMTP, log...).
type Sender interface {
	Send(ctx context.Context, to string, n Notification) error
}

// UserLookup interfaz de administración del proveedor de identidad.
type UserLookup interface {
	AdminGetUserByID(ctx context.Context, userID string) (*entity.Identity, error)
}

// Dispatcher punto de entrada único de notificaciones.
type Dispatcher struct {
	sender     Sender
	corporates repository.CorporateRepository
	users      UserLookup
	log        zerolog.Logger
}

// NewDispatcher construye el dispatcher.
func NewDispatcher(sender Sender, corporates repository.CorporateRepository, users UserLookup, log zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		sender:     sender,
		corporates: corporates,
		users:      users,
		log:        log.With().Str("component", "notification").Logger(),
	}
}

// Dispatch resuelve el destinatario y envía. Todo error sale envuelto en domain.ErrNotification.
func (d *Dispatcher) Dispatch(ctx context.Context, n Notification) error {
	if _, err := ParseType(string(n.Type)); err != nil {
		return d.fail(n, err)
	}

	to, err := d.recipient(ctx, n)
	if err != nil {
		return d.fail(n, err)
	}
	if err := d.sender.Send(ctx, to, n); err != nil {
		return d.fail(n, err)
	}

	metrics.Notifications.WithLabelValues(string(n.Type), "sent").Inc()
	d.log.Info().Str("type", string(n.Type)).Str("to", to).Msg("notificación enviada")
	return nil
}

func (d *Dispatcher) recipient(ctx context.Context, n Notification) (string, error) {
	if n.Type != TypeNewSignup {
		email := strings.TrimSpace(n.Email)
		if email == "" {
			return "", fmt.Errorf("%w: email vacío", domain.ErrInvalidInput)
		}
		return email, nil
	}

	corporateID := n.Data[DataCorporateID]
	if corporateID == "" {
		return "", fmt.Errorf("%w: falta %s", domain.ErrInvalidInput, DataCorporateID)
	}
	corp, err := d.corporates.GetByID(ctx, corporateID)
	if err != nil {
		return "", err
	}
	if corp == nil {
		return "", fmt.Errorf("%w: corporate %s", domain.ErrNotFound, corporateID)
	}
	user, err := d.users.AdminGetUserByID(ctx, corp.UserID)
	if err != nil {
		return "", err
	}
	if user == nil || user.Email == "" {
		return "", fmt.Errorf("%w: usuario del corporate %s", domain.ErrNotFound, corporateID)
	}
	return user.Email, nil
}

func (d *Dispatcher) fail(n Notification, err error) error {
	metrics.Notifications.WithLabelValues(string(n.Type), "failed").Inc()
	return fmt.Errorf("%w: %s: %v", domain.ErrNotification, n.Type, err)
}
