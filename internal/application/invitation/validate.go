package invitation

import (
	"context"
	"strings"

	"github.com/jhoicas/Mentoria-api/internal/domain"
	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
	"github.com/jhoicas/Mentoria-api/pkg/metrics"
)

// Status estado de la validación de un enlace: validating → valid | invalid.
type Status string

const (
	StatusValidating Status = "validating"
	StatusValid      Status = "valid"
	StatusInvalid    Status = "invalid"
)

// Validation resultado terminal de validar un enlace.
type Validation struct {
	Status    Status
	Corporate *entity.CorporateProfile
}

// ValidateInvitation resuelve el corporate del enlace. Sin id, id desconocido o fallo de la consulta
// terminan en StatusInvalid con domain.ErrInvalidInvitation; no hay reintento.
func (s *Service) ValidateInvitation(ctx context.Context, corporateID string) (Validation, error) {
	corporateID = strings.TrimSpace(corporateID)
	if corporateID == "" {
		return s.invalid(corporateID, nil)
	}

	corp, err := s.repos.Corporates.GetByID(ctx, corporateID)
	if err != nil {
		return s.invalid(corporateID, err)
	}
	if corp == nil {
		return s.invalid(corporateID, nil)
	}

	metrics.InvitationValidations.WithLabelValues(string(StatusValid)).Inc()
	return Validation{Status: StatusValid, Corporate: corp}, nil
}

func (s *Service) invalid(corporateID string, cause error) (Validation, error) {
	metrics.InvitationValidations.WithLabelValues(string(StatusInvalid)).Inc()
	if cause != nil {
		s.log.Warn().Err(cause).Str("corporate_id", corporateID).Msg("consulta de invitación fallida")
	}
	return Validation{Status: StatusInvalid}, domain.ErrInvalidInvitation
}
