package repository

import (
	"context"

	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
)

// CorporateRepository puerto de persistencia para CorporateProfile (DIP).
type CorporateRepository interface {
	Create(ctx context.Context, corporate *entity.CorporateProfile) error
	GetByID(ctx context.Context, id string) (*entity.CorporateProfile, error)
	GetByUserID(ctx context.Context, userID string) (*entity.CorporateProfile, error)
}
