package usecase

import (
	"context"
	"strings"

	"github.com/jhoicas/Mentoria-api/internal/application/dto"
	"github.com/jhoicas/Mentoria-api/internal/domain/repository"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
)

// SchoolSearchUseCase sugerencias de nombres de colegio desde el directorio global.
type SchoolSearchUseCase struct {
	directory repository.SchoolDirectoryRepository
}

// NewSchoolSearchUseCase construye el caso de uso.
func NewSchoolSearchUseCase(directory repository.SchoolDirectoryRepository) *SchoolSearchUseCase {
	return &SchoolSearchUseCase{directory: directory}
}

// Search busca por subcadena (sin distinguir mayúsculas ni acentos). Consulta vacía → lista vacía.
func (uc *SchoolSearchUseCase) Search(ctx context.Context, query string, limit int) ([]dto.SchoolDirectoryItem, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []dto.SchoolDirectoryItem{}, nil
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	entries, err := uc.directory.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SchoolDirectoryItem, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.SchoolDirectoryItem{ID: e.ID, SchoolName: e.SchoolName})
	}
	return out, nil
}
