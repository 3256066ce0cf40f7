package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Mentoria-api/internal/application/usecase"
)

// SchoolHandler búsqueda en el directorio de colegios.
type SchoolHandler struct {
	uc  *usecase.SchoolSearchUseCase
	log zerolog.Logger
}

// NewSchoolHandler construye el handler.
func NewSchoolHandler(uc *usecase.SchoolSearchUseCase, log zerolog.Logger) *SchoolHandler {
	return &SchoolHandler{uc: uc, log: log}
}

// Search godoc
// @Summary      Sugerencias de nombres de colegio
// @Tags         schools
// @Produce      json
// @Param        q      query  string  true   "texto a buscar"
// @Param        limit  query  int     false  "máximo de resultados (10 por defecto, 50 como máximo)"
// @Success      200   {array}  dto.SchoolDirectoryItem
// @Router       /api/schools/search [get]
func (h *SchoolHandler) Search(c *fiber.Ctx) error {
	out, err := h.uc.Search(c.Context(), c.Query("q"), c.QueryInt("limit", 0))
	if err != nil {
		return writeError(c, h.log, err)
	}
	return c.JSON(out)
}
