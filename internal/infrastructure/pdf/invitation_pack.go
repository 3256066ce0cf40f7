// Package pdf genera el pack de invitación imprimible de un corporate.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Empresa + sector    │  "Invitation pack" + fecha    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  MENTORES: QR │ texto + URL de registro de mentor            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  COLEGIOS: QR │ texto + URL de registro de colegio           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: los enlaces son personales del corporate            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/Mentoria-api/internal/application/dto"
	"github.com/jhoicas/Mentoria-api/internal/application/invitation"
	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 22, Green: 78, Blue: 99}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ invitation.PackGenerator = (*InvitationPackGenerator)(nil)

// InvitationPackGenerator implementa invitation.PackGenerator con Maroto v2.
type InvitationPackGenerator struct {
	now func() time.Time
}

// NewInvitationPackGenerator construye el generador.
func NewInvitationPackGenerator() *InvitationPackGenerator {
	return &InvitationPackGenerator{now: time.Now}
}

// GenerateInvitationPack genera el PDF y devuelve sus bytes.
func (g *InvitationPackGenerator) GenerateInvitationPack(corp *entity.CorporateProfile, links dto.InvitationLinks) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(15).WithRightMargin(15).
		WithTopMargin(15).WithBottomMargin(15).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 10}).
		WithTitle("Mentoria invitation pack", true).
		WithAuthor(corp.CompanyName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(corp, g.now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(line.NewRow(6))
	m.AddRows(linkRows(
		"Mentors",
		"Employees of "+corp.CompanyName+" can volunteer as mentors by scanning this code or visiting:",
		links.MentorSignupURL,
	)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(line.NewRow(6))
	m.AddRows(linkRows(
		"Schools",
		"Schools sponsored by "+corp.CompanyName+" can register by scanning this code or visiting:",
		links.SchoolSignupURL,
	)...)
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar pack de invitación: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(corp *entity.CorporateProfile, now time.Time) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(corp.CompanyName, props.Text{
				Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1,
			}),
			text.New(corp.Industry, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("INVITATION PACK", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(now.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

// linkRows: título, y QR a la izquierda con la explicación y la URL a la derecha.
func linkRows(title, body, url string) []core.Row {
	return []core.Row{
		row.New(8).Add(col.New(12).Add(
			text.New(title, props.Text{Style: fontstyle.Bold, Size: 12, Color: colorPrimary}),
		)),
		row.New(45).Add(
			col.New(4).Add(code.NewQr(url, props.Rect{
				Percent: 95,
				Center:  true,
			})),
			col.New(8).Add(
				text.New(body, props.Text{Size: 10, Top: 6, Left: 3}),
				text.New(url, props.Text{Size: 8, Top: 22, Left: 3, Color: colorGray}),
			),
		),
		line.NewRow(4),
	}
}

func footerRow() core.Row {
	return row.New(12).Add(col.New(12).Add(
		text.New("These links are specific to your organisation. Anyone who signs up through them joins your programme.", props.Text{
			Size: 7, Top: 4, Align: align.Center, Color: colorGray,
		}),
	))
}
