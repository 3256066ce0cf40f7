package pdf_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Mentoria-api/internal/application/dto"
	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
	"github.com/jhoicas/Mentoria-api/internal/infrastructure/pdf"
)

func TestGenerateInvitationPack(t *testing.T) {
	g := pdf.NewInvitationPackGenerator()
	out, err := g.GenerateInvitationPack(
		&entity.CorporateProfile{ID: "c1", CompanyName: "Acme Bank", Industry: "Finance"},
		dto.InvitationLinks{
			CorporateID:     "c1",
			MentorSignupURL: "https://app.mentoria.test/mentor-signup?corporate=c1",
			SchoolSignupURL: "https://app.mentoria.test/school-signup?corporate=c1",
		},
	)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
