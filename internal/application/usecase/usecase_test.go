package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Mentoria-api/internal/application/dto"
	"github.com/jhoicas/Mentoria-api/internal/application/invitation"
	"github.com/jhoicas/Mentoria-api/internal/application/notification"
	"github.com/jhoicas/Mentoria-api/internal/application/usecase"
	"github.com/jhoicas/Mentoria-api/internal/domain"
	"github.com/jhoicas/Mentoria-api/internal/domain/entity"
	"github.com/jhoicas/Mentoria-api/internal/infrastructure/identity"
	"github.com/jhoicas/Mentoria-api/internal/infrastructure/memory"
)

type nopNotifier struct{}

func (nopNotifier) Dispatch(context.Context, notification.Notification) error { return nil }

type nopPack struct{}

func (nopPack) GenerateInvitationPack(*entity.CorporateProfile, dto.InvitationLinks) ([]byte, error) {
	return nil, nil
}

func setup(t *testing.T) (*invitation.Service, *usecase.DashboardUseCase, *usecase.SchoolSearchUseCase) {
	t.Helper()
	store := memory.NewStore()
	repos := memory.Repos(store)
	provider := identity.NewProvider(memory.NewIdentityRepository(store), identity.NewMemorySessionStore(),
		identity.Config{JWTSecret: "s"}, zerolog.Nop())
	svc := invitation.NewService(memory.NewTxRunner(store), repos, provider, nopNotifier{}, nopPack{},
		invitation.Config{PublicURL: "https://app.mentoria.test", NotifyTimeout: time.Second}, zerolog.Nop())
	t.Cleanup(svc.WaitNotifications)

	dash := usecase.NewDashboardUseCase(repos.Corporates, repos.Schools, repos.PendingSchools, repos.Mentors, svc)
	return svc, dash, usecase.NewSchoolSearchUseCase(repos.Directory)
}

func TestDashboards(t *testing.T) {
	svc, dash, _ := setup(t)
	ctx := context.Background()

	corp, err := svc.SignupCorporate(ctx, dto.CorporateSignupRequest{
		Email: "corp@example.com", Password: "password123", CompanyName: "Acme Bank", Industry: "Finance", CompanySize: "50",
	})
	require.NoError(t, err)
	school, err := svc.SignupSchool(ctx, corp.ProfileID, dto.SchoolSignupRequest{
		Email: "head@oakhill.example", Password: "password123", SchoolName: "Oak Hill School", SchoolType: "Primary",
		Location: "Leeds", StudentCount: 300, FSMPercentage: decimal.NewFromInt(12), ContactName: "Sam Green",
		ContactRole: "Head", Phone: "+44 20 7946 0958",
	})
	require.NoError(t, err)
	mentor, err := svc.SignupMentor(ctx, corp.ProfileID, dto.MentorSignupRequest{
		Email: "maya@example.com", Password: "password123", FullName: "Maya Lopez", CompanyName: "Acme Bank",
		JobTitle: "Analyst", SchoolName: "Oak Hill School",
	})
	require.NoError(t, err)
	_, err = svc.SignupMentor(ctx, corp.ProfileID, dto.MentorSignupRequest{
		Email: "leo@example.com", Password: "password123", FullName: "Leo Park", CompanyName: "Acme Bank",
		JobTitle: "Engineer", SchoolName: "Elm Park Academy", IsNewSchool: true,
	})
	require.NoError(t, err)

	cd, err := dash.Corporate(ctx, corp.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Bank", cd.Corporate.CompanyName)
	assert.Len(t, cd.Mentors, 2)
	assert.Len(t, cd.Schools, 1)
	assert.Len(t, cd.PendingSchools, 1)
	assert.Equal(t, corp.Links.MentorSignupURL, cd.Links.MentorSignupURL)

	sd, err := dash.School(ctx, school.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Acme Bank", sd.CorporateName)
	require.Len(t, sd.Mentors, 1)
	assert.Equal(t, "Maya Lopez", sd.Mentors[0].FullName)
	assert.Equal(t, "12.00", sd.School.FSMPercentage)

	md, err := dash.Mentor(ctx, mentor.UserID)
	require.NoError(t, err)
	assert.Equal(t, "registered", md.SchoolStatus)
	assert.Equal(t, "Oak Hill School", md.SchoolName)

	_, err = dash.Mentor(ctx, corp.UserID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSchoolSearch(t *testing.T) {
	svc, _, search := setup(t)
	ctx := context.Background()
	corp, err := svc.SignupCorporate(ctx, dto.CorporateSignupRequest{
		Email: "corp@example.com", Password: "password123", CompanyName: "Acme Bank", Industry: "Finance", CompanySize: "50",
	})
	require.NoError(t, err)
	_, err = svc.InviteSchool(ctx, corp.ProfileID, dto.InviteSchoolRequest{SchoolName: "St. Mary's Primary", Email: "a@stmarys.example"})
	require.NoError(t, err)
	_, err = svc.InviteSchool(ctx, corp.ProfileID, dto.InviteSchoolRequest{SchoolName: "Maryhill High", Email: "b@maryhill.example"})
	require.NoError(t, err)

	items, err := search.Search(ctx, "MARY", 0)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Maryhill High", items[0].SchoolName, "los prefijos primero")

	items, err = search.Search(ctx, "  ", 0)
	require.NoError(t, err)
	assert.Empty(t, items)
}
