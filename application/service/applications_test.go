package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobvault/jobvault/application/service"
	"github.com/jobvault/jobvault/domain/application"
	"github.com/jobvault/jobvault/domain/record"
	"github.com/jobvault/jobvault/infrastructure/persistence"
	"github.com/jobvault/jobvault/infrastructure/provider"
	"github.com/jobvault/jobvault/internal/testdb"
)

const testUser = "alice"

func newDocumentStore(t *testing.T) *persistence.DocumentStore {
	t.Helper()
	db := testdb.New(t)
	return persistence.NewDocumentStore(db, provider.NewFakeEmbedder(testdb.Dimensions), testdb.Dimensions)
}

func newApplications(t *testing.T) *service.Applications {
	t.Helper()
	return service.NewApplications(newDocumentStore(t), nil)
}

func mustApplication(t *testing.T, company, role, status, appliedDate string) application.Application {
	t.Helper()
	app, err := application.New(company, role, status, appliedDate)
	require.NoError(t, err)
	return app
}

func TestApplicationsCreateAndGet(t *testing.T) {
	svc := newApplications(t)
	ctx := context.Background()

	app := mustApplication(t, "Acme", "Backend Engineer", "applied", "2026-08-01")
	created, err := svc.Create(ctx, testUser, app)
	require.NoError(t, err)

	got, err := svc.Get(ctx, testUser, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestApplicationsCreateRejectsActiveDuplicate(t *testing.T) {
	svc := newApplications(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, testUser, mustApplication(t, "Acme", "Backend Engineer", "applied", ""))
	require.NoError(t, err)

	_, err = svc.Create(ctx, testUser, mustApplication(t, "Acme", "Backend Engineer", "tracking", ""))
	assert.ErrorIs(t, err, record.ErrDuplicateRecord)

	// A different role at the same company is fine.
	_, err = svc.Create(ctx, testUser, mustApplication(t, "Acme", "SRE", "applied", ""))
	assert.NoError(t, err)
}

func TestApplicationsCreateAllowedAfterTerminal(t *testing.T) {
	svc := newApplications(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, testUser, mustApplication(t, "Acme", "Backend Engineer", "applied", ""))
	require.NoError(t, err)

	_, err = svc.UpdateStatus(ctx, testUser, first.ID, "rejected", "")
	require.NoError(t, err)

	_, err = svc.Create(ctx, testUser, mustApplication(t, "Acme", "Backend Engineer", "applied", ""))
	assert.NoError(t, err)
}

func TestApplicationsListFiltersAndDefaultOrder(t *testing.T) {
	svc := newApplications(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, testUser, mustApplication(t, "Acme", "Role A", "applied", "2026-08-01"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, testUser, mustApplication(t, "Beta", "Role B", "tracking", "2026-08-10"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, testUser, mustApplication(t, "Gamma", "Role C", "applied", "2026-08-05"))
	require.NoError(t, err)

	all, err := svc.List(ctx, testUser, service.ListApplicationsQuery{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	// Newest applied date first.
	assert.Equal(t, "Beta", all[0].Company)
	assert.Equal(t, "Gamma", all[1].Company)
	assert.Equal(t, "Acme", all[2].Company)

	applied, err := svc.List(ctx, testUser, service.ListApplicationsQuery{Status: "applied"})
	require.NoError(t, err)
	assert.Len(t, applied, 2)

	_, err = svc.List(ctx, testUser, service.ListApplicationsQuery{Status: "nonsense"})
	assert.Error(t, err)
}

func TestApplicationsUpdateStatus(t *testing.T) {
	svc := newApplications(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, testUser, mustApplication(t, "Acme", "Role", "applied", ""))
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(ctx, testUser, created.ID, "interview", "onsite scheduled")
	require.NoError(t, err)
	assert.Equal(t, application.StatusInterview, updated.Status)
	require.Len(t, updated.Timeline, 2)
	assert.Equal(t, "onsite scheduled", updated.Timeline[1].Notes)

	// The update is persisted, not just returned.
	got, err := svc.Get(ctx, testUser, created.ID)
	require.NoError(t, err)
	assert.Equal(t, application.StatusInterview, got.Status)
}

func TestApplicationsTimelineEditing(t *testing.T) {
	svc := newApplications(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, testUser, mustApplication(t, "Acme", "Role", "applied", ""))
	require.NoError(t, err)

	withEvent, err := svc.AddTimelineEvent(ctx, testUser, created.ID, "phone_screen", "2026-08-15", "with recruiter")
	require.NoError(t, err)
	require.Len(t, withEvent.Timeline, 2)

	edited, err := svc.UpdateTimelineEvent(ctx, testUser, created.ID, 1, "", "", "went well")
	require.NoError(t, err)
	assert.Equal(t, "phone_screen", edited.Timeline[1].EventType)
	assert.Equal(t, "went well", edited.Timeline[1].Notes)

	_, err = svc.DeleteTimelineEvent(ctx, testUser, created.ID, 0)
	assert.Error(t, err)

	trimmed, err := svc.DeleteTimelineEvent(ctx, testUser, created.ID, 1)
	require.NoError(t, err)
	assert.Len(t, trimmed.Timeline, 1)

	_, err = svc.UpdateTimelineEvent(ctx, testUser, created.ID, 5, "", "", "")
	assert.Error(t, err)
}

func TestApplicationsAddNote(t *testing.T) {
	svc := newApplications(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, testUser, mustApplication(t, "Acme", "Role", "applied", ""))
	require.NoError(t, err)

	noted, err := svc.AddNote(ctx, testUser, created.ID, "great team")
	require.NoError(t, err)
	assert.Contains(t, noted.Notes, "great team")
}

func TestApplicationsDelete(t *testing.T) {
	svc := newApplications(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, testUser, mustApplication(t, "Acme", "Role", "applied", ""))
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, testUser, created.ID))

	_, err = svc.Get(ctx, testUser, created.ID)
	assert.ErrorIs(t, err, record.ErrNotFound)

	err = svc.Delete(ctx, testUser, created.ID)
	assert.ErrorIs(t, err, record.ErrNotFound)
}

func TestApplicationsSearch(t *testing.T) {
	svc := newApplications(t)
	ctx := context.Background()

	golang, err := application.New("Acme", "Golang Backend Engineer", "applied", "",
		application.WithJobDescription("distributed systems in golang and kubernetes"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, testUser, golang)
	require.NoError(t, err)

	frontend, err := application.New("Beta", "Frontend Developer", "applied", "",
		application.WithJobDescription("react and typescript interfaces"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, testUser, frontend)
	require.NoError(t, err)

	matches, err := svc.Search(ctx, testUser, "golang kubernetes backend", 1)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "Acme", matches[0].Application.Company)
}

func TestApplicationsStats(t *testing.T) {
	svc := newApplications(t)
	ctx := context.Background()

	a1, err := svc.Create(ctx, testUser, mustApplication(t, "Acme", "Role A", "applied", "2026-08-01"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, testUser, mustApplication(t, "Acme", "Role B", "applied", "2026-08-02"))
	require.NoError(t, err)
	_, err = svc.Create(ctx, testUser, mustApplication(t, "Beta", "Role C", "tracking", "2026-08-03"))
	require.NoError(t, err)

	// Move one application forward so it counts as a response.
	_, err = svc.AddTimelineEvent(ctx, testUser, a1.ID, "screening", "2026-08-05", "")
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, testUser, a1.ID, "screening", "")
	require.NoError(t, err)

	stats, err := svc.Stats(ctx, testUser)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 3, stats.Active)
	assert.Equal(t, 1, stats.ByStatus["screening"])
	assert.Equal(t, 1, stats.ByStatus["applied"])
	assert.Equal(t, 1, stats.ByStatus["tracking"])
	assert.InDelta(t, 33.3, stats.ResponseRate, 0.1)
	assert.InDelta(t, 4.0, stats.AvgDaysToResponse, 0.01)

	require.NotEmpty(t, stats.TopCompanies)
	assert.Equal(t, "Acme", stats.TopCompanies[0].Company)
	assert.Equal(t, 2, stats.TopCompanies[0].Count)
}

func TestApplicationsStatsEmpty(t *testing.T) {
	svc := newApplications(t)

	stats, err := svc.Stats(context.Background(), testUser)
	require.NoError(t, err)
	assert.Zero(t, stats.Total)
	assert.Zero(t, stats.ResponseRate)
	assert.Empty(t, stats.TopCompanies)
}

func TestApplicationsUserIsolation(t *testing.T) {
	svc := newApplications(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "alice", mustApplication(t, "Acme", "Role", "applied", ""))
	require.NoError(t, err)

	_, err = svc.Get(ctx, "bob", created.ID)
	assert.ErrorIs(t, err, record.ErrNotFound)

	bobApps, err := svc.List(ctx, "bob", service.ListApplicationsQuery{})
	require.NoError(t, err)
	assert.Empty(t, bobApps)
}
