package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobvault/jobvault/application/service"
	"github.com/jobvault/jobvault/domain/company"
	"github.com/jobvault/jobvault/domain/record"
)

func newCompanies(t *testing.T) *service.Companies {
	t.Helper()
	return service.NewCompanies(newDocumentStore(t), nil)
}

func mustCompany(t *testing.T, name, status, industry string) company.Company {
	t.Helper()
	c, err := company.New(name, status, industry)
	require.NoError(t, err)
	return c
}

func TestCompaniesCreateRejectsDuplicateName(t *testing.T) {
	svc := newCompanies(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, testUser, mustCompany(t, "Acme", "", ""))
	require.NoError(t, err)

	_, err = svc.Create(ctx, testUser, mustCompany(t, "ACME", "", ""))
	assert.ErrorIs(t, err, record.ErrDuplicateRecord)

	// A different user can track the same company.
	_, err = svc.Create(ctx, "bob", mustCompany(t, "Acme", "", ""))
	assert.NoError(t, err)
}

func TestCompaniesGetByName(t *testing.T) {
	svc := newCompanies(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, testUser, mustCompany(t, "Acme", "", "fintech"))
	require.NoError(t, err)

	got, err := svc.GetByName(ctx, testUser, "acme")
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)

	_, err = svc.GetByName(ctx, testUser, "Missing Inc")
	assert.ErrorIs(t, err, record.ErrNotFound)
}

func TestCompaniesListOrdersByPriority(t *testing.T) {
	svc := newCompanies(t)
	ctx := context.Background()

	low := mustCompany(t, "Low Co", "", "")
	low.SetPriority(2)
	_, err := svc.Create(ctx, testUser, low)
	require.NoError(t, err)

	high := mustCompany(t, "High Co", "", "")
	high.SetPriority(9)
	_, err = svc.Create(ctx, testUser, high)
	require.NoError(t, err)

	companies, err := svc.List(ctx, testUser, "")
	require.NoError(t, err)
	require.Len(t, companies, 2)
	assert.Equal(t, "High Co", companies[0].Name)
}

func TestCompaniesLinkApplication(t *testing.T) {
	svc := newCompanies(t)
	ctx := context.Background()

	c, err := svc.Create(ctx, testUser, mustCompany(t, "Acme", "", ""))
	require.NoError(t, err)

	linked, err := svc.LinkApplication(ctx, testUser, c.ID, "app_1")
	require.NoError(t, err)
	assert.Equal(t, []string{"app_1"}, linked.ApplicationIDs)

	again, err := svc.LinkApplication(ctx, testUser, c.ID, "app_1")
	require.NoError(t, err)
	assert.Len(t, again.ApplicationIDs, 1)
}

func TestCompaniesHybridSearchIncludesSubstringMatches(t *testing.T) {
	svc := newCompanies(t)
	ctx := context.Background()

	semantic := mustCompany(t, "DataStream", "", "streaming analytics")
	semantic.Description = "realtime event processing pipelines"
	_, err := svc.Create(ctx, testUser, semantic)
	require.NoError(t, err)

	// Name contains the query but shares no vocabulary with it semantically.
	substring := mustCompany(t, "Zebra Robotics", "", "hardware")
	_, err = svc.Create(ctx, testUser, substring)
	require.NoError(t, err)

	matches, err := svc.Search(ctx, testUser, "zebra", 10)
	require.NoError(t, err)

	var names []string
	for _, m := range matches {
		names = append(names, m.Company.Name)
	}
	assert.Contains(t, names, "Zebra Robotics")
}

func TestCompaniesSaveRequiresExisting(t *testing.T) {
	svc := newCompanies(t)
	ctx := context.Background()

	ghost := mustCompany(t, "Ghost Co", "", "")
	err := svc.Save(ctx, testUser, ghost)
	assert.ErrorIs(t, err, record.ErrNotFound)
}
