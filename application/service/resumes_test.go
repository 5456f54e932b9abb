package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobvault/jobvault/application/service"
	"github.com/jobvault/jobvault/domain/record"
)

func newResumes(t *testing.T) *service.Resumes {
	t.Helper()
	return service.NewResumes(newDocumentStore(t), nil)
}

func TestResumesCreateRecordsInitialVersion(t *testing.T) {
	svc := newResumes(t)
	ctx := context.Background()

	r, err := svc.Create(ctx, testUser, "SE Resume", "full text", []string{"Go"})
	require.NoError(t, err)
	assert.True(t, r.IsMaster)

	versions, err := svc.ListVersions(ctx, testUser, r.ID)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, "Initial version", versions[0].ChangesSummary)
	assert.Equal(t, "1.0", versions[0].Version)
}

func TestResumesTailor(t *testing.T) {
	svc := newResumes(t)
	ctx := context.Background()

	master, err := svc.Create(ctx, testUser, "SE Resume", "content", nil)
	require.NoError(t, err)

	tailored, err := svc.Tailor(ctx, testUser, master.ID, "app_1", "Acme", "notes")
	require.NoError(t, err)
	assert.Equal(t, master.ID, tailored.ParentID)
	assert.Equal(t, "1.1", tailored.Version)

	all, err := svc.List(ctx, testUser)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = svc.Tailor(ctx, testUser, "res_missing", "", "Acme", "")
	assert.ErrorIs(t, err, record.ErrNotFound)
}

func TestResumesSnapshotVersion(t *testing.T) {
	svc := newResumes(t)
	ctx := context.Background()

	r, err := svc.Create(ctx, testUser, "SE Resume", "v1 content", nil)
	require.NoError(t, err)

	r.FullText = "v2 content"
	require.NoError(t, svc.Save(ctx, testUser, r))

	v, err := svc.SnapshotVersion(ctx, testUser, r.ID, "rewrote summary", "user")
	require.NoError(t, err)
	assert.Equal(t, "v2 content", v.FullText)

	versions, err := svc.ListVersions(ctx, testUser, r.ID)
	require.NoError(t, err)
	assert.Len(t, versions, 2)
}

func TestResumesMarkUsed(t *testing.T) {
	svc := newResumes(t)
	ctx := context.Background()

	r, err := svc.Create(ctx, testUser, "SE Resume", "content", nil)
	require.NoError(t, err)

	used, err := svc.MarkUsed(ctx, testUser, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, used.UseCount)

	got, err := svc.Get(ctx, testUser, r.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.UseCount)
}

func TestResumesDeleteCascadesVersions(t *testing.T) {
	svc := newResumes(t)
	ctx := context.Background()

	r, err := svc.Create(ctx, testUser, "SE Resume", "content", nil)
	require.NoError(t, err)
	_, err = svc.SnapshotVersion(ctx, testUser, r.ID, "tweak", "user")
	require.NoError(t, err)

	other, err := svc.Create(ctx, testUser, "PM Resume", "other content", nil)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, testUser, r.ID))

	_, err = svc.Get(ctx, testUser, r.ID)
	assert.ErrorIs(t, err, record.ErrNotFound)

	versions, err := svc.ListVersions(ctx, testUser, r.ID)
	require.NoError(t, err)
	assert.Empty(t, versions)

	// Another resume's history is untouched.
	kept, err := svc.ListVersions(ctx, testUser, other.ID)
	require.NoError(t, err)
	assert.Len(t, kept, 1)
}

func TestResumesSearchExcludesVersions(t *testing.T) {
	svc := newResumes(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, testUser, "Backend Resume", "golang microservices postgres", []string{"Go"})
	require.NoError(t, err)

	matches, err := svc.Search(ctx, testUser, "golang postgres", 10)
	require.NoError(t, err)
	require.NotEmpty(t, matches)
	for _, m := range matches {
		assert.Equal(t, "Backend Resume", m.Resume.Name)
	}
}
