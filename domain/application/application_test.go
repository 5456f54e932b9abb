package application

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApplicationDefaults(t *testing.T) {
	app, err := New("Acme", "Backend Engineer", "applied", "")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(app.ID, "app_"))
	assert.Equal(t, StatusApplied, app.Status)
	assert.Equal(t, time.Now().UTC().Format("2006-01-02"), app.AppliedDate)

	require.Len(t, app.Timeline, 1)
	assert.Equal(t, "applied", app.Timeline[0].EventType)
	assert.Contains(t, app.Timeline[0].Notes, "Applied to Acme for Backend Engineer")
}

func TestNewApplicationTrackingSeedsTrackingEvent(t *testing.T) {
	app, err := New("Acme", "Backend Engineer", "tracking", "2026-08-01")
	require.NoError(t, err)

	require.Len(t, app.Timeline, 1)
	assert.Contains(t, app.Timeline[0].Notes, "Tracking opportunity at Acme")
	assert.Equal(t, "2026-08-01", app.Timeline[0].Date)
}

func TestNewApplicationValidation(t *testing.T) {
	_, err := New("", "Role", "applied", "")
	assert.Error(t, err)

	_, err = New("Acme", "", "applied", "")
	assert.Error(t, err)

	_, err = New("Acme", "Role", "pondering", "")
	assert.Error(t, err)
}

func TestParseStatus(t *testing.T) {
	status, err := ParseStatus("  Interview ")
	require.NoError(t, err)
	assert.Equal(t, StatusInterview, status)

	_, err = ParseStatus("unknown")
	assert.Error(t, err)
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusAccepted.Terminal())
	assert.True(t, StatusRejected.Terminal())
	assert.True(t, StatusWithdrawn.Terminal())
	assert.False(t, StatusOffer.Terminal())

	assert.True(t, StatusApplied.Active())
	assert.False(t, StatusRejected.Active())
}

func TestUpdateStatusRecordsTimelineEvent(t *testing.T) {
	app, err := New("Acme", "Role", "applied", "")
	require.NoError(t, err)

	require.NoError(t, app.UpdateStatus("interview", ""))

	assert.Equal(t, StatusInterview, app.Status)
	require.Len(t, app.Timeline, 2)
	assert.Equal(t, "interview", app.Timeline[1].EventType)
	assert.Equal(t, "Status changed from applied to interview", app.Timeline[1].Notes)
}

func TestUpdateStatusInvalid(t *testing.T) {
	app, err := New("Acme", "Role", "applied", "")
	require.NoError(t, err)

	assert.Error(t, app.UpdateStatus("daydreaming", ""))
	assert.Equal(t, StatusApplied, app.Status)
	assert.Len(t, app.Timeline, 1)
}

func TestAppendNote(t *testing.T) {
	app, err := New("Acme", "Role", "applied", "")
	require.NoError(t, err)

	app.AppendNote("spoke to recruiter")
	app.AppendNote("sent follow up")

	lines := strings.Split(app.Notes, "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "spoke to recruiter")
	assert.Contains(t, lines[1], "sent follow up")
	assert.Regexp(t, `^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}\]`, lines[0])
}

func TestText(t *testing.T) {
	app, err := New("Acme", "Backend Engineer", "applied", "2026-08-01",
		WithLocation("Remote"),
		WithSalaryRange("$150k-$180k"),
		WithRequirements(Requirements{Skills: []string{"Go", "Postgres"}, Experience: "5+ years"}),
	)
	require.NoError(t, err)

	text := Text(app)
	assert.Contains(t, text, "Job Application: Acme - Backend Engineer")
	assert.Contains(t, text, "Status: applied")
	assert.Contains(t, text, "Applied Date: 2026-08-01")
	assert.Contains(t, text, "Location: Remote")
	assert.Contains(t, text, "Required Skills: Go, Postgres")
	assert.Contains(t, text, "Experience Required: 5+ years")
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	app, err := New("Acme", "Role", "applied", "2026-08-01", WithNotes("hello"))
	require.NoError(t, err)

	env, err := Encode(app)
	require.NoError(t, err)
	assert.Equal(t, RecordType, env.RecordType)
	assert.Equal(t, app.ID, env.RecordID)

	got, err := Decode(env)
	require.NoError(t, err)
	assert.Equal(t, app, got)
}

func TestStatusDisplay(t *testing.T) {
	assert.Equal(t, "Interview", StatusInterview.Display())
	assert.Equal(t, "Offer", StatusOffer.Display())
}
