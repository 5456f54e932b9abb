package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobvault/jobvault/application/service"
	"github.com/jobvault/jobvault/infrastructure/api"
	"github.com/jobvault/jobvault/infrastructure/api/middleware"
	"github.com/jobvault/jobvault/infrastructure/persistence"
	"github.com/jobvault/jobvault/infrastructure/provider"
	"github.com/jobvault/jobvault/internal/testdb"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	store := persistence.NewDocumentStore(testdb.New(t),
		provider.NewFakeEmbedder(testdb.Dimensions), testdb.Dimensions)

	server := api.NewServer("127.0.0.1:0", api.Services{
		Applications:  service.NewApplications(store, nil),
		Resumes:       service.NewResumes(store, nil),
		InterviewPrep: service.NewInterviewPrep(store, nil),
		Notes:         service.NewNotes(store, nil),
		Companies:     service.NewCompanies(store, nil),
	}, nil)

	ts := httptest.NewServer(server.Router())
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, userID string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/healthz", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestApplicationLifecycleOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	base := ts.URL + "/api/v1/applications"

	resp, body := doJSON(t, http.MethodPost, base, "", map[string]any{
		"company":      "Acme",
		"role":         "Backend Engineer",
		"applied_date": "2026-08-01",
		"location":     "Remote",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var created struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(body, &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "applied", created.Status)

	resp, body = doJSON(t, http.MethodGet, base+"/"+created.ID, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = doJSON(t, http.MethodPut, base+"/"+created.ID+"/status", "", map[string]any{
		"status": "interview",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	var updated struct {
		Status   string `json:"status"`
		Timeline []any  `json:"timeline"`
	}
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, "interview", updated.Status)
	assert.Len(t, updated.Timeline, 2)

	resp, _ = doJSON(t, http.MethodDelete, base+"/"+created.ID, "", nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodGet, base+"/"+created.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDuplicateApplicationReturnsConflict(t *testing.T) {
	ts := newTestServer(t)
	base := ts.URL + "/api/v1/applications"

	payload := map[string]any{"company": "Acme", "role": "Backend Engineer"}

	resp, _ := doJSON(t, http.MethodPost, base, "", payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, http.MethodPost, base, "", payload)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var errBody middleware.ErrorBody
	require.NoError(t, json.Unmarshal(body, &errBody))
	assert.Equal(t, http.StatusConflict, errBody.Error.Status)
	assert.Equal(t, "Conflict", errBody.Error.Title)
}

func TestSearchRequiresQuery(t *testing.T) {
	ts := newTestServer(t)

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/v1/applications/search", "", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var errBody middleware.ErrorBody
	require.NoError(t, json.Unmarshal(body, &errBody))
	assert.Equal(t, "Validation Error", errBody.Error.Title)
}

func TestSearchReturnsScoredItems(t *testing.T) {
	ts := newTestServer(t)
	base := ts.URL + "/api/v1/applications"

	resp, _ := doJSON(t, http.MethodPost, base, "", map[string]any{
		"company": "StreamCo", "role": "Golang Engineer",
		"job_description": "building golang streaming pipelines",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, http.MethodPost, base+"/search", "", map[string]any{
		"query": "golang streaming",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var results []struct {
		Score float64        `json:"score"`
		Item  map[string]any `json:"item"`
	}
	require.NoError(t, json.Unmarshal(body, &results))
	require.Len(t, results, 1)
	assert.Greater(t, results[0].Score, 0.0)
	assert.Equal(t, "StreamCo", results[0].Item["company"])
}

func TestUserHeaderScopesData(t *testing.T) {
	ts := newTestServer(t)
	base := ts.URL + "/api/v1/notes"

	resp, _ := doJSON(t, http.MethodPost, base, "alice", map[string]any{
		"label": "pitch", "content": "alice's pitch",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	_, body := doJSON(t, http.MethodGet, base, "alice", nil)
	var aliceNotes []any
	require.NoError(t, json.Unmarshal(body, &aliceNotes))
	assert.Len(t, aliceNotes, 1)

	_, body = doJSON(t, http.MethodGet, base, "bob", nil)
	var bobNotes []any
	require.NoError(t, json.Unmarshal(body, &bobNotes))
	assert.Empty(t, bobNotes)
}

func TestStatsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	base := ts.URL + "/api/v1/applications"

	resp, _ := doJSON(t, http.MethodPost, base, "", map[string]any{
		"company": "Acme", "role": "Backend Engineer",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := doJSON(t, http.MethodGet, base+"/stats", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats struct {
		Total  int            `json:"total"`
		Active int            `json:"active"`
		By     map[string]int `json:"by_status"`
	}
	require.NoError(t, json.Unmarshal(body, &stats))
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Active)
	assert.Equal(t, 1, stats.By["applied"])
}

func TestMalformedJSONReturnsBadRequest(t *testing.T) {
	ts := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/v1/applications",
		bytes.NewReader([]byte("{not json")))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
