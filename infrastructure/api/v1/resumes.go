package v1

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jobvault/jobvault/application/service"
	"github.com/jobvault/jobvault/infrastructure/api/middleware"
)

// ResumesRouter handles resume endpoints.
type ResumesRouter struct {
	resumes *service.Resumes
	logger  *slog.Logger
}

// NewResumesRouter creates a new ResumesRouter.
func NewResumesRouter(resumes *service.Resumes, logger *slog.Logger) *ResumesRouter {
	return &ResumesRouter{resumes: resumes, logger: logger}
}

// Routes returns the chi router for resume endpoints.
func (r *ResumesRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.List)
	router.Post("/", r.Create)
	router.Post("/search", r.Search)
	router.Get("/{id}", r.Get)
	router.Delete("/{id}", r.Delete)
	router.Post("/{id}/tailor", r.Tailor)
	router.Post("/{id}/used", r.MarkUsed)
	router.Get("/{id}/versions", r.ListVersions)
	router.Post("/{id}/versions", r.SnapshotVersion)

	return router
}

type createResumeRequest struct {
	Name     string   `json:"name"`
	FullText string   `json:"full_text"`
	Skills   []string `json:"skills"`
}

// Create handles POST /api/v1/resumes.
func (r *ResumesRouter) Create(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body createResumeRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteValidationError(w, err)
		return
	}

	created, err := r.resumes.Create(ctx, middleware.UserID(ctx), body.Name, body.FullText, body.Skills)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, created)
}

// List handles GET /api/v1/resumes.
func (r *ResumesRouter) List(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	resumes, err := r.resumes.List(ctx, middleware.UserID(ctx))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, resumes)
}

// Get handles GET /api/v1/resumes/{id}.
func (r *ResumesRouter) Get(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	res, err := r.resumes.Get(ctx, middleware.UserID(ctx), chi.URLParam(req, "id"))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, res)
}

type tailorRequest struct {
	JobID   string `json:"job_id"`
	Company string `json:"company"`
	Notes   string `json:"notes"`
}

// Tailor handles POST /api/v1/resumes/{id}/tailor.
func (r *ResumesRouter) Tailor(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body tailorRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteValidationError(w, err)
		return
	}
	if body.Company == "" {
		middleware.WriteValidationError(w, fmt.Errorf("company is required"))
		return
	}

	tailored, err := r.resumes.Tailor(ctx, middleware.UserID(ctx),
		chi.URLParam(req, "id"), body.JobID, body.Company, body.Notes)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, tailored)
}

// MarkUsed handles POST /api/v1/resumes/{id}/used.
func (r *ResumesRouter) MarkUsed(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	res, err := r.resumes.MarkUsed(ctx, middleware.UserID(ctx), chi.URLParam(req, "id"))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, res)
}

type snapshotRequest struct {
	ChangesSummary string `json:"changes_summary"`
	ChangedBy      string `json:"changed_by"`
}

// SnapshotVersion handles POST /api/v1/resumes/{id}/versions.
func (r *ResumesRouter) SnapshotVersion(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body snapshotRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteValidationError(w, err)
		return
	}
	if body.ChangedBy == "" {
		body.ChangedBy = "user"
	}

	v, err := r.resumes.SnapshotVersion(ctx, middleware.UserID(ctx),
		chi.URLParam(req, "id"), body.ChangesSummary, body.ChangedBy)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, v)
}

// ListVersions handles GET /api/v1/resumes/{id}/versions.
func (r *ResumesRouter) ListVersions(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	versions, err := r.resumes.ListVersions(ctx, middleware.UserID(ctx), chi.URLParam(req, "id"))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, versions)
}

// Delete handles DELETE /api/v1/resumes/{id}.
func (r *ResumesRouter) Delete(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	if err := r.resumes.Delete(ctx, middleware.UserID(ctx), chi.URLParam(req, "id")); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles POST /api/v1/resumes/search.
func (r *ResumesRouter) Search(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body searchRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteValidationError(w, err)
		return
	}
	if body.Query == "" {
		middleware.WriteValidationError(w, fmt.Errorf("query is required"))
		return
	}

	matches, err := r.resumes.Search(ctx, middleware.UserID(ctx), body.Query, body.limitOrDefault(10))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	results := make([]scoredItem, len(matches))
	for i, m := range matches {
		results[i] = scoredItem{Score: m.Score, Item: m.Resume}
	}
	middleware.WriteJSON(w, http.StatusOK, results)
}
