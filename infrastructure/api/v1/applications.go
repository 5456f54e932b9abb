// Package v1 implements the versioned HTTP API: one router per collection,
// mounted under /api/v1.
package v1

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jobvault/jobvault/application/service"
	"github.com/jobvault/jobvault/domain/application"
	"github.com/jobvault/jobvault/infrastructure/api/middleware"
)

// ApplicationsRouter handles job application endpoints.
type ApplicationsRouter struct {
	applications *service.Applications
	logger       *slog.Logger
}

// NewApplicationsRouter creates a new ApplicationsRouter.
func NewApplicationsRouter(applications *service.Applications, logger *slog.Logger) *ApplicationsRouter {
	return &ApplicationsRouter{applications: applications, logger: logger}
}

// Routes returns the chi router for application endpoints.
func (r *ApplicationsRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.List)
	router.Post("/", r.Create)
	router.Get("/stats", r.Stats)
	router.Post("/search", r.Search)
	router.Get("/{id}", r.Get)
	router.Delete("/{id}", r.Delete)
	router.Put("/{id}/status", r.UpdateStatus)
	router.Post("/{id}/notes", r.AddNote)
	router.Post("/{id}/timeline", r.AddTimelineEvent)
	router.Put("/{id}/timeline/{index}", r.UpdateTimelineEvent)
	router.Delete("/{id}/timeline/{index}", r.DeleteTimelineEvent)

	return router
}

type createApplicationRequest struct {
	Company        string                    `json:"company"`
	Role           string                    `json:"role"`
	Status         string                    `json:"status"`
	AppliedDate    string                    `json:"applied_date"`
	JobURL         string                    `json:"job_url"`
	JobDescription string                    `json:"job_description"`
	Location       string                    `json:"location"`
	SalaryRange    string                    `json:"salary_range"`
	Notes          string                    `json:"notes"`
	Requirements   *application.Requirements `json:"job_requirements"`
	Recruiter      *application.Contact      `json:"recruiter_contact"`
}

// Create handles POST /api/v1/applications.
func (r *ApplicationsRouter) Create(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body createApplicationRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteValidationError(w, err)
		return
	}
	if body.Status == "" {
		body.Status = string(application.StatusApplied)
	}

	opts := []application.Option{
		application.WithJobURL(body.JobURL),
		application.WithJobDescription(body.JobDescription),
		application.WithLocation(body.Location),
		application.WithSalaryRange(body.SalaryRange),
		application.WithNotes(body.Notes),
	}
	if body.Requirements != nil {
		opts = append(opts, application.WithRequirements(*body.Requirements))
	}
	if body.Recruiter != nil {
		opts = append(opts, application.WithRecruiterContact(*body.Recruiter))
	}

	app, err := application.New(body.Company, body.Role, body.Status, body.AppliedDate, opts...)
	if err != nil {
		middleware.WriteValidationError(w, err)
		return
	}

	created, err := r.applications.Create(ctx, middleware.UserID(ctx), app)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, created)
}

// List handles GET /api/v1/applications.
func (r *ApplicationsRouter) List(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	q := req.URL.Query()

	apps, err := r.applications.List(ctx, middleware.UserID(ctx), service.ListApplicationsQuery{
		Status:  q.Get("status"),
		Company: q.Get("company"),
		SortBy:  q.Get("sort_by"),
		Asc:     q.Get("order") == "asc",
	})
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, apps)
}

// Get handles GET /api/v1/applications/{id}.
func (r *ApplicationsRouter) Get(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	app, err := r.applications.Get(ctx, middleware.UserID(ctx), chi.URLParam(req, "id"))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, app)
}

type updateStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

// UpdateStatus handles PUT /api/v1/applications/{id}/status.
func (r *ApplicationsRouter) UpdateStatus(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body updateStatusRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteValidationError(w, err)
		return
	}

	app, err := r.applications.UpdateStatus(ctx, middleware.UserID(ctx),
		chi.URLParam(req, "id"), body.Status, body.Notes)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, app)
}

type addNoteRequest struct {
	Note string `json:"note"`
}

// AddNote handles POST /api/v1/applications/{id}/notes.
func (r *ApplicationsRouter) AddNote(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body addNoteRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteValidationError(w, err)
		return
	}
	if body.Note == "" {
		middleware.WriteValidationError(w, fmt.Errorf("note is required"))
		return
	}

	app, err := r.applications.AddNote(ctx, middleware.UserID(ctx), chi.URLParam(req, "id"), body.Note)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, app)
}

type timelineEventRequest struct {
	EventType string `json:"event_type"`
	Date      string `json:"date"`
	Notes     string `json:"notes"`
}

// AddTimelineEvent handles POST /api/v1/applications/{id}/timeline.
func (r *ApplicationsRouter) AddTimelineEvent(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body timelineEventRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteValidationError(w, err)
		return
	}
	if body.EventType == "" {
		middleware.WriteValidationError(w, fmt.Errorf("event_type is required"))
		return
	}

	app, err := r.applications.AddTimelineEvent(ctx, middleware.UserID(ctx),
		chi.URLParam(req, "id"), body.EventType, body.Date, body.Notes)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, app)
}

// UpdateTimelineEvent handles PUT /api/v1/applications/{id}/timeline/{index}.
func (r *ApplicationsRouter) UpdateTimelineEvent(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	index, err := strconv.Atoi(chi.URLParam(req, "index"))
	if err != nil {
		middleware.WriteValidationError(w, fmt.Errorf("invalid timeline index"))
		return
	}

	var body timelineEventRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteValidationError(w, err)
		return
	}

	app, err := r.applications.UpdateTimelineEvent(ctx, middleware.UserID(ctx),
		chi.URLParam(req, "id"), index, body.EventType, body.Date, body.Notes)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, app)
}

// DeleteTimelineEvent handles DELETE /api/v1/applications/{id}/timeline/{index}.
func (r *ApplicationsRouter) DeleteTimelineEvent(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	index, err := strconv.Atoi(chi.URLParam(req, "index"))
	if err != nil {
		middleware.WriteValidationError(w, fmt.Errorf("invalid timeline index"))
		return
	}

	app, err := r.applications.DeleteTimelineEvent(ctx, middleware.UserID(ctx),
		chi.URLParam(req, "id"), index)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, app)
}

// Delete handles DELETE /api/v1/applications/{id}.
func (r *ApplicationsRouter) Delete(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	if err := r.applications.Delete(ctx, middleware.UserID(ctx), chi.URLParam(req, "id")); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Stats handles GET /api/v1/applications/stats.
func (r *ApplicationsRouter) Stats(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	stats, err := r.applications.Stats(ctx, middleware.UserID(ctx))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, stats)
}

type searchRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

func (s searchRequest) limitOrDefault(def int) int {
	if s.Limit > 0 {
		return s.Limit
	}
	return def
}

type scoredItem struct {
	Score float64 `json:"score"`
	Item  any     `json:"item"`
}

// Search handles POST /api/v1/applications/search.
func (r *ApplicationsRouter) Search(w http.ResponseWriter, req *http.Request) {
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

	matches, err := r.applications.Search(ctx, middleware.UserID(ctx), body.Query, body.limitOrDefault(10))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	results := make([]scoredItem, len(matches))
	for i, m := range matches {
		results[i] = scoredItem{Score: m.Score, Item: m.Application}
	}
	middleware.WriteJSON(w, http.StatusOK, results)
}
