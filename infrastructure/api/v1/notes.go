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

// NotesRouter handles quick note endpoints.
type NotesRouter struct {
	notes  *service.Notes
	logger *slog.Logger
}

// NewNotesRouter creates a new NotesRouter.
func NewNotesRouter(notes *service.Notes, logger *slog.Logger) *NotesRouter {
	return &NotesRouter{notes: notes, logger: logger}
}

// Routes returns the chi router for quick note endpoints.
func (r *NotesRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.List)
	router.Post("/", r.Add)
	router.Post("/search", r.Search)
	router.Get("/{id}", r.Get)
	router.Put("/{id}", r.Update)
	router.Delete("/{id}", r.Delete)

	return router
}

type noteRequest struct {
	Label   string `json:"label"`
	Content string `json:"content"`
	Type    string `json:"type"`
}

// Add handles POST /api/v1/notes.
func (r *NotesRouter) Add(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body noteRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteValidationError(w, err)
		return
	}

	n, err := r.notes.Add(ctx, middleware.UserID(ctx), body.Label, body.Content, body.Type)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, n)
}

// List handles GET /api/v1/notes.
func (r *NotesRouter) List(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	notes, err := r.notes.List(ctx, middleware.UserID(ctx))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, notes)
}

// Get handles GET /api/v1/notes/{id}.
func (r *NotesRouter) Get(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	n, err := r.notes.Get(ctx, middleware.UserID(ctx), chi.URLParam(req, "id"))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, n)
}

// Update handles PUT /api/v1/notes/{id}.
func (r *NotesRouter) Update(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body noteRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteValidationError(w, err)
		return
	}

	n, err := r.notes.Update(ctx, middleware.UserID(ctx),
		chi.URLParam(req, "id"), body.Label, body.Content, body.Type)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, n)
}

// Delete handles DELETE /api/v1/notes/{id}.
func (r *NotesRouter) Delete(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	if err := r.notes.Delete(ctx, middleware.UserID(ctx), chi.URLParam(req, "id")); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles POST /api/v1/notes/search.
func (r *NotesRouter) Search(w http.ResponseWriter, req *http.Request) {
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

	matches, err := r.notes.Search(ctx, middleware.UserID(ctx), body.Query, body.limitOrDefault(10))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	results := make([]scoredItem, len(matches))
	for i, m := range matches {
		results[i] = scoredItem{Score: m.Score, Item: m.Note}
	}
	middleware.WriteJSON(w, http.StatusOK, results)
}
