package v1

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jobvault/jobvault/application/service"
	"github.com/jobvault/jobvault/domain/company"
	"github.com/jobvault/jobvault/infrastructure/api/middleware"
)

// CompaniesRouter handles company endpoints.
type CompaniesRouter struct {
	companies *service.Companies
	logger    *slog.Logger
}

// NewCompaniesRouter creates a new CompaniesRouter.
func NewCompaniesRouter(companies *service.Companies, logger *slog.Logger) *CompaniesRouter {
	return &CompaniesRouter{companies: companies, logger: logger}
}

// Routes returns the chi router for company endpoints.
func (r *CompaniesRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", r.List)
	router.Post("/", r.Create)
	router.Post("/search", r.Search)
	router.Get("/{id}", r.Get)
	router.Put("/{id}", r.Update)
	router.Delete("/{id}", r.Delete)
	router.Post("/{id}/applications", r.LinkApplication)

	return router
}

type createCompanyRequest struct {
	Name         string   `json:"name"`
	Status       string   `json:"status"`
	Website      string   `json:"website"`
	Industry     string   `json:"industry"`
	Size         string   `json:"size"`
	Location     string   `json:"location"`
	Description  string   `json:"description"`
	CultureNotes string   `json:"culture_notes"`
	TechStack    []string `json:"tech_stack"`
	Notes        string   `json:"notes"`
	Priority     int      `json:"priority"`
	Tags         []string `json:"tags"`
}

// Create handles POST /api/v1/companies.
func (r *CompaniesRouter) Create(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body createCompanyRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteValidationError(w, err)
		return
	}

	c, err := company.New(body.Name, body.Status, body.Industry)
	if err != nil {
		middleware.WriteValidationError(w, err)
		return
	}
	c.Website = body.Website
	c.Size = body.Size
	c.Location = body.Location
	c.Description = body.Description
	c.CultureNotes = body.CultureNotes
	c.TechStack = body.TechStack
	c.Notes = body.Notes
	c.Tags = body.Tags
	if body.Priority != 0 {
		c.SetPriority(body.Priority)
	}

	created, err := r.companies.Create(ctx, middleware.UserID(ctx), c)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, created)
}

// List handles GET /api/v1/companies.
func (r *CompaniesRouter) List(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	companies, err := r.companies.List(ctx, middleware.UserID(ctx), req.URL.Query().Get("status"))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, companies)
}

// Get handles GET /api/v1/companies/{id}.
func (r *CompaniesRouter) Get(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	c, err := r.companies.Get(ctx, middleware.UserID(ctx), chi.URLParam(req, "id"))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, c)
}

// Update handles PUT /api/v1/companies/{id}. The body is a full company
// document; the path id wins over any id in the body.
func (r *CompaniesRouter) Update(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body company.Company
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteValidationError(w, err)
		return
	}
	body.ID = chi.URLParam(req, "id")

	if err := r.companies.Save(ctx, middleware.UserID(ctx), body); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, body)
}

type linkApplicationRequest struct {
	ApplicationID string `json:"application_id"`
}

// LinkApplication handles POST /api/v1/companies/{id}/applications.
func (r *CompaniesRouter) LinkApplication(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body linkApplicationRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteValidationError(w, err)
		return
	}
	if body.ApplicationID == "" {
		middleware.WriteValidationError(w, fmt.Errorf("application_id is required"))
		return
	}

	c, err := r.companies.LinkApplication(ctx, middleware.UserID(ctx),
		chi.URLParam(req, "id"), body.ApplicationID)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, c)
}

// Delete handles DELETE /api/v1/companies/{id}.
func (r *CompaniesRouter) Delete(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	if err := r.companies.Delete(ctx, middleware.UserID(ctx), chi.URLParam(req, "id")); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Search handles POST /api/v1/companies/search.
func (r *CompaniesRouter) Search(w http.ResponseWriter, req *http.Request) {
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

	matches, err := r.companies.Search(ctx, middleware.UserID(ctx), body.Query, body.limitOrDefault(10))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	results := make([]scoredItem, len(matches))
	for i, m := range matches {
		results[i] = scoredItem{Score: m.Score, Item: m.Company}
	}
	middleware.WriteJSON(w, http.StatusOK, results)
}
