package v1

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jobvault/jobvault/application/service"
	"github.com/jobvault/jobvault/domain/interview"
	"github.com/jobvault/jobvault/infrastructure/api/middleware"
)

// InterviewPrepRouter handles interview prep endpoints: questions, concepts,
// and practice sessions.
type InterviewPrepRouter struct {
	prep   *service.InterviewPrep
	logger *slog.Logger
}

// NewInterviewPrepRouter creates a new InterviewPrepRouter.
func NewInterviewPrepRouter(prep *service.InterviewPrep, logger *slog.Logger) *InterviewPrepRouter {
	return &InterviewPrepRouter{prep: prep, logger: logger}
}

// Routes returns the chi router for interview prep endpoints.
func (r *InterviewPrepRouter) Routes() chi.Router {
	router := chi.NewRouter()

	router.Post("/search", r.Search)

	router.Get("/questions", r.ListQuestions)
	router.Post("/questions", r.AddQuestion)
	router.Get("/questions/{id}", r.GetQuestion)
	router.Delete("/questions/{id}", r.DeleteQuestion)
	router.Post("/questions/{id}/practice", r.MarkPracticed)

	router.Get("/concepts", r.ListConcepts)
	router.Post("/concepts", r.AddConcept)
	router.Get("/concepts/{id}", r.GetConcept)
	router.Delete("/concepts/{id}", r.DeleteConcept)
	router.Post("/concepts/{id}/review", r.MarkReviewed)

	router.Get("/sessions", r.ListSessions)
	router.Post("/sessions", r.LogSession)

	return router
}

type addQuestionRequest struct {
	Question   string                `json:"question"`
	Type       string                `json:"type"`
	Category   string                `json:"category"`
	Difficulty string                `json:"difficulty"`
	Answer     string                `json:"answer_full"`
	AnswerStar *interview.StarAnswer `json:"answer_star"`
	Tags       []string              `json:"tags"`
	Companies  []string              `json:"companies"`
	Notes      string                `json:"notes"`
}

// AddQuestion handles POST /api/v1/interview-prep/questions.
func (r *InterviewPrepRouter) AddQuestion(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body addQuestionRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteValidationError(w, err)
		return
	}

	q, err := interview.NewQuestion(body.Question, body.Type, body.Category, body.Difficulty, body.Answer)
	if err != nil {
		middleware.WriteValidationError(w, err)
		return
	}
	q.AnswerStar = body.AnswerStar
	q.Tags = body.Tags
	q.Companies = body.Companies
	q.Notes = body.Notes

	created, err := r.prep.AddQuestion(ctx, middleware.UserID(ctx), q)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, created)
}

// ListQuestions handles GET /api/v1/interview-prep/questions.
func (r *InterviewPrepRouter) ListQuestions(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()
	q := req.URL.Query()

	questions, err := r.prep.ListQuestions(ctx, middleware.UserID(ctx), service.ListQuestionsQuery{
		Type:     q.Get("type"),
		Category: q.Get("category"),
	})
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, questions)
}

// GetQuestion handles GET /api/v1/interview-prep/questions/{id}.
func (r *InterviewPrepRouter) GetQuestion(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	q, err := r.prep.GetQuestion(ctx, middleware.UserID(ctx), chi.URLParam(req, "id"))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, q)
}

type practiceRequest struct {
	Confidence int `json:"confidence"`
}

// MarkPracticed handles POST /api/v1/interview-prep/questions/{id}/practice.
func (r *InterviewPrepRouter) MarkPracticed(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body practiceRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteValidationError(w, err)
		return
	}

	q, err := r.prep.MarkQuestionPracticed(ctx, middleware.UserID(ctx),
		chi.URLParam(req, "id"), body.Confidence)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, q)
}

// DeleteQuestion handles DELETE /api/v1/interview-prep/questions/{id}.
func (r *InterviewPrepRouter) DeleteQuestion(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	if err := r.prep.DeleteQuestion(ctx, middleware.UserID(ctx), chi.URLParam(req, "id")); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addConceptRequest struct {
	Concept   string   `json:"concept"`
	Category  string   `json:"category"`
	Content   string   `json:"content"`
	KeyPoints []string `json:"key_points"`
	Tags      []string `json:"tags"`
	Resources []string `json:"resources"`
}

// AddConcept handles POST /api/v1/interview-prep/concepts.
func (r *InterviewPrepRouter) AddConcept(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body addConceptRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteValidationError(w, err)
		return
	}

	c, err := interview.NewConcept(body.Concept, body.Category, body.Content)
	if err != nil {
		middleware.WriteValidationError(w, err)
		return
	}
	c.KeyPoints = body.KeyPoints
	c.Tags = body.Tags
	c.Resources = body.Resources

	created, err := r.prep.AddConcept(ctx, middleware.UserID(ctx), c)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, created)
}

// ListConcepts handles GET /api/v1/interview-prep/concepts.
func (r *InterviewPrepRouter) ListConcepts(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	concepts, err := r.prep.ListConcepts(ctx, middleware.UserID(ctx), req.URL.Query().Get("category"))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, concepts)
}

// GetConcept handles GET /api/v1/interview-prep/concepts/{id}.
func (r *InterviewPrepRouter) GetConcept(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	c, err := r.prep.GetConcept(ctx, middleware.UserID(ctx), chi.URLParam(req, "id"))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, c)
}

// MarkReviewed handles POST /api/v1/interview-prep/concepts/{id}/review.
func (r *InterviewPrepRouter) MarkReviewed(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	c, err := r.prep.MarkConceptReviewed(ctx, middleware.UserID(ctx), chi.URLParam(req, "id"))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, c)
}

// DeleteConcept handles DELETE /api/v1/interview-prep/concepts/{id}.
func (r *InterviewPrepRouter) DeleteConcept(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	if err := r.prep.DeleteConcept(ctx, middleware.UserID(ctx), chi.URLParam(req, "id")); err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type logSessionRequest struct {
	Date            string   `json:"date"`
	SessionType     string   `json:"session_type"`
	DurationMinutes int      `json:"duration_minutes"`
	QuestionIDs     []string `json:"questions_practiced"`
	Notes           string   `json:"notes"`
	AreasToImprove  []string `json:"areas_to_improve"`
	NextGoals       []string `json:"next_goals"`
}

// LogSession handles POST /api/v1/interview-prep/sessions.
func (r *InterviewPrepRouter) LogSession(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	var body logSessionRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		middleware.WriteValidationError(w, err)
		return
	}

	session := interview.NewSession(body.Date, body.SessionType, body.DurationMinutes)
	session.QuestionIDs = body.QuestionIDs
	session.Notes = body.Notes
	session.AreasToImprove = body.AreasToImprove
	session.NextGoals = body.NextGoals

	logged, err := r.prep.LogSession(ctx, middleware.UserID(ctx), session)
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusCreated, logged)
}

// ListSessions handles GET /api/v1/interview-prep/sessions.
func (r *InterviewPrepRouter) ListSessions(w http.ResponseWriter, req *http.Request) {
	ctx := req.Context()

	sessions, err := r.prep.ListSessions(ctx, middleware.UserID(ctx))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, sessions)
}

// Search handles POST /api/v1/interview-prep/search.
func (r *InterviewPrepRouter) Search(w http.ResponseWriter, req *http.Request) {
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

	matches, err := r.prep.Search(ctx, middleware.UserID(ctx), body.Query, body.limitOrDefault(10))
	if err != nil {
		middleware.WriteError(w, req, err, r.logger)
		return
	}

	results := make([]prepSearchResult, len(matches))
	for i, m := range matches {
		results[i] = prepSearchResult{
			RecordType: m.RecordType,
			Score:      m.Score,
			Question:   m.Question,
			Concept:    m.Concept,
			Session:    m.Session,
		}
	}
	middleware.WriteJSON(w, http.StatusOK, results)
}

type prepSearchResult struct {
	RecordType string              `json:"record_type"`
	Score      float64             `json:"score"`
	Question   *interview.Question `json:"question,omitempty"`
	Concept    *interview.Concept  `json:"concept,omitempty"`
	Session    *interview.Session  `json:"session,omitempty"`
}
