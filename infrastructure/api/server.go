// Package api provides the HTTP server hosting the versioned REST API.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/jobvault/jobvault/application/service"
	"github.com/jobvault/jobvault/infrastructure/api/middleware"
	v1 "github.com/jobvault/jobvault/infrastructure/api/v1"
)

// Services bundles the collection facades the API serves.
type Services struct {
	Applications  *service.Applications
	Resumes       *service.Resumes
	InterviewPrep *service.InterviewPrep
	Notes         *service.Notes
	Companies     *service.Companies
}

// Server hosts the REST API.
type Server struct {
	router chi.Router
	http   *http.Server
	logger *slog.Logger
}

// NewServer creates a server with the standard middleware stack and all v1
// routes mounted.
func NewServer(addr string, services Services, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-User-ID"},
		MaxAge:         300,
	}))
	router.Use(middleware.Logging(logger))
	router.Use(middleware.ExtractUserID)

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Mount("/applications", v1.NewApplicationsRouter(services.Applications, logger).Routes())
		r.Mount("/resumes", v1.NewResumesRouter(services.Resumes, logger).Routes())
		r.Mount("/interview-prep", v1.NewInterviewPrepRouter(services.InterviewPrep, logger).Routes())
		r.Mount("/notes", v1.NewNotesRouter(services.Notes, logger).Routes())
		r.Mount("/companies", v1.NewCompaniesRouter(services.Companies, logger).Routes())
	})

	return &Server{
		router: router,
		http: &http.Server{
			Addr:              addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Router returns the chi router for customization before starting.
func (s *Server) Router() chi.Router { return s.router }

// ListenAndServe starts the HTTP server and blocks until it stops.
func (s *Server) ListenAndServe() error {
	s.logger.Info("api server listening", "addr", s.http.Addr)
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
