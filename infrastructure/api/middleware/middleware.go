// Package middleware provides HTTP middleware and response helpers shared
// by the API routers.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/jobvault/jobvault/domain/record"
)

// DefaultUserID is assumed when a request carries no X-User-ID header.
const DefaultUserID = "default_user"

type contextKey string

const userIDKey contextKey = "user_id"

// UserID returns the authenticated user id from the request context.
func UserID(ctx context.Context) string {
	if id, ok := ctx.Value(userIDKey).(string); ok && id != "" {
		return id
	}
	return DefaultUserID
}

// ExtractUserID reads the X-User-ID header into the request context.
func ExtractUserID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			userID = DefaultUserID
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userIDKey, userID)))
	})
}

// Logging returns middleware that logs one line per request.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			logger.InfoContext(r.Context(), "request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", chimiddleware.GetReqID(r.Context()),
			)
		})
	}
}

// ErrorBody is the JSON error response wrapper.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail describes one error.
type ErrorDetail struct {
	Status int    `json:"status"`
	Title  string `json:"title"`
	Detail string `json:"detail,omitempty"`
}

// WriteError maps a domain error to an HTTP status and writes a JSON error
// response.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	status := http.StatusInternalServerError
	title := "Internal Server Error"

	switch {
	case errors.Is(err, record.ErrNotFound):
		status = http.StatusNotFound
		title = "Not Found"
	case errors.Is(err, record.ErrDuplicateRecord):
		status = http.StatusConflict
		title = "Conflict"
	case errors.Is(err, record.ErrEmbeddingUnavailable),
		errors.Is(err, record.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
		title = "Service Unavailable"
	case errors.Is(err, record.ErrCorruptRecord):
		status = http.StatusInternalServerError
		title = "Corrupt Record"
	}

	if logger != nil && status >= http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "request error",
			"status", status, "path", r.URL.Path, "error", err)
	}

	WriteJSON(w, status, ErrorBody{Error: ErrorDetail{
		Status: status,
		Title:  title,
		Detail: err.Error(),
	}})
}

// WriteValidationError writes a 400 response for malformed input.
func WriteValidationError(w http.ResponseWriter, err error) {
	WriteJSON(w, http.StatusBadRequest, ErrorBody{Error: ErrorDetail{
		Status: http.StatusBadRequest,
		Title:  "Validation Error",
		Detail: err.Error(),
	}})
}

// WriteJSON writes a JSON response.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
