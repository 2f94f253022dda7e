package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/golf-league-service/internal/domain"
	"github.com/preston-bernstein/golf-league-service/internal/http/middleware"
	"github.com/preston-bernstein/golf-league-service/internal/logging"
	"github.com/preston-bernstein/golf-league-service/internal/providers"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Error("failed to encode response", logging.FieldError, err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, logger *slog.Logger) {
	reqID := middleware.RequestIDFromContext(r.Context())
	if reqID == "" {
		reqID = r.Header.Get("X-Request-ID")
	}
	body := map[string]string{"error": message}
	if reqID != "" {
		body["requestId"] = reqID
	}
	writeJSON(w, status, body, logger)
}

// writeServiceError maps the domain error taxonomy onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		logging.Error(loggerFromContext(r, logger), "request failed", err, logging.FieldPath, r.URL.Path)
	}
	writeError(w, r, status, msg, logger)
}

func statusFor(err error) (int, string) {
	if _, ok := domain.AsValidation(err); ok {
		return http.StatusBadRequest, err.Error()
	}
	if _, ok := domain.AsForbidden(err); ok {
		return http.StatusForbidden, err.Error()
	}
	if _, ok := domain.AsNotFound(err); ok {
		return http.StatusNotFound, err.Error()
	}
	if _, ok := domain.AsLocked(err); ok {
		return http.StatusConflict, err.Error()
	}
	if _, ok := domain.AsIncompleteScore(err); ok {
		return http.StatusConflict, err.Error()
	}
	if _, ok := domain.AsNoScores(err); ok {
		return http.StatusConflict, err.Error()
	}
	if ce, ok := providers.AsCollaboratorError(err); ok {
		return http.StatusBadGateway, ce.Collaborator + " unavailable"
	}
	return http.StatusInternalServerError, "internal error"
}

// decodeBody reads a JSON request body into dest. An empty body is an error.
func decodeBody(w http.ResponseWriter, r *http.Request, dest any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Validation("body", "request body is required")
		}
		return domain.Validation("body", "invalid JSON: %v", err)
	}
	return nil
}

func loggerFromContext(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if r == nil {
		return fallback
	}
	return logging.FromContext(r.Context(), fallback)
}
