package middleware

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/preston-bernstein/golf-league-service/internal/domain"
	"github.com/preston-bernstein/golf-league-service/internal/http/requestutil"
	"github.com/preston-bernstein/golf-league-service/internal/logging"
)

// GolferHeader carries the calling golfer's id.
const GolferHeader = "X-Golfer-ID"

type callerKey struct{}

// CallerMiddleware resolves who is calling. A bearer token equal to
// adminToken grants the admin role; any other bearer token is rejected with
// 401. Without a token the X-Golfer-ID header names the golfer.
func CallerMiddleware(adminToken string, logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller := domain.Caller{Role: domain.RoleGolfer, GolferID: requestutil.GolferID(r, GolferHeader)}

		if auth := r.Header.Get("Authorization"); auth != "" {
			token, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || adminToken == "" || subtle.ConstantTimeCompare([]byte(token), []byte(adminToken)) != 1 {
				log := logging.FromContext(r.Context(), logger)
				logging.Warn(log, "admin unauthorized",
					slog.String(logging.FieldPath, r.URL.Path),
					slog.String("client_ip", requestutil.ClientIP(r)),
				)
				writeUnauthorized(w, r, log)
				return
			}
			caller.Role = domain.RoleAdmin
		}

		next.ServeHTTP(w, r.WithContext(WithCaller(r.Context(), caller)))
	})
}

// WithCaller stores the resolved caller on ctx.
func WithCaller(ctx context.Context, c domain.Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// CallerFromContext returns the resolved caller, or an anonymous golfer.
func CallerFromContext(ctx context.Context) domain.Caller {
	if ctx != nil {
		if c, ok := ctx.Value(callerKey{}).(domain.Caller); ok {
			return c
		}
	}
	return domain.Caller{Role: domain.RoleGolfer}
}

type unauthorizedBody struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

func writeUnauthorized(w http.ResponseWriter, r *http.Request, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	body := unauthorizedBody{Error: "unauthorized", RequestID: RequestIDFromContext(r.Context())}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error(logger, "failed to encode unauthorized response", err)
	}
}
