package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/preston-bernstein/golf-league-service/internal/http/handlers"
	"github.com/preston-bernstein/golf-league-service/internal/http/middleware"
	"github.com/preston-bernstein/golf-league-service/internal/metrics"
)

// RouterConfig carries the cross-cutting settings of the HTTP surface.
type RouterConfig struct {
	AdminToken  string
	CORSOrigins []string
	Logger      *slog.Logger
	Recorder    *metrics.Recorder
}

// NewRouter registers HTTP routes on a ServeMux and wraps them in the
// request-id, logging, caller and CORS middleware.
func NewRouter(handler *handlers.Handler, cfg RouterConfig) nethttp.Handler {
	mux := nethttp.NewServeMux()
	handler.Register(mux)

	var h nethttp.Handler = mux
	h = middleware.CallerMiddleware(cfg.AdminToken, cfg.Logger, h)
	h = middleware.LoggingMiddleware(cfg.Logger, cfg.Recorder, h)
	return middleware.CORS(cfg.CORSOrigins, h)
}
