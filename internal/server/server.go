package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/jonboulle/clockwork"

	"github.com/preston-bernstein/golf-league-service/internal/config"
	"github.com/preston-bernstein/golf-league-service/internal/events"
	httpserver "github.com/preston-bernstein/golf-league-service/internal/http"
	"github.com/preston-bernstein/golf-league-service/internal/http/handlers"
	"github.com/preston-bernstein/golf-league-service/internal/logging"
	"github.com/preston-bernstein/golf-league-service/internal/metrics"
	"github.com/preston-bernstein/golf-league-service/internal/store"
)

var metricsSetup = metrics.Setup

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	store         store.Store
	publisher     events.Publisher
	httpServer    httpServer
	metricsServer httpServer
	metricsStop   func(context.Context) error
}

// New loads the league rules, opens the store and wires every component.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	return newServerWithMetrics(ctx, cfg, logger, nil, clockwork.NewRealClock())
}

func newServerWithMetrics(ctx context.Context, cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder, clock clockwork.Clock) (*Server, error) {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	rules, err := config.LoadRules(cfg.RulesFile)
	if err != nil {
		return nil, err
	}
	st, err := openStore(ctx, cfg.Store, logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if cfg.SeedFixtures {
		if err := seedFixtures(ctx, st, clock.Now(), logger); err != nil {
			_ = st.Close()
			return nil, fmt.Errorf("seed fixtures: %w", err)
		}
	}

	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)
	publisher := buildPublisher(cfg.Events, logger)
	svcs := buildServices(serviceDeps{
		cfg:       cfg,
		rules:     rules,
		store:     st,
		emitter:   events.NewEmitter(publisher, clock, logger, recorder),
		snapshots: buildSnapshots(cfg.Snapshots, clock),
		recorder:  recorder,
		logger:    logger,
		clock:     clock,
	})
	if cfg.AdminToken == "" {
		logger.Warn("ADMIN_TOKEN not set, administrator routes are unreachable")
	}

	return &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		store:         st,
		publisher:     publisher,
		httpServer:    buildHTTPServer(cfg, svcs, st, logger, recorder),
		metricsServer: metricsSrv,
		metricsStop:   metricsShutdown,
	}, nil
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, st store.Store, pub events.Publisher, httpSrv httpServer) *Server {
	return &Server{
		cfg:        cfg,
		logger:     logger,
		store:      st,
		publisher:  pub,
		httpServer: httpSrv,
	}
}

func buildHTTPServer(cfg config.Config, svcs services, st store.Store, logger *slog.Logger, recorder *metrics.Recorder) httpServer {
	handler := handlers.NewHandler(handlers.Deps{
		Rounds:    svcs.rounds,
		Foursomes: svcs.foursomes,
		Scores:    svcs.scores,
		Handicaps: svcs.handicaps,
		Store:     st,
		Logger:    logger,
	})
	router := httpserver.NewRouter(handler, httpserver.RouterConfig{
		AdminToken:  cfg.AdminToken,
		CORSOrigins: cfg.CORSOrigins,
		Logger:      logger,
		Recorder:    recorder,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts the HTTP servers, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

// gracefulShutdown drains HTTP first so in-flight requests can still reach
// the store and publisher, then releases both.
func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", logging.FieldError, err)
		}
	}
	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", logging.FieldError, err)
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			logging.Warn(s.logger, "event publisher close failed", logging.FieldError, err)
		}
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			logging.Error(s.logger, "failed to close store", err)
		}
	}

	logging.Info(s.logger, "shutdown complete")
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := cfg.Metrics.Telemetry()
	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", logging.FieldError, err)
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:              ":" + recCfg.Port,
				Handler:           handler,
				ReadHeaderTimeout: readHeaderTimeout,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		logging.Info(logger, "starting "+name+" server", slog.String("addr", srv.Addr()))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Warn(logger, name+" server failed", logging.FieldError, err)
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}

// httpServer is the slice of *http.Server the lifecycle code drives, so tests
// can substitute stubs.
type httpServer interface {
	ListenAndServe() error
	Shutdown(context.Context) error
	Addr() string
	Handler() http.Handler
}

type netHTTPServer struct {
	srv *http.Server
}

func (s netHTTPServer) ListenAndServe() error              { return s.srv.ListenAndServe() }
func (s netHTTPServer) Shutdown(ctx context.Context) error { return s.srv.Shutdown(ctx) }
func (s netHTTPServer) Addr() string                       { return s.srv.Addr }
func (s netHTTPServer) Handler() http.Handler              { return s.srv.Handler }
