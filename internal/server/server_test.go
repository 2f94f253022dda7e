package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/preston-bernstein/golf-league-service/internal/config"
	"github.com/preston-bernstein/golf-league-service/internal/events"
	"github.com/preston-bernstein/golf-league-service/internal/metrics"
	"github.com/preston-bernstein/golf-league-service/internal/store"
	"github.com/preston-bernstein/golf-league-service/internal/testutil"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		Port:       "0",
		AdminToken: "secret",
		Store:      config.StoreConfig{Driver: config.DriverMemory},
		Generator:  config.GeneratorConfig{Trials: 50, Seed: 1},
		Providers:  config.ProviderConfig{RetryAttempts: 2, RetryBackoff: time.Millisecond},
		Snapshots:  config.SnapshotConfig{Dir: t.TempDir()},
		Events:     config.EventsConfig{SubjectPrefix: "league"},
		Metrics:    config.MetricsConfig{Enabled: false},
	}
}

type closingStore struct {
	*store.MemoryStore
	closed int
}

func (s *closingStore) Close() error {
	s.closed++
	return nil
}

type closingPublisher struct {
	closed int
	err    error
}

func (p *closingPublisher) Publish(context.Context, events.Envelope) error { return nil }

func (p *closingPublisher) Close() error {
	p.closed++
	return p.err
}

func TestNewServesHealthAndRounds(t *testing.T) {
	logger, _ := testutil.NewBufferLogger()
	srv, err := newServerWithMetrics(context.Background(), testConfig(t), logger, metrics.NewRecorder(), testutil.NewFakeClock())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = srv.store.Close() })

	testutil.AssertStatus(t, testutil.Serve(srv.Handler(), http.MethodGet, "/health", nil), http.StatusOK)
	testutil.AssertStatus(t, testutil.Serve(srv.Handler(), http.MethodGet, "/ready", nil), http.StatusOK)

	rr := testutil.Serve(srv.Handler(), http.MethodGet, "/rounds", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var body struct {
		Count int `json:"count"`
	}
	testutil.DecodeJSON(t, rr, &body)
	if body.Count != 0 {
		t.Fatalf("expected empty store without fixtures, got %d rounds", body.Count)
	}
}

func TestNewSeedsFixtures(t *testing.T) {
	cfg := testConfig(t)
	cfg.SeedFixtures = true
	srv, err := newServerWithMetrics(context.Background(), cfg, nil, metrics.NewRecorder(), testutil.NewFakeClock())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rr := testutil.Serve(srv.Handler(), http.MethodGet, "/rounds", nil)
	var body struct {
		Count int `json:"count"`
	}
	testutil.DecodeJSON(t, rr, &body)
	if body.Count != demoRounds {
		t.Fatalf("expected %d demo rounds, got %d", demoRounds, body.Count)
	}

	req := testutil.AsAdmin(testutil.JSONRequest(t, http.MethodPost, "/rounds/demo-2025-r1/foursomes/generate", nil), "secret")
	testutil.AssertStatus(t, testutil.ServeRequest(srv.Handler(), req), http.StatusOK)

	// seeding twice is harmless
	if err := seedFixtures(context.Background(), srv.store, testutil.NewFakeClock().Now(), nil); err != nil {
		t.Fatalf("reseed failed: %v", err)
	}
}

func TestNewRejectsBadStoreAndRules(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store.Driver = "mongo"
	if _, err := newServerWithMetrics(context.Background(), cfg, nil, metrics.NewRecorder(), testutil.NewFakeClock()); err == nil {
		t.Fatalf("expected unknown driver to fail")
	}

	cfg = testConfig(t)
	cfg.Store = config.StoreConfig{Driver: config.DriverSQLite}
	if _, err := newServerWithMetrics(context.Background(), cfg, nil, metrics.NewRecorder(), testutil.NewFakeClock()); err == nil {
		t.Fatalf("expected sqlite without a path to fail")
	}

	cfg = testConfig(t)
	rules := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(rules, []byte("golfers_per_round: 12\n"), 0o600); err != nil {
		t.Fatalf("write rules: %v", err)
	}
	cfg.RulesFile = rules
	if _, err := newServerWithMetrics(context.Background(), cfg, nil, metrics.NewRecorder(), testutil.NewFakeClock()); err == nil {
		t.Fatalf("expected invalid rules to fail")
	}
}

func TestNewWithSQLiteStore(t *testing.T) {
	cfg := testConfig(t)
	cfg.Store = config.StoreConfig{
		Driver:         config.DriverSQLite,
		URL:            filepath.Join(t.TempDir(), "league.db"),
		ConnectTimeout: time.Second,
	}
	srv, err := newServerWithMetrics(context.Background(), cfg, nil, metrics.NewRecorder(), testutil.NewFakeClock())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	t.Cleanup(func() { _ = srv.store.Close() })

	req := testutil.AsAdmin(testutil.JSONRequest(t, http.MethodPost, "/rounds", map[string]any{
		"id": "r1", "number": 1, "date": "2025-05-01",
	}), "secret")
	testutil.AssertStatus(t, testutil.ServeRequest(srv.Handler(), req), http.StatusCreated)
	testutil.AssertStatus(t, testutil.Serve(srv.Handler(), http.MethodGet, "/rounds/r1", nil), http.StatusOK)
}

func TestPostgresDSNFallsBackToParts(t *testing.T) {
	got := postgresDSN(config.StoreConfig{Host: "db", Port: 5432, User: "league", Password: "pw", Name: "golf", SSLMode: "disable"})
	if got != "postgres://league:pw@db:5432/golf?sslmode=disable" {
		t.Fatalf("unexpected dsn %s", got)
	}
	if got := postgresDSN(config.StoreConfig{URL: "postgres://u@h/d"}); got != "postgres://u@h/d" {
		t.Fatalf("expected DATABASE_URL to win, got %s", got)
	}
}

func TestBuildPublisherFallsBackToLog(t *testing.T) {
	orig := connectNATS
	defer func() { connectNATS = orig }()

	logger, buf := testutil.NewBufferLogger()
	if _, ok := buildPublisher(config.EventsConfig{}, logger).(*events.LogPublisher); !ok {
		t.Fatalf("expected log publisher without NATS_URL")
	}

	connectNATS = func(string, string, *slog.Logger) (events.Publisher, error) {
		return nil, errors.New("no servers available")
	}
	if _, ok := buildPublisher(config.EventsConfig{NatsURL: "nats://down:4222"}, logger).(*events.LogPublisher); !ok {
		t.Fatalf("expected log publisher when NATS is unreachable")
	}
	if !strings.Contains(buf.String(), "nats unavailable") {
		t.Fatalf("expected fallback warning, got %s", buf.String())
	}

	want := &closingPublisher{}
	connectNATS = func(string, string, *slog.Logger) (events.Publisher, error) { return want, nil }
	if got := buildPublisher(config.EventsConfig{NatsURL: "nats://up:4222"}, logger); got != want {
		t.Fatalf("expected nats publisher to be used")
	}
}

func TestBuildMetricsHandlesSetupFailure(t *testing.T) {
	orig := metricsSetup
	defer func() { metricsSetup = orig }()

	metricsSetup = func(context.Context, metrics.TelemetryConfig) (*metrics.Recorder, http.Handler, func(context.Context) error, error) {
		return nil, nil, nil, errors.New("fail")
	}
	rec, srv, stop := buildMetrics(config.Config{Metrics: config.MetricsConfig{Enabled: true}}, nil, nil)
	if rec == nil || srv != nil || stop != nil {
		t.Fatalf("expected fallback recorder without server")
	}

	injected := metrics.NewRecorder()
	if rec, _, _ := buildMetrics(config.Config{}, nil, injected); rec != injected {
		t.Fatalf("expected injected recorder to be used")
	}
}

func TestBuildMetricsServesHandlerWhenEnabled(t *testing.T) {
	orig := metricsSetup
	defer func() { metricsSetup = orig }()

	metricsSetup = func(context.Context, metrics.TelemetryConfig) (*metrics.Recorder, http.Handler, func(context.Context) error, error) {
		return metrics.NewRecorder(), http.NewServeMux(), func(context.Context) error { return nil }, nil
	}
	_, srv, stop := buildMetrics(config.Config{Metrics: config.MetricsConfig{Enabled: true, Port: "9091"}}, nil, nil)
	if srv == nil || srv.Addr() != ":9091" || stop == nil {
		t.Fatalf("expected metrics server on :9091")
	}
}

func TestGracefulShutdownReleasesEverything(t *testing.T) {
	st := &closingStore{MemoryStore: store.NewMemoryStore()}
	pub := &closingPublisher{err: errors.New("drain failed")}
	httpSrv := &testutil.FakeHTTPServer{}
	metricsSrv := &testutil.FakeHTTPServer{}
	logger, buf := testutil.NewBufferLogger()

	srv := newServerWithDeps(config.Config{}, logger, st, pub, httpSrv)
	srv.metricsServer = metricsSrv
	stopped := 0
	srv.metricsStop = func(context.Context) error { stopped++; return nil }

	srv.gracefulShutdown()

	if httpSrv.Shutdowns() != 1 || metricsSrv.Shutdowns() != 1 || stopped != 1 {
		t.Fatalf("expected servers and telemetry stopped")
	}
	if pub.closed != 1 || st.closed != 1 {
		t.Fatalf("expected publisher and store closed, got %d/%d", pub.closed, st.closed)
	}
	if !strings.Contains(buf.String(), "event publisher close failed") {
		t.Fatalf("expected publisher close failure logged")
	}
}

func TestGracefulShutdownTimesOutLongRunningShutdown(t *testing.T) {
	orig := shutdownTimeout
	shutdownTimeout = 20 * time.Millisecond
	defer func() { shutdownTimeout = orig }()

	blocking := &testutil.FakeHTTPServer{Hold: make(chan struct{})}
	srv := newServerWithDeps(config.Config{}, nil, nil, nil, blocking)

	done := make(chan struct{})
	go func() {
		srv.gracefulShutdown()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("expected shutdown to give up after the timeout")
	}
	if blocking.Shutdowns() != 1 {
		t.Fatalf("expected one shutdown call, got %d", blocking.Shutdowns())
	}
}

func TestServerStartHandlesListenErrorAndStops(t *testing.T) {
	srv := newServerWithDeps(config.Config{}, nil, nil, nil, &testutil.FakeHTTPServer{ListenErr: errors.New("listen failure")})

	stopped := make(chan struct{})
	srv.startServer(func() { close(stopped) })

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatalf("expected listen failure to trigger stop")
	}
}

func TestRunCancelsAndStopsComponents(t *testing.T) {
	httpSrv := &testutil.FakeHTTPServer{ListenErr: http.ErrServerClosed}
	st := &closingStore{MemoryStore: store.NewMemoryStore()}
	srv := newServerWithDeps(config.Config{}, nil, st, events.NewLogPublisher(nil), httpSrv)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	srv.Run(ctx, cancel)

	if httpSrv.Shutdowns() != 1 || st.closed != 1 {
		t.Fatalf("expected http server shut down and store closed")
	}
}
