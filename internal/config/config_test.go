package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != defaultPort {
		t.Fatalf("expected default port %s, got %s", defaultPort, cfg.Port)
	}
	if cfg.Store.Driver != DriverMemory {
		t.Fatalf("expected memory store by default, got %s", cfg.Store.Driver)
	}
	if cfg.Store.ConnectTimeout != defaultStoreTimeout {
		t.Fatalf("expected default connect timeout, got %s", cfg.Store.ConnectTimeout)
	}
	if cfg.Generator.Trials != defaultTrials || cfg.Generator.Seed != 0 {
		t.Fatalf("unexpected generator defaults %+v", cfg.Generator)
	}
	if cfg.Providers.RetryAttempts != 3 || cfg.Providers.RetryBackoff != 100*time.Millisecond {
		t.Fatalf("unexpected provider defaults %+v", cfg.Providers)
	}
	if cfg.Snapshots.Dir != "data" || cfg.Snapshots.RetentionSeasons != 0 {
		t.Fatalf("unexpected snapshot defaults %+v", cfg.Snapshots)
	}
	if cfg.Events.NatsURL != "" || cfg.Events.SubjectPrefix != "league" {
		t.Fatalf("unexpected event defaults %+v", cfg.Events)
	}
	if cfg.Metrics.ServiceName != "golf-league-service" || !cfg.Metrics.Enabled {
		t.Fatalf("unexpected metrics defaults %+v", cfg.Metrics)
	}
	if cfg.AdminToken != "" || cfg.SeedFixtures || len(cfg.CORSOrigins) != 0 {
		t.Fatalf("expected no admin token and no fixtures by default")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv(envPort, "5000")
	t.Setenv(envAdminToken, "secret")
	t.Setenv(envStoreDriver, "SQLITE3")
	t.Setenv(envDatabaseURL, "/tmp/league.db")
	t.Setenv(envTrials, "250")
	t.Setenv(envSeed, "42")
	t.Setenv(envRetryAttempts, "5")
	t.Setenv(envRetryBackoff, "1s")
	t.Setenv(envSnapshotDir, "/var/archive")
	t.Setenv(envRetention, "2")
	t.Setenv(envNatsURL, "nats://localhost:4222")
	t.Setenv(envSeedFixtures, "true")
	t.Setenv(envLogFormat, "json")
	t.Setenv(envCORSOrigins, "https://league.example, ,https://admin.example")

	cfg := Load()

	if cfg.Port != "5000" || cfg.AdminToken != "secret" || cfg.LogFormat != "json" {
		t.Fatalf("unexpected top-level overrides %+v", cfg)
	}
	if cfg.Store.Driver != DriverSQLite || cfg.Store.URL != "/tmp/league.db" {
		t.Fatalf("unexpected store overrides %+v", cfg.Store)
	}
	if cfg.Generator.Trials != 250 || cfg.Generator.Seed != 42 {
		t.Fatalf("unexpected generator overrides %+v", cfg.Generator)
	}
	if cfg.Providers.RetryAttempts != 5 || cfg.Providers.RetryBackoff != time.Second {
		t.Fatalf("unexpected provider overrides %+v", cfg.Providers)
	}
	if cfg.Snapshots.Dir != "/var/archive" || cfg.Snapshots.RetentionSeasons != 2 {
		t.Fatalf("unexpected snapshot overrides %+v", cfg.Snapshots)
	}
	if cfg.Events.NatsURL != "nats://localhost:4222" || !cfg.SeedFixtures {
		t.Fatalf("unexpected event/fixture overrides %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "https://admin.example" {
		t.Fatalf("unexpected cors origins %v", cfg.CORSOrigins)
	}
}

func TestLoadInvalidDurationFallsBack(t *testing.T) {
	t.Setenv(envStoreTimeout, "not-a-duration")

	cfg := Load()

	if cfg.Store.ConnectTimeout != defaultStoreTimeout {
		t.Fatalf("expected default timeout on invalid value, got %s", cfg.Store.ConnectTimeout)
	}
}

func TestLoadNonPositiveDurationFallsBack(t *testing.T) {
	t.Setenv(envRetryBackoff, "0s")

	cfg := Load()

	if cfg.Providers.RetryBackoff != defaultRetryBackoff {
		t.Fatalf("expected default backoff on non-positive value, got %s", cfg.Providers.RetryBackoff)
	}
}

func TestStoreValidate(t *testing.T) {
	cases := []struct {
		cfg     StoreConfig
		wantErr bool
	}{
		{StoreConfig{Driver: DriverMemory}, false},
		{StoreConfig{Driver: DriverPostgres}, false},
		{StoreConfig{Driver: DriverSQLite, URL: "league.db"}, false},
		{StoreConfig{Driver: DriverSQLite}, true},
		{StoreConfig{Driver: "mongo"}, true},
	}
	for _, tc := range cases {
		err := tc.cfg.Validate()
		if (err != nil) != tc.wantErr {
			t.Fatalf("driver %q url %q: unexpected error %v", tc.cfg.Driver, tc.cfg.URL, err)
		}
	}
}

func TestMetricsTelemetry(t *testing.T) {
	t.Setenv(envMetricsPort, "9100")
	t.Setenv(envOtelEndpoint, "collector:4318")

	tel := Load().Metrics.Telemetry()
	if !tel.Enabled || tel.Port != "9100" || tel.OtlpEndpoint != "collector:4318" || tel.ServiceName != "golf-league-service" {
		t.Fatalf("unexpected telemetry config %+v", tel)
	}
}
