package config

import "time"

const (
	envPort          = "PORT"
	envLogLevel      = "LOG_LEVEL"
	envLogFormat     = "LOG_FORMAT"
	envMetricsPort   = "METRICS_PORT"
	envMetricsOn     = "METRICS_ENABLED"
	envOtelEndpoint  = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService   = "OTEL_SERVICE_NAME"
	envOtelInsecure  = "OTEL_EXPORTER_OTLP_INSECURE"
	envAdminToken    = "ADMIN_TOKEN"
	envStoreDriver   = "STORE_DRIVER"
	envDatabaseURL   = "DATABASE_URL"
	envStoreTimeout  = "STORE_CONNECT_TIMEOUT"
	envDBHost        = "DB_HOST"
	envDBPort        = "DB_PORT"
	envDBUser        = "DB_USER"
	envDBPassword    = "DB_PASSWORD"
	envDBName        = "DB_NAME"
	envDBSSLMode     = "DB_SSLMODE"
	envRulesFile     = "LEAGUE_RULES_FILE"
	envTrials        = "GENERATOR_TRIALS"
	envSeed          = "GENERATOR_SEED"
	envSnapshotDir   = "SNAPSHOT_DIR"
	envRetention     = "SNAPSHOT_RETENTION_SEASONS"
	envNatsURL       = "NATS_URL"
	envNatsPrefix    = "NATS_SUBJECT_PREFIX"
	envRetryAttempts = "PROVIDER_RETRY_ATTEMPTS"
	envRetryBackoff  = "PROVIDER_RETRY_BACKOFF"
	envSeedFixtures  = "SEED_FIXTURES"
	envCORSOrigins   = "CORS_ALLOWED_ORIGINS"

	defaultPort        = "4000"
	defaultLogLevel    = "info"
	defaultLogFormat   = "text"
	defaultMetricsPort = "9090"
	defaultStoreDriver = DriverMemory
	// Initial DB ping retries give a database container time to come up.
	defaultStoreTimeout  = 30 * Duration(time.Second)
	defaultDBHost        = "localhost"
	defaultDBPort        = 5432
	defaultDBUser        = "postgres"
	defaultDBName        = "golf_league"
	defaultDBSSLMode     = "disable"
	defaultTrials        = 100
	defaultSnapshotDir   = "data"
	defaultNatsPrefix    = "league"
	defaultRetryAttempts = 3
	defaultRetryBackoff  = 100 * Duration(time.Millisecond)
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite3"
	DriverPostgres = "pgx"
)
