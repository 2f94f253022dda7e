package config

// Config holds runtime configuration for the server.
type Config struct {
	Port         string
	AdminToken   string
	LogLevel     string
	LogFormat    string
	RulesFile    string
	SeedFixtures bool
	CORSOrigins  []string
	Store        StoreConfig
	Generator    GeneratorConfig
	Providers    ProviderConfig
	Snapshots    SnapshotConfig
	Events       EventsConfig
	Metrics      MetricsConfig
}

// GeneratorConfig tunes the foursome generator search.
type GeneratorConfig struct {
	Trials int
	// Seed fixes the generator's PRNG; 0 seeds from crypto/rand.
	Seed int64
}

// ProviderConfig controls retries around collaborator reads.
type ProviderConfig struct {
	RetryAttempts int
	RetryBackoff  Duration
}

// EventsConfig selects the lifecycle event publisher. An empty URL logs events instead.
type EventsConfig struct {
	NatsURL       string
	SubjectPrefix string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:         envOrDefault(envPort, defaultPort),
		AdminToken:   envOrDefault(envAdminToken, ""),
		LogLevel:     envOrDefault(envLogLevel, defaultLogLevel),
		LogFormat:    envOrDefault(envLogFormat, defaultLogFormat),
		RulesFile:    envOrDefault(envRulesFile, ""),
		SeedFixtures: boolEnvOrDefault(envSeedFixtures, false),
		CORSOrigins:  listEnv(envCORSOrigins),
		Store:        loadStore(),
		Generator: GeneratorConfig{
			Trials: intEnvOrDefault(envTrials, defaultTrials),
			Seed:   int64(intEnvOrDefault(envSeed, 0)),
		},
		Providers: ProviderConfig{
			RetryAttempts: intEnvOrDefault(envRetryAttempts, defaultRetryAttempts),
			RetryBackoff:  durationEnvOrDefault(envRetryBackoff, defaultRetryBackoff),
		},
		Snapshots: loadSnapshots(),
		Events: EventsConfig{
			NatsURL:       envOrDefault(envNatsURL, ""),
			SubjectPrefix: envOrDefault(envNatsPrefix, defaultNatsPrefix),
		},
		Metrics: loadMetrics(),
	}
}
