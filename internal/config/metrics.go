package config

import "github.com/preston-bernstein/golf-league-service/internal/metrics"

// MetricsConfig controls telemetry export settings.
type MetricsConfig struct {
	Enabled      bool
	Port         string
	OtlpEndpoint string
	ServiceName  string
	OtlpInsecure bool
}

func loadMetrics() MetricsConfig {
	return MetricsConfig{
		Enabled:      boolEnvOrDefault(envMetricsOn, true),
		Port:         envOrDefault(envMetricsPort, defaultMetricsPort),
		OtlpEndpoint: envOrDefault(envOtelEndpoint, ""),
		ServiceName:  envOrDefault(envOtelService, metrics.DefaultServiceName),
		OtlpInsecure: boolEnvOrDefault(envOtelInsecure, true),
	}
}

// Telemetry converts the settings for metrics.Setup.
func (c MetricsConfig) Telemetry() metrics.TelemetryConfig {
	return metrics.TelemetryConfig{
		Enabled:      c.Enabled,
		Port:         c.Port,
		ServiceName:  c.ServiceName,
		OtlpEndpoint: c.OtlpEndpoint,
		OtlpInsecure: c.OtlpInsecure,
	}
}
