package server

import (
	"log/slog"

	"github.com/preston-bernstein/golf-league-service/internal/config"
	"github.com/preston-bernstein/golf-league-service/internal/events"
	"github.com/preston-bernstein/golf-league-service/internal/logging"
)

// connectNATS remains a var for tests to override.
var connectNATS = func(url, prefix string, logger *slog.Logger) (events.Publisher, error) {
	pub, err := events.ConnectNATS(url, prefix, logger)
	if err != nil {
		return nil, err
	}
	return pub, nil
}

// buildPublisher publishes lifecycle events to NATS when NATS_URL is set.
// Without a URL, or when the broker is unreachable at startup, events are logged.
func buildPublisher(cfg config.EventsConfig, logger *slog.Logger) events.Publisher {
	if cfg.NatsURL == "" {
		return events.NewLogPublisher(logger)
	}
	pub, err := connectNATS(cfg.NatsURL, cfg.SubjectPrefix, logger)
	if err != nil {
		logging.Warn(logger, "nats unavailable, logging events instead", "url", cfg.NatsURL, logging.FieldError, err)
		return events.NewLogPublisher(logger)
	}
	logging.Info(logger, "publishing events to nats", "url", cfg.NatsURL, "prefix", cfg.SubjectPrefix)
	return pub
}
