package events

import (
	"context"
	"log/slog"

	"github.com/preston-bernstein/golf-league-service/internal/logging"
)

// LogPublisher writes events to the log instead of a broker. Used when no NATS URL is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, env Envelope) error {
	logger := logging.FromContext(ctx, p.logger)
	if logger != nil {
		logger.Info("event", logging.FieldEventType, string(env.EventType), "event_id", env.EventID)
	}
	return nil
}

func (p *LogPublisher) Close() error { return nil }
