package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/preston-bernstein/golf-league-service/internal/logging"
	"github.com/preston-bernstein/golf-league-service/internal/metrics"
)

// Type names a round lifecycle event.
type Type string

const (
	FoursomesGenerated Type = "foursomes.generated"
	FoursomesPatched   Type = "foursomes.patched"
	FoursomesUpdated   Type = "foursomes.updated"
	RoundFinalized     Type = "round.finalized"
	HandicapUpdated    Type = "handicap.updated"
)

// Envelope is the wire shape of every published event.
type Envelope struct {
	EventID   string    `json:"eventId"`
	EventType Type      `json:"eventType"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// NewEnvelope stamps payload with a fresh id and the clock's current time.
func NewEnvelope(clock clockwork.Clock, t Type, payload any) Envelope {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return Envelope{
		EventID:   uuid.NewString(),
		EventType: t,
		Timestamp: clock.Now().UTC(),
		Payload:   payload,
	}
}

// Publisher delivers envelopes to subscribers.
type Publisher interface {
	Publish(ctx context.Context, env Envelope) error
	Close() error
}

// Emitter publishes lifecycle events on a best-effort basis: failures are
// logged and counted, never returned.
type Emitter struct {
	pub      Publisher
	clock    clockwork.Clock
	logger   *slog.Logger
	recorder *metrics.Recorder
}

// NewEmitter wraps pub. A nil pub drops every event.
func NewEmitter(pub Publisher, clock clockwork.Clock, logger *slog.Logger, recorder *metrics.Recorder) *Emitter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Emitter{pub: pub, clock: clock, logger: logger, recorder: recorder}
}

// Emit publishes one event. Safe on a nil Emitter.
func (e *Emitter) Emit(ctx context.Context, t Type, payload any) {
	if e == nil || e.pub == nil {
		return
	}
	start := time.Now()
	env := NewEnvelope(e.clock, t, payload)
	err := e.pub.Publish(ctx, env)
	e.recorder.RecordOperation(metrics.OpPublishEvent, time.Since(start), err)

	logger := logging.FromContext(ctx, e.logger)
	if err != nil {
		logging.Warn(logger, "event publish failed", logging.FieldEventType, string(t), logging.FieldError, err)
		return
	}
	if logger != nil {
		logger.Debug("event published", logging.FieldEventType, string(t), "event_id", env.EventID)
	}
}
