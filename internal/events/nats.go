package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/preston-bernstein/golf-league-service/internal/logging"
)

// DefaultSubjectPrefix is prepended to every event type to form a subject.
const DefaultSubjectPrefix = "league"

// msgConn is the part of *nats.Conn the publisher uses.
type msgConn interface {
	PublishMsg(m *nats.Msg) error
	Drain() error
}

// NATSPublisher publishes envelopes as JSON on <prefix>.<eventType>.
type NATSPublisher struct {
	conn   msgConn
	prefix string
}

// ConnectNATS dials url and returns a publisher that reconnects forever.
func ConnectNATS(url, prefix string, logger *slog.Logger) (*NATSPublisher, error) {
	opts := []nats.Option{
		nats.Name("golf-league-service"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logging.Warn(logger, "nats disconnected", logging.FieldError, err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logging.Info(logger, "nats reconnected", "url", nc.ConnectedUrl())
		}),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}
	return newNATSPublisher(nc, prefix), nil
}

func newNATSPublisher(conn msgConn, prefix string) *NATSPublisher {
	if prefix == "" {
		prefix = DefaultSubjectPrefix
	}
	return &NATSPublisher{conn: conn, prefix: prefix}
}

// Subject returns the subject an event type is published on.
func (p *NATSPublisher) Subject(t Type) string {
	return p.prefix + "." + string(t)
}

func (p *NATSPublisher) Publish(ctx context.Context, env Envelope) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	msg := &nats.Msg{
		Subject: p.Subject(env.EventType),
		Data:    data,
		Header: nats.Header{
			"Event-Type": []string{string(env.EventType)},
			"Event-ID":   []string{env.EventID},
		},
	}
	if err := p.conn.PublishMsg(msg); err != nil {
		return fmt.Errorf("publish %s: %w", msg.Subject, err)
	}
	return nil
}

// Close flushes pending messages and closes the connection.
func (p *NATSPublisher) Close() error {
	return p.conn.Drain()
}
