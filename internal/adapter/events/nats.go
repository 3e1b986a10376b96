// internal/adapter/events/nats.go

// Package events carries dashboard events over NATS, or in process when no
// broker is configured.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"

	"partypulse/internal/domain/event"
	"partypulse/internal/logger"
)

// Conn is the part of *nats.Conn the bus uses
type Conn interface {
	Publish(subj string, data []byte) error
	Subscribe(subj string, cb nats.MsgHandler) (*nats.Subscription, error)
}

// Bus publishes and subscribes to dashboard events on NATS subjects
// prefixed with the configured events subject
type Bus struct {
	conn    Conn
	subject string
	log     logger.Logger
}

// NewBus creates a NATS backed event bus
func NewBus(conn Conn, subject string, log logger.Logger) *Bus {
	return &Bus{
		conn:    conn,
		subject: strings.TrimSuffix(subject, "."),
		log:     log.With(logger.String("component", "events")),
	}
}

// Subject returns the subject an event type is published on
func (b *Bus) Subject(t event.Type) string {
	return fmt.Sprintf("%s.%s", b.subject, t)
}

// Publish sends an event on its type's subject
func (b *Bus) Publish(_ context.Context, e event.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("error marshaling event: %w", err)
	}

	if err := b.conn.Publish(b.Subject(e.Type), data); err != nil {
		return fmt.Errorf("error publishing event: %w", err)
	}
	return nil
}

// Subscribe delivers every dashboard event to handler. Messages that do not
// decode are dropped.
func (b *Bus) Subscribe(handler func(event.Event)) (func(), error) {
	sub, err := b.conn.Subscribe(b.subject+".>", func(msg *nats.Msg) {
		var e event.Event
		if err := json.Unmarshal(msg.Data, &e); err != nil {
			b.log.Warn("dropping undecodable event",
				logger.String("subject", msg.Subject),
				logger.Error(err),
			)
			return
		}
		handler(e)
	})
	if err != nil {
		return nil, fmt.Errorf("error subscribing to events: %w", err)
	}

	return func() {
		if err := sub.Unsubscribe(); err != nil {
			b.log.Debug("unsubscribe failed", logger.Error(err))
		}
	}, nil
}
