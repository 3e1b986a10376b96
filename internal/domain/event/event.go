// internal/domain/event/event.go

package event

import (
	"context"
	"time"
)

// Type defines the kind of dashboard event
type Type string

const (
	TypeRefreshed Type = "refreshed"
)

// SourceStatus summarizes one adapter after a refresh
type SourceStatus struct {
	Status string           `json:"status"`
	Counts map[string]int64 `json:"counts"`
}

// Event is published on the event bus and relayed to live feed clients
type Event struct {
	ID      string                  `json:"id"`
	Type    Type                    `json:"type"`
	Sources map[string]SourceStatus `json:"sources"`
	Time    time.Time               `json:"time"`
}

// Publisher sends dashboard events to subscribers
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Subscriber delivers dashboard events to handler until the returned
// cancel function is called
type Subscriber interface {
	Subscribe(handler func(Event)) (cancel func(), err error)
}
