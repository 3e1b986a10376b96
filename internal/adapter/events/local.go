// internal/adapter/events/local.go

package events

import (
	"context"
	"sync"

	"partypulse/internal/domain/event"
)

// Local fans events out to in-process subscribers
type Local struct {
	mu       sync.RWMutex
	next     int
	handlers map[int]func(event.Event)
}

// NewLocal creates an in-process event bus
func NewLocal() *Local {
	return &Local{handlers: make(map[int]func(event.Event))}
}

// Publish delivers e to every current subscriber
func (l *Local) Publish(_ context.Context, e event.Event) error {
	l.mu.RLock()
	handlers := make([]func(event.Event), 0, len(l.handlers))
	for _, h := range l.handlers {
		handlers = append(handlers, h)
	}
	l.mu.RUnlock()

	for _, h := range handlers {
		h(e)
	}
	return nil
}

// Subscribe registers handler until the returned function is called
func (l *Local) Subscribe(handler func(event.Event)) (func(), error) {
	l.mu.Lock()
	id := l.next
	l.next++
	l.handlers[id] = handler
	l.mu.Unlock()

	return func() {
		l.mu.Lock()
		delete(l.handlers, id)
		l.mu.Unlock()
	}, nil
}
