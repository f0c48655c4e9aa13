// Package events provides the in-process domain event dispatcher
package events

import (
	"sync"

	"go.uber.org/zap"

	"github.com/nutriplan/client/internal/domain/shared"
)

// Wildcard registers a handler for every event
const Wildcard = "*"

// Dispatcher delivers domain events synchronously to registered handlers
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
	log      *zap.Logger
}

var _ shared.EventDispatcher = (*Dispatcher)(nil)

// NewDispatcher creates a new event dispatcher
func NewDispatcher(log *zap.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string][]shared.EventHandler),
		log:      log.Named("events"),
	}
}

// Dispatch runs the handlers registered for the event's name, then the
// wildcard handlers. A failing handler is logged and does not stop the
// others.
func (d *Dispatcher) Dispatch(event shared.DomainEvent) error {
	name := event.EventName()

	d.mu.RLock()
	handlers := make([]shared.EventHandler, 0, len(d.handlers[name])+len(d.handlers[Wildcard]))
	handlers = append(handlers, d.handlers[name]...)
	handlers = append(handlers, d.handlers[Wildcard]...)
	d.mu.RUnlock()

	if len(handlers) == 0 {
		d.log.Debug("No handlers registered for event", zap.String("event", name))
		return nil
	}

	for _, handler := range handlers {
		if err := handler(event); err != nil {
			d.log.Error("Failed to handle event",
				zap.String("event", name),
				zap.Error(err),
			)
		}
	}

	return nil
}

// Register registers an event handler
func (d *Dispatcher) Register(eventName string, handler shared.EventHandler) {
	d.mu.Lock()
	d.handlers[eventName] = append(d.handlers[eventName], handler)
	d.mu.Unlock()

	d.log.Debug("Registered event handler", zap.String("event", eventName))
}

// LoggingHandler logs every event it receives at debug level
func LoggingHandler(log *zap.Logger) shared.EventHandler {
	return func(event shared.DomainEvent) error {
		log.Debug("Domain event",
			zap.String("event", event.EventName()),
			zap.Time("occurred_at", event.OccurredAt()),
		)
		return nil
	}
}
