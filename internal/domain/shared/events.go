// Package shared holds the contracts every domain package uses to announce
// state changes to the presentation layer.
package shared

import "time"

// DomainEvent represents an event that has occurred in the domain
type DomainEvent interface {
	EventName() string
	OccurredAt() time.Time
}

// EventDispatcher dispatches domain events to handlers
type EventDispatcher interface {
	Dispatch(event DomainEvent) error
	Register(eventName string, handler EventHandler)
}

// EventHandler handles domain events
type EventHandler func(event DomainEvent) error

// NopDispatcher drops every event. Used when no observer is wired.
type NopDispatcher struct{}

// Dispatch implements EventDispatcher
func (NopDispatcher) Dispatch(DomainEvent) error { return nil }

// Register implements EventDispatcher
func (NopDispatcher) Register(string, EventHandler) {}
