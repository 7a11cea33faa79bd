package calculation

import (
	"github.com/rpgo/lifeplan/internal/domain"
	"github.com/rpgo/lifeplan/internal/reference"
)

// EventHandler reacts to a published event
type EventHandler func(domain.Event)

// EventBus dispatches simulation events to subscribers and keeps the run's event log.
// Each run owns its bus; nothing is shared between runs.
type EventBus struct {
	handlers map[domain.EventKind][]EventHandler
	all      []EventHandler
	log      []domain.Event
}

// NewEventBus creates an empty bus
func NewEventBus() *EventBus {
	return &EventBus{handlers: make(map[domain.EventKind][]EventHandler)}
}

// Subscribe registers h for one kind of event
func (b *EventBus) Subscribe(kind domain.EventKind, h EventHandler) {
	b.handlers[kind] = append(b.handlers[kind], h)
}

// SubscribeAll registers h for every event
func (b *EventBus) SubscribeAll(h EventHandler) {
	b.all = append(b.all, h)
}

// Publish records e and calls its subscribers in registration order
func (b *EventBus) Publish(e domain.Event) {
	b.log = append(b.log, e)
	for _, h := range b.handlers[e.Kind] {
		h(e)
	}
	for _, h := range b.all {
		h(e)
	}
}

// Events returns the events published so far
func (b *EventBus) Events() []domain.Event {
	return append([]domain.Event(nil), b.log...)
}

// reset clears the event log and keeps the subscribers
func (b *EventBus) reset() {
	b.log = nil
}

// Context carries everything one simulation run needs: reference data, its own
// event bus and a logger
type Context struct {
	Tables *reference.Tables
	Bus    *EventBus
	Logger Logger
}

// NewContext creates a run context. Nil tables select the built-in defaults and a nil
// logger discards output.
func NewContext(tables *reference.Tables, logger Logger) *Context {
	if tables == nil {
		tables = reference.Default()
	}
	if logger == nil {
		logger = NopLogger{}
	}
	return &Context{Tables: tables, Bus: NewEventBus(), Logger: logger}
}
