package eventmock

import (
	"context"
	"sync"

	"microloan-ledger/internal/domain/event"
)

var _ event.Emitter = (*Emitter)(nil)

// Emitter records every emitted event for assertions.
type Emitter struct {
	mu     sync.Mutex
	Events []event.Event
}

func New() *Emitter { return &Emitter{} }

func (e *Emitter) Emit(_ context.Context, ev event.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Events = append(e.Events, ev)
}

func (e *Emitter) Last() (event.Event, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if len(e.Events) == 0 {
		return event.Event{}, false
	}
	return e.Events[len(e.Events)-1], true
}

func (e *Emitter) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Events)
}
