// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Lumen Labs

package optoma

import (
	"sync"

	"github.com/rs/zerolog"
)

// Handler is invoked when the projector emits the event it was subscribed
// to. Handlers run on the reader goroutine: a slow handler stalls all frame
// processing until it returns, so keep handlers fast or have them hand off
// to their own goroutine.
type Handler func()

// eventRegistry maps event identifiers to their subscribed handlers.
// Handlers run in subscription order and are never removed; the registry
// lives as long as the Projector that owns it.
type eventRegistry struct {
	mu       sync.Mutex
	handlers map[string][]Handler
}

func newEventRegistry() *eventRegistry {
	return &eventRegistry{handlers: make(map[string][]Handler)}
}

func (r *eventRegistry) subscribe(event string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[event] = append(r.handlers[event], h)
}

// dispatch invokes every handler registered for the event, in subscription
// order. A panicking handler is logged and skipped so the reader loop
// survives; the remaining handlers still run.
func (r *eventRegistry) dispatch(event string, log zerolog.Logger) {
	r.mu.Lock()
	handlers := append([]Handler(nil), r.handlers[event]...)
	r.mu.Unlock()

	for i, h := range handlers {
		invoke(event, i, h, log)
	}
}

func invoke(event string, index int, h Handler, log zerolog.Logger) {
	defer func() {
		if v := recover(); v != nil {
			log.Error().
				Str("event", event).
				Int("handler", index).
				Interface("panic", v).
				Msg("event handler panicked")
		}
	}()
	h()
}
