// Package hooks is a small synchronous event bus for account and list
// lifecycle events. Extensions (audit logging, analytics) subscribe to
// events instead of being called from the services directly.
package hooks

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Lifecycle events emitted by the services.
const (
	EventUserCreated     = "user.created"
	EventUserLogin       = "user.login"
	EventUserLoginFailed = "user.login_failed"
	EventListCreated = "list.created"
	EventListUpdated = "list.updated"
	EventListDeleted = "list.deleted"
	EventListViewed  = "list.viewed"
)

// Event carries what happened and to whom. Data values are already
// de-identified where needed (hashed IPs only, never raw).
type Event struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Timestamp time.Time      `json:"timestamp"`
	Data      map[string]any `json:"data,omitempty"`
}

// Handler processes one event. Handlers run synchronously in registration
// order; a panicking handler is isolated and must never block the others
// or the operation that emitted the event.
type Handler func(Event)

type Registry struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewRegistry creates an empty hook registry
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string][]Handler),
	}
}

// Register adds a handler for an event name
func (r *Registry) Register(event string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[event] = append(r.handlers[event], h)
}

// Emit delivers an event to every registered handler, in registration
// order. Emit never fails: handler panics are recovered and logged so the
// primary operation is unaffected.
func (r *Registry) Emit(name string, data map[string]any) {
	r.mu.RLock()
	hs := r.handlers[name]
	r.mu.RUnlock()

	if len(hs) == 0 {
		return
	}

	event := Event{
		ID:        uuid.NewString(),
		Name:      name,
		Timestamp: time.Now(),
		Data:      data,
	}

	for _, h := range hs {
		func() {
			defer func() {
				if rec := recover(); rec != nil {
					slog.Error("hook handler panicked",
						"event", name,
						"event_id", event.ID,
						"panic", rec)
				}
			}()
			h(event)
		}()
	}
}
