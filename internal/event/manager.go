package event

import (
	"sync"

	"github.com/bethropolis/composer/internal/logger"
)

// Handler is an event subscriber. Returning true consumes the event and
// later handlers do not see it.
type Handler func(e Event) bool

// Manager handles event subscriptions and dispatching.
type Manager struct {
	mu       sync.RWMutex
	handlers map[Type][]Handler
}

// NewManager creates a new event manager.
func NewManager() *Manager {
	return &Manager{
		handlers: make(map[Type][]Handler),
	}
}

// Subscribe adds a handler function for a specific event type.
func (m *Manager) Subscribe(eventType Type, handler Handler) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.handlers[eventType] = append(m.handlers[eventType], handler)
	logger.DebugTagf("event", "Event Manager: handler subscribed to %v", eventType)
}

// Dispatch runs the handlers registered for eventType synchronously, in
// subscription order, until one consumes the event. Handlers may subscribe
// further handlers; those only see later events. It reports whether the
// event was consumed.
func (m *Manager) Dispatch(eventType Type, data interface{}) bool {
	m.mu.RLock()
	handlers := make([]Handler, len(m.handlers[eventType]))
	copy(handlers, m.handlers[eventType])
	m.mu.RUnlock()

	if len(handlers) == 0 {
		return false
	}

	logger.DebugTagf("event", "Event Manager: dispatching %v to %d handler(s)", eventType, len(handlers))
	e := Event{Type: eventType, Data: data}
	for i, handler := range handlers {
		if handler(e) {
			logger.DebugTagf("event", "Event Manager: %v consumed by handler %d", eventType, i)
			return true
		}
	}
	return false
}
