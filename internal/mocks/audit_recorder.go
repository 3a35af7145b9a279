package mocks

import (
	"context"
	"sync"

	"github.com/taskly/tasks-api/internal/audit"
)

// MockAuditRecorder implements audit.Recorder by keeping every event.
type MockAuditRecorder struct {
	mu     sync.Mutex
	events []audit.Event
}

// Record implements audit.Recorder
func (m *MockAuditRecorder) Record(_ context.Context, event audit.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
}

// Events returns a copy of the recorded events in order.
func (m *MockAuditRecorder) Events() []audit.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]audit.Event(nil), m.events...)
}
