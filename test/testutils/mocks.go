// Package testutils provides mock implementations for testing
package testutils

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/multivarka/kitchen/internal/domain/shared"
)

// MockEventPublisher records published events and supports expectations
type MockEventPublisher struct {
	mock.Mock

	mu     sync.Mutex
	events []shared.DomainEvent
}

// NewMockEventPublisher creates a publisher that accepts every call
func NewMockEventPublisher() *MockEventPublisher {
	m := &MockEventPublisher{}
	m.On("Publish", mock.Anything, mock.Anything).Return()
	return m
}

// Publish records the events
func (m *MockEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) {
	m.Called(ctx, events)

	m.mu.Lock()
	m.events = append(m.events, events...)
	m.mu.Unlock()
}

// Events returns the recorded events in publish order
func (m *MockEventPublisher) Events() []shared.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]shared.DomainEvent, len(m.events))
	copy(out, m.events)
	return out
}

// Names returns the recorded event names in publish order
func (m *MockEventPublisher) Names() []string {
	events := m.Events()
	names := make([]string, len(events))
	for i, e := range events {
		names[i] = e.EventName()
	}
	return names
}

// Reset forgets recorded events
func (m *MockEventPublisher) Reset() {
	m.mu.Lock()
	m.events = nil
	m.mu.Unlock()
}
