package mqtt

import (
	"context"
	"fmt"
	"sync"

	coremqtt "github.com/Benjamin-Elon/trellis/core/mqtt"
	"github.com/Benjamin-Elon/trellis/core/planner"
)

// Publisher mirrors the core mqtt.Publisher interface.
type Publisher = coremqtt.Publisher

// MockPublisher is a simple publisher used in tests.
type MockPublisher struct {
	Schedules  map[string]planner.Schedule
	FailPlants map[string]bool
	Closed     bool
	mu         sync.Mutex
}

// NewMockPublisher creates a new MockPublisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{
		Schedules:  make(map[string]planner.Schedule),
		FailPlants: make(map[string]bool),
	}
}

// PublishSchedule records the schedule or returns an error if configured to
// fail for the plant.
func (m *MockPublisher) PublishSchedule(_ context.Context, s planner.Schedule) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailPlants[s.Plant] {
		return fmt.Errorf("publish failed")
	}
	m.Schedules[s.Plant] = s
	return nil
}

// Close marks the publisher closed.
func (m *MockPublisher) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Closed = true
	return nil
}
