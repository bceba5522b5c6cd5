package mqtt

import (
	"context"

	"github.com/Benjamin-Elon/trellis/core/planner"
)

// Publisher pushes computed schedules to downstream MQTT consumers such as
// irrigation controllers and dashboard widgets.
type Publisher interface {
	// PublishSchedule sends the schedule to the plant's topic, replacing
	// any previously retained schedule for that plant.
	PublishSchedule(ctx context.Context, s planner.Schedule) error

	// Close releases the underlying connection.
	Close() error
}

// NopPublisher discards schedules. It stands in when MQTT is disabled.
type NopPublisher struct{}

func (NopPublisher) PublishSchedule(context.Context, planner.Schedule) error { return nil }
func (NopPublisher) Close() error                                            { return nil }
