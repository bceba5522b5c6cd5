package events

import (
	"time"

	"github.com/Benjamin-Elon/trellis/core/planner"
)

// PlanComputed is published after a succession schedule is built.
type PlanComputed struct {
	Schedule planner.Schedule
	At       time.Time
}
