package events

import (
	"time"

	"github.com/Benjamin-Elon/trellis/core/planner"
)

// WindowSolved is published after an auto-window scan.
type WindowSolved struct {
	Plant  string
	City   string
	Window planner.AutoWindow
	At     time.Time
}

// SeasonExplained is published after a day-by-day season explanation.
type SeasonExplained struct {
	Plant   string
	City    string
	Entries []planner.DayEntry
	At      time.Time
}
