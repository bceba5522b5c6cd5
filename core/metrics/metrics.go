package metrics

import (
	"time"

	"github.com/Benjamin-Elon/trellis/core/model"
	"github.com/Benjamin-Elon/trellis/core/planner"
)

// RowPoint is one succession of a recorded plan.
type RowPoint struct {
	Index        int
	SowDate      time.Time
	HarvestStart time.Time
	HarvestEnd   time.Time
	Truncated    bool
	Multiplier   float64
	Plants       int
}

// PlanEvent captures one computed schedule.
type PlanEvent struct {
	PlanID      string
	Plant       string
	City        string
	Method      model.SowMethod
	Year        int
	Successions int
	PlantsTotal int
	RealizedKg  float64
	Rows        []RowPoint
	Time        time.Time
}

// PlanEventFromSchedule flattens a schedule into its metrics event.
func PlanEventFromSchedule(s planner.Schedule, at time.Time) PlanEvent {
	ev := PlanEvent{
		PlanID:      s.PlanID,
		Plant:       s.Plant,
		City:        s.City,
		Method:      s.Method,
		Year:        s.Year,
		Successions: len(s.Rows),
		PlantsTotal: s.PlantsTotal,
		RealizedKg:  s.RealizedKg,
		Time:        at,
	}
	for _, row := range s.Rows {
		ev.Rows = append(ev.Rows, RowPoint{
			Index:        row.Index,
			SowDate:      row.SowDate,
			HarvestStart: row.HarvestStart,
			HarvestEnd:   row.HarvestEnd,
			Truncated:    row.Truncated,
			Multiplier:   row.YieldMultiplier,
			Plants:       row.PlantsRequired,
		})
	}
	return ev
}

// MetricsSink records computed plans for observability purposes.
type MetricsSink interface {
	RecordPlan(ev PlanEvent) error
}

// EvaluationEvent is one sow-date verdict from a season explanation.
type EvaluationEvent struct {
	Plant  string
	City   string
	Reason planner.Reason
	Date   time.Time
}

// EvaluationRecorder records per-day feasibility verdicts.
type EvaluationRecorder interface {
	RecordEvaluations(evs []EvaluationEvent) error
}

// WindowEvent captures a solved sowing window.
type WindowEvent struct {
	Plant       string
	City        string
	EarliestSow time.Time
	LatestSow   time.Time
	LastHarvest time.Time
	ClimateEnd  time.Time
	Feasible    bool
	Time        time.Time
}

// WindowRecorder records auto-window solutions.
type WindowRecorder interface {
	RecordWindow(ev WindowEvent) error
}

// NopSink implements MetricsSink and the optional recorders with no-op
// methods.
type NopSink struct{}

func (NopSink) RecordPlan(PlanEvent) error                { return nil }
func (NopSink) RecordEvaluations([]EvaluationEvent) error { return nil }
func (NopSink) RecordWindow(WindowEvent) error            { return nil }
