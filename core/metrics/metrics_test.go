package metrics

import (
	"testing"
	"time"

	"github.com/Benjamin-Elon/trellis/core/calendar"
	"github.com/Benjamin-Elon/trellis/core/model"
	"github.com/Benjamin-Elon/trellis/core/planner"
)

func TestNopSinkImplementsRecorders(t *testing.T) {
	var sink MetricsSink = NopSink{}
	if err := sink.RecordPlan(PlanEvent{}); err != nil {
		t.Fatalf("RecordPlan: %v", err)
	}
	if _, ok := sink.(EvaluationRecorder); !ok {
		t.Fatalf("NopSink should record evaluations")
	}
	if _, ok := sink.(WindowRecorder); !ok {
		t.Fatalf("NopSink should record windows")
	}
}

func TestPlanEventFromSchedule(t *testing.T) {
	sow := calendar.Date(2024, time.March, 1)
	sched := planner.Schedule{
		PlanID: "p-1",
		Plant:  "lettuce",
		City:   "lyon",
		Method: model.SowDirect,
		Year:   2024,
		Rows: []planner.ScheduleRow{
			{
				Index:           1,
				SowDate:         sow,
				HarvestStart:    calendar.Date(2024, time.April, 19),
				HarvestEnd:      calendar.Date(2024, time.May, 3),
				YieldMultiplier: 1,
				PlantsRequired:  40,
			},
		},
		PlantsTotal: 40,
		RealizedKg:  20,
	}
	at := time.Date(2024, time.February, 1, 12, 0, 0, 0, time.UTC)

	ev := PlanEventFromSchedule(sched, at)
	if ev.PlanID != "p-1" || ev.Plant != "lettuce" || ev.City != "lyon" {
		t.Fatalf("identity fields: %+v", ev)
	}
	if ev.Successions != 1 || ev.PlantsTotal != 40 || ev.RealizedKg != 20 {
		t.Fatalf("aggregates: %+v", ev)
	}
	if len(ev.Rows) != 1 || !ev.Rows[0].SowDate.Equal(sow) || ev.Rows[0].Plants != 40 {
		t.Fatalf("rows: %+v", ev.Rows)
	}
	if !ev.Time.Equal(at) {
		t.Fatalf("time = %v, want %v", ev.Time, at)
	}
}
