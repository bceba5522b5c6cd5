package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	coremetrics "github.com/Benjamin-Elon/trellis/core/metrics"
	"github.com/Benjamin-Elon/trellis/core/model"
	"github.com/Benjamin-Elon/trellis/core/planner"
)

func TestPromSink_RecordPlan(t *testing.T) {
	reg := prometheus.NewRegistry()
	sinkIf, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	sink, ok := sinkIf.(*PromSink)
	if !ok {
		t.Fatalf("expected PromSink")
	}
	ev := coremetrics.PlanEvent{
		PlanID:      "p1",
		Plant:       "lettuce",
		City:        "montreal",
		Method:      model.SowDirect,
		Year:        2024,
		Successions: 3,
		PlantsTotal: 120,
		RealizedKg:  60,
		Time:        time.Now(),
	}
	if err := sink.RecordPlan(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}

	expected := `
# HELP plans_built_total Total number of planting schedules built
# TYPE plans_built_total counter
plans_built_total{city="montreal",method="direct_sow",plant="lettuce"} 1
`
	if err := testutil.CollectAndCompare(sink.plans, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
	if got := testutil.ToFloat64(sink.plants.WithLabelValues("lettuce", "montreal")); got != 120 {
		t.Errorf("plants gauge = %v, want 120", got)
	}
	if got := testutil.ToFloat64(sink.realized.WithLabelValues("lettuce", "montreal")); got != 60 {
		t.Errorf("realized gauge = %v, want 60", got)
	}
}

func TestPromSink_RecordEvaluations(t *testing.T) {
	reg := prometheus.NewRegistry()
	sinkIf, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	sink := sinkIf.(*PromSink)
	day := time.Date(2024, time.April, 9, 0, 0, 0, 0, time.UTC)
	evs := []coremetrics.EvaluationEvent{
		{Plant: "lettuce", City: "montreal", Reason: planner.ReasonOK, Date: day},
		{Plant: "lettuce", City: "montreal", Reason: planner.ReasonSpringFrost, Date: day.AddDate(0, 0, -1)},
		{Plant: "lettuce", City: "montreal", Reason: planner.ReasonSpringFrost, Date: day.AddDate(0, 0, -2)},
	}
	if err := sink.RecordEvaluations(evs); err != nil {
		t.Fatalf("record error: %v", err)
	}

	expected := `
# HELP sow_evaluations_total Sow date feasibility verdicts by reason
# TYPE sow_evaluations_total counter
sow_evaluations_total{city="montreal",plant="lettuce",reason="ok"} 1
sow_evaluations_total{city="montreal",plant="lettuce",reason="spring_frost_gate"} 2
`
	if err := testutil.CollectAndCompare(sink.evaluations, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
}

func TestPromSink_RecordWindow(t *testing.T) {
	reg := prometheus.NewRegistry()
	sinkIf, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	sink := sinkIf.(*PromSink)
	if err := sink.RecordWindow(coremetrics.WindowEvent{
		Plant:    "lettuce",
		City:     "montreal",
		Feasible: true,
		Time:     time.Now(),
	}); err != nil {
		t.Fatalf("record error: %v", err)
	}
	if got := testutil.ToFloat64(sink.windows.WithLabelValues("lettuce", "montreal", "true")); got != 1 {
		t.Errorf("windows counter = %v, want 1", got)
	}
}

func TestNewPromSinkWithRegistry_Reregister(t *testing.T) {
	reg := prometheus.NewRegistry()
	firstIf, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("first registration: %v", err)
	}
	secondIf, err := NewPromSinkWithRegistry(coremetrics.Config{}, reg)
	if err != nil {
		t.Fatalf("second registration: %v", err)
	}
	// Both sinks must share the collectors already registered.
	second := secondIf.(*PromSink)
	if err := second.RecordPlan(coremetrics.PlanEvent{Plant: "kale", City: "oslo", Method: model.SowDirect}); err != nil {
		t.Fatalf("record error: %v", err)
	}
	first := firstIf.(*PromSink)
	if got := testutil.ToFloat64(first.plans.WithLabelValues("kale", "oslo", "direct_sow")); got != 1 {
		t.Errorf("shared counter = %v, want 1", got)
	}
}
