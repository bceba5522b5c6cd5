package scenarios

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/Benjamin-Elon/trellis/core/metrics"
	"github.com/Benjamin-Elon/trellis/core/model"
	"github.com/Benjamin-Elon/trellis/core/planner"
	"github.com/Benjamin-Elon/trellis/infra/metrics"
)

// RunScenario plans the scenario's request against its inline catalog and
// checks the expected schedule shape. The resulting plan is also pushed
// through a Prometheus sink so recording stays covered.
func RunScenario(t *testing.T, sc *Scenario) {
	catalog, err := sc.Catalog()
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	plant, ok := catalog.Plant(sc.Request.Plant)
	if !ok {
		t.Fatalf("plant %q not in scenario catalog", sc.Request.Plant)
	}
	city, ok := catalog.City(sc.Request.City)
	if !ok {
		t.Fatalf("city %q not in scenario catalog", sc.Request.City)
	}
	var method model.SowMethod
	if sc.Request.Method != "" {
		method, err = model.ParseSowMethod(sc.Request.Method)
		if err != nil {
			t.Fatalf("method: %v", err)
		}
	}

	pl, err := planner.New(planner.Request{
		Plant:               plant,
		City:                city,
		Method:              method,
		Year:                sc.Request.Year,
		Start:               parseDate(t, sc.Request.Start),
		SeasonEnd:           parseDate(t, sc.Request.SeasonEnd),
		Succession:          sc.Succession,
		Policy:              sc.Policy,
		SeasonYieldTargetKg: sc.Request.YieldTargetKg,
	})
	if err != nil {
		t.Fatalf("planner: %v", err)
	}
	sched := pl.BuildSuccessionSchedule()

	reg := prometheus.NewRegistry()
	sink, err := metrics.NewPromSinkWithRegistry(coremetrics.Config{PrometheusEnabled: true}, reg)
	if err != nil {
		t.Fatalf("prom sink: %v", err)
	}
	if err := sink.RecordPlan(coremetrics.PlanEventFromSchedule(sched, time.Unix(0, 0).UTC())); err != nil {
		t.Fatalf("record plan: %v", err)
	}

	if got := len(sched.Rows); got != sc.Expected.Successions {
		t.Errorf("scenario %s: successions = %d, want %d", sc.Name, got, sc.Expected.Successions)
	}
	if sc.Expected.FirstSow != "" && !sched.Empty() {
		if want := parseDate(t, sc.Expected.FirstSow); !sched.Rows[0].SowDate.Equal(want) {
			t.Errorf("scenario %s: first sow = %s, want %s",
				sc.Name, sched.Rows[0].SowDate.Format("2006-01-02"), sc.Expected.FirstSow)
		}
	}
	if sc.Expected.LastHarvest != "" {
		if want := parseDate(t, sc.Expected.LastHarvest); !sched.LastHarvestEnd.Equal(want) {
			t.Errorf("scenario %s: last harvest = %s, want %s",
				sc.Name, sched.LastHarvestEnd.Format("2006-01-02"), sc.Expected.LastHarvest)
		}
	}
	if sc.Expected.PlantsTotal != 0 && sched.PlantsTotal != sc.Expected.PlantsTotal {
		t.Errorf("scenario %s: plants total = %d, want %d", sc.Name, sched.PlantsTotal, sc.Expected.PlantsTotal)
	}
}

func parseDate(t *testing.T, s string) time.Time {
	t.Helper()
	if s == "" {
		return time.Time{}
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		t.Fatalf("date %q: %v", s, err)
	}
	return d
}
