package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/Benjamin-Elon/trellis/core/metrics"
	"github.com/Benjamin-Elon/trellis/core/model"
	"github.com/Benjamin-Elon/trellis/core/planner"
)

func captureServer(t *testing.T, bodies *[]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		*bodies = append(*bodies, strings.TrimSpace(string(data)))
		w.WriteHeader(http.StatusNoContent)
	}))
}

func TestInfluxSink_RecordPlan(t *testing.T) {
	var bodies []string
	srv := captureServer(t, &bodies)
	defer srv.Close()

	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	sow := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	now := time.Now()
	ev := coremetrics.PlanEvent{
		PlanID:      "p1",
		Plant:       "lettuce",
		City:        "montreal",
		Method:      model.SowDirect,
		Year:        2024,
		Successions: 1,
		PlantsTotal: 100,
		RealizedKg:  50.1234,
		Rows: []coremetrics.RowPoint{{
			Index:        1,
			SowDate:      sow,
			HarvestStart: sow.AddDate(0, 0, 49),
			HarvestEnd:   sow.AddDate(0, 0, 63),
			Multiplier:   0.87654,
			Plants:       100,
		}},
		Time: now,
	}
	if err := sink.RecordPlan(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}

	row := write.NewPointWithMeasurement("schedule_row").
		AddTag("plant", "lettuce").
		AddTag("city", "montreal").
		AddTag("method", "direct_sow").
		AddTag("plan_id", "p1").
		AddTag("succession", "1").
		AddField("multiplier", 0.877).
		AddField("plants", 100).
		AddField("truncated", false).
		AddField("harvest_start", "2024-04-19").
		AddField("harvest_end", "2024-05-03").
		SetTime(sow)
	plan := write.NewPointWithMeasurement("plan").
		AddTag("plant", "lettuce").
		AddTag("city", "montreal").
		AddTag("method", "direct_sow").
		AddTag("plan_id", "p1").
		AddField("successions", 1).
		AddField("plants_total", 100).
		AddField("realized_kg", 50.123).
		SetTime(now)
	exp1 := strings.TrimSpace(write.PointToLineProtocol(row, time.Nanosecond))
	exp2 := strings.TrimSpace(write.PointToLineProtocol(plan, time.Nanosecond))
	if len(bodies) != 2 || bodies[0] != exp1 || bodies[1] != exp2 {
		t.Errorf("unexpected bodies: %#v", bodies)
	}
}

func TestInfluxSink_RecordEvaluations(t *testing.T) {
	var bodies []string
	srv := captureServer(t, &bodies)
	defer srv.Close()

	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	day := time.Date(2024, time.April, 9, 0, 0, 0, 0, time.UTC)
	evs := []coremetrics.EvaluationEvent{
		{Plant: "lettuce", City: "montreal", Reason: planner.ReasonOK, Date: day},
		{Plant: "lettuce", City: "montreal", Reason: planner.ReasonSpringFrost, Date: day.AddDate(0, 0, -1)},
	}
	if err := sink.RecordEvaluations(evs); err != nil {
		t.Fatalf("record error: %v", err)
	}

	p1 := write.NewPointWithMeasurement("sow_evaluation").
		AddTag("plant", "lettuce").
		AddTag("city", "montreal").
		AddTag("reason", "ok").
		AddField("ok", true).
		SetTime(day)
	p2 := write.NewPointWithMeasurement("sow_evaluation").
		AddTag("plant", "lettuce").
		AddTag("city", "montreal").
		AddTag("reason", "spring_frost_gate").
		AddField("ok", false).
		SetTime(day.AddDate(0, 0, -1))
	exp1 := strings.TrimSpace(write.PointToLineProtocol(p1, time.Nanosecond))
	exp2 := strings.TrimSpace(write.PointToLineProtocol(p2, time.Nanosecond))
	if len(bodies) != 2 || bodies[0] != exp1 || bodies[1] != exp2 {
		t.Errorf("unexpected bodies: %#v", bodies)
	}
}

func TestInfluxSink_RecordWindow(t *testing.T) {
	var bodies []string
	srv := captureServer(t, &bodies)
	defer srv.Close()

	sink := NewInfluxSink(srv.URL, "token", "org", "bucket")
	now := time.Now()
	ev := coremetrics.WindowEvent{
		Plant:       "lettuce",
		City:        "montreal",
		EarliestSow: time.Date(2024, time.April, 9, 0, 0, 0, 0, time.UTC),
		LatestSow:   time.Date(2024, time.October, 29, 0, 0, 0, 0, time.UTC),
		LastHarvest: time.Date(2024, time.June, 11, 0, 0, 0, 0, time.UTC),
		ClimateEnd:  time.Date(2024, time.December, 31, 0, 0, 0, 0, time.UTC),
		Feasible:    true,
		Time:        now,
	}
	if err := sink.RecordWindow(ev); err != nil {
		t.Fatalf("record error: %v", err)
	}

	p := write.NewPointWithMeasurement("sow_window").
		AddTag("plant", "lettuce").
		AddTag("city", "montreal").
		AddField("feasible", true).
		AddField("earliest_sow", "2024-04-09").
		AddField("latest_sow", "2024-10-29").
		AddField("last_harvest", "2024-06-11").
		AddField("climate_end", "2024-12-31").
		SetTime(now)
	exp := strings.TrimSpace(write.PointToLineProtocol(p, time.Nanosecond))
	if len(bodies) != 1 || bodies[0] != exp {
		t.Errorf("unexpected bodies: %#v", bodies)
	}
}

func TestNewInfluxSinkWithFallback(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			called = true
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
	}))
	defer srv.Close()

	cfg := coremetrics.Config{
		InfluxURL:    srv.URL + "/api/v2/write",
		InfluxToken:  "tok",
		InfluxOrg:    "org",
		InfluxBucket: "bucket",
	}
	sink := NewInfluxSinkWithFallback(cfg)
	if _, ok := sink.(*InfluxSink); ok {
		t.Fatalf("expected NopSink on failing health check")
	}
	if !called {
		t.Fatalf("health endpoint not called")
	}
}
