package metrics

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/Benjamin-Elon/trellis/core/metrics"
	"github.com/Benjamin-Elon/trellis/core/planner"
	"github.com/Benjamin-Elon/trellis/infra/logger"
)

// InfluxSink writes planning events to an InfluxDB instance using the
// official client.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a new sink configured for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback tries to ping the InfluxDB instance and
// returns a NopSink if the health check fails.
func NewInfluxSinkWithFallback(cfg coremetrics.Config) coremetrics.MetricsSink {
	sink := NewInfluxSink(cfg.InfluxURL, cfg.InfluxToken, cfg.InfluxOrg, cfg.InfluxBucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordPlan writes one point per succession row at its sow date, then a
// summary point for the schedule.
func (s *InfluxSink) RecordPlan(ev coremetrics.PlanEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, r := range ev.Rows {
		p := write.NewPointWithMeasurement("schedule_row").
			AddTag("plant", ev.Plant).
			AddTag("city", ev.City).
			AddTag("method", string(ev.Method)).
			AddTag("plan_id", ev.PlanID).
			AddTag("succession", strconv.Itoa(r.Index)).
			AddField("multiplier", round3(r.Multiplier)).
			AddField("plants", r.Plants).
			AddField("truncated", r.Truncated).
			AddField("harvest_start", dateStr(r.HarvestStart)).
			AddField("harvest_end", dateStr(r.HarvestEnd)).
			SetTime(r.SowDate)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	p := write.NewPointWithMeasurement("plan").
		AddTag("plant", ev.Plant).
		AddTag("city", ev.City).
		AddTag("method", string(ev.Method)).
		AddTag("plan_id", ev.PlanID).
		AddField("successions", ev.Successions).
		AddField("plants_total", ev.PlantsTotal).
		AddField("realized_kg", round3(ev.RealizedKg)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// RecordEvaluations writes one verdict point per evaluated day.
func (s *InfluxSink) RecordEvaluations(evs []coremetrics.EvaluationEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, ev := range evs {
		p := write.NewPointWithMeasurement("sow_evaluation").
			AddTag("plant", ev.Plant).
			AddTag("city", ev.City).
			AddTag("reason", string(ev.Reason)).
			AddField("ok", ev.Reason == planner.ReasonOK).
			SetTime(ev.Date)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordWindow persists a solved sowing window.
func (s *InfluxSink) RecordWindow(ev coremetrics.WindowEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("sow_window").
		AddTag("plant", ev.Plant).
		AddTag("city", ev.City).
		AddField("feasible", ev.Feasible).
		AddField("earliest_sow", dateStr(ev.EarliestSow)).
		AddField("latest_sow", dateStr(ev.LatestSow)).
		AddField("last_harvest", dateStr(ev.LastHarvest)).
		AddField("climate_end", dateStr(ev.ClimateEnd)).
		SetTime(ev.Time)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *InfluxSink) Close() {
	s.client.Close()
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}

func dateStr(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
