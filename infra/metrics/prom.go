package metrics

import (
	"strconv"

	coremetrics "github.com/Benjamin-Elon/trellis/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// PromSink records planning events in Prometheus metrics.
type PromSink struct {
	plans       *prometheus.CounterVec
	evaluations *prometheus.CounterVec
	windows     *prometheus.CounterVec
	plants      *prometheus.GaugeVec
	realized    *prometheus.GaugeVec
}

// NewPromSink registers planning metrics on the default Prometheus
// registerer. The /metrics endpoint is served separately by the HTTP API.
func NewPromSink(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	return NewPromSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer.
func NewPromSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	plans := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "plans_built_total",
		Help: "Total number of planting schedules built",
	}, []string{"plant", "city", "method"})
	evaluations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sow_evaluations_total",
		Help: "Sow date feasibility verdicts by reason",
	}, []string{"plant", "city", "reason"})
	windows := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sow_windows_solved_total",
		Help: "Auto window solves by outcome",
	}, []string{"plant", "city", "feasible"})
	plants := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "plan_plants_allocated",
		Help: "Plants allocated by the latest schedule",
	}, []string{"plant", "city"})
	realized := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "plan_realized_yield_kg",
		Help: "Yield realized by the latest schedule in kilograms",
	}, []string{"plant", "city"})

	if err := reg.Register(plans); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			plans = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(evaluations); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			evaluations = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(windows); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			windows = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(plants); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			plants = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(realized); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			realized = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}

	return &PromSink{
		plans:       plans,
		evaluations: evaluations,
		windows:     windows,
		plants:      plants,
		realized:    realized,
	}, nil
}

// RecordPlan counts the plan and snapshots its allocation gauges.
func (s *PromSink) RecordPlan(ev coremetrics.PlanEvent) error {
	s.plans.WithLabelValues(ev.Plant, ev.City, string(ev.Method)).Inc()
	s.plants.WithLabelValues(ev.Plant, ev.City).Set(float64(ev.PlantsTotal))
	s.realized.WithLabelValues(ev.Plant, ev.City).Set(ev.RealizedKg)
	return nil
}

// RecordEvaluations increments the verdict counter for each evaluated day.
func (s *PromSink) RecordEvaluations(evs []coremetrics.EvaluationEvent) error {
	for _, ev := range evs {
		s.evaluations.WithLabelValues(ev.Plant, ev.City, string(ev.Reason)).Inc()
	}
	return nil
}

// RecordWindow counts a solved window by feasibility outcome.
func (s *PromSink) RecordWindow(ev coremetrics.WindowEvent) error {
	s.windows.WithLabelValues(ev.Plant, ev.City, strconv.FormatBool(ev.Feasible)).Inc()
	return nil
}
