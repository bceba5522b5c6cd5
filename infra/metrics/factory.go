package metrics

import (
	coremetrics "github.com/Benjamin-Elon/trellis/core/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// NewSink assembles the metrics sink selected by cfg. Disabled backends are
// skipped; with none enabled the returned sink is a NopSink, so callers
// never branch on configuration.
func NewSink(cfg coremetrics.Config) (coremetrics.MetricsSink, error) {
	return NewSinkWithRegistry(cfg, prometheus.DefaultRegisterer)
}

// NewSinkWithRegistry is NewSink with an explicit Prometheus registerer,
// which keeps tests away from the global registry.
func NewSinkWithRegistry(cfg coremetrics.Config, reg prometheus.Registerer) (coremetrics.MetricsSink, error) {
	var sinks []coremetrics.MetricsSink
	if cfg.PrometheusEnabled {
		sink, err := NewPromSinkWithRegistry(cfg, reg)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, sink)
	}
	if cfg.InfluxEnabled {
		sinks = append(sinks, NewInfluxSinkWithFallback(cfg))
	}
	switch len(sinks) {
	case 0:
		return coremetrics.NopSink{}, nil
	case 1:
		return sinks[0], nil
	default:
		return NewMultiSink(sinks...), nil
	}
}
