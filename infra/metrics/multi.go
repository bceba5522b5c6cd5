package metrics

import coremetrics "github.com/Benjamin-Elon/trellis/core/metrics"

// MultiSink fans planning events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordPlan forwards the plan to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordPlan(ev coremetrics.PlanEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordPlan(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordEvaluations forwards verdicts to sinks that keep them.
func (m *MultiSink) RecordEvaluations(evs []coremetrics.EvaluationEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.EvaluationRecorder); ok {
			if err := rec.RecordEvaluations(evs); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordWindow forwards window solutions to sinks that keep them.
func (m *MultiSink) RecordWindow(ev coremetrics.WindowEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.WindowRecorder); ok {
			if err := rec.RecordWindow(ev); err != nil {
				return err
			}
		}
	}
	return nil
}
