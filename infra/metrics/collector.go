package metrics

import (
	"context"

	"github.com/Benjamin-Elon/trellis/core/events"
	coremetrics "github.com/Benjamin-Elon/trellis/core/metrics"
	"github.com/Benjamin-Elon/trellis/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for
// planning events. It stops when the context is canceled.
func StartEventCollector(ctx context.Context, bus *eventbus.Bus, sink coremetrics.MetricsSink) {
	if bus == nil || sink == nil {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer sub.Cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub.C:
				if !ok {
					return
				}
				switch e := ev.(type) {
				case events.PlanComputed:
					_ = sink.RecordPlan(coremetrics.PlanEventFromSchedule(e.Schedule, e.At))
				case events.WindowSolved:
					if r, ok := sink.(coremetrics.WindowRecorder); ok {
						_ = r.RecordWindow(coremetrics.WindowEvent{
							Plant:       e.Plant,
							City:        e.City,
							EarliestSow: e.Window.EarliestSow,
							LatestSow:   e.Window.LatestSow,
							LastHarvest: e.Window.LastHarvest,
							ClimateEnd:  e.Window.ClimateEnd,
							Feasible:    !e.Window.EarliestSow.IsZero(),
							Time:        e.At,
						})
					}
				case events.SeasonExplained:
					if r, ok := sink.(coremetrics.EvaluationRecorder); ok {
						evs := make([]coremetrics.EvaluationEvent, 0, len(e.Entries))
						for _, d := range e.Entries {
							evs = append(evs, coremetrics.EvaluationEvent{
								Plant:  e.Plant,
								City:   e.City,
								Reason: d.Reason,
								Date:   d.Date,
							})
						}
						_ = r.RecordEvaluations(evs)
					}
				}
			}
		}
	}()
}
