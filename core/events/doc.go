// Package events defines the planning events emitted on the event bus.
//
// Available event types:
//   - PlanComputed: a succession schedule was built
//   - WindowSolved: an auto-window scan finished
//   - SeasonExplained: a day-by-day season explanation was produced
package events
