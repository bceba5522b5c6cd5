package metrics

// Package metrics defines the interfaces and events for recording planning
// activity. Sinks like PromSink and InfluxSink record computed plans,
// per-day feasibility verdicts and solved windows, and can be combined with
// NewMultiSink. The kernel never records anything itself; the app layer
// translates results into events and feeds whichever sinks are configured.
