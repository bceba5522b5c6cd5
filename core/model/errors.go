package model

import "fmt"

// ConfigError reports an unusable plant profile or planner configuration.
// It is fatal: operations return it before any scan starts, so a caller can
// distinguish bad input from an infeasible season.
type ConfigError struct {
	Field  string
	Reason string
}

func (e ConfigError) Error() string {
	return fmt.Sprintf("config %s: %s", e.Field, e.Reason)
}
