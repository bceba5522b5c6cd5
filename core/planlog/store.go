// Package planlog persists computed schedules for later review. Two
// backends implement the store: a JSONL file and a SQLite database.
package planlog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Benjamin-Elon/trellis/core/model"
	"github.com/Benjamin-Elon/trellis/core/planner"
)

// LogRecord captures one computed plan.
type LogRecord struct {
	Timestamp   time.Time        `json:"timestamp"`
	PlanID      string           `json:"plan_id"`
	Plant       string           `json:"plant"`
	City        string           `json:"city"`
	Method      model.SowMethod  `json:"method"`
	Year        int              `json:"year"`
	Successions int              `json:"successions"`
	PlantsTotal int              `json:"plants_total"`
	RealizedKg  float64          `json:"realized_kg"`
	Schedule    planner.Schedule `json:"schedule"`
}

// NewRecord builds the history record for a schedule.
func NewRecord(s planner.Schedule, at time.Time) LogRecord {
	return LogRecord{
		Timestamp:   at,
		PlanID:      s.PlanID,
		Plant:       s.Plant,
		City:        s.City,
		Method:      s.Method,
		Year:        s.Year,
		Successions: len(s.Rows),
		PlantsTotal: s.PlantsTotal,
		RealizedKg:  s.RealizedKg,
		Schedule:    s,
	}
}

// LogQuery defines filters for retrieving records. Zero-value fields do not
// filter; name matching ignores case.
type LogQuery struct {
	Start time.Time
	End   time.Time
	Plant string
	City  string
	Year  int
}

func (q LogQuery) matches(r LogRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Plant != "" && !strings.EqualFold(q.Plant, r.Plant) {
		return false
	}
	if q.City != "" && !strings.EqualFold(q.City, r.City) {
		return false
	}
	if q.Year != 0 && r.Year != q.Year {
		return false
	}
	return true
}

// LogStore persists LogRecords and supports querying.
type LogStore interface {
	Append(ctx context.Context, rec LogRecord) error
	Query(ctx context.Context, q LogQuery) ([]LogRecord, error)
	Close() error
}

// Config selects the history backend.
type Config struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	Backend string `json:"backend" yaml:"backend"`
	Path    string `json:"path" yaml:"path"`
}

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" {
		c.Path = "trellis-history." + extensions[c.Backend]
	}
}

var extensions = map[string]string{"jsonl": "jsonl", "sqlite": "db"}

// Validate checks the backend name.
func (c Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	switch c.Backend {
	case "jsonl", "sqlite":
		return nil
	default:
		return fmt.Errorf("history: unknown backend %q", c.Backend)
	}
}

// Open builds the configured store. A disabled config yields NopStore.
func Open(cfg Config) (LogStore, error) {
	if !cfg.Enabled {
		return NopStore{}, nil
	}
	switch cfg.Backend {
	case "sqlite":
		return NewSQLiteStore(cfg.Path)
	case "jsonl":
		return NewJSONLStore(cfg.Path)
	default:
		return nil, fmt.Errorf("history: unknown backend %q", cfg.Backend)
	}
}

// NopStore drops appends and returns no records.
type NopStore struct{}

func (NopStore) Append(context.Context, LogRecord) error              { return nil }
func (NopStore) Query(context.Context, LogQuery) ([]LogRecord, error) { return nil, nil }
func (NopStore) Close() error                                         { return nil }
