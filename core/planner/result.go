package planner

import (
	"time"

	"github.com/Benjamin-Elon/trellis/core/model"
)

// Reason identifies why a candidate sow date was accepted or rejected. The
// values are stable strings: they appear in explain output, metrics labels
// and the HTTP API.
type Reason string

const (
	ReasonOK              Reason = "ok"
	ReasonOutsideScan     Reason = "outside_scan_window"
	ReasonSpringFrost     Reason = "spring_frost_gate"
	ReasonCoolingGate     Reason = "cooling_gate"
	ReasonSoilGate        Reason = "soil_gate"
	ReasonInsufficientGDD Reason = "insufficient_gdd"
	ReasonCrossYear       Reason = "cross_year_disallowed"
	ReasonBeyondHardEnd   Reason = "beyond_hard_end"
	ReasonTooCold         Reason = "harvest_too_cold"
	ReasonTooHot          Reason = "harvest_too_hot"
)

// Result is the verdict for one candidate sow date. On thermal rejections
// (harvest_too_cold, harvest_too_hot) the harvest fields stay populated so
// callers can see the span that was judged.
type Result struct {
	OK           bool      `json:"ok"`
	Reason       Reason    `json:"reason"`
	Maturity     time.Time `json:"maturity"`
	HarvestStart time.Time `json:"harvest_start"`
	HarvestEnd   time.Time `json:"harvest_end"`
	// Truncated is set when the season or scan boundary cut the harvest
	// window short.
	Truncated bool    `json:"truncated"`
	MeanTempC float64 `json:"mean_temp_c"`
}

func reject(r Reason) Result {
	return Result{Reason: r}
}

// ScheduleRow is one succession in a planting schedule. GerminationDate and
// TransplantDate are nil when the profile gives no figure for them.
type ScheduleRow struct {
	Index           int        `json:"succession_index"`
	SowDate         time.Time  `json:"sow_date"`
	GerminationDate *time.Time `json:"germination_date,omitempty"`
	TransplantDate  *time.Time `json:"transplant_date,omitempty"`
	HarvestStart    time.Time  `json:"harvest_start"`
	HarvestEnd      time.Time  `json:"harvest_end"`
	Truncated       bool       `json:"truncated"`
	YieldMultiplier float64    `json:"yield_multiplier"`
	PlantsRequired  int        `json:"plants_required"`
}

// Schedule is the ordered succession plan for one plant, city and sowing
// method. An empty Rows slice means the season admits no feasible planting.
type Schedule struct {
	PlanID string          `json:"plan_id"`
	Plant  string          `json:"plant"`
	City   string          `json:"city"`
	Method model.SowMethod `json:"method"`
	Year   int             `json:"year"`
	Rows   []ScheduleRow   `json:"rows"`
	// LastHarvestEnd is the latest harvest end across rows; zero when the
	// schedule is empty.
	LastHarvestEnd time.Time `json:"last_harvest_end"`
	// PlantsTotal and RealizedKg are filled when a season yield target
	// drove plant-count allocation.
	PlantsTotal int     `json:"plants_total"`
	RealizedKg  float64 `json:"realized_kg"`
}

// Empty reports whether the schedule holds no feasible planting.
func (s Schedule) Empty() bool {
	return len(s.Rows) == 0
}

// DayEntry is one day's verdict in a season explanation. The harvest fields
// are only set for feasible days.
type DayEntry struct {
	Date       time.Time  `json:"date"`
	OK         bool       `json:"ok"`
	Reason     Reason     `json:"reason"`
	Maturity   *time.Time `json:"maturity,omitempty"`
	HarvestEnd *time.Time `json:"harvest_end,omitempty"`
	MeanTempC  float64    `json:"mean_harvest_temp_c,omitempty"`
}

// AutoWindow is the feasible sowing span discovered by scanning a season.
// Zero dates mean no day qualified.
type AutoWindow struct {
	EarliestSow time.Time `json:"earliest_feasible_sow_date"`
	LatestSow   time.Time `json:"last_feasible_sow_date"`
	// LastHarvest is the harvest end the window policy selects: the
	// maximum across feasible days when succession planting is on,
	// otherwise the first feasible day's harvest end.
	LastHarvest time.Time `json:"last_harvest_date"`
	// ClimateEnd is the latest harvest end the climate supports at all.
	// When nothing is feasible it falls back to the latest end implied by
	// thermally rejected days.
	ClimateEnd time.Time `json:"climate_end_date"`
}
