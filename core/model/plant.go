// Package model defines the domain value objects shared by the planning
// kernel and its adapters: plant profiles, city climates and the loose
// catalog records they are parsed from.
package model

import (
	"fmt"
	"math"
	"strings"
)

// Lifecycle classifies how many seasons a crop lives.
type Lifecycle int

const (
	Annual Lifecycle = iota
	Biennial
	Perennial
)

// String returns the lowercase catalog spelling of the lifecycle.
func (l Lifecycle) String() string {
	switch l {
	case Biennial:
		return "biennial"
	case Perennial:
		return "perennial"
	default:
		return "annual"
	}
}

// ParseLifecycle resolves a catalog lifecycle string. An empty string maps
// to Annual; anything unrecognized is an error.
func ParseLifecycle(s string) (Lifecycle, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "annual":
		return Annual, nil
	case "biennial":
		return Biennial, nil
	case "perennial":
		return Perennial, nil
	default:
		return Annual, fmt.Errorf("unknown lifecycle %q", s)
	}
}

// SowMethod identifies how a crop is started.
type SowMethod string

const (
	// SowDirect seeds straight into the bed.
	SowDirect SowMethod = "direct_sow"
	// SowIndoor starts seed under cover and moves it out after the
	// transplant lag.
	SowIndoor SowMethod = "indoor_start"
	// SowTransplant sets out purchased or pre-grown starts; it shares the
	// indoor lag semantics.
	SowTransplant SowMethod = "transplant"
)

// ParseSowMethod resolves a catalog method string.
func ParseSowMethod(s string) (SowMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(SowDirect), "direct":
		return SowDirect, nil
	case string(SowIndoor), "indoor":
		return SowIndoor, nil
	case string(SowTransplant):
		return SowTransplant, nil
	default:
		return "", ConfigError{Field: "method", Reason: fmt.Sprintf("unknown sowing method %q", s)}
	}
}

// BudgetMode selects the unit a maturity budget is expressed in.
type BudgetMode int

const (
	// BudgetGDD counts growing degree days above the crop's base
	// temperature.
	BudgetGDD BudgetMode = iota
	// BudgetDays counts plain calendar days.
	BudgetDays
)

// Budget is the total development requirement from sowing to first harvest.
type Budget struct {
	Mode   BudgetMode
	Amount float64
}

// Envelope is the crop's four-point thermal response curve plus the GDD
// base temperature. Yield is zero at or beyond MinC/MaxC and full between
// OptLowC and OptHighC.
type Envelope struct {
	MinC     float64
	OptLowC  float64
	OptHighC float64
	MaxC     float64
	BaseC    float64
}

// Plant describes the biology of one crop variety. Zero values on the
// numeric fields mean "not specified in the catalog"; defaults are applied
// by TemperatureEnvelope and MaturityBudget rather than at parse time.
type Plant struct {
	Name string

	Lifecycle Lifecycle
	// Overwinter marks an annual that can legitimately carry its harvest
	// into the next calendar year.
	Overwinter bool
	// LifespanYears bounds the scan horizon for biennials and perennials.
	LifespanYears int

	MaturityGDD  float64
	MaturityDays float64

	BaseTempC float64
	TminC     float64
	OptLowC   float64
	OptHighC  float64
	TmaxC     float64

	GerminationDays   float64
	TransplantLagDays float64
	HarvestWindowDays int

	// SoilMinC enables the direct-sow soil temperature gate when set.
	SoilMinC *float64
	// CoolingTrigC delays sowing until the climate cools to the given
	// monthly mean, for fall-planted crops.
	CoolingTrigC *float64

	DirectSow  bool
	Transplant bool

	YieldPerPlantKg float64
}

const (
	defaultBaseTempC     = 10
	defaultEnvelopeLowC  = 6
	defaultEnvelopeHighC = 14
	defaultEnvelopeMaxC  = 24
)

// TemperatureEnvelope resolves the thermal response curve, filling
// unspecified points from the base temperature.
func (p Plant) TemperatureEnvelope() Envelope {
	base := p.BaseTempC
	if base == 0 {
		base = defaultBaseTempC
	}
	env := Envelope{
		MinC:     p.TminC,
		OptLowC:  p.OptLowC,
		OptHighC: p.OptHighC,
		MaxC:     p.TmaxC,
		BaseC:    base,
	}
	if env.OptLowC == 0 {
		env.OptLowC = base + defaultEnvelopeLowC
	}
	if env.OptHighC == 0 {
		env.OptHighC = base + defaultEnvelopeHighC
	}
	if env.MaxC == 0 {
		env.MaxC = base + defaultEnvelopeMaxC
	}
	return env
}

// MaturityBudget resolves the development budget. True perennials are
// day-driven: once established their thermal history stops predicting first
// harvest, so a GDD figure is ignored and a day count is required. All
// other lifecycles prefer GDD and fall back to days.
func (p Plant) MaturityBudget() (Budget, error) {
	gddOK := usableAmount(p.MaturityGDD)
	daysOK := usableAmount(p.MaturityDays)

	if p.Lifecycle == Perennial {
		if !daysOK {
			return Budget{}, ConfigError{Field: "maturity_days", Reason: "perennial crops need a day-based maturity budget"}
		}
		return Budget{Mode: BudgetDays, Amount: p.MaturityDays}, nil
	}
	if gddOK {
		return Budget{Mode: BudgetGDD, Amount: p.MaturityGDD}, nil
	}
	if daysOK {
		return Budget{Mode: BudgetDays, Amount: p.MaturityDays}, nil
	}
	return Budget{}, ConfigError{Field: "maturity", Reason: "neither maturity_gdd nor maturity_days is usable"}
}

// AllowedSowingMethods lists the methods the profile permits. A profile
// that names neither direct sowing nor transplanting is assumed to be
// started indoors.
func (p Plant) AllowedSowingMethods() []SowMethod {
	var ms []SowMethod
	if p.DirectSow {
		ms = append(ms, SowDirect)
	}
	if p.Transplant {
		ms = append(ms, SowIndoor, SowTransplant)
	}
	if len(ms) == 0 {
		ms = []SowMethod{SowIndoor}
	}
	return ms
}

// Validate checks the structural requirements that do not depend on planner
// policy.
func (p Plant) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ConfigError{Field: "name", Reason: "plant name is required"}
	}
	if p.Lifecycle != Annual && p.LifespanYears < 1 {
		return ConfigError{Field: "lifespan_years", Reason: "required for biennial and perennial crops"}
	}
	return nil
}

func usableAmount(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
