package planner

import (
	"math"
	"time"

	"github.com/Benjamin-Elon/trellis/core/calendar"
	"github.com/Benjamin-Elon/trellis/core/model"
	"github.com/Benjamin-Elon/trellis/internal/fallback"
)

// defaultFrostDOY is the last-spring-frost assumption (mid April) applied
// when a city record carries no frost statistics at all.
const defaultFrostDOY = 105

// SoilTempFunc estimates soil temperature for a day from monthly mean air
// temperatures. The default lags air temperature by ten days and subtracts
// one degree; replace it when calibrated soil data is available. A NaN
// return means "unknown" and fails the soil gate.
type SoilTempFunc func(day time.Time, means [12]float64) float64

// DefaultSoilTemp is the stock soil-temperature heuristic.
func DefaultSoilTemp(day time.Time, means [12]float64) float64 {
	lagged := calendar.AddDays(calendar.Day(day), -10)
	m := means[lagged.Month()-1]
	if math.IsNaN(m) {
		return math.NaN()
	}
	return m - 1
}

// Request binds everything needed to plan one crop in one city. Zero-value
// fields fall back to catalog figures and documented defaults.
type Request struct {
	Plant  model.Plant
	City   model.CityClimate
	Method model.SowMethod
	// Year anchors the scan. Zero derives it from Start.
	Year int
	// Start is the requested first sow date. Zero means January 1 of Year.
	Start time.Time
	// SeasonEnd caps harvests earlier than the scan boundary when set.
	SeasonEnd time.Time

	Succession SuccessionConfig
	Policy     PolicyFlags
	// SoilTemp overrides the soil-temperature heuristic when set.
	SoilTemp SoilTempFunc

	SeasonYieldTargetKg float64
}

// Context is the frozen evaluation state derived from a Request. Every
// defaulting and fallback decision is made once, here; the feasibility
// loops only read.
type Context struct {
	PlantName string
	CityName  string
	Method    model.SowMethod
	Lifecycle model.Lifecycle
	Year      int

	ScanStart time.Time
	ScanEnd   time.Time
	SeasonEnd time.Time
	Start     time.Time

	Budget     model.Budget
	WindowDays int

	Rates [12]float64
	Means [12]float64
	Base  float64
	Env   model.Envelope

	LagDays         int
	GerminationDays int

	Policy       PolicyFlags
	FrostDOY     int
	CoolingTrigC *float64
	SoilMinC     *float64
	SoilTemp     SoilTempFunc

	Succession      SuccessionConfig
	YieldPerPlantKg float64
	TargetKg        float64
}

// New derives the frozen context for a request and returns a planner over
// it. Configuration problems (unresolvable budget, missing lifespan or
// harvest window) surface here, before any scan begins.
func New(req Request) (*Planner, error) {
	plant := req.Plant
	if err := plant.Validate(); err != nil {
		return nil, err
	}

	year := req.Year
	if year == 0 {
		if req.Start.IsZero() {
			return nil, model.ConfigError{Field: "year", Reason: "either a planning year or a start date is required"}
		}
		year = req.Start.Year()
	}

	budget, err := plant.MaturityBudget()
	if err != nil {
		return nil, err
	}

	succ := req.Succession
	succ.SetDefaults()
	if err := succ.Validate(); err != nil {
		return nil, err
	}
	windowDays := fallback.First(plant.HarvestWindowDays, succ.HarvestWindowDays)
	if windowDays <= 0 {
		return nil, model.ConfigError{Field: "harvest_window_days", Reason: "no harvest window in the profile and no override"}
	}

	policy := req.Policy
	policy.SetDefaults()
	if err := policy.Validate(); err != nil {
		return nil, err
	}
	if policy.OverwinterAllowed {
		// Overwintering crops go in before the cold on purpose.
		policy.UseSpringFrostGate = false
	}
	soilMinC := plant.SoilMinC
	if soilMinC == nil {
		soilMinC = policy.SoilGateThresholdC
	}

	scanYears := 1
	switch {
	case plant.Lifecycle != model.Annual:
		scanYears = plant.LifespanYears
	case policy.OverwinterAllowed:
		scanYears = 2
	}

	env := plant.TemperatureEnvelope()
	ctx := Context{
		PlantName:       plant.Name,
		CityName:        req.City.Name,
		Method:          req.Method,
		Lifecycle:       plant.Lifecycle,
		Year:            year,
		ScanStart:       calendar.StartOfYear(year),
		ScanEnd:         calendar.EndOfYear(year + scanYears - 1),
		Budget:          budget,
		WindowDays:      windowDays,
		Rates:           req.City.DailyGDDRates(env.BaseC),
		Means:           req.City.MonthlyMeans(),
		Base:            env.BaseC,
		Env:             env,
		LagDays:         roundNonNegative(plant.TransplantLagDays),
		GerminationDays: roundNonNegative(plant.GerminationDays),
		Policy:          policy,
		FrostDOY:        FrostOrdinal(req.City, policy.SpringFrostRisk),
		CoolingTrigC:    plant.CoolingTrigC,
		SoilMinC:        soilMinC,
		SoilTemp:        req.SoilTemp,
		Succession:      succ,
		YieldPerPlantKg: plant.YieldPerPlantKg,
		TargetKg:        req.SeasonYieldTargetKg,
	}
	if ctx.Method == "" {
		ctx.Method = defaultMethod(plant)
	}
	if ctx.Method == model.SowDirect {
		// The lag models time under cover; direct sowing has none.
		ctx.LagDays = 0
	}
	if ctx.SoilTemp == nil {
		ctx.SoilTemp = DefaultSoilTemp
	}
	ctx.Start = calendar.Day(req.Start)
	if req.Start.IsZero() {
		ctx.Start = ctx.ScanStart
	}
	ctx.SeasonEnd = calendar.Day(req.SeasonEnd)
	if req.SeasonEnd.IsZero() {
		ctx.SeasonEnd = ctx.ScanEnd
	}
	return newPlanner(ctx), nil
}

// FrostOrdinal picks the last-spring-frost ordinal: the configured risk
// percentile first, the plain figure next, mid April as a last resort.
func FrostOrdinal(city model.CityClimate, risk FrostRisk) int {
	var pct *int
	switch risk {
	case FrostP10:
		pct = city.LastFrostDOYP10
	case FrostP90:
		pct = city.LastFrostDOYP90
	default:
		pct = city.LastFrostDOYP50
	}
	return fallback.First(defaultFrostDOY, pct, city.LastFrostDOY)
}

func defaultMethod(p model.Plant) model.SowMethod {
	ms := p.AllowedSowingMethods()
	return ms[0]
}

func roundNonNegative(v float64) int {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	return int(math.Round(v))
}
