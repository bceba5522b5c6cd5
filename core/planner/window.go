package planner

import (
	"time"

	"github.com/Benjamin-Elon/trellis/core/calendar"
	"github.com/Benjamin-Elon/trellis/core/model"
	"github.com/Benjamin-Elon/trellis/internal/fallback"
)

// AutoWindowParams are the raw inputs for solving a season's sowing window
// without catalog records: callers supply thermal tables and thresholds
// directly. Means may be model.UnknownMeans() when only GDD rates are
// known.
type AutoWindowParams struct {
	Year              int
	Method            model.SowMethod
	TransplantLagDays float64

	Budget            model.Budget
	HarvestWindowDays int
	Env               model.Envelope

	Rates [12]float64
	Means [12]float64

	// SeasonEnd caps harvests before the scan boundary when set.
	SeasonEnd time.Time

	Policy       PolicyFlags
	FrostDOY     *int
	CoolingTrigC *float64
	SoilMinC     *float64

	// SuccessionEnabled selects the last-harvest policy: with successions
	// the window reaches to the latest feasible harvest end, without them
	// it stops at the first feasible day's harvest end.
	SuccessionEnabled bool
}

// ComputeAutoWindow scans a season day by day for the feasible sowing span.
// It reports the earliest and latest feasible sow dates, the policy-
// selected last harvest date, and the latest harvest end the climate
// supports at all.
func ComputeAutoWindow(params AutoWindowParams) (AutoWindow, error) {
	if params.Year == 0 {
		return AutoWindow{}, model.ConfigError{Field: "year", Reason: "a planning year is required"}
	}
	if params.Budget.Amount <= 0 {
		return AutoWindow{}, model.ConfigError{Field: "maturity", Reason: "maturity budget must be positive"}
	}
	if params.HarvestWindowDays <= 0 {
		return AutoWindow{}, model.ConfigError{Field: "harvest_window_days", Reason: "harvest window must be positive"}
	}

	policy := params.Policy
	policy.SetDefaults()
	if err := policy.Validate(); err != nil {
		return AutoWindow{}, err
	}
	if policy.OverwinterAllowed {
		policy.UseSpringFrostGate = false
	}

	scanYears := 1
	if policy.OverwinterAllowed {
		scanYears = 2
	}
	ctx := Context{
		Method:       params.Method,
		Year:         params.Year,
		ScanStart:    calendar.StartOfYear(params.Year),
		ScanEnd:      calendar.EndOfYear(params.Year + scanYears - 1),
		Budget:       params.Budget,
		WindowDays:   params.HarvestWindowDays,
		Rates:        params.Rates,
		Means:        params.Means,
		Base:         params.Env.BaseC,
		Env:          params.Env,
		LagDays:      roundNonNegative(params.TransplantLagDays),
		Policy:       policy,
		FrostDOY:     fallback.First(defaultFrostDOY, params.FrostDOY),
		CoolingTrigC: params.CoolingTrigC,
		SoilMinC:     params.SoilMinC,
		SoilTemp:     DefaultSoilTemp,
	}
	if ctx.Method == "" {
		ctx.Method = model.SowIndoor
	}
	if ctx.Method == model.SowDirect {
		ctx.LagDays = 0
	}
	ctx.Start = ctx.ScanStart
	ctx.SeasonEnd = calendar.Day(params.SeasonEnd)
	if params.SeasonEnd.IsZero() {
		ctx.SeasonEnd = ctx.ScanEnd
	}
	p := newPlanner(ctx)

	// Field-ready is the first day the open bed accepts the crop; the sow
	// candidate backs off by the transplant lag for covered starts.
	fieldReady := ctx.ScanStart
	if ctx.Policy.UseSpringFrostGate {
		fieldReady = calendar.Later(fieldReady, calendar.FromDayOfYear(ctx.Year, ctx.FrostDOY))
	}
	if ctx.CoolingTrigC != nil && !p.coolingNever {
		fieldReady = calendar.Later(fieldReady, p.coolingCrossing)
	}
	sowFrom := fieldReady
	if ctx.Method != model.SowDirect {
		sowFrom = calendar.AddDays(fieldReady, -ctx.LagDays)
	}
	sowFrom = calendar.Later(sowFrom, ctx.ScanStart)

	// Overwintering harvests may run into the next year, but sowing stays
	// within the start year.
	scanCap := p.effectiveHardEnd()
	if ctx.Policy.OverwinterAllowed {
		scanCap = calendar.EndOfYear(ctx.Year)
	}

	var win AutoWindow
	var earliestEnd, maxEnd, impliedEnd time.Time
	for d := sowFrom; !d.After(scanCap); d = calendar.AddDays(d, 1) {
		res := p.IsSowFeasible(d)
		switch {
		case res.OK:
			if win.EarliestSow.IsZero() {
				win.EarliestSow = d
				earliestEnd = res.HarvestEnd
			}
			win.LatestSow = d
			maxEnd = calendar.Later(maxEnd, res.HarvestEnd)
		case res.Reason == ReasonTooCold || res.Reason == ReasonTooHot:
			impliedEnd = calendar.Later(impliedEnd, res.HarvestEnd)
		}
	}

	if !win.EarliestSow.IsZero() {
		if params.SuccessionEnabled {
			win.LastHarvest = maxEnd
		} else {
			win.LastHarvest = earliestEnd
		}
		win.ClimateEnd = maxEnd
	} else {
		win.ClimateEnd = impliedEnd
	}
	return win, nil
}
