// Package planner is the planting and harvest scheduling kernel. A Planner
// is built once per request from a frozen Context and answers feasibility,
// succession and window questions over it. Nothing here does I/O; climate
// data and policy arrive through the Context and results go back as plain
// values.
package planner

import (
	"math"
	"time"

	"github.com/Benjamin-Elon/trellis/core/calendar"
	"github.com/Benjamin-Elon/trellis/core/model"
	"github.com/Benjamin-Elon/trellis/core/thermal"
)

// minHarvestDays is the shortest harvest span worth planting for: a window
// squeezed below min(profile window, this) by the season boundary rejects
// the sow date.
const minHarvestDays = 3

// maxScanDays bounds day-by-day searches so a hostile context cannot spin
// a scan forever.
const maxScanDays = 366

// Planner evaluates sow dates against a frozen Context.
type Planner struct {
	ctx Context

	// coolingCrossing is the first date the monthly mean falls to the
	// plant's cooling trigger; coolingNever is set when the climate never
	// cools that far within a year of the scan start.
	coolingCrossing time.Time
	coolingNever    bool
}

func newPlanner(ctx Context) *Planner {
	p := &Planner{ctx: ctx}
	if ctx.CoolingTrigC != nil {
		p.coolingCrossing, p.coolingNever = coolingCrossing(ctx.ScanStart, *ctx.CoolingTrigC, ctx.Means)
	}
	return p
}

// Context returns a copy of the planner's frozen evaluation state.
func (p *Planner) Context() Context {
	return p.ctx
}

// effectiveHardEnd is the earlier of the user season end and the scan
// boundary; no harvest may extend past it.
func (p *Planner) effectiveHardEnd() time.Time {
	return calendar.Earlier(p.ctx.SeasonEnd, p.ctx.ScanEnd)
}

// minSpanDays is the shortest harvest interval that still counts as a
// harvest: the profile window when it is tiny, minHarvestDays otherwise.
func (p *Planner) minSpanDays() int {
	if p.ctx.WindowDays < minHarvestDays {
		return p.ctx.WindowDays
	}
	return minHarvestDays
}

// crossYearBinds reports whether harvests must finish in the sowing year.
// Only annuals are bound: biennials and perennials span years by nature,
// which is why their scan window already covers the lifespan.
func (p *Planner) crossYearBinds() bool {
	return !p.ctx.Policy.OverwinterAllowed && p.ctx.Lifecycle == model.Annual
}

// gateDate is the day the crop actually meets the open field: the sow date
// itself for direct sowing, sow plus the transplant lag otherwise.
func (p *Planner) gateDate(candidate time.Time) time.Time {
	if p.ctx.Method == model.SowDirect {
		return candidate
	}
	return calendar.AddDays(candidate, p.ctx.LagDays)
}

// IsSowFeasible runs the ordered gate checks for one candidate sow date.
// Checks short-circuit: the reason reported is the first gate that failed.
func (p *Planner) IsSowFeasible(candidate time.Time) Result {
	ctx := &p.ctx
	c := calendar.Day(candidate)

	if c.Before(ctx.ScanStart) || c.After(ctx.ScanEnd) {
		return reject(ReasonOutsideScan)
	}

	gate := p.gateDate(c)

	if ctx.Policy.UseSpringFrostGate && calendar.DayOfYear(gate) < ctx.FrostDOY {
		return reject(ReasonSpringFrost)
	}

	if ctx.CoolingTrigC != nil {
		if p.coolingNever || gate.Before(p.coolingCrossing) {
			return reject(ReasonCoolingGate)
		}
	}

	if ctx.Policy.UseSoilTempGate && ctx.Method == model.SowDirect && ctx.SoilMinC != nil && !p.soilWarmEnough(c) {
		return reject(ReasonSoilGate)
	}

	maturity, reached := MaturityDateFromBudget(c, ctx.Budget, ctx.Rates, ctx.ScanEnd)
	if ctx.Budget.Mode == model.BudgetGDD && !reached {
		return reject(ReasonInsufficientGDD)
	}

	fullEnd := calendar.AddDays(maturity, ctx.WindowDays)
	if p.crossYearBinds() && fullEnd.Year() != c.Year() {
		return reject(ReasonCrossYear)
	}

	hardEnd := p.effectiveHardEnd()
	harvestEnd := fullEnd
	truncated := false
	if harvestEnd.After(hardEnd) {
		harvestEnd = hardEnd
		truncated = true
	}
	if calendar.DaysBetween(maturity, harvestEnd) < p.minSpanDays() {
		return reject(ReasonBeyondHardEnd)
	}

	mean := thermal.WeightedMeanTemp(maturity, harvestEnd, ctx.Means, ctx.Rates, ctx.Base)
	res := Result{
		Maturity:     maturity,
		HarvestStart: maturity,
		HarvestEnd:   harvestEnd,
		Truncated:    truncated,
		MeanTempC:    mean,
	}
	switch {
	case mean < ctx.Env.MinC:
		res.Reason = ReasonTooCold
	case mean > ctx.Env.MaxC:
		res.Reason = ReasonTooHot
	default:
		res.OK = true
		res.Reason = ReasonOK
	}
	return res
}

// FindNextFeasible scans forward one day at a time for the next sow date
// that passes every gate, giving up after maxDays days or at the scan
// boundary. A zero date means the scan found nothing.
func (p *Planner) FindNextFeasible(from time.Time, maxDays int) (time.Time, Result) {
	if maxDays <= 0 {
		maxDays = maxScanDays
	}
	d := calendar.Day(from)
	if d.Before(p.ctx.ScanStart) {
		d = p.ctx.ScanStart
	}
	for i := 0; i < maxDays && !d.After(p.ctx.ScanEnd); i++ {
		if res := p.IsSowFeasible(d); res.OK {
			return d, res
		}
		d = calendar.AddDays(d, 1)
	}
	return time.Time{}, Result{}
}

// soilWarmEnough requires the estimated soil temperature to hold at or
// above the plant's threshold for the configured run of days starting at
// the sow date.
func (p *Planner) soilWarmEnough(sow time.Time) bool {
	need := p.ctx.Policy.SoilGateConsecutiveDays
	for i := 0; i < need; i++ {
		st := p.ctx.SoilTemp(calendar.AddDays(sow, i), p.ctx.Means)
		if math.IsNaN(st) || st < *p.ctx.SoilMinC {
			return false
		}
	}
	return true
}

// coolingCrossing finds the first date the monthly mean falls from above
// the threshold to at or below it, interpolating linearly between month
// starts. If the scan start is already at or below the threshold the
// crossing is the scan start. never is set when no crossing exists within
// the following twelve months. Unknown means disable the gate by treating
// the scan start as the crossing.
func coolingCrossing(scanStart time.Time, threshold float64, means [12]float64) (crossing time.Time, never bool) {
	if math.IsNaN(means[scanStart.Month()-1]) {
		return scanStart, false
	}
	if means[scanStart.Month()-1] <= threshold {
		return scanStart, false
	}
	cur := calendar.Date(scanStart.Year(), scanStart.Month(), 1)
	for i := 0; i < 12; i++ {
		next := cur.AddDate(0, 1, 0)
		v0 := means[cur.Month()-1]
		v1 := means[next.Month()-1]
		if v0 > threshold && v1 <= threshold {
			span := calendar.DaysBetween(cur, next)
			frac := (v0 - threshold) / (v0 - v1)
			day := calendar.AddDays(cur, int(math.Round(frac*float64(span))))
			return calendar.Later(day, scanStart), false
		}
		cur = next
	}
	return time.Time{}, true
}
