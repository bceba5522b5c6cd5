package planner

import (
	"time"

	"github.com/google/uuid"

	"github.com/Benjamin-Elon/trellis/core/calendar"
	"github.com/Benjamin-Elon/trellis/core/model"
)

// NextPlantingDate back-solves the sow date whose maturity lands
// overlapDays after the previous succession's maturity. A zero date means
// the season cannot fit another succession: the previous harvest already
// overruns the hard end, crosses years when that is disallowed, or the
// target maturity leaves no room to harvest.
func (p *Planner) NextPlantingDate(prevSow time.Time, overlapDays int) time.Time {
	ctx := &p.ctx
	prev := calendar.Day(prevSow)

	prevMaturity, reached := MaturityDateFromBudget(prev, ctx.Budget, ctx.Rates, ctx.ScanEnd)
	if ctx.Budget.Mode == model.BudgetGDD && !reached {
		return time.Time{}
	}
	hardEnd := p.effectiveHardEnd()
	prevEnd := calendar.AddDays(prevMaturity, ctx.WindowDays)
	if prevEnd.After(hardEnd) {
		return time.Time{}
	}
	if p.crossYearBinds() && prevEnd.Year() != prev.Year() {
		return time.Time{}
	}

	if overlapDays < 0 {
		overlapDays = 0
	}
	targetMaturity := calendar.AddDays(prevMaturity, overlapDays)
	if calendar.AddDays(targetMaturity, minHarvestDays).After(hardEnd) {
		return time.Time{}
	}
	return SowDateFromTargetMaturity(targetMaturity, ctx.Budget, ctx.Rates, ctx.ScanStart)
}

// BuildSuccessionSchedule produces the season's planting rows. The first
// sow date is the requested start when feasible, otherwise the next
// feasible day; later rows are spaced by NextPlantingDate. Rows whose
// normalized yield multiplier falls below the configured minimum are
// dropped, and when a season yield target is set the surviving rows get
// plant counts allocated against it.
func (p *Planner) BuildSuccessionSchedule() Schedule {
	ctx := &p.ctx
	sched := Schedule{
		PlanID: uuid.NewString(),
		Plant:  ctx.PlantName,
		City:   ctx.CityName,
		Method: ctx.Method,
		Year:   ctx.Year,
	}

	first := calendar.Later(ctx.Start, ctx.ScanStart)
	if ctx.CoolingTrigC != nil && !p.coolingNever {
		first = calendar.Later(first, p.coolingCrossing)
	}
	res := p.IsSowFeasible(first)
	if !res.OK {
		first, res = p.FindNextFeasible(first, maxScanDays)
		if first.IsZero() {
			return sched
		}
	}

	maxRows := 1
	if ctx.Succession.Enabled {
		maxRows = ctx.Succession.Max
	}
	sows := []time.Time{first}
	spans := []Result{res}
	for len(sows) < maxRows {
		next := p.NextPlantingDate(sows[len(sows)-1], ctx.Succession.OverlapDays)
		if next.IsZero() || next.After(ctx.ScanEnd) {
			break
		}
		span, ok := p.harvestSpan(next)
		if !ok {
			break
		}
		sows = append(sows, next)
		spans = append(spans, span)
	}

	multipliers := p.YieldEstimator().Multipliers(sows)

	for i, sow := range sows {
		if ctx.Succession.Enabled && multipliers[i] < ctx.Succession.MinYieldMultiplier {
			continue
		}
		row := ScheduleRow{
			Index:           len(sched.Rows) + 1,
			SowDate:         sow,
			HarvestStart:    spans[i].HarvestStart,
			HarvestEnd:      spans[i].HarvestEnd,
			Truncated:       spans[i].Truncated,
			YieldMultiplier: multipliers[i],
		}
		if ctx.GerminationDays > 0 {
			g := calendar.AddDays(sow, ctx.GerminationDays)
			row.GerminationDate = &g
		}
		if ctx.Method != model.SowDirect && ctx.LagDays > 0 {
			tp := calendar.AddDays(sow, ctx.LagDays)
			row.TransplantDate = &tp
		}
		sched.Rows = append(sched.Rows, row)
		sched.LastHarvestEnd = calendar.Later(sched.LastHarvestEnd, row.HarvestEnd)
	}
	if len(sched.Rows) == 0 {
		return Schedule{PlanID: sched.PlanID, Plant: sched.Plant, City: sched.City, Method: sched.Method, Year: sched.Year}
	}

	if ctx.TargetKg > 0 && ctx.YieldPerPlantKg > 0 {
		kept := make([]float64, len(sched.Rows))
		for i, row := range sched.Rows {
			kept[i] = row.YieldMultiplier
		}
		plants, realized := DistributePlants(ctx.TargetKg, ctx.YieldPerPlantKg, kept)
		total := 0
		for i := range sched.Rows {
			sched.Rows[i].PlantsRequired = plants[i]
			total += plants[i]
		}
		sched.PlantsTotal = total
		sched.RealizedKg = realized
	}
	return sched
}

// harvestSpan computes the maturity and effective harvest interval for a
// back-solved sow date. Gates are not re-run: succession spacing is driven
// by the previous row, not by re-qualifying each sow day.
func (p *Planner) harvestSpan(sow time.Time) (Result, bool) {
	ctx := &p.ctx
	maturity, reached := MaturityDateFromBudget(sow, ctx.Budget, ctx.Rates, ctx.ScanEnd)
	if ctx.Budget.Mode == model.BudgetGDD && !reached {
		return Result{}, false
	}
	hardEnd := p.effectiveHardEnd()
	end := calendar.AddDays(maturity, ctx.WindowDays)
	truncated := false
	if end.After(hardEnd) {
		end = hardEnd
		truncated = true
	}
	if calendar.DaysBetween(maturity, end) < p.minSpanDays() {
		return Result{}, false
	}
	return Result{
		OK:           true,
		Reason:       ReasonOK,
		Maturity:     maturity,
		HarvestStart: maturity,
		HarvestEnd:   end,
		Truncated:    truncated,
	}, true
}
