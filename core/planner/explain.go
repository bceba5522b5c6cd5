package planner

import (
	"github.com/Benjamin-Elon/trellis/core/calendar"
)

// ExplainSeason evaluates every day from the requested start to the season
// end and reports each verdict. Feasible days carry their maturity, harvest
// end and mean harvest temperature; rejected days carry only the reason.
func (p *Planner) ExplainSeason() []DayEntry {
	start := calendar.Later(p.ctx.Start, p.ctx.ScanStart)
	end := p.effectiveHardEnd()

	var entries []DayEntry
	for d := start; !d.After(end); d = calendar.AddDays(d, 1) {
		res := p.IsSowFeasible(d)
		entry := DayEntry{Date: d, OK: res.OK, Reason: res.Reason}
		if res.OK {
			maturity, harvestEnd := res.Maturity, res.HarvestEnd
			entry.Maturity = &maturity
			entry.HarvestEnd = &harvestEnd
			entry.MeanTempC = res.MeanTempC
		}
		entries = append(entries, entry)
	}
	return entries
}
