package planner

import (
	"math"
	"time"

	"github.com/Benjamin-Elon/trellis/core/calendar"
	"github.com/Benjamin-Elon/trellis/core/model"
	"github.com/Benjamin-Elon/trellis/core/thermal"
)

// MaturityDateFromBudget resolves when a crop sown on sow first matures.
// Day budgets are a plain offset and always resolve; GDD budgets walk the
// daily rates forward and report false when hardEnd arrives first.
func MaturityDateFromBudget(sow time.Time, budget model.Budget, rates [12]float64, hardEnd time.Time) (time.Time, bool) {
	if budget.Mode == model.BudgetDays {
		return calendar.AddDays(calendar.Day(sow), int(math.Round(budget.Amount))), true
	}
	acc := thermal.AccumulateForward(sow, budget.Amount, rates, hardEnd)
	return acc.Date, acc.Reached
}

// SowDateFromTargetMaturity inverts MaturityDateFromBudget: given a wanted
// maturity date, it returns the sow date that reaches it. GDD budgets walk
// backward and clamp at hardStart when the season cannot supply the amount.
func SowDateFromTargetMaturity(target time.Time, budget model.Budget, rates [12]float64, hardStart time.Time) time.Time {
	if budget.Mode == model.BudgetDays {
		return calendar.AddDays(calendar.Day(target), -int(math.Round(budget.Amount)))
	}
	return thermal.AccumulateBackward(target, budget.Amount, rates, hardStart).Date
}
