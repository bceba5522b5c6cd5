package planner

import (
	"math"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/Benjamin-Elon/trellis/core/calendar"
	"github.com/Benjamin-Elon/trellis/core/model"
	"github.com/Benjamin-Elon/trellis/core/thermal"
)

// multiplierFloor keeps every scheduled succession worth a nonzero count
// during plant allocation, even when its window is thermally poor.
const multiplierFloor = 0.05

// allocationBumpCap bounds the round-robin top-up in DistributePlants.
const allocationBumpCap = 100000

// ThermalYieldFactor maps a mean temperature onto the crop's response
// curve: zero at or beyond the lethal bounds, a linear climb across
// [Tmin, optLow), full yield across [optLow, optHigh], a linear fall across
// (optHigh, Tmax).
func ThermalYieldFactor(tempC float64, env model.Envelope) float64 {
	switch {
	case tempC <= env.MinC || tempC >= env.MaxC:
		return 0
	case tempC < env.OptLowC:
		return (tempC - env.MinC) / (env.OptLowC - env.MinC)
	case tempC <= env.OptHighC:
		return 1
	default:
		return (env.MaxC - tempC) / (env.MaxC - env.OptHighC)
	}
}

// WindowKind selects which span the yield estimator samples temperature
// over.
type WindowKind int

const (
	// HarvestWindow samples [maturity, maturity+windowDays), the default.
	HarvestWindow WindowKind = iota
	// GrowthWindow samples [sow, maturity).
	GrowthWindow
)

// YieldEstimator scores sow dates by the temperature of their harvest (or
// growth) windows. Scores are relative within one batch: the best
// succession is 1.0 and the rest scale against it.
type YieldEstimator struct {
	Budget     model.Budget
	Rates      [12]float64
	Means      [12]float64
	Base       float64
	Env        model.Envelope
	Window     WindowKind
	WindowDays int
	HardEnd    time.Time
}

// YieldEstimator returns an estimator bound to the planner's context,
// sampling harvest windows.
func (p *Planner) YieldEstimator() YieldEstimator {
	ctx := &p.ctx
	return YieldEstimator{
		Budget:     ctx.Budget,
		Rates:      ctx.Rates,
		Means:      ctx.Means,
		Base:       ctx.Base,
		Env:        ctx.Env,
		Window:     HarvestWindow,
		WindowDays: ctx.WindowDays,
		HardEnd:    ctx.ScanEnd,
	}
}

// Multipliers derives the relative yield multiplier for each sow date:
// thermal factor over the sampled window, normalized by the batch maximum,
// clamped into [0.05, 1].
func (e YieldEstimator) Multipliers(sows []time.Time) []float64 {
	if len(sows) == 0 {
		return nil
	}
	raw := make([]float64, len(sows))
	for i, sow := range sows {
		maturity, _ := MaturityDateFromBudget(sow, e.Budget, e.Rates, e.HardEnd)
		var start, end time.Time
		if e.Window == GrowthWindow {
			start, end = calendar.Day(sow), maturity
		} else {
			start, end = maturity, calendar.AddDays(maturity, e.WindowDays)
		}
		mean := thermal.WeightedMeanTemp(start, end, e.Means, e.Rates, e.Base)
		raw[i] = ThermalYieldFactor(mean, e.Env)
	}
	if max := floats.Max(raw); max > 0 {
		for i := range raw {
			raw[i] /= max
		}
	}
	for i := range raw {
		raw[i] = math.Min(1, math.Max(multiplierFloor, raw[i]))
	}
	return raw
}

// DistributePlants sizes each succession so the batch meets a season yield
// target. Each succession first gets the ceiling count for an equal share
// of the target at its own multiplier; if rounding still leaves the
// realized total short, counts are bumped round-robin until it clears the
// target or the bump cap is exhausted. Returns the per-succession counts
// and the realized total.
func DistributePlants(targetKg, yieldPerPlantKg float64, multipliers []float64) ([]int, float64) {
	n := len(multipliers)
	plants := make([]int, n)
	if n == 0 || targetKg <= 0 || yieldPerPlantKg <= 0 {
		return plants, 0
	}

	const eps = 1e-9
	share := targetKg / float64(n)
	realized := 0.0
	for i, m := range multipliers {
		plants[i] = int(math.Ceil(share / (yieldPerPlantKg * math.Max(eps, m))))
		realized += float64(plants[i]) * yieldPerPlantKg * m
	}
	for b := 0; realized < targetKg && b < allocationBumpCap; b++ {
		i := b % n
		plants[i]++
		realized += yieldPerPlantKg * multipliers[i]
	}
	return plants, realized
}
