// Package thermal implements growing-degree-day accumulation and mean
// temperature estimation over monthly climate normals. Everything here is
// pure: callers supply per-month daily rates and get dates or temperatures
// back.
package thermal

import (
	"math"
	"time"

	"github.com/Benjamin-Elon/trellis/core/calendar"
)

// Accumulation reports where a degree-day walk stopped.
type Accumulation struct {
	// Date is the day the target was reached, or the boundary the walk hit.
	Date time.Time
	// Accumulated is the total collected up to and including Date.
	Accumulated float64
	// Reached is false when the walk ran out of days first.
	Reached bool
}

// AccumulateForward walks forward from start, one day at a time, adding the
// month's daily rate until target degree days are collected or hardEnd is
// passed. The start day's own rate counts. Daily contributions are clamped
// at zero so cold months never drain the total.
func AccumulateForward(start time.Time, target float64, rates [12]float64, hardEnd time.Time) Accumulation {
	d := calendar.Day(start)
	if target <= 0 {
		return Accumulation{Date: d, Reached: true}
	}
	end := calendar.Day(hardEnd)
	acc := 0.0
	for !d.After(end) {
		acc += math.Max(0, rates[d.Month()-1])
		if acc >= target {
			return Accumulation{Date: d, Accumulated: acc, Reached: true}
		}
		d = calendar.AddDays(d, 1)
	}
	return Accumulation{Date: end, Accumulated: acc, Reached: false}
}

// AccumulateBackward walks backward from the day before target, collecting
// daily rates until amount is reached or hardStart is passed. It answers
// "when must I sow to mature by target": the returned date is the latest
// sow day whose forward accumulation covers the amount by target.
func AccumulateBackward(target time.Time, amount float64, rates [12]float64, hardStart time.Time) Accumulation {
	d := calendar.Day(target)
	if amount <= 0 {
		return Accumulation{Date: d, Reached: true}
	}
	floor := calendar.Day(hardStart)
	acc := 0.0
	for d = calendar.AddDays(d, -1); !d.Before(floor); d = calendar.AddDays(d, -1) {
		acc += math.Max(0, rates[d.Month()-1])
		if acc >= amount {
			return Accumulation{Date: d, Accumulated: acc, Reached: true}
		}
	}
	return Accumulation{Date: floor, Accumulated: acc, Reached: false}
}
