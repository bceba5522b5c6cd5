package thermal

import (
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/Benjamin-Elon/trellis/core/calendar"
)

// WeightedMeanTemp estimates the mean air temperature over [start, end),
// weighting each day by its month. A month with a known mean (non-NaN entry
// in means) contributes that mean; a month known only through a positive
// GDD rate contributes base+rate; a month with neither is assumed just too
// cold to accrue, base-2. An empty interval returns the base temperature.
func WeightedMeanTemp(start, end time.Time, means, rates [12]float64, baseC float64) float64 {
	from := calendar.Day(start)
	to := calendar.Day(end)
	var samples []float64
	for d := from; d.Before(to); d = calendar.AddDays(d, 1) {
		m := d.Month() - 1
		switch {
		case !math.IsNaN(means[m]):
			samples = append(samples, means[m])
		case rates[m] > 0:
			samples = append(samples, baseC+rates[m])
		default:
			samples = append(samples, baseC-2)
		}
	}
	if len(samples) == 0 {
		return baseC
	}
	return stat.Mean(samples, nil)
}
