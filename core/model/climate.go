package model

import (
	"math"
	"time"
)

// MonthlyNormal is one month's mean daily high and low, in degrees Celsius.
type MonthlyNormal struct {
	HighC float64
	LowC  float64
}

// MeanC is the midpoint of the high/low pair, the planner's estimate of the
// month's mean air temperature.
func (n MonthlyNormal) MeanC() float64 {
	return (n.HighC + n.LowC) / 2
}

// CityClimate holds a city's twelve monthly temperature normals and its
// last-spring-frost statistics. Frost fields are day-of-year ordinals; nil
// means the catalog does not provide the figure.
type CityClimate struct {
	Name   string
	Months [12]MonthlyNormal

	LastFrostDOY    *int
	LastFrostDOYP10 *int
	LastFrostDOYP50 *int
	LastFrostDOYP90 *int
}

// MeanC returns the monthly mean temperature for month.
func (c CityClimate) MeanC(month time.Month) float64 {
	return c.Months[month-1].MeanC()
}

// MonthlyMeans returns all twelve monthly means in calendar order.
func (c CityClimate) MonthlyMeans() [12]float64 {
	var means [12]float64
	for i, n := range c.Months {
		means[i] = n.MeanC()
	}
	return means
}

// DailyGDDRates derives the growing-degree-day accrual rate per day for
// each month, given a base temperature. Months colder than the base accrue
// nothing.
func (c CityClimate) DailyGDDRates(baseC float64) [12]float64 {
	var rates [12]float64
	for i, n := range c.Months {
		rates[i] = math.Max(0, n.MeanC()-baseC)
	}
	return rates
}

// UnknownMeans returns a monthly-mean vector with every month marked
// unknown. Callers building synthetic climates from GDD rates alone use it
// so temperature estimation falls back to rate-derived values.
func UnknownMeans() [12]float64 {
	var means [12]float64
	for i := range means {
		means[i] = math.NaN()
	}
	return means
}
