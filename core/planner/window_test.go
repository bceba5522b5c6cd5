package planner

import (
	"errors"
	"testing"
	"time"

	"github.com/Benjamin-Elon/trellis/core/calendar"
	"github.com/Benjamin-Elon/trellis/core/model"
)

func baseWindowParams() AutoWindowParams {
	return AutoWindowParams{
		Year:              2024,
		Method:            model.SowDirect,
		Budget:            model.Budget{Mode: model.BudgetGDD, Amount: 500},
		HarvestWindowDays: 14,
		Env:               model.Envelope{MinC: 0, OptLowC: 16, OptHighC: 24, MaxC: 34, BaseC: 10},
		Rates:             flatRates(10),
		Means:             flatCity("flat20", 20).MonthlyMeans(),
	}
}

func TestComputeAutoWindowFrostGated(t *testing.T) {
	frost := 100
	params := baseWindowParams()
	params.Policy = PolicyFlags{UseSpringFrostGate: true}
	params.FrostDOY = &frost

	win, err := ComputeAutoWindow(params)
	if err != nil {
		t.Fatalf("ComputeAutoWindow: %v", err)
	}
	if want := calendar.FromDayOfYear(2024, 100); !win.EarliestSow.Equal(want) {
		t.Fatalf("earliest sow = %v, want %v", win.EarliestSow, want)
	}
	// The last sowing whose full harvest window still ends inside the year.
	if want := calendar.Date(2024, time.October, 29); !win.LatestSow.Equal(want) {
		t.Fatalf("latest sow = %v, want %v", win.LatestSow, want)
	}
	// Successions off: the window stops at the first planting's harvest end.
	if want := calendar.Date(2024, time.June, 11); !win.LastHarvest.Equal(want) {
		t.Fatalf("last harvest = %v, want %v", win.LastHarvest, want)
	}
	if want := calendar.EndOfYear(2024); !win.ClimateEnd.Equal(want) {
		t.Fatalf("climate end = %v, want %v", win.ClimateEnd, want)
	}
}

func TestComputeAutoWindowSuccessionExtendsHarvest(t *testing.T) {
	frost := 100
	params := baseWindowParams()
	params.Policy = PolicyFlags{UseSpringFrostGate: true}
	params.FrostDOY = &frost
	params.SuccessionEnabled = true

	win, err := ComputeAutoWindow(params)
	if err != nil {
		t.Fatalf("ComputeAutoWindow: %v", err)
	}
	if want := calendar.EndOfYear(2024); !win.LastHarvest.Equal(want) {
		t.Fatalf("with successions the window reaches the latest end, got %v", win.LastHarvest)
	}
}

func TestComputeAutoWindowIndoorLagBacksOff(t *testing.T) {
	frost := 100
	params := baseWindowParams()
	params.Method = model.SowIndoor
	params.TransplantLagDays = 21
	params.Policy = PolicyFlags{UseSpringFrostGate: true}
	params.FrostDOY = &frost

	win, err := ComputeAutoWindow(params)
	if err != nil {
		t.Fatalf("ComputeAutoWindow: %v", err)
	}
	// Field-ready April 9; seed trays start 21 days earlier.
	if want := calendar.Date(2024, time.March, 19); !win.EarliestSow.Equal(want) {
		t.Fatalf("earliest sow = %v, want %v", win.EarliestSow, want)
	}
}

func TestComputeAutoWindowNothingFeasible(t *testing.T) {
	params := baseWindowParams()
	params.Budget = model.Budget{Mode: model.BudgetGDD, Amount: 260}
	params.Rates = flatRates(26)
	params.Means = flatCity("oven", 36).MonthlyMeans()

	win, err := ComputeAutoWindow(params)
	if err != nil {
		t.Fatalf("ComputeAutoWindow: %v", err)
	}
	if !win.EarliestSow.IsZero() || !win.LatestSow.IsZero() || !win.LastHarvest.IsZero() {
		t.Fatalf("nothing should be feasible at 36°C: %+v", win)
	}
	// The climate end falls back to the latest end among the thermally
	// rejected days.
	if want := calendar.EndOfYear(2024); !win.ClimateEnd.Equal(want) {
		t.Fatalf("climate end = %v, want %v", win.ClimateEnd, want)
	}
}

func TestComputeAutoWindowOverwinterCapsSowingYear(t *testing.T) {
	params := baseWindowParams()
	params.Budget = model.Budget{Mode: model.BudgetDays, Amount: 240}
	params.HarvestWindowDays = 21
	params.Policy = PolicyFlags{OverwinterAllowed: true}
	params.SuccessionEnabled = true

	win, err := ComputeAutoWindow(params)
	if err != nil {
		t.Fatalf("ComputeAutoWindow: %v", err)
	}
	if !win.EarliestSow.Equal(calendar.StartOfYear(2024)) {
		t.Fatalf("earliest sow = %v", win.EarliestSow)
	}
	// Sowing stays in the start year even though harvests run into 2025.
	if want := calendar.EndOfYear(2024); !win.LatestSow.Equal(want) {
		t.Fatalf("latest sow = %v, want %v", win.LatestSow, want)
	}
	if want := calendar.Date(2025, time.September, 18); !win.LastHarvest.Equal(want) {
		t.Fatalf("last harvest = %v, want %v", win.LastHarvest, want)
	}
}

func TestComputeAutoWindowValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*AutoWindowParams)
		field  string
	}{
		{"year", func(p *AutoWindowParams) { p.Year = 0 }, "year"},
		{"budget", func(p *AutoWindowParams) { p.Budget.Amount = 0 }, "maturity"},
		{"window", func(p *AutoWindowParams) { p.HarvestWindowDays = 0 }, "harvest_window_days"},
	}
	for _, tc := range cases {
		params := baseWindowParams()
		tc.mutate(&params)
		_, err := ComputeAutoWindow(params)
		var ce model.ConfigError
		if !errors.As(err, &ce) {
			t.Fatalf("%s: expected a config error, got %v", tc.name, err)
		}
		if ce.Field != tc.field {
			t.Fatalf("%s: error field = %q, want %q", tc.name, ce.Field, tc.field)
		}
	}
}

func TestComputeAutoWindowDefaultFrost(t *testing.T) {
	params := baseWindowParams()
	params.Policy = PolicyFlags{UseSpringFrostGate: true}

	win, err := ComputeAutoWindow(params)
	if err != nil {
		t.Fatalf("ComputeAutoWindow: %v", err)
	}
	if want := calendar.FromDayOfYear(2024, 105); !win.EarliestSow.Equal(want) {
		t.Fatalf("earliest sow = %v, want the mid-April default %v", win.EarliestSow, want)
	}
}
