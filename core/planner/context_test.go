package planner

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/Benjamin-Elon/trellis/core/calendar"
	"github.com/Benjamin-Elon/trellis/core/model"
)

func wantConfigError(t *testing.T, err error, field string) {
	t.Helper()
	var ce model.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected a config error, got %v", err)
	}
	if ce.Field != field {
		t.Fatalf("error field = %q, want %q", ce.Field, field)
	}
}

func TestNewRejectsBadRequests(t *testing.T) {
	city := flatCity("flat20", 20)

	_, err := New(Request{Plant: model.Plant{}, City: city, Year: 2024})
	wantConfigError(t, err, "name")

	_, err = New(Request{Plant: gddPlant(), City: city})
	wantConfigError(t, err, "year")

	noBudget := model.Plant{Name: "mystery", HarvestWindowDays: 14}
	_, err = New(Request{Plant: noBudget, City: city, Year: 2024})
	wantConfigError(t, err, "maturity")

	noWindow := model.Plant{Name: "radish", MaturityGDD: 200}
	_, err = New(Request{Plant: noWindow, City: city, Year: 2024})
	wantConfigError(t, err, "harvest_window_days")

	perennialNoLifespan := model.Plant{Name: "asparagus", Lifecycle: model.Perennial, MaturityDays: 730, HarvestWindowDays: 30}
	_, err = New(Request{Plant: perennialNoLifespan, City: city, Year: 2024})
	wantConfigError(t, err, "lifespan_years")

	perennialGDDOnly := model.Plant{Name: "rhubarb", Lifecycle: model.Perennial, LifespanYears: 8, MaturityGDD: 900, HarvestWindowDays: 30}
	_, err = New(Request{Plant: perennialGDDOnly, City: city, Year: 2024})
	wantConfigError(t, err, "maturity_days")
}

func TestNewDerivesYearFromStart(t *testing.T) {
	p := mustPlanner(t, Request{
		Plant: gddPlant(),
		City:  flatCity("flat20", 20),
		Start: calendar.Date(2024, time.March, 1),
	})
	ctx := p.Context()
	if ctx.Year != 2024 {
		t.Fatalf("year = %d, want 2024", ctx.Year)
	}
	if !ctx.ScanStart.Equal(calendar.StartOfYear(2024)) || !ctx.ScanEnd.Equal(calendar.EndOfYear(2024)) {
		t.Fatalf("scan = [%v, %v]", ctx.ScanStart, ctx.ScanEnd)
	}
	if !ctx.Start.Equal(calendar.Date(2024, time.March, 1)) {
		t.Fatalf("start = %v", ctx.Start)
	}
}

func TestNewDefaultsStartAndSeasonEnd(t *testing.T) {
	p := mustPlanner(t, Request{Plant: gddPlant(), City: flatCity("flat20", 20), Year: 2024})
	ctx := p.Context()
	if !ctx.Start.Equal(ctx.ScanStart) {
		t.Fatalf("start should default to the scan start, got %v", ctx.Start)
	}
	if !ctx.SeasonEnd.Equal(ctx.ScanEnd) {
		t.Fatalf("season end should default to the scan end, got %v", ctx.SeasonEnd)
	}
}

func TestNewDefaultsMethodFromProfile(t *testing.T) {
	direct := gddPlant()
	p := mustPlanner(t, Request{Plant: direct, City: flatCity("flat20", 20), Year: 2024})
	if got := p.Context().Method; got != model.SowDirect {
		t.Fatalf("method = %q, want direct_sow", got)
	}

	indoor := model.Plant{Name: "tomato", MaturityGDD: 500, HarvestWindowDays: 14, Transplant: true}
	p = mustPlanner(t, Request{Plant: indoor, City: flatCity("flat20", 20), Year: 2024})
	if got := p.Context().Method; got != model.SowIndoor {
		t.Fatalf("method = %q, want indoor_start", got)
	}
}

func TestNewDirectSowDropsLag(t *testing.T) {
	plant := gddPlant()
	plant.TransplantLagDays = 20
	p := mustPlanner(t, Request{Plant: plant, City: flatCity("flat20", 20), Method: model.SowDirect, Year: 2024})
	if got := p.Context().LagDays; got != 0 {
		t.Fatalf("lag = %d, direct sowing spends no time under cover", got)
	}
}

func TestNewSuccessionWindowOverride(t *testing.T) {
	override := 21
	plant := model.Plant{Name: "radish", MaturityGDD: 200, DirectSow: true}
	p := mustPlanner(t, Request{
		Plant:      plant,
		City:       flatCity("flat20", 20),
		Year:       2024,
		Succession: SuccessionConfig{HarvestWindowDays: &override},
	})
	if got := p.Context().WindowDays; got != 21 {
		t.Fatalf("window = %d, want the override 21", got)
	}

	// The override also beats a profile that has its own figure.
	p = mustPlanner(t, Request{
		Plant:      gddPlant(),
		City:       flatCity("flat20", 20),
		Year:       2024,
		Succession: SuccessionConfig{HarvestWindowDays: &override},
	})
	if got := p.Context().WindowDays; got != 21 {
		t.Fatalf("window = %d, want the override 21", got)
	}
}

func TestNewOverwinterDoublesScan(t *testing.T) {
	p := mustPlanner(t, Request{
		Plant:  gddPlant(),
		City:   flatCity("flat20", 20),
		Year:   2024,
		Policy: PolicyFlags{UseSpringFrostGate: true, OverwinterAllowed: true},
	})
	ctx := p.Context()
	if !ctx.ScanEnd.Equal(calendar.EndOfYear(2025)) {
		t.Fatalf("scan end = %v, want Dec 31 2025", ctx.ScanEnd)
	}
	if ctx.Policy.UseSpringFrostGate {
		t.Fatalf("overwintering disables the frost gate")
	}
}

func TestNewBiennialScanCoversLifespan(t *testing.T) {
	plant := model.Plant{
		Name:              "parsley",
		Lifecycle:         model.Biennial,
		LifespanYears:     2,
		MaturityGDD:       400,
		HarvestWindowDays: 21,
		DirectSow:         true,
	}
	p := mustPlanner(t, Request{Plant: plant, City: flatCity("flat20", 20), Year: 2024})
	if !p.Context().ScanEnd.Equal(calendar.EndOfYear(2025)) {
		t.Fatalf("scan end = %v, want Dec 31 2025", p.Context().ScanEnd)
	}
}

func TestNewSoilThresholdPrefersProfile(t *testing.T) {
	profileC, policyC := 12.0, 8.0
	plant := gddPlant()
	plant.SoilMinC = &profileC
	p := mustPlanner(t, Request{
		Plant:  plant,
		City:   flatCity("flat20", 20),
		Year:   2024,
		Policy: PolicyFlags{UseSoilTempGate: true, SoilGateThresholdC: &policyC},
	})
	if got := p.Context().SoilMinC; got == nil || *got != 12 {
		t.Fatalf("soil threshold = %v, want the profile's 12", got)
	}

	plant.SoilMinC = nil
	p = mustPlanner(t, Request{
		Plant:  plant,
		City:   flatCity("flat20", 20),
		Year:   2024,
		Policy: PolicyFlags{UseSoilTempGate: true, SoilGateThresholdC: &policyC},
	})
	if got := p.Context().SoilMinC; got == nil || *got != 8 {
		t.Fatalf("soil threshold = %v, want the policy's 8", got)
	}
}

func TestDefaultSoilTemp(t *testing.T) {
	means := flatCity("flat14", 14).MonthlyMeans()
	got := DefaultSoilTemp(calendar.Date(2024, time.May, 5), means)
	if got != 13 {
		t.Fatalf("soil estimate = %v, want mean minus one", got)
	}

	// Ten days back from May 5 is April 25: an unknown April mean must
	// propagate, not default.
	means[time.April-1] = math.NaN()
	if got := DefaultSoilTemp(calendar.Date(2024, time.May, 5), means); !math.IsNaN(got) {
		t.Fatalf("unknown month should give NaN, got %v", got)
	}
}
