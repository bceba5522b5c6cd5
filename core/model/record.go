package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// FlexFloat decodes a numeric catalog field that may arrive as a number, a
// quoted string, or null. Real catalogs are hand-maintained spreadsheets
// exported through several tools, so the loader is forgiving about quoting.
type FlexFloat float64

// UnmarshalJSON accepts 12, "12", "" and null.
func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*f = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	if s == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid numeric value %q", s)
	}
	*f = FlexFloat(v)
	return nil
}

// UnmarshalYAML accepts the same shapes as UnmarshalJSON.
func (f *FlexFloat) UnmarshalYAML(value *yaml.Node) error {
	if value.Tag == "!!null" {
		*f = 0
		return nil
	}
	s := strings.TrimSpace(value.Value)
	if s == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid numeric value %q", s)
	}
	*f = FlexFloat(v)
	return nil
}

// PlantRecord is the on-disk shape of one plant catalog entry. Optional
// gate thresholds are pointers so absence survives the round trip.
type PlantRecord struct {
	Name              string     `json:"name" yaml:"name"`
	Lifecycle         string     `json:"lifecycle" yaml:"lifecycle"`
	Overwinter        bool       `json:"overwinter" yaml:"overwinter"`
	LifespanYears     FlexFloat  `json:"lifespan_years" yaml:"lifespan_years"`
	MaturityGDD       FlexFloat  `json:"maturity_gdd" yaml:"maturity_gdd"`
	MaturityDays      FlexFloat  `json:"maturity_days" yaml:"maturity_days"`
	BaseTempC         FlexFloat  `json:"base_temp_c" yaml:"base_temp_c"`
	TminC             FlexFloat  `json:"t_min_c" yaml:"t_min_c"`
	OptLowC           FlexFloat  `json:"opt_low_c" yaml:"opt_low_c"`
	OptHighC          FlexFloat  `json:"opt_high_c" yaml:"opt_high_c"`
	TmaxC             FlexFloat  `json:"t_max_c" yaml:"t_max_c"`
	GerminationDays   FlexFloat  `json:"germination_days" yaml:"germination_days"`
	TransplantLagDays FlexFloat  `json:"transplant_lag_days" yaml:"transplant_lag_days"`
	HarvestWindowDays FlexFloat  `json:"harvest_window_days" yaml:"harvest_window_days"`
	SoilMinC          *FlexFloat `json:"soil_min_c" yaml:"soil_min_c"`
	CoolingTrigC      *FlexFloat `json:"cooling_trigger_c" yaml:"cooling_trigger_c"`
	DirectSow         bool       `json:"direct_sow" yaml:"direct_sow"`
	Transplant        bool       `json:"transplant" yaml:"transplant"`
	YieldPerPlantKg   FlexFloat  `json:"yield_per_plant_kg" yaml:"yield_per_plant_kg"`
}

// Normalize coerces the record into a typed Plant. NaN and infinite values
// are zeroed so downstream defaulting treats them as unspecified.
func (r PlantRecord) Normalize() (Plant, error) {
	lc, err := ParseLifecycle(r.Lifecycle)
	if err != nil {
		return Plant{}, ConfigError{Field: "lifecycle", Reason: err.Error()}
	}
	p := Plant{
		Name:              strings.TrimSpace(r.Name),
		Lifecycle:         lc,
		Overwinter:        r.Overwinter,
		LifespanYears:     int(sanitize(r.LifespanYears)),
		MaturityGDD:       sanitize(r.MaturityGDD),
		MaturityDays:      sanitize(r.MaturityDays),
		BaseTempC:         sanitize(r.BaseTempC),
		TminC:             sanitize(r.TminC),
		OptLowC:           sanitize(r.OptLowC),
		OptHighC:          sanitize(r.OptHighC),
		TmaxC:             sanitize(r.TmaxC),
		GerminationDays:   sanitize(r.GerminationDays),
		TransplantLagDays: sanitize(r.TransplantLagDays),
		HarvestWindowDays: int(sanitize(r.HarvestWindowDays)),
		SoilMinC:          optFloat(r.SoilMinC),
		CoolingTrigC:      optFloat(r.CoolingTrigC),
		DirectSow:         r.DirectSow,
		Transplant:        r.Transplant,
		YieldPerPlantKg:   sanitize(r.YieldPerPlantKg),
	}
	if err := p.Validate(); err != nil {
		return Plant{}, err
	}
	return p, nil
}

// CityRecord is the on-disk shape of one city climate entry. The monthly
// arrays run January through December and must both have twelve entries.
type CityRecord struct {
	Name            string      `json:"name" yaml:"name"`
	MonthlyHighC    []FlexFloat `json:"monthly_high_c" yaml:"monthly_high_c"`
	MonthlyLowC     []FlexFloat `json:"monthly_low_c" yaml:"monthly_low_c"`
	LastFrostDOY    *FlexFloat  `json:"last_frost_doy" yaml:"last_frost_doy"`
	LastFrostDOYP10 *FlexFloat  `json:"last_frost_doy_p10" yaml:"last_frost_doy_p10"`
	LastFrostDOYP50 *FlexFloat  `json:"last_frost_doy_p50" yaml:"last_frost_doy_p50"`
	LastFrostDOYP90 *FlexFloat  `json:"last_frost_doy_p90" yaml:"last_frost_doy_p90"`
}

// Normalize coerces the record into a typed CityClimate.
func (r CityRecord) Normalize() (CityClimate, error) {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return CityClimate{}, ConfigError{Field: "name", Reason: "city name is required"}
	}
	if len(r.MonthlyHighC) != 12 || len(r.MonthlyLowC) != 12 {
		return CityClimate{}, ConfigError{
			Field:  "monthly_high_c",
			Reason: fmt.Sprintf("city %s needs 12 monthly highs and lows, got %d/%d", name, len(r.MonthlyHighC), len(r.MonthlyLowC)),
		}
	}
	c := CityClimate{Name: name}
	for i := 0; i < 12; i++ {
		c.Months[i] = MonthlyNormal{
			HighC: sanitize(r.MonthlyHighC[i]),
			LowC:  sanitize(r.MonthlyLowC[i]),
		}
	}
	c.LastFrostDOY = optDOY(r.LastFrostDOY)
	c.LastFrostDOYP10 = optDOY(r.LastFrostDOYP10)
	c.LastFrostDOYP50 = optDOY(r.LastFrostDOYP50)
	c.LastFrostDOYP90 = optDOY(r.LastFrostDOYP90)
	return c, nil
}

func sanitize(f FlexFloat) float64 {
	v := float64(f)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func optFloat(f *FlexFloat) *float64 {
	if f == nil {
		return nil
	}
	v := sanitize(*f)
	return &v
}

func optDOY(f *FlexFloat) *int {
	if f == nil {
		return nil
	}
	v := int(sanitize(*f))
	if v < 1 || v > 366 {
		return nil
	}
	return &v
}
