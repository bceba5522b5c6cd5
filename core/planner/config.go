package planner

import (
	"fmt"
)

// FrostRisk selects which last-spring-frost percentile gates sowing. A
// higher percentile is a later, safer date.
type FrostRisk string

const (
	FrostP10 FrostRisk = "p10"
	FrostP50 FrostRisk = "p50"
	FrostP90 FrostRisk = "p90"
)

// SuccessionConfig controls staggered repeat plantings within a season.
type SuccessionConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	// Max caps the number of successions, first planting included.
	Max int `json:"max" yaml:"max"`
	// OverlapDays is how far after the previous succession's maturity the
	// next one should mature. Zero means back-to-back maturities.
	OverlapDays int `json:"overlap_days" yaml:"overlap_days"`
	// HarvestWindowDays overrides the plant profile's window when set.
	HarvestWindowDays *int `json:"harvest_window_days" yaml:"harvest_window_days"`
	// MinYieldMultiplier drops successions whose normalized multiplier
	// falls below it. Zero keeps everything.
	MinYieldMultiplier float64 `json:"min_yield_multiplier" yaml:"min_yield_multiplier"`
}

// SetDefaults fills unset fields.
func (c *SuccessionConfig) SetDefaults() {
	if c.Max == 0 {
		c.Max = 3
	}
}

// Validate checks the succession bounds.
func (c SuccessionConfig) Validate() error {
	if c.Max < 1 {
		return fmt.Errorf("succession: max must be at least 1, got %d", c.Max)
	}
	if c.OverlapDays < 0 {
		return fmt.Errorf("succession: overlap_days must not be negative, got %d", c.OverlapDays)
	}
	if c.HarvestWindowDays != nil && *c.HarvestWindowDays < 1 {
		return fmt.Errorf("succession: harvest_window_days override must be positive, got %d", *c.HarvestWindowDays)
	}
	if c.MinYieldMultiplier < 0 || c.MinYieldMultiplier > 1 {
		return fmt.Errorf("succession: min_yield_multiplier must be within [0,1], got %v", c.MinYieldMultiplier)
	}
	return nil
}

// PolicyFlags toggles the feasibility gates and cross-year behavior.
type PolicyFlags struct {
	UseSpringFrostGate bool      `json:"use_spring_frost_gate" yaml:"use_spring_frost_gate"`
	SpringFrostRisk    FrostRisk `json:"spring_frost_risk" yaml:"spring_frost_risk"`
	// UseSoilTempGate only binds direct sowing, and only when a soil
	// threshold is known from the plant profile or from
	// SoilGateThresholdC.
	UseSoilTempGate bool `json:"use_soil_temp_gate" yaml:"use_soil_temp_gate"`
	// SoilGateThresholdC is the policy-wide soil threshold for plants
	// whose profile does not carry one.
	SoilGateThresholdC      *float64 `json:"soil_gate_threshold_c" yaml:"soil_gate_threshold_c"`
	SoilGateConsecutiveDays int      `json:"soil_gate_consecutive_days" yaml:"soil_gate_consecutive_days"`
	// OverwinterAllowed lets harvests run into the following calendar
	// year and disables the spring frost gate.
	OverwinterAllowed bool `json:"overwinter_allowed" yaml:"overwinter_allowed"`
}

// DefaultPolicyFlags returns the gate settings used when a request carries
// no explicit policy: frost gate on at the median percentile, soil gate off.
func DefaultPolicyFlags() PolicyFlags {
	return PolicyFlags{
		UseSpringFrostGate:      true,
		SpringFrostRisk:         FrostP50,
		SoilGateConsecutiveDays: 3,
	}
}

// SetDefaults fills unset fields.
func (p *PolicyFlags) SetDefaults() {
	if p.SpringFrostRisk == "" {
		p.SpringFrostRisk = FrostP50
	}
	if p.SoilGateConsecutiveDays == 0 {
		p.SoilGateConsecutiveDays = 3
	}
}

// Validate checks the policy values.
func (p PolicyFlags) Validate() error {
	switch p.SpringFrostRisk {
	case FrostP10, FrostP50, FrostP90:
	default:
		return fmt.Errorf("policy: unknown spring_frost_risk %q", p.SpringFrostRisk)
	}
	if p.SoilGateConsecutiveDays < 1 {
		return fmt.Errorf("policy: soil_gate_consecutive_days must be positive, got %d", p.SoilGateConsecutiveDays)
	}
	return nil
}
