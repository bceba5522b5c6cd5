// Package scenarios runs YAML-defined planning cases end to end: a small
// inline catalog, one request, and the expected schedule shape.
package scenarios

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Benjamin-Elon/trellis/core/model"
	"github.com/Benjamin-Elon/trellis/core/planner"
)

// RequestDef names the planning inputs. Dates use YYYY-MM-DD.
type RequestDef struct {
	Plant         string  `yaml:"plant"`
	City          string  `yaml:"city"`
	Method        string  `yaml:"method,omitempty"`
	Year          int     `yaml:"year"`
	Start         string  `yaml:"start,omitempty"`
	SeasonEnd     string  `yaml:"season_end,omitempty"`
	YieldTargetKg float64 `yaml:"yield_target_kg,omitempty"`
}

// Expected is the asserted schedule shape. Empty date strings and zero
// counts are not checked, except Successions which always is.
type Expected struct {
	Successions int    `yaml:"successions"`
	FirstSow    string `yaml:"first_sow,omitempty"`
	LastHarvest string `yaml:"last_harvest,omitempty"`
	PlantsTotal int    `yaml:"plants_total,omitempty"`
}

// Scenario is one fixture file. Plants and cities reuse the catalog record
// schema, so fixtures read like catalog excerpts.
type Scenario struct {
	Name        string                   `yaml:"name"`
	Description string                   `yaml:"description,omitempty"`
	Plants      []model.PlantRecord      `yaml:"plants"`
	Cities      []model.CityRecord       `yaml:"cities"`
	Request     RequestDef               `yaml:"request"`
	Succession  planner.SuccessionConfig `yaml:"succession"`
	Policy      planner.PolicyFlags      `yaml:"policy"`
	Expected    Expected                 `yaml:"expected"`
}

// Catalog normalizes the scenario's inline records.
func (sc *Scenario) Catalog() (model.Catalog, error) {
	plants := make([]model.Plant, 0, len(sc.Plants))
	for i, rec := range sc.Plants {
		p, err := rec.Normalize()
		if err != nil {
			return model.Catalog{}, fmt.Errorf("plant %d (%s): %w", i, rec.Name, err)
		}
		plants = append(plants, p)
	}
	cities := make([]model.CityClimate, 0, len(sc.Cities))
	for i, rec := range sc.Cities {
		c, err := rec.Normalize()
		if err != nil {
			return model.Catalog{}, fmt.Errorf("city %d (%s): %w", i, rec.Name, err)
		}
		cities = append(cities, c)
	}
	return model.NewCatalog(plants, cities), nil
}

// Load reads one scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
