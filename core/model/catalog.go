package model

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Catalog is the loaded plant and city reference data, keyed by lowercase
// name.
type Catalog struct {
	plants map[string]Plant
	cities map[string]CityClimate
}

// NewCatalog builds a catalog from already-normalized entries.
func NewCatalog(plants []Plant, cities []CityClimate) Catalog {
	c := Catalog{
		plants: make(map[string]Plant, len(plants)),
		cities: make(map[string]CityClimate, len(cities)),
	}
	for _, p := range plants {
		c.plants[strings.ToLower(p.Name)] = p
	}
	for _, city := range cities {
		c.cities[strings.ToLower(city.Name)] = city
	}
	return c
}

// LoadCatalog reads both catalog files. Either path may be JSON or YAML,
// selected by extension.
func LoadCatalog(plantsPath, citiesPath string) (Catalog, error) {
	plants, err := LoadPlants(plantsPath)
	if err != nil {
		return Catalog{}, err
	}
	cities, err := LoadCities(citiesPath)
	if err != nil {
		return Catalog{}, err
	}
	return NewCatalog(plants, cities), nil
}

// Plant looks up a plant profile by name, case-insensitively.
func (c Catalog) Plant(name string) (Plant, bool) {
	p, ok := c.plants[strings.ToLower(strings.TrimSpace(name))]
	return p, ok
}

// City looks up a city climate by name, case-insensitively.
func (c Catalog) City(name string) (CityClimate, bool) {
	city, ok := c.cities[strings.ToLower(strings.TrimSpace(name))]
	return city, ok
}

// PlantNames returns the catalog's plant names sorted alphabetically.
func (c Catalog) PlantNames() []string {
	names := make([]string, 0, len(c.plants))
	for _, p := range c.plants {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}

// CityNames returns the catalog's city names sorted alphabetically.
func (c Catalog) CityNames() []string {
	names := make([]string, 0, len(c.cities))
	for _, city := range c.cities {
		names = append(names, city.Name)
	}
	sort.Strings(names)
	return names
}

// LoadPlants reads and normalizes a plant catalog file.
func LoadPlants(path string) ([]Plant, error) {
	var records []PlantRecord
	if err := decodeFile(path, &records); err != nil {
		return nil, fmt.Errorf("load plants: %w", err)
	}
	plants := make([]Plant, 0, len(records))
	for i, rec := range records {
		p, err := rec.Normalize()
		if err != nil {
			return nil, fmt.Errorf("load plants: entry %d (%s): %w", i, rec.Name, err)
		}
		plants = append(plants, p)
	}
	return plants, nil
}

// LoadCities reads and normalizes a city climate catalog file.
func LoadCities(path string) ([]CityClimate, error) {
	var records []CityRecord
	if err := decodeFile(path, &records); err != nil {
		return nil, fmt.Errorf("load cities: %w", err)
	}
	cities := make([]CityClimate, 0, len(records))
	for i, rec := range records {
		c, err := rec.Normalize()
		if err != nil {
			return nil, fmt.Errorf("load cities: entry %d (%s): %w", i, rec.Name, err)
		}
		cities = append(cities, c)
	}
	return cities, nil
}

func decodeFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, out)
	case ".json":
		return json.Unmarshal(data, out)
	default:
		return fmt.Errorf("unsupported catalog format %q", filepath.Ext(path))
	}
}
