package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/Benjamin-Elon/trellis/core/metrics"
	"github.com/Benjamin-Elon/trellis/core/planlog"
	"github.com/Benjamin-Elon/trellis/core/planner"
	"github.com/Benjamin-Elon/trellis/infra/mqtt"
)

// Config is the full application configuration.
type Config struct {
	Catalog CatalogConfig  `json:"catalog"`
	Planner PlannerConfig  `json:"planner"`
	Metrics metrics.Config `json:"metrics"`
	MQTT    mqtt.Config    `json:"mqtt"`
	History planlog.Config `json:"history"`
	Server  ServerConfig   `json:"server"`
}

// CatalogConfig points at the plant and city profile files.
type CatalogConfig struct {
	PlantsPath string `json:"plants_path"`
	CitiesPath string `json:"cities_path"`
}

// SetDefaults applies the conventional catalog layout.
func (c *CatalogConfig) SetDefaults() {
	if c.PlantsPath == "" {
		c.PlantsPath = "catalog/plants.yaml"
	}
	if c.CitiesPath == "" {
		c.CitiesPath = "catalog/cities.yaml"
	}
}

// PlannerConfig is the planning policy applied to every request that does
// not override it.
type PlannerConfig struct {
	Succession planner.SuccessionConfig `json:"succession"`
	Policy     planner.PolicyFlags      `json:"policy"`
	// SeasonYieldTargetKg enables plant-count allocation when positive.
	SeasonYieldTargetKg float64 `json:"season_yield_target_kg"`
}

// ServerConfig holds the HTTP API settings.
type ServerConfig struct {
	Addr string `json:"addr"`
}

// SetDefaults fills the listen address.
func (c *ServerConfig) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
}

// Load reads the configuration file at path and applies TRELLIS_*
// environment overrides. A .env file in the working directory is honored
// when present.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides, TRELLIS_MQTT__BROKER -> mqtt.broker.
	if err := k.Load(env.Provider("TRELLIS_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "trellis_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	// Gate toggles default to on; seeding before unmarshal keeps explicit
	// false values in the file distinguishable from absent keys.
	cfg := Config{Planner: PlannerConfig{Policy: planner.DefaultPolicyFlags()}}
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.Catalog.SetDefaults()
	cfg.Planner.Succession.SetDefaults()
	cfg.Planner.Policy.SetDefaults()
	cfg.MQTT.SetDefaults()
	cfg.History.SetDefaults()
	cfg.Server.SetDefaults()
	if err := cfg.Planner.Succession.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Planner.Policy.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.MQTT.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.History.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
