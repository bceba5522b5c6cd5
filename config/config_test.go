package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Benjamin-Elon/trellis/core/planner"
)

func writeConfig(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

//nolint:gocyclo
func TestLoad(t *testing.T) {
	data := `catalog:
  plants_path: "fixtures/plants.yaml"
  cities_path: "fixtures/cities.yaml"
planner:
  succession:
    enabled: true
    max: 4
    overlap_days: 7
  policy:
    spring_frost_risk: "p90"
    use_soil_temp_gate: true
  season_yield_target_kg: 50
metrics:
  prometheus_enabled: true
mqtt:
  enabled: true
  broker: "tcp://localhost:1883"
  client_id: "cli"
  topic_prefix: "garden"
  qos: 1
  retain: true
history:
  enabled: true
  backend: "sqlite"
  path: "plans.db"
server:
  addr: ":9000"
`
	cfg, err := Load(writeConfig(t, data))
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"plants_path", cfg.Catalog.PlantsPath, "fixtures/plants.yaml"},
		{"cities_path", cfg.Catalog.CitiesPath, "fixtures/cities.yaml"},
		{"succession.enabled", cfg.Planner.Succession.Enabled, true},
		{"succession.max", cfg.Planner.Succession.Max, 4},
		{"succession.overlap_days", cfg.Planner.Succession.OverlapDays, 7},
		{"policy.spring_frost_risk", cfg.Planner.Policy.SpringFrostRisk, planner.FrostP90},
		{"policy.use_soil_temp_gate", cfg.Planner.Policy.UseSoilTempGate, true},
		{"policy.use_spring_frost_gate", cfg.Planner.Policy.UseSpringFrostGate, true},
		{"season_yield_target_kg", cfg.Planner.SeasonYieldTargetKg, 50.0},
		{"metrics.prometheus", cfg.Metrics.PrometheusEnabled, true},
		{"mqtt.broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"mqtt.client_id", cfg.MQTT.ClientID, "cli"},
		{"mqtt.topic_prefix", cfg.MQTT.TopicPrefix, "garden"},
		{"mqtt.qos", cfg.MQTT.QoS, byte(1)},
		{"mqtt.retain", cfg.MQTT.Retain, true},
		{"history.backend", cfg.History.Backend, "sqlite"},
		{"history.path", cfg.History.Path, "plans.db"},
		{"server.addr", cfg.Server.Addr, ":9000"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "server: {}\n"))
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Catalog.PlantsPath != "catalog/plants.yaml" || cfg.Catalog.CitiesPath != "catalog/cities.yaml" {
		t.Errorf("catalog defaults: %+v", cfg.Catalog)
	}
	if cfg.Planner.Succession.Max != 3 {
		t.Errorf("succession max = %d, want 3", cfg.Planner.Succession.Max)
	}
	if !cfg.Planner.Policy.UseSpringFrostGate || cfg.Planner.Policy.SpringFrostRisk != planner.FrostP50 {
		t.Errorf("policy defaults: %+v", cfg.Planner.Policy)
	}
	if cfg.Planner.Policy.SoilGateConsecutiveDays != 3 {
		t.Errorf("soil consecutive days = %d", cfg.Planner.Policy.SoilGateConsecutiveDays)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("server addr = %q", cfg.Server.Addr)
	}
	if cfg.History.Enabled || cfg.History.Backend != "jsonl" {
		t.Errorf("history defaults: %+v", cfg.History)
	}
	if cfg.MQTT.Enabled {
		t.Errorf("mqtt should default to disabled")
	}
}

func TestLoadExplicitFalseSurvives(t *testing.T) {
	data := `planner:
  policy:
    use_spring_frost_gate: false
`
	cfg, err := Load(writeConfig(t, data))
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Planner.Policy.UseSpringFrostGate {
		t.Fatalf("explicit false overridden by default")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("TRELLIS_MQTT__BROKER", "tcp://env-broker:1883")
	data := `mqtt:
  enabled: true
  broker: "tcp://file-broker:1883"
`
	cfg, err := Load(writeConfig(t, data))
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.MQTT.Broker != "tcp://env-broker:1883" {
		t.Fatalf("env override ignored: %q", cfg.MQTT.Broker)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		data string
	}{
		{"succession", "planner:\n  succession:\n    max: -1\n"},
		{"policy", "planner:\n  policy:\n    spring_frost_risk: \"p42\"\n"},
		{"history", "history:\n  enabled: true\n  backend: \"bolt\"\n"},
		{"mqtt", "mqtt:\n  enabled: true\n"},
	}
	for _, c := range cases {
		if _, err := Load(writeConfig(t, c.data)); err == nil {
			t.Errorf("%s: expected validation error", c.name)
		}
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("x = 1"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}
