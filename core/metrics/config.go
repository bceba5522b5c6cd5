package metrics

// Config selects and parameterizes the metrics sinks. Disabled sinks are
// replaced by NopSink at wiring time.
type Config struct {
	PrometheusEnabled bool `json:"prometheus_enabled" yaml:"prometheus_enabled"`

	InfluxEnabled bool   `json:"influx_enabled" yaml:"influx_enabled"`
	InfluxURL     string `json:"influx_url" yaml:"influx_url"`
	InfluxToken   string `json:"influx_token" yaml:"influx_token"`
	InfluxOrg     string `json:"influx_org" yaml:"influx_org"`
	InfluxBucket  string `json:"influx_bucket" yaml:"influx_bucket"`
}
