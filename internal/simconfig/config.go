// Package simconfig loads and validates the configuration for a spline
// simulation run: a population of synthetic connections driven against a
// network profile, following the TestConfig/Validate split the teacher
// repo uses for its own QUIC test harness.
package simconfig

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// SplineConfig describes one simhost run.
type SplineConfig struct {
	Mode        string        `yaml:"mode"`    // client | server | sim
	Profile     string        `yaml:"profile"` // network profile name, see Profile
	Connections int           `yaml:"connections"`
	Duration    time.Duration `yaml:"duration"`
	MSS         uint32        `yaml:"mss"`
	MaxPacingRate uint64      `yaml:"max_pacing_rate"` // 0 means uncapped
	ReportPath  string        `yaml:"report_path"`
	ReportFormat string       `yaml:"report_format"` // csv | md | json

	// Observability
	Prometheus   bool   `yaml:"prometheus"`
	PrometheusAddr string `yaml:"prometheus_addr"`
	OTLPEndpoint string `yaml:"otlp_endpoint"`
	SampleRate   float64 `yaml:"sample_rate"`
}

// Load reads and parses a YAML config file at path.
func Load(path string) (*SplineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg SplineConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *SplineConfig) applyDefaults() {
	if c.MSS == 0 {
		c.MSS = 1448
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.ReportFormat == "" {
		c.ReportFormat = "md"
	}
}

// Validate checks that the configuration is runnable, mirroring the
// structure of the teacher's TestConfig.Validate.
func (c *SplineConfig) Validate() error {
	switch c.Mode {
	case "client", "server", "sim":
	default:
		return fmt.Errorf("mode must be one of client|server|sim, got %q", c.Mode)
	}
	if c.Connections <= 0 {
		return fmt.Errorf("connections must be > 0, got %d", c.Connections)
	}
	if c.Duration <= 0 {
		return fmt.Errorf("duration must be > 0, got %v", c.Duration)
	}
	if c.MSS == 0 {
		return fmt.Errorf("mss must be > 0")
	}
	if _, err := LookupProfile(c.Profile); err != nil {
		return err
	}
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("sample_rate must be in [0,1], got %v", c.SampleRate)
	}
	switch c.ReportFormat {
	case "csv", "md", "json":
	default:
		return fmt.Errorf("report_format must be one of csv|md|json, got %q", c.ReportFormat)
	}
	return nil
}
