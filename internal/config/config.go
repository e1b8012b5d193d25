// Package config handles YAML configuration of timer benchmark runs.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"porttime/internal/collector"
)

// Config is the root configuration structure.
type Config struct {
	Timer      TimerConfig           `yaml:"timer"`
	Phases     []Phase               `yaml:"phases,omitempty"`
	Thresholds *collector.Thresholds `yaml:"thresholds,omitempty"`
	Metrics    MetricsConfig         `yaml:"metrics,omitempty"`
	Log        LogConfig             `yaml:"log,omitempty"`
}

// TimerConfig describes a single timer session.
type TimerConfig struct {
	Resolution    int           `yaml:"resolution"` // milliseconds
	Duration      time.Duration `yaml:"duration"`
	PriorityBoost bool          `yaml:"priorityBoost"`
}

// Phase is one start/stop session of a multi-phase run. Each phase restarts
// the timer with a fresh epoch.
type Phase struct {
	Name       string        `yaml:"name"`
	Resolution int           `yaml:"resolution"`
	Duration   time.Duration `yaml:"duration"`
	TickSample *int          `yaml:"tickSample,omitempty"` // overrides log.tickSample for this phase
}

// MetricsConfig controls the prometheus endpoint.
type MetricsConfig struct {
	Listen string `yaml:"listen"`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Level      string `yaml:"level"`
	TickSample int    `yaml:"tickSample"` // per-tick debug records per second, 0 = unlimited
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Timer: TimerConfig{
			Resolution:    10,
			Duration:      5 * time.Second,
			PriorityBoost: true,
		},
		Log: LogConfig{
			Level:      "info",
			TickSample: 10,
		},
	}
}

// LoadConfig reads and parses a YAML configuration file. Fields absent from
// the file keep their Default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// Validate checks that every session has a positive resolution and duration.
func (c *Config) Validate() error {
	var errs []error
	for i, p := range c.Sessions() {
		if p.Resolution <= 0 {
			errs = append(errs, fmt.Errorf("phase %d (%s): resolution must be >0, got %d", i, p.Name, p.Resolution))
		}
		if p.Duration <= 0 {
			errs = append(errs, fmt.Errorf("phase %d (%s): duration must be >0, got %v", i, p.Name, p.Duration))
		}
		if p.TickSample != nil && *p.TickSample < 0 {
			errs = append(errs, fmt.Errorf("phase %d (%s): tickSample must be >=0, got %d", i, p.Name, *p.TickSample))
		}
	}
	if c.Log.TickSample < 0 {
		errs = append(errs, fmt.Errorf("log.tickSample must be >=0, got %d", c.Log.TickSample))
	}
	return errors.Join(errs...)
}

// Sessions returns the phases to run. Without explicit phases the timer
// section forms a single phase.
func (c *Config) Sessions() []Phase {
	if len(c.Phases) > 0 {
		return c.Phases
	}
	return []Phase{{
		Name:       "main",
		Resolution: c.Timer.Resolution,
		Duration:   c.Timer.Duration,
	}}
}

// TickSample returns the per-tick log rate for p: its own value when set,
// otherwise log.tickSample.
func (c *Config) TickSample(p Phase) int {
	if p.TickSample != nil {
		return *p.TickSample
	}
	return c.Log.TickSample
}

// TotalDuration returns the sum of all session durations.
func (c *Config) TotalDuration() time.Duration {
	var total time.Duration
	for _, p := range c.Sessions() {
		total += p.Duration
	}
	return total
}
