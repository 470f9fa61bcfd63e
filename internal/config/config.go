package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultRows       = 10
	DefaultCols       = 10
	DefaultSpeed      = 1.0
	DefaultIntervalMs = 200
	DefaultDensity    = 0.3
	DefaultTheme      = "classic"
	DefaultDataDir    = ".lifechart"

	MinDimension = 6
	MaxDimension = 512
	MinSpeed     = 0.1
	MaxSpeed     = 5.0
	SpeedStep    = 0.1
)

var ErrUnknownPattern = errors.New("config: unknown pattern")

type Config struct {
	Rows       int     `yaml:"rows"`
	Cols       int     `yaml:"cols"`
	Speed      float64 `yaml:"speed"`
	IntervalMs int     `yaml:"interval_ms"`
	Density    float64 `yaml:"density"`
	Seed       int64   `yaml:"seed"`
	Workers    int     `yaml:"workers"`
	Pattern    string  `yaml:"pattern"`
	Theme      string  `yaml:"theme"`
	DataDir    string  `yaml:"data_dir"`
}

func DefaultConfig() *Config {
	return &Config{
		Rows:       DefaultRows,
		Cols:       DefaultCols,
		Speed:      DefaultSpeed,
		IntervalMs: DefaultIntervalMs,
		Density:    DefaultDensity,
		Workers:    1,
		Theme:      DefaultTheme,
		DataDir:    DefaultDataDir,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Interval() time.Duration {
	return time.Duration(c.IntervalMs) * time.Millisecond
}

// Clamp pulls every field into the range the input controls allow.
func (c *Config) Clamp() {
	c.Rows = ClampDimension(c.Rows)
	c.Cols = ClampDimension(c.Cols)
	c.Speed = ClampSpeed(c.Speed)
	if c.IntervalMs <= 0 {
		c.IntervalMs = DefaultIntervalMs
	}
	if c.Density < 0 {
		c.Density = 0
	} else if c.Density > 1 {
		c.Density = 1
	}
	if c.Workers < 1 {
		c.Workers = 1
	}
	if c.Theme == "" {
		c.Theme = DefaultTheme
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
}

func ClampDimension(n int) int {
	if n < MinDimension {
		return MinDimension
	}
	if n > MaxDimension {
		return MaxDimension
	}
	return n
}

// ClampSpeed bounds speed to the slider range, rounded to the slider step.
func ClampSpeed(s float64) float64 {
	if s < MinSpeed {
		s = MinSpeed
	}
	if s > MaxSpeed {
		s = MaxSpeed
	}
	steps := int(s/SpeedStep + 0.5)
	return float64(steps) * SpeedStep
}
