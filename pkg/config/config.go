// Package config holds the battkit configuration file handling.
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
	pkgerrors "github.com/pkg/errors"

	"github.com/battkit/battkit/pkg/battery"
)

const (
	minTimeoutSeconds = 0.1
	maxTimeoutSeconds = 120
	minWorkers        = 1
	maxWorkers        = 32
)

// Config is the battkit configuration file. All fields are optional; the
// zero/missing values fall back to the package defaults.
type Config struct {
	LogLevel string        `toml:"log_level"`
	Listen   string        `toml:"listen"`
	Battery  BatteryConfig `toml:"battery"`
}

// BatteryConfig tunes the acquisition layer.
type BatteryConfig struct {
	// Name pins a specific battery device on Linux, e.g. "BAT1".
	Name string `toml:"name"`
	// ReportCachePath is where the Windows powercfg report is cached.
	ReportCachePath string `toml:"report_cache_path"`
	// FastChargeThresholdMW classifies charging above this rate as fast.
	FastChargeThresholdMW int `toml:"fast_charge_threshold_mw"`

	TimeoutSeconds     float64 `toml:"timeout_seconds"`
	TaskTimeoutSeconds float64 `toml:"task_timeout_seconds"`
	CacheTTLSeconds    float64 `toml:"cache_ttl_seconds"`
	Workers            int     `toml:"workers"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Listen:   "127.0.0.1:9377",
		Battery: BatteryConfig{
			FastChargeThresholdMW: battery.DefaultFastChargeThreshold,
			TimeoutSeconds:        battery.DefaultTimeout.Seconds(),
			TaskTimeoutSeconds:    battery.DefaultTaskTimeout.Seconds(),
			CacheTTLSeconds:       battery.DefaultCacheTTL.Seconds(),
			Workers:               battery.DefaultWorkers,
		},
	}
}

// Load reads the config file at path on top of the defaults. A missing file
// is not an error: the defaults are returned unchanged.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, pkgerrors.Wrap(err, "cannot read config file")
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, pkgerrors.Wrapf(err, "cannot parse config file %s", path)
	}

	return cfg, validate(cfg)
}

func validate(cfg *Config) error {
	if err := validateTimeout("battery.timeout_seconds", cfg.Battery.TimeoutSeconds); err != nil {
		return err
	}
	if err := validateTimeout("battery.task_timeout_seconds", cfg.Battery.TaskTimeoutSeconds); err != nil {
		return err
	}
	if err := validateTimeout("battery.cache_ttl_seconds", cfg.Battery.CacheTTLSeconds); err != nil {
		return err
	}
	if cfg.Battery.Workers < minWorkers || cfg.Battery.Workers > maxWorkers {
		return pkgerrors.Errorf("battery.workers must be between %d and %d, got %d",
			minWorkers, maxWorkers, cfg.Battery.Workers)
	}
	return nil
}

func validateTimeout(name string, seconds float64) error {
	if seconds < minTimeoutSeconds || seconds > maxTimeoutSeconds {
		return pkgerrors.Errorf("%s must be between %v and %v, got %v",
			name, minTimeoutSeconds, maxTimeoutSeconds, seconds)
	}
	return nil
}

// BatteryOptions translates the file configuration into battery.Options.
func (c *Config) BatteryOptions(debug bool) battery.Options {
	return battery.Options{
		Debug:               debug,
		Timeout:             secondsToDuration(c.Battery.TimeoutSeconds),
		TaskTimeout:         secondsToDuration(c.Battery.TaskTimeoutSeconds),
		CacheTTL:            secondsToDuration(c.Battery.CacheTTLSeconds),
		Workers:             c.Battery.Workers,
		FastChargeThreshold: c.Battery.FastChargeThresholdMW,
		BatteryName:         c.Battery.Name,
		ReportCachePath:     c.Battery.ReportCachePath,
	}
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
