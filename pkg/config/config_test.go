package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/battkit/battkit/pkg/battery"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "battkit.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen != "127.0.0.1:9377" {
		t.Fatalf("Listen = %q, want 127.0.0.1:9377", cfg.Listen)
	}
	if cfg.Battery.Workers != battery.DefaultWorkers {
		t.Fatalf("Workers = %d, want %d", cfg.Battery.Workers, battery.DefaultWorkers)
	}
	if cfg.Battery.FastChargeThresholdMW != battery.DefaultFastChargeThreshold {
		t.Fatalf("FastChargeThresholdMW = %d, want %d",
			cfg.Battery.FastChargeThresholdMW, battery.DefaultFastChargeThreshold)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
log_level = "debug"
listen = "0.0.0.0:8080"

[battery]
name = "BAT1"
fast_charge_threshold_mw = 30000
timeout_seconds = 5.0
task_timeout_seconds = 2.5
cache_ttl_seconds = 0.5
workers = 8
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q, want debug", cfg.LogLevel)
	}
	if cfg.Listen != "0.0.0.0:8080" {
		t.Fatalf("Listen = %q, want 0.0.0.0:8080", cfg.Listen)
	}
	if cfg.Battery.Name != "BAT1" {
		t.Fatalf("Name = %q, want BAT1", cfg.Battery.Name)
	}

	opts := cfg.BatteryOptions(true)
	if !opts.Debug {
		t.Fatal("Debug should be set")
	}
	if opts.Timeout != 5*time.Second {
		t.Fatalf("Timeout = %v, want 5s", opts.Timeout)
	}
	if opts.TaskTimeout != 2500*time.Millisecond {
		t.Fatalf("TaskTimeout = %v, want 2.5s", opts.TaskTimeout)
	}
	if opts.CacheTTL != 500*time.Millisecond {
		t.Fatalf("CacheTTL = %v, want 500ms", opts.CacheTTL)
	}
	if opts.Workers != 8 {
		t.Fatalf("Workers = %d, want 8", opts.Workers)
	}
	if opts.FastChargeThreshold != 30000 {
		t.Fatalf("FastChargeThreshold = %d, want 30000", opts.FastChargeThreshold)
	}
	if opts.BatteryName != "BAT1" {
		t.Fatalf("BatteryName = %q, want BAT1", opts.BatteryName)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
[battery]
workers = 2
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Battery.Workers != 2 {
		t.Fatalf("Workers = %d, want 2", cfg.Battery.Workers)
	}
	if cfg.Battery.TimeoutSeconds != battery.DefaultTimeout.Seconds() {
		t.Fatalf("TimeoutSeconds = %v, want default", cfg.Battery.TimeoutSeconds)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"zero timeout", "[battery]\ntimeout_seconds = 0.0\nworkers = 4\ntask_timeout_seconds = 1.0\ncache_ttl_seconds = 1.0"},
		{"huge timeout", "[battery]\ntimeout_seconds = 999.0\nworkers = 4\ntask_timeout_seconds = 1.0\ncache_ttl_seconds = 1.0"},
		{"zero workers", "[battery]\ntimeout_seconds = 2.0\nworkers = 0\ntask_timeout_seconds = 1.0\ncache_ttl_seconds = 1.0"},
		{"too many workers", "[battery]\ntimeout_seconds = 2.0\nworkers = 999\ntask_timeout_seconds = 1.0\ncache_ttl_seconds = 1.0"},
		{"not toml", "{\"listen\": \"json\"}"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, c.content)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
