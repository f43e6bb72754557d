// Package config loads the kernel configuration from YAML.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Kernel holds all kernel configuration.
type Kernel struct {
	// Logging
	LogLevel string `yaml:"log_level"` // debug | info | warn | error

	// Profiler
	Profiler Profiler `yaml:"profiler"`

	// ReadyPolicy gates the deferred-ready queue: "self" checks only
	// the proxy's own enabled flag, "hierarchy" requires every
	// ancestor enabled as well.
	ReadyPolicy string `yaml:"ready_policy"`

	// Frame pacing for hosts that drive the kernel from a ticker.
	FrameRate    int `yaml:"frame_rate"`     // frames per second
	FixedDeltaMs int `yaml:"fixed_delta_ms"` // fixed-step interval

	Metrics Metrics `yaml:"metrics"`
}

// Profiler configures the per-observer profiler.
type Profiler struct {
	Enabled bool `yaml:"enabled"`
	// Window is the rolling-average window in samples; clamped to a
	// minimum of 1 (1 reports the latest sample).
	Window int `yaml:"window"`
}

// Metrics configures the prometheus endpoint of the demo host.
type Metrics struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// Default returns the kernel config with sensible defaults.
func Default() Kernel {
	return Kernel{
		LogLevel: "info",
		Profiler: Profiler{
			Enabled: true,
			Window:  60,
		},
		ReadyPolicy:  "self",
		FrameRate:    60,
		FixedDeltaMs: 20,
		Metrics: Metrics{
			Enabled: true,
			Addr:    "127.0.0.1:9100",
		},
	}
}

// Load reads a YAML config file over the defaults.
func Load(path string) (Kernel, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
