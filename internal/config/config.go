// Package config handles footfall configuration loading and management.
package config

import (
	"time"

	"github.com/Faultbox/footfall/internal/ik"
	"github.com/Faultbox/footfall/internal/locomotion"
	"github.com/Faultbox/footfall/internal/rig"
	"github.com/Faultbox/footfall/internal/sim"
)

// Config holds all simulation settings.
type Config struct {
	Simulation SimulationConfig      `yaml:"simulation"`
	Layers     LayerConfig           `yaml:"layers"`
	Locomotion locomotion.Config     `yaml:"locomotion"`
	Gait       locomotion.GaitConfig `yaml:"gait"`
	IK         ik.Config             `yaml:"ik"`
	Puppet     rig.PuppetConfig      `yaml:"puppet"`
	Output     OutputConfig          `yaml:"output"`
	Logging    LoggingConfig         `yaml:"logging"`
}

// SimulationConfig holds run settings.
type SimulationConfig struct {
	Scene     string        `yaml:"scene"`
	Duration  time.Duration `yaml:"duration"`
	FrameRate float32       `yaml:"frame_rate"` // frames per second of the headless loop
	Watch     bool          `yaml:"watch"`      // rerun when the scene file changes

	// MaxTicksPerFrame bounds fixed-tick catch-up after a long frame.
	MaxTicksPerFrame int `yaml:"max_ticks_per_frame"`
}

// LayerConfig names the scene layers each component queries. Empty lists
// mean every layer.
type LayerConfig struct {
	Ground      []string `yaml:"ground"`      // layers the follower stands on
	Environment []string `yaml:"environment"` // layers the feet are placed on
}

// OutputConfig holds run artifact settings.
type OutputConfig struct {
	Dir     string `yaml:"dir"`
	Plots   bool   `yaml:"plots"`
	Summary bool   `yaml:"summary"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Scene:            "scenes/stairs.yaml",
			Duration:         8 * time.Second,
			FrameRate:        60,
			Watch:            false,
			MaxTicksPerFrame: sim.DefaultMaxTicksPerFrame,
		},
		Layers: LayerConfig{
			Environment: []string{"environment"},
		},
		Locomotion: locomotion.DefaultConfig(),
		Gait:       locomotion.DefaultGaitConfig(),
		IK:         ik.DefaultConfig(),
		Puppet:     rig.DefaultPuppetConfig(),
		Output: OutputConfig{
			Dir:     "out",
			Plots:   false,
			Summary: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Character returns the character tuning. Layer masks are left for the
// caller to resolve against a scene.
func (c *Config) Character() sim.CharacterConfig {
	return sim.CharacterConfig{
		Locomotion: c.Locomotion,
		Gait:       c.Gait,
		IK:         c.IK,
		Puppet:     c.Puppet,
	}
}
