package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// FileName is the config file name looked up in standard locations.
const FileName = "footfall.yaml"

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	// Start with defaults
	cfg := Default()

	// Try to load from file (explicit path takes priority)
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	// Apply CLI flags (highest priority)
	if err := applyFlags(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the simulation cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.Locomotion.TickRate <= 0:
		return fmt.Errorf("locomotion.tick_rate must be positive, got %v", c.Locomotion.TickRate)
	case c.Locomotion.StepHeight < 0:
		return fmt.Errorf("locomotion.step_height must not be negative, got %v", c.Locomotion.StepHeight)
	case c.Locomotion.StepSpeed < 0 || c.Locomotion.StepSpeed > 1:
		return fmt.Errorf("locomotion.step_speed must be in [0, 1], got %v", c.Locomotion.StepSpeed)
	case c.IK.HipSpeed < 0 || c.IK.HipSpeed > 1:
		return fmt.Errorf("ik.hip_speed must be in [0, 1], got %v", c.IK.HipSpeed)
	case c.IK.FootSpeed < 0 || c.IK.FootSpeed > 1:
		return fmt.Errorf("ik.foot_speed must be in [0, 1], got %v", c.IK.FootSpeed)
	case c.Simulation.FrameRate <= 0:
		return fmt.Errorf("simulation.frame_rate must be positive, got %v", c.Simulation.FrameRate)
	case c.Simulation.MaxTicksPerFrame < 1:
		return fmt.Errorf("simulation.max_ticks_per_frame must be at least 1, got %d", c.Simulation.MaxTicksPerFrame)
	case c.Simulation.Duration <= 0:
		return fmt.Errorf("simulation.duration must be positive, got %v", c.Simulation.Duration)
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./" + FileName,
		filepath.Join(ConfigDir(), FileName),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Footfall")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Footfall")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "footfall")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "footfall")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
