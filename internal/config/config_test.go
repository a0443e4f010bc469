package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Faultbox/footfall/internal/locomotion"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test simulation defaults
	if cfg.Simulation.Duration != 8*time.Second {
		t.Errorf("expected duration 8s, got %v", cfg.Simulation.Duration)
	}
	if cfg.Simulation.FrameRate != 60 {
		t.Errorf("expected frame rate 60, got %v", cfg.Simulation.FrameRate)
	}
	if cfg.Simulation.Watch {
		t.Error("expected watch to be false by default")
	}
	if cfg.Simulation.MaxTicksPerFrame != 8 {
		t.Errorf("expected max ticks per frame 8, got %d", cfg.Simulation.MaxTicksPerFrame)
	}

	// Test locomotion defaults
	if cfg.Locomotion.TickRate != 50 {
		t.Errorf("expected tick rate 50, got %v", cfg.Locomotion.TickRate)
	}
	if cfg.Locomotion.StepHeight != 0.55 {
		t.Errorf("expected step height 0.55, got %v", cfg.Locomotion.StepHeight)
	}
	if cfg.Locomotion.MissPolicy != locomotion.MissAsZeroDistance {
		t.Errorf("expected zero distance miss policy, got %v", cfg.Locomotion.MissPolicy)
	}

	// Test IK defaults
	if !cfg.IK.Enabled {
		t.Error("expected IK to be enabled by default")
	}
	if cfg.IK.HipSpeed != 0.28 {
		t.Errorf("expected hip speed 0.28, got %v", cfg.IK.HipSpeed)
	}

	// Test output defaults
	if cfg.Output.Dir != "out" {
		t.Errorf("expected output dir 'out', got %s", cfg.Output.Dir)
	}
	if !cfg.Output.Summary {
		t.Error("expected summary to be enabled by default")
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	yamlContent := `
simulation:
  scene: "scenes/hills.yaml"
  duration: 12s
  frame_rate: 30

layers:
  ground: ["terrain"]
  environment: ["terrain", "props"]

locomotion:
  tick_rate: 100
  step_height: 0.4
  miss_policy: unbounded

ik:
  hip_offset: 0.02
  enabled: false

output:
  dir: "runs"
  plots: true

logging:
  level: "debug"
  log_file: "footfall.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Simulation.Scene != "scenes/hills.yaml" {
		t.Errorf("expected scene scenes/hills.yaml, got %s", cfg.Simulation.Scene)
	}
	if cfg.Simulation.Duration != 12*time.Second {
		t.Errorf("expected duration 12s, got %v", cfg.Simulation.Duration)
	}
	if cfg.Simulation.FrameRate != 30 {
		t.Errorf("expected frame rate 30, got %v", cfg.Simulation.FrameRate)
	}

	if len(cfg.Layers.Environment) != 2 || cfg.Layers.Environment[1] != "props" {
		t.Errorf("expected environment layers [terrain props], got %v", cfg.Layers.Environment)
	}

	if cfg.Locomotion.TickRate != 100 {
		t.Errorf("expected tick rate 100, got %v", cfg.Locomotion.TickRate)
	}
	if cfg.Locomotion.MissPolicy != locomotion.MissAsUnbounded {
		t.Errorf("expected unbounded miss policy, got %v", cfg.Locomotion.MissPolicy)
	}
	// Untouched keys keep their defaults
	if cfg.Locomotion.Gravity != 9.8 {
		t.Errorf("expected gravity 9.8, got %v", cfg.Locomotion.Gravity)
	}

	if cfg.IK.Enabled {
		t.Error("expected IK to be disabled")
	}
	if cfg.IK.StepUp != 0.55 {
		t.Errorf("expected step up 0.55, got %v", cfg.IK.StepUp)
	}

	if cfg.Output.Dir != "runs" || !cfg.Output.Plots {
		t.Errorf("expected output runs with plots, got %+v", cfg.Output)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "footfall.log" {
		t.Errorf("expected log file 'footfall.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	// Create temporary config file with invalid YAML
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
locomotion:
  tick_rate: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Try to load - should error
	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileBadPolicy(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	if err := os.WriteFile(configPath, []byte("locomotion:\n  miss_policy: hover\n"), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err == nil {
		t.Error("expected error for unknown miss policy, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/footfall.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{"zero tick rate", func(c *Config) { c.Locomotion.TickRate = 0 }},
		{"negative step height", func(c *Config) { c.Locomotion.StepHeight = -0.1 }},
		{"step speed above one", func(c *Config) { c.Locomotion.StepSpeed = 1.5 }},
		{"negative hip speed", func(c *Config) { c.IK.HipSpeed = -0.1 }},
		{"foot speed above one", func(c *Config) { c.IK.FootSpeed = 2 }},
		{"zero frame rate", func(c *Config) { c.Simulation.FrameRate = 0 }},
		{"zero duration", func(c *Config) { c.Simulation.Duration = 0 }},
		{"zero max ticks per frame", func(c *Config) { c.Simulation.MaxTicksPerFrame = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	// Save current directory
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	// Keep the user's real config out of the search
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	// Create temp directory and change to it
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create footfall.yaml in current directory
	configPath := filepath.Join(tmpDir, FileName)
	if err := os.WriteFile(configPath, []byte("simulation:\n  frame_rate: 30\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if path == "" {
		t.Error("expected to find footfall.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config)
		teardown func()
		wantErr  bool
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "scene and duration flags",
			setup: func() {
				*flagScene = "scenes/drop.yaml"
				*flagDuration = 3 * time.Second
			},
			verify: func(cfg *Config) {
				if cfg.Simulation.Scene != "scenes/drop.yaml" {
					t.Errorf("expected scene scenes/drop.yaml, got %s", cfg.Simulation.Scene)
				}
				if cfg.Simulation.Duration != 3*time.Second {
					t.Errorf("expected duration 3s, got %v", cfg.Simulation.Duration)
				}
			},
			teardown: func() {
				*flagScene = ""
				*flagDuration = 0
			},
		},
		{
			name: "output flags",
			setup: func() {
				*flagOut = "/tmp/footfall"
				*flagPlots = true
			},
			verify: func(cfg *Config) {
				if cfg.Output.Dir != "/tmp/footfall" {
					t.Errorf("expected out /tmp/footfall, got %s", cfg.Output.Dir)
				}
				if !cfg.Output.Plots {
					t.Error("expected plots to be enabled with plots flag")
				}
			},
			teardown: func() {
				*flagOut = ""
				*flagPlots = false
			},
		},
		{
			name: "watch flag",
			setup: func() {
				*flagWatch = true
			},
			verify: func(cfg *Config) {
				if !cfg.Simulation.Watch {
					t.Error("expected watch to be enabled with watch flag")
				}
			},
			teardown: func() {
				*flagWatch = false
			},
		},
		{
			name: "no-ik flag",
			setup: func() {
				*flagNoIK = true
			},
			verify: func(cfg *Config) {
				if cfg.IK.Enabled {
					t.Error("expected IK to be disabled with no-ik flag")
				}
			},
			teardown: func() {
				*flagNoIK = false
			},
		},
		{
			name: "miss policy flag",
			setup: func() {
				*flagMiss = "unbounded"
			},
			verify: func(cfg *Config) {
				if cfg.Locomotion.MissPolicy != locomotion.MissAsUnbounded {
					t.Errorf("expected unbounded miss policy, got %v", cfg.Locomotion.MissPolicy)
				}
			},
			teardown: func() {
				*flagMiss = ""
			},
		},
		{
			name: "bad miss policy flag",
			setup: func() {
				*flagMiss = "hover"
			},
			verify:   func(*Config) {},
			teardown: func() { *flagMiss = "" },
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			tt.setup()
			defer tt.teardown()

			// Apply flags to default config
			cfg := Default()
			err := applyFlags(cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("applyFlags error = %v, wantErr %v", err, tt.wantErr)
			}

			// Verify
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, FileName)

	yamlContent := `
simulation:
  scene: "scenes/hills.yaml"
  duration: 20s
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Set flag to override config file
	*flagConfig = configPath
	*flagDuration = 5 * time.Second
	defer func() {
		*flagConfig = ""
		*flagDuration = 0
	}()

	// Load config
	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Duration should be from flag (5s), not file (20s)
	if cfg.Simulation.Duration != 5*time.Second {
		t.Errorf("expected duration 5s from flag, got %v", cfg.Simulation.Duration)
	}

	// Scene should be from file since no flag override
	if cfg.Simulation.Scene != "scenes/hills.yaml" {
		t.Errorf("expected scene from file, got %s", cfg.Simulation.Scene)
	}
}

func TestSaveTo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)

	cfg := Default()
	cfg.Locomotion.MissPolicy = locomotion.MissAsUnbounded
	cfg.Output.Plots = true
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload saved config: %v", err)
	}
	if loaded.Locomotion.MissPolicy != locomotion.MissAsUnbounded {
		t.Errorf("expected unbounded miss policy after reload, got %v", loaded.Locomotion.MissPolicy)
	}
	if !loaded.Output.Plots {
		t.Error("expected plots to survive save and reload")
	}
}

func TestCharacter(t *testing.T) {
	cfg := Default()
	cfg.IK.HipOffset = 0.03

	cc := cfg.Character()
	if cc.IK.HipOffset != 0.03 {
		t.Errorf("expected hip offset 0.03, got %v", cc.IK.HipOffset)
	}
	if cc.Locomotion.TickRate != cfg.Locomotion.TickRate {
		t.Errorf("expected tick rate %v, got %v", cfg.Locomotion.TickRate, cc.Locomotion.TickRate)
	}
}
