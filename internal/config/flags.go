package config

import (
	"flag"
	"fmt"

	"github.com/Faultbox/footfall/internal/locomotion"
)

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagScene    = flag.String("scene", "", "Scene file to simulate")
	flagDuration = flag.Duration("duration", 0, "Simulated time to run")
	flagOut      = flag.String("out", "", "Directory for summaries and plots")
	flagPlots    = flag.Bool("plots", false, "Write PNG plots")
	flagWatch    = flag.Bool("watch", false, "Rerun when the scene file changes")
	flagNoIK     = flag.Bool("no-ik", false, "Disable foot and hip IK")
	flagMiss     = flag.String("miss-policy", "", "Floor miss policy: zero_distance or unbounded")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) error {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagScene != "" {
		cfg.Simulation.Scene = *flagScene
	}
	if *flagDuration > 0 {
		cfg.Simulation.Duration = *flagDuration
	}
	if *flagOut != "" {
		cfg.Output.Dir = *flagOut
	}
	if *flagPlots {
		cfg.Output.Plots = true
	}
	if *flagWatch {
		cfg.Simulation.Watch = true
	}
	if *flagNoIK {
		cfg.IK.Enabled = false
	}
	if *flagMiss != "" {
		var p locomotion.FloorMissPolicy
		if err := p.UnmarshalText([]byte(*flagMiss)); err != nil {
			return fmt.Errorf("-miss-policy: %w", err)
		}
		cfg.Locomotion.MissPolicy = p
	}
	return nil
}
