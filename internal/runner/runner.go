// Package runner drives a headless simulation of one scene.
package runner

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/Faultbox/footfall/internal/config"
	"github.com/Faultbox/footfall/internal/scene"
	"github.com/Faultbox/footfall/internal/sim"
	"github.com/Faultbox/footfall/internal/trace"
)

// Result is the outcome of one run.
type Result struct {
	Summary trace.Summary
	Files   []string // artifacts written under the output dir
}

// Runner simulates the configured scene. Reruns reuse one recorder, each
// with a fresh run id.
type Runner struct {
	cfg *config.Config
	log *zap.Logger
	rec *trace.Recorder
}

// New creates a runner.
func New(cfg *config.Config, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{cfg: cfg, log: log}
}

// Setup loads the scene and builds a character registered on a fresh
// scheduler.
func (r *Runner) Setup() (*scene.Scene, *sim.Character, *sim.Scheduler, error) {
	sc, err := scene.Load(r.cfg.Simulation.Scene)
	if err != nil {
		return nil, nil, nil, err
	}
	caster, layers, err := sc.Build()
	if err != nil {
		return nil, nil, nil, err
	}

	cc := r.cfg.Character()
	if cc.Locomotion.Mask, err = layers.MaskOf(r.cfg.Layers.Ground...); err != nil {
		return nil, nil, nil, fmt.Errorf("ground layers: %w", err)
	}
	if cc.IK.Mask, err = layers.MaskOf(r.cfg.Layers.Environment...); err != nil {
		return nil, nil, nil, fmt.Errorf("environment layers: %w", err)
	}

	ch := sim.NewCharacter(cc, caster, sc.SpawnTransform(), sc.NewScript(), r.log.With(zap.String("scene", sc.Name)))
	sched := sim.NewScheduler(cc.Locomotion.TickRate)
	sched.SetMaxTicksPerFrame(r.cfg.Simulation.MaxTicksPerFrame)
	ch.Register(sched)

	r.log.Info("scene loaded",
		zap.String("scene", sc.Name),
		zap.Strings("layers", layers.Names()),
		zap.Stringer("miss_policy", cc.Locomotion.MissPolicy),
		zap.Bool("ik", cc.IK.Enabled),
	)
	return sc, ch, sched, nil
}

// Run simulates the scene for the configured duration at a fixed frame
// rate, then writes the requested artifacts. Cancelling ctx stops the run
// early; the partial trace is still summarized.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	sc, ch, sched, err := r.Setup()
	if err != nil {
		return nil, err
	}

	if r.rec == nil {
		r.rec = trace.NewRecorder(sc.Name, r.log)
	} else {
		r.rec.Reset(sc.Name)
	}
	rec := r.rec
	dt := 1 / r.cfg.Simulation.FrameRate
	frames := int(r.cfg.Simulation.Duration.Seconds() * float64(r.cfg.Simulation.FrameRate))

	for i := 0; i < frames; i++ {
		if ctx.Err() != nil {
			r.log.Warn("run interrupted", zap.Int("frame", i))
			break
		}
		sched.Frame(dt)
		rec.Record(ch.Snapshot())
	}

	res := &Result{Summary: rec.Summary()}
	r.log.Info("run finished", res.Summary.Fields()...)

	files, err := r.writeArtifacts(sc.Name, rec, res.Summary)
	res.Files = files
	return res, err
}

func (r *Runner) writeArtifacts(name string, rec *trace.Recorder, sum trace.Summary) ([]string, error) {
	out := r.cfg.Output
	if !out.Summary && !out.Plots {
		return nil, nil
	}
	dir := filepath.Join(out.Dir, name)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var files []string
	if out.Summary {
		path := filepath.Join(dir, "summary.yaml")
		if err := trace.WriteSummary(path, sum); err != nil {
			return files, err
		}
		files = append(files, path)
	}
	if out.Plots {
		plots, err := trace.WritePlots(dir, rec)
		files = append(files, plots...)
		if err != nil {
			return files, err
		}
	}
	for _, f := range files {
		r.log.Debug("wrote artifact", zap.String("path", f))
	}
	return files, nil
}
