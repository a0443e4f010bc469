// Package trace records per-frame character telemetry and summarizes it.
package trace

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gopkg.in/yaml.v3"
)

// Sample is the character state at the end of one frame.
type Sample struct {
	Time        float32
	Tick        int
	RootX       float32
	RootY       float32
	RootZ       float32
	Yaw         float32
	Floor       float32
	DstToGround float32
	State       string
	Landed      bool

	HipApplied bool
	HipOffset  float32
	HipY       float32

	LeftContact  bool
	RightContact bool
	LeftGoalY    float32
	RightGoalY   float32

	Vertical   float32
	Horizontal float32
}

// Recorder collects samples for one run.
type Recorder struct {
	runID   string
	scene   string
	samples []Sample
	base    *zap.Logger
	log     *zap.Logger
}

// NewRecorder creates a recorder with a fresh run id.
func NewRecorder(scene string, log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Recorder{base: log}
	r.Reset(scene)
	return r
}

// RunID returns the run's unique id.
func (r *Recorder) RunID() string { return r.runID }

// Record appends a sample.
func (r *Recorder) Record(s Sample) {
	if s.Landed {
		r.log.Debug("landing recorded", zap.Float32("t", s.Time), zap.Float32("y", s.RootY))
	}
	r.samples = append(r.samples, s)
}

// Len returns the number of samples.
func (r *Recorder) Len() int { return len(r.samples) }

// Samples returns a copy of the recorded samples.
func (r *Recorder) Samples() []Sample {
	return append([]Sample(nil), r.samples...)
}

// Reset drops all samples and starts a new run of scene with a fresh run
// id.
func (r *Recorder) Reset(scene string) {
	r.samples = r.samples[:0]
	r.scene = scene
	r.runID = uuid.New().String()
	r.log = r.base.With(zap.String("run_id", r.runID))
}

// Stats describes one series.
type Stats struct {
	Mean   float64 `yaml:"mean"`
	StdDev float64 `yaml:"stddev"`
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
}

func statsOf(xs []float64) Stats {
	if len(xs) == 0 {
		return Stats{}
	}
	mean, std := stat.MeanStdDev(xs, nil)
	if len(xs) < 2 {
		std = 0
	}
	return Stats{Mean: mean, StdDev: std, Min: floats.Min(xs), Max: floats.Max(xs)}
}

// Summary aggregates a run.
type Summary struct {
	RunID         string  `yaml:"run_id"`
	Scene         string  `yaml:"scene"`
	Frames        int     `yaml:"frames"`
	Ticks         int     `yaml:"ticks"`
	Duration      float32 `yaml:"duration"`
	Landings      int     `yaml:"landings"`
	FallingFrames int     `yaml:"falling_frames"`
	HipFrames     int     `yaml:"hip_frames"`

	RootY     Stats `yaml:"root_y"`
	HipOffset Stats `yaml:"hip_offset"`

	LeftContact  float64 `yaml:"left_contact"`  // fraction of frames
	RightContact float64 `yaml:"right_contact"` // fraction of frames
	FinalY       float32 `yaml:"final_y"`
}

// Summary computes the run summary.
func (r *Recorder) Summary() Summary {
	sum := Summary{RunID: r.runID, Scene: r.scene, Frames: len(r.samples)}
	if len(r.samples) == 0 {
		return sum
	}

	rootY := make([]float64, 0, len(r.samples))
	var hip []float64
	left, right := 0, 0
	for _, s := range r.samples {
		rootY = append(rootY, float64(s.RootY))
		if s.HipApplied {
			hip = append(hip, float64(s.HipOffset))
		}
		if s.Landed {
			sum.Landings++
		}
		if s.State == "falling" {
			sum.FallingFrames++
		}
		if s.LeftContact {
			left++
		}
		if s.RightContact {
			right++
		}
	}

	last := r.samples[len(r.samples)-1]
	sum.Ticks = last.Tick
	sum.Duration = last.Time
	sum.FinalY = last.RootY
	sum.HipFrames = len(hip)
	sum.RootY = statsOf(rootY)
	sum.HipOffset = statsOf(hip)
	sum.LeftContact = float64(left) / float64(len(r.samples))
	sum.RightContact = float64(right) / float64(len(r.samples))
	return sum
}

// Fields returns the summary as log fields.
func (s Summary) Fields() []zap.Field {
	return []zap.Field{
		zap.String("run_id", s.RunID),
		zap.Int("frames", s.Frames),
		zap.Int("ticks", s.Ticks),
		zap.Int("landings", s.Landings),
		zap.Int("falling_frames", s.FallingFrames),
		zap.Float64("root_y_mean", s.RootY.Mean),
		zap.Float64("root_y_min", s.RootY.Min),
		zap.Float64("hip_offset_mean", s.HipOffset.Mean),
		zap.Float64("left_contact", s.LeftContact),
		zap.Float64("right_contact", s.RightContact),
		zap.Float32("final_y", s.FinalY),
	}
}

// WriteSummary writes the summary as YAML.
func WriteSummary(path string, s Summary) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}
