// Package sim drives a character through fixed ticks and frames in a fixed
// order.
package sim

// System is one step of the update loop.
type System interface {
	Update(dt float32)
}

// SystemFunc adapts a function to System.
type SystemFunc func(dt float32)

// Update implements System.
func (f SystemFunc) Update(dt float32) { f(dt) }

// Stage selects when a system runs.
type Stage int

// Stages in execution order.
const (
	// FixedStage runs once per fixed tick, zero or more times per frame.
	FixedStage Stage = iota
	// FrameStage runs once per frame after all fixed ticks.
	FrameStage
	// IKStage runs once per frame after FrameStage.
	IKStage
)

// String returns the stage name.
func (s Stage) String() string {
	switch s {
	case FixedStage:
		return "fixed"
	case FrameStage:
		return "frame"
	case IKStage:
		return "ik"
	default:
		return "unknown"
	}
}

// DefaultMaxTicksPerFrame bounds catch-up after a long frame.
const DefaultMaxTicksPerFrame = 8

// Scheduler runs systems with a fixed-step accumulator.
type Scheduler struct {
	step     float64
	maxTicks int
	acc      float64

	stages [3][]System

	ticks  int
	frames int
}

// NewScheduler creates a scheduler ticking tickRate times per second.
func NewScheduler(tickRate float32) *Scheduler {
	if tickRate <= 0 {
		tickRate = 50
	}
	return &Scheduler{step: 1 / float64(tickRate), maxTicks: DefaultMaxTicksPerFrame}
}

// SetMaxTicksPerFrame changes the catch-up bound. Values below 1 are
// ignored.
func (s *Scheduler) SetMaxTicksPerFrame(n int) {
	if n >= 1 {
		s.maxTicks = n
	}
}

// Step returns the fixed tick length in seconds.
func (s *Scheduler) Step() float32 { return float32(s.step) }

// Add appends a system to a stage. Systems in a stage run in the order they
// were added.
func (s *Scheduler) Add(stage Stage, sys System) {
	if sys == nil || stage < FixedStage || stage > IKStage {
		return
	}
	s.stages[stage] = append(s.stages[stage], sys)
}

// Systems returns a copy of a stage's systems.
func (s *Scheduler) Systems(stage Stage) []System {
	if stage < FixedStage || stage > IKStage {
		return nil
	}
	return append([]System(nil), s.stages[stage]...)
}

// Ticks returns the number of fixed ticks run so far.
func (s *Scheduler) Ticks() int { return s.ticks }

// Frames returns the number of frames run so far.
func (s *Scheduler) Frames() int { return s.frames }

// Frame advances the simulation by dt seconds and returns how many fixed
// ticks ran. Time beyond the catch-up bound is dropped.
func (s *Scheduler) Frame(dt float32) int {
	if dt > 0 {
		s.acc += float64(dt)
	}

	// Tolerate float error so a frame of exactly one step always ticks.
	const eps = 1e-9
	n := 0
	for s.acc+eps >= s.step && n < s.maxTicks {
		for _, sys := range s.stages[FixedStage] {
			sys.Update(float32(s.step))
		}
		s.acc -= s.step
		n++
	}
	if s.acc+eps >= s.step || s.acc < 0 {
		s.acc = 0
	}
	s.ticks += n

	for _, sys := range s.stages[FrameStage] {
		sys.Update(dt)
	}
	for _, sys := range s.stages[IKStage] {
		sys.Update(dt)
	}
	s.frames++
	return n
}
