// Package ik places a biped's feet on uneven ground and lowers the pelvis to
// keep both feet reachable.
//
// The solver runs in two phases. Sample casts one probe per foot on the
// fixed tick, after the root has been moved. Resolve runs once per frame,
// before the rig resolves IK, and writes smoothed foot goals and the pelvis
// position.
package ik

import (
	"go.uber.org/zap"

	"github.com/Faultbox/footfall/internal/ground"
	"github.com/Faultbox/footfall/internal/rig"
	"github.com/Faultbox/footfall/pkg/math"
)

// Config holds foot and hip IK tuning.
type Config struct {
	StepUp    float32 `yaml:"step_up"`    // probe start above the root
	StepDown  float32 `yaml:"step_down"`  // probe reach below the root
	HipOffset float32 `yaml:"hip_offset"` // added to each foot hit height
	HipSpeed  float32 `yaml:"hip_speed"`  // pelvis smoothing factor per frame
	FootSpeed float32 `yaml:"foot_speed"` // foot height smoothing factor per frame

	LeftFootCurve  string `yaml:"left_foot_curve"`
	RightFootCurve string `yaml:"right_foot_curve"`

	Enabled bool `yaml:"enabled"`

	// Mask selects the environment layers the feet stand on.
	Mask ground.LayerMask `yaml:"-"`
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		StepUp:         0.55,
		StepDown:       0.55,
		HipOffset:      0,
		HipSpeed:       0.28,
		FootSpeed:      0.18,
		LeftFootCurve:  rig.CurveRotateLeftFoot,
		RightFootCurve: rig.CurveRotateRightFoot,
		Enabled:        true,
		Mask:           ground.AllLayers,
	}
}

// FootSample is the outcome of one foot probe.
type FootSample struct {
	Contact  bool
	Position math.Vec3 // probe X/Z at hit height plus HipOffset
	Rotation math.Quat // up mapped onto the hit normal, then the root rotation
	Normal   math.Vec3
}

// Foot is the solver's record for one foot.
type Foot struct {
	Goal   rig.Goal
	Curve  string
	Probe  math.Vec3  // origin of the last probe
	Last   FootSample // last probe result
	Target FootSample // last probe with contact, frozen while contact is lost
	LastY  float32    // last applied local height offset
	Misses int        // consecutive probes without contact
}

// HipState describes the last pelvis adjustment.
type HipState struct {
	Applied bool    // false on a reseed frame
	Offset  float32 // lower of the two foot offsets from the root
	Y       float32 // smoothed pelvis height
}

// Solver is the foot and hip IK solver for one character.
type Solver struct {
	cfg    Config
	caster ground.Caster
	driver rig.Driver
	log    *zap.Logger

	feet [2]Foot

	hasHip bool
	hip    HipState
}

// NewSolver creates a solver that probes caster and drives driver. A nil
// log discards output.
func NewSolver(cfg Config, caster ground.Caster, driver rig.Driver, log *zap.Logger) *Solver {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Solver{cfg: cfg, caster: caster, driver: driver, log: log}
	s.feet[rig.LeftFootGoal] = Foot{Goal: rig.LeftFootGoal, Curve: cfg.LeftFootCurve}
	s.feet[rig.RightFootGoal] = Foot{Goal: rig.RightFootGoal, Curve: cfg.RightFootCurve}
	return s
}

// Config returns the solver's tuning.
func (s *Solver) Config() Config { return s.cfg }

// SetEnabled turns goal writes on or off. Sampling continues while disabled.
func (s *Solver) SetEnabled(on bool) { s.cfg.Enabled = on }

// Enabled reports whether Resolve writes to the rig.
func (s *Solver) Enabled() bool { return s.cfg.Enabled }

// Foot returns the record for a foot.
func (s *Solver) Foot(g rig.Goal) Foot { return s.feet[g] }

// Hip returns the last pelvis adjustment.
func (s *Solver) Hip() HipState { return s.hip }

// Probe returns the probe origin for a foot: the foot bone's X/Z at StepUp
// above the root.
func (s *Solver) Probe(g rig.Goal, root math.Transform) math.Vec3 {
	p := s.driver.BonePosition(g.Bone())
	p.Y = root.Position.Y + s.cfg.StepUp
	return p
}

// SampleFoot casts down from probe over StepUp+StepDown against the
// environment layers.
func (s *Solver) SampleFoot(probe math.Vec3, root math.Transform) FootSample {
	hit, ok := s.caster.Cast(probe, math.Down(), s.cfg.StepUp+s.cfg.StepDown, s.cfg.Mask)
	if !ok {
		return FootSample{}
	}
	pos := probe
	pos.Y = hit.Point.Y + s.cfg.HipOffset
	return FootSample{
		Contact:  true,
		Position: pos,
		Rotation: math.FromToRotation(math.Up(), hit.Normal).Mul(root.Rotation),
		Normal:   hit.Normal,
	}
}

// Sample probes the right foot then the left foot. A foot that misses keeps
// its previous target.
func (s *Solver) Sample(root math.Transform) {
	for _, g := range [...]rig.Goal{rig.RightFootGoal, rig.LeftFootGoal} {
		f := &s.feet[g]
		f.Probe = s.Probe(g, root)
		sample := s.SampleFoot(f.Probe, root)

		if sample.Contact != f.Last.Contact {
			s.log.Debug("foot contact changed",
				zap.Stringer("foot", g),
				zap.Bool("contact", sample.Contact))
		}
		f.Last = sample
		if sample.Contact {
			f.Target = sample
			f.Misses = 0
		} else {
			f.Misses++
		}
	}
}

// Resolve moves the pelvis, then writes the right and left foot goals.
func (s *Solver) Resolve(root math.Transform) {
	if !s.cfg.Enabled {
		return
	}
	s.moveHip(root)
	for _, g := range [...]rig.Goal{rig.RightFootGoal, rig.LeftFootGoal} {
		f := &s.feet[g]
		s.driver.SetIKPositionWeight(g, 1)
		s.driver.SetIKRotationWeight(g, s.driver.Curve(f.Curve))
		s.moveFoot(f, root)
	}
}

// moveHip lowers the pelvis by the lower foot offset, smoothed against the
// previous pelvis height. Without contact on both feet, or on the first
// frame, it only reseeds the history from the rig.
func (s *Solver) moveHip(root math.Transform) {
	left, right := s.feet[rig.LeftFootGoal].Last, s.feet[rig.RightFootGoal].Last
	body := s.driver.BodyPosition()

	if !left.Contact || !right.Contact || !s.hasHip {
		s.hip = HipState{Y: body.Y}
		s.hasHip = true
		return
	}

	lOffset := left.Position.Y - root.Position.Y
	rOffset := right.Position.Y - root.Position.Y
	offset := lOffset
	if rOffset < offset {
		offset = rOffset
	}

	pelvis := body.Add(math.Up().Scale(offset))
	pelvis.Y = math.Lerp(s.hip.Y, pelvis.Y, s.cfg.HipSpeed)
	s.driver.SetBodyPosition(pelvis)

	s.hip = HipState{Applied: true, Offset: offset, Y: pelvis.Y}
}

// moveFoot raises the rig's goal by the smoothed local target height.
// Without contact the last smoothed height is held, so the goal keeps its
// offset from the animated pose instead of snapping back to it.
func (s *Solver) moveFoot(f *Foot, root math.Transform) {
	goalLocal := root.InverseTransformPoint(s.driver.IKPosition(f.Goal))

	if f.Last.Contact {
		targetLocal := root.InverseTransformPoint(f.Target.Position)
		f.LastY = math.Lerp(f.LastY, targetLocal.Y, s.cfg.FootSpeed)
		s.driver.SetIKRotation(f.Goal, f.Target.Rotation)
	}
	goalLocal.Y += f.LastY

	s.driver.SetIKPosition(f.Goal, root.TransformPoint(goalLocal))
}
