package sim

import (
	"go.uber.org/zap"

	"github.com/Faultbox/footfall/internal/ground"
	"github.com/Faultbox/footfall/internal/ik"
	"github.com/Faultbox/footfall/internal/locomotion"
	"github.com/Faultbox/footfall/internal/rig"
	"github.com/Faultbox/footfall/internal/trace"
	"github.com/Faultbox/footfall/pkg/math"
)

// CharacterConfig bundles the tuning of every character component.
type CharacterConfig struct {
	Locomotion locomotion.Config
	Gait       locomotion.GaitConfig
	IK         ik.Config
	Puppet     rig.PuppetConfig
}

// DefaultCharacterConfig returns the standard tuning.
func DefaultCharacterConfig() CharacterConfig {
	return CharacterConfig{
		Locomotion: locomotion.DefaultConfig(),
		Gait:       locomotion.DefaultGaitConfig(),
		IK:         ik.DefaultConfig(),
		Puppet:     rig.DefaultPuppetConfig(),
	}
}

// Character owns a root transform and the components that move it.
//
// The follower writes the root position, the gait writes the root rotation,
// and the solver and rig only read the root.
type Character struct {
	root math.Transform

	Follower *locomotion.Follower
	Gait     *locomotion.Gait
	Solver   *ik.Solver
	Rig      *rig.Puppet

	input locomotion.InputSource
	log   *zap.Logger

	clock    float32
	ticks    int
	lastTick locomotion.TickResult
	landed   bool
}

// NewCharacter builds a character at spawn over caster. input may be nil
// for a character that stands still.
func NewCharacter(cfg CharacterConfig, caster ground.Caster, spawn math.Transform, input locomotion.InputSource, log *zap.Logger) *Character {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Character{root: spawn, input: input, log: log}
	c.Rig = rig.NewPuppet(cfg.Puppet, &c.root)
	c.Follower = locomotion.NewFollower(cfg.Locomotion, caster, &c.root, log.Named("follower"))
	c.Gait = locomotion.NewGait(cfg.Gait, &c.root, c.Rig)
	c.Solver = ik.NewSolver(cfg.IK, caster, c.Rig, log.Named("ik"))
	return c
}

// Root returns a copy of the root transform.
func (c *Character) Root() math.Transform { return c.root }

// Clock returns the simulated time in seconds.
func (c *Character) Clock() float32 { return c.clock }

// Register adds the character's systems to s: follower then foot sampling on
// the fixed tick, gait and animation on the frame, then hip and foot IK and
// the rig's IK pass.
func (c *Character) Register(s *Scheduler) {
	s.Add(FixedStage, SystemFunc(c.fixedTick))
	s.Add(FrameStage, SystemFunc(c.frame))
	s.Add(IKStage, SystemFunc(c.resolveIK))
}

func (c *Character) fixedTick(float32) {
	c.lastTick = c.Follower.Tick()
	c.ticks++
	if c.lastTick.Landed {
		c.Rig.SetTrigger(rig.TriggerLanding)
		c.landed = true
	}
	c.Solver.Sample(c.root)
}

func (c *Character) frame(dt float32) {
	var in locomotion.Input
	if c.input != nil {
		in = c.input.Sample(c.clock)
	}
	c.Gait.Update(in, c.Follower.Falling(), dt)
	c.Follower.Translate(c.Rig.RootMotion(dt))
	c.Rig.Animate(dt)
	c.clock += dt
}

func (c *Character) resolveIK(float32) {
	c.Solver.Resolve(c.root)
	c.Rig.ApplyIK()
}

// Snapshot returns the character state at the end of the frame and clears
// the frame's landing flag.
func (c *Character) Snapshot() trace.Sample {
	hip := c.Solver.Hip()
	gait := c.Gait.State()
	final := c.Rig.Final()
	s := trace.Sample{
		Time:         c.clock,
		Tick:         c.ticks,
		RootX:        c.root.Position.X,
		RootY:        c.root.Position.Y,
		RootZ:        c.root.Position.Z,
		Yaw:          c.root.Rotation.Yaw(),
		Floor:        c.lastTick.Floor,
		DstToGround:  c.lastTick.DstToGround,
		State:        c.Follower.State().String(),
		Landed:       c.landed,
		HipApplied:   hip.Applied,
		HipOffset:    hip.Offset,
		HipY:         final.Pelvis.Y,
		LeftContact:  c.Solver.Foot(rig.LeftFootGoal).Last.Contact,
		RightContact: c.Solver.Foot(rig.RightFootGoal).Last.Contact,
		LeftGoalY:    final.LeftFoot.Y,
		RightGoalY:   final.RightFoot.Y,
		Vertical:     gait.Vertical,
		Horizontal:   gait.Horizontal,
	}
	c.landed = false
	return s
}
