package locomotion

import (
	gomath "math"

	"github.com/Faultbox/footfall/internal/rig"
	"github.com/Faultbox/footfall/pkg/math"
)

// Input is one frame of player intent.
type Input struct {
	Axes       math.Vec2 // X horizontal, Y vertical, each in [-1, 1]
	CrouchDown bool      // crouch key pressed this frame
	RunHeld    bool
	JumpDown   bool      // jump key pressed this frame
	Facing     math.Vec3 // desired facing direction
}

// InputSource produces the input for a point in time, in seconds since the
// start of the run.
type InputSource interface {
	Sample(t float32) Input
}

// GaitConfig holds input-to-gait tuning.
type GaitConfig struct {
	Acceleration  float32 `yaml:"acceleration"`    // damping clock multiplier
	DampTime      float32 `yaml:"damp_time"`       // seconds to settle a gait float
	RotationSpeed float32 `yaml:"rotation_speed"`  // per-frame slerp factor toward the facing
	WalkAxisLimit float32 `yaml:"walk_axis_limit"` // axis clamp while not running
}

// DefaultGaitConfig returns the standard tuning.
func DefaultGaitConfig() GaitConfig {
	return GaitConfig{
		Acceleration:  5,
		DampTime:      0.5,
		RotationSpeed: 0.1,
		WalkAxisLimit: 0.5,
	}
}

// GaitState is the gait after an update.
type GaitState struct {
	Moving     bool
	Crouching  bool
	Running    bool
	Falling    bool
	Jumped     bool
	Vertical   float32 // damped
	Horizontal float32 // damped
}

// Gait turns input into root orientation and rig parameters. It is the only
// writer of root.Rotation.
type Gait struct {
	cfg    GaitConfig
	root   *math.Transform
	params rig.Params

	crouching bool
	state     GaitState

	vertical   damper
	horizontal damper
}

// NewGait creates a gait controller writing to params.
func NewGait(cfg GaitConfig, root *math.Transform, params rig.Params) *Gait {
	return &Gait{cfg: cfg, root: root, params: params}
}

// State returns the state from the last Update.
func (g *Gait) State() GaitState { return g.state }

// Update consumes one frame of input. falling is the follower's fall state.
func (g *Gait) Update(in Input, falling bool, dt float32) GaitState {
	if in.CrouchDown {
		g.crouching = !g.crouching
	}
	running := in.RunHeld

	vertical, horizontal := in.Axes.Y, in.Axes.X
	if !running {
		lim := g.cfg.WalkAxisLimit
		vertical = math.Clamp(vertical, -lim, lim)
		horizontal = math.Clamp(horizontal, -lim, lim)
	}
	magnitude := vertical*vertical + horizontal*horizontal
	moving := magnitude != 0

	if magnitude > 0 && vertical != 0 {
		facing := in.Facing.Flatten().Normalize()
		if facing.LengthSq() > 0 {
			target := math.LookRotation(facing)
			g.root.Rotation = g.root.Rotation.Slerp(target, g.cfg.RotationSpeed).Normalize()
		}
	}

	if in.JumpDown {
		g.params.SetTrigger(rig.TriggerJump)
	}

	step := dt * g.cfg.Acceleration
	g.state = GaitState{
		Moving:     moving,
		Crouching:  g.crouching,
		Running:    running,
		Falling:    falling,
		Jumped:     in.JumpDown,
		Vertical:   g.vertical.update(vertical, g.cfg.DampTime, step),
		Horizontal: g.horizontal.update(horizontal, g.cfg.DampTime, step),
	}

	g.params.SetBool(rig.ParamMoving, g.state.Moving)
	g.params.SetBool(rig.ParamCrouching, g.state.Crouching)
	g.params.SetBool(rig.ParamRunning, g.state.Running)
	g.params.SetBool(rig.ParamFalling, g.state.Falling)
	g.params.SetFloat(rig.ParamVertical, g.state.Vertical)
	g.params.SetFloat(rig.ParamHorizontal, g.state.Horizontal)
	return g.state
}

// damper is a critically damped spring toward a moving target.
type damper struct {
	value    float32
	velocity float32
}

func (d *damper) update(target, dampTime, dt float32) float32 {
	if dt <= 0 {
		return d.value
	}
	if dampTime <= 0 {
		d.value, d.velocity = target, 0
		return d.value
	}

	omega := 2 / dampTime
	x := omega * dt
	decay := float32(1 / (1 + float64(x) + 0.48*float64(x*x) + 0.235*float64(x*x*x)))
	change := d.value - target
	temp := (d.velocity + omega*change) * dt
	d.velocity = (d.velocity - omega*temp) * decay
	out := target + (change+temp)*decay

	// Never overshoot the target.
	if (target-d.value > 0) == (out > target) {
		out = target
		d.velocity = 0
	}
	if gomath.IsNaN(float64(out)) {
		out, d.velocity = target, 0
	}
	d.value = out
	return out
}
