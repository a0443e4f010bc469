// Package locomotion keeps a character root on the ground and turns player
// input into gait parameters for the rig.
package locomotion

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/footfall/internal/ground"
	"github.com/Faultbox/footfall/pkg/math"
)

// GroundedState is the follower's vertical state.
type GroundedState int

// Grounded states.
const (
	Airborne GroundedState = iota
	Falling
	Grounded
)

// String returns the state name.
func (s GroundedState) String() string {
	switch s {
	case Airborne:
		return "airborne"
	case Falling:
		return "falling"
	case Grounded:
		return "grounded"
	default:
		return fmt.Sprintf("GroundedState(%d)", int(s))
	}
}

// FloorMissPolicy decides what distance a floor ray reports when it hits
// nothing.
type FloorMissPolicy int

const (
	// MissAsZeroDistance treats a miss as ground at the ray origin.
	MissAsZeroDistance FloorMissPolicy = iota
	// MissAsUnbounded treats a miss as ground infinitely far below, so the
	// character keeps falling over a void.
	MissAsUnbounded
)

// String returns the policy name used in config files.
func (p FloorMissPolicy) String() string {
	if p == MissAsUnbounded {
		return "unbounded"
	}
	return "zero_distance"
}

// MarshalText implements encoding.TextMarshaler.
func (p FloorMissPolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *FloorMissPolicy) UnmarshalText(text []byte) error {
	switch string(text) {
	case "", "zero_distance", "zero":
		*p = MissAsZeroDistance
	case "unbounded":
		*p = MissAsUnbounded
	default:
		return fmt.Errorf("unknown floor miss policy %q", text)
	}
	return nil
}

func (p FloorMissPolicy) distance() float32 {
	if p == MissAsUnbounded {
		return ground.Unbounded
	}
	return 0
}

// Config holds ground-following tuning.
type Config struct {
	Gravity       float32         `yaml:"gravity"`        // fall distance per second
	TickRate      float32         `yaml:"tick_rate"`      // fixed ticks per second
	StepHeight    float32         `yaml:"step_height"`    // tallest ledge climbed without falling
	StepSpeed     float32         `yaml:"step_speed"`     // per-tick lerp factor toward a higher floor
	GroundedProbe float32         `yaml:"grounded_probe"` // grounded ray start above root and its range
	MissPolicy    FloorMissPolicy `yaml:"miss_policy"`

	// Mask selects the layers the follower stands on.
	Mask ground.LayerMask `yaml:"-"`
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		Gravity:       9.8,
		TickRate:      50,
		StepHeight:    0.55,
		StepSpeed:     0.12,
		GroundedProbe: 1,
		MissPolicy:    MissAsZeroDistance,
		Mask:          ground.AllLayers,
	}
}

// TickResult reports what one fixed tick did.
type TickResult struct {
	Grounded    bool
	Landed      bool // Falling to Grounded edge this tick
	Fell        bool // took the gravity branch
	Floor       float32
	DstToGround float32
	State       GroundedState
}

// Follower owns the root position. It is the only writer of
// root.Position.
type Follower struct {
	cfg    Config
	caster ground.Caster
	root   *math.Transform
	log    *zap.Logger

	grounded    bool
	falling     bool
	dstToGround float32
	landings    int
}

// NewFollower creates a follower that moves root over the geometry of
// caster. A nil log discards output.
func NewFollower(cfg Config, caster ground.Caster, root *math.Transform, log *zap.Logger) *Follower {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 50
	}
	return &Follower{cfg: cfg, caster: caster, root: root, log: log}
}

// Config returns the follower's tuning.
func (f *Follower) Config() Config { return f.cfg }

// Root returns the transform the follower writes.
func (f *Follower) Root() *math.Transform { return f.root }

// Grounded reports the result of the last grounded check.
func (f *Follower) Grounded() bool { return f.grounded }

// Falling reports whether the character is in a fall deeper than the step
// height.
func (f *Follower) Falling() bool { return f.falling }

// Landings returns how many landing cues have been emitted.
func (f *Follower) Landings() int { return f.landings }

// State returns the current grounded state.
func (f *Follower) State() GroundedState {
	switch {
	case f.grounded:
		return Grounded
	case f.falling:
		return Falling
	default:
		return Airborne
	}
}

// Tick runs one fixed step: grounded check, floor search, then vertical
// integration.
func (f *Follower) Tick() TickResult {
	var res TickResult

	f.grounded = f.checkGrounded()
	if f.grounded {
		if f.falling {
			res.Landed = true
			f.landings++
			f.log.Debug("landed", zap.Float32("y", f.root.Position.Y))
		}
		f.falling = false
	}

	y := f.root.Position.Y
	floor, dst := f.FindFloor()
	f.dstToGround = dst

	switch {
	case floor < y && !f.grounded:
		f.root.Position.Y -= f.cfg.Gravity / f.cfg.TickRate
		res.Fell = true
		if f.dstToGround > f.cfg.StepHeight && !f.falling {
			f.falling = true
			f.log.Debug("falling",
				zap.Float32("y", y),
				zap.Float32("dst_to_ground", f.dstToGround))
		}
	case floor > y:
		f.root.Position.Y = math.Lerp(y, floor, f.cfg.StepSpeed)
	}

	res.Grounded = f.grounded
	res.Floor = floor
	res.DstToGround = dst
	res.State = f.State()
	return res
}

// checkGrounded casts a short ray down from GroundedProbe above the root.
func (f *Follower) checkGrounded() bool {
	origin := f.root.Position
	origin.Y += f.cfg.GroundedProbe
	_, ok := f.caster.Cast(origin, math.Down(), f.cfg.GroundedProbe, f.cfg.Mask)
	return ok
}

// FindFloor resolves the floor height under the root from two unbounded
// rays, one from StepHeight above the root and one from the root itself.
// dstToGround is the root-level ray distance.
func (f *Follower) FindFloor() (floor, dstToGround float32) {
	origin := f.root.Position

	upper := f.cfg.MissPolicy.distance()
	upperOrigin := origin
	upperOrigin.Y += f.cfg.StepHeight
	if hit, ok := f.caster.Cast(upperOrigin, math.Down(), ground.Unbounded, f.cfg.Mask); ok {
		upper = hit.Distance
	}

	lower := f.cfg.MissPolicy.distance()
	if hit, ok := f.caster.Cast(origin, math.Down(), ground.Unbounded, f.cfg.Mask); ok {
		lower = hit.Distance
	}

	if upper-f.cfg.StepHeight < 0 {
		return origin.Y + (f.cfg.StepHeight - upper), lower
	}
	return origin.Y - lower, lower
}

// Translate moves the root horizontally. Vertical components are ignored.
func (f *Follower) Translate(delta math.Vec3) {
	delta.Y = 0
	f.root.Position = f.root.Position.Add(delta)
}
