package scene

import (
	"github.com/Faultbox/footfall/internal/locomotion"
	"github.com/Faultbox/footfall/pkg/math"
)

// KeySpec is one input keyframe. Axes, Run and Facing hold until the next
// key; Crouch and Jump are key presses that fire once.
type KeySpec struct {
	Time   float32 `yaml:"time"`
	Axes   Vec2    `yaml:"axes"` // [horizontal, vertical]
	Run    bool    `yaml:"run"`
	Crouch bool    `yaml:"crouch"`
	Jump   bool    `yaml:"jump"`
	Facing *Vec3   `yaml:"facing"`
}

// ScriptSpec is a timed input track.
type ScriptSpec struct {
	Loop   bool      `yaml:"loop"`
	Length float32   `yaml:"length"` // loop period; defaults to the last key time
	Keys   []KeySpec `yaml:"keys"`
}

func (s ScriptSpec) validate() error {
	prev := float32(0)
	for i, k := range s.Keys {
		if k.Time < 0 {
			return invalid("script key %d: negative time", i)
		}
		if k.Time < prev {
			return invalid("script key %d: time %.3f before previous key %.3f", i, k.Time, prev)
		}
		for _, a := range k.Axes {
			if a < -1 || a > 1 {
				return invalid("script key %d: axis %.3f outside [-1, 1]", i, a)
			}
		}
		prev = k.Time
	}
	if s.Loop && s.period() <= 0 {
		return invalid("script: looping needs a positive length")
	}
	return nil
}

func (s ScriptSpec) period() float32 {
	if s.Length > 0 {
		return s.Length
	}
	if len(s.Keys) == 0 {
		return 0
	}
	return s.Keys[len(s.Keys)-1].Time
}

// Script plays a ScriptSpec as a locomotion.InputSource. Samples must be
// requested in non-decreasing time order.
type Script struct {
	spec   ScriptSpec
	facing math.Vec3

	cycle int
	next  int // first key whose presses have not fired
}

// NewScript creates a player for the scene's script. facing is used until a
// key sets one.
func (s *Scene) NewScript() *Script {
	return NewScript(s.Script, s.Facing())
}

// NewScript creates a script player.
func NewScript(spec ScriptSpec, facing math.Vec3) *Script {
	return &Script{spec: spec, facing: facing}
}

// Sample implements locomotion.InputSource.
func (sc *Script) Sample(t float32) locomotion.Input {
	if len(sc.spec.Keys) == 0 {
		return locomotion.Input{Facing: sc.facing}
	}

	if sc.spec.Loop {
		period := sc.spec.period()
		cycle := int(t / period)
		if cycle != sc.cycle {
			sc.cycle = cycle
			sc.next = 0
		}
		t -= float32(cycle) * period
	}

	in := locomotion.Input{Facing: sc.facing}
	active := -1
	for i, k := range sc.spec.Keys {
		if k.Time > t {
			break
		}
		active = i
		if k.Facing != nil {
			sc.facing = k.Facing.Vec()
		}
	}
	if active < 0 {
		return in
	}

	k := sc.spec.Keys[active]
	in.Axes = k.Axes.Vec()
	in.RunHeld = k.Run
	in.Facing = sc.facing

	// Crouch toggles, so an even number of skipped presses cancels out.
	crouches := 0
	for ; sc.next <= active; sc.next++ {
		pressed := sc.spec.Keys[sc.next]
		if pressed.Crouch {
			crouches++
		}
		in.JumpDown = in.JumpDown || pressed.Jump
	}
	in.CrouchDown = crouches%2 == 1
	return in
}

var _ locomotion.InputSource = (*Script)(nil)
