package locomotion

import (
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/footfall/internal/rig"
	"github.com/Faultbox/footfall/pkg/math"
)

const frame = float32(1.0 / 60)

func newGait() (*Gait, *rig.Puppet, *math.Transform) {
	root := math.NewTransform(math.Vec3{})
	puppet := rig.NewPuppet(rig.DefaultPuppetConfig(), &root)
	return NewGait(DefaultGaitConfig(), &root, puppet), puppet, &root
}

func TestGaitWalkClampsAxes(t *testing.T) {
	g, puppet, _ := newGait()

	var st GaitState
	for i := 0; i < 300; i++ {
		st = g.Update(Input{Axes: math.Vec2{X: -1, Y: 1}, Facing: math.Forward()}, false, frame)
	}

	assert.True(t, st.Moving)
	assert.False(t, st.Running)
	assert.InDelta(t, 0.5, st.Vertical, 1e-3)
	assert.InDelta(t, -0.5, st.Horizontal, 1e-3)
	assert.True(t, puppet.Bool(rig.ParamMoving))
	assert.Equal(t, st.Vertical, puppet.Float(rig.ParamVertical))
	assert.Equal(t, st.Horizontal, puppet.Float(rig.ParamHorizontal))
}

func TestGaitRunUsesFullAxes(t *testing.T) {
	g, puppet, _ := newGait()

	var st GaitState
	for i := 0; i < 300; i++ {
		st = g.Update(Input{Axes: math.Vec2{Y: 1}, RunHeld: true, Facing: math.Forward()}, false, frame)
	}

	assert.True(t, st.Running)
	assert.InDelta(t, 1.0, st.Vertical, 1e-3)
	assert.True(t, puppet.Bool(rig.ParamRunning))
}

func TestGaitDampingApproachesWithoutOvershoot(t *testing.T) {
	g, _, _ := newGait()

	prev := float32(0)
	for i := 0; i < 120; i++ {
		st := g.Update(Input{Axes: math.Vec2{Y: 0.5}, Facing: math.Forward()}, false, frame)
		require.GreaterOrEqual(t, st.Vertical, prev, "frame %d", i)
		require.LessOrEqual(t, st.Vertical, float32(0.5), "frame %d", i)
		prev = st.Vertical
	}
	assert.Greater(t, prev, float32(0.4))

	// Releasing the stick decays back toward zero.
	for i := 0; i < 120; i++ {
		st := g.Update(Input{Facing: math.Forward()}, false, frame)
		require.LessOrEqual(t, st.Vertical, prev, "frame %d", i)
		require.GreaterOrEqual(t, st.Vertical, float32(0), "frame %d", i)
		prev = st.Vertical
		assert.False(t, st.Moving)
	}
	assert.Less(t, prev, float32(0.1))
}

func TestGaitCrouchToggles(t *testing.T) {
	g, puppet, _ := newGait()

	st := g.Update(Input{CrouchDown: true}, false, frame)
	assert.True(t, st.Crouching)

	st = g.Update(Input{}, false, frame)
	assert.True(t, st.Crouching, "crouch persists without a key press")

	st = g.Update(Input{CrouchDown: true}, false, frame)
	assert.False(t, st.Crouching)
	assert.False(t, puppet.Bool(rig.ParamCrouching))
}

func TestGaitJumpAndFalling(t *testing.T) {
	g, puppet, _ := newGait()

	st := g.Update(Input{JumpDown: true}, true, frame)
	assert.True(t, st.Jumped)
	assert.True(t, st.Falling)
	assert.Equal(t, 1, puppet.TriggerCount(rig.TriggerJump))
	assert.True(t, puppet.Bool(rig.ParamFalling))

	g.Update(Input{}, false, frame)
	assert.Equal(t, 1, puppet.TriggerCount(rig.TriggerJump))
	assert.False(t, puppet.Bool(rig.ParamFalling))
}

func TestGaitTurnsTowardFacing(t *testing.T) {
	g, _, root := newGait()

	for i := 0; i < 150; i++ {
		g.Update(Input{Axes: math.Vec2{Y: 1}, Facing: math.Vec3{X: 1, Y: 0.3}}, false, frame)
	}
	assert.InDelta(t, gomath.Pi/2, root.Rotation.Yaw(), 1e-3)

	// Backing up keeps facing the desired direction.
	for i := 0; i < 150; i++ {
		g.Update(Input{Axes: math.Vec2{Y: -1}, Facing: math.Vec3{Z: -1}}, false, frame)
	}
	assert.InDelta(t, gomath.Pi, gomath.Abs(float64(root.Rotation.Yaw())), 1e-3)
}

func TestGaitIgnoresFacingWithoutForwardInput(t *testing.T) {
	g, _, root := newGait()

	for i := 0; i < 30; i++ {
		g.Update(Input{Axes: math.Vec2{X: 1}, Facing: math.Vec3{X: 1}}, false, frame)
	}
	assert.Equal(t, math.QuatIdentity(), root.Rotation, "strafing does not turn")

	for i := 0; i < 30; i++ {
		g.Update(Input{Facing: math.Vec3{X: 1}}, false, frame)
	}
	assert.Equal(t, math.QuatIdentity(), root.Rotation, "standing still does not turn")
}

func TestGaitStrafeKeepsCurrentFacing(t *testing.T) {
	g, _, root := newGait()

	for i := 0; i < 150; i++ {
		g.Update(Input{Axes: math.Vec2{Y: 1}, Facing: math.Vec3{X: 1}}, false, frame)
	}
	turned := root.Rotation
	require.InDelta(t, gomath.Pi/2, turned.Yaw(), 1e-3)

	// Strafing with the facing pointing elsewhere neither turns toward it nor
	// drifts back to the identity rotation.
	for i := 0; i < 60; i++ {
		g.Update(Input{Axes: math.Vec2{X: -1}, Facing: math.Vec3{Z: -1}}, false, frame)
	}
	assert.Equal(t, turned, root.Rotation)
}
