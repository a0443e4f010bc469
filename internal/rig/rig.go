// Package rig defines the animation and rig driver consumed by the
// locomotion and IK packages, plus Puppet, an in-memory procedural biped.
package rig

import (
	"github.com/Faultbox/footfall/pkg/math"
)

// Bone names a semantic bone of a humanoid rig.
type Bone int

// Semantic bones.
const (
	Pelvis Bone = iota
	LeftFoot
	RightFoot
)

// String returns the bone name.
func (b Bone) String() string {
	switch b {
	case Pelvis:
		return "pelvis"
	case LeftFoot:
		return "left_foot"
	case RightFoot:
		return "right_foot"
	default:
		return "unknown"
	}
}

// Goal names an IK-driven limb end.
type Goal int

// IK goals.
const (
	LeftFootGoal Goal = iota
	RightFootGoal
)

// String returns the goal name.
func (g Goal) String() string {
	if g == LeftFootGoal {
		return "left_foot"
	}
	return "right_foot"
}

// Bone returns the bone the goal drives.
func (g Goal) Bone() Bone {
	if g == LeftFootGoal {
		return LeftFoot
	}
	return RightFoot
}

// Animator parameter names written by the locomotion package.
const (
	ParamMoving     = "isMoving"
	ParamCrouching  = "isCrouching"
	ParamRunning    = "isRunning"
	ParamFalling    = "isFalling"
	ParamVertical   = "Vertical"
	ParamHorizontal = "Horizontal"
	TriggerJump     = "Jump"
	TriggerLanding  = "Landing"
)

// Default rotation-weight curve names.
const (
	CurveRotateLeftFoot  = "RotateLeftFoot"
	CurveRotateRightFoot = "RotateRightFoot"
)

// Bones answers bone-position queries in world space.
type Bones interface {
	BonePosition(b Bone) math.Vec3
}

// IKGoals exposes per-limb IK goals and blend weights.
type IKGoals interface {
	IKPosition(g Goal) math.Vec3
	SetIKPosition(g Goal, p math.Vec3)
	SetIKRotation(g Goal, q math.Quat)
	SetIKPositionWeight(g Goal, w float32)
	SetIKRotationWeight(g Goal, w float32)
}

// Body exposes the pelvis (body) position target.
type Body interface {
	BodyPosition() math.Vec3
	SetBodyPosition(p math.Vec3)
}

// Params receives gait-state animation parameters.
type Params interface {
	SetTrigger(name string)
	SetBool(name string, v bool)
	SetFloat(name string, v float32)
}

// Curves samples named animation curves for the current frame.
type Curves interface {
	Curve(name string) float32
}

// Driver is the full animation and rig driver.
type Driver interface {
	Bones
	IKGoals
	Body
	Params
	Curves
}
