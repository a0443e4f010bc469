package rig

import (
	gomath "math"

	"github.com/Faultbox/footfall/pkg/math"
)

// PuppetConfig describes the procedural biped's proportions and gait.
type PuppetConfig struct {
	HipHeight    float32 `yaml:"hip_height"`    // pelvis above root when standing
	FootSpacing  float32 `yaml:"foot_spacing"`  // lateral distance of each foot from the root
	AnkleHeight  float32 `yaml:"ankle_height"`  // foot bone above the sole
	StrideLength float32 `yaml:"stride_length"` // distance covered by one full gait cycle
	StepLift     float32 `yaml:"step_lift"`     // peak swing-foot lift
	MaxSpeed     float32 `yaml:"max_speed"`     // root-motion speed at axis value 1
	CrouchDrop   float32 `yaml:"crouch_drop"`   // pelvis drop while crouching
	CrouchSpeed  float32 `yaml:"crouch_speed"`  // speed multiplier while crouching
}

// DefaultPuppetConfig returns proportions for a roughly 1.8m humanoid.
func DefaultPuppetConfig() PuppetConfig {
	return PuppetConfig{
		HipHeight:    0.95,
		FootSpacing:  0.12,
		AnkleHeight:  0.08,
		StrideLength: 1.4,
		StepLift:     0.12,
		MaxSpeed:     4.0,
		CrouchDrop:   0.3,
		CrouchSpeed:  0.5,
	}
}

type ikGoal struct {
	position       math.Vec3
	rotation       math.Quat
	positionWeight float32
	rotationWeight float32
}

// Pose is a resolved world-space pose.
type Pose struct {
	Pelvis            math.Vec3
	LeftFoot          math.Vec3
	RightFoot         math.Vec3
	LeftFootRotation  math.Quat
	RightFootRotation math.Quat
}

// Puppet is a procedural biped implementing Driver. Each frame Animate
// builds the animated pose and resets IK goals to it, IK writers adjust the
// goals, and ApplyIK resolves the final pose.
type Puppet struct {
	cfg  PuppetConfig
	root *math.Transform

	bools    map[string]bool
	floats   map[string]float32
	pending  []string
	fired    []string
	triggers map[string]int
	curves   map[string]*Curve

	phase    float32
	animated Pose
	goals    [2]ikGoal
	body     math.Vec3
	final    Pose
	resolved bool
}

// NewPuppet creates a puppet attached to root. The puppet only reads root.
func NewPuppet(cfg PuppetConfig, root *math.Transform) *Puppet {
	p := &Puppet{
		cfg:      cfg,
		root:     root,
		bools:    make(map[string]bool),
		floats:   make(map[string]float32),
		triggers: make(map[string]int),
		curves:   DefaultCurves(),
	}
	p.Animate(0)
	p.final = p.animated
	return p
}

// SetCurve replaces or adds a named curve.
func (p *Puppet) SetCurve(name string, c *Curve) {
	p.curves[name] = c
}

// speed returns the current root-motion speed from the gait floats.
func (p *Puppet) speed() float32 {
	v := math.Vec2{X: p.floats[ParamHorizontal], Y: p.floats[ParamVertical]}
	s := v.Length() * p.cfg.MaxSpeed
	if p.bools[ParamCrouching] {
		s *= p.cfg.CrouchSpeed
	}
	return s
}

// Animate advances the gait cycle by dt seconds, rebuilds the animated pose,
// resets IK goals and body position to it, and consumes pending triggers.
func (p *Puppet) Animate(dt float32) {
	if p.cfg.StrideLength > 0 {
		p.phase += p.speed() / p.cfg.StrideLength * dt
		p.phase -= float32(gomath.Floor(float64(p.phase)))
	}
	p.pose()

	rot := p.root.Rotation
	p.goals[LeftFootGoal] = ikGoal{position: p.animated.LeftFoot, rotation: rot}
	p.goals[RightFootGoal] = ikGoal{position: p.animated.RightFoot, rotation: rot}
	p.body = p.animated.Pelvis
	p.resolved = false

	p.fired = append(p.fired[:0], p.pending...)
	p.pending = p.pending[:0]
}

// pose computes the animated world pose from the root and gait phase.
func (p *Puppet) pose() {
	amp := float32(0)
	if p.cfg.MaxSpeed > 0 {
		amp = math.Clamp(p.speed()/(p.cfg.MaxSpeed*0.5), 0, 1)
	}

	hip := p.cfg.HipHeight
	if p.bools[ParamCrouching] {
		hip -= p.cfg.CrouchDrop
	}

	foot := func(side, phase float32) math.Vec3 {
		angle := 2 * gomath.Pi * float64(phase)
		lift := float32(gomath.Max(0, gomath.Sin(angle))) * p.cfg.StepLift * amp
		reach := float32(gomath.Cos(angle)) * p.cfg.StrideLength * 0.25 * amp
		return math.Vec3{X: side * p.cfg.FootSpacing, Y: p.cfg.AnkleHeight + lift, Z: reach}
	}

	tr := *p.root
	p.animated = Pose{
		Pelvis:            tr.TransformPoint(math.Vec3{Y: hip}),
		LeftFoot:          tr.TransformPoint(foot(-1, p.phase)),
		RightFoot:         tr.TransformPoint(foot(1, p.phase+0.5)),
		LeftFootRotation:  tr.Rotation,
		RightFootRotation: tr.Rotation,
	}
}

// ApplyIK resolves the final pose from the animated pose, the IK goals and
// the body position.
func (p *Puppet) ApplyIK() Pose {
	l := p.goals[LeftFootGoal]
	r := p.goals[RightFootGoal]
	p.final = Pose{
		Pelvis:            p.body,
		LeftFoot:          p.animated.LeftFoot.Lerp(l.position, math.Clamp(l.positionWeight, 0, 1)),
		RightFoot:         p.animated.RightFoot.Lerp(r.position, math.Clamp(r.positionWeight, 0, 1)),
		LeftFootRotation:  p.animated.LeftFootRotation.Slerp(l.rotation, math.Clamp(l.rotationWeight, 0, 1)),
		RightFootRotation: p.animated.RightFootRotation.Slerp(r.rotation, math.Clamp(r.rotationWeight, 0, 1)),
	}
	p.resolved = true
	return p.final
}

// RootMotion returns the horizontal world displacement produced by the
// current gait over dt seconds.
func (p *Puppet) RootMotion(dt float32) math.Vec3 {
	local := math.Vec3{X: p.floats[ParamHorizontal], Z: p.floats[ParamVertical]}
	s := p.cfg.MaxSpeed * dt
	if p.bools[ParamCrouching] {
		s *= p.cfg.CrouchSpeed
	}
	return p.root.TransformDirection(local).Flatten().Scale(s)
}

// Phase returns the normalized gait phase in [0, 1).
func (p *Puppet) Phase() float32 { return p.phase }

// Animated returns the pose before IK.
func (p *Puppet) Animated() Pose { return p.animated }

// Final returns the pose produced by the last ApplyIK.
func (p *Puppet) Final() Pose { return p.final }

// Bool returns a boolean parameter.
func (p *Puppet) Bool(name string) bool { return p.bools[name] }

// Float returns a float parameter.
func (p *Puppet) Float(name string) float32 { return p.floats[name] }

// TriggerCount returns how many times a trigger has been set.
func (p *Puppet) TriggerCount(name string) int { return p.triggers[name] }

// Fired returns the triggers consumed by the last Animate.
func (p *Puppet) Fired() []string { return append([]string(nil), p.fired...) }

// IKPositionWeight returns the position weight of a goal.
func (p *Puppet) IKPositionWeight(g Goal) float32 { return p.goals[g].positionWeight }

// IKRotationWeight returns the rotation weight of a goal.
func (p *Puppet) IKRotationWeight(g Goal) float32 { return p.goals[g].rotationWeight }

// IKRotation returns the rotation goal.
func (p *Puppet) IKRotation(g Goal) math.Quat { return p.goals[g].rotation }

// BonePosition implements Bones. It reports the last resolved pose, or the
// animated pose when IK has not run yet.
func (p *Puppet) BonePosition(b Bone) math.Vec3 {
	pose := p.final
	if !p.resolved {
		pose = p.animated
	}
	switch b {
	case LeftFoot:
		return pose.LeftFoot
	case RightFoot:
		return pose.RightFoot
	default:
		return pose.Pelvis
	}
}

// IKPosition implements IKGoals.
func (p *Puppet) IKPosition(g Goal) math.Vec3 { return p.goals[g].position }

// SetIKPosition implements IKGoals.
func (p *Puppet) SetIKPosition(g Goal, pos math.Vec3) { p.goals[g].position = pos }

// SetIKRotation implements IKGoals.
func (p *Puppet) SetIKRotation(g Goal, q math.Quat) { p.goals[g].rotation = q }

// SetIKPositionWeight implements IKGoals.
func (p *Puppet) SetIKPositionWeight(g Goal, w float32) { p.goals[g].positionWeight = w }

// SetIKRotationWeight implements IKGoals.
func (p *Puppet) SetIKRotationWeight(g Goal, w float32) { p.goals[g].rotationWeight = w }

// BodyPosition implements Body.
func (p *Puppet) BodyPosition() math.Vec3 { return p.body }

// SetBodyPosition implements Body.
func (p *Puppet) SetBodyPosition(pos math.Vec3) { p.body = pos }

// SetTrigger implements Params.
func (p *Puppet) SetTrigger(name string) {
	p.pending = append(p.pending, name)
	p.triggers[name]++
}

// SetBool implements Params.
func (p *Puppet) SetBool(name string, v bool) { p.bools[name] = v }

// SetFloat implements Params.
func (p *Puppet) SetFloat(name string, v float32) { p.floats[name] = v }

// Curve implements Curves by sampling the named curve at the gait phase.
// Unknown curves evaluate to 0.
func (p *Puppet) Curve(name string) float32 {
	return p.curves[name].Sample(p.phase)
}

var _ Driver = (*Puppet)(nil)
