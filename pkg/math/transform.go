package math

// Transform is a rigid transform: rotation followed by translation.
type Transform struct {
	Position Vec3
	Rotation Quat
}

// NewTransform creates a transform at position with identity rotation.
func NewTransform(position Vec3) Transform {
	return Transform{Position: position, Rotation: QuatIdentity()}
}

// TransformPoint maps a point from local space into world space.
func (t Transform) TransformPoint(local Vec3) Vec3 {
	return t.Rotation.Rotate(local).Add(t.Position)
}

// InverseTransformPoint maps a world-space point into local space.
func (t Transform) InverseTransformPoint(world Vec3) Vec3 {
	return t.Rotation.Conjugate().Rotate(world.Sub(t.Position))
}

// TransformDirection rotates a local direction into world space.
func (t Transform) TransformDirection(local Vec3) Vec3 {
	return t.Rotation.Rotate(local)
}
