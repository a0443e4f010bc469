package math

import (
	"math"
	"testing"
)

func TestTransformRoundTrip(t *testing.T) {
	tr := Transform{
		Position: Vec3{3, 1.5, -2},
		Rotation: QuatFromAxisAngle(Up(), 1.1),
	}

	points := []Vec3{{0, 0, 0}, {1, 0, 0}, {0.2, -0.7, 3}}
	for _, p := range points {
		back := tr.TransformPoint(tr.InverseTransformPoint(p))
		if !vecApprox(back, p, 1e-5) {
			t.Errorf("round trip of %v = %v", p, back)
		}
	}
}

func TestTransformYawKeepsHeight(t *testing.T) {
	tr := Transform{
		Position: Vec3{0, 2, 0},
		Rotation: QuatFromAxisAngle(Up(), math.Pi/3),
	}
	local := tr.InverseTransformPoint(Vec3{4, 1.25, -1})
	if !approx(local.Y, -0.75, 1e-6) {
		t.Errorf("local Y = %v, want -0.75", local.Y)
	}
}

func TestNewTransform(t *testing.T) {
	tr := NewTransform(Vec3{1, 2, 3})
	if tr.Rotation != QuatIdentity() {
		t.Errorf("NewTransform rotation = %v, want identity", tr.Rotation)
	}
	if got := tr.TransformPoint(Vec3{1, 0, 0}); got != (Vec3{2, 2, 3}) {
		t.Errorf("TransformPoint = %v", got)
	}
}
