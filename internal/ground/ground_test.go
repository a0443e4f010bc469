package ground

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/footfall/pkg/math"
)

func near(a, b float32) bool {
	return gomath.Abs(float64(a-b)) < 1e-4
}

func TestLayers(t *testing.T) {
	layers, err := NewLayers("default", "environment", "water")
	if err != nil {
		t.Fatalf("NewLayers: %v", err)
	}

	env, err := layers.Mask("environment")
	if err != nil {
		t.Fatalf("Mask: %v", err)
	}
	if env != 2 {
		t.Errorf("environment mask = %b, want 10", env)
	}

	both, err := layers.MaskOf("default", "water")
	if err != nil {
		t.Fatalf("MaskOf: %v", err)
	}
	if both != 5 {
		t.Errorf("default|water = %b, want 101", both)
	}

	all, _ := layers.MaskOf()
	if all != AllLayers {
		t.Errorf("MaskOf() = %b, want AllLayers", all)
	}

	if _, err := layers.Mask("lava"); err == nil {
		t.Error("expected error for unknown layer")
	}
	if _, err := NewLayers("a", "a"); err == nil {
		t.Error("expected error for duplicate layer")
	}
	if _, err := NewLayers(""); err == nil {
		t.Error("expected error for empty layer name")
	}
}

func TestRayIntersectAABB(t *testing.T) {
	box := NewAABB(math.Vec3{X: 1, Y: 1, Z: 1}, math.Vec3{X: -1, Y: 0, Z: -1})

	tests := []struct {
		name       string
		ray        Ray
		wantHit    bool
		wantT      float32
		wantNormal math.Vec3
	}{
		{"down onto top", Ray{math.Vec3{Y: 3}, math.Down()}, true, 2, math.Up()},
		{"from the side", Ray{math.Vec3{X: -5, Y: 0.5}, math.Vec3{X: 1}}, true, 4, math.Vec3{X: -1}},
		{"starting on top face", Ray{math.Vec3{Y: 1}, math.Down()}, true, 0, math.Up()},
		{"starting inside", Ray{math.Vec3{Y: 0.5}, math.Down()}, false, 0, math.Vec3{}},
		{"pointing away", Ray{math.Vec3{Y: 3}, math.Up()}, false, 0, math.Vec3{}},
		{"passing beside", Ray{math.Vec3{X: 2, Y: 3}, math.Down()}, false, 0, math.Vec3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tHit, n, ok := tt.ray.IntersectAABB(box)
			if ok != tt.wantHit {
				t.Fatalf("hit = %v, want %v", ok, tt.wantHit)
			}
			if !ok {
				return
			}
			if !near(tHit, tt.wantT) {
				t.Errorf("t = %v, want %v", tHit, tt.wantT)
			}
			if n != tt.wantNormal {
				t.Errorf("normal = %v, want %v", n, tt.wantNormal)
			}
		})
	}
}

func TestRayIntersectPlane(t *testing.T) {
	r := Ray{Origin: math.Vec3{Y: 2}, Direction: math.Down()}
	if tHit, ok := r.IntersectPlane(math.Vec3{}, math.Up()); !ok || !near(tHit, 2) {
		t.Errorf("IntersectPlane = %v, %v; want 2, true", tHit, ok)
	}

	below := Ray{Origin: math.Vec3{Y: -1}, Direction: math.Down()}
	if _, ok := below.IntersectPlane(math.Vec3{}, math.Up()); ok {
		t.Error("ray from behind a plane must miss")
	}
}

func TestWorldNearestHitAndMask(t *testing.T) {
	const (
		def LayerMask = 1 << iota
		env
	)
	w := NewWorld(
		NewPlane(math.Vec3{}, math.Up(), def),
		&Box{Bounds: NewAABB(math.Vec3{X: -1, Y: 0, Z: -1}, math.Vec3{X: 1, Y: 0.3, Z: 1}), Mask: env},
	)

	hit, ok := w.Cast(math.Vec3{Y: 2}, math.Down(), Unbounded, AllLayers)
	if !ok || !near(hit.Distance, 1.7) {
		t.Fatalf("all layers: hit = %+v, %v; want distance 1.7", hit, ok)
	}
	if hit.Layer != env {
		t.Errorf("hit layer = %v, want %v", hit.Layer, env)
	}
	if !near(hit.Point.Y, 0.3) {
		t.Errorf("hit point Y = %v, want 0.3", hit.Point.Y)
	}

	hit, ok = w.Cast(math.Vec3{Y: 2}, math.Down(), Unbounded, def)
	if !ok || !near(hit.Distance, 2) {
		t.Errorf("default only: hit = %+v, %v; want distance 2", hit, ok)
	}

	if _, ok := w.Cast(math.Vec3{Y: 2}, math.Down(), 1, AllLayers); ok {
		t.Error("cast limited to 1 unit should miss")
	}

	// The boundary distance itself is inside the range.
	if _, ok := w.Cast(math.Vec3{Y: 1.3}, math.Down(), 1, AllLayers); !ok {
		t.Error("hit at exactly maxDistance should count")
	}
}

func TestCastersPicksNearest(t *testing.T) {
	far := NewWorld(NewPlane(math.Vec3{Y: -3}, math.Up(), 1))
	closer := NewWorld(NewPlane(math.Vec3{Y: -1}, math.Up(), 1))

	hit, ok := Casters{far, nil, closer}.Cast(math.Vec3{}, math.Down(), Unbounded, AllLayers)
	if !ok || !near(hit.Distance, 1) {
		t.Errorf("Casters hit = %+v, %v; want distance 1", hit, ok)
	}

	if _, ok := (Casters{}).Cast(math.Vec3{}, math.Down(), Unbounded, AllLayers); ok {
		t.Error("empty Casters should miss")
	}
}
