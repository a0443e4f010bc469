package ground

import (
	"github.com/Faultbox/footfall/pkg/math"
)

// Collider is a single piece of static geometry that can be ray cast.
type Collider interface {
	// Raycast returns the distance and surface normal of the first hit along
	// r within maxDistance.
	Raycast(r Ray, maxDistance float32) (t float32, normal math.Vec3, hit bool)
	// Layer returns the collider's layer bit.
	Layer() LayerMask
}

// Box is a solid axis-aligned box collider.
type Box struct {
	Bounds AABB
	Mask   LayerMask
}

// Raycast implements Collider.
func (b *Box) Raycast(r Ray, maxDistance float32) (float32, math.Vec3, bool) {
	t, n, ok := r.IntersectAABB(b.Bounds)
	if !ok || t > maxDistance {
		return 0, math.Vec3{}, false
	}
	return t, n, true
}

// Layer implements Collider.
func (b *Box) Layer() LayerMask { return b.Mask }

// Plane is an infinite one-sided plane collider.
type Plane struct {
	Point  math.Vec3
	Normal math.Vec3
	Mask   LayerMask
}

// NewPlane creates a plane through point facing normal.
func NewPlane(point, normal math.Vec3, mask LayerMask) *Plane {
	return &Plane{Point: point, Normal: normal.Normalize(), Mask: mask}
}

// Raycast implements Collider.
func (p *Plane) Raycast(r Ray, maxDistance float32) (float32, math.Vec3, bool) {
	t, ok := r.IntersectPlane(p.Point, p.Normal)
	if !ok || t > maxDistance {
		return 0, math.Vec3{}, false
	}
	return t, p.Normal, true
}

// Layer implements Collider.
func (p *Plane) Layer() LayerMask { return p.Mask }

// World is a flat list of static colliders. It is built once per scene and
// queried many times per tick, so it is not safe for concurrent mutation.
type World struct {
	colliders []Collider
}

// NewWorld creates a world holding the given colliders.
func NewWorld(colliders ...Collider) *World {
	return &World{colliders: append([]Collider(nil), colliders...)}
}

// Add appends a collider.
func (w *World) Add(c Collider) {
	if c == nil {
		return
	}
	w.colliders = append(w.colliders, c)
}

// Len returns the number of colliders.
func (w *World) Len() int {
	return len(w.colliders)
}

// Cast implements Caster by testing every collider on a matching layer.
func (w *World) Cast(origin, direction math.Vec3, maxDistance float32, mask LayerMask) (Hit, bool) {
	r := Ray{Origin: origin, Direction: direction}
	var best Hit
	found := false
	limit := maxDistance

	for _, c := range w.colliders {
		if !mask.Has(c.Layer()) {
			continue
		}
		t, n, ok := c.Raycast(r, limit)
		if !ok {
			continue
		}
		if !found || t < best.Distance {
			best = Hit{Distance: t, Point: r.At(t), Normal: n, Layer: c.Layer()}
			found = true
			limit = t
		}
	}
	return best, found
}
