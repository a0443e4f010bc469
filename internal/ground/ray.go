package ground

import (
	gomath "math"

	"github.com/Faultbox/footfall/pkg/math"
)

// Ray represents a ray in 3D space with origin and normalized direction.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) math.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math.Vec3
	Max math.Vec3
}

// NewAABB creates an AABB from two corners in any order.
func NewAABB(a, b math.Vec3) AABB {
	box := AABB{Min: a, Max: b}
	if box.Min.X > box.Max.X {
		box.Min.X, box.Max.X = box.Max.X, box.Min.X
	}
	if box.Min.Y > box.Max.Y {
		box.Min.Y, box.Max.Y = box.Max.Y, box.Min.Y
	}
	if box.Min.Z > box.Max.Z {
		box.Min.Z, box.Max.Z = box.Max.Z, box.Min.Z
	}
	return box
}

// Contains reports whether p lies inside or on the box.
func (b AABB) Contains(p math.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// slab clips the ray parameter range against one axis. axis selects the
// normal reported when this slab produces the entry point.
func slab(origin, dir, lo, hi float32, tmin, tmax *float32, entry *int, axis int) bool {
	if dir == 0 {
		return origin >= lo && origin <= hi
	}
	t1 := (lo - origin) / dir
	t2 := (hi - origin) / dir
	near := -(axis + 1) // entering through the min face
	if t1 > t2 {
		t1, t2 = t2, t1
		near = axis + 1 // entering through the max face
	}
	if t1 > *tmin {
		*tmin = t1
		*entry = near
	}
	if t2 < *tmax {
		*tmax = t2
	}
	return true
}

// IntersectAABB tests the ray against a box from the outside.
// Returns the entry distance and the face normal. A ray starting strictly
// inside the box does not hit it.
func (r Ray) IntersectAABB(box AABB) (t float32, normal math.Vec3, hit bool) {
	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)
	entry := 0

	if !slab(r.Origin.X, r.Direction.X, box.Min.X, box.Max.X, &tmin, &tmax, &entry, 0) ||
		!slab(r.Origin.Y, r.Direction.Y, box.Min.Y, box.Max.Y, &tmin, &tmax, &entry, 1) ||
		!slab(r.Origin.Z, r.Direction.Z, box.Min.Z, box.Max.Z, &tmin, &tmax, &entry, 2) {
		return 0, math.Vec3{}, false
	}

	if tmax < tmin || tmin < 0 || entry == 0 {
		return 0, math.Vec3{}, false
	}

	switch entry {
	case -1:
		normal = math.Vec3{X: -1}
	case 1:
		normal = math.Vec3{X: 1}
	case -2:
		normal = math.Vec3{Y: -1}
	case 2:
		normal = math.Vec3{Y: 1}
	case -3:
		normal = math.Vec3{Z: -1}
	case 3:
		normal = math.Vec3{Z: 1}
	}
	return tmin, normal, true
}

// IntersectPlane intersects the ray with the front face of a plane through
// point with unit normal. Rays from behind the plane or parallel to it miss.
func (r Ray) IntersectPlane(point, normal math.Vec3) (t float32, hit bool) {
	denom := r.Direction.Dot(normal)
	if denom > -1e-6 {
		return 0, false
	}
	side := r.Origin.Sub(point).Dot(normal)
	if side < 0 {
		return 0, false
	}
	t = -side / denom
	return t, t >= 0
}
