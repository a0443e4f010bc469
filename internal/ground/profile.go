package ground

import (
	"github.com/jakecoffman/cp"

	"github.com/Faultbox/footfall/pkg/math"
)

// profileReach caps the query length of unbounded casts against a profile.
const profileReach = 10000.0

// Profile is terrain described as polylines in the X/Y plane and extruded
// infinitely along Z. Queries run through a chipmunk2d space holding one
// static segment per polyline edge.
type Profile struct {
	space    *cp.Space
	segments int
}

// NewProfile creates an empty profile.
func NewProfile() *Profile {
	return &Profile{space: cp.NewSpace()}
}

// AddPolyline adds connected segments through points (X = world X,
// Y = height) on the given layer.
func (p *Profile) AddPolyline(points []math.Vec2, mask LayerMask) {
	filter := cp.NewShapeFilter(cp.NO_GROUP, uint(mask), cp.ALL_CATEGORIES)
	for i := 0; i+1 < len(points); i++ {
		a := cp.Vector{X: float64(points[i].X), Y: float64(points[i].Y)}
		b := cp.Vector{X: float64(points[i+1].X), Y: float64(points[i+1].Y)}
		if a == b {
			continue
		}
		shape := cp.NewSegment(p.space.StaticBody, a, b, 0)
		shape.SetFilter(filter)
		p.space.AddShape(shape)
		p.segments++
	}
}

// Segments returns the number of segments in the profile.
func (p *Profile) Segments() int {
	return p.segments
}

// Cast implements Caster. Rays travelling purely along Z never hit.
func (p *Profile) Cast(origin, direction math.Vec3, maxDistance float32, mask LayerMask) (Hit, bool) {
	if direction.X*direction.X+direction.Y*direction.Y < 1e-12 {
		return Hit{}, false
	}

	reach := float64(maxDistance)
	if reach > profileReach {
		reach = profileReach
	}

	start := cp.Vector{X: float64(origin.X), Y: float64(origin.Y)}
	end := start.Add(cp.Vector{X: float64(direction.X), Y: float64(direction.Y)}.Mult(reach))
	query := cp.NewShapeFilter(cp.NO_GROUP, cp.ALL_CATEGORIES, uint(mask))

	info := p.space.SegmentQueryFirst(start, end, 0, query)
	if info.Shape == nil {
		return Hit{}, false
	}

	t := float32(info.Alpha * reach)
	normal := math.Vec3{X: float32(info.Normal.X), Y: float32(info.Normal.Y)}.Normalize()
	return Hit{
		Distance: t,
		Point:    origin.Add(direction.Scale(t)),
		Normal:   normal,
		Layer:    LayerMask(info.Shape.Filter.Categories),
	}, true
}
