package ground

import (
	gomath "math"

	"github.com/Faultbox/footfall/pkg/math"
)

// Heightfield is a regular grid of terrain heights with bilinear
// interpolation between samples.
type Heightfield struct {
	Origin   math.Vec2   // world X/Z of sample [0][0]
	CellSize float32     // world units between samples
	Heights  [][]float32 // [x][z]
	Mask     LayerMask

	minY, maxY float32
}

// NewHeightfield creates a heightfield. heights is indexed [x][z] and must be
// rectangular with at least 2x2 samples.
func NewHeightfield(origin math.Vec2, cellSize float32, heights [][]float32, mask LayerMask) *Heightfield {
	h := &Heightfield{Origin: origin, CellSize: cellSize, Heights: heights, Mask: mask}
	h.minY, h.maxY = float32(gomath.MaxFloat32), -float32(gomath.MaxFloat32)
	for _, col := range heights {
		for _, y := range col {
			if y < h.minY {
				h.minY = y
			}
			if y > h.maxY {
				h.maxY = y
			}
		}
	}
	return h
}

func (h *Heightfield) samplesX() int { return len(h.Heights) }

func (h *Heightfield) samplesZ() int {
	if len(h.Heights) == 0 {
		return 0
	}
	return len(h.Heights[0])
}

// Bounds returns the box enclosing every sample.
func (h *Heightfield) Bounds() AABB {
	return AABB{
		Min: math.Vec3{X: h.Origin.X, Y: h.minY, Z: h.Origin.Y},
		Max: math.Vec3{
			X: h.Origin.X + float32(h.samplesX()-1)*h.CellSize,
			Y: h.maxY,
			Z: h.Origin.Y + float32(h.samplesZ()-1)*h.CellSize,
		},
	}
}

// HeightAt returns the interpolated height at a world X/Z position.
// ok is false outside the grid.
func (h *Heightfield) HeightAt(worldX, worldZ float32) (height float32, ok bool) {
	nx, nz := h.samplesX(), h.samplesZ()
	if nx < 2 || nz < 2 || h.CellSize <= 0 {
		return 0, false
	}

	cellFX := (worldX - h.Origin.X) / h.CellSize
	cellFZ := (worldZ - h.Origin.Y) / h.CellSize
	if cellFX < 0 || cellFZ < 0 || cellFX > float32(nx-1) || cellFZ > float32(nz-1) {
		return 0, false
	}

	cellX := int(cellFX)
	cellZ := int(cellFZ)
	if cellX >= nx-1 {
		cellX = nx - 2
	}
	if cellZ >= nz-1 {
		cellZ = nz - 2
	}

	fracX := math.Clamp(cellFX-float32(cellX), 0, 1)
	fracZ := math.Clamp(cellFZ-float32(cellZ), 0, 1)

	// South edge (lower Z), then north edge, then blend along Z.
	south := h.Heights[cellX][cellZ]*(1-fracX) + h.Heights[cellX+1][cellZ]*fracX
	north := h.Heights[cellX][cellZ+1]*(1-fracX) + h.Heights[cellX+1][cellZ+1]*fracX
	return south*(1-fracZ) + north*fracZ, true
}

// NormalAt estimates the surface normal by central differences.
func (h *Heightfield) NormalAt(worldX, worldZ float32) math.Vec3 {
	e := h.CellSize * 0.25
	hl, okl := h.HeightAt(worldX-e, worldZ)
	hr, okr := h.HeightAt(worldX+e, worldZ)
	hd, okd := h.HeightAt(worldX, worldZ-e)
	hu, oku := h.HeightAt(worldX, worldZ+e)
	hc, _ := h.HeightAt(worldX, worldZ)
	if !okl {
		hl = hc
	}
	if !okr {
		hr = hc
	}
	if !okd {
		hd = hc
	}
	if !oku {
		hu = hc
	}
	dx := (hr - hl) / (2 * e)
	dz := (hu - hd) / (2 * e)
	return math.Vec3{X: -dx, Y: 1, Z: -dz}.Normalize()
}

// Layer implements Collider.
func (h *Heightfield) Layer() LayerMask { return h.Mask }

// Raycast implements Collider. Vertical rays use a direct height lookup;
// other rays march the grid and refine the crossing by bisection. A ray that
// starts below the surface does not hit it.
func (h *Heightfield) Raycast(r Ray, maxDistance float32) (float32, math.Vec3, bool) {
	if gomath.Abs(float64(r.Direction.X)) < 1e-6 && gomath.Abs(float64(r.Direction.Z)) < 1e-6 {
		if r.Direction.Y >= 0 {
			return 0, math.Vec3{}, false
		}
		y, ok := h.HeightAt(r.Origin.X, r.Origin.Z)
		if !ok {
			return 0, math.Vec3{}, false
		}
		t := (r.Origin.Y - y) / -r.Direction.Y
		if t < 0 || t > maxDistance {
			return 0, math.Vec3{}, false
		}
		return t, h.NormalAt(r.Origin.X, r.Origin.Z), true
	}
	return h.march(r, maxDistance)
}

// above returns the signed height of p over the surface.
func (h *Heightfield) above(p math.Vec3) (float32, bool) {
	y, ok := h.HeightAt(p.X, p.Z)
	return p.Y - y, ok
}

func (h *Heightfield) march(r Ray, maxDistance float32) (float32, math.Vec3, bool) {
	// Clip to the grid's box so unbounded rays terminate.
	start := float32(0)
	bounds := h.Bounds()
	if !bounds.Contains(r.Origin) {
		t, _, ok := r.IntersectAABB(bounds)
		if !ok {
			return 0, math.Vec3{}, false
		}
		start = t
	}
	end := maxDistance
	exit := Ray{Origin: r.At(start), Direction: r.Direction}
	if span := exitDistance(exit, bounds); start+span < end {
		end = start + span
	}
	if start > end {
		return 0, math.Vec3{}, false
	}

	step := h.CellSize * 0.25
	prevT := start
	prevD, ok := h.above(r.At(start))
	if ok && prevD <= 0 {
		if start == 0 && prevD < 0 {
			return 0, math.Vec3{}, false
		}
		p := r.At(start)
		return start, h.NormalAt(p.X, p.Z), true
	}
	if !ok {
		prevD = 1
	}

	for t := start + step; ; t += step {
		if t > end {
			t = end
		}
		d, ok := h.above(r.At(t))
		if ok && d <= 0 && prevD > 0 {
			lo, hi := prevT, t
			for i := 0; i < 24; i++ {
				mid := (lo + hi) / 2
				md, _ := h.above(r.At(mid))
				if md > 0 {
					lo = mid
				} else {
					hi = mid
				}
			}
			p := r.At(hi)
			return hi, h.NormalAt(p.X, p.Z), true
		}
		if ok {
			prevD = d
		} else {
			prevD = 1
		}
		prevT = t
		if t >= end {
			break
		}
	}
	return 0, math.Vec3{}, false
}

// exitDistance returns how far r travels before leaving box. r must start
// inside or on the box.
func exitDistance(r Ray, box AABB) float32 {
	tmax := float32(gomath.MaxFloat32)
	axis := func(o, d, lo, hi float32) {
		switch {
		case d > 0:
			if t := (hi - o) / d; t < tmax {
				tmax = t
			}
		case d < 0:
			if t := (lo - o) / d; t < tmax {
				tmax = t
			}
		}
	}
	axis(r.Origin.X, r.Direction.X, box.Min.X, box.Max.X)
	axis(r.Origin.Y, r.Direction.Y, box.Min.Y, box.Max.Y)
	axis(r.Origin.Z, r.Direction.Z, box.Min.Z, box.Max.Z)
	if tmax < 0 {
		return 0
	}
	return tmax
}
