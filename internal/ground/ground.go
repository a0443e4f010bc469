// Package ground provides the ray-casting ground-query service used by the
// locomotion and IK packages.
package ground

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/footfall/pkg/math"
)

// Unbounded is the max distance to pass for an infinite-range cast.
const Unbounded = float32(gomath.MaxFloat32)

// LayerMask selects collision layers by bit.
type LayerMask uint32

// AllLayers matches every layer.
const AllLayers = ^LayerMask(0)

// Has reports whether any bit of other is set in m.
func (m LayerMask) Has(other LayerMask) bool {
	return m&other != 0
}

// Hit is the result of a successful cast.
type Hit struct {
	Distance float32
	Point    math.Vec3
	Normal   math.Vec3
	Layer    LayerMask
}

// Caster answers ray queries against scene geometry.
// direction must be normalized. A miss returns false; a hit at distance 0 is
// still a hit.
type Caster interface {
	Cast(origin, direction math.Vec3, maxDistance float32, mask LayerMask) (Hit, bool)
}

// Casters merges several casters, reporting the nearest hit.
type Casters []Caster

// Cast implements Caster.
func (cs Casters) Cast(origin, direction math.Vec3, maxDistance float32, mask LayerMask) (Hit, bool) {
	var best Hit
	found := false
	for _, c := range cs {
		if c == nil {
			continue
		}
		hit, ok := c.Cast(origin, direction, maxDistance, mask)
		if ok && (!found || hit.Distance < best.Distance) {
			best = hit
			found = true
		}
	}
	return best, found
}

// MaxLayers is the number of distinct layers a mask can hold.
const MaxLayers = 32

// Layers maps layer names to mask bits in declaration order.
type Layers struct {
	names []string
}

// NewLayers registers names in order; the first name gets bit 0.
func NewLayers(names ...string) (*Layers, error) {
	if len(names) > MaxLayers {
		return nil, fmt.Errorf("too many layers: %d > %d", len(names), MaxLayers)
	}
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if n == "" {
			return nil, fmt.Errorf("empty layer name")
		}
		if seen[n] {
			return nil, fmt.Errorf("duplicate layer %q", n)
		}
		seen[n] = true
	}
	return &Layers{names: append([]string(nil), names...)}, nil
}

// Mask returns the mask for a single layer name.
func (l *Layers) Mask(name string) (LayerMask, error) {
	for i, n := range l.names {
		if n == name {
			return LayerMask(1) << uint(i), nil
		}
	}
	return 0, fmt.Errorf("unknown layer %q", name)
}

// MaskOf combines several names. An empty list means AllLayers.
func (l *Layers) MaskOf(names ...string) (LayerMask, error) {
	if len(names) == 0 {
		return AllLayers, nil
	}
	var m LayerMask
	for _, n := range names {
		bit, err := l.Mask(n)
		if err != nil {
			return 0, err
		}
		m |= bit
	}
	return m, nil
}

// Names returns the registered layer names in bit order.
func (l *Layers) Names() []string {
	return append([]string(nil), l.names...)
}
