package rig

import "sort"

// Key is a single curve keyframe.
type Key struct {
	Time  float32 `yaml:"time"`
	Value float32 `yaml:"value"`
}

// Curve is a piecewise-linear keyframed float curve.
type Curve struct {
	keys []Key
}

// NewCurve creates a curve from keys in any order. Keys sharing a time
// keep their argument order, which makes a step.
func NewCurve(keys ...Key) *Curve {
	sorted := append([]Key(nil), keys...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Time < sorted[j].Time })
	return &Curve{keys: sorted}
}

// Sample evaluates the curve at t, holding the end values outside the
// keyed range. An empty curve evaluates to 0.
func (c *Curve) Sample(t float32) float32 {
	if c == nil || len(c.keys) == 0 {
		return 0
	}
	if len(c.keys) == 1 {
		return c.keys[0].Value
	}

	// First key strictly after t; the key before it is the segment start.
	next := sort.Search(len(c.keys), func(i int) bool { return c.keys[i].Time > t })
	switch next {
	case 0:
		return c.keys[0].Value
	case len(c.keys):
		return c.keys[next-1].Value
	}
	k0, k1 := c.keys[next-1], c.keys[next]
	f := (t - k0.Time) / (k1.Time - k0.Time)
	return k0.Value + f*(k1.Value-k0.Value)
}

// DefaultCurves returns foot rotation-weight curves keyed over one
// normalized gait cycle: each foot is fully weighted while planted and
// released while it swings. The left foot swings in [0, 0.5), the right in
// [0.5, 1).
func DefaultCurves() map[string]*Curve {
	return map[string]*Curve{
		CurveRotateLeftFoot: NewCurve(
			Key{0, 1}, Key{0.05, 0}, Key{0.45, 0}, Key{0.5, 1}, Key{1, 1},
		),
		CurveRotateRightFoot: NewCurve(
			Key{0, 1}, Key{0.5, 1}, Key{0.55, 0}, Key{0.95, 0}, Key{1, 1},
		),
	}
}
