// Package scene loads YAML scene files: static ground geometry, the
// character spawn and a scripted input track.
package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/footfall/internal/ground"
	"github.com/Faultbox/footfall/pkg/math"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("invalid scene")

// DefaultLayer is the layer used when a scene declares none.
const DefaultLayer = "default"

// Vec3 is a YAML [x, y, z] triple.
type Vec3 [3]float32

// Vec returns the vector.
func (v Vec3) Vec() math.Vec3 { return math.Vec3{X: v[0], Y: v[1], Z: v[2]} }

// Vec2 is a YAML [a, b] pair.
type Vec2 [2]float32

// Vec returns the vector.
func (v Vec2) Vec() math.Vec2 { return math.Vec2{X: v[0], Y: v[1]} }

// PlaneSpec is an infinite one-sided plane.
type PlaneSpec struct {
	Point  Vec3   `yaml:"point"`
	Normal Vec3   `yaml:"normal"`
	Layer  string `yaml:"layer"`
}

// BoxSpec is a solid axis-aligned box.
type BoxSpec struct {
	Min   Vec3   `yaml:"min"`
	Max   Vec3   `yaml:"max"`
	Layer string `yaml:"layer"`
}

// HeightfieldSpec is a height grid. Heights is indexed [x][z] and Origin is
// the world X/Z of the first sample.
type HeightfieldSpec struct {
	Origin   Vec2        `yaml:"origin"`
	CellSize float32     `yaml:"cell_size"`
	Heights  [][]float32 `yaml:"heights"`
	Layer    string      `yaml:"layer"`
}

// ProfileSpec is a polyline in the X/Y plane extruded along Z.
type ProfileSpec struct {
	Points []Vec2 `yaml:"points"`
	Layer  string `yaml:"layer"`
}

// SpawnSpec places the character.
type SpawnSpec struct {
	Position Vec3 `yaml:"position"`
	Facing   Vec3 `yaml:"facing"`
}

// Scene is a parsed scene file.
type Scene struct {
	Name         string            `yaml:"name"`
	Layers       []string          `yaml:"layers"`
	Planes       []PlaneSpec       `yaml:"planes"`
	Boxes        []BoxSpec         `yaml:"boxes"`
	Heightfields []HeightfieldSpec `yaml:"heightfields"`
	Profiles     []ProfileSpec     `yaml:"profiles"`
	Spawn        SpawnSpec         `yaml:"spawn"`
	Script       ScriptSpec        `yaml:"script"`

	path string
}

// Load reads and validates a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: load %s: %w", path, err)
	}
	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scene: %s: %w", path, err)
	}
	s.path = path
	if s.Name == "" {
		s.Name = filepath.Base(path)
	}
	return s, nil
}

// Parse decodes and validates scene YAML.
func Parse(data []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal: %w", err)
	}
	if len(s.Layers) == 0 {
		s.Layers = []string{DefaultLayer}
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Path returns the file the scene was loaded from, if any.
func (s *Scene) Path() string { return s.path }

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalid, fmt.Sprintf(format, args...))
}

// Validate checks geometry and script consistency.
func (s *Scene) Validate() error {
	layers, err := ground.NewLayers(s.Layers...)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	checkLayer := func(kind string, i int, name string) error {
		if name == "" {
			return nil
		}
		if _, err := layers.Mask(name); err != nil {
			return invalid("%s %d: %v", kind, i, err)
		}
		return nil
	}

	for i, p := range s.Planes {
		if p.Normal.Vec().LengthSq() == 0 {
			return invalid("plane %d: zero normal", i)
		}
		if err := checkLayer("plane", i, p.Layer); err != nil {
			return err
		}
	}
	for i, b := range s.Boxes {
		lo, hi := b.Min.Vec(), b.Max.Vec()
		if lo.X == hi.X || lo.Y == hi.Y || lo.Z == hi.Z {
			return invalid("box %d: zero extent", i)
		}
		if err := checkLayer("box", i, b.Layer); err != nil {
			return err
		}
	}
	for i, h := range s.Heightfields {
		if h.CellSize <= 0 {
			return invalid("heightfield %d: cell_size must be positive", i)
		}
		if len(h.Heights) < 2 {
			return invalid("heightfield %d: need at least 2x2 samples", i)
		}
		for x, col := range h.Heights {
			if len(col) < 2 || len(col) != len(h.Heights[0]) {
				return invalid("heightfield %d: column %d has %d samples, want %d (min 2)", i, x, len(col), len(h.Heights[0]))
			}
		}
		if err := checkLayer("heightfield", i, h.Layer); err != nil {
			return err
		}
	}
	for i, p := range s.Profiles {
		if len(p.Points) < 2 {
			return invalid("profile %d: need at least 2 points", i)
		}
		if err := checkLayer("profile", i, p.Layer); err != nil {
			return err
		}
	}
	return s.Script.validate()
}

// Build creates the ground caster and layer table for the scene.
func (s *Scene) Build() (ground.Caster, *ground.Layers, error) {
	layers, err := ground.NewLayers(s.Layers...)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	mask := func(name string) ground.LayerMask {
		if name == "" {
			name = s.Layers[0]
		}
		m, err := layers.Mask(name)
		if err != nil {
			return 0
		}
		return m
	}

	world := ground.NewWorld()
	for _, p := range s.Planes {
		world.Add(ground.NewPlane(p.Point.Vec(), p.Normal.Vec(), mask(p.Layer)))
	}
	for _, b := range s.Boxes {
		world.Add(&ground.Box{Bounds: ground.NewAABB(b.Min.Vec(), b.Max.Vec()), Mask: mask(b.Layer)})
	}
	for _, h := range s.Heightfields {
		world.Add(ground.NewHeightfield(h.Origin.Vec(), h.CellSize, h.Heights, mask(h.Layer)))
	}
	if len(s.Profiles) == 0 {
		return world, layers, nil
	}

	profile := ground.NewProfile()
	for _, p := range s.Profiles {
		pts := make([]math.Vec2, len(p.Points))
		for i, v := range p.Points {
			pts[i] = v.Vec()
		}
		profile.AddPolyline(pts, mask(p.Layer))
	}
	return ground.Casters{world, profile}, layers, nil
}

// SpawnTransform returns the character's starting transform.
func (s *Scene) SpawnTransform() math.Transform {
	t := math.NewTransform(s.Spawn.Position.Vec())
	if f := s.Spawn.Facing.Vec(); f.Flatten().LengthSq() > 0 {
		t.Rotation = math.LookRotation(f)
	}
	return t
}

// Facing returns the spawn facing, defaulting to +Z.
func (s *Scene) Facing() math.Vec3 {
	if f := s.Spawn.Facing.Vec().Flatten(); f.LengthSq() > 0 {
		return f.Normalize()
	}
	return math.Forward()
}
