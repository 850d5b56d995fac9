package arbor

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

var (
	// ErrEmptyMarkerName is returned when registering a prefab without a marker name.
	ErrEmptyMarkerName = errors.New("arbor: empty marker name")
	// ErrDuplicateMarker is returned when a marker name is already registered.
	ErrDuplicateMarker = errors.New("arbor: marker already registered")
	// ErrUnknownShape is returned for registry entries with an unsupported shape.
	ErrUnknownShape = errors.New("arbor: unknown shape")
)

// Prefab is an instantiable content template.
type Prefab interface {
	// Instantiate builds a fresh node tree for one marker.
	Instantiate() *Node
}

// PrefabFunc adapts a constructor function to the Prefab interface.
type PrefabFunc func() *Node

// Instantiate calls f.
func (f PrefabFunc) Instantiate() *Node { return f() }

// Registry maps marker names to prefabs. Names are unique.
type Registry struct {
	entries map[string]Prefab
	order   []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Prefab)}
}

// Register adds prefab under marker.
func (r *Registry) Register(marker string, prefab Prefab) error {
	if marker == "" {
		return ErrEmptyMarkerName
	}
	if prefab == nil {
		return fmt.Errorf("register %q: nil prefab", marker)
	}
	if _, exists := r.entries[marker]; exists {
		return fmt.Errorf("register %q: %w", marker, ErrDuplicateMarker)
	}
	r.entries[marker] = prefab
	r.order = append(r.order, marker)
	return nil
}

// Unregister removes marker. Returns false if it was not registered.
func (r *Registry) Unregister(marker string) bool {
	if _, exists := r.entries[marker]; !exists {
		return false
	}
	delete(r.entries, marker)
	for i, name := range r.order {
		if name == marker {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Lookup returns the prefab registered for marker.
func (r *Registry) Lookup(marker string) (Prefab, bool) {
	if r == nil {
		return nil, false
	}
	p, ok := r.entries[marker]
	return p, ok
}

// Markers returns the registered names in registration order.
func (r *Registry) Markers() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered markers.
func (r *Registry) Len() int {
	return len(r.entries)
}

// --- Shape prefabs ---

// Shape selects the collider and wireframe of a ShapePrefab.
type Shape string

const (
	ShapeBox    Shape = "box"
	ShapeSphere Shape = "sphere"
)

// ShapePrefab instantiates a single node with a box or sphere collider.
type ShapePrefab struct {
	Name   string
	Shape  Shape
	Size   mgl64.Vec3 // box edge lengths
	Radius float64    // sphere radius
	Scale  float64    // uniform initial scale; zero means 1
	Color  Color
}

// Instantiate implements Prefab.
func (p ShapePrefab) Instantiate() *Node {
	n := NewNode(p.Name)
	switch p.Shape {
	case ShapeSphere:
		n.Collider = SphereCollider{Radius: p.Radius}
	default:
		n.Collider = BoxCollider{Size: p.Size}
	}
	if p.Scale > 0 {
		n.Scale = mgl64.Vec3{p.Scale, p.Scale, p.Scale}
	}
	n.Color = p.Color
	return n
}

// --- YAML loading ---

type registryFile struct {
	Markers []registryEntry `yaml:"markers"`
}

type registryEntry struct {
	Name   string    `yaml:"name"`
	Prefab string    `yaml:"prefab"`
	Shape  string    `yaml:"shape"`
	Size   []float64 `yaml:"size"`
	Radius float64   `yaml:"radius"`
	Scale  float64   `yaml:"scale"`
	Color  string    `yaml:"color"`
}

// LoadRegistry parses a YAML registry:
//
//	markers:
//	  - name: astronaut
//	    shape: box
//	    size: [0.2, 0.4, 0.2]
//	    color: "#ff8800"
//	  - name: planet
//	    shape: sphere
//	    radius: 0.15
func LoadRegistry(data []byte) (*Registry, error) {
	var f registryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse registry: %w", err)
	}
	reg := NewRegistry()
	for i, e := range f.Markers {
		p, err := e.prefab()
		if err != nil {
			return nil, fmt.Errorf("parse registry: entry %d: %w", i, err)
		}
		if err := reg.Register(e.Name, p); err != nil {
			return nil, fmt.Errorf("parse registry: entry %d: %w", i, err)
		}
	}
	return reg, nil
}

// LoadRegistryFile reads and parses a YAML registry file.
func LoadRegistryFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read registry: %w", err)
	}
	return LoadRegistry(data)
}

func (e registryEntry) prefab() (ShapePrefab, error) {
	p := ShapePrefab{Name: e.Prefab, Scale: e.Scale, Color: ColorWhite}
	if p.Name == "" {
		p.Name = e.Name
	}
	if e.Color != "" {
		c, err := parseHexColor(e.Color)
		if err != nil {
			return p, err
		}
		p.Color = c
	}
	switch Shape(strings.ToLower(e.Shape)) {
	case ShapeBox, "":
		p.Shape = ShapeBox
		p.Size = mgl64.Vec3{0.1, 0.1, 0.1}
		switch len(e.Size) {
		case 0:
		case 1:
			p.Size = mgl64.Vec3{e.Size[0], e.Size[0], e.Size[0]}
		case 3:
			p.Size = mgl64.Vec3{e.Size[0], e.Size[1], e.Size[2]}
		default:
			return p, fmt.Errorf("size needs 1 or 3 values, got %d", len(e.Size))
		}
	case ShapeSphere:
		p.Shape = ShapeSphere
		p.Radius = e.Radius
		if p.Radius <= 0 {
			p.Radius = 0.05
		}
	default:
		return p, fmt.Errorf("%w %q", ErrUnknownShape, e.Shape)
	}
	return p, nil
}

// parseHexColor parses "#rrggbb" or "#rrggbbaa".
func parseHexColor(s string) (Color, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 && len(hex) != 8 {
		return Color{}, fmt.Errorf("color %q: want #rrggbb or #rrggbbaa", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return Color{}, fmt.Errorf("color %q: %w", s, err)
	}
	if len(hex) == 6 {
		v = v<<8 | 0xff
	}
	return Color{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
		A: float64(v&0xff) / 255,
	}, nil
}
