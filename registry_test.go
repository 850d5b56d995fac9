package arbor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestRegistryRegister(t *testing.T) {
	r := NewRegistry()
	p := PrefabFunc(func() *Node { return NewNode("x") })

	if err := r.Register("astronaut", p); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := r.Register("", p); !errors.Is(err, ErrEmptyMarkerName) {
		t.Errorf("empty name err = %v, want ErrEmptyMarkerName", err)
	}
	if err := r.Register("astronaut", p); !errors.Is(err, ErrDuplicateMarker) {
		t.Errorf("duplicate err = %v, want ErrDuplicateMarker", err)
	}
	if err := r.Register("planet", nil); err == nil {
		t.Error("nil prefab accepted")
	}
	if r.Len() != 1 {
		t.Errorf("Len = %d, want 1", r.Len())
	}
}

func TestRegistryLookupAndUnregister(t *testing.T) {
	r := NewRegistry()
	_ = r.Register("a", ShapePrefab{Name: "a"})
	_ = r.Register("b", ShapePrefab{Name: "b"})
	_ = r.Register("c", ShapePrefab{Name: "c"})

	if _, ok := r.Lookup("missing"); ok {
		t.Error("Lookup found an unregistered marker")
	}
	if !r.Unregister("b") {
		t.Error("Unregister(b) = false")
	}
	if r.Unregister("b") {
		t.Error("second Unregister(b) = true")
	}
	got := r.Markers()
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("Markers = %v, want [a c]", got)
	}

	var nilReg *Registry
	if _, ok := nilReg.Lookup("a"); ok {
		t.Error("nil registry lookup succeeded")
	}
}

const registryYAML = `
markers:
  - name: astronaut
    shape: box
    size: [0.2, 0.4, 0.2]
    color: "#ff8000"
  - name: planet
    prefab: globe
    shape: sphere
    radius: 0.15
    scale: 2
  - name: cube
    size: [0.3]
`

func TestLoadRegistry(t *testing.T) {
	r, err := LoadRegistry([]byte(registryYAML))
	if err != nil {
		t.Fatalf("LoadRegistry: %v", err)
	}
	if r.Len() != 3 {
		t.Fatalf("Len = %d, want 3", r.Len())
	}

	p, _ := r.Lookup("astronaut")
	box := p.(ShapePrefab)
	if box.Shape != ShapeBox || box.Size != (mgl64.Vec3{0.2, 0.4, 0.2}) {
		t.Errorf("astronaut = %+v", box)
	}
	if box.Color.R != 1 || box.Color.B != 0 || box.Color.A != 1 {
		t.Errorf("astronaut color = %+v", box.Color)
	}

	p, _ = r.Lookup("planet")
	sphere := p.(ShapePrefab)
	if sphere.Name != "globe" || sphere.Shape != ShapeSphere || sphere.Radius != 0.15 || sphere.Scale != 2 {
		t.Errorf("planet = %+v", sphere)
	}
	n := sphere.Instantiate()
	if n.Name != "globe" || n.Scale != (mgl64.Vec3{2, 2, 2}) {
		t.Errorf("instantiated planet = %q scale %v", n.Name, n.Scale)
	}
	if c, ok := n.Collider.(SphereCollider); !ok || c.Radius != 0.15 {
		t.Errorf("collider = %#v", n.Collider)
	}

	p, _ = r.Lookup("cube")
	if cube := p.(ShapePrefab); cube.Size != (mgl64.Vec3{0.3, 0.3, 0.3}) || cube.Color != ColorWhite {
		t.Errorf("cube = %+v", cube)
	}
}

func TestLoadRegistryErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		is   error
	}{
		{"bad yaml", "markers: [", nil},
		{"unknown shape", "markers:\n  - name: a\n    shape: torus\n", ErrUnknownShape},
		{"duplicate", "markers:\n  - name: a\n  - name: a\n", ErrDuplicateMarker},
		{"empty name", "markers:\n  - shape: box\n", ErrEmptyMarkerName},
		{"bad color", "markers:\n  - name: a\n    color: red\n", nil},
		{"bad size", "markers:\n  - name: a\n    size: [1, 2]\n", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadRegistry([]byte(tt.yaml))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.is != nil && !errors.Is(err, tt.is) {
				t.Errorf("err = %v, want %v", err, tt.is)
			}
		})
	}
}

func TestLoadRegistryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "markers.yaml")
	if err := os.WriteFile(path, []byte(registryYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	r, err := LoadRegistryFile(path)
	if err != nil {
		t.Fatalf("LoadRegistryFile: %v", err)
	}
	if r.Len() != 3 {
		t.Errorf("Len = %d", r.Len())
	}

	if _, err := LoadRegistryFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing file loaded")
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		in   string
		want Color
		ok   bool
	}{
		{"#000000", Color{0, 0, 0, 1}, true},
		{"#ffffff", Color{1, 1, 1, 1}, true},
		{"ff000080", Color{1, 0, 0, 128.0 / 255}, true},
		{"#fff", Color{}, false},
		{"#gggggg", Color{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseHexColor(tt.in)
			if (err == nil) != tt.ok {
				t.Fatalf("err = %v, ok want %v", err, tt.ok)
			}
			if tt.ok && got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}
