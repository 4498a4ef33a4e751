package scene

import (
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-adaptive-pathtracer/pkg/core"
	"github.com/df07/go-adaptive-pathtracer/pkg/geometry"
	"github.com/df07/go-adaptive-pathtracer/pkg/material"
)

const testDescription = `{
	"name": "Test Scene",
	"background": [0.7, 0.8, 1.0],
	"camera": {
		"center": [0, 0, 10],
		"lookAt": [0, 0, 0],
		"up": [0, 1, 0],
		"width": 32,
		"height": 24,
		"vfov": 40
	},
	"textures": [
		{"name": "check", "type": "checkerboard", "even": "white", "odd": "red", "size": 2},
		{"name": "white", "type": "solid", "albedo": [1, 1, 1]},
		{"name": "red", "type": "solid", "albedo": [0.8, 0.1, 0.1]},
		{"name": "fine", "type": "scale", "scaleU": 4, "scaleV": 4, "texture": "check"}
	],
	"materials": [
		{"name": "ground", "type": "lambertian", "texture": "fine"},
		{"name": "grey", "type": "lambertian", "albedo": [0.5, 0.5, 0.5]},
		{"name": "mirror", "type": "metal", "albedo": [0.9, 0.9, 0.9], "fuzz": 0.1},
		{"name": "lamp", "type": "diffuseLight", "texture": "white"}
	],
	"geometry": [
		{"type": "sphere", "center": [0, 0, 0], "radius": 1, "material": "grey"},
		{"type": "plane", "point": [0, -1, 0], "normal": [0, 1, 0], "material": "ground"},
		{"type": "quad", "corner": [-1, 5, -1], "u": [2, 0, 0], "v": [0, 0, 2], "material": "lamp"},
		{"type": "triangle", "a": [3, 0, 0], "b": [4, 0, 0], "c": [3, 1, 0], "material": "mirror"},
		{
			"type": "translate", "offset": [-4, 0, 0],
			"shape": {
				"type": "rotate", "axis": [0, 1, 0], "angle": 45,
				"shape": {
					"type": "scale", "factor": [1, 2, 1],
					"shape": {"type": "box", "center": [0, 0, 0], "halfExtent": 0.5, "material": "mirror"}
				}
			}
		}
	]
}`

func TestDescription_Build(t *testing.T) {
	desc, err := ParseDescription(strings.NewReader(testDescription))
	if err != nil {
		t.Fatalf("ParseDescription() error: %v", err)
	}
	if desc.Name != "Test Scene" {
		t.Errorf("Name = %q, want %q", desc.Name, "Test Scene")
	}

	s, err := desc.Build(BuildOptions{Random: rand.New(rand.NewSource(1))})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if len(s.Shapes) != 5 {
		t.Fatalf("Expected 5 shapes, got %d", len(s.Shapes))
	}
	if s.Camera.Width() != 32 || s.Camera.Height() != 24 {
		t.Errorf("Camera size = %dx%d, want 32x24", s.Camera.Width(), s.Camera.Height())
	}
	if s.Background() != core.NewColor(0.7, 0.8, 1.0) {
		t.Errorf("Background = %v", s.Background())
	}

	if _, ok := s.Shapes[4].(*geometry.Translation); !ok {
		t.Errorf("Expected transform chain to start with a translation, got %T", s.Shapes[4])
	}
	// 3 single primitives, an infinite plane and a box of 6 quads
	if got := s.GetPrimitiveCount(); got != 10 {
		t.Errorf("GetPrimitiveCount() = %d, want 10", got)
	}

	s.Preprocess(rand.New(rand.NewSource(1)))
	ray := core.NewRay(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, -1))
	hit, ok := s.Hit(ray, core.NewInterval(0.001, math.Inf(1)))
	if !ok {
		t.Fatal("Expected ray to hit the sphere")
	}
	if math.Abs(hit.T-9) > 1e-9 {
		t.Errorf("Hit distance = %v, want 9", hit.T)
	}
	if _, ok := hit.Material.(*material.Lambertian); !ok {
		t.Errorf("Expected lambertian material, got %T", hit.Material)
	}
}

func TestDescription_CameraOverrides(t *testing.T) {
	desc, err := ParseDescription(strings.NewReader(testDescription))
	if err != nil {
		t.Fatalf("ParseDescription() error: %v", err)
	}

	s, err := desc.Build(BuildOptions{
		CameraOverrides: []geometry.CameraConfig{{Width: 64, Height: 48}},
	})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if s.Camera.Width() != 64 || s.Camera.Height() != 48 {
		t.Errorf("Camera size = %dx%d, want 64x48", s.Camera.Width(), s.Camera.Height())
	}
	if s.CameraConfig.VFov != 40 {
		t.Errorf("VFov = %v, want 40 from the description", s.CameraConfig.VFov)
	}
}

func TestParseDescription_UnknownField(t *testing.T) {
	_, err := ParseDescription(strings.NewReader(`{"name": "x", "lights": []}`))
	if err == nil {
		t.Error("Expected error for unknown field")
	}
}

func TestDescription_BuildErrors(t *testing.T) {
	const camera = `"camera": {"center": [0,0,5], "lookAt": [0,0,0], "up": [0,1,0], "width": 10, "height": 10, "vfov": 40}`

	testCases := []struct {
		name     string
		content  string
		contains []string
	}{
		{
			name: "unknown material",
			content: `{` + camera + `,
				"geometry": [{"type": "sphere", "center": [0,0,0], "radius": 1, "material": "missing"}]}`,
			contains: []string{`unknown material "missing"`},
		},
		{
			name: "color out of range",
			content: `{` + camera + `,
				"background": [2, 0, 0],
				"materials": [{"name": "m", "type": "metal", "albedo": [0, -1, 0]}]}`,
			contains: []string{"background", "materials[0]"},
		},
		{
			name: "texture cycle",
			content: `{` + camera + `,
				"textures": [
					{"name": "a", "type": "scale", "scaleU": 1, "scaleV": 1, "texture": "b"},
					{"name": "b", "type": "scale", "scaleU": 1, "scaleV": 1, "texture": "a"}
				]}`,
			contains: []string{"references itself"},
		},
		{
			name:     "bad camera",
			content:  `{"camera": {"center": [0,0,0], "lookAt": [0,0,0], "up": [0,1,0], "width": 10, "height": 10, "vfov": 40}}`,
			contains: []string{"camera"},
		},
		{
			name: "bad geometry",
			content: `{` + camera + `,
				"materials": [{"name": "m", "type": "lambertian", "albedo": [0.5, 0.5, 0.5]}],
				"geometry": [
					{"type": "sphere", "radius": 1, "material": "m"},
					{"type": "quad", "corner": [0,0,0], "u": [1,0,0], "v": [2,0,0], "material": "m"},
					{"type": "scale", "factor": [1, 0, 1], "shape": {"type": "box", "center": [0,0,0], "halfExtent": 1, "material": "m"}},
					{"type": "rotate", "angle": 10, "shape": {"type": "box", "center": [0,0,0], "halfExtent": 1, "material": "m"}},
					{"type": "cone", "material": "m"},
					{"type": "disc", "center": [0,0,0], "normal": [0,0,0], "radius": 1, "material": "m"},
					{"type": "cylinder", "base": [0,1,0], "top": [0,1,0], "radius": 1, "material": "m"}
				]}`,
			contains: []string{
				"geometry[0]: missing center",
				"geometry[1]: u and v must not be parallel",
				"geometry[2]: scale factors must be positive",
				"geometry[3]: rotate needs exactly one of axis or euler",
				`geometry[4]: unknown geometry type "cone"`,
				"geometry[5]: normal must be non-zero",
				"geometry[6]: base and top must differ",
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			desc, err := ParseDescription(strings.NewReader(tc.content))
			if err != nil {
				t.Fatalf("ParseDescription() error: %v", err)
			}

			_, err = desc.Build(BuildOptions{})
			if err == nil {
				t.Fatal("Expected Build() to fail")
			}
			for _, fragment := range tc.contains {
				if !strings.Contains(err.Error(), fragment) {
					t.Errorf("Error %q does not mention %q", err.Error(), fragment)
				}
			}
		})
	}
}

func TestDescription_DiscAndCylinder(t *testing.T) {
	content := `{
		"camera": {"center": [0,0,10], "lookAt": [0,0,0], "up": [0,1,0], "width": 20, "height": 20, "vfov": 30},
		"materials": [{"name": "m", "type": "lambertian", "albedo": [0.5, 0.5, 0.5]}],
		"geometry": [
			{"type": "cylinder", "base": [0,-1,0], "top": [0,1,0], "radius": 1, "material": "m"},
			{"type": "disc", "center": [0,1,0], "normal": [0,1,0], "radius": 1, "material": "m"}
		]
	}`
	desc, err := ParseDescription(strings.NewReader(content))
	if err != nil {
		t.Fatalf("ParseDescription() error: %v", err)
	}
	s, err := desc.Build(BuildOptions{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	s.Preprocess(rand.New(rand.NewSource(1)))

	if _, ok := s.Shapes[0].(*geometry.Cylinder); !ok {
		t.Errorf("Expected cylinder, got %T", s.Shapes[0])
	}
	if _, ok := s.Shapes[1].(*geometry.Disc); !ok {
		t.Errorf("Expected disc, got %T", s.Shapes[1])
	}

	// Straight down onto the cap
	hit, ok := s.Hit(core.NewRay(core.NewVec3(0.2, 5, 0), core.NewVec3(0, -1, 0)), core.NewInterval(0.001, math.Inf(1)))
	if !ok {
		t.Fatal("Expected to hit the cap")
	}
	if math.Abs(hit.T-4) > 1e-9 {
		t.Errorf("Expected T=4, got %v", hit.T)
	}
}

func TestLoadSceneFile_RelativeMesh(t *testing.T) {
	dir := t.TempDir()
	obj := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"
	if err := os.WriteFile(filepath.Join(dir, "tri.obj"), []byte(obj), 0644); err != nil {
		t.Fatalf("Failed to write mesh: %v", err)
	}

	content := `{
		"camera": {"center": [0,0,5], "lookAt": [0,0,0], "up": [0,1,0], "width": 8, "height": 8, "vfov": 40},
		"materials": [{"name": "m", "type": "lambertian", "albedo": [0.5, 0.5, 0.5]}],
		"geometry": [{"type": "mesh", "file": "tri.obj", "material": "m"}]
	}`
	path := writeSceneFile(t, dir, "mesh.json", content)

	s, err := LoadSceneFile(path, BuildOptions{Random: rand.New(rand.NewSource(1))})
	if err != nil {
		t.Fatalf("LoadSceneFile() error: %v", err)
	}
	if got := s.GetPrimitiveCount(); got != 1 {
		t.Errorf("GetPrimitiveCount() = %d, want 1", got)
	}
}
