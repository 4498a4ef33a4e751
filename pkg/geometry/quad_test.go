package geometry

import (
	"math/rand"
	"testing"

	"github.com/df07/go-adaptive-pathtracer/pkg/core"
)

func TestQuad_Hit(t *testing.T) {
	// Unit square in the XY plane at z=0
	quad := NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), &testMaterial{})

	tests := []struct {
		name      string
		ray       core.Ray
		shouldHit bool
		expectedT float64
	}{
		{"Center", core.NewRay(core.NewVec3(0.5, 0.5, 1), core.NewVec3(0, 0, -1)), true, 1},
		{"From behind", core.NewRay(core.NewVec3(0.5, 0.5, -2), core.NewVec3(0, 0, 1)), true, 2},
		{"Corner", core.NewRay(core.NewVec3(0, 0, 1), core.NewVec3(0, 0, -1)), true, 1},
		{"Outside extent on plane", core.NewRay(core.NewVec3(1.5, 0.5, 1), core.NewVec3(0, 0, -1)), false, 0},
		{"Negative side", core.NewRay(core.NewVec3(-0.1, 0.5, 1), core.NewVec3(0, 0, -1)), false, 0},
		{"Parallel", core.NewRay(core.NewVec3(0.5, 0.5, 1), core.NewVec3(1, 0, 0)), false, 0},
		{"Pointing away", core.NewRay(core.NewVec3(0.5, 0.5, 1), core.NewVec3(0, 0, 1)), false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := quad.Hit(tt.ray, forward)
			if isHit != tt.shouldHit {
				t.Fatalf("Expected hit=%v, got %v", tt.shouldHit, isHit)
			}
			if isHit {
				assertNear(t, "T", hit.T, tt.expectedT, 1e-9)
				assertVecNear(t, "Normal", hit.Normal, core.NewVec3(0, 0, 1), 1e-12)
			}
		})
	}
}

func TestQuad_UVBounds(t *testing.T) {
	// A skewed parallelogram away from the origin
	corner := core.NewVec3(1, 2, -3)
	u := core.NewVec3(2, 0, 0.5)
	v := core.NewVec3(0.5, 1.5, 0)
	quad := NewQuad(corner, u, v, &testMaterial{})
	random := rand.New(rand.NewSource(3))
	eye := core.NewVec3(0, 0, 10)

	for i := 0; i < 500; i++ {
		a := random.Float64()*1.6 - 0.3
		b := random.Float64()*1.6 - 0.3
		target := corner.Add(u.Multiply(a)).Add(v.Multiply(b))
		ray := core.NewRayThrough(eye, target)

		hit, isHit := quad.Hit(ray, forward)
		inside := a >= 0 && a <= 1 && b >= 0 && b <= 1
		margin := 1e-6
		nearEdge := a > -margin && a < margin || a > 1-margin && a < 1+margin ||
			b > -margin && b < margin || b > 1-margin && b < 1+margin
		if nearEdge {
			continue
		}

		if isHit != inside {
			t.Fatalf("(%v,%v): expected hit=%v, got %v", a, b, inside, isHit)
		}
		if isHit {
			if !core.UnitInterval.Contains(hit.UV.X) || !core.UnitInterval.Contains(hit.UV.Y) {
				t.Fatalf("UV out of [0,1]: %v", hit.UV)
			}
			if !quad.BoundingBox().Contains(hit.Point) {
				t.Fatalf("Hit point %v outside bounding box", hit.Point)
			}
		}
	}
}

func TestQuad_BoundingBoxIsPadded(t *testing.T) {
	quad := NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1), &testMaterial{})
	box := quad.BoundingBox()

	if box.Y.Length() <= 0 {
		t.Errorf("Flat axis should be padded, got %v", box.Y)
	}
	ray := core.NewRay(core.NewVec3(0.5, 5, 0.5), core.NewVec3(0, -1, 0))
	if !box.Hit(ray, forward) {
		t.Error("Ray through the flat quad should pass the slab test")
	}
}
