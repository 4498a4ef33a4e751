package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-adaptive-pathtracer/pkg/core"
)

func TestDisc_Hit(t *testing.T) {
	// Unit disc at the origin facing up
	mat := &testMaterial{name: "disc"}
	disc := NewDisc(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), 1, mat)

	tests := []struct {
		name      string
		ray       core.Ray
		shouldHit bool
		expectedT float64
	}{
		{"Center", core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, -1, 0)), true, 1},
		{"Edge", core.NewRay(core.NewVec3(1, 1, 0), core.NewVec3(0, -1, 0)), true, 1},
		{"Outside radius", core.NewRay(core.NewVec3(1.1, 1, 0), core.NewVec3(0, -1, 0)), false, 0},
		{"Parallel", core.NewRay(core.NewVec3(0, 0.5, 0), core.NewVec3(1, 0, 0)), false, 0},
		{"From below", core.NewRay(core.NewVec3(0.2, -2, 0.3), core.NewVec3(0, 1, 0)), true, 2},
		{"Pointing away", core.NewRay(core.NewVec3(0, 1, 0), core.NewVec3(0, 1, 0)), false, 0},
		{"Oblique", core.NewRay(core.NewVec3(-1, 1, 0), core.NewVec3(1, -1, 0)), true, math.Sqrt2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := disc.Hit(tt.ray, forward)
			if isHit != tt.shouldHit {
				t.Fatalf("Expected hit=%v, got %v", tt.shouldHit, isHit)
			}
			if !isHit {
				return
			}
			assertNear(t, "T", hit.T, tt.expectedT, 1e-9)
			assertVecNear(t, "Normal", hit.Normal, core.NewVec3(0, 1, 0), 1e-12)
			if hit.Material != mat {
				t.Errorf("Expected disc material, got %v", hit.Material)
			}
		})
	}
}

func TestDisc_Interval(t *testing.T) {
	disc := NewDisc(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), 1, &testMaterial{})
	ray := core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1))

	if _, ok := disc.Hit(ray, core.NewInterval(0.001, 4)); ok {
		t.Error("Expected hit beyond interval max to be rejected")
	}
	if _, ok := disc.Hit(ray, core.NewInterval(0.001, 6)); !ok {
		t.Error("Expected hit within interval")
	}
}

func TestDisc_UV(t *testing.T) {
	disc := NewDisc(core.NewVec3(1, 2, 3), core.NewVec3(1, 1, 0), 2, &testMaterial{})

	center, ok := disc.Hit(core.NewRay(disc.Center.Add(disc.Normal), disc.Normal.Negate()), forward)
	if !ok {
		t.Fatal("Expected hit at disc center")
	}
	assertNear(t, "V at center", center.UV.Y, 0, 1e-9)

	random := rand.New(rand.NewSource(5))
	for i := 0; i < 200; i++ {
		target := disc.Center.Add(disc.right.Multiply(random.Float64()*2 - 1)).Add(disc.up.Multiply(random.Float64()*2 - 1))
		hit, ok := disc.Hit(core.NewRayThrough(disc.Center.Add(disc.Normal.Multiply(3)), target), forward)
		if !ok {
			continue
		}
		if hit.UV.X < 0 || hit.UV.X > 1 || hit.UV.Y < 0 || hit.UV.Y > 1 {
			t.Fatalf("UV out of range: %v", hit.UV)
		}
		assertNear(t, "V", hit.UV.Y, hit.Point.Subtract(disc.Center).Length()/disc.Radius, 1e-9)
	}
}

func TestDisc_BoundingBox(t *testing.T) {
	tests := []struct {
		name     string
		normal   core.Vec3
		min, max core.Vec3
	}{
		{"Facing Y", core.NewVec3(0, 1, 0), core.NewVec3(-2, 0, -2), core.NewVec3(2, 0, 2)},
		{"Facing Z", core.NewVec3(0, 0, -1), core.NewVec3(-2, -2, 0), core.NewVec3(2, 2, 0)},
		{"Diagonal", core.NewVec3(1, 1, 0), core.NewVec3(-math.Sqrt2, -math.Sqrt2, -2), core.NewVec3(math.Sqrt2, math.Sqrt2, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box := NewDisc(core.NewVec3(0, 0, 0), tt.normal, 2, &testMaterial{}).BoundingBox()
			// Flat axes are padded, so allow a small slack
			assertVecNear(t, "Min", box.Min(), tt.min, 1e-3)
			assertVecNear(t, "Max", box.Max(), tt.max, 1e-3)
		})
	}
}

func TestDisc_HitsInsideBoundingBox(t *testing.T) {
	disc := NewDisc(core.NewVec3(0.5, -1, 2), core.NewVec3(0.3, 0.8, -0.5), 1.5, &testMaterial{})
	box := disc.BoundingBox()
	random := rand.New(rand.NewSource(9))
	eye := core.NewVec3(0, 5, 0)

	for i := 0; i < 500; i++ {
		target := box.Min().Add(box.Size().MultiplyVec(core.NewVec3(random.Float64(), random.Float64(), random.Float64())))
		hit, ok := disc.Hit(core.NewRayThrough(eye, target), forward)
		if ok && !box.Contains(hit.Point) {
			t.Fatalf("Hit point %v outside bounding box %v", hit.Point, box)
		}
	}
}
