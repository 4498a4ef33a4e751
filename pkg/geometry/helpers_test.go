package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-adaptive-pathtracer/pkg/core"
)

// testMaterial is a no-op material used to check material propagation
type testMaterial struct{ name string }

func (m *testMaterial) Scatter(core.Ray, *core.Intersection, core.Sampler) (core.ScatterResult, bool) {
	return core.ScatterResult{}, false
}

var forward = core.Interval{Min: 0.001, Max: math.Inf(1)}

func assertVecNear(t *testing.T, label string, got, expected core.Vec3, tolerance float64) {
	t.Helper()
	if got.Subtract(expected).Length() > tolerance {
		t.Errorf("%s: expected %v, got %v", label, expected, got)
	}
}

func assertNear(t *testing.T, label string, got, expected, tolerance float64) {
	t.Helper()
	if math.Abs(got-expected) > tolerance {
		t.Errorf("%s: expected %v, got %v", label, expected, got)
	}
}
