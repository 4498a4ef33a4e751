package core

import (
	"fmt"
	"math"
)

// Intersection records where a ray hit a surface
type Intersection struct {
	Point    Vec3     // World-space hit point
	T        float64  // Distance from the ray origin to Point
	Normal   Vec3     // Outward unit surface normal
	Material Material // Material of the surface that was hit
	UV       Vec2     // Surface parametric coordinates
}

// ShadingNormal returns the normal flipped to face against the incoming ray
func (hit *Intersection) ShadingNormal(rayIn Ray) Vec3 {
	if rayIn.Direction.Dot(hit.Normal) > 0 {
		return hit.Normal.Negate()
	}
	return hit.Normal
}

// CompareDistance orders two intersections by distance.
// It panics if either distance is NaN.
func CompareDistance(a, b *Intersection) int {
	if math.IsNaN(a.T) || math.IsNaN(b.T) {
		panic(fmt.Sprintf("intersection distance is NaN: %v vs %v", a.T, b.T))
	}
	switch {
	case a.T < b.T:
		return -1
	case a.T > b.T:
		return 1
	default:
		return 0
	}
}

// Closer returns whichever intersection is nearer, accepting nil for a miss
func Closer(a, b *Intersection) *Intersection {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if CompareDistance(b, a) < 0 {
		return b
	}
	return a
}

// ScatterResult describes a scattered ray and its color attenuation
type ScatterResult struct {
	Attenuation Color
	Scattered   Ray
}

// Material determines how light scatters at a surface
type Material interface {
	// Scatter returns false when the ray is absorbed
	Scatter(rayIn Ray, hit *Intersection, sampler Sampler) (ScatterResult, bool)
}

// Emitter is implemented by materials that emit light
type Emitter interface {
	Emit(uv Vec2) Color
}

// Emission returns the light emitted by a material, black for non-emitters
func Emission(material Material, uv Vec2) Color {
	if emitter, ok := material.(Emitter); ok {
		return emitter.Emit(uv)
	}
	return Black()
}

// Texture maps a surface location to a color
type Texture interface {
	ColorAt(uv Vec2, point Vec3) Color
}
