// Package integrator computes the light carried along a camera ray.
package integrator

import (
	"github.com/df07/go-adaptive-pathtracer/pkg/core"
)

// Scene is what an integrator needs from the world: closest-hit queries and
// the color returned by rays that escape
type Scene interface {
	Hit(ray core.Ray, interval core.Interval) (*core.Intersection, bool)
	Background() core.Color
}

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor estimates the radiance arriving along ray. Implementations
	// must be safe for concurrent use with distinct samplers.
	RayColor(ray core.Ray, scene Scene, sampler core.Sampler) core.Color
}
