package integrator

import (
	"math"

	"github.com/df07/go-adaptive-pathtracer/pkg/core"
)

// HitEpsilon keeps bounce rays from re-hitting the surface they left
const HitEpsilon = 0.001

// PathTracingIntegrator implements unidirectional path tracing without
// explicit light sampling. Light is only found by bouncing into emitters or
// escaping to the background.
type PathTracingIntegrator struct {
	maxDepth int
}

// NewPathTracingIntegrator creates a path tracer that follows at most maxDepth bounces
func NewPathTracingIntegrator(maxDepth int) *PathTracingIntegrator {
	return &PathTracingIntegrator{maxDepth: maxDepth}
}

// MaxDepth returns the bounce limit
func (pt *PathTracingIntegrator) MaxDepth() int {
	return pt.maxDepth
}

// RayColor returns the light arriving along ray
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, scene Scene, sampler core.Sampler) core.Color {
	return pt.trace(ray, scene, pt.maxDepth, sampler)
}

func (pt *PathTracingIntegrator) trace(ray core.Ray, scene Scene, depth int, sampler core.Sampler) core.Color {
	// Out of bounces, no more light is gathered
	if depth <= 0 {
		return core.Black()
	}

	hit, isHit := scene.Hit(ray, core.Interval{Min: HitEpsilon, Max: math.Inf(1)})
	if !isHit {
		return scene.Background()
	}

	emitted := core.Emission(hit.Material, hit.UV)
	scatter, didScatter := hit.Material.Scatter(ray, hit, sampler)
	if !didScatter {
		return emitted
	}

	return emitted.Add(scatter.Attenuation.Multiply(pt.trace(scatter.Scattered, scene, depth-1, sampler)))
}
