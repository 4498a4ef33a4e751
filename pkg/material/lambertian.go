package material

import (
	"github.com/df07/go-adaptive-pathtracer/pkg/core"
)

// Lambertian represents a perfectly diffuse material
type Lambertian struct {
	Albedo core.Texture // Base color/reflectance (can be solid or textured)
}

// NewLambertian creates a new lambertian material with solid color
func NewLambertian(albedo core.Color) *Lambertian {
	return &Lambertian{Albedo: NewSolidColor(albedo)}
}

// NewTexturedLambertian creates a new lambertian material with texture
func NewTexturedLambertian(albedo core.Texture) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// Scatter bounces the ray toward normal + a random unit vector, which
// distributes directions with a cosine weighting about the normal
func (l *Lambertian) Scatter(rayIn core.Ray, hit *core.Intersection, sampler core.Sampler) (core.ScatterResult, bool) {
	normal := hit.ShadingNormal(rayIn)
	direction := normal.Add(core.SampleOnUnitSphere(sampler.Get2D()))

	// The random vector can cancel the normal almost exactly
	if direction.NearZero(1e-16) {
		direction = normal
	}

	return core.ScatterResult{
		Attenuation: l.Albedo.ColorAt(hit.UV, hit.Point),
		Scattered:   core.NewRay(hit.Point, direction),
	}, true
}
