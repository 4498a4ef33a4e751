package material

import (
	"github.com/df07/go-adaptive-pathtracer/pkg/core"
)

// DiffuseLight emits the color of its texture and never scatters
type DiffuseLight struct {
	Emission core.Texture
}

// NewDiffuseLight creates a light emitting a solid color
func NewDiffuseLight(emission core.Color) *DiffuseLight {
	return &DiffuseLight{Emission: NewSolidColor(emission)}
}

// NewTexturedDiffuseLight creates a light whose emission varies over the surface
func NewTexturedDiffuseLight(emission core.Texture) *DiffuseLight {
	return &DiffuseLight{Emission: emission}
}

// Scatter absorbs every incoming ray
func (d *DiffuseLight) Scatter(rayIn core.Ray, hit *core.Intersection, sampler core.Sampler) (core.ScatterResult, bool) {
	return core.ScatterResult{}, false
}

// Emit returns the emitted light at the surface coordinates
func (d *DiffuseLight) Emit(uv core.Vec2) core.Color {
	return d.Emission.ColorAt(uv, core.Vec3{})
}
