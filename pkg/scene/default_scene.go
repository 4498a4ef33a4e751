package scene

import (
	"github.com/df07/go-adaptive-pathtracer/pkg/core"
	"github.com/df07/go-adaptive-pathtracer/pkg/geometry"
	"github.com/df07/go-adaptive-pathtracer/pkg/material"
)

// NewDefaultScene creates a default scene with spheres on a ground plane under a bright sky
func NewDefaultScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	cameraConfig := applyOverrides(geometry.CameraConfig{
		Center: core.NewVec3(0, 0.75, 2), // Position camera higher and farther back
		LookAt: core.NewVec3(0, 0.5, -1), // Look at the sphere center
		Up:     core.NewVec3(0, 1, 0),
		Width:  400,
		Height: 225,
		VFov:   40.0,
	}, cameraOverrides)

	s := New(cameraConfig, core.NewColor(0.7, 0.8, 1.0))

	// Create materials
	lambertianGreen := material.NewLambertian(core.NewColor(0.48, 0.48, 0.0))
	lambertianRed := material.NewLambertian(core.NewColor(0.65, 0.25, 0.2))
	lambertianBlue := material.NewLambertian(core.NewColor(0.1, 0.2, 0.5))
	metalSilver := material.NewMetal(core.NewColor(0.8, 0.8, 0.8), 0.0)
	metalGold := material.NewMetal(core.NewColor(0.8, 0.6, 0.2), 0.3)

	ground := geometry.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), lambertianGreen)

	s.Shapes = append(s.Shapes,
		ground,
		geometry.NewSphere(core.NewVec3(0, 0.5, -1), 0.5, lambertianRed),
		geometry.NewSphere(core.NewVec3(-1, 0.5, -1), 0.5, metalSilver),
		geometry.NewSphere(core.NewVec3(1, 0.5, -1), 0.5, metalGold),
		geometry.NewSphere(core.NewVec3(0.5, 0.25, -0.5), 0.25, lambertianBlue),
	)

	return s
}
