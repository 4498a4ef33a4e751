package scene

import (
	"github.com/df07/go-adaptive-pathtracer/pkg/core"
	"github.com/df07/go-adaptive-pathtracer/pkg/geometry"
	"github.com/df07/go-adaptive-pathtracer/pkg/material"
)

// NewTextureScene creates a scene demonstrating texture mapping on each kind of geometry
func NewTextureScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	cameraConfig := applyOverrides(geometry.CameraConfig{
		Center: core.NewVec3(0, 2, 10),
		LookAt: core.NewVec3(0, 1, 0),
		Up:     core.NewVec3(0, 1, 0),
		Width:  800,
		Height: 450,
		VFov:   50.0, // Wider FOV to see all shapes
	}, cameraOverrides)

	s := New(cameraConfig, core.NewColor(0.8, 0.85, 0.9))

	white := material.NewSolidColor(core.NewColor(0.9, 0.9, 0.9))
	blue := material.NewSolidColor(core.NewColor(0.2, 0.2, 0.8))
	orange := material.NewSolidColor(core.NewColor(0.7, 0.3, 0.1))
	brown := material.NewSolidColor(core.NewColor(0.5, 0.2, 0.05))

	checkerboard := material.NewCheckerboard(0.125, white, blue)
	bricks := material.NewScaleTexture(0.25, 0.25, material.NewCheckerboard(0.5, orange, brown))
	gradient := material.NewGradientTexture(1, 256, core.NewColor(1.0, 0.2, 0.2), core.NewColor(0.2, 1.0, 0.2))
	uvDebug := material.NewUVDebugTexture(256, 256)

	checkerMat := material.NewTexturedLambertian(checkerboard)
	brickMat := material.NewTexturedLambertian(bricks)
	gradientMat := material.NewTexturedLambertian(gradient)
	uvDebugMat := material.NewTexturedLambertian(uvDebug)

	// Ground plane with an explicit basis so its UVs tile every unit
	ground := geometry.NewPlaneWithBasis(
		core.NewVec3(0, 0, 0),
		core.NewVec3(0, 1, 0),
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, 0, 1),
		brickMat,
	)

	s.Shapes = append(s.Shapes,
		ground,
		geometry.NewSphere(core.NewVec3(-4.5, 1, 0), 1.0, checkerMat),
		geometry.NewBox(core.NewVec3(-1.8, 0.8, 0), 0.8, uvDebugMat),
		geometry.NewQuad(core.NewVec3(0.5, 0, 0.2), core.NewVec3(1.5, 0, -0.3), core.NewVec3(0, 2, 0), gradientMat),
		geometry.NewTriangle(core.NewVec3(3, 0, 0), core.NewVec3(5, 0, 0), core.NewVec3(4, 2, 0), uvDebugMat),
	)

	return s
}
