package scene

import (
	"math"

	"github.com/df07/go-adaptive-pathtracer/pkg/core"
	"github.com/df07/go-adaptive-pathtracer/pkg/geometry"
	"github.com/df07/go-adaptive-pathtracer/pkg/material"
)

// NewTransformScene creates a scene exercising nested translation, scaling and
// rotation, lit only by a white sky
func NewTransformScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	cameraConfig := applyOverrides(geometry.CameraConfig{
		Center:      core.NewVec3(0, 0, 50),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       480,
		Height:      270,
		VFov:        80,
		FocalLength: 50,
	}, cameraOverrides)

	s := New(cameraConfig, core.White())

	blue := material.NewLambertian(core.NewColor(0.2, 0.2, 0.8))
	mirror := material.NewMetal(core.NewColor(0.9, 0.8, 0.8), 0.01)
	checker := material.NewTexturedLambertian(material.NewCheckerboard(0.2,
		material.NewSolidColor(core.NewColor(0.2, 0.2, 0.8)),
		material.NewSolidColor(core.NewColor(0.2, 0.2, 0.2)),
	))

	// Icosahedron stretched tall, tipped over, then lifted into view
	gem := geometry.NewTranslation(
		geometry.NewEulerRotation(
			geometry.NewScaling(createIcosahedronMesh(1, blue), core.NewVec3(6, 10, 6)),
			0, 0, math.Pi/8,
		),
		core.NewVec3(-18, 0, 0),
	)

	cube := geometry.NewTranslation(
		geometry.NewAxisAngleRotation(geometry.NewBox(core.Vec3{}, 6, checker), core.NewVec3(1, 1, 0), math.Pi/5),
		core.NewVec3(18, 0, 0),
	)

	// Capped drum resting on the ground, squashed along its axis
	drum := geometry.NewTranslation(
		geometry.NewScaling(
			geometry.NewCylinder(core.Vec3{}, core.NewVec3(0, 1, 0), 4, mirror),
			core.NewVec3(1, 5, 1),
		),
		core.NewVec3(0, -12, 10),
	)
	lid := geometry.NewDisc(core.NewVec3(0, -7, 10), core.NewVec3(0, 1, 0), 4, blue)

	s.Shapes = append(s.Shapes,
		gem,
		cube,
		drum,
		lid,
		geometry.NewSphere(core.NewVec3(0, 0, -30), 12, mirror),
		NewGroundQuad(core.NewVec3(0, -12, -10), 80, checker),
	)

	return s
}
