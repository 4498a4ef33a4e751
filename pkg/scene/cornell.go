package scene

import (
	"math"

	"github.com/df07/go-adaptive-pathtracer/pkg/core"
	"github.com/df07/go-adaptive-pathtracer/pkg/geometry"
	"github.com/df07/go-adaptive-pathtracer/pkg/material"
)

// NewCornellScene creates a classic Cornell box scene with quad walls, a ceiling light and two rotated boxes
func NewCornellScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	cameraConfig := applyOverrides(geometry.CameraConfig{
		Center: core.NewVec3(278, 278, -800), // Position camera outside the box looking in
		LookAt: core.NewVec3(278, 278, 0),
		Up:     core.NewVec3(0, 1, 0),
		Width:  400,
		Height: 400,
		VFov:   40.0,
	}, cameraOverrides)

	s := New(cameraConfig, core.Black())

	// Create materials
	white := material.NewLambertian(core.NewColor(0.73, 0.73, 0.73))
	red := material.NewLambertian(core.NewColor(0.65, 0.05, 0.05))
	green := material.NewLambertian(core.NewColor(0.12, 0.45, 0.15))
	light := material.NewDiffuseLight(core.White())

	// Cornell box dimensions (standard 555x555x555 units)
	boxSize := 555.0

	// Walls are oriented so u × v points into the box
	floor := geometry.NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, boxSize), core.NewVec3(boxSize, 0, 0), white)
	ceiling := geometry.NewQuad(core.NewVec3(0, boxSize, 0), core.NewVec3(boxSize, 0, 0), core.NewVec3(0, 0, boxSize), white)
	backWall := geometry.NewQuad(core.NewVec3(0, 0, boxSize), core.NewVec3(0, boxSize, 0), core.NewVec3(boxSize, 0, 0), white)
	leftWall := geometry.NewQuad(core.NewVec3(boxSize, 0, 0), core.NewVec3(0, 0, boxSize), core.NewVec3(0, boxSize, 0), red)
	rightWall := geometry.NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(0, boxSize, 0), core.NewVec3(0, 0, boxSize), green)

	s.Shapes = append(s.Shapes, floor, ceiling, backWall, leftWall, rightWall)

	// Ceiling light, slightly below the ceiling and facing down
	lightSize := 130.0
	lightOffset := (boxSize - lightSize) / 2.0
	s.Shapes = append(s.Shapes, geometry.NewQuad(
		core.NewVec3(lightOffset, boxSize-1, lightOffset),
		core.NewVec3(lightSize, 0, 0),
		core.NewVec3(0, 0, lightSize),
		light,
	))

	// Boxes are built at the origin, turned about Y, then moved into place
	tallBox := geometry.NewScaling(geometry.NewBox(core.NewVec3(0, 1, 0), 1, white), core.NewVec3(82.5, 165, 82.5))
	s.Shapes = append(s.Shapes, geometry.NewTranslation(
		geometry.NewAxisAngleRotation(tallBox, core.NewVec3(0, 1, 0), 15*math.Pi/180),
		core.NewVec3(347.5, 0, 377.5),
	))

	shortBox := geometry.NewUniformScaling(geometry.NewBox(core.NewVec3(0, 1, 0), 1, white), 82.5)
	s.Shapes = append(s.Shapes, geometry.NewTranslation(
		geometry.NewAxisAngleRotation(shortBox, core.NewVec3(0, 1, 0), -18*math.Pi/180),
		core.NewVec3(212.5, 0, 147.5),
	))

	return s
}
