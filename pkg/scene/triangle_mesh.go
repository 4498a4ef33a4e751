package scene

import (
	"math"

	"github.com/df07/go-adaptive-pathtracer/pkg/core"
	"github.com/df07/go-adaptive-pathtracer/pkg/geometry"
	"github.com/df07/go-adaptive-pathtracer/pkg/material"
)

// NewTriangleMeshScene creates a scene showcasing triangle mesh geometry under rotation
func NewTriangleMeshScene(cameraOverrides ...geometry.CameraConfig) *Scene {
	cameraConfig := applyOverrides(geometry.CameraConfig{
		Center: core.NewVec3(0, 2, 6),
		LookAt: core.NewVec3(0, 1, 0),
		Up:     core.NewVec3(0, 1, 0),
		Width:  600,
		Height: 338,
		VFov:   45.0,
	}, cameraOverrides)

	s := New(cameraConfig, core.NewColor(0.7, 0.8, 1.0))

	s.Shapes = append(s.Shapes, geometry.NewPlane(
		core.NewVec3(0, 0, 0),
		core.NewVec3(0, 1, 0),
		material.NewLambertian(core.NewColor(0.7, 0.7, 0.7)),
	))

	redMetal := material.NewMetal(core.NewColor(0.8, 0.2, 0.2), 0.1)
	blueLambertian := material.NewLambertian(core.NewColor(0.2, 0.3, 0.8))
	goldMetal := material.NewMetal(core.NewColor(0.8, 0.6, 0.2), 0.05)

	// Meshes are built around the origin, turned about Y, then placed
	s.Shapes = append(s.Shapes,
		geometry.NewTranslation(
			geometry.NewAxisAngleRotation(createBoxMesh(core.NewVec3(1, 1, 1), redMetal), core.NewVec3(0, 1, 0), math.Pi/6),
			core.NewVec3(-2, 0.5, 0),
		),
		geometry.NewTranslation(
			geometry.NewAxisAngleRotation(createPyramidMesh(1.5, 2.0, blueLambertian), core.NewVec3(0, 1, 0), math.Pi/4),
			core.NewVec3(0, 1, 0),
		),
		geometry.NewTranslation(
			geometry.NewAxisAngleRotation(createIcosahedronMesh(0.8, goldMetal), core.NewVec3(0, 1, 0), math.Pi/3),
			core.NewVec3(2, 0.8, 0),
		),
	)

	return s
}

// createBoxMesh creates a triangle mesh box centered at the origin
func createBoxMesh(size core.Vec3, mat core.Material) *geometry.TriangleMesh {
	h := size.Multiply(0.5)
	vertices := []core.Vec3{
		core.NewVec3(-h.X, -h.Y, -h.Z), // 0: left-bottom-back
		core.NewVec3(+h.X, -h.Y, -h.Z), // 1: right-bottom-back
		core.NewVec3(+h.X, +h.Y, -h.Z), // 2: right-top-back
		core.NewVec3(-h.X, +h.Y, -h.Z), // 3: left-top-back
		core.NewVec3(-h.X, -h.Y, +h.Z), // 4: left-bottom-front
		core.NewVec3(+h.X, -h.Y, +h.Z), // 5: right-bottom-front
		core.NewVec3(+h.X, +h.Y, +h.Z), // 6: right-top-front
		core.NewVec3(-h.X, +h.Y, +h.Z), // 7: left-top-front
	}

	// Two triangles per face
	faces := []int{
		0, 2, 1, 0, 3, 2, // back
		4, 5, 6, 4, 6, 7, // front
		0, 4, 7, 0, 7, 3, // left
		1, 2, 6, 1, 6, 5, // right
		0, 1, 5, 0, 5, 4, // bottom
		3, 7, 6, 3, 6, 2, // top
	}

	return geometry.NewTriangleMesh(vertices, faces, mat, nil)
}

// createPyramidMesh creates a square pyramid centered at the origin
func createPyramidMesh(baseSize, height float64, mat core.Material) *geometry.TriangleMesh {
	halfBase := baseSize * 0.5
	halfHeight := height * 0.5

	vertices := []core.Vec3{
		core.NewVec3(-halfBase, -halfHeight, -halfBase), // 0: left-back
		core.NewVec3(+halfBase, -halfHeight, -halfBase), // 1: right-back
		core.NewVec3(+halfBase, -halfHeight, +halfBase), // 2: right-front
		core.NewVec3(-halfBase, -halfHeight, +halfBase), // 3: left-front
		core.NewVec3(0, +halfHeight, 0),                 // 4: apex
	}

	faces := []int{
		0, 1, 2, 0, 2, 3, // base
		0, 4, 1,
		1, 4, 2,
		2, 4, 3,
		3, 4, 0,
	}

	return geometry.NewTriangleMesh(vertices, faces, mat, nil)
}

// createIcosahedronMesh creates a regular icosahedron of the given circumradius
func createIcosahedronMesh(radius float64, mat core.Material) *geometry.TriangleMesh {
	phi := (1.0 + math.Sqrt(5)) / 2.0
	scale := radius / math.Sqrt(1+phi*phi)

	vertices := []core.Vec3{
		core.NewVec3(-1, phi, 0), core.NewVec3(1, phi, 0), core.NewVec3(-1, -phi, 0), core.NewVec3(1, -phi, 0),
		core.NewVec3(0, -1, phi), core.NewVec3(0, 1, phi), core.NewVec3(0, -1, -phi), core.NewVec3(0, 1, -phi),
		core.NewVec3(phi, 0, -1), core.NewVec3(phi, 0, 1), core.NewVec3(-phi, 0, -1), core.NewVec3(-phi, 0, 1),
	}
	for i := range vertices {
		vertices[i] = vertices[i].Multiply(scale)
	}

	faces := []int{
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}

	return geometry.NewTriangleMesh(vertices, faces, mat, nil)
}
