package geometry

import (
	"fmt"
	"math/rand"

	"github.com/df07/go-adaptive-pathtracer/pkg/core"
)

// TriangleMesh is a triangle soup with its own internal BVH
type TriangleMesh struct {
	triangles []*Triangle
	bvh       *BVH[*Triangle]
}

// TriangleMeshOptions contains optional parameters for triangle mesh creation
type TriangleMeshOptions struct {
	Normals []core.Vec3 // Optional custom normals (one per triangle)
	Random  *rand.Rand  // Optional source for BVH split axes
}

// NewTriangleMesh creates a new triangle mesh from vertices and 0-based face indices.
// Every group of three indices forms one triangle. Options may be nil.
func NewTriangleMesh(vertices []core.Vec3, faces []int, material core.Material, options *TriangleMeshOptions) *TriangleMesh {
	if len(faces)%3 != 0 {
		panic("face indices must be a multiple of 3")
	}

	numTriangles := len(faces) / 3
	if options == nil {
		options = &TriangleMeshOptions{}
	}
	if options.Normals != nil && len(options.Normals) != numTriangles {
		panic(fmt.Sprintf("got %d normals for %d triangles", len(options.Normals), numTriangles))
	}

	triangles := make([]*Triangle, numTriangles)
	for i := 0; i < numTriangles; i++ {
		i0, i1, i2 := faces[i*3], faces[i*3+1], faces[i*3+2]
		for _, idx := range [3]int{i0, i1, i2} {
			if idx < 0 || idx >= len(vertices) {
				panic(fmt.Sprintf("face %d references vertex %d of %d", i, idx, len(vertices)))
			}
		}

		if options.Normals != nil {
			triangles[i] = NewTriangleWithNormal(vertices[i0], vertices[i1], vertices[i2], options.Normals[i], material)
		} else {
			triangles[i] = NewTriangle(vertices[i0], vertices[i1], vertices[i2], material)
		}
	}

	return NewTriangleMeshFromTriangles(triangles, options.Random)
}

// NewTriangleMeshFromTriangles wraps already-built triangles in a mesh
func NewTriangleMeshFromTriangles(triangles []*Triangle, random *rand.Rand) *TriangleMesh {
	return &TriangleMesh{
		triangles: triangles,
		bvh:       NewBVH(triangles, random),
	}
}

// Hit tests if a ray intersects with any triangle in the mesh
func (tm *TriangleMesh) Hit(ray core.Ray, interval core.Interval) (*core.Intersection, bool) {
	return tm.bvh.Hit(ray, interval)
}

// BoundingBox returns the axis-aligned bounding box for the entire mesh
func (tm *TriangleMesh) BoundingBox() core.AABB {
	return tm.bvh.BoundingBox()
}

// TriangleCount returns the number of triangles in this mesh
func (tm *TriangleMesh) TriangleCount() int {
	return len(tm.triangles)
}

// Triangles returns the individual triangles
func (tm *TriangleMesh) Triangles() []*Triangle {
	return tm.triangles
}
