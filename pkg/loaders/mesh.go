package loaders

import (
	"fmt"
	"math/rand"

	"github.com/fogleman/fauxgl"

	"github.com/df07/go-adaptive-pathtracer/pkg/core"
	"github.com/df07/go-adaptive-pathtracer/pkg/geometry"
)

// MeshOptions controls mesh import
type MeshOptions struct {
	Normalize bool       // Fit the mesh into the [-1,1] cube before conversion
	Random    *rand.Rand // Source for the mesh BVH split axes (nil = time seeded)
	Logger    core.Logger
}

// degenerateArea is the squared cross-product length below which a face is dropped
const degenerateArea = 1e-20

// LoadMesh reads an OBJ, STL, PLY or 3DS file into a triangle mesh
func LoadMesh(filename string, mat core.Material, options MeshOptions) (*geometry.TriangleMesh, error) {
	mesh, err := fauxgl.LoadMesh(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to load mesh %s: %w", filename, err)
	}
	if len(mesh.Triangles) == 0 {
		return nil, fmt.Errorf("mesh %s has no triangles", filename)
	}
	if options.Normalize {
		mesh.BiUnitCube()
	}

	result, dropped := ConvertMesh(mesh, mat, options.Random)
	if result.TriangleCount() == 0 {
		return nil, fmt.Errorf("mesh %s has only degenerate triangles", filename)
	}
	if options.Logger != nil {
		options.Logger.Printf("Loaded %s: %d triangles (%d degenerate dropped)\n", filename, result.TriangleCount(), dropped)
	}
	return result, nil
}

// ConvertMesh turns a fauxgl mesh into a triangle mesh, dropping zero-area
// faces. It returns the number of faces dropped.
func ConvertMesh(mesh *fauxgl.Mesh, mat core.Material, random *rand.Rand) (*geometry.TriangleMesh, int) {
	vertices := make([]core.Vec3, 0, len(mesh.Triangles)*3)
	faces := make([]int, 0, len(mesh.Triangles)*3)
	dropped := 0

	for _, tri := range mesh.Triangles {
		v0 := fromFauxgl(tri.V1.Position)
		v1 := fromFauxgl(tri.V2.Position)
		v2 := fromFauxgl(tri.V3.Position)
		if v1.Subtract(v0).Cross(v2.Subtract(v0)).LengthSquared() < degenerateArea {
			dropped++
			continue
		}
		base := len(vertices)
		vertices = append(vertices, v0, v1, v2)
		faces = append(faces, base, base+1, base+2)
	}

	return geometry.NewTriangleMesh(vertices, faces, mat, &geometry.TriangleMeshOptions{Random: random}), dropped
}

func fromFauxgl(v fauxgl.Vector) core.Vec3 {
	return core.NewVec3(v.X, v.Y, v.Z)
}
