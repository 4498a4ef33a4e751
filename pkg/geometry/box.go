package geometry

import (
	"github.com/df07/go-adaptive-pathtracer/pkg/core"
)

// Box is an axis-aligned cube built from six outward-facing quads.
// Orientation is applied by wrapping it in a Rotation.
type Box struct {
	Center     core.Vec3
	HalfExtent float64
	Material   core.Material
	faces      [6]*Quad
	bbox       core.AABB
}

// NewBox creates a cube centered at center with the given half edge length
func NewBox(center core.Vec3, halfExtent float64, material core.Material) *Box {
	r := halfExtent
	min := center.Subtract(core.NewVec3(r, r, r))
	max := center.Add(core.NewVec3(r, r, r))
	dx := core.NewVec3(2*r, 0, 0)
	dy := core.NewVec3(0, 2*r, 0)
	dz := core.NewVec3(0, 0, 2*r)

	// Faces in order +Z, -Z, +X, -X, +Y, -Y. Edge order makes u × v point outward.
	faces := [6]*Quad{
		NewQuad(core.NewVec3(min.X, min.Y, max.Z), dx, dy, material),
		NewQuad(core.NewVec3(max.X, min.Y, min.Z), dx.Negate(), dy, material),
		NewQuad(core.NewVec3(max.X, min.Y, max.Z), dz.Negate(), dy, material),
		NewQuad(min, dz, dy, material),
		NewQuad(core.NewVec3(min.X, max.Y, max.Z), dx, dz.Negate(), material),
		NewQuad(min, dx, dz, material),
	}

	return &Box{
		Center:     center,
		HalfExtent: halfExtent,
		Material:   material,
		faces:      faces,
		bbox:       core.NewAABBFromPoints(min, max),
	}
}

// Hit returns the nearest face hit
func (b *Box) Hit(ray core.Ray, interval core.Interval) (*core.Intersection, bool) {
	var closest *core.Intersection
	for _, face := range b.faces {
		if hit, ok := face.Hit(ray, interval); ok {
			closest = core.Closer(closest, hit)
		}
	}
	return closest, closest != nil
}

// BoundingBox returns the axis-aligned bounding box for this box
func (b *Box) BoundingBox() core.AABB {
	return b.bbox
}
