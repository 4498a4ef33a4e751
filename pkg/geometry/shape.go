package geometry

import (
	"github.com/df07/go-adaptive-pathtracer/pkg/core"
)

// Primitive is anything that can be intersected by a ray and bounded by an AABB
type Primitive interface {
	Hit(ray core.Ray, interval core.Interval) (*core.Intersection, bool)
	BoundingBox() core.AABB
}

// Shape is the closed set of scene geometry: the primitives defined in this
// package and the transforms wrapping them. The unexported marker keeps the
// set closed so every shape honors the bounding box and distance contracts.
type Shape interface {
	Primitive
	shape()
}

func (*Sphere) shape()       {}
func (*Quad) shape()         {}
func (*Plane) shape()        {}
func (*Triangle) shape()     {}
func (*TriangleMesh) shape() {}
func (*Box) shape()          {}
func (*Disc) shape()         {}
func (*Cylinder) shape()     {}
func (*Translation) shape()  {}
func (*Scaling) shape()      {}
func (*Rotation) shape()     {}

// degenerateTolerance is the squared length below which a transformed
// direction or normal is treated as collapsed
const degenerateTolerance = 1e-10

// worldDistance recomputes the hit distance from the world-space point.
// Transforms must never copy a local distance because scaling changes arclength.
func worldDistance(ray core.Ray, point core.Vec3) float64 {
	return point.Subtract(ray.Origin).Length()
}
