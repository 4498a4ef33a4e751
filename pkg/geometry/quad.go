package geometry

import (
	"math"

	"github.com/df07/go-adaptive-pathtracer/pkg/core"
)

// parallelEpsilon rejects rays nearly parallel to a planar surface
const parallelEpsilon = 1e-8

// Quad represents a parallelogram defined by a corner and two edge vectors
type Quad struct {
	Corner   core.Vec3     // One corner of the quad
	U        core.Vec3     // First edge vector
	V        core.Vec3     // Second edge vector
	Normal   core.Vec3     // Unit normal (U × V normalized)
	Material core.Material // Material of the quad
	D        float64       // Plane equation constant: normal · p = D
	W        core.Vec3     // n / (n · n) with n = U × V, for recovering (alpha, beta)
	bbox     core.AABB
}

// NewQuad creates a new quad from a corner point and two edge vectors
func NewQuad(corner, u, v core.Vec3, material core.Material) *Quad {
	n := u.Cross(v)
	normal := n.Normalize()

	// Both diagonals so that any orientation of the edges is covered
	bbox := core.NewAABBFromPoints(corner, corner.Add(u).Add(v)).
		Union(core.NewAABBFromPoints(corner.Add(u), corner.Add(v)))

	return &Quad{
		Corner:   corner,
		U:        u,
		V:        v,
		Normal:   normal,
		Material: material,
		D:        normal.Dot(corner),
		W:        n.Multiply(1.0 / n.Dot(n)),
		bbox:     bbox,
	}
}

// Hit tests if a ray intersects with the quad
func (q *Quad) Hit(ray core.Ray, interval core.Interval) (*core.Intersection, bool) {
	denominator := q.Normal.Dot(ray.Direction)
	if math.Abs(denominator) < parallelEpsilon {
		return nil, false
	}

	t := (q.D - q.Normal.Dot(ray.Origin)) / denominator
	if !interval.Contains(t) {
		return nil, false
	}

	point := ray.At(t)
	offset := point.Subtract(q.Corner)
	alpha := q.W.Dot(offset.Cross(q.V))
	beta := 1 - q.W.Dot(q.U.Cross(offset))

	if !core.UnitInterval.Contains(alpha) || !core.UnitInterval.Contains(beta) {
		return nil, false
	}

	return &core.Intersection{
		Point:    point,
		T:        t,
		Normal:   q.Normal,
		Material: q.Material,
		UV:       core.NewVec2(alpha, beta),
	}, true
}

// BoundingBox returns the union of the boxes spanning both diagonals
func (q *Quad) BoundingBox() core.AABB {
	return q.bbox
}
