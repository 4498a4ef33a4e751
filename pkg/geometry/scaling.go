package geometry

import (
	"fmt"

	"github.com/df07/go-adaptive-pathtracer/pkg/core"
)

// Scaling stretches a wrapped shape by a per-axis factor about the origin
type Scaling struct {
	Inner  Shape
	Factor core.Vec3
	inv    core.Vec3
	bbox   core.AABB
}

// NewScaling wraps inner scaled by factor. Every component must be strictly positive.
func NewScaling(inner Shape, factor core.Vec3) *Scaling {
	if !(factor.X > 0 && factor.Y > 0 && factor.Z > 0) {
		panic(fmt.Sprintf("scale factors must be positive, got %v", factor))
	}

	innerBox := inner.BoundingBox()
	return &Scaling{
		Inner:  inner,
		Factor: factor,
		inv:    core.NewVec3(1/factor.X, 1/factor.Y, 1/factor.Z),
		bbox: core.NewAABBFromPoints(
			innerBox.Min().MultiplyVec(factor),
			innerBox.Max().MultiplyVec(factor),
		),
	}
}

// NewUniformScaling scales inner by the same factor on every axis
func NewUniformScaling(inner Shape, factor float64) *Scaling {
	return NewScaling(inner, core.NewVec3(factor, factor, factor))
}

// Hit maps the ray into unscaled space, intersects, and maps the result back.
// A world distance t corresponds to local distance t*k where k is the length
// of the inverse-scaled direction, so the interval is stretched by k.
func (sc *Scaling) Hit(ray core.Ray, interval core.Interval) (*core.Intersection, bool) {
	localDirection := ray.Direction.MultiplyVec(sc.inv)
	k := localDirection.Length()
	if k*k < degenerateTolerance {
		return nil, false
	}

	local := core.Ray{
		Origin:    ray.Origin.MultiplyVec(sc.inv),
		Direction: localDirection.Multiply(1 / k),
	}

	hit, ok := sc.Inner.Hit(local, interval.Scale(k))
	if !ok {
		return nil, false
	}

	// Normals transform by the inverse transpose, which for a diagonal matrix
	// is the reciprocal scale
	normal := hit.Normal.MultiplyVec(sc.inv)
	if normal.NearZero(degenerateTolerance) {
		return nil, false
	}

	point := hit.Point.MultiplyVec(sc.Factor)
	return &core.Intersection{
		Point:    point,
		T:        worldDistance(ray, point),
		Normal:   normal.Normalize(),
		Material: hit.Material,
		UV:       hit.UV,
	}, true
}

// BoundingBox returns the inner box with both corners scaled
func (sc *Scaling) BoundingBox() core.AABB {
	return sc.bbox
}
