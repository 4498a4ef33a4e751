package geometry

import (
	"math"

	"github.com/df07/go-adaptive-pathtracer/pkg/core"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material core.Material
	bbox     core.AABB
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, material core.Material) *Sphere {
	r := core.NewVec3(radius, radius, radius)
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: material,
		bbox:     core.NewAABBFromPoints(center.Subtract(r), center.Add(r)),
	}
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, interval core.Interval) (*core.Intersection, bool) {
	// Direction is unit length, so the quadratic's a term is 1
	oc := s.Center.Subtract(ray.Origin)
	h := ray.Direction.Dot(oc)
	c := oc.LengthSquared() - s.Radius*s.Radius

	discriminant := h*h - c
	if discriminant < 0 {
		return nil, false
	}
	sqrtD := math.Sqrt(discriminant)

	// Try the closer root first, then the farther one
	root := h - sqrtD
	if !interval.Contains(root) {
		root = h + sqrtD
		if !interval.Contains(root) {
			return nil, false
		}
	}

	point := ray.At(root)
	normal := point.Subtract(s.Center).Normalize()

	return &core.Intersection{
		Point:    point,
		T:        root,
		Normal:   normal,
		Material: s.Material,
		UV:       sphereUV(normal),
	}, true
}

// sphereUV maps a point on the unit sphere to texture coordinates:
// u is the angle around the Y axis from X=-1, v is the angle from Y=-1
func sphereUV(p core.Vec3) core.Vec2 {
	theta := math.Acos(-p.Y)
	phi := math.Atan2(-p.Z, p.X) + math.Pi
	return core.NewVec2(phi/(2*math.Pi), theta/math.Pi)
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.AABB {
	return s.bbox
}
