package geometry

import (
	"math"

	"github.com/df07/go-adaptive-pathtracer/pkg/core"
)

// Disc is a flat circle with a one-sided normal
type Disc struct {
	Center   core.Vec3
	Normal   core.Vec3 // Unit normal
	Radius   float64
	Material core.Material
	right    core.Vec3 // In-plane basis for UV
	up       core.Vec3
	bbox     core.AABB
}

// NewDisc creates a disc centered at center facing normal
func NewDisc(center, normal core.Vec3, radius float64, material core.Material) *Disc {
	n := normal.Normalize()

	helper := core.NewVec3(1, 0, 0)
	if math.Abs(n.X) > 0.9 {
		helper = core.NewVec3(0, 1, 0)
	}
	right := helper.Cross(n).Normalize()
	up := n.Cross(right)

	// A circle of radius r with unit normal n reaches r*sqrt(1-n_i²) along axis i
	extent := core.NewVec3(
		radius*math.Sqrt(math.Max(0, 1-n.X*n.X)),
		radius*math.Sqrt(math.Max(0, 1-n.Y*n.Y)),
		radius*math.Sqrt(math.Max(0, 1-n.Z*n.Z)),
	)

	return &Disc{
		Center:   center,
		Normal:   n,
		Radius:   radius,
		Material: material,
		right:    right,
		up:       up,
		bbox:     core.NewAABBFromPoints(center.Subtract(extent), center.Add(extent)),
	}
}

// Hit intersects the disc's plane and keeps points within the radius.
// U is the angle around the normal, V the distance from the center over the radius.
func (d *Disc) Hit(ray core.Ray, interval core.Interval) (*core.Intersection, bool) {
	denominator := d.Normal.Dot(ray.Direction)
	if math.Abs(denominator) < parallelEpsilon {
		return nil, false
	}

	t := d.Normal.Dot(d.Center.Subtract(ray.Origin)) / denominator
	if !interval.Contains(t) {
		return nil, false
	}

	point := ray.At(t)
	offset := point.Subtract(d.Center)
	distanceSquared := offset.LengthSquared()
	if distanceSquared > d.Radius*d.Radius {
		return nil, false
	}

	angle := math.Atan2(offset.Dot(d.up), offset.Dot(d.right)) + math.Pi
	return &core.Intersection{
		Point:    point,
		T:        t,
		Normal:   d.Normal,
		Material: d.Material,
		UV:       core.NewVec2(angle/(2*math.Pi), math.Sqrt(distanceSquared)/d.Radius),
	}, true
}

// BoundingBox returns the tight box around the circle
func (d *Disc) BoundingBox() core.AABB {
	return d.bbox
}
