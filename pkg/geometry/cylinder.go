package geometry

import (
	"math"

	"github.com/df07/go-adaptive-pathtracer/pkg/core"
)

// Cylinder is an open tube between two cap centers. It has no end caps;
// pair it with Discs for a closed solid.
type Cylinder struct {
	BaseCenter core.Vec3
	TopCenter  core.Vec3
	Radius     float64
	Material   core.Material
	axis       core.Vec3 // Unit vector from base to top
	height     float64
	right      core.Vec3
	up         core.Vec3
	bbox       core.AABB
}

// NewCylinder creates a cylinder from base to top
func NewCylinder(baseCenter, topCenter core.Vec3, radius float64, material core.Material) *Cylinder {
	axisVector := topCenter.Subtract(baseCenter)
	axis := axisVector.Normalize()

	helper := core.NewVec3(1, 0, 0)
	if math.Abs(axis.X) > 0.9 {
		helper = core.NewVec3(0, 1, 0)
	}
	right := helper.Cross(axis).Normalize()

	// Both end circles bound the tube
	extent := core.NewVec3(
		radius*math.Sqrt(math.Max(0, 1-axis.X*axis.X)),
		radius*math.Sqrt(math.Max(0, 1-axis.Y*axis.Y)),
		radius*math.Sqrt(math.Max(0, 1-axis.Z*axis.Z)),
	)

	return &Cylinder{
		BaseCenter: baseCenter,
		TopCenter:  topCenter,
		Radius:     radius,
		Material:   material,
		axis:       axis,
		height:     axisVector.Length(),
		right:      right,
		up:         axis.Cross(right),
		bbox: core.NewAABBFromPoints(
			baseCenter.Subtract(extent), baseCenter.Add(extent),
			topCenter.Subtract(extent), topCenter.Add(extent),
		),
	}
}

// Hit solves the infinite-tube quadratic and keeps the nearest root whose
// height along the axis lies between the caps
func (c *Cylinder) Hit(ray core.Ray, interval core.Interval) (*core.Intersection, bool) {
	delta := ray.Origin.Subtract(c.BaseCenter)
	dv := ray.Direction.Dot(c.axis)
	deltaV := delta.Dot(c.axis)

	// Components perpendicular to the axis
	a := ray.Direction.LengthSquared() - dv*dv
	if math.Abs(a) < parallelEpsilon {
		return nil, false
	}
	halfB := delta.Dot(ray.Direction) - deltaV*dv
	cc := delta.LengthSquared() - deltaV*deltaV - c.Radius*c.Radius

	discriminant := halfB*halfB - a*cc
	if discriminant < 0 {
		return nil, false
	}
	sqrtD := math.Sqrt(discriminant)

	for _, t := range [2]float64{(-halfB - sqrtD) / a, (-halfB + sqrtD) / a} {
		if !interval.Contains(t) {
			continue
		}
		point := ray.At(t)
		h := point.Subtract(c.BaseCenter).Dot(c.axis)
		if h < 0 || h > c.height {
			continue
		}

		radial := point.Subtract(c.BaseCenter.Add(c.axis.Multiply(h)))
		angle := math.Atan2(radial.Dot(c.up), radial.Dot(c.right)) + math.Pi
		return &core.Intersection{
			Point:    point,
			T:        t,
			Normal:   radial.Normalize(),
			Material: c.Material,
			UV:       core.NewVec2(angle/(2*math.Pi), h/c.height),
		}, true
	}
	return nil, false
}

// BoundingBox returns the box around both end circles
func (c *Cylinder) BoundingBox() core.AABB {
	return c.bbox
}
