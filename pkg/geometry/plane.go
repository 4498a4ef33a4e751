package geometry

import (
	"math"

	"github.com/df07/go-adaptive-pathtracer/pkg/core"
)

// alignmentTolerance is how far a normal component may stray from ±1 and
// still be treated as axis-aligned
const alignmentTolerance = 1e-6

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Point    core.Vec3     // A point on the plane
	Normal   core.Vec3     // Unit normal
	Material core.Material // Material of the plane
	uHat     core.Vec3     // In-plane tangent used for texture coordinates
	vHat     core.Vec3     // In-plane bitangent used for texture coordinates
	bbox     core.AABB
}

// NewPlane creates a new plane
func NewPlane(point, normal core.Vec3, material core.Material) *Plane {
	normal = normal.Normalize()

	helper := core.NewVec3(1, 0, 0)
	if math.Abs(normal.X) > 0.9 {
		helper = core.NewVec3(0, 1, 0)
	}
	uHat := helper.Cross(normal).Normalize()
	vHat := normal.Cross(uHat)

	p := &Plane{
		Point:    point,
		Normal:   normal,
		Material: material,
		uHat:     uHat,
		vHat:     vHat,
	}
	p.bbox = p.computeBoundingBox()
	return p
}

// NewPlaneWithBasis creates a plane with explicit in-plane texture axes
func NewPlaneWithBasis(point, normal, uHat, vHat core.Vec3, material core.Material) *Plane {
	p := NewPlane(point, normal, material)
	p.uHat = uHat
	p.vHat = vHat
	return p
}

// Hit tests if a ray intersects with the plane
func (p *Plane) Hit(ray core.Ray, interval core.Interval) (*core.Intersection, bool) {
	denominator := p.Normal.Dot(ray.Direction)
	if math.Abs(denominator) < parallelEpsilon {
		return nil, false
	}

	t := p.Point.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if !interval.Contains(t) {
		return nil, false
	}

	point := ray.At(t)
	offset := point.Subtract(p.Point)
	u := offset.Dot(p.uHat)
	v := offset.Dot(p.vHat)

	return &core.Intersection{
		Point:    point,
		T:        t,
		Normal:   p.Normal,
		Material: p.Material,
		UV:       core.NewVec2(u-math.Floor(u), v-math.Floor(v)),
	}, true
}

// BoundingBox returns an unbounded box, thin along the normal when axis-aligned
func (p *Plane) BoundingBox() core.AABB {
	return p.bbox
}

func (p *Plane) computeBoundingBox() core.AABB {
	const epsilon = 0.001 // Thickness along the normal of an axis-aligned plane

	unbounded := core.Interval{Min: math.Inf(-1), Max: math.Inf(1)}
	box := core.AABB{X: unbounded, Y: unbounded, Z: unbounded}

	switch axis, aligned := planeAxis(p.Normal); {
	case aligned && axis == core.AxisX:
		box.X = core.NewInterval(p.Point.X-epsilon, p.Point.X+epsilon)
	case aligned && axis == core.AxisY:
		box.Y = core.NewInterval(p.Point.Y-epsilon, p.Point.Y+epsilon)
	case aligned && axis == core.AxisZ:
		box.Z = core.NewInterval(p.Point.Z-epsilon, p.Point.Z+epsilon)
	}
	return box
}

// planeAxis reports which axis a unit normal is aligned with, if any
func planeAxis(normal core.Vec3) (core.Axis, bool) {
	for _, axis := range core.Axes {
		if math.Abs(math.Abs(axis.Of(normal))-1) < alignmentTolerance {
			return axis, true
		}
	}
	return core.AxisX, false
}
