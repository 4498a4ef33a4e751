package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/df07/go-adaptive-pathtracer/pkg/core"
)

// Rotation turns a wrapped shape about the origin
type Rotation struct {
	Inner   Shape
	forward mgl64.Mat3 // local -> world
	inverse mgl64.Mat3 // world -> local
	bbox    core.AABB
}

// NewRotation wraps inner with an arbitrary rotation matrix
func NewRotation(inner Shape, matrix mgl64.Mat3) *Rotation {
	r := &Rotation{
		Inner:   inner,
		forward: matrix,
		// Orthonormal, so the inverse is the transpose
		inverse: matrix.Transpose(),
	}
	r.bbox = r.computeBoundingBox()
	return r
}

// NewAxisAngleRotation rotates inner by angle radians about axis
func NewAxisAngleRotation(inner Shape, axis core.Vec3, angle float64) *Rotation {
	q := mgl64.QuatRotate(angle, toMgl(axis.Normalize())).Normalize()
	return NewRotation(inner, q.Mat4().Mat3())
}

// NewEulerRotation rotates inner by roll about X, then pitch about Y, then yaw about Z
func NewEulerRotation(inner Shape, roll, pitch, yaw float64) *Rotation {
	m := mgl64.Rotate3DZ(yaw).Mul3(mgl64.Rotate3DY(pitch)).Mul3(mgl64.Rotate3DX(roll))
	return NewRotation(inner, m)
}

// Hit rotates the ray into the inner shape's frame and rotates the hit back
func (r *Rotation) Hit(ray core.Ray, interval core.Interval) (*core.Intersection, bool) {
	localDirection := r.apply(r.inverse, ray.Direction)
	if localDirection.NearZero(degenerateTolerance) {
		return nil, false
	}
	local := core.Ray{
		Origin:    r.apply(r.inverse, ray.Origin),
		Direction: localDirection.Normalize(),
	}

	hit, ok := r.Inner.Hit(local, interval)
	if !ok {
		return nil, false
	}

	normal := r.apply(r.forward, hit.Normal)
	if normal.NearZero(degenerateTolerance) {
		return nil, false
	}

	point := r.apply(r.forward, hit.Point)
	return &core.Intersection{
		Point:    point,
		T:        worldDistance(ray, point),
		Normal:   normal.Normalize(),
		Material: hit.Material,
		UV:       hit.UV,
	}, true
}

// BoundingBox returns the box around all eight rotated corners of the inner box
func (r *Rotation) BoundingBox() core.AABB {
	return r.bbox
}

func (r *Rotation) computeBoundingBox() core.AABB {
	inner := r.Inner.BoundingBox()
	if !inner.IsFinite() {
		// Rotating an infinite extent mixes Inf with zero matrix entries
		unbounded := core.Interval{Min: math.Inf(-1), Max: math.Inf(1)}
		return core.AABB{X: unbounded, Y: unbounded, Z: unbounded}
	}

	corners := inner.Corners()
	rotated := make([]core.Vec3, len(corners))
	for i, corner := range corners {
		rotated[i] = r.apply(r.forward, corner)
	}
	return core.NewAABBFromPoints(rotated...)
}

func (r *Rotation) apply(m mgl64.Mat3, v core.Vec3) core.Vec3 {
	return fromMgl(m.Mul3x1(toMgl(v)))
}

func toMgl(v core.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromMgl(v mgl64.Vec3) core.Vec3 {
	return core.NewVec3(v[0], v[1], v[2])
}
