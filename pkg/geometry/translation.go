package geometry

import (
	"github.com/df07/go-adaptive-pathtracer/pkg/core"
)

// Translation shifts a wrapped shape by a fixed offset
type Translation struct {
	Inner  Shape
	Offset core.Vec3
	bbox   core.AABB
}

// NewTranslation wraps inner so it appears moved by offset
func NewTranslation(inner Shape, offset core.Vec3) *Translation {
	return &Translation{
		Inner:  inner,
		Offset: offset,
		bbox:   inner.BoundingBox().Translate(offset),
	}
}

// Hit moves the ray into the inner shape's space and maps the hit back
func (tr *Translation) Hit(ray core.Ray, interval core.Interval) (*core.Intersection, bool) {
	local := core.Ray{Origin: ray.Origin.Subtract(tr.Offset), Direction: ray.Direction}

	hit, ok := tr.Inner.Hit(local, interval)
	if !ok {
		return nil, false
	}

	point := hit.Point.Add(tr.Offset)
	return &core.Intersection{
		Point:    point,
		T:        worldDistance(ray, point),
		Normal:   hit.Normal,
		Material: hit.Material,
		UV:       hit.UV,
	}, true
}

// BoundingBox returns the inner box shifted by the offset
func (tr *Translation) BoundingBox() core.AABB {
	return tr.bbox
}
