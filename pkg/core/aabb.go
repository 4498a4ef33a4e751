package core

import "math"

// minAxisLength is the smallest extent an AABB may have along any axis.
// Flat primitives (quads, axis-aligned triangles) would otherwise produce
// zero-width slabs that the slab test can never enter.
const minAxisLength = 0.0001

// AABB represents an axis-aligned bounding box as one interval per axis
type AABB struct {
	X, Y, Z Interval
}

// NewAABB creates an AABB from per-axis intervals, padding any degenerate axis
func NewAABB(x, y, z Interval) AABB {
	return AABB{X: padToMinimum(x), Y: padToMinimum(y), Z: padToMinimum(z)}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}

	min := points[0]
	max := points[0]
	for _, point := range points[1:] {
		min = min.Min(point)
		max = max.Max(point)
	}

	return NewAABB(
		Interval{Min: min.X, Max: max.X},
		Interval{Min: min.Y, Max: max.Y},
		Interval{Min: min.Z, Max: max.Z},
	)
}

func padToMinimum(i Interval) Interval {
	if i.Length() < minAxisLength {
		return i.Pad(minAxisLength)
	}
	return i
}

// Axis returns the interval spanned along the given axis
func (aabb AABB) Axis(axis Axis) Interval {
	switch axis {
	case AxisX:
		return aabb.X
	case AxisY:
		return aabb.Y
	default:
		return aabb.Z
	}
}

// Min returns the minimum corner
func (aabb AABB) Min() Vec3 {
	return Vec3{aabb.X.Min, aabb.Y.Min, aabb.Z.Min}
}

// Max returns the maximum corner
func (aabb AABB) Max() Vec3 {
	return Vec3{aabb.X.Max, aabb.Y.Max, aabb.Z.Max}
}

// Hit tests the ray against the box using the slab method.
// The interval is narrowed axis by axis and the ray misses as soon as it
// becomes empty. A zero direction component yields infinite slab bounds
// which keep the interval unchanged when the origin lies inside the slab,
// and NaN comparisons from 0*Inf fail both narrowing tests, so the axis is
// skipped conservatively rather than producing a false miss.
func (aabb AABB) Hit(ray Ray, interval Interval) bool {
	tMin, tMax := interval.Min, interval.Max

	for _, axis := range Axes {
		slab := aabb.Axis(axis)
		invDirection := 1.0 / axis.Of(ray.Direction)
		origin := axis.Of(ray.Origin)

		t0 := (slab.Min - origin) * invDirection
		t1 := (slab.Max - origin) * invDirection
		if invDirection < 0 {
			t0, t1 = t1, t0
		}

		if t0 > tMin {
			tMin = t0
		}
		if t1 < tMax {
			tMax = t1
		}

		if tMax <= tMin {
			return false
		}
	}

	return true
}

// Union returns the smallest AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	return AABB{
		X: UnionInterval(aabb.X, other.X),
		Y: UnionInterval(aabb.Y, other.Y),
		Z: UnionInterval(aabb.Z, other.Z),
	}
}

// UnionAll returns the smallest AABB bounding every box.
// An empty slice yields the zero AABB.
func UnionAll(boxes []AABB) AABB {
	if len(boxes) == 0 {
		return AABB{}
	}
	result := boxes[0]
	for _, box := range boxes[1:] {
		result = result.Union(box)
	}
	return result
}

// Translate returns the box shifted by offset
func (aabb AABB) Translate(offset Vec3) AABB {
	return AABB{
		X: aabb.X.Translate(offset.X),
		Y: aabb.Y.Translate(offset.Y),
		Z: aabb.Z.Translate(offset.Z),
	}
}

// Corners returns the eight corner points of the box
func (aabb AABB) Corners() [8]Vec3 {
	var corners [8]Vec3
	i := 0
	for _, x := range [2]float64{aabb.X.Min, aabb.X.Max} {
		for _, y := range [2]float64{aabb.Y.Min, aabb.Y.Max} {
			for _, z := range [2]float64{aabb.Z.Min, aabb.Z.Max} {
				corners[i] = Vec3{x, y, z}
				i++
			}
		}
	}
	return corners
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min().Add(aabb.Max()).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max().Subtract(aabb.Min())
}

// Contains reports whether the point lies inside or on the box
func (aabb AABB) Contains(point Vec3) bool {
	return aabb.X.Contains(point.X) && aabb.Y.Contains(point.Y) && aabb.Z.Contains(point.Z)
}

// IsFinite reports whether every bound is a finite number
func (aabb AABB) IsFinite() bool {
	for _, axis := range Axes {
		i := aabb.Axis(axis)
		if math.IsInf(i.Min, 0) || math.IsInf(i.Max, 0) || math.IsNaN(i.Min) || math.IsNaN(i.Max) {
			return false
		}
	}
	return true
}
