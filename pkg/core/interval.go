package core

import (
	"fmt"
	"math"
)

// Interval is a closed range [Min, Max] on the real line. It is used both for
// valid hit distances along a ray and for per-axis bounding box extents.
type Interval struct {
	Min, Max float64
}

// UnitInterval is [0,1], used for surface parameter containment checks
var UnitInterval = Interval{Min: 0, Max: 1}

// NewInterval creates an interval, panicking on NaN or inverted bounds
func NewInterval(min, max float64) Interval {
	if math.IsNaN(min) || math.IsNaN(max) {
		panic(fmt.Sprintf("interval bounds must not be NaN: [%v, %v]", min, max))
	}
	if min > max {
		panic(fmt.Sprintf("interval is inverted: [%v, %v]", min, max))
	}
	return Interval{Min: min, Max: max}
}

// UnionInterval returns the smallest interval containing both a and b
func UnionInterval(a, b Interval) Interval {
	return Interval{Min: math.Min(a.Min, b.Min), Max: math.Max(a.Max, b.Max)}
}

// Contains reports whether t lies inside the closed interval
func (i Interval) Contains(t float64) bool {
	return i.Min <= t && t <= i.Max
}

// Length returns Max - Min
func (i Interval) Length() float64 {
	return i.Max - i.Min
}

// Pad expands the interval symmetrically so its total length grows by delta
func (i Interval) Pad(delta float64) Interval {
	padding := delta / 2
	return Interval{Min: i.Min - padding, Max: i.Max + padding}
}

// Translate shifts both bounds by offset
func (i Interval) Translate(offset float64) Interval {
	return Interval{Min: i.Min + offset, Max: i.Max + offset}
}

// Scale multiplies both bounds by a positive factor
func (i Interval) Scale(factor float64) Interval {
	return Interval{Min: i.Min * factor, Max: i.Max * factor}
}
