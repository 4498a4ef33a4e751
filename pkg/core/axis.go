package core

import "math/rand"

// Axis identifies one of the three coordinate axes
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Axes lists the axes in the fixed order used by the slab test
var Axes = [3]Axis{AxisX, AxisY, AxisZ}

// Of returns the component of v along this axis
func (a Axis) Of(v Vec3) float64 {
	switch a {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	default:
		return v.Z
	}
}

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	default:
		return "?"
	}
}

// RandomAxis picks X, Y or Z with equal probability
func RandomAxis(random *rand.Rand) Axis {
	return Axis(random.Intn(3))
}
