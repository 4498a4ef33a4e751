package material

import (
	"math"

	"github.com/df07/go-adaptive-pathtracer/pkg/core"
)

// SolidColor provides a uniform color
type SolidColor struct {
	Color core.Color
}

// NewSolidColor creates a new solid color texture
func NewSolidColor(color core.Color) *SolidColor {
	return &SolidColor{Color: color}
}

// ColorAt returns the solid color regardless of UV or position
func (s *SolidColor) ColorAt(uv core.Vec2, point core.Vec3) core.Color {
	return s.Color
}

// Checkerboard alternates two textures over squares of a fixed UV size
type Checkerboard struct {
	Even, Odd core.Texture
	Size      float64
}

// NewCheckerboard creates a checkerboard whose squares are size wide in UV space
func NewCheckerboard(size float64, even, odd core.Texture) *Checkerboard {
	return &Checkerboard{Even: even, Odd: odd, Size: size}
}

// ColorAt picks the texture of the square containing uv
func (c *Checkerboard) ColorAt(uv core.Vec2, point core.Vec3) core.Color {
	i := int(math.Floor(uv.X / c.Size))
	j := int(math.Floor(uv.Y / c.Size))
	if (i+j)%2 == 0 {
		return c.Even.ColorAt(uv, point)
	}
	return c.Odd.ColorAt(uv, point)
}

// ScaleTexture repeats an inner texture by dividing UV by a scale and
// wrapping the result back into [0,1)
type ScaleTexture struct {
	ScaleU, ScaleV float64
	Inner          core.Texture
}

// NewScaleTexture creates a texture repeating inner every scaleU by scaleV in UV space
func NewScaleTexture(scaleU, scaleV float64, inner core.Texture) *ScaleTexture {
	return &ScaleTexture{ScaleU: scaleU, ScaleV: scaleV, Inner: inner}
}

// ColorAt looks up the inner texture at the rescaled coordinates
func (s *ScaleTexture) ColorAt(uv core.Vec2, point core.Vec3) core.Color {
	return s.Inner.ColorAt(core.NewVec2(wrap(uv.X/s.ScaleU), wrap(uv.Y/s.ScaleV)), point)
}

func wrap(x float64) float64 {
	return x - math.Floor(x)
}
