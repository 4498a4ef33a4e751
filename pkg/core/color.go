package core

import (
	"fmt"
	"image/color"
	"math"
)

// Color is a linear RGB color with every channel in [0,1].
// Arithmetic clamps its result back into range.
type Color struct {
	R, G, B float64
}

// NewColor creates a color, panicking if any channel is outside [0,1]
func NewColor(r, g, b float64) Color {
	for _, c := range [3]float64{r, g, b} {
		if !(c >= 0 && c <= 1) {
			panic(fmt.Sprintf("color channel out of range [0,1]: (%v, %v, %v)", r, g, b))
		}
	}
	return Color{R: r, G: g, B: b}
}

// Black returns (0,0,0)
func Black() Color {
	return Color{}
}

// White returns (1,1,1)
func White() Color {
	return Color{R: 1, G: 1, B: 1}
}

// ColorFromVec converts a vector to a color, clamping each component to [0,1]
func ColorFromVec(v Vec3) Color {
	return Color{R: clamp01(v.X), G: clamp01(v.Y), B: clamp01(v.Z)}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Vec returns the color as a vector
func (c Color) Vec() Vec3 {
	return Vec3{X: c.R, Y: c.G, Z: c.B}
}

// Add returns the clamped channel-wise sum
func (c Color) Add(other Color) Color {
	return ColorFromVec(c.Vec().Add(other.Vec()))
}

// Multiply returns the clamped channel-wise product
func (c Color) Multiply(other Color) Color {
	return ColorFromVec(c.Vec().MultiplyVec(other.Vec()))
}

// Scale returns the color multiplied by f, clamped
func (c Color) Scale(f float64) Color {
	return ColorFromVec(c.Vec().Multiply(f))
}

// Luminance returns the Rec. 709 relative luminance
func (c Color) Luminance() float64 {
	return 0.2126*c.R + 0.7152*c.G + 0.0722*c.B
}

// Gamma applies gamma-2 correction (square root per channel)
func (c Color) Gamma() GammaColor {
	return GammaColor{R: math.Sqrt(c.R), G: math.Sqrt(c.G), B: math.Sqrt(c.B)}
}

func (c Color) String() string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", c.R, c.G, c.B)
}

// GammaColor is a gamma-corrected color ready for display
type GammaColor struct {
	R, G, B float64
}

// ToRGBA quantizes the color to 8 bits per channel using floor(v*256)
func (g GammaColor) ToRGBA() color.RGBA {
	return color.RGBA{R: quantize(g.R), G: quantize(g.G), B: quantize(g.B), A: 255}
}

func quantize(v float64) uint8 {
	q := math.Floor(v * 256)
	if q > 255 {
		return 255
	}
	if q < 0 || math.IsNaN(q) {
		return 0
	}
	return uint8(q)
}
