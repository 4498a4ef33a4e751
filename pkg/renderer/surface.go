package renderer

import (
	"image"

	"github.com/df07/go-adaptive-pathtracer/pkg/core"
)

// RenderSurface receives finished pixels
type RenderSurface interface {
	DrawPoint(x, y int, color core.GammaColor)
}

// ImageSurface draws into an in-memory RGBA image
type ImageSurface struct {
	img *image.RGBA
}

// NewImageSurface creates a surface backed by a new image
func NewImageSurface(width, height int) *ImageSurface {
	return &ImageSurface{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// DrawPoint quantizes color into pixel (x, y)
func (s *ImageSurface) DrawPoint(x, y int, color core.GammaColor) {
	s.img.SetRGBA(x, y, color.ToRGBA())
}

// Image returns the backing image
func (s *ImageSurface) Image() *image.RGBA {
	return s.img
}
