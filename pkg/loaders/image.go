package loaders

import (
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"

	"github.com/df07/go-adaptive-pathtracer/pkg/core"
	"github.com/df07/go-adaptive-pathtracer/pkg/material"
)

// ImageData contains loaded image data as a row-major color array
type ImageData struct {
	Width  int
	Height int
	Pixels []core.Color
}

// ImageOptions controls how texture images are prepared
type ImageOptions struct {
	MaxSize int // Longest side in pixels; larger images are downsampled (0 = keep)
}

// LoadImage loads a PNG, JPEG, GIF, TIFF or BMP image, honouring EXIF orientation
func LoadImage(filename string, options ImageOptions) (*ImageData, error) {
	img, err := imaging.Open(filename, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to open image %s: %w", filename, err)
	}
	return convertImage(img, options), nil
}

// DecodeImage reads an image from r
func DecodeImage(r io.Reader, options ImageOptions) (*ImageData, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return convertImage(img, options), nil
}

// LoadImageTexture loads filename as a nearest-pixel texture
func LoadImageTexture(filename string, options ImageOptions) (*material.ImageTexture, error) {
	data, err := LoadImage(filename, options)
	if err != nil {
		return nil, err
	}
	return material.NewImageTexture(data.Width, data.Height, data.Pixels), nil
}

func convertImage(img image.Image, options ImageOptions) *ImageData {
	bounds := img.Bounds()
	if options.MaxSize > 0 && (bounds.Dx() > options.MaxSize || bounds.Dy() > options.MaxSize) {
		img = resize.Thumbnail(uint(options.MaxSize), uint(options.MaxSize), img, resize.Bilinear)
		bounds = img.Bounds()
	}

	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.Color, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535], convert to [0, 1]
			pixels[y*width+x] = core.NewColor(
				float64(r)/65535.0,
				float64(g)/65535.0,
				float64(b)/65535.0,
			)
		}
	}

	return &ImageData{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}
