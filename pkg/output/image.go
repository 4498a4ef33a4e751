package output

import (
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

// SaveImage writes img to path. The format follows the extension
// (.png, .jpg, .jpeg, .gif, .tif, .bmp).
func SaveImage(path string, img image.Image) error {
	if err := imaging.Save(img, path, imaging.JPEGQuality(95)); err != nil {
		return fmt.Errorf("failed to save image %s: %w", path, err)
	}
	return nil
}

// EncodePNG writes img to w as a PNG
func EncodePNG(w io.Writer, img image.Image) error {
	if err := imaging.Encode(w, img, imaging.PNG); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}
