package renderer

import (
	"time"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels      int           // Total number of pixels rendered
	TotalSamples     int           // Total number of samples taken
	AverageSamples   float64       // Average samples per pixel
	MinSamples       int           // Minimum samples taken by any pixel
	MaxSamplesUsed   int           // Maximum samples taken by any pixel
	AverageLuminance float64       // Mean Rec. 709 luminance of the linear estimates
	Elapsed          time.Duration // Wall time of the render
	Seed             int64         // Base seed the row generators were derived from
}
