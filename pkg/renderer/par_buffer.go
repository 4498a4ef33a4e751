package renderer

import (
	"image"
	"sync"

	"github.com/df07/go-adaptive-pathtracer/pkg/core"
)

// ParBuffer holds the linear color estimate and sample count of every pixel.
// Rows are locked independently so a viewer can read finished rows while
// workers are still writing others.
type ParBuffer struct {
	width, height int
	rows          []bufferRow
}

type bufferRow struct {
	mu     sync.Mutex
	colors []core.Color
	counts []int
}

// NewParBuffer creates a black buffer of the given size
func NewParBuffer(width, height int) *ParBuffer {
	rows := make([]bufferRow, height)
	for y := range rows {
		rows[y].colors = make([]core.Color, width)
		rows[y].counts = make([]int, width)
	}
	return &ParBuffer{width: width, height: height, rows: rows}
}

// Width returns the number of columns
func (b *ParBuffer) Width() int {
	return b.width
}

// Height returns the number of rows
func (b *ParBuffer) Height() int {
	return b.height
}

// SetRow replaces row y with the given colors and sample counts
func (b *ParBuffer) SetRow(y int, colors []core.Color, counts []int) {
	row := &b.rows[y]
	row.mu.Lock()
	defer row.mu.Unlock()
	copy(row.colors, colors)
	copy(row.counts, counts)
}

// Set stores a single pixel
func (b *ParBuffer) Set(x, y int, color core.Color, samples int) {
	row := &b.rows[y]
	row.mu.Lock()
	defer row.mu.Unlock()
	row.colors[x] = color
	row.counts[x] = samples
}

// At returns the linear color of pixel (x, y)
func (b *ParBuffer) At(x, y int) core.Color {
	row := &b.rows[y]
	row.mu.Lock()
	defer row.mu.Unlock()
	return row.colors[x]
}

// SampleCount returns the number of samples pixel (x, y) converged after
func (b *ParBuffer) SampleCount(x, y int) int {
	row := &b.rows[y]
	row.mu.Lock()
	defer row.mu.Unlock()
	return row.counts[x]
}

// Row returns a copy of row y
func (b *ParBuffer) Row(y int) ([]core.Color, []int) {
	row := &b.rows[y]
	row.mu.Lock()
	defer row.mu.Unlock()
	colors := make([]core.Color, b.width)
	counts := make([]int, b.width)
	copy(colors, row.colors)
	copy(counts, row.counts)
	return colors, counts
}

// SampleCounts returns the per-pixel sample counts in row-major order
func (b *ParBuffer) SampleCounts() []int {
	all := make([]int, 0, b.width*b.height)
	for y := 0; y < b.height; y++ {
		_, counts := b.Row(y)
		all = append(all, counts...)
	}
	return all
}

// BlitTo draws every pixel, gamma corrected, onto surface
func (b *ParBuffer) BlitTo(surface RenderSurface) {
	for y := 0; y < b.height; y++ {
		b.BlitRow(y, surface)
	}
}

// BlitRow draws row y, gamma corrected, onto surface
func (b *ParBuffer) BlitRow(y int, surface RenderSurface) {
	colors, _ := b.Row(y)
	for x, c := range colors {
		surface.DrawPoint(x, y, c.Gamma())
	}
}

// Image converts the buffer to an 8-bit gamma corrected image
func (b *ParBuffer) Image() *image.RGBA {
	surface := NewImageSurface(b.width, b.height)
	b.BlitTo(surface)
	return surface.Image()
}

// Stats summarizes the sample counts in the buffer
func (b *ParBuffer) Stats() RenderStats {
	stats := RenderStats{TotalPixels: b.width * b.height}
	if stats.TotalPixels == 0 {
		return stats
	}

	first := true
	for y := 0; y < b.height; y++ {
		colors, counts := b.Row(y)
		for x, n := range counts {
			stats.AverageLuminance += colors[x].Luminance()
			stats.TotalSamples += n
			if first {
				stats.MinSamples = n
				first = false
			}
			stats.MinSamples = min(stats.MinSamples, n)
			stats.MaxSamplesUsed = max(stats.MaxSamplesUsed, n)
		}
	}
	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
	stats.AverageLuminance /= float64(stats.TotalPixels)
	return stats
}
