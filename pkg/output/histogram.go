package output

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// SaveSampleHistogram plots the distribution of per-pixel sample counts.
// The image format follows the extension of path (.png, .svg, .pdf).
func SaveSampleHistogram(path string, counts []int, bins int) error {
	if len(counts) == 0 {
		return fmt.Errorf("no sample counts to plot")
	}
	if bins <= 0 {
		bins = 32
	}

	values := make(plotter.Values, len(counts))
	for i, c := range counts {
		values[i] = float64(c)
	}

	hist, err := plotter.NewHist(values, bins)
	if err != nil {
		return fmt.Errorf("failed to build histogram: %w", err)
	}

	p := plot.New()
	p.Title.Text = "Samples per pixel"
	p.X.Label.Text = "samples"
	p.Y.Label.Text = "pixels"
	p.Add(hist)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save histogram %s: %w", path, err)
	}
	return nil
}
