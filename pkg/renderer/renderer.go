package renderer

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/df07/go-adaptive-pathtracer/pkg/core"
	"github.com/df07/go-adaptive-pathtracer/pkg/geometry"
	"github.com/df07/go-adaptive-pathtracer/pkg/integrator"
)

// Config contains rendering configuration
type Config struct {
	MaxDepth           int     // Maximum ray bounce depth
	SamplesPerBatch    int     // Samples drawn between convergence checks
	ConvergenceCutoff  float64 // Stop sampling a pixel once its mean moves less than this
	MaxSamplesPerPixel int     // Hard ceiling on samples per pixel (0 = unbounded)
	NumWorkers         int     // Number of parallel workers (0 = use CPU count)
	Seed               int64   // Base seed for per-row random generators (0 = time based)
}

// DefaultConfig returns sensible default values
func DefaultConfig() Config {
	return Config{
		MaxDepth:           50,
		SamplesPerBatch:    10,
		ConvergenceCutoff:  1e-5,
		MaxSamplesPerPixel: 0,
		NumWorkers:         0,
		Seed:               42,
	}
}

// Validate reports the first configuration value the renderer cannot use
func (c Config) Validate() error {
	switch {
	case c.MaxDepth < 0:
		return fmt.Errorf("max depth must not be negative, got %d", c.MaxDepth)
	case c.SamplesPerBatch <= 0:
		return fmt.Errorf("samples per batch must be positive, got %d", c.SamplesPerBatch)
	case math.IsNaN(c.ConvergenceCutoff) || c.ConvergenceCutoff < 0:
		return fmt.Errorf("convergence cutoff must be a non-negative number, got %v", c.ConvergenceCutoff)
	case c.MaxSamplesPerPixel < 0:
		return fmt.Errorf("max samples per pixel must not be negative, got %d", c.MaxSamplesPerPixel)
	case c.NumWorkers < 0:
		return fmt.Errorf("worker count must not be negative, got %d", c.NumWorkers)
	}
	return nil
}

// Scene is the read-only world a render traces against
type Scene = integrator.Scene

// ProgressFunc is called after each completed row. Calls are serialized.
type ProgressFunc func(rowsDone, totalRows int)

// Renderer path traces a scene, sampling each pixel until its estimate settles
type Renderer struct {
	config     Config
	logger     core.Logger
	surface    RenderSurface
	integrator integrator.Integrator
}

// NewRenderer creates a renderer. A nil logger discards output.
func NewRenderer(config Config, logger core.Logger) *Renderer {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Renderer{
		config:     config,
		logger:     logger,
		integrator: integrator.NewPathTracingIntegrator(config.MaxDepth),
	}
}

// SetLiveSurface makes Render draw each row onto surface as soon as it is
// finished. Draw calls are serialized. Pass nil to disable.
func (r *Renderer) SetLiveSurface(surface RenderSurface) {
	r.surface = surface
}

// Config returns the renderer configuration
func (r *Renderer) Config() Config {
	return r.config
}

// Render traces every pixel of the camera's image. Rows are distributed over
// the worker pool and each row is written by exactly one worker. When ctx is
// cancelled the partially filled buffer is returned along with the error.
func (r *Renderer) Render(ctx context.Context, camera *geometry.Camera, scene Scene, progress ProgressFunc) (*ParBuffer, RenderStats, error) {
	if err := r.config.Validate(); err != nil {
		return nil, RenderStats{}, fmt.Errorf("invalid render config: %w", err)
	}

	width, height := camera.Width(), camera.Height()
	buffer := NewParBuffer(width, height)

	numWorkers := r.config.NumWorkers
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	seed := r.config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	r.logger.Printf("Rendering %dx%d (batch %d, cutoff %g, depth %d) using %d workers...\n",
		width, height, r.config.SamplesPerBatch, r.config.ConvergenceCutoff, r.config.MaxDepth, numWorkers)
	start := time.Now()

	var (
		progressMu sync.Mutex
		rowsDone   int
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(numWorkers)
	for y := 0; y < height; y++ {
		if groupCtx.Err() != nil {
			break
		}
		group.Go(func() error {
			random := rand.New(rand.NewSource(seed + int64(y)))
			colors, counts, err := r.renderRow(groupCtx, camera, scene, y, width, random)
			if err != nil {
				return err
			}
			buffer.SetRow(y, colors, counts)

			progressMu.Lock()
			defer progressMu.Unlock()
			rowsDone++
			if r.surface != nil {
				buffer.BlitRow(y, r.surface)
			}
			if progress != nil {
				progress(rowsDone, height)
			}
			return nil
		})
	}

	err := group.Wait()
	if err == nil {
		err = ctx.Err()
	}

	stats := buffer.Stats()
	stats.Elapsed = time.Since(start)
	stats.Seed = seed

	if err != nil {
		r.logger.Printf("Render cancelled after %v: %v\n", stats.Elapsed, err)
		return buffer, stats, fmt.Errorf("render cancelled: %w", err)
	}

	r.logger.Printf("Render completed in %v: %d pixels, %d samples (min %d, avg %.1f, max %d per pixel), mean luminance %.3f\n",
		stats.Elapsed, stats.TotalPixels, stats.TotalSamples, stats.MinSamples, stats.AverageSamples, stats.MaxSamplesUsed, stats.AverageLuminance)
	return buffer, stats, nil
}

// renderRow estimates every pixel of row y
func (r *Renderer) renderRow(ctx context.Context, camera *geometry.Camera, scene Scene, y, width int, random *rand.Rand) ([]core.Color, []int, error) {
	sampler := core.NewRandomSampler(random)
	colors := make([]core.Color, width)
	counts := make([]int, width)

	for x := 0; x < width; x++ {
		color, samples, err := r.renderPixel(ctx, camera, scene, x, y, random, sampler)
		if err != nil {
			return nil, nil, err
		}
		colors[x] = color
		counts[x] = samples
	}
	return colors, counts, nil
}

// renderPixel draws batches of jittered samples until the running mean stops
// moving by more than the convergence cutoff
func (r *Renderer) renderPixel(ctx context.Context, camera *geometry.Camera, scene Scene, x, y int, random *rand.Rand, sampler core.Sampler) (core.Color, int, error) {
	estimator := core.NewOnlineMean()
	maxSamples := r.config.MaxSamplesPerPixel

	for estimator.ConvergenceDelta() > r.config.ConvergenceCutoff {
		if err := ctx.Err(); err != nil {
			return core.Black(), estimator.Count(), err
		}

		batch := r.config.SamplesPerBatch
		if maxSamples > 0 {
			batch = min(batch, maxSamples-estimator.Count())
		}
		if batch <= 0 {
			break
		}

		for i := 0; i < batch; i++ {
			du := random.Float64() - 0.5
			dv := random.Float64() - 0.5
			ray := camera.RayThrough(float64(x)+du, float64(y)+dv)
			estimator.AddSample(r.integrator.RayColor(ray, scene, sampler).Vec())
		}
	}

	return core.ColorFromVec(estimator.Mean()), estimator.Count(), nil
}
