package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/df07/go-adaptive-pathtracer/pkg/config"
	"github.com/df07/go-adaptive-pathtracer/pkg/core"
	"github.com/df07/go-adaptive-pathtracer/pkg/geometry"
	"github.com/df07/go-adaptive-pathtracer/pkg/output"
	"github.com/df07/go-adaptive-pathtracer/pkg/renderer"
	"github.com/df07/go-adaptive-pathtracer/pkg/scene"
	"github.com/df07/go-adaptive-pathtracer/pkg/viewer"
)

// cliOptions holds flags that only make sense for a single CLI run
type cliOptions struct {
	window bool
	list   bool
	help   bool
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, opts, err := parseFlags(os.Args[1:], cfg, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if opts.help {
		printHelp(os.Stdout)
		return
	}
	if opts.list {
		printScenes(os.Stdout, cfg.ScenesDir)
		return
	}

	logger := newLogger(cfg.LogFormat, os.Stdout)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.window {
		err = runWithWindow(ctx, cfg, logger)
	} else {
		err = run(ctx, cfg, logger)
	}
	if err != nil {
		logger.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

// newFlagSet binds every flag to cfg and opts
func newFlagSet(cfg *config.Config, opts *cliOptions, errOut io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("pathtracer", flag.ContinueOnError)
	fs.SetOutput(errOut)

	fs.StringVar(&cfg.Scene, "scene", cfg.Scene, "Built-in scene ID (see -list)")
	fs.StringVar(&cfg.SceneFile, "scene-file", cfg.SceneFile, "JSON scene description (overrides -scene)")
	fs.StringVar(&cfg.ScenesDir, "scenes", cfg.ScenesDir, "Directory of JSON scene descriptions for -list")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "Image width (0 keeps the scene's)")
	fs.IntVar(&cfg.Height, "height", cfg.Height, "Image height (0 keeps the scene's)")
	fs.IntVar(&cfg.Renderer.MaxDepth, "depth", cfg.Renderer.MaxDepth, "Maximum bounces per path")
	fs.IntVar(&cfg.Renderer.SamplesPerBatch, "batch", cfg.Renderer.SamplesPerBatch, "Samples taken between convergence checks")
	fs.Float64Var(&cfg.Renderer.ConvergenceCutoff, "cutoff", cfg.Renderer.ConvergenceCutoff, "Stop a pixel once its mean moves less than this")
	fs.IntVar(&cfg.Renderer.MaxSamplesPerPixel, "max-samples", cfg.Renderer.MaxSamplesPerPixel, "Sample ceiling per pixel (0 = unbounded)")
	fs.IntVar(&cfg.Renderer.NumWorkers, "workers", cfg.Renderer.NumWorkers, "Worker count (0 = CPU count)")
	fs.Int64Var(&cfg.Renderer.Seed, "seed", cfg.Renderer.Seed, "Random seed (0 = time based)")
	fs.StringVar(&cfg.Output, "out", cfg.Output, "Output image (.png or .jpg)")
	fs.StringVar(&cfg.Snapshot, "snapshot", cfg.Snapshot, "Write the linear buffer (.zst or .sz)")
	fs.StringVar(&cfg.StatsPlot, "stats-plot", cfg.StatsPlot, "Write a samples-per-pixel histogram (.png or .svg)")
	fs.StringVar(&cfg.S3.Bucket, "s3-bucket", cfg.S3.Bucket, "Upload the image to this S3 bucket")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Cancel the render after this long (0 = never)")
	fs.StringVar(&cfg.LogFormat, "log-format", cfg.LogFormat, "Log format: text or json")
	fs.BoolVar(&opts.window, "window", false, "Show the render in a window as rows finish")
	fs.BoolVar(&opts.list, "list", false, "List available scenes and exit")
	fs.BoolVar(&opts.help, "help", false, "Show help information")
	return fs
}

// parseFlags overlays command line flags onto cfg, which already carries
// defaults and environment overrides
func parseFlags(args []string, cfg config.Config, errOut io.Writer) (config.Config, cliOptions, error) {
	var opts cliOptions
	fs := newFlagSet(&cfg, &opts, errOut)

	if err := fs.Parse(args); err != nil {
		return cfg, opts, err
	}
	if fs.NArg() > 0 {
		return cfg, opts, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	if opts.help || opts.list {
		return cfg, opts, nil
	}
	if err := cfg.Validate(); err != nil {
		return cfg, opts, err
	}
	return cfg, opts, nil
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "Adaptive Path Tracer")
	fmt.Fprintln(w, "Usage: pathtracer [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	cfg := config.Default()
	var opts cliOptions
	newFlagSet(&cfg, &opts, w).PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Every option can also be set with a PT_ environment variable or in .env.")
	fmt.Fprintln(w)
	printScenes(w, cfg.ScenesDir)
}

func printScenes(w io.Writer, scenesDir string) {
	response, err := scene.ListAllScenes(scenesDir)
	if err != nil {
		fmt.Fprintf(w, "Error listing scenes: %v\n", err)
		return
	}
	for _, group := range response.Groups {
		fmt.Fprintf(w, "%s:\n", group.Name)
		for _, info := range group.Scenes {
			id := info.ID
			if info.Type == "json" {
				id = info.FilePath
			}
			fmt.Fprintf(w, "  %-24s %s\n", id, info.Description)
		}
	}
}

func newLogger(format string, w io.Writer) core.Logger {
	if format == "json" {
		return renderer.NewStructuredLogger(w, slog.LevelInfo).With("component", "cli")
	}
	return renderer.NewDefaultLogger()
}

// createScene builds the configured scene, preferring a scene file over a built-in ID
func createScene(cfg config.Config, logger core.Logger) (*scene.Scene, error) {
	override := geometry.CameraConfig{Width: cfg.Width, Height: cfg.Height}

	var (
		sceneObj *scene.Scene
		err      error
	)
	if cfg.SceneFile != "" {
		sceneObj, err = scene.LoadSceneFile(cfg.SceneFile, scene.BuildOptions{
			Random:          rand.New(rand.NewSource(cfg.Renderer.Seed)),
			Logger:          logger,
			CameraOverrides: []geometry.CameraConfig{override},
		})
	} else {
		sceneObj, err = scene.NewBuiltinScene(cfg.Scene, override)
	}
	if err != nil {
		return nil, err
	}

	sceneObj.Preprocess(rand.New(rand.NewSource(cfg.Renderer.Seed)))
	return sceneObj, nil
}

// sceneName is used in log lines and upload keys
func sceneName(cfg config.Config) string {
	if cfg.SceneFile != "" {
		base := filepath.Base(cfg.SceneFile)
		return strings.TrimSuffix(base, filepath.Ext(base))
	}
	return cfg.Scene
}

// run builds the configured scene, renders it and writes every requested output
func run(ctx context.Context, cfg config.Config, logger core.Logger) error {
	sceneObj, err := createScene(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create scene: %w", err)
	}
	return render(ctx, cfg, sceneObj, nil, logger)
}

// render traces sceneObj and writes the outputs. A non-nil surface receives
// rows as they finish. Outputs are still written for a cancelled render.
func render(ctx context.Context, cfg config.Config, sceneObj *scene.Scene, surface renderer.RenderSurface, logger core.Logger) error {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	logger.Printf("Scene %s: %d primitives\n", sceneName(cfg), sceneObj.GetPrimitiveCount())

	rt := renderer.NewRenderer(cfg.Renderer, logger)
	if surface != nil {
		rt.SetLiveSurface(surface)
	}

	buffer, stats, renderErr := rt.Render(ctx, sceneObj.Camera, sceneObj, nil)
	if buffer == nil {
		return renderErr
	}
	if renderErr != nil {
		logger.Printf("Writing partial render (%d samples)\n", stats.TotalSamples)
	}

	if err := writeOutputs(context.WithoutCancel(ctx), cfg, buffer, logger); err != nil {
		return errors.Join(renderErr, err)
	}
	return renderErr
}

func writeOutputs(ctx context.Context, cfg config.Config, buffer *renderer.ParBuffer, logger core.Logger) error {
	img := buffer.Image()

	if cfg.Output != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Output), 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
		if err := output.SaveImage(cfg.Output, img); err != nil {
			return err
		}
		logger.Printf("Render saved as %s\n", cfg.Output)
	}

	if cfg.Snapshot != "" {
		if err := output.WriteSnapshot(cfg.Snapshot, buffer); err != nil {
			return err
		}
		logger.Printf("Snapshot saved as %s\n", cfg.Snapshot)
	}

	if cfg.StatsPlot != "" {
		if err := output.SaveSampleHistogram(cfg.StatsPlot, buffer.SampleCounts(), 0); err != nil {
			return err
		}
		logger.Printf("Sample histogram saved as %s\n", cfg.StatsPlot)
	}

	if cfg.S3.Bucket != "" {
		uploader, err := output.NewS3Uploader(cfg.S3, logger)
		if err != nil {
			return err
		}
		key := sceneName(cfg) + ".png"
		if cfg.Output != "" {
			key = filepath.Base(cfg.Output)
		}
		if err := uploader.UploadPNG(ctx, key, img); err != nil {
			return err
		}
	}
	return nil
}

// runWithWindow renders in the background while the window runs on the
// main goroutine. Closing the window cancels an unfinished render.
func runWithWindow(ctx context.Context, cfg config.Config, logger core.Logger) error {
	sceneObj, err := createScene(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create scene: %w", err)
	}

	window := viewer.NewWindow(sceneObj.Camera.Width(), sceneObj.Camera.Height(), "Adaptive Path Tracer - "+sceneName(cfg))
	window.SetStatus("Rendering...")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		err := render(ctx, cfg, sceneObj, window, logger)
		if err != nil {
			window.SetStatus(fmt.Sprintf("Failed: %v", err))
		} else {
			window.SetStatus("Done. Press Esc to close.")
		}
		done <- err
	}()

	if err := window.Run(); err != nil && !errors.Is(err, viewer.ErrClosed) {
		cancel()
		<-done
		return err
	}
	cancel()
	return <-done
}
