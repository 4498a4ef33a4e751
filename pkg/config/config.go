// Package config assembles process configuration from defaults, an optional
// .env file and PT_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/df07/go-adaptive-pathtracer/pkg/output"
	"github.com/df07/go-adaptive-pathtracer/pkg/renderer"
)

// EnvPrefix is prepended to every environment variable name
const EnvPrefix = "PT_"

// Config holds everything the CLI and web server need to start
type Config struct {
	Renderer renderer.Config

	Scene     string // Built-in scene ID
	SceneFile string // JSON scene description, takes precedence over Scene
	ScenesDir string // Directory scanned for JSON scene descriptions
	Width     int    // Image width override (0 keeps the scene's)
	Height    int    // Image height override (0 keeps the scene's)

	Output    string // Image path (.png or .jpg)
	Snapshot  string // Linear buffer snapshot path (.zst or .sz)
	StatsPlot string // Sample count histogram path
	LogFormat string // "text" or "json"
	Timeout   time.Duration
	Port      int

	S3 output.S3Config
}

// Default returns the configuration used when nothing is overridden
func Default() Config {
	return Config{
		Renderer:  renderer.DefaultConfig(),
		Scene:     "basic",
		ScenesDir: "scenes",
		Output:    "output/render.png",
		LogFormat: "text",
		Port:      8080,
		S3:        output.S3Config{Region: "us-east-1"},
	}
}

// Load applies the given .env files (".env" when none are named) and then the
// process environment on top of Default. Missing .env files are ignored.
// Variables already set in the environment win over .env entries.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", file, err)
		}
	}
	return FromEnv(Default(), os.LookupEnv)
}

// FromEnv overlays variables found through lookup onto base. Every invalid
// value is reported in the returned error.
func FromEnv(base Config, lookup func(string) (string, bool)) (Config, error) {
	e := envReader{lookup: lookup}
	c := base

	e.setString("SCENE", &c.Scene)
	e.setString("SCENE_FILE", &c.SceneFile)
	e.setString("SCENES_DIR", &c.ScenesDir)
	e.setInt("WIDTH", &c.Width)
	e.setInt("HEIGHT", &c.Height)

	e.setInt("MAX_DEPTH", &c.Renderer.MaxDepth)
	e.setInt("SAMPLES_PER_BATCH", &c.Renderer.SamplesPerBatch)
	e.setFloat("CONVERGENCE_CUTOFF", &c.Renderer.ConvergenceCutoff)
	e.setInt("MAX_SAMPLES", &c.Renderer.MaxSamplesPerPixel)
	e.setInt("WORKERS", &c.Renderer.NumWorkers)
	e.setInt64("SEED", &c.Renderer.Seed)

	e.setString("OUTPUT", &c.Output)
	e.setString("SNAPSHOT", &c.Snapshot)
	e.setString("STATS_PLOT", &c.StatsPlot)
	e.setString("LOG_FORMAT", &c.LogFormat)
	e.setDuration("TIMEOUT", &c.Timeout)
	e.setInt("PORT", &c.Port)

	e.setString("S3_BUCKET", &c.S3.Bucket)
	e.setString("S3_REGION", &c.S3.Region)
	e.setString("S3_ENDPOINT", &c.S3.Endpoint)
	e.setString("S3_PREFIX", &c.S3.Prefix)
	e.setString("S3_ACCESS_KEY", &c.S3.AccessKey)
	e.setString("S3_SECRET_KEY", &c.S3.SecretKey)

	if err := errors.Join(e.problems...); err != nil {
		return c, fmt.Errorf("invalid environment: %w", err)
	}
	return c, nil
}

// Validate checks the assembled configuration, reporting every problem
func (c Config) Validate() error {
	var problems []error
	if err := c.Renderer.Validate(); err != nil {
		problems = append(problems, err)
	}
	if c.Width < 0 || c.Height < 0 {
		problems = append(problems, fmt.Errorf("image size must not be negative, got %dx%d", c.Width, c.Height))
	}
	if c.Scene == "" && c.SceneFile == "" {
		problems = append(problems, fmt.Errorf("one of scene or scene file is required"))
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		problems = append(problems, fmt.Errorf("log format must be text or json, got %q", c.LogFormat))
	}
	if c.Timeout < 0 {
		problems = append(problems, fmt.Errorf("timeout must not be negative, got %v", c.Timeout))
	}
	if c.Port <= 0 || c.Port > 65535 {
		problems = append(problems, fmt.Errorf("port must be in 1-65535, got %d", c.Port))
	}
	return errors.Join(problems...)
}

type envReader struct {
	lookup   func(string) (string, bool)
	problems []error
}

func (e *envReader) get(name string) (string, bool) {
	value, ok := e.lookup(EnvPrefix + name)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(value), true
}

func (e *envReader) fail(name, value string, err error) {
	e.problems = append(e.problems, fmt.Errorf("%s%s=%q: %w", EnvPrefix, name, value, err))
}

func (e *envReader) setString(name string, dst *string) {
	if value, ok := e.get(name); ok {
		*dst = value
	}
}

func (e *envReader) setInt(name string, dst *int) {
	if value, ok := e.get(name); ok {
		n, err := strconv.Atoi(value)
		if err != nil {
			e.fail(name, value, err)
			return
		}
		*dst = n
	}
}

func (e *envReader) setInt64(name string, dst *int64) {
	if value, ok := e.get(name); ok {
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			e.fail(name, value, err)
			return
		}
		*dst = n
	}
}

func (e *envReader) setFloat(name string, dst *float64) {
	if value, ok := e.get(name); ok {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			e.fail(name, value, err)
			return
		}
		*dst = f
	}
}

func (e *envReader) setDuration(name string, dst *time.Duration) {
	if value, ok := e.get(name); ok {
		d, err := time.ParseDuration(value)
		if err != nil {
			e.fail(name, value, err)
			return
		}
		*dst = d
	}
}
