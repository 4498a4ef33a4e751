package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/df07/go-adaptive-pathtracer/pkg/config"
	"github.com/df07/go-adaptive-pathtracer/pkg/core"
	"github.com/df07/go-adaptive-pathtracer/pkg/output"
)

func TestCreateScene(t *testing.T) {
	dir := t.TempDir()
	sceneFile := filepath.Join(dir, "single.json")
	content := `{
		"camera": {"center": [0,0,5], "lookAt": [0,0,0], "up": [0,1,0], "width": 20, "height": 10, "vfov": 40},
		"materials": [{"name": "m", "type": "lambertian", "albedo": [0.5, 0.5, 0.5]}],
		"geometry": [{"type": "sphere", "center": [0,0,0], "radius": 1, "material": "m"}]
	}`
	if err := os.WriteFile(sceneFile, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write scene file: %v", err)
	}

	tests := []struct {
		name        string
		scene       string
		sceneFile   string
		expectError bool
	}{
		{"default scene", "basic", "", false},
		{"cornell scene", "cornell-box", "", false},
		{"sphere grid", "sphere-grid", "", false},
		{"triangle meshes", "triangle-mesh", "", false},
		{"textures", "textures", "", false},
		{"transforms", "transforms", "", false},
		{"scene file", "", sceneFile, false},
		{"scene file wins over ID", "no-such-scene", sceneFile, false},
		{"unknown scene", "nonexistent", "", true},
		{"missing scene file", "", filepath.Join(dir, "missing.json"), true},
		{"empty scene name", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Scene = tt.scene
			cfg.SceneFile = tt.sceneFile

			sceneObj, err := createScene(cfg, core.NopLogger{})
			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error for scene %q / %q", tt.scene, tt.sceneFile)
				}
				if sceneObj != nil {
					t.Errorf("Expected nil scene on error, got %T", sceneObj)
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if sceneObj.CameraConfig.Width <= 0 || sceneObj.CameraConfig.Height <= 0 {
				t.Errorf("Scene camera size should be positive, got %dx%d", sceneObj.CameraConfig.Width, sceneObj.CameraConfig.Height)
			}
			if sceneObj.BVH == nil {
				t.Error("Expected scene to be preprocessed")
			}
		})
	}
}

func TestCreateScene_SizeOverride(t *testing.T) {
	cfg := config.Default()
	cfg.Scene = "cornell-box"
	cfg.Width, cfg.Height = 32, 24

	sceneObj, err := createScene(cfg, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if sceneObj.Camera.Width() != 32 || sceneObj.Camera.Height() != 24 {
		t.Errorf("Camera size = %dx%d, want 32x24", sceneObj.Camera.Width(), sceneObj.Camera.Height())
	}
}

func TestParseFlags(t *testing.T) {
	cfg, opts, err := parseFlags([]string{
		"-scene", "textures", "-width", "64", "-height", "48",
		"-depth", "6", "-batch", "5", "-cutoff", "0.001", "-max-samples", "40",
		"-workers", "2", "-seed", "11", "-out", "out/x.jpg", "-snapshot", "out/x.zst",
		"-timeout", "2m", "-log-format", "json", "-window",
	}, config.Default(), io.Discard)
	if err != nil {
		t.Fatalf("parseFlags() error: %v", err)
	}

	r := cfg.Renderer
	if cfg.Scene != "textures" || cfg.Width != 64 || cfg.Height != 48 {
		t.Errorf("Scene/size = %q %dx%d", cfg.Scene, cfg.Width, cfg.Height)
	}
	if r.MaxDepth != 6 || r.SamplesPerBatch != 5 || r.ConvergenceCutoff != 0.001 ||
		r.MaxSamplesPerPixel != 40 || r.NumWorkers != 2 || r.Seed != 11 {
		t.Errorf("Renderer config = %+v", r)
	}
	if cfg.Output != "out/x.jpg" || cfg.Snapshot != "out/x.zst" || cfg.LogFormat != "json" {
		t.Errorf("Outputs = %q %q %q", cfg.Output, cfg.Snapshot, cfg.LogFormat)
	}
	if cfg.Timeout.Minutes() != 2 {
		t.Errorf("Timeout = %v, want 2m", cfg.Timeout)
	}
	if !opts.window || opts.list || opts.help {
		t.Errorf("Options = %+v", opts)
	}
}

func TestParseFlags_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"-bogus"}},
		{"bad number", []string{"-width", "wide"}},
		{"stray argument", []string{"cornell-box"}},
		{"invalid config", []string{"-batch", "0"}},
		{"bad log format", []string{"-log-format", "xml"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := parseFlags(tt.args, config.Default(), io.Discard); err == nil {
				t.Errorf("Expected error for %v", tt.args)
			}
		})
	}
}

func TestSceneName(t *testing.T) {
	cfg := config.Default()
	cfg.Scene = "cornell-box"
	if got := sceneName(cfg); got != "cornell-box" {
		t.Errorf("sceneName() = %q, want cornell-box", got)
	}
	cfg.SceneFile = "scenes/sub/my-scene.json"
	if got := sceneName(cfg); got != "my-scene" {
		t.Errorf("sceneName() = %q, want my-scene", got)
	}
}

func TestRun_WritesOutputs(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Scene = "cornell-box"
	cfg.Width, cfg.Height = 12, 12
	cfg.Renderer.MaxDepth = 4
	cfg.Renderer.MaxSamplesPerPixel = 10
	cfg.Renderer.NumWorkers = 2
	cfg.Output = filepath.Join(dir, "images", "cornell.png")
	cfg.Snapshot = filepath.Join(dir, "cornell.sz")
	cfg.StatsPlot = filepath.Join(dir, "samples.png")

	if err := run(context.Background(), cfg, core.NopLogger{}); err != nil {
		t.Fatalf("run() error: %v", err)
	}

	for _, path := range []string{cfg.Output, cfg.Snapshot, cfg.StatsPlot} {
		if info, err := os.Stat(path); err != nil || info.Size() == 0 {
			t.Errorf("Expected non-empty %s: %v", path, err)
		}
	}

	buffer, err := output.ReadSnapshot(cfg.Snapshot)
	if err != nil {
		t.Fatalf("ReadSnapshot() error: %v", err)
	}
	if stats := buffer.Stats(); stats.TotalPixels != 144 || stats.MaxSamplesUsed > 10 {
		t.Errorf("Snapshot stats = %+v", stats)
	}
}

func TestRun_CancelledStillWritesImage(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Scene = "basic"
	cfg.Width, cfg.Height = 16, 16
	cfg.Output = filepath.Join(dir, "partial.png")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := run(ctx, cfg, core.NopLogger{}); err == nil {
		t.Error("Expected cancellation error")
	}
	if _, err := os.Stat(cfg.Output); err != nil {
		t.Errorf("Expected partial image to be written: %v", err)
	}
}
