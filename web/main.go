package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/df07/go-adaptive-pathtracer/pkg/config"
	"github.com/df07/go-adaptive-pathtracer/pkg/core"
	"github.com/df07/go-adaptive-pathtracer/pkg/output"
	"github.com/df07/go-adaptive-pathtracer/pkg/renderer"
	"github.com/df07/go-adaptive-pathtracer/web/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	// Parse command line flags
	port := flag.Int("port", cfg.Port, "Port to serve on")
	scenesDir := flag.String("scenes", cfg.ScenesDir, "Directory of JSON scene descriptions")
	staticDir := flag.String("static", "static", "Directory of static web assets")
	flag.Parse()
	cfg.Port = *port
	cfg.ScenesDir = *scenesDir

	if err := cfg.Validate(); err != nil {
		slog.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	var logger core.Logger = renderer.NewStructuredLogger(os.Stdout, slog.LevelInfo).With("component", "web")
	if cfg.LogFormat == "text" {
		logger = renderer.NewDefaultLogger()
	}

	var uploader *output.S3Uploader
	if cfg.S3.Bucket != "" {
		if uploader, err = output.NewS3Uploader(cfg.S3, logger); err != nil {
			logger.Printf("S3 upload disabled: %v\n", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	webServer := server.NewServer(server.Options{
		Port:      cfg.Port,
		ScenesDir: cfg.ScenesDir,
		StaticDir: *staticDir,
		Renderer:  cfg.Renderer,
		Logger:    logger,
		Uploader:  uploader,
	})

	logger.Printf("Adaptive Path Tracer Web Server\n")
	logger.Printf("Visit http://localhost:%d to start rendering\n", cfg.Port)

	if err := webServer.Start(ctx); err != nil {
		logger.Printf("Error running server: %v\n", err)
		os.Exit(1)
	}
}
