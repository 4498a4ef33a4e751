package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/df07/go-adaptive-pathtracer/pkg/core"
	"github.com/df07/go-adaptive-pathtracer/pkg/geometry"
	"github.com/df07/go-adaptive-pathtracer/pkg/output"
	"github.com/df07/go-adaptive-pathtracer/pkg/renderer"
	"github.com/df07/go-adaptive-pathtracer/pkg/scene"
)

// Image size limits accepted by the API
const (
	minImageSize = 16
	maxImageSize = 2000
)

// Options configures a Server
type Options struct {
	Port      int
	ScenesDir string             // Directory of JSON scene descriptions
	StaticDir string             // Served at / when non-empty
	Renderer  renderer.Config    // Defaults for render requests
	Logger    core.Logger        // Server log; nil discards
	Uploader  *output.S3Uploader // Optional destination for finished renders
}

// Server streams renders to browsers over websockets
type Server struct {
	options  Options
	logger   core.Logger
	upgrader websocket.Upgrader
}

// NewServer creates a new web server
func NewServer(options Options) *Server {
	logger := options.Logger
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Server{
		options: options,
		logger:  logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler returns the server's routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	if s.options.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.options.StaticDir)))
	}
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Start(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.options.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Printf("Starting web server on http://localhost%s\n", httpServer.Addr)
		errChan <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		return fmt.Errorf("web server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("web server shutdown failed: %w", err)
	}
	if err := <-errChan; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes and scene files, grouped for display
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	response, err := scene.ListAllScenes(s.options.ScenesDir)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, response)
}

// SceneParams identifies a scene and the image size to render it at
type SceneParams struct {
	Scene  string `json:"scene"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// parseSceneParams reads the parameters shared by render and inspect requests.
// Width and height of zero keep the scene's own camera size.
func parseSceneParams(values url.Values) (SceneParams, error) {
	params := SceneParams{Scene: values.Get("scene")}
	if params.Scene == "" {
		params.Scene = "cornell-box"
	}

	var err error
	if params.Width, err = parseIntParam(values, "width", 0, minImageSize, maxImageSize); err != nil {
		return params, err
	}
	if params.Height, err = parseIntParam(values, "height", 0, minImageSize, maxImageSize); err != nil {
		return params, err
	}
	return params, nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float parameter from URL query with validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got: %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// createScene builds the requested scene with its BVH. IDs prefixed with
// "json:" name a description file in the scenes directory.
func (s *Server) createScene(params SceneParams, seed int64, logger core.Logger) (*scene.Scene, error) {
	override := geometry.CameraConfig{Width: params.Width, Height: params.Height}
	random := rand.New(rand.NewSource(seed))

	var (
		sceneObj *scene.Scene
		err      error
	)
	if name, ok := strings.CutPrefix(params.Scene, "json:"); ok {
		if name == "" || name != filepath.Base(name) {
			return nil, fmt.Errorf("invalid scene file name %q", name)
		}
		path := filepath.Join(s.options.ScenesDir, name+".json")
		sceneObj, err = scene.LoadSceneFile(path, scene.BuildOptions{
			Random:          random,
			Logger:          logger,
			CameraOverrides: []geometry.CameraConfig{override},
		})
	} else {
		sceneObj, err = scene.NewBuiltinScene(params.Scene, override)
	}
	if err != nil {
		return nil, err
	}

	sceneObj.Preprocess(random)
	return sceneObj, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
