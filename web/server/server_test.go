package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/df07/go-adaptive-pathtracer/pkg/core"
	"github.com/df07/go-adaptive-pathtracer/pkg/geometry"
	"github.com/df07/go-adaptive-pathtracer/pkg/renderer"
	"github.com/df07/go-adaptive-pathtracer/pkg/scene"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	config := renderer.DefaultConfig()
	config.NumWorkers = 2
	ts := httptest.NewServer(NewServer(Options{
		ScenesDir: t.TempDir(),
		Renderer:  config,
	}).Handler())
	t.Cleanup(ts.Close)
	return ts
}

func TestHandleHealth(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET /api/health failed: %v", err)
	}
	defer resp.Body.Close()

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.StatusCode != http.StatusOK || body["status"] != "ok" {
		t.Errorf("Health = %d %v", resp.StatusCode, body)
	}
}

func TestHandleScenes(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/scenes")
	if err != nil {
		t.Fatalf("GET /api/scenes failed: %v", err)
	}
	defer resp.Body.Close()

	var body scene.ScenesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if len(body.Groups) != 1 || body.Groups[0].Name != "Built-in Scenes" {
		t.Fatalf("Groups = %+v", body.Groups)
	}
	if len(body.Groups[0].Scenes) != len(scene.BuiltinScenes()) {
		t.Errorf("Expected %d built-in scenes, got %d", len(scene.BuiltinScenes()), len(body.Groups[0].Scenes))
	}
}

func dialRender(t *testing.T, ts *httptest.Server, query string) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/render?" + query
	return websocket.DefaultDialer.Dial(wsURL, nil)
}

func TestHandleRender_StreamsProgressAndImage(t *testing.T) {
	ts := newTestServer(t)

	conn, _, err := dialRender(t, ts, "scene=basic&width=24&height=16&maxDepth=4&maxSamples=20&seed=3")
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(60 * time.Second))

	var progressCount int
	var final *StreamMessage
	for final == nil {
		var msg StreamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("ReadJSON failed after %d progress messages: %v", progressCount, err)
		}
		switch msg.Type {
		case MessageProgress:
			progressCount++
			if msg.TotalRows != 16 || msg.RowsDone < 1 || msg.RowsDone > 16 {
				t.Errorf("Bad progress message %+v", msg)
			}
		case MessageComplete:
			final = &msg
		case MessageError:
			t.Fatalf("Render error: %s", msg.Error)
		}
	}

	if progressCount == 0 {
		t.Error("Expected at least one progress message")
	}
	if final.Stats == nil || final.Stats.TotalPixels != 24*16 || final.Stats.MaxSamplesUsed > 20 {
		t.Errorf("Stats = %+v", final.Stats)
	}
	if final.Stats != nil && (final.Stats.Luminance <= 0 || final.Stats.Luminance > 1) {
		t.Errorf("Luminance = %v, want within (0, 1]", final.Stats.Luminance)
	}
	if final.Stats != nil && final.Stats.Seed != 3 {
		t.Errorf("Seed = %d, want 3", final.Stats.Seed)
	}

	data, err := base64.StdEncoding.DecodeString(final.ImageData)
	if err != nil {
		t.Fatalf("Image is not base64: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Image is not a PNG: %v", err)
	}
	if img.Bounds().Dx() != 24 || img.Bounds().Dy() != 16 {
		t.Errorf("Image size = %v, want 24x16", img.Bounds())
	}
}

func TestHandleRender_UnknownScene(t *testing.T) {
	ts := newTestServer(t)

	conn, _, err := dialRender(t, ts, "scene=missing&width=16&height=16")
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))

	for {
		var msg StreamMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("Connection closed without an error message: %v", err)
		}
		if msg.Type == MessageError {
			if !strings.Contains(msg.Error, "missing") {
				t.Errorf("Error %q does not name the scene", msg.Error)
			}
			return
		}
	}
}

func TestHandleRender_InvalidParameters(t *testing.T) {
	ts := newTestServer(t)

	_, resp, err := dialRender(t, ts, "scene=basic&width=5000")
	if err == nil {
		t.Fatal("Expected handshake to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Expected 400 response, got %v", resp)
	}
}

func TestParseRenderRequest(t *testing.T) {
	s := NewServer(Options{Renderer: renderer.DefaultConfig()})

	tests := []struct {
		name  string
		query string
		valid bool
	}{
		{"defaults", "", true},
		{"all parameters", "scene=textures&width=64&height=48&maxDepth=8&samplesPerBatch=4&cutoff=0.001&maxSamples=100&seed=9", true},
		{"width too small", "width=2", false},
		{"bad height", "height=tall", false},
		{"zero depth", "maxDepth=0", false},
		{"cutoff too large", "cutoff=5", false},
		{"negative seed", "seed=-1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, _ := url.ParseQuery(tt.query)
			req, err := s.parseRenderRequest(values)
			if tt.valid && err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if !tt.valid && err == nil {
				t.Fatal("Expected error")
			}
			if tt.valid && req.Config.Validate() != nil {
				t.Errorf("Parsed config is invalid: %v", req.Config.Validate())
			}
		})
	}

	values, _ := url.ParseQuery("scene=textures&width=64&maxSamples=100&seed=9")
	req, err := s.parseRenderRequest(values)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if req.Scene != "textures" || req.Width != 64 || req.Height != 0 || req.Config.MaxSamplesPerPixel != 100 || req.Config.Seed != 9 {
		t.Errorf("Parsed request = %+v", req)
	}
	if req.Config.MaxDepth != renderer.DefaultConfig().MaxDepth {
		t.Errorf("MaxDepth = %d, want server default", req.Config.MaxDepth)
	}
}

func TestHandleInspect(t *testing.T) {
	ts := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/inspect?scene=cornell-box&width=64&height=64&x=32&y=32")
	if err != nil {
		t.Fatalf("GET /api/inspect failed: %v", err)
	}
	defer resp.Body.Close()

	var body InspectResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.StatusCode != http.StatusOK || !body.Hit {
		t.Fatalf("Expected a hit, got %d %+v", resp.StatusCode, body)
	}
	if body.MaterialType == "" || body.GeometryType == "" || body.GeometryType == "unknown" {
		t.Errorf("Inspect result lacks detail: %+v", body)
	}

	resp, err = http.Get(ts.URL + "/api/inspect?scene=cornell-box&width=64&height=64&x=64&y=0")
	if err != nil {
		t.Fatalf("GET /api/inspect failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("Out of bounds pixel: status %d, want 400", resp.StatusCode)
	}
}

func TestExtractGeometryInfo_MeshBounds(t *testing.T) {
	vertices := []core.Vec3{core.NewVec3(0, 0, 0), core.NewVec3(2, 0, 0), core.NewVec3(0, 4, 2)}
	mesh := geometry.NewTriangleMesh(vertices, []int{0, 1, 2}, nil, nil)

	kind, properties := extractGeometryInfo(mesh)
	if kind != "triangle_mesh" {
		t.Fatalf("Expected triangle_mesh, got %q", kind)
	}
	bounds, ok := properties["boundingBox"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected bounding box map, got %T", properties["boundingBox"])
	}
	if got := bounds["center"]; got != [3]float64{1, 2, 1} {
		t.Errorf("Center = %v, want [1 2 1]", got)
	}
	if got := bounds["size"]; got != [3]float64{2, 4, 2} {
		t.Errorf("Size = %v, want [2 4 2]", got)
	}
}
