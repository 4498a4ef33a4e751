package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/df07/go-adaptive-pathtracer/pkg/output"
	"github.com/df07/go-adaptive-pathtracer/pkg/renderer"
)

// Message types sent over the render websocket
const (
	MessageConsole  = "console"
	MessageProgress = "progress"
	MessageComplete = "complete"
	MessageError    = "error"
)

const writeTimeout = 10 * time.Second

// RenderRequest holds the parsed parameters of a render
type RenderRequest struct {
	SceneParams
	Config renderer.Config
}

// StreamMessage is one JSON message on the render websocket
type StreamMessage struct {
	Type      string          `json:"type"`
	RowsDone  int             `json:"rowsDone,omitempty"`
	TotalRows int             `json:"totalRows,omitempty"`
	ImageData string          `json:"imageData,omitempty"` // Base64 encoded PNG
	Stats     *Stats          `json:"stats,omitempty"`
	Console   *ConsoleMessage `json:"console,omitempty"`
	Error     string          `json:"error,omitempty"`
	ElapsedMs int64           `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels    int     `json:"totalPixels"`
	TotalSamples   int     `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
	MinSamples     int     `json:"minSamples"`
	MaxSamplesUsed int     `json:"maxSamplesUsed"`
	Luminance      float64 `json:"luminance"`
	PrimitiveCount int     `json:"primitiveCount"`
	Seed           int64   `json:"seed"`
	UploadedKey    string  `json:"uploadedKey,omitempty"`
}

// handleRender upgrades to a websocket, renders the requested scene and
// streams progress followed by the finished image. Closing the socket
// cancels the render.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r.URL.Query())
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid request: " + err.Error()})
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("Websocket upgrade failed: %v\n", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// The client never sends anything meaningful; reading surfaces the close
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	messages := make(chan StreamMessage, 64)
	var writer sync.WaitGroup
	writer.Add(1)
	go func() {
		defer writer.Done()
		s.writeMessages(ctx, conn, messages)
	}()

	s.runRender(ctx, req, messages)
	close(messages)
	writer.Wait()

	conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(writeTimeout))
}

// runRender performs the render, sending every message to messages
func (s *Server) runRender(ctx context.Context, req *RenderRequest, messages chan<- StreamMessage) {
	start := time.Now()
	send := func(msg StreamMessage) {
		msg.ElapsedMs = time.Since(start).Milliseconds()
		select {
		case messages <- msg:
		case <-ctx.Done():
		}
	}

	consoleChan, webLogger := s.setupConsoleLogging()
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		for msg := range consoleChan {
			send(StreamMessage{Type: MessageConsole, Console: &msg})
		}
	}()
	defer func() {
		close(consoleChan)
		<-consoleDone
	}()

	sceneObj, err := s.createScene(req.SceneParams, req.Config.Seed, webLogger)
	if err != nil {
		send(StreamMessage{Type: MessageError, Error: err.Error()})
		return
	}

	progress := func(rowsDone, totalRows int) {
		// Progress is advisory; drop updates rather than stall a worker
		select {
		case messages <- StreamMessage{Type: MessageProgress, RowsDone: rowsDone, TotalRows: totalRows, ElapsedMs: time.Since(start).Milliseconds()}:
		default:
		}
	}

	rt := renderer.NewRenderer(req.Config, webLogger)
	buffer, stats, err := rt.Render(ctx, sceneObj.Camera, sceneObj, progress)
	if err != nil {
		send(StreamMessage{Type: MessageError, Error: fmt.Sprintf("Rendering failed: %v", err)})
		return
	}

	var png bytes.Buffer
	if err := output.EncodePNG(&png, buffer.Image()); err != nil {
		send(StreamMessage{Type: MessageError, Error: err.Error()})
		return
	}

	result := &Stats{
		TotalPixels:    stats.TotalPixels,
		TotalSamples:   stats.TotalSamples,
		AverageSamples: stats.AverageSamples,
		MinSamples:     stats.MinSamples,
		MaxSamplesUsed: stats.MaxSamplesUsed,
		Luminance:      stats.AverageLuminance,
		PrimitiveCount: sceneObj.GetPrimitiveCount(),
		Seed:           stats.Seed,
	}

	if s.options.Uploader != nil {
		key := fmt.Sprintf("%s-%d.png", sanitizeKey(req.Scene), time.Now().Unix())
		if err := s.options.Uploader.Upload(ctx, key, png.Bytes(), "image/png"); err != nil {
			webLogger.Printf("Upload failed: %v\n", err)
		} else {
			result.UploadedKey = key
		}
	}

	send(StreamMessage{
		Type:      MessageComplete,
		ImageData: base64.StdEncoding.EncodeToString(png.Bytes()),
		Stats:     result,
	})
}

// writeMessages is the only goroutine writing to conn
func (s *Server) writeMessages(ctx context.Context, conn *websocket.Conn, messages <-chan StreamMessage) {
	for msg := range messages {
		if ctx.Err() != nil {
			continue // Drain so senders never block
		}
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := conn.WriteJSON(msg); err != nil {
			s.logger.Printf("Websocket write failed: %v\n", err)
		}
	}
}

// parseRenderRequest parses request parameters on top of the server defaults
func (s *Server) parseRenderRequest(values url.Values) (*RenderRequest, error) {
	params, err := parseSceneParams(values)
	if err != nil {
		return nil, err
	}

	req := &RenderRequest{SceneParams: params, Config: s.options.Renderer}
	c := &req.Config
	if c.MaxDepth, err = parseIntParam(values, "maxDepth", c.MaxDepth, 1, 500); err != nil {
		return nil, err
	}
	if c.SamplesPerBatch, err = parseIntParam(values, "samplesPerBatch", c.SamplesPerBatch, 1, 1000); err != nil {
		return nil, err
	}
	if c.ConvergenceCutoff, err = parseFloatParam(values, "cutoff", c.ConvergenceCutoff, 1e-9, 1); err != nil {
		return nil, err
	}
	if c.MaxSamplesPerPixel, err = parseIntParam(values, "maxSamples", c.MaxSamplesPerPixel, 0, 100000); err != nil {
		return nil, err
	}
	seed, err := parseIntParam(values, "seed", int(c.Seed), 0, 1<<31-1)
	if err != nil {
		return nil, err
	}
	c.Seed = int64(seed)

	// Performance warning
	if req.Width*req.Height > 800*600 && c.MaxSamplesPerPixel == 0 {
		s.logger.Printf("Render warning: large image without a sample ceiling may render slowly\n")
	}
	return req, nil
}

func sanitizeKey(id string) string {
	b := []byte(id)
	for i, c := range b {
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '-' || c == '_') {
			b[i] = '_'
		}
	}
	return string(b)
}
