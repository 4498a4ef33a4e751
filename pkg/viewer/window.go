// Package viewer shows a render in progress in a desktop window
package viewer

import (
	"errors"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/df07/go-adaptive-pathtracer/pkg/core"
)

// ErrClosed is returned by Run when the user closes the window
var ErrClosed = errors.New("viewer closed")

// Window is a RenderSurface backed by an ebiten window. DrawPoint may be
// called from any goroutine; pixels are uploaded on the next frame.
type Window struct {
	mu     sync.Mutex
	width  int
	height int
	pixels []byte // RGBA, row major
	dirty  bool
	status string

	title string
	image *ebiten.Image
}

// NewWindow creates a window for a width x height image. It is not shown until Run.
func NewWindow(width, height int, title string) *Window {
	return &Window{
		width:  width,
		height: height,
		pixels: make([]byte, 4*width*height),
		title:  title,
	}
}

// DrawPoint stores a pixel for display
func (w *Window) DrawPoint(x, y int, color core.GammaColor) {
	rgba := color.ToRGBA()
	i := 4 * (y*w.width + x)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.pixels[i] = rgba.R
	w.pixels[i+1] = rgba.G
	w.pixels[i+2] = rgba.B
	w.pixels[i+3] = 255
	w.dirty = true
}

// SetStatus sets the overlay text drawn in the top-left corner
func (w *Window) SetStatus(status string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.status = status
}

// Pixels returns a copy of the current RGBA contents
func (w *Window) Pixels() []byte {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]byte(nil), w.pixels...)
}

// Run opens the window and blocks until it is closed or Escape is pressed.
// It must be called from the main goroutine.
func (w *Window) Run() error {
	ebiten.SetWindowSize(w.width, w.height)
	ebiten.SetWindowTitle(w.title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	err := ebiten.RunGame(w)
	if errors.Is(err, ebiten.Termination) {
		return ErrClosed
	}
	return err
}

// Update implements ebiten.Game
func (w *Window) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game
func (w *Window) Draw(screen *ebiten.Image) {
	if w.image == nil {
		w.image = ebiten.NewImage(w.width, w.height)
	}

	w.mu.Lock()
	if w.dirty {
		w.image.WritePixels(w.pixels)
		w.dirty = false
	}
	status := w.status
	w.mu.Unlock()

	screen.DrawImage(w.image, nil)
	if status != "" {
		ebitenutil.DebugPrint(screen, status)
	}
}

// Layout implements ebiten.Game
func (w *Window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return w.width, w.height
}
