package output

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"

	"github.com/df07/go-adaptive-pathtracer/pkg/core"
	"github.com/df07/go-adaptive-pathtracer/pkg/renderer"
)

// Snapshots hold the linear (pre-gamma) framebuffer and per-pixel sample
// counts so a render can be re-encoded or inspected later.
//
// Layout, little endian: the 8-byte magic, width and height as uint32, then
// for each row 3*width float64 color channels followed by width uint32 counts.

const (
	snapshotMagic     = "PTSNAP01"
	maxSnapshotExtent = 1 << 15
)

// ErrBadSnapshot is returned for truncated or corrupt snapshot data
var ErrBadSnapshot = errors.New("malformed snapshot")

type snapshotHeader struct {
	Magic  [8]byte
	Width  uint32
	Height uint32
}

// WriteSnapshot saves buffer to path. A .zst extension compresses with
// zstd, .sz with snappy framing; anything else is written uncompressed.
func WriteSnapshot(path string, buffer *renderer.ParBuffer) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create snapshot: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("failed to close snapshot: %w", closeErr)
		}
	}()

	stream, err := compressor(path, file)
	if err != nil {
		return err
	}
	if err := EncodeSnapshot(stream, buffer); err != nil {
		stream.Close()
		return err
	}
	if err := stream.Close(); err != nil {
		return fmt.Errorf("failed to flush snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot loads a snapshot written by WriteSnapshot
func ReadSnapshot(path string) (*renderer.ParBuffer, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer file.Close()

	stream, err := decompressor(path, file)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	return DecodeSnapshot(stream)
}

// EncodeSnapshot writes the uncompressed snapshot encoding of buffer to w
func EncodeSnapshot(w io.Writer, buffer *renderer.ParBuffer) error {
	bw := bufio.NewWriter(w)

	header := snapshotHeader{Width: uint32(buffer.Width()), Height: uint32(buffer.Height())}
	copy(header.Magic[:], snapshotMagic)
	if err := binary.Write(bw, binary.LittleEndian, header); err != nil {
		return fmt.Errorf("failed to write snapshot header: %w", err)
	}

	channels := make([]float64, 3*buffer.Width())
	samples := make([]uint32, buffer.Width())
	for y := 0; y < buffer.Height(); y++ {
		colors, counts := buffer.Row(y)
		for x, c := range colors {
			channels[3*x], channels[3*x+1], channels[3*x+2] = c.R, c.G, c.B
			samples[x] = uint32(counts[x])
		}
		if err := binary.Write(bw, binary.LittleEndian, channels); err != nil {
			return fmt.Errorf("failed to write snapshot row %d: %w", y, err)
		}
		if err := binary.Write(bw, binary.LittleEndian, samples); err != nil {
			return fmt.Errorf("failed to write snapshot row %d: %w", y, err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// DecodeSnapshot reads an uncompressed snapshot encoding from r
func DecodeSnapshot(r io.Reader) (*renderer.ParBuffer, error) {
	br := bufio.NewReader(r)

	var header snapshotHeader
	if err := binary.Read(br, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrBadSnapshot, err)
	}
	if string(header.Magic[:]) != snapshotMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrBadSnapshot, header.Magic[:])
	}
	if header.Width == 0 || header.Height == 0 || header.Width > maxSnapshotExtent || header.Height > maxSnapshotExtent {
		return nil, fmt.Errorf("%w: invalid size %dx%d", ErrBadSnapshot, header.Width, header.Height)
	}

	width, height := int(header.Width), int(header.Height)
	buffer := renderer.NewParBuffer(width, height)
	channels := make([]float64, 3*width)
	samples := make([]uint32, width)
	for y := 0; y < height; y++ {
		if err := binary.Read(br, binary.LittleEndian, channels); err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrBadSnapshot, y, err)
		}
		if err := binary.Read(br, binary.LittleEndian, samples); err != nil {
			return nil, fmt.Errorf("%w: row %d: %v", ErrBadSnapshot, y, err)
		}

		colors := make([]core.Color, width)
		counts := make([]int, width)
		for x := range colors {
			r, g, b := channels[3*x], channels[3*x+1], channels[3*x+2]
			if !inUnitRange(r) || !inUnitRange(g) || !inUnitRange(b) {
				return nil, fmt.Errorf("%w: pixel (%d,%d) out of range", ErrBadSnapshot, x, y)
			}
			colors[x] = core.NewColor(r, g, b)
			counts[x] = int(samples[x])
		}
		buffer.SetRow(y, colors, counts)
	}
	return buffer, nil
}

func inUnitRange(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func compressor(path string, w io.Writer) (io.WriteCloser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst":
		encoder, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd encoder: %w", err)
		}
		return encoder, nil
	case ".sz":
		return snappy.NewBufferedWriter(w), nil
	default:
		return nopWriteCloser{w}, nil
	}
}

func decompressor(path string, r io.Reader) (io.ReadCloser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".zst":
		decoder, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create zstd decoder: %w", err)
		}
		return decoder.IOReadCloser(), nil
	case ".sz":
		return io.NopCloser(snappy.NewReader(r)), nil
	default:
		return io.NopCloser(r), nil
	}
}
