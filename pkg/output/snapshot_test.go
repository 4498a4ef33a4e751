package output

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/df07/go-adaptive-pathtracer/pkg/core"
	"github.com/df07/go-adaptive-pathtracer/pkg/renderer"
)

func testBuffer() *renderer.ParBuffer {
	buffer := renderer.NewParBuffer(5, 3)
	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			buffer.Set(x, y, core.NewColor(float64(x)/4, float64(y)/2, 0.125), 10+x*y)
		}
	}
	return buffer
}

func assertBuffersEqual(t *testing.T, got, want *renderer.ParBuffer) {
	t.Helper()
	if got.Width() != want.Width() || got.Height() != want.Height() {
		t.Fatalf("Size = %dx%d, want %dx%d", got.Width(), got.Height(), want.Width(), want.Height())
	}
	for y := 0; y < want.Height(); y++ {
		for x := 0; x < want.Width(); x++ {
			if got.At(x, y) != want.At(x, y) {
				t.Errorf("Color at (%d,%d) = %v, want %v", x, y, got.At(x, y), want.At(x, y))
			}
			if got.SampleCount(x, y) != want.SampleCount(x, y) {
				t.Errorf("Samples at (%d,%d) = %d, want %d", x, y, got.SampleCount(x, y), want.SampleCount(x, y))
			}
		}
	}
}

func TestSnapshot_FileRoundTrip(t *testing.T) {
	for _, name := range []string{"frame.zst", "frame.sz", "frame.bin"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			want := testBuffer()

			if err := WriteSnapshot(path, want); err != nil {
				t.Fatalf("WriteSnapshot() error: %v", err)
			}
			got, err := ReadSnapshot(path)
			if err != nil {
				t.Fatalf("ReadSnapshot() error: %v", err)
			}
			assertBuffersEqual(t, got, want)
		})
	}
}

func TestDecodeSnapshot_Malformed(t *testing.T) {
	var valid bytes.Buffer
	if err := EncodeSnapshot(&valid, testBuffer()); err != nil {
		t.Fatalf("EncodeSnapshot() error: %v", err)
	}

	badMagic := append([]byte("NOTSNAP!"), valid.Bytes()[8:]...)
	outOfRange := append([]byte(nil), valid.Bytes()...)
	// First channel of the first pixel becomes 2.0
	copy(outOfRange[16:24], []byte{0, 0, 0, 0, 0, 0, 0, 0x40})

	testCases := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"bad magic", badMagic},
		{"truncated", valid.Bytes()[:valid.Len()-3]},
		{"out of range", outOfRange},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeSnapshot(bytes.NewReader(tc.data))
			if !errors.Is(err, ErrBadSnapshot) {
				t.Errorf("DecodeSnapshot() error = %v, want ErrBadSnapshot", err)
			}
		})
	}
}
