package renderer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/df07/go-adaptive-pathtracer/pkg/core"
)

// DefaultLogger implements core.Logger by writing to stdout
type DefaultLogger struct{}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	fmt.Printf(format, args...)
}

// NewDefaultLogger creates a new default logger
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{}
}

// StructuredLogger adapts core.Logger onto a slog JSON handler
type StructuredLogger struct {
	logger *slog.Logger
}

// NewStructuredLogger writes one JSON record per Printf call to w
func NewStructuredLogger(w io.Writer, level slog.Level) *StructuredLogger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	return &StructuredLogger{logger: slog.New(handler)}
}

// With returns a logger that attaches the given attributes to every record
func (sl *StructuredLogger) With(args ...any) *StructuredLogger {
	return &StructuredLogger{logger: sl.logger.With(args...)}
}

func (sl *StructuredLogger) Printf(format string, args ...interface{}) {
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	sl.logger.Log(context.Background(), slog.LevelInfo, msg)
}
