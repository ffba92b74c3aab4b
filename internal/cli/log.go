// Package cli implements the png2svg command-line interface.
//
// Running png2svg with a path (or with none, meaning the current directory)
// converts every matching raster image to a sibling SVG document. Further
// commands inspect an image's regions, serve conversions over HTTP and
// manage the conversion cache. The CLI is built using cobra and logs through
// charmbracelet/log.
//
// # Commands
//
//   - convert: Convert an image or a directory of images (also the default)
//   - inspect: Print the colour regions of an image as a table
//   - serve: Run the HTTP conversion API
//   - cache: Clear or locate the conversion cache
//   - completion: Generate shell completion scripts
//
// # Configuration
//
// Defaults come from $XDG_CONFIG_HOME/png2svg/config.toml when it exists.
// Command-line flags override file values.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Traced 42 regions (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() when
// none is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
