// Package logging builds the slog logger used by every command.
package logging

import (
	"io"
	"log/slog"
	"time"

	"github.com/jwalton/go-supportscolor"
	"github.com/lmittmann/tint"
)

// New returns a tint logger writing to w. Debug output is enabled by
// verbose; otherwise only warnings and errors are shown.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    !supportscolor.Stderr().SupportsColor,
	}))
}
