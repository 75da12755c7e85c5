// Package log provides the verbose diagnostic logger.
package log

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
)

// Logger writes debug diagnostics through zerolog when enabled.
// A nil Logger discards everything.
type Logger struct {
	zl zerolog.Logger
}

// New returns a logger writing JSON lines to w. A disabled logger drops
// every event.
func New(enabled bool, w io.Writer) *Logger {
	if w == nil {
		w = io.Discard
	}
	zl := zerolog.New(w).With().Timestamp().Logger()
	if enabled {
		zl = zl.Level(zerolog.DebugLevel)
	} else {
		zl = zl.Level(zerolog.Disabled)
	}
	return &Logger{zl: zl}
}

// Enabled reports whether events are written.
func (l *Logger) Enabled() bool {
	return l != nil && l.zl.GetLevel() != zerolog.Disabled
}

// Printf writes one debug event with a formatted message.
func (l *Logger) Printf(format string, args ...any) {
	if l == nil {
		return
	}
	l.zl.Debug().Msg(fmt.Sprintf(format, args...))
}
