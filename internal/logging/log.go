// Package logging builds the charmbracelet/log loggers used across lawyer
// and carries them through context.Context.
package logging

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// New creates a logger writing to w at the given level.
// Timestamps are formatted as "HH:MM:SS.ms".
func New(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// Discard returns a logger that drops everything
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

type ctxKey int

const loggerKey ctxKey = 0

// WithLogger returns a copy of ctx carrying l
func WithLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext returns the logger stored in ctx, or log.Default()
func FromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// Progress logs the completion of a step along with its duration.
// It is meant for sequential use by one goroutine.
type Progress struct {
	logger *log.Logger
	start  time.Time
}

// StartProgress begins timing a step
func StartProgress(l *log.Logger) *Progress {
	return &Progress{logger: l, start: time.Now()}
}

// Done logs msg with the elapsed time, e.g. "Parsed 42 packages (1.234s)"
func (p *Progress) Done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
