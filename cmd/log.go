package cmd

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger with short timestamps filtered at level.
func newLogger(w io.Writer, level log.Level) (logger *log.Logger) {
	logger = log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
		Prefix:          "ats-cv",
	})
	return logger
}

// progress logs completion of an operation with the elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) (p *progress) {
	p = &progress{logger: l, start: time.Now()}
	return p
}

// done logs msg with the elapsed time, e.g. "Rendered CV (12ms)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) (out context.Context) {
	out = context.WithValue(ctx, loggerKey, l)
	return out
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) (logger *log.Logger) {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		logger = l
		return logger
	}
	logger = log.Default()
	return logger
}
