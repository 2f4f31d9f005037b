package logging

import (
	"context"
	"log/slog"
	"os"
)

func newLogger(opts Options) (*slog.Logger, *RotatingLogger) {
	console := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: opts.Level})
	if opts.Dir == "" {
		return slog.New(console), nil
	}

	if err := os.MkdirAll(opts.Dir, 0755); err != nil {
		logger := slog.New(console)
		logger.Error("Failed to create logs directory, logging to console only", "dir", opts.Dir, "error", err)
		return logger, nil
	}

	if opts.RetentionWeeks <= 0 {
		opts.RetentionWeeks = 4
	}

	file, err := OpenRotatingLogger(opts.Dir, opts.RetentionWeeks, opts.MaxFileSize)
	if err != nil {
		logger := slog.New(console)
		logger.Error("Failed to open rotating log file, logging to console only", "error", err)
		return logger, nil
	}

	// Console gets text, the file gets JSON for ingestion
	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: opts.Level})
	return slog.New(&multiHandler{handlers: []slog.Handler{console, fileHandler}}), file
}

// multiHandler fans a record out to several handlers
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range m.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		next[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: next}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		next[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: next}
}
