package logging

import (
	"context"
	"log/slog"
)

const (
	// FieldSessionID identifies a diagnostic session across the console and debug logs.
	FieldSessionID = "session_id"
	// FieldRunID names the run; it matches the warscout-<run>.log file name.
	FieldRunID = "run_id"
)

// stampHandler appends a fixed set of attributes to every record at Handle
// time, after any With attributes, so they survive logger.With chains.
type stampHandler struct {
	base  slog.Handler
	stamp []slog.Attr
}

func newStampHandler(base slog.Handler, stamp ...slog.Attr) slog.Handler {
	if base == nil {
		return NoopHandler{}
	}
	kept := make([]slog.Attr, 0, len(stamp))
	for _, a := range stamp {
		if a.Value.String() != "" {
			kept = append(kept, a)
		}
	}
	if len(kept) == 0 {
		return base
	}
	return &stampHandler{base: base, stamp: kept}
}

func (h *stampHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.base.Enabled(ctx, level)
}

func (h *stampHandler) Handle(ctx context.Context, record slog.Record) error {
	record.AddAttrs(h.stamp...)
	return h.base.Handle(ctx, record)
}

func (h *stampHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &stampHandler{base: h.base.WithAttrs(attrs), stamp: h.stamp}
}

func (h *stampHandler) WithGroup(name string) slog.Handler {
	return &stampHandler{base: h.base.WithGroup(name), stamp: h.stamp}
}
