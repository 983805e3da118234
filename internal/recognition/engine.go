package recognition

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"warscout/internal/config"
	"warscout/internal/logging"
	"warscout/internal/textutil"
)

// Engine reads regions through a Grabber and a Recognizer.
type Engine struct {
	grabber    Grabber
	recognizer Recognizer
	upscale    int
	logger     *slog.Logger

	startOnce sync.Once
	ready     atomic.Bool
	warmErr   atomic.Pointer[error]
	done      chan struct{}
}

// NewEngine wires a grabber and recognizer. upscale applies to reads that
// request it.
func NewEngine(grabber Grabber, recognizer Recognizer, upscale int, logger *slog.Logger) *Engine {
	return &Engine{
		grabber:    grabber,
		recognizer: recognizer,
		upscale:    upscale,
		logger:     logging.NewComponentLogger(logger, "recognition"),
		done:       make(chan struct{}),
	}
}

// Start warms the recognizer up on its own goroutine. Readiness is
// published once, whether or not warmup succeeded; a failed warmup is
// logged and later reads report their own errors.
func (e *Engine) Start(ctx context.Context) {
	e.startOnce.Do(func() {
		go func() {
			defer close(e.done)
			if w, ok := e.recognizer.(Warmer); ok {
				if err := w.Warmup(ctx); err != nil {
					e.warmErr.Store(&err)
					logging.WarnWithContext(e.logger, "recognizer warmup failed", "recognizer_warmup",
						logging.Error(err),
						logging.String(logging.FieldImpact, "the first reads may be slow or fail"),
						logging.String(logging.FieldErrorHint, "run warscout check and verify recognition.warmup_command"),
					)
				}
			}
			e.ready.Store(true)
			e.logger.Info("recognizer ready", logging.String(logging.FieldEventType, "recognizer_ready"))
		}()
	})
}

// Ready reports whether Start has finished. It never blocks.
func (e *Engine) Ready() bool {
	return e.ready.Load()
}

// WarmupErr returns the warmup failure, if any.
func (e *Engine) WarmupErr() error {
	if p := e.warmErr.Load(); p != nil {
		return *p
	}
	return nil
}

// Wait blocks until warmup has finished or ctx ends.
func (e *Engine) Wait(ctx context.Context) error {
	select {
	case <-e.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Read captures and recognizes rect. When enlarge is set the capture is
// upscaled first.
func (e *Engine) Read(ctx context.Context, rect config.Rect, enlarge bool) Reading {
	if !e.Ready() {
		return Reading{Outcome: NotReady}
	}
	if rect.Empty() {
		return Reading{Outcome: NoRegion}
	}
	img, err := e.grabber.Grab(ctx, rect)
	if err != nil {
		return Reading{Outcome: CaptureFailed, Err: err}
	}
	if enlarge {
		img = Upscale(img, e.upscale)
	}
	tokens, err := e.recognizer.Recognize(ctx, img)
	if err != nil {
		if errors.Is(err, ErrParse) {
			return Reading{Outcome: ParseFailed, Err: err}
		}
		return Reading{Outcome: RecognizeFailed, Err: err}
	}

	var b strings.Builder
	for _, tok := range tokens {
		b.WriteString(strings.TrimSpace(tok.Text))
	}
	text := textutil.FoldWidth(b.String())
	if strings.TrimSpace(text) == "" {
		return Reading{Outcome: NoText, Tokens: tokens}
	}
	return Reading{Outcome: OK, Text: text, Tokens: tokens}
}
