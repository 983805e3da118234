package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestNewTeeHandlerCollapses(t *testing.T) {
	if _, ok := newTeeHandler(nil, nil).(NoopHandler); !ok {
		t.Fatal("expected NoopHandler for all nil handlers")
	}
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, nil)
	if h := newTeeHandler(nil, inner, nil); h != inner {
		t.Fatal("expected single non-nil handler to be returned unwrapped")
	}
}

func TestTeeHandlerRespectsPerSinkLevel(t *testing.T) {
	var info, debug bytes.Buffer
	h := newTeeHandler(
		slog.NewJSONHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewJSONHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
	)
	if !h.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("expected tee enabled for debug when any handler accepts it")
	}

	logger := slog.New(h)
	logger.Debug("tick detail", "tick", 3)
	logger.Info("record saved")

	if strings.Contains(info.String(), "tick detail") {
		t.Fatalf("info handler received debug record: %s", info.String())
	}
	if !strings.Contains(debug.String(), "tick detail") || !strings.Contains(debug.String(), "record saved") {
		t.Fatalf("debug handler missing records: %s", debug.String())
	}
}

func TestTeeLoggerCarriesAttrs(t *testing.T) {
	var base, tee bytes.Buffer
	logger := TeeLogger(
		slog.New(slog.NewJSONHandler(&base, nil)),
		slog.NewJSONHandler(&tee, nil),
	).With(FieldComponent, "monitor")

	logger.Info("hello")

	for name, buf := range map[string]*bytes.Buffer{"base": &base, "tee": &tee} {
		if !strings.Contains(buf.String(), `"component":"monitor"`) {
			t.Fatalf("%s output missing component attr: %s", name, buf.String())
		}
	}
}

func TestTeeLoggerNilBase(t *testing.T) {
	var tee bytes.Buffer
	TeeLogger(nil, slog.NewJSONHandler(&tee, nil)).Info("only tee")
	if !strings.Contains(tee.String(), "only tee") {
		t.Fatalf("expected tee output, got %s", tee.String())
	}
}
