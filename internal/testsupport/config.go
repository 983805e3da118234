package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"warscout/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Regions are filled with small non-overlapping rectangles so validation
// passes.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.GeneralPool = filepath.Join(base, "data", "generals.txt")
	cfgVal.Regions = config.Regions{
		Obstruction:  config.Rect{X: 0, Y: 0, Width: 40, Height: 20},
		DetailMarker: config.Rect{X: 0, Y: 30, Width: 40, Height: 20},
		PlayerName:   config.Rect{X: 0, Y: 60, Width: 80, Height: 20},
		GeneralsRow:  config.Rect{X: 0, Y: 90, Width: 90, Height: 20},
	}
	cfgVal.Capture.Command = []string{"grab", "{x}", "{y}", "{w}", "{h}"}
	cfgVal.Recognition.Command = []string{"recognize"}

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithNtfyTopic points notifications at the given topic URL.
func WithNtfyTopic(topic string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Notifications.NtfyTopic = topic
	}
}

// WithStubbedBinaries writes stub executables for the provided names and
// prepends them to PATH. If names is empty, the configured capture and
// recognition binaries are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{b.cfg.Capture.Command[0], b.cfg.Recognition.Command[0]}
		}
		binDir := filepath.Join(b.baseDir, "bin")
		for _, name := range names {
			WriteScript(b.t, filepath.Join(binDir, name), "exit 0")
		}

		oldPath := os.Getenv("PATH")
		if err := os.Setenv("PATH", binDir+string(os.PathListSeparator)+oldPath); err != nil {
			b.t.Fatalf("set PATH: %v", err)
		}
		b.t.Cleanup(func() {
			_ = os.Setenv("PATH", oldPath)
		})
	}
}
