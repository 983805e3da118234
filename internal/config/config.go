package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains data, log, and reference-table locations.
type Paths struct {
	DataDir     string `toml:"data_dir"`
	LogDir      string `toml:"log_dir"`
	GeneralPool string `toml:"general_pool"`
	Tables      string `toml:"tables"`
}

// Regions holds the screen rectangles sampled on each tick.
//
// Generals lists explicit slots in reading order. When it is empty and
// GeneralsRow is set, the row is split into three equal slots.
type Regions struct {
	Obstruction  Rect   `toml:"obstruction"`
	DetailMarker Rect   `toml:"detail_marker"`
	PlayerName   Rect   `toml:"player_name"`
	Generals     []Rect `toml:"generals"`
	GeneralsRow  Rect   `toml:"generals_row"`
}

// Capture configures the external frame grabber.
type Capture struct {
	Command        []string `toml:"command"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

// Recognition configures the external text recognizer.
type Recognition struct {
	Command        []string `toml:"command"`
	WarmupCommand  []string `toml:"warmup_command"`
	Upscale        int      `toml:"upscale"`
	TimeoutSeconds int      `toml:"timeout_seconds"`
}

// Monitor contains polling cadence settings.
type Monitor struct {
	PollIntervalMS   int `toml:"poll_interval_ms"`
	BlockedPauseMS   int `toml:"blocked_pause_ms"`
	NotReadyPauseMS  int `toml:"not_ready_pause_ms"`
	StatusBufferSize int `toml:"status_buffer_size"`
}

// Matching contains similarity thresholds. The defaults were tuned against a
// small sample and should be recalibrated when the recognizer changes.
type Matching struct {
	IdentityMinRatio  float64 `toml:"identity_min_ratio"`
	IdentityMaxRatio  float64 `toml:"identity_max_ratio"`
	GeneralCutoff     float64 `toml:"general_cutoff"`
	RememberDecisions bool    `toml:"remember_decisions"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Recorded       bool   `toml:"recorded"`
	Reconcile      bool   `toml:"reconcile"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for warscout.
//
// Configuration sections by subsystem:
//   - Paths: database, logs, name pool, and lookup tables
//   - Regions: screen rectangles sampled by the monitor
//   - Capture / Recognition: external grabber and recognizer commands
//   - Monitor: tick cadence
//   - Matching: similarity thresholds for identity and general lookup
//   - Notifications: ntfy push notification settings
//   - Logging: log format, level, and retention
type Config struct {
	Paths         Paths         `toml:"paths"`
	Regions       Regions       `toml:"regions"`
	Capture       Capture       `toml:"capture"`
	Recognition   Recognition   `toml:"recognition"`
	Monitor       Monitor       `toml:"monitor"`
	Matching      Matching      `toml:"matching"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("warscout.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the location of the record store.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.DataDir, databaseFileName)
}

// LockPath returns the single-instance lock file used by `warscout run`.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, lockFileName)
}

// GeneralSlots returns the configured general regions in reading order.
func (c *Config) GeneralSlots() []Rect {
	if len(c.Regions.Generals) > 0 {
		out := make([]Rect, len(c.Regions.Generals))
		copy(out, c.Regions.Generals)
		return out
	}
	if c.Regions.GeneralsRow.Empty() {
		return nil
	}
	return SplitRow(c.Regions.GeneralsRow)
}

// PollInterval returns the pause between ticks while waiting for a report.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Monitor.PollIntervalMS) * time.Millisecond
}

// BlockedPause returns the pause used while the obstruction region shows text.
func (c *Config) BlockedPause() time.Duration {
	return time.Duration(c.Monitor.BlockedPauseMS) * time.Millisecond
}

// NotReadyPause returns the pause used while the recognizer is still starting.
func (c *Config) NotReadyPause() time.Duration {
	return time.Duration(c.Monitor.NotReadyPauseMS) * time.Millisecond
}

// CaptureTimeout bounds a single grab.
func (c *Config) CaptureTimeout() time.Duration {
	return time.Duration(c.Capture.TimeoutSeconds) * time.Second
}

// RecognitionTimeout bounds a single recognizer invocation.
func (c *Config) RecognitionTimeout() time.Duration {
	return time.Duration(c.Recognition.TimeoutSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// Encode renders the effective configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}
