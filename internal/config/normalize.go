package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeCommands()
	c.normalizeMonitor()
	c.normalizeNotifications()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = filepath.Join(c.Paths.DataDir, "logs")
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.GeneralPool) == "" {
		c.Paths.GeneralPool = filepath.Join(c.Paths.DataDir, defaultGeneralPoolName)
	}
	if c.Paths.GeneralPool, err = expandPath(c.Paths.GeneralPool); err != nil {
		return fmt.Errorf("paths.general_pool: %w", err)
	}
	if strings.TrimSpace(c.Paths.Tables) != "" {
		if c.Paths.Tables, err = expandPath(c.Paths.Tables); err != nil {
			return fmt.Errorf("paths.tables: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeCommands() {
	c.Capture.Command = trimArgs(c.Capture.Command)
	c.Recognition.Command = trimArgs(c.Recognition.Command)
	c.Recognition.WarmupCommand = trimArgs(c.Recognition.WarmupCommand)
	if c.Capture.TimeoutSeconds <= 0 {
		c.Capture.TimeoutSeconds = defaultCaptureTimeout
	}
	if c.Recognition.TimeoutSeconds <= 0 {
		c.Recognition.TimeoutSeconds = defaultRecognitionTimeout
	}
	if c.Recognition.Upscale <= 0 {
		c.Recognition.Upscale = 1
	}
}

func (c *Config) normalizeMonitor() {
	if c.Monitor.NotReadyPauseMS <= 0 {
		c.Monitor.NotReadyPauseMS = defaultNotReadyPauseMS
	}
	if c.Monitor.StatusBufferSize <= 0 {
		c.Monitor.StatusBufferSize = defaultStatusBufferSize
	}
}

func (c *Config) normalizeNotifications() {
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.NtfyTopic == "" {
		if value, ok := os.LookupEnv("WARSCOUT_NTFY_TOPIC"); ok {
			c.Notifications.NtfyTopic = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}

func trimArgs(args []string) []string {
	if len(args) == 0 {
		return nil
	}
	out := make([]string, 0, len(args))
	for _, arg := range args {
		arg = strings.TrimSpace(arg)
		if arg == "" {
			continue
		}
		out = append(out, arg)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
