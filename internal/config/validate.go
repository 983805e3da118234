package config

import (
	"errors"
	"fmt"
	"slices"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateRegions(); err != nil {
		return err
	}
	if err := c.validateMonitor(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateNotifications(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateRegions() error {
	named := map[string]Rect{
		"regions.obstruction":   c.Regions.Obstruction,
		"regions.detail_marker": c.Regions.DetailMarker,
		"regions.player_name":   c.Regions.PlayerName,
		"regions.generals_row":  c.Regions.GeneralsRow,
	}
	for key, rect := range named {
		if err := rect.validate(); err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
	}
	for i, rect := range c.Regions.Generals {
		if rect.Empty() {
			return fmt.Errorf("regions.generals[%d]: width and height must be positive", i)
		}
		if err := rect.validate(); err != nil {
			return fmt.Errorf("regions.generals[%d]: %w", i, err)
		}
	}
	if len(c.Regions.Generals) > GeneralSlotCount {
		return fmt.Errorf("regions.generals accepts at most %d entries", GeneralSlotCount)
	}
	return nil
}

func (c *Config) validateMonitor() error {
	return ensurePositiveMap(map[string]int{
		"monitor.poll_interval_ms": c.Monitor.PollIntervalMS,
		"monitor.blocked_pause_ms": c.Monitor.BlockedPauseMS,
	})
}

func (c *Config) validateMatching() error {
	m := c.Matching
	if m.IdentityMinRatio <= 0 || m.IdentityMinRatio > 1 {
		return errors.New("matching.identity_min_ratio must be in (0, 1]")
	}
	if m.IdentityMaxRatio <= 0 || m.IdentityMaxRatio > 1 {
		return errors.New("matching.identity_max_ratio must be in (0, 1]")
	}
	if m.IdentityMinRatio >= m.IdentityMaxRatio {
		return errors.New("matching.identity_min_ratio must be less than matching.identity_max_ratio")
	}
	if m.GeneralCutoff <= 0 || m.GeneralCutoff > 1 {
		return errors.New("matching.general_cutoff must be in (0, 1]")
	}
	return nil
}

func (c *Config) validateNotifications() error {
	if c.Notifications.RequestTimeout <= 0 {
		return errors.New("notifications.request_timeout must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !slices.Contains([]string{"debug", "info", "warn", "warning", "error"}, c.Logging.Level) {
		return fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
