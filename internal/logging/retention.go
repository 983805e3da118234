package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// RunLogPattern matches per-run log files written by `warscout run`.
const RunLogPattern = "warscout-*.log"

// PruneRunLogs deletes run logs in logDir and its debug subdirectory whose
// modification time is older than retentionDays. The active log named by
// keep and the warscout.log pointer are never removed. It returns the number
// of files deleted; retentionDays <= 0 disables pruning.
func PruneRunLogs(logger *slog.Logger, logDir string, retentionDays int, keep string, now time.Time) int {
	if retentionDays <= 0 || logDir == "" {
		return 0
	}
	cutoff := now.AddDate(0, 0, -retentionDays)
	if abs, err := filepath.Abs(keep); err == nil && keep != "" {
		keep = abs
	}

	pruned := 0
	for _, dir := range []string{logDir, filepath.Join(logDir, "debug")} {
		matches, err := filepath.Glob(filepath.Join(dir, RunLogPattern))
		if err != nil {
			continue
		}
		for _, path := range matches {
			if abs, err := filepath.Abs(path); err == nil {
				path = abs
			}
			if path == keep {
				continue
			}
			info, err := os.Lstat(path)
			if err != nil || !info.Mode().IsRegular() || !info.ModTime().Before(cutoff) {
				continue
			}
			if err := os.Remove(path); err != nil {
				WarnWithContext(logger, "run log not pruned", "log_retention_failed",
					String("path", path),
					Error(err),
					String(FieldErrorHint, "check permissions on log_dir"),
					String(FieldImpact, "old run log stays on disk"),
				)
				continue
			}
			pruned++
		}
	}
	if pruned > 0 && logger != nil {
		logger.Info("old run logs pruned",
			Int("count", pruned),
			Int("retention_days", retentionDays),
			String(FieldEventType, "log_pruned"),
		)
	}
	return pruned
}
