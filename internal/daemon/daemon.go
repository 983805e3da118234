package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"

	"warscout/internal/config"
	"warscout/internal/logging"
	"warscout/internal/notifications"
	"warscout/internal/records"
)

// Engine is the recognition side of a session.
type Engine interface {
	Start(ctx context.Context)
	Ready() bool
	WarmupErr() error
}

// Worker is the monitor loop.
type Worker interface {
	Start(ctx context.Context) error
	Stop()
	Done() <-chan struct{}
}

// Closer releases a pending reconciliation. reconcile.Broker satisfies it.
type Closer interface {
	Close()
}

// Components are the pieces a Daemon sequences. Store and Notifier may be
// nil; Engine and Worker are required.
type Components struct {
	Store    *records.Store
	Engine   Engine
	Worker   Worker
	Broker   Closer
	Notifier notifications.Service
}

// Daemon coordinates a monitoring session and enforces single-instance
// execution.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	parts    Components
	lockPath string
	lock     *flock.Flock

	mu      sync.Mutex
	running atomic.Bool
	stopped bool
	cancel  context.CancelFunc
}

// Status represents daemon runtime information.
type Status struct {
	Running      bool
	Ready        bool
	WarmupError  string
	DatabasePath string
	LockFilePath string
	Stats        records.Stats
}

// New constructs a daemon from already built components.
func New(cfg *config.Config, logger *slog.Logger, parts Components) (*Daemon, error) {
	if cfg == nil || parts.Engine == nil || parts.Worker == nil {
		return nil, errors.New("daemon requires config, engine, and worker")
	}
	if parts.Notifier == nil {
		parts.Notifier = notifications.NewService(cfg)
	}
	lockPath := cfg.LockPath()
	return &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		parts:    parts,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}, nil
}

// Start acquires the lock, begins warmup, and launches the worker.
// A daemon that has been stopped cannot be started again.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running.Load() {
		return errors.New("daemon already running")
	}
	if d.stopped {
		return errors.New("daemon already stopped")
	}

	if err := d.cfg.EnsureDirectories(); err != nil {
		return err
	}
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another warscout instance is already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	d.parts.Engine.Start(runCtx)
	if err := d.parts.Worker.Start(runCtx); err != nil {
		cancel()
		_ = d.lock.Unlock()
		return fmt.Errorf("start monitor: %w", err)
	}

	d.cancel = cancel
	d.running.Store(true)
	d.logger.Info("warscout monitor session started",
		logging.String(logging.FieldEventType, "session_started"),
		logging.String("lock", d.lockPath),
	)
	return nil
}

// Stop ends the session. The broker is closed first so a worker blocked on a
// reconciliation returns, then the worker finishes its tick, then the lock is
// released.
func (d *Daemon) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running.Load() {
		return
	}

	if d.parts.Broker != nil {
		d.parts.Broker.Close()
	}
	d.parts.Worker.Stop()
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
	if err := d.lock.Unlock(); err != nil {
		logging.WarnWithContext(d.logger, "failed to release session lock", "lock_release_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "remove "+d.lockPath+" if no warscout process is running"),
		)
	}
	d.running.Store(false)
	d.stopped = true
	d.logger.Info("warscout monitor session stopped",
		logging.String(logging.FieldEventType, "session_stopped"),
	)
}

// Done is closed when the worker exits on its own or after Stop.
func (d *Daemon) Done() <-chan struct{} {
	return d.parts.Worker.Done()
}

// Close stops the session and closes the store.
func (d *Daemon) Close() error {
	d.Stop()
	if d.parts.Store != nil {
		return d.parts.Store.Close()
	}
	return nil
}

// Status returns the current session status.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:      d.running.Load(),
		Ready:        d.parts.Engine.Ready(),
		LockFilePath: d.lockPath,
	}
	if err := d.parts.Engine.WarmupErr(); err != nil {
		status.WarmupError = err.Error()
	}
	if d.parts.Store != nil {
		status.DatabasePath = d.parts.Store.Path()
		if stats, err := d.parts.Store.Stats(ctx); err == nil {
			status.Stats = stats
		}
	}
	return status
}

// TestNotification sends a test notification using the current configuration.
func (d *Daemon) TestNotification(ctx context.Context) (bool, string, error) {
	if strings.TrimSpace(d.cfg.Notifications.NtfyTopic) == "" {
		return false, "ntfy topic not configured", nil
	}
	if err := d.parts.Notifier.TestNotification(ctx); err != nil {
		return false, "failed to send notification", err
	}
	return true, "test notification sent", nil
}
