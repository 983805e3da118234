package daemonrun

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"warscout/internal/config"
	"warscout/internal/daemon"
	"warscout/internal/identity"
	"warscout/internal/lexicon"
	"warscout/internal/logging"
	"warscout/internal/monitor"
	"warscout/internal/notifications"
	"warscout/internal/preflight"
	"warscout/internal/recognition"
	"warscout/internal/reconcile"
	"warscout/internal/records"
	"warscout/internal/resolve"
)

// Options configures monitor process runtime behavior.
type Options struct {
	LogLevel    string
	Development bool
	Diagnostic  bool
	// SkipPreflight starts even when required checks fail.
	SkipPreflight bool
	// Input and Output carry reconciliation prompts. They default to
	// os.Stdin and os.Stdout.
	Input  *os.File
	Output io.Writer
	// OnStatus receives every tick status. It runs on the consumer
	// goroutine, never on the worker.
	OnStatus func(monitor.Status)
}

// Run starts a monitoring session and blocks until it is interrupted or the
// worker exits.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := cfg.EnsureDirectories(); err != nil {
		return err
	}

	logger, logPath, err := buildLogger(cfg, opts)
	if err != nil {
		return err
	}

	logDependencySnapshot(logger, cfg)
	if err := ensureCurrentLogPointer(cfg.Paths.LogDir, logPath); err != nil {
		fmt.Fprintf(os.Stderr, "warn: unable to update warscout.log link: %v\n", err)
	}
	logging.PruneRunLogs(logger, cfg.Paths.LogDir, cfg.Logging.RetentionDays, logPath, time.Now())

	if failed := preflight.Failed(preflight.RunAll(signalCtx, cfg)); len(failed) > 0 {
		for _, result := range failed {
			logging.WarnWithContext(logger, "preflight check failed", "preflight_failed",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail),
				logging.String(logging.FieldErrorHint, "run `warscout check` for the full report"),
			)
		}
		if !opts.SkipPreflight {
			return fmt.Errorf("%d preflight check(s) failed; run `warscout check`", len(failed))
		}
	}

	pidPath := filepath.Join(cfg.Paths.DataDir, "warscout.pid")
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	store, err := records.Open(cfg)
	if err != nil {
		logger.Error("open record store", logging.Error(err))
		return err
	}

	resolver, err := buildResolver(cfg, logger)
	if err != nil {
		store.Close()
		return err
	}

	engine, err := buildEngine(cfg, logger)
	if err != nil {
		store.Close()
		return err
	}

	notifier := notifications.NewService(cfg)
	broker := reconcile.NewBroker()
	responder := reconcile.WithHook(buildResponder(opts, logger), func(ctx context.Context, req reconcile.Request) {
		if err := notifier.NotifyReconcile(ctx, req.Candidate, req.Known); err != nil {
			logger.Debug("reconcile notification failed", logging.Error(err))
		}
	})
	go func() {
		if err := broker.Serve(signalCtx, responder); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, reconcile.ErrClosed) {
			logging.WarnWithContext(logger, "reconciliation responder stopped", "reconcile_responder_stopped",
				logging.Error(err),
				logging.String(logging.FieldImpact, "pending conflicts are discarded"),
			)
		}
	}()

	matcher := identity.NewMatcher(store, broker, identity.Options{
		MinRatio: cfg.Matching.IdentityMinRatio,
		MaxRatio: cfg.Matching.IdentityMaxRatio,
		Remember: cfg.Matching.RememberDecisions,
	}, logger)

	loop, err := monitor.New(cfg, monitor.Deps{
		Reader:   engine,
		Resolver: resolver,
		Identity: matcher,
		Store:    store,
		Notifier: notifier,
		Logger:   logger,
	})
	if err != nil {
		store.Close()
		return fmt.Errorf("create monitor: %w", err)
	}

	d, err := daemon.New(cfg, logger, daemon.Components{
		Store:    store,
		Engine:   engine,
		Worker:   loop,
		Broker:   broker,
		Notifier: notifier,
	})
	if err != nil {
		store.Close()
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	if err := d.Start(signalCtx); err != nil {
		return err
	}

	for {
		select {
		case status := <-loop.Status():
			if opts.OnStatus != nil {
				opts.OnStatus(status)
			}
		case <-d.Done():
			logger.Info("monitor worker exited")
			return nil
		case <-signalCtx.Done():
			logger.Info("warscout shutting down")
			return nil
		}
	}
}

func buildLogger(cfg *config.Config, opts Options) (*slog.Logger, string, error) {
	runID := time.Now().UTC().Format("20060102T150405.000Z")
	logPath := filepath.Join(cfg.Paths.LogDir, fmt.Sprintf("warscout-%s.log", runID))

	var sessionID, debugLogPath string
	if opts.Diagnostic {
		sessionID = uuid.NewString()
		debugDir := filepath.Join(cfg.Paths.LogDir, "debug")
		if err := os.MkdirAll(debugDir, 0o755); err != nil {
			return nil, "", fmt.Errorf("create debug log directory: %w", err)
		}
		debugLogPath = filepath.Join(debugDir, fmt.Sprintf("warscout-%s.log", runID))
	}

	logger, err := logging.New(logging.Options{
		Level:       firstNonEmpty(opts.LogLevel, cfg.Logging.Level),
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stderr", logPath},
		Development: opts.Development,
		SessionID:   sessionID,
		RunID:       runID,
	})
	if err != nil {
		return nil, "", fmt.Errorf("init logger: %w", err)
	}

	if opts.Diagnostic {
		debugLogger, debugErr := logging.New(logging.Options{
			Level:       "debug",
			Format:      "json",
			OutputPaths: []string{debugLogPath},
			Development: true,
			SessionID:   sessionID,
			RunID:       runID,
		})
		if debugErr != nil {
			fmt.Fprintf(os.Stderr, "warn: unable to initialize debug logger: %v\n", debugErr)
		} else {
			logger = logging.TeeLogger(logger, debugLogger.Handler())
			if err := ensureCurrentLogPointer(filepath.Join(cfg.Paths.LogDir, "debug"), debugLogPath); err != nil {
				fmt.Fprintf(os.Stderr, "warn: unable to update debug/warscout.log link: %v\n", err)
			}
		}
		logger.Info("diagnostic mode enabled",
			logging.String(logging.FieldEventType, "diagnostic_mode_enabled"),
			logging.String(logging.FieldSessionID, sessionID),
			logging.String("debug_log_path", debugLogPath),
		)
	}
	return logger, logPath, nil
}

func buildResolver(cfg *config.Config, logger *slog.Logger) (*resolve.Resolver, error) {
	tables, err := lexicon.Load(cfg.Paths.Tables)
	if err != nil {
		return nil, fmt.Errorf("load lexicon tables: %w", err)
	}
	pool, seeded, err := lexicon.LoadPool(cfg.Paths.GeneralPool)
	if err != nil {
		return nil, err
	}
	if seeded {
		logger.Info("general pool seeded with defaults",
			logging.String(logging.FieldEventType, "general_pool_seeded"),
			logging.String("path", cfg.Paths.GeneralPool),
			logging.Int("names", len(pool)),
		)
	}
	return resolve.New(tables, pool, cfg.Matching.GeneralCutoff), nil
}

func buildEngine(cfg *config.Config, logger *slog.Logger) (*recognition.Engine, error) {
	grabber, err := recognition.NewExecGrabber(cfg.Capture.Command, cfg.CaptureTimeout())
	if err != nil {
		return nil, fmt.Errorf("configure capture: %w", err)
	}
	recognizer, err := recognition.NewExecRecognizer(cfg.Recognition.Command, cfg.Recognition.WarmupCommand, cfg.RecognitionTimeout())
	if err != nil {
		return nil, fmt.Errorf("configure recognition: %w", err)
	}
	return recognition.NewEngine(grabber, recognizer, cfg.Recognition.Upscale, logger), nil
}

// buildResponder prompts on the terminal when one is attached. Otherwise
// every conflict is discarded so no record is merged without an operator.
func buildResponder(opts Options, logger *slog.Logger) reconcile.Reconciler {
	if reconcile.IsInteractive(opts.Input) {
		return reconcile.NewTerminal(opts.Input, opts.Output)
	}
	logging.WarnWithContext(logger, "no terminal attached; name conflicts will be discarded", "reconcile_noninteractive",
		logging.String(logging.FieldImpact, "reports from players with near-duplicate names are not recorded"),
		logging.String(logging.FieldErrorHint, "run warscout from a terminal to answer conflicts"),
	)
	return reconcile.Func(func(_ context.Context, req reconcile.Request) (reconcile.Response, error) {
		logger.Info("name conflict discarded",
			logging.String(logging.FieldEventType, "reconcile_discarded"),
			logging.String("candidate", req.Candidate),
			logging.String("known", req.Known),
			logging.Float64("ratio", req.Ratio),
		)
		return reconcile.Response{Decision: reconcile.Discard}, nil
	})
}

func ensureCurrentLogPointer(logDir, target string) error {
	if logDir == "" || target == "" {
		return nil
	}
	current := filepath.Join(logDir, "warscout.log")
	if err := os.Remove(current); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove existing log pointer: %w", err)
	}
	if err := os.Symlink(target, current); err == nil {
		return nil
	}
	if err := os.Link(target, current); err != nil {
		return fmt.Errorf("link log pointer: %w", err)
	}
	return nil
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}

func logDependencySnapshot(logger *slog.Logger, cfg *config.Config) {
	if logger == nil || cfg == nil {
		return
	}
	capture := firstArg(cfg.Capture.Command)
	recognizer := firstArg(cfg.Recognition.Command)
	logger.Info("dependency snapshot",
		logging.String(logging.FieldEventType, "dependency_snapshot"),
		logging.String("capture_binary", capture),
		logging.Bool("capture_available", binaryAvailable(capture)),
		logging.String("recognition_binary", recognizer),
		logging.Bool("recognition_available", binaryAvailable(recognizer)),
		logging.Bool("warmup_configured", len(cfg.Recognition.WarmupCommand) > 0),
		logging.Bool("ntfy_configured", strings.TrimSpace(cfg.Notifications.NtfyTopic) != ""),
		logging.String("tables", firstNonEmpty(cfg.Paths.Tables, "embedded")),
		logging.String("general_pool", cfg.Paths.GeneralPool),
	)
}

func binaryAvailable(name string) bool {
	if strings.TrimSpace(name) == "" {
		return false
	}
	_, err := exec.LookPath(name)
	return err == nil
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
