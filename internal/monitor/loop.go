package monitor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"warscout/internal/config"
	"warscout/internal/identity"
	"warscout/internal/logging"
	"warscout/internal/recognition"
	"warscout/internal/records"
	"warscout/internal/resolve"
)

// Reader reads text from screen regions.
type Reader interface {
	Ready() bool
	Read(ctx context.Context, rect config.Rect, enlarge bool) recognition.Reading
}

// EntityResolver turns raw text into labels and player names.
type EntityResolver interface {
	Normalize(text string) string
	IsDetailPage(text string) bool
	General(text string) resolve.Label
	Player(text string) string
}

// IdentityMatcher maps a player candidate to its canonical name.
type IdentityMatcher interface {
	Resolve(ctx context.Context, candidate string) (identity.Resolution, error)
}

// RecordSaver persists an observed composition.
type RecordSaver interface {
	Save(ctx context.Context, player string, generals []string) (records.SaveResult, error)
}

// Notifier announces new records.
type Notifier interface {
	NotifyRecorded(ctx context.Context, player string, generals []string) error
}

// Deps bundles the collaborators of a Loop.
type Deps struct {
	Reader   Reader
	Resolver EntityResolver
	Identity IdentityMatcher
	Store    RecordSaver
	Notifier Notifier
	Logger   *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Loop is the monitor worker.
type Loop struct {
	reader   Reader
	resolver EntityResolver
	identity IdentityMatcher
	store    RecordSaver
	notifier Notifier
	logger   *slog.Logger
	now      func() time.Time

	obstruction  config.Rect
	detailMarker config.Rect
	playerName   config.Rect
	generals     []config.Rect

	pollInterval  time.Duration
	blockedPause  time.Duration
	notReadyPause time.Duration

	status chan Status

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	done    chan struct{}
	tick    uint64
}

// New builds a loop from configuration and collaborators.
func New(cfg *config.Config, deps Deps) (*Loop, error) {
	if cfg == nil {
		return nil, errors.New("monitor requires configuration")
	}
	if deps.Reader == nil || deps.Resolver == nil || deps.Identity == nil || deps.Store == nil {
		return nil, errors.New("monitor requires reader, resolver, identity, and store")
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	buffer := cfg.Monitor.StatusBufferSize
	if buffer < 1 {
		buffer = 1
	}
	return &Loop{
		reader:        deps.Reader,
		resolver:      deps.Resolver,
		identity:      deps.Identity,
		store:         deps.Store,
		notifier:      deps.Notifier,
		logger:        logging.NewComponentLogger(deps.Logger, "monitor"),
		now:           now,
		obstruction:   cfg.Regions.Obstruction,
		detailMarker:  cfg.Regions.DetailMarker,
		playerName:    cfg.Regions.PlayerName,
		generals:      cfg.GeneralSlots(),
		pollInterval:  cfg.PollInterval(),
		blockedPause:  cfg.BlockedPause(),
		notReadyPause: cfg.NotReadyPause(),
		status:        make(chan Status, buffer),
	}, nil
}

// Status returns the channel of per-tick statuses. When the consumer falls
// behind, the oldest status is dropped.
func (l *Loop) Status() <-chan Status {
	return l.status
}

// Start launches the worker goroutine. ctx bounds the whole run; cancelling
// it aborts an in-flight tick, whereas Stop lets it finish.
func (l *Loop) Start(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		return errors.New("monitor already running")
	}
	l.running = true
	l.stop = make(chan struct{})
	l.done = make(chan struct{})
	go l.run(ctx, l.stop, l.done)
	l.logger.Info("monitor started",
		logging.String(logging.FieldEventType, "monitor_started"),
		logging.Int("general_slots", len(l.generals)),
		logging.Duration("poll_interval", l.pollInterval),
	)
	return nil
}

// Stop asks the worker to exit after the current tick and waits for it.
func (l *Loop) Stop() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	l.running = false
	stop, done := l.stop, l.done
	l.mu.Unlock()

	close(stop)
	<-done
	l.logger.Info("monitor stopped", logging.String(logging.FieldEventType, "monitor_stopped"))
}

// Done is closed when the worker exits. It is nil before Start.
func (l *Loop) Done() <-chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.done
}

func (l *Loop) run(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		select {
		case <-stop:
			return
		case <-ctx.Done():
			return
		default:
		}

		status, pause := l.Tick(ctx)
		l.publish(status)

		timer := time.NewTimer(pause)
		select {
		case <-stop:
			timer.Stop()
			return
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

func (l *Loop) publish(status Status) {
	for {
		select {
		case l.status <- status:
			return
		default:
		}
		select {
		case <-l.status:
		default:
		}
	}
}

// Tick runs one pass of the state machine and returns the status and the
// pause before the next tick.
func (l *Loop) Tick(ctx context.Context) (Status, time.Duration) {
	l.tick++
	status := Status{Tick: l.tick, At: l.now(), State: Idle}
	logger := l.logger.With(logging.Tick(l.tick))

	if !l.reader.Ready() {
		status.Message = "recognizer warming up"
		return status, l.notReadyPause
	}

	if !l.obstruction.Empty() {
		reading := l.reader.Read(ctx, l.obstruction, false)
		l.logFailure(logger, "obstruction", reading)
		if reading.HasText() {
			status.State = Blocked
			status.Message = "blocked"
			logger.Debug("screen obstructed", logging.State(Blocked.String()))
			return status, l.blockedPause
		}
	}

	marker := l.reader.Read(ctx, l.detailMarker, false)
	l.logFailure(logger, "detail_marker", marker)
	if !marker.HasText() || !l.resolver.IsDetailPage(l.resolver.Normalize(marker.Text)) {
		status.State = WaitingForDetail
		status.Message = "waiting for report"
		return status, l.pollInterval
	}

	player := resolve.UnknownPlayer
	nameReading := l.reader.Read(ctx, l.playerName, true)
	l.logFailure(logger, "player_name", nameReading)
	if nameReading.HasText() {
		player = l.resolver.Player(l.resolver.Normalize(nameReading.Text))
	}
	if player == resolve.UnknownPlayer {
		status.Message = "player name unreadable"
		logger.Debug("player name unreadable, discarding tick",
			logging.String("outcome", nameReading.Outcome.String()),
			logging.String("raw_text", nameReading.Text),
		)
		return status, l.pollInterval
	}

	generals := make([]string, 0, len(l.generals))
	for i, rect := range l.generals {
		reading := l.reader.Read(ctx, rect, true)
		l.logFailure(logger, fmt.Sprintf("general_%d", i+1), reading)
		generals = append(generals, l.generalLabel(reading))
	}

	res, err := l.identity.Resolve(ctx, player)
	if err != nil {
		status.Err = err
		status.Message = "identity resolution failed"
		logging.WarnWithContext(logger, "identity resolution failed", "identity_failed",
			logging.String("candidate", player),
			logging.Error(err),
			logging.String(logging.FieldImpact, "this report was not recorded"),
			logging.String(logging.FieldErrorHint, "the report is read again on the next tick"),
		)
		return status, l.pollInterval
	}
	if res.Discarded() {
		status.Message = "observation discarded"
		logger.Debug("observation discarded", logging.String("candidate", player))
		return status, l.pollInterval
	}

	saved, err := l.store.Save(ctx, res.Name, generals)
	if err != nil {
		status.Err = err
		status.Message = "save failed"
		logging.ErrorWithContext(logger, "record save failed", "record_save_failed",
			logging.Player(res.Name),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the database path and disk space"),
		)
		return status, l.pollInterval
	}

	status.State = Recognized
	status.Player = res.Name
	status.Generals = generals
	status.Hash = saved.Hash
	status.Created = saved.Created
	status.Message = "recorded: " + res.Name

	attrs := []logging.Attr{
		logging.String(logging.FieldEventType, "record_saved"),
		logging.State(Recognized.String()),
		logging.Player(res.Name),
		logging.Generals(generals),
		logging.Hash(saved.Hash),
		logging.Decision(string(res.Reason)),
		logging.Bool("created", saved.Created),
	}
	if saved.Created {
		logger.Info("new team recorded", logging.Args(attrs...)...)
		if l.notifier != nil {
			if err := l.notifier.NotifyRecorded(ctx, res.Name, generals); err != nil {
				logging.WarnWithContext(logger, "record notification failed", "notify_failed",
					logging.Error(err),
					logging.String(logging.FieldImpact, "the record was saved but no push was sent"),
					logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic"),
				)
			}
		}
	} else {
		logger.Debug("team already recorded", logging.Args(attrs...)...)
	}
	return status, l.pollInterval
}

func (l *Loop) generalLabel(reading recognition.Reading) string {
	if reading.Failed() {
		return resolve.Exception
	}
	if !reading.HasText() {
		return resolve.UnknownLabel.String()
	}
	return l.resolver.General(l.resolver.Normalize(reading.Text)).String()
}

func (l *Loop) logFailure(logger *slog.Logger, region string, reading recognition.Reading) {
	if !reading.Failed() {
		return
	}
	logger.Debug("region read failed",
		logging.String("region", region),
		logging.String("outcome", reading.Outcome.String()),
		logging.Error(reading.Err),
	)
}
