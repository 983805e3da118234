package identity

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"warscout/internal/logging"
	"warscout/internal/reconcile"
	"warscout/internal/textutil"
)

// Reason records which rule produced a Resolution.
type Reason string

const (
	ReasonExact      Reason = "exact"
	ReasonTrusted    Reason = "trusted"
	ReasonRemembered Reason = "remembered"
	ReasonPropagated Reason = "propagated"
	ReasonReconciled Reason = "reconciled"
	ReasonDiscarded  Reason = "discarded"
	ReasonNew        Reason = "new"
)

// Resolution is the canonical name chosen for a candidate. Name is empty
// when the observation was discarded.
type Resolution struct {
	Name   string
	Reason Reason
	// Known is the stored name the candidate was compared against, if any.
	Known string
	Ratio float64
}

// Discarded reports whether the observation should be dropped.
func (r Resolution) Discarded() bool {
	return r.Reason == ReasonDiscarded
}

// Store is the slice of the record store the matcher needs.
type Store interface {
	PlayerNames(ctx context.Context) ([]string, error)
	IsTrusted(ctx context.Context, name string) (bool, error)
	AddTrust(ctx context.Context, name string) error
	Rename(ctx context.Context, oldName, newName string) error
}

// Options tune the similarity band and session memory.
type Options struct {
	// MinRatio and MaxRatio bound the conflict band [MinRatio, MaxRatio).
	MinRatio float64
	MaxRatio float64
	// Remember keeps reconciliation outcomes for the life of the matcher.
	Remember bool
}

// Matcher resolves candidates against a Store. It is safe for concurrent use
// but is normally driven by a single worker.
type Matcher struct {
	store      Store
	reconciler reconcile.Reconciler
	opts       Options
	logger     *slog.Logger

	mu   sync.Mutex
	memo map[string]Resolution
}

// NewMatcher builds a matcher. A nil logger discards output.
func NewMatcher(store Store, reconciler reconcile.Reconciler, opts Options, logger *slog.Logger) *Matcher {
	return &Matcher{
		store:      store,
		reconciler: reconciler,
		opts:       opts,
		logger:     logging.NewComponentLogger(logger, "identity"),
		memo:       make(map[string]Resolution),
	}
}

// Resolve returns the canonical name for candidate.
func (m *Matcher) Resolve(ctx context.Context, candidate string) (Resolution, error) {
	names, err := m.store.PlayerNames(ctx)
	if err != nil {
		return Resolution{}, fmt.Errorf("load player names: %w", err)
	}
	for _, name := range names {
		if name == candidate {
			return Resolution{Name: candidate, Reason: ReasonExact, Known: name, Ratio: 1}, nil
		}
	}

	trusted, err := m.store.IsTrusted(ctx, candidate)
	if err != nil {
		return Resolution{}, err
	}
	if trusted {
		return Resolution{Name: candidate, Reason: ReasonTrusted}, nil
	}

	if res, ok := m.recall(candidate, names); ok {
		return res, nil
	}

	known, ratio, found := m.closest(candidate, names)
	if !found {
		return Resolution{Name: candidate, Reason: ReasonNew}, nil
	}

	knownTrusted, err := m.store.IsTrusted(ctx, known)
	if err != nil {
		return Resolution{}, err
	}
	if knownTrusted {
		m.logger.Debug("candidate absorbed by trusted player",
			logging.String(logging.FieldEventType, "identity_propagated"),
			logging.String("candidate", candidate),
			logging.Player(known),
			logging.Float64("ratio", ratio),
		)
		return Resolution{Name: known, Reason: ReasonPropagated, Known: known, Ratio: ratio}, nil
	}

	return m.reconcile(ctx, candidate, known, ratio)
}

// closest returns the first name, in the given order, whose similarity to
// candidate falls inside the band.
func (m *Matcher) closest(candidate string, names []string) (string, float64, bool) {
	for _, name := range names {
		r := textutil.Ratio(candidate, name)
		if r >= m.opts.MinRatio && r < m.opts.MaxRatio {
			return name, r, true
		}
	}
	return "", 0, false
}

func (m *Matcher) reconcile(ctx context.Context, candidate, known string, ratio float64) (Resolution, error) {
	if m.reconciler == nil {
		return Resolution{}, fmt.Errorf("identity conflict %q vs %q: no reconciler configured", candidate, known)
	}
	resp, err := m.reconciler.Reconcile(ctx, reconcile.Request{Candidate: candidate, Known: known, Ratio: ratio})
	if err != nil {
		return Resolution{}, fmt.Errorf("reconcile %q: %w", candidate, err)
	}

	res := Resolution{Known: known, Ratio: ratio, Reason: ReasonReconciled}
	switch resp.Decision {
	case reconcile.KeepCandidate:
		if err := m.store.Rename(ctx, known, candidate); err != nil {
			return Resolution{}, err
		}
		m.forget()
		res.Name = candidate
	case reconcile.KeepKnown:
		res.Name = known
	case reconcile.Discard:
		res.Reason = ReasonDiscarded
	default:
		return Resolution{}, fmt.Errorf("reconcile %q: unexpected decision %v", candidate, resp.Decision)
	}

	if resp.Trust && res.Name != "" {
		if err := m.store.AddTrust(ctx, res.Name); err != nil {
			return Resolution{}, err
		}
	}
	m.logger.Info("identity conflict resolved",
		logging.String(logging.FieldEventType, "identity_reconciled"),
		logging.String("candidate", candidate),
		logging.String("known", known),
		logging.Decision(resp.Decision.String()),
		logging.Bool("trust", resp.Trust),
	)

	if resp.Decision != reconcile.KeepCandidate {
		m.remember(candidate, res)
	}
	return res, nil
}

// recall returns the remembered outcome for candidate while the player it
// was decided against is still stored. Stale entries are dropped.
func (m *Matcher) recall(candidate string, names []string) (Resolution, bool) {
	if !m.opts.Remember {
		return Resolution{}, false
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.memo[candidate]
	if !ok {
		return Resolution{}, false
	}
	if !slices.Contains(names, res.Known) {
		delete(m.memo, candidate)
		return Resolution{}, false
	}
	res.Reason = rememberedReason(res.Reason)
	return res, true
}

func rememberedReason(r Reason) Reason {
	if r == ReasonDiscarded {
		return ReasonDiscarded
	}
	return ReasonRemembered
}

func (m *Matcher) remember(candidate string, res Resolution) {
	if !m.opts.Remember {
		return
	}
	m.mu.Lock()
	m.memo[candidate] = res
	m.mu.Unlock()
}

// forget drops remembered outcomes. Called whenever a rename changes the set
// of stored names.
func (m *Matcher) forget() {
	m.mu.Lock()
	m.memo = make(map[string]Resolution)
	m.mu.Unlock()
}
