package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State says whether this process still owns the store.
type State int

const (
	// Inactive means Activate has not been called yet.
	Inactive State = iota
	// Active means the stored session uuid is this process's uuid.
	Active
	// Superseded means another process claimed the store.
	Superseded
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Superseded:
		return "superseded"
	default:
		return "inactive"
	}
}

// DefaultPollInterval is how often Run compares the stored uuid.
const DefaultPollInterval = time.Second

// Guard tracks this process's claim on the store.
type Guard struct {
	store    *Store
	interval time.Duration
	logger   *zap.Logger

	mu      sync.Mutex
	id      string
	state   State
	changes chan State
}

// NewGuard creates a guard polling every interval (DefaultPollInterval if zero).
func NewGuard(store *Store, interval time.Duration, logger *zap.Logger) *Guard {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{
		store:    store,
		interval: interval,
		logger:   logger.Named("session"),
		changes:  make(chan State, 1),
	}
}

// ID returns this process's session uuid, or "" before the first Activate.
func (g *Guard) ID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.id
}

// State returns the current state.
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Changes delivers every state transition. Only the latest undelivered one is kept.
func (g *Guard) Changes() <-chan State {
	return g.changes
}

// Activate claims the store for this process. The uuid is generated on the
// first call and reused afterwards, so re-activating after a takeover
// claims the store back under the same identity.
func (g *Guard) Activate(ctx context.Context) error {
	g.mu.Lock()
	if g.id == "" {
		g.id = uuid.NewString()
	}
	id := g.id
	g.mu.Unlock()

	if err := g.store.PersistClientSessionUUID(ctx, id); err != nil {
		return err
	}

	g.setState(Active)
	g.logger.Info("session claimed", zap.String("uuid", id))
	return nil
}

// Check compares the stored uuid with this process's and returns the
// resulting state. It does nothing unless the guard is Active.
func (g *Guard) Check(ctx context.Context) (State, error) {
	g.mu.Lock()
	id, state := g.id, g.state
	g.mu.Unlock()
	if state != Active {
		return state, nil
	}

	stored, err := g.store.RetrieveClientSessionUUID(ctx)
	if err != nil {
		return state, err
	}
	if stored != id {
		g.logger.Info("session taken over by another process",
			zap.String("uuid", id),
			zap.String("stored", stored))
		g.setState(Superseded)
		return Superseded, nil
	}
	return Active, nil
}

// Run polls until ctx is done. A failed read is logged and the next tick retries.
// While Superseded nothing is read; Activate resumes the checks.
func (g *Guard) Run(ctx context.Context) error {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := g.Check(ctx); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				g.logger.Warn("failed to check client session", zap.Error(err))
			}
		}
	}
}

func (g *Guard) setState(s State) {
	g.mu.Lock()
	changed := g.state != s
	g.state = s
	g.mu.Unlock()
	if !changed {
		return
	}

	// Drop a stale undelivered transition so the newest one always fits.
	select {
	case <-g.changes:
	default:
	}
	select {
	case g.changes <- s:
	default:
	}
}
