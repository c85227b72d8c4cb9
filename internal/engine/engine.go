package engine

import (
	"context"
	"sync"
	"time"

	"github.com/pixelyear/pixelyear/internal/logging"
	"github.com/pixelyear/pixelyear/internal/planner"
	"github.com/pixelyear/pixelyear/internal/remote"
)

// Phase is the externally visible synchronization state. The hosting layer
// may only observe it; failure causes are not distinguishable from here.
type Phase string

const (
	PhaseIdle     Phase = "idle"
	PhasePulling  Phase = "pulling"
	PhasePushing  Phase = "pushing"
	PhaseError    Phase = "error"
	PhaseDisabled Phase = "disabled"
)

// DefaultDebounceWindow is the quiet period after the last edit before an
// auto-push fires.
const DefaultDebounceWindow = 500 * time.Millisecond

// DocumentState is the in-memory document the engine observes but does not
// own. Replace must notify the engine's OnDocumentChanged exactly once,
// after the replacement is visible.
type DocumentState interface {
	Snapshot() map[string]planner.Annotation
	Replace(days map[string]planner.Annotation)
	Len() int
}

// ClockStore persists the last-synchronized timestamp across restarts.
// Load returns "" when nothing has been recorded yet.
type ClockStore interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, value string) error
}

// Config assembles an Engine. Store may be nil, which leaves the engine
// permanently disabled; State and Clock must be set.
type Config struct {
	Store    remote.Store
	State    DocumentState
	Clock    ClockStore
	Logger   logging.Logger
	DeviceID string
	Year     int
	// DebounceWindow overrides DefaultDebounceWindow when positive.
	DebounceWindow time.Duration
}

// Engine synchronizes one (owner, year) document. See the package
// documentation for the full contract.
type Engine struct {
	store  remote.Store
	state  DocumentState
	clock  ClockStore
	log    logging.Logger
	device string
	window time.Duration

	mu    sync.Mutex
	phase Phase
	owner string
	year  int

	// epoch increments on every identity or year change and on Close.
	// In-flight pulls, pushes and subscription handlers capture the epoch
	// they started under and go inert when it no longer matches.
	epoch int

	pulled       bool // initial pull for the current enable has completed
	pushing      bool // an upsert network call is outstanding
	remoteOrigin bool // next document change came from a remote notification

	timer       *time.Timer
	unsubscribe func()
	closed      bool
}

func New(cfg Config) *Engine {
	log := cfg.Logger
	if log == nil {
		log = logging.NewDiscard()
	}
	window := cfg.DebounceWindow
	if window <= 0 {
		window = DefaultDebounceWindow
	}
	return &Engine{
		store:  cfg.Store,
		state:  cfg.State,
		clock:  cfg.Clock,
		log:    log,
		device: cfg.DeviceID,
		window: window,
		year:   cfg.Year,
		phase:  PhaseDisabled,
	}
}

// Phase returns the current sync phase.
func (e *Engine) Phase() Phase {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.phase
}

// OnIdentityChanged switches the engine to a new owner. An empty ownerID
// disables sync until an identity appears again. Passing the current owner
// is a no-op.
func (e *Engine) OnIdentityChanged(ctx context.Context, ownerID string) {
	e.mu.Lock()
	if e.closed || ownerID == e.owner {
		e.mu.Unlock()
		return
	}
	e.owner = ownerID
	oldUnsub, epoch := e.resetLocked()
	year := e.year

	if ownerID == "" || e.store == nil {
		reason := "no identity"
		if ownerID != "" {
			reason = "no remote store"
		}
		e.phase = PhaseDisabled
		e.mu.Unlock()
		if oldUnsub != nil {
			oldUnsub()
		}
		e.log.Info(ctx, "sync disabled", "reason", reason)
		return
	}
	e.phase = PhasePulling
	e.mu.Unlock()

	if oldUnsub != nil {
		oldUnsub()
	}
	e.log.Info(ctx, "sync enabled", "owner", ownerID, "year", year)
	e.subscribe(ctx, ownerID, epoch)
	e.Pull(ctx)
}

// OnYearChanged switches the active partition. While no identity is
// present the year is only recorded for the next enable.
func (e *Engine) OnYearChanged(ctx context.Context, year int) {
	e.mu.Lock()
	if e.closed || year == e.year {
		e.mu.Unlock()
		return
	}
	e.year = year
	oldUnsub, epoch := e.resetLocked()

	owner := e.owner
	if owner == "" || e.store == nil {
		e.phase = PhaseDisabled
		e.mu.Unlock()
		if oldUnsub != nil {
			oldUnsub()
		}
		return
	}
	e.phase = PhasePulling
	e.mu.Unlock()

	if oldUnsub != nil {
		oldUnsub()
	}
	e.log.Info(ctx, "year switched", "owner", owner, "year", year)
	e.subscribe(ctx, owner, epoch)
	e.Pull(ctx)
}

// Close tears down the subscription and any pending auto-push and makes
// the engine permanently inert. Safe to call more than once.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	oldUnsub, _ := e.resetLocked()
	e.phase = PhaseDisabled
	e.mu.Unlock()

	if oldUnsub != nil {
		oldUnsub()
	}
}

// resetLocked invalidates everything belonging to the previous (owner,
// year) pair: it bumps the epoch, cancels the debounce timer, clears the
// transient flags and detaches the subscription. The caller must hold e.mu
// and is responsible for invoking the returned unsubscribe function after
// releasing it.
func (e *Engine) resetLocked() (oldUnsub func(), epoch int) {
	e.epoch++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	oldUnsub = e.unsubscribe
	e.unsubscribe = nil
	e.pulled = false
	e.pushing = false
	e.remoteOrigin = false
	return oldUnsub, e.epoch
}
