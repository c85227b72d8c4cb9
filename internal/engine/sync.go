package engine

import (
	"context"
	"errors"
	"time"

	"github.com/pixelyear/pixelyear/internal/remote"
	"github.com/pixelyear/pixelyear/internal/timex"
)

// Pull fetches the remote document for the active (owner, year) and applies
// it when arbitration says the remote copy wins. Failures are logged and
// surface only through Phase.
//
// While the pull is running the pre-hydration guard is armed, so the
// document replacement a pull performs never schedules a push of its own.
func (e *Engine) Pull(ctx context.Context) {
	e.mu.Lock()
	if e.closed || e.store == nil || e.owner == "" {
		e.mu.Unlock()
		return
	}
	epoch := e.epoch
	owner, year := e.owner, e.year
	e.pulled = false
	e.phase = PhasePulling
	e.mu.Unlock()

	doc, err := e.store.Fetch(ctx, owner, year)

	if err != nil && !errors.Is(err, remote.ErrNotFound) {
		e.log.Error(ctx, "pull failed", "owner", owner, "year", year, "error", err)
		e.completePull(epoch, PhaseError)
		return
	}

	// Absent or empty remote documents never overwrite local state.
	if err != nil || len(doc.Data) == 0 {
		e.log.Debug(ctx, "pull found nothing to apply", "owner", owner, "year", year)
		e.completePull(epoch, PhaseIdle)
		return
	}

	clock := e.loadClock(ctx)
	localLen := e.state.Len()

	// Apply when no clock is recorded, the remote copy is newer, or local
	// state is empty. An empty local cache always loses to any non-empty
	// remote document regardless of timestamps, so a device recovering
	// from storage loss converges instead of clobbering.
	apply := clock == "" || timex.Newer(doc.UpdatedAt, clock) || localLen == 0
	if !apply {
		e.log.Debug(ctx, "pull skipped, local state is current",
			"remote_updated_at", doc.UpdatedAt, "clock", clock)
		e.completePull(epoch, PhaseIdle)
		return
	}

	e.mu.Lock()
	stale := e.closed || e.epoch != epoch
	e.mu.Unlock()
	if stale {
		return
	}

	e.state.Replace(doc.Data)
	e.saveClock(ctx, doc.UpdatedAt)
	e.log.Info(ctx, "pull applied", "owner", owner, "year", year,
		"days", len(doc.Data), "updated_at", doc.UpdatedAt)
	e.completePull(epoch, PhaseIdle)
}

// completePull marks the initial pull as completed and leaves the given
// phase, unless a newer enable already superseded this pull.
func (e *Engine) completePull(epoch int, phase Phase) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.epoch != epoch {
		return
	}
	e.pulled = true
	e.phase = phase
}

// Push uploads the current document snapshot under a fresh wall-clock
// timestamp. Empty snapshots are never sent, and only one push may be in
// flight at a time. Failures are logged and surface only through Phase.
func (e *Engine) Push(ctx context.Context) {
	e.mu.Lock()
	if e.closed || e.store == nil || e.owner == "" || e.pushing {
		e.mu.Unlock()
		return
	}
	epoch := e.epoch
	owner, year := e.owner, e.year
	e.mu.Unlock()

	payload := e.state.Snapshot()
	if len(payload) == 0 {
		e.log.Debug(ctx, "push suppressed, document is empty", "owner", owner, "year", year)
		return
	}

	e.mu.Lock()
	if e.closed || e.epoch != epoch || e.pushing {
		e.mu.Unlock()
		return
	}
	e.pushing = true
	e.phase = PhasePushing
	e.mu.Unlock()

	updatedAt := timex.FormatInstant(time.Now())
	err := e.store.Upsert(ctx, &remote.Document{
		OwnerID:      owner,
		PartitionKey: year,
		Data:         payload,
		UpdatedAt:    updatedAt,
		Origin:       e.device,
	})

	if err == nil {
		// Record the clock before clearing the in-flight flag so the echo
		// of this write compares against the new value.
		e.saveClock(ctx, updatedAt)
		e.log.Info(ctx, "push completed", "owner", owner, "year", year,
			"days", len(payload), "updated_at", updatedAt)
	} else {
		e.log.Error(ctx, "push failed", "owner", owner, "year", year, "error", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.epoch != epoch {
		// A newer enable owns the flags now; this result is inert.
		return
	}
	e.pushing = false
	if err != nil {
		e.phase = PhaseError
	} else {
		e.phase = PhaseIdle
	}
}

// OnDocumentChanged reacts to a document mutation. Changes applied from
// remote notifications consume their suppression flag here; everything
// else schedules a debounced push once the initial pull has completed and
// no push is outstanding. A change arriving inside the debounce window
// restarts the timer, so a burst of edits produces one push carrying only
// the final state.
func (e *Engine) OnDocumentChanged(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed || e.store == nil || e.owner == "" {
		return
	}
	if e.remoteOrigin {
		e.remoteOrigin = false
		return
	}
	if !e.pulled || e.pushing {
		return
	}

	if e.timer != nil {
		e.timer.Stop()
	}
	epoch := e.epoch
	e.timer = time.AfterFunc(e.window, func() {
		e.mu.Lock()
		stale := e.closed || e.epoch != epoch
		e.mu.Unlock()
		if stale {
			return
		}
		e.Push(ctx)
	})
}

// subscribe opens the change feed for owner under the given epoch. A feed
// that cannot be opened is logged and skipped; pull and push still work
// without live updates.
func (e *Engine) subscribe(ctx context.Context, owner string, epoch int) {
	unsub, err := e.store.Subscribe(ctx, owner, func(ctx context.Context, ev remote.ChangeEvent) {
		e.handleChange(ctx, epoch, ev)
	})
	if err != nil {
		e.log.Warn(ctx, "change feed unavailable", "owner", owner, "error", err)
		return
	}

	e.mu.Lock()
	if e.closed || e.epoch != epoch {
		e.mu.Unlock()
		unsub()
		return
	}
	e.unsubscribe = unsub
	e.mu.Unlock()
}

// handleChange processes one change notification from the feed opened
// under epoch. Events from stale subscriptions, foreign years and empty
// payloads are dropped, as is the echo of this device's own write, which
// is recognized by its updated_at matching the stored clock as an instant.
func (e *Engine) handleChange(ctx context.Context, epoch int, ev remote.ChangeEvent) {
	e.mu.Lock()
	if e.closed || e.epoch != epoch {
		e.mu.Unlock()
		return
	}
	if ev.PartitionKey != e.year {
		e.mu.Unlock()
		e.log.Debug(ctx, "ignoring change for inactive year", "year", ev.PartitionKey)
		return
	}
	if len(ev.Data) == 0 {
		e.mu.Unlock()
		e.log.Debug(ctx, "ignoring empty change", "year", ev.PartitionKey)
		return
	}
	e.mu.Unlock()

	clock := e.loadClock(ctx)
	if clock != "" && timex.SameInstant(ev.UpdatedAt, clock) {
		e.log.Debug(ctx, "suppressing echo of own write", "updated_at", ev.UpdatedAt)
		return
	}

	e.mu.Lock()
	if e.closed || e.epoch != epoch || ev.PartitionKey != e.year {
		e.mu.Unlock()
		return
	}
	// The replacement below notifies OnDocumentChanged exactly once; this
	// flag makes that notification suppress its auto-push instead of
	// looping the change back to the store.
	e.remoteOrigin = true
	e.mu.Unlock()

	e.state.Replace(ev.Data)
	e.saveClock(ctx, ev.UpdatedAt)
	e.log.Info(ctx, "applied remote change", "year", ev.PartitionKey,
		"days", len(ev.Data), "updated_at", ev.UpdatedAt, "origin", ev.Origin)
}

// loadClock reads the sync timestamp, degrading to "" (treat remote as
// newer) when local storage misbehaves.
func (e *Engine) loadClock(ctx context.Context) string {
	clock, err := e.clock.Load(ctx)
	if err != nil {
		e.log.Warn(ctx, "failed to load sync clock", "error", err)
		return ""
	}
	return clock
}

// saveClock persists the sync timestamp; failure is logged, never fatal.
func (e *Engine) saveClock(ctx context.Context, value string) {
	if err := e.clock.Save(ctx, value); err != nil {
		e.log.Warn(ctx, "failed to persist sync clock", "error", err)
	}
}
