package app

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/pixelyear/pixelyear/internal/dbx"
	"github.com/pixelyear/pixelyear/internal/logging"
	"github.com/pixelyear/pixelyear/internal/planner"
	"github.com/pixelyear/pixelyear/internal/repositories/annotations"
)

// Canvas owns the in-memory document for the active year and keeps the
// local annotations table in step with every mutation. Local edits enter
// through Paint and Erase, remote applies through Replace, and each
// mutation ends with exactly one change notification to the sync engine.
//
// Local persistence failures are logged, not returned: the in-memory
// document stays authoritative for the session and sync keeps working.
type Canvas struct {
	db   *sql.DB
	repo annotations.Repository
	log  logging.Logger

	mu   sync.Mutex
	year int
	doc  *planner.Document

	notify func(context.Context)
}

func NewCanvas(year int, db *sql.DB, repo annotations.Repository, log logging.Logger) *Canvas {
	return &Canvas{year: year, db: db, repo: repo, log: log, doc: planner.NewDocument()}
}

// SetNotify wires the engine's change callback. Must be set before the
// first mutation.
func (c *Canvas) SetNotify(fn func(context.Context)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.notify = fn
}

// Load hydrates the document from the local database without notifying,
// so startup never schedules a push.
func (c *Canvas) Load(ctx context.Context) error {
	c.mu.Lock()
	year := c.year
	c.mu.Unlock()

	days, err := c.repo.ListYear(ctx, year)
	if err != nil {
		return fmt.Errorf("failed to load annotations for %d: %w", year, err)
	}

	c.mu.Lock()
	c.doc.Replace(days)
	c.mu.Unlock()
	return nil
}

// Year returns the active year.
func (c *Canvas) Year() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.year
}

// Get returns the annotation for a day, if any.
func (c *Canvas) Get(day string) (planner.Annotation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc.Get(day)
}

// Paint sets the annotation for a day of the active year, persists it and
// notifies the engine.
func (c *Canvas) Paint(ctx context.Context, day string, a planner.Annotation) error {
	t, err := planner.ParseDay(day)
	if err != nil {
		return err
	}

	c.mu.Lock()
	year := c.year
	if t.Year() != year {
		c.mu.Unlock()
		return fmt.Errorf("day %s is outside the active year %d", day, year)
	}
	if err := c.doc.Set(day, a); err != nil {
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()

	if err := c.repo.Upsert(ctx, year, day, a); err != nil {
		c.log.Warn(ctx, "failed to persist annotation locally", "day", day, "error", err)
	}
	c.notifyChanged(ctx)
	return nil
}

// Erase removes the annotation for a day, persists the removal and
// notifies the engine. Erasing a blank day is not an error.
func (c *Canvas) Erase(ctx context.Context, day string) error {
	c.mu.Lock()
	year := c.year
	if err := c.doc.Clear(day); err != nil {
		c.mu.Unlock()
		return err
	}
	c.mu.Unlock()

	if err := c.repo.Delete(ctx, year, day); err != nil {
		c.log.Warn(ctx, "failed to delete annotation locally", "day", day, "error", err)
	}
	c.notifyChanged(ctx)
	return nil
}

// SwapYear loads the given year's rows into the document. It does not
// notify: callers follow up with the engine's OnYearChanged, which re-pulls
// the new partition. Notifying here would push the new year's data under
// the old year's key.
func (c *Canvas) SwapYear(ctx context.Context, year int) error {
	days, err := c.repo.ListYear(ctx, year)
	if err != nil {
		return fmt.Errorf("failed to load annotations for %d: %w", year, err)
	}

	c.mu.Lock()
	c.year = year
	c.doc.Replace(days)
	c.mu.Unlock()
	return nil
}

// Snapshot implements engine.DocumentState.
func (c *Canvas) Snapshot() map[string]planner.Annotation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc.Snapshot()
}

// Len implements engine.DocumentState.
func (c *Canvas) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.doc.Len()
}

// Replace implements engine.DocumentState: the engine applies a remote
// document wholesale. The local table is rewritten in one transaction so a
// crash cannot leave a year half-applied, then the engine is notified
// exactly once.
//
// Days outside the active year are dropped: a replacement races the year
// switch only in a tiny window, and keys from another year must not land in
// this year's table. A replacement losing all its days is ignored outright,
// but still notifies so the engine's pending origin mark is consumed.
func (c *Canvas) Replace(days map[string]planner.Annotation) {
	ctx := context.Background()

	c.mu.Lock()
	year := c.year
	filtered := make(map[string]planner.Annotation, len(days))
	for day, a := range days {
		if t, err := planner.ParseDay(day); err == nil && t.Year() == year {
			filtered[day] = a
		}
	}
	if len(days) > 0 && len(filtered) == 0 {
		c.mu.Unlock()
		c.log.Warn(ctx, "ignoring replacement carrying no days of the active year", "year", year)
		c.notifyChanged(ctx)
		return
	}
	c.doc.Replace(filtered)
	snap := c.doc.Snapshot()
	c.mu.Unlock()

	err := dbx.WithTx(ctx, c.db, func(ctx context.Context, tx dbx.DBTX) error {
		return annotations.NewSQLiteRepository(tx).ReplaceYear(ctx, year, snap)
	})
	if err != nil {
		c.log.Warn(ctx, "failed to persist applied document locally", "year", year, "error", err)
	}

	c.notifyChanged(ctx)
}

func (c *Canvas) notifyChanged(ctx context.Context) {
	c.mu.Lock()
	notify := c.notify
	c.mu.Unlock()
	if notify != nil {
		notify(ctx)
	}
}
