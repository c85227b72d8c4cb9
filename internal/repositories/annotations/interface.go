// Package annotations persists the per-day annotations of each year to the
// local sqlite database, so a plan survives restarts even without a remote
// sync target.
package annotations

import (
	"context"

	"github.com/pixelyear/pixelyear/internal/planner"
)

// Repository describes storage operations for one year's annotations.
type Repository interface {
	// Upsert inserts or overwrites the annotation for (year, day).
	Upsert(ctx context.Context, year int, day string, a planner.Annotation) error

	// Delete removes the annotation for (year, day). Deleting an
	// unannotated day is not an error.
	Delete(ctx context.Context, year int, day string) error

	// ListYear returns all annotations of the year keyed by date.
	ListYear(ctx context.Context, year int) (map[string]planner.Annotation, error)

	// ReplaceYear drops the year's rows and writes the given mapping
	// instead. Run it inside a transaction when atomicity matters.
	ReplaceYear(ctx context.Context, year int, days map[string]planner.Annotation) error
}
