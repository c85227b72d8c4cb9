// Package remote defines the document store contract the sync engine talks
// to, plus the Redis-backed implementation used in production.
//
// The store keeps one document per (owner, year) pair and broadcasts every
// write on a per-owner change feed. Subscribers receive all writes for the
// owner, including their own (the echo the engine must suppress).
package remote

import (
	"context"
	"errors"

	"github.com/pixelyear/pixelyear/internal/planner"
)

var (
	// ErrNotFound reports that no document exists for the requested
	// (owner, year) pair.
	ErrNotFound = errors.New("document not found")

	// ErrUnavailable reports a transport failure talking to the store.
	ErrUnavailable = errors.New("remote store unavailable")
)

// Document is the wire shape of one year's plan.
type Document struct {
	OwnerID      string                        `json:"owner_id"`
	PartitionKey int                           `json:"partition_key"`
	Data         map[string]planner.Annotation `json:"data"`
	UpdatedAt    string                        `json:"updated_at"`
	Origin       string                        `json:"origin,omitempty"`
}

// ChangeEvent is delivered on the change feed for every write affecting the
// owner. Origin names the writing device and is informational only; echo
// detection relies on UpdatedAt, never on Origin.
type ChangeEvent struct {
	PartitionKey int                           `json:"partition_key"`
	Data         map[string]planner.Annotation `json:"data"`
	UpdatedAt    string                        `json:"updated_at"`
	Origin       string                        `json:"origin,omitempty"`
}

// Store is the remote document store the sync engine works against.
type Store interface {
	// Fetch returns the document for (owner, year), or ErrNotFound when
	// none exists yet.
	Fetch(ctx context.Context, ownerID string, year int) (*Document, error)

	// Upsert inserts or overwrites the document keyed by
	// (doc.OwnerID, doc.PartitionKey) and publishes a change event.
	Upsert(ctx context.Context, doc *Document) error

	// Subscribe opens a change feed for all documents of the owner. The
	// handler runs on the feed's goroutine. The returned function tears
	// the subscription down and waits for the feed goroutine to stop.
	Subscribe(ctx context.Context, ownerID string, handler func(context.Context, ChangeEvent)) (func(), error)
}
