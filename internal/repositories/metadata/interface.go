// Package metadata is a small key-value store backed by sqlite. It holds
// per-device scalars that must survive restarts: the last-synchronized
// timestamp and the device identifier.
package metadata

import (
	"context"
)

// Repository stores string values under string keys.
//
// Get returns ("", nil) when the key is absent; for the values kept here an
// empty string and a missing row mean the same thing.
type Repository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}

// Well-known keys.
const (
	// KeyLastSyncedAt holds the updated_at instant this device last
	// confirmed as synchronized. Written only with store-reported values,
	// never with locally invented ones.
	KeyLastSyncedAt = "last_synced_at"

	// KeyDeviceID holds the stable identifier this device stamps on its
	// outgoing writes.
	KeyDeviceID = "device_id"
)
