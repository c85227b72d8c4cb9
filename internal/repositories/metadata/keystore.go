package metadata

import (
	"context"

	"github.com/google/uuid"
)

// KeyStore narrows a Repository to one well-known key. The sync engine
// receives a KeyStore bound to KeyLastSyncedAt as its clock store.
//
// The key is global per device, not per year: switching years inherits the
// previous year's timestamp until that year's own pull lands. Known sharp
// edge, kept as is.
type KeyStore struct {
	repo Repository
	key  string
}

func NewKeyStore(repo Repository, key string) *KeyStore {
	return &KeyStore{repo: repo, key: key}
}

func (s *KeyStore) Load(ctx context.Context) (string, error) {
	return s.repo.Get(ctx, s.key)
}

func (s *KeyStore) Save(ctx context.Context, value string) error {
	return s.repo.Set(ctx, s.key, value)
}

// EnsureDeviceID returns the stored device identifier, generating and
// persisting a fresh one on first run.
func EnsureDeviceID(ctx context.Context, repo Repository) (string, error) {
	id, err := repo.Get(ctx, KeyDeviceID)
	if err != nil {
		return "", err
	}
	if id != "" {
		return id, nil
	}
	id = uuid.NewString()
	if err := repo.Set(ctx, KeyDeviceID, id); err != nil {
		return "", err
	}
	return id, nil
}
