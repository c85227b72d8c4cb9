package remote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/pixelyear/pixelyear/internal/logging"
)

// RedisStore implements Store on a Redis instance: documents live under
// string keys, change events go over pub/sub.
type RedisStore struct {
	client *redis.Client
	log    logging.Logger
}

// NewRedisStore wraps an existing client. Use Dial to connect by address.
func NewRedisStore(client *redis.Client, log logging.Logger) *RedisStore {
	return &RedisStore{client: client, log: log}
}

// Dial connects to the Redis instance at addr and verifies it responds.
func Dial(ctx context.Context, addr string, log logging.Logger) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: ping %s: %v", ErrUnavailable, addr, err)
	}
	return NewRedisStore(client, log), nil
}

func docKey(ownerID string, year int) string {
	return fmt.Sprintf("plan:%s:%d", ownerID, year)
}

func changeChannel(ownerID string) string {
	return fmt.Sprintf("plan:changes:%s", ownerID)
}

func (s *RedisStore) Fetch(ctx context.Context, ownerID string, year int) (*Document, error) {
	data, err := s.client.Get(ctx, docKey(ownerID, year)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var doc Document
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return nil, fmt.Errorf("malformed document for %s/%d: %w", ownerID, year, err)
	}
	return &doc, nil
}

func (s *RedisStore) Upsert(ctx context.Context, doc *Document) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	event, err := json.Marshal(ChangeEvent{
		PartitionKey: doc.PartitionKey,
		Data:         doc.Data,
		UpdatedAt:    doc.UpdatedAt,
		Origin:       doc.Origin,
	})
	if err != nil {
		return fmt.Errorf("failed to encode change event: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, docKey(doc.OwnerID, doc.PartitionKey), payload, 0)
	pipe.Publish(ctx, changeChannel(doc.OwnerID), event)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *RedisStore) Subscribe(ctx context.Context, ownerID string, handler func(context.Context, ChangeEvent)) (func(), error) {
	ps := s.client.Subscribe(ctx, changeChannel(ownerID))

	// Force the SUBSCRIBE handshake so a dead broker fails here, not later.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	ch := ps.Channel()
	done := make(chan struct{})

	go func() {
		defer close(done)
		for msg := range ch {
			ev, err := decodeChangeEvent(msg.Payload)
			if err != nil {
				s.log.Warn(ctx, "dropping malformed change event", "owner", ownerID, "error", err)
				continue
			}
			handler(ctx, ev)
		}
	}()

	unsubscribe := func() {
		_ = ps.Close()
		<-done
	}
	return unsubscribe, nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func decodeChangeEvent(payload string) (ChangeEvent, error) {
	var ev ChangeEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return ChangeEvent{}, err
	}
	return ev, nil
}
