package cartstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/pigeonhq/pigeon-backend/internal/quote"
	pkgerrors "github.com/pigeonhq/pigeon-backend/pkg/errors"
	"github.com/pigeonhq/pigeon-backend/pkg/redis"
)

type snapshotClient interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	SnapshotKey(cartID string) string
}

// RedisStore persists snapshots as JSON values in Redis, one key per cart
// id, with an optional TTL.
type RedisStore struct {
	client snapshotClient
	ttl    time.Duration
}

// NewRedisStore builds a store on top of the shared Redis client. A zero
// ttl keeps snapshots until removed.
func NewRedisStore(client *redis.Client, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis store requires a client")
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

// Get loads and decodes the snapshot for the cart id.
func (s *RedisStore) Get(ctx context.Context, cartID string) (*quote.CartSnapshot, error) {
	if cartID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidArgument, "cart id is required")
	}
	raw, err := s.client.Get(ctx, s.client.SnapshotKey(cartID))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSnapshotNotFound
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart snapshot")
	}
	var snapshot quote.CartSnapshot
	if err := json.Unmarshal([]byte(raw), &snapshot); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "decode cart snapshot")
	}
	return &snapshot, nil
}

// Save encodes and stores the snapshot under its cart id.
func (s *RedisStore) Save(ctx context.Context, snapshot *quote.CartSnapshot) error {
	if snapshot == nil || snapshot.CartID == "" {
		return pkgerrors.New(pkgerrors.CodeInvalidArgument, "snapshot with cart id is required")
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart snapshot")
	}
	if err := s.client.Set(ctx, s.client.SnapshotKey(snapshot.CartID), raw, s.ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart snapshot")
	}
	return nil
}

// Remove deletes the snapshot for the cart id.
func (s *RedisStore) Remove(ctx context.Context, cartID string) error {
	if cartID == "" {
		return pkgerrors.New(pkgerrors.CodeInvalidArgument, "cart id is required")
	}
	if err := s.client.Del(ctx, s.client.SnapshotKey(cartID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart snapshot")
	}
	return nil
}
