package cartstore

import (
	"context"
	"sync"

	"github.com/pigeonhq/pigeon-backend/internal/quote"
	pkgerrors "github.com/pigeonhq/pigeon-backend/pkg/errors"
)

// MemoryStore keeps snapshots in process memory behind a mutex. It is the
// default store when Redis is not configured.
type MemoryStore struct {
	mu        sync.RWMutex
	snapshots map[string]quote.CartSnapshot
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{snapshots: make(map[string]quote.CartSnapshot)}
}

// Get returns a copy of the latest snapshot for the cart id.
func (s *MemoryStore) Get(_ context.Context, cartID string) (*quote.CartSnapshot, error) {
	if cartID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidArgument, "cart id is required")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	snapshot, ok := s.snapshots[cartID]
	if !ok {
		return nil, ErrSnapshotNotFound
	}
	out := snapshot
	out.Items = append([]quote.CartItem(nil), snapshot.Items...)
	return &out, nil
}

// Save replaces the stored snapshot for the snapshot's cart id.
func (s *MemoryStore) Save(_ context.Context, snapshot *quote.CartSnapshot) error {
	if snapshot == nil || snapshot.CartID == "" {
		return pkgerrors.New(pkgerrors.CodeInvalidArgument, "snapshot with cart id is required")
	}
	stored := *snapshot
	stored.Items = append([]quote.CartItem(nil), snapshot.Items...)
	s.mu.Lock()
	s.snapshots[snapshot.CartID] = stored
	s.mu.Unlock()
	return nil
}

// Remove drops the snapshot for the cart id. Removing an absent cart id
// is a no-op.
func (s *MemoryStore) Remove(_ context.Context, cartID string) error {
	if cartID == "" {
		return pkgerrors.New(pkgerrors.CodeInvalidArgument, "cart id is required")
	}
	s.mu.Lock()
	delete(s.snapshots, cartID)
	s.mu.Unlock()
	return nil
}
