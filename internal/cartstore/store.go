// Package cartstore caches the latest computed quote per cart id between
// stateless requests. Every save replaces the previous snapshot wholesale;
// concurrent writers for the same cart id resolve last-writer-wins.
package cartstore

import (
	"context"

	"github.com/pigeonhq/pigeon-backend/internal/quote"
	pkgerrors "github.com/pigeonhq/pigeon-backend/pkg/errors"
)

// ErrSnapshotNotFound is returned by Get when no snapshot exists for the
// cart id.
var ErrSnapshotNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "cart snapshot not found")

// Store holds the latest snapshot per cart id.
type Store interface {
	Get(ctx context.Context, cartID string) (*quote.CartSnapshot, error)
	Save(ctx context.Context, snapshot *quote.CartSnapshot) error
	Remove(ctx context.Context, cartID string) error
}
