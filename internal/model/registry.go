package model

import (
	"context"
	"time"
)

// TokenRegistry tracks the claim sets of currently live tokens, keyed by
// jti. All operations are safe for concurrent use and atomic with respect
// to one another.
type TokenRegistry interface {
	// Add registers a freshly minted claim set. An id collision yields
	// ErrDuplicateTokenID; Add never silently replaces an entry.
	Add(ctx context.Context, claims TokenClaims) error

	// Remove drops the entry with the given id. Removing an absent id is
	// a no-op.
	Remove(ctx context.Context, id string) error

	// FindLive returns the claims for id only if the entry exists and has
	// not yet expired; a present-but-expired entry yields ErrTokenNotFound.
	FindLive(ctx context.Context, id string) (TokenClaims, error)

	// SweepExpired removes every entry whose expiry is at or before now
	// and returns the number removed.
	SweepExpired(ctx context.Context, now time.Time) (int, error)
}
