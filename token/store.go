package token

import (
	"context"
	"time"
)

// Store keeps the per-session token state: a refresh token with unbounded
// lifetime and an access token that expires after a TTL.
//
// Lookups of missing or expired entries return errors.ErrNotFound.
type Store interface {
	// Put replaces the session's tokens. An empty pair.RefreshToken keeps the
	// previously stored refresh token; ttl <= 0 leaves no cached access token.
	Put(ctx context.Context, sessionID string, pair Pair, ttl time.Duration) error
	AccessToken(ctx context.Context, sessionID string) (string, error)
	RefreshToken(ctx context.Context, sessionID string) (string, error)
	// Invalidate drops both tokens for the session.
	Invalidate(ctx context.Context, sessionID string) error
}
