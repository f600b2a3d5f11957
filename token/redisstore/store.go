package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jrsteele09/go-crm-sync/internal/errors"
	"github.com/jrsteele09/go-crm-sync/token"
	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "crmsync:"

var _ token.Store = (*Store)(nil)

// Store keeps session tokens in Redis. Refresh tokens are written without
// expiry; access tokens carry the cache TTL so Redis evicts them.
type Store struct {
	rdb    *redis.Client
	prefix string
}

// New connects using a Redis URL (redis://:pass@host:6379/0) and pings the
// server so a bad address fails at startup.
func New(ctx context.Context, redisURL, prefix string) (*Store, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("[redisstore New] parse url: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("[redisstore New] ping: %w", err)
	}
	return NewFromClient(rdb, prefix), nil
}

func NewFromClient(rdb *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return &Store{rdb: rdb, prefix: prefix}
}

func (s *Store) refreshKey(sessionID string) string { return s.prefix + "rt:" + sessionID }
func (s *Store) accessKey(sessionID string) string  { return s.prefix + "at:" + sessionID }

func (s *Store) Put(ctx context.Context, sessionID string, pair token.Pair, ttl time.Duration) error {
	if sessionID == "" {
		return errors.New("sessionID is required")
	}

	pipe := s.rdb.TxPipeline()
	if pair.RefreshToken != "" {
		pipe.Set(ctx, s.refreshKey(sessionID), pair.RefreshToken, 0)
	}
	if ttl > 0 && pair.AccessToken != "" {
		pipe.Set(ctx, s.accessKey(sessionID), pair.AccessToken, ttl)
	} else {
		pipe.Del(ctx, s.accessKey(sessionID))
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("[redisstore Put] %w", err)
	}
	return nil
}

func (s *Store) AccessToken(ctx context.Context, sessionID string) (string, error) {
	return s.get(ctx, s.accessKey(sessionID))
}

func (s *Store) RefreshToken(ctx context.Context, sessionID string) (string, error) {
	return s.get(ctx, s.refreshKey(sessionID))
}

func (s *Store) Invalidate(ctx context.Context, sessionID string) error {
	if err := s.rdb.Del(ctx, s.refreshKey(sessionID), s.accessKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("[redisstore Invalidate] %w", err)
	}
	return nil
}

func (s *Store) Close() error { return s.rdb.Close() }

func (s *Store) get(ctx context.Context, key string) (string, error) {
	value, err := s.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", errors.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("[redisstore get] %w", err)
	}
	return value, nil
}
