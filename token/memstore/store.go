package memstore

import (
	"context"
	"sync"
	"time"

	"github.com/jrsteele09/go-crm-sync/internal/errors"
	"github.com/jrsteele09/go-crm-sync/token"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

var _ token.Store = (*Store)(nil)

type accessEntry struct {
	token     string
	expiresAt time.Time
}

// Store is the process-local token store. Refresh tokens live until the process
// exits; access tokens are evicted once their TTL elapses.
type Store struct {
	mu      sync.RWMutex
	refresh map[string]string
	access  map[string]accessEntry

	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	stopOnce        sync.Once
}

type Option func(*Store)

// WithCleanupInterval sets how often expired access tokens are swept. Zero
// disables the background sweep; expired entries are still never returned.
func WithCleanupInterval(interval time.Duration) Option {
	return func(s *Store) {
		s.cleanupInterval = interval
	}
}

func New(opts ...Option) *Store {
	s := &Store{
		refresh:         make(map[string]string),
		access:          make(map[string]accessEntry),
		cleanupInterval: time.Minute,
		stopCleanup:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cleanupInterval > 0 {
		go s.cleanupLoop()
	}
	return s
}

func (s *Store) Put(_ context.Context, sessionID string, pair token.Pair, ttl time.Duration) error {
	if sessionID == "" {
		return errors.New("sessionID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if pair.RefreshToken != "" {
		s.refresh[sessionID] = pair.RefreshToken
	}
	if ttl <= 0 || pair.AccessToken == "" {
		delete(s.access, sessionID)
		return nil
	}
	s.access[sessionID] = accessEntry{token: pair.AccessToken, expiresAt: NowTimeFunc().Add(ttl)}
	return nil
}

func (s *Store) AccessToken(_ context.Context, sessionID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.access[sessionID]
	if !ok || !NowTimeFunc().Before(entry.expiresAt) {
		return "", errors.ErrNotFound
	}
	return entry.token, nil
}

func (s *Store) RefreshToken(_ context.Context, sessionID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	refreshToken, ok := s.refresh[sessionID]
	if !ok {
		return "", errors.ErrNotFound
	}
	return refreshToken, nil
}

func (s *Store) Invalidate(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.refresh, sessionID)
	delete(s.access, sessionID)
	return nil
}

// Len returns the number of cached access tokens, expired or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.access)
}

// Close stops the background sweep.
func (s *Store) Close() error {
	s.stopOnce.Do(func() { close(s.stopCleanup) })
	return nil
}

func (s *Store) cleanupLoop() {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Cleanup()
		case <-s.stopCleanup:
			return
		}
	}
}

// Cleanup evicts every expired access token.
func (s *Store) Cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := NowTimeFunc()
	for sessionID, entry := range s.access {
		if !now.Before(entry.expiresAt) {
			delete(s.access, sessionID)
		}
	}
}
