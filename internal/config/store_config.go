package config

import "time"

const (
	MemoryStoreBackend = "memory"
	RedisStoreBackend  = "redis"
)

type StoreConfig interface {
	GetStoreBackend() string
	GetRedisURL() string
	GetRedisPrefix() string
	GetCleanupInterval() time.Duration
}

type Store struct {
	Backend         string        `yaml:"backend" env:"TOKEN_STORE" env-default:"memory"`
	RedisURL        string        `yaml:"redis_url" env:"REDIS_URL" env-default:"redis://localhost:6379/0"`
	RedisPrefix     string        `yaml:"redis_prefix" env:"REDIS_PREFIX" env-default:"crmsync:"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" env:"TOKEN_CLEANUP_INTERVAL" env-default:"1m"`
}

var _ StoreConfig = Store{}

func (s Store) GetStoreBackend() string {
	if s.Backend == "" {
		return MemoryStoreBackend
	}
	return s.Backend
}

func (s Store) GetRedisURL() string {
	return s.RedisURL
}

func (s Store) GetRedisPrefix() string {
	return s.RedisPrefix
}

func (s Store) GetCleanupInterval() time.Duration {
	return s.CleanupInterval
}
