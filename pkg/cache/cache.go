package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"comercia/pkg/log"
)

type Provider string

const (
	Redis  Provider = "redis"
	Memory Provider = "memory"
)

var (
	ErrKeyNotFound    = errors.New("key not found")
	ErrConnectionFail = errors.New("cache connection failed")
)

type Error struct {
	Operation string
	Key       string
	Err       error
}

func (e *Error) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("cache %s operation failed for key '%s': %v", e.Operation, e.Key, e.Err)
	}
	return fmt.Sprintf("cache %s operation failed: %v", e.Operation, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Client is the cache surface the rest of the application depends on.
// Both the Redis and in-memory implementations satisfy it, so tests and
// single-node deployments can run without a Redis instance.
type Client interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)

	DeletePattern(ctx context.Context, pattern string) error

	Increment(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, error)

	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	GetJSON(ctx context.Context, key string, dest interface{}) error

	Close() error
	Ping(ctx context.Context) error
}

type Config struct {
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	Password string `json:"password" yaml:"password"`
	DB       int    `json:"db" yaml:"db"`

	PoolSize     int           `json:"pool_size" yaml:"pool_size"`
	MinIdleConns int           `json:"min_idle_conns" yaml:"min_idle_conns"`
	PoolTimeout  time.Duration `json:"pool_timeout" yaml:"pool_timeout"`

	DialTimeout  time.Duration `json:"dial_timeout" yaml:"dial_timeout"`
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`

	DefaultTTL time.Duration `json:"default_ttl" yaml:"default_ttl"`

	// Memory cache settings
	MaxSize int `json:"max_size" yaml:"max_size"`
}

func setDefaults(config *Config) {
	if config.Port == 0 {
		config.Port = 6379
	}
	if config.PoolSize == 0 {
		config.PoolSize = 10
	}
	if config.MinIdleConns == 0 {
		config.MinIdleConns = 2
	}
	if config.PoolTimeout == 0 {
		config.PoolTimeout = 4 * time.Second
	}
	if config.DialTimeout == 0 {
		config.DialTimeout = 5 * time.Second
	}
	if config.ReadTimeout == 0 {
		config.ReadTimeout = 3 * time.Second
	}
	if config.WriteTimeout == 0 {
		config.WriteTimeout = 3 * time.Second
	}
	if config.DefaultTTL == 0 {
		config.DefaultTTL = 1 * time.Hour
	}
	if config.MaxSize == 0 {
		config.MaxSize = 1000
	}
}

// New creates a cache client. A configured host selects Redis; an empty
// host falls back to the in-process memory cache.
func New(config *Config, logger log.Logger) (Client, error) {
	setDefaults(config)

	if config.Host == "" {
		logger.Info("using in-memory cache",
			log.Int("max_size", config.MaxSize),
			log.Duration("default_ttl", config.DefaultTTL),
		)
		return NewMemoryCache(config, logger), nil
	}

	client, err := NewRedisCache(config, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis cache: %w", err)
	}

	logger.Info("connected to Redis cache",
		log.String("host", config.Host),
		log.Int("port", config.Port),
		log.Int("db", config.DB),
		log.Duration("default_ttl", config.DefaultTTL),
	)
	return client, nil
}
