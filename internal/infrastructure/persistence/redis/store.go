// Package redis implements the campus document store on Redis.
// Collections are stored as whole JSON documents under fixed keys, and
// the seed dataset is written lazily the first time a key is read.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// Config holds Redis connection configuration.
type Config struct {
	// Host is the Redis server hostname.
	Host string

	// Port is the Redis server port.
	Port int

	// Password is the Redis authentication password (empty if no auth).
	Password string

	// DB is the Redis database number (0-15).
	DB int

	// PoolSize is the maximum number of socket connections.
	PoolSize int

	// MinIdleConns is the minimum number of idle connections.
	MinIdleConns int

	// MaxRetries is the maximum number of retries before giving up.
	MaxRetries int

	// DialTimeout is the timeout for establishing new connections.
	DialTimeout time.Duration

	// ReadTimeout is the timeout for socket reads.
	ReadTimeout time.Duration

	// WriteTimeout is the timeout for socket writes.
	WriteTimeout time.Duration

	// PoolTimeout is the timeout for getting a connection from the pool.
	PoolTimeout time.Duration
}

// DefaultConfig returns a sensible default configuration.
func DefaultConfig() Config {
	return Config{
		Host:         "localhost",
		Port:         6379,
		Password:     "",
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolTimeout:  4 * time.Second,
	}
}

// Addr returns the Redis address in "host:port" format.
func (c Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrStoreMiss is returned when the requested key is not found.
	ErrStoreMiss = errors.New("store: key not found")

	// ErrStoreConnection is returned when the Redis connection fails.
	ErrStoreConnection = errors.New("store: connection failed")

	// ErrStoreSerialization is returned when serialization/deserialization fails.
	ErrStoreSerialization = errors.New("store: serialization failed")

	// ErrStoreKeyEmpty is returned when an empty key is provided.
	ErrStoreKeyEmpty = errors.New("store: key cannot be empty")

	// ErrStoreNilValue is returned when attempting to store a nil value.
	ErrStoreNilValue = errors.New("store: value cannot be nil")
)

// ══════════════════════════════════════════════════════════════════════════════
// KEYS
// ══════════════════════════════════════════════════════════════════════════════

// Fixed keys for the campus collections. Each key holds the entire
// collection as one JSON document.
const (
	// KeyStudents holds the student collection.
	KeyStudents = "campus:students"

	// KeyBuses holds the bus fleet collection.
	KeyBuses = "campus:buses"

	// KeyRemembered holds the remembered student identifier.
	KeyRemembered = "campus:remembered"
)

// ══════════════════════════════════════════════════════════════════════════════
// STORE CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Store provides JSON document storage on Redis with miss detection.
type Store struct {
	client *redis.Client
	config Config
}

// NewStore creates a new Store instance with the given configuration.
func NewStore(cfg Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		PoolTimeout:  cfg.PoolTimeout,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreConnection, err)
	}

	return &Store{
		client: client,
		config: cfg,
	}, nil
}

// Client returns the underlying Redis client for advanced operations.
// Use with caution - prefer using Store methods when possible.
func (s *Store) Client() *redis.Client {
	return s.client
}

// Close closes the Redis connection.
func (s *Store) Close() error {
	return s.client.Close()
}

// Ping checks if Redis is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// ══════════════════════════════════════════════════════════════════════════════
// BASIC OPERATIONS
// ══════════════════════════════════════════════════════════════════════════════

// Set stores a value under the given key with no expiry.
// The value is serialized to JSON before storage.
func (s *Store) Set(ctx context.Context, key string, value interface{}) error {
	if key == "" {
		return ErrStoreKeyEmpty
	}
	if value == nil {
		return ErrStoreNilValue
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStoreSerialization, err)
	}

	return s.client.Set(ctx, key, data, 0).Err()
}

// SetString stores a string value directly without JSON serialization.
func (s *Store) SetString(ctx context.Context, key string, value string) error {
	if key == "" {
		return ErrStoreKeyEmpty
	}

	return s.client.Set(ctx, key, value, 0).Err()
}

// Get retrieves and deserializes a value by key.
// Returns ErrStoreMiss if the key doesn't exist.
func (s *Store) Get(ctx context.Context, key string, dest interface{}) error {
	if key == "" {
		return ErrStoreKeyEmpty
	}

	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrStoreMiss
		}
		return err
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("%w: %v", ErrStoreSerialization, err)
	}

	return nil
}

// GetString retrieves a string value directly without JSON deserialization.
func (s *Store) GetString(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrStoreKeyEmpty
	}

	val, err := s.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrStoreMiss
		}
		return "", err
	}

	return val, nil
}

// Delete removes keys from the store.
func (s *Store) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	return s.client.Del(ctx, keys...).Err()
}

// Exists checks if a key exists in the store.
func (s *Store) Exists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrStoreKeyEmpty
	}

	count, err := s.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// SetNX sets a value only if the key doesn't exist. Used for
// write-once seeding so concurrent processes never clobber data.
func (s *Store) SetNX(ctx context.Context, key string, value interface{}) (bool, error) {
	if key == "" {
		return false, ErrStoreKeyEmpty
	}

	data, err := json.Marshal(value)
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrStoreSerialization, err)
	}

	return s.client.SetNX(ctx, key, data, 0).Result()
}

// FlushDB removes all keys from the current database.
// Use with extreme caution! Primarily for testing.
func (s *Store) FlushDB(ctx context.Context) error {
	return s.client.FlushDB(ctx).Err()
}
