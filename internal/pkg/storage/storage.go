// Package storage is the client-side key/value persistence used for the cart,
// the feedback queue and the admin session flag. Values are opaque bytes;
// callers own the encoding.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Get when the key has never been written or was
// deleted.
var ErrNotFound = errors.New("storage: key not found")

// Store is a durable string-keyed byte store.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Driver names accepted by Open.
const (
	DriverMemory  = "memory"
	DriverSQLite  = "sqlite"
	DriverRedis   = "redis"
	DriverSpanner = "spanner"
)

// Config selects and configures a driver.
type Config struct {
	Driver          string
	SQLitePath      string
	RedisAddr       string
	RedisKeyPrefix  string
	SpannerDatabase string
}

// Open builds the Store named by cfg.Driver. An empty driver means memory.
func Open(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", DriverMemory:
		return NewMemoryStore(), nil
	case DriverSQLite:
		return OpenSQLite(ctx, cfg.SQLitePath)
	case DriverRedis:
		if cfg.RedisAddr == "" {
			return nil, errors.New("storage: redis driver requires an address")
		}
		return OpenRedis(ctx, cfg.RedisAddr, cfg.RedisKeyPrefix)
	case DriverSpanner:
		if cfg.SpannerDatabase == "" {
			return nil, errors.New("storage: spanner driver requires a database")
		}
		return OpenSpanner(ctx, cfg.SpannerDatabase)
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
	}
}
