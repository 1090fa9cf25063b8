// Package kvstore is the persistent key-value store behind the cart and
// auth containers. Values are opaque JSON blobs; the containers own the
// shape, the store only round-trips bytes.
//
// Four backends are provided: in-memory (tests), a file per key,
// SQLite, and Redis.
package kvstore

import (
	"context"
	"fmt"
)

// Well-known keys. The storefront persists exactly two logical values.
const (
	KeyCart    = "shopping-cart"
	KeySession = "auth-session"
)

// Store is the persistence contract. Load reports presence explicitly
// so an absent key is distinguishable from an empty value.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Config selects and parameterizes a backend.
type Config struct {
	Backend   string // memory, file, sqlite, redis
	Path      string // file: directory; sqlite: database file
	RedisAddr string
	RedisDB   int
	Prefix    string // redis key namespace
}

// Open constructs the configured backend.
func Open(cfg Config) (Store, error) {
	switch cfg.Backend {
	case "", "file":
		return NewFile(cfg.Path)
	case "sqlite":
		return NewSQLite(cfg.Path)
	case "redis":
		return NewRedis(cfg.RedisAddr, cfg.RedisDB, cfg.Prefix)
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
