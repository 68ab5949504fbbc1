package kv

import (
	"context"
	"fmt"
	"path/filepath"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
	BackendNone   = "none"
)

// Options selects and configures a backend.
type Options struct {
	Backend string      // One of the Backend* constants; empty means file
	Path    string      // Directory (file) or database file (sqlite)
	Redis   RedisConfig // Used by the redis backend
}

// Open creates the store described by opts.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendFile:
		return NewFileStore(opts.Path)
	case BackendSQLite:
		path := opts.Path
		if path != ":memory:" && filepath.Ext(path) == "" {
			path = filepath.Join(path, "fontshelf.db")
		}
		return NewSQLiteStore(ctx, path)
	case BackendRedis:
		return NewRedisStore(ctx, opts.Redis)
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendNone:
		return NewNullStore(), nil
	default:
		return nil, fmt.Errorf("kv: unknown backend %q (want file, sqlite, redis, memory or none)", opts.Backend)
	}
}
