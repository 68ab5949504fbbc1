// Package kv provides small durable key-value stores.
//
// fontshelf persists very little: one JSON document per favorites owner. The
// [Store] interface keeps that persistence pluggable so the same favorites code
// runs against a local file, an embedded SQLite database, a shared Redis
// instance, or memory in tests.
//
// Implementations:
//   - [FileStore]: one JSON file per key under a directory (CLI default)
//   - [SQLiteStore]: a single table in a SQLite database
//   - [RedisStore]: plain string keys in Redis, for multi-instance servers
//   - [MemoryStore]: process-local map
//   - [NullStore]: discards writes
//
// Use [Scoped] to give each owner (for example, each HTTP visitor) a private
// key space inside a shared store.
package kv

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
)

// ErrClosed is returned by operations on a store after Close.
var ErrClosed = errors.New("kv: store closed")

// Store is the interface implemented by all backends.
type Store interface {
	// Get returns the value for key. A missing key returns (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key, replacing any previous value.
	Set(ctx context.Context, key string, data []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the store.
	Close() error
}

// Hash computes a SHA-256 hash of the input data.
// Returns the full 64-character hex string.
func Hash(data []byte) string {
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
