package kv

import "context"

// ScopedStore prefixes every key of an inner store.
// The server uses it to give each visitor a private key space:
//
//	visitorStore := kv.Scoped(shared, "visitor:"+id+":")
type ScopedStore struct {
	inner  Store
	prefix string
}

// Scoped wraps inner so that all keys are prefixed with prefix.
// Closing a scoped store does not close the inner store.
func Scoped(inner Store, prefix string) *ScopedStore {
	if inner == nil {
		inner = NewNullStore()
	}
	return &ScopedStore{inner: inner, prefix: prefix}
}

// Get implements Store.
func (s *ScopedStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.prefix+key)
}

// Set implements Store.
func (s *ScopedStore) Set(ctx context.Context, key string, data []byte) error {
	return s.inner.Set(ctx, s.prefix+key, data)
}

// Delete implements Store.
func (s *ScopedStore) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.prefix+key)
}

// Close is a no-op; the inner store is owned by the caller.
func (s *ScopedStore) Close() error { return nil }

// Prefix returns the key prefix.
func (s *ScopedStore) Prefix() string { return s.prefix }

var _ Store = (*ScopedStore)(nil)
