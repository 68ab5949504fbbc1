// Package favorites keeps the set of font names a user has starred.
//
// The set lives in memory and is mirrored to a [kv.Store] under a single key as
// a JSON array of names. It is read once by [Store.Load] and written back in
// full after every [Store.Toggle], so the persisted copy never lags behind the
// in-memory one by more than the toggle in flight.
package favorites

import (
	"context"
	"encoding/json"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fontshelf/pkg/errors"
	"github.com/matzehuels/fontshelf/pkg/kv"
)

// Key is the storage key holding the favorites array.
const Key = "fontshelf.favorites"

// Store is a persisted set of favorite font names. It is safe for concurrent use.
type Store struct {
	backend kv.Store
	logger  *log.Logger

	// toggleMu serializes toggles from mutation through backend.Set, so
	// snapshots reach the backend in the order they were taken.
	toggleMu sync.Mutex

	mu    sync.RWMutex
	names map[string]struct{}
}

// New creates an empty store backed by backend. Call Load to read the
// persisted set. A nil logger uses log.Default().
func New(backend kv.Store, logger *log.Logger) *Store {
	if backend == nil {
		backend = kv.NewNullStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Store{backend: backend, logger: logger, names: make(map[string]struct{})}
}

// Load replaces the in-memory set with the persisted one. Missing or
// unparsable data yields an empty set and is never an error for the caller;
// problems are logged.
func (s *Store) Load(ctx context.Context) {
	names := make(map[string]struct{})
	defer func() {
		s.mu.Lock()
		s.names = names
		s.mu.Unlock()
	}()

	data, ok, err := s.backend.Get(ctx, Key)
	if err != nil {
		s.logger.Warn("could not read favorites, starting empty", "err", err)
		return
	}
	if !ok {
		return
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		s.logger.Warn("ignoring malformed favorites", "err", err)
		return
	}
	for _, n := range list {
		if n != "" {
			names[n] = struct{}{}
		}
	}
	s.logger.Debug("loaded favorites", "count", len(names))
}

// Has reports whether name is a favorite.
func (s *Store) Has(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.names[name]
	return ok
}

// Len returns the number of favorites.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.names)
}

// Names returns the favorites in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked()
}

// Toggle adds name if absent or removes it if present, then persists the
// whole set. It returns whether name is a favorite afterwards.
//
// The in-memory change stands even if persisting fails; the returned error
// (code STORAGE_ERROR) is for logging only.
func (s *Store) Toggle(ctx context.Context, name string) (bool, error) {
	if err := errors.ValidateFontName(name); err != nil {
		return s.Has(name), err
	}

	s.toggleMu.Lock()
	defer s.toggleMu.Unlock()

	s.mu.Lock()
	_, had := s.names[name]
	if had {
		delete(s.names, name)
	} else {
		s.names[name] = struct{}{}
	}
	snapshot := s.sortedLocked()
	s.mu.Unlock()

	return !had, s.persist(ctx, snapshot)
}

func (s *Store) persist(ctx context.Context, names []string) error {
	data, err := json.Marshal(names)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode favorites")
	}
	if err := s.backend.Set(ctx, Key, data); err != nil {
		s.logger.Warn("could not persist favorites", "err", err)
		return errors.Wrap(errors.ErrCodeStorage, err, "persist favorites")
	}
	return nil
}

// sortedLocked returns the names sorted; s.mu must be held.
func (s *Store) sortedLocked() []string {
	out := make([]string, 0, len(s.names))
	for n := range s.names {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}
