package gallery

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fontshelf/pkg/catalog"
	"github.com/matzehuels/fontshelf/pkg/clipboard"
	"github.com/matzehuels/fontshelf/pkg/favorites"
	"github.com/matzehuels/fontshelf/pkg/observability"
)

// State is the application state of one gallery session: the loaded catalog,
// the active filter, the favorites and the sample text input. Front ends
// mutate it only through its methods and draw the result of [State.Grid].
// It is safe for concurrent use.
type State struct {
	favs        *favorites.Store
	defaultText string
	logger      *log.Logger

	mu      sync.RWMutex
	catalog catalog.Catalog
	filter  Filter
	input   string
}

// NewState creates a session with an empty catalog and the default filter.
// defaultText is shown when the input is blank (empty means the built-in
// placeholder).
func NewState(favs *favorites.Store, defaultText string, logger *log.Logger) *State {
	if logger == nil {
		logger = log.Default()
	}
	if favs == nil {
		favs = favorites.New(nil, logger)
	}
	return &State{
		favs:        favs,
		defaultText: SampleText("", defaultText),
		logger:      logger,
		filter:      DefaultFilter,
	}
}

// LoadCatalog loads the catalog from src. On success the catalog is replaced
// and the filter reset to the default. On failure the error is logged and
// returned, and the current catalog (empty at startup) is kept.
func (s *State) LoadCatalog(ctx context.Context, src catalog.Source) error {
	start := time.Now()
	c, err := catalog.Load(ctx, src, s.logger)
	observability.Gallery().OnCatalogLoad(ctx, src.Name(), c.Len(), time.Since(start), err)
	if err != nil {
		s.logger.Error("could not load font catalog", "source", src.Name(), "err", err)
		return err
	}
	s.logger.Debug("loaded font catalog", "source", src.Name(), "fonts", c.Len())
	s.SetCatalog(c)
	return nil
}

// SetCatalog replaces the catalog and resets the filter to the default.
func (s *State) SetCatalog(c catalog.Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = c
	s.filter = DefaultFilter
}

// ReplaceCatalog swaps in a reloaded catalog. The filter is kept while it is
// still one of the catalog's filters, otherwise it falls back to the default.
func (s *State) ReplaceCatalog(c catalog.Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog = c
	if !slices.Contains(Filters(c), s.filter) {
		s.filter = DefaultFilter
	}
}

// Catalog returns the current catalog.
func (s *State) Catalog() catalog.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

// Filter returns the active filter.
func (s *State) Filter() Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// SetFilter changes the active filter.
func (s *State) SetFilter(f Filter) {
	if f == "" {
		f = DefaultFilter
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = f
}

// Input returns the raw sample text input.
func (s *State) Input() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.input
}

// SetInput records the raw sample text input.
func (s *State) SetInput(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = text
}

// ClearInput resets the input to the default text and returns it.
func (s *State) ClearInput() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.input = s.defaultText
	return s.input
}

// DefaultText returns the placeholder used for blank input.
func (s *State) DefaultText() string {
	return s.defaultText
}

// Favorites returns the favorites store.
func (s *State) Favorites() *favorites.Store {
	return s.favs
}

// ToggleFavorite flips the favorite status of name. rerender reports whether
// the visible grid depends on the change, which is the case while the
// favorites filter is active. Persistence failures are logged, not returned.
func (s *State) ToggleFavorite(ctx context.Context, name string) (favorited, rerender bool) {
	favorited, err := s.favs.Toggle(ctx, name)
	observability.Gallery().OnFavoriteToggle(ctx, name, favorited, err)
	if err != nil {
		s.logger.Warn("favorite toggle not saved", "font", name, "err", err)
	}
	return favorited, s.Filter() == Favorites
}

// Copier puts text on the clipboard. *clipboard.Writer implements it.
type Copier interface {
	CopyResult(ctx context.Context, text string) clipboard.Result
}

// Copy copies a font name, the action behind a card click. Failures are
// logged by the writer; the result tells the front end whether to show the
// copied feedback.
func (s *State) Copy(ctx context.Context, w Copier, name string) clipboard.Result {
	res := w.CopyResult(ctx, name)
	observability.Gallery().OnCopy(ctx, name, res.Strategy, res.OK)
	if !res.OK {
		s.logger.Warn("font name not copied", "font", name)
	}
	return res
}

// View returns an immutable snapshot for rendering. The favorites are copied,
// so later toggles do not affect a snapshot already taken.
func (s *State) View() View {
	favs := make(map[string]bool, s.favs.Len())
	for _, n := range s.favs.Names() {
		favs[n] = true
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return View{
		Catalog:     s.catalog,
		Filter:      s.filter,
		IsFavorite:  func(name string) bool { return favs[name] },
		Input:       s.input,
		DefaultText: s.defaultText,
	}
}

// Grid renders the current state.
func (s *State) Grid() Grid {
	return Render(s.View())
}
