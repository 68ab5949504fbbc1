package gallery

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/fontshelf/pkg/catalog"
	"github.com/matzehuels/fontshelf/pkg/clipboard"
	"github.com/matzehuels/fontshelf/pkg/errors"
	"github.com/matzehuels/fontshelf/pkg/favorites"
	"github.com/matzehuels/fontshelf/pkg/fonts"
	"github.com/matzehuels/fontshelf/pkg/kv"
)

var twoFonts = catalog.Catalog{
	{Name: "Retro", Category: "serif", Class: "f-retro"},
	{Name: "Neon", Category: "display", Class: "f-neon"},
}

var mixed = catalog.Catalog{
	{Name: "Retro", Category: "serif", Class: "f-retro"},
	{Name: "Neon", Category: "display", Class: "f-neon"},
	{Name: "Garamond", Category: "serif", Class: "f-garamond"},
	{Name: "Fira Code", Category: "monospace", Class: "f-fira-code"},
	{Name: "Lobster", Category: "display", Class: "f-lobster"},
}

func favSet(names ...string) func(string) bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return func(n string) bool { return set[n] }
}

func testLogger() *log.Logger {
	return log.NewWithOptions(&bytes.Buffer{}, log.Options{})
}

func TestRenderCategoryScenario(t *testing.T) {
	g := Render(View{Catalog: twoFonts, Filter: Category("serif")})

	if diff := cmp.Diff([]string{"Retro"}, g.Names()); diff != "" {
		t.Errorf("cards mismatch:\n%s", diff)
	}
	if g.Count != 1 {
		t.Errorf("Count = %d, want 1", g.Count)
	}
}

func TestRenderFavoritesScenario(t *testing.T) {
	g := Render(View{Catalog: twoFonts, Filter: Favorites, IsFavorite: favSet("Neon")})

	if diff := cmp.Diff([]string{"Neon"}, g.Names()); diff != "" {
		t.Errorf("cards mismatch:\n%s", diff)
	}
	if !g.Cards[0].Favorite || g.Cards[0].Glyph != GlyphFavorite || g.Cards[0].Label != LabelRemoveFavorite {
		t.Errorf("favorite card = %+v", g.Cards[0])
	}
}

func TestRenderCountMatchesPredicate(t *testing.T) {
	isFav := favSet("Neon", "Fira Code")
	for _, f := range Filters(mixed) {
		t.Run(f.String(), func(t *testing.T) {
			want := 0
			for _, font := range mixed {
				if f.Match(font, isFav) {
					want++
				}
			}
			g := Render(View{Catalog: mixed, Filter: f, IsFavorite: isFav})
			if g.Count != want || len(g.Cards) != want {
				t.Errorf("Count = %d, cards = %d, want %d", g.Count, len(g.Cards), want)
			}
		})
	}
}

func TestRenderKeepsCatalogOrder(t *testing.T) {
	g := Render(View{Catalog: mixed, Filter: Category("display")})
	if diff := cmp.Diff([]string{"Neon", "Lobster"}, g.Names()); diff != "" {
		t.Errorf("order mismatch:\n%s", diff)
	}

	g = Render(View{Catalog: mixed, Filter: All})
	if diff := cmp.Diff([]string{"Retro", "Neon", "Garamond", "Fira Code", "Lobster"}, g.Names()); diff != "" {
		t.Errorf("order mismatch:\n%s", diff)
	}
}

func TestRenderEmpty(t *testing.T) {
	tests := []struct {
		name string
		view View
	}{
		{"empty catalog", View{Filter: All}},
		{"unknown category", View{Catalog: mixed, Filter: Category("blackletter")}},
		{"no favorites", View{Catalog: mixed, Filter: Favorites}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Render(tt.view)
			if g.Count != 0 || len(g.Cards) != 0 {
				t.Errorf("grid = %+v, want empty", g)
			}
			if g.Cards == nil {
				t.Error("Cards should be an empty slice, not nil")
			}
		})
	}
}

func TestRenderSampleText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		def   string
		want  string
	}{
		{"typed", "  Hello  ", "", "Hello"},
		{"blank uses builtin", "   ", "", fonts.DefaultSampleText},
		{"blank uses configured", "", "Sphinx of black quartz", "Sphinx of black quartz"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := Render(View{Catalog: twoFonts, Input: tt.input, DefaultText: tt.def})
			if g.Sample != tt.want {
				t.Errorf("Sample = %q, want %q", g.Sample, tt.want)
			}
			for _, c := range g.Cards {
				if c.Sample != tt.want {
					t.Errorf("card %s sample = %q, want %q", c.Font.Name, c.Sample, tt.want)
				}
			}
		})
	}
}

func TestNewCard(t *testing.T) {
	c := NewCard(twoFonts[0], "abc", false)
	if c.Glyph != GlyphNotFavorite || c.Label != LabelAddFavorite || c.Favorite {
		t.Errorf("non-favorite card = %+v", c)
	}
	if c.Font.Class != "f-retro" {
		t.Errorf("card class = %q", c.Font.Class)
	}
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in      string
		want    Filter
		wantErr bool
	}{
		{"", All, false},
		{"all", All, false},
		{" favorites ", Favorites, false},
		{"serif", Category("serif"), false},
		{"sans-serif", Category("sans-serif"), false},
		{"bad\x01", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFilter(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFilter(%q) error = %v", tt.in, err)
			continue
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFilter) {
			t.Errorf("ParseFilter(%q) code = %v", tt.in, errors.GetCode(err))
		}
		if got != tt.want {
			t.Errorf("ParseFilter(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFilters(t *testing.T) {
	want := []Filter{All, "serif", "display", "monospace", Favorites}
	if diff := cmp.Diff(want, Filters(mixed)); diff != "" {
		t.Errorf("Filters mismatch:\n%s", diff)
	}
	if !Category("serif").IsCategory() || All.IsCategory() || Favorites.IsCategory() {
		t.Error("IsCategory misclassified a filter")
	}
}

func newState(t *testing.T, backend kv.Store) *State {
	t.Helper()
	favs := favorites.New(backend, testLogger())
	favs.Load(context.Background())
	return NewState(favs, "", testLogger())
}

func TestStateLoadCatalog(t *testing.T) {
	ctx := context.Background()
	s := newState(t, kv.NewMemoryStore())
	s.SetFilter(Favorites)

	path := filepath.Join(t.TempDir(), "fonts.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"Retro","category":"serif","class":"f-retro"}]`), 0o644))

	require.NoError(t, s.LoadCatalog(ctx, catalog.FileSource{Path: path}))
	require.Equal(t, 1, s.Catalog().Len())
	require.Equal(t, DefaultFilter, s.Filter(), "loading a catalog resets the filter")
	require.Equal(t, 1, s.Grid().Count)
}

func TestStateLoadCatalogFailureKeepsEmpty(t *testing.T) {
	ctx := context.Background()
	s := newState(t, kv.NewMemoryStore())

	path := filepath.Join(t.TempDir(), "fonts.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":`), 0o644))

	err := s.LoadCatalog(ctx, catalog.FileSource{Path: path})
	require.Error(t, err)
	require.Equal(t, 0, s.Catalog().Len())

	g := s.Grid()
	require.Equal(t, 0, g.Count)
	require.Empty(t, g.Cards)
}

func TestStateToggleFavoriteRerender(t *testing.T) {
	ctx := context.Background()
	s := newState(t, kv.NewMemoryStore())
	s.SetCatalog(twoFonts)

	on, rerender := s.ToggleFavorite(ctx, "Neon")
	require.True(t, on)
	require.False(t, rerender, "no rerender needed outside the favorites view")

	s.SetFilter(Favorites)
	require.Equal(t, []string{"Neon"}, s.Grid().Names())

	on, rerender = s.ToggleFavorite(ctx, "Neon")
	require.False(t, on)
	require.True(t, rerender)
	require.Empty(t, s.Grid().Names(), "unfavorited font disappears from the favorites view")
}

func TestStateReplaceCatalogKeepsFilter(t *testing.T) {
	s := newState(t, kv.NewMemoryStore())
	s.SetCatalog(twoFonts)

	s.SetFilter(Category("serif"))
	s.ReplaceCatalog(append(catalog.Catalog{{Name: "Mono", Category: "serif", Class: "f-mono"}}, twoFonts...))
	require.Equal(t, Category("serif"), s.Filter())
	require.Equal(t, []string{"Mono", "Retro"}, s.Grid().Names())

	s.SetFilter(Favorites)
	s.ReplaceCatalog(twoFonts[1:])
	require.Equal(t, Favorites, s.Filter(), "favorites is a filter of every catalog")

	s.SetFilter(Category("display"))
	s.ReplaceCatalog(twoFonts[:1])
	require.Equal(t, DefaultFilter, s.Filter())

	s.SetFilter(Category("serif"))
	s.SetCatalog(twoFonts)
	require.Equal(t, DefaultFilter, s.Filter(), "a fresh load starts from the default filter")
}

func TestStateViewIsSnapshot(t *testing.T) {
	ctx := context.Background()
	s := newState(t, kv.NewMemoryStore())
	s.SetCatalog(twoFonts)

	v := s.View()
	s.ToggleFavorite(ctx, "Retro")
	s.SetInput("changed")

	g := Render(v)
	require.False(t, g.Cards[0].Favorite, "snapshot must not see later toggles")
	require.Equal(t, fonts.DefaultSampleText, g.Sample)
}

func TestStateClearInput(t *testing.T) {
	s := newState(t, nil)
	s.SetCatalog(twoFonts)
	s.SetInput("Hello")
	require.Equal(t, "Hello", s.Grid().Sample)

	got := s.ClearInput()
	require.Equal(t, fonts.DefaultSampleText, got)

	g := s.Grid()
	require.Equal(t, fonts.DefaultSampleText, g.Sample)
	for _, c := range g.Cards {
		require.Equal(t, fonts.DefaultSampleText, c.Sample)
	}
}

func TestStateFavoritesPersistAcrossSessions(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryStore()

	first := newState(t, backend)
	first.SetCatalog(twoFonts)
	first.ToggleFavorite(ctx, "Neon")

	second := newState(t, backend)
	second.SetCatalog(twoFonts)
	second.SetFilter(Favorites)
	require.Equal(t, []string{"Neon"}, second.Grid().Names())
}

type fakeCopier struct {
	ok     bool
	copied []string
}

func (f *fakeCopier) CopyResult(_ context.Context, text string) clipboard.Result {
	f.copied = append(f.copied, text)
	if !f.ok {
		return clipboard.Result{Fallback: true}
	}
	return clipboard.Result{OK: true, Strategy: "fake"}
}

func TestStateCopy(t *testing.T) {
	ctx := context.Background()
	s := newState(t, kv.NewMemoryStore())
	s.SetCatalog(twoFonts)

	w := &fakeCopier{ok: true}
	res := s.Copy(ctx, w, "Retro")
	require.True(t, res.OK)
	require.Equal(t, []string{"Retro"}, w.copied)
	require.False(t, s.Favorites().Has("Retro"), "copying must not toggle the favorite")

	failing := &fakeCopier{}
	require.False(t, s.Copy(ctx, failing, "Neon").OK)
}
