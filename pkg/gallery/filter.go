package gallery

import (
	"strings"

	"github.com/matzehuels/fontshelf/pkg/catalog"
	"github.com/matzehuels/fontshelf/pkg/errors"
)

// Filter selects which catalog entries are rendered: every font, the user's
// favorites, or the fonts of one category.
type Filter string

// Reserved filter values. Any other value is a category name.
const (
	All       Filter = "all"
	Favorites Filter = "favorites"
)

// DefaultFilter is the filter applied when a catalog is (re)loaded.
const DefaultFilter = All

// Category returns the filter for a single category.
func Category(name string) Filter {
	return Filter(name)
}

// ParseFilter parses a filter token. The empty string selects All. Tokens are
// case-sensitive because category names come verbatim from the catalog.
func ParseFilter(s string) (Filter, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "", string(All):
		return All, nil
	case string(Favorites):
		return Favorites, nil
	}
	if strings.ContainsFunc(s, func(r rune) bool { return r < ' ' }) {
		return "", errors.New(errors.ErrCodeInvalidFilter, "invalid filter %q", s)
	}
	return Category(s), nil
}

// IsCategory reports whether f selects a single category.
func (f Filter) IsCategory() bool {
	return f != All && f != Favorites && f != ""
}

// String returns the filter token.
func (f Filter) String() string {
	if f == "" {
		return string(All)
	}
	return string(f)
}

// Match reports whether font passes the filter.
func (f Filter) Match(font catalog.Font, isFavorite func(string) bool) bool {
	switch f {
	case All, "":
		return true
	case Favorites:
		return isFavorite != nil && isFavorite(font.Name)
	default:
		return font.Category == string(f)
	}
}

// Filters returns the filter controls for a catalog in display order:
// all, each category in first-seen order, then favorites.
func Filters(c catalog.Catalog) []Filter {
	cats := c.Categories()
	out := make([]Filter, 0, len(cats)+2)
	out = append(out, All)
	for _, cat := range cats {
		out = append(out, Category(cat))
	}
	return append(out, Favorites)
}
