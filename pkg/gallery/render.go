// Package gallery turns the catalog, the active filter, the favorites and the
// sample text into the card grid shown to the user.
//
// [Render] is a pure function over an immutable [View] snapshot: every call
// builds the grid from scratch, so no card from a previous render can survive.
// Front ends (the terminal UI and the HTTP server) only draw the returned
// [Grid] and route card actions back to [State].
package gallery

import (
	"strings"

	"github.com/matzehuels/fontshelf/pkg/catalog"
	"github.com/matzehuels/fontshelf/pkg/fonts"
)

// Favorite glyphs and labels.
const (
	GlyphFavorite    = "★"
	GlyphNotFavorite = "☆"

	LabelRemoveFavorite = "Remove from favorites"
	LabelAddFavorite    = "Add to favorites"
)

// View is an immutable snapshot of everything a render depends on.
type View struct {
	Catalog     catalog.Catalog
	Filter      Filter
	IsFavorite  func(name string) bool
	Input       string // Raw sample text input
	DefaultText string // Used when Input is blank; empty means fonts.DefaultSampleText
}

// Card is the declarative description of one font card.
type Card struct {
	Font     catalog.Font `json:"font"`
	Sample   string       `json:"sample"`
	Favorite bool         `json:"favorite"`
	Glyph    string       `json:"glyph"`
	Label    string       `json:"label"` // Accessible label of the favorite control
	Title    string       `json:"title"` // Tooltip of the card
}

// Grid is the rendered result.
type Grid struct {
	Filter Filter `json:"filter"`
	Count  int    `json:"count"`
	Sample string `json:"sample"`
	Cards  []Card `json:"cards"`
}

// SampleText returns the trimmed input, or def when the input is blank.
func SampleText(input, def string) string {
	if t := strings.TrimSpace(input); t != "" {
		return t
	}
	if def == "" {
		return fonts.DefaultSampleText
	}
	return def
}

// Render builds the grid for v. Cards keep catalog order; an empty working
// set yields a grid with Count 0 and no cards.
func Render(v View) Grid {
	isFav := v.IsFavorite
	if isFav == nil {
		isFav = func(string) bool { return false }
	}
	filter := v.Filter
	if filter == "" {
		filter = DefaultFilter
	}

	sample := SampleText(v.Input, v.DefaultText)
	cards := make([]Card, 0, len(v.Catalog))
	for _, f := range v.Catalog {
		if !filter.Match(f, isFav) {
			continue
		}
		cards = append(cards, NewCard(f, sample, isFav(f.Name)))
	}

	return Grid{
		Filter: filter,
		Count:  len(cards),
		Sample: sample,
		Cards:  cards,
	}
}

// NewCard describes a single card.
func NewCard(f catalog.Font, sample string, favorite bool) Card {
	c := Card{
		Font:     f,
		Sample:   sample,
		Favorite: favorite,
		Glyph:    GlyphNotFavorite,
		Label:    LabelAddFavorite,
		Title:    "Copy \"" + f.Name + "\" to clipboard",
	}
	if favorite {
		c.Glyph = GlyphFavorite
		c.Label = LabelRemoveFavorite
	}
	return c
}

// Names returns the font names of the grid's cards in order.
func (g Grid) Names() []string {
	out := make([]string, len(g.Cards))
	for i, c := range g.Cards {
		out[i] = c.Font.Name
	}
	return out
}
