// Package catalog loads the list of fonts shown in the gallery.
//
// A catalog is a JSON array of font descriptors:
//
//	[
//	  {"name": "Retro", "category": "serif",   "class": "f-retro"},
//	  {"name": "Neon",  "category": "display", "class": "f-neon"}
//	]
//
// The name is the display label (and the text copied to the clipboard), the
// category is the filter key, and the class is the style selector token that
// front ends map to a CSS class or a terminal style.
//
// Catalogs come from a [Source]: a local file, an HTTP URL, or the catalog
// embedded in the binary. A file source can be watched with [Watch] so the
// gallery picks up edits without restarting.
package catalog

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/matzehuels/fontshelf/pkg/errors"
)

// Font describes one font in the catalog. Values are immutable once loaded.
type Font struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Class    string `json:"class"`
}

// Catalog is an ordered list of fonts. Order is the source order and is
// preserved by every filter.
type Catalog []Font

// Len returns the number of fonts.
func (c Catalog) Len() int { return len(c) }

// Categories returns the distinct categories in first-seen order.
func (c Catalog) Categories() []string {
	seen := make(map[string]bool, len(c))
	var out []string
	for _, f := range c {
		if !seen[f.Category] {
			seen[f.Category] = true
			out = append(out, f.Category)
		}
	}
	return out
}

// Lookup returns the font with the given name.
func (c Catalog) Lookup(name string) (Font, bool) {
	for _, f := range c {
		if f.Name == name {
			return f, true
		}
	}
	return Font{}, false
}

// Skipped records a descriptor dropped while reading a catalog.
type Skipped struct {
	Index int    // Position in the source array
	Name  string // Name as written, possibly blank
	Err   error
}

// checkFont validates a single descriptor.
func checkFont(f Font) error {
	if err := errors.ValidateFontName(f.Name); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidCatalog, err, "font %q", f.Name)
	}
	if strings.TrimSpace(f.Category) == "" {
		return errors.New(errors.ErrCodeInvalidCatalog, "font %q has no category", f.Name)
	}
	if err := errors.ValidateClassToken(f.Class); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidCatalog, err, "font %q", f.Name)
	}
	return nil
}

// Sanitize returns the usable descriptors in source order. Invalid entries
// and repeated names (favorites are keyed by name, the first one wins) are
// dropped and reported.
func (c Catalog) Sanitize() (Catalog, []Skipped) {
	out := make(Catalog, 0, len(c))
	var skipped []Skipped
	seen := make(map[string]int, len(c))
	for i, f := range c {
		if err := checkFont(f); err != nil {
			skipped = append(skipped, Skipped{Index: i, Name: f.Name, Err: err})
			continue
		}
		if j, dup := seen[f.Name]; dup {
			err := errors.New(errors.ErrCodeInvalidCatalog, "font %q listed twice (#%d and #%d)", f.Name, j, i)
			skipped = append(skipped, Skipped{Index: i, Name: f.Name, Err: err})
			continue
		}
		seen[f.Name] = i
		out = append(out, f)
	}
	return out, skipped
}

// Validate reports the first descriptor Sanitize would drop.
func (c Catalog) Validate() error {
	if _, skipped := c.Sanitize(); len(skipped) > 0 {
		return skipped[0].Err
	}
	return nil
}

// Decode reads a catalog from r. Only a document that is not a JSON array
// fails; bad entries are dropped and returned as skipped.
func Decode(r io.Reader) (Catalog, []Skipped, error) {
	var c Catalog
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, nil, errors.Wrap(errors.ErrCodeInvalidCatalog, err, "decode catalog")
	}
	if c == nil {
		return nil, nil, errors.New(errors.ErrCodeInvalidCatalog, "catalog must be a JSON array")
	}
	kept, skipped := c.Sanitize()
	return kept, skipped, nil
}

// ReadJSON is Decode without the skipped report.
func ReadJSON(r io.Reader) (Catalog, error) {
	c, _, err := Decode(r)
	return c, err
}

// WriteJSON encodes c as an indented JSON array.
func WriteJSON(w io.Writer, c Catalog) error {
	if c == nil {
		c = Catalog{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	return nil
}
