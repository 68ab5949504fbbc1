// Package fontscan builds a font catalog from a directory of font files.
//
// Each .ttf or .otf file is parsed with golang.org/x/image/font/sfnt. Files of
// the same family (Regular, Bold, Italic...) collapse into one descriptor whose
// category is guessed from the family name and glyph metrics.
package fontscan

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/fontshelf/pkg/catalog"
	"github.com/matzehuels/fontshelf/pkg/errors"
)

// Categories produced by Classify.
const (
	Serif       = "serif"
	SansSerif   = "sans-serif"
	Monospace   = "monospace"
	Display     = "display"
	Handwriting = "handwriting"
)

// DefaultConcurrency bounds the number of files parsed at once.
const DefaultConcurrency = 8

// Options configures a scan.
type Options struct {
	Concurrency int         // Files parsed in parallel (default DefaultConcurrency)
	Logger      *log.Logger // Receives skip notices; nil means log.Default()

	// Progress, if set, is called after each file with the number of files
	// handled so far. It may be called from several goroutines.
	Progress func(done, total int)
}

// Face is what a single font file contributes.
type Face struct {
	Path     string
	Family   string
	Category string
}

// Dir scans root recursively and returns one descriptor per font family,
// sorted by name. Files that fail to parse are skipped with a warning.
func Dir(ctx context.Context, root string, opts Options) (catalog.Catalog, error) {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	paths, err := fontFiles(root)
	if err != nil {
		return nil, err
	}

	var (
		mu    sync.Mutex
		faces []Face
		done  atomic.Int64
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for _, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			face, err := ReadFile(p)
			if opts.Progress != nil {
				opts.Progress(int(done.Add(1)), len(paths))
			}
			if err != nil {
				logger.Warn("skipping font file", "path", p, "err", err)
				return nil
			}
			mu.Lock()
			faces = append(faces, face)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c := Merge(faces)
	logger.Debug("scanned fonts", "dir", root, "files", len(paths), "families", c.Len())
	return c, nil
}

func fontFiles(root string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".ttf", ".otf":
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "font directory %s", root)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "walk %s", root)
	}
	slices.Sort(out)
	return out, nil
}

// ReadFile parses one font file.
func ReadFile(path string) (Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Face{}, err
	}
	face, err := Parse(data)
	if err != nil {
		return Face{}, err
	}
	face.Path = path
	return face, nil
}

// Parse reads the family name and category of an in-memory font.
func Parse(data []byte) (Face, error) {
	f, err := sfnt.Parse(data)
	if err != nil {
		return Face{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse font")
	}

	var buf sfnt.Buffer
	family, err := f.Name(&buf, sfnt.NameIDTypographicFamily)
	if err != nil || family == "" {
		family, err = f.Name(&buf, sfnt.NameIDFamily)
	}
	if err != nil || strings.TrimSpace(family) == "" {
		return Face{}, errors.New(errors.ErrCodeInvalidInput, "font has no family name")
	}
	family = strings.TrimSpace(family)

	return Face{
		Family:   family,
		Category: Classify(family, fixedPitch(f, &buf)),
	}, nil
}

// fixedPitch compares the advances of a narrow and a wide glyph.
func fixedPitch(f *sfnt.Font, buf *sfnt.Buffer) bool {
	ppem := fixed.I(int(f.UnitsPerEm()))
	var adv [2]fixed.Int26_6
	for i, r := range []rune{'i', 'W'} {
		idx, err := f.GlyphIndex(buf, r)
		if err != nil || idx == 0 {
			return false
		}
		a, err := f.GlyphAdvance(buf, idx, ppem, font.HintingNone)
		if err != nil {
			return false
		}
		adv[i] = a
	}
	return adv[0] == adv[1]
}

var nameHints = []struct {
	category string
	words    []string
}{
	{Monospace, []string{"mono", "code", "courier", "console", "terminal"}},
	{Handwriting, []string{"script", "hand", "brush", "marker", "pacifico", "satisfy"}},
	{Display, []string{"display", "poster", "headline", "neon", "lobster", "bebas"}},
	{SansSerif, []string{"sans", "grotesk", "grotesque", "gothic"}},
	{Serif, []string{"serif", "garamond", "baskerville", "times", "roman", "slab"}},
}

// Classify guesses a category from the family name. mono marks fonts whose
// glyphs share one advance width.
func Classify(family string, mono bool) string {
	if mono {
		return Monospace
	}
	name := lower.String(family)
	for _, h := range nameHints {
		for _, w := range h.words {
			if strings.Contains(name, w) {
				return h.category
			}
		}
	}
	return SansSerif
}

// Merge collapses faces into one descriptor per family, sorted by name. The
// first face seen (in path order) decides the category.
func Merge(faces []Face) catalog.Catalog {
	slices.SortFunc(faces, func(a, b Face) int { return strings.Compare(a.Path, b.Path) })

	seen := make(map[string]bool, len(faces))
	out := make(catalog.Catalog, 0, len(faces))
	for _, f := range faces {
		if seen[f.Family] {
			continue
		}
		seen[f.Family] = true
		out = append(out, catalog.Font{
			Name:     f.Family,
			Category: f.Category,
			Class:    Class(f.Family),
		})
	}
	slices.SortFunc(out, func(a, b catalog.Font) int { return strings.Compare(a.Name, b.Name) })
	return out
}
