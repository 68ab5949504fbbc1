package fontscan

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/fontshelf/pkg/catalog"
	"github.com/matzehuels/fontshelf/pkg/errors"
)

func TestSlug(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Fira Code", "fira-code"},
		{"JetBrains  Mono", "jetbrains-mono"},
		{"Crème Brûlée", "creme-brulee"},
		{"  Go-Regular_2 ", "go-regular-2"},
		{"★", ""},
	}
	for _, tt := range tests {
		if got := Slug(tt.in); got != tt.want {
			t.Errorf("Slug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
	if got := Class("★"); got != "f-font" {
		t.Errorf("Class fallback = %q", got)
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		family string
		mono   bool
		want   string
	}{
		{"Go", true, Monospace},
		{"Fira Code", false, Monospace},
		{"Noto Sans", false, SansSerif},
		{"Noto Serif", false, Serif},
		{"Dancing Script", false, Handwriting},
		{"Playfair Display", false, Display},
		{"Go", false, SansSerif},
	}
	for _, tt := range tests {
		if got := Classify(tt.family, tt.mono); got != tt.want {
			t.Errorf("Classify(%q, %v) = %q, want %q", tt.family, tt.mono, got, tt.want)
		}
	}
}

func TestParse(t *testing.T) {
	face, err := Parse(goregular.TTF)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if face.Family != "Go" {
		t.Errorf("Family = %q, want Go", face.Family)
	}
	if face.Category != SansSerif {
		t.Errorf("Category = %q, want %s", face.Category, SansSerif)
	}

	mono, err := Parse(gomono.TTF)
	if err != nil {
		t.Fatalf("Parse mono: %v", err)
	}
	if mono.Category != Monospace {
		t.Errorf("Go Mono category = %q, want %s", mono.Category, Monospace)
	}
}

func TestParseGarbage(t *testing.T) {
	if _, err := Parse([]byte("not a font")); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Parse(garbage) err = %v, want INVALID_INPUT", err)
	}
}

func TestDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, data []byte) {
		t.Helper()
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("go/Go-Regular.ttf", goregular.TTF)
	write("go/Go-Bold.TTF", gobold.TTF)
	write("mono/Go-Mono.ttf", gomono.TTF)
	write("broken.otf", []byte("garbage"))
	write("README.txt", []byte("ignored"))

	var calls, last atomic.Int64
	got, err := Dir(context.Background(), dir, Options{
		Concurrency: 2,
		Progress: func(done, total int) {
			calls.Add(1)
			if done == total {
				last.Store(int64(total))
			}
		},
	})
	if err != nil {
		t.Fatalf("Dir: %v", err)
	}
	if calls.Load() != 4 || last.Load() != 4 {
		t.Errorf("progress calls = %d, final total = %d, want 4 and 4", calls.Load(), last.Load())
	}

	want := catalog.Catalog{
		{Name: "Go", Category: SansSerif, Class: "f-go"},
		{Name: "Go Mono", Category: Monospace, Class: "f-go-mono"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("catalog mismatch (-want +got):\n%s", diff)
	}
	if err := got.Validate(); err != nil {
		t.Errorf("scanned catalog invalid: %v", err)
	}
}

func TestDirMissing(t *testing.T) {
	_, err := Dir(context.Background(), filepath.Join(t.TempDir(), "nope"), Options{})
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}
