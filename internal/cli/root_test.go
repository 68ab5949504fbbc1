package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/fontshelf/pkg/catalog"
	"github.com/matzehuels/fontshelf/pkg/errors"
	"github.com/matzehuels/fontshelf/pkg/favorites"
	"github.com/matzehuels/fontshelf/pkg/kv"
	"github.com/matzehuels/fontshelf/pkg/observability"
)

// newTestCLI points every XDG directory at a temporary location.
func newTestCLI(t *testing.T) *CLI {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Cleanup(observability.Reset)
	return New(io.Discard, LogInfo)
}

// execute runs the root command with args and returns what it wrote.
func execute(t *testing.T, c *CLI, args ...string) (string, error) {
	t.Helper()
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootCommandSubcommands(t *testing.T) {
	root := newTestCLI(t).RootCommand()

	got := map[string]bool{}
	for _, cmd := range root.Commands() {
		got[cmd.Name()] = true
	}
	for _, name := range []string{"browse", "serve", "list", "copy", "fav", "scan", "config", "completion"} {
		if !got[name] {
			t.Errorf("missing subcommand %q", name)
		}
	}
}

func TestConfigShowReadsFile(t *testing.T) {
	c := newTestCLI(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("debounce_ms = 120\nsample_text = \"Hi there\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := execute(t, c, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "debounce_ms = 120") {
		t.Errorf("output missing debounce override:\n%s", out)
	}
	if !strings.Contains(out, `sample_text = "Hi there"`) {
		t.Errorf("output missing sample text:\n%s", out)
	}
	if !strings.Contains(out, "toast_ms = 3000") {
		t.Errorf("output missing toast default:\n%s", out)
	}
}

func TestConfigPath(t *testing.T) {
	c := newTestCLI(t)
	out, err := execute(t, c, "config", "path")
	if err != nil {
		t.Fatalf("config path: %v", err)
	}
	want := filepath.Join(os.Getenv("XDG_CONFIG_HOME"), appName, "config.toml")
	if strings.TrimSpace(out) != want {
		t.Errorf("config path = %q, want %q", strings.TrimSpace(out), want)
	}
}

func TestInvalidConfigFails(t *testing.T) {
	c := newTestCLI(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[store]\nbackend = \"floppy\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, c, "--config", path, "fav", "list"); err == nil {
		t.Error("expected an error for an unknown store backend")
	}
}

func TestFavToggleListClear(t *testing.T) {
	c := newTestCLI(t)

	for _, name := range []string{"Neon", "Retro", "Garamond", "Retro"} {
		if _, err := execute(t, c, "fav", "toggle", name); err != nil {
			t.Fatalf("fav toggle %s: %v", name, err)
		}
	}

	out, err := execute(t, c, "fav", "list")
	if err != nil {
		t.Fatalf("fav list: %v", err)
	}
	if got := strings.Fields(out); strings.Join(got, ",") != "Garamond,Neon" {
		t.Errorf("fav list = %v, want [Garamond Neon]", got)
	}

	if _, err := execute(t, c, "fav", "clear"); err != nil {
		t.Fatalf("fav clear: %v", err)
	}
	out, err = execute(t, c, "fav", "list")
	if err != nil {
		t.Fatalf("fav list: %v", err)
	}
	if strings.TrimSpace(out) != "" {
		t.Errorf("fav list after clear = %q, want empty", out)
	}
}

func TestFavToggleRejectsBadName(t *testing.T) {
	c := newTestCLI(t)
	_, err := execute(t, c, "fav", "toggle", "a\x01b")
	if !errors.Is(err, errors.ErrCodeInvalidName) {
		t.Errorf("err = %v, want INVALID_NAME", err)
	}
}

func TestFavPath(t *testing.T) {
	c := newTestCLI(t)
	out, err := execute(t, c, "fav", "path")
	if err != nil {
		t.Fatalf("fav path: %v", err)
	}
	dir := filepath.Join(os.Getenv("XDG_DATA_HOME"), appName)
	want := filepath.Join(dir, kv.Hash([]byte(favorites.Key))+".json")
	if strings.TrimSpace(out) != want {
		t.Errorf("fav path = %q, want %q", strings.TrimSpace(out), want)
	}
}

func TestStoreLocation(t *testing.T) {
	tests := []struct {
		opts kv.Options
		want string
	}{
		{kv.Options{Backend: kv.BackendSQLite, Path: "/data"}, filepath.Join("/data", "fontshelf.db")},
		{kv.Options{Backend: kv.BackendSQLite, Path: "/data/favs.sqlite"}, "/data/favs.sqlite"},
		{kv.Options{Backend: kv.BackendRedis, Redis: kv.RedisConfig{Addr: "localhost:6379", DB: 2, Prefix: "fs:"}}, "redis://localhost:6379/2 fs:" + favorites.Key},
		{kv.Options{Backend: kv.BackendMemory}, "memory"},
	}
	for _, tt := range tests {
		if got := storeLocation(tt.opts); got != tt.want {
			t.Errorf("storeLocation(%+v) = %q, want %q", tt.opts, got, tt.want)
		}
	}
}

func TestCopyCommand(t *testing.T) {
	c := newTestCLI(t)
	copier := &recordingCopier{ok: true}
	c.copier = copier

	if _, err := execute(t, c, "copy", "Fira Code"); err != nil {
		t.Fatalf("copy: %v", err)
	}
	if len(copier.names) != 1 || copier.names[0] != "Fira Code" {
		t.Errorf("copied %v, want [Fira Code]", copier.names)
	}
}

func TestCopyCommandFailure(t *testing.T) {
	c := newTestCLI(t)
	c.copier = &recordingCopier{ok: false}

	_, err := execute(t, c, "copy", "Neon")
	if !errors.Is(err, errors.ErrCodeClipboard) {
		t.Errorf("err = %v, want CLIPBOARD_ERROR", err)
	}
}

func TestListCommand(t *testing.T) {
	c := newTestCLI(t)
	out, err := execute(t, c, "list", "--filter", "serif", "--text", "Hello")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	for _, name := range []string{"Retro", "Garamond", "Baskerville"} {
		if !strings.Contains(out, name) {
			t.Errorf("list output missing %s:\n%s", name, out)
		}
	}
	if strings.Contains(out, "Neon") {
		t.Errorf("list output should not contain display fonts:\n%s", out)
	}
}

func TestListCommandBadFilter(t *testing.T) {
	c := newTestCLI(t)
	_, err := execute(t, c, "list", "--filter", "bad\x01")
	if !errors.Is(err, errors.ErrCodeInvalidFilter) {
		t.Errorf("err = %v, want INVALID_FILTER", err)
	}
}

func TestScanCommand(t *testing.T) {
	c := newTestCLI(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Go-Regular.ttf"), goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(t.TempDir(), "fonts.json")
	if _, err := execute(t, c, "scan", dir, "-o", out); err != nil {
		t.Fatalf("scan: %v", err)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cat, err := catalog.ReadJSON(f)
	if err != nil {
		t.Fatalf("read scanned catalog: %v", err)
	}
	if cat.Len() != 1 || cat[0].Name != "Go" || cat[0].Class != "f-go" {
		t.Errorf("scanned catalog = %+v", cat)
	}

	// The scanned file feeds straight back into --catalog.
	listed, err := execute(t, c, "list", "--catalog", out)
	if err != nil {
		t.Fatalf("list --catalog: %v", err)
	}
	if !strings.Contains(listed, "Go") {
		t.Errorf("list output missing scanned font:\n%s", listed)
	}
}

func TestScanCommandEmptyDir(t *testing.T) {
	c := newTestCLI(t)
	_, err := execute(t, c, "scan", t.TempDir())
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("err = %v, want NOT_FOUND", err)
	}
}

func TestCompletionCommand(t *testing.T) {
	c := newTestCLI(t)
	out, err := execute(t, c, "completion", "fish")
	if err != nil {
		t.Fatalf("completion: %v", err)
	}
	if !strings.Contains(out, appName) {
		t.Errorf("completion script does not mention %s", appName)
	}
}
