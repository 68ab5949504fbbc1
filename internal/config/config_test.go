package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/fontshelf/pkg/errors"
	"github.com/matzehuels/fontshelf/pkg/kv"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if cfg.Debounce() != 300*time.Millisecond {
		t.Errorf("Debounce() = %v", cfg.Debounce())
	}
	if cfg.Toast() != 3*time.Second {
		t.Errorf("Toast() = %v", cfg.Toast())
	}
	if cfg.Copied() != 600*time.Millisecond {
		t.Errorf("Copied() = %v", cfg.Copied())
	}
	if cfg.ReadyFallback() != 150*time.Millisecond {
		t.Errorf("ReadyFallback() = %v", cfg.ReadyFallback())
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
catalog = "https://example.com/fonts.json"
catalog_retries = 2
sample_text = "Sphinx of black quartz"
debounce_ms = 120

[store]
backend = "sqlite"
path = "/tmp/favs.db"

[server]
addr = "127.0.0.1:9000"

[styles.f-neon]
bold = false
foreground = "#ff00ff"

[styles.f-custom]
transform = "lower"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Catalog != "https://example.com/fonts.json" || cfg.CatalogRetries != 2 {
		t.Errorf("catalog = %q retries = %d", cfg.Catalog, cfg.CatalogRetries)
	}
	if cfg.SampleText != "Sphinx of black quartz" {
		t.Errorf("SampleText = %q", cfg.SampleText)
	}
	if cfg.Debounce() != 120*time.Millisecond {
		t.Errorf("Debounce() = %v", cfg.Debounce())
	}
	if cfg.ToastMS != DefaultToastMS {
		t.Errorf("unset toast_ms should keep default, got %d", cfg.ToastMS)
	}
	if cfg.Store.Backend != kv.BackendSQLite || cfg.Store.Path != "/tmp/favs.db" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}

	if got := cfg.Styles["f-neon"]; got != (Style{Foreground: "#ff00ff"}) {
		t.Errorf("f-neon style = %+v", got)
	}
	if got := cfg.Styles["f-custom"]; got.Transform != TransformLower {
		t.Errorf("f-custom style = %+v", got)
	}
	if _, ok := cfg.Styles["f-retro"]; !ok {
		t.Error("default styles should survive a partial [styles] table")
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", `catalog = `},
		{"backend", "[store]\nbackend = \"mongo\""},
		{"redis without addr", "[store]\nbackend = \"redis\""},
		{"transform", "[styles.f-x]\ntransform = \"sideways\""},
		{"class token", "[styles.\"f x\"]\nbold = true"},
		{"retries", "catalog_retries = -1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.GetCode(err) == "" {
				t.Errorf("error %v carries no code", err)
			}
		})
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Catalog = "fonts.json"
	data, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode() error: %v", err)
	}
	if !strings.Contains(string(data), `catalog = "fonts.json"`) {
		t.Errorf("encoded config missing catalog:\n%s", data)
	}

	got, err := Load(writeConfig(t, string(data)))
	if err != nil {
		t.Fatalf("Load(encoded) error: %v", err)
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestPathsXDG(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(base, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(base, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(base, "state"))

	path, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(base, "config", AppName, FileName); path != want {
		t.Errorf("Path() = %q, want %q", path, want)
	}
	if dir, _ := DataDir(); dir != filepath.Join(base, "data", AppName) {
		t.Errorf("DataDir() = %q", dir)
	}
	if dir, _ := StateDir(); dir != filepath.Join(base, "state", AppName) {
		t.Errorf("StateDir() = %q", dir)
	}
}

func TestPathsHomeFallback(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")

	path, err := Path()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(home, ".config", AppName, FileName); path != want {
		t.Errorf("Path() = %q, want %q", path, want)
	}
}

func TestStoreOptions(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/data")
	cfg := Default()
	cfg.Store = Store{Backend: kv.BackendRedis, RedisAddr: "localhost:6379", RedisDB: 3, KeyPrefix: "fs:"}

	opts, err := cfg.StoreOptions()
	if err != nil {
		t.Fatal(err)
	}
	want := kv.Options{
		Backend: kv.BackendRedis,
		Path:    filepath.Join("/data", AppName),
		Redis:   kv.RedisConfig{Addr: "localhost:6379", DB: 3, Prefix: "fs:"},
	}
	if diff := cmp.Diff(want, opts); diff != "" {
		t.Errorf("StoreOptions mismatch (-want +got):\n%s", diff)
	}
}
