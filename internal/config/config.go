// Package config loads the fontshelf configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/fontshelf/config.toml. A
// missing file is not an error: every key has a default. Command-line flags
// are applied on top by the cli package.
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/fontshelf/pkg/errors"
	"github.com/matzehuels/fontshelf/pkg/kv"
)

// AppName names the configuration, state and cache directories.
const AppName = "fontshelf"

// FileName is the configuration file name inside the config directory.
const FileName = "config.toml"

// Defaults.
const (
	DefaultDebounceMS      = 300
	DefaultToastMS         = 3000
	DefaultCopiedMS        = 600
	DefaultReadyFallbackMS = 150
	DefaultServerAddr      = ":8080"
)

// Config is the full configuration.
type Config struct {
	// Catalog is a file path or http(s) URL. Empty means the embedded catalog.
	Catalog        string `toml:"catalog"`
	CatalogRetries int    `toml:"catalog_retries"`

	// SampleText replaces the built-in placeholder when the input is blank.
	SampleText string `toml:"sample_text"`

	DebounceMS      int `toml:"debounce_ms"`
	ToastMS         int `toml:"toast_ms"`
	CopiedMS        int `toml:"copied_ms"`
	ReadyFallbackMS int `toml:"ready_fallback_ms"`

	Store  Store            `toml:"store"`
	Server Server           `toml:"server"`
	Styles map[string]Style `toml:"styles"`
}

// Store selects the favorites backend.
type Store struct {
	Backend   string `toml:"backend"` // file, sqlite, redis, memory or none
	Path      string `toml:"path"`    // directory (file) or database file (sqlite)
	RedisAddr string `toml:"redis_addr"`
	RedisDB   int    `toml:"redis_db"`
	KeyPrefix string `toml:"key_prefix"`
}

// Server configures `fontshelf serve`.
type Server struct {
	Addr string `toml:"addr"`
}

// Style is the terminal rendering of one class token.
type Style struct {
	Bold       bool   `toml:"bold"`
	Italic     bool   `toml:"italic"`
	Underline  bool   `toml:"underline"`
	Faint      bool   `toml:"faint"`
	Foreground string `toml:"foreground"`
	Background string `toml:"background"`
	Transform  string `toml:"transform"` // upper, lower or none
}

// Text transforms accepted by Style.Transform.
const (
	TransformNone  = "none"
	TransformUpper = "upper"
	TransformLower = "lower"
)

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		DebounceMS:      DefaultDebounceMS,
		ToastMS:         DefaultToastMS,
		CopiedMS:        DefaultCopiedMS,
		ReadyFallbackMS: DefaultReadyFallbackMS,
		Store:           Store{Backend: kv.BackendFile},
		Server:          Server{Addr: DefaultServerAddr},
		Styles:          DefaultStyles(),
	}
}

// DefaultStyles returns the terminal styles for the built-in catalog.
func DefaultStyles() map[string]Style {
	return map[string]Style{
		"f-retro":          {Italic: true, Foreground: "180"},
		"f-garamond":       {Italic: true},
		"f-baskerville":    {Foreground: "223"},
		"f-helvetica":      {Bold: true},
		"f-futura":         {Bold: true, Foreground: "117", Transform: TransformUpper},
		"f-inter":          {Foreground: "252"},
		"f-neon":           {Bold: true, Foreground: "213"},
		"f-lobster":        {Bold: true, Italic: true, Foreground: "209"},
		"f-bebas":          {Bold: true, Transform: TransformUpper},
		"f-pacifico":       {Italic: true, Foreground: "219"},
		"f-satisfy":        {Italic: true, Faint: true},
		"f-fira-code":      {Foreground: "114"},
		"f-jetbrains-mono": {Foreground: "81", Underline: true},
	}
}

// Load reads path on top of the defaults. A missing file yields the defaults.
// Styles from the file are merged over the default styles.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}
	if err := cfg.decode(data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	defaults := c.Styles
	c.Styles = nil
	if _, err := toml.Decode(string(data), c); err != nil {
		return err
	}
	for class, st := range c.Styles {
		defaults[class] = st
	}
	c.Styles = defaults
	return nil
}

// Validate checks values that cannot be defaulted silently.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "", kv.BackendFile, kv.BackendSQLite, kv.BackendRedis, kv.BackendMemory, kv.BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown store backend %q", c.Store.Backend)
	}
	if c.Store.Backend == kv.BackendRedis && c.Store.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidInput, "store backend redis needs redis_addr")
	}
	for class, st := range c.Styles {
		if err := errors.ValidateClassToken(class); err != nil {
			return err
		}
		switch st.Transform {
		case "", TransformNone, TransformUpper, TransformLower:
		default:
			return errors.New(errors.ErrCodeInvalidInput, "style %s: unknown transform %q", class, st.Transform)
		}
	}
	if c.SampleText != "" {
		if err := errors.ValidateSampleText(c.SampleText); err != nil {
			return err
		}
	}
	if c.CatalogRetries < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "catalog_retries must not be negative")
	}
	return nil
}

// Encode writes c as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Debounce returns the sample text debounce window.
func (c *Config) Debounce() time.Duration { return millis(c.DebounceMS, DefaultDebounceMS) }

// Toast returns how long the toast stays visible.
func (c *Config) Toast() time.Duration { return millis(c.ToastMS, DefaultToastMS) }

// Copied returns the duration of the copied pulse on a card.
func (c *Config) Copied() time.Duration { return millis(c.CopiedMS, DefaultCopiedMS) }

// ReadyFallback returns how long the terminal UI waits for its first size
// message before loading the catalog anyway.
func (c *Config) ReadyFallback() time.Duration {
	return millis(c.ReadyFallbackMS, DefaultReadyFallbackMS)
}

func millis(v, def int) time.Duration {
	if v <= 0 {
		v = def
	}
	return time.Duration(v) * time.Millisecond
}

// StoreOptions converts the [store] table into kv.Open options. An empty path
// uses the data directory.
func (c *Config) StoreOptions() (kv.Options, error) {
	path := c.Store.Path
	if path == "" {
		dir, err := DataDir()
		if err != nil {
			return kv.Options{}, err
		}
		path = dir
	}
	return kv.Options{
		Backend: c.Store.Backend,
		Path:    path,
		Redis: kv.RedisConfig{
			Addr:   c.Store.RedisAddr,
			DB:     c.Store.RedisDB,
			Prefix: c.Store.KeyPrefix,
		},
	}, nil
}

// Path returns the default configuration file path.
func Path() (string, error) {
	dir, err := xdgDir("XDG_CONFIG_HOME", ".config")
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, FileName), nil
}

// DataDir returns the directory holding persisted favorites.
func DataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// StateDir returns the directory for log files.
func StateDir() (string, error) {
	return xdgDir("XDG_STATE_HOME", filepath.Join(".local", "state"))
}

func xdgDir(env, fallback string) (string, error) {
	if base := os.Getenv(env); base != "" {
		return filepath.Join(base, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, fallback, AppName), nil
}
