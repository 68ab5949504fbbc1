package cli

import (
	"context"
	"io"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/fontshelf/internal/config"
	"github.com/matzehuels/fontshelf/pkg/catalog"
	"github.com/matzehuels/fontshelf/pkg/clipboard"
	"github.com/matzehuels/fontshelf/pkg/favorites"
	"github.com/matzehuels/fontshelf/pkg/gallery"
	"github.com/matzehuels/fontshelf/pkg/kv"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = config.AppName

	// logFileName is the log file written while the terminal UI owns the screen.
	logFileName = "browse.log"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
	copier     gallery.Copier // nil means the system clipboard with OSC 52 fallback
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// config returns the loaded configuration, or the defaults before loading.
func (c *CLI) config() *config.Config {
	if c.cfg == nil {
		c.cfg = config.Default()
	}
	return c.cfg
}

// loadConfig reads the configuration file chosen by --config or the default path.
func (c *CLI) loadConfig() error {
	path := c.configPath
	if path == "" {
		p, err := config.Path()
		if err != nil {
			c.Logger.Debug("no config path, using defaults", "err", err)
			c.cfg = config.Default()
			return nil
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded config", "path", path)
	c.cfg = cfg
	return nil
}

// =============================================================================
// Factories
// =============================================================================

// openStore opens the favorites backend from the [store] configuration.
func (c *CLI) openStore(ctx context.Context) (kv.Store, error) {
	opts, err := c.config().StoreOptions()
	if err != nil {
		return nil, err
	}
	store, err := kv.Open(ctx, opts)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("opened favorites store", "backend", opts.Backend, "path", opts.Path)
	return store, nil
}

// catalogSource resolves a --catalog flag value, falling back to the config.
func (c *CLI) catalogSource(flag string) catalog.Source {
	location := flag
	if location == "" {
		location = c.config().Catalog
	}
	return catalog.ParseSource(location, c.config().CatalogRetries)
}

// newState opens the favorites of the local user and wraps them in a session.
func (c *CLI) newState(ctx context.Context, store kv.Store, logger *log.Logger) *gallery.State {
	favs := favorites.New(store, logger)
	favs.Load(ctx)
	return gallery.NewState(favs, c.config().SampleText, logger)
}

// clipboard returns the writer used for copy actions.
func (c *CLI) clipboard(logger *log.Logger) gallery.Copier {
	if c.copier != nil {
		return c.copier
	}
	return clipboard.NewDefault(nil, logger)
}

// watchPath returns the catalog file to watch, if src is a local file.
func watchPath(src catalog.Source) (string, bool) {
	if fs, ok := src.(catalog.FileSource); ok {
		return fs.Path, true
	}
	return "", false
}

// =============================================================================
// Paths
// =============================================================================

// logPath returns the terminal UI log file using the XDG state directory
// (~/.local/state/fontshelf/browse.log).
func logPath() (string, error) {
	dir, err := config.StateDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, logFileName), nil
}
