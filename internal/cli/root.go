// Package cli implements the fontshelf command-line interface.
//
// This package provides the commands for browsing the font gallery in the
// terminal, serving it over HTTP, and managing the catalog and favorites from
// scripts. The CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - browse: Interactive terminal gallery
//   - serve: HTTP gallery with per-visitor favorites
//   - list: Print the filtered card grid as a table
//   - copy: Copy a font name to the clipboard
//   - fav: Toggle, list and clear favorites
//   - scan: Build a catalog from a directory of font files
//   - config: Show the configuration and its location
//
// # Configuration
//
// Settings are read from $XDG_CONFIG_HOME/fontshelf/config.toml, or the file
// named by --config. Flags override the file.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context. While browse owns the terminal, logs are
// written to ~/.local/state/fontshelf/browse.log instead.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/fontshelf/pkg/buildinfo"
	"github.com/matzehuels/fontshelf/pkg/observability"
)

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "fontshelf is a font gallery for the terminal and the browser",
		Long:          `fontshelf previews a catalog of fonts with your own sample text, filters them by category or favorites, and copies font names to the clipboard.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.loadConfig(); err != nil {
				return err
			}
			hooks := observability.NewLogHooks(c.Logger)
			observability.SetGalleryHooks(hooks)
			observability.SetHTTPHooks(hooks)
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/fontshelf/config.toml)")

	// Register all subcommands
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.copyCommand())
	root.AddCommand(c.favCommand())
	root.AddCommand(c.scanCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}
