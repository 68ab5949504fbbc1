package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fontshelf/pkg/errors"
	"github.com/matzehuels/fontshelf/pkg/favorites"
	"github.com/matzehuels/fontshelf/pkg/gallery"
	"github.com/matzehuels/fontshelf/pkg/kv"
)

// favCommand creates the favorites management command.
func (c *CLI) favCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fav",
		Short: "Manage favorite fonts",
	}

	cmd.AddCommand(c.favToggleCommand())
	cmd.AddCommand(c.favListCommand())
	cmd.AddCommand(c.favClearCommand())
	cmd.AddCommand(c.favPathCommand())

	return cmd
}

// favToggleCommand creates the "fav toggle" subcommand.
func (c *CLI) favToggleCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "toggle NAME",
		Short:   "Add a font to the favorites, or remove it",
		Example: `  fontshelf fav toggle Neon`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := errors.ValidateFontName(name); err != nil {
				return err
			}
			return c.withFavorites(cmd.Context(), func(favs *favorites.Store) error {
				favorited, err := favs.Toggle(cmd.Context(), name)
				if err != nil {
					return err
				}
				if favorited {
					printSuccess("Added %s to favorites %s", StyleHighlight.Render(name), styleFavorite.Render(gallery.GlyphFavorite))
				} else {
					printSuccess("Removed %s from favorites", StyleHighlight.Render(name))
				}
				return nil
			})
		},
	}
}

// favListCommand creates the "fav list" subcommand.
func (c *CLI) favListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the favorite font names, one per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withFavorites(cmd.Context(), func(favs *favorites.Store) error {
				for _, name := range favs.Names() {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			})
		},
	}
}

// favClearCommand creates the "fav clear" subcommand.
func (c *CLI) favClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all favorites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			favs := favorites.New(store, c.Logger)
			favs.Load(ctx)
			count := favs.Len()
			if count == 0 {
				printInfo("No favorites")
				return nil
			}
			if err := store.Delete(ctx, favorites.Key); err != nil {
				return errors.Wrap(errors.ErrCodeStorage, err, "clear favorites")
			}
			printSuccess("Cleared %d favorites", count)
			return nil
		},
	}
}

// favPathCommand creates the "fav path" subcommand.
func (c *CLI) favPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where favorites are stored",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := c.config().StoreOptions()
			if err != nil {
				return fmt.Errorf("get store path: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), storeLocation(opts))
			return nil
		},
	}
}

// withFavorites opens the store, loads the favorites and runs fn.
func (c *CLI) withFavorites(ctx context.Context, fn func(*favorites.Store) error) error {
	store, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	favs := favorites.New(store, c.Logger)
	favs.Load(ctx)
	return fn(favs)
}

// storeLocation describes where a backend keeps the favorites key.
func storeLocation(opts kv.Options) string {
	switch opts.Backend {
	case "", kv.BackendFile:
		return filepath.Join(opts.Path, kv.Hash([]byte(favorites.Key))+".json")
	case kv.BackendSQLite:
		if opts.Path != ":memory:" && filepath.Ext(opts.Path) == "" {
			return filepath.Join(opts.Path, "fontshelf.db")
		}
		return opts.Path
	case kv.BackendRedis:
		return fmt.Sprintf("redis://%s/%d %s%s", opts.Redis.Addr, opts.Redis.DB, opts.Redis.Prefix, favorites.Key)
	default:
		return opts.Backend
	}
}
