package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fontshelf/pkg/errors"
)

// copyOpts holds the copy command flags.
type copyOpts struct {
	catalog string
}

// copyCommand creates the command that copies a font name to the clipboard.
func (c *CLI) copyCommand() *cobra.Command {
	opts := copyOpts{}

	cmd := &cobra.Command{
		Use:   "copy NAME",
		Short: "Copy a font name to the clipboard",
		Long: `Copy a font name to the clipboard.

The system clipboard is tried first. When it is unavailable the name is sent
to the terminal as an OSC 52 sequence instead.`,
		Example: `  fontshelf copy "Fira Code"`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runCopy(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.catalog, "catalog", "", "catalog file or URL (default: built-in catalog)")

	return cmd
}

func (c *CLI) runCopy(ctx context.Context, name string, opts copyOpts) error {
	if err := errors.ValidateFontName(name); err != nil {
		return err
	}

	store, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	state := c.newState(ctx, store, c.Logger)
	if err := state.LoadCatalog(ctx, c.catalogSource(opts.catalog)); err != nil {
		c.Logger.Warn("catalog unavailable", "err", err)
	} else if _, ok := state.Catalog().Lookup(name); !ok {
		printWarning("%s is not in the catalog", name)
	}

	res := state.Copy(ctx, c.clipboard(c.Logger), name)
	if !res.OK {
		return errors.New(errors.ErrCodeClipboard, "could not copy %q to the clipboard", name)
	}
	printSuccess("Copied %s to clipboard", StyleHighlight.Render(fmt.Sprintf("%q", name)))
	if res.Fallback {
		printDetail("via %s", res.Strategy)
	}
	return nil
}
