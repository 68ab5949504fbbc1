package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/fontshelf/pkg/catalog"
	"github.com/matzehuels/fontshelf/pkg/errors"
	"github.com/matzehuels/fontshelf/pkg/fontscan"
)

// scanOpts holds the scan command flags.
type scanOpts struct {
	output      string
	concurrency int
}

// scanCommand creates the command that builds a catalog from font files.
func (c *CLI) scanCommand() *cobra.Command {
	opts := scanOpts{}

	cmd := &cobra.Command{
		Use:   "scan DIR",
		Short: "Build a catalog from a directory of font files",
		Long: `Build a catalog from a directory of font files.

Every .ttf and .otf file below DIR is parsed. Files of the same family become
one catalog entry; its category is guessed from the family name and metrics.
The catalog is written as JSON and can be passed to --catalog.`,
		Example: `  fontshelf scan ~/.local/share/fonts -o fonts.json
  fontshelf browse --catalog fonts.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runScan(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().IntVar(&opts.concurrency, "concurrency", fontscan.DefaultConcurrency, "files parsed in parallel")

	return cmd
}

func (c *CLI) runScan(ctx context.Context, stdout io.Writer, dir string, opts scanOpts) error {
	spinner := newSpinner(ctx, "Scanning "+dir)
	spinner.Start()
	prog := newProgress(c.Logger)

	cat, err := fontscan.Dir(ctx, dir, fontscan.Options{
		Concurrency: opts.concurrency,
		Logger:      c.Logger,
		Progress: func(done, total int) {
			spinner.SetMessage(fmt.Sprintf("Scanning %s (%d/%d files)", dir, done, total))
		},
	})
	spinner.Stop()
	if err != nil {
		return err
	}
	if cat.Len() == 0 {
		return errors.New(errors.ErrCodeNotFound, "no font files in %s", dir)
	}
	prog.done(fmt.Sprintf("Found %d font families", cat.Len()))

	if opts.output == "" {
		return catalog.WriteJSON(stdout, cat)
	}
	if err := writeCatalogFile(opts.output, cat); err != nil {
		return err
	}
	printSuccess("Wrote %d fonts", cat.Len())
	printFile(opts.output)
	printNextStep("Browse them", appName+" browse --catalog "+opts.output)
	return nil
}

func writeCatalogFile(path string, cat catalog.Catalog) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := catalog.WriteJSON(f, cat); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
