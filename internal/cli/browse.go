package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/fontshelf/pkg/catalog"
	"github.com/matzehuels/fontshelf/pkg/gallery"
	"github.com/matzehuels/fontshelf/pkg/toast"
)

// browseOpts holds the browse command flags.
type browseOpts struct {
	catalog string
	text    string
	filter  string
	noWatch bool
}

// browseCommand creates the interactive terminal gallery command.
func (c *CLI) browseCommand() *cobra.Command {
	opts := browseOpts{}

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Browse the font gallery in the terminal",
		Long: `Browse the font gallery in the terminal.

Type to change the sample text, tab through the filters, press enter to copy
the selected font's name and ctrl+f to toggle it as a favorite.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBrowse(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.catalog, "catalog", "", "catalog file or URL (default: built-in catalog)")
	cmd.Flags().StringVar(&opts.text, "text", "", "initial sample text")
	cmd.Flags().StringVar(&opts.filter, "filter", "", "initial filter: all, favorites or a category")
	cmd.Flags().BoolVar(&opts.noWatch, "no-watch", false, "do not reload a catalog file when it changes")

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, opts browseOpts) error {
	filter, err := gallery.ParseFilter(opts.filter)
	if err != nil {
		return err
	}

	path, err := logPath()
	if err != nil {
		return fmt.Errorf("get log path: %w", err)
	}
	logger, closer, err := newFileLogger(path, c.Logger.GetLevel())
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer closer.Close()
	ctx = withLogger(ctx, logger)
	logger.Info("starting gallery", "log", path)

	store, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	cfg := c.config()
	state := c.newState(ctx, store, logger)
	if opts.text != "" {
		state.SetInput(opts.text)
	}
	src := c.catalogSource(opts.catalog)

	var p *tea.Program
	notifier := toast.New(cfg.Toast(), func(visible bool, _ string) {
		// Hides happen on the timer goroutine; shows are already painted.
		if !visible {
			p.Send(toastHiddenMsg{})
		}
	})

	model := NewGalleryModel(ctx, GalleryOptions{
		State:         state,
		Source:        src,
		Clipboard:     c.clipboard(logger),
		Toast:         notifier,
		Styles:        cfg.Styles,
		Debounce:      cfg.Debounce(),
		Copied:        cfg.Copied(),
		ReadyFallback: cfg.ReadyFallback(),
		Filter:        filter,
	})
	model.input.SetValue(opts.text)

	p = tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if file, ok := watchPath(src); ok && !opts.noWatch {
		go func() {
			err := catalog.Watch(ctx, file, catalog.DefaultWatchDelay, logger, func(cat catalog.Catalog) {
				p.Send(catalogChangedMsg{catalog: cat})
			})
			if err != nil {
				logger.Warn("not watching catalog", "path", file, "err", err)
			}
		}()
	}

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("run gallery: %w", err)
	}
	notifier.Hide()
	return nil
}
