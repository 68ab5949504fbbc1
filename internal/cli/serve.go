package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/fontshelf/internal/server"
	"github.com/matzehuels/fontshelf/pkg/catalog"
)

// serveOpts holds the serve command flags.
type serveOpts struct {
	addr    string
	catalog string
	noWatch bool
}

// serveCommand creates the HTTP gallery command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the font gallery over HTTP",
		Long: `Serve the font gallery over HTTP.

Every visitor gets a cookie and their own favorites, kept in the configured
store. The JSON API lives under /api.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().StringVar(&opts.catalog, "catalog", "", "catalog file or URL (default: built-in catalog)")
	cmd.Flags().BoolVar(&opts.noWatch, "no-watch", false, "do not reload a catalog file when it changes")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts serveOpts) error {
	cfg := c.config()
	addr := opts.addr
	if addr == "" {
		addr = cfg.Server.Addr
	}

	store, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	srv, err := server.New(server.Options{
		Store:       store,
		DefaultText: cfg.SampleText,
		Logger:      c.Logger,
	})
	if err != nil {
		return err
	}

	src := c.catalogSource(opts.catalog)
	prog := newProgress(c.Logger)
	if err := srv.LoadCatalog(ctx, src); err != nil {
		printWarning("Serving an empty gallery: %v", err)
	} else {
		prog.done(fmt.Sprintf("Loaded %d fonts from %s", srv.Catalog().Len(), src.Name()))
	}

	printNewline()
	fmt.Println(StyleTitle.Render(appName + " gallery"))
	printKeyValue("URL", StyleLink.Render("http://"+displayAddr(addr)))
	printKeyValue("Catalog", src.Name())
	if storeOpts, err := cfg.StoreOptions(); err == nil {
		printKeyValue("Favorites", storeLocation(storeOpts))
	}
	printNewline()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx, addr)
	})
	if file, ok := watchPath(src); ok && !opts.noWatch {
		g.Go(func() error {
			err := catalog.Watch(ctx, file, catalog.DefaultWatchDelay, c.Logger, srv.SetCatalog)
			if err != nil {
				c.Logger.Warn("not watching catalog", "path", file, "err", err)
			}
			return nil
		})
	}
	return g.Wait()
}

// displayAddr turns a listen address into something a browser can open.
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
