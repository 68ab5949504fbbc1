package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/fontshelf/pkg/gallery"
)

// listOpts holds the list command flags.
type listOpts struct {
	catalog string
	text    string
	filter  string
}

// listCommand creates the non-interactive grid command.
func (c *CLI) listCommand() *cobra.Command {
	opts := listOpts{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the font grid as a table",
		Long: `Print the font grid as a table.

Each row shows the favorite glyph, the font name, its category and the sample
text drawn in the font's terminal style.`,
		Example: `  fontshelf list --filter serif
  fontshelf list --filter favorites --text "The quick brown fox"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runList(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.catalog, "catalog", "", "catalog file or URL (default: built-in catalog)")
	cmd.Flags().StringVar(&opts.text, "text", "", "sample text (default from config)")
	cmd.Flags().StringVarP(&opts.filter, "filter", "f", "", "all, favorites or a category")

	return cmd
}

func (c *CLI) runList(ctx context.Context, w io.Writer, opts listOpts) error {
	filter, err := gallery.ParseFilter(opts.filter)
	if err != nil {
		return err
	}

	store, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	state := c.newState(ctx, store, c.Logger)
	state.SetInput(opts.text)

	src := c.catalogSource(opts.catalog)
	spinner := newSpinner(ctx, "Loading catalog from "+src.Name())
	spinner.Start()
	prog := newProgress(c.Logger)
	err = state.LoadCatalog(ctx, src)
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Loaded %d fonts from %s", state.Catalog().Len(), src.Name()))

	state.SetFilter(filter)
	grid := state.Grid()
	if grid.Count == 0 {
		printInfo("No fonts match this filter.")
	} else {
		fmt.Fprintln(w, gridTable(grid, newClassStyles(c.config().Styles)))
	}
	printCount(grid.Count, grid.Filter.String(), state.Favorites().Len())
	return nil
}

// gridTable renders the cards of grid as a bordered table.
func gridTable(grid gallery.Grid, styles classStyles) string {
	rows := make([][]string, len(grid.Cards))
	for i, card := range grid.Cards {
		rows[i] = []string{card.Glyph, card.Font.Name, card.Font.Category, styles.transform(card.Font.Class, card.Sample)}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cell := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Font", "Category", "Sample").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			if row < 0 || row >= len(grid.Cards) {
				return cell
			}
			card := grid.Cards[row]
			switch col {
			case 0:
				if card.Favorite {
					return cell.Foreground(colorYellow)
				}
				return cell.Foreground(colorDim)
			case 2:
				return cell.Foreground(colorGray)
			case 3:
				return styles.style(card.Font.Class).Padding(0, 1)
			}
			return cell
		})

	return t.Render()
}
