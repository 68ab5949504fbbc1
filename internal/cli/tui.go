package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/fontshelf/internal/config"
	"github.com/matzehuels/fontshelf/pkg/catalog"
	"github.com/matzehuels/fontshelf/pkg/debounce"
	"github.com/matzehuels/fontshelf/pkg/gallery"
	"github.com/matzehuels/fontshelf/pkg/toast"
)

// Gallery styles
var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorDim).
			Padding(0, 1)
	cardSelectedStyle = cardStyle.BorderForeground(colorCyan)
	cardCopiedStyle   = cardStyle.BorderForeground(colorGreen)

	filterStyle       = lipgloss.NewStyle().Foreground(colorGray).Padding(0, 1)
	filterActiveStyle = lipgloss.NewStyle().Foreground(colorWhite).Background(colorCyan).Bold(true).Padding(0, 1)

	favoriteStyle = lipgloss.NewStyle().Foreground(colorYellow)
	copiedStyle   = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	toastStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGreen).
			Foreground(colorGreen).
			Padding(0, 1)
)

const (
	cardWidth     = 34 // Outer width of a card including border
	cardHeight    = 6  // Outer height of a card including border
	chromeHeight  = 9  // Title, input, filter bar, count, help and spacing
	defaultWidth  = 80
	defaultHeight = 24
)

// =============================================================================
// Key Bindings
// =============================================================================

// galleryKeyMap defines the gallery keybindings.
type galleryKeyMap struct {
	NextFilter key.Binding
	PrevFilter key.Binding
	Left       key.Binding
	Right      key.Binding
	Up         key.Binding
	Down       key.Binding
	Copy       key.Binding
	Favorite   key.Binding
	Clear      key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// ShortHelp returns keybindings to show in compact help.
func (k galleryKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextFilter, k.Copy, k.Favorite, k.Clear, k.Help, k.Quit}
}

// FullHelp returns keybindings for expanded help.
func (k galleryKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Up, k.Down},
		{k.NextFilter, k.PrevFilter},
		{k.Copy, k.Favorite, k.Clear},
		{k.Help, k.Quit},
	}
}

func defaultGalleryKeyMap() galleryKeyMap {
	return galleryKeyMap{
		NextFilter: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next filter")),
		PrevFilter: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev filter")),
		Left:       key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "left")),
		Right:      key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "right")),
		Up:         key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
		Down:       key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
		Copy:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("⏎", "copy name")),
		Favorite:   key.NewBinding(key.WithKeys("ctrl+f"), key.WithHelp("ctrl+f", "favorite")),
		Clear:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "reset text")),
		Help:       key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// =============================================================================
// Messages
// =============================================================================

// readyTimeoutMsg fires when no window size arrived within the fallback delay.
type readyTimeoutMsg struct{}

// catalogLoadedMsg reports the outcome of the one startup load.
type catalogLoadedMsg struct{ err error }

// catalogChangedMsg carries a reloaded catalog from the file watcher.
type catalogChangedMsg struct{ catalog catalog.Catalog }

// sampleSettledMsg fires after the debounce window of a keystroke.
type sampleSettledMsg struct{ tok uint64 }

// copyDoneMsg reports a finished clipboard write.
type copyDoneMsg struct {
	name string
	ok   bool
}

// copiedExpiredMsg ends the copied pulse of a card.
type copiedExpiredMsg struct{ tok uint64 }

// toastHiddenMsg repaints after the toast timer hid the toast.
type toastHiddenMsg struct{}

// =============================================================================
// GalleryModel - Interactive font gallery
// =============================================================================

// GalleryOptions configures a GalleryModel.
type GalleryOptions struct {
	State     *gallery.State
	Source    catalog.Source
	Clipboard gallery.Copier
	Toast     *toast.Notifier
	Styles    map[string]config.Style

	Debounce      time.Duration // Sample text quiet window
	Copied        time.Duration // Copied pulse on a card
	ReadyFallback time.Duration // Load anyway if no window size arrives

	// Filter is applied once the catalog has loaded. Empty keeps the default.
	Filter gallery.Filter
}

// GalleryModel is the bubbletea model for the font gallery.
type GalleryModel struct {
	ctx    context.Context
	opts   GalleryOptions
	logger *log.Logger
	styles classStyles

	keys     galleryKeyMap
	help     help.Model
	input    textinput.Model
	showHelp bool

	sample *debounce.Gate // Generation of the latest keystroke
	pulse  *debounce.Gate // Generation of the latest copy

	grid    gallery.Grid
	filters []gallery.Filter
	cursor  int
	offset  int // First visible row
	copied  string

	loadStarted bool
	loading     bool
	loadErr     error

	width  int
	height int
}

// NewGalleryModel creates a gallery model. The catalog is loaded once the
// terminal is ready.
func NewGalleryModel(ctx context.Context, opts GalleryOptions) GalleryModel {
	if opts.Debounce <= 0 {
		opts.Debounce = config.DefaultDebounceMS * time.Millisecond
	}
	if opts.Copied <= 0 {
		opts.Copied = config.DefaultCopiedMS * time.Millisecond
	}
	if opts.ReadyFallback <= 0 {
		opts.ReadyFallback = config.DefaultReadyFallbackMS * time.Millisecond
	}
	if opts.Toast == nil {
		opts.Toast = toast.New(toast.DefaultDuration, nil)
	}

	input := textinput.New()
	input.Prompt = "Aa "
	input.PromptStyle = StyleHighlight
	input.Placeholder = opts.State.DefaultText()
	input.PlaceholderStyle = StyleDim
	input.CharLimit = 512
	input.Focus()

	h := help.New()
	h.Styles.ShortKey = StyleHighlight
	h.Styles.ShortDesc = StyleDim
	h.Styles.FullKey = StyleHighlight
	h.Styles.FullDesc = StyleDim

	m := GalleryModel{
		ctx:    ctx,
		opts:   opts,
		logger: loggerFromContext(ctx),
		styles: newClassStyles(opts.Styles),
		keys:   defaultGalleryKeyMap(),
		help:   h,
		input:  input,
		sample: &debounce.Gate{},
		pulse:  &debounce.Gate{},
		width:  defaultWidth,
		height: defaultHeight,
	}
	m.render()
	return m
}

func (m GalleryModel) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		tea.Tick(m.opts.ReadyFallback, func(time.Time) tea.Msg { return readyTimeoutMsg{} }),
	)
}

func (m GalleryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-len(m.input.Prompt)-2, 10)
		m.scrollToCursor()
		cmd := m.startLoad()
		return m, cmd

	case readyTimeoutMsg:
		cmd := m.startLoad()
		return m, cmd

	case catalogLoadedMsg:
		m.loading = false
		m.loadErr = msg.err
		if msg.err == nil && m.opts.Filter != "" {
			m.opts.State.SetFilter(m.opts.Filter)
		}
		m.render()
		return m, nil

	case catalogChangedMsg:
		m.logger.Info("catalog changed, reloading", "fonts", msg.catalog.Len())
		m.opts.State.ReplaceCatalog(msg.catalog)
		m.loadErr = nil
		m.render()
		return m, nil

	case sampleSettledMsg:
		if m.sample.Settled(msg.tok) {
			m.render()
		}
		return m, nil

	case copyDoneMsg:
		if !msg.ok {
			return m, nil
		}
		m.copied = msg.name
		m.opts.Toast.Show(fmt.Sprintf("Copied %q to clipboard", msg.name))
		tok := m.pulse.Next()
		return m, tea.Tick(m.opts.Copied, func(time.Time) tea.Msg { return copiedExpiredMsg{tok} })

	case copiedExpiredMsg:
		if m.pulse.Settled(msg.tok) {
			m.copied = ""
		}
		return m, nil

	case toastHiddenMsg:
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m GalleryModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil
	case key.Matches(msg, m.keys.NextFilter):
		m.cycleFilter(1)
		return m, nil
	case key.Matches(msg, m.keys.PrevFilter):
		m.cycleFilter(-1)
		return m, nil
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1)
		return m, nil
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1)
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-m.columns())
		return m, nil
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(m.columns())
		return m, nil
	case key.Matches(msg, m.keys.Copy):
		return m, m.copySelected()
	case key.Matches(msg, m.keys.Favorite):
		m.toggleSelected()
		return m, nil
	case key.Matches(msg, m.keys.Clear):
		m.sample.Next() // drop any pending keystroke render
		m.input.SetValue(m.opts.State.ClearInput())
		m.input.CursorEnd()
		m.render()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == before {
		return m, cmd
	}
	m.opts.State.SetInput(m.input.Value())
	tok := m.sample.Next()
	settle := tea.Tick(m.opts.Debounce, func(time.Time) tea.Msg { return sampleSettledMsg{tok} })
	return m, tea.Batch(cmd, settle)
}

// startLoad starts the catalog load the first time it is called.
func (m *GalleryModel) startLoad() tea.Cmd {
	if m.loadStarted {
		return nil
	}
	m.loadStarted = true
	m.loading = true

	ctx, state, src := m.ctx, m.opts.State, m.opts.Source
	return func() tea.Msg {
		return catalogLoadedMsg{err: state.LoadCatalog(ctx, src)}
	}
}

// render rebuilds the grid from the current state.
func (m *GalleryModel) render() {
	m.grid = m.opts.State.Grid()
	m.filters = gallery.Filters(m.opts.State.Catalog())
	if m.cursor >= len(m.grid.Cards) {
		m.cursor = max(len(m.grid.Cards)-1, 0)
	}
	m.scrollToCursor()
}

func (m *GalleryModel) cycleFilter(step int) {
	if len(m.filters) == 0 {
		return
	}
	current := m.opts.State.Filter()
	idx := 0
	for i, f := range m.filters {
		if f == current {
			idx = i
			break
		}
	}
	idx = (idx + step + len(m.filters)) % len(m.filters)
	m.opts.State.SetFilter(m.filters[idx])
	m.cursor, m.offset = 0, 0
	m.render()
}

func (m *GalleryModel) moveCursor(delta int) {
	next := m.cursor + delta
	if next < 0 || next >= len(m.grid.Cards) {
		return
	}
	m.cursor = next
	m.scrollToCursor()
}

func (m GalleryModel) selected() (gallery.Card, bool) {
	if m.cursor < 0 || m.cursor >= len(m.grid.Cards) {
		return gallery.Card{}, false
	}
	return m.grid.Cards[m.cursor], true
}

func (m GalleryModel) copySelected() tea.Cmd {
	card, ok := m.selected()
	if !ok || m.opts.Clipboard == nil {
		return nil
	}
	ctx, state, w, name := m.ctx, m.opts.State, m.opts.Clipboard, card.Font.Name
	return func() tea.Msg {
		res := state.Copy(ctx, w, name)
		return copyDoneMsg{name: name, ok: res.OK}
	}
}

func (m *GalleryModel) toggleSelected() {
	card, ok := m.selected()
	if !ok {
		return
	}
	favorited, rerender := m.opts.State.ToggleFavorite(m.ctx, card.Font.Name)
	if rerender {
		m.render()
		return
	}
	m.grid.Cards[m.cursor] = gallery.NewCard(card.Font, card.Sample, favorited)
}

func (m GalleryModel) columns() int {
	return max(m.width/cardWidth, 1)
}

func (m GalleryModel) visibleRows() int {
	return max((m.height-chromeHeight)/cardHeight, 1)
}

func (m *GalleryModel) scrollToCursor() {
	row := m.cursor / m.columns()
	rows := m.visibleRows()
	if row < m.offset {
		m.offset = row
	} else if row >= m.offset+rows {
		m.offset = row - rows + 1
	}
}

func (m GalleryModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("fontshelf"))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(fontCount(m.grid.Count)))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")
	b.WriteString(m.viewFilters())
	b.WriteString("\n\n")
	b.WriteString(m.viewGrid())
	b.WriteString("\n")

	if m.opts.Toast.Visible() {
		b.WriteString(toastStyle.Render(iconSuccess + " " + m.opts.Toast.Message()))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func fontCount(n int) string {
	if n == 1 {
		return "1 font"
	}
	return fmt.Sprintf("%d fonts", n)
}

func (m GalleryModel) viewFilters() string {
	active := m.opts.State.Filter()
	parts := make([]string, 0, len(m.filters))
	for _, f := range m.filters {
		label := f.String()
		if f == gallery.Favorites {
			label = gallery.GlyphFavorite + " " + label
		}
		if f == active {
			parts = append(parts, filterActiveStyle.Render(label))
		} else {
			parts = append(parts, filterStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m GalleryModel) viewGrid() string {
	switch {
	case m.loading:
		return StyleDim.Render("  Loading catalog...")
	case m.loadErr != nil && m.opts.State.Catalog().Len() == 0:
		return styleIconError.Render(iconError) + " " + StyleDim.Render("Could not load the font catalog. See the log for details.")
	case len(m.grid.Cards) == 0:
		return StyleDim.Render("  No fonts match this filter.")
	}

	cols := m.columns()
	first := m.offset * cols
	last := min(first+m.visibleRows()*cols, len(m.grid.Cards))

	var rows []string
	for start := first; start < last; start += cols {
		end := min(start+cols, last)
		cards := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			cards = append(cards, m.viewCard(i))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m GalleryModel) viewCard(i int) string {
	c := m.grid.Cards[i]
	inner := cardWidth - 4

	sample := m.styles.style(c.Font.Class).Width(inner).MaxHeight(2)
	text := sample.Render(m.styles.transform(c.Font.Class, c.Sample))

	glyph := c.Glyph
	if c.Favorite {
		glyph = favoriteStyle.Render(glyph)
	}
	label := StyleValue.Render(c.Font.Name) + " " + StyleDim.Render(c.Font.Category)
	status := glyph
	if c.Font.Name == m.copied {
		status += " " + copiedStyle.Render(iconSuccess+" copied")
	}

	body := lipgloss.JoinVertical(lipgloss.Left, text, label, status)

	style := cardStyle
	switch {
	case c.Font.Name == m.copied:
		style = cardCopiedStyle
	case i == m.cursor:
		style = cardSelectedStyle
	}
	return style.Width(cardWidth - 2).Height(cardHeight - 2).Render(body)
}
