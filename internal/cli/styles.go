package cli

import (
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/matzehuels/fontshelf/internal/config"
)

// classStyle is the terminal rendering of a class token.
type classStyle struct {
	style     lipgloss.Style
	transform cases.Caser
	hasCaser  bool
}

// classStyles maps class tokens to terminal styles. Unknown tokens render
// with the plain value style.
type classStyles map[string]classStyle

func newClassStyles(cfg map[string]config.Style) classStyles {
	out := make(classStyles, len(cfg))
	for class, s := range cfg {
		out[class] = newClassStyle(s)
	}
	return out
}

func newClassStyle(s config.Style) classStyle {
	st := lipgloss.NewStyle().
		Bold(s.Bold).
		Italic(s.Italic).
		Underline(s.Underline).
		Faint(s.Faint)
	if s.Foreground != "" {
		st = st.Foreground(lipgloss.Color(s.Foreground))
	}
	if s.Background != "" {
		st = st.Background(lipgloss.Color(s.Background))
	}

	cs := classStyle{style: st}
	switch s.Transform {
	case config.TransformUpper:
		cs.transform, cs.hasCaser = cases.Upper(language.Und), true
	case config.TransformLower:
		cs.transform, cs.hasCaser = cases.Lower(language.Und), true
	}
	return cs
}

// style returns the lipgloss style for class.
func (cs classStyles) style(class string) lipgloss.Style {
	if s, ok := cs[class]; ok {
		return s.style
	}
	return StyleValue
}

// render draws text in the style of class.
func (cs classStyles) render(class, text string) string {
	return cs.style(class).Render(cs.transform(class, text))
}

// transform applies the text transform of class.
func (cs classStyles) transform(class, text string) string {
	if s, ok := cs[class]; ok && s.hasCaser {
		return s.transform.String(text)
	}
	return text
}
