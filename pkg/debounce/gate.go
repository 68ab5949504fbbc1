package debounce

// Gate hands out generation tokens for debouncing inside a message loop.
// It is not safe for concurrent use; it belongs to the loop that owns it.
//
// Typical use with bubbletea:
//
//	tok := m.gate.Next()
//	return m, tea.Tick(wait, func(time.Time) tea.Msg { return settledMsg{tok} })
//
//	case settledMsg:
//	    if m.gate.Settled(msg.tok) { /* act on the latest state */ }
type Gate struct {
	gen uint64
}

// Next starts a new generation and returns its token. Any earlier token
// stops being settled.
func (g *Gate) Next() uint64 {
	g.gen++
	return g.gen
}

// Settled reports whether tok belongs to the latest generation.
func (g *Gate) Settled(tok uint64) bool {
	return tok != 0 && tok == g.gen
}

// Current returns the latest token, or 0 if Next was never called.
func (g *Gate) Current() uint64 {
	return g.gen
}
