package clipboard

import (
	"context"

	"github.com/atotto/clipboard"
)

// System writes to the operating system clipboard (pbcopy, xclip, xsel,
// wl-copy or the Windows API, whichever atotto/clipboard finds).
type System struct {
	write       func(string) error
	unsupported func() bool
}

// NewSystem creates the system clipboard strategy.
func NewSystem() *System {
	return &System{
		write:       clipboard.WriteAll,
		unsupported: func() bool { return clipboard.Unsupported },
	}
}

// Name implements Strategy.
func (s *System) Name() string { return "system" }

// Available reports whether a clipboard utility was found.
func (s *System) Available() bool { return !s.unsupported() }

// Write implements Strategy. The underlying call cannot be cancelled; if ctx
// ends first, Write returns ctx.Err() and the copy finishes in the background.
func (s *System) Write(ctx context.Context, text string) error {
	done := make(chan error, 1)
	go func() { done <- s.write(text) }()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ Strategy = (*System)(nil)
