package clipboard

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aymanbagabas/go-osc52/v2"
)

// ErrNoTerminal is returned when the OSC 52 strategy has nowhere to write.
var ErrNoTerminal = errors.New("no terminal to write OSC 52 sequence to")

// scratch buffers hold the encoded sequence so the terminal receives it in
// one write or not at all.
var scratch = sync.Pool{New: func() any { return new(bytes.Buffer) }}

// OSC52 asks the terminal emulator to set the clipboard using the OSC 52
// escape sequence. It works over SSH and inside tmux or screen.
type OSC52 struct {
	mu     sync.Mutex
	out    io.Writer
	open   func() (io.WriteCloser, error) // Per-write terminal, closed after the write
	getenv func(string) string
}

// NewOSC52 creates a strategy that writes sequences to out.
func NewOSC52(out io.Writer) *OSC52 {
	return &OSC52{out: out, getenv: os.Getenv}
}

// NewTerminalOSC52 creates a strategy that opens the controlling terminal for
// each write and closes it afterwards. Without one, sequences go to os.Stderr.
func NewTerminalOSC52() *OSC52 {
	return &OSC52{open: openTerminal, getenv: os.Getenv}
}

// Name implements Strategy.
func (o *OSC52) Name() string { return "osc52" }

// Available reports whether there is a terminal to write to.
func (o *OSC52) Available() bool { return o.out != nil || o.open != nil }

// Write implements Strategy.
func (o *OSC52) Write(ctx context.Context, text string) error {
	if !o.Available() {
		return ErrNoTerminal
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	buf := scratch.Get().(*bytes.Buffer)
	buf.Reset()
	defer scratch.Put(buf)

	if _, err := o.sequence(text).WriteTo(buf); err != nil {
		return err
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.open == nil {
		_, err := o.out.Write(buf.Bytes())
		return err
	}

	term, err := o.open()
	if err != nil {
		return err
	}
	_, err = term.Write(buf.Bytes())
	if cerr := term.Close(); err == nil {
		err = cerr
	}
	return err
}

// openTerminal opens /dev/tty, falling back to os.Stderr, which is never
// closed.
func openTerminal() (io.WriteCloser, error) {
	if f, err := os.OpenFile("/dev/tty", os.O_WRONLY, 0); err == nil {
		return f, nil
	}
	return nopCloser{os.Stderr}, nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// sequence builds the escape sequence, wrapping it for terminal multiplexers.
func (o *OSC52) sequence(text string) osc52.Sequence {
	seq := osc52.New(text)
	switch {
	case o.getenv("TMUX") != "":
		seq = seq.Tmux()
	case strings.HasPrefix(o.getenv("TERM"), "screen"):
		seq = seq.Screen()
	}
	return seq
}

var _ Strategy = (*OSC52)(nil)
