// Package clipboard copies text to the user's clipboard.
//
// A [Writer] tries a primary [Strategy] first (the system clipboard) and falls
// back to a legacy strategy (an OSC 52 terminal escape sequence) when the
// primary one is unavailable or fails. Callers only ever see a boolean: the
// writer logs failures but never returns them.
package clipboard

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// Strategy is one way of putting text on the clipboard.
type Strategy interface {
	// Name identifies the strategy in logs and results.
	Name() string

	// Available reports whether the strategy can be attempted at all.
	Available() bool

	// Write copies text. It must not leave partial state behind on failure.
	Write(ctx context.Context, text string) error
}

// Result describes the outcome of a copy.
type Result struct {
	OK       bool   // Whether the text reached the clipboard
	Strategy string // Name of the strategy that succeeded, empty on failure
	Fallback bool   // Whether the fallback strategy was attempted
}

// Writer copies text using a primary strategy with a fallback.
type Writer struct {
	primary  Strategy
	fallback Strategy
	logger   *log.Logger
}

// New creates a Writer. Either strategy may be nil. A nil logger uses
// log.Default().
func New(primary, fallback Strategy, logger *log.Logger) *Writer {
	if logger == nil {
		logger = log.Default()
	}
	return &Writer{primary: primary, fallback: fallback, logger: logger}
}

// NewDefault creates a Writer using the system clipboard, falling back to OSC 52
// sequences written to term. If term is nil, /dev/tty is opened for each
// fallback write and closed again, with os.Stderr used when it cannot be
// opened.
func NewDefault(term io.Writer, logger *log.Logger) *Writer {
	if term == nil {
		return New(NewSystem(), NewTerminalOSC52(), logger)
	}
	return New(NewSystem(), NewOSC52(term), logger)
}

// Copy writes text to the clipboard and reports whether it succeeded.
func (w *Writer) Copy(ctx context.Context, text string) bool {
	return w.CopyResult(ctx, text).OK
}

// CopyResult is like Copy but reports which strategy handled the text.
func (w *Writer) CopyResult(ctx context.Context, text string) Result {
	if w.primary != nil && w.primary.Available() {
		err := w.primary.Write(ctx, text)
		if err == nil {
			w.logger.Debug("copied to clipboard", "strategy", w.primary.Name(), "len", len(text))
			return Result{OK: true, Strategy: w.primary.Name()}
		}
		w.logger.Warn("clipboard write failed, trying fallback", "strategy", w.primary.Name(), "err", err)
	} else if w.primary != nil {
		w.logger.Warn("clipboard unavailable, trying fallback", "strategy", w.primary.Name())
	}

	if w.fallback == nil || !w.fallback.Available() {
		w.logger.Error("no fallback clipboard strategy available")
		return Result{Fallback: true}
	}

	if err := w.writeFallback(ctx, text); err != nil {
		w.logger.Error("fallback clipboard write failed", "strategy", w.fallback.Name(), "err", err)
		return Result{Fallback: true}
	}
	w.logger.Debug("copied to clipboard", "strategy", w.fallback.Name(), "len", len(text))
	return Result{OK: true, Strategy: w.fallback.Name(), Fallback: true}
}

// writeFallback runs the fallback strategy, turning a panic into an error.
func (w *Writer) writeFallback(ctx context.Context, text string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s panicked: %v", w.fallback.Name(), r)
		}
	}()
	return w.fallback.Write(ctx, text)
}
