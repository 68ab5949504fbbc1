package clipboard

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

type fakeStrategy struct {
	name      string
	available bool
	err       error
	panicMsg  string
	writes    []string
}

func (f *fakeStrategy) Name() string    { return f.name }
func (f *fakeStrategy) Available() bool { return f.available }
func (f *fakeStrategy) Write(_ context.Context, text string) error {
	if f.panicMsg != "" {
		panic(f.panicMsg)
	}
	f.writes = append(f.writes, text)
	return f.err
}

func quietLogger(buf *bytes.Buffer) *log.Logger {
	return log.NewWithOptions(buf, log.Options{Level: log.DebugLevel})
}

func TestWriterPrimarySucceeds(t *testing.T) {
	var logs bytes.Buffer
	primary := &fakeStrategy{name: "system", available: true}
	fallback := &fakeStrategy{name: "osc52", available: true}
	w := New(primary, fallback, quietLogger(&logs))

	res := w.CopyResult(context.Background(), "Retro")
	if !res.OK || res.Strategy != "system" || res.Fallback {
		t.Errorf("CopyResult = %+v, want OK via system", res)
	}
	if len(fallback.writes) != 0 {
		t.Errorf("fallback used after primary success: %v", fallback.writes)
	}
}

func TestWriterFallsBackWhenUnavailable(t *testing.T) {
	var logs bytes.Buffer
	primary := &fakeStrategy{name: "system", available: false}
	fallback := &fakeStrategy{name: "osc52", available: true}
	w := New(primary, fallback, quietLogger(&logs))

	if !w.Copy(context.Background(), "Neon") {
		t.Fatal("Copy() = false, want true from fallback")
	}
	if len(primary.writes) != 0 {
		t.Error("unavailable primary should not be written to")
	}
	if len(fallback.writes) != 1 || fallback.writes[0] != "Neon" {
		t.Errorf("fallback writes = %v", fallback.writes)
	}
	if !strings.Contains(logs.String(), "unavailable") {
		t.Errorf("expected a warning about the unavailable primary, got %q", logs.String())
	}
}

func TestWriterFallsBackOnError(t *testing.T) {
	var logs bytes.Buffer
	primary := &fakeStrategy{name: "system", available: true, err: errors.New("xclip exited 1")}
	fallback := &fakeStrategy{name: "osc52", available: true}
	w := New(primary, fallback, quietLogger(&logs))

	res := w.CopyResult(context.Background(), "Neon")
	if !res.OK || res.Strategy != "osc52" || !res.Fallback {
		t.Errorf("CopyResult = %+v, want OK via osc52 fallback", res)
	}
}

func TestWriterFallbackResultIsReported(t *testing.T) {
	tests := []struct {
		name     string
		fallback *fakeStrategy
		want     bool
	}{
		{"fallback ok", &fakeStrategy{name: "osc52", available: true}, true},
		{"fallback error", &fakeStrategy{name: "osc52", available: true, err: errors.New("broken pipe")}, false},
		{"fallback panics", &fakeStrategy{name: "osc52", available: true, panicMsg: "boom"}, false},
		{"fallback unavailable", &fakeStrategy{name: "osc52", available: false}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var logs bytes.Buffer
			primary := &fakeStrategy{name: "system", available: false}
			w := New(primary, tt.fallback, quietLogger(&logs))

			if got := w.Copy(context.Background(), "Retro"); got != tt.want {
				t.Errorf("Copy() = %v, want %v", got, tt.want)
			}
			if !tt.want && !strings.Contains(logs.String(), "ERRO") {
				t.Errorf("failure should be logged as an error, got %q", logs.String())
			}
		})
	}
}

func TestWriterNilStrategies(t *testing.T) {
	var logs bytes.Buffer
	w := New(nil, nil, quietLogger(&logs))
	if w.Copy(context.Background(), "x") {
		t.Error("Copy() with no strategies = true")
	}
}

func TestOSC52Write(t *testing.T) {
	var out bytes.Buffer
	o := NewOSC52(&out)
	o.getenv = func(string) string { return "" }

	if err := o.Write(context.Background(), "Retro"); err != nil {
		t.Fatalf("Write() error: %v", err)
	}

	got := out.String()
	if !strings.HasPrefix(got, "\x1b]52;c;") {
		t.Errorf("sequence prefix = %q", got)
	}
	if !strings.Contains(got, base64.StdEncoding.EncodeToString([]byte("Retro"))) {
		t.Errorf("sequence %q does not carry the encoded text", got)
	}
}

func TestOSC52Multiplexers(t *testing.T) {
	tests := []struct {
		name   string
		env    map[string]string
		prefix string
	}{
		{"tmux", map[string]string{"TMUX": "/tmp/tmux-1000/default,1,0"}, "\x1bPtmux;"},
		{"screen", map[string]string{"TERM": "screen-256color"}, "\x1bP"},
		{"plain", map[string]string{"TERM": "xterm-256color"}, "\x1b]52;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			o := NewOSC52(&out)
			o.getenv = func(k string) string { return tt.env[k] }

			if err := o.Write(context.Background(), "Neon"); err != nil {
				t.Fatalf("Write() error: %v", err)
			}
			if !strings.HasPrefix(out.String(), tt.prefix) {
				t.Errorf("sequence = %q, want prefix %q", out.String(), tt.prefix)
			}
		})
	}
}

func TestOSC52Unavailable(t *testing.T) {
	o := NewOSC52(nil)
	if o.Available() {
		t.Error("Available() = true without a terminal")
	}
	if err := o.Write(context.Background(), "x"); !errors.Is(err, ErrNoTerminal) {
		t.Errorf("Write() error = %v, want ErrNoTerminal", err)
	}
}

func TestOSC52CancelledContext(t *testing.T) {
	var out bytes.Buffer
	o := NewOSC52(&out)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := o.Write(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Errorf("Write() error = %v, want context.Canceled", err)
	}
	if out.Len() != 0 {
		t.Error("nothing should be written after cancellation")
	}
}

func TestSystemStrategy(t *testing.T) {
	var got string
	s := &System{
		write:       func(text string) error { got = text; return nil },
		unsupported: func() bool { return false },
	}
	if !s.Available() {
		t.Fatal("Available() = false")
	}
	if err := s.Write(context.Background(), "Retro"); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if got != "Retro" {
		t.Errorf("wrote %q, want Retro", got)
	}

	s.unsupported = func() bool { return true }
	if s.Available() {
		t.Error("Available() = true when unsupported")
	}
}

type trackedTerminal struct {
	bytes.Buffer
	closed bool
}

func (t *trackedTerminal) Close() error {
	t.closed = true
	return nil
}

func TestTerminalOSC52ClosesEachWrite(t *testing.T) {
	var opened []*trackedTerminal
	o := NewTerminalOSC52()
	o.getenv = func(string) string { return "" }
	o.open = func() (io.WriteCloser, error) {
		term := &trackedTerminal{}
		opened = append(opened, term)
		return term, nil
	}
	if !o.Available() {
		t.Fatal("Available() = false for a terminal strategy")
	}

	for _, name := range []string{"Retro", "Neon"} {
		if err := o.Write(context.Background(), name); err != nil {
			t.Fatalf("Write(%q) error: %v", name, err)
		}
	}

	if len(opened) != 2 {
		t.Fatalf("opened %d terminals, want 2", len(opened))
	}
	for i, term := range opened {
		if !term.closed {
			t.Errorf("terminal %d left open", i)
		}
		if !strings.HasPrefix(term.String(), "\x1b]52;c;") {
			t.Errorf("terminal %d got %q", i, term.String())
		}
	}
}

func TestTerminalOSC52OpenError(t *testing.T) {
	o := NewTerminalOSC52()
	o.open = func() (io.WriteCloser, error) { return nil, errors.New("no tty") }
	if err := o.Write(context.Background(), "x"); err == nil {
		t.Error("Write() should fail when the terminal cannot be opened")
	}
}
