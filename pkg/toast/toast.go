// Package toast implements a transient notification that hides itself after a
// fixed duration.
package toast

import (
	"sync"
	"time"
)

// DefaultDuration is how long a toast stays visible.
const DefaultDuration = 3000 * time.Millisecond

// Notifier holds a single toast. Showing a new message while one is visible
// replaces it and restarts the hide timer, so the last call wins.
// It is safe for concurrent use.
type Notifier struct {
	duration time.Duration
	onChange func(visible bool, msg string)

	mu      sync.Mutex
	visible bool
	msg     string
	timer   *time.Timer
	seq     uint64
}

// New creates a notifier. A non-positive duration uses DefaultDuration.
// onChange, if non-nil, is called after every show and hide with the new
// state; it runs on the timer goroutine for hides.
func New(d time.Duration, onChange func(visible bool, msg string)) *Notifier {
	if d <= 0 {
		d = DefaultDuration
	}
	return &Notifier{duration: d, onChange: onChange}
}

// Show makes the toast visible with msg and (re)arms the hide timer.
func (n *Notifier) Show(msg string) {
	n.mu.Lock()
	if n.timer != nil {
		n.timer.Stop()
	}
	n.seq++
	seq := n.seq
	n.visible = true
	n.msg = msg
	n.timer = time.AfterFunc(n.duration, func() { n.hide(seq) })
	n.mu.Unlock()

	n.notify(true, msg)
}

// Hide hides the toast immediately.
func (n *Notifier) Hide() {
	n.mu.Lock()
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.seq++
	was := n.visible
	n.visible = false
	msg := n.msg
	n.mu.Unlock()

	if was {
		n.notify(false, msg)
	}
}

func (n *Notifier) hide(seq uint64) {
	n.mu.Lock()
	// A later Show owns the toast now.
	if seq != n.seq {
		n.mu.Unlock()
		return
	}
	n.visible = false
	n.timer = nil
	msg := n.msg
	n.mu.Unlock()

	n.notify(false, msg)
}

func (n *Notifier) notify(visible bool, msg string) {
	if n.onChange != nil {
		n.onChange(visible, msg)
	}
}

// Visible reports whether the toast is showing.
func (n *Notifier) Visible() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.visible
}

// Message returns the last message shown. It stays set after the toast hides.
func (n *Notifier) Message() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.msg
}

// Duration returns the visibility duration.
func (n *Notifier) Duration() time.Duration {
	return n.duration
}
