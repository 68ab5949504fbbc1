// Package debounce collapses bursts of calls into a single trailing call.
//
// Two forms are provided:
//   - [Func] is timer-driven and safe for concurrent use. Each [Func.Call]
//     cancels the pending invocation and schedules a new one after the quiet
//     period, so the wrapped action runs once with the last argument.
//   - [Gate] is for single-threaded message loops (such as a bubbletea Update
//     function) that schedule their own ticks. Each event takes a token from
//     [Gate.Next]; when the tick for that token arrives, [Gate.Settled] reports
//     whether any newer event happened in the meantime.
package debounce

import (
	"sync"
	"time"
)

// Func wraps an action so that rapid repeated calls result in a single
// invocation wait after the last call.
type Func[T any] struct {
	wait   time.Duration
	action func(T)

	mu      sync.Mutex
	timer   *time.Timer
	pending bool
	last    T
	seq     uint64
}

// New returns a debounced wrapper around action.
// A non-positive wait runs the action on the next timer tick.
func New[T any](wait time.Duration, action func(T)) *Func[T] {
	return &Func[T]{wait: max(wait, 0), action: action}
}

// Call records v and (re)schedules the action. It never blocks on the action
// and discards its outcome.
func (f *Func[T]) Call(v T) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.timer != nil {
		f.timer.Stop()
	}
	f.last = v
	f.pending = true
	f.seq++
	seq := f.seq
	f.timer = time.AfterFunc(f.wait, func() { f.fire(seq) })
}

// fire runs the action if seq is still the latest scheduled call. A timer that
// was stopped too late to prevent its goroutine from starting is ignored here.
func (f *Func[T]) fire(seq uint64) {
	f.mu.Lock()
	if !f.pending || seq != f.seq {
		f.mu.Unlock()
		return
	}
	v := f.last
	f.pending = false
	f.timer = nil
	f.mu.Unlock()

	f.action(v)
}

// Stop cancels any pending invocation.
func (f *Func[T]) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	f.pending = false
}

// Flush runs a pending invocation immediately on the calling goroutine.
// It reports whether there was anything to run.
func (f *Func[T]) Flush() bool {
	f.mu.Lock()
	if !f.pending {
		f.mu.Unlock()
		return false
	}
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
	v := f.last
	f.pending = false
	f.seq++
	f.mu.Unlock()

	f.action(v)
	return true
}

// Pending reports whether an invocation is scheduled.
func (f *Func[T]) Pending() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pending
}
