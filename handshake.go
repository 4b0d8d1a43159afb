package lockaroo

import (
	"runtime"
	"sync/atomic"
)

// A Wait is the blocking half of a single use handshake. It owns the
// shared flag and payload; the paired Notify sets the flag exactly
// once. The payload is only valid to read after the flag is observed
// set, which is what Wait and TryWait enforce.
type Wait[T any] struct {
	flag atomic.Bool
	t    T
}

// A Notify is the signaling half of a handshake produced by NewWait.
// Exactly one of Signal or SignalWith must be called on it, exactly
// once.
type Notify[T any] struct {
	w *Wait[T]
}

// NewWait returns a connected Wait and Notify sharing one flag and a
// zero payload.
func NewWait[T any]() (*Wait[T], Notify[T]) {
	w := new(Wait[T])
	return w, Notify[T]{w: w}
}

// WaitWith is NewWait with the payload initialized to t.
func WaitWith[T any](t T) (*Wait[T], Notify[T]) {
	w := &Wait[T]{t: t}
	return w, Notify[T]{w: w}
}

// Notified returns a Wait that is already signaled with payload t, so
// the first Wait call returns immediately. The queue locks seed their
// tails with one so the first participant does not block.
func Notified[T any](t T) *Wait[T] {
	w := &Wait[T]{t: t}
	w.flag.Store(true)
	return w
}

// notifyFor recovers the signaling half for a node received through a
// queue tail swap. The tail transfer is what carries the right to
// signal, so this stays inside the package.
func notifyFor[T any](w *Wait[T]) Notify[T] { return Notify[T]{w: w} }

// Wait spins until the paired Notify signals, then returns the payload.
func (w *Wait[T]) Wait() T {
	for !w.flag.Load() {
		runtime.Gosched()
	}
	return w.t
}

// TryWait returns the payload and true if the handshake has been
// signaled, and the zero value and false if it has not.
func (w *Wait[T]) TryWait() (T, bool) {
	if w.flag.Load() {
		return w.t, true
	}
	var zero T
	return zero, false
}

// Reset blocks until the pending signal lands, then rearms the
// handshake and returns a fresh Notify for it. The payload carries
// over. Only the waiting side may call Reset.
func (w *Wait[T]) Reset() Notify[T] {
	for !w.flag.Load() {
		runtime.Gosched()
	}
	w.flag.Store(false)
	return Notify[T]{w: w}
}

// Signal sets the flag, unblocking the paired Wait with whatever
// payload the handshake already holds.
func (n Notify[T]) Signal() { n.w.flag.Store(true) }

// SignalWith stores t as the payload and then sets the flag. The store
// happens before the flag, so a waiter that observes the flag set also
// observes t.
func (n Notify[T]) SignalWith(t T) {
	n.w.t = t
	n.w.flag.Store(true)
}
