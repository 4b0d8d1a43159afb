package lockaroo

import (
	"runtime"
	"time"
)

// timeoutNode chains deadline-bounded waiters. A signaled node whose
// payload is nil released the lock to whoever collapses the chain down
// to it; a signaled node with a payload timed out, and the payload is
// the rest of the chain it was waiting on.
type timeoutNode struct {
	hs Wait[*timeoutNode]
}

func newTimeoutNode() (*timeoutNode, Notify[*timeoutNode]) {
	n := new(timeoutNode)
	return n, notifyFor(&n.hs)
}

// collapse follows the chain from n across signaled nodes, returning
// the first node still pending, or nil once a node with no further
// predecessor is reached and the lock is the caller's.
func collapse(n *timeoutNode) *timeoutNode {
	for {
		next, ok := n.hs.TryWait()
		if !ok {
			return n
		}
		if next == nil {
			return nil
		}
		n = next
	}
}

// TimeoutLock is a CLH-style queue lock whose acquire can give up. A
// participant links into the queue the same way, but polls its
// predecessor instead of blocking on it; on timing out it publishes
// the unfinished remainder of the chain through its own node, so its
// successor simply waits through it and nobody is orphaned.
type TimeoutLock struct {
	tail *Cell[timeoutNode]
}

// NewTimeoutLock returns an unlocked TimeoutLock. The tail is seeded
// with an already signaled node so the first acquirer does not wait.
func NewTimeoutLock() *TimeoutLock {
	seed, n := newTimeoutNode()
	n.Signal()
	return &TimeoutLock{tail: NewCell(seed)}
}

// TryAcquire links into the queue and polls for up to timeout. It
// returns the guard and true on success, and nil and false if the
// deadline passed first. Timing out still costs the queue slot: later
// acquirers are admitted through the abandoned node in order.
func (l *TimeoutLock) TryAcquire(timeout time.Duration) (Guard, bool) {
	start := time.Now()
	node, n := newTimeoutNode()
	pred := l.tail.Swap(node)
	for {
		if pred = collapse(pred); pred == nil {
			return notifyGuard[*timeoutNode]{n: n}, true
		}
		if time.Since(start) >= timeout {
			// hand the pending remainder to our successor and bow out.
			n.SignalWith(pred)
			return nil, false
		}
		runtime.Gosched()
	}
}

// Borrow returns a reference whose Acquire blocks without a deadline.
// It never fails.
func (l *TimeoutLock) Borrow() (Ref, error) { return timeoutRef{l: l}, nil }

type timeoutRef struct {
	l *TimeoutLock
}

func (r timeoutRef) Acquire() Guard {
	node, n := newTimeoutNode()
	pred := r.l.tail.Swap(node)
	for {
		if pred = collapse(pred); pred == nil {
			return notifyGuard[*timeoutNode]{n: n}
		}
		runtime.Gosched()
	}
}

func (r timeoutRef) Release() {}
