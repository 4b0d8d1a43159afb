package lockaroo

import (
	"runtime"
	"sync/atomic"
)

// BakeryLock is Lamport's bakery lock: a participant takes a label one
// past the largest it can see and waits until no flagged participant
// holds a smaller one, with ties going to the smaller id. Labels only
// grow, which is what makes admission first-come-first-served.
//
// The flag and label pair needs more than release/acquire ordering: a
// participant that misses another's label write must still observe the
// flag write that preceded it. Go's atomic operations are sequentially
// consistent, which provides exactly that single global order.
type BakeryLock struct {
	flags  []atomic.Bool
	labels []atomic.Uint64
	refs   refs
}

// NewBakeryLock returns a BakeryLock for maxThreads participants.
func NewBakeryLock(maxThreads int) *BakeryLock {
	l := &BakeryLock{
		flags:  make([]atomic.Bool, maxThreads),
		labels: make([]atomic.Uint64, maxThreads),
	}
	l.refs.init(maxThreads)
	return l
}

// Borrow returns a reference carrying a participant id, or
// ErrCapacityExceeded if all of them are outstanding.
func (l *BakeryLock) Borrow() (Ref, error) {
	id, err := l.refs.acquire()
	if err != nil {
		return nil, err
	}
	return bakeryRef{l: l, id: id}, nil
}

// Capacity reports the number of references the lock hands out.
func (l *BakeryLock) Capacity() int { return l.refs.capacity() }

// Free reports how many references can currently be Borrowed.
func (l *BakeryLock) Free() int { return l.refs.left() }

// blocked reports whether some other flagged participant beats label:
// it holds a smaller one, or an equal one with a smaller id.
func (l *BakeryLock) blocked(id int, label uint64) bool {
	for k := range l.flags {
		if k == id || !l.flags[k].Load() {
			continue
		}
		switch other := l.labels[k].Load(); {
		case other < label:
			return true
		case other == label && k < id:
			return true
		}
	}
	return false
}

type bakeryRef struct {
	l  *BakeryLock
	id int
}

func (r bakeryRef) Acquire() Guard {
	l := r.l

	l.flags[r.id].Store(true)
	var max uint64
	for k := range l.labels {
		if label := l.labels[k].Load(); label > max {
			max = label
		}
	}
	label := max + 1
	l.labels[r.id].Store(label)

	for l.blocked(r.id, label) {
		runtime.Gosched()
	}
	return flagGuard{flag: &l.flags[r.id]}
}

func (r bakeryRef) Release() { r.l.refs.release(r.id) }
