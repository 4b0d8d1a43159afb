package lockaroo

import (
	"runtime"
	"sync/atomic"
)

// TASLock is the test-and-set lock: a single flag that every acquirer
// swaps until one of them observes the false to true transition. It is
// the simplest lock in the package and the most cache-hostile under
// contention, since every spin is a write.
type TASLock struct {
	locked atomic.Bool
}

// NewTASLock returns an unlocked TASLock.
func NewTASLock() *TASLock { return new(TASLock) }

// Borrow returns a reference. It never fails.
func (l *TASLock) Borrow() (Ref, error) { return tasRef{l: l}, nil }

type tasRef struct {
	l *TASLock
}

func (r tasRef) Acquire() Guard {
	for r.l.locked.Swap(true) {
		runtime.Gosched()
	}
	return flagGuard{flag: &r.l.locked}
}

func (r tasRef) Release() {}
