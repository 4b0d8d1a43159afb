package lockaroo

import (
	"runtime"
	"sync/atomic"
)

// PetersonLock is Peterson's two participant lock: each participant
// raises a flag and then yields the victim position, and whoever is
// the victim waits while the other's flag is up.
type PetersonLock struct {
	flags  [2]atomic.Bool
	victim atomic.Int32
	refs   refs
}

// NewPetersonLock returns a PetersonLock for up to maxThreads
// participants. The algorithm caps maxThreads at two; the lock carries
// both identities even when only one is requested.
func NewPetersonLock(maxThreads int) *PetersonLock {
	if maxThreads < 1 {
		panic("lockaroo: lock capacity must be at least one")
	}
	if maxThreads > 2 {
		panic("lockaroo: peterson lock cannot support more than two threads")
	}
	l := new(PetersonLock)
	l.refs.init(2)
	return l
}

// Borrow returns a reference carrying one of the two identities, or
// ErrCapacityExceeded if both are outstanding.
func (l *PetersonLock) Borrow() (Ref, error) {
	id, err := l.refs.acquire()
	if err != nil {
		return nil, err
	}
	return petersonRef{l: l, id: id}, nil
}

// Capacity reports the number of references the lock hands out.
func (l *PetersonLock) Capacity() int { return l.refs.capacity() }

// Free reports how many references can currently be Borrowed.
func (l *PetersonLock) Free() int { return l.refs.left() }

type petersonRef struct {
	l  *PetersonLock
	id int
}

func (r petersonRef) Acquire() Guard {
	l, me := r.l, int32(r.id)
	flag, other := &l.flags[r.id], &l.flags[1-r.id]

	flag.Store(true)
	// the result is unused: the swap is a read-modify-write, so the
	// flag store above and the victim write reach the other
	// participant as a pair.
	l.victim.Swap(me)
	for other.Load() && l.victim.Load() == me {
		runtime.Gosched()
	}
	return flagGuard{flag: flag}
}

func (r petersonRef) Release() { r.l.refs.release(r.id) }
