package lockaroo

import (
	"runtime"
	"sync/atomic"
	"unsafe"
)

const cacheLine = 64 // typical size of a cache line

// slot is a single admission flag padded out to its own cache line so
// that participants spinning on neighboring slots do not share one.
type slot struct {
	flag atomic.Bool
	_    [cacheLine - unsafe.Sizeof(atomic.Bool{})]byte
}

// ArrayLock admits participants in FIFO order through a ring of
// padded slots. An acquirer takes the next ticket from an atomic
// counter and spins on its own slot; releasing clears that slot and
// sets the following one. The ring reuses slots modulo the capacity,
// which is safe because the bounded references keep the number of
// simultaneous waiters within it.
type ArrayLock struct {
	slots []slot
	next  atomic.Uint64
	refs  refs
}

// NewArrayLock returns an ArrayLock for maxThreads participants.
func NewArrayLock(maxThreads int) *ArrayLock {
	l := &ArrayLock{slots: make([]slot, maxThreads)}
	l.refs.init(maxThreads)
	l.slots[0].flag.Store(true)
	return l
}

// flag returns the slot flag for ticket n. The modulo keeps the index
// in bounds for any ticket.
func (l *ArrayLock) flag(n uint64) *atomic.Bool {
	return &l.slots[n%uint64(len(l.slots))].flag
}

// Borrow returns a reference, or ErrCapacityExceeded if maxThreads of
// them are outstanding.
func (l *ArrayLock) Borrow() (Ref, error) {
	id, err := l.refs.acquire()
	if err != nil {
		return nil, err
	}
	return arrayRef{l: l, id: id}, nil
}

// Capacity reports the number of references the lock hands out.
func (l *ArrayLock) Capacity() int { return l.refs.capacity() }

// Free reports how many references can currently be Borrowed.
func (l *ArrayLock) Free() int { return l.refs.left() }

type arrayRef struct {
	l  *ArrayLock
	id int
}

func (r arrayRef) Acquire() Guard {
	l := r.l
	ticket := l.next.Add(1) - 1
	curr, next := l.flag(ticket), l.flag(ticket+1)
	for !curr.Load() {
		runtime.Gosched()
	}
	return arrayGuard{curr: curr, next: next}
}

func (r arrayRef) Release() { r.l.refs.release(r.id) }
