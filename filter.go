package lockaroo

import (
	"runtime"
	"sync/atomic"
)

// FilterLock generalizes Peterson's lock to N participants: there are
// N-1 levels to climb, each level runs the Peterson protocol among
// whoever reached it, and each level filters out at least one
// contender, so at most one participant clears the top.
type FilterLock struct {
	levels  []atomic.Uint64
	victims []atomic.Uint64
	refs    refs
}

// NewFilterLock returns a FilterLock for maxThreads participants.
func NewFilterLock(maxThreads int) *FilterLock {
	l := &FilterLock{
		levels:  make([]atomic.Uint64, maxThreads),
		victims: make([]atomic.Uint64, maxThreads),
	}
	l.refs.init(maxThreads)
	return l
}

// Borrow returns a reference carrying a participant id, or
// ErrCapacityExceeded if all of them are outstanding.
func (l *FilterLock) Borrow() (Ref, error) {
	id, err := l.refs.acquire()
	if err != nil {
		return nil, err
	}
	return filterRef{l: l, id: id}, nil
}

// Capacity reports the number of references the lock hands out.
func (l *FilterLock) Capacity() int { return l.refs.capacity() }

// Free reports how many references can currently be Borrowed.
func (l *FilterLock) Free() int { return l.refs.left() }

// blockedAt reports whether participant id must keep waiting at level
// i: some other participant has reached the level and id is still the
// level's victim.
func (l *FilterLock) blockedAt(i uint64, id int) bool {
	for k := range l.levels {
		if k == id {
			continue
		}
		if l.levels[k].Load() < i {
			continue
		}
		if l.victims[i].Load() == uint64(id) {
			return true
		}
	}
	return false
}

type filterRef struct {
	l  *FilterLock
	id int
}

func (r filterRef) Acquire() Guard {
	l := r.l
	for i := uint64(1); i < uint64(len(l.levels)); i++ {
		// same shape as the peterson acquire, once per level: record
		// the level, yield the victim position, wait out the filter.
		l.levels[r.id].Store(i)
		l.victims[i].Swap(uint64(r.id))
		for l.blockedAt(i, r.id) {
			runtime.Gosched()
		}
	}
	return levelGuard{level: &l.levels[r.id]}
}

func (r filterRef) Release() { r.l.refs.release(r.id) }
