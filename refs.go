package lockaroo

import (
	"runtime"
	"sync/atomic"
)

// refs is the bookkeeping shared by the bounded locks: a gate counting
// how many references remain and a claim table handing out participant
// ids. Ids of live references are always distinct, so they are safe to
// use as indexes into per-participant state.
type refs struct {
	free   atomic.Int64
	claims []atomic.Bool
}

func (r *refs) init(capacity int) {
	if capacity < 1 {
		panic("lockaroo: lock capacity must be at least one")
	}
	r.free.Store(int64(capacity))
	r.claims = make([]atomic.Bool, capacity)
}

// acquire claims a reference and returns its participant id. Claims are
// cleared before the gate reopens, so once the gate admits a caller the
// table is guaranteed to hold a free slot, though a racing borrower may
// force another pass to find it.
func (r *refs) acquire() (int, error) {
	if r.free.Add(-1) < 0 {
		r.free.Add(1)
		return 0, ErrCapacityExceeded
	}
	for {
		for id := range r.claims {
			if !r.claims[id].Load() && r.claims[id].CompareAndSwap(false, true) {
				return id, nil
			}
		}
		runtime.Gosched()
	}
}

// release returns id's claim and reopens the gate.
func (r *refs) release(id int) {
	r.claims[id].Store(false)
	r.free.Add(1)
}

func (r *refs) capacity() int { return len(r.claims) }

// left reports how many references remain, clamping the transient
// negative readings caused by racing acquires.
func (r *refs) left() int {
	if free := r.free.Load(); free > 0 {
		return int(free)
	}
	return 0
}
