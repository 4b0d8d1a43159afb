package lockaroo

import "errors"

// ErrCapacityExceeded is returned by Borrow on a bounded lock when all
// of its references are already outstanding. Borrowing can succeed
// again after an outstanding reference is Released.
var ErrCapacityExceeded = errors.New("lockaroo: thread capacity exceeded")

// A Lock hands out references to participants. Bounded locks have a
// fixed capacity of references and fail with ErrCapacityExceeded once
// it is reached; unbounded locks never fail.
type Lock interface {
	Borrow() (Ref, error)
}

// A Bounded lock is a Lock with a fixed capacity of references.
type Bounded interface {
	Lock

	// Capacity reports the number of references the lock was
	// constructed with.
	Capacity() int

	// Free reports how many references can currently be Borrowed.
	Free() int
}

// A Ref is one participant's handle on a lock. A Ref must not be used
// concurrently and must be Released exactly once when the participant
// is done with the lock.
type Ref interface {
	// Acquire blocks until the participant holds the lock and
	// returns the Guard that releases it. It never fails.
	Acquire() Guard

	// Release returns the reference to the lock.
	Release()
}

// A Guard is a held lock. It is only produced by Acquire.
type Guard interface {
	// Unlock releases the lock and must be called exactly once.
	Unlock()
}
