// package lockaroo is a collection of mutual exclusion algorithms built
// directly on atomic memory operations.
//
// Every lock in the package is a spin lock: a blocked participant keeps
// polling some atomic location instead of parking in the runtime, which
// keeps acquire and release cheap when critical sections are short and
// the number of participants is known. The package contains the classic
// algorithms from the literature:
//
//	NewTASLock      test-and-set on a single flag
//	NewTTASLock     test-and-test-and-set, polling before swapping
//	NewBackoffLock  TTAS with randomized exponential backoff
//	NewPetersonLock two participants, flags and a victim
//	NewFilterLock   N participants, Peterson generalized to levels
//	NewBakeryLock   N participants, tickets with an id tie-break
//	NewArrayLock    N participants, FIFO over a ring of padded slots
//	NewCLHLock      FIFO queue, spinning on the predecessor's node
//	NewMCSLock      FIFO queue, spinning on the participant's own node
//	NewTimeoutLock  queue lock whose acquire can give up on a deadline
//
// Locks hand out references, and references perform the locking. The
// bounded algorithms (Peterson, Filter, Bakery, Array) need a fixed set
// of participants with stable identities, so borrowing a reference can
// fail once the capacity is exhausted; the unbounded ones never fail:
//
//	lock := lockaroo.NewBakeryLock(4)
//
//	ref, err := lock.Borrow()
//	if err != nil {
//		// four references are already outstanding
//	}
//	defer ref.Release()
//
//	guard := ref.Acquire()
//	counter++
//	guard.Unlock()
//
// The queue locks are assembled from two primitives that are exported
// because they are useful on their own. A Wait/Notify pair is a single
// use handshake: one side blocks on a flag, the other sets it exactly
// once, optionally transferring a payload. A Cell is an atomic pointer
// slot with swap and compare-and-swap, which is all a queue tail needs:
//
//	w, n := lockaroo.NewWait[int]()
//	go func() { n.SignalWith(42) }()
//	println(w.Wait())
//
// None of these locks suspend the calling goroutine in the scheduler
// beyond yielding between polls, so they are not a replacement for
// sync.Mutex under long critical sections or heavy oversubscription.
// They shine when contention is structured: admission order matters,
// participants are registered up front, or the cost being measured is
// the locking protocol itself.
package lockaroo
