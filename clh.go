package lockaroo

// CLHLock is the Craig, Landin and Hagersten queue lock. The queue is
// implicit: the tail cell holds the most recent acquirer's handshake,
// and each new acquirer swaps its own in, receiving its predecessor's
// to spin on. Releasing signals the acquirer's own handshake, which is
// exactly the one its successor holds.
type CLHLock struct {
	tail *Cell[Wait[struct{}]]
}

// NewCLHLock returns an unlocked CLHLock. The tail is seeded with an
// already signaled handshake so the first acquirer does not wait.
func NewCLHLock() *CLHLock {
	return &CLHLock{tail: NewCell(Notified(struct{}{}))}
}

// Borrow returns a reference. It never fails; queue position at
// Acquire time is the only identity a participant needs.
func (l *CLHLock) Borrow() (Ref, error) { return clhRef{l: l}, nil }

type clhRef struct {
	l *CLHLock
}

func (r clhRef) Acquire() Guard {
	w, n := NewWait[struct{}]()
	pred := r.l.tail.Swap(w)
	pred.Wait()
	return notifyGuard[struct{}]{n: n}
}

func (r clhRef) Release() {}
