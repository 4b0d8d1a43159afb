package lockaroo

// mcsNode is a participant's queue node. The payload is the handle its
// successor installs so that the releasing participant knows who to
// wake. A successor that receives a node through the tail swap also
// receives the right to signal it.
type mcsNode = Wait[Notify[struct{}]]

// MCSLock is the Mellor-Crummey and Scott queue lock. Unlike CLH, the
// link runs from predecessor to successor: a new acquirer swaps its
// node into the tail and, if it displaced one, hands the predecessor a
// fresh handshake to wake it with and spins on that. Releasing either
// swings the empty tail off the participant's own node, or wakes the
// successor that linked in behind it.
type MCSLock struct {
	tail *Cell[mcsNode]
}

// NewMCSLock returns an unlocked MCSLock.
func NewMCSLock() *MCSLock {
	return &MCSLock{tail: NewCell[mcsNode](nil)}
}

// Borrow returns a reference. It never fails; queue position at
// Acquire time is the only identity a participant needs.
func (l *MCSLock) Borrow() (Ref, error) { return mcsRef{l: l}, nil }

type mcsRef struct {
	l *MCSLock
}

func (r mcsRef) Acquire() Guard {
	w := new(mcsNode)
	if pred := r.l.tail.Swap(w); pred != nil {
		iw, in := NewWait[struct{}]()
		notifyFor(pred).SignalWith(in)
		iw.Wait()
	}
	return mcsGuard{l: r.l, w: w}
}

func (r mcsRef) Release() {}

type mcsGuard struct {
	l *MCSLock
	w *mcsNode
}

func (g mcsGuard) Unlock() {
	// if the tail is still our node, nobody is queued behind us and
	// the swap back to empty releases the lock outright.
	if g.l.tail.CompareAndSwap(g.w, nil) {
		return
	}
	// a successor swapped itself in; once it finishes installing its
	// handshake into our node we wake it through that.
	in := g.w.Wait()
	in.Signal()
}
