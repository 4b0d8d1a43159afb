package lockaroo

import "sync/atomic"

// flagGuard releases by clearing a single flag. It serves every lock
// whose release protocol is one store of false: Peterson, Bakery, TAS,
// TTAS and Backoff.
type flagGuard struct {
	flag *atomic.Bool
}

func (g flagGuard) Unlock() { g.flag.Store(false) }

// levelGuard releases a Filter participant by resetting its level.
type levelGuard struct {
	level *atomic.Uint64
}

func (g levelGuard) Unlock() { g.level.Store(0) }

// arrayGuard releases an Array slot by clearing the participant's flag
// and then admitting the next slot. The clear comes first so the two
// flags are never both set once the wraparound can observe them.
type arrayGuard struct {
	curr *atomic.Bool
	next *atomic.Bool
}

func (g arrayGuard) Unlock() {
	g.curr.Store(false)
	g.next.Store(true)
}

// notifyGuard releases by signaling the participant's queue node,
// which is all CLH and the blocking timeout path need: the successor
// is spinning on that node, or will be once it links in.
type notifyGuard[T any] struct {
	n Notify[T]
}

func (g notifyGuard[T]) Unlock() { g.n.Signal() }
