package lockaroo

import "sync/atomic"

// A Cell is an atomic pointer slot. Values move in and out only through
// atomic operations, so at every instant exactly one party holds any
// given value: either the cell or the caller an operation returned it
// to. The queue locks use Cells for their tails; a nil pointer stands
// for an empty slot in protocols that need one.
type Cell[T any] struct {
	p atomic.Pointer[T]
}

// NewCell returns a Cell holding v.
func NewCell[T any](v *T) *Cell[T] {
	c := new(Cell[T])
	c.p.Store(v)
	return c
}

// Load returns the current pointer without transferring it. The result
// is only good for identity checks such as a later CompareAndSwap;
// whoever owns the value through the cell may repossess it at any time.
func (c *Cell[T]) Load() *T { return c.p.Load() }

// Swap installs v and returns the displaced pointer, transferring its
// ownership to the caller.
func (c *Cell[T]) Swap(v *T) *T { return c.p.Swap(v) }

// CompareAndSwap installs v only if the cell still holds old, and
// reports whether it did. On success the caller owns old again; on
// failure the caller keeps v.
func (c *Cell[T]) CompareAndSwap(old, v *T) bool { return c.p.CompareAndSwap(old, v) }

// Take empties the cell and returns whatever it held. It is the final
// operation on a cell whose contents still need disposing.
func (c *Cell[T]) Take() *T { return c.p.Swap(nil) }
