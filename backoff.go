package lockaroo

import (
	"sync/atomic"
	"time"

	"github.com/zeebo/pcg"
)

// backoffSeq separates the rng states of Backoffs created in the same
// nanosecond.
var backoffSeq uint64

// A Backoff sleeps for randomized, exponentially growing durations. It
// is used between failed attempts on a contended lock so that the
// contenders spread out instead of hammering the same location in step.
// Correctness of the locks never depends on its timing.
type Backoff struct {
	limit time.Duration
	max   time.Duration
	rng   pcg.T
}

// NewBackoff returns a Backoff whose first delay is drawn from
// [0, min) and whose upper bound doubles on every call until it
// reaches max. Both durations must be positive and min must not
// exceed max.
func NewBackoff(min, max time.Duration) Backoff {
	if min <= 0 || max < min {
		panic("lockaroo: backoff delays must be positive and ordered")
	}
	seq := atomic.AddUint64(&backoffSeq, 1)
	return Backoff{
		limit: min,
		max:   max,
		rng:   pcg.New(uint64(time.Now().UnixNano()) + seq),
	}
}

// Backoff sleeps for the next delay.
func (b *Backoff) Backoff() { time.Sleep(b.next()) }

// next draws a delay uniformly below the current limit and doubles the
// limit up to the configured maximum.
func (b *Backoff) next() time.Duration {
	delay := time.Duration(b.rng.Uint64() % uint64(b.limit))
	if b.limit *= 2; b.limit > b.max {
		b.limit = b.max
	}
	return delay
}
