package lockaroo

import (
	"runtime"
	"sync/atomic"
	"time"
)

// TTASLock is the test-and-test-and-set lock. Acquirers poll the flag
// with plain loads until it reads free and only then attempt the swap,
// so a spinning participant reads a shared cache line instead of
// invalidating it.
type TTASLock struct {
	locked atomic.Bool
}

// NewTTASLock returns an unlocked TTASLock.
func NewTTASLock() *TTASLock { return new(TTASLock) }

// Borrow returns a reference. It never fails.
func (l *TTASLock) Borrow() (Ref, error) { return ttasRef{l: l}, nil }

// tryAcquire polls until the flag reads free, then makes one attempt
// at the swap and reports whether it won.
func (l *TTASLock) tryAcquire() bool {
	for l.locked.Load() {
		runtime.Gosched()
	}
	return !l.locked.Swap(true)
}

type ttasRef struct {
	l *TTASLock
}

func (r ttasRef) Acquire() Guard {
	for !r.l.tryAcquire() {
	}
	return flagGuard{flag: &r.l.locked}
}

func (r ttasRef) Release() {}

// Default delay bounds for NewBackoffLock.
const (
	DefaultMinDelay = time.Millisecond
	DefaultMaxDelay = time.Second
)

// BackoffLock is a TTASLock that sleeps between failed attempts, with
// randomized delays that grow exponentially from min up to max. Losing
// a race costs a sleep, so throughput under contention improves at the
// price of latency.
type BackoffLock struct {
	ttas TTASLock
	min  time.Duration
	max  time.Duration
}

// NewBackoffLock returns an unlocked BackoffLock with the given delay
// bounds. Zero durations select DefaultMinDelay and DefaultMaxDelay.
// The bounds must end up positive and ordered.
func NewBackoffLock(min, max time.Duration) *BackoffLock {
	if min == 0 {
		min = DefaultMinDelay
	}
	if max == 0 {
		max = DefaultMaxDelay
	}
	if min < 0 || max < min {
		panic("lockaroo: backoff delays must be positive and ordered")
	}
	return &BackoffLock{min: min, max: max}
}

// Borrow returns a reference. It never fails.
func (l *BackoffLock) Borrow() (Ref, error) { return backoffRef{l: l}, nil }

type backoffRef struct {
	l *BackoffLock
}

func (r backoffRef) Acquire() Guard {
	b := NewBackoff(r.l.min, r.l.max)
	for !r.l.ttas.tryAcquire() {
		b.Backoff()
	}
	return flagGuard{flag: &r.l.ttas.locked}
}

func (r backoffRef) Release() {}
