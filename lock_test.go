package lockaroo

import (
	"errors"
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/zeebo/assert"
	"github.com/zeebo/pcg"
	"go.uber.org/atomic"
)

var (
	_ Lock = (*TASLock)(nil)
	_ Lock = (*TTASLock)(nil)
	_ Lock = (*BackoffLock)(nil)
	_ Lock = (*CLHLock)(nil)
	_ Lock = (*MCSLock)(nil)
	_ Lock = (*TimeoutLock)(nil)

	_ Bounded = (*PetersonLock)(nil)
	_ Bounded = (*FilterLock)(nil)
	_ Bounded = (*BakeryLock)(nil)
	_ Bounded = (*ArrayLock)(nil)
)

// testMutualExclusion hammers lock from workers goroutines and checks
// that the critical section never holds more than one of them. The
// plain counter is the real witness: the lock is the only thing
// keeping its increments from racing.
func testMutualExclusion(t *testing.T, lock Lock, workers, iters int) {
	var (
		wg         sync.WaitGroup
		occupancy  atomic.Int32
		violations atomic.Int32
		borrowErrs atomic.Int32
		counter    int
	)

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()

			ref, err := lock.Borrow()
			if err != nil {
				borrowErrs.Inc()
				return
			}
			defer ref.Release()

			for i := 0; i < iters; i++ {
				guard := ref.Acquire()
				if occupancy.Inc() != 1 {
					violations.Inc()
				}
				counter++
				occupancy.Dec()
				guard.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, borrowErrs.Load(), 0)
	assert.Equal(t, violations.Load(), 0)
	assert.Equal(t, counter, workers*iters)
}

func TestMutualExclusion(t *testing.T) {
	workers := runtime.GOMAXPROCS(-1)
	if workers < 2 {
		workers = 2
	}

	run := func(name string, workers, iters int, mk func(capacity int) Lock) {
		t.Run(name, func(t *testing.T) {
			testMutualExclusion(t, mk(workers), workers, iters)
		})
	}

	run("TAS", workers, 1000, func(int) Lock { return NewTASLock() })
	run("TTAS", workers, 1000, func(int) Lock { return NewTTASLock() })
	run("Backoff", workers, 200, func(int) Lock {
		return NewBackoffLock(10*time.Microsecond, time.Millisecond)
	})
	run("Peterson", 2, 1000, func(int) Lock { return NewPetersonLock(2) })
	run("Filter", workers, 500, func(c int) Lock { return NewFilterLock(c) })
	run("Bakery", workers, 500, func(c int) Lock { return NewBakeryLock(c) })
	run("Array", workers, 1000, func(c int) Lock { return NewArrayLock(c) })
	run("CLH", workers, 1000, func(int) Lock { return NewCLHLock() })
	run("MCS", workers, 1000, func(int) Lock { return NewMCSLock() })
	run("Timeout", workers, 1000, func(int) Lock { return NewTimeoutLock() })
}

// TestMutualExclusionJittered repeats the stress with pseudo-random
// amounts of work inside and outside the critical section, breaking up
// the lockstep schedules the plain loop tends to settle into.
func TestMutualExclusionJittered(t *testing.T) {
	workers := runtime.GOMAXPROCS(-1)
	if workers < 2 {
		workers = 2
	}
	lock := NewMCSLock()

	var (
		wg         sync.WaitGroup
		occupancy  atomic.Int32
		violations atomic.Int32
		counter    int
	)
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		w := w
		go func() {
			defer wg.Done()

			ref, _ := lock.Borrow()
			defer ref.Release()
			rng := pcg.New(uint64(w) + 1)

			for i := 0; i < 500; i++ {
				spin := rng.Uint64() % 64
				guard := ref.Acquire()
				if occupancy.Inc() != 1 {
					violations.Inc()
				}
				counter++
				for j := uint64(0); j < spin; j++ {
					occupancy.Load()
				}
				occupancy.Dec()
				guard.Unlock()
				if spin%8 == 0 {
					runtime.Gosched()
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, violations.Load(), 0)
	assert.Equal(t, counter, workers*500)
}

func TestBoundedCapacity(t *testing.T) {
	run := func(name string, capacity int, mk func(capacity int) Bounded) {
		t.Run(name, func(t *testing.T) {
			lock := mk(capacity)
			assert.Equal(t, lock.Capacity(), capacity)
			assert.Equal(t, lock.Free(), capacity)

			held := make([]Ref, capacity)
			for i := range held {
				ref, err := lock.Borrow()
				assert.NoError(t, err)
				held[i] = ref
			}
			assert.Equal(t, lock.Free(), 0)

			_, err := lock.Borrow()
			assert.Error(t, err)
			assert.That(t, errors.Is(err, ErrCapacityExceeded))

			// releasing any reference makes borrowing work again.
			held[capacity-1].Release()
			assert.Equal(t, lock.Free(), 1)
			ref, err := lock.Borrow()
			assert.NoError(t, err)
			held[capacity-1] = ref

			for _, ref := range held {
				ref.Release()
			}
			assert.Equal(t, lock.Free(), capacity)
		})
	}

	run("Peterson", 2, func(c int) Bounded { return NewPetersonLock(c) })
	run("Filter", 4, func(c int) Bounded { return NewFilterLock(c) })
	run("Bakery", 4, func(c int) Bounded { return NewBakeryLock(c) })
	run("Array", 4, func(c int) Bounded { return NewArrayLock(c) })
}

func TestConstructionPanics(t *testing.T) {
	assert.That(t, panics(func() { NewPetersonLock(3) }))
	assert.That(t, panics(func() { NewPetersonLock(0) }))
	assert.That(t, panics(func() { NewFilterLock(0) }))
	assert.That(t, panics(func() { NewBakeryLock(-1) }))
	assert.That(t, panics(func() { NewArrayLock(0) }))
	assert.That(t, panics(func() { NewBackoffLock(-time.Second, 0) }))
	assert.That(t, panics(func() { NewBackoffLock(time.Second, time.Millisecond) }))
}

func panics(fn func()) (panicked bool) {
	defer func() { panicked = recover() != nil }()
	fn()
	return false
}
