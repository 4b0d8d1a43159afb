package lockaroo

import (
	"testing"
	"time"

	"github.com/zeebo/assert"
)

func TestTimeoutLockTimesOut(t *testing.T) {
	lock := NewTimeoutLock()

	guard, ok := lock.TryAcquire(time.Second)
	assert.That(t, ok)

	// the attempt waits out its deadline but does not run far past it.
	start := time.Now()
	_, ok = lock.TryAcquire(50 * time.Millisecond)
	elapsed := time.Since(start)
	assert.That(t, !ok)
	assert.That(t, elapsed >= 50*time.Millisecond)
	assert.That(t, elapsed < 2*time.Second)

	// once the holder lets go, the next attempt runs through the
	// abandoned node and succeeds.
	guard.Unlock()
	guard, ok = lock.TryAcquire(time.Second)
	assert.That(t, ok)
	guard.Unlock()
}

func TestTimeoutLockZeroTimeout(t *testing.T) {
	lock := NewTimeoutLock()

	// an uncontended attempt succeeds even with no budget.
	guard, ok := lock.TryAcquire(0)
	assert.That(t, ok)

	// a contended one gives up after a single poll.
	_, ok = lock.TryAcquire(0)
	assert.That(t, !ok)

	guard.Unlock()
	guard, ok = lock.TryAcquire(0)
	assert.That(t, ok)
	guard.Unlock()
}

func TestTimeoutLockReattachesChain(t *testing.T) {
	lock := NewTimeoutLock()

	guard, ok := lock.TryAcquire(time.Second)
	assert.That(t, ok)

	// this attempt abandons its queue position, leaving a node that
	// points back at the holder.
	_, ok = lock.TryAcquire(10 * time.Millisecond)
	assert.That(t, !ok)

	// a blocking acquire must wait through the abandoned node: not be
	// admitted while the lock is held, and be admitted once released.
	ref, err := lock.Borrow()
	assert.NoError(t, err)
	acquired := make(chan Guard, 1)
	go func() { acquired <- ref.Acquire() }()

	time.Sleep(20 * time.Millisecond)
	select {
	case <-acquired:
		t.Fatal("acquire returned while the lock was held")
	default:
	}

	guard.Unlock()
	g := <-acquired
	g.Unlock()
	ref.Release()
}
