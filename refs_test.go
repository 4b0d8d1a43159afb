package lockaroo

import (
	"errors"
	"sync"
	"testing"

	"github.com/zeebo/assert"
	"go.uber.org/atomic"
)

func TestRefsClaims(t *testing.T) {
	var r refs
	r.init(3)
	assert.Equal(t, r.capacity(), 3)
	assert.Equal(t, r.left(), 3)

	a, err := r.acquire()
	assert.NoError(t, err)
	assert.Equal(t, a, 0)
	b, err := r.acquire()
	assert.NoError(t, err)
	assert.Equal(t, b, 1)
	c, err := r.acquire()
	assert.NoError(t, err)
	assert.Equal(t, c, 2)
	assert.Equal(t, r.left(), 0)

	_, err = r.acquire()
	assert.That(t, errors.Is(err, ErrCapacityExceeded))
	assert.Equal(t, r.left(), 0)

	// a released identity is handed out again; the identities of live
	// references stay distinct.
	r.release(b)
	id, err := r.acquire()
	assert.NoError(t, err)
	assert.Equal(t, id, 1)

	r.release(a)
	r.release(id)
	r.release(c)
	assert.Equal(t, r.left(), 3)
}

func TestRefsDistinct(t *testing.T) {
	const capacity, workers, iters = 4, 8, 500

	var r refs
	r.init(capacity)

	// shadow the claim table: holding an id means owning its shadow
	// slot, so two live references sharing an id would collide there.
	shadow := make([]atomic.Int32, capacity)
	var violations atomic.Int32

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		w := w
		go func() {
			defer wg.Done()
			for i := 0; i < iters; i++ {
				id, err := r.acquire()
				if err != nil {
					continue
				}
				if !shadow[id].CompareAndSwap(0, int32(w+1)) {
					violations.Inc()
				}
				shadow[id].Store(0)
				r.release(id)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, violations.Load(), 0)
	assert.Equal(t, r.left(), capacity)
}
