package asynchook

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unkn0wn-root/typedis"
)

type countingHooks struct {
	typedis.NopHooks
	mu    sync.Mutex
	reads []string
	block chan struct{}
}

func (h *countingHooks) ReadFailure(key, _ string, _ error) {
	if h.block != nil {
		<-h.block
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reads = append(h.reads, key)
}

func (h *countingHooks) n() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.reads)
}

func TestCloseDrainsQueue(t *testing.T) {
	inner := &countingHooks{}
	h := New(inner, 2, 100)

	for i := 0; i < 50; i++ {
		h.ReadFailure("k", typedis.ReasonConnection, errors.New("x"))
	}
	h.Close()

	assert.Equal(t, 50, inner.n())
	assert.Zero(t, h.Dropped())
}

func TestDropsWhenFull(t *testing.T) {
	inner := &countingHooks{block: make(chan struct{})}
	h := New(inner, 1, 2)

	// the worker takes the first event and blocks; two more fill the queue
	h.ReadFailure("a", "", nil)
	require.Eventually(t, func() bool { return len(h.q) == 0 }, time.Second, time.Millisecond)
	h.ReadFailure("b", "", nil)
	h.ReadFailure("c", "", nil)
	h.ReadFailure("d", "", nil)
	h.ReadFailure("e", "", nil)

	assert.Equal(t, uint64(2), h.Dropped())
	close(inner.block)
	h.Close()
	assert.Equal(t, 3, inner.n())
}

func TestEventsAfterCloseAreDropped(t *testing.T) {
	inner := &countingHooks{}
	h := New(inner, 1, 4)
	h.Close()
	h.Close()

	assert.NotPanics(t, func() { h.PoolReset("redis://x:1") })
	assert.Equal(t, uint64(1), h.Dropped())
}
