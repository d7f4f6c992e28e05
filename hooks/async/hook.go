// Package asynchook runs typedis.Hooks off the caller's goroutine.
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{ReadFailureEvery: 10})
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	c, _ := typedis.New(cfg, typedis.Options{Hooks: hooks})
package asynchook

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/unkn0wn-root/typedis"
)

// Hooks queues every event for a fixed set of workers. When the queue is full
// the event is dropped and counted; the caller never blocks.
type Hooks struct {
	inner typedis.Hooks
	q     chan func()
	wg    sync.WaitGroup

	mu      sync.RWMutex
	closed  bool
	dropped atomic.Uint64
}

var _ typedis.Hooks = (*Hooks)(nil)

func New(inner typedis.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

// Close stops accepting events and waits for the queued ones to run.
func (h *Hooks) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	close(h.q)
	h.mu.Unlock()
	h.wg.Wait()
}

// Dropped is the number of events discarded because the queue was full or closed.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.dropped.Add(1)
		return
	}
	select {
	case h.q <- f:
	default:
		h.dropped.Add(1)
	}
}

func (h *Hooks) PoolReset(ep string) { h.try(func() { h.inner.PoolReset(ep) }) }
func (h *Hooks) PoolResetThrottled(ep string, since time.Duration) {
	h.try(func() { h.inner.PoolResetThrottled(ep, since) })
}
func (h *Hooks) ReadFailure(k, r string, err error) {
	h.try(func() { h.inner.ReadFailure(k, r, err) })
}
func (h *Hooks) WriteFailure(k, r string, err error) {
	h.try(func() { h.inner.WriteFailure(k, r, err) })
}
func (h *Hooks) LockFailure(k string, err error)    { h.try(func() { h.inner.LockFailure(k, err) }) }
func (h *Hooks) ComputeFailure(k string, err error) { h.try(func() { h.inner.ComputeFailure(k, err) }) }
