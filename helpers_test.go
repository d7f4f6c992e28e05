package typedis

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
)

type user struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func testConfig(t *testing.T, mr *miniredis.Miniredis) Config {
	t.Helper()
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	return Config{
		Host:          mr.Host(),
		Port:          port,
		MaxTotalConns: 4,
		MaxIdleConns:  2,
		MinIdleConns:  0,
		ConnTimeoutMs: 1000,
	}
}

// newTestClient starts a miniredis and a client on it. mutate may adjust the config.
func newTestClient(t *testing.T, mutate func(*Config)) (*Client, *miniredis.Miniredis, *recHooks) {
	t.Helper()
	mr := miniredis.RunT(t)
	cfg := testConfig(t, mr)
	if mutate != nil {
		mutate(&cfg)
	}
	h := &recHooks{}
	c, err := New(cfg, Options{Hooks: h, PoolTimeout: time.Second})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Shutdown(context.Background()) })
	return c, mr, h
}

type failure struct {
	key    string
	reason string
	err    error
}

// recHooks records every event.
type recHooks struct {
	mu        sync.Mutex
	resets    int
	throttled int
	reads     []failure
	writes    []failure
	locks     []failure
	computes  []failure
}

func (h *recHooks) PoolReset(string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.resets++
}

func (h *recHooks) PoolResetThrottled(string, time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.throttled++
}

func (h *recHooks) ReadFailure(key, reason string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.reads = append(h.reads, failure{key, reason, err})
}

func (h *recHooks) WriteFailure(key, reason string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.writes = append(h.writes, failure{key, reason, err})
}

func (h *recHooks) LockFailure(key string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.locks = append(h.locks, failure{key: key, err: err})
}

func (h *recHooks) ComputeFailure(key string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.computes = append(h.computes, failure{key: key, err: err})
}

func (h *recHooks) counts() (resets, throttled int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.resets, h.throttled
}

type logEntry struct {
	level string
	msg   string
	f     Fields
}

type recLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *recLogger) add(level, msg string, f Fields) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{level, msg, f})
}

func (l *recLogger) Debug(msg string, f Fields) { l.add("debug", msg, f) }
func (l *recLogger) Info(msg string, f Fields)  { l.add("info", msg, f) }
func (l *recLogger) Warn(msg string, f Fields)  { l.add("warn", msg, f) }
func (l *recLogger) Error(msg string, f Fields) { l.add("error", msg, f) }

func (l *recLogger) find(level, msg string) (logEntry, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.level == level && e.msg == msg {
			return e, true
		}
	}
	return logEntry{}, false
}

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type stopRecorder struct {
	fns []func(context.Context) error
}

func (s *stopRecorder) OnStop(fn func(context.Context) error) { s.fns = append(s.fns, fn) }
