package promhooks

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHooksCount(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := New(reg, "")
	err := errors.New("x")

	h.PoolReset("e")
	h.PoolReset("e")
	h.PoolResetThrottled("e", time.Second)
	h.ReadFailure("k", "decode", err)
	h.ReadFailure("k", "connection", err)
	h.ReadFailure("k", "connection", err)
	h.WriteFailure("k", "encode", err)
	h.LockFailure("k", err)
	h.ComputeFailure("k", err)

	assert.Equal(t, 2.0, testutil.ToFloat64(h.poolResets))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.poolThrottled))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.readFailures.WithLabelValues("decode")))
	assert.Equal(t, 2.0, testutil.ToFloat64(h.readFailures.WithLabelValues("connection")))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.writeFailures.WithLabelValues("encode")))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.lockFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(h.computeFailure))

	expected := `
# HELP typedis_pool_resets_total Connection pools built, initial one included
# TYPE typedis_pool_resets_total counter
typedis_pool_resets_total 2
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "typedis_pool_resets_total"))
}

func TestCustomNamespace(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg, "app_cache").LockFailure("k", nil)

	n, err := testutil.GatherAndCount(reg, "app_cache_lock_failures_total")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

type fakeStats struct{ s *redis.PoolStats }

func (f fakeStats) PoolStats() *redis.PoolStats { return f.s }

func TestPoolStatsCollector(t *testing.T) {
	c := NewPoolStatsCollector(fakeStats{&redis.PoolStats{
		Hits: 10, Misses: 2, Timeouts: 1, TotalConns: 5, IdleConns: 3, StaleConns: 4,
	}}, "")

	assert.Equal(t, 6, testutil.CollectAndCount(c))

	expected := `
# HELP typedis_pool_conns Connections in the pool
# TYPE typedis_pool_conns gauge
typedis_pool_conns 5
# HELP typedis_pool_hits_total Free connections found in the pool
# TYPE typedis_pool_hits_total counter
typedis_pool_hits_total 10
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"typedis_pool_conns", "typedis_pool_hits_total"))
}

func TestPoolStatsCollectorAfterShutdown(t *testing.T) {
	c := NewPoolStatsCollector(fakeStats{}, "")
	assert.Equal(t, 0, testutil.CollectAndCount(c))
}

type swapStats struct{ s *redis.PoolStats }

func (f *swapStats) PoolStats() *redis.PoolStats { return f.s }

func TestPoolStatsCollectorSurvivesReset(t *testing.T) {
	src := &swapStats{&redis.PoolStats{Hits: 10, Misses: 2, TotalConns: 5}}
	c := NewPoolStatsCollector(src, "")

	const hits = `
# HELP typedis_pool_hits_total Free connections found in the pool
# TYPE typedis_pool_hits_total counter
typedis_pool_hits_total `
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(hits+"10\n"), "typedis_pool_hits_total"))

	// a rebuilt pool counts from zero
	src.s = &redis.PoolStats{Hits: 3, TotalConns: 1}
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(hits+"13\n"), "typedis_pool_hits_total"))

	src.s = &redis.PoolStats{Hits: 7, TotalConns: 2}
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(hits+"17\n"), "typedis_pool_hits_total"))

	expected := `
# HELP typedis_pool_conns Connections in the pool
# TYPE typedis_pool_conns gauge
typedis_pool_conns 2
# HELP typedis_pool_misses_total Free connections not found in the pool
# TYPE typedis_pool_misses_total counter
typedis_pool_misses_total 2
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"typedis_pool_conns", "typedis_pool_misses_total"))
}
