package promhooks

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
)

// StatsSource is anything exposing go-redis pool statistics; *typedis.Client does.
type StatsSource interface {
	PoolStats() *redis.PoolStats
}

// PoolStatsCollector reads the live pool's statistics at scrape time.
// After Shutdown the source reports nil and nothing is emitted.
//
// A pool reset starts go-redis' counters from zero again; the collector carries
// what the previous pool had counted so the exported *_total series never go back.
type PoolStatsCollector struct {
	src StatsSource

	mu                                sync.Mutex
	hitsN, missesN, timeoutsN, staleN monotonic

	hits       *prometheus.Desc
	misses     *prometheus.Desc
	timeouts   *prometheus.Desc
	totalConns *prometheus.Desc
	idleConns  *prometheus.Desc
	staleConns *prometheus.Desc
}

var _ prometheus.Collector = (*PoolStatsCollector)(nil)

func NewPoolStatsCollector(src StatsSource, namespace string) *PoolStatsCollector {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "pool", name), help, nil, nil)
	}
	return &PoolStatsCollector{
		src:        src,
		hits:       desc("hits_total", "Free connections found in the pool"),
		misses:     desc("misses_total", "Free connections not found in the pool"),
		timeouts:   desc("timeouts_total", "Waits for a connection that timed out"),
		totalConns: desc("conns", "Connections in the pool"),
		idleConns:  desc("idle_conns", "Idle connections in the pool"),
		staleConns: desc("stale_conns_total", "Stale connections removed from the pool"),
	}
}

func (c *PoolStatsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.hits
	ch <- c.misses
	ch <- c.timeouts
	ch <- c.totalConns
	ch <- c.idleConns
	ch <- c.staleConns
}

func (c *PoolStatsCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.PoolStats()
	if s == nil {
		return
	}
	c.mu.Lock()
	hits := c.hitsN.observe(uint64(s.Hits))
	misses := c.missesN.observe(uint64(s.Misses))
	timeouts := c.timeoutsN.observe(uint64(s.Timeouts))
	stale := c.staleN.observe(uint64(s.StaleConns))
	c.mu.Unlock()

	ch <- prometheus.MustNewConstMetric(c.hits, prometheus.CounterValue, hits)
	ch <- prometheus.MustNewConstMetric(c.misses, prometheus.CounterValue, misses)
	ch <- prometheus.MustNewConstMetric(c.timeouts, prometheus.CounterValue, timeouts)
	ch <- prometheus.MustNewConstMetric(c.totalConns, prometheus.GaugeValue, float64(s.TotalConns))
	ch <- prometheus.MustNewConstMetric(c.idleConns, prometheus.GaugeValue, float64(s.IdleConns))
	ch <- prometheus.MustNewConstMetric(c.staleConns, prometheus.CounterValue, stale)
}

// monotonic turns a counter that restarts at zero into one that only grows.
type monotonic struct {
	base, last uint64
}

// observe takes the source's current reading and returns the running total.
// A reading below the previous one means the source restarted.
func (m *monotonic) observe(cur uint64) float64 {
	if cur < m.last {
		m.base += m.last
	}
	m.last = cur
	return float64(m.base + cur)
}
