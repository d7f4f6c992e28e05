// Package promhooks exports typedis events and pool statistics to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	hooks := promhooks.New(reg, "")
//	c, _ := typedis.New(cfg, typedis.Options{Hooks: hooks})
//	reg.MustRegister(promhooks.NewPoolStatsCollector(c, ""))
package promhooks

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/unkn0wn-root/typedis"
)

// DefaultNamespace prefixes every metric when New is given "".
const DefaultNamespace = "typedis"

// Hooks counts every event. It is cheap enough to call inline.
type Hooks struct {
	poolResets     prometheus.Counter
	poolThrottled  prometheus.Counter
	readFailures   *prometheus.CounterVec
	writeFailures  *prometheus.CounterVec
	lockFailures   prometheus.Counter
	computeFailure prometheus.Counter
}

var _ typedis.Hooks = (*Hooks)(nil)

// New registers the counters on reg. A nil reg uses prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer, namespace string) *Hooks {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}
	f := promauto.With(reg)

	return &Hooks{
		poolResets: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pool_resets_total",
			Help:      "Connection pools built, initial one included",
		}),
		poolThrottled: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pool_resets_throttled_total",
			Help:      "Pool resets refused by the cooldown guard",
		}),
		readFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "read_failures_total",
			Help:      "Failed reads by reason",
		}, []string{"reason"}),
		writeFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "write_failures_total",
			Help:      "Failed writes by reason",
		}, []string{"reason"}),
		lockFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lock_failures_total",
			Help:      "Lock attempts that could not reach the store",
		}),
		computeFailure: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compute_failures_total",
			Help:      "GetOrElse suppliers that returned an error",
		}),
	}
}

func (h *Hooks) PoolReset(string)                         { h.poolResets.Inc() }
func (h *Hooks) PoolResetThrottled(string, time.Duration) { h.poolThrottled.Inc() }
func (h *Hooks) ReadFailure(_, reason string, _ error)    { h.readFailures.WithLabelValues(reason).Inc() }
func (h *Hooks) WriteFailure(_, reason string, _ error) {
	h.writeFailures.WithLabelValues(reason).Inc()
}
func (h *Hooks) LockFailure(string, error)    { h.lockFailures.Inc() }
func (h *Hooks) ComputeFailure(string, error) { h.computeFailure.Inc() }
