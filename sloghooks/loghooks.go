package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/unkn0wn-root/typedis"
)

type Options struct {
	// Sampling to avoid floods while the store is down; 0/1 = log all.
	ReadFailureEvery  uint64
	WriteFailureEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	readCtr  atomic.Uint64
	writeCtr atomic.Uint64
}

var _ typedis.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) PoolReset(endpoint string) {
	if h.l == nil {
		return
	}
	h.l.Info("typedis.pool_reset", "endpoint", endpoint)
}

func (h *Hooks) PoolResetThrottled(endpoint string, sinceLast time.Duration) {
	if h.l == nil {
		return
	}
	h.l.Debug("typedis.pool_reset_throttled",
		"endpoint", endpoint,
		"since_last", sinceLast)
}

func (h *Hooks) ReadFailure(key, reason string, err error) {
	if h.l == nil || !sample(h.opts.ReadFailureEvery, &h.readCtr) {
		return
	}
	h.l.Warn("typedis.read_failure",
		"key", h.redact(key),
		"reason", reason,
		"err", err)
}

func (h *Hooks) WriteFailure(key, reason string, err error) {
	if h.l == nil || !sample(h.opts.WriteFailureEvery, &h.writeCtr) {
		return
	}
	h.l.Warn("typedis.write_failure",
		"key", h.redact(key),
		"reason", reason,
		"err", err)
}

func (h *Hooks) LockFailure(key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("typedis.lock_failure",
		"key", h.redact(key),
		"err", err)
}

func (h *Hooks) ComputeFailure(key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("typedis.compute_failure",
		"key", h.redact(key),
		"err", err)
}
