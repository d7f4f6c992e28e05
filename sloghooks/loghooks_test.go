package sloghooks

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBufLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func lines(buf *bytes.Buffer) []map[string]any {
	var out []map[string]any
	for _, l := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if l == "" {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(l), &m); err == nil {
			out = append(out, m)
		}
	}
	return out
}

func TestKeysAreRedacted(t *testing.T) {
	l, buf := newBufLogger()
	h := New(l, Options{})

	h.LockFailure("user:42:secret", errors.New("down"))

	got := lines(buf)
	require.Len(t, got, 1)
	assert.Equal(t, "typedis.lock_failure", got[0]["msg"])
	assert.NotContains(t, buf.String(), "secret")
	assert.Len(t, got[0]["key"], 16)
}

func TestCustomRedactor(t *testing.T) {
	l, buf := newBufLogger()
	h := New(l, Options{Redact: func(k string) string { return "<" + k + ">" }})

	h.ComputeFailure("k", errors.New("x"))
	got := lines(buf)
	require.Len(t, got, 1)
	assert.Equal(t, "<k>", got[0]["key"])
}

func TestReadFailuresAreSampled(t *testing.T) {
	l, buf := newBufLogger()
	h := New(l, Options{ReadFailureEvery: 5})

	for i := 0; i < 20; i++ {
		h.ReadFailure("k", "connection", errors.New("x"))
	}
	assert.Len(t, lines(buf), 4)
}

func TestPoolEvents(t *testing.T) {
	l, buf := newBufLogger()
	h := New(l, Options{})

	h.PoolReset("redis://127.0.0.1:6379")
	h.PoolResetThrottled("redis://127.0.0.1:6379", time.Second)
	h.WriteFailure("k", "encode", errors.New("x"))

	got := lines(buf)
	require.Len(t, got, 3)
	assert.Equal(t, "typedis.pool_reset", got[0]["msg"])
	assert.Equal(t, "redis://127.0.0.1:6379", got[0]["endpoint"])
	assert.Equal(t, "typedis.pool_reset_throttled", got[1]["msg"])
	assert.Equal(t, "encode", got[2]["reason"])
}

func TestNilLogger(t *testing.T) {
	h := New(nil, Options{})
	assert.NotPanics(t, func() {
		h.PoolReset("x")
		h.ReadFailure("k", "decode", nil)
	})
}
