package typedis

import "time"

// Failure reasons passed to Hooks.
const (
	ReasonConnection = "connection"
	ReasonDecode     = "decode"
	ReasonEncode     = "encode"
)

// Hooks lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking.
// The client calls them on the caller's goroutine.
type Hooks interface {
	// A new pool was built (at construction or by a permitted reset).
	PoolReset(endpoint string)

	// A reset was refused by the cooldown guard.
	PoolResetThrottled(endpoint string, sinceLast time.Duration)

	// A read failed. reason ∈ {"connection", "decode"}
	ReadFailure(key, reason string, err error)

	// A write failed. reason ∈ {"connection", "encode"}
	WriteFailure(key, reason string, err error)

	// TryLock could not talk to the store and reported "not acquired".
	LockFailure(key string, err error)

	// The GetOrElse supplier failed; the error is returned to the caller too.
	ComputeFailure(key string, err error)
}

// NopHooks is the default no-op
type NopHooks struct{}

func (NopHooks) PoolReset(string)                         {}
func (NopHooks) PoolResetThrottled(string, time.Duration) {}
func (NopHooks) ReadFailure(string, string, error)        {}
func (NopHooks) WriteFailure(string, string, error)       {}
func (NopHooks) LockFailure(string, error)                {}
func (NopHooks) ComputeFailure(string, error)             {}
