package typedis

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig is matched by every *ConfigError.
	ErrConfig = errors.New("typedis: invalid config")
	// ErrConnection covers an unreachable store, auth failures, pool exhaustion
	// and command failures reported by the store. Never retried internally.
	ErrConnection = errors.New("typedis: connection failed")
	// ErrCodec means a value could not be encoded or decoded for the requested type.
	ErrCodec = errors.New("typedis: codec failed")
	// ErrComputation wraps a failure of the caller-supplied fallback in GetOrElse.
	ErrComputation = errors.New("typedis: computation failed")
	// ErrClosed is returned once Shutdown has run.
	ErrClosed = errors.New("typedis: client is closed")

	errLockTTL = errors.New("typedis: lock ttl must be > 0")
)

// ConfigError names the offending configuration key and the violated constraint.
type ConfigError struct {
	Key        string
	Constraint string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("typedis: invalid config: %s: %s", e.Key, e.Constraint)
}

func (e *ConfigError) Unwrap() error { return ErrConfig }

func errInvalidConfig(key, constraint string, args ...any) error {
	if len(args) > 0 {
		constraint = fmt.Sprintf(constraint, args...)
	}
	return &ConfigError{Key: key, Constraint: constraint}
}

// OpError describes a failed operation. Kind is one of ErrConnection, ErrCodec
// or ErrComputation; Err is the underlying cause. errors.Is matches both.
type OpError struct {
	Op   string
	Key  string
	Kind error
	Err  error
}

func (e *OpError) Error() string {
	switch {
	case e.Key != "" && e.Err != nil:
		return fmt.Sprintf("%v: %s %q: %v", e.Kind, e.Op, e.Key, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%v: %s: %v", e.Kind, e.Op, e.Err)
	default:
		return fmt.Sprintf("%v: %s %q", e.Kind, e.Op, e.Key)
	}
}

func (e *OpError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func errConnection(op, key string, err error) error {
	return &OpError{Op: op, Key: key, Kind: ErrConnection, Err: err}
}

func errCodec(op, key string, err error) error {
	return &OpError{Op: op, Key: key, Kind: ErrCodec, Err: err}
}

func errComputation(key string, err error) error {
	return &OpError{Op: "getOrElse", Key: key, Kind: ErrComputation, Err: err}
}
