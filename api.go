package typedis

import (
	"context"
	"time"
)

// StopHooks is the host's process-lifecycle registrar. When Options.StopHooks is
// set, New registers Client.Shutdown on it.
type StopHooks interface {
	OnStop(fn func(context.Context) error)
}

// Options carry the collaborators of a Client. All fields are optional.
type Options struct {
	Logger      Logger        // if nil, NopLogger is used
	Hooks       Hooks         // if nil, NopHooks is used
	StopHooks   StopHooks     // if nil, the caller must call Shutdown itself
	PoolTimeout time.Duration // wait bound for a free connection; 0 => go-redis default
}

// New validates cfg, builds the initial pool and registers the shutdown hook.
// A configuration violation returns a *ConfigError and no pool is created.
func New(cfg Config, opts Options) (*Client, error) {
	return newClient(cfg, opts)
}
