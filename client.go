package typedis

import (
	"context"
	"errors"
	"strings"

	"github.com/redis/go-redis/v9"
)

// Client is the typed caching/coordination client. It is safe for concurrent use.
// Typed values go through Store[V]; Client itself carries the untyped operations.
type Client struct {
	pool  *poolManager
	log   Logger
	hooks Hooks
}

func newClient(cfg Config, opts Options) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Host = strings.TrimSpace(cfg.Host)

	c := &Client{
		log:   coalesce[Logger](opts.Logger, NopLogger{}),
		hooks: coalesce[Hooks](opts.Hooks, NopHooks{}),
	}
	if cfg.DB != nil {
		c.log.Warn("the setting key 'db' is deprecated, please change it for 'defaultdb'", Fields{"db": *cfg.DB})
	}

	c.pool = newPoolManager(cfg, opts.PoolTimeout, c.log, c.hooks)
	if _, err := c.pool.reset(); err != nil {
		return nil, err
	}

	if opts.StopHooks != nil {
		opts.StopHooks.OnStop(c.Shutdown)
	}
	return c, nil
}

// ResetConnectionsPool closes the live pool and builds a new one from the
// configuration. Resets more frequent than the configured cooldown are refused
// and reported as false. Concurrent calls are serialized.
func (c *Client) ResetConnectionsPool() (bool, error) {
	return c.pool.reset()
}

// Checkout leases a connection from the pool. Pass DefaultDB to stay on the
// configured database or a database number to work on another one; other
// databases are served by their own pool with the same bounds.
// The connection is dialed lazily, so a down store surfaces on the first command.
// The returned Lease must be closed.
func (c *Client) Checkout(ctx context.Context, db int) (*Lease, error) {
	l, err := c.pool.checkout(ctx, db)
	if err != nil {
		return nil, errConnection("checkout", "", err)
	}
	return l, nil
}

// PoolStats returns the main pool's statistics, or nil after Shutdown.
func (c *Client) PoolStats() *redis.PoolStats {
	return c.pool.stats()
}

// Shutdown closes the pool. It is idempotent and safe to register as a stop hook.
func (c *Client) Shutdown(context.Context) error {
	return c.pool.shutdown()
}

// Ping round-trips a PING on a leased connection.
func (c *Client) Ping(ctx context.Context) error {
	err := c.withConn(ctx, func(conn *redis.Conn) error {
		return conn.Ping(ctx).Err()
	})
	if err != nil {
		return errConnection("ping", "", err)
	}
	return nil
}

// Remove deletes keys. Deleting nothing is a no-op.
func (c *Client) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	err := c.withConn(ctx, func(conn *redis.Conn) error {
		return conn.Del(ctx, keys...).Err()
	})
	if err != nil {
		err = errConnection("remove", strings.Join(keys, ","), err)
		c.writeFailure(strings.Join(keys, ","), ReasonConnection, err)
		return err
	}
	return nil
}

// Exists reports whether key is present.
func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	var n int64
	err := c.withConn(ctx, func(conn *redis.Conn) error {
		var err error
		n, err = conn.Exists(ctx, key).Result()
		return err
	})
	if err != nil {
		err = errConnection("exists", key, err)
		c.readFailure(key, ReasonConnection, err)
		return false, err
	}
	return n > 0, nil
}

// withConn leases a connection on the default database for the duration of fn.
// The lease is released on every exit path, panics included.
func (c *Client) withConn(ctx context.Context, fn func(conn *redis.Conn) error) error {
	l, err := c.pool.checkout(ctx, DefaultDB)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := l.Close(); cerr != nil && !errors.Is(cerr, redis.ErrClosed) {
			c.log.Debug("releasing connection failed", Fields{"err": cerr})
		}
	}()
	return fn(l.Conn)
}

func (c *Client) readFailure(key, reason string, err error) {
	c.log.Error("redis read failed", Fields{"key": key, "reason": reason, "err": err})
	c.hooks.ReadFailure(key, reason, err)
}

func (c *Client) writeFailure(key, reason string, err error) {
	c.log.Error("redis write failed", Fields{"key": key, "reason": reason, "err": err})
	c.hooks.WriteFailure(key, reason, err)
}
