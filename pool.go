package typedis

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultDB asks Checkout for the configured default database.
const DefaultDB = -1

// poolManager owns the live go-redis pool of a Client. Leases on a database other
// than the configured one come from a side pool bound to that database, so
// connections of the main pool never switch databases.
// Reset and shutdown hold mu exclusively; checkouts hold it shared only while leasing.
type poolManager struct {
	mu        sync.RWMutex
	cfg       Config
	opts      *redis.Options
	rdb       *redis.Client
	dbs       map[int]*redis.Client
	closed    bool
	lastReset time.Time

	now       func() time.Time
	newClient func(*redis.Options) *redis.Client

	log   Logger
	hooks Hooks
}

func newPoolManager(cfg Config, poolTimeout time.Duration, log Logger, hooks Hooks) *poolManager {
	return &poolManager{
		cfg:       cfg,
		opts:      cfg.redisOptions(poolTimeout),
		dbs:       make(map[int]*redis.Client),
		now:       time.Now,
		newClient: redis.NewClient,
		log:       log,
		hooks:     hooks,
	}
}

// canReset permits a rebuild when none happened yet or the cooldown has elapsed.
// Must be called with mu held.
func (p *poolManager) canReset(now time.Time) bool {
	cooldown := p.cfg.reinitCooldown()
	if p.lastReset.IsZero() || cooldown <= 0 || now.Sub(p.lastReset) > cooldown {
		p.lastReset = now
		return true
	}
	return false
}

// reset closes the live pools and builds a new main pool, unless the cooldown guard refuses.
func (p *poolManager) reset() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return false, ErrClosed
	}
	endpoint := p.cfg.Endpoint()
	now := p.now()
	if !p.canReset(now) {
		since := now.Sub(p.lastReset)
		p.log.Debug("pool reset throttled", Fields{
			"endpoint": endpoint,
			"since":    since.String(),
			"cooldown": p.cfg.reinitCooldown().String(),
		})
		p.hooks.PoolResetThrottled(endpoint, since)
		return false, nil
	}

	if err := p.closeAll(); err != nil {
		p.log.Warn("closing previous pool failed", Fields{"endpoint": endpoint, "err": err})
	}
	p.rdb = p.newClient(p.opts)

	p.log.Info("redis connected", Fields{
		"endpoint":  endpoint,
		"db":        p.opts.DB,
		"max_total": p.opts.PoolSize,
		"max_idle":  p.cfg.MaxIdleConns,
		"min_idle":  p.opts.MinIdleConns,
	})
	p.hooks.PoolReset(endpoint)
	return true, nil
}

// closeAll closes the main pool and every side pool. Must be called with mu held.
func (p *poolManager) closeAll() error {
	var errs []error
	if p.rdb != nil {
		if err := p.rdb.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
			errs = append(errs, err)
		}
		p.rdb = nil
	}
	for db, c := range p.dbs {
		if err := c.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
			errs = append(errs, err)
		}
		delete(p.dbs, db)
	}
	return errors.Join(errs...)
}

// checkout leases one connection. db < 0 or the configured database leases from
// the main pool; any other db leases from that database's side pool.
func (p *poolManager) checkout(_ context.Context, db int) (*Lease, error) {
	if db < 0 || db == p.opts.DB {
		p.mu.RLock()
		defer p.mu.RUnlock()
		if p.closed || p.rdb == nil {
			return nil, ErrClosed
		}
		return &Lease{Conn: p.rdb.Conn(), db: p.opts.DB}, nil
	}

	p.mu.RLock()
	if p.closed || p.rdb == nil {
		p.mu.RUnlock()
		return nil, ErrClosed
	}
	if c, ok := p.dbs[db]; ok {
		defer p.mu.RUnlock()
		return &Lease{Conn: c.Conn(), db: db}, nil
	}
	p.mu.RUnlock()

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || p.rdb == nil {
		return nil, ErrClosed
	}
	c, ok := p.dbs[db]
	if !ok {
		opts := *p.opts
		opts.DB = db
		opts.MinIdleConns = 0
		c = p.newClient(&opts)
		p.dbs[db] = c
		p.log.Debug("side pool created", Fields{"endpoint": p.cfg.Endpoint(), "db": db})
	}
	return &Lease{Conn: c.Conn(), db: db}, nil
}

// stats reports the main pool only.
func (p *poolManager) stats() *redis.PoolStats {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed || p.rdb == nil {
		return nil
	}
	return p.rdb.PoolStats()
}

// shutdown closes every pool. Repeated calls are no-ops.
func (p *poolManager) shutdown() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	p.log.Info("shutting down redis", Fields{"endpoint": p.cfg.Endpoint()})
	return p.closeAll()
}

// Lease is a connection checked out of a pool, bound to one database for its
// whole life. It must be closed on every path.
type Lease struct {
	*redis.Conn
	db int
}

// DB is the logical database the lease runs on.
func (l *Lease) DB() int { return l.db }
