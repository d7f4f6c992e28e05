// Package nscache is a typed cache view over a key prefix. Every key a Cache
// reads or writes is stored as Prefix+key, so RemoveAll can clear exactly the
// entries of one cache.
package nscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/unkn0wn-root/typedis"
	"github.com/unkn0wn-root/typedis/codec"
	"github.com/unkn0wn-root/typedis/internal/keys"
)

const (
	DefaultPrefix    = "cache."
	defaultScanCount = 500
)

type Options struct {
	// Prefix of every storage key. default: "cache."
	Prefix string
	// DefaultTTL is used when a call passes ttl == 0. Zero means no expiry.
	DefaultTTL time.Duration
	// ScanCount is the SCAN batch hint of RemoveAll. default: 500
	ScanCount int64
}

type Cache[V any] struct {
	store  *typedis.Store[V]
	prefix string
	ttl    time.Duration
	scan   int64
}

func New[V any](c *typedis.Client, cd codec.Codec[V], opts Options) *Cache[V] {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = DefaultPrefix
	}
	scan := opts.ScanCount
	if scan <= 0 {
		scan = defaultScanCount
	}
	return &Cache[V]{
		store:  typedis.NewStore(c, cd),
		prefix: prefix,
		ttl:    opts.DefaultTTL,
		scan:   scan,
	}
}

func (c *Cache[V]) Prefix() string { return c.prefix }

func (c *Cache[V]) Get(ctx context.Context, key string) (V, bool, error) {
	return c.store.Get(ctx, keys.Prefixed(c.prefix, key))
}

func (c *Cache[V]) Set(ctx context.Context, key string, v V, ttl time.Duration) error {
	return c.store.Set(ctx, keys.Prefixed(c.prefix, key), v, c.expiry(ttl))
}

// GetOrElseUpdate returns the cached value or computes, stores and returns it.
// It degrades like Store.GetOrElse when the store is unavailable.
func (c *Cache[V]) GetOrElseUpdate(ctx context.Context, key string, fn typedis.Supplier[V], ttl time.Duration) (V, error) {
	return c.store.GetOrElse(ctx, keys.Prefixed(c.prefix, key), fn, c.expiry(ttl))
}

func (c *Cache[V]) Remove(ctx context.Context, key string) error {
	return c.store.Client().Remove(ctx, keys.Prefixed(c.prefix, key))
}

// RemoveAll deletes every key under the prefix and returns how many were removed.
// Keys written concurrently may survive.
func (c *Cache[V]) RemoveAll(ctx context.Context) (int64, error) {
	l, err := c.store.Client().Checkout(ctx, typedis.DefaultDB)
	if err != nil {
		return 0, err
	}
	defer l.Close()

	match := keys.MatchPrefix(c.prefix)
	var (
		cursor  uint64
		removed int64
	)
	for {
		batch, next, err := l.Scan(ctx, cursor, match, c.scan).Result()
		if err != nil {
			return removed, c.errRemoveAll(err)
		}
		if len(batch) > 0 {
			n, err := l.Del(ctx, batch...).Result()
			if err != nil {
				return removed, c.errRemoveAll(err)
			}
			removed += n
		}
		if next == 0 {
			return removed, nil
		}
		cursor = next
	}
}

func (c *Cache[V]) expiry(ttl time.Duration) time.Duration {
	if ttl == 0 {
		return c.ttl
	}
	return ttl
}

func (c *Cache[V]) errRemoveAll(err error) error {
	return fmt.Errorf("nscache: remove all %q: %w", c.prefix, errors.Join(typedis.ErrConnection, err))
}
