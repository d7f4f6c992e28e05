package typedis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/unkn0wn-root/typedis/codec"
)

// Supplier computes a value for GetOrElse on a miss.
type Supplier[V any] func(ctx context.Context) (V, error)

// Store is a typed view of the client: every value it reads or writes goes
// through one codec. Stores are cheap; create one per value type.
type Store[V any] struct {
	c     *Client
	codec codec.Codec[V]
}

// NewStore binds a codec to c. A nil codec means codec.JSON[V].
func NewStore[V any](c *Client, cd codec.Codec[V]) *Store[V] {
	if cd == nil {
		cd = codec.JSON[V]{}
	}
	return &Store[V]{c: c, codec: cd}
}

// Client returns the client the store runs on.
func (s *Store[V]) Client() *Client { return s.c }

// Get returns the value under key. A missing key is (zero, false, nil).
// Connection and decode failures are returned and also reported to the hooks.
func (s *Store[V]) Get(ctx context.Context, key string) (V, bool, error) {
	var zero V
	var raw []byte
	err := s.c.withConn(ctx, func(conn *redis.Conn) error {
		var err error
		raw, err = conn.Get(ctx, key).Bytes()
		return err
	})
	if errors.Is(err, redis.Nil) {
		return zero, false, nil
	}
	if err != nil {
		err = errConnection("get", key, err)
		s.c.readFailure(key, ReasonConnection, err)
		return zero, false, err
	}

	v, err := s.codec.Decode(raw)
	if err != nil {
		err = errCodec("get", key, err)
		s.c.readFailure(key, ReasonDecode, err)
		return zero, false, err
	}
	return v, true, nil
}

// Set stores v under key. ttl > 0 sets an expiry, rounded up to whole seconds;
// ttl <= 0 stores without expiry.
func (s *Store[V]) Set(ctx context.Context, key string, v V, ttl time.Duration) error {
	b, err := s.codec.Encode(v)
	if err != nil {
		err = errCodec("set", key, err)
		s.c.writeFailure(key, ReasonEncode, err)
		return err
	}

	err = s.c.withConn(ctx, func(conn *redis.Conn) error {
		_, err := conn.Pipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, b, 0)
			if ttl > 0 {
				pipe.Expire(ctx, key, expireSeconds(ttl))
			}
			return nil
		})
		return err
	})
	if err != nil {
		err = errConnection("set", key, err)
		s.c.writeFailure(key, ReasonConnection, err)
		return err
	}
	return nil
}

// GetOrElse is cache-aside: it returns the cached value, or on a miss computes
// one with fn, stores it with ttl and returns it.
//
// A failed read counts as a miss and a failed write is ignored, so the caller
// gets a value while the store is down. A failure of fn is returned wrapped in
// ErrComputation and nothing is stored.
//
// There is no single-flight: concurrent misses on one key each call fn.
func (s *Store[V]) GetOrElse(ctx context.Context, key string, fn Supplier[V], ttl time.Duration) (V, error) {
	if v, ok, err := s.Get(ctx, key); err == nil && ok {
		return v, nil
	}

	v, err := fn(ctx)
	if err != nil {
		var zero V
		s.c.log.Warn("value computation failed", Fields{"key": key, "err": err})
		s.c.hooks.ComputeFailure(key, err)
		return zero, errComputation(key, err)
	}

	// already reported by Set
	_ = s.Set(ctx, key, v, ttl)
	return v, nil
}
