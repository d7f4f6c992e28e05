package typedis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const lockSentinel = "1"

// TryLock takes a lease on key for ttl. It returns true if this call created
// the lease and false if someone holds it. There is no unlock: the lease ends
// when ttl runs out.
//
// Failures are fail-closed: (false, err), also reported to Hooks.LockFailure.
// If the expiry cannot be set after the key was created, the key is deleted
// best-effort so no lease outlives its holder.
func (c *Client) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		return false, errLockTTL
	}

	var acquired bool
	err := c.withConn(ctx, func(conn *redis.Conn) error {
		ok, err := conn.SetNX(ctx, key, lockSentinel, 0).Result()
		if err != nil || !ok {
			return err
		}
		if err := conn.Expire(ctx, key, expireSeconds(ttl)).Err(); err != nil {
			_ = conn.Del(ctx, key).Err()
			return err
		}
		acquired = true
		return nil
	})
	if err != nil {
		err = errConnection("tryLock", key, err)
		c.log.Error("lock attempt failed", Fields{"key": key, "err": err})
		c.hooks.LockFailure(key, err)
		return false, err
	}
	return acquired, nil
}
