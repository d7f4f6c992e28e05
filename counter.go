package typedis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// incrScript increments KEYS[1] and, when that created it, sets its expiry to
// ARGV[1] seconds. Running both server-side leaves no counter without its window.
var incrScript = redis.NewScript(`
local n = redis.call('INCR', KEYS[1])
local ttl = tonumber(ARGV[1])
if n == 1 and ttl > 0 then
	redis.call('EXPIRE', KEYS[1], ttl)
end
return n
`)

// Increment adds one to the counter under key and returns the new value.
// The call that creates the counter (result 1) sets its expiry when ttl > 0;
// later increments never refresh it, so the counter covers a fixed window.
func (c *Client) Increment(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	secs := int64(expireSeconds(ttl) / time.Second)

	var n int64
	err := c.withConn(ctx, func(conn *redis.Conn) error {
		var err error
		n, err = incrScript.Run(ctx, conn, []string{key}, secs).Int64()
		return err
	})
	if err != nil {
		err = errConnection("increment", key, err)
		c.writeFailure(key, ReasonConnection, err)
		return 0, err
	}
	return n, nil
}
