// Package typedis is a typed caching and coordination client over Redis.
//
// A Client owns one go-redis connection pool built from a validated Config.
// Values are typed through Store[V], which pairs the client with a codec.Codec[V]:
//
//	c, err := typedis.New(cfg, typedis.Options{Logger: zaplog.New(l)})
//	users := typedis.NewStore[User](c, codec.JSON[User]{})
//	u, err := users.GetOrElse(ctx, "user:42", loadUser, 10*time.Minute)
//
// Operations:
//   - Store[V]: Get, Set, GetOrElse (cache-aside), AddInList, GetFromList.
//   - Client: Remove, Exists, TryLock (TTL lease, no unlock), Increment
//     (counter whose expiry is set once, by the call that creates it).
//   - Client: Checkout (lease a raw connection, optionally on another database),
//     ResetConnectionsPool (rebuild the pool, refused within the configured cooldown),
//     Shutdown (idempotent).
//
// Every operation returns its errors and reports them to Options.Hooks and
// Options.Logger. Only GetOrElse degrades: a failed read is a miss and a failed
// write is dropped. GetOrElse has no single-flight; concurrent misses on one key
// each run the supplier.
//
// Expiries are whole seconds. A ttl of 1500ms is stored as 2s.
package typedis
