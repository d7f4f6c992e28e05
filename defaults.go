package typedis

import "time"

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

// expireSeconds rounds ttl up to whole seconds since EXPIRE has second granularity.
// Returns 0 for ttl <= 0.
func expireSeconds(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return 0
	}
	return ((ttl + time.Second - 1) / time.Second) * time.Second
}
