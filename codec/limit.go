package codec

import "fmt"

// Limit wraps another codec and refuses payloads over a size bound.
// A bound <= 0 disables that side. Oversized payloads fail with ErrTooLarge
// without reaching Inner on Decode.
//
// Typical use: keys shared with other writers where a runaway value
// should not be decoded into memory.
type Limit[V any] struct {
	Inner     Codec[V]
	MaxEncode int // bytes
	MaxDecode int // bytes
}

var _ Codec[struct{}] = Limit[struct{}]{}

func (c Limit[V]) Encode(v V) ([]byte, error) {
	b, err := c.Inner.Encode(v)
	if err != nil {
		return nil, err
	}
	if c.MaxEncode > 0 && len(b) > c.MaxEncode {
		return nil, fmt.Errorf("%w: encoded %d > %d", ErrTooLarge, len(b), c.MaxEncode)
	}
	return b, nil
}

func (c Limit[V]) Decode(b []byte) (V, error) {
	if c.MaxDecode > 0 && len(b) > c.MaxDecode {
		var zero V
		return zero, fmt.Errorf("%w: %d > %d", ErrTooLarge, len(b), c.MaxDecode)
	}
	return c.Inner.Decode(b)
}
