package codec

import (
	"bytes"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// Msgpack serializes values using vmihailenco/msgpack/v5.
// The zero value is ready to use.
//
// Fields follow `msgpack:"name"` tags. With JSONTags set, fields without a
// msgpack tag fall back to their `json` tag, so one type keeps the same field
// names whether it is stored through JSON or Msgpack.
type Msgpack[V any] struct {
	JSONTags bool
	// CompactInts stores small integers in the fewest bytes.
	CompactInts bool
}

var _ Codec[struct{}] = Msgpack[struct{}]{}

func (c Msgpack[V]) Encode(v V) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if c.JSONTags {
		enc.SetCustomStructTag("json")
	}
	enc.UseCompactInts(c.CompactInts)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("codec: msgpack encode %T: %w", v, err)
	}
	return buf.Bytes(), nil
}

func (c Msgpack[V]) Decode(b []byte) (V, error) {
	var v V
	dec := msgpack.NewDecoder(bytes.NewReader(b))
	if c.JSONTags {
		dec.SetCustomStructTag("json")
	}
	if err := dec.Decode(&v); err != nil {
		var zero V
		return zero, fmt.Errorf("codec: msgpack decode %T: %w", v, err)
	}
	return v, nil
}
