// Package codec converts typed values to and from the bytes kept in the store.
// A Codec[V] plus its type parameter is everything the client needs to read and
// write V; pick the one matching how other writers of the same keys encode.
package codec

import "errors"

// Codec encodes/decodes values V to []byte for storage.
type Codec[V any] interface {
	Encode(V) ([]byte, error)
	Decode([]byte) (V, error)
}

// ErrTooLarge is returned by Limit when a payload exceeds its bound.
var ErrTooLarge = errors.New("codec: payload too large")
