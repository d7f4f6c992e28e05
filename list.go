package typedis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// AllItems as a GetFromList count reads through the end of the list.
const AllItems = -1

// AddInList prepends v to the list under key. With maxItems > 0 the list is
// then trimmed to its maxItems newest elements; maxItems <= 0 leaves it unbounded.
func (s *Store[V]) AddInList(ctx context.Context, key string, v V, maxItems int) error {
	b, err := s.codec.Encode(v)
	if err != nil {
		err = errCodec("addInList", key, err)
		s.c.writeFailure(key, ReasonEncode, err)
		return err
	}

	err = s.c.withConn(ctx, func(conn *redis.Conn) error {
		_, err := conn.Pipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.LPush(ctx, key, b)
			if maxItems > 0 {
				pipe.LTrim(ctx, key, 0, int64(maxItems-1))
			}
			return nil
		})
		return err
	})
	if err != nil {
		err = errConnection("addInList", key, err)
		s.c.writeFailure(key, ReasonConnection, err)
		return err
	}
	return nil
}

// GetFromList reads count elements newest-first starting at offset.
// A count <= 0 is passed through as the end index, so AllItems reads to the end.
// A missing key is an empty list. Any element failing to decode fails the whole read.
func (s *Store[V]) GetFromList(ctx context.Context, key string, offset, count int) ([]V, error) {
	start, stop := listRange(offset, count)

	var raw []string
	err := s.c.withConn(ctx, func(conn *redis.Conn) error {
		var err error
		raw, err = conn.LRange(ctx, key, start, stop).Result()
		return err
	})
	if err != nil {
		err = errConnection("getFromList", key, err)
		s.c.readFailure(key, ReasonConnection, err)
		return nil, err
	}

	out := make([]V, 0, len(raw))
	for _, r := range raw {
		v, err := s.codec.Decode([]byte(r))
		if err != nil {
			err = errCodec("getFromList", key, err)
			s.c.readFailure(key, ReasonDecode, err)
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func listRange(offset, count int) (start, stop int64) {
	start = int64(offset)
	if count > 0 {
		return start, start + int64(count) - 1
	}
	return start, int64(count)
}
