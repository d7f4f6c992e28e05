package typedis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/unkn0wn-root/typedis/codec"
)

// Property: a bounded list always holds the newest min(pushes, maxItems) values, newest first.
func TestProperty_BoundedListKeepsNewest(t *testing.T) {
	c, mr, _ := newTestClient(t, nil)
	s := NewStore[int](c, codec.Msgpack[int]{})
	ctx := context.Background()
	iter := 0

	rapid.Check(t, func(rt *rapid.T) {
		iter++
		key := fmt.Sprintf("list:%d", iter)
		maxItems := rapid.IntRange(1, 8).Draw(rt, "maxItems")
		values := rapid.SliceOfN(rapid.Int(), 0, 20).Draw(rt, "values")

		for _, v := range values {
			if err := s.AddInList(ctx, key, v, maxItems); err != nil {
				rt.Fatalf("AddInList: %v", err)
			}
		}

		var want []int
		for i := len(values) - 1; i >= 0 && len(want) < maxItems; i-- {
			want = append(want, values[i])
		}

		got, err := s.GetFromList(ctx, key, 0, AllItems)
		if err != nil {
			rt.Fatalf("GetFromList: %v", err)
		}
		if len(got) != len(want) {
			rt.Fatalf("len = %d, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				rt.Fatalf("item %d = %d, want %d", i, got[i], want[i])
			}
		}
		if mr.Exists(key) {
			items, _ := mr.List(key)
			if len(items) > maxItems {
				rt.Fatalf("stored %d items, bound is %d", len(items), maxItems)
			}
		}
	})
}

// Property: a window of count > 0 items is at most count long and matches the slice of the full list.
func TestProperty_ListWindow(t *testing.T) {
	c, _, _ := newTestClient(t, nil)
	s := NewStore[int](c, nil)
	ctx := context.Background()

	const size = 12
	for i := 0; i < size; i++ {
		require.NoError(t, s.AddInList(ctx, "w", i, 0))
	}
	all, err := s.GetFromList(ctx, "w", 0, AllItems)
	require.NoError(t, err)

	rapid.Check(t, func(rt *rapid.T) {
		offset := rapid.IntRange(0, size+3).Draw(rt, "offset")
		count := rapid.IntRange(1, size+3).Draw(rt, "count")

		got, err := s.GetFromList(ctx, "w", offset, count)
		if err != nil {
			rt.Fatalf("GetFromList: %v", err)
		}
		lo := min(offset, size)
		hi := min(offset+count, size)
		want := all[lo:hi]
		if len(got) != len(want) {
			rt.Fatalf("offset=%d count=%d: len = %d, want %d", offset, count, len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				rt.Fatalf("offset=%d count=%d: item %d = %d, want %d", offset, count, i, got[i], want[i])
			}
		}
	})
}

// Property: n increments of a fresh counter return 1..n and only the first sets the expiry.
func TestProperty_CounterSequence(t *testing.T) {
	c, mr, _ := newTestClient(t, nil)
	ctx := context.Background()
	iter := 0

	rapid.Check(t, func(rt *rapid.T) {
		iter++
		key := fmt.Sprintf("ctr:%d", iter)
		n := rapid.IntRange(1, 30).Draw(rt, "n")
		ttlSec := rapid.IntRange(0, 600).Draw(rt, "ttl")
		ttl := time.Duration(ttlSec) * time.Second

		for i := 1; i <= n; i++ {
			got, err := c.Increment(ctx, key, ttl)
			if err != nil {
				rt.Fatalf("Increment: %v", err)
			}
			if got != int64(i) {
				rt.Fatalf("increment %d returned %d", i, got)
			}
		}
		if d := mr.TTL(key); d != ttl {
			rt.Fatalf("ttl = %s, want %s", d, ttl)
		}
	})
}

// Property: whatever a Store sets, it gets back.
func TestProperty_StoreRoundTrip(t *testing.T) {
	c, _, _ := newTestClient(t, nil)
	s := NewStore[user](c, codec.MustCBOR[user](codec.CBOROptions{Deterministic: true}))
	ctx := context.Background()

	rapid.Check(t, func(rt *rapid.T) {
		key := rapid.StringMatching(`[a-z]{1,6}:[0-9]{1,4}`).Draw(rt, "key")
		want := user{
			ID:   rapid.String().Draw(rt, "id"),
			Name: rapid.String().Draw(rt, "name"),
		}
		if err := s.Set(ctx, key, want, 0); err != nil {
			rt.Fatalf("Set: %v", err)
		}
		got, ok, err := s.Get(ctx, key)
		if err != nil || !ok {
			rt.Fatalf("Get: ok=%v err=%v", ok, err)
		}
		if got != want {
			rt.Fatalf("got %+v, want %+v", got, want)
		}
	})
}
