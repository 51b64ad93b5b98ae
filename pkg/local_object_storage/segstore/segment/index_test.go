package segment_test

import (
	"testing"

	"github.com/nspcc-dev/segstore/pkg/local_object_storage/segstore/segment"
	"github.com/stretchr/testify/require"
)

func TestIndex(t *testing.T) {
	idx := segment.NewIndex()

	a := segment.Record{Name: "x.txt", Path: "/a/x.txt", From: 0, To: 10, Order: 0}
	b := segment.Record{Name: "x.txt", Path: "/b/x.txt", From: 10, To: 15, Order: 1}

	_, ok := idx.Upsert(a)
	require.False(t, ok)
	_, ok = idx.Upsert(b)
	require.False(t, ok, "same file name in different directory must not collide")
	require.Equal(t, 2, idx.Len())
	require.EqualValues(t, 15, idx.Size())

	got, ok := idx.Find("/a/x.txt")
	require.True(t, ok)
	require.Equal(t, a, got)

	t.Run("upsert returns previous", func(t *testing.T) {
		a2 := segment.Record{Name: "x.txt", Path: "/a/x.txt", From: 15, To: 20, Order: 2}
		prev, ok := idx.Upsert(a2)
		require.True(t, ok)
		require.Equal(t, a, prev)

		require.Equal(t, []segment.Record{b, a2}, idx.Live())
		a = a2
	})

	t.Run("relocate", func(t *testing.T) {
		require.False(t, idx.Relocate(segment.Record{Path: "/a/x.txt", From: 0, To: 10}, 0, 5))

		require.True(t, idx.Relocate(a, 0, 5))
		got, _ := idx.Find(a.Path)
		require.EqualValues(t, 0, got.From)
		require.EqualValues(t, 5, got.To)
		require.Equal(t, a.Order, got.Order)
		a = got
	})

	t.Run("remove and restore", func(t *testing.T) {
		rec, ok := idx.Remove(b.Path)
		require.True(t, ok)
		require.Equal(t, b, rec)

		_, ok = idx.Remove(b.Path)
		require.False(t, ok)
		_, ok = idx.Find(b.Path)
		require.False(t, ok)

		require.True(t, idx.Restore(b))
		require.False(t, idx.Restore(b))
		require.Equal(t, 2, idx.Len())
	})
}

func TestRecord(t *testing.T) {
	r := segment.Record{Name: "a", Path: "/a", From: 3, To: 10, Order: 4}
	require.EqualValues(t, 7, r.Size())
	require.False(t, r.IsHole())

	h := r.Hole()
	require.True(t, h.IsHole())
	require.Equal(t, segment.Record{From: 3, To: 10, Order: 4}, h)

	require.True(t, r.Contiguous(segment.Record{From: 10, To: 12}))
	require.True(t, r.Contiguous(segment.Record{From: 0, To: 3}))
	require.False(t, r.Contiguous(segment.Record{From: 11, To: 12}))
}
