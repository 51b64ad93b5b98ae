package segment_test

import (
	"testing"

	"github.com/nspcc-dev/segstore/pkg/local_object_storage/segstore/segment"
	"github.com/stretchr/testify/require"
)

func hole(from, to, order uint64) segment.Record {
	return segment.Record{From: from, To: to, Order: order}
}

func TestFreeSpace_Pop(t *testing.T) {
	fs := segment.NewFreeSpace()

	_, ok := fs.Pop()
	require.False(t, ok)

	fs.Push(hole(20, 30, 5))
	fs.Push(segment.Record{Name: "a", Path: "/a", From: 0, To: 10, Order: 1})
	fs.Push(hole(40, 40, 0)) // empty
	fs.Push(hole(10, 20, 3))

	require.Equal(t, 3, fs.Len())
	require.EqualValues(t, 30, fs.Size())

	last, ok := fs.Last()
	require.True(t, ok)
	require.Equal(t, hole(20, 30, 5), last)

	for _, exp := range []segment.Record{hole(0, 10, 1), hole(10, 20, 3), hole(20, 30, 5)} {
		h, ok := fs.Pop()
		require.True(t, ok)
		require.Equal(t, exp, h)
	}
	require.Zero(t, fs.Len())
}

func TestFreeSpace_Merge(t *testing.T) {
	t.Run("chain", func(t *testing.T) {
		fs := segment.NewFreeSpace()
		fs.Push(hole(10, 20, 7))
		fs.Push(hole(0, 10, 4))
		fs.Push(hole(20, 25, 2))
		fs.Push(hole(30, 40, 1))

		require.Equal(t, 2, fs.Merge())
		require.Equal(t, []segment.Record{hole(30, 40, 1), hole(0, 25, 2)}, fs.Holes())
		require.Zero(t, fs.Merge())
	})

	t.Run("nothing to merge", func(t *testing.T) {
		fs := segment.NewFreeSpace()
		require.Zero(t, fs.Merge())

		fs.Push(hole(0, 1, 0))
		fs.Push(hole(2, 3, 1))
		require.Zero(t, fs.Merge())
		require.Equal(t, 2, fs.Len())
	})
}

func TestFreeSpace_RemoveDrain(t *testing.T) {
	fs := segment.NewFreeSpace()
	fs.Push(hole(0, 10, 2))
	fs.Push(hole(20, 30, 1))

	require.False(t, fs.Remove(hole(0, 10, 3)))
	require.True(t, fs.Remove(hole(0, 10, 2)))
	require.Equal(t, 1, fs.Len())

	fs.Push(hole(50, 60, 0))
	require.Equal(t, []segment.Record{hole(50, 60, 0), hole(20, 30, 1)}, fs.Drain())
	require.Zero(t, fs.Len())
	_, ok := fs.Last()
	require.False(t, ok)
}
