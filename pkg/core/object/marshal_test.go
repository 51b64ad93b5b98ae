package object_test

import (
	"testing"

	"github.com/nspcc-dev/segstore/pkg/core/object"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/encoding/protowire"
)

func TestObject_Marshal(t *testing.T) {
	for _, tc := range []struct {
		name string
		obj  *object.Object
	}{
		{name: "with content", obj: object.New("/some/path/file1", []byte("some content"))},
		{name: "empty content", obj: object.New("/some/path/file2", []byte{})},
		{name: "no content", obj: object.New("/some/path/file3", nil)},
		{name: "zeroed content", obj: object.New("/zero", make([]byte, 64))},
	} {
		t.Run(tc.name, func(t *testing.T) {
			data := tc.obj.Marshal()
			require.False(t, object.IsZeroed(data))

			var res object.Object
			require.NoError(t, res.Unmarshal(data))
			require.True(t, tc.obj.Equal(&res))
			require.Equal(t, tc.obj.HasContent(), res.HasContent())
		})
	}

	t.Run("deterministic", func(t *testing.T) {
		obj := object.New("/a/b", []byte("data"))
		require.Equal(t, obj.Marshal(), object.New("/a/b", []byte("data")).Marshal())
	})
}

func TestObject_Unmarshal(t *testing.T) {
	valid := object.New("/file", []byte("content")).Marshal()

	for _, tc := range []struct {
		name string
		data []byte
	}{
		{name: "empty", data: nil},
		{name: "zeroed", data: make([]byte, len(valid))},
		{name: "truncated", data: valid[:len(valid)-1]},
		{name: "missing path", data: protowire.AppendBytes(protowire.AppendTag(nil, 2, protowire.BytesType), []byte("x"))},
		{name: "unknown field", data: protowire.AppendBytes(protowire.AppendTag(valid, 3, protowire.BytesType), []byte("x"))},
		{name: "repeated path", data: append(append([]byte{}, valid...), valid...)},
		{name: "wrong type", data: protowire.AppendVarint(protowire.AppendTag(nil, 1, protowire.VarintType), 1)},
		{name: "garbage", data: []byte{0xff, 0xff, 0xff}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var res object.Object
			require.ErrorIs(t, res.Unmarshal(tc.data), object.ErrInvalidRecord)
		})
	}
}

func TestIsZeroed(t *testing.T) {
	require.True(t, object.IsZeroed(nil))
	require.True(t, object.IsZeroed(make([]byte, 10)))
	require.False(t, object.IsZeroed([]byte{0, 0, 1}))
}
