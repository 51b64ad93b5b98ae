package segstore_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/nspcc-dev/segstore/pkg/local_object_storage/segstore"
	"github.com/stretchr/testify/require"
)

func TestStore_Check(t *testing.T) {
	for _, workers := range []int{1, 4} {
		t.Run(fmt.Sprintf("workers=%d", workers), func(t *testing.T) {
			s, cnr := newStore(t, segstore.WithCheckWorkers(workers))

			for i := 0; i < 20; i++ {
				require.NoError(t, s.Save(fmt.Sprintf("/obj%d", i), []byte(fmt.Sprintf("content %d", i))))
			}

			res, err := s.Check(context.Background())
			require.NoError(t, err)
			require.Equal(t, 20, res.Checked())
			require.Empty(t, res.Broken())

			corrupted := recordOf(t, s, "/obj3")
			require.NoError(t, cnr.WriteAt([]byte{0xff, 0xff}, corrupted.From))
			zeroed := recordOf(t, s, "/obj7")
			require.NoError(t, cnr.ZeroFill(zeroed.From, zeroed.Size()))

			res, err = s.Check(context.Background())
			require.NoError(t, err)
			require.Equal(t, 20, res.Checked())
			require.ElementsMatch(t, []string{"/obj3", "/obj7"}, res.Broken())

			t.Run("io failure", func(t *testing.T) {
				cnr.failRead.Store(true)
				defer cnr.failRead.Store(false)

				_, err := s.Check(context.Background())
				require.ErrorIs(t, err, segstore.ErrIOFailure)
			})

			t.Run("canceled", func(t *testing.T) {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()

				res, err := s.Check(ctx)
				require.ErrorIs(t, err, context.Canceled)
				require.Zero(t, res.Checked())
			})
		})
	}
}
