package segstore_test

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/nspcc-dev/segstore/pkg/local_object_storage/segstore"
	"github.com/nspcc-dev/segstore/pkg/local_object_storage/segstore/segment"
	"github.com/stretchr/testify/require"
)

// requireLeftPacked checks that stored objects occupy the container without
// gaps and there is nothing left to reclaim.
func requireLeftPacked(t *testing.T, s *segstore.Store) {
	var live []segment.Record
	require.NoError(t, s.Iterate(func(rec segment.Record) error {
		live = append(live, rec)
		return nil
	}))

	covered := make(map[uint64]segment.Record, len(live))
	var total uint64
	for _, rec := range live {
		covered[rec.From] = rec
		total += rec.Size()
	}

	for off := uint64(0); off < total; {
		rec, ok := covered[off]
		require.True(t, ok, "gap at offset %d", off)
		off = rec.To
	}

	m := s.Metrics()
	require.Zero(t, m.FreeSegmentCount)
	require.Zero(t, m.FreeBytes)
	require.Equal(t, total, m.ContainerSize)
}

func TestStore_Compact(t *testing.T) {
	t.Run("scenario", func(t *testing.T) {
		s, _ := newStore(t)

		// every record takes exactly 10 bytes
		require.NoError(t, s.Save("/a", []byte("aaaa")))
		require.NoError(t, s.Save("/b", []byte("bbbb")))
		require.NoError(t, s.Delete("/a"))
		require.NoError(t, s.Save("/c", []byte("cccc")))

		m := s.Metrics()
		require.EqualValues(t, 30, m.ContainerSize)
		require.Equal(t, 1, m.FreeSegmentCount)
		require.Equal(t, []segment.Record{{From: 0, To: 10, Order: 0}}, s.Holes())

		res, err := s.Compact()
		require.NoError(t, err)
		require.Equal(t, 2, res.Moved())
		require.EqualValues(t, 10, res.Reclaimed())

		m = s.Metrics()
		require.EqualValues(t, 20, m.ContainerSize)
		require.Zero(t, m.FreeSegmentCount)

		requireContent(t, s, "/b", []byte("bbbb"))
		requireContent(t, s, "/c", []byte("cccc"))

		_, err = s.Read("/a")
		require.ErrorIs(t, err, segstore.ErrNotFound)
	})

	t.Run("idempotence", func(t *testing.T) {
		s, _ := newStore(t)

		for i := 0; i < 10; i++ {
			require.NoError(t, s.Save(fmt.Sprintf("/%d", i), make([]byte, i*3)))
		}
		for i := 0; i < 10; i += 3 {
			require.NoError(t, s.Delete(fmt.Sprintf("/%d", i)))
		}

		_, err := s.Compact()
		require.NoError(t, err)
		before := s.Metrics()

		res, err := s.Compact()
		require.NoError(t, err)
		require.Zero(t, res.Moved())
		require.Zero(t, res.Reclaimed())
		require.Equal(t, before, s.Metrics())
	})

	t.Run("empty", func(t *testing.T) {
		s, _ := newStore(t)

		res, err := s.Compact()
		require.NoError(t, err)
		require.Zero(t, res.Moved())

		require.NoError(t, s.Save("/a", []byte("a")))
		require.NoError(t, s.Delete("/a"))

		res, err = s.Compact()
		require.NoError(t, err)
		require.Zero(t, res.Moved())
		require.Zero(t, s.Metrics().ContainerSize)
		require.Zero(t, s.Metrics().FreeSegmentCount)
	})

	t.Run("slide large object", func(t *testing.T) {
		s, _ := newStore(t)

		require.NoError(t, s.Save("/small", []byte("s")))
		require.NoError(t, s.Save("/large", make([]byte, 100)))
		require.NoError(t, s.Delete("/small"))

		res, err := s.Compact()
		require.NoError(t, err)
		require.Equal(t, 1, res.Moved())

		requireContent(t, s, "/large", make([]byte, 100))
		require.EqualValues(t, 0, recordOf(t, s, "/large").From)
		requireLeftPacked(t, s)
	})

	t.Run("order is kept", func(t *testing.T) {
		s, _ := newStore(t)

		require.NoError(t, s.Save("/a", []byte("a")))
		require.NoError(t, s.Save("/b", []byte("b")))
		before := recordOf(t, s, "/b")
		require.NoError(t, s.Delete("/a"))

		_, err := s.Compact()
		require.NoError(t, err)

		after := recordOf(t, s, "/b")
		require.Equal(t, before.Order, after.Order)
		require.Less(t, after.From, before.From)
	})

	t.Run("io failure", func(t *testing.T) {
		s, cnr := newStore(t)

		require.NoError(t, s.Save("/a", []byte("a")))
		require.NoError(t, s.Save("/b", []byte("b")))
		require.NoError(t, s.Delete("/a"))

		cnr.failWrite.Store(true)
		_, err := s.Compact()
		require.ErrorIs(t, err, segstore.ErrIOFailure)
		cnr.failWrite.Store(false)

		requireContent(t, s, "/b", []byte("b"))
		require.Equal(t, 1, s.Metrics().FreeSegmentCount)

		_, err = s.Compact()
		require.NoError(t, err)
		requireContent(t, s, "/b", []byte("b"))
		requireLeftPacked(t, s)
	})
}

func TestStore_CompactBlocksListing(t *testing.T) {
	s, cnr := newStore(t)

	require.NoError(t, s.Save("/a", []byte("aaaa")))
	require.NoError(t, s.Save("/b", []byte("bbbb")))
	require.NoError(t, s.Delete("/a"))

	var (
		once    sync.Once
		entered = make(chan struct{})
		release = make(chan struct{})
	)
	cnr.onWrite = func() {
		once.Do(func() {
			close(entered)
			<-release
		})
	}

	compacted := make(chan error, 1)
	go func() {
		_, err := s.Compact()
		compacted <- err
	}()

	<-entered

	holes := make(chan []segment.Record, 1)
	go func() { holes <- s.Holes() }()

	live := make(chan []segment.Record, 1)
	go func() {
		var recs []segment.Record
		_ = s.Iterate(func(rec segment.Record) error {
			recs = append(recs, rec)
			return nil
		})
		live <- recs
	}()

	require.Never(t, func() bool {
		return len(holes) > 0 || len(live) > 0
	}, 100*time.Millisecond, 10*time.Millisecond)

	close(release)
	require.NoError(t, <-compacted)

	require.Empty(t, <-holes)

	recs := <-live
	require.Len(t, recs, 1)
	require.Equal(t, "/b", recs[0].Path)
	require.Zero(t, recs[0].From)
}

func TestStore_CompactRandom(t *testing.T) {
	const (
		paths = 20
		ops   = 500
	)

	for _, seed := range []int64{1, 2, 3, 42} {
		t.Run(fmt.Sprintf("seed=%d", seed), func(t *testing.T) {
			var (
				r        = rand.New(rand.NewSource(seed))
				s, _     = newStore(t)
				expected = make(map[string][]byte)
			)

			for i := 0; i < ops; i++ {
				p := fmt.Sprintf("/dir%d/file%d", r.Intn(3), r.Intn(paths))

				switch op := r.Intn(10); {
				case op < 6:
					content := make([]byte, r.Intn(200))
					r.Read(content)
					require.NoError(t, s.Save(p, content))
					expected[p] = content
				case op < 9:
					err := s.Delete(p)
					if _, ok := expected[p]; ok {
						require.NoError(t, err)
						delete(expected, p)
					} else {
						require.ErrorIs(t, err, segstore.ErrNotFound)
					}
				default:
					_, err := s.Compact()
					require.NoError(t, err)
				}
			}

			_, err := s.Compact()
			require.NoError(t, err)

			for p, content := range expected {
				requireContent(t, s, p, content)
			}
			require.Equal(t, len(expected), s.Metrics().LiveSegmentCount)
			requireLeftPacked(t, s)

			res, err := s.Compact()
			require.NoError(t, err)
			require.Zero(t, res.Moved())
		})
	}
}
