package segstore

import (
	"encoding/binary"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/nspcc-dev/segstore/pkg/local_object_storage/segstore/segment"
	"github.com/nspcc-dev/segstore/pkg/util"
	"go.etcd.io/bbolt"
	"go.uber.org/zap"
)

// errBrokenIndex is returned when persisted index contradicts itself or
// the container.
var errBrokenIndex = errors.New("inconsistent index")

var (
	metaBucket     = []byte("meta")
	segmentsBucket = []byte("segments")
	holesBucket    = []byte("holes")

	stateKey = []byte("state")
)

// snapshotState is stored in the meta bucket.
type snapshotState struct {
	ID    []byte `cbor:"1,keyasint"`
	Tail  uint64 `cbor:"2,keyasint"`
	Order uint64 `cbor:"3,keyasint"`
}

// snapshotRecord is stored in the segments bucket under object path and in
// the holes bucket under holeKey.
type snapshotRecord struct {
	Name  string `cbor:"1,keyasint,omitempty"`
	From  uint64 `cbor:"2,keyasint"`
	To    uint64 `cbor:"3,keyasint"`
	Order uint64 `cbor:"4,keyasint"`
}

var cborEnc = func() cbor.EncMode {
	em, err := cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic(fmt.Errorf("init CBOR encoding mode: %w", err))
	}
	return em
}()

func holeKey(h segment.Record) []byte {
	k := make([]byte, 16)
	binary.BigEndian.PutUint64(k, h.Order)
	binary.BigEndian.PutUint64(k[8:], h.From)
	return k
}

func (s *Store) openIndexDB(readOnly bool) error {
	if !readOnly {
		err := util.MkdirAllX(filepath.Dir(s.indexPath), 0o750)
		if err != nil {
			return fmt.Errorf("create index directory: %w", err)
		}
	}

	opts := *bbolt.DefaultOptions
	opts.ReadOnly = readOnly
	opts.Timeout = time.Second

	db, err := bbolt.Open(s.indexPath, 0o640, &opts)
	if err != nil {
		return fmt.Errorf("open index database %s: %w", s.indexPath, err)
	}

	s.log.Debug("opened index database", zap.String("path", s.indexPath))
	s.db = db

	return nil
}

// loadSnapshot restores the index from the database. Returns false if
// database holds no index. Records and holes must lie below the persisted
// tail, records must also fit the container. Container bytes beyond the
// tail are treated as a hole.
func (s *Store) loadSnapshot(containerSize uint64) (bool, error) {
	var (
		state snapshotState
		found bool
		maxTo uint64
	)

	err := s.db.View(func(tx *bbolt.Tx) error {
		mb := tx.Bucket(metaBucket)
		if mb == nil {
			return nil
		}

		v := mb.Get(stateKey)
		if v == nil {
			return nil
		}
		found = true

		err := cbor.Unmarshal(v, &state)
		if err != nil {
			return fmt.Errorf("decode state: %w", err)
		}
		s.id, err = uuid.FromBytes(state.ID)
		if err != nil {
			return fmt.Errorf("decode store ID: %w", err)
		}

		if b := tx.Bucket(segmentsBucket); b != nil {
			err = b.ForEach(func(k, v []byte) error {
				var r snapshotRecord
				if err := cbor.Unmarshal(v, &r); err != nil {
					return fmt.Errorf("decode record of %s: %w", k, err)
				}
				if r.To < r.From || r.To > containerSize {
					return fmt.Errorf("%w: record of %s [%d:%d] is out of container bounds",
						errBrokenIndex, k, r.From, r.To)
				}
				if r.Order >= state.Order {
					return fmt.Errorf("%w: record of %s has order %d, next order is %d",
						errBrokenIndex, k, r.Order, state.Order)
				}
				maxTo = max(maxTo, r.To)

				s.index.Upsert(segment.Record{
					Name:  r.Name,
					Path:  string(k),
					From:  r.From,
					To:    r.To,
					Order: r.Order,
				})
				return nil
			})
			if err != nil {
				return err
			}
		}

		b := tx.Bucket(holesBucket)
		if b == nil {
			return nil
		}

		return b.ForEach(func(k, v []byte) error {
			var r snapshotRecord
			if err := cbor.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("decode hole %x: %w", k, err)
			}
			if r.To < r.From {
				return fmt.Errorf("%w: invalid hole [%d:%d]", errBrokenIndex, r.From, r.To)
			}
			maxTo = max(maxTo, r.To)
			s.free.Push(segment.Record{From: r.From, To: r.To, Order: r.Order})
			return nil
		})
	})
	if err != nil || !found {
		return false, err
	}

	if maxTo > state.Tail {
		return false, fmt.Errorf("%w: indexed ranges end at %d beyond tail %d", errBrokenIndex, maxTo, state.Tail)
	}

	if containerSize > state.Tail {
		s.log.Warn("container has bytes beyond indexed tail, they are treated as free space",
			zap.Uint64("tail", state.Tail),
			zap.Uint64("size", containerSize))

		s.free.Push(segment.Record{From: state.Tail, To: containerSize, Order: state.Order})
		state.Order++
		state.Tail = containerSize
	}

	s.tail.Store(state.Tail)
	s.order.Store(state.Order)

	return true, nil
}

// saveSnapshot replaces the index stored in the database with the current
// one.
func (s *Store) saveSnapshot() error {
	state, err := cborEnc.Marshal(snapshotState{
		ID:    s.id[:],
		Tail:  s.tail.Load(),
		Order: s.order.Load(),
	})
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{segmentsBucket, holesBucket} {
			err := tx.DeleteBucket(name)
			if err != nil && !errors.Is(err, bbolt.ErrBucketNotFound) {
				return fmt.Errorf("drop bucket %s: %w", name, err)
			}
		}

		mb, err := tx.CreateBucketIfNotExists(metaBucket)
		if err != nil {
			return fmt.Errorf("create bucket %s: %w", metaBucket, err)
		}
		sb, err := tx.CreateBucket(segmentsBucket)
		if err != nil {
			return fmt.Errorf("create bucket %s: %w", segmentsBucket, err)
		}
		hb, err := tx.CreateBucket(holesBucket)
		if err != nil {
			return fmt.Errorf("create bucket %s: %w", holesBucket, err)
		}

		for _, rec := range s.index.Live() {
			v, err := cborEnc.Marshal(snapshotRecord{Name: rec.Name, From: rec.From, To: rec.To, Order: rec.Order})
			if err != nil {
				return fmt.Errorf("encode record of %s: %w", rec.Path, err)
			}
			if err = sb.Put([]byte(rec.Path), v); err != nil {
				return fmt.Errorf("put record of %s: %w", rec.Path, err)
			}
		}

		for _, h := range s.free.Holes() {
			v, err := cborEnc.Marshal(snapshotRecord{From: h.From, To: h.To, Order: h.Order})
			if err != nil {
				return fmt.Errorf("encode hole: %w", err)
			}
			if err = hb.Put(holeKey(h), v); err != nil {
				return fmt.Errorf("put hole: %w", err)
			}
		}

		return mb.Put(stateKey, state)
	})
}
