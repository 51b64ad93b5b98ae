package segstore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nspcc-dev/segstore/pkg/local_object_storage/segstore/segment"
	"github.com/nspcc-dev/segstore/pkg/util"
	"go.uber.org/zap"
)

// CheckRes groups the resulting values of Check operation.
type CheckRes struct {
	checked int
	broken  []string
}

// Checked returns number of verified objects.
func (r CheckRes) Checked() int {
	return r.checked
}

// Broken returns paths of the objects which can not be read back.
func (r CheckRes) Broken() []string {
	return r.broken
}

// Check reads and decodes every stored object. Objects whose bytes are
// corrupted or zeroed are reported as broken. Check blocks compaction but
// not other operations.
//
// Returns ctx error if it is done before all objects are verified. Container
// failures abort the check.
func (s *Store) Check(ctx context.Context) (CheckRes, error) {
	var res CheckRes

	s.compactMtx.RLock()
	defer s.compactMtx.RUnlock()

	pool, err := util.NewWorkerPool(s.checkWorkers)
	if err != nil {
		return res, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		wg     sync.WaitGroup
		mtx    sync.Mutex
		ioErr  error
		recs   = s.index.Live()
		verify = func(rec segment.Record) {
			defer wg.Done()

			_, err := s.readRecord(rec)

			mtx.Lock()
			defer mtx.Unlock()

			res.checked++

			switch {
			case err == nil:
			case errors.Is(err, ErrIOFailure):
				if ioErr == nil {
					ioErr = err
				}
			default:
				s.log.Warn("broken object", zap.String("path", rec.Path), zap.Error(err))
				res.broken = append(res.broken, rec.Path)
			}
		}
	)

loop:
	for i := range recs {
		select {
		case <-ctx.Done():
			err = ctx.Err()
			break loop
		default:
		}

		wg.Add(1)
		rec := recs[i]
		if err = pool.Submit(func() { verify(rec) }); err != nil {
			wg.Done()
			err = fmt.Errorf("submit check task: %w", err)
			break
		}
	}

	wg.Wait()

	if err == nil {
		err = ioErr
	}

	return res, err
}
