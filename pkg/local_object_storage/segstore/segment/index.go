package segment

import (
	"slices"
	"sync"
)

// Index maps canonical object paths to live records. The whole canonical
// path is the key, so objects with equal file names in different
// directories never collide.
type Index struct {
	mtx  sync.RWMutex
	recs map[string]Record
}

// NewIndex returns empty Index.
func NewIndex() *Index {
	return &Index{
		recs: make(map[string]Record),
	}
}

// Find returns live record of the path.
func (x *Index) Find(path string) (Record, bool) {
	x.mtx.RLock()
	rec, ok := x.recs[path]
	x.mtx.RUnlock()
	return rec, ok
}

// Upsert installs live record for rec.Path returning the previous one if
// any. Caller is responsible for freeing the previous range.
func (x *Index) Upsert(rec Record) (Record, bool) {
	x.mtx.Lock()
	prev, ok := x.recs[rec.Path]
	x.recs[rec.Path] = rec
	x.mtx.Unlock()
	return prev, ok
}

// Restore installs rec only if its path has no live record. It is used to
// undo Remove when freeing the range fails.
func (x *Index) Restore(rec Record) bool {
	x.mtx.Lock()
	defer x.mtx.Unlock()

	if _, ok := x.recs[rec.Path]; ok {
		return false
	}

	x.recs[rec.Path] = rec
	return true
}

// Relocate moves live record of the path to the new range. Nothing happens
// if the path now has another record (with different allocation order).
func (x *Index) Relocate(rec Record, from, to uint64) bool {
	x.mtx.Lock()
	defer x.mtx.Unlock()

	cur, ok := x.recs[rec.Path]
	if !ok || cur != rec {
		return false
	}

	cur.From, cur.To = from, to
	x.recs[rec.Path] = cur
	return true
}

// Remove drops live record of the path.
func (x *Index) Remove(path string) (Record, bool) {
	x.mtx.Lock()
	rec, ok := x.recs[path]
	if ok {
		delete(x.recs, path)
	}
	x.mtx.Unlock()
	return rec, ok
}

// Len returns number of live records.
func (x *Index) Len() int {
	x.mtx.RLock()
	defer x.mtx.RUnlock()
	return len(x.recs)
}

// Live returns all live records ordered by allocation order.
func (x *Index) Live() []Record {
	x.mtx.RLock()
	res := make([]Record, 0, len(x.recs))
	for _, rec := range x.recs {
		res = append(res, rec)
	}
	x.mtx.RUnlock()

	slices.SortFunc(res, compareOrder)

	return res
}

// Size returns summary size of live records.
func (x *Index) Size() uint64 {
	x.mtx.RLock()
	defer x.mtx.RUnlock()

	var sz uint64
	for _, rec := range x.recs {
		sz += rec.Size()
	}
	return sz
}

func compareOrder(a, b Record) int {
	switch {
	case a.Order < b.Order:
		return -1
	case a.Order > b.Order:
		return 1
	case a.From < b.From:
		return -1
	case a.From > b.From:
		return 1
	default:
		return 0
	}
}
