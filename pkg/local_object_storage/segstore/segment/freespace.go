package segment

import (
	"container/heap"
	"slices"
	"sync"
)

// FreeSpace tracks holes: container ranges that don't belong to any live
// record. Holes are extracted in allocation order of the records that
// vacated them.
type FreeSpace struct {
	mtx   sync.Mutex
	holes holeHeap
}

// NewFreeSpace returns empty FreeSpace.
func NewFreeSpace() *FreeSpace {
	return new(FreeSpace)
}

// Push adds the hole. Path information of the record is dropped. Empty
// ranges are ignored.
func (f *FreeSpace) Push(rec Record) {
	if rec.Size() == 0 {
		return
	}

	f.mtx.Lock()
	heap.Push(&f.holes, rec.Hole())
	f.mtx.Unlock()
}

// Pop extracts the hole with the least allocation order.
func (f *FreeSpace) Pop() (Record, bool) {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	if len(f.holes) == 0 {
		return Record{}, false
	}

	return heap.Pop(&f.holes).(Record), true
}

// Len returns number of tracked holes.
func (f *FreeSpace) Len() int {
	f.mtx.Lock()
	defer f.mtx.Unlock()
	return len(f.holes)
}

// Size returns summary size of tracked holes.
func (f *FreeSpace) Size() uint64 {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	var sz uint64
	for i := range f.holes {
		sz += f.holes[i].Size()
	}
	return sz
}

// Holes returns copy of tracked holes ordered by allocation order.
func (f *FreeSpace) Holes() []Record {
	f.mtx.Lock()
	res := slices.Clone([]Record(f.holes))
	f.mtx.Unlock()

	slices.SortFunc(res, compareOrder)

	return res
}

// Last returns the hole with the greatest From.
func (f *FreeSpace) Last() (Record, bool) {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	if len(f.holes) == 0 {
		return Record{}, false
	}

	last := f.holes[0]
	for i := 1; i < len(f.holes); i++ {
		if f.holes[i].From > last.From {
			last = f.holes[i]
		}
	}

	return last, true
}

// Remove drops the given hole. Returns false if there is no such hole.
func (f *FreeSpace) Remove(rec Record) bool {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	for i := range f.holes {
		if f.holes[i] == rec {
			heap.Remove(&f.holes, i)
			return true
		}
	}

	return false
}

// Drain extracts all holes in allocation order.
func (f *FreeSpace) Drain() []Record {
	f.mtx.Lock()
	res := []Record(f.holes)
	f.holes = nil
	f.mtx.Unlock()

	slices.SortFunc(res, compareOrder)

	return res
}

// Merge joins contiguous holes until no pair of tracked holes is adjacent.
// Joined hole inherits the least allocation order of its parts. Returns
// number of merges done.
func (f *FreeSpace) Merge() int {
	f.mtx.Lock()
	defer f.mtx.Unlock()

	var merged int

	for {
		n := f.mergePass()
		if n == 0 {
			return merged
		}
		merged += n
	}
}

func (f *FreeSpace) mergePass() int {
	if len(f.holes) < 2 {
		return 0
	}

	byOffset := slices.Clone([]Record(f.holes))
	slices.SortFunc(byOffset, func(a, b Record) int {
		switch {
		case a.From < b.From:
			return -1
		case a.From > b.From:
			return 1
		default:
			return 0
		}
	})

	var (
		merged int
		res    = byOffset[:1]
	)

	for _, h := range byOffset[1:] {
		prev := &res[len(res)-1]
		if prev.To != h.From {
			res = append(res, h)
			continue
		}

		prev.To = h.To
		prev.Order = min(prev.Order, h.Order)
		merged++
	}

	if merged > 0 {
		f.holes = holeHeap(res)
		heap.Init(&f.holes)
	}

	return merged
}

// holeHeap implements heap.Interface over holes ordered by allocation order.
type holeHeap []Record

func (h holeHeap) Len() int { return len(h) }

func (h holeHeap) Less(i, j int) bool { return compareOrder(h[i], h[j]) < 0 }

func (h holeHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *holeHeap) Push(x any) { *h = append(*h, x.(Record)) }

func (h *holeHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
