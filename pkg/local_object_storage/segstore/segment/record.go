// Package segment contains bookkeeping structures of the segment store: the
// index of live segments and the tracker of free space left by deleted and
// overwritten ones.
package segment

import "fmt"

// Record describes byte range [From, To) of the container. Live records map
// an object path to the range holding its serialized bytes. Records kept by
// FreeSpace are holes: their Name and Path are empty.
type Record struct {
	Name string
	Path string
	From uint64
	To   uint64
	// Order is the allocation order of the record. It is unique among live
	// records and never used for addressing.
	Order uint64
}

// Size returns length of the range.
func (r Record) Size() uint64 {
	return r.To - r.From
}

// Contiguous checks whether r and x are adjacent: one's To equals the
// other's From.
func (r Record) Contiguous(x Record) bool {
	return r.To == x.From || x.To == r.From
}

// Hole returns the record range as a hole inheriting record allocation order.
func (r Record) Hole() Record {
	return Record{
		From:  r.From,
		To:    r.To,
		Order: r.Order,
	}
}

// IsHole checks whether r addresses no object.
func (r Record) IsHole() bool {
	return r.Path == ""
}

func (r Record) String() string {
	if r.IsHole() {
		return fmt.Sprintf("hole[%d:%d]#%d", r.From, r.To, r.Order)
	}
	return fmt.Sprintf("%s[%d:%d]#%d", r.Path, r.From, r.To, r.Order)
}
