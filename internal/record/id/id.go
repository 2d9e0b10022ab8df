// Package id provides identifier allocation for stored records and blobs.
package id

import "sync/atomic"

// Allocator hands out strictly increasing integer identifiers starting at 1.
// It is safe for concurrent use. Values are never reused; gaps are allowed.
type Allocator struct {
	last atomic.Int64
}

// NewAllocator creates an Allocator whose first Next call returns 1.
func NewAllocator() *Allocator {
	return &Allocator{}
}

// Next returns the next identifier.
func (a *Allocator) Next() int {
	return int(a.last.Add(1))
}

// Observe records that id is in use, so that Next never returns it.
// Used when a record is stored under an explicit identifier.
func (a *Allocator) Observe(id int) {
	v := int64(id)
	for {
		cur := a.last.Load()
		if v <= cur {
			return
		}
		if a.last.CompareAndSwap(cur, v) {
			return
		}
	}
}
