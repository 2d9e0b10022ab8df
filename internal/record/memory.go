package record

import (
	"context"
	"sync"

	"github.com/google/btree"

	"github.com/maauso/dreamjob/internal/record/id"
)

const btreeDegree = 32

// MemoryRepository is an in-memory implementation of Repository.
// Records live in a B-tree ordered by identifier and guarded by a single
// RWMutex. Identifier allocation and insertion happen under the same write
// lock, so readers never observe an allocated id without its record.
type MemoryRepository[T Entity[T]] struct {
	mu    sync.RWMutex
	items *btree.BTreeG[T]
	ids   *id.Allocator
}

// NewMemoryRepository creates a new empty in-memory repository with its own
// identifier namespace.
func NewMemoryRepository[T Entity[T]]() *MemoryRepository[T] {
	return &MemoryRepository[T]{
		items: btree.NewG(btreeDegree, func(a, b T) bool {
			return a.GetID() < b.GetID()
		}),
		ids: id.NewAllocator(),
	}
}

// key builds a lookup value carrying only the identifier.
func key[T Entity[T]](recID int) T {
	var zero T
	return zero.WithID(recID)
}

// Save stores rec, allocating an identifier when rec has none.
func (r *MemoryRepository[T]) Save(_ context.Context, rec T) T {
	r.mu.Lock()
	defer r.mu.Unlock()

	if rec.GetID() == 0 {
		rec = rec.WithID(r.ids.Next())
	} else {
		r.ids.Observe(rec.GetID())
	}
	r.items.ReplaceOrInsert(rec)
	return rec
}

// FindByID retrieves a record by its identifier.
func (r *MemoryRepository[T]) FindByID(_ context.Context, recID int) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.items.Get(key[T](recID))
}

// FindAll returns all records in ascending identifier order.
func (r *MemoryRepository[T]) FindAll(_ context.Context) []T {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]T, 0, r.items.Len())
	r.items.Ascend(func(item T) bool {
		result = append(result, item)
		return true
	})
	return result
}

// Update replaces an existing record. The check and the replacement happen
// under one write lock, so a concurrently deleted record is never revived.
func (r *MemoryRepository[T]) Update(_ context.Context, rec T) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.items.Has(rec) {
		return false
	}
	r.items.ReplaceOrInsert(rec)
	return true
}

// UpdateFunc applies fn to the current record under the write lock.
// fn must not call back into the repository.
func (r *MemoryRepository[T]) UpdateFunc(_ context.Context, recID int, fn func(current T) T) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items.Get(key[T](recID))
	if !ok {
		return false
	}
	r.items.ReplaceOrInsert(fn(current).WithID(recID))
	return true
}

// DeleteByID removes a record from storage.
func (r *MemoryRepository[T]) DeleteByID(_ context.Context, recID int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.items.Delete(key[T](recID))
	return ok
}

// Len returns the number of stored records.
func (r *MemoryRepository[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.items.Len()
}
