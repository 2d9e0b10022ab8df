package file

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/maauso/dreamjob/internal/record/id"
)

// Compile-time check that MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps blobs in a map guarded by an RWMutex.
// Content is copied on the way in and out, so stored blobs are immutable.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[int]Blob
	ids   *id.Allocator
	now   func() time.Time
}

// NewMemoryStore creates an empty MemoryStore with its own identifier namespace.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blobs: make(map[int]Blob),
		ids:   id.NewAllocator(),
		now:   time.Now,
	}
}

// Save stores a copy of content and returns the new blob identifier.
func (s *MemoryStore) Save(_ context.Context, name string, content []byte) (int, error) {
	data := slices.Clone(content)
	if data == nil {
		data = []byte{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	blobID := s.ids.Next()
	s.blobs[blobID] = Blob{
		Info:    newInfo(blobID, name, data, s.now()),
		Content: data,
	}
	return blobID, nil
}

// GetByID returns a copy of the blob stored under blobID.
func (s *MemoryStore) GetByID(_ context.Context, blobID int) (Blob, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blob, ok := s.blobs[blobID]
	if !ok {
		return Blob{}, false, nil
	}
	blob.Content = slices.Clone(blob.Content)
	return blob, true, nil
}

// DeleteByID removes a blob.
func (s *MemoryStore) DeleteByID(_ context.Context, blobID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.blobs[blobID]; !ok {
		return false, nil
	}
	delete(s.blobs, blobID)
	return true, nil
}

// List returns metadata for all blobs in ascending identifier order.
func (s *MemoryStore) List(_ context.Context) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Info, 0, len(s.blobs))
	for _, blob := range s.blobs {
		result = append(result, blob.Info)
	}
	slices.SortFunc(result, func(a, b Info) int { return a.ID - b.ID })
	return result, nil
}
