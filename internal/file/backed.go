package file

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/maauso/dreamjob/internal/record/id"
	"github.com/maauso/dreamjob/internal/storage"
)

// Compile-time check that BackedStore implements Store.
var _ Store = (*BackedStore)(nil)

type entry struct {
	Info
	key string
}

// BackedStore keeps blob metadata in memory and writes content to a
// storage.Storage backend (local disk or S3) under a random key.
//
// Metadata does not survive a restart; payloads written by a previous process
// are left in the backend untouched.
type BackedStore struct {
	mu      sync.RWMutex
	entries map[int]entry
	ids     *id.Allocator
	content storage.Storage
	now     func() time.Time
}

// NewBackedStore creates a BackedStore writing content to backend.
func NewBackedStore(backend storage.Storage) *BackedStore {
	return &BackedStore{
		entries: make(map[int]entry),
		ids:     id.NewAllocator(),
		content: backend,
		now:     time.Now,
	}
}

// Save writes content to the backend first and registers the metadata only
// once the write succeeded. A failed write leaves a gap in the identifiers.
func (s *BackedStore) Save(ctx context.Context, name string, content []byte) (int, error) {
	blobID := s.ids.Next()
	key := uuid.NewString()

	if err := s.content.Put(ctx, key, content); err != nil {
		return 0, fmt.Errorf("store file content: %w", err)
	}

	s.mu.Lock()
	s.entries[blobID] = entry{
		Info: newInfo(blobID, name, content, s.now()),
		key:  key,
	}
	s.mu.Unlock()

	return blobID, nil
}

// GetByID loads the blob content from the backend. Metadata without content
// in the backend is treated as a missing blob.
func (s *BackedStore) GetByID(ctx context.Context, blobID int) (Blob, bool, error) {
	s.mu.RLock()
	e, ok := s.entries[blobID]
	s.mu.RUnlock()
	if !ok {
		return Blob{}, false, nil
	}

	data, err := s.content.Get(ctx, e.key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return Blob{}, false, nil
		}
		return Blob{}, false, fmt.Errorf("load file content: %w", err)
	}
	if data == nil {
		data = []byte{}
	}

	return Blob{Info: e.Info, Content: data}, true, nil
}

// DeleteByID forgets the metadata and removes the content from the backend.
// The blob counts as deleted even if removing the content fails.
func (s *BackedStore) DeleteByID(ctx context.Context, blobID int) (bool, error) {
	s.mu.Lock()
	e, ok := s.entries[blobID]
	if ok {
		delete(s.entries, blobID)
	}
	s.mu.Unlock()
	if !ok {
		return false, nil
	}

	if err := s.content.Delete(ctx, e.key); err != nil {
		return true, fmt.Errorf("delete file content: %w", err)
	}
	return true, nil
}

// List returns metadata for all blobs in ascending identifier order.
func (s *BackedStore) List(_ context.Context) ([]Info, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Info, 0, len(s.entries))
	for _, e := range s.entries {
		result = append(result, e.Info)
	}
	slices.SortFunc(result, func(a, b Info) int { return a.ID - b.ID })
	return result, nil
}
