// Package file stores uploaded binary content (images) independently of the
// records that reference it. A record points at a blob by identifier; a blob
// never points back.
package file

import (
	"context"
	"net/http"
	"time"
)

// Info describes a stored blob without its content.
type Info struct {
	// ID is the blob identifier, allocated by the store.
	ID int
	// Name is the original file name supplied by the uploader.
	Name string
	// Size is the content length in bytes.
	Size int
	// ContentType is sniffed from the content at store time.
	ContentType string
	// CreatedAt is when the blob was stored.
	CreatedAt time.Time
}

// Blob is a stored file: its metadata plus the raw content.
type Blob struct {
	Info
	Content []byte
}

// Store defines the interface for blob persistence.
//
// A missing blob is reported through the boolean results, never as an
// error. Errors are reserved for faults of an underlying content backend.
type Store interface {
	// Save stores content under a newly allocated identifier and returns it.
	// Zero-length content is legal.
	Save(ctx context.Context, name string, content []byte) (int, error)

	// GetByID returns the blob stored under id.
	GetByID(ctx context.Context, id int) (Blob, bool, error)

	// DeleteByID removes a blob and reports whether it was present.
	DeleteByID(ctx context.Context, id int) (bool, error)

	// List returns metadata for every stored blob.
	List(ctx context.Context) ([]Info, error)
}

func newInfo(id int, name string, content []byte, now time.Time) Info {
	contentType := "application/octet-stream"
	if len(content) > 0 {
		contentType = http.DetectContentType(content)
	}
	return Info{
		ID:          id,
		Name:        name,
		Size:        len(content),
		ContentType: contentType,
		CreatedAt:   now,
	}
}
