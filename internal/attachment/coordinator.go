// Package attachment couples a record save with the storage of its uploaded
// file.
//
// The two stores are independent and there is no transaction spanning them.
// The file is always stored first: a failed file store leaves the record
// untouched, while a record update that finds nothing to update leaves the
// freshly stored file orphaned. No compensating delete is issued; orphans are
// reclaimed only by file.Sweeper when it is enabled.
package attachment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maauso/dreamjob/internal/file"
	"github.com/maauso/dreamjob/internal/record"
)

// Attachable is a record that can reference a stored file.
type Attachable[T any] interface {
	record.Entity[T]
	// WithFileID returns a copy of the receiver referencing the given file.
	WithFileID(fileID int) T
}

// Coordinator saves and updates records together with an attached file.
type Coordinator[T Attachable[T]] struct {
	records record.Repository[T]
	files   file.Store
	logger  *slog.Logger
}

// NewCoordinator creates a Coordinator over a record repository and a file store.
func NewCoordinator[T Attachable[T]](records record.Repository[T], files file.Store, logger *slog.Logger) *Coordinator[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator[T]{
		records: records,
		files:   files,
		logger:  logger,
	}
}

// CreateWithAttachment stores the file, points rec at it and saves rec.
func (c *Coordinator[T]) CreateWithAttachment(ctx context.Context, rec T, fileName string, content []byte) (T, error) {
	fileID, err := c.files.Save(ctx, fileName, content)
	if err != nil {
		var zero T
		return zero, fmt.Errorf("store attachment %q: %w", fileName, err)
	}

	saved := c.records.Save(ctx, rec.WithFileID(fileID))

	c.logger.Debug("record created with attachment",
		slog.Int("id", saved.GetID()),
		slog.Int("file_id", fileID),
		slog.String("file_name", fileName),
	)
	return saved, nil
}

// UpdateWithAttachment stores the file, points rec at it and updates the
// record stored under rec's ID. It returns the update result; when it is
// false the stored file is left orphaned.
func (c *Coordinator[T]) UpdateWithAttachment(ctx context.Context, rec T, fileName string, content []byte) (bool, error) {
	fileID, err := c.files.Save(ctx, fileName, content)
	if err != nil {
		return false, fmt.Errorf("store attachment %q: %w", fileName, err)
	}

	if !c.records.Update(ctx, rec.WithFileID(fileID)) {
		c.logger.Warn("update target missing, attachment orphaned",
			slog.Int("id", rec.GetID()),
			slog.Int("file_id", fileID),
		)
		return false, nil
	}

	c.logger.Debug("record updated with attachment",
		slog.Int("id", rec.GetID()),
		slog.Int("file_id", fileID),
		slog.String("file_name", fileName),
	)
	return true, nil
}
