package file

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultMinAge is how old an unreferenced blob must be before it is swept.
const DefaultMinAge = 10 * time.Minute

// ReferencedIDs reports the blob identifiers that records currently point at.
type ReferencedIDs func(ctx context.Context) []int

// Sweeper deletes blobs that no record references.
//
// Blobs younger than the minimum age are never swept: an attachment is stored
// before the record that references it, and that window must not be mistaken
// for an orphan.
type Sweeper struct {
	store  Store
	refs   []ReferencedIDs
	minAge time.Duration
	logger *slog.Logger
	now    func() time.Time
	cron   *cron.Cron
}

// SweeperOption configures a Sweeper.
type SweeperOption func(*Sweeper)

// WithMinAge sets the minimum age of a blob before it may be swept.
func WithMinAge(d time.Duration) SweeperOption {
	return func(s *Sweeper) {
		if d >= 0 {
			s.minAge = d
		}
	}
}

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) SweeperOption {
	return func(s *Sweeper) {
		s.now = now
	}
}

// NewSweeper creates a Sweeper over store. refs lists every source of blob
// references (one per record type carrying attachments).
func NewSweeper(store Store, logger *slog.Logger, refs []ReferencedIDs, opts ...SweeperOption) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Sweeper{
		store:  store,
		refs:   refs,
		minAge: DefaultMinAge,
		logger: logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sweep deletes unreferenced blobs older than the minimum age and returns how
// many were removed.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	blobs, err := s.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list files: %w", err)
	}

	referenced := make(map[int]struct{})
	for _, ref := range s.refs {
		for _, blobID := range ref(ctx) {
			referenced[blobID] = struct{}{}
		}
	}

	cutoff := s.now().Add(-s.minAge)
	removed := 0
	for _, info := range blobs {
		if _, ok := referenced[info.ID]; ok {
			continue
		}
		if info.CreatedAt.After(cutoff) {
			continue
		}
		ok, err := s.store.DeleteByID(ctx, info.ID)
		if err != nil {
			s.logger.Warn("failed to delete orphaned file",
				slog.Int("file_id", info.ID),
				slog.String("error", err.Error()),
			)
		}
		if ok {
			removed++
		}
	}

	s.logger.Info("orphaned file sweep complete",
		slog.Int("files", len(blobs)),
		slog.Int("removed", removed),
	)
	return removed, nil
}

// Start schedules Sweep with a cron spec, e.g. "@every 1h".
func (s *Sweeper) Start(ctx context.Context, spec string) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if _, err := s.Sweep(ctx); err != nil {
			s.logger.Error("orphaned file sweep failed",
				slog.String("error", err.Error()),
			)
		}
	})
	if err != nil {
		return fmt.Errorf("schedule sweep %q: %w", spec, err)
	}

	s.cron = c
	c.Start()
	s.logger.Info("orphaned file sweeper started", slog.String("schedule", spec))
	return nil
}

// Stop halts the schedule and waits for a running sweep to finish.
func (s *Sweeper) Stop() {
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.logger.Info("orphaned file sweeper stopped")
}
