package board

import (
	"context"
	"log/slog"
	"time"

	"github.com/maauso/dreamjob/internal/attachment"
	"github.com/maauso/dreamjob/internal/file"
	"github.com/maauso/dreamjob/internal/record"
)

// Posting is a board record that carries a creation date and an optional
// attached file. Candidate and Vacancy implement it.
type Posting[T any] interface {
	attachment.Attachable[T]
	GetFileID() int
	GetCreationDate() time.Time
	WithCreationDate(t time.Time) T
}

// Upload is a file submitted together with a record. A nil *Upload means no
// file was submitted.
type Upload struct {
	Name    string
	Content []byte
}

// Service manages postings of one kind and their attachments.
type Service[T Posting[T]] struct {
	repo        record.Repository[T]
	coordinator *attachment.Coordinator[T]
	logger      *slog.Logger
	now         func() time.Time
}

// CandidateService manages candidates.
type CandidateService = Service[Candidate]

// VacancyService manages vacancies.
type VacancyService = Service[Vacancy]

// NewCandidateService creates a service for candidates.
func NewCandidateService(repo record.Repository[Candidate], files file.Store, logger *slog.Logger) *CandidateService {
	return newService("candidate", repo, files, logger)
}

// NewVacancyService creates a service for vacancies.
func NewVacancyService(repo record.Repository[Vacancy], files file.Store, logger *slog.Logger) *VacancyService {
	return newService("vacancy", repo, files, logger)
}

func newService[T Posting[T]](kind string, repo record.Repository[T], files file.Store, logger *slog.Logger) *Service[T] {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("kind", kind))
	return &Service[T]{
		repo:        repo,
		coordinator: attachment.NewCoordinator(repo, files, logger),
		logger:      logger,
		now:         time.Now,
	}
}

// Create stores a new record under a freshly allocated ID. A zero creation
// date is set to the current time. When upload is non-nil the file is stored
// first and attached to the record.
func (s *Service[T]) Create(ctx context.Context, rec T, upload *Upload) (T, error) {
	rec = rec.WithID(0)
	if rec.GetCreationDate().IsZero() {
		rec = rec.WithCreationDate(s.now())
	}

	if upload == nil {
		saved := s.repo.Save(ctx, rec)
		s.logger.Info("record created", slog.Int("id", saved.GetID()))
		return saved, nil
	}

	saved, err := s.coordinator.CreateWithAttachment(ctx, rec, upload.Name, upload.Content)
	if err != nil {
		s.logger.Error("failed to create record",
			slog.String("error", err.Error()),
		)
		return saved, err
	}
	s.logger.Info("record created",
		slog.Int("id", saved.GetID()),
		slog.Int("file_id", saved.GetFileID()),
	)
	return saved, nil
}

// Update replaces the record stored under rec's ID and reports whether it
// existed. A zero creation date keeps the stored one. Without an upload the
// stored file reference is kept; with one, the new file replaces it and the
// previous file is left in the store.
func (s *Service[T]) Update(ctx context.Context, rec T, upload *Upload) (bool, error) {
	if upload == nil {
		ok := s.repo.UpdateFunc(ctx, rec.GetID(), func(current T) T {
			return mergeStored(rec, current).WithFileID(current.GetFileID())
		})
		s.logger.Info("record updated",
			slog.Int("id", rec.GetID()),
			slog.Bool("found", ok),
		)
		return ok, nil
	}

	// The coordinator replaces the record wholesale, so the stored creation
	// date is read beforehand.
	if current, found := s.repo.FindByID(ctx, rec.GetID()); found {
		rec = mergeStored(rec, current)
	}
	ok, err := s.coordinator.UpdateWithAttachment(ctx, rec, upload.Name, upload.Content)
	if err != nil {
		s.logger.Error("failed to update record",
			slog.Int("id", rec.GetID()),
			slog.String("error", err.Error()),
		)
		return false, err
	}
	s.logger.Info("record updated",
		slog.Int("id", rec.GetID()),
		slog.Bool("found", ok),
	)
	return ok, nil
}

// mergeStored fills a zero creation date in rec from the stored record.
func mergeStored[T Posting[T]](rec, current T) T {
	if rec.GetCreationDate().IsZero() {
		return rec.WithCreationDate(current.GetCreationDate())
	}
	return rec
}

// FindByID retrieves a record by ID.
func (s *Service[T]) FindByID(ctx context.Context, id int) (T, bool) {
	return s.repo.FindByID(ctx, id)
}

// FindAll returns all records.
func (s *Service[T]) FindAll(ctx context.Context) []T {
	return s.repo.FindAll(ctx)
}

// DeleteByID removes a record. Its attached file stays in the file store.
func (s *Service[T]) DeleteByID(ctx context.Context, id int) bool {
	ok := s.repo.DeleteByID(ctx, id)
	s.logger.Info("record deleted",
		slog.Int("id", id),
		slog.Bool("found", ok),
	)
	return ok
}

// ReferencedFileIDs returns the non-zero file IDs referenced by stored records.
func (s *Service[T]) ReferencedFileIDs(ctx context.Context) []int {
	var ids []int
	for _, rec := range s.repo.FindAll(ctx) {
		if fileID := rec.GetFileID(); fileID != 0 {
			ids = append(ids, fileID)
		}
	}
	return ids
}
