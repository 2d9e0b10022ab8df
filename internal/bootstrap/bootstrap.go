// Package bootstrap provides dependency initialization for the DreamJob API.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maauso/dreamjob/internal/board"
	"github.com/maauso/dreamjob/internal/config"
	"github.com/maauso/dreamjob/internal/file"
	"github.com/maauso/dreamjob/internal/record"
	"github.com/maauso/dreamjob/internal/server"
	"github.com/maauso/dreamjob/internal/session"
	"github.com/maauso/dreamjob/internal/storage"
	"github.com/maauso/dreamjob/internal/user"
)

// Dependencies holds all initialized dependencies for the HTTP server.
type Dependencies struct {
	Services server.Services
	Sweeper  *file.Sweeper

	closers []func()
}

// NewDependencies creates and initializes all dependencies for the application.
// The caller must call Close when done.
func NewDependencies(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dependencies, error) {
	deps := &Dependencies{}
	if err := deps.init(ctx, cfg, logger); err != nil {
		deps.Close()
		return nil, err
	}
	return deps, nil
}

func (d *Dependencies) init(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	files, err := initFileStore(ctx, cfg, logger)
	if err != nil {
		return err
	}

	cities := record.NewMemoryRepository[board.City]()
	candidates := record.NewMemoryRepository[board.Candidate]()
	vacancies := record.NewMemoryRepository[board.Vacancy]()

	seed, err := board.LoadSeed(cfg.SeedFile)
	if err != nil {
		return fmt.Errorf("load seed: %w", err)
	}
	seed.Apply(ctx, cities, candidates, vacancies)
	logger.Info("board seeded",
		slog.Int("cities", cities.Len()),
		slog.Int("candidates", candidates.Len()),
		slog.Int("vacancies", vacancies.Len()),
	)

	users, err := d.initUsers(ctx, cfg, logger)
	if err != nil {
		return err
	}

	sessions, err := d.initSessions(ctx, cfg, logger)
	if err != nil {
		return err
	}

	candidateSvc := board.NewCandidateService(candidates, files, logger)
	vacancySvc := board.NewVacancyService(vacancies, files, logger)

	d.Services = server.Services{
		Candidates: candidateSvc,
		Vacancies:  vacancySvc,
		Cities:     board.NewCityService(cities),
		Files:      files,
		Users:      user.NewService(users, logger),
		Sessions:   sessions,
	}

	d.Sweeper = file.NewSweeper(files, logger,
		[]file.ReferencedIDs{candidateSvc.ReferencedFileIDs, vacancySvc.ReferencedFileIDs},
		file.WithMinAge(cfg.OrphanMinAge),
	)
	if cfg.OrphanSweepSchedule != "" {
		if err := d.Sweeper.Start(ctx, cfg.OrphanSweepSchedule); err != nil {
			return err
		}
		d.closers = append(d.closers, d.Sweeper.Stop)
	}

	return nil
}

// Close releases connections and stops background work, in reverse order
// of creation.
func (d *Dependencies) Close() {
	for i := len(d.closers) - 1; i >= 0; i-- {
		d.closers[i]()
	}
	d.closers = nil
}

// initFileStore creates the blob store selected by FILE_STORAGE.
func initFileStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (file.Store, error) {
	switch strings.ToLower(cfg.FileStorage) {
	case config.FileStorageS3:
		s3Store, err := storage.NewS3Storage(ctx, storage.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Prefix:          cfg.S3Prefix,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.AWSAccessKeyID,
			SecretAccessKey: cfg.AWSSecretAccessKey,
		})
		if err != nil {
			return nil, fmt.Errorf("create S3 storage: %w", err)
		}
		logger.Info("S3 file storage configured",
			slog.String("bucket", cfg.S3Bucket),
			slog.String("region", cfg.S3Region),
		)
		return file.NewBackedStore(s3Store), nil

	case config.FileStorageLocal:
		localStore, err := storage.NewLocalStorage(cfg.FilesDir)
		if err != nil {
			return nil, fmt.Errorf("create local storage: %w", err)
		}
		logger.Info("local file storage configured",
			slog.String("dir", localStore.Dir()),
		)
		return file.NewBackedStore(localStore), nil

	default:
		logger.Info("in-memory file storage configured")
		return file.NewMemoryStore(), nil
	}
}

// initUsers returns the PostgreSQL user repository when DATABASE_URL is set,
// otherwise an in-memory one.
func (d *Dependencies) initUsers(ctx context.Context, cfg *config.Config, logger *slog.Logger) (user.Repository, error) {
	if !cfg.DatabaseEnabled() {
		logger.Info("in-memory user repository configured")
		return user.NewMemoryRepository(), nil
	}

	pool, err := newPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	d.closers = append(d.closers, pool.Close)

	repo := user.NewPostgresRepository(pool)
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	logger.Info("postgres user repository configured")
	return repo, nil
}

// initSessions returns the Redis session store when REDIS_URL is set,
// otherwise an in-memory one.
func (d *Dependencies) initSessions(ctx context.Context, cfg *config.Config, logger *slog.Logger) (session.Store, error) {
	if !cfg.RedisEnabled() {
		logger.Info("in-memory session store configured")
		return session.NewMemoryStore(cfg.SessionTTL), nil
	}

	rdb, err := session.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	d.closers = append(d.closers, func() { _ = rdb.Close() })

	logger.Info("redis session store configured")
	return session.NewRedisStore(rdb, cfg.SessionTTL), nil
}

// newPostgresPool creates and verifies a pgxpool connection pool.
func newPostgresPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}

	return pool, nil
}
