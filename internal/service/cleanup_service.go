package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/voltride-motors/dealership-api/pkg/jobs"
)

// ImagePathLister reports every stored image path a table still references.
type ImagePathLister interface {
	ListImagePaths(ctx context.Context) ([]string, error)
}

type sweepStorage interface {
	ListOlderThan(ttl time.Duration) ([]string, error)
	Delete(filename string) error
	PublicURL(filename string) string
}

// CleanupConfig tunes the orphaned upload sweeper.
type CleanupConfig struct {
	Interval  time.Duration
	OrphanTTL time.Duration
}

// CleanupService reconciles stored image files against database references and
// removes blobs nothing points at anymore. Files younger than OrphanTTL are
// left alone so in-flight submissions are never swept.
type CleanupService struct {
	storage sweepStorage
	sources []ImagePathLister
	queue   *jobs.Queue
	logger  *zap.Logger
	cfg     CleanupConfig

	cancel context.CancelFunc
}

// NewCleanupService constructs the sweeper.
func NewCleanupService(storage sweepStorage, sources []ImagePathLister, logger *zap.Logger, cfg CleanupConfig) *CleanupService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.OrphanTTL <= 0 {
		cfg.OrphanTTL = 24 * time.Hour
	}
	s := &CleanupService{
		storage: storage,
		sources: sources,
		logger:  logger,
		cfg:     cfg,
	}
	s.queue = jobs.NewQueue("storage-cleanup", s.handleSweep, jobs.QueueConfig{
		Workers:    1,
		BufferSize: 4,
		Logger:     logger,
	})
	return s
}

// Start launches the worker and the periodic ticker.
func (s *CleanupService) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.queue.Start(ctx)
	go func() {
		ticker := time.NewTicker(s.cfg.Interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Trigger()
			}
		}
	}()
}

// Stop halts the ticker and waits for in-flight sweeps.
func (s *CleanupService) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.queue.Stop()
}

// Trigger enqueues an immediate sweep.
func (s *CleanupService) Trigger() {
	if err := s.queue.Enqueue(jobs.Job{ID: uuid.NewString(), Type: "sweep"}); err != nil {
		s.logger.Warn("failed to enqueue storage sweep", zap.Error(err))
	}
}

func (s *CleanupService) handleSweep(ctx context.Context, _ jobs.Job) error {
	stale, err := s.storage.ListOlderThan(s.cfg.OrphanTTL)
	if err != nil {
		return err
	}
	if len(stale) == 0 {
		return nil
	}

	referenced := make(map[string]struct{})
	for _, source := range s.sources {
		paths, err := source.ListImagePaths(ctx)
		if err != nil {
			// Never delete on a partial picture of what the database references.
			return err
		}
		for _, p := range paths {
			referenced[p] = struct{}{}
		}
	}

	removed := 0
	for _, path := range stale {
		if _, ok := referenced[s.storage.PublicURL(path)]; ok {
			continue
		}
		if _, ok := referenced[path]; ok {
			continue
		}
		if err := s.storage.Delete(path); err != nil {
			s.logger.Warn("failed to delete orphaned file", zap.String("path", path), zap.Error(err))
			continue
		}
		removed++
	}
	if removed > 0 {
		s.logger.Info("storage sweep removed orphaned files", zap.Int("count", removed))
	}
	return nil
}
