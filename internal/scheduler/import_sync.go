package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mrlokans/journo/internal/config"
	"github.com/mrlokans/journo/internal/entities"
	"github.com/mrlokans/journo/internal/logging"
	"github.com/mrlokans/journo/internal/tasks"
)

var ErrNoTargets = errors.New("no sync targets configured, set SYNC_DATABASES or SYNC_PAGES")

// ImportEnqueuer queues import tasks.
type ImportEnqueuer interface {
	EnqueueImports(imports ...tasks.ImportTask) ([]string, error)
}

// ImportSyncScheduler periodically enqueues imports of the configured
// databases and pages.
type ImportSyncScheduler struct {
	cfg      config.Sync
	enqueuer ImportEnqueuer
	logger   *zap.Logger

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc
}

func NewImportSyncScheduler(cfg config.Sync, enqueuer ImportEnqueuer, logger *zap.Logger) *ImportSyncScheduler {
	logger = logging.OrNop(logger).Named("sync")
	return &ImportSyncScheduler{
		cfg:      cfg,
		enqueuer: enqueuer,
		logger:   logger,
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithLogger(logging.NewCronLogger(logger)),
		),
	}
}

// Start schedules the sync job and returns. The scheduler stops when ctx
// is cancelled or Stop is called.
func (s *ImportSyncScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}
	if len(s.cfg.Databases) == 0 && len(s.cfg.Pages) == 0 {
		return ErrNoTargets
	}
	if err := ValidateSchedule(s.cfg.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule '%s': %w", s.cfg.Schedule, err)
	}

	entryID, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		if _, err := s.RunNow(); err != nil {
			s.logger.Error("scheduled sync failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule sync job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true

	next, _ := NextRunTime(s.cfg.Schedule, time.Now())
	s.logger.Info("scheduler started",
		zap.String("schedule", s.cfg.Schedule),
		zap.String("description", Describe(s.cfg.Schedule)),
		zap.Time("next_run", next),
	)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop waits for a running job to finish and stops the scheduler.
func (s *ImportSyncScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.cron.Remove(s.entryID)
	if s.cancelFunc != nil {
		s.cancelFunc()
	}

	s.isRunning = false
	s.cancelFunc = nil
	s.logger.Info("scheduler stopped")
}

// RunNow enqueues one import per configured target and returns the task IDs.
// Targets without a recognizable ID are logged and skipped.
func (s *ImportSyncScheduler) RunNow() ([]string, error) {
	var batch []tasks.ImportTask
	add := func(kind entities.ImportKind, targets []string) {
		for _, target := range targets {
			task, err := tasks.NewImportTask(kind, target, s.cfg.Skip)
			if err != nil {
				s.logger.Warn("skipping sync target", zap.String("target", target), zap.Error(err))
				continue
			}
			batch = append(batch, task)
		}
	}
	add(entities.ImportKindDatabase, s.cfg.Databases)
	add(entities.ImportKindPage, s.cfg.Pages)

	if len(batch) == 0 {
		return nil, ErrNoTargets
	}

	taskIDs, err := s.enqueuer.EnqueueImports(batch...)
	if err != nil {
		return nil, fmt.Errorf("enqueue sync imports: %w", err)
	}
	s.logger.Info("sync imports enqueued", zap.Int("tasks", len(taskIDs)))
	return taskIDs, nil
}

func (s *ImportSyncScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRunTime returns when the next sync will occur, or nil when stopped.
func (s *ImportSyncScheduler) GetNextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}

	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}
