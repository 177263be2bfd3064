package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"

	"github.com/mrlokans/journo/internal/logging"
)

// ImportRunCleaner provides the ability to delete old import runs.
type ImportRunCleaner interface {
	DeleteOlderThan(retention time.Duration) (int64, error)
}

// CleanupImportRunsTask removes import history older than the retention period.
type CleanupImportRunsTask struct {
	RetentionDays int `json:"retention_days"`
}

func (t CleanupImportRunsTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        "cleanup_import_runs",
		MaxAttempts: 3,
		Backoff:     5 * time.Minute,
		Timeout:     2 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// CleanupImportRunsProcessor creates a processor function for CleanupImportRunsTask.
func CleanupImportRunsProcessor(cleaner ImportRunCleaner, logger *zap.Logger) backlite.QueueProcessor[CleanupImportRunsTask] {
	logger = logging.OrNop(logger)
	return func(ctx context.Context, task CleanupImportRunsTask) error {
		if cleaner == nil {
			return fmt.Errorf("import run cleaner not configured")
		}

		retentionDays := task.RetentionDays
		if retentionDays <= 0 {
			retentionDays = 90
		}
		retention := time.Duration(retentionDays) * 24 * time.Hour

		deleted, err := cleaner.DeleteOlderThan(retention)
		if err != nil {
			return fmt.Errorf("cleanup import runs: %w", err)
		}

		logger.Info("cleaned up import runs", zap.Int64("deleted", deleted), zap.Int("retention_days", retentionDays))
		return nil
	}
}

func NewCleanupImportRunsQueue(cleaner ImportRunCleaner, logger *zap.Logger) backlite.Queue {
	return backlite.NewQueue(CleanupImportRunsProcessor(cleaner, logger))
}
