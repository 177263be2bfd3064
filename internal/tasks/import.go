package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mikestefanello/backlite"
	"go.uber.org/zap"

	"github.com/mrlokans/journo/internal/entities"
	"github.com/mrlokans/journo/internal/ids"
	"github.com/mrlokans/journo/internal/importers"
	"github.com/mrlokans/journo/internal/logging"
)

const ImportQueueName = "import"

var ErrUnsupportedKind = errors.New("unsupported import kind")

// Importer runs a single database or page import.
type Importer interface {
	ImportDatabase(ctx context.Context, input string, skip bool) (*importers.Result, error)
	ImportPage(ctx context.Context, input string, skip bool) (*importers.Result, error)
}

// ImporterFactory builds an Importer for one task. It is called per task so
// a key set after the server started is picked up.
type ImporterFactory func() (Importer, error)

// ImportTask imports one Notion database or page into the artifact cache.
type ImportTask struct {
	Kind      entities.ImportKind `json:"kind"`
	Target    string              `json:"target"`
	Skip      bool                `json:"skip"`
	RequestID string              `json:"request_id"`
}

// NewImportTask validates kind and stamps the task with a request ID that
// ends up on the recorded import run.
func NewImportTask(kind entities.ImportKind, target string, skip bool) (ImportTask, error) {
	if kind != entities.ImportKindDatabase && kind != entities.ImportKindPage {
		return ImportTask{}, fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}
	if _, ok := ids.Extract(target); !ok {
		return ImportTask{}, importers.ErrInvalidIdentifier
	}
	return ImportTask{Kind: kind, Target: target, Skip: skip, RequestID: ids.New()}, nil
}

// Config returns the default queue configuration for import tasks.
// NewImportQueue overrides the timeout with the configured one. Imports are
// never retried: a failed import is resumed by the next one with Skip set.
func (t ImportTask) Config() backlite.QueueConfig {
	return backlite.QueueConfig{
		Name:        ImportQueueName,
		MaxAttempts: 1,
		Backoff:     time.Minute,
		Timeout:     30 * time.Minute,
		Retention: &backlite.Retention{
			Duration:   7 * 24 * time.Hour,
			OnlyFailed: false,
			Data:       &backlite.RetainData{OnlyFailed: true},
		},
	}
}

// ImportProcessor creates a processor function for ImportTask.
func ImportProcessor(factory ImporterFactory, timeout time.Duration, logger *zap.Logger) backlite.QueueProcessor[ImportTask] {
	logger = logging.OrNop(logger)
	return func(ctx context.Context, task ImportTask) error {
		if factory == nil {
			return fmt.Errorf("importer not configured")
		}
		importer, err := factory()
		if err != nil {
			return fmt.Errorf("prepare import: %w", err)
		}

		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		ctx = importers.WithTaskID(ctx, task.RequestID)

		var result *importers.Result
		switch task.Kind {
		case entities.ImportKindDatabase:
			result, err = importer.ImportDatabase(ctx, task.Target, task.Skip)
		case entities.ImportKindPage:
			result, err = importer.ImportPage(ctx, task.Target, task.Skip)
		default:
			return fmt.Errorf("%w: %q", ErrUnsupportedKind, task.Kind)
		}
		if err != nil {
			return fmt.Errorf("import %s %s: %w", task.Kind, task.Target, err)
		}

		logger.Info("import task finished",
			zap.String("kind", string(task.Kind)),
			zap.String("id", result.ID),
			zap.String("title", result.Title),
			zap.Int("pages", result.Pages),
			zap.Int("live_calls", result.LiveCalls),
			zap.Int("cache_hits", result.CacheHits),
		)
		return nil
	}
}

// NewImportQueue creates a backlite queue for import tasks. A positive
// timeout replaces the default queue deadline, so TASK_TIMEOUT bounds an
// import in both directions.
func NewImportQueue(factory ImporterFactory, timeout time.Duration, logger *zap.Logger) backlite.Queue {
	q := backlite.NewQueue(ImportProcessor(factory, timeout, logger))
	if timeout > 0 {
		q.Config().Timeout = timeout
	}
	return q
}
