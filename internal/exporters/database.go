package exporters

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/mrlokans/journo/internal/entities"
	"github.com/mrlokans/journo/internal/logging"
)

// SnapshotStore replaces the persisted thought corpus.
type SnapshotStore interface {
	Replace(thoughts []entities.Thought) (int, error)
}

// DatabaseExporter stores the processed thoughts as the current snapshot.
type DatabaseExporter struct {
	store  SnapshotStore
	logger *zap.Logger
}

func NewDatabaseExporter(store SnapshotStore, logger *zap.Logger) *DatabaseExporter {
	return &DatabaseExporter{store: store, logger: logging.OrNop(logger)}
}

func (e *DatabaseExporter) Export(thoughts []entities.Thought) (ExportResult, error) {
	n, err := e.store.Replace(thoughts)
	if err != nil {
		e.logger.Error("failed to store thought snapshot", zap.Int("thoughts", len(thoughts)), zap.Error(err))
		return ExportResult{ThoughtsFailed: len(thoughts)}, fmt.Errorf("failed to store thoughts: %w", err)
	}
	e.logger.Info("thought snapshot stored", zap.Int("thoughts", n))
	return ExportResult{ThoughtsProcessed: n}, nil
}
