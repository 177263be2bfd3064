package http

import (
	"go.uber.org/zap"

	"github.com/mrlokans/journo/internal/cache"
	"github.com/mrlokans/journo/internal/database"
	"github.com/mrlokans/journo/internal/metrics"
)

// RouterConfig contains all dependencies needed to create the HTTP router.
// Nil dependencies disable the routes that need them.
type RouterConfig struct {
	Database  *database.Database
	Store     *cache.Store
	Snapshots SnapshotReader
	Runs      RunLister
	Queue     ImportQueue
	Tasks     TaskStatusReader
	Workers   WorkerState
	Metrics   *metrics.Collector
	Logger    *zap.Logger

	Version string
}
