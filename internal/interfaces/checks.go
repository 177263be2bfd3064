package interfaces

// Compile-time interface implementation checks.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/journo/internal/database/runs"
	"github.com/mrlokans/journo/internal/database/snapshots"
	"github.com/mrlokans/journo/internal/exporters"
	"github.com/mrlokans/journo/internal/fetcher"
	"github.com/mrlokans/journo/internal/http"
	"github.com/mrlokans/journo/internal/importers"
	"github.com/mrlokans/journo/internal/metrics"
	"github.com/mrlokans/journo/internal/notion"
	"github.com/mrlokans/journo/internal/scheduler"
	"github.com/mrlokans/journo/internal/tasks"
)

// =============================================================================
// Notion Access
// =============================================================================

var _ importers.Client = (*notion.Client)(nil)
var _ fetcher.ChildLister = (*notion.Client)(nil)

// =============================================================================
// Import Side Effects
// =============================================================================

var _ importers.Recorder = (*runs.Repository)(nil)
var _ importers.Metrics = (*metrics.Collector)(nil)
var _ importers.Reporter = importers.ReporterFunc(nil)

// =============================================================================
// Background Work
// =============================================================================

var _ tasks.Importer = (*importers.Orchestrator)(nil)
var _ tasks.ImportRunCleaner = (*runs.Repository)(nil)
var _ scheduler.ImportEnqueuer = (*tasks.Client)(nil)

// =============================================================================
// HTTP Dependencies
// =============================================================================

var _ http.ImportQueue = (*tasks.Client)(nil)
var _ http.TaskStatusReader = (*tasks.Client)(nil)
var _ http.RunLister = (*runs.Repository)(nil)
var _ http.SnapshotReader = (*snapshots.Repository)(nil)
var _ http.WorkerState = (*tasks.Client)(nil)

// =============================================================================
// Thought Export
// =============================================================================

var _ exporters.ThoughtExporter = (*exporters.DatabaseExporter)(nil)
var _ exporters.SnapshotStore = (*snapshots.Repository)(nil)
