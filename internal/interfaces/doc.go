// Package interfaces documents the extension points of journo and holds the
// compile-time checks that tie each implementation to its interface.
//
// # Notion Access
//
//   - importers.Client: the four API calls an import makes (internal/importers/client.go)
//   - fetcher.ChildLister: one page of block children (internal/fetcher/blocks.go)
//
// Both are satisfied by *notion.Client. Tests substitute an httptest server
// rather than a fake implementation, so the HTTP layer is exercised too.
//
// # Import Side Effects
//
//   - importers.Reporter: progress events for the CLI (internal/importers/orchestrator.go)
//   - importers.Recorder: import history (internal/database/runs)
//   - importers.Metrics: remote call and cache lookup counters (internal/metrics)
//
// # Background Work
//
//   - tasks.Importer: what an import task runs (*importers.Orchestrator)
//   - tasks.ImportRunCleaner: history retention (internal/database/runs)
//   - scheduler.ImportEnqueuer: where the sync schedule sends imports (*tasks.Client)
//
// # HTTP Dependencies
//
//   - http.ImportQueue, http.TaskStatusReader: *tasks.Client
//   - http.RunLister: *runs.Repository
//   - http.SnapshotReader: *snapshots.Repository
//
// # Thought Export
//
//   - exporters.ThoughtExporter: a sink for processed thoughts
//   - exporters.SnapshotStore: *snapshots.Repository
//
// # Adding a New Exporter
//
//  1. Implement exporters.ThoughtExporter in internal/exporters/
//
//     type CSVExporter struct{ w io.Writer }
//
//     func (e *CSVExporter) Export(thoughts []entities.Thought) (exporters.ExportResult, error)
//
//  2. Add a compile-time check to checks.go
//
//  3. Wire a flag in internal/cli/thoughts.go
//
// # Compile-Time Interface Checks
//
// Every implementation gets a check so a missing method fails the build:
//
//	var _ SomeInterface = (*MyImplementation)(nil)
package interfaces
