// Package database provides the SQLite store for import history and
// thought snapshots.
//
// The layer is split into domain sub-packages, each with a Repository:
//
//	database/
//	├── database.go   # Connection setup and migrations
//	├── runs/         # Import run history
//	└── snapshots/    # Last exported thought corpus
//
// # Usage
//
//	db, err := database.NewDatabase(cfg.Database.Path, logger)
//	runsRepo := runs.NewRepository(db.DB)
//	orch := importers.NewOrchestrator(client, store, throttle, importers.WithRecorder(runsRepo))
package database
