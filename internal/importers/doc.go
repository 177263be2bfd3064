// Package importers pulls Notion databases and pages into the local
// artifact cache.
//
// An import is a fixed sequence of steps, each guarded by the cache:
//
//	getDatabase → queryDatabase → for each page: getPage → getBlocks
//
// A page import starts at getPage. With skip set, any step whose artifact
// already parses is served from disk; otherwise the step calls the API and
// overwrites the artifact. Only the top-level block list of a page is
// cached. Nested blocks are resolved through a per-import memo so each
// block's children are listed at most once.
//
// # Example Usage
//
//	client, err := notion.NewClient(notion.Config{APIKey: key})
//	store, err := cache.NewStore(cfg.Data.ImportFolder())
//	orch := importers.NewOrchestrator(client, store, importers.DefaultThrottle())
//
//	result, err := orch.ImportDatabase(ctx, "https://www.notion.so/ws/Journal-<id>", true)
package importers
