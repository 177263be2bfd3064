package importers

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/journo/internal/cache"
	"github.com/mrlokans/journo/internal/entities"
	"github.com/mrlokans/journo/internal/fetcher"
	"github.com/mrlokans/journo/internal/ids"
	"github.com/mrlokans/journo/internal/notion"
)

const (
	DefaultCacheHitDelay  = 100 * time.Millisecond
	DefaultLiveFetchDelay = 250 * time.Millisecond
)

// Throttle sets the pauses between remote calls.
type Throttle struct {
	// PageDelay separates the pages of one paginated listing.
	PageDelay time.Duration
	// CacheHitDelay follows every cache hit.
	CacheHitDelay time.Duration
	// LiveFetchDelay follows a live database or page retrieval.
	LiveFetchDelay time.Duration

	Sleep func(ctx context.Context, d time.Duration) error
}

// DefaultThrottle matches the pacing the Notion API tolerates.
func DefaultThrottle() Throttle {
	return Throttle{
		PageDelay:      fetcher.DefaultPageDelay,
		CacheHitDelay:  DefaultCacheHitDelay,
		LiveFetchDelay: DefaultLiveFetchDelay,
	}
}

func (t Throttle) wait(ctx context.Context, d time.Duration) error {
	if t.Sleep != nil {
		return t.Sleep(ctx, d)
	}
	return fetcher.Sleep(ctx, d)
}

// Event describes one finished import step, or one page of a listing when
// Progress is set.
type Event struct {
	Op       cache.Operation
	ID       string
	Title    string
	Path     string
	Hit      bool
	Progress bool
	Items    int
	HasMore  bool
}

type Reporter interface {
	Report(Event)
}

type ReporterFunc func(Event)

func (f ReporterFunc) Report(e Event) { f(e) }

// Recorder persists the history of import runs.
type Recorder interface {
	CreateImportRun(run *entities.ImportRun) error
	UpdateImportRun(run *entities.ImportRun) error
}

// Result summarises one import.
type Result struct {
	Kind      entities.ImportKind
	ID        string
	Title     string
	Pages     int
	LiveCalls int
	CacheHits int
	Artifacts []string
}

// Orchestrator sequences cached retrievals of databases, pages and block
// trees. Imports run one call at a time.
type Orchestrator struct {
	client   Client
	store    *cache.Store
	throttle Throttle
	reporter Reporter
	recorder Recorder
	metrics  Metrics
	logger   *zap.Logger
}

type Option func(*Orchestrator)

func WithReporter(r Reporter) Option { return func(o *Orchestrator) { o.reporter = r } }

func WithRecorder(r Recorder) Option { return func(o *Orchestrator) { o.recorder = r } }

func WithMetrics(m Metrics) Option { return func(o *Orchestrator) { o.metrics = m } }

func WithLogger(l *zap.Logger) Option { return func(o *Orchestrator) { o.logger = l } }

func NewOrchestrator(client Client, store *cache.Store, throttle Throttle, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client:   client,
		store:    store,
		throttle: throttle,
		metrics:  nopMetrics{},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return o
}

// run is the state of a single import call. Its memo is shared by every
// page of that call and by nothing else.
type run struct {
	client *countingClient
	memo   *fetcher.Memo
	blocks *fetcher.BlockFetcher
	skip   bool
	result *Result
}

func (o *Orchestrator) newRun(kind entities.ImportKind, id string, skip bool) *run {
	client := &countingClient{Client: o.client, metrics: o.metrics}
	return &run{
		client: client,
		memo:   fetcher.NewMemo(),
		blocks: fetcher.NewBlockFetcher(client, o.pageOptions(), o.logger),
		skip:   skip,
		result: &Result{Kind: kind, ID: id},
	}
}

func (o *Orchestrator) pageOptions() fetcher.Options {
	return fetcher.Options{Delay: o.throttle.PageDelay, Sleep: o.throttle.Sleep}
}

// ImportDatabase imports a database, its rows and every row's block tree.
// input may be an ID or any URL containing one.
func (o *Orchestrator) ImportDatabase(ctx context.Context, input string, skip bool) (*Result, error) {
	id, ok := ids.Extract(input)
	if !ok {
		return nil, ErrInvalidIdentifier
	}

	r := o.newRun(entities.ImportKindDatabase, id, skip)
	record := o.begin(ctx, r)
	err := o.importDatabase(ctx, r, id)
	o.finish(record, r, err)
	if err != nil {
		return r.result, err
	}
	return r.result, nil
}

// ImportPage imports one page and its block tree.
func (o *Orchestrator) ImportPage(ctx context.Context, input string, skip bool) (*Result, error) {
	id, ok := ids.Extract(input)
	if !ok {
		return nil, ErrInvalidIdentifier
	}

	r := o.newRun(entities.ImportKindPage, id, skip)
	record := o.begin(ctx, r)
	title, err := o.importPage(ctx, r, id)
	r.result.Title = title
	if err == nil {
		r.result.Pages = 1
	}
	o.finish(record, r, err)
	if err != nil {
		return r.result, err
	}
	return r.result, nil
}

func (o *Orchestrator) importDatabase(ctx context.Context, r *run, id string) error {
	db, hit, err := fetchObject(ctx, o, r, cache.GetDatabase, id, r.client.RetrieveDatabase)
	if err != nil {
		return err
	}
	r.result.Title = db.DisplayTitle()
	if err := o.pause(ctx, hit, true); err != nil {
		return err
	}

	pages, hit, err := o.queryDatabase(ctx, r, id)
	if err != nil {
		return err
	}
	if err := o.pause(ctx, hit, false); err != nil {
		return err
	}

	for _, page := range pages {
		if _, err := o.importPage(ctx, r, ids.Undash(page.ID)); err != nil {
			return err
		}
		r.result.Pages++
	}
	return nil
}

func (o *Orchestrator) queryDatabase(ctx context.Context, r *run, id string) ([]notion.Object, bool, error) {
	pages, artifact := cache.Load[[]notion.Object](o.store, cache.QueryDatabase, id, r.skip)
	o.lookup(r, cache.QueryDatabase, artifact)

	if !artifact.Hit {
		var err error
		pages, err = fetcher.Paginate(ctx, o.pageOptions(),
			func(ctx context.Context, cursor string) (fetcher.Page[notion.Object], error) {
				list, err := r.client.QueryDatabase(ctx, id, cursor)
				if err != nil {
					return fetcher.Page[notion.Object]{}, err
				}
				return fetcher.Page[notion.Object]{Items: list.Results, HasMore: list.HasMore, NextCursor: list.Cursor()}, nil
			},
			func(items []notion.Object, hasMore bool) {
				o.report(Event{Op: cache.QueryDatabase, ID: id, Progress: true, Items: len(items), HasMore: hasMore})
			})
		if err != nil {
			return nil, false, err
		}
		if err := o.persist(r, artifact.Path, pages); err != nil {
			return nil, false, err
		}
	}

	o.report(Event{Op: cache.QueryDatabase, ID: id, Path: artifact.Path, Hit: artifact.Hit, Items: len(pages)})
	return pages, artifact.Hit, nil
}

func (o *Orchestrator) importPage(ctx context.Context, r *run, id string) (string, error) {
	page, hit, err := fetchObject(ctx, o, r, cache.GetPage, id, r.client.RetrievePage)
	if err != nil {
		return "", err
	}
	title := page.DisplayTitle()
	if err := o.pause(ctx, hit, true); err != nil {
		return title, err
	}

	blocks, artifact := cache.Load[[]notion.Block](o.store, cache.GetBlocks, id, r.skip)
	o.lookup(r, cache.GetBlocks, artifact)
	if !artifact.Hit {
		blocks, err = r.blocks.Children(ctx, id, r.memo)
		if err != nil {
			return title, err
		}
		if blocks == nil {
			blocks = []notion.Block{}
		}
		if err := o.persist(r, artifact.Path, blocks); err != nil {
			return title, err
		}
	}

	o.report(Event{Op: cache.GetBlocks, ID: id, Title: title, Path: artifact.Path, Hit: artifact.Hit, Items: len(blocks)})
	return title, o.pause(ctx, artifact.Hit, false)
}

// fetchObject loads a page or database from the cache or, on a miss, from
// the API, persisting the live result.
func fetchObject(ctx context.Context, o *Orchestrator, r *run, op cache.Operation, id string,
	retrieve func(context.Context, string) (notion.Object, error)) (notion.Object, bool, error) {
	obj, artifact := cache.Load[notion.Object](o.store, op, id, r.skip)
	o.lookup(r, op, artifact)

	if !artifact.Hit {
		var err error
		obj, err = retrieve(ctx, id)
		if err != nil {
			return notion.Object{}, false, err
		}
		if err := o.persist(r, artifact.Path, obj); err != nil {
			return notion.Object{}, false, err
		}
	}

	o.report(Event{Op: op, ID: id, Title: obj.DisplayTitle(), Path: artifact.Path, Hit: artifact.Hit})
	return obj, artifact.Hit, nil
}

// pause applies the secondary throttle: after any cache hit, and after
// live retrievals of databases and pages.
func (o *Orchestrator) pause(ctx context.Context, hit, retrieval bool) error {
	switch {
	case hit:
		return o.throttle.wait(ctx, o.throttle.CacheHitDelay)
	case retrieval:
		return o.throttle.wait(ctx, o.throttle.LiveFetchDelay)
	default:
		return ctx.Err()
	}
}

func (o *Orchestrator) lookup(r *run, op cache.Operation, artifact cache.Artifact) {
	if artifact.Hit {
		r.result.CacheHits++
	}
	if artifact.Skip {
		o.metrics.CacheLookup(string(op), artifact.Hit)
	}
}

func (o *Orchestrator) persist(r *run, path string, v any) error {
	if err := o.store.Persist(path, v); err != nil {
		o.logger.Error("failed to persist artifact", zap.String("path", path), zap.Error(err))
		return err
	}
	r.result.Artifacts = append(r.result.Artifacts, path)
	return nil
}

func (o *Orchestrator) report(e Event) {
	if o.reporter != nil {
		o.reporter.Report(e)
	}
}

type taskIDKey struct{}

// WithTaskID marks imports run under ctx as executed by a queued task.
func WithTaskID(ctx context.Context, taskID string) context.Context {
	return context.WithValue(ctx, taskIDKey{}, taskID)
}

func taskIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(taskIDKey{}).(string)
	return id
}

func (o *Orchestrator) begin(ctx context.Context, r *run) *entities.ImportRun {
	if o.recorder == nil {
		return nil
	}
	record := &entities.ImportRun{
		Kind:      r.result.Kind,
		Target:    r.result.ID,
		Status:    entities.ImportStatusRunning,
		Skip:      r.skip,
		TaskID:    taskIDFrom(ctx),
		StartedAt: time.Now(),
	}
	if err := o.recorder.CreateImportRun(record); err != nil {
		o.logger.Warn("failed to record import start", zap.String("id", r.result.ID), zap.Error(err))
		return nil
	}
	return record
}

func (o *Orchestrator) finish(record *entities.ImportRun, r *run, err error) {
	r.result.LiveCalls = r.client.calls

	fields := []zap.Field{
		zap.String("kind", string(r.result.Kind)),
		zap.String("id", r.result.ID),
		zap.Int("pages", r.result.Pages),
		zap.Int("live_calls", r.result.LiveCalls),
		zap.Int("cache_hits", r.result.CacheHits),
	}
	if err != nil {
		o.logger.Error("import failed", append(fields, zap.Error(err))...)
	} else {
		o.logger.Info("import completed", fields...)
	}

	if record == nil {
		return
	}
	now := time.Now()
	record.Title = r.result.Title
	record.Pages = r.result.Pages
	record.LiveCalls = r.result.LiveCalls
	record.CacheHits = r.result.CacheHits
	record.CompletedAt = &now
	record.Status = entities.ImportStatusCompleted
	if err != nil {
		record.Status = entities.ImportStatusFailed
		record.Error = err.Error()
	}
	if uerr := o.recorder.UpdateImportRun(record); uerr != nil {
		o.logger.Warn("failed to record import result", zap.String("id", r.result.ID), zap.Error(uerr))
	}
}
