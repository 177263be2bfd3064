// Package entrypoint wires the long-running modes: the HTTP server and the
// foreground sync loop.
package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mrlokans/journo/internal/cache"
	"github.com/mrlokans/journo/internal/config"
	"github.com/mrlokans/journo/internal/database"
	"github.com/mrlokans/journo/internal/database/runs"
	"github.com/mrlokans/journo/internal/database/snapshots"
	http_controllers "github.com/mrlokans/journo/internal/http"
	"github.com/mrlokans/journo/internal/importers"
	"github.com/mrlokans/journo/internal/logging"
	"github.com/mrlokans/journo/internal/metrics"
	"github.com/mrlokans/journo/internal/notion"
	"github.com/mrlokans/journo/internal/scheduler"
	"github.com/mrlokans/journo/internal/tasks"
)

// CheckCredential reports whether cfg can build a Notion client, without
// touching the cache or the database. It fails with
// importers.ErrMissingCredential when no key is configured and with
// notion.ErrInvalidCredential when the client cannot be built.
func CheckCredential(cfg *config.Config) error {
	_, err := newClient(cfg)
	return err
}

func newClient(cfg *config.Config) (*notion.Client, error) {
	if cfg.Notion.APIKey == "" {
		return nil, importers.ErrMissingCredential
	}
	return notion.NewClient(notion.Config{
		APIKey:  cfg.Notion.APIKey,
		BaseURL: cfg.Notion.BaseURL,
		Version: cfg.Notion.Version,
		Timeout: cfg.Notion.Timeout,
	})
}

// NewImporter builds an orchestrator from cfg. Credential errors are the
// ones CheckCredential returns.
func NewImporter(cfg *config.Config, store *cache.Store, opts ...importers.Option) (*importers.Orchestrator, error) {
	client, err := newClient(cfg)
	if err != nil {
		return nil, err
	}
	throttle := importers.Throttle{
		PageDelay:      cfg.Throttle.PageDelay,
		CacheHitDelay:  cfg.Throttle.CacheHitDelay,
		LiveFetchDelay: cfg.Throttle.LiveFetchDelay,
	}
	return importers.NewOrchestrator(client, store, throttle, opts...), nil
}

// Services holds everything the long-running modes share.
type Services struct {
	Config    *config.Config
	Logger    *zap.Logger
	DB        *database.Database
	Store     *cache.Store
	Runs      *runs.Repository
	Snapshots *snapshots.Repository
	Metrics   *metrics.Collector
	Tasks     *tasks.Client
}

// Bootstrap opens the database, the artifact cache and the task queue, and
// registers the queues.
func Bootstrap(cfg *config.Config, logger *zap.Logger) (*Services, error) {
	logger = logging.OrNop(logger)

	db, err := database.NewDatabase(cfg.Database.Path, logger)
	if err != nil {
		return nil, err
	}

	store, err := cache.NewStore(cfg.Data.ImportFolder())
	if err != nil {
		db.Close()
		return nil, err
	}

	taskClient, err := tasks.NewClient(cfg.Database.Path, tasks.FromConfig(cfg.Tasks), logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	s := &Services{
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		Store:     store,
		Runs:      runs.NewRepository(db.DB),
		Snapshots: snapshots.NewRepository(db.DB),
		Metrics:   metrics.NewCollector(),
		Tasks:     taskClient,
	}

	taskClient.Register(
		tasks.NewImportQueue(s.ImporterFactory(), tasks.FromConfig(cfg.Tasks).TaskTimeout, logger),
		tasks.NewCleanupImportRunsQueue(s.Runs, logger),
	)
	return s, nil
}

// ImporterFactory builds a fresh orchestrator per task, recording runs and
// metrics.
func (s *Services) ImporterFactory() tasks.ImporterFactory {
	return func() (tasks.Importer, error) {
		return NewImporter(s.Config, s.Store,
			importers.WithRecorder(s.Runs),
			importers.WithMetrics(s.Metrics),
			importers.WithLogger(s.Logger.Named("import")),
		)
	}
}

func (s *Services) Close() {
	if err := s.Tasks.Close(); err != nil {
		s.Logger.Warn("error closing task client", zap.Error(err))
	}
	if err := s.DB.Close(); err != nil {
		s.Logger.Warn("error closing database", zap.Error(err))
	}
}

func (s *Services) shutdownTimeout() time.Duration {
	return time.Duration(s.Config.Global.ShutdownTimeoutInSeconds) * time.Second
}

// startTasks runs the workers until the returned stop func is called.
func (s *Services) startTasks(ctx context.Context) func() {
	taskCtx, cancel := context.WithCancel(ctx)
	go s.Tasks.Start(taskCtx)
	return func() {
		stopCtx, stopCancel := context.WithTimeout(context.Background(), s.shutdownTimeout())
		defer stopCancel()
		s.Tasks.Stop(stopCtx)
		cancel()
	}
}

// Serve runs the REST API, the task workers and, when enabled, the sync
// scheduler until ctx is cancelled.
func Serve(ctx context.Context, s *Services, version string) error {
	s.Logger.Info("starting journo server", zap.String("version", version))
	if s.Config.Notion.APIKey == "" {
		s.Logger.Warn("NOTION_API_KEY is not set, queued imports will fail until it is")
	}

	stopTasks := s.startTasks(ctx)
	defer stopTasks()

	if days := int(s.Config.Tasks.RunRetention.Hours() / 24); days > 0 {
		if _, err := s.Tasks.Add(tasks.CleanupImportRunsTask{RetentionDays: days}).Save(); err != nil {
			s.Logger.Warn("failed to enqueue import history cleanup", zap.Error(err))
		}
	}

	var sched *scheduler.ImportSyncScheduler
	if s.Config.Sync.Enabled {
		sched = scheduler.NewImportSyncScheduler(s.Config.Sync, s.Tasks, s.Logger)
		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("start sync scheduler: %w", err)
		}
		defer sched.Stop()
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:  s.DB,
		Store:     s.Store,
		Snapshots: s.Snapshots,
		Runs:      s.Runs,
		Queue:     s.Tasks,
		Tasks:     s.Tasks,
		Workers:   s.Tasks,
		Metrics:   s.Metrics,
		Logger:    s.Logger,
		Version:   version,
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", s.Config.HTTP.Host, s.Config.HTTP.Port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		s.Logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	timeout := s.shutdownTimeout()
	s.Logger.Info("shutting down server", zap.Duration("timeout", timeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}

// Sync runs the task workers and the sync scheduler in the foreground until
// ctx is cancelled. With now set, one round of imports is queued at once
// and its task IDs are passed to queued.
func Sync(ctx context.Context, s *Services, now bool, queued func(taskIDs []string)) error {
	sched := scheduler.NewImportSyncScheduler(s.Config.Sync, s.Tasks, s.Logger)

	stopTasks := s.startTasks(ctx)
	defer stopTasks()

	if err := sched.Start(ctx); err != nil {
		return err
	}
	defer sched.Stop()

	if now {
		taskIDs, err := sched.RunNow()
		if err != nil {
			return err
		}
		if queued != nil {
			queued(taskIDs)
		}
	}

	if next := sched.GetNextRunTime(); next != nil {
		s.Logger.Info("next sync", zap.Time("at", *next))
	}

	<-ctx.Done()
	return nil
}
