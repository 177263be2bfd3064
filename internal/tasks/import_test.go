package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/journo/internal/entities"
	"github.com/mrlokans/journo/internal/importers"
)

const testID = "1429989fe8ac4effbc8f57f56486db54"

type call struct {
	kind string
	id   string
	skip bool
}

type fakeImporter struct {
	calls    []call
	err      error
	deadline bool
}

func (f *fakeImporter) record(ctx context.Context, kind, input string, skip bool) (*importers.Result, error) {
	f.calls = append(f.calls, call{kind: kind, id: input, skip: skip})
	_, f.deadline = ctx.Deadline()
	if f.err != nil {
		return nil, f.err
	}
	return &importers.Result{ID: input, Title: "Journal", Pages: 2}, nil
}

func (f *fakeImporter) ImportDatabase(ctx context.Context, input string, skip bool) (*importers.Result, error) {
	return f.record(ctx, "database", input, skip)
}

func (f *fakeImporter) ImportPage(ctx context.Context, input string, skip bool) (*importers.Result, error) {
	return f.record(ctx, "page", input, skip)
}

func factoryFor(imp Importer) ImporterFactory {
	return func() (Importer, error) { return imp, nil }
}

func TestNewImportTask(t *testing.T) {
	task, err := NewImportTask(entities.ImportKindDatabase, "https://www.notion.so/Journal-"+testID, true)
	require.NoError(t, err)
	assert.Equal(t, entities.ImportKindDatabase, task.Kind)
	assert.True(t, task.Skip)
	assert.NotEmpty(t, task.RequestID)

	other, err := NewImportTask(entities.ImportKindPage, testID, false)
	require.NoError(t, err)
	assert.NotEqual(t, task.RequestID, other.RequestID)

	_, err = NewImportTask(entities.ImportKindFile, testID, false)
	assert.ErrorIs(t, err, ErrUnsupportedKind)

	_, err = NewImportTask(entities.ImportKindPage, "not an id", false)
	assert.ErrorIs(t, err, importers.ErrInvalidIdentifier)
}

func TestImportTaskConfig(t *testing.T) {
	cfg := ImportTask{}.Config()

	assert.Equal(t, ImportQueueName, cfg.Name)
	assert.Equal(t, 1, cfg.MaxAttempts)
	assert.Equal(t, 30*time.Minute, cfg.Timeout)
	require.NotNil(t, cfg.Retention)
}

func TestNewImportQueue_Timeout(t *testing.T) {
	q := NewImportQueue(nil, 2*time.Hour, nil)
	assert.Equal(t, ImportQueueName, q.Config().Name)
	assert.Equal(t, 2*time.Hour, q.Config().Timeout)

	q = NewImportQueue(nil, 0, nil)
	assert.Equal(t, 30*time.Minute, q.Config().Timeout)

	// Each queue owns its config; the task default is untouched.
	assert.Equal(t, 30*time.Minute, ImportTask{}.Config().Timeout)
}

func TestImportProcessor(t *testing.T) {
	t.Run("dispatches by kind", func(t *testing.T) {
		imp := &fakeImporter{}
		process := ImportProcessor(factoryFor(imp), time.Minute, nil)

		require.NoError(t, process(context.Background(), ImportTask{Kind: entities.ImportKindDatabase, Target: testID, Skip: true}))
		require.NoError(t, process(context.Background(), ImportTask{Kind: entities.ImportKindPage, Target: testID}))

		assert.Equal(t, []call{
			{kind: "database", id: testID, skip: true},
			{kind: "page", id: testID, skip: false},
		}, imp.calls)
		assert.True(t, imp.deadline)
	})

	t.Run("no timeout", func(t *testing.T) {
		imp := &fakeImporter{}
		require.NoError(t, ImportProcessor(factoryFor(imp), 0, nil)(context.Background(), ImportTask{Kind: entities.ImportKindPage, Target: testID}))
		assert.False(t, imp.deadline)
	})

	t.Run("import failure", func(t *testing.T) {
		imp := &fakeImporter{err: errors.New("boom")}
		err := ImportProcessor(factoryFor(imp), 0, nil)(context.Background(), ImportTask{Kind: entities.ImportKindPage, Target: testID})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("factory failure", func(t *testing.T) {
		factory := func() (Importer, error) { return nil, importers.ErrMissingCredential }
		err := ImportProcessor(factory, 0, nil)(context.Background(), ImportTask{Kind: entities.ImportKindPage, Target: testID})
		assert.ErrorIs(t, err, importers.ErrMissingCredential)
	})

	t.Run("unknown kind", func(t *testing.T) {
		imp := &fakeImporter{}
		err := ImportProcessor(factoryFor(imp), 0, nil)(context.Background(), ImportTask{Kind: "notebook", Target: testID})
		assert.ErrorIs(t, err, ErrUnsupportedKind)
		assert.Empty(t, imp.calls)
	})

	t.Run("nil factory", func(t *testing.T) {
		assert.Error(t, ImportProcessor(nil, 0, nil)(context.Background(), ImportTask{}))
	})
}

type fakeCleaner struct {
	retention time.Duration
}

func (f *fakeCleaner) DeleteOlderThan(retention time.Duration) (int64, error) {
	f.retention = retention
	return 3, nil
}

func TestCleanupImportRunsProcessor(t *testing.T) {
	cleaner := &fakeCleaner{}
	process := CleanupImportRunsProcessor(cleaner, nil)

	require.NoError(t, process(context.Background(), CleanupImportRunsTask{}))
	assert.Equal(t, 90*24*time.Hour, cleaner.retention)

	require.NoError(t, process(context.Background(), CleanupImportRunsTask{RetentionDays: 7}))
	assert.Equal(t, 7*24*time.Hour, cleaner.retention)

	assert.Error(t, CleanupImportRunsProcessor(nil, nil)(context.Background(), CleanupImportRunsTask{}))
	assert.Equal(t, "cleanup_import_runs", CleanupImportRunsTask{}.Config().Name)
}
