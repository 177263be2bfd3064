package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/journo/internal/config"
	"github.com/mrlokans/journo/internal/entities"
	"github.com/mrlokans/journo/internal/tasks"
)

const (
	dbID   = "1429989fe8ac4effbc8f57f56486db54"
	pageID = "2429989fe8ac4effbc8f57f56486db54"
)

type fakeEnqueuer struct {
	mu    sync.Mutex
	tasks []tasks.ImportTask
	err   error
}

func (f *fakeEnqueuer) EnqueueImports(imports ...tasks.ImportTask) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.tasks = append(f.tasks, imports...)
	out := make([]string, len(imports))
	for i := range imports {
		out[i] = "task-" + imports[i].Target
	}
	return out, nil
}

func syncConfig() config.Sync {
	return config.Sync{
		Enabled:   true,
		Schedule:  "0 */6 * * *",
		Databases: []string{dbID, "garbage"},
		Pages:     []string{"https://www.notion.so/Day-" + pageID},
		Skip:      true,
	}
}

func TestImportSyncScheduler_RunNow(t *testing.T) {
	enq := &fakeEnqueuer{}
	s := NewImportSyncScheduler(syncConfig(), enq, nil)

	taskIDs, err := s.RunNow()
	require.NoError(t, err)
	assert.Len(t, taskIDs, 2)

	require.Len(t, enq.tasks, 2)
	assert.Equal(t, entities.ImportKindDatabase, enq.tasks[0].Kind)
	assert.Equal(t, dbID, enq.tasks[0].Target)
	assert.True(t, enq.tasks[0].Skip)
	assert.Equal(t, entities.ImportKindPage, enq.tasks[1].Kind)
	assert.NotEmpty(t, enq.tasks[1].RequestID)
}

func TestImportSyncScheduler_RunNowErrors(t *testing.T) {
	t.Run("no valid targets", func(t *testing.T) {
		cfg := syncConfig()
		cfg.Databases = []string{"garbage"}
		cfg.Pages = nil

		_, err := NewImportSyncScheduler(cfg, &fakeEnqueuer{}, nil).RunNow()
		assert.ErrorIs(t, err, ErrNoTargets)
	})

	t.Run("enqueue failure", func(t *testing.T) {
		enq := &fakeEnqueuer{err: errors.New("queue closed")}
		_, err := NewImportSyncScheduler(syncConfig(), enq, nil).RunNow()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "queue closed")
	})
}

func TestImportSyncScheduler_StartStop(t *testing.T) {
	s := NewImportSyncScheduler(syncConfig(), &fakeEnqueuer{}, nil)

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())

	next := s.GetNextRunTime()
	require.NotNil(t, next)
	assert.True(t, next.After(time.Now()))

	require.NoError(t, s.Start(context.Background()), "second start is a no-op")

	s.Stop()
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.GetNextRunTime())
}

func TestImportSyncScheduler_StopsOnCancel(t *testing.T) {
	s := NewImportSyncScheduler(syncConfig(), &fakeEnqueuer{}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, s.Start(ctx))
	cancel()

	assert.Eventually(t, func() bool { return !s.IsRunning() }, time.Second, 10*time.Millisecond)
}

func TestImportSyncScheduler_StartErrors(t *testing.T) {
	cfg := syncConfig()
	cfg.Schedule = "every tuesday"
	assert.Error(t, NewImportSyncScheduler(cfg, &fakeEnqueuer{}, nil).Start(context.Background()))

	cfg = syncConfig()
	cfg.Databases, cfg.Pages = nil, nil
	assert.ErrorIs(t, NewImportSyncScheduler(cfg, &fakeEnqueuer{}, nil).Start(context.Background()), ErrNoTargets)
}

func TestScheduleHelpers(t *testing.T) {
	assert.NoError(t, ValidateSchedule("*/15 * * * *"))
	assert.Error(t, ValidateSchedule("* * * * * *"))

	assert.Equal(t, "Every 6 hours", Describe("0 */6 * * *"))
	assert.Equal(t, "Custom schedule: 5 4 * * *", Describe("5 4 * * *"))

	from := time.Date(2024, 1, 1, 1, 30, 0, 0, time.Local)
	next, err := NextRunTime("0 */6 * * *", from)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 1, 6, 0, 0, 0, time.Local), next)
}
