package runs

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/journo/internal/entities"
)

func setupTestDB(t *testing.T) *Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "runs.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&entities.ImportRun{}))

	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		sqlDB.Close()
	})
	return NewRepository(db)
}

func newRun(target string, startedAt time.Time) *entities.ImportRun {
	return &entities.ImportRun{
		Kind:      entities.ImportKindDatabase,
		Target:    target,
		Status:    entities.ImportStatusRunning,
		StartedAt: startedAt,
	}
}

func TestRepository_CreateAndUpdate(t *testing.T) {
	repo := setupTestDB(t)

	run := newRun("db1", time.Now())
	require.NoError(t, repo.CreateImportRun(run))
	require.NotZero(t, run.ID)

	done := time.Now()
	run.Status = entities.ImportStatusCompleted
	run.Pages = 2
	run.LiveCalls = 7
	run.CompletedAt = &done
	require.NoError(t, repo.UpdateImportRun(run))

	got, err := repo.GetImportRun(run.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.ImportStatusCompleted, got.Status)
	assert.Equal(t, 2, got.Pages)
	assert.Equal(t, 7, got.LiveCalls)
	require.NotNil(t, got.CompletedAt)
}

func TestRepository_GetImportRun_NotFound(t *testing.T) {
	repo := setupTestDB(t)

	_, err := repo.GetImportRun(42)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepository_List(t *testing.T) {
	repo := setupTestDB(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, target := range []string{"a", "b", "c"} {
		require.NoError(t, repo.CreateImportRun(newRun(target, base.Add(time.Duration(i)*time.Hour))))
	}

	runs, err := repo.List(0)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "c", runs[0].Target)
	assert.Equal(t, "a", runs[2].Target)

	runs, err = repo.List(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].Target)
	assert.Equal(t, "b", runs[1].Target)
}

func TestRepository_LastCompleted(t *testing.T) {
	repo := setupTestDB(t)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	got, err := repo.LastCompleted("db1")
	require.NoError(t, err)
	assert.Nil(t, got)

	first := newRun("db1", base)
	first.Status = entities.ImportStatusCompleted
	require.NoError(t, repo.CreateImportRun(first))

	failed := newRun("db1", base.Add(time.Hour))
	failed.Status = entities.ImportStatusFailed
	require.NoError(t, repo.CreateImportRun(failed))

	got, err = repo.LastCompleted("db1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, first.ID, got.ID)
}

func TestRepository_DeleteOlderThan(t *testing.T) {
	repo := setupTestDB(t)

	require.NoError(t, repo.CreateImportRun(newRun("old", time.Now().Add(-48*time.Hour))))
	require.NoError(t, repo.CreateImportRun(newRun("new", time.Now())))

	deleted, err := repo.DeleteOlderThan(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	runs, err := repo.List(0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "new", runs[0].Target)
}
