package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"NOTION_API_KEY", "DATA_FOLDER", "HOST", "PORT", "PAGE_DELAY",
		"SYNC_DATABASES", "SYNC_PAGES", "TASK_WORKERS", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestNewConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := NewConfig(filepath.Join(t.TempDir(), ".env"))
	require.NoError(t, err)

	assert.Equal(t, "", cfg.Notion.APIKey)
	assert.Equal(t, DefaultNotionBaseURL, cfg.Notion.BaseURL)
	assert.Equal(t, DefaultNotionVersion, cfg.Notion.Version)
	assert.Equal(t, 30*time.Second, cfg.Notion.Timeout)
	assert.Equal(t, DefaultDataFolder, cfg.Data.Folder)
	assert.Equal(t, filepath.Join(DefaultDataFolder, "imports"), cfg.Data.ImportFolder())
	assert.Equal(t, 500*time.Millisecond, cfg.Throttle.PageDelay)
	assert.Equal(t, 100*time.Millisecond, cfg.Throttle.CacheHitDelay)
	assert.Equal(t, 250*time.Millisecond, cfg.Throttle.LiveFetchDelay)
	assert.Equal(t, "127.0.0.1", cfg.HTTP.Host)
	assert.Equal(t, int32(8189), cfg.HTTP.Port)
	assert.Equal(t, DefaultSyncSchedule, cfg.Sync.Schedule)
	assert.Empty(t, cfg.Sync.Databases)
	assert.True(t, cfg.Sync.Skip)
	assert.Equal(t, 1, cfg.Tasks.Workers)
	assert.Equal(t, DefaultRunRetention, cfg.Tasks.RunRetention)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestNewConfig_EnvFileAndOverrides(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(strings.Join([]string{
		"NOTION_API_KEY=secret_from_file",
		"DATA_FOLDER=/srv/journo",
		"PAGE_DELAY=0",
		"SYNC_DATABASES=abc, def ,,",
	}, "\n")), 0644))

	t.Setenv("DATA_FOLDER", "/override")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := NewConfig(envFile)
	require.NoError(t, err)

	assert.Equal(t, "secret_from_file", cfg.Notion.APIKey)
	assert.Equal(t, "/override", cfg.Data.Folder)
	assert.Equal(t, time.Duration(0), cfg.Throttle.PageDelay)
	assert.Equal(t, []string{"abc", "def"}, cfg.Sync.Databases)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestNewConfig_NoEnvFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("NOTION_API_KEY", "secret_env")

	cfg, err := NewConfig("")
	require.NoError(t, err)
	assert.Equal(t, "secret_env", cfg.Notion.APIKey)
}

func TestSaveAPIKey(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), ".env")

	require.NoError(t, SaveAPIKey(envFile, "secret_one"))
	cfg, err := NewConfig(envFile)
	require.NoError(t, err)
	assert.Equal(t, "secret_one", cfg.Notion.APIKey)

	require.NoError(t, os.WriteFile(envFile, []byte("DATA_FOLDER=/keep/me\nNOTION_API_KEY=secret_one\n"), 0644))
	require.NoError(t, SaveAPIKey(envFile, "secret_two"))

	cfg, err = NewConfig(envFile)
	require.NoError(t, err)
	assert.Equal(t, "secret_two", cfg.Notion.APIKey)
	assert.Equal(t, "/keep/me", cfg.Data.Folder)

	data, err := os.ReadFile(envFile)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "NOTION_API_KEY="))
}

func TestSaveAPIKey_Empty(t *testing.T) {
	assert.Error(t, SaveAPIKey(filepath.Join(t.TempDir(), ".env"), "  "))
}
