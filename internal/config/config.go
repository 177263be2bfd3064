package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type (
	Config struct {
		Notion
		Data
		Throttle
		Database
		HTTP
		Sync
		Tasks
		Log
		Global
	}

	Notion struct {
		APIKey  string
		BaseURL string
		Version string
		Timeout time.Duration
	}
	Data struct {
		Folder string
	}
	Throttle struct {
		PageDelay      time.Duration
		CacheHitDelay  time.Duration
		LiveFetchDelay time.Duration
	}
	Database struct {
		Path string
	}
	HTTP struct {
		Port int32
		Host string
	}
	Sync struct {
		Enabled   bool
		Schedule  string // Cron format: "0 */6 * * *" = every 6 hours
		Databases []string
		Pages     []string
		Skip      bool
	}
	Tasks struct {
		Workers         int
		TaskTimeout     time.Duration
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
		RunRetention    time.Duration
	}
	Log struct {
		Level       string
		Development bool
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
)

// ImportFolder is where import artifacts are cached.
func (d Data) ImportFolder() string {
	return filepath.Join(d.Folder, ImportsDir)
}

// NewConfig builds the configuration from the environment and envFile.
// Environment variables win over the file. A missing file is not an error.
func NewConfig(envFile string) (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("notion_api_key", "")
	v.SetDefault("notion_base_url", DefaultNotionBaseURL)
	v.SetDefault("notion_version", DefaultNotionVersion)
	v.SetDefault("notion_timeout", DefaultNotionTimeout.String())
	v.SetDefault("data_folder", DefaultDataFolder)
	v.SetDefault("page_delay", DefaultPageDelay.String())
	v.SetDefault("cache_hit_delay", DefaultCacheHitDelay.String())
	v.SetDefault("live_fetch_delay", DefaultLiveFetchDelay.String())
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("port", 8189)
	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("shutdown_timeout_in_seconds", 5)
	v.SetDefault("sync_enabled", false)
	v.SetDefault("sync_schedule", DefaultSyncSchedule)
	v.SetDefault("sync_databases", "")
	v.SetDefault("sync_pages", "")
	v.SetDefault("sync_skip", true)
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_development", false)

	// One worker keeps imports sequential.
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_timeout", "30m")
	v.SetDefault("task_release_after", "1h")
	v.SetDefault("task_cleanup_interval", "1h")
	v.SetDefault("run_retention", DefaultRunRetention.String())

	if envFile != "" {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", envFile, err)
		}
	}

	return &Config{
		Notion: Notion{
			APIKey:  strings.TrimSpace(v.GetString("NOTION_API_KEY")),
			BaseURL: v.GetString("NOTION_BASE_URL"),
			Version: v.GetString("NOTION_VERSION"),
			Timeout: v.GetDuration("NOTION_TIMEOUT"),
		},
		Data: Data{
			Folder: v.GetString("DATA_FOLDER"),
		},
		Throttle: Throttle{
			PageDelay:      v.GetDuration("PAGE_DELAY"),
			CacheHitDelay:  v.GetDuration("CACHE_HIT_DELAY"),
			LiveFetchDelay: v.GetDuration("LIVE_FETCH_DELAY"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Sync: Sync{
			Enabled:   v.GetBool("SYNC_ENABLED"),
			Schedule:  v.GetString("SYNC_SCHEDULE"),
			Databases: splitList(v.GetString("SYNC_DATABASES")),
			Pages:     splitList(v.GetString("SYNC_PAGES")),
			Skip:      v.GetBool("SYNC_SKIP"),
		},
		Tasks: Tasks{
			Workers:         v.GetInt("TASK_WORKERS"),
			TaskTimeout:     v.GetDuration("TASK_TIMEOUT"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
			RunRetention:    v.GetDuration("RUN_RETENTION"),
		},
		Log: Log{
			Level:       v.GetString("LOG_LEVEL"),
			Development: v.GetBool("LOG_DEVELOPMENT"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
	}, nil
}

// SaveAPIKey stores the Notion API key in envFile, keeping any other
// variables already there.
func SaveAPIKey(envFile, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return errors.New("API key is empty")
	}

	v := viper.New()
	v.SetConfigFile(envFile)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read %s: %w", envFile, err)
	}

	v.Set(APIKeyVar, key)
	if err := v.WriteConfigAs(envFile); err != nil {
		return fmt.Errorf("write %s: %w", envFile, err)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
