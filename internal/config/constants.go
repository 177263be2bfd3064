package config

import "time"

const (
	// DefaultEnvFile is read from the working directory unless --env-file is given.
	DefaultEnvFile = ".env"

	DefaultDataFolder   = "./data"
	DefaultDatabasePath = "./data/journo.db"

	// ImportsDir is the artifact cache directory inside the data folder.
	ImportsDir = "imports"

	DefaultNotionBaseURL = "https://api.notion.com"
	DefaultNotionVersion = "2022-06-28"
	DefaultNotionTimeout = 30 * time.Second

	DefaultPageDelay      = 500 * time.Millisecond
	DefaultCacheHitDelay  = 100 * time.Millisecond
	DefaultLiveFetchDelay = 250 * time.Millisecond

	DefaultSyncSchedule = "0 */6 * * *"

	// DefaultRunRetention is how long import history is kept by serve.
	DefaultRunRetention = 90 * 24 * time.Hour

	// APIKeyVar is the key written by SaveAPIKey.
	APIKeyVar = "NOTION_API_KEY"
)
