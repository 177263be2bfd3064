package entities

import (
	"time"
)

type ImportKind string

const (
	ImportKindDatabase ImportKind = "database"
	ImportKindPage     ImportKind = "page"
	ImportKindFile     ImportKind = "file"
)

type ImportStatus string

const (
	ImportStatusRunning   ImportStatus = "running"
	ImportStatusCompleted ImportStatus = "completed"
	ImportStatusFailed    ImportStatus = "failed"
)

// ImportRun records one import-db, import-page or import invocation.
type ImportRun struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Kind        ImportKind   `gorm:"size:20;index" json:"kind"`
	Target      string       `gorm:"size:512;index" json:"target"`
	Title       string       `gorm:"size:512" json:"title,omitempty"`
	Status      ImportStatus `gorm:"size:20" json:"status"`
	Skip        bool         `json:"skip"`
	Pages       int          `json:"pages"`
	LiveCalls   int          `json:"live_calls"`
	CacheHits   int          `json:"cache_hits"`
	TaskID      string       `gorm:"size:64" json:"task_id,omitempty"`
	Error       string       `gorm:"type:text" json:"error,omitempty"`
	StartedAt   time.Time    `json:"started_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
}

func (ImportRun) TableName() string {
	return "import_runs"
}
