package http

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/journo/internal/cache"
	"github.com/mrlokans/journo/internal/database"
)

// WorkerState reports whether the task workers are processing imports.
type WorkerState interface {
	IsRunning() bool
}

type HealthResponse struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

// HealthController checks the history database and the artifact cache, and
// reports the worker state. A stopped queue is reported but does not make
// the service unhealthy: the API still serves cached thoughts.
type HealthController struct {
	db      *database.Database
	store   *cache.Store
	workers WorkerState
	version string
}

func NewHealthController(db *database.Database, store *cache.Store, workers WorkerState, version string) *HealthController {
	return &HealthController{
		db:      db,
		store:   store,
		workers: workers,
		version: version,
	}
}

func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	healthy := true

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			checks["database"] = "error: " + err.Error()
			healthy = false
		} else {
			checks["database"] = "ok"
		}
	} else {
		checks["database"] = "not configured"
	}

	if h.store != nil {
		if err := checkWritable(h.store.Dir()); err != nil {
			checks["import_folder"] = "error: " + err.Error()
			healthy = false
		} else {
			checks["import_folder"] = "ok"
		}
	} else {
		checks["import_folder"] = "not configured"
	}

	switch {
	case h.workers == nil:
		checks["task_queue"] = "not configured"
	case h.workers.IsRunning():
		checks["task_queue"] = "running"
	default:
		checks["task_queue"] = "stopped"
	}

	status, statusCode := "healthy", http.StatusOK
	if !healthy {
		status, statusCode = "unhealthy", http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, HealthResponse{
		Status:  status,
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	})
}

// checkWritable creates and removes a hidden probe file, the same way the
// cache stages artifacts before renaming them into place.
func checkWritable(dir string) error {
	f, err := os.CreateTemp(dir, ".health-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
