package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/journo/internal/database/runs"
	"github.com/mrlokans/journo/internal/entities"
	"github.com/mrlokans/journo/internal/importers"
	"github.com/mrlokans/journo/internal/tasks"
)

// ImportQueue enqueues import tasks for the workers.
type ImportQueue interface {
	EnqueueImports(imports ...tasks.ImportTask) ([]string, error)
}

// RunLister reads the import history.
type RunLister interface {
	List(limit int) ([]entities.ImportRun, error)
}

type ImportsController struct {
	queue  ImportQueue
	runs   RunLister
	logger *zap.Logger
}

func NewImportsController(queue ImportQueue, runs RunLister, logger *zap.Logger) *ImportsController {
	return &ImportsController{queue: queue, runs: runs, logger: logger}
}

type ImportRequest struct {
	Kind   entities.ImportKind `json:"kind" binding:"required"`
	Target string              `json:"target" binding:"required"`
	Skip   bool                `json:"skip"`
}

type ImportAccepted struct {
	TaskID    string `json:"task_id"`
	RequestID string `json:"request_id"`
}

// Enqueue handles POST /api/imports.
func (ic *ImportsController) Enqueue(c *gin.Context) {
	var req ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request: "+err.Error())
		return
	}

	task, err := tasks.NewImportTask(req.Kind, req.Target, req.Skip)
	if err != nil {
		if errors.Is(err, tasks.ErrUnsupportedKind) || errors.Is(err, importers.ErrInvalidIdentifier) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, ic.logger, err, "build import task")
		return
	}

	taskIDs, err := ic.queue.EnqueueImports(task)
	if err != nil || len(taskIDs) == 0 {
		if err == nil {
			err = errors.New("no task id returned")
		}
		respondInternalError(c, ic.logger, err, "enqueue import")
		return
	}

	ic.logger.Info("import enqueued",
		zap.String("kind", string(task.Kind)),
		zap.String("target", task.Target),
		zap.String("task_id", taskIDs[0]),
	)
	respondAccepted(c, "import enqueued", ImportAccepted{TaskID: taskIDs[0], RequestID: task.RequestID})
}

// History handles GET /api/imports.
func (ic *ImportsController) History(c *gin.Context) {
	limit, ok := parseLimit(c, runs.DefaultLimit)
	if !ok {
		return
	}
	list, err := ic.runs.List(limit)
	if err != nil {
		respondInternalError(c, ic.logger, err, "list import runs")
		return
	}
	if list == nil {
		list = []entities.ImportRun{}
	}
	c.JSON(http.StatusOK, list)
}
