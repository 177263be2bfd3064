package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/journo/internal/logging"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) *gin.Engine {
	logger := logging.OrNop(cfg.Logger).Named("http")

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(logger))
	if cfg.Metrics != nil {
		router.Use(Metrics(cfg.Metrics))
	}

	health := NewHealthController(cfg.Database, cfg.Store, cfg.Workers, cfg.Version)
	router.GET("/health", health.Status)
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	if cfg.Metrics != nil {
		router.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	api := router.Group("/api")

	if cfg.Store != nil || cfg.Snapshots != nil {
		thoughtsController := NewThoughtsController(cfg.Store, cfg.Snapshots, cfg.Metrics, logger)
		api.GET("/thoughts", thoughtsController.List)
	}

	imports := NewImportsController(cfg.Queue, cfg.Runs, logger)
	if cfg.Queue != nil {
		api.POST("/imports", imports.Enqueue)
	}
	if cfg.Runs != nil {
		api.GET("/imports", imports.History)
	}

	if cfg.Tasks != nil {
		tasksController := NewTasksController(cfg.Tasks, logger)
		api.GET("/tasks/:id", tasksController.GetTaskStatus)
	}

	return router
}
