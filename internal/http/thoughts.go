package http

import (
	"net/http"
	"regexp"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/journo/internal/cache"
	"github.com/mrlokans/journo/internal/entities"
	"github.com/mrlokans/journo/internal/metrics"
	"github.com/mrlokans/journo/internal/segment"
	"github.com/mrlokans/journo/internal/thoughts"
)

// SnapshotReader returns the last exported thought corpus.
type SnapshotReader interface {
	List() ([]entities.Thought, error)
}

type ThoughtsController struct {
	store     *cache.Store
	snapshots SnapshotReader
	metrics   *metrics.Collector
	logger    *zap.Logger
}

func NewThoughtsController(store *cache.Store, snapshots SnapshotReader, collector *metrics.Collector, logger *zap.Logger) *ThoughtsController {
	return &ThoughtsController{store: store, snapshots: snapshots, metrics: collector, logger: logger}
}

// List handles GET /api/thoughts.
//
// Query parameters: mode (sentences|words|blocks), order (abc|random),
// regex, dedupe, filter_short, and source=snapshot to read the stored export instead
// of the artifact cache.
func (tc *ThoughtsController) List(c *gin.Context) {
	mode, err := segment.ParseMode(c.Query("mode"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	order, err := thoughts.ParseOrder(c.Query("order"))
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}
	dedupe, ok := parseBoolQuery(c, "dedupe")
	if !ok {
		return
	}
	filterShort, ok := parseBoolQuery(c, "filter_short")
	if !ok {
		return
	}
	pattern := c.Query("regex")
	if _, err := regexp.Compile(pattern); err != nil {
		respondBadRequest(c, "invalid regex: "+err.Error())
		return
	}

	var corpus []entities.Thought
	switch c.Query("source") {
	case "", "cache":
		if tc.store == nil {
			respondNotFound(c, "artifact cache")
			return
		}
		corpus, err = thoughts.Load(tc.store, mode)
	case "snapshot":
		if tc.snapshots == nil {
			respondNotFound(c, "thought snapshot")
			return
		}
		corpus, err = tc.snapshots.List()
	default:
		respondBadRequest(c, "invalid source")
		return
	}
	if err != nil {
		respondInternalError(c, tc.logger, err, "load thoughts")
		return
	}

	out, err := thoughts.Process(corpus, thoughts.Options{
		FilterShort: filterShort,
		Order:       order,
		Pattern:     pattern,
		Dedupe:      dedupe,
	})
	if err != nil {
		respondInternalError(c, tc.logger, err, "process thoughts")
		return
	}

	if tc.metrics != nil {
		tc.metrics.AddThoughts(mode.String(), len(out))
	}
	if out == nil {
		out = []entities.Thought{}
	}
	c.JSON(http.StatusOK, out)
}
