package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"hopgraph.app/api/internal/http/dto"
	"hopgraph.app/api/internal/service"
	"hopgraph.app/api/internal/store"
)

type PathHandler struct {
	pathService service.PathService
}

func NewPathHandler(pathService service.PathService) *PathHandler {
	return &PathHandler{pathService: pathService}
}

// Find answers a path query synchronously.
func (h *PathHandler) Find(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.FindPathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.pathService.FindPath(ctx, req.FromNode, req.ToNode)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to find path"})
		return
	}

	c.JSON(http.StatusOK, dto.FindPathResponse{
		FromNode:   req.FromNode,
		ToNode:     req.ToNode,
		PathExists: result.Found,
		Path:       result.Path,
	})
}

// SlowFind registers the same query as an asynchronous job.
func (h *PathHandler) SlowFind(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.FindPathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := h.pathService.SubmitFindPath(ctx, req.FromNode, req.ToNode)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit path query"})
		return
	}

	c.JSON(http.StatusAccepted, service.Project(job))
}

// Result reports the current status of a submitted job. Unready jobs poll
// as 200 + PENDING; only unknown ids are 404.
func (h *PathHandler) Result(c *gin.Context) {
	ctx := c.Request.Context()

	jobID, err := strconv.ParseInt(c.Param("job_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
		return
	}

	job, err := h.pathService.GetJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load job"})
		return
	}

	c.JSON(http.StatusOK, service.Project(job))
}
