package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"

	"hopgraph.app/api/internal/http/dto"
	"hopgraph.app/api/internal/service"
	"hopgraph.app/api/internal/store"
)

type GraphHandler struct {
	graphService service.GraphService
}

func NewGraphHandler(graphService service.GraphService) *GraphHandler {
	return &GraphHandler{graphService: graphService}
}

func (h *GraphHandler) CreateNode(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.CreateNodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	node, err := h.graphService.CreateNode(ctx, req.Name)
	if err != nil {
		if isDuplicate(err, store.ErrDuplicateNode) {
			slog.InfoContext(ctx, "duplicate node creation attempted", "name", req.Name)
			c.JSON(http.StatusConflict, gin.H{"error": "node with this name already exists"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create node"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToNodeResponse(node))
}

func (h *GraphHandler) ListNodes(c *gin.Context) {
	ctx := c.Request.Context()

	nodes, err := h.graphService.ListNodes(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list nodes"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListNodesResponse(nodes))
}

func (h *GraphHandler) Connect(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.ConnectNodesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	edge, err := h.graphService.Connect(ctx, req.FromNode, req.ToNode)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrSelfLoop):
			c.JSON(http.StatusBadRequest, gin.H{"error": "a node cannot connect to itself"})
		case errors.Is(err, store.ErrNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case isDuplicate(err, store.ErrDuplicateEdge):
			slog.InfoContext(ctx, "duplicate edge creation attempted",
				"from_node", req.FromNode,
				"to_node", req.ToNode)
			c.JSON(http.StatusConflict, gin.H{"error": "these nodes are already connected"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to connect nodes"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToConnectionResponse(edge))
}

// isDuplicate matches the store sentinel and, as a safety net, the raw
// Postgres unique violation.
func isDuplicate(err error, sentinel error) bool {
	if errors.Is(err, sentinel) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
