package dto

import (
	"time"

	"hopgraph.app/api/internal/model"
)

type CreateNodeRequest struct {
	Name string `json:"name" binding:"required,min=1,max=255"`
}

type NodeResponse struct {
	ID        int64     `json:"id,string"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func ToNodeResponse(n *model.Node) *NodeResponse {
	return &NodeResponse{
		ID:        n.ID,
		Name:      n.Name,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

type ListNodesResponse struct {
	Nodes []NodeResponse `json:"nodes"`
	Count int            `json:"count"`
}

func ToListNodesResponse(nodes []model.Node) *ListNodesResponse {
	out := make([]NodeResponse, len(nodes))
	for i, n := range nodes {
		out[i] = *ToNodeResponse(&n)
	}
	return &ListNodesResponse{Nodes: out, Count: len(out)}
}

type ConnectNodesRequest struct {
	FromNode string `json:"from_node" binding:"required,min=1,max=255"`
	ToNode   string `json:"to_node" binding:"required,min=1,max=255"`
}

type ConnectionResponse struct {
	ID         int64     `json:"id,string"`
	FromNodeID int64     `json:"from_node_id,string"`
	ToNodeID   int64     `json:"to_node_id,string"`
	CreatedAt  time.Time `json:"created_at"`
}

func ToConnectionResponse(e *model.Edge) *ConnectionResponse {
	return &ConnectionResponse{
		ID:         e.ID,
		FromNodeID: e.FromNodeID,
		ToNodeID:   e.ToNodeID,
		CreatedAt:  e.CreatedAt,
	}
}
