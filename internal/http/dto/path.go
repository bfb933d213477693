package dto

type FindPathRequest struct {
	FromNode string `json:"from_node" binding:"required,min=1,max=255"`
	ToNode   string `json:"to_node" binding:"required,min=1,max=255"`
}

type FindPathResponse struct {
	FromNode   string   `json:"from_node"`
	ToNode     string   `json:"to_node"`
	PathExists bool     `json:"path_exists"`
	Path       []string `json:"path"`
}

// External job statuses. The five internal lifecycle states project onto
// four wire values; Retrying is reported as PENDING.
const (
	StatusPending    = "PENDING"
	StatusProcessing = "PROCESSING"
	StatusSuccess    = "SUCCESS"
	StatusFailure    = "FAILURE"
)

type JobStatusResponse struct {
	JobID      int64    `json:"job_id,string"`
	Status     string   `json:"status"`
	Message    string   `json:"message,omitempty"`
	Attempt    int      `json:"attempt,omitempty"`
	LastError  string   `json:"last_error,omitempty"`
	Path       []string `json:"path,omitempty"`
	PathExists *bool    `json:"path_exists,omitempty"`
	Error      string   `json:"error,omitempty"`
}
