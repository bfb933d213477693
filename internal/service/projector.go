package service

import (
	"fmt"

	"hopgraph.app/api/internal/http/dto"
	"hopgraph.app/api/internal/model"
)

// Project renders a job for polling clients. Retrying is deliberately
// reported as PENDING: to a caller the job is simply not done yet, and the
// attempt counter plus last_error carry the detail.
func Project(job *model.Job) dto.JobStatusResponse {
	resp := dto.JobStatusResponse{JobID: job.ID}

	switch job.State {
	case model.JobStatePending:
		resp.Status = dto.StatusPending
		resp.Message = "Job is queued for processing"
	case model.JobStateProcessing:
		resp.Status = dto.StatusProcessing
		resp.Message = fmt.Sprintf("Searching for a path from %s to %s", job.FromNode, job.ToNode)
	case model.JobStateRetrying:
		resp.Status = dto.StatusPending
		resp.Message = "Job is queued for processing"
		resp.Attempt = job.Attempt
		if job.ErrorMessage != nil {
			resp.LastError = *job.ErrorMessage
		}
	case model.JobStateSucceeded:
		resp.Status = dto.StatusSuccess
		if job.Result != nil {
			found := job.Result.Found
			resp.PathExists = &found
			resp.Path = job.Result.Path
			if found {
				resp.Message = fmt.Sprintf("Path found from %s to %s", job.FromNode, job.ToNode)
			} else {
				resp.Message = fmt.Sprintf("No path exists from %s to %s", job.FromNode, job.ToNode)
			}
		}
	case model.JobStateFailed:
		resp.Status = dto.StatusFailure
		resp.Message = "Job failed"
		if job.ErrorMessage != nil {
			resp.Error = *job.ErrorMessage
		}
	}

	return resp
}
