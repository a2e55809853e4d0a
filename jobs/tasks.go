// Package jobs contains the background task definitions and the Asynq
// worker plumbing.
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskCatalogReindex rebuilds the per-supplier catalog cache entries.
	TaskCatalogReindex = "catalog:reindex"
	// TaskDraftsSweep removes draft orders abandoned past the retention
	// window.
	TaskDraftsSweep = "drafts:sweep"
)

// CatalogReindexPayload contains options for the reindex job.
type CatalogReindexPayload struct {
	Force bool `json:"force"`
}

// NewCatalogReindexTask builds a catalog reindex task.
func NewCatalogReindexTask(force bool) (*asynq.Task, error) {
	body, err := json.Marshal(CatalogReindexPayload{Force: force})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskCatalogReindex, body, asynq.Queue(QueueDefault)), nil
}

// DraftsSweepPayload carries the retention window in hours. Zero means the
// worker's configured default.
type DraftsSweepPayload struct {
	MaxAgeHours int `json:"maxAgeHours"`
}

// NewDraftsSweepTask builds a draft sweep task.
func NewDraftsSweepTask(maxAgeHours int) (*asynq.Task, error) {
	body, err := json.Marshal(DraftsSweepPayload{MaxAgeHours: maxAgeHours})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDraftsSweep, body, asynq.Queue(QueueDefault)), nil
}
