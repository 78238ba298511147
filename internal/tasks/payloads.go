package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

// Task type constants keep queue producers and consumers in sync.
const (
	TypeAnalysisPersist = "analysis:persist"
)

// AnalysisPersistPayload carries everything the worker needs to store a
// structured resume and its paired analysis record. Details and Analysis are
// kept as raw JSON: the worker writes them to jsonb columns unchanged.
type AnalysisPersistPayload struct {
	UserID        uint            `json:"user_id"`
	ResumeName    string          `json:"resume_name"`
	ObjectKey     string          `json:"object_key"`
	IsPrimary     bool            `json:"is_primary"`
	CorrelationID string          `json:"correlation_id"`
	Details       json.RawMessage `json:"details"`
	Analysis      json.RawMessage `json:"analysis"`
}

// NewAnalysisPersistTask builds the deferred persistence task enqueued by
// the analysis orchestrator after the response envelope has been assembled.
func NewAnalysisPersistTask(p AnalysisPersistPayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeAnalysisPersist, payload), nil
}
