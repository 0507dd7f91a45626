package types

import "time"

// WorkflowStatus represents the overall state of a workflow run.
type WorkflowStatus string

const (
	// WorkflowStatusCreated indicates the workflow has not started yet.
	WorkflowStatusCreated WorkflowStatus = "created"
	// WorkflowStatusRunning indicates the workflow is executing.
	WorkflowStatusRunning WorkflowStatus = "running"
	// WorkflowStatusPaused is declared for forward compatibility; the engine
	// never produces it.
	WorkflowStatusPaused WorkflowStatus = "paused"
	// WorkflowStatusCompleted indicates the run finished, possibly with
	// partial completion. Callers must inspect the task counts to tell a full
	// success from a stalled run.
	WorkflowStatusCompleted WorkflowStatus = "completed"
	// WorkflowStatusFailed indicates the engine itself failed.
	WorkflowStatusFailed WorkflowStatus = "failed"
	// WorkflowStatusCancelled is declared for forward compatibility; the
	// engine never produces it.
	WorkflowStatusCancelled WorkflowStatus = "cancelled"
)

// Workflow is the aggregate for one execution: identity, status and the
// completion bookkeeping the scheduler loop maintains. The task graph and
// agent registry backing a workflow are owned exclusively by its engine for
// the duration of one run.
type Workflow struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Status         WorkflowStatus `json:"status"`
	CompletedTasks []string       `json:"completed_tasks"`
	FailedTasks    []string       `json:"failed_tasks"`
	StartTime      time.Time      `json:"start_time"`
	EndTime        *time.Time     `json:"end_time,omitempty"`
}
