package types

import "time"

// AgentSnapshot is a point-in-time view of one agent's performance, taken
// when the final report is assembled.
type AgentSnapshot struct {
	AgentID              string  `json:"agent_id"`
	AgentType            string  `json:"agent_type"`
	TasksCompleted       int     `json:"tasks_completed"`
	SuccessRate          float64 `json:"success_rate"`
	AverageExecutionTime float64 `json:"average_execution_time"`
	// P95ExecutionTime and MaxExecutionTime come from the per-agent
	// execution-time histogram, in seconds. Zero when the agent ran nothing.
	P95ExecutionTime float64 `json:"p95_execution_time"`
	MaxExecutionTime float64 `json:"max_execution_time"`
}

// WorkflowReport is the caller-facing summary of one workflow run. Status
// alone does not distinguish a fully successful run from a stalled one;
// compare CompletedTasks against TotalTasks for that.
type WorkflowReport struct {
	WorkflowID     string          `json:"workflow_id"`
	WorkflowName   string          `json:"workflow_name"`
	Status         WorkflowStatus  `json:"status"`
	CompletedTasks int             `json:"completed_tasks"`
	FailedTasks    int             `json:"failed_tasks"`
	TotalTasks     int             `json:"total_tasks"`
	Rounds         int             `json:"rounds"`
	ExecutionTime  time.Duration   `json:"execution_time"`
	Error          string          `json:"error,omitempty"`
	Agents         []AgentSnapshot `json:"agents"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

// FullyCompleted reports whether every task in the workflow completed.
func (r *WorkflowReport) FullyCompleted() bool {
	return r.CompletedTasks == r.TotalTasks
}

// Stalled reports whether the run ended with tasks that never started.
func (r *WorkflowReport) Stalled() bool {
	return r.Status == WorkflowStatusCompleted && r.CompletedTasks+r.FailedTasks < r.TotalTasks
}
