package types

import "time"

// TaskStatus represents the lifecycle state of a workflow task.
type TaskStatus string

const (
	// TaskStatusCreated indicates the task has been added but not started.
	TaskStatusCreated TaskStatus = "created"
	// TaskStatusRunning indicates the task is currently executing.
	TaskStatusRunning TaskStatus = "running"
	// TaskStatusCompleted indicates the task finished successfully.
	TaskStatusCompleted TaskStatus = "completed"
	// TaskStatusFailed indicates the task finished with an error.
	TaskStatusFailed TaskStatus = "failed"
)

// WorkflowTask is a single unit of work in a workflow. A task declares the
// capabilities it needs and the tasks that must complete before it may run.
// The ID and Dependencies are fixed at construction; status and bookkeeping
// fields are mutated only by the dispatcher during execution.
type WorkflowTask struct {
	ID                   string     `yaml:"id" json:"id"`
	Name                 string     `yaml:"name" json:"name"`
	Type                 string     `yaml:"type" json:"type"`
	RequiredCapabilities []string   `yaml:"capabilities" json:"capabilities"`
	Dependencies         []string   `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`
	Status               TaskStatus `yaml:"-" json:"status"`
	AssignedAgent        string     `yaml:"-" json:"assigned_agent,omitempty"`
	Result               any        `yaml:"-" json:"result,omitempty"`
	CreatedAt            time.Time  `yaml:"-" json:"created_at"`
	StartedAt            *time.Time `yaml:"-" json:"started_at,omitempty"`
	CompletedAt          *time.Time `yaml:"-" json:"completed_at,omitempty"`
}

// NewWorkflowTask creates a task in the created state.
func NewWorkflowTask(id, name, taskType string, capabilities, dependencies []string) *WorkflowTask {
	return &WorkflowTask{
		ID:                   id,
		Name:                 name,
		Type:                 taskType,
		RequiredCapabilities: capabilities,
		Dependencies:         dependencies,
		Status:               TaskStatusCreated,
		CreatedAt:            time.Now(),
	}
}

// IsTerminal reports whether the task has reached a final state.
func (t *WorkflowTask) IsTerminal() bool {
	return t.Status == TaskStatusCompleted || t.Status == TaskStatusFailed
}

// ResultStatus represents the outcome of a single provider invocation.
type ResultStatus string

const (
	// ResultStatusSuccess indicates the provider completed the task.
	ResultStatusSuccess ResultStatus = "success"
	// ResultStatusFailed indicates the provider reported an error.
	ResultStatusFailed ResultStatus = "failed"
)

// ExecutionResult is what a capability provider returns for one task.
type ExecutionResult struct {
	Status  ResultStatus `json:"status"`
	Payload any          `json:"payload,omitempty"`
	Error   string       `json:"error,omitempty"`
}

// Success builds a successful execution result carrying a payload.
func Success(payload any) *ExecutionResult {
	return &ExecutionResult{Status: ResultStatusSuccess, Payload: payload}
}

// Failure builds a failed execution result carrying an error message.
func Failure(msg string) *ExecutionResult {
	return &ExecutionResult{Status: ResultStatusFailed, Error: msg}
}

// IsSuccess reports whether the result represents a completed execution.
func (r *ExecutionResult) IsSuccess() bool {
	return r != nil && r.Status == ResultStatusSuccess
}
