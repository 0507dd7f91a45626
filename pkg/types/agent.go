package types

import "time"

// AgentStatus reflects the outcome of an agent's most recent task. It is a
// status tag rather than a strict state machine: a failed agent is still
// eligible for new work.
type AgentStatus string

const (
	// AgentStatusIdle indicates the agent has not run any task yet.
	AgentStatusIdle AgentStatus = "idle"
	// AgentStatusRunning indicates the agent is reserved for a task.
	AgentStatusRunning AgentStatus = "running"
	// AgentStatusWaiting is reserved for future use; the engine never sets it.
	AgentStatusWaiting AgentStatus = "waiting"
	// AgentStatusCompleted indicates the agent's last task succeeded.
	AgentStatusCompleted AgentStatus = "completed"
	// AgentStatusFailed indicates the agent's last task failed.
	AgentStatusFailed AgentStatus = "failed"
)

// PerformanceMetrics holds running aggregates for one agent.
type PerformanceMetrics struct {
	// TasksCompleted counts successfully completed tasks.
	TasksCompleted int `json:"tasks_completed"`
	// SuccessRate is a percentage in [0, 100]. It starts at 100 and is only
	// recomputed when an execution fails.
	SuccessRate float64 `json:"success_rate"`
	// AverageExecutionTime is the mean execution time in seconds over
	// completed tasks.
	AverageExecutionTime float64 `json:"average_execution_time"`
}

// ExecutionRecord is one append-only entry in an agent's execution history.
type ExecutionRecord struct {
	TaskID        string     `json:"task_id"`
	TaskName      string     `json:"task_name"`
	ExecutionTime float64    `json:"execution_time"`
	Timestamp     time.Time  `json:"timestamp"`
	Status        TaskStatus `json:"status"`
	ResultSummary string     `json:"result_summary,omitempty"`
	Error         string     `json:"error,omitempty"`
}

// WorkflowAgent is a worker registered with the engine. The Type tag exists
// only so callers can route to their own domain logic; the engine itself never
// branches on it.
type WorkflowAgent struct {
	ID           string             `yaml:"id" json:"id"`
	Type         string             `yaml:"type" json:"type"`
	Capabilities []string           `yaml:"capabilities" json:"capabilities"`
	Status       AgentStatus        `yaml:"-" json:"status"`
	CurrentTask  string             `yaml:"-" json:"current_task,omitempty"`
	Metrics      PerformanceMetrics `yaml:"-" json:"performance_metrics"`
	History      []ExecutionRecord  `yaml:"-" json:"execution_history,omitempty"`
}

// NewWorkflowAgent creates an idle agent with a fresh metrics block.
func NewWorkflowAgent(id, agentType string, capabilities []string) *WorkflowAgent {
	return &WorkflowAgent{
		ID:           id,
		Type:         agentType,
		Capabilities: capabilities,
		Status:       AgentStatusIdle,
		Metrics:      PerformanceMetrics{SuccessRate: 100},
	}
}

// HasCapability reports whether the agent declares the given capability.
func (a *WorkflowAgent) HasCapability(capability string) bool {
	for _, c := range a.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

// CanServe reports whether the agent's capabilities intersect the required
// set. Any single matching capability qualifies; full coverage is not needed.
func (a *WorkflowAgent) CanServe(required []string) bool {
	for _, r := range required {
		if a.HasCapability(r) {
			return true
		}
	}
	return false
}
