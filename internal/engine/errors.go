package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrWorkflowStarted is returned when tasks or agents are added after
	// execution has begun.
	ErrWorkflowStarted = errors.New("workflow already started")

	// ErrNoTasks is returned when a workflow is executed with an empty graph.
	ErrNoTasks = errors.New("workflow has no tasks")
)

// DuplicateTaskError indicates a task ID was added twice.
type DuplicateTaskError struct {
	TaskID string
}

func (e *DuplicateTaskError) Error() string {
	return fmt.Sprintf("task already exists: %s", e.TaskID)
}

// DuplicateAgentError indicates an agent ID was registered twice.
type DuplicateAgentError struct {
	AgentID string
}

func (e *DuplicateAgentError) Error() string {
	return fmt.Sprintf("agent already registered: %s", e.AgentID)
}

// AgentNotFoundError indicates a lookup for an unknown agent ID.
type AgentNotFoundError struct {
	AgentID string
}

func (e *AgentNotFoundError) Error() string {
	return fmt.Sprintf("agent not found: %s", e.AgentID)
}
