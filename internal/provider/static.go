package provider

import (
	"context"

	"agenthub/orchestrator/pkg/types"
)

// Static is a capability provider that returns a fixed payload for every
// task. It is the default provider for YAML-defined agents without a script
// and a convenient stand-in in tests.
type Static struct {
	// Payload is returned as the result of every execution. When nil, a map
	// with the task ID and name is returned instead.
	Payload any
}

// Execute implements engine.CapabilityProvider.
func (p *Static) Execute(_ context.Context, task *types.WorkflowTask, _ map[string]any) (*types.ExecutionResult, error) {
	payload := p.Payload
	if payload == nil {
		payload = map[string]any{
			"task_id":   task.ID,
			"task_name": task.Name,
			"summary":   "task " + task.ID + " executed",
		}
	}
	return types.Success(payload), nil
}
