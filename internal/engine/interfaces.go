package engine

import (
	"context"

	"agenthub/orchestrator/pkg/types"
)

// CapabilityProvider is the contract between the engine and domain logic.
// The engine invokes Execute for every task assigned to the provider's agent
// and never inspects what the provider actually does; the same workflow
// context map is passed unchanged to every provider in a run.
//
// A provider signals failure either by returning an error or by returning a
// result with a failed status. Both are treated identically.
type CapabilityProvider interface {
	Execute(ctx context.Context, task *types.WorkflowTask, wfCtx map[string]any) (*types.ExecutionResult, error)
}

// ProviderFunc adapts a plain function to the CapabilityProvider interface.
type ProviderFunc func(ctx context.Context, task *types.WorkflowTask, wfCtx map[string]any) (*types.ExecutionResult, error)

// Execute implements CapabilityProvider.
func (f ProviderFunc) Execute(ctx context.Context, task *types.WorkflowTask, wfCtx map[string]any) (*types.ExecutionResult, error) {
	return f(ctx, task, wfCtx)
}

// AgentRegistry manages the pool of worker agents for one workflow run.
type AgentRegistry interface {
	// Register adds an agent and its capability provider to the pool.
	Register(agent *types.WorkflowAgent, provider CapabilityProvider) error

	// Get returns a single agent by ID.
	Get(agentID string) (*types.WorkflowAgent, error)

	// Provider returns the capability provider registered for an agent.
	Provider(agentID string) (CapabilityProvider, error)

	// List returns all registered agents in registration order.
	List() []*types.WorkflowAgent

	// Available returns the agents currently eligible for new work, in
	// registration order. An agent whose last task failed stays eligible.
	Available() []*types.WorkflowAgent

	// Reserve atomically transitions an available agent to running for the
	// given task. It reports false when the agent is not available, so two
	// tasks in one round can never reserve the same agent.
	Reserve(agentID, taskID string) bool

	// Release records the outcome of a reserved agent's task, updates its
	// performance metrics and appends an execution record.
	Release(agentID string, record types.ExecutionRecord)

	// Snapshot returns a performance snapshot per agent for the final report.
	Snapshot() []types.AgentSnapshot
}

// Checkpointer is an optional persistence collaborator. The engine calls it
// after every round; implementations may durably record progress. Checkpoint
// errors are logged and otherwise ignored, since persistence is not required
// for scheduler correctness.
type Checkpointer interface {
	Checkpoint(ctx context.Context, workflow *types.Workflow, tasks []*types.WorkflowTask) error
}

// NopCheckpointer is the default Checkpointer; it persists nothing.
type NopCheckpointer struct{}

// Checkpoint implements Checkpointer.
func (NopCheckpointer) Checkpoint(context.Context, *types.Workflow, []*types.WorkflowTask) error {
	return nil
}
