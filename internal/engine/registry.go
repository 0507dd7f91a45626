package engine

import (
	"sync"
	"time"

	"agenthub/orchestrator/pkg/metrics"
	"agenthub/orchestrator/pkg/types"
)

// InMemoryAgentRegistry implements AgentRegistry using in-memory storage.
// All mutation goes through a single mutex, which is what makes Reserve an
// atomic check-and-set: once a round has reserved an agent for a task, no
// other task in that round can claim it.
type InMemoryAgentRegistry struct {
	mu        sync.RWMutex
	agents    map[string]*types.WorkflowAgent
	providers map[string]CapabilityProvider
	trends    map[string]*metrics.Trend
	order     []string
}

// NewInMemoryAgentRegistry creates an empty agent registry.
func NewInMemoryAgentRegistry() *InMemoryAgentRegistry {
	return &InMemoryAgentRegistry{
		agents:    make(map[string]*types.WorkflowAgent),
		providers: make(map[string]CapabilityProvider),
		trends:    make(map[string]*metrics.Trend),
	}
}

// Register adds an agent and its capability provider to the pool.
func (r *InMemoryAgentRegistry) Register(agent *types.WorkflowAgent, provider CapabilityProvider) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.agents[agent.ID]; exists {
		return &DuplicateAgentError{AgentID: agent.ID}
	}
	r.agents[agent.ID] = agent
	r.providers[agent.ID] = provider
	r.trends[agent.ID] = metrics.NewTrend()
	r.order = append(r.order, agent.ID)
	return nil
}

// Get returns a single agent by ID.
func (r *InMemoryAgentRegistry) Get(agentID string) (*types.WorkflowAgent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	agent, exists := r.agents[agentID]
	if !exists {
		return nil, &AgentNotFoundError{AgentID: agentID}
	}
	return agent, nil
}

// Provider returns the capability provider registered for an agent.
func (r *InMemoryAgentRegistry) Provider(agentID string) (CapabilityProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, exists := r.providers[agentID]
	if !exists {
		return nil, &AgentNotFoundError{AgentID: agentID}
	}
	return provider, nil
}

// List returns all registered agents in registration order.
func (r *InMemoryAgentRegistry) List() []*types.WorkflowAgent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*types.WorkflowAgent, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, r.agents[id])
	}
	return result
}

// Available returns the agents eligible for new work, in registration order.
// Idle agents and agents whose last task finished, successfully or not, are
// all eligible: there is no quarantine for a failed agent.
func (r *InMemoryAgentRegistry) Available() []*types.WorkflowAgent {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []*types.WorkflowAgent
	for _, id := range r.order {
		agent := r.agents[id]
		switch agent.Status {
		case types.AgentStatusIdle, types.AgentStatusCompleted, types.AgentStatusFailed:
			result = append(result, agent)
		}
	}
	return result
}

// Reserve atomically transitions an available agent to running for the given
// task. It reports false when the agent is unknown or already reserved.
func (r *InMemoryAgentRegistry) Reserve(agentID, taskID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	agent, exists := r.agents[agentID]
	if !exists {
		return false
	}
	switch agent.Status {
	case types.AgentStatusIdle, types.AgentStatusCompleted, types.AgentStatusFailed:
		agent.Status = types.AgentStatusRunning
		agent.CurrentTask = taskID
		return true
	default:
		return false
	}
}

// Release records the outcome of a reserved agent's task. On success the
// completed count and running average are updated; the success rate is left
// alone. On failure only the success rate is recomputed, from the ratio of
// completed tasks to completed-plus-this-failure.
func (r *InMemoryAgentRegistry) Release(agentID string, record types.ExecutionRecord) {
	r.mu.Lock()
	defer r.mu.Unlock()

	agent, exists := r.agents[agentID]
	if !exists {
		return
	}

	agent.CurrentTask = ""
	agent.History = append(agent.History, record)
	if trend := r.trends[agentID]; trend != nil {
		trend.Record(time.Duration(record.ExecutionTime * float64(time.Second)))
	}

	m := &agent.Metrics
	switch record.Status {
	case types.TaskStatusCompleted:
		agent.Status = types.AgentStatusCompleted
		m.TasksCompleted++
		n := float64(m.TasksCompleted)
		m.AverageExecutionTime = (m.AverageExecutionTime*(n-1) + record.ExecutionTime) / n
	case types.TaskStatusFailed:
		agent.Status = types.AgentStatusFailed
		completed := float64(m.TasksCompleted)
		m.SuccessRate = completed / (completed + 1) * 100
	}
}

// Snapshot returns a performance snapshot per agent, in registration order.
func (r *InMemoryAgentRegistry) Snapshot() []types.AgentSnapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]types.AgentSnapshot, 0, len(r.order))
	for _, id := range r.order {
		agent := r.agents[id]
		snapshot := types.AgentSnapshot{
			AgentID:              agent.ID,
			AgentType:            agent.Type,
			TasksCompleted:       agent.Metrics.TasksCompleted,
			SuccessRate:          agent.Metrics.SuccessRate,
			AverageExecutionTime: agent.Metrics.AverageExecutionTime,
		}
		if trend := r.trends[id]; trend != nil && trend.Count() > 0 {
			snapshot.P95ExecutionTime = trend.Percentile(95).Seconds()
			snapshot.MaxExecutionTime = trend.Max().Seconds()
		}
		result = append(result, snapshot)
	}
	return result
}
