package engine

import "agenthub/orchestrator/pkg/types"

// CapabilityMatcher selects the agent that should run a task: the available
// agent with the highest success rate among those whose capabilities
// intersect the task's required set. Selection and reservation are one step;
// a returned agent is already marked running, so building a round's dispatch
// list can never hand the same agent to two tasks.
type CapabilityMatcher struct {
	registry AgentRegistry
}

// NewCapabilityMatcher creates a matcher over the given registry.
func NewCapabilityMatcher(registry AgentRegistry) *CapabilityMatcher {
	return &CapabilityMatcher{registry: registry}
}

// MatchAndReserve finds and reserves an agent for the task. It reports false
// when no available agent matches; the task then stays in the created state
// and is retried on a later round.
func (m *CapabilityMatcher) MatchAndReserve(task *types.WorkflowTask) (string, bool) {
	for {
		best := m.selectBest(task.RequiredCapabilities)
		if best == "" {
			return "", false
		}
		if m.registry.Reserve(best, task.ID) {
			return best, true
		}
		// Reservation lost to a concurrent caller; re-select from the
		// remaining pool.
	}
}

// selectBest returns the ID of the best matching available agent, or the
// empty string when none matches. Ties on success rate are broken by
// registration order, which keeps selection deterministic.
func (m *CapabilityMatcher) selectBest(required []string) string {
	var bestID string
	var bestRate float64

	for _, agent := range m.registry.Available() {
		if !agent.CanServe(required) {
			continue
		}
		if bestID == "" || agent.Metrics.SuccessRate > bestRate {
			bestID = agent.ID
			bestRate = agent.Metrics.SuccessRate
		}
	}
	return bestID
}
