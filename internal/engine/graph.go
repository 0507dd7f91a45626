package engine

import (
	"sync"

	"agenthub/orchestrator/pkg/types"
)

// TaskGraph holds the workflow's tasks and their declared dependency edges,
// and answers readiness queries against a completion set. It performs no
// cycle detection; a cyclic graph simply never becomes ready and the
// scheduler loop terminates through its stall path.
type TaskGraph struct {
	mu    sync.RWMutex
	tasks map[string]*types.WorkflowTask
	order []string
}

// NewTaskGraph creates an empty task graph.
func NewTaskGraph() *TaskGraph {
	return &TaskGraph{
		tasks: make(map[string]*types.WorkflowTask),
	}
}

// Add inserts a task. The dependency set is taken as given; referencing an
// unknown task ID is not an error here, it just leaves the task permanently
// unready.
func (g *TaskGraph) Add(task *types.WorkflowTask) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.tasks[task.ID]; exists {
		return &DuplicateTaskError{TaskID: task.ID}
	}
	g.tasks[task.ID] = task
	g.order = append(g.order, task.ID)
	return nil
}

// Get returns a task by ID, or nil when absent.
func (g *TaskGraph) Get(taskID string) *types.WorkflowTask {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.tasks[taskID]
}

// All returns every task in insertion order.
func (g *TaskGraph) All() []*types.WorkflowTask {
	g.mu.RLock()
	defer g.mu.RUnlock()

	result := make([]*types.WorkflowTask, 0, len(g.order))
	for _, id := range g.order {
		result = append(result, g.tasks[id])
	}
	return result
}

// Len returns the number of tasks in the graph.
func (g *TaskGraph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.tasks)
}

// IsReady reports whether every dependency of the task is in the completed
// set. A task with a failed dependency is never ready: failed IDs are not
// completed IDs.
func (g *TaskGraph) IsReady(task *types.WorkflowTask, completed map[string]bool) bool {
	for _, dep := range task.Dependencies {
		if !completed[dep] {
			return false
		}
	}
	return true
}

// ReadySet returns, in insertion order, every task still in the created state
// whose dependencies are all completed.
func (g *TaskGraph) ReadySet(completed map[string]bool) []*types.WorkflowTask {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var ready []*types.WorkflowTask
	for _, id := range g.order {
		task := g.tasks[id]
		if task.Status != types.TaskStatusCreated {
			continue
		}
		if g.IsReady(task, completed) {
			ready = append(ready, task)
		}
	}
	return ready
}

// RunningCount returns the number of tasks currently in the running state.
func (g *TaskGraph) RunningCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	count := 0
	for _, task := range g.tasks {
		if task.Status == types.TaskStatusRunning {
			count++
		}
	}
	return count
}

// Dependents returns the IDs of tasks that declare a dependency on the given
// task, directly or transitively. Used by the failure-propagation policy.
func (g *TaskGraph) Dependents(taskID string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	// Direct reverse edges first, then walk outward.
	reverse := make(map[string][]string, len(g.tasks))
	for _, id := range g.order {
		for _, dep := range g.tasks[id].Dependencies {
			reverse[dep] = append(reverse[dep], id)
		}
	}

	seen := make(map[string]bool)
	queue := []string{taskID}
	var result []string
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, dependent := range reverse[current] {
			if seen[dependent] {
				continue
			}
			seen[dependent] = true
			result = append(result, dependent)
			queue = append(queue, dependent)
		}
	}
	return result
}
