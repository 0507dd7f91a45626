package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"agenthub/orchestrator/pkg/logger"
	"agenthub/orchestrator/pkg/types"
)

// DependencyPolicy decides what happens to the dependents of a failed task.
type DependencyPolicy string

const (
	// DependencyPolicyWait leaves dependents of a failed task in the created
	// state forever; the run then ends through the stall path with those
	// tasks in neither the completed nor the failed list.
	DependencyPolicyWait DependencyPolicy = "wait"
	// DependencyPolicyPropagate transitively marks dependents of a failed
	// task as failed, so the run terminates through the normal path.
	DependencyPolicyPropagate DependencyPolicy = "propagate"
)

// Config holds the configuration for a workflow engine.
type Config struct {
	// WorkflowName labels the run in logs and the final report.
	WorkflowName string

	// IdleWait is how long the loop waits before re-checking readiness while
	// tasks are still running.
	IdleWait time.Duration

	// DependencyPolicy decides the fate of a failed task's dependents.
	DependencyPolicy DependencyPolicy

	// Logger receives orchestration logs. Defaults to the process logger.
	Logger *logger.Logger

	// Checkpointer is called after every round. Defaults to a no-op.
	Checkpointer Checkpointer
}

// DefaultConfig returns an engine configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		WorkflowName:     "workflow",
		IdleWait:         10 * time.Millisecond,
		DependencyPolicy: DependencyPolicyWait,
		Logger:           logger.Default(),
		Checkpointer:     NopCheckpointer{},
	}
}

// Engine owns one workflow run: its task graph, its agent pool and the
// scheduler loop that drives the graph to completion. An engine executes
// exactly once; the graph and registry are not shared across runs.
type Engine struct {
	workflow   *types.Workflow
	graph      *TaskGraph
	registry   AgentRegistry
	matcher    *CapabilityMatcher
	dispatcher *Dispatcher

	log          *logger.Logger
	checkpointer Checkpointer
	policy       DependencyPolicy
	idleWait     time.Duration

	completed map[string]bool
	rounds    int
	started   bool
}

// New creates an engine for a single workflow run.
func New(config *Config) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	log := config.Logger
	if log == nil {
		log = logger.Default()
	}
	checkpointer := config.Checkpointer
	if checkpointer == nil {
		checkpointer = NopCheckpointer{}
	}
	idleWait := config.IdleWait
	if idleWait <= 0 {
		idleWait = 10 * time.Millisecond
	}
	policy := config.DependencyPolicy
	if policy == "" {
		policy = DependencyPolicyWait
	}

	graph := NewTaskGraph()
	registry := NewInMemoryAgentRegistry()
	matcher := NewCapabilityMatcher(registry)

	return &Engine{
		workflow: &types.Workflow{
			ID:     uuid.New().String(),
			Name:   config.WorkflowName,
			Status: types.WorkflowStatusCreated,
		},
		graph:        graph,
		registry:     registry,
		matcher:      matcher,
		dispatcher:   NewDispatcher(graph, registry, matcher, log),
		log:          log,
		checkpointer: checkpointer,
		policy:       policy,
		idleWait:     idleWait,
		completed:    make(map[string]bool),
	}
}

// Workflow returns the workflow aggregate owned by this engine.
func (e *Engine) Workflow() *types.Workflow {
	return e.workflow
}

// Tasks returns all tasks in submission order.
func (e *Engine) Tasks() []*types.WorkflowTask {
	return e.graph.All()
}

// Agents returns all registered agents in registration order.
func (e *Engine) Agents() []*types.WorkflowAgent {
	return e.registry.List()
}

// AddTask adds a task to the workflow. Dependencies are task IDs and are
// fixed here; the engine does not validate them for cycles or existence.
func (e *Engine) AddTask(id, name, taskType string, capabilities, dependencies []string) error {
	if e.started {
		return ErrWorkflowStarted
	}
	if id == "" {
		return fmt.Errorf("task ID cannot be empty")
	}
	return e.graph.Add(types.NewWorkflowTask(id, name, taskType, capabilities, dependencies))
}

// RegisterAgent adds a worker agent and the capability provider that will
// execute its tasks.
func (e *Engine) RegisterAgent(id, agentType string, capabilities []string, provider CapabilityProvider) error {
	if e.started {
		return ErrWorkflowStarted
	}
	if id == "" {
		return fmt.Errorf("agent ID cannot be empty")
	}
	if provider == nil {
		return fmt.Errorf("agent %s has no capability provider", id)
	}
	return e.registry.Register(types.NewWorkflowAgent(id, agentType, capabilities), provider)
}

// ExecuteWorkflow runs the scheduler loop to completion and returns the
// final report. The context map is passed unchanged to every provider.
//
// The loop ends when every task completed, when it stalls (no task ready,
// none running, nothing dispatchable), or when the loop itself fails. A
// stalled run is still reported with a completed status; callers detect
// partial completion from the task counts.
func (e *Engine) ExecuteWorkflow(ctx context.Context, wfCtx map[string]any) (report *types.WorkflowReport, err error) {
	if e.started {
		return nil, ErrWorkflowStarted
	}
	if e.graph.Len() == 0 {
		return nil, ErrNoTasks
	}
	e.started = true

	e.workflow.Status = types.WorkflowStatusRunning
	e.workflow.StartTime = time.Now()
	e.log.Info("workflow %s (%s) started: %d tasks, %d agents",
		e.workflow.Name, e.workflow.ID, e.graph.Len(), len(e.registry.List()))

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("workflow engine failure: %v", r)
			e.finish(types.WorkflowStatusFailed)
			report = e.buildReport(err)
		}
	}()

	if wfCtx == nil {
		wfCtx = make(map[string]any)
	}

	if loopErr := e.run(ctx, wfCtx); loopErr != nil {
		e.finish(types.WorkflowStatusFailed)
		return e.buildReport(loopErr), loopErr
	}

	e.finish(types.WorkflowStatusCompleted)
	return e.buildReport(nil), nil
}

// run is the scheduler loop. Each iteration computes the ready set and
// either dispatches it as one concurrent round, waits briefly for running
// work, or detects the terminal condition and exits.
func (e *Engine) run(ctx context.Context, wfCtx map[string]any) error {
	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("workflow aborted: %w", ctxErr)
		}

		ready := e.graph.ReadySet(e.completed)
		if len(ready) == 0 {
			if e.graph.RunningCount() > 0 {
				time.Sleep(e.idleWait)
				continue
			}
			if n := e.neverStarted(); n > 0 {
				e.log.Warn("workflow %s stalled: %d tasks never became ready", e.workflow.ID, n)
			}
			return nil
		}

		e.rounds++
		e.log.Debug("round %d: dispatching %d ready tasks", e.rounds, len(ready))
		outcome := e.dispatcher.RunRound(ctx, ready, wfCtx)
		e.reconcileRound(outcome)

		if cpErr := e.checkpointer.Checkpoint(ctx, e.workflow, e.graph.All()); cpErr != nil {
			e.log.Warn("checkpoint after round %d failed: %v", e.rounds, cpErr)
		}

		if len(e.completed) == e.graph.Len() {
			return nil
		}
		if outcome.Dispatched == 0 {
			// Every ready task was unroutable and nothing is in flight; the
			// pool will never change mid-run, so this is a stall.
			e.log.Warn("workflow %s stalled: %d ready tasks have no matching agent",
				e.workflow.ID, len(ready))
			return nil
		}
	}
}

// reconcileRound folds one round's outcome into the workflow bookkeeping.
func (e *Engine) reconcileRound(outcome RoundOutcome) {
	for _, id := range outcome.Completed {
		e.completed[id] = true
		e.workflow.CompletedTasks = append(e.workflow.CompletedTasks, id)
	}
	for _, id := range outcome.Failed {
		e.workflow.FailedTasks = append(e.workflow.FailedTasks, id)
		if e.policy == DependencyPolicyPropagate {
			e.failDependents(id)
		}
	}
}

// failDependents marks every not-yet-started dependent of a failed task as
// failed, transitively. Only used under the propagate policy.
func (e *Engine) failDependents(taskID string) {
	for _, dependentID := range e.graph.Dependents(taskID) {
		task := e.graph.Get(dependentID)
		if task == nil || task.Status != types.TaskStatusCreated {
			continue
		}
		now := time.Now()
		task.Status = types.TaskStatusFailed
		task.CompletedAt = &now
		e.workflow.FailedTasks = append(e.workflow.FailedTasks, dependentID)
		e.log.Info("task %s failed: dependency %s failed", dependentID, taskID)
	}
}

// neverStarted counts tasks that are still in the created state.
func (e *Engine) neverStarted() int {
	count := 0
	for _, task := range e.graph.All() {
		if task.Status == types.TaskStatusCreated {
			count++
		}
	}
	return count
}

func (e *Engine) finish(status types.WorkflowStatus) {
	now := time.Now()
	e.workflow.Status = status
	e.workflow.EndTime = &now
}

// buildReport assembles the final workflow report with a per-agent
// performance snapshot.
func (e *Engine) buildReport(runErr error) *types.WorkflowReport {
	report := &types.WorkflowReport{
		WorkflowID:     e.workflow.ID,
		WorkflowName:   e.workflow.Name,
		Status:         e.workflow.Status,
		CompletedTasks: len(e.workflow.CompletedTasks),
		FailedTasks:    len(e.workflow.FailedTasks),
		TotalTasks:     e.graph.Len(),
		Rounds:         e.rounds,
		Agents:         e.registry.Snapshot(),
		GeneratedAt:    time.Now(),
	}
	if e.workflow.EndTime != nil {
		report.ExecutionTime = e.workflow.EndTime.Sub(e.workflow.StartTime)
	}
	if runErr != nil {
		report.Error = runErr.Error()
	}
	e.log.Info("workflow %s finished: status=%s completed=%d failed=%d total=%d rounds=%d",
		e.workflow.ID, report.Status, report.CompletedTasks, report.FailedTasks,
		report.TotalTasks, report.Rounds)
	return report
}
