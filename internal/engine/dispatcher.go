package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ohler55/ojg/jp"

	"agenthub/orchestrator/pkg/logger"
	"agenthub/orchestrator/pkg/types"
)

// Dispatcher runs one round of ready tasks concurrently against their
// matched agents and reconciles the outcomes back into the task graph and
// agent registry. It is the only component that mutates task and agent
// records, and it does so strictly before fan-out and after fan-in.
type Dispatcher struct {
	graph    *TaskGraph
	registry AgentRegistry
	matcher  *CapabilityMatcher
	log      *logger.Logger
}

// NewDispatcher creates a dispatcher over the given graph and registry.
func NewDispatcher(graph *TaskGraph, registry AgentRegistry, matcher *CapabilityMatcher, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		graph:    graph,
		registry: registry,
		matcher:  matcher,
		log:      log,
	}
}

// RoundOutcome summarizes one dispatched round.
type RoundOutcome struct {
	// Dispatched is the number of tasks that were assigned an agent and run.
	Dispatched int
	// Completed and Failed list task IDs by outcome, in dispatch order.
	Completed []string
	Failed    []string
}

// assignment pairs a task with the agent reserved for it.
type assignment struct {
	task    *types.WorkflowTask
	agentID string
}

// taskOutcome is what one unit of work reports back to the collector.
type taskOutcome struct {
	task    *types.WorkflowTask
	agentID string
	result  *types.ExecutionResult
	err     error
	elapsed time.Duration
}

// RunRound assigns agents to the ready tasks, executes the assigned ones
// concurrently, waits for all of them to settle and reconciles the results.
// Tasks with no matching agent are left in the created state for a later
// round. A failure in one unit of work never cancels the others.
func (d *Dispatcher) RunRound(ctx context.Context, ready []*types.WorkflowTask, wfCtx map[string]any) RoundOutcome {
	assignments := d.assign(ready)
	if len(assignments) == 0 {
		return RoundOutcome{}
	}

	outcomes := make(chan taskOutcome, len(assignments))
	var wg sync.WaitGroup
	for _, a := range assignments {
		wg.Add(1)
		go func(a assignment) {
			defer wg.Done()
			outcomes <- d.execute(ctx, a, wfCtx)
		}(a)
	}
	wg.Wait()
	close(outcomes)

	round := RoundOutcome{Dispatched: len(assignments)}
	for outcome := range outcomes {
		d.reconcile(outcome, &round)
	}
	return round
}

// assign matches and reserves an agent per ready task, marking resolved tasks
// running before any unit of work starts. Reservation happens inside the
// matcher, so no two tasks in the round share an agent.
func (d *Dispatcher) assign(ready []*types.WorkflowTask) []assignment {
	var assignments []assignment
	for _, task := range ready {
		agentID, ok := d.matcher.MatchAndReserve(task)
		if !ok {
			d.log.Debug("no agent available for task %s (capabilities: %v)", task.ID, task.RequiredCapabilities)
			continue
		}

		now := time.Now()
		task.Status = types.TaskStatusRunning
		task.AssignedAgent = agentID
		task.StartedAt = &now
		assignments = append(assignments, assignment{task: task, agentID: agentID})
		d.log.Debug("task %s assigned to agent %s", task.ID, agentID)
	}
	return assignments
}

// execute invokes the capability provider for one assignment. A panicking
// provider is contained here and reported as a task failure rather than
// taking down the round.
func (d *Dispatcher) execute(ctx context.Context, a assignment, wfCtx map[string]any) (outcome taskOutcome) {
	start := time.Now()
	outcome = taskOutcome{task: a.task, agentID: a.agentID}

	defer func() {
		outcome.elapsed = time.Since(start)
		if r := recover(); r != nil {
			outcome.result = nil
			outcome.err = fmt.Errorf("provider panic: %v", r)
		}
	}()

	provider, err := d.registry.Provider(a.agentID)
	if err != nil {
		outcome.err = err
		return outcome
	}

	outcome.result, outcome.err = provider.Execute(ctx, a.task, wfCtx)
	return outcome
}

// reconcile applies one settled outcome to the task, the agent and the round
// bookkeeping. Called sequentially after the whole round has settled.
func (d *Dispatcher) reconcile(o taskOutcome, round *RoundOutcome) {
	now := time.Now()
	record := types.ExecutionRecord{
		TaskID:        o.task.ID,
		TaskName:      o.task.Name,
		ExecutionTime: o.elapsed.Seconds(),
		Timestamp:     now,
	}

	if o.err == nil && o.result.IsSuccess() {
		o.task.Status = types.TaskStatusCompleted
		o.task.CompletedAt = &now
		o.task.Result = o.result.Payload
		record.Status = types.TaskStatusCompleted
		record.ResultSummary = summarize(o.result.Payload)
		round.Completed = append(round.Completed, o.task.ID)
		d.log.Info("task %s completed by agent %s in %.3fs", o.task.ID, o.agentID, o.elapsed.Seconds())
	} else {
		o.task.Status = types.TaskStatusFailed
		o.task.CompletedAt = &now
		record.Status = types.TaskStatusFailed
		record.Error = failureMessage(o.result, o.err)
		round.Failed = append(round.Failed, o.task.ID)
		d.log.Warn("task %s failed on agent %s: %s", o.task.ID, o.agentID, record.Error)
	}

	d.registry.Release(o.agentID, record)
}

// failureMessage extracts the error text from a failed outcome.
func failureMessage(result *types.ExecutionResult, err error) string {
	if err != nil {
		return err.Error()
	}
	if result != nil && result.Error != "" {
		return result.Error
	}
	return "provider reported failure without detail"
}

// summaryPaths are tried in order against structured payloads when building
// an execution record's summary line.
var summaryPaths = []jp.Expr{
	jp.R().C("summary"),
	jp.R().C("message"),
	jp.R().C("status"),
}

const maxSummaryLen = 120

// summarize produces a short human-readable summary of a result payload for
// the agent's execution history.
func summarize(payload any) string {
	if payload == nil {
		return ""
	}
	for _, path := range summaryPaths {
		if hits := path.Get(payload); len(hits) > 0 {
			if s, ok := hits[0].(string); ok && s != "" {
				return truncate(s, maxSummaryLen)
			}
		}
	}
	return truncate(fmt.Sprintf("%v", payload), maxSummaryLen)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
