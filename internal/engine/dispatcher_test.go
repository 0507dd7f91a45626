package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agenthub/orchestrator/pkg/logger"
	"agenthub/orchestrator/pkg/types"
)

type dispatcherFixture struct {
	graph      *TaskGraph
	registry   *InMemoryAgentRegistry
	dispatcher *Dispatcher
}

func newDispatcherFixture(t *testing.T) *dispatcherFixture {
	t.Helper()
	graph := NewTaskGraph()
	registry := NewInMemoryAgentRegistry()
	matcher := NewCapabilityMatcher(registry)
	return &dispatcherFixture{
		graph:      graph,
		registry:   registry,
		dispatcher: NewDispatcher(graph, registry, matcher, logger.Nop()),
	}
}

func (f *dispatcherFixture) addTask(t *testing.T, id string, capabilities []string) *types.WorkflowTask {
	t.Helper()
	task := types.NewWorkflowTask(id, id, "work", capabilities, nil)
	require.NoError(t, f.graph.Add(task))
	return task
}

func (f *dispatcherFixture) addAgent(t *testing.T, id string, capabilities []string, provider CapabilityProvider) {
	t.Helper()
	require.NoError(t, f.registry.Register(types.NewWorkflowAgent(id, "worker", capabilities), provider))
}

func TestDispatcherRunRound(t *testing.T) {
	f := newDispatcherFixture(t)
	f.addAgent(t, "a1", []string{"coding"}, &staticSuccess{})
	f.addAgent(t, "a2", []string{"coding"}, &staticSuccess{})

	t1 := f.addTask(t, "t1", []string{"coding"})
	t2 := f.addTask(t, "t2", []string{"coding"})

	outcome := f.dispatcher.RunRound(context.Background(), []*types.WorkflowTask{t1, t2}, nil)

	assert.Equal(t, 2, outcome.Dispatched)
	assert.ElementsMatch(t, []string{"t1", "t2"}, outcome.Completed)
	assert.Empty(t, outcome.Failed)

	for _, task := range []*types.WorkflowTask{t1, t2} {
		assert.Equal(t, types.TaskStatusCompleted, task.Status)
		assert.NotEmpty(t, task.AssignedAgent)
		assert.NotNil(t, task.StartedAt)
		assert.NotNil(t, task.CompletedAt)
		assert.NotNil(t, task.Result)
	}

	// Both agents were released back to an eligible state.
	assert.Len(t, f.registry.Available(), 2)
}

func TestDispatcherLeavesUnroutableTasksCreated(t *testing.T) {
	f := newDispatcherFixture(t)
	f.addAgent(t, "a1", []string{"coding"}, &staticSuccess{})

	t1 := f.addTask(t, "t1", []string{"coding"})
	t2 := f.addTask(t, "t2", []string{"deployment"})

	outcome := f.dispatcher.RunRound(context.Background(), []*types.WorkflowTask{t1, t2}, nil)

	assert.Equal(t, 1, outcome.Dispatched)
	assert.Equal(t, []string{"t1"}, outcome.Completed)
	assert.Equal(t, types.TaskStatusCreated, t2.Status)
	assert.Empty(t, t2.AssignedAgent)
}

func TestDispatcherFailureIsolation(t *testing.T) {
	f := newDispatcherFixture(t)
	f.addAgent(t, "good", []string{"coding"}, &staticSuccess{})
	f.addAgent(t, "bad", []string{"review"}, ProviderFunc(
		func(context.Context, *types.WorkflowTask, map[string]any) (*types.ExecutionResult, error) {
			return nil, errors.New("boom")
		}))

	t1 := f.addTask(t, "t1", []string{"coding"})
	t2 := f.addTask(t, "t2", []string{"review"})

	outcome := f.dispatcher.RunRound(context.Background(), []*types.WorkflowTask{t1, t2}, nil)

	assert.Equal(t, []string{"t1"}, outcome.Completed)
	assert.Equal(t, []string{"t2"}, outcome.Failed)
	assert.Equal(t, types.TaskStatusCompleted, t1.Status)
	assert.Equal(t, types.TaskStatusFailed, t2.Status)

	bad, _ := f.registry.Get("bad")
	require.Len(t, bad.History, 1)
	assert.Equal(t, "boom", bad.History[0].Error)
	assert.Equal(t, float64(0), bad.Metrics.SuccessRate)
}

func TestDispatcherFailedResultWithoutError(t *testing.T) {
	f := newDispatcherFixture(t)
	f.addAgent(t, "a1", []string{"coding"}, ProviderFunc(
		func(context.Context, *types.WorkflowTask, map[string]any) (*types.ExecutionResult, error) {
			return types.Failure("assertion failed"), nil
		}))

	t1 := f.addTask(t, "t1", []string{"coding"})
	outcome := f.dispatcher.RunRound(context.Background(), []*types.WorkflowTask{t1}, nil)

	assert.Equal(t, []string{"t1"}, outcome.Failed)
	agent, _ := f.registry.Get("a1")
	require.Len(t, agent.History, 1)
	assert.Equal(t, "assertion failed", agent.History[0].Error)
}

func TestDispatcherProviderPanicBecomesFailure(t *testing.T) {
	f := newDispatcherFixture(t)
	f.addAgent(t, "a1", []string{"coding"}, ProviderFunc(
		func(context.Context, *types.WorkflowTask, map[string]any) (*types.ExecutionResult, error) {
			panic("nil map write")
		}))

	t1 := f.addTask(t, "t1", []string{"coding"})
	outcome := f.dispatcher.RunRound(context.Background(), []*types.WorkflowTask{t1}, nil)

	assert.Equal(t, []string{"t1"}, outcome.Failed)
	assert.Equal(t, types.TaskStatusFailed, t1.Status)

	agent, _ := f.registry.Get("a1")
	require.Len(t, agent.History, 1)
	assert.Contains(t, agent.History[0].Error, "provider panic")
}

func TestDispatcherRunsRoundConcurrently(t *testing.T) {
	f := newDispatcherFixture(t)

	const n = 4
	var mu sync.Mutex
	inFlight, peak := 0, 0
	slow := ProviderFunc(func(context.Context, *types.WorkflowTask, map[string]any) (*types.ExecutionResult, error) {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()

		time.Sleep(50 * time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()
		return types.Success(nil), nil
	})

	var ready []*types.WorkflowTask
	for i := 0; i < n; i++ {
		id := string(rune('a' + i))
		f.addAgent(t, "agent-"+id, []string{"coding"}, slow)
		ready = append(ready, f.addTask(t, "task-"+id, []string{"coding"}))
	}

	start := time.Now()
	outcome := f.dispatcher.RunRound(context.Background(), ready, nil)
	elapsed := time.Since(start)

	assert.Equal(t, n, outcome.Dispatched)
	assert.Len(t, outcome.Completed, n)
	assert.Greater(t, peak, 1, "tasks in one round should overlap")
	assert.Less(t, elapsed, time.Duration(n)*50*time.Millisecond, "round should not serialize the tasks")
}

func TestDispatcherPassesWorkflowContext(t *testing.T) {
	f := newDispatcherFixture(t)

	var got map[string]any
	f.addAgent(t, "a1", []string{"coding"}, ProviderFunc(
		func(_ context.Context, _ *types.WorkflowTask, wfCtx map[string]any) (*types.ExecutionResult, error) {
			got = wfCtx
			return types.Success(nil), nil
		}))

	t1 := f.addTask(t, "t1", []string{"coding"})
	wfCtx := map[string]any{"project": "orchestrator"}
	f.dispatcher.RunRound(context.Background(), []*types.WorkflowTask{t1}, wfCtx)

	assert.Equal(t, "orchestrator", got["project"])
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name    string
		payload any
		want    string
	}{
		{"nil payload", nil, ""},
		{"summary field", map[string]any{"summary": "done"}, "done"},
		{"message fallback", map[string]any{"message": "written"}, "written"},
		{"status fallback", map[string]any{"status": "ok"}, "ok"},
		{"summary wins over message", map[string]any{"summary": "s", "message": "m"}, "s"},
		{"plain string", "raw output", "raw output"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, summarize(tt.payload))
		})
	}
}

func TestSummarizeTruncates(t *testing.T) {
	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}
	summary := summarize(map[string]any{"summary": string(long)})
	assert.Len(t, summary, maxSummaryLen)
	assert.Contains(t, summary, "...")
}

// staticSuccess is a trivial provider for dispatcher tests.
type staticSuccess struct{}

func (staticSuccess) Execute(_ context.Context, task *types.WorkflowTask, _ map[string]any) (*types.ExecutionResult, error) {
	return types.Success(map[string]any{"summary": "task " + task.ID + " done"}), nil
}
