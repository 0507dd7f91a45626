// Package console provides a reporter that prints a workflow summary to a
// writer, stdout by default.
package console

import (
	"context"
	"fmt"
	"io"
	"os"

	"agenthub/orchestrator/pkg/types"
)

// Reporter prints a human-readable workflow summary.
type Reporter struct {
	out io.Writer
}

// New creates a console reporter writing to out; nil means stdout.
func New(out io.Writer) *Reporter {
	if out == nil {
		out = os.Stdout
	}
	return &Reporter{out: out}
}

// Name implements reporter.Reporter.
func (r *Reporter) Name() string { return "console" }

// Init implements reporter.Reporter.
func (r *Reporter) Init(context.Context, map[string]any) error { return nil }

// Report implements reporter.Reporter.
func (r *Reporter) Report(_ context.Context, report *types.WorkflowReport) error {
	fmt.Fprintf(r.out, "\nworkflow: %s (%s)\n", report.WorkflowName, report.WorkflowID)
	fmt.Fprintf(r.out, "  status............: %s\n", report.Status)
	fmt.Fprintf(r.out, "  tasks.............: %d/%d completed, %d failed\n",
		report.CompletedTasks, report.TotalTasks, report.FailedTasks)
	fmt.Fprintf(r.out, "  rounds............: %d\n", report.Rounds)
	fmt.Fprintf(r.out, "  execution time....: %s\n", report.ExecutionTime)
	if report.Error != "" {
		fmt.Fprintf(r.out, "  error.............: %s\n", report.Error)
	}
	if report.Stalled() {
		fmt.Fprintf(r.out, "  note..............: %d tasks never became ready\n",
			report.TotalTasks-report.CompletedTasks-report.FailedTasks)
	}

	for _, agent := range report.Agents {
		fmt.Fprintf(r.out, "  agent %s (%s): completed=%d success_rate=%.1f%% avg=%.3fs p95=%.3fs\n",
			agent.AgentID, agent.AgentType, agent.TasksCompleted, agent.SuccessRate,
			agent.AverageExecutionTime, agent.P95ExecutionTime)
	}
	return nil
}

// Close implements reporter.Reporter.
func (r *Reporter) Close(context.Context) error { return nil }
