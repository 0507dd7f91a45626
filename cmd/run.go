package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"agenthub/orchestrator/internal/config"
	"agenthub/orchestrator/internal/engine"
	"agenthub/orchestrator/internal/parser"
	"agenthub/orchestrator/internal/reporter"
	"agenthub/orchestrator/pkg/types"
)

var (
	runJSONOutput string
	runWebhookURL string
	runPolicy     string
)

var runCmd = &cobra.Command{
	Use:   "run <workflow.yaml>",
	Short: "Execute a workflow definition",
	Long: `Execute a workflow definition file and print a summary report.

The definition declares the agent pool and the task graph; execution proceeds
in rounds until every task is terminal or no further task can be routed.`,
	Example: `  # Execute a workflow
  orchestrator run workflow.yaml

  # Fail dependents of failed tasks instead of leaving them pending
  orchestrator run --policy propagate workflow.yaml

  # Write the full report to a file and post it to a webhook
  orchestrator run --out-json report.json --webhook http://collector:9090/reports workflow.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runWorkflow,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runJSONOutput, "out-json", "", "write the full report to a JSON file")
	runCmd.Flags().StringVar(&runWebhookURL, "webhook", "", "POST the report to this URL")
	runCmd.Flags().StringVar(&runPolicy, "policy", "", "dependency policy override (wait or propagate)")
}

func runWorkflow(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig()
	if err != nil {
		return err
	}

	def, err := parser.NewYAMLParser().ParseFile(args[0])
	if err != nil {
		return fmt.Errorf("load workflow: %w", err)
	}
	if runPolicy != "" {
		def.Workflow.DependencyPolicy = runPolicy
	}
	if err := parser.Validate(def); err != nil {
		return fmt.Errorf("invalid workflow: %w", err)
	}

	opts := &parser.BuildOptions{
		IdleWait:         cfg.Engine.IdleWait.Std(),
		DependencyPolicy: engine.DependencyPolicy(cfg.Engine.DependencyPolicy),
		ScriptTimeout:    cfg.Engine.ScriptTimeout.Std(),
	}
	eng, err := parser.Build(def, opts, log)
	if err != nil {
		return fmt.Errorf("build workflow: %w", err)
	}

	manager, err := buildReporters(cfg.Reporters)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		log.Warn("interrupt received, aborting workflow")
		cancel()
	}()

	if !quiet {
		printRunInfo(def)
	}

	report, execErr := eng.ExecuteWorkflow(ctx, def.Workflow.Context)
	if report != nil {
		reportCtx, reportCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer reportCancel()
		if err := manager.Report(reportCtx, report); err != nil {
			log.Error("report delivery: %v", err)
		}
		if err := manager.Close(reportCtx); err != nil {
			log.Error("reporter close: %v", err)
		}
	}
	if execErr != nil {
		return fmt.Errorf("workflow execution: %w", execErr)
	}
	if report != nil && report.Status == types.WorkflowStatusFailed {
		return fmt.Errorf("workflow %s failed: %d of %d tasks failed",
			report.WorkflowName, report.FailedTasks, report.TotalTasks)
	}
	return nil
}

// buildReporters assembles the report sinks: the configured ones, the console
// summary unless quiet, plus any sinks requested by flags.
func buildReporters(entries []config.ReporterEntry) (*reporter.Manager, error) {
	registry, err := reporter.NewDefaultRegistry()
	if err != nil {
		return nil, err
	}
	manager := reporter.NewManager(registry)
	ctx := context.Background()

	for _, entry := range entries {
		if !entry.Enabled {
			continue
		}
		if err := manager.AddFromConfig(ctx, reporter.Type(entry.Type), entry.Config); err != nil {
			return nil, fmt.Errorf("configure reporter %s: %w", entry.Type, err)
		}
	}
	if !quiet {
		if err := manager.AddFromConfig(ctx, reporter.TypeConsole, nil); err != nil {
			return nil, err
		}
	}
	if runJSONOutput != "" {
		cfg := map[string]any{"file_path": runJSONOutput, "pretty": true}
		if err := manager.AddFromConfig(ctx, reporter.TypeJSON, cfg); err != nil {
			return nil, err
		}
	}
	if runWebhookURL != "" {
		if err := manager.AddFromConfig(ctx, reporter.TypeWebhook, map[string]any{"url": runWebhookURL}); err != nil {
			return nil, err
		}
	}
	return manager, nil
}

func printRunInfo(def *parser.Definition) {
	fmt.Printf("orchestrator %s\n\n", Version)
	fmt.Printf("  workflow: %s\n", def.Workflow.Name)
	fmt.Printf("  agents:   %d\n", len(def.Agents))
	fmt.Printf("  tasks:    %d\n", len(def.Tasks))
	if def.Workflow.DependencyPolicy != "" {
		fmt.Printf("  policy:   %s\n", def.Workflow.DependencyPolicy)
	}
	fmt.Println()
}
