package provider

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dop251/goja"

	"agenthub/orchestrator/pkg/logger"
	"agenthub/orchestrator/pkg/types"
)

// DefaultScriptTimeout bounds a single script execution.
const DefaultScriptTimeout = 30 * time.Second

// Script is a capability provider backed by a JavaScript snippet. The script
// sees the task and the workflow context as globals and its completion value
// becomes the result payload. Throwing, or calling fail(), fails the task.
//
// A fresh VM is created per execution; goja runtimes are not safe for
// concurrent use and one provider may back several agents.
type Script struct {
	source  string
	timeout time.Duration
	log     *logger.Logger
}

// NewScript creates a script provider. A non-positive timeout falls back to
// DefaultScriptTimeout.
func NewScript(source string, timeout time.Duration, log *logger.Logger) *Script {
	if timeout <= 0 {
		timeout = DefaultScriptTimeout
	}
	if log == nil {
		log = logger.Default()
	}
	return &Script{source: source, timeout: timeout, log: log}
}

// Execute implements engine.CapabilityProvider.
func (p *Script) Execute(ctx context.Context, task *types.WorkflowTask, wfCtx map[string]any) (*types.ExecutionResult, error) {
	vm := goja.New()
	vm.SetFieldNameMapper(goja.TagFieldNameMapper("json", true))

	if err := p.setupGlobals(vm, task, wfCtx); err != nil {
		return nil, err
	}

	execCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-execCtx.Done():
			vm.Interrupt("script execution timed out")
		case <-done:
		}
	}()

	value, err := vm.RunString(p.source)
	if err != nil {
		if _, interrupted := err.(*goja.InterruptedError); interrupted {
			return nil, fmt.Errorf("script for task %s interrupted: %w", task.ID, execCtx.Err())
		}
		return types.Failure(err.Error()), nil
	}

	var payload any
	if value != nil && !goja.IsUndefined(value) && !goja.IsNull(value) {
		payload = value.Export()
	}
	return types.Success(payload), nil
}

// setupGlobals installs the task view, the workflow context, a console.log
// that forwards to the engine logger, and a fail() helper.
func (p *Script) setupGlobals(vm *goja.Runtime, task *types.WorkflowTask, wfCtx map[string]any) error {
	taskView := map[string]any{
		"id":           task.ID,
		"name":         task.Name,
		"type":         task.Type,
		"capabilities": task.RequiredCapabilities,
		"depends_on":   task.Dependencies,
	}
	if err := vm.Set("task", taskView); err != nil {
		return fmt.Errorf("script setup: %w", err)
	}
	if err := vm.Set("context", wfCtx); err != nil {
		return fmt.Errorf("script setup: %w", err)
	}

	console := vm.NewObject()
	if err := console.Set("log", func(args ...any) {
		p.log.Info("script[%s]: %s", task.ID, strings.TrimSpace(fmt.Sprintln(args...)))
	}); err != nil {
		return fmt.Errorf("script setup: %w", err)
	}
	if err := vm.Set("console", console); err != nil {
		return fmt.Errorf("script setup: %w", err)
	}

	// fail(message) aborts the script and fails the task.
	return vm.Set("fail", func(msg string) {
		panic(vm.ToValue(msg))
	})
}
