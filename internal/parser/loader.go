package parser

import (
	"fmt"
	"time"

	"agenthub/orchestrator/internal/engine"
	"agenthub/orchestrator/internal/provider"
	"agenthub/orchestrator/pkg/logger"
)

// BuildOptions carries engine defaults a definition may override.
type BuildOptions struct {
	// IdleWait is the scheduler loop's idle poll interval.
	IdleWait time.Duration
	// DependencyPolicy applies when the definition sets none.
	DependencyPolicy engine.DependencyPolicy
	// ScriptTimeout applies to script agents that set none.
	ScriptTimeout time.Duration
}

// Build turns a parsed definition into a ready-to-execute engine. Agents with
// a script get a goja-backed provider; the rest get a static one.
func Build(def *Definition, opts *BuildOptions, log *logger.Logger) (*engine.Engine, error) {
	if opts == nil {
		opts = &BuildOptions{}
	}

	config := engine.DefaultConfig()
	config.WorkflowName = def.Workflow.Name
	config.Logger = log
	if opts.IdleWait > 0 {
		config.IdleWait = opts.IdleWait
	}
	if opts.DependencyPolicy != "" {
		config.DependencyPolicy = opts.DependencyPolicy
	}
	if def.Workflow.DependencyPolicy != "" {
		config.DependencyPolicy = engine.DependencyPolicy(def.Workflow.DependencyPolicy)
	}

	eng := engine.New(config)

	for _, agent := range def.Agents {
		var p engine.CapabilityProvider
		if agent.Script != "" {
			timeout := agent.ScriptTimeout.Std()
			if timeout <= 0 {
				timeout = opts.ScriptTimeout
			}
			p = provider.NewScript(agent.Script, timeout, log)
		} else {
			p = &provider.Static{}
		}
		if err := eng.RegisterAgent(agent.ID, agent.Type, agent.Capabilities, p); err != nil {
			return nil, fmt.Errorf("register agent %s: %w", agent.ID, err)
		}
	}

	for _, task := range def.Tasks {
		if err := eng.AddTask(task.ID, task.Name, task.Type, task.Capabilities, task.DependsOn); err != nil {
			return nil, fmt.Errorf("add task %s: %w", task.ID, err)
		}
	}

	return eng, nil
}
