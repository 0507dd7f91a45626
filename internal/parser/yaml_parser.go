// Package parser reads multi-agent workflow definitions from YAML: the
// workflow name, the agent pool and the task graph in one document.
package parser

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"agenthub/orchestrator/pkg/types"
)

// Definition is a parsed workflow definition.
type Definition struct {
	Workflow WorkflowDef `yaml:"workflow" json:"workflow"`
	Agents   []AgentDef  `yaml:"agents" json:"agents"`
	Tasks    []TaskDef   `yaml:"tasks" json:"tasks"`
}

// WorkflowDef holds workflow-level settings.
type WorkflowDef struct {
	Name string `yaml:"name" json:"name"`
	// DependencyPolicy is "wait" or "propagate"; empty means wait.
	DependencyPolicy string `yaml:"dependency_policy,omitempty" json:"dependency_policy,omitempty"`
	// Context is the context map handed unchanged to every provider.
	Context map[string]any `yaml:"context,omitempty" json:"context,omitempty"`
}

// AgentDef declares one worker agent. When Script is set the agent executes
// it per task; otherwise the agent returns a canned payload.
type AgentDef struct {
	ID            string        `yaml:"id" json:"id"`
	Type          string        `yaml:"type" json:"type"`
	Capabilities  []string      `yaml:"capabilities" json:"capabilities"`
	Script        string        `yaml:"script,omitempty" json:"script,omitempty"`
	ScriptTimeout types.Duration `yaml:"script_timeout,omitempty" json:"script_timeout,omitempty"`
}

// TaskDef declares one task node.
type TaskDef struct {
	ID           string   `yaml:"id" json:"id"`
	Name         string   `yaml:"name" json:"name"`
	Type         string   `yaml:"type" json:"type"`
	Capabilities []string `yaml:"capabilities" json:"capabilities"`
	DependsOn    []string `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`
}

// YAMLParser parses workflow definitions from YAML.
type YAMLParser struct{}

// NewYAMLParser creates a new YAMLParser.
func NewYAMLParser() *YAMLParser {
	return &YAMLParser{}
}

// Parse parses a workflow definition from bytes.
func (p *YAMLParser) Parse(data []byte) (*Definition, error) {
	var def Definition

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Strict mode: error on unknown fields

	if err := decoder.Decode(&def); err != nil {
		return nil, NewParseError(err.Error(), err)
	}

	if err := Validate(&def); err != nil {
		return nil, err
	}
	return &def, nil
}

// ParseFile parses a workflow definition from a file.
func (p *YAMLParser) ParseFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewParseError(fmt.Sprintf("failed to read file: %s", path), err)
	}
	return p.Parse(data)
}

// Validate checks a definition for the problems that would otherwise only
// surface as a silently stalled run: missing IDs, duplicate IDs, tasks with
// no capabilities and dependencies on undeclared tasks.
func Validate(def *Definition) error {
	if def.Workflow.Name == "" {
		return NewValidationError("workflow.name", "workflow name is required")
	}
	switch def.Workflow.DependencyPolicy {
	case "", "wait", "propagate":
	default:
		return NewValidationError("workflow.dependency_policy",
			fmt.Sprintf("unknown policy %q, expected wait or propagate", def.Workflow.DependencyPolicy))
	}

	if len(def.Agents) == 0 {
		return NewValidationError("agents", "at least one agent is required")
	}
	agentIDs := make(map[string]bool, len(def.Agents))
	for i, agent := range def.Agents {
		field := fmt.Sprintf("agents[%d]", i)
		if agent.ID == "" {
			return NewValidationError(field+".id", "agent ID is required")
		}
		if agentIDs[agent.ID] {
			return NewValidationError(field+".id", fmt.Sprintf("duplicate agent ID: %s", agent.ID))
		}
		agentIDs[agent.ID] = true
		if len(agent.Capabilities) == 0 {
			return NewValidationError(field+".capabilities", "agent declares no capabilities")
		}
	}

	if len(def.Tasks) == 0 {
		return NewValidationError("tasks", "at least one task is required")
	}
	taskIDs := make(map[string]bool, len(def.Tasks))
	for i, task := range def.Tasks {
		field := fmt.Sprintf("tasks[%d]", i)
		if task.ID == "" {
			return NewValidationError(field+".id", "task ID is required")
		}
		if taskIDs[task.ID] {
			return NewValidationError(field+".id", fmt.Sprintf("duplicate task ID: %s", task.ID))
		}
		taskIDs[task.ID] = true
		if len(task.Capabilities) == 0 {
			return NewValidationError(field+".capabilities", "task requires no capabilities and would never be routed")
		}
	}

	for i, task := range def.Tasks {
		for _, dep := range task.DependsOn {
			if !taskIDs[dep] {
				return NewValidationError(fmt.Sprintf("tasks[%d].depends_on", i),
					fmt.Sprintf("task %s depends on undeclared task %s", task.ID, dep))
			}
			if dep == task.ID {
				return NewValidationError(fmt.Sprintf("tasks[%d].depends_on", i),
					fmt.Sprintf("task %s depends on itself", task.ID))
			}
		}
	}

	return nil
}
