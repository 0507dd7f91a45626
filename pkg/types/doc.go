// Package types defines the core data structures for the multi-agent
// workflow orchestrator: tasks, agents, workflows and execution reports.
package types
