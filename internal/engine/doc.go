// Package engine implements the multi-agent workflow engine: a task graph
// with dependency-based readiness, a capability-indexed agent registry, an
// agent matcher with atomic reservation, a concurrent round dispatcher, and
// the scheduler loop that drives a workflow to completion or detects that it
// has stalled.
package engine
