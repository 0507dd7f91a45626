// Package reporter provides the report sink framework for the orchestrator:
// a Reporter interface, a factory registry and a manager that fans a final
// workflow report out to every configured sink.
package reporter

import (
	"context"
	"fmt"
	"sync"

	"agenthub/orchestrator/pkg/types"
)

// Reporter is one report sink.
type Reporter interface {
	// Name returns the reporter name.
	Name() string

	// Init initializes the reporter with its configuration map.
	Init(ctx context.Context, config map[string]any) error

	// Report delivers one final workflow report.
	Report(ctx context.Context, report *types.WorkflowReport) error

	// Close releases resources held by the reporter.
	Close(ctx context.Context) error
}

// Type identifies a reporter implementation.
type Type string

const (
	// TypeConsole prints a human-readable summary to stdout.
	TypeConsole Type = "console"
	// TypeJSON writes the report to a JSON file.
	TypeJSON Type = "json"
	// TypeWebhook posts the report to an HTTP endpoint.
	TypeWebhook Type = "webhook"
)

// Factory creates a reporter of a specific type.
type Factory func(config map[string]any) (Reporter, error)

// Registry manages reporter factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[Type]Factory
}

// NewRegistry creates an empty reporter registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[Type]Factory)}
}

// Register adds a factory for the given type.
func (r *Registry) Register(reporterType Type, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[reporterType]; exists {
		return fmt.Errorf("reporter type already registered: %s", reporterType)
	}
	r.factories[reporterType] = factory
	return nil
}

// Create builds a reporter of the given type.
func (r *Registry) Create(reporterType Type, config map[string]any) (Reporter, error) {
	r.mu.RLock()
	factory, exists := r.factories[reporterType]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unknown reporter type: %s", reporterType)
	}
	return factory(config)
}

// Manager fans one report out to a set of reporters.
type Manager struct {
	mu        sync.Mutex
	registry  *Registry
	reporters []Reporter
}

// NewManager creates a manager over the given registry.
func NewManager(registry *Registry) *Manager {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Manager{registry: registry}
}

// Add appends an already-built reporter.
func (m *Manager) Add(reporter Reporter) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reporters = append(m.reporters, reporter)
}

// AddFromConfig creates, initializes and appends a reporter.
func (m *Manager) AddFromConfig(ctx context.Context, reporterType Type, config map[string]any) error {
	reporter, err := m.registry.Create(reporterType, config)
	if err != nil {
		return err
	}
	if err := reporter.Init(ctx, config); err != nil {
		return fmt.Errorf("init reporter %s: %w", reporter.Name(), err)
	}
	m.Add(reporter)
	return nil
}

// Report delivers the report to every reporter. Sinks fail independently;
// all errors are collected.
func (m *Manager) Report(ctx context.Context, report *types.WorkflowReport) error {
	m.mu.Lock()
	reporters := make([]Reporter, len(m.reporters))
	copy(reporters, m.reporters)
	m.mu.Unlock()

	var errs []error
	for _, reporter := range reporters {
		if err := reporter.Report(ctx, report); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", reporter.Name(), err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("report delivery: %v", errs)
	}
	return nil
}

// Close closes every reporter.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	reporters := make([]Reporter, len(m.reporters))
	copy(reporters, m.reporters)
	m.mu.Unlock()

	var errs []error
	for _, reporter := range reporters {
		if err := reporter.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", reporter.Name(), err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("reporter close: %v", errs)
	}
	return nil
}
