package reporter

import (
	"agenthub/orchestrator/internal/reporter/console"
	"agenthub/orchestrator/internal/reporter/file"
	"agenthub/orchestrator/internal/reporter/webhook"
)

// RegisterBuiltin registers all built-in reporter factories.
func RegisterBuiltin(registry *Registry) error {
	if err := registry.Register(TypeConsole, func(map[string]any) (Reporter, error) {
		return console.New(nil), nil
	}); err != nil {
		return err
	}
	if err := registry.Register(TypeJSON, func(map[string]any) (Reporter, error) {
		return file.NewJSON(nil), nil
	}); err != nil {
		return err
	}
	return registry.Register(TypeWebhook, func(map[string]any) (Reporter, error) {
		return webhook.New(nil), nil
	})
}

// NewDefaultRegistry creates a registry with all built-in reporters.
func NewDefaultRegistry() (*Registry, error) {
	registry := NewRegistry()
	if err := RegisterBuiltin(registry); err != nil {
		return nil, err
	}
	return registry, nil
}
