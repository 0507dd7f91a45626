// Package file provides a reporter that writes workflow reports to a JSON
// file.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ohler55/ojg/oj"
	"github.com/ohler55/ojg/pretty"

	"agenthub/orchestrator/pkg/types"
)

// JSONConfig holds configuration for the JSON reporter.
type JSONConfig struct {
	// FilePath is the output file path.
	FilePath string
	// Pretty enables indented output.
	Pretty bool
}

// DefaultJSONConfig returns the default JSON reporter configuration.
func DefaultJSONConfig() *JSONConfig {
	return &JSONConfig{
		FilePath: "report.json",
		Pretty:   true,
	}
}

// JSONReporter writes each workflow report to a file, overwriting the
// previous run's report.
type JSONReporter struct {
	config *JSONConfig
}

// NewJSON creates a JSON reporter with the given config; nil means defaults.
func NewJSON(config *JSONConfig) *JSONReporter {
	if config == nil {
		config = DefaultJSONConfig()
	}
	return &JSONReporter{config: config}
}

// Name implements reporter.Reporter.
func (r *JSONReporter) Name() string { return "json" }

// Init implements reporter.Reporter.
func (r *JSONReporter) Init(_ context.Context, config map[string]any) error {
	if path, ok := config["file_path"].(string); ok && path != "" {
		r.config.FilePath = path
	}
	if p, ok := config["pretty"].(bool); ok {
		r.config.Pretty = p
	}

	if dir := filepath.Dir(r.config.FilePath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}
	return nil
}

// Report implements reporter.Reporter.
func (r *JSONReporter) Report(_ context.Context, report *types.WorkflowReport) error {
	var data []byte
	if r.config.Pretty {
		data = []byte(pretty.JSON(report))
	} else {
		marshaled, err := oj.Marshal(report)
		if err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		data = marshaled
	}

	if err := os.WriteFile(r.config.FilePath, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write report file: %w", err)
	}
	return nil
}

// Close implements reporter.Reporter.
func (r *JSONReporter) Close(context.Context) error { return nil }
