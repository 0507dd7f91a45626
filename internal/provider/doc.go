// Package provider contains generic capability providers for the workflow
// engine. Domain-specific agent logic lives with the callers; these providers
// exist so workflows defined in YAML or used in tests are executable without
// compiled code.
package provider
