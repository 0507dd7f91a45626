// Package main provides the entry point for the orchestrator CLI.
package main

import "agenthub/orchestrator/cmd"

func main() {
	cmd.Execute()
}
