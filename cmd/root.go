// Package cmd implements the orchestrator command-line interface.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"agenthub/orchestrator/internal/config"
	"agenthub/orchestrator/pkg/logger"
)

// Version is the current release version.
const Version = "0.1.0"

var (
	cfgFile string
	debug   bool
	quiet   bool
)

var rootCmd = &cobra.Command{
	Use:   "orchestrator",
	Short: "Multi-agent workflow orchestrator",
	Long: `orchestrator executes dependency-aware task workflows over a pool of
capability-matched agents. Tasks whose dependencies are satisfied run
concurrently in rounds; each task is routed to the eligible agent with the
best success rate.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a configuration file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "only log warnings and errors")

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

// loadConfig applies the global flags on top of the file/env configuration.
func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}

	log := logger.New(logger.ParseLevel(cfg.Logging.Level), os.Stderr)
	if quiet {
		log.SetLevel(logger.LevelWarn)
	}
	if debug {
		log.SetLevel(logger.LevelDebug)
	}
	return cfg, log, nil
}
