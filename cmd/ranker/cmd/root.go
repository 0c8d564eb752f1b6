// Package cmd provides the CLI commands for the ranker.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mwmbl/ranker/internal/config"
	"github.com/mwmbl/ranker/internal/logging"
	"github.com/mwmbl/ranker/pkg/version"
)

var (
	debugMode      bool
	loggingCleanup func()
)

// NewRootCmd creates the root command for the ranker CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ranker",
		Short: "Re-ranked lexical web search",
		Long: `ranker re-orders web search results from a remote lexical engine.

It derives fan-out terms from your query, issues one search per term,
deduplicates the combined hits, and ranks them against the original
query - usually a better ordering than the engine's own.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.SetVersionTemplate("ranker version {{.Version}}\n")
	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.ranker/logs/")
	cmd.PersistentPreRunE = setupLogging
	cmd.PersistentPostRun = func(*cobra.Command, []string) {
		if loggingCleanup != nil {
			loggingCleanup()
		}
	}

	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newTermsCmd())
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}

// setupLogging routes logs to the rotating file so stdout stays clean.
func setupLogging(*cobra.Command, []string) error {
	logCfg := logging.DefaultConfig()
	if cfg, err := config.Load(); err == nil {
		if cfg.Logging.Level != "" {
			logCfg.Level = cfg.Logging.Level
		}
		if cfg.Logging.FilePath != "" {
			logCfg.FilePath = cfg.Logging.FilePath
		}
	}
	if debugMode {
		logCfg.Level = "debug"
	}
	_, cleanup, err := logging.Setup(logCfg)
	if err != nil {
		// Logging is best-effort for a CLI; warn and continue.
		fmt.Fprintf(os.Stderr, "logging setup failed: %v\n", err)
		return nil
	}
	loggingCleanup = cleanup
	return nil
}

// loadConfig loads configuration with env overrides applied.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}
