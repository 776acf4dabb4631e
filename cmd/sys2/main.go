// Package main implements the sys2 CLI: a thin command-line wrapper over
// internal/session exposing learn/query/prove/csp, with exit codes per
// spec.md §6.5. The DSL lexer/parser is out of scope (spec.md §1), so
// learn/query/prove here accept a minimal ground-fact line format rather
// than full Sys2DSL source; a session built without a Parser simply can't
// resolve `@_ Load` directives, which this CLI never issues.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"sys2core/internal/config"
)

var (
	configPath string
	basePath   string
	verbose    bool

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "sys2",
	Short: "sys2 — hyperdimensional-computing reasoning runtime",
	Long: `sys2 drives one session of the HDC reasoning runtime: learn ground
facts, query or prove goals against them, and solve constraint-satisfaction
problems over the facts a session has learned.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		} else {
			zcfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		}
		built, err := zcfg.Build()
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}
		logger = built
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a session config YAML file (defaults applied for anything unset)")
	rootCmd.PersistentFlags().StringVar(&basePath, "base-path", "", "base path for resolving theory-file paths (overrides the config file's base_path)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(learnCmd, queryCmd, proveCmd, cspCmd)
}

// loadConfig builds a *config.Config from --config (or the documented
// defaults), applying --base-path last so it always wins.
func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.Load(configPath)
		if err != nil {
			return nil, err
		}
	} else {
		cfg = config.DefaultConfig()
	}
	if basePath != "" {
		cfg.BasePath = basePath
	}
	return cfg, nil
}

func main() {
	err := rootCmd.Execute()
	os.Exit(exitCode(err))
}
