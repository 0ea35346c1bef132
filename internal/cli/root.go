// Package cli is depgraph's Cobra command tree: build, watch, select,
// and init, each a cobra.Command wired to config.Load for its flag set.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nuthan-ms/depgraph/internal/logx"
)

var (
	cfgFile  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "depgraph",
	Short: "Build and query a deterministic, language-aware dependency graph",
	Long: `depgraph scans a repository, resolves each source file's explicit
imports (and, for TS/JS, its re-export forwarding chains) into a
finalized dependency graph, and lets you select a connected subset of
it by closure over include/exclude entries.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a .depgraph.yaml config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "debug, info, warn, or error")
}

// Execute runs the root command, returning the exit code the caller
// should pass to os.Exit.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func newLogger() logx.Logger {
	level := logx.LogLevelInfo
	switch logLevel {
	case "debug":
		level = logx.LogLevelDebug
	case "warn":
		level = logx.LogLevelWarn
	case "error":
		level = logx.LogLevelError
	}
	return logx.NewStdLogger(os.Stderr, level)
}
