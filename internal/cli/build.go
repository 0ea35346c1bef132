package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nuthan-ms/depgraph/internal/analyzer"
	"github.com/nuthan-ms/depgraph/internal/config"
	"github.com/nuthan-ms/depgraph/internal/langprovider"
	"github.com/nuthan-ms/depgraph/internal/logx"
	"github.com/nuthan-ms/depgraph/pkg/types"
)

var (
	buildOut           string
	buildPreviousGraph string
)

var buildCmd = &cobra.Command{
	Use:   "build [dir]",
	Short: "Scan a directory and build its dependency graph",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd := "."
		if len(args) == 1 {
			cwd = args[0]
		}
		return runBuild(cwd)
	},
}

func init() {
	buildCmd.Flags().StringVar(&buildOut, "out", "", "write the graph JSON here instead of stdout")
	buildCmd.Flags().StringVar(&buildPreviousGraph, "previous", "", "path to a prior build's graph JSON, for incremental reuse")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cwd string) error {
	logger := newLogger()

	cfg, err := config.Load(cfgFile, buildCmd.Flags())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	provider, err := langprovider.New()
	if err != nil {
		return err
	}
	defer provider.Close()

	var previous *types.Graph
	if buildPreviousGraph != "" {
		previous, err = loadGraph(buildPreviousGraph)
		if err != nil {
			return fmt.Errorf("load previous graph: %w", err)
		}
	}

	opts := types.BuildOptions{
		Cwd:                  cwd,
		Provider:             provider,
		Config:               cfg.ScanConfig(),
		PreviousGraph:        previous,
		HashSizeEnforcement:  cfg.HashSizePolicy(),
		NodeDescriptionLimit: cfg.NodeDescriptionLimit,
		NodeDescriptionTags:  cfg.NodeDescriptionTags,
		MaxErrors:            cfg.MaxErrors,
		ProgressCallback: func(status string) {
			logger.Debug(status)
		},
	}

	result, err := analyzer.BuildGraph(opts)
	if err != nil {
		return fmt.Errorf("build graph: %w", err)
	}

	logger.Info("build complete",
		logx.LogField{Key: "modules", Value: result.Stats.Modules},
		logx.LogField{Key: "edges", Value: result.Stats.Edges},
		logx.LogField{Key: "dirty", Value: result.Stats.Dirty},
	)
	for _, w := range result.Errors {
		logger.Warn(w)
	}

	return writeJSON(buildOut, result)
}

func loadGraph(path string) (*types.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	graph := types.NewGraph()
	if err := json.Unmarshal(data, graph); err != nil {
		return nil, err
	}
	return graph, nil
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	data = append(data, '\n')
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
