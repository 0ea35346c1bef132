package cli

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/nuthan-ms/depgraph/internal/analyzer"
	"github.com/nuthan-ms/depgraph/internal/config"
	"github.com/nuthan-ms/depgraph/internal/langprovider"
	"github.com/nuthan-ms/depgraph/internal/logx"
	"github.com/nuthan-ms/depgraph/pkg/types"
)

var (
	watchOut      string
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Rebuild the dependency graph on every source change",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd := "."
		if len(args) == 1 {
			cwd = args[0]
		}
		return runWatch(cwd)
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchOut, "out", "", "write each rebuilt graph JSON here instead of stdout")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 300*time.Millisecond, "quiet period after the last event before rebuilding")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cwd string) error {
	logger := newLogger()

	cfg, err := config.Load(cfgFile, watchCmd.Flags())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	provider, err := langprovider.New()
	if err != nil {
		return err
	}
	defer provider.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, cwd); err != nil {
		return fmt.Errorf("watch %s: %w", cwd, err)
	}

	var previous *types.Graph
	build := func() {
		opts := types.BuildOptions{
			Cwd:                  cwd,
			Provider:             provider,
			Config:               cfg.ScanConfig(),
			PreviousGraph:        previous,
			HashSizeEnforcement:  cfg.HashSizePolicy(),
			NodeDescriptionLimit: cfg.NodeDescriptionLimit,
			NodeDescriptionTags:  cfg.NodeDescriptionTags,
			MaxErrors:            cfg.MaxErrors,
		}
		result, err := analyzer.BuildGraph(opts)
		if err != nil {
			logger.Error("rebuild failed", err)
			return
		}
		previous = result.Graph
		logger.Info("rebuilt",
			logx.LogField{Key: "modules", Value: result.Stats.Modules},
			logx.LogField{Key: "dirty", Value: result.Stats.Dirty},
		)
		for _, w := range result.Errors {
			logger.Warn(w)
		}
		if err := writeJSON(watchOut, result); err != nil {
			logger.Error("write result failed", err)
		}
	}

	build()

	var debounceTimer *time.Timer
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("change detected", logx.LogField{Key: "path", Value: event.Name})
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(watchDebounce, build)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watch error", err)
		}
	}
}

// addWatchDirs registers root and every non-hidden subdirectory with
// watcher; fsnotify watches a directory's immediate entries only, not
// its subtree.
func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if name != "." && len(name) > 0 && name[0] == '.' {
			return filepath.SkipDir
		}
		if name == "node_modules" {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
