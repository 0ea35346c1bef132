package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default .depgraph.yaml in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		return initializeProject()
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing .depgraph.yaml")
}

const defaultConfigYAML = `# depgraph configuration.
# hash_size_enforcement controls how a hashed node missing its size is
# treated: warn (default), error, or ignore.
hash_size_enforcement: warn

# max_errors caps the number of warning/error strings a build returns.
max_errors: 50

# selection_max_top caps the "largest" ranking a selection summary
# returns; 0 disables the ranking entirely.
selection_max_top: 10

# selection_drop_kinds lists node kinds excluded from every selection
# result before size aggregation.
selection_drop_kinds:
  - builtin
  - missing

# includes/excludes are POSIX glob patterns layered on top of the
# scanner's built-in excludes (.git/ and node_modules/) and .gitignore.
includes: []
excludes: []
`

func initializeProject() error {
	configFile := ".depgraph.yaml"

	if _, err := os.Stat(configFile); err == nil && !initForce {
		return fmt.Errorf("%s already exists; use --force to overwrite", configFile)
	}

	if err := os.WriteFile(configFile, []byte(defaultConfigYAML), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", configFile, err)
	}

	fmt.Printf("wrote %s\n", configFile)
	fmt.Println("next: depgraph build")
	return nil
}
