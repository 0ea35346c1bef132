package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuthan-ms/depgraph/pkg/types"
)

func writeProjectFiles(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "main.go"),
		[]byte("package main\n\nimport \"fmt\"\n\nfunc main() { fmt.Println(\"hi\") }\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.js"),
		[]byte("const x = require('./util');\nconsole.log(x);\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "util.js"),
		[]byte("module.exports = 1;\n"), 0o644))
	return root
}

func execRoot(t *testing.T, args ...string) error {
	t.Helper()
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func TestBuildCommandWritesGraphJSON(t *testing.T) {
	root := writeProjectFiles(t)
	out := filepath.Join(t.TempDir(), "graph.json")

	require.NoError(t, execRoot(t, "build", root, "--out", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var result types.BuildResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.NotNil(t, result.Graph)
	assert.GreaterOrEqual(t, result.Stats.Modules, 3)
}

func TestSelectCommandSummarizesBuiltGraph(t *testing.T) {
	root := writeProjectFiles(t)
	graphPath := filepath.Join(t.TempDir(), "graph.json")
	require.NoError(t, execRoot(t, "build", root, "--out", graphPath))

	buildData, err := os.ReadFile(graphPath)
	require.NoError(t, err)
	var result types.BuildResult
	require.NoError(t, json.Unmarshal(buildData, &result))

	summaryOnlyGraphPath := filepath.Join(t.TempDir(), "only-graph.json")
	graphData, err := json.Marshal(result.Graph)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(summaryOnlyGraphPath, graphData, 0o644))

	var includeId types.NodeId
	for id, n := range result.Graph.Nodes {
		if n.Kind == types.NodeKindSource {
			includeId = id
			break
		}
	}
	require.NotEmpty(t, includeId)

	out := filepath.Join(t.TempDir(), "summary.json")
	require.NoError(t, execRoot(t, "select",
		"--graph", summaryOnlyGraphPath,
		"--include", `"`+string(includeId)+`"`,
		"--out", out,
	))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	var summary types.SelectionSummary
	require.NoError(t, json.Unmarshal(data, &summary))
	assert.Contains(t, summary.SelectedNodeIds, includeId)
}

func TestInitCommandWritesDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	require.NoError(t, execRoot(t, "init"))

	data, err := os.ReadFile(".depgraph.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "hash_size_enforcement")

	err = execRoot(t, "init")
	assert.Error(t, err)

	require.NoError(t, execRoot(t, "init", "--force"))
}
