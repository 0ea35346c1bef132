package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuthan-ms/depgraph/pkg/types"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
}

func TestScanBaseEnumerationExcludesGitAndNodeModules(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/index.ts", "export {}")
	writeFile(t, root, ".git/HEAD", "ref: refs/heads/main")
	writeFile(t, root, "node_modules/left-pad/index.js", "module.exports = {}")

	paths, err := Scan(root, types.ScanConfig{})
	require.NoError(t, err)

	assert.Contains(t, paths, "src/index.ts")
	assert.NotContains(t, paths, ".git/HEAD")
	assert.NotContains(t, paths, "node_modules/left-pad/index.js")
}

func TestScanGitignoreIsRespected(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "dist/\n*.log\n")
	writeFile(t, root, "src/index.ts", "export {}")
	writeFile(t, root, "dist/index.js", "ignored")
	writeFile(t, root, "debug.log", "ignored")

	paths, err := Scan(root, types.ScanConfig{})
	require.NoError(t, err)

	assert.Contains(t, paths, "src/index.ts")
	assert.NotContains(t, paths, "dist/index.js")
	assert.NotContains(t, paths, "debug.log")
}

func TestScanIncludeOverridesGitignore(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, ".gitignore", "dist/\n")
	writeFile(t, root, "dist/keep.js", "kept")

	paths, err := Scan(root, types.ScanConfig{Includes: []string{"dist/keep.js"}})
	require.NoError(t, err)

	assert.Contains(t, paths, "dist/keep.js")
}

func TestScanExcludeOverridesInclude(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/index.ts", "export {}")

	paths, err := Scan(root, types.ScanConfig{
		Includes: []string{"src/index.ts"},
		Excludes: []string{"src/index.ts"},
	})
	require.NoError(t, err)

	assert.NotContains(t, paths, "src/index.ts")
}

func TestScanIncludeReadmitsNodeModules(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "node_modules/left-pad/index.js", "module.exports = {}")

	paths, err := Scan(root, types.ScanConfig{Includes: []string{"node_modules/left-pad/index.js"}})
	require.NoError(t, err)

	assert.Contains(t, paths, "node_modules/left-pad/index.js")
}

func TestScanResultIsSortedAndDeduplicated(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "b.ts", "export {}")
	writeFile(t, root, "a.ts", "export {}")

	paths, err := Scan(root, types.ScanConfig{Includes: []string{"a.ts", "**/*"}})
	require.NoError(t, err)

	require.Len(t, paths, 2)
	assert.Equal(t, []string{"a.ts", "b.ts"}, paths)
}

func TestScanMissingGitignoreIsTreatedAsEmpty(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/index.ts", "export {}")

	paths, err := Scan(root, types.ScanConfig{})
	require.NoError(t, err)
	assert.Contains(t, paths, "src/index.ts")
}
