package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuthan-ms/depgraph/pkg/types"
)

func TestLoadDefaultsWithNoConfigFile(t *testing.T) {
	dir := t.TempDir()
	cwd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(cwd) })

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "warn", cfg.HashSizeEnforcement)
	assert.Equal(t, 50, cfg.MaxErrors)
	assert.Equal(t, 10, cfg.SelectionMaxTop)
}

func TestLoadReadsExplicitConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hash_size_enforcement: error\nmax_errors: 5\nincludes:\n  - \"src/**\"\n"), 0o644))

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.HashSizeEnforcement)
	assert.Equal(t, 5, cfg.MaxErrors)
	assert.Equal(t, []string{"src/**"}, cfg.Includes)
}

func TestHashSizePolicyFallsBackToWarn(t *testing.T) {
	cfg := Config{HashSizeEnforcement: "not-a-real-policy"}
	assert.Equal(t, types.HashSizeWarn, cfg.HashSizePolicy())
}

func TestHashSizePolicyRecognizesErrorAndIgnore(t *testing.T) {
	assert.Equal(t, types.HashSizeError, Config{HashSizeEnforcement: "error"}.HashSizePolicy())
	assert.Equal(t, types.HashSizeIgnore, Config{HashSizeEnforcement: "ignore"}.HashSizePolicy())
}

func TestSelectionOptionsTranslatesDropKinds(t *testing.T) {
	cfg := Defaults()
	opts := cfg.SelectionOptions()
	assert.Equal(t, []types.NodeKind{types.NodeKindBuiltin, types.NodeKindMissing}, opts.DropNodeKinds)
	assert.Equal(t, 10, opts.MaxTop)
	assert.Equal(t, types.HashSizeWarn, opts.HashSizeEnforcement)
}

func TestScanConfigTranslation(t *testing.T) {
	cfg := Config{Includes: []string{"a/**"}, Excludes: []string{"b/**"}}
	sc := cfg.ScanConfig()
	assert.Equal(t, []string{"a/**"}, sc.Includes)
	assert.Equal(t, []string{"b/**"}, sc.Excludes)
}
