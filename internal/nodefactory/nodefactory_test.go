package nodefactory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuthan-ms/depgraph/pkg/types"
)

func TestMakeNodeOmitsEmptyDescriptionAndMetadata(t *testing.T) {
	n := MakeNode(MakeNodeInput{
		Id:       "src/index.ts",
		Kind:     types.NodeKindSource,
		Language: types.LanguageTS,
	})
	assert.Empty(t, n.Description)
	assert.Nil(t, n.Metadata)
}

func TestMakeNodeKeepsNonEmptyFields(t *testing.T) {
	size := int64(12)
	n := MakeNode(MakeNodeInput{
		Id:          "src/index.ts",
		Kind:        types.NodeKindSource,
		Language:    types.LanguageTS,
		Description: "entry point",
		Metadata:    &types.Metadata{Hash: "abc", Size: &size},
	})
	assert.Equal(t, "entry point", n.Description)
	require.NotNil(t, n.Metadata)
	assert.Equal(t, "abc", n.Metadata.Hash)
}

func TestLanguageFromExtension(t *testing.T) {
	cases := map[string]types.Language{
		"a.ts":    types.LanguageTS,
		"a.d.ts":  types.LanguageTS,
		"a.tsx":   types.LanguageTS,
		"a.js":    types.LanguageJS,
		"a.jsx":   types.LanguageJS,
		"a.json":  types.LanguageJSON,
		"a.md":    types.LanguageMD,
		"a.css":   types.LanguageOther,
		"A.TS":    types.LanguageTS,
	}
	for path, want := range cases {
		assert.Equal(t, want, LanguageFromExtension(path), path)
	}
}

func TestMakeHashedFileNodeInsideRoot(t *testing.T) {
	root := t.TempDir()
	abs := filepath.Join(root, "src", "index.ts")
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
	require.NoError(t, os.WriteFile(abs, []byte("export {}"), 0o644))

	node, ok := MakeHashedFileNode(MakeHashedFileNodeInput{AbsPath: abs, Cwd: root, Kind: types.NodeKindSource})
	require.True(t, ok)
	assert.Equal(t, types.NodeId("src/index.ts"), node.Id)
	assert.Equal(t, types.LanguageTS, node.Language)
	require.NotNil(t, node.Metadata)
	assert.NotEmpty(t, node.Metadata.Hash)
	require.NotNil(t, node.Metadata.Size)
	assert.Equal(t, int64(9), *node.Metadata.Size)
	assert.False(t, node.Metadata.IsOutsideRoot)
}

func TestMakeHashedFileNodeOutsideRoot(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	abs := filepath.Join(outside, "lib.ts")
	require.NoError(t, os.WriteFile(abs, []byte("export {}"), 0o644))

	node, ok := MakeHashedFileNode(MakeHashedFileNodeInput{AbsPath: abs, Cwd: root, Kind: types.NodeKindExternal})
	require.True(t, ok)
	require.NotNil(t, node.Metadata)
	assert.True(t, node.Metadata.IsOutsideRoot)
}

func TestMakeHashedFileNodeMissingFile(t *testing.T) {
	root := t.TempDir()
	_, ok := MakeHashedFileNode(MakeHashedFileNodeInput{AbsPath: filepath.Join(root, "gone.ts"), Cwd: root, Kind: types.NodeKindSource})
	assert.False(t, ok)
}
