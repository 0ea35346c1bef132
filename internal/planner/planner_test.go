package planner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuthan-ms/depgraph/internal/hashutil"
	"github.com/nuthan-ms/depgraph/pkg/types"
)

func hashedNode(hash string, kind types.NodeKind) *types.Node {
	size := int64(len(hash))
	return &types.Node{
		Kind:     kind,
		Language: types.LanguageTS,
		Metadata: &types.Metadata{Hash: hash, Size: &size},
	}
}

func TestComputeNoPreviousGraphMarksEverythingDirty(t *testing.T) {
	analyzable := map[types.NodeId]bool{"a.ts": true, "b.ts": true}
	plan := Compute("/repo", analyzable, nil, nil)

	assert.True(t, plan.DirtySourceIds["a.ts"])
	assert.True(t, plan.DirtySourceIds["b.ts"])
	assert.Empty(t, plan.ReusedEdgesBySource)
	assert.Empty(t, plan.CarriedNodes)
}

func TestComputeReusesCleanEdges(t *testing.T) {
	root := t.TempDir()
	aAbs := filepath.Join(root, "a.ts")
	require.NoError(t, os.WriteFile(aAbs, []byte("x"), 0o644))

	prev := types.NewGraph()
	prev.Nodes["a.ts"] = hashedNode(hashOf(t, aAbs), types.NodeKindSource)
	prev.Nodes["b.ts"] = &types.Node{Kind: types.NodeKindExternal, Language: types.LanguageTS}
	prev.Edges["a.ts"] = []types.Edge{{Target: "b.ts", Kind: types.EdgeKindRuntime, Resolution: types.EdgeResolutionExplicit}}

	analyzable := map[types.NodeId]bool{"a.ts": true}
	current := map[types.NodeId]*types.Node{
		"a.ts": hashedNode(hashOf(t, aAbs), types.NodeKindSource),
	}

	plan := Compute(root, analyzable, current, prev)

	assert.False(t, plan.DirtySourceIds["a.ts"])
	require.Contains(t, plan.ReusedEdgesBySource, types.NodeId("a.ts"))
	assert.Equal(t, types.NodeId("b.ts"), plan.ReusedEdgesBySource["a.ts"][0].Target)
	assert.Contains(t, plan.CarriedNodes, types.NodeId("b.ts"))
}

func TestComputeHashMismatchMarksDirtyViaReverseDeps(t *testing.T) {
	root := t.TempDir()
	bAbs := filepath.Join(root, "b.ts")
	require.NoError(t, os.WriteFile(bAbs, []byte("new content"), 0o644))

	prev := types.NewGraph()
	prev.Nodes["a.ts"] = &types.Node{Kind: types.NodeKindSource, Language: types.LanguageTS}
	prev.Nodes["b.ts"] = hashedNode("stale-hash", types.NodeKindSource)
	prev.Edges["a.ts"] = []types.Edge{{Target: "b.ts", Kind: types.EdgeKindRuntime, Resolution: types.EdgeResolutionExplicit}}

	analyzable := map[types.NodeId]bool{"a.ts": true, "b.ts": true}
	current := map[types.NodeId]*types.Node{
		"a.ts": {Kind: types.NodeKindSource, Language: types.LanguageTS},
		"b.ts": hashedNode(hashOf(t, bAbs), types.NodeKindSource),
	}

	plan := Compute(root, analyzable, current, prev)

	assert.True(t, plan.DirtySourceIds["a.ts"])
	assert.True(t, plan.DirtySourceIds["b.ts"])
}

func TestComputeDeletedSourceMarksDependentsDirty(t *testing.T) {
	prev := types.NewGraph()
	prev.Nodes["a.ts"] = &types.Node{Kind: types.NodeKindSource, Language: types.LanguageTS}
	prev.Nodes["b.ts"] = &types.Node{Kind: types.NodeKindSource, Language: types.LanguageTS}
	prev.Edges["a.ts"] = []types.Edge{{Target: "b.ts", Kind: types.EdgeKindRuntime, Resolution: types.EdgeResolutionExplicit}}

	analyzable := map[types.NodeId]bool{"a.ts": true}
	current := map[types.NodeId]*types.Node{}

	plan := Compute(t.TempDir(), analyzable, current, prev)

	assert.True(t, plan.DirtySourceIds["a.ts"])
}

func hashOf(t *testing.T, absPath string) string {
	t.Helper()
	res, err := hashutil.HashFile(absPath)
	require.NoError(t, err)
	return res.HashHex
}
