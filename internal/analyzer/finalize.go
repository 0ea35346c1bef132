package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nuthan-ms/depgraph/internal/depgrapherrors"
	"github.com/nuthan-ms/depgraph/pkg/types"
)

// finalize normalizes every node, sorts node keys,
// and dedupe+sort every node's edge list, including nodes with no
// recorded outgoing edges.
func finalize(nodes map[types.NodeId]*types.Node, rawEdges map[types.NodeId][]types.Edge) *types.Graph {
	g := types.NewGraph()

	for id, n := range nodes {
		g.Nodes[id] = normalizeNode(n)
	}
	for id := range nodes {
		g.Edges[id] = dedupeSortEdges(rawEdges[id])
	}

	return g
}

// normalizeNode trims an empty description and drops an empty metadata
// object; Metadata's own struct field order already matches the
// canonical hash/isOutsideRoot/size key order the graph requires.
func normalizeNode(n *types.Node) *types.Node {
	out := &types.Node{
		Id:          n.Id,
		Kind:        n.Kind,
		Language:    n.Language,
		Description: strings.TrimSpace(n.Description),
	}
	if n.Metadata != nil && !n.Metadata.IsEmpty() {
		md := *n.Metadata
		out.Metadata = &md
	}
	return out
}

func edgeKey(e types.Edge) string {
	return string(e.Target) + "\x00" + string(e.Kind) + "\x00" + string(e.Resolution)
}

func dedupeSortEdges(edges []types.Edge) []types.Edge {
	if len(edges) == 0 {
		return []types.Edge{}
	}
	seen := make(map[string]bool, len(edges))
	out := make([]types.Edge, 0, len(edges))
	for _, e := range edges {
		k := edgeKey(e)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// hashedWithoutSize collects, in ascending id order, every source/
// external node carrying a hash but no size — the offender set the
// invariant checker and the selection summarizer both define identically.
func hashedWithoutSize(g *types.Graph) []string {
	var offenders []string
	for id, n := range g.Nodes {
		if n.Kind != types.NodeKindSource && n.Kind != types.NodeKindExternal {
			continue
		}
		if n.Metadata != nil && n.Metadata.Hash != "" && n.Metadata.Size == nil {
			offenders = append(offenders, string(id))
		}
	}
	sort.Strings(offenders)
	return offenders
}

// checkInvariants enforces the hash/size metadata invariant.
func checkInvariants(g *types.Graph, policy types.HashSizeEnforcement) ([]string, error) {
	if policy == types.HashSizeIgnore {
		return nil, nil
	}

	offenders := hashedWithoutSize(g)
	if len(offenders) == 0 {
		return nil, nil
	}

	if policy == types.HashSizeError {
		shown := offenders
		if len(shown) > 10 {
			shown = shown[:10]
		}
		return nil, &depgrapherrors.MetadataInvariantError{Count: len(offenders), Ids: shown}
	}

	warnings := make([]string, len(offenders))
	for i, id := range offenders {
		warnings[i] = fmt.Sprintf("warning: metadata.size missing for hashed node %s", id)
	}
	return warnings, nil
}

// capErrors truncates the error list once it exceeds MaxErrors.
func capErrors(errors []string, max int) []string {
	if max < 0 {
		return errors
	}
	if max == 0 {
		return nil
	}
	if len(errors) <= max {
		return errors
	}
	if max == 1 {
		return []string{fmt.Sprintf("errors truncated: %d total", len(errors))}
	}
	shown := max - 1
	out := make([]string, 0, max)
	out = append(out, errors[:shown]...)
	out = append(out, fmt.Sprintf("errors truncated: showing %d of %d", shown, len(errors)))
	return out
}
