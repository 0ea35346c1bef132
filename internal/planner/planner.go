// Package planner implements the incremental
// re-analysis planner. Grounded on the reverse-edge BFS in
// 1homsi-gorisk/internal/impact/impact.go's Compute and the
// ReverseEdges construction in 1homsi-gorisk/internal/graph/graph.go,
// generalized from that package's blast-radius query to a dirty-set
// closure over source nodes that must be re-analyzed.
package planner

import (
	"github.com/nuthan-ms/depgraph/internal/hashutil"
	"github.com/nuthan-ms/depgraph/internal/pathutil"
	"github.com/nuthan-ms/depgraph/pkg/types"
)

// Plan is the output of Compute.
type Plan struct {
	DirtySourceIds    map[types.NodeId]bool
	ReusedEdgesBySource map[types.NodeId][]types.Edge
	CarriedNodes      map[types.NodeId]*types.Node
	ChangedNodeIds    map[types.NodeId]bool
}

func newPlan() *Plan {
	return &Plan{
		DirtySourceIds:      make(map[types.NodeId]bool),
		ReusedEdgesBySource: make(map[types.NodeId][]types.Edge),
		CarriedNodes:        make(map[types.NodeId]*types.Node),
		ChangedNodeIds:       make(map[types.NodeId]bool),
	}
}

// Compute diffs currentNodes against previousGraph and returns the
// incremental work plan.
func Compute(cwd string, analyzableSourceIds map[types.NodeId]bool, currentNodes map[types.NodeId]*types.Node, previousGraph *types.Graph) *Plan {
	plan := newPlan()

	if previousGraph == nil {
		for id := range analyzableSourceIds {
			plan.DirtySourceIds[id] = true
		}
		return plan
	}

	rev := reverseIndex(previousGraph)
	changed := map[types.NodeId]bool{}

	for id, node := range currentNodes {
		if !isHashComparable(node) {
			continue
		}
		prevHash, hadPrev := previousHash(previousGraph, id)
		if !hadPrev || prevHash != node.Metadata.Hash {
			changed[id] = true
		}
	}

	for id, prevNode := range previousGraph.Nodes {
		if prevNode.Kind != types.NodeKindSource {
			continue
		}
		if _, ok := currentNodes[id]; !ok {
			changed[id] = true
		}
	}

	for id, prevNode := range previousGraph.Nodes {
		if !isHashComparable(prevNode) {
			continue
		}
		absPath, ok := pathutil.NodeIDToAbsPath(cwd, string(id))
		if !ok {
			continue
		}
		res, ok := hashutil.TryHashFile(absPath)
		if !ok {
			continue
		}
		if res.HashHex != prevNode.Metadata.Hash {
			changed[id] = true
		}
	}

	dirty := reverseClosure(changed, rev)
	for id := range dirty {
		if analyzableSourceIds[id] {
			plan.DirtySourceIds[id] = true
		}
	}

	for id := range analyzableSourceIds {
		if plan.DirtySourceIds[id] {
			continue
		}
		edges, ok := previousGraph.Edges[id]
		if !ok || len(edges) == 0 {
			continue
		}
		cp := make([]types.Edge, len(edges))
		copy(cp, edges)
		plan.ReusedEdgesBySource[id] = cp
	}

	referenced := map[types.NodeId]bool{}
	for src, edges := range plan.ReusedEdgesBySource {
		referenced[src] = true
		for _, e := range edges {
			referenced[e.Target] = true
		}
	}
	for id := range referenced {
		if _, ok := currentNodes[id]; ok {
			continue
		}
		if prevNode, ok := previousGraph.Nodes[id]; ok {
			plan.CarriedNodes[id] = prevNode
		}
	}

	plan.ChangedNodeIds = changed
	return plan
}

func isHashComparable(n *types.Node) bool {
	if n == nil {
		return false
	}
	if n.Kind != types.NodeKindSource && n.Kind != types.NodeKindExternal {
		return false
	}
	return n.Metadata != nil && n.Metadata.Hash != ""
}

func previousHash(g *types.Graph, id types.NodeId) (string, bool) {
	n, ok := g.Nodes[id]
	if !ok || n.Metadata == nil || n.Metadata.Hash == "" {
		return "", false
	}
	return n.Metadata.Hash, true
}

func reverseIndex(g *types.Graph) map[types.NodeId][]types.NodeId {
	rev := make(map[types.NodeId][]types.NodeId)
	for src, edges := range g.Edges {
		for _, e := range edges {
			rev[e.Target] = append(rev[e.Target], src)
		}
	}
	return rev
}

// reverseClosure runs a BFS over rev (target -> sources) from every
// seed in changed, returning the full set of nodes reachable by
// following reverse edges.
func reverseClosure(changed map[types.NodeId]bool, rev map[types.NodeId][]types.NodeId) map[types.NodeId]bool {
	visited := make(map[types.NodeId]bool, len(changed))
	queue := make([]types.NodeId, 0, len(changed))
	for id := range changed {
		if !visited[id] {
			visited[id] = true
			queue = append(queue, id)
		}
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, src := range rev[id] {
			if !visited[src] {
				visited[src] = true
				queue = append(queue, src)
			}
		}
	}
	return visited
}
