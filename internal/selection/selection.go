// Package selection expands an include/exclude set of graph entry
// points into a concrete node-id selection with size and warning
// summaries. Grounded on the BFS-with-remaining-budget queue in
// 1homsi-gorisk/internal/impact/impact.go's Compute (the "expand iff
// remaining strictly exceeds stored best" rule is the same depth-budget
// comparison that package uses for blast-radius queries) and
// internal/reachability/reachability.go's depth-limited traversal idiom.
package selection

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nuthan-ms/depgraph/internal/depgrapherrors"
	"github.com/nuthan-ms/depgraph/pkg/types"
)

var allEdgeKinds = []types.EdgeKind{types.EdgeKindRuntime, types.EdgeKindType, types.EdgeKindDynamic}

func validEdgeKind(k types.EdgeKind) bool {
	switch k {
	case types.EdgeKindRuntime, types.EdgeKindType, types.EdgeKindDynamic:
		return true
	default:
		return false
	}
}

type normalizedEntry struct {
	id        types.NodeId
	depth     int
	edgeKinds map[types.EdgeKind]bool
}

func toKindSet(kinds []types.EdgeKind) map[types.EdgeKind]bool {
	s := make(map[types.EdgeKind]bool, len(kinds))
	for _, k := range kinds {
		s[k] = true
	}
	return s
}

// normalizeEntries validates and canonicalizes a list of selection
// entries, emitting one warning per invalid depth/edgeKind/empty-id,
// each referencing the entry's index within listName ("include"/"exclude").
func normalizeEntries(listName string, entries []types.SelectionEntry, defaultEdgeKinds []types.EdgeKind) ([]normalizedEntry, []string) {
	defaults := defaultEdgeKinds
	if len(defaults) == 0 {
		defaults = allEdgeKinds
	}

	var out []normalizedEntry
	var warnings []string

	for i, e := range entries {
		if strings.TrimSpace(string(e.NodeId)) == "" {
			warnings = append(warnings, fmt.Sprintf("%s[%d]: empty nodeId dropped", listName, i))
			continue
		}

		depth := e.Depth
		if depth < 0 {
			warnings = append(warnings, fmt.Sprintf("%s[%d]: invalid depth, clamped to 0", listName, i))
			depth = 0
		}

		var kindSet map[types.EdgeKind]bool
		if e.EdgeKinds == nil {
			kindSet = toKindSet(defaults)
		} else {
			kindSet = map[types.EdgeKind]bool{}
			for _, k := range e.EdgeKinds {
				if validEdgeKind(k) {
					kindSet[k] = true
				} else {
					warnings = append(warnings, fmt.Sprintf("%s[%d]: invalid edgeKind dropped: %s", listName, i, k))
				}
			}
			if len(kindSet) == 0 {
				warnings = append(warnings, fmt.Sprintf("%s[%d]: no valid edgeKinds", listName, i))
			}
		}

		out = append(out, normalizedEntry{id: e.NodeId, depth: depth, edgeKinds: kindSet})
	}

	return out, warnings
}

// expand performs the closure expansion: a FIFO BFS that re-expands a
// node when reached again with strictly more remaining depth budget
// than previously recorded.
func expand(entries []normalizedEntry, graph *types.Graph) map[types.NodeId]bool {
	type queued struct {
		id        types.NodeId
		remaining int
		kinds     map[types.EdgeKind]bool
	}

	selected := make(map[types.NodeId]bool)
	best := make(map[types.NodeId]int)
	queue := make([]queued, 0, len(entries))

	for _, e := range entries {
		selected[e.id] = true
		queue = append(queue, queued{id: e.id, remaining: e.depth, kinds: e.edgeKinds})
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.remaining <= 0 || len(cur.kinds) == 0 {
			continue
		}

		for _, edge := range graph.Edges[cur.id] {
			if !cur.kinds[edge.Kind] {
				continue
			}
			nextRemaining := cur.remaining - 1
			if b, ok := best[edge.Target]; ok && nextRemaining <= b {
				continue
			}
			best[edge.Target] = nextRemaining
			selected[edge.Target] = true
			queue = append(queue, queued{id: edge.Target, remaining: nextRemaining, kinds: cur.kinds})
		}
	}

	return selected
}

func dedupeSortStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// SummarizeSelection normalizes the include/exclude entries, expands
// each into its reachable closure, subtracts excludes from includes,
// drops configured node kinds, and aggregates size/warning output.
func SummarizeSelection(input types.SelectionInput) (types.SelectionSummary, error) {
	graph := input.Graph
	opts := input.Options

	includeNorm, includeWarnings := normalizeEntries("include", input.Include, opts.DefaultEdgeKinds)
	excludeNorm, excludeWarnings := normalizeEntries("exclude", input.Exclude, opts.DefaultEdgeKinds)

	var warnings []string
	warnings = append(warnings, includeWarnings...)
	warnings = append(warnings, excludeWarnings...)

	included := expand(includeNorm, graph)
	excluded := expand(excludeNorm, graph)

	result := make(map[types.NodeId]bool, len(included))
	for id := range included {
		if !excluded[id] {
			result[id] = true
		}
	}

	dropKinds := opts.DropNodeKinds
	if len(dropKinds) == 0 {
		dropKinds = []types.NodeKind{types.NodeKindBuiltin, types.NodeKindMissing}
	}
	dropSet := make(map[types.NodeKind]bool, len(dropKinds))
	for _, k := range dropKinds {
		dropSet[k] = true
	}

	var dropWarnings []string
	for id := range result {
		node, ok := graph.Nodes[id]
		if ok && dropSet[node.Kind] {
			delete(result, id)
			dropWarnings = append(dropWarnings, fmt.Sprintf("Dropped %s node from selection: %s", node.Kind, id))
		}
	}
	sort.Strings(dropWarnings)
	warnings = append(warnings, dropWarnings...)

	var unknownWarnings []string
	for id := range result {
		if _, ok := graph.Nodes[id]; !ok {
			unknownWarnings = append(unknownWarnings, fmt.Sprintf("Selected nodeId not present in graph.nodes: %s", id))
		}
	}
	sort.Strings(unknownWarnings)
	warnings = append(warnings, unknownWarnings...)

	selectedIds := make([]types.NodeId, 0, len(result))
	for id := range result {
		selectedIds = append(selectedIds, id)
	}
	sort.Slice(selectedIds, func(i, j int) bool { return selectedIds[i] < selectedIds[j] })

	var totalBytes int64
	sized := make([]types.SizedNode, 0, len(selectedIds))
	for _, id := range selectedIds {
		node, ok := graph.Nodes[id]
		if !ok || node.Metadata == nil || node.Metadata.Size == nil {
			continue
		}
		totalBytes += *node.Metadata.Size
		sized = append(sized, types.SizedNode{Id: id, Bytes: *node.Metadata.Size})
	}
	sort.Slice(sized, func(i, j int) bool {
		if sized[i].Bytes != sized[j].Bytes {
			return sized[i].Bytes > sized[j].Bytes
		}
		return sized[i].Id < sized[j].Id
	})

	largest := sized
	if opts.MaxTop == 0 {
		largest = nil
	} else if opts.MaxTop > 0 && len(sized) > opts.MaxTop {
		largest = sized[:opts.MaxTop]
	}

	policy := opts.HashSizeEnforcement
	if policy == "" {
		policy = types.HashSizeWarn
	}

	if policy != types.HashSizeIgnore {
		var hashedOffenders, fileMissingOffenders []string
		for _, id := range selectedIds {
			node, ok := graph.Nodes[id]
			if !ok || (node.Kind != types.NodeKindSource && node.Kind != types.NodeKindExternal) {
				continue
			}
			switch {
			case node.Metadata == nil:
				fileMissingOffenders = append(fileMissingOffenders, string(id))
			case node.Metadata.Hash != "" && node.Metadata.Size == nil:
				hashedOffenders = append(hashedOffenders, string(id))
			case node.Metadata.Hash == "" && node.Metadata.Size == nil:
				fileMissingOffenders = append(fileMissingOffenders, string(id))
			}
		}
		sort.Strings(hashedOffenders)
		sort.Strings(fileMissingOffenders)

		if policy == types.HashSizeError && len(hashedOffenders) > 0 {
			shown := hashedOffenders
			if len(shown) > 10 {
				shown = shown[:10]
			}
			return types.SelectionSummary{}, &depgrapherrors.MetadataInvariantError{Count: len(hashedOffenders), Ids: shown}
		}

		if policy == types.HashSizeWarn {
			for _, id := range hashedOffenders {
				warnings = append(warnings, fmt.Sprintf("warning: metadata.size missing for hashed node %s", id))
			}
		}
		for _, id := range fileMissingOffenders {
			warnings = append(warnings, fmt.Sprintf("warning: metadata.size missing for file node %s", id))
		}
	}

	return types.SelectionSummary{
		SelectedNodeIds: selectedIds,
		SelectedCount:   len(selectedIds),
		TotalBytes:      totalBytes,
		Largest:         largest,
		Warnings:        dedupeSortStrings(warnings),
	}, nil
}
