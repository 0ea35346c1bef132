// Package analyzer implements the orchestrator, finalizer, invariant
// checker, and error capper: BuildGraph
// sequences the scanner, node factory, incremental planner, language
// provider, module resolver, and (for the bundled TS/JS provider) the
// re-export/tunnel machinery into one finalized graph, following a
// staged walk -> process -> relate sequencing with a callback-driven
// progress/warning reporting idiom.
package analyzer

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/nuthan-ms/depgraph/internal/depgrapherrors"
	"github.com/nuthan-ms/depgraph/internal/docextract"
	"github.com/nuthan-ms/depgraph/internal/langx"
	"github.com/nuthan-ms/depgraph/internal/nodefactory"
	"github.com/nuthan-ms/depgraph/internal/pathutil"
	"github.com/nuthan-ms/depgraph/internal/planner"
	"github.com/nuthan-ms/depgraph/internal/reexport"
	"github.com/nuthan-ms/depgraph/internal/resolver"
	"github.com/nuthan-ms/depgraph/internal/scanner"
	"github.com/nuthan-ms/depgraph/internal/tsast"
	"github.com/nuthan-ms/depgraph/internal/tunnel"
	"github.com/nuthan-ms/depgraph/pkg/types"
)

const progressInterval = 10

// BuildGraph is the single entry point that drives
// components C through N end-to-end.
func BuildGraph(opts types.BuildOptions) (types.BuildResult, error) {
	if opts.Provider == nil {
		return types.BuildResult{}, &depgrapherrors.AnalyzerMissingError{}
	}

	cwd := opts.Cwd
	var errs []string

	universe, err := scanner.Scan(cwd, opts.Config)
	if err != nil {
		return types.BuildResult{}, &depgrapherrors.IoError{Op: "scan", Path: cwd, Err: err}
	}

	nodes := make(map[types.NodeId]*types.Node, len(universe))
	analyzable := make(map[types.NodeId]bool)
	for _, rel := range universe {
		absPath := filepath.Join(cwd, filepath.FromSlash(rel))
		node, ok := nodefactory.MakeHashedFileNode(nodefactory.MakeHashedFileNodeInput{
			AbsPath: absPath,
			Cwd:     cwd,
			Kind:    types.NodeKindSource,
		})
		if !ok {
			errs = append(errs, fmt.Sprintf("warning: unreadable source file skipped: %s", rel))
			continue
		}
		nodes[node.Id] = node
		if node.Language == types.LanguageTS || node.Language == types.LanguageJS || langx.Supports(absPath) {
			analyzable[node.Id] = true
		}
	}

	plan := planner.Compute(cwd, analyzable, nodes, opts.PreviousGraph)

	edgesBySource := make(map[types.NodeId][]types.Edge, len(analyzable))
	for id, edges := range plan.ReusedEdgesBySource {
		edgesBySource[id] = append([]types.Edge{}, edges...)
	}
	for id, n := range plan.CarriedNodes {
		if _, ok := nodes[id]; !ok {
			nodes[id] = n
		}
	}

	expander := buildTunnelExpander(opts.Provider)

	dirtyIds := sortedNodeIds(plan.DirtySourceIds)
	for i, id := range dirtyIds {
		if opts.ProgressCallback != nil && i%progressInterval == 0 {
			opts.ProgressCallback(fmt.Sprintf("analyzing %d/%d", i+1, len(dirtyIds)))
		}

		absPath, ok := pathutil.NodeIDToAbsPath(cwd, string(id))
		if !ok {
			continue
		}

		parsed, err := opts.Provider.ParseFile(absPath)
		if err != nil {
			errs = append(errs, fmt.Sprintf("warning: failed to parse %s: %v", id, err))
			continue
		}
		if opts.NodeDescriptionLimit > 0 {
			if desc, ok := docextract.Extract(parsed.Content(), opts.NodeDescriptionLimit, opts.NodeDescriptionTags); ok {
				nodes[id].Description = desc
			}
		}

		extractable, ok := parsed.(types.Extractable)
		if !ok {
			edgesBySource[id] = nil
			continue
		}

		var edges []types.Edge

		for _, imp := range extractable.ExplicitImports() {
			resolved, err := opts.Provider.ResolveModule(absPath, imp.Specifier)
			if err != nil {
				errs = append(errs, fmt.Sprintf("warning: failed to resolve %s from %s: %v", imp.Specifier, id, err))
				continue
			}
			target, ok := materializeTarget(nodes, cwd, resolved)
			if !ok {
				continue
			}
			edges = append(edges, types.Edge{Target: target, Kind: imp.Kind, Resolution: types.EdgeResolutionExplicit})
		}

		if expander != nil {
			for _, tr := range extractable.TunnelRequests() {
				paths, err := expander.Expand(absPath, tr.Specifier, tr.ExportName)
				if err != nil {
					errs = append(errs, fmt.Sprintf("warning: tunnel expansion failed for %s from %s: %v", tr.Specifier, id, err))
					continue
				}
				for _, p := range paths {
					target := materializeFileNode(nodes, cwd, p, resolver.IsUnderNodeModules(p))
					if target == "" {
						continue
					}
					edges = append(edges, types.Edge{Target: target, Kind: tr.Kind, Resolution: types.EdgeResolutionImplicit})
				}
			}
		}

		edgesBySource[id] = edges
	}

	if opts.PreviousGraph != nil && opts.NodeDescriptionLimit > 0 {
		carryForwardDescriptions(nodes, plan.DirtySourceIds, opts.PreviousGraph)
	}

	graph := finalize(nodes, edgesBySource)

	enforcement := opts.HashSizeEnforcement
	if enforcement == "" {
		enforcement = types.HashSizeWarn
	}
	invariantWarnings, err := checkInvariants(graph, enforcement)
	if err != nil {
		return types.BuildResult{}, err
	}
	errs = append(errs, invariantWarnings...)

	stats := types.Stats{
		Modules: len(graph.Nodes),
		Edges:   sumEdgeCounts(graph.Edges),
		Dirty:   len(plan.DirtySourceIds),
	}

	return types.BuildResult{
		Graph:  graph,
		Stats:  stats,
		Errors: capErrors(errs, opts.MaxErrors),
	}, nil
}

// tsjsUnwrapper is implemented by a host provider that dispatches across
// several languages (for example a composite provider layering
// internal/langx over the bundled TS/JS analyzer) so buildTunnelExpander
// can still reach the underlying *tsast.Provider for barrel analysis.
type tsjsUnwrapper interface {
	TSJSProvider() *tsast.Provider
}

// buildTunnelExpander wires the tunnel expander over the bundled
// TS/JS provider. Other LanguageProvider implementations (for example
// internal/langx's explicit-import-only extractors) never emit tunnel
// requests, so there is nothing for a non-tsast provider to expand;
// returning nil here simply skips that step for them.
func buildTunnelExpander(provider types.LanguageProvider) *tunnel.Expander {
	tp, ok := provider.(*tsast.Provider)
	if !ok {
		if u, ok2 := provider.(tsjsUnwrapper); ok2 {
			tp = u.TSJSProvider()
		}
		if tp == nil {
			return nil
		}
	}

	resolveAbsPath := func(fromAbsPath, specifier string) (string, bool) {
		res, err := provider.ResolveModule(fromAbsPath, specifier)
		if err != nil || res.Kind != types.ResolvedKindFile {
			return "", false
		}
		return res.AbsPath, true
	}
	barrelCache := make(map[string]*tsast.BarrelInfo)
	getSourceFile := func(absPath string) (*tsast.BarrelInfo, bool) {
		if info, cached := barrelCache[absPath]; cached {
			return info, info != nil
		}
		info, err := tp.ParseBarrel(absPath)
		if err != nil {
			barrelCache[absPath] = nil
			return nil, false
		}
		barrelCache[absPath] = info
		return info, true
	}
	definingExports := reexport.NewResolver(resolveAbsPath, getSourceFile)

	resolveModule := func(fromAbsPath, specifier string) (types.ResolvedModule, error) {
		return provider.ResolveModule(fromAbsPath, specifier)
	}
	return tunnel.NewExpander(resolveModule, definingExports)
}

// materializeTarget implements node-materialization for a resolved
// explicit import.
func materializeTarget(nodes map[types.NodeId]*types.Node, cwd string, resolved types.ResolvedModule) (types.NodeId, bool) {
	switch resolved.Kind {
	case types.ResolvedKindBuiltin:
		id := resolved.BuiltinId
		if _, ok := nodes[id]; !ok {
			nodes[id] = nodefactory.MakeNode(nodefactory.MakeNodeInput{Id: id, Kind: types.NodeKindBuiltin, Language: types.LanguageOther})
		}
		return id, true
	case types.ResolvedKindMissing:
		if resolved.MissingSpecifier == "" {
			return "", false
		}
		id := types.NodeId(resolved.MissingSpecifier)
		if _, ok := nodes[id]; !ok {
			nodes[id] = nodefactory.MakeNode(nodefactory.MakeNodeInput{Id: id, Kind: types.NodeKindMissing, Language: types.LanguageOther})
		}
		return id, true
	case types.ResolvedKindFile:
		id := materializeFileNode(nodes, cwd, resolved.AbsPath, resolved.IsExternalLibrary)
		return id, id != ""
	default:
		return "", false
	}
}

// materializeFileNode applies the file kind-hint
// rule: source if the id is already a source node, or if the file is
// not external and not under node_modules/; else external. Hashes and
// inserts only when the existing node (if any) isn't already fully
// populated.
func materializeFileNode(nodes map[types.NodeId]*types.Node, cwd, absPath string, isExternalLibrary bool) types.NodeId {
	idStr, _ := pathutil.AbsPathToNodeID(absPath, cwd)
	if idStr == "" {
		return ""
	}
	id := types.NodeId(idStr)

	existing, exists := nodes[id]
	if exists && existing.Metadata != nil && existing.Metadata.Hash != "" && existing.Metadata.Size != nil {
		return id
	}

	kind := types.NodeKindExternal
	switch {
	case exists && existing.Kind == types.NodeKindSource:
		kind = types.NodeKindSource
	case !isExternalLibrary && !resolver.IsUnderNodeModules(absPath):
		kind = types.NodeKindSource
	}

	node, ok := nodefactory.MakeHashedFileNode(nodefactory.MakeHashedFileNodeInput{AbsPath: absPath, Cwd: cwd, Kind: kind})
	if !ok {
		if exists {
			return id
		}
		return ""
	}
	nodes[id] = node
	return id
}

// carryForwardDescriptions copies a previously extracted Description
// onto source nodes that were reused unchanged this run (not in
// dirtyIds) and so were never re-parsed, and thus never re-populated
// by the dirty loop above.
func carryForwardDescriptions(nodes map[types.NodeId]*types.Node, dirtyIds map[types.NodeId]bool, previous *types.Graph) {
	for id, n := range nodes {
		if n.Kind != types.NodeKindSource || n.Description != "" || dirtyIds[id] {
			continue
		}
		if prev, ok := previous.Nodes[id]; ok && prev.Description != "" {
			n.Description = prev.Description
		}
	}
}

func sortedNodeIds(set map[types.NodeId]bool) []types.NodeId {
	ids := make([]types.NodeId, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func sumEdgeCounts(edges map[types.NodeId][]types.Edge) int {
	n := 0
	for _, e := range edges {
		n += len(e)
	}
	return n
}
