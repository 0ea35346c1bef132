// Package reexport implements an AST-first re-export traversal: given
// a module and an export name, follow forwarding barrels to the
// modules that actually define it, using a memoized DFS that detects
// cycles and keeps accumulating the other branches instead of just
// bailing out.
package reexport

import "github.com/nuthan-ms/depgraph/internal/tsast"

// DefiningExportKind distinguishes a concrete symbol definition from a
// module-level (namespace) forwarding target.
type DefiningExportKind string

const (
	DefiningExportSymbol DefiningExportKind = "symbol"
	DefiningExportModule DefiningExportKind = "module"
)

// DefiningExport is one result of ResolveDefiningExports: either
// "absPath defines exportName locally" (symbol) or "absPath is a
// module-level dependency reached via namespace forwarding" (module).
type DefiningExport struct {
	Kind       DefiningExportKind
	AbsPath    string
	ExportName string
}

// ResolveAbsPathFunc resolves specifier from fromAbsPath, returning
// ok=false when it does not resolve to a file.
type ResolveAbsPathFunc func(fromAbsPath, specifier string) (absPath string, ok bool)

// GetSourceFileFunc obtains the per-module barrel analysis for
// absPath, returning ok=false when the file is unavailable or
// unparsable.
type GetSourceFileFunc func(absPath string) (*tsast.BarrelInfo, bool)

// Resolver runs resolveDefiningExports over a fixed pair of host
// capabilities. Each ResolveDefiningExports call starts from an empty
// memo, so a result cut short by a cycle in one traversal is never
// reused by a later call.
type Resolver struct {
	resolveAbsPath ResolveAbsPathFunc
	getSourceFile  GetSourceFileFunc
	memo           map[string][]DefiningExport
}

// NewResolver constructs a Resolver bound to the given host capabilities.
func NewResolver(resolveAbsPath ResolveAbsPathFunc, getSourceFile GetSourceFileFunc) *Resolver {
	return &Resolver{
		resolveAbsPath: resolveAbsPath,
		getSourceFile:  getSourceFile,
		memo:           make(map[string][]DefiningExport),
	}
}

func memoKey(absPath, exportName string) string {
	return absPath + "\x00" + exportName
}

// ResolveDefiningExports follows forwarding barrels from entryModule
// to the modules that actually define exportName.
func (r *Resolver) ResolveDefiningExports(entryModule, exportName string) []DefiningExport {
	r.memo = make(map[string][]DefiningExport)
	return r.resolve(entryModule, exportName, map[string]bool{})
}

func (r *Resolver) resolve(absPath, exportName string, stack map[string]bool) []DefiningExport {
	key := memoKey(absPath, exportName)
	if cached, ok := r.memo[key]; ok {
		return cached
	}
	if stack[key] {
		return nil
	}
	stack[key] = true
	defer delete(stack, key)

	info, ok := r.getSourceFile(absPath)
	if !ok {
		r.memo[key] = nil
		return nil
	}

	var results []DefiningExport
	if info.DefinesLocally(exportName) {
		results = append(results, DefiningExport{Kind: DefiningExportSymbol, AbsPath: absPath, ExportName: exportName})
	}

	for _, target := range info.ForwardingTargets(exportName) {
		next, resolved := r.resolveAbsPath(absPath, target.Specifier)
		if !resolved {
			continue
		}
		if target.Kind == tsast.ForwardingModule {
			results = append(results, DefiningExport{Kind: DefiningExportModule, AbsPath: next})
			continue
		}
		results = append(results, r.resolve(next, target.ImportName, stack)...)
	}

	deduped := dedupe(results)
	r.memo[key] = deduped
	return deduped
}

func dedupe(in []DefiningExport) []DefiningExport {
	seen := make(map[string]bool, len(in))
	out := make([]DefiningExport, 0, len(in))
	for _, d := range in {
		k := string(d.Kind) + "\x00" + d.AbsPath + "\x00" + d.ExportName
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, d)
	}
	return out
}
