// Package tunnel expands a tunnel request into the set of absolute
// file paths it ultimately reaches, through internal/reexport's
// forwarding traversal, with the commander rule applied for external
// barrels.
package tunnel

import (
	"github.com/nuthan-ms/depgraph/internal/reexport"
	"github.com/nuthan-ms/depgraph/internal/resolver"
	"github.com/nuthan-ms/depgraph/pkg/types"
)

// ResolveModuleFunc resolves an import specifier the way
// types.LanguageProvider.ResolveModule does.
type ResolveModuleFunc func(fromAbsPath, specifier string) (types.ResolvedModule, error)

// Expander expands tunnel requests over a fixed module resolver and
// re-export traversal.
type Expander struct {
	resolveModule   ResolveModuleFunc
	definingExports *reexport.Resolver
}

// NewExpander constructs an Expander bound to the given resolveModule
// capability and a reexport.Resolver (already wired to its own
// resolveAbsPath/getSourceFile capabilities).
func NewExpander(resolveModule ResolveModuleFunc, definingExports *reexport.Resolver) *Expander {
	return &Expander{resolveModule: resolveModule, definingExports: definingExports}
}

// Expand resolves one tunnel request originating from fromAbsPath:
// resolve specifier, follow its forwarding graph for exportName, and
// return the deduplicated declaration file paths, filtered by the
// commander rule when the barrel is external.
func (e *Expander) Expand(fromAbsPath, specifier, exportName string) ([]string, error) {
	resolved, err := e.resolveModule(fromAbsPath, specifier)
	if err != nil {
		return nil, err
	}
	if resolved.Kind != types.ResolvedKindFile {
		return nil, nil
	}

	results := e.definingExports.ResolveDefiningExports(resolved.AbsPath, exportName)

	declPaths := make([]string, 0, len(results))
	for _, r := range results {
		// No Go-native type-checker is available to follow merged
		// declarations further, so every result (symbol or module)
		// falls back to its own defining file.
		declPaths = append(declPaths, r.AbsPath)
	}

	if resolved.IsExternalLibrary || resolver.IsUnderNodeModules(resolved.AbsPath) {
		declPaths = applyCommanderRule(resolved.AbsPath, declPaths)
	}

	return dedupeStrings(declPaths), nil
}

// applyCommanderRule filters declPaths to those sharing barrelAbsPath's
// nearest ancestor package.json directory, retaining any path with no
// discoverable package root.
func applyCommanderRule(barrelAbsPath string, declPaths []string) []string {
	root := resolver.NearestPackageRoot(barrelAbsPath)
	if root == "" {
		return declPaths
	}
	filtered := make([]string, 0, len(declPaths))
	for _, p := range declPaths {
		if pr := resolver.NearestPackageRoot(p); pr == "" || pr == root {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
