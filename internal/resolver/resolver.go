// Package resolver implements module resolution: extension/index-file
// probing generalized to full Node-style resolution, with package.json
// main/exports and a node_modules ancestor walk, since both forms of
// relative import appear in practice.
package resolver

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/nuthan-ms/depgraph/internal/pathutil"
	"github.com/nuthan-ms/depgraph/pkg/types"
)

// builtins is the Node.js core module set, matched with or without a
// "node:" prefix.
var builtins = map[string]bool{
	"assert": true, "async_hooks": true, "buffer": true, "child_process": true,
	"cluster": true, "console": true, "constants": true, "crypto": true,
	"dgram": true, "diagnostics_channel": true, "dns": true, "domain": true,
	"events": true, "fs": true, "http": true, "http2": true, "https": true,
	"inspector": true, "module": true, "net": true, "os": true, "path": true,
	"perf_hooks": true, "process": true, "punycode": true, "querystring": true,
	"readline": true, "repl": true, "stream": true, "string_decoder": true,
	"sys": true, "timers": true, "tls": true, "trace_events": true, "tty": true,
	"url": true, "util": true, "v8": true, "vm": true, "worker_threads": true,
	"zlib": true,
}

var sourceExtensions = []string{".ts", ".tsx", ".d.ts", ".js", ".jsx", ".json"}

// Resolve resolves a Node-style import specifier relative to fromAbsPath.
func Resolve(fromAbsPath, specifier string) types.ResolvedModule {
	if name, ok := builtinName(specifier); ok {
		return types.ResolvedModule{Kind: types.ResolvedKindBuiltin, BuiltinId: types.NodeId("node:" + name)}
	}

	var absPath string
	var ok bool
	if isRelativeOrAbsolute(specifier) {
		absPath, ok = resolveRelative(fromAbsPath, specifier)
	} else {
		absPath, ok = resolveBare(fromAbsPath, specifier)
	}

	if !ok {
		return types.ResolvedModule{Kind: types.ResolvedKindMissing, MissingSpecifier: specifier}
	}

	return types.ResolvedModule{
		Kind:              types.ResolvedKindFile,
		AbsPath:           absPath,
		IsExternalLibrary: IsUnderNodeModules(absPath),
	}
}

func builtinName(specifier string) (string, bool) {
	name := strings.TrimPrefix(specifier, "node:")
	if builtins[name] {
		return name, true
	}
	return "", false
}

func isRelativeOrAbsolute(specifier string) bool {
	return strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../") ||
		specifier == "." || specifier == ".." || filepath.IsAbs(specifier)
}

// IsUnderNodeModules reports whether absPath's POSIX form contains a
// "/node_modules/" path segment.
func IsUnderNodeModules(absPath string) bool {
	posix := pathutil.ToPosix(absPath)
	return strings.Contains(posix, "/node_modules/") || strings.HasPrefix(posix, "node_modules/")
}

func resolveRelative(fromAbsPath, specifier string) (string, bool) {
	base := filepath.Dir(fromAbsPath)
	target := specifier
	if !filepath.IsAbs(specifier) {
		target = filepath.Join(base, specifier)
	}
	return resolveAsFileOrDirectory(target)
}

// resolveAsFileOrDirectory tries target as an exact file, then with
// each probe extension appended, then (if a directory) as an index
// file or via package.json main/exports.
func resolveAsFileOrDirectory(target string) (string, bool) {
	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		return target, true
	}

	for _, ext := range sourceExtensions {
		candidate := target + ext
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
	}

	if info, err := os.Stat(target); err == nil && info.IsDir() {
		if abs, ok := resolvePackageEntry(target); ok {
			return abs, true
		}
		for _, ext := range sourceExtensions {
			candidate := filepath.Join(target, "index"+ext)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate, true
			}
		}
	}

	return "", false
}

// packageJSON is the subset of fields resolution consults.
type packageJSON struct {
	Main    string          `json:"main"`
	Exports json.RawMessage `json:"exports"`
}

// resolvePackageEntry reads dir/package.json and resolves its "."
// export (when "exports" is a string or a {".": string} map) and,
// failing that, its "main" field, relative to dir.
func resolvePackageEntry(dir string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return "", false
	}
	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return "", false
	}

	if entry, ok := dotExport(pkg.Exports); ok {
		if abs, ok := resolveAsFileOrDirectory(filepath.Join(dir, entry)); ok {
			return abs, true
		}
	}

	if pkg.Main != "" {
		if abs, ok := resolveAsFileOrDirectory(filepath.Join(dir, pkg.Main)); ok {
			return abs, true
		}
	}
	return "", false
}

// dotExport extracts a usable relative path from a package.json
// "exports" field, handling the common string and {".": "..."} shapes;
// anything more elaborate (conditional exports maps) is left to the
// "main" fallback.
func dotExport(raw json.RawMessage) (string, bool) {
	if len(raw) == 0 {
		return "", false
	}
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString, asString != ""
	}
	var asMap map[string]json.RawMessage
	if err := json.Unmarshal(raw, &asMap); err == nil {
		if dot, ok := asMap["."]; ok {
			var dotString string
			if err := json.Unmarshal(dot, &dotString); err == nil {
				return dotString, dotString != ""
			}
		}
	}
	return "", false
}

// resolveBare resolves a bare specifier ("pkg" or "@scope/pkg[/sub]")
// by walking node_modules ancestors of fromAbsPath.
func resolveBare(fromAbsPath, specifier string) (string, bool) {
	packageName, subpath := splitBareSpecifier(specifier)

	dir := filepath.Dir(fromAbsPath)
	for {
		candidate := filepath.Join(dir, "node_modules", packageName)
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			if subpath == "" {
				if abs, ok := resolveAsFileOrDirectory(candidate); ok {
					return abs, true
				}
			} else if abs, ok := resolveAsFileOrDirectory(filepath.Join(candidate, subpath)); ok {
				return abs, true
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false
}

// splitBareSpecifier separates a bare specifier into its package name
// (including scope, if any) and remaining subpath.
func splitBareSpecifier(specifier string) (pkg string, subpath string) {
	parts := strings.Split(specifier, "/")
	if strings.HasPrefix(specifier, "@") && len(parts) >= 2 {
		pkg = parts[0] + "/" + parts[1]
		subpath = strings.Join(parts[2:], "/")
		return
	}
	pkg = parts[0]
	subpath = strings.Join(parts[1:], "/")
	return
}

// NearestPackageRoot returns the directory of the nearest ancestor
// package.json to absPath (searching absPath's own directory first),
// or "" if none is found.
func NearestPackageRoot(absPath string) string {
	dir := filepath.Dir(absPath)
	for {
		if _, err := os.Stat(filepath.Join(dir, "package.json")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
