package langx

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/nuthan-ms/depgraph/pkg/types"
)

// goStdlib is a representative subset of the Go standard library used
// to classify an import path as a builtin rather than an unresolvable
// external module; it is not exhaustive (there is no vendored module
// graph here to resolve third-party Go paths against).
var goStdlib = map[string]bool{
	"fmt": true, "os": true, "strings": true, "strconv": true, "sort": true,
	"errors": true, "context": true, "time": true, "sync": true, "io": true,
	"bytes": true, "bufio": true, "net": true, "net/http": true, "encoding/json": true,
	"encoding/base64": true, "path": true, "path/filepath": true, "regexp": true,
	"reflect": true, "testing": true, "math": true, "math/rand": true, "unicode": true,
	"unicode/utf8": true, "crypto/sha256": true, "crypto/rand": true, "log": true,
}

var pythonStdlib = map[string]bool{
	"os": true, "sys": true, "re": true, "json": true, "typing": true, "math": true,
	"collections": true, "itertools": true, "functools": true, "pathlib": true,
	"asyncio": true, "logging": true, "datetime": true, "subprocess": true, "io": true,
	"unittest": true, "abc": true, "dataclasses": true, "enum": true,
}

var rustStdlib = map[string]bool{"std": true, "core": true, "alloc": true}

func resolveFor(g grammar, fromAbsPath, specifier string) types.ResolvedModule {
	switch g {
	case grammarGo:
		return resolveGo(specifier)
	case grammarPython:
		return resolvePython(fromAbsPath, specifier)
	case grammarJava:
		return resolveJava(fromAbsPath, specifier)
	case grammarRust:
		return resolveRust(fromAbsPath, specifier)
	case grammarCpp:
		return resolveCpp(fromAbsPath, specifier)
	default:
		return types.ResolvedModule{Kind: types.ResolvedKindMissing, MissingSpecifier: specifier}
	}
}

func statFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// resolveGo classifies specifier as a standard-library builtin or as an
// unresolvable external module path; it never attempts Go module/GOPATH
// resolution, since there is no build graph available to consult.
func resolveGo(specifier string) types.ResolvedModule {
	if goStdlib[specifier] {
		return types.ResolvedModule{Kind: types.ResolvedKindBuiltin, BuiltinId: types.NodeId("go:" + specifier)}
	}
	return types.ResolvedModule{Kind: types.ResolvedKindMissing, MissingSpecifier: specifier}
}

// resolvePython follows a leading-dot relative import up the directory
// tree and probes for a matching module file or package (__init__.py);
// absolute imports resolve to a builtin for the small stdlib set above,
// otherwise are probed the same way relative to the importing file's
// directory, and are treated as missing when that probe fails (no
// sys.path model is built).
func resolvePython(fromAbsPath, specifier string) types.ResolvedModule {
	if strings.HasPrefix(specifier, ".") {
		dir := filepath.Dir(fromAbsPath)
		dots := 0
		for dots < len(specifier) && specifier[dots] == '.' {
			dots++
		}
		for i := 1; i < dots; i++ {
			dir = filepath.Dir(dir)
		}
		rest := strings.TrimPrefix(specifier[dots:], ".")
		segments := strings.Split(rest, ".")
		if rest == "" {
			segments = nil
		}
		base := filepath.Join(append([]string{dir}, segments...)...)

		if candidate := base + ".py"; statFile(candidate) {
			return types.ResolvedModule{Kind: types.ResolvedKindFile, AbsPath: candidate}
		}
		if candidate := filepath.Join(base, "__init__.py"); statFile(candidate) {
			return types.ResolvedModule{Kind: types.ResolvedKindFile, AbsPath: candidate}
		}
		return types.ResolvedModule{Kind: types.ResolvedKindMissing, MissingSpecifier: specifier}
	}

	top := strings.SplitN(specifier, ".", 2)[0]
	if pythonStdlib[top] {
		return types.ResolvedModule{Kind: types.ResolvedKindBuiltin, BuiltinId: types.NodeId("py:" + top)}
	}

	dir := filepath.Dir(fromAbsPath)
	segments := strings.Split(specifier, ".")
	base := filepath.Join(append([]string{dir}, segments...)...)
	if candidate := base + ".py"; statFile(candidate) {
		return types.ResolvedModule{Kind: types.ResolvedKindFile, AbsPath: candidate}
	}
	if candidate := filepath.Join(base, "__init__.py"); statFile(candidate) {
		return types.ResolvedModule{Kind: types.ResolvedKindFile, AbsPath: candidate}
	}
	return types.ResolvedModule{Kind: types.ResolvedKindMissing, MissingSpecifier: specifier}
}

// resolveJava treats java.*/javax.* as builtins and otherwise walks up
// from fromAbsPath looking for a source root whose package-path
// translation of specifier exists on disk (the Maven/Gradle
// "src/main/java/<package>/<Class>.java" convention), bounded to a
// handful of ancestor directories.
func resolveJava(fromAbsPath, specifier string) types.ResolvedModule {
	base := strings.TrimSuffix(specifier, ".*")
	top := strings.SplitN(base, ".", 2)[0]
	if top == "java" || top == "javax" {
		return types.ResolvedModule{Kind: types.ResolvedKindBuiltin, BuiltinId: types.NodeId("java:" + base)}
	}

	relPath := filepath.Join(strings.Split(base, ".")...) + ".java"
	dir := filepath.Dir(fromAbsPath)
	for i := 0; i < 8; i++ {
		if candidate := filepath.Join(dir, relPath); statFile(candidate) {
			return types.ResolvedModule{Kind: types.ResolvedKindFile, AbsPath: candidate}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return types.ResolvedModule{Kind: types.ResolvedKindMissing, MissingSpecifier: specifier}
}

// resolveRust handles two shapes: a bare `mod name;` declaration, which
// probes for a sibling name.rs or name/mod.rs, and a `use` path, whose
// first segment is classified against the small std/core/alloc builtin
// set above or else treated as an unresolvable external crate.
func resolveRust(fromAbsPath, specifier string) types.ResolvedModule {
	if !strings.Contains(specifier, "::") && !strings.Contains(specifier, " ") {
		dir := filepath.Dir(fromAbsPath)
		if candidate := filepath.Join(dir, specifier+".rs"); statFile(candidate) {
			return types.ResolvedModule{Kind: types.ResolvedKindFile, AbsPath: candidate}
		}
		if candidate := filepath.Join(dir, specifier, "mod.rs"); statFile(candidate) {
			return types.ResolvedModule{Kind: types.ResolvedKindFile, AbsPath: candidate}
		}
		return types.ResolvedModule{Kind: types.ResolvedKindMissing, MissingSpecifier: specifier}
	}

	first := strings.SplitN(specifier, "::", 2)[0]
	first = strings.TrimSpace(strings.TrimPrefix(first, "{"))
	if rustStdlib[first] {
		return types.ResolvedModule{Kind: types.ResolvedKindBuiltin, BuiltinId: types.NodeId("rust:" + first)}
	}
	return types.ResolvedModule{Kind: types.ResolvedKindMissing, MissingSpecifier: specifier}
}

var cppHeaderExtensions = []string{"", ".h", ".hpp", ".hh", ".hxx"}

// resolveCpp resolves an #include relative to fromAbsPath's directory,
// probing common header extensions; when no file matches, a name with
// no '/' and no '.' (such as "vector") resolves to a synthetic builtin
// node the way Node's core modules do, and anything else (such as
// "stdio.h") is missing. Quoted and angle-bracket includes are not
// told apart.
func resolveCpp(fromAbsPath, specifier string) types.ResolvedModule {
	dir := filepath.Dir(fromAbsPath)
	for _, ext := range cppHeaderExtensions {
		if candidate := filepath.Join(dir, specifier+ext); statFile(candidate) {
			return types.ResolvedModule{Kind: types.ResolvedKindFile, AbsPath: candidate}
		}
	}
	if looksLikeSystemHeader(specifier) {
		return types.ResolvedModule{Kind: types.ResolvedKindBuiltin, BuiltinId: types.NodeId("cpp:" + specifier)}
	}
	return types.ResolvedModule{Kind: types.ResolvedKindMissing, MissingSpecifier: specifier}
}

func looksLikeSystemHeader(specifier string) bool {
	return !strings.Contains(specifier, "/") && !strings.Contains(specifier, ".")
}
