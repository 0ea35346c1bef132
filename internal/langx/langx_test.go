package langx

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuthan-ms/depgraph/pkg/types"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newProvider(t *testing.T) *Provider {
	t.Helper()
	p, err := NewProvider()
	require.NoError(t, err)
	t.Cleanup(p.Close)
	return p
}

func specifiers(imports []types.ExplicitImport) []string {
	out := make([]string, len(imports))
	for i, imp := range imports {
		out[i] = imp.Specifier
	}
	return out
}

func TestSupportsRoutesByExtension(t *testing.T) {
	assert.True(t, Supports("main.go"))
	assert.True(t, Supports("script.py"))
	assert.True(t, Supports("App.java"))
	assert.True(t, Supports("lib.rs"))
	assert.True(t, Supports("widget.cpp"))
	assert.False(t, Supports("index.ts"))
}

func TestParseFileGoImports(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "main.go")
	write(t, path, "package main\n\nimport (\n\t\"fmt\"\n\t\"github.com/foo/bar\"\n)\n\nfunc main() { fmt.Println(bar.X) }\n")

	parsed, err := newProvider(t).ParseFile(path)
	require.NoError(t, err)
	extractable := parsed.(types.Extractable)
	assert.ElementsMatch(t, []string{"fmt", "github.com/foo/bar"}, specifiers(extractable.ExplicitImports()))
	assert.Empty(t, extractable.TunnelRequests())
}

func TestParseFilePythonImports(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "main.py")
	write(t, path, "import os\nimport foo.bar as fb\nfrom . import sibling\nfrom pkg.mod import thing\n")

	parsed, err := newProvider(t).ParseFile(path)
	require.NoError(t, err)
	extractable := parsed.(types.Extractable)
	assert.ElementsMatch(t, []string{"os", "foo.bar", ".", "pkg.mod"}, specifiers(extractable.ExplicitImports()))
}

func TestParseFileJavaImports(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "App.java")
	write(t, path, "import java.util.List;\nimport com.example.Widget;\nimport static com.example.Helpers.*;\n\nclass App {}\n")

	parsed, err := newProvider(t).ParseFile(path)
	require.NoError(t, err)
	extractable := parsed.(types.Extractable)
	assert.Contains(t, specifiers(extractable.ExplicitImports()), "java.util.List")
	assert.Contains(t, specifiers(extractable.ExplicitImports()), "com.example.Widget")
}

func TestParseFileRustImportsAndModules(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "helper.rs"), "pub fn help() {}\n")
	path := filepath.Join(root, "main.rs")
	write(t, path, "use std::collections::HashMap;\nmod helper;\n\nfn main() {}\n")

	parsed, err := newProvider(t).ParseFile(path)
	require.NoError(t, err)
	extractable := parsed.(types.Extractable)
	specs := specifiers(extractable.ExplicitImports())
	assert.Contains(t, specs, "std::collections::HashMap")
	assert.Contains(t, specs, "helper")
}

func TestParseFileCppIncludes(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "util.h"), "#pragma once\n")
	path := filepath.Join(root, "main.cpp")
	write(t, path, "#include <vector>\n#include \"util.h\"\n\nint main() { return 0; }\n")

	parsed, err := newProvider(t).ParseFile(path)
	require.NoError(t, err)
	extractable := parsed.(types.Extractable)
	assert.ElementsMatch(t, []string{"vector", "util.h"}, specifiers(extractable.ExplicitImports()))
}

func TestResolveModuleGoStdlibIsBuiltin(t *testing.T) {
	p := newProvider(t)
	resolved, err := p.ResolveModule(filepath.Join(t.TempDir(), "main.go"), "fmt")
	require.NoError(t, err)
	assert.Equal(t, types.ResolvedKindBuiltin, resolved.Kind)
	assert.Equal(t, types.NodeId("go:fmt"), resolved.BuiltinId)
}

func TestResolveModuleGoExternalIsMissing(t *testing.T) {
	p := newProvider(t)
	resolved, err := p.ResolveModule(filepath.Join(t.TempDir(), "main.go"), "github.com/foo/bar")
	require.NoError(t, err)
	assert.Equal(t, types.ResolvedKindMissing, resolved.Kind)
}

func TestResolveModulePythonRelativeSibling(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "sibling.py"), "x = 1\n")
	fromPath := filepath.Join(root, "main.py")

	p := newProvider(t)
	resolved, err := p.ResolveModule(fromPath, ".sibling")
	require.NoError(t, err)
	assert.Equal(t, types.ResolvedKindFile, resolved.Kind)
	assert.Equal(t, filepath.Join(root, "sibling.py"), resolved.AbsPath)
}

func TestResolveModulePythonParentPackageInit(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "pkg", "__init__.py"), "")
	fromPath := filepath.Join(root, "pkg", "sub.py")

	p := newProvider(t)
	resolved, err := p.ResolveModule(fromPath, "..pkg")
	require.NoError(t, err)
	assert.Equal(t, types.ResolvedKindFile, resolved.Kind)
}

func TestResolveModuleJavaStdlibIsBuiltin(t *testing.T) {
	p := newProvider(t)
	resolved, err := p.ResolveModule(filepath.Join(t.TempDir(), "App.java"), "java.util.List")
	require.NoError(t, err)
	assert.Equal(t, types.ResolvedKindBuiltin, resolved.Kind)
}

func TestResolveModuleJavaSameRootSourceFile(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "com", "example", "Widget.java"), "package com.example; class Widget {}\n")
	fromPath := filepath.Join(root, "com", "example", "App.java")

	p := newProvider(t)
	resolved, err := p.ResolveModule(fromPath, "com.example.Widget")
	require.NoError(t, err)
	assert.Equal(t, types.ResolvedKindFile, resolved.Kind)
	assert.Equal(t, filepath.Join(root, "com", "example", "Widget.java"), resolved.AbsPath)
}

func TestResolveModuleRustModSiblingFile(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "helper.rs"), "pub fn help() {}\n")
	fromPath := filepath.Join(root, "main.rs")

	p := newProvider(t)
	resolved, err := p.ResolveModule(fromPath, "helper")
	require.NoError(t, err)
	assert.Equal(t, types.ResolvedKindFile, resolved.Kind)
	assert.Equal(t, filepath.Join(root, "helper.rs"), resolved.AbsPath)
}

func TestResolveModuleRustStdUsePathIsBuiltin(t *testing.T) {
	p := newProvider(t)
	resolved, err := p.ResolveModule(filepath.Join(t.TempDir(), "main.rs"), "std::collections::HashMap")
	require.NoError(t, err)
	assert.Equal(t, types.ResolvedKindBuiltin, resolved.Kind)
}

func TestResolveModuleCppQuotedSiblingHeader(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "util.h"), "#pragma once\n")
	fromPath := filepath.Join(root, "main.cpp")

	p := newProvider(t)
	resolved, err := p.ResolveModule(fromPath, "util.h")
	require.NoError(t, err)
	assert.Equal(t, types.ResolvedKindFile, resolved.Kind)
}

func TestResolveModuleCppSystemHeaderIsBuiltin(t *testing.T) {
	p := newProvider(t)
	resolved, err := p.ResolveModule(filepath.Join(t.TempDir(), "main.cpp"), "vector")
	require.NoError(t, err)
	assert.Equal(t, types.ResolvedKindBuiltin, resolved.Kind)
	assert.Equal(t, types.NodeId("cpp:vector"), resolved.BuiltinId)
}
