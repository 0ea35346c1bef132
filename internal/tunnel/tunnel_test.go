package tunnel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuthan-ms/depgraph/internal/reexport"
	"github.com/nuthan-ms/depgraph/internal/resolver"
	"github.com/nuthan-ms/depgraph/internal/tsast"
	"github.com/nuthan-ms/depgraph/pkg/types"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func newExpander(t *testing.T) *Expander {
	t.Helper()
	provider, err := tsast.NewProvider()
	require.NoError(t, err)
	t.Cleanup(provider.Close)

	resolveAbsPath := func(fromAbsPath, specifier string) (string, bool) {
		res := resolver.Resolve(fromAbsPath, specifier)
		if res.Kind != types.ResolvedKindFile {
			return "", false
		}
		return res.AbsPath, true
	}
	getSourceFile := func(absPath string) (*tsast.BarrelInfo, bool) {
		info, err := provider.ParseBarrel(absPath)
		if err != nil {
			return nil, false
		}
		return info, true
	}
	definingExports := reexport.NewResolver(resolveAbsPath, getSourceFile)

	resolveModule := func(fromAbsPath, specifier string) (types.ResolvedModule, error) {
		return resolver.Resolve(fromAbsPath, specifier), nil
	}
	return NewExpander(resolveModule, definingExports)
}

func TestExpandFollowsBarrelToDefiningFile(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "user.ts"), "export type User = { id: string };")
	write(t, filepath.Join(root, "index.ts"), "export * from './user';")
	write(t, filepath.Join(root, "app.ts"), "import { User } from './index';")

	e := newExpander(t)
	got, err := e.Expand(filepath.Join(root, "app.ts"), "./index", "User")
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, filepath.Join(root, "user.ts"), got[0])
}

func TestExpandMissingSpecifierReturnsNil(t *testing.T) {
	root := t.TempDir()
	write(t, filepath.Join(root, "app.ts"), "import { X } from './nope';")

	e := newExpander(t)
	got, err := e.Expand(filepath.Join(root, "app.ts"), "./nope", "X")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExpandCommanderRuleFiltersOutOfPackageDeclarations(t *testing.T) {
	root := t.TempDir()
	pkgDir := filepath.Join(root, "node_modules", "pkg")
	write(t, filepath.Join(pkgDir, "package.json"), `{"main": "index.js"}`)
	write(t, filepath.Join(pkgDir, "inner.ts"), "export type Thing = {};")
	write(t, filepath.Join(pkgDir, "index.js"), "export * from './inner';")
	write(t, filepath.Join(root, "app.ts"), "import { Thing } from 'pkg';")

	e := newExpander(t)
	got, err := e.Expand(filepath.Join(root, "app.ts"), "pkg", "Thing")
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, filepath.Join(pkgDir, "inner.ts"), got[0])
}

func TestExpandCommanderRuleDropsDeclarationFromAnotherPackageRoot(t *testing.T) {
	root := t.TempDir()
	pkgDir := filepath.Join(root, "node_modules", "pkg")
	otherDir := filepath.Join(root, "node_modules", "other")
	write(t, filepath.Join(pkgDir, "package.json"), `{"main": "index.js"}`)
	write(t, filepath.Join(otherDir, "package.json"), `{"name": "other"}`)
	write(t, filepath.Join(otherDir, "thing.ts"), "export type Thing = {};")
	write(t, filepath.Join(pkgDir, "index.js"), "export * from '../other/thing';")
	write(t, filepath.Join(root, "app.ts"), "import { Thing } from 'pkg';")

	e := newExpander(t)
	got, err := e.Expand(filepath.Join(root, "app.ts"), "pkg", "Thing")
	require.NoError(t, err)
	assert.Empty(t, got)
}
