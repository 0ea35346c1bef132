// Package tsast is the default TS/JS language provider, walking
// tree-sitter nodes the same way a convertTreeSitterNode-style
// recursive visitor would, with import/export extraction shaped after
// an extractImportStatement-style per-node-type dispatch.
// It implements types.LanguageProvider entirely with
// github.com/tree-sitter/go-tree-sitter plus the JS/TS/TSX grammars;
// no TypeScript compiler is invoked or assumed to exist, since the
// host-injected analyzer of the original design has no Go-native
// equivalent to load.
package tsast

import (
	"fmt"
	"os"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/nuthan-ms/depgraph/internal/resolver"
	"github.com/nuthan-ms/depgraph/pkg/types"
)

// ParsedSource is the concrete ParsedFile + Extractable this package
// returns from ParseFile.
type ParsedSource struct {
	absPath   string
	content   []byte
	explicit  []types.ExplicitImport
	tunnels   []types.TunnelRequest
}

func (p *ParsedSource) AbsPath() string { return p.absPath }
func (p *ParsedSource) Content() string { return string(p.content) }

func (p *ParsedSource) ExplicitImports() []types.ExplicitImport { return p.explicit }
func (p *ParsedSource) TunnelRequests() []types.TunnelRequest   { return p.tunnels }

// Provider implements types.LanguageProvider using pooled tree-sitter
// parsers for JS/TS/TSX. Tree-sitter parsers are not thread-safe, so
// every Parse call is serialized behind a mutex, the way
// ingo-eichhorst-agent-readyness/internal/parser/treesitter.go's
// TreeSitterParser does for its own pooled parsers.
type Provider struct {
	mu         sync.Mutex
	jsParser   *sitter.Parser
	tsParser   *sitter.Parser
	tsxParser  *sitter.Parser
}

// NewProvider constructs the pooled JS/TS/TSX parsers.
func NewProvider() (*Provider, error) {
	jsParser := sitter.NewParser()
	if err := jsParser.SetLanguage(sitter.NewLanguage(tree_sitter_javascript.Language())); err != nil {
		jsParser.Close()
		return nil, fmt.Errorf("tsast: set javascript language: %w", err)
	}

	tsParser := sitter.NewParser()
	if err := tsParser.SetLanguage(sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript())); err != nil {
		jsParser.Close()
		tsParser.Close()
		return nil, fmt.Errorf("tsast: set typescript language: %w", err)
	}

	tsxParser := sitter.NewParser()
	if err := tsxParser.SetLanguage(sitter.NewLanguage(tree_sitter_typescript.LanguageTSX())); err != nil {
		jsParser.Close()
		tsParser.Close()
		tsxParser.Close()
		return nil, fmt.Errorf("tsast: set tsx language: %w", err)
	}

	return &Provider{jsParser: jsParser, tsParser: tsParser, tsxParser: tsxParser}, nil
}

// Close releases the pooled parsers' CGO-backed resources.
func (p *Provider) Close() {
	p.jsParser.Close()
	p.tsParser.Close()
	p.tsxParser.Close()
}

func grammarFor(absPath string) string {
	lower := strings.ToLower(absPath)
	switch {
	case strings.HasSuffix(lower, ".tsx"):
		return "tsx"
	case strings.HasSuffix(lower, ".d.ts"), strings.HasSuffix(lower, ".ts"), strings.HasSuffix(lower, ".mts"), strings.HasSuffix(lower, ".cts"):
		return "ts"
	default:
		return "js"
	}
}

// parse reads and tree-sitter-parses absPath under the pool mutex,
// picking the grammar from its extension. The caller owns the
// returned tree and must Close it.
func (p *Provider) parse(absPath string) (*sitter.Tree, []byte, error) {
	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, nil, fmt.Errorf("tsast: read %s: %w", absPath, err)
	}

	p.mu.Lock()
	var parser *sitter.Parser
	switch grammarFor(absPath) {
	case "tsx":
		parser = p.tsxParser
	case "ts":
		parser = p.tsParser
	default:
		parser = p.jsParser
	}
	tree := parser.Parse(content, nil)
	p.mu.Unlock()

	if tree == nil {
		return nil, nil, fmt.Errorf("tsast: failed to parse %s", absPath)
	}
	return tree, content, nil
}

// ParseFile reads and parses absPath, returning a *ParsedSource (which
// satisfies both types.ParsedFile and types.Extractable).
func (p *Provider) ParseFile(absPath string) (types.ParsedFile, error) {
	tree, content, err := p.parse(absPath)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	explicit, tunnels := extract(tree.RootNode(), content)

	return &ParsedSource{
		absPath:  absPath,
		content:  content,
		explicit: explicit,
		tunnels:  tunnels,
	}, nil
}

// ParseBarrel reads and parses absPath, returning its per-module barrel
// analysis for use by the reexport/tunnel packages.
func (p *Provider) ParseBarrel(absPath string) (*BarrelInfo, error) {
	tree, content, err := p.parse(absPath)
	if err != nil {
		return nil, err
	}
	defer tree.Close()
	return AnalyzeBarrel(tree.RootNode(), content), nil
}

// ResolveModule delegates to the Node-style resolver.
func (p *Provider) ResolveModule(fromAbsPath, specifier string) (types.ResolvedModule, error) {
	return resolver.Resolve(fromAbsPath, specifier), nil
}

var _ types.LanguageProvider = (*Provider)(nil)
