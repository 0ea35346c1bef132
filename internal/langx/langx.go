// Package langx is a supplemental types.LanguageProvider for
// Go/Python/Java/Rust/C++ sources: explicit-import extraction only, no
// re-export tunneling, following the same tree-sitter node-walking
// idiom internal/tsast uses for TS/JS, generalized from one grammar to
// five. Every tree-sitter grammar dependency this module carries
// (tree-sitter-go, -python, -java, -rust, -cpp) gets a concrete,
// exercised home here instead of sitting unused in go.mod.
package langx

import (
	"fmt"
	"os"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_cpp "github.com/tree-sitter/tree-sitter-cpp/bindings/go"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"

	"github.com/nuthan-ms/depgraph/pkg/types"
)

// grammar names the five supplemental grammars langx dispatches on.
type grammar string

const (
	grammarGo     grammar = "go"
	grammarPython grammar = "python"
	grammarJava   grammar = "java"
	grammarRust   grammar = "rust"
	grammarCpp    grammar = "cpp"
)

func grammarFor(absPath string) (grammar, bool) {
	lower := strings.ToLower(absPath)
	switch {
	case strings.HasSuffix(lower, ".go"):
		return grammarGo, true
	case strings.HasSuffix(lower, ".py"):
		return grammarPython, true
	case strings.HasSuffix(lower, ".java"):
		return grammarJava, true
	case strings.HasSuffix(lower, ".rs"):
		return grammarRust, true
	case strings.HasSuffix(lower, ".cc"), strings.HasSuffix(lower, ".cpp"),
		strings.HasSuffix(lower, ".cxx"), strings.HasSuffix(lower, ".hpp"),
		strings.HasSuffix(lower, ".h"), strings.HasSuffix(lower, ".hh"):
		return grammarCpp, true
	default:
		return "", false
	}
}

// Supports reports whether langx has a grammar for absPath, so a host
// can route it here instead of the TS/JS provider.
func Supports(absPath string) bool {
	_, ok := grammarFor(absPath)
	return ok
}

// parsedSource is the ParsedFile + Extractable langx.ParseFile returns.
// TunnelRequests is always empty: none of these five grammars get a
// re-export forwarding/tunnel analysis, per the package doc.
type parsedSource struct {
	absPath  string
	content  []byte
	explicit []types.ExplicitImport
}

func (p *parsedSource) AbsPath() string                         { return p.absPath }
func (p *parsedSource) Content() string                         { return string(p.content) }
func (p *parsedSource) ExplicitImports() []types.ExplicitImport { return p.explicit }
func (p *parsedSource) TunnelRequests() []types.TunnelRequest   { return nil }

// Provider implements types.LanguageProvider for the five supplemental
// grammars using one pooled tree-sitter parser apiece. Tree-sitter
// parsers are not thread-safe, so every Parse call is serialized
// behind a mutex, the same pooling discipline internal/tsast.Provider
// uses.
type Provider struct {
	mu      sync.Mutex
	parsers map[grammar]*sitter.Parser
}

// NewProvider constructs the five pooled parsers.
func NewProvider() (*Provider, error) {
	parsers := make(map[grammar]*sitter.Parser, 5)

	newParser := func(g grammar, lang *sitter.Language) error {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(lang); err != nil {
			parser.Close()
			return fmt.Errorf("langx: set %s language: %w", g, err)
		}
		parsers[g] = parser
		return nil
	}

	steps := []struct {
		g    grammar
		lang *sitter.Language
	}{
		{grammarGo, sitter.NewLanguage(tree_sitter_go.Language())},
		{grammarPython, sitter.NewLanguage(tree_sitter_python.Language())},
		{grammarJava, sitter.NewLanguage(tree_sitter_java.Language())},
		{grammarRust, sitter.NewLanguage(tree_sitter_rust.Language())},
		{grammarCpp, sitter.NewLanguage(tree_sitter_cpp.Language())},
	}

	for _, s := range steps {
		if err := newParser(s.g, s.lang); err != nil {
			for _, p := range parsers {
				p.Close()
			}
			return nil, err
		}
	}

	return &Provider{parsers: parsers}, nil
}

// Close releases every pooled parser's CGO-backed resources.
func (p *Provider) Close() {
	for _, parser := range p.parsers {
		parser.Close()
	}
}

// ParseFile reads and tree-sitter-parses absPath, dispatching on
// extension, and extracts its explicit imports.
func (p *Provider) ParseFile(absPath string) (types.ParsedFile, error) {
	g, ok := grammarFor(absPath)
	if !ok {
		return nil, fmt.Errorf("langx: unsupported file type: %s", absPath)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("langx: read %s: %w", absPath, err)
	}

	p.mu.Lock()
	tree := p.parsers[g].Parse(content, nil)
	p.mu.Unlock()
	if tree == nil {
		return nil, fmt.Errorf("langx: failed to parse %s", absPath)
	}
	defer tree.Close()

	explicit := extractFor(g, tree.RootNode(), content)

	return &parsedSource{absPath: absPath, content: content, explicit: explicit}, nil
}

// ResolveModule resolves an import specifier relative to fromAbsPath
// for the five supplemental grammars, scaled down to what each
// language's import syntax can express without a real
// build-system/classpath model (see resolveFor).
func (p *Provider) ResolveModule(fromAbsPath, specifier string) (types.ResolvedModule, error) {
	g, ok := grammarFor(fromAbsPath)
	if !ok {
		return types.ResolvedModule{}, fmt.Errorf("langx: unsupported file type: %s", fromAbsPath)
	}
	return resolveFor(g, fromAbsPath, specifier), nil
}

func extractFor(g grammar, root *sitter.Node, content []byte) []types.ExplicitImport {
	switch g {
	case grammarGo:
		return extractGoImports(root, content)
	case grammarPython:
		return extractPythonImports(root, content)
	case grammarJava:
		return extractJavaImports(root, content)
	case grammarRust:
		return extractRustImports(root, content)
	case grammarCpp:
		return extractCppIncludes(root, content)
	default:
		return nil
	}
}

func nodeText(n *sitter.Node, content []byte) string {
	if n == nil {
		return ""
	}
	start, end := n.StartByte(), n.EndByte()
	if int(end) > len(content) || start > end {
		return ""
	}
	return string(content[start:end])
}

func findChildByKind(n *sitter.Node, kind string) *sitter.Node {
	for i := uint(0); i < n.ChildCount(); i++ {
		if c := n.Child(i); c.Kind() == kind {
			return c
		}
	}
	return nil
}

func walkKinds(root *sitter.Node, kinds map[string]bool, visit func(n *sitter.Node)) {
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if kinds[n.Kind()] {
			visit(n)
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			walk(n.Child(i))
		}
	}
	walk(root)
}
