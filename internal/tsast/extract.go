package tsast

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/nuthan-ms/depgraph/pkg/types"
)

// functionNodeKinds are the node kinds that bound a new function body
// for the purpose of the "function-depth" dynamic-require
// classification.
var functionNodeKinds = map[string]bool{
	"function_declaration":           true,
	"function_expression":            true,
	"arrow_function":                 true,
	"method_definition":              true,
	"generator_function":             true,
	"generator_function_declaration": true,
}

// extract walks root and returns the explicit imports and tunnel
// requests.
func extract(root *sitter.Node, content []byte) ([]types.ExplicitImport, []types.TunnelRequest) {
	var explicit []types.ExplicitImport
	var tunnels []types.TunnelRequest

	var walk func(n *sitter.Node, funcDepth int)
	walk = func(n *sitter.Node, funcDepth int) {
		if n == nil {
			return
		}

		if functionNodeKinds[n.Kind()] {
			funcDepth++
		}

		switch n.Kind() {
		case "import_statement":
			handleImportStatement(n, content, &explicit, &tunnels)
		case "export_statement":
			handleExportStatement(n, content, &explicit)
		case "call_expression":
			handleCallExpression(n, content, funcDepth, &explicit)
		}

		for i := uint(0); i < n.ChildCount(); i++ {
			walk(n.Child(i), funcDepth)
		}
	}

	walk(root, 0)
	return explicit, tunnels
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

func stringLiteralValue(n *sitter.Node, content []byte) string {
	return strings.Trim(nodeText(n, content), "\"'`")
}

func findChildByKind(n *sitter.Node, kind string) *sitter.Node {
	for i := uint(0); i < n.ChildCount(); i++ {
		if c := n.Child(i); c.Kind() == kind {
			return c
		}
	}
	return nil
}

// hasLeadingTypeKeyword reports whether n has a direct "type" keyword
// token child, marking the whole import/export declaration type-only.
func hasLeadingTypeKeyword(n *sitter.Node) bool {
	for i := uint(0); i < n.ChildCount(); i++ {
		if n.Child(i).Kind() == "type" {
			return true
		}
	}
	return false
}

type namedImportSpec struct {
	localName    string
	importedName string
	typeOnly     bool
}

func collectNamedImportSpecs(n *sitter.Node, content []byte) []namedImportSpec {
	var out []namedImportSpec
	for i := uint(0); i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c.Kind() != "import_specifier" {
			continue
		}
		nameNode := c.ChildByFieldName("name")
		aliasNode := c.ChildByFieldName("alias")
		importedName := nodeText(nameNode, content)
		localName := importedName
		if aliasNode != nil {
			localName = nodeText(aliasNode, content)
		}
		out = append(out, namedImportSpec{
			localName:    localName,
			importedName: importedName,
			typeOnly:     hasLeadingTypeKeyword(c),
		})
	}
	return out
}

// handleImportStatement implements the explicit-import and
// tunnel-request rules for `import ...` declarations.
func handleImportStatement(n *sitter.Node, content []byte, explicit *[]types.ExplicitImport, tunnels *[]types.TunnelRequest) {
	sourceNode := n.ChildByFieldName("source")
	if sourceNode == nil {
		handleImportRequireClause(n, content, explicit, tunnels)
		return
	}
	specifier := stringLiteralValue(sourceNode, content)
	wholeTypeOnly := hasLeadingTypeKeyword(n)

	clause := findChildByKind(n, "import_clause")
	if clause == nil {
		kind := types.EdgeKindRuntime
		if wholeTypeOnly {
			kind = types.EdgeKindType
		}
		*explicit = append(*explicit, types.ExplicitImport{Specifier: specifier, Kind: kind})
		return
	}

	hasDefault := false
	var namedSpecs []namedImportSpec

	for i := uint(0); i < clause.ChildCount(); i++ {
		c := clause.Child(i)
		switch c.Kind() {
		case "identifier":
			hasDefault = true
		case "named_imports":
			namedSpecs = collectNamedImportSpecs(c, content)
		case "namespace_import":
			// Namespace imports are never tunneled.
		}
	}

	allNamedTypeOnly := len(namedSpecs) > 0 && !hasDefault
	for _, s := range namedSpecs {
		if !s.typeOnly {
			allNamedTypeOnly = false
		}
	}

	declKind := types.EdgeKindRuntime
	if wholeTypeOnly || allNamedTypeOnly {
		declKind = types.EdgeKindType
	}
	*explicit = append(*explicit, types.ExplicitImport{Specifier: specifier, Kind: declKind})

	if hasDefault {
		kind := types.EdgeKindRuntime
		if wholeTypeOnly {
			kind = types.EdgeKindType
		}
		*tunnels = append(*tunnels, types.TunnelRequest{Specifier: specifier, ExportName: "default", Kind: kind})
	}

	for _, s := range namedSpecs {
		kind := types.EdgeKindRuntime
		if wholeTypeOnly || s.typeOnly {
			kind = types.EdgeKindType
		}
		*tunnels = append(*tunnels, types.TunnelRequest{Specifier: specifier, ExportName: s.importedName, Kind: kind})
	}
}

// handleImportRequireClause implements `import X = require('specifier')`,
// TypeScript's CommonJS-interop import form: X binds to the entire
// required module, the same shape a default import binds to, so it is
// modeled as an explicit runtime import plus a "default" tunnel
// request.
func handleImportRequireClause(n *sitter.Node, content []byte, explicit *[]types.ExplicitImport, tunnels *[]types.TunnelRequest) {
	clause := findChildByKind(n, "import_require_clause")
	if clause == nil {
		return
	}
	sourceNode := clause.ChildByFieldName("source")
	if sourceNode == nil {
		return
	}
	specifier := stringLiteralValue(sourceNode, content)
	*explicit = append(*explicit, types.ExplicitImport{Specifier: specifier, Kind: types.EdgeKindRuntime})
	*tunnels = append(*tunnels, types.TunnelRequest{Specifier: specifier, ExportName: "default", Kind: types.EdgeKindRuntime})
}

// handleExportStatement implements the explicit-import half of
// `export ... from '<m>'` declarations. Export statements
// without a module specifier reference only local/imported bindings
// and are analyzed separately by the barrel forwarding logic.
func handleExportStatement(n *sitter.Node, content []byte, explicit *[]types.ExplicitImport) {
	sourceNode := n.ChildByFieldName("source")
	if sourceNode == nil {
		return
	}
	specifier := stringLiteralValue(sourceNode, content)
	kind := types.EdgeKindRuntime
	if hasLeadingTypeKeyword(n) {
		kind = types.EdgeKindType
	}
	*explicit = append(*explicit, types.ExplicitImport{Specifier: specifier, Kind: kind})
}

// handleCallExpression recognizes `require(x)` and dynamic `import(x)`
// call forms.
func handleCallExpression(n *sitter.Node, content []byte, funcDepth int, explicit *[]types.ExplicitImport) {
	fn := n.ChildByFieldName("function")
	argsNode := n.ChildByFieldName("arguments")
	if fn == nil || argsNode == nil {
		return
	}
	specifier, ok := firstStringArg(argsNode, content)
	if !ok {
		return
	}

	switch fn.Kind() {
	case "identifier":
		if nodeText(fn, content) != "require" {
			return
		}
		kind := types.EdgeKindRuntime
		if funcDepth > 0 {
			kind = types.EdgeKindDynamic
		}
		*explicit = append(*explicit, types.ExplicitImport{Specifier: specifier, Kind: kind})
	case "import":
		*explicit = append(*explicit, types.ExplicitImport{Specifier: specifier, Kind: types.EdgeKindDynamic})
	}
}

func firstStringArg(argsNode *sitter.Node, content []byte) (string, bool) {
	for i := uint(0); i < argsNode.ChildCount(); i++ {
		c := argsNode.Child(i)
		if c.Kind() == "string" {
			return stringLiteralValue(c, content), true
		}
	}
	return "", false
}
