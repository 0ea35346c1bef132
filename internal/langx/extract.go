package langx

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/nuthan-ms/depgraph/pkg/types"
)

func extractGoImports(root *sitter.Node, content []byte) []types.ExplicitImport {
	var imports []types.ExplicitImport
	walkKinds(root, map[string]bool{"import_spec": true}, func(n *sitter.Node) {
		pathNode := n.ChildByFieldName("path")
		if pathNode == nil {
			pathNode = findChildByKind(n, "interpreted_string_literal")
		}
		if pathNode == nil {
			return
		}
		spec := strings.Trim(nodeText(pathNode, content), `"`)
		if spec == "" {
			return
		}
		imports = append(imports, types.ExplicitImport{Specifier: spec, Kind: types.EdgeKindRuntime})
	})
	return imports
}

func extractPythonImports(root *sitter.Node, content []byte) []types.ExplicitImport {
	var imports []types.ExplicitImport
	walkKinds(root, map[string]bool{"import_statement": true, "import_from_statement": true}, func(n *sitter.Node) {
		switch n.Kind() {
		case "import_statement":
			for i := uint(0); i < n.ChildCount(); i++ {
				c := n.Child(i)
				switch c.Kind() {
				case "dotted_name":
					imports = append(imports, types.ExplicitImport{Specifier: nodeText(c, content), Kind: types.EdgeKindRuntime})
				case "aliased_import":
					if name := findChildByKind(c, "dotted_name"); name != nil {
						imports = append(imports, types.ExplicitImport{Specifier: nodeText(name, content), Kind: types.EdgeKindRuntime})
					}
				}
			}
		case "import_from_statement":
			moduleNode := n.ChildByFieldName("module_name")
			if moduleNode == nil {
				moduleNode = findChildByKind(n, "dotted_name")
			}
			if moduleNode == nil {
				moduleNode = findChildByKind(n, "relative_import")
			}
			if moduleNode == nil {
				return
			}
			spec := nodeText(moduleNode, content)
			if spec == "" {
				return
			}
			imports = append(imports, types.ExplicitImport{Specifier: spec, Kind: types.EdgeKindRuntime})
		}
	})
	return imports
}

func extractJavaImports(root *sitter.Node, content []byte) []types.ExplicitImport {
	var imports []types.ExplicitImport
	walkKinds(root, map[string]bool{"import_declaration": true}, func(n *sitter.Node) {
		var nameNode *sitter.Node
		wildcard := false
		for i := uint(0); i < n.ChildCount(); i++ {
			c := n.Child(i)
			switch c.Kind() {
			case "scoped_identifier", "identifier":
				nameNode = c
			case "asterisk":
				wildcard = true
			}
		}
		if nameNode == nil {
			return
		}
		spec := nodeText(nameNode, content)
		if wildcard {
			spec += ".*"
		}
		imports = append(imports, types.ExplicitImport{Specifier: spec, Kind: types.EdgeKindRuntime})
	})
	return imports
}

func extractRustImports(root *sitter.Node, content []byte) []types.ExplicitImport {
	var imports []types.ExplicitImport

	walkKinds(root, map[string]bool{"use_declaration": true}, func(n *sitter.Node) {
		text := strings.TrimSuffix(strings.TrimSpace(nodeText(n, content)), ";")
		text = strings.TrimSpace(strings.TrimPrefix(text, "use"))
		if text == "" {
			return
		}
		imports = append(imports, types.ExplicitImport{Specifier: text, Kind: types.EdgeKindRuntime})
	})

	walkKinds(root, map[string]bool{"mod_item": true}, func(n *sitter.Node) {
		if findChildByKind(n, "declaration_list") != nil {
			return
		}
		nameNode := n.ChildByFieldName("name")
		if nameNode == nil {
			return
		}
		imports = append(imports, types.ExplicitImport{Specifier: nodeText(nameNode, content), Kind: types.EdgeKindRuntime})
	})

	return imports
}

func extractCppIncludes(root *sitter.Node, content []byte) []types.ExplicitImport {
	var imports []types.ExplicitImport
	walkKinds(root, map[string]bool{"preproc_include": true}, func(n *sitter.Node) {
		if s := findChildByKind(n, "string_literal"); s != nil {
			spec := strings.Trim(nodeText(s, content), `"`)
			imports = append(imports, types.ExplicitImport{Specifier: spec, Kind: types.EdgeKindRuntime})
			return
		}
		if s := findChildByKind(n, "system_lib_string"); s != nil {
			spec := strings.Trim(nodeText(s, content), "<>")
			imports = append(imports, types.ExplicitImport{Specifier: spec, Kind: types.EdgeKindRuntime})
		}
	})
	return imports
}
