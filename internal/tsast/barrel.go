package tsast

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// ImportBindingKind classifies a local name introduced by an import
// clause.
type ImportBindingKind string

const (
	ImportBindingDefault   ImportBindingKind = "default"
	ImportBindingNamed     ImportBindingKind = "named"
	ImportBindingNamespace ImportBindingKind = "namespace"
)

// ImportBinding is the value side of collectImportBindings: the
// module and (for named bindings) the name the local identifier was
// imported under.
type ImportBinding struct {
	Kind       ImportBindingKind
	Specifier  string
	ImportName string
}

// ForwardingTargetKind distinguishes symbol-level forwarding (follow
// into a specific exported name) from module-level forwarding
// (namespace re-export).
type ForwardingTargetKind string

const (
	ForwardingSymbol ForwardingTargetKind = "symbol"
	ForwardingModule ForwardingTargetKind = "module"
)

// ForwardingTarget is one outgoing edge of a barrel's forwarding graph
// for a given export name.
type ForwardingTarget struct {
	Kind       ForwardingTargetKind
	Specifier  string
	ImportName string
}

type localExportSpec struct {
	localName  string
	exportedAs string
}

type forwardingStar struct {
	specifier string
	asName    string
}

type forwardingNamed struct {
	specifier  string
	importName string
	exportedAs string
}

// BarrelInfo is the per-module analysis reexport traversal performs over a
// single parsed source file, consumed by the reexport package's
// traversal.
type BarrelInfo struct {
	LocalNames     map[string]bool
	ImportBindings map[string]ImportBinding

	exportedDecls    map[string]bool
	hasDefaultExport bool
	localExportSpecs []localExportSpec
	forwardingStars  []forwardingStar
	forwardingNamed  []forwardingNamed
}

// DefinesLocally reports whether exportName is declared in this module.
func (b *BarrelInfo) DefinesLocally(exportName string) bool {
	if exportName == "default" {
		return b.hasDefaultExport
	}
	if b.exportedDecls[exportName] {
		return true
	}
	for _, spec := range b.localExportSpecs {
		if spec.exportedAs == exportName && b.LocalNames[spec.localName] {
			return true
		}
	}
	return false
}

// ForwardingTargets returns the
// collectForwardingTargets(exportName, ...).
func (b *BarrelInfo) ForwardingTargets(exportName string) []ForwardingTarget {
	var out []ForwardingTarget

	for _, s := range b.forwardingStars {
		switch {
		case s.asName == "":
			out = append(out, ForwardingTarget{Kind: ForwardingSymbol, Specifier: s.specifier, ImportName: exportName})
		case s.asName == exportName:
			out = append(out, ForwardingTarget{Kind: ForwardingModule, Specifier: s.specifier})
		}
	}

	for _, n := range b.forwardingNamed {
		if n.exportedAs == exportName {
			out = append(out, ForwardingTarget{Kind: ForwardingSymbol, Specifier: n.specifier, ImportName: n.importName})
		}
	}

	for _, spec := range b.localExportSpecs {
		if spec.exportedAs != exportName {
			continue
		}
		binding, isImportBinding := b.ImportBindings[spec.localName]
		if !isImportBinding {
			continue
		}
		if binding.Kind == ImportBindingNamespace {
			out = append(out, ForwardingTarget{Kind: ForwardingModule, Specifier: binding.Specifier})
			continue
		}
		importName := binding.ImportName
		if binding.Kind == ImportBindingDefault {
			importName = "default"
		}
		out = append(out, ForwardingTarget{Kind: ForwardingSymbol, Specifier: binding.Specifier, ImportName: importName})
	}

	return out
}

// AnalyzeBarrel walks root's top-level statements and builds the
// BarrelInfo reexport traversal needs: local declarations, import bindings, and
// forwarding targets.
func AnalyzeBarrel(root *sitter.Node, content []byte) *BarrelInfo {
	info := &BarrelInfo{
		LocalNames:     map[string]bool{},
		ImportBindings: map[string]ImportBinding{},
		exportedDecls:  map[string]bool{},
	}
	for i := uint(0); i < root.ChildCount(); i++ {
		analyzeTopLevelStatement(root.Child(i), content, info)
	}
	return info
}

func analyzeTopLevelStatement(n *sitter.Node, content []byte, info *BarrelInfo) {
	switch n.Kind() {
	case "import_statement":
		collectImportBindingsFrom(n, content, info)
	case "export_statement":
		analyzeExportStatement(n, content, info)
	case "export_assignment":
		analyzeExportAssignment(n, content, info)
	case "lexical_declaration", "variable_declaration":
		addVariableDeclaratorNames(n, content, info.LocalNames)
	default:
		if name, ok := singleDeclaredName(n, content); ok {
			info.LocalNames[name] = true
		}
	}
}

func singleDeclaredName(n *sitter.Node, content []byte) (string, bool) {
	if n == nil {
		return "", false
	}
	switch n.Kind() {
	case "function_declaration", "generator_function_declaration", "class_declaration",
		"interface_declaration", "type_alias_declaration", "enum_declaration",
		"module", "internal_module":
		if nameNode := n.ChildByFieldName("name"); nameNode != nil {
			return nodeText(nameNode, content), true
		}
	}
	return "", false
}

func addVariableDeclaratorNames(n *sitter.Node, content []byte, dest map[string]bool) {
	for i := uint(0); i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c.Kind() != "variable_declarator" {
			continue
		}
		if nameNode := c.ChildByFieldName("name"); nameNode != nil {
			dest[nodeText(nameNode, content)] = true
		}
	}
}

func findFirstIdentifierChild(n *sitter.Node) *sitter.Node {
	for i := uint(0); i < n.ChildCount(); i++ {
		if c := n.Child(i); c.Kind() == "identifier" {
			return c
		}
	}
	return nil
}

type exportSpecText struct{ name, alias string }

func collectExportSpecifiers(n *sitter.Node, content []byte) []exportSpecText {
	var out []exportSpecText
	for i := uint(0); i < n.ChildCount(); i++ {
		c := n.Child(i)
		if c.Kind() != "export_specifier" {
			continue
		}
		nameNode := c.ChildByFieldName("name")
		aliasNode := c.ChildByFieldName("alias")
		name := nodeText(nameNode, content)
		alias := name
		if aliasNode != nil {
			alias = nodeText(aliasNode, content)
		}
		out = append(out, exportSpecText{name: name, alias: alias})
	}
	return out
}

func collectImportBindingsFrom(n *sitter.Node, content []byte, info *BarrelInfo) {
	sourceNode := n.ChildByFieldName("source")
	if sourceNode == nil {
		collectImportRequireBinding(n, content, info)
		return
	}
	specifier := stringLiteralValue(sourceNode, content)

	clause := findChildByKind(n, "import_clause")
	if clause == nil {
		return
	}

	for i := uint(0); i < clause.ChildCount(); i++ {
		c := clause.Child(i)
		switch c.Kind() {
		case "identifier":
			info.ImportBindings[nodeText(c, content)] = ImportBinding{Kind: ImportBindingDefault, Specifier: specifier}
		case "namespace_import":
			if idNode := findFirstIdentifierChild(c); idNode != nil {
				info.ImportBindings[nodeText(idNode, content)] = ImportBinding{Kind: ImportBindingNamespace, Specifier: specifier}
			}
		case "named_imports":
			for _, spec := range collectNamedImportSpecs(c, content) {
				info.ImportBindings[spec.localName] = ImportBinding{Kind: ImportBindingNamed, Specifier: specifier, ImportName: spec.importedName}
			}
		}
	}
}

// collectImportRequireBinding handles `import X = require('specifier')`,
// binding X to the whole required module the same way a default import
// binding does.
func collectImportRequireBinding(n *sitter.Node, content []byte, info *BarrelInfo) {
	clause := findChildByKind(n, "import_require_clause")
	if clause == nil {
		return
	}
	nameNode := clause.ChildByFieldName("name")
	sourceNode := clause.ChildByFieldName("source")
	if nameNode == nil || sourceNode == nil {
		return
	}
	specifier := stringLiteralValue(sourceNode, content)
	info.ImportBindings[nodeText(nameNode, content)] = ImportBinding{Kind: ImportBindingDefault, Specifier: specifier}
}

// analyzeExportAssignment handles `export = <expr>;`, TypeScript's
// CommonJS-interop export form: the whole module's exports become
// expr, equivalent to a default export. When expr is a bare identifier
// bound by an import, that identifier is recorded as a forwarding
// target for the "default" export name.
func analyzeExportAssignment(n *sitter.Node, content []byte, info *BarrelInfo) {
	info.hasDefaultExport = true
	for i := uint(0); i < n.ChildCount(); i++ {
		if c := n.Child(i); c.Kind() == "identifier" {
			info.localExportSpecs = append(info.localExportSpecs, localExportSpec{localName: nodeText(c, content), exportedAs: "default"})
		}
	}
}

func analyzeExportStatement(n *sitter.Node, content []byte, info *BarrelInfo) {
	sourceNode := n.ChildByFieldName("source")

	if sourceNode != nil {
		specifier := stringLiteralValue(sourceNode, content)

		if starNode := findChildByKind(n, "*"); starNode != nil {
			asName := ""
			if ns := findChildByKind(n, "namespace_export"); ns != nil {
				if idNode := findFirstIdentifierChild(ns); idNode != nil {
					asName = nodeText(idNode, content)
				}
			}
			info.forwardingStars = append(info.forwardingStars, forwardingStar{specifier: specifier, asName: asName})
			return
		}

		if clause := findChildByKind(n, "export_clause"); clause != nil {
			for _, spec := range collectExportSpecifiers(clause, content) {
				info.forwardingNamed = append(info.forwardingNamed, forwardingNamed{
					specifier: specifier, importName: spec.name, exportedAs: spec.alias,
				})
			}
		}
		return
	}

	if findChildByKind(n, "default") != nil {
		info.hasDefaultExport = true
		for i := uint(0); i < n.ChildCount(); i++ {
			if name, ok := singleDeclaredName(n.Child(i), content); ok {
				info.LocalNames[name] = true
			}
		}
		return
	}

	if clause := findChildByKind(n, "export_clause"); clause != nil {
		for _, spec := range collectExportSpecifiers(clause, content) {
			info.localExportSpecs = append(info.localExportSpecs, localExportSpec{localName: spec.name, exportedAs: spec.alias})
		}
		return
	}

	for i := uint(0); i < n.ChildCount(); i++ {
		c := n.Child(i)
		if name, ok := singleDeclaredName(c, content); ok {
			info.LocalNames[name] = true
			info.exportedDecls[name] = true
			continue
		}
		if c.Kind() == "lexical_declaration" || c.Kind() == "variable_declaration" {
			addVariableDeclaratorNames(c, content, info.LocalNames)
			addVariableDeclaratorNames(c, content, info.exportedDecls)
		}
	}
}
