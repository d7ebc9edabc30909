package reachability

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/hannajonsd/component-extractor/parser"
)

// ExportTable lists the bindings a module makes available.
type ExportTable struct {
	// Default is set when the module has an `export default`.
	Default bool
	// Named holds every exported name other than default, including names
	// re-exported from other modules.
	Named BindingSet
	// ReExported maps names this module re-exports to the specifier they
	// come from.
	ReExported map[string]string
	// StarSources lists specifiers of `export * from` statements.
	StarSources []string
}

func newExportTable() *ExportTable {
	return &ExportTable{
		Named:      NewBindingSet(),
		ReExported: make(map[string]string),
	}
}

// Empty reports whether the module exports nothing at all.
func (t *ExportTable) Empty() bool {
	return !t.Default && len(t.Named) == 0 && len(t.StarSources) == 0
}

// Names returns every exported name, with DefaultBinding when present.
func (t *ExportTable) Names() BindingSet {
	names := NewBindingSet()
	for n := range t.Named {
		names.Add(n)
	}
	if t.Default {
		names.Add(DefaultBinding)
	}
	return names
}

// AnalyzeExports builds the export table from the top-level statements of a
// parsed module.
func AnalyzeExports(root *sitter.Node, source []byte) *ExportTable {
	table := newExportTable()

	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := root.NamedChild(i)
		if stmt.Type() != "export_statement" {
			continue
		}
		analyzeExportStatement(table, stmt, source)
	}

	return table
}

func analyzeExportStatement(table *ExportTable, stmt *sitter.Node, source []byte) {
	from := ""
	if src := stmt.ChildByFieldName("source"); src != nil {
		from = parser.ExtractStringValue(src, source)
	}

	isDefault := false
	for i := 0; i < int(stmt.ChildCount()); i++ {
		child := stmt.Child(i)

		switch child.Type() {
		case "default":
			isDefault = true
			table.Default = true
		case "*":
			if from != "" {
				table.StarSources = append(table.StarSources, from)
			}
		case "namespace_export":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				name := parser.ExtractStringValue(child.NamedChild(j), source)
				table.Named.Add(name)
				table.ReExported[name] = from
			}
		case "export_clause":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				spec := child.NamedChild(j)
				if spec.Type() != "export_specifier" {
					continue
				}
				exported := exportedName(spec, source)
				if exported == DefaultBinding {
					// export { Foo as default }
					table.Default = true
					continue
				}
				table.Named.Add(exported)
				if from != "" {
					table.ReExported[exported] = from
				}
			}
		}
	}

	if isDefault {
		return
	}
	if decl := stmt.ChildByFieldName("declaration"); decl != nil {
		for _, name := range declaredNames(decl, source) {
			table.Named.Add(name)
		}
	}
}

// exportedName is the name importers see: the alias when present.
func exportedName(spec *sitter.Node, source []byte) string {
	if alias := spec.ChildByFieldName("alias"); alias != nil {
		return parser.ExtractStringValue(alias, source)
	}
	return parser.ExtractStringValue(spec.ChildByFieldName("name"), source)
}

// declaredNames returns the names a declaration statement binds at the top
// level of the module.
func declaredNames(decl *sitter.Node, source []byte) []string {
	switch decl.Type() {
	case "lexical_declaration", "variable_declaration":
		var names []string
		for i := 0; i < int(decl.NamedChildCount()); i++ {
			declarator := decl.NamedChild(i)
			if declarator.Type() != "variable_declarator" {
				continue
			}
			if nameNode := declarator.ChildByFieldName("name"); nameNode != nil {
				names = append(names, parser.PatternNames(nameNode, source)...)
			}
		}
		return names
	default:
		if !isNamedDeclaration(decl.Type()) {
			return nil
		}
		if nameNode := decl.ChildByFieldName("name"); nameNode != nil {
			return []string{parser.NodeText(nameNode, source)}
		}
	}
	return nil
}

// isNamedDeclaration lists the statements that bind a single top-level name.
func isNamedDeclaration(nodeType string) bool {
	switch nodeType {
	case "function_declaration", "generator_function_declaration", "class_declaration",
		"abstract_class_declaration", "interface_declaration", "type_alias_declaration",
		"enum_declaration":
		return true
	}
	return false
}
