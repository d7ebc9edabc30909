// parser/javascript.go - Tree-sitter based module analysis (NO REGEX)
package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

type JavaScriptParser struct {
	BaseParser
}

func NewJavaScriptParser() (*JavaScriptParser, error) {
	parser := sitter.NewParser()
	language := javascript.GetLanguage()
	parser.SetLanguage(language)

	return &JavaScriptParser{
		BaseParser: BaseParser{
			parser:   parser,
			language: language,
			langName: "javascript",
		},
	}, nil
}

func (p *JavaScriptParser) ParseFile(filePath string) (*ParseResult, error) {
	return p.ParseFileGeneric(filePath)
}

// ExtractImports returns every module dependency of the program rooted at
// node: static imports, re-exports, require() calls and dynamic import().
func (p *JavaScriptParser) ExtractImports(node *sitter.Node, source []byte) ([]ModuleImport, error) {
	var imports []ModuleImport

	WalkAST(node, source, func(n *sitter.Node) {
		switch n.Type() {
		case "import_statement":
			if imp := p.processImportStatement(n, source); imp != nil {
				imports = append(imports, *imp)
			}
		case "export_statement":
			if imp := p.processReExport(n, source); imp != nil {
				imports = append(imports, *imp)
			}
		case "call_expression":
			if imp := p.processCallExpression(n, source); imp != nil {
				imports = append(imports, *imp)
			}
		}
	})

	return imports, nil
}

func (p *JavaScriptParser) processImportStatement(node *sitter.Node, source []byte) *ModuleImport {
	imp := &ModuleImport{Kind: ImportSideEffect}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)

		switch child.Type() {
		case "import_clause":
			imp.Bindings = append(imp.Bindings, p.processImportClause(child, source)...)
		case "import_require_clause":
			// TypeScript: import foo = require("module")
			imp.Bindings, imp.Source = p.processImportRequireClause(child, source)
		case "string":
			imp.Source = ExtractStringValue(child, source)
		case "type":
			imp.TypeOnly = true
		}
	}

	if imp.Source == "" {
		return nil
	}
	if len(imp.Bindings) > 0 {
		imp.Kind = ImportStatic
	}

	return imp
}

func (p *JavaScriptParser) processImportClause(node *sitter.Node, source []byte) []ImportBinding {
	var bindings []ImportBinding

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)

		switch child.Type() {
		case "identifier":
			// Default import: import foo from "module"
			bindings = append(bindings, ImportBinding{Imported: DefaultBinding, Local: NodeText(child, source)})
		case "namespace_import":
			// Namespace import: import * as foo from "module"
			bindings = append(bindings, ImportBinding{Imported: NamespaceBinding, Local: p.processNamespaceImport(child, source)})
		case "named_imports":
			// Named imports: import { a, b as c } from "module"
			bindings = append(bindings, p.processNamedImports(child, source)...)
		}
	}

	return bindings
}

func (p *JavaScriptParser) processNamespaceImport(node *sitter.Node, source []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "identifier" {
			return NodeText(child, source)
		}
	}
	return ""
}

func (p *JavaScriptParser) processNamedImports(node *sitter.Node, source []byte) []ImportBinding {
	var bindings []ImportBinding

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "import_specifier" {
			if b, ok := p.processSpecifier(child, source); ok {
				bindings = append(bindings, b)
			}
		}
	}

	return bindings
}

// processSpecifier reads `name` / `name as alias` from an import or export
// specifier. String names (import { "a-b" as ab }) are unquoted.
func (p *JavaScriptParser) processSpecifier(node *sitter.Node, source []byte) (ImportBinding, bool) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return ImportBinding{}, false
	}

	name := ExtractStringValue(nameNode, source)
	local := name
	if aliasNode := node.ChildByFieldName("alias"); aliasNode != nil {
		local = ExtractStringValue(aliasNode, source)
	}

	return ImportBinding{Imported: name, Local: local}, true
}

func (p *JavaScriptParser) processImportRequireClause(node *sitter.Node, source []byte) ([]ImportBinding, string) {
	var local, packageName string

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)

		switch child.Type() {
		case "identifier":
			local = NodeText(child, source)
		case "string":
			packageName = ExtractStringValue(child, source)
		}
	}

	return []ImportBinding{{Imported: NamespaceBinding, Local: local}}, packageName
}

// processReExport handles `export ... from "module"`. Bindings map the name
// exported by the source module (Imported) to the name this module exposes
// it under (Local).
func (p *JavaScriptParser) processReExport(node *sitter.Node, source []byte) *ModuleImport {
	sourceNode := node.ChildByFieldName("source")
	if sourceNode == nil {
		return nil
	}

	imp := &ModuleImport{
		Source: ExtractStringValue(sourceNode, source),
		Kind:   ImportReExport,
	}

	star := false
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)

		switch child.Type() {
		case "export_clause":
			for j := 0; j < int(child.ChildCount()); j++ {
				spec := child.Child(j)
				if spec.Type() != "export_specifier" {
					continue
				}
				if b, ok := p.processSpecifier(spec, source); ok {
					imp.Bindings = append(imp.Bindings, b)
				}
			}
		case "namespace_export":
			// export * as ns from "module"
			imp.Bindings = append(imp.Bindings, ImportBinding{Imported: NamespaceBinding, Local: p.processNamespaceExport(child, source)})
		case "*":
			star = true
		case "type":
			imp.TypeOnly = true
		}
	}

	if star && len(imp.Bindings) == 0 {
		// export * from "module"
		imp.Bindings = append(imp.Bindings, ImportBinding{Imported: NamespaceBinding})
	}

	return imp
}

func (p *JavaScriptParser) processNamespaceExport(node *sitter.Node, source []byte) string {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == "identifier" || child.Type() == "string" {
			return ExtractStringValue(child, source)
		}
	}
	return ""
}

// processCallExpression recognises require("x") and import("x") with a
// literal specifier. Both consume the whole module.
func (p *JavaScriptParser) processCallExpression(node *sitter.Node, source []byte) *ModuleImport {
	funcNode := node.ChildByFieldName("function")
	argsNode := node.ChildByFieldName("arguments")
	if funcNode == nil || argsNode == nil {
		return nil
	}

	var kind ImportKind
	switch {
	case funcNode.Type() == "import":
		kind = ImportDynamic
	case funcNode.Type() == "identifier" && NodeText(funcNode, source) == "require":
		kind = ImportRequire
	default:
		return nil
	}

	packageName := p.processArguments(argsNode, source)
	if packageName == "" {
		return nil
	}

	return &ModuleImport{
		Source:   packageName,
		Kind:     kind,
		Bindings: []ImportBinding{{Imported: NamespaceBinding}},
	}
}

func (p *JavaScriptParser) processArguments(node *sitter.Node, source []byte) string {
	if node.NamedChildCount() == 0 {
		return ""
	}

	arg := node.NamedChild(0)
	switch arg.Type() {
	case "string":
		return ExtractStringValue(arg, source)
	case "template_string":
		// Only plain templates; `./${name}` cannot be resolved statically.
		for i := 0; i < int(arg.NamedChildCount()); i++ {
			if arg.NamedChild(i).Type() == "template_substitution" {
				return ""
			}
		}
		return ExtractStringValue(arg, source)
	}
	return ""
}

// ExtractReferences returns the distinct identifier names referenced under
// node, ignoring import statements and re-exports whose names belong to
// another module.
func (p *JavaScriptParser) ExtractReferences(node *sitter.Node, source []byte) ([]string, error) {
	return CollectReferences(node, source), nil
}
