package reachability

import (
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/hannajonsd/component-extractor/parser"
)

type statementKind int

const (
	stmtCode        statementKind = iota // side effects; always kept, seeds the live set
	stmtComment                          // kept unless attached to a dropped statement
	stmtImport                           // always kept
	stmtReExport                         // export ... from; always kept
	stmtDeclaration                      // function/class/interface/type/enum, maybe exported
	stmtVariables                        // const/let/var, maybe exported
	stmtExportList                       // export { a, b as c }
	stmtDefaultRef                       // export default a
)

// statement is one top-level statement of a module and what it declares.
type statement struct {
	kind  statementKind
	node  *sitter.Node // top-level node, removed as a whole
	names []string     // stmtDeclaration: bound names; stmtDefaultRef: the identifier

	// stmtVariables: declarators and the names each binds.
	declarators []*sitter.Node
	boundNames  [][]string

	// stmtExportList: specifiers and their exported names.
	specifiers []*sitter.Node
	exported   []string
}

// declaration is an entry of the DeclarationIndex: something that defines
// one or more top-level names and references others.
type declaration struct {
	node *sitter.Node
	refs []string
	done bool
}

func (d *declaration) references(source []byte) []string {
	if !d.done {
		d.refs = parser.CollectReferences(d.node, source)
		d.done = true
	}
	return d.refs
}

// DeclarationIndex maps a top-level name to the declarations defining it.
// Export specifiers are indexed by their exported name and reference the
// local binding; `export default x` is indexed under DefaultBinding.
type DeclarationIndex map[string][]*declaration

func (idx DeclarationIndex) add(name string, d *declaration) {
	idx[name] = append(idx[name], d)
}

// module is the pruning view of one parsed file.
type module struct {
	source     []byte
	statements []*statement
	index      DeclarationIndex
}

func newModule(root *sitter.Node, source []byte) *module {
	m := &module{
		source: source,
		index:  make(DeclarationIndex),
	}

	for i := 0; i < int(root.NamedChildCount()); i++ {
		stmt := m.classify(root.NamedChild(i))
		m.statements = append(m.statements, stmt)
		m.indexStatement(stmt)
	}

	return m
}

func (m *module) classify(node *sitter.Node) *statement {
	stmt := &statement{kind: stmtCode, node: node}

	switch node.Type() {
	case "comment":
		stmt.kind = stmtComment
	case "import_statement":
		stmt.kind = stmtImport
	case "lexical_declaration", "variable_declaration":
		m.classifyVariables(stmt, node)
	case "export_statement":
		m.classifyExport(stmt, node)
	default:
		if isNamedDeclaration(node.Type()) {
			m.classifyDeclaration(stmt, node, false)
		}
	}

	return stmt
}

func (m *module) classifyExport(stmt *statement, node *sitter.Node) {
	if node.ChildByFieldName("source") != nil {
		stmt.kind = stmtReExport
		return
	}

	isDefault := false
	var clause *sitter.Node
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "default":
			isDefault = true
		case "export_clause":
			clause = child
		}
	}

	if decl := node.ChildByFieldName("declaration"); decl != nil {
		switch {
		case decl.Type() == "lexical_declaration" || decl.Type() == "variable_declaration":
			m.classifyVariables(stmt, decl)
		case isNamedDeclaration(decl.Type()):
			m.classifyDeclaration(stmt, decl, isDefault)
		}
		return
	}

	if value := node.ChildByFieldName("value"); value != nil {
		if value.Type() == "identifier" {
			stmt.kind = stmtDefaultRef
			stmt.names = []string{parser.NodeText(value, m.source)}
		}
		return
	}

	if clause != nil {
		stmt.kind = stmtExportList
		for i := 0; i < int(clause.NamedChildCount()); i++ {
			spec := clause.NamedChild(i)
			if spec.Type() != "export_specifier" {
				continue
			}
			stmt.specifiers = append(stmt.specifiers, spec)
			stmt.exported = append(stmt.exported, exportedName(spec, m.source))
		}
	}
}

func (m *module) classifyDeclaration(stmt *statement, decl *sitter.Node, isDefault bool) {
	nameNode := decl.ChildByFieldName("name")
	if nameNode == nil {
		// anonymous default export: kept as code
		return
	}

	stmt.kind = stmtDeclaration
	stmt.names = []string{parser.NodeText(nameNode, m.source)}
	if isDefault {
		stmt.names = append(stmt.names, DefaultBinding)
	}
}

func (m *module) classifyVariables(stmt *statement, decl *sitter.Node) {
	stmt.kind = stmtVariables
	for i := 0; i < int(decl.NamedChildCount()); i++ {
		declarator := decl.NamedChild(i)
		if declarator.Type() != "variable_declarator" {
			continue
		}
		var names []string
		if nameNode := declarator.ChildByFieldName("name"); nameNode != nil {
			names = parser.PatternNames(nameNode, m.source)
		}
		stmt.declarators = append(stmt.declarators, declarator)
		stmt.boundNames = append(stmt.boundNames, names)
	}
}

func (m *module) indexStatement(stmt *statement) {
	switch stmt.kind {
	case stmtDeclaration:
		d := &declaration{node: stmt.node}
		for _, name := range stmt.names {
			m.index.add(name, d)
		}
	case stmtVariables:
		for i, declarator := range stmt.declarators {
			d := &declaration{node: declarator}
			for _, name := range stmt.boundNames[i] {
				m.index.add(name, d)
			}
		}
	case stmtExportList:
		for i, spec := range stmt.specifiers {
			local := parser.ExtractStringValue(spec.ChildByFieldName("name"), m.source)
			m.index.add(stmt.exported[i], &declaration{refs: []string{local}, done: true})
		}
	case stmtDefaultRef:
		m.index.add(DefaultBinding, &declaration{refs: stmt.names, done: true})
	}
}

// seeds returns the identifiers referenced by top-level code that is kept
// regardless of what importers use.
func (m *module) seeds() []string {
	var refs []string
	for _, stmt := range m.statements {
		if stmt.kind == stmtCode {
			refs = append(refs, parser.CollectReferences(stmt.node, m.source)...)
		}
	}
	return refs
}

// closure expands the used names into every name transitively required by
// the declarations defining them.
func (m *module) closure(used BindingSet) BindingSet {
	live := NewBindingSet()
	var queue []string

	push := func(name string) {
		if live.Add(name) {
			queue = append(queue, name)
		}
	}

	for name := range used {
		push(name)
	}
	for _, name := range m.seeds() {
		push(name)
	}

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]

		for _, d := range m.index[name] {
			for _, ref := range d.references(m.source) {
				push(ref)
			}
		}
	}

	return live
}
