package parser

import sitter "github.com/smacker/go-tree-sitter"

// IsReferenceNode reports whether n names a binding in expression or type
// position. Property names (obj.prop, { key: v }) are not references;
// shorthand properties ({ value }) are.
func IsReferenceNode(n *sitter.Node) bool {
	switch n.Type() {
	case "identifier", "shorthand_property_identifier", "type_identifier":
		return true
	}
	return false
}

// CollectReferences returns every distinct identifier referenced under node,
// in first-seen order. Import statements and `export ... from` statements are
// skipped: the names they mention are bindings of other modules.
func CollectReferences(node *sitter.Node, source []byte) []string {
	var refs []string
	seen := make(map[string]bool)

	WalkASTPruned(node, func(n *sitter.Node) bool {
		switch n.Type() {
		case "import_statement", "comment":
			return false
		case "export_statement":
			if n.ChildByFieldName("source") != nil {
				return false
			}
		}

		if IsReferenceNode(n) {
			name := NodeText(n, source)
			if !seen[name] {
				seen[name] = true
				refs = append(refs, name)
			}
		}
		return true
	})

	return refs
}

// PatternNames returns the names bound by a declarator's name node, which
// is an identifier or an object/array destructuring pattern. Default value
// expressions inside the pattern are not bindings and are skipped.
func PatternNames(node *sitter.Node, source []byte) []string {
	var names []string

	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		switch n.Type() {
		case "identifier", "shorthand_property_identifier_pattern":
			names = append(names, NodeText(n, source))
			return
		case "pair_pattern":
			if value := n.ChildByFieldName("value"); value != nil {
				visit(value)
			}
			return
		case "assignment_pattern", "object_assignment_pattern":
			if left := n.ChildByFieldName("left"); left != nil {
				visit(left)
			}
			return
		}

		for i := 0; i < int(n.NamedChildCount()); i++ {
			visit(n.NamedChild(i))
		}
	}
	visit(node)

	return DeduplicateStrings(names)
}
