package parser

import (
	"context"
	"fmt"
	"os"

	sitter "github.com/smacker/go-tree-sitter"
)

// DeduplicateStrings removes duplicate strings from a slice
func DeduplicateStrings(strs []string) []string {
	seen := make(map[string]bool)
	var result []string

	for _, s := range strs {
		if !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	return result
}

// ExtractStringValue removes quotes from string literals in AST nodes
func ExtractStringValue(node *sitter.Node, source []byte) string {
	text := NodeText(node, source)
	if len(text) >= 2 && (text[0] == '"' || text[0] == '\'' || text[0] == '`') {
		text = text[1 : len(text)-1]
	}
	return text
}

// NodeText returns the source text spanned by a node
func NodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// WalkAST recursively traverses an AST and applies a visitor function to each node
func WalkAST(node *sitter.Node, source []byte, visitor func(*sitter.Node)) {
	visitor(node)

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		WalkAST(child, source, visitor)
	}
}

// WalkASTPruned is WalkAST with the ability to skip a subtree: when the
// visitor returns false the node's children are not visited.
func WalkASTPruned(node *sitter.Node, visitor func(*sitter.Node) bool) {
	if !visitor(node) {
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		WalkASTPruned(node.Child(i), visitor)
	}
}

// ParseFileGeneric provides common file parsing functionality for all language parsers
func (bp *BaseParser) ParseFileGeneric(filePath string) (*ParseResult, error) {
	source, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	return bp.Parse(source, filePath)
}

// Parse builds a syntax tree for source. A tree containing error nodes is
// released and reported as ErrSyntax so callers can fall back to the
// original text.
func (bp *BaseParser) Parse(source []byte, filePath string) (*ParseResult, error) {
	tree, err := bp.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse file %s: %w", filePath, err)
	}
	if tree == nil {
		return nil, fmt.Errorf("failed to parse file %s", filePath)
	}
	if tree.RootNode().HasError() {
		tree.Close()
		return nil, fmt.Errorf("%s: %w", filePath, ErrSyntax)
	}

	return &ParseResult{
		Tree:     tree,
		Source:   source,
		Language: bp.langName,
		FilePath: filePath,
	}, nil
}

// GetLanguage returns the language name for this parser
func (bp *BaseParser) GetLanguage() string {
	return bp.langName
}

// Close releases the underlying tree-sitter parser
func (bp *BaseParser) Close() {
	if bp.parser != nil {
		bp.parser.Close()
	}
}
