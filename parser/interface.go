package parser

import sitter "github.com/smacker/go-tree-sitter"

// Parser defines the interface for language-specific source code parsers
type Parser interface {
	GetLanguage() string
	Close()
	Parse(source []byte, filePath string) (*ParseResult, error)
	ParseFile(filePath string) (*ParseResult, error)
	ExtractImports(node *sitter.Node, source []byte) ([]ModuleImport, error)
	ExtractReferences(node *sitter.Node, source []byte) ([]string, error)
}

// BaseParser provides common functionality for all language parsers
type BaseParser struct {
	parser   *sitter.Parser
	language *sitter.Language
	langName string
}

// ParseResult contains the parsed AST and metadata for a source file
type ParseResult struct {
	Tree     *sitter.Tree
	Source   []byte
	Language string
	FilePath string
}

// Close releases the syntax tree.
func (r *ParseResult) Close() {
	if r != nil && r.Tree != nil {
		r.Tree.Close()
	}
}

// ImportKind describes the syntactic form a module dependency takes
type ImportKind string

const (
	ImportStatic     ImportKind = "import"      // import x, { y } from "./m"
	ImportSideEffect ImportKind = "side-effect" // import "./m.css"
	ImportReExport   ImportKind = "re-export"   // export { y } from "./m"
	ImportRequire    ImportKind = "require"     // require("./m")
	ImportDynamic    ImportKind = "dynamic"     // import("./m")
)

// Binding markers used in place of a concrete export name.
const (
	DefaultBinding   = "default"
	NamespaceBinding = "*"
)

// ImportBinding maps an exported name of the source module to the local
// name it is bound to in the importing module. Imported is DefaultBinding
// for default imports and NamespaceBinding for `* as ns` forms.
type ImportBinding struct {
	Imported string
	Local    string
}

// ModuleImport represents one import-like statement and the bindings it introduces
type ModuleImport struct {
	Source   string // "./utils", "react", etc.
	Kind     ImportKind
	Bindings []ImportBinding
	TypeOnly bool // import type { T } from "./types"
}

// IsRelative reports whether the specifier points inside the project rather
// than at an installed package.
func (m ModuleImport) IsRelative() bool {
	return len(m.Source) > 0 && (m.Source[0] == '.' || m.Source[0] == '/')
}
