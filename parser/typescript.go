package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// TypeScriptParser shares the JavaScript module analysis; the TypeScript
// grammars keep the same node names for imports, exports and declarations.
type TypeScriptParser struct {
	JavaScriptParser
}

// NewTypeScriptParser creates a parser for .ts files, or .tsx when tsx is set
func NewTypeScriptParser(tsxSyntax bool) (*TypeScriptParser, error) {
	parser := sitter.NewParser()

	language := typescript.GetLanguage()
	langName := "typescript"
	if tsxSyntax {
		language = tsx.GetLanguage()
		langName = "tsx"
	}
	parser.SetLanguage(language)

	return &TypeScriptParser{
		JavaScriptParser: JavaScriptParser{
			BaseParser: BaseParser{
				parser:   parser,
				language: language,
				langName: langName,
			},
		},
	}, nil
}
