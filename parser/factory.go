package parser

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	// ErrUnsupportedLanguage is returned for files no grammar is registered for.
	ErrUnsupportedLanguage = errors.New("unsupported file type")
	// ErrSyntax is returned when tree-sitter recovers from errors in the source.
	ErrSyntax = errors.New("source contains syntax errors")
)

// CreateParser creates the appropriate parser based on file extension
func CreateParser(filePath string) (Parser, error) {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".js", ".jsx", ".mjs", ".cjs":
		return NewJavaScriptParser()
	case ".ts", ".mts", ".cts":
		return NewTypeScriptParser(false)
	case ".tsx":
		return NewTypeScriptParser(true)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, ext)
	}
}

// IsSourceFile reports whether a grammar exists for the file, i.e. whether
// it takes part in import traversal and pruning rather than being copied as
// an asset.
func IsSourceFile(filePath string) bool {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".js", ".jsx", ".mjs", ".cjs", ".ts", ".mts", ".cts", ".tsx":
		return true
	}
	return false
}
