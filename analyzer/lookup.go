package analyzer

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"github.com/hannajonsd/component-extractor/parser"
)

// ErrComponentNotFound is returned when no project file matches the
// requested component name.
var ErrComponentNotFound = errors.New("component not found")

var (
	blockCommentPattern = regexp.MustCompile(`/\*[\s\S]*?\*/`)
	// a line comment, unless the slashes belong to a URL scheme
	lineCommentPattern = regexp.MustCompile(`(^|[^:])//.*`)
	identifierPattern  = regexp.MustCompile(`^[a-zA-Z_$][a-zA-Z0-9_$]*$`)

	declaredComponentPattern = regexp.MustCompile(`(?:export\s+)?(?:default\s+)?(?:function|const|class)\s+([A-Z][a-zA-Z0-9]*)`)
	exportedComponentPattern = regexp.MustCompile(`export\s+\{\s*([A-Z][a-zA-Z0-9]*)\s*\}`)
)

func removeJSComments(content string) string {
	content = blockCommentPattern.ReplaceAllString(content, "")
	return lineCommentPattern.ReplaceAllString(content, "$1")
}

func isValidJSIdentifier(s string) bool {
	return identifierPattern.MatchString(s)
}

// fold returns s case-folded for caseless comparison.
func fold(s string) string {
	return cases.Fold().String(s)
}

// definitionPatterns match the ways a file can define or export name.
func definitionPatterns(name string) []*regexp.Regexp {
	quoted := regexp.QuoteMeta(name)
	return []*regexp.Regexp{
		regexp.MustCompile(`(?i)(export\s+)?(default\s+)?(function|const|class)\s+` + quoted + `\b`),
		regexp.MustCompile(`(?i)export\s+\{\s*` + quoted + `\s*\}`),
		regexp.MustCompile(`(?i)export\s+default\s+` + quoted + `\b`),
	}
}

// FindComponentFiles returns the candidate source files that are named
// after the component or define it. The result is the entry set of an
// extraction; ErrComponentNotFound is returned when it would be empty.
func (e *Extractor) FindComponentFiles(name string, structure *ProjectStructure) ([]string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrComponentNotFound)
	}

	wanted := fold(name)
	var patterns []*regexp.Regexp
	if isValidJSIdentifier(name) {
		patterns = definitionPatterns(name)
	}

	var matches []string
	seen := make(map[string]bool)

	for _, file := range structure.Candidates() {
		if seen[file] || !parser.IsSourceFile(file) {
			continue
		}

		base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
		if strings.Contains(fold(base), wanted) {
			seen[file] = true
			matches = append(matches, file)
			continue
		}

		if len(patterns) == 0 {
			continue
		}

		content, err := os.ReadFile(filepath.Join(e.root, filepath.FromSlash(file)))
		if err != nil {
			e.logger.Warn("cannot read candidate file",
				slog.String("file", file),
				slog.String("error", err.Error()))
			continue
		}

		code := removeJSComments(string(content))
		for _, pattern := range patterns {
			if pattern.MatchString(code) {
				seen[file] = true
				matches = append(matches, file)
				break
			}
		}
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrComponentNotFound, name)
	}

	e.logger.Debug("component files found",
		slog.String("component", name),
		slog.Any("files", matches))

	return matches, nil
}

// ListComponents returns the sorted names of PascalCase functions, classes
// and constants declared or exported by component and page files.
func (e *Extractor) ListComponents(structure *ProjectStructure) []string {
	names := make(map[string]bool)

	files := append(append([]string(nil), structure.Components...), structure.Pages...)
	for _, file := range files {
		if !parser.IsSourceFile(file) {
			continue
		}

		content, err := os.ReadFile(filepath.Join(e.root, filepath.FromSlash(file)))
		if err != nil {
			continue
		}
		code := removeJSComments(string(content))

		for _, pattern := range []*regexp.Regexp{declaredComponentPattern, exportedComponentPattern} {
			for _, m := range pattern.FindAllStringSubmatch(code, -1) {
				if len(m[1]) > 1 {
					names[m[1]] = true
				}
			}
		}
	}

	list := make([]string, 0, len(names))
	for name := range names {
		list = append(list, name)
	}
	sort.Strings(list)

	return list
}
