package analyzer

import (
	"bufio"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ignoreRules holds the patterns of a project's root .gitignore. Only the
// common subset of the format is understood: comments, negation, anchored
// and directory-only patterns, and shell globs.
type ignoreRules struct {
	ignore []string
	negate []string
}

// loadIgnoreRules reads root/.gitignore. A missing file yields empty rules.
func loadIgnoreRules(root string) *ignoreRules {
	rules := &ignoreRules{}

	file, err := os.Open(filepath.Join(root, ".gitignore"))
	if err != nil {
		return rules
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if pattern, ok := strings.CutPrefix(line, "!"); ok {
			rules.negate = append(rules.negate, pattern)
		} else {
			rules.ignore = append(rules.ignore, line)
		}
	}

	return rules
}

// Match reports whether the project-relative, slash separated path is
// ignored.
func (r *ignoreRules) Match(rel string, isDir bool) bool {
	ignored := false
	for _, pattern := range r.ignore {
		if matchIgnorePattern(pattern, rel, isDir) {
			ignored = true
			break
		}
	}
	if !ignored {
		return false
	}

	for _, pattern := range r.negate {
		if matchIgnorePattern(pattern, rel, isDir) {
			return false
		}
	}
	return true
}

func matchIgnorePattern(pattern, rel string, isDir bool) bool {
	if dirPattern, ok := strings.CutSuffix(pattern, "/"); ok {
		if !isDir {
			return false
		}
		pattern = dirPattern
	}

	pattern = strings.TrimPrefix(pattern, "**/")

	if anchored, ok := strings.CutPrefix(pattern, "/"); ok {
		return globMatch(anchored, rel)
	}

	// unanchored patterns match at any depth
	parts := strings.Split(rel, "/")
	for i := range parts {
		if globMatch(pattern, strings.Join(parts[i:], "/")) {
			return true
		}
	}

	return false
}

func globMatch(pattern, name string) bool {
	if pattern == name {
		return true
	}
	ok, err := path.Match(pattern, name)
	return err == nil && ok
}
