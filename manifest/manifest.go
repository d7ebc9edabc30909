// Package manifest reads the original project's package.json and writes the
// package.json and README of an extracted component.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// FileName is the npm manifest file name.
const FileName = "package.json"

// ErrNoManifest is returned by Read when the project has no package.json.
var ErrNoManifest = errors.New("no package.json found")

// Manifest is the part of an npm package.json the extractor needs.
type Manifest struct {
	Name             string            `json:"name"`
	Version          string            `json:"version"`
	Dependencies     map[string]string `json:"dependencies"`
	DevDependencies  map[string]string `json:"devDependencies"`
	PeerDependencies map[string]string `json:"peerDependencies"`
}

// Read parses root/package.json.
func Read(root string) (*Manifest, error) {
	path := filepath.Join(root, FileName)

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w in %s", ErrNoManifest, root)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var m Manifest
	if err := json.Unmarshal(content, &m); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &m, nil
}

// VersionOf returns the version requirement declared for a package, looking
// at dependencies, then devDependencies, then peerDependencies.
func (m *Manifest) VersionOf(pkg string) (string, bool) {
	for _, deps := range []map[string]string{m.Dependencies, m.DevDependencies, m.PeerDependencies} {
		if version, ok := deps[pkg]; ok {
			return version, true
		}
	}
	return "", false
}

var exactVersionPattern = regexp.MustCompile(`^v?\d+\.\d+\.\d+(?:[-+][0-9A-Za-z.-]+)?$`)

// IsRange reports whether a version requirement admits more than one
// version (semver ranges, tags, URLs).
func IsRange(version string) bool {
	version = strings.TrimSpace(version)
	if version == "" {
		return false
	}
	return !exactVersionPattern.MatchString(version)
}
