package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Package is the package.json written next to an extracted component. Field
// order is the order keys are written in.
type Package struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Description     string            `json:"description"`
	Main            string            `json:"main"`
	Scripts         map[string]string `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	Browserslist    Browserslist      `json:"browserslist"`
}

// Browserslist holds per-environment browser targets.
type Browserslist struct {
	Production  []string `json:"production"`
	Development []string `json:"development"`
}

const defaultName = "react-component"

// Synthesize builds the manifest of an extracted component. The react
// runtime and react-scripts tooling are always declared; of the original
// dependencies only the packages in used are carried over, with the
// original version requirement. original may be nil.
func Synthesize(original *Manifest, used []string) *Package {
	name := defaultName
	if original != nil && original.Name != "" {
		name = original.Name
	}

	pkg := &Package{
		Name:        name + "-extracted",
		Version:     "1.0.0",
		Description: "Extracted React component",
		Main:        "index.js",
		Scripts: map[string]string{
			"start": "react-scripts start",
			"build": "react-scripts build",
			"test":  "react-scripts test",
			"eject": "react-scripts eject",
		},
		Dependencies: map[string]string{
			"react":     "^18.0.0",
			"react-dom": "^18.0.0",
		},
		DevDependencies: map[string]string{
			"react-scripts": "^5.0.0",
		},
		Browserslist: Browserslist{
			Production:  []string{">0.2%", "not dead", "not op_mini all"},
			Development: []string{"last 1 chrome version", "last 1 firefox version", "last 1 safari version"},
		},
	}

	if original == nil {
		return pkg
	}

	// keep the runtime on the version the component was written against
	for dep := range pkg.Dependencies {
		if version, ok := original.VersionOf(dep); ok {
			pkg.Dependencies[dep] = version
		}
	}
	if version, ok := original.VersionOf("react-scripts"); ok {
		pkg.DevDependencies["react-scripts"] = version
	}

	for _, dep := range used {
		if version, ok := original.VersionOf(dep); ok {
			pkg.Dependencies[dep] = version
		}
	}

	return pkg
}

// Marshal encodes the manifest with two-space indentation and a trailing
// newline, without escaping HTML characters in version ranges.
func (p *Package) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return nil, fmt.Errorf("failed to encode package.json: %w", err)
	}
	return buf.Bytes(), nil
}

// Write stores the manifest as dir/package.json.
func (p *Package) Write(dir string) error {
	data, err := p.Marshal()
	if err != nil {
		return err
	}

	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
