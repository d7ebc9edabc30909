package analyzer

import (
	"io/fs"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"
)

// DefaultSkipDirs are directory names never descended into.
var DefaultSkipDirs = []string{"node_modules", ".git", "dist", "build", ".next"}

var (
	styleExtensions = []string{".css", ".scss", ".sass", ".less"}
	imageExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".ico"}
)

// ScanProject walks the project and classifies directories and files by
// role. Directories are classified by their own name, source files by the
// path of the directory holding them, styles and images by extension.
// Unreadable directories are logged and skipped.
func (e *Extractor) ScanProject() (*ProjectStructure, error) {
	structure := &ProjectStructure{}
	rules := loadIgnoreRules(e.root)

	err := filepath.WalkDir(e.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			e.logger.Warn("cannot scan path",
				slog.String("file", path),
				slog.String("error", err.Error()))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == e.root {
			return nil
		}

		rel, relErr := filepath.Rel(e.root, path)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if e.skipDir(path, d.Name()) || rules.Match(rel, true) {
				return filepath.SkipDir
			}
			classifyDir(structure, rel, d.Name())
			return nil
		}

		if !d.Type().IsRegular() || rules.Match(rel, false) {
			return nil
		}
		e.classifyFile(structure, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.logger.Debug("project scanned",
		slog.Int("components", len(structure.Components)),
		slog.Int("pages", len(structure.Pages)),
		slog.Int("utils", len(structure.Utils)),
		slog.Int("styles", len(structure.Styles)),
		slog.Int("assets", len(structure.Assets)))

	return structure, nil
}

func (e *Extractor) skipDir(path, name string) bool {
	if slices.Contains(e.skipDirs, name) {
		return true
	}
	// never scan our own output when it lives inside the project
	return e.outputAbs != "" && path == e.outputAbs
}

func classifyDir(s *ProjectStructure, rel, name string) {
	switch lower := strings.ToLower(name); {
	case strings.Contains(lower, "component"):
		s.Components = append(s.Components, rel)
	case strings.Contains(lower, "page"):
		s.Pages = append(s.Pages, rel)
	case strings.Contains(lower, "util"):
		s.Utils = append(s.Utils, rel)
	case strings.Contains(lower, "style"), strings.Contains(lower, "css"), strings.Contains(lower, "scss"):
		s.Styles = append(s.Styles, rel)
	case strings.Contains(lower, "asset"), strings.Contains(lower, "image"), strings.Contains(lower, "img"):
		s.Assets = append(s.Assets, rel)
	case strings.Contains(lower, "config"):
		s.Config = append(s.Config, rel)
	}
}

func (e *Extractor) classifyFile(s *ProjectStructure, rel string) {
	ext := strings.ToLower(filepath.Ext(rel))

	switch {
	case slices.Contains(e.extensions, ext):
		dir := strings.ToLower(filepath.ToSlash(filepath.Dir(rel)))
		switch {
		case strings.Contains(dir, "component"):
			s.Components = append(s.Components, rel)
		case strings.Contains(dir, "page"):
			s.Pages = append(s.Pages, rel)
		case strings.Contains(dir, "util"):
			s.Utils = append(s.Utils, rel)
		}
	case slices.Contains(styleExtensions, ext):
		s.Styles = append(s.Styles, rel)
	case slices.Contains(imageExtensions, ext):
		s.Assets = append(s.Assets, rel)
	}
}
