package analyzer

import (
	"slices"
	"sort"
	"strings"

	"github.com/hannajonsd/component-extractor/manifest"
	"github.com/hannajonsd/component-extractor/reachability"
)

// packageName converts a bare import specifier to the npm package that
// provides it. Relative, absolute and node: builtin specifiers have none.
func packageName(specifier string) string {
	if specifier == "" ||
		strings.HasPrefix(specifier, ".") ||
		strings.HasPrefix(specifier, "/") ||
		strings.HasPrefix(specifier, "node:") {
		return ""
	}

	parts := strings.Split(specifier, "/")

	// Scoped packages keep their scope: @scope/name/sub -> @scope/name
	if strings.HasPrefix(specifier, "@") {
		if len(parts) < 2 || parts[1] == "" {
			return ""
		}
		return parts[0] + "/" + parts[1]
	}

	return parts[0]
}

// externalPackages groups the unresolved bare imports of the dependency set
// by package and looks their versions up in the original manifest, which
// may be nil.
func externalPackages(graph *reachability.Graph, original *manifest.Manifest) []ExternalPackage {
	files := make(map[string][]string)
	for specifier, importers := range graph.External {
		name := packageName(specifier)
		if name == "" {
			continue
		}
		for _, f := range importers {
			if !slices.Contains(files[name], f) {
				files[name] = append(files[name], f)
			}
		}
	}

	packages := make([]ExternalPackage, 0, len(files))
	for name, found := range files {
		sort.Strings(found)
		pkg := ExternalPackage{Name: name, FoundInFiles: found}
		if original != nil {
			pkg.Version, pkg.InManifest = original.VersionOf(name)
		}
		packages = append(packages, pkg)
	}

	sort.Slice(packages, func(i, j int) bool { return packages[i].Name < packages[j].Name })
	return packages
}
