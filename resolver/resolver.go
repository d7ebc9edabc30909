// Package resolver maps import specifiers to project files on disk.
package resolver

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultExtensions is the candidate order tried after the bare path.
var DefaultExtensions = []string{".js", ".jsx", ".ts", ".tsx"}

// DefaultSourceRoot is where bare specifiers are looked up.
const DefaultSourceRoot = "src"

const statCacheSize = 4096

// Resolver turns a specifier plus the importing file into a project-relative
// path. Stat results are cached for the life of the Resolver, so it sees
// the file set as it was when first asked; create one per run.
type Resolver struct {
	root       string
	sourceRoot string
	extensions []string

	stats *lru.Cache[string, bool]
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithExtensions replaces the source extension candidates. The bare path
// (no extension) is always tried first.
func WithExtensions(exts []string) Option {
	return func(r *Resolver) {
		r.extensions = nil
		for _, ext := range exts {
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			r.extensions = append(r.extensions, ext)
		}
	}
}

// WithSourceRoot sets the directory bare specifiers are rooted under.
func WithSourceRoot(dir string) Option {
	return func(r *Resolver) {
		r.sourceRoot = filepath.ToSlash(dir)
	}
}

// New creates a resolver for the project at root.
func New(root string, opts ...Option) *Resolver {
	r := &Resolver{
		root:       root,
		sourceRoot: DefaultSourceRoot,
		extensions: DefaultExtensions,
	}
	for _, opt := range opts {
		opt(r)
	}

	// only fails for a non-positive size
	r.stats, _ = lru.New[string, bool](statCacheSize)

	return r
}

// Resolve returns the project-relative, slash separated path the specifier
// refers to. ok is false when no candidate exists, which is the normal
// outcome for installed packages.
func (r *Resolver) Resolve(fromFile, specifier string) (string, bool) {
	if specifier == "" {
		return "", false
	}

	fromDir := path.Dir(filepath.ToSlash(fromFile))

	var base string
	switch {
	case strings.HasPrefix(specifier, "./"), strings.HasPrefix(specifier, "../"), specifier == ".", specifier == "..":
		base = path.Join(fromDir, specifier)
	case strings.HasPrefix(specifier, "/"):
		base = path.Clean(strings.TrimPrefix(specifier, "/"))
	default:
		base = path.Join(r.sourceRoot, specifier)
	}

	if base == ".." || strings.HasPrefix(base, "../") {
		return "", false
	}

	if found, ok := r.tryFile(base); ok {
		return found, true
	}
	return r.tryIndex(base)
}

func (r *Resolver) tryFile(base string) (string, bool) {
	if r.isFile(base) {
		return base, true
	}
	for _, ext := range r.extensions {
		if candidate := base + ext; r.isFile(candidate) {
			return candidate, true
		}
	}
	return "", false
}

func (r *Resolver) tryIndex(base string) (string, bool) {
	for _, ext := range r.extensions {
		candidate := path.Join(base, "index"+ext)
		if r.isFile(candidate) {
			return candidate, true
		}
	}
	return "", false
}

// Exists reports whether a project-relative path is a regular file.
func (r *Resolver) Exists(relPath string) bool {
	return r.isFile(relPath)
}

func (r *Resolver) isFile(relPath string) bool {
	if regular, ok := r.stats.Get(relPath); ok {
		return regular
	}

	info, err := os.Stat(r.Abs(relPath))
	regular := err == nil && info.Mode().IsRegular()
	r.stats.Add(relPath, regular)

	return regular
}

// Abs maps a project-relative path to its location on disk.
func (r *Resolver) Abs(relPath string) string {
	return filepath.Join(r.root, filepath.FromSlash(relPath))
}
