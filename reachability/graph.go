package reachability

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/hannajonsd/component-extractor/parser"
	"github.com/hannajonsd/component-extractor/resolver"
)

var (
	// ErrNoEntries is returned when Build is called without entry files.
	ErrNoEntries = errors.New("no entry files given")
	// ErrNoReadableEntries is returned when none of the entry files could be read.
	ErrNoReadableEntries = errors.New("none of the entry files could be read")
)

// Builder walks the import graph of a project from a set of entry files.
// All traversal state belongs to one Build call, so a Builder can be reused
// for consecutive runs but must not be shared between goroutines.
type Builder struct {
	resolver *resolver.Resolver
	logger   *slog.Logger

	graph    *Graph
	visited  map[string]bool // path -> readable
	included map[string]bool
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger sets the logger used for traversal diagnostics.
func WithLogger(logger *slog.Logger) BuilderOption {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBuilder creates a graph builder that resolves imports with r.
func NewBuilder(r *resolver.Resolver, opts ...BuilderOption) *Builder {
	b := &Builder{
		resolver: r,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) reset() {
	b.graph = &Graph{
		UsedBindings: make(map[string]BindingSet),
		Exports:      make(map[string]*ExportTable),
		External:     make(map[string][]string),
		Skipped:      make(map[string]error),
	}
	b.visited = make(map[string]bool)
	b.included = make(map[string]bool)
}

// Build discovers every project module reachable from entries and records,
// per module, the export names its importers use. Entry files demand all of
// their own exports. Per-file read and parse failures are logged and
// recovered; only a run without any readable entry fails.
func (b *Builder) Build(entries []string) (*Graph, error) {
	if len(entries) == 0 {
		return nil, ErrNoEntries
	}

	b.reset()
	graph := b.graph

	for _, entry := range entries {
		if b.resolver.Exists(entry) {
			b.include(entry)
		}
	}

	for _, entry := range entries {
		if !b.visit(entry) {
			continue
		}
		graph.Entries = append(graph.Entries, entry)

		used := b.used(entry)
		if exports, ok := graph.Exports[entry]; ok {
			for name := range exports.Names() {
				used.Add(name)
			}
		}
	}

	files := make([]string, 0, len(b.included))
	for _, f := range graph.Files {
		if _, skipped := graph.Skipped[f]; !skipped {
			files = append(files, f)
		}
	}
	graph.Files = files

	if len(graph.Entries) == 0 {
		return graph, ErrNoReadableEntries
	}

	b.logger.Debug("dependency graph built",
		slog.Int("files", len(graph.Files)),
		slog.Int("edges", len(graph.Edges)),
		slog.Int("external", len(graph.External)))

	return graph, nil
}

// moduleInfo is what the builder keeps of a parsed module once its syntax
// tree has been released.
type moduleInfo struct {
	imports    []parser.ModuleImport
	referenced BindingSet
	exports    *ExportTable
}

// visit processes a module once. It reports whether the module is readable;
// a module currently being visited counts as readable, which is what ends
// import cycles.
func (b *Builder) visit(path string) bool {
	if readable, seen := b.visited[path]; seen {
		return readable
	}
	b.visited[path] = true

	if !parser.IsSourceFile(path) {
		if !b.resolver.Exists(path) {
			b.skip(path, fs.ErrNotExist)
			return false
		}
		b.include(path)
		return true
	}

	source, err := os.ReadFile(b.resolver.Abs(path))
	if err != nil {
		b.skip(path, err)
		return false
	}
	b.include(path)

	b.logger.Debug("visiting module", slog.String("file", path))

	info, err := analyzeModule(path, source)
	if err != nil {
		b.logger.Warn("cannot parse module, it will be copied unpruned",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return true
	}
	b.graph.Exports[path] = info.exports

	for _, imp := range info.imports {
		b.follow(path, imp, info.referenced)
	}

	return true
}

// analyzeModule parses a module and extracts everything the walk needs, so
// the syntax tree is released before recursing into dependencies.
func analyzeModule(path string, source []byte) (*moduleInfo, error) {
	p, err := parser.CreateParser(path)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	result, err := p.Parse(source, path)
	if err != nil {
		return nil, err
	}
	defer result.Close()

	root := result.Tree.RootNode()

	imports, err := p.ExtractImports(root, source)
	if err != nil {
		return nil, fmt.Errorf("failed to extract imports from %s: %w", path, err)
	}

	refs, err := p.ExtractReferences(root, source)
	if err != nil {
		return nil, fmt.Errorf("failed to extract references from %s: %w", path, err)
	}

	return &moduleInfo{
		imports:    imports,
		referenced: NewBindingSet(refs...),
		exports:    AnalyzeExports(root, source),
	}, nil
}

// follow resolves one import of from, recurses into the target and records
// which of the target's exports from actually references.
func (b *Builder) follow(from string, imp parser.ModuleImport, referenced BindingSet) {
	target, ok := b.resolver.Resolve(from, imp.Source)
	if !ok {
		if imp.IsRelative() {
			b.logger.Debug("unresolved relative import",
				slog.String("file", from),
				slog.String("specifier", imp.Source))
			return
		}
		b.graph.External[imp.Source] = appendUnique(b.graph.External[imp.Source], from)
		return
	}

	names := NewBindingSet()
	for _, binding := range imp.Bindings {
		switch {
		case imp.Kind == parser.ImportReExport:
			// the re-export statement is always kept, so its source binding is needed
			names.Add(binding.Imported)
		case binding.Imported == NamespaceBinding:
			names.Add(NamespaceBinding)
		case referenced.Has(binding.Local):
			names.Add(binding.Imported)
		}
	}

	if !b.visit(target) {
		return
	}

	b.graph.Edges = append(b.graph.Edges, ImportEdge{
		From:      from,
		To:        target,
		Specifier: imp.Source,
		Kind:      imp.Kind,
		Names:     names,
	})

	used := b.used(target)
	for name := range names {
		used.Add(name)
	}
}

func (b *Builder) used(path string) BindingSet {
	set, ok := b.graph.UsedBindings[path]
	if !ok {
		set = NewBindingSet()
		b.graph.UsedBindings[path] = set
	}
	return set
}

func (b *Builder) include(path string) {
	if b.included[path] {
		return
	}
	b.included[path] = true
	b.graph.Files = append(b.graph.Files, path)
}

func (b *Builder) skip(path string, err error) {
	b.graph.Skipped[path] = err
	b.logger.Warn("skipping unreadable file",
		slog.String("file", path),
		slog.String("error", err.Error()))
}

func appendUnique(list []string, item string) []string {
	for _, existing := range list {
		if existing == item {
			return list
		}
	}
	return append(list, item)
}
