package analyzer

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hannajonsd/component-extractor/manifest"
	"github.com/hannajonsd/component-extractor/reachability"
	"github.com/hannajonsd/component-extractor/resolver"
)

// ErrUnsafeOutput is returned when the output directory is the project or
// one of its ancestors, which the output wipe would destroy.
var ErrUnsafeOutput = errors.New("refusing to use output directory")

// Extractor copies a component and the project code it depends on into a
// standalone directory. It is not safe for concurrent use.
type Extractor struct {
	root       string
	outputAbs  string
	logger     *slog.Logger
	extensions []string
	sourceRoot string
	skipDirs   []string

	prune  bool
	dryRun bool
	diffs  bool
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithLogger sets the logger used for progress and per-file diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithExtensions sets the source extensions tried by import resolution and
// used to classify source files.
func WithExtensions(exts []string) Option {
	return func(e *Extractor) {
		if len(exts) > 0 {
			e.extensions = exts
		}
	}
}

// WithSourceRoot sets the directory bare specifiers are resolved under.
func WithSourceRoot(dir string) Option {
	return func(e *Extractor) {
		if dir != "" {
			e.sourceRoot = dir
		}
	}
}

// WithSkipDirs replaces the directory names excluded from scanning.
func WithSkipDirs(dirs []string) Option {
	return func(e *Extractor) {
		e.skipDirs = dirs
	}
}

// WithPruning enables or disables removal of unreachable code. Disabled
// pruning copies the dependency set verbatim.
func WithPruning(enabled bool) Option {
	return func(e *Extractor) {
		e.prune = enabled
	}
}

// WithDryRun makes Extract compute everything without touching the output
// directory.
func WithDryRun(enabled bool) Option {
	return func(e *Extractor) {
		e.dryRun = enabled
	}
}

// WithDiffs records a line diff for every pruned file in the result.
func WithDiffs(enabled bool) Option {
	return func(e *Extractor) {
		e.diffs = enabled
	}
}

// New creates an extractor for the project at projectDir.
func New(projectDir string, opts ...Option) (*Extractor, error) {
	root, err := filepath.Abs(projectDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project path: %w", err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot open project: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("project path %s is not a directory", root)
	}

	e := &Extractor{
		root:       root,
		logger:     slog.Default(),
		extensions: resolver.DefaultExtensions,
		sourceRoot: resolver.DefaultSourceRoot,
		skipDirs:   DefaultSkipDirs,
		prune:      true,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e, nil
}

// Extract copies the component and its dependency set to outputDir. The
// entry set, the dependency graph and the output location are validated
// before the output directory is cleared, so a failed lookup never destroys
// a previous extraction.
func (e *Extractor) Extract(component, outputDir string) (*Result, error) {
	out, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve output path: %w", err)
	}
	e.outputAbs = out
	defer func() { e.outputAbs = "" }()

	if err := e.checkOutput(out); err != nil {
		return nil, err
	}

	e.logger.Info("extracting component",
		slog.String("component", component),
		slog.String("project", e.root))

	structure, err := e.ScanProject()
	if err != nil {
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}

	entries, err := e.FindComponentFiles(component, structure)
	if err != nil {
		return nil, err
	}

	builder := reachability.NewBuilder(
		resolver.New(e.root, resolver.WithExtensions(e.extensions), resolver.WithSourceRoot(e.sourceRoot)),
		reachability.WithLogger(e.logger))

	graph, err := builder.Build(entries)
	if err != nil {
		return nil, fmt.Errorf("failed to build dependency graph for %s: %w", component, err)
	}

	original, err := manifest.Read(e.root)
	if err != nil {
		if !errors.Is(err, manifest.ErrNoManifest) {
			e.logger.Warn("cannot read original package.json",
				slog.String("file", manifest.FileName),
				slog.String("error", err.Error()))
		}
		original = nil
	}

	result := &Result{
		Component:  component,
		ProjectDir: e.root,
		OutputDir:  out,
		DryRun:     e.dryRun,
		Entries:    graph.Entries,
		External:   externalPackages(graph, original),
		Graph:      graph,
	}

	if !e.dryRun {
		if err := resetDir(out); err != nil {
			return nil, err
		}
	}

	m := &materializer{
		root:   e.root,
		out:    out,
		pruner: reachability.NewPruner(reachability.WithPrunerLogger(e.logger)),
		logger: e.logger,
		prune:  e.prune,
		dryRun: e.dryRun,
		diffs:  e.diffs,
	}
	result.Files, result.Failed = m.materialize(graph)

	if e.dryRun {
		return result, nil
	}

	if err := e.writeScaffolding(result, original); err != nil {
		return result, err
	}

	e.logger.Info("extraction finished",
		slog.String("output", out),
		slog.Int("files", len(result.Files)))

	return result, nil
}

// List returns the component names declared in the project.
func (e *Extractor) List() ([]string, error) {
	structure, err := e.ScanProject()
	if err != nil {
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}
	return e.ListComponents(structure), nil
}

// checkOutput rejects output directories whose wipe would delete the
// project itself.
func (e *Extractor) checkOutput(out string) error {
	if out == e.root {
		return fmt.Errorf("%w %s: it is the project directory", ErrUnsafeOutput, out)
	}

	rel, err := filepath.Rel(out, e.root)
	if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w %s: it contains the project directory", ErrUnsafeOutput, out)
	}

	return nil
}

func resetDir(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to clear output directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	return nil
}

func (e *Extractor) writeScaffolding(result *Result, original *manifest.Manifest) error {
	packages := make([]string, 0, len(result.External))
	for _, pkg := range result.External {
		packages = append(packages, pkg.Name)
	}

	if err := manifest.Synthesize(original, packages).Write(result.OutputDir); err != nil {
		return err
	}

	files := make([]string, 0, len(result.Files))
	for _, f := range result.Files {
		files = append(files, f.Path)
	}

	return manifest.WriteReadme(result.OutputDir, manifest.ReadmeData{
		Component:  result.Component,
		Files:      files,
		Packages:   packages,
		ProjectDir: result.ProjectDir,
	})
}
