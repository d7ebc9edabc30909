package analyzer

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/hannajonsd/component-extractor/parser"
	"github.com/hannajonsd/component-extractor/reachability"
)

// materializer copies the dependency set into the output tree, pruning
// source files on the way.
type materializer struct {
	root   string
	out    string
	pruner *reachability.Pruner
	logger *slog.Logger

	prune  bool
	dryRun bool
	diffs  bool
}

// materialize writes every file of the graph. Per-file failures are logged
// and reported in the returned map; they never stop the run.
func (m *materializer) materialize(graph *reachability.Graph) ([]ExtractedFile, map[string]error) {
	var ledger []ExtractedFile
	failed := make(map[string]error)

	for _, path := range graph.Files {
		file, err := m.file(graph, path)
		if err != nil {
			m.logger.Warn("skipping file",
				slog.String("file", path),
				slog.String("error", err.Error()))
			failed[path] = err
			continue
		}
		ledger = append(ledger, file)
	}

	return ledger, failed
}

func (m *materializer) file(graph *reachability.Graph, path string) (ExtractedFile, error) {
	original, err := os.ReadFile(filepath.Join(m.root, filepath.FromSlash(path)))
	if err != nil {
		return ExtractedFile{}, fmt.Errorf("failed to read: %w", err)
	}

	entry := ExtractedFile{
		Path:          path,
		Asset:         !parser.IsSourceFile(path),
		OriginalBytes: int64(len(original)),
	}

	content := original
	if !entry.Asset && m.prune {
		content = m.pruneFile(graph, path, original)
	}

	if !bytes.Equal(content, original) {
		entry.Pruned = true
		entry.RemovedLines, entry.Diff = lineDiff(string(original), string(content), m.diffs)
	}
	entry.WrittenBytes = int64(len(content))

	if m.dryRun {
		return entry, nil
	}

	dest := filepath.Join(m.out, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return ExtractedFile{}, fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(dest, content, 0o644); err != nil {
		return ExtractedFile{}, fmt.Errorf("failed to write: %w", err)
	}

	return entry, nil
}

// pruneFile returns the pruned text of a source file, or the original text
// when pruning is not possible.
func (m *materializer) pruneFile(graph *reachability.Graph, path string, original []byte) []byte {
	if _, parsed := graph.Exports[path]; !parsed {
		// already reported while building the graph
		return original
	}

	pruned, err := m.pruner.Prune(path, original, graph.Used(path))
	if err != nil {
		m.logger.Warn("cannot prune file, copying it unchanged",
			slog.String("file", path),
			slog.String("error", err.Error()))
		return original
	}
	return pruned
}

// lineDiff counts the lines removed between two versions of a file and,
// when render is set, returns the changed lines prefixed with - and +.
func lineDiff(before, after string, render bool) (int, string) {
	dmp := diffmatchpatch.New()
	src, dst, lines := dmp.DiffLinesToRunes(before, after)
	diffs := dmp.DiffMainRunes(src, dst, false)

	removed := 0
	for _, d := range diffs {
		if d.Type == diffmatchpatch.DiffDelete {
			removed += utf8.RuneCountInString(d.Text)
		}
	}

	if !render {
		return removed, ""
	}

	var sb strings.Builder
	for _, d := range dmp.DiffCharsToLines(diffs, lines) {
		prefix := ""
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		default:
			continue
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				sb.WriteString("\n")
			}
		}
	}

	return removed, sb.String()
}
