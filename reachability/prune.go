package reachability

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/hannajonsd/component-extractor/parser"
)

// ErrRewrite wraps failures while filtering or regenerating a module.
var ErrRewrite = errors.New("failed to rewrite module")

// Pruner removes top-level code that is unreachable from a module's used
// bindings. It keeps no state between calls.
type Pruner struct {
	logger *slog.Logger
}

// PrunerOption configures a Pruner.
type PrunerOption func(*Pruner)

// WithPrunerLogger sets the logger used for pruning diagnostics.
func WithPrunerLogger(logger *slog.Logger) PrunerOption {
	return func(p *Pruner) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPruner creates a Pruner.
func NewPruner(opts ...PrunerOption) *Pruner {
	p := &Pruner{logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Prune returns source with every top-level declaration and export that is
// not reachable from used removed. The module is returned unchanged when
// used demands the whole namespace, or is empty while the module exports
// something (nothing narrows what importers need). Any error means the
// caller should keep the original text.
func (p *Pruner) Prune(path string, source []byte, used BindingSet) (out []byte, err error) {
	if used.WholeModule() {
		p.logger.Debug("module used as a namespace, not pruned", slog.String("file", path))
		return source, nil
	}

	defer func() {
		if r := recover(); r != nil {
			out = nil
			err = fmt.Errorf("%w %s: %v", ErrRewrite, path, r)
		}
	}()

	fileParser, err := parser.CreateParser(path)
	if err != nil {
		return nil, err
	}
	defer fileParser.Close()

	result, err := fileParser.Parse(source, path)
	if err != nil {
		return nil, err
	}
	defer result.Close()

	root := result.Tree.RootNode()

	if len(used) == 0 && !AnalyzeExports(root, source).Empty() {
		p.logger.Debug("no specific bindings used, not pruned", slog.String("file", path))
		return source, nil
	}

	m := newModule(root, source)
	live := m.closure(used)
	edits := m.plan(live)

	if len(edits) == 0 {
		return source, nil
	}

	p.logger.Debug("pruned module",
		slog.String("file", path),
		slog.Int("edits", len(edits)),
		slog.Int("live", len(live)))

	return trimTrailingBlankLines(applyEdits(source, edits), source), nil
}

// plan turns the live set into source edits.
func (m *module) plan(live BindingSet) []edit {
	var edits []edit

	for i, stmt := range m.statements {
		switch stmt.kind {
		case stmtDeclaration:
			if !anyLive(live, stmt.names) {
				edits = append(edits, m.removeStatement(i))
			}
		case stmtDefaultRef:
			if !live.Has(DefaultBinding) && !live.Has(stmt.names[0]) {
				edits = append(edits, m.removeStatement(i))
			}
		case stmtVariables:
			var kept []*sitter.Node
			for j, declarator := range stmt.declarators {
				if anyLive(live, stmt.boundNames[j]) {
					kept = append(kept, declarator)
				}
			}
			edits = append(edits, m.filterList(i, stmt.declarators, kept)...)
		case stmtExportList:
			var kept []*sitter.Node
			for j, spec := range stmt.specifiers {
				if live.Has(stmt.exported[j]) {
					kept = append(kept, spec)
				}
			}
			edits = append(edits, m.filterList(i, stmt.specifiers, kept)...)
		}
	}

	return edits
}

// filterList keeps only the kept items of a comma separated list belonging
// to statement i, removing the statement when nothing is left. Items are
// rejoined with the separator that followed the first original item.
func (m *module) filterList(i int, items, kept []*sitter.Node) []edit {
	switch {
	case len(kept) == len(items):
		return nil
	case len(kept) == 0:
		return []edit{m.removeStatement(i)}
	}

	sep := ", "
	if len(items) > 1 {
		sep = string(m.source[items[0].EndByte():items[1].StartByte()])
	}

	parts := make([]string, len(kept))
	for j, item := range kept {
		parts[j] = parser.NodeText(item, m.source)
	}

	return []edit{{
		start: items[0].StartByte(),
		end:   items[len(items)-1].EndByte(),
		text:  strings.Join(parts, sep),
	}}
}

// removeStatement drops statement i together with the comments documenting
// it and a trailing comment on its last line.
func (m *module) removeStatement(i int) edit {
	node := m.statements[i].node
	start, end := node.StartByte(), node.EndByte()

	for j := i - 1; j >= 0; j-- {
		prev := m.statements[j]
		if prev.kind != stmtComment || !adjacent(m.source, prev.node.EndByte(), start) || !onOwnLine(m.source, prev.node.StartByte()) {
			break
		}
		start = prev.node.StartByte()
	}

	if i+1 < len(m.statements) {
		next := m.statements[i+1]
		if next.kind == stmtComment && sameLine(m.source, end, next.node.StartByte()) {
			end = next.node.EndByte()
		}
	}

	start, end = removalRange(m.source, start, end)
	return edit{start: start, end: end}
}

// trimTrailingBlankLines drops blank lines that removed statements left at
// the end of out, keeping the line ending source finished with.
func trimTrailingBlankLines(out, source []byte) []byte {
	end, breaks := trailingSpace(out)
	_, want := trailingSpace(source)
	want = max(want, 1)
	if breaks <= want {
		return out
	}
	if end == 0 {
		return out[:0]
	}

	newline := "\n"
	if bytes.Contains(source, []byte("\r\n")) {
		newline = "\r\n"
	}
	return append(out[:end:end], strings.Repeat(newline, want)...)
}

// trailingSpace returns where the trailing whitespace of b starts and how
// many line breaks it holds.
func trailingSpace(b []byte) (int, int) {
	end, breaks := len(b), 0
	for end > 0 {
		switch b[end-1] {
		case '\n':
			breaks++
		case '\r', ' ', '\t':
		default:
			return end, breaks
		}
		end--
	}
	return end, breaks
}

func sameLine(source []byte, from, to uint32) bool {
	for i := from; i < to; i++ {
		if source[i] == '\n' {
			return false
		}
	}
	return true
}

func anyLive(live BindingSet, names []string) bool {
	for _, n := range names {
		if live.Has(n) {
			return true
		}
	}
	return false
}
