package reachability

import (
	"bytes"
	"sort"
)

// edit replaces source[start:end] with text.
type edit struct {
	start, end uint32
	text       string
}

// applyEdits splices edits into source. Overlapping ranges are merged into
// the earlier edit.
func applyEdits(source []byte, edits []edit) []byte {
	if len(edits) == 0 {
		return source
	}

	sort.SliceStable(edits, func(i, j int) bool { return edits[i].start < edits[j].start })

	var out bytes.Buffer
	out.Grow(len(source))

	cursor := uint32(0)
	for _, e := range edits {
		if e.start < cursor {
			if e.end <= cursor {
				continue
			}
			e.start = cursor
		}
		out.Write(source[cursor:e.start])
		out.WriteString(e.text)
		cursor = e.end
	}
	out.Write(source[cursor:])

	return out.Bytes()
}

// removalRange widens a statement's byte range to whole lines: indentation
// before it, trailing blanks and the line break after it, plus one of two
// blank lines that would otherwise end up adjacent.
func removalRange(source []byte, start, end uint32) (uint32, uint32) {
	if onOwnLine(source, start) {
		for start > 0 && isBlank(source[start-1]) {
			start--
		}
	}

	for int(end) < len(source) && isBlank(source[end]) {
		end++
	}
	if int(end) < len(source) && source[end] == '\r' {
		end++
	}
	if int(end) < len(source) && source[end] == '\n' {
		end++

		precededByBlankLine := start == 0 || (start >= 2 && source[start-1] == '\n' && source[start-2] == '\n')
		if precededByBlankLine {
			next := end
			for int(next) < len(source) && isBlank(source[next]) {
				next++
			}
			if int(next) < len(source) && source[next] == '\n' {
				end = next + 1
			}
		}
	}

	return start, end
}

// onOwnLine reports whether only whitespace precedes pos on its line.
func onOwnLine(source []byte, pos uint32) bool {
	for i := int(pos) - 1; i >= 0; i-- {
		switch source[i] {
		case '\n':
			return true
		case ' ', '\t', '\r':
			continue
		default:
			return false
		}
	}
	return true
}

// adjacent reports whether only whitespace with at most one line break lies
// between from and to, i.e. a comment ending at from documents the node
// starting at to.
func adjacent(source []byte, from, to uint32) bool {
	newlines := 0
	for i := from; i < to; i++ {
		switch source[i] {
		case '\n':
			newlines++
		case ' ', '\t', '\r':
		default:
			return false
		}
	}
	return newlines <= 1
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t'
}
