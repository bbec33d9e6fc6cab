package doc

import "strings"

// Buffer is a snapshot of plain markdown text addressed by rune offsets.
//
// All offsets handed to and returned from this package are rune offsets, not
// byte offsets: the editor's cursor moves over characters, and CJK text makes
// the two diverge constantly. The line index is built once per snapshot so
// detectors can do line-relative work without rescanning.
type Buffer struct {
	runes      []rune
	lineStarts []int
}

// NewBuffer builds a buffer snapshot from text.
func NewBuffer(text string) *Buffer {
	rs := []rune(text)
	starts := []int{0}
	for i, r := range rs {
		if r == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &Buffer{runes: rs, lineStarts: starts}
}

// Len returns the buffer length in runes.
func (b *Buffer) Len() int { return len(b.runes) }

func (b *Buffer) String() string { return string(b.runes) }

// Slice returns the text in [from, to). Out-of-range bounds are clamped;
// an inverted range yields "".
func (b *Buffer) Slice(from, to int) string {
	if from < 0 {
		from = 0
	}
	if to > len(b.runes) {
		to = len(b.runes)
	}
	if from >= to {
		return ""
	}
	return string(b.runes[from:to])
}

// RuneAt returns the rune at off, or 0 when off is out of range.
func (b *Buffer) RuneAt(off int) rune {
	if off < 0 || off >= len(b.runes) {
		return 0
	}
	return b.runes[off]
}

// LineCount returns the number of lines. The empty buffer has one line.
func (b *Buffer) LineCount() int { return len(b.lineStarts) }

// LineStart returns the rune offset of the first character of line i.
func (b *Buffer) LineStart(i int) int {
	if i < 0 {
		return 0
	}
	if i >= len(b.lineStarts) {
		return len(b.runes)
	}
	return b.lineStarts[i]
}

// LineEnd returns the rune offset just past the last character of line i,
// excluding the trailing newline.
func (b *Buffer) LineEnd(i int) int {
	if i < 0 {
		return 0
	}
	if i+1 < len(b.lineStarts) {
		return b.lineStarts[i+1] - 1
	}
	return len(b.runes)
}

// Line returns the text of line i without its trailing newline.
func (b *Buffer) Line(i int) string {
	return b.Slice(b.LineStart(i), b.LineEnd(i))
}

// LineAt returns the index of the line containing rune offset off.
// Offsets past the end map to the last line.
func (b *Buffer) LineAt(off int) int {
	if off < 0 {
		return 0
	}
	// Binary search over line starts.
	lo, hi := 0, len(b.lineStarts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if b.lineStarts[mid] <= off {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo
}

// Insert returns a new buffer with s inserted at off.
func (b *Buffer) Insert(off int, s string) *Buffer {
	if off < 0 {
		off = 0
	}
	if off > len(b.runes) {
		off = len(b.runes)
	}
	var sb strings.Builder
	sb.WriteString(string(b.runes[:off]))
	sb.WriteString(s)
	sb.WriteString(string(b.runes[off:]))
	return NewBuffer(sb.String())
}

// Delete returns a new buffer with [from, to) removed.
func (b *Buffer) Delete(from, to int) *Buffer {
	if from < 0 {
		from = 0
	}
	if to > len(b.runes) {
		to = len(b.runes)
	}
	if from >= to {
		return b
	}
	return NewBuffer(string(b.runes[:from]) + string(b.runes[to:]))
}
