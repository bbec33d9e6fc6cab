package cursor

import (
	"regexp"

	"markfold/internal/doc"
)

// Fence-marker lines open and close in strict alternation, so a candidate
// line is an opening fence exactly when an even number of marker lines
// precede it. That parity rule is what lets detection stay line-local
// without tracking any parse state across edits.

var fenceMarkerRe = regexp.MustCompile("^\\s{0,3}(`{3,}|~{3,})\\s*(\\S*)\\s*$")

type fenceMarker struct {
	ch   rune
	size int
	info string
}

func fenceMarkerAt(line string) (fenceMarker, bool) {
	m := fenceMarkerRe.FindStringSubmatch(line)
	if m == nil {
		return fenceMarker{}, false
	}
	return fenceMarker{ch: rune(m[1][0]), size: len(m[1]), info: m[2]}, true
}

// fenceLineIsOpening classifies marker line i by the parity of marker lines
// before it.
func fenceLineIsOpening(b *doc.Buffer, i int) bool {
	count := 0
	for l := 0; l < i; l++ {
		if _, ok := fenceMarkerAt(b.Line(l)); ok {
			count++
		}
	}
	return count%2 == 0
}

// DetectCodeBlock reports the fenced code block enclosing off, or nil.
// The cursor counts as inside on every line from the opening fence to the
// closing fence inclusive. An unterminated fence is not a block.
func DetectCodeBlock(b *doc.Buffer, off int) *CodeBlockInfo {
	cur := b.LineAt(off)

	// Walk backward to the nearest marker line at or above the cursor.
	openLine := -1
	var open fenceMarker
	for l := cur; l >= 0; l-- {
		m, ok := fenceMarkerAt(b.Line(l))
		if !ok {
			continue
		}
		if !fenceLineIsOpening(b, l) {
			// Nearest marker above is a closing fence. The cursor sits on
			// it or below it, so the only block it could be inside is the
			// one that fence closes, and only when the cursor is on the
			// fence line itself.
			if l != cur {
				return nil
			}
			continue
		}
		openLine = l
		open = m
		break
	}
	if openLine < 0 {
		return nil
	}

	// Forward scan for a matching or longer closing fence.
	closeLine := -1
	for l := openLine + 1; l < b.LineCount(); l++ {
		m, ok := fenceMarkerAt(b.Line(l))
		if !ok {
			continue
		}
		if m.ch == open.ch && m.size >= open.size && m.info == "" {
			closeLine = l
			break
		}
	}
	if closeLine < 0 {
		return nil
	}
	if cur < openLine || cur > closeLine {
		return nil
	}
	return &CodeBlockInfo{
		Language: open.info,
		From:     b.LineStart(openLine),
		To:       b.LineEnd(closeLine),
	}
}

var mathDelimRe = regexp.MustCompile(`^\s*\$\$\s*$`)

// DetectBlockMath reports the $$ display-math region enclosing off, or nil.
// Delimiter lines pair up by the same parity rule as code fences.
func DetectBlockMath(b *doc.Buffer, off int) *BlockMathInfo {
	cur := b.LineAt(off)

	isDelim := func(l int) bool { return mathDelimRe.MatchString(b.Line(l)) }

	openLine := -1
	for l := cur; l >= 0; l-- {
		if !isDelim(l) {
			continue
		}
		count := 0
		for k := 0; k < l; k++ {
			if isDelim(k) {
				count++
			}
		}
		if count%2 != 0 {
			if l != cur {
				return nil
			}
			continue
		}
		openLine = l
		break
	}
	if openLine < 0 {
		return nil
	}

	closeLine := -1
	for l := openLine + 1; l < b.LineCount(); l++ {
		if isDelim(l) {
			closeLine = l
			break
		}
	}
	if closeLine < 0 || cur > closeLine {
		return nil
	}
	return &BlockMathInfo{From: b.LineStart(openLine), To: b.LineEnd(closeLine)}
}

// fenceRegionAt reports whether line i of the buffer lies strictly inside a
// fenced code block's body. Detectors for inline constructs use it to stay
// out of code.
func fenceRegionAt(b *doc.Buffer, line int) bool {
	info := DetectCodeBlock(b, b.LineStart(line))
	if info == nil {
		return false
	}
	first := b.LineAt(info.From)
	last := b.LineAt(info.To)
	return line > first && line < last
}
