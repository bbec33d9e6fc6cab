package cursor

import (
	"regexp"

	"markfold/internal/doc"
)

// Inline constructs are detected per line with regular expressions, in a
// fixed priority: image, link, inline math, footnote reference. Each
// detector returns the full syntax range plus the narrower content range
// used for auto-selection. Ranges include their delimiters, and a cursor at
// either edge of the syntax counts as inside.

var (
	imageRe      = regexp.MustCompile(`!\[([^\]]*)\]\(([^)]*)\)`)
	linkRe       = regexp.MustCompile(`\[([^\]]*)\]\(([^)]*)\)`)
	inlineMathRe = regexp.MustCompile(`\$([^$\n]+)\$`)
	footnoteRe   = regexp.MustCompile(`\[\^([^\]\s]+)\]`)
)

// runeIdx converts a byte index within s to a rune index.
func runeIdx(s string, byteIdx int) int {
	return len([]rune(s[:byteIdx]))
}

type lineScan struct {
	text  string // cursor's line
	start int    // buffer offset of line start
	col   int    // cursor's rune column within the line
}

func scanLineAt(b *doc.Buffer, off int) lineScan {
	line := b.LineAt(off)
	start := b.LineStart(line)
	return lineScan{text: b.Line(line), start: start, col: off - start}
}

func (ls lineScan) contains(fromB, toB int) bool {
	from := runeIdx(ls.text, fromB)
	to := runeIdx(ls.text, toB)
	return ls.col >= from && ls.col <= to
}

// DetectImage reports the ![alt](src) syntax enclosing off, or nil.
func DetectImage(b *doc.Buffer, off int) *ImageInfo {
	ls := scanLineAt(b, off)
	for _, m := range imageRe.FindAllStringSubmatchIndex(ls.text, -1) {
		if !ls.contains(m[0], m[1]) {
			continue
		}
		return &ImageInfo{
			Alt:  ls.text[m[2]:m[3]],
			Src:  ls.text[m[4]:m[5]],
			From: ls.start + runeIdx(ls.text, m[0]),
			To:   ls.start + runeIdx(ls.text, m[1]),
		}
	}
	return nil
}

// DetectLink reports the [text](href) syntax enclosing off, or nil.
// Image syntax is not a link; it owns its own popup.
func DetectLink(b *doc.Buffer, off int) *LinkInfo {
	ls := scanLineAt(b, off)
	for _, m := range linkRe.FindAllStringSubmatchIndex(ls.text, -1) {
		if m[0] > 0 && ls.text[m[0]-1] == '!' {
			continue
		}
		if !ls.contains(m[0], m[1]) {
			continue
		}
		return &LinkInfo{
			Text:        ls.text[m[2]:m[3]],
			Href:        ls.text[m[4]:m[5]],
			From:        ls.start + runeIdx(ls.text, m[0]),
			To:          ls.start + runeIdx(ls.text, m[1]),
			ContentFrom: ls.start + runeIdx(ls.text, m[2]),
			ContentTo:   ls.start + runeIdx(ls.text, m[3]),
		}
	}
	return nil
}

// DetectInlineMath reports the $…$ span enclosing off, or nil. The $$
// block-math delimiter is never inline math.
func DetectInlineMath(b *doc.Buffer, off int) *InlineMathInfo {
	ls := scanLineAt(b, off)
	for _, m := range inlineMathRe.FindAllStringSubmatchIndex(ls.text, -1) {
		// Reject any match touching a $$ pair.
		if m[0] > 0 && ls.text[m[0]-1] == '$' {
			continue
		}
		if m[1] < len(ls.text) && ls.text[m[1]] == '$' {
			continue
		}
		if !ls.contains(m[0], m[1]) {
			continue
		}
		return &InlineMathInfo{
			From:        ls.start + runeIdx(ls.text, m[0]),
			To:          ls.start + runeIdx(ls.text, m[1]),
			ContentFrom: ls.start + runeIdx(ls.text, m[2]),
			ContentTo:   ls.start + runeIdx(ls.text, m[3]),
		}
	}
	return nil
}

// DetectFootnote reports the [^label] reference enclosing off, or nil.
// A definition ([^label]: at line start) is not a reference.
func DetectFootnote(b *doc.Buffer, off int) *FootnoteInfo {
	ls := scanLineAt(b, off)
	for _, m := range footnoteRe.FindAllStringSubmatchIndex(ls.text, -1) {
		if m[0] == 0 && m[1] < len(ls.text) && ls.text[m[1]] == ':' {
			continue
		}
		if !ls.contains(m[0], m[1]) {
			continue
		}
		return &FootnoteInfo{
			Label:       ls.text[m[2]:m[3]],
			From:        ls.start + runeIdx(ls.text, m[0]),
			To:          ls.start + runeIdx(ls.text, m[1]),
			ContentFrom: ls.start + runeIdx(ls.text, m[2]),
			ContentTo:   ls.start + runeIdx(ls.text, m[3]),
		}
	}
	return nil
}

// formatPattern pairs a mark type with the regex matching its span syntax.
// Order matters: longer delimiters first so **bold** is not read as italic
// and ~~strike~~ not as subscript.
type formatPattern struct {
	mark doc.MarkType
	re   *regexp.Regexp
}

var formatPatterns = []formatPattern{
	{doc.MarkCode, regexp.MustCompile("`([^`\n]+)`")},
	{doc.MarkBold, regexp.MustCompile(`\*\*([^*\n]+)\*\*`)},
	{doc.MarkStrike, regexp.MustCompile(`~~([^~\n]+)~~`)},
	{doc.MarkHighlight, regexp.MustCompile(`==([^=\n]+)==`)},
	{doc.MarkItalic, regexp.MustCompile(`\*([^*\n]+)\*`)},
	{doc.MarkSub, regexp.MustCompile(`~([^~\n]+)~`)},
	{doc.MarkSup, regexp.MustCompile(`\^([^^\n]+)\^`)},
}

// DetectFormattedRange reports the innermost formatted span enclosing off,
// or nil. Spans are tried in delimiter-priority order; the first whose full
// syntax range contains the cursor wins.
func DetectFormattedRange(b *doc.Buffer, off int) *FormattedRangeInfo {
	ls := scanLineAt(b, off)
	for _, p := range formatPatterns {
		for _, m := range p.re.FindAllStringSubmatchIndex(ls.text, -1) {
			if !ls.contains(m[0], m[1]) {
				continue
			}
			return &FormattedRangeInfo{
				MarkType:    p.mark,
				From:        ls.start + runeIdx(ls.text, m[0]),
				To:          ls.start + runeIdx(ls.text, m[1]),
				ContentFrom: ls.start + runeIdx(ls.text, m[2]),
				ContentTo:   ls.start + runeIdx(ls.text, m[3]),
			}
		}
	}
	return nil
}
