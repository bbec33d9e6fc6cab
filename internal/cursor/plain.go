package cursor

import (
	"regexp"
	"strings"

	"markfold/internal/doc"
)

var (
	plainTableRowRe   = regexp.MustCompile(`^\s*\|.*\|\s*$`)
	plainTableDelimRe = regexp.MustCompile(`^\s*\|?[\s:|-]+\|?\s*$`)
	plainListItemRe   = regexp.MustCompile(`^(\s*)([-*+]|\d+[.)])\s+(\[([ xX])\]\s+)?`)
	plainHeadingRe    = regexp.MustCompile(`^(#{1,6})\s+`)
	plainQuoteRe      = regexp.MustCompile(`^\s{0,3}(>\s?)+`)
)

// DetectTable reports the table cell enclosing off, or nil. Row and column
// are zero-based; the delimiter row below the header is not a row.
func DetectTable(b *doc.Buffer, off int) *TableInfo {
	cur := b.LineAt(off)
	if !plainTableRowRe.MatchString(b.Line(cur)) {
		return nil
	}

	first := cur
	for first > 0 && plainTableRowRe.MatchString(b.Line(first-1)) {
		first--
	}
	last := cur
	for last+1 < b.LineCount() && plainTableRowRe.MatchString(b.Line(last+1)) {
		last++
	}

	isDelim := func(l int) bool {
		s := b.Line(l)
		return plainTableDelimRe.MatchString(s) && strings.Contains(s, "-")
	}

	row := 0
	for l := first; l < cur; l++ {
		if !isDelim(l) {
			row++
		}
	}
	if isDelim(cur) {
		// Cursor on the delimiter row: treat it as the header row's context.
		row--
		if row < 0 {
			row = 0
		}
	}
	totalRows := 0
	for l := first; l <= last; l++ {
		if !isDelim(l) {
			totalRows++
		}
	}

	headerCells := splitRowCells(b.Line(first))
	totalCols := len(headerCells)

	col := 0
	line := b.Line(cur)
	colOff := off - b.LineStart(cur)
	pipes := 0
	escaped := false
	for i, r := range []rune(line) {
		if i >= colOff {
			break
		}
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '|':
			pipes++
		}
	}
	if pipes > 0 {
		col = pipes - 1
	}
	if totalCols > 0 && col >= totalCols {
		col = totalCols - 1
	}
	return &TableInfo{Row: row, Col: col, TotalRows: totalRows, TotalCols: totalCols}
}

func splitRowCells(row string) []string {
	trimmed := strings.TrimSpace(row)
	trimmed = strings.TrimPrefix(trimmed, "|")
	trimmed = strings.TrimSuffix(trimmed, "|")
	var cells []string
	var cur strings.Builder
	escaped := false
	for _, r := range trimmed {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			cur.WriteRune(r)
			escaped = true
		case r == '|':
			cells = append(cells, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	cells = append(cells, cur.String())
	return cells
}

// DetectList reports the list item whose line encloses off, or nil.
// Depth is 1-based and derived from indentation, two columns per level.
func DetectList(b *doc.Buffer, off int) *ListInfo {
	line := b.Line(b.LineAt(off))
	m := plainListItemRe.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	info := &ListInfo{Depth: len(m[1])/2 + 1}
	switch {
	case m[3] != "":
		info.ListType = doc.ListTask
		checked := m[4] == "x" || m[4] == "X"
		info.Checked = &checked
	case m[2] == "-" || m[2] == "*" || m[2] == "+":
		info.ListType = doc.ListBullet
	default:
		info.ListType = doc.ListOrdered
	}
	return info
}

// DetectBlockquote reports the blockquote nesting enclosing off, or nil.
func DetectBlockquote(b *doc.Buffer, off int) *BlockquoteInfo {
	line := b.Line(b.LineAt(off))
	m := plainQuoteRe.FindString(line)
	if m == "" {
		return nil
	}
	depth := strings.Count(m, ">")
	return &BlockquoteInfo{Depth: depth}
}

// DetectHeading reports the ATX heading whose line encloses off, or nil.
func DetectHeading(b *doc.Buffer, off int) *HeadingInfo {
	line := b.Line(b.LineAt(off))
	m := plainHeadingRe.FindStringSubmatch(line)
	if m == nil {
		return nil
	}
	return &HeadingInfo{Level: len(m[1])}
}

// FromPlain builds the normalized cursor context for the plain surface.
// from/to is the current selection; the cursor sits at to.
func FromPlain(b *doc.Buffer, from, to int) Context {
	cur := to
	line := b.LineAt(cur)
	lineText := b.Line(line)
	blank := strings.TrimSpace(lineText) == ""

	ctx := Context{
		Surface:     SurfacePlain,
		AtLineStart: cur == b.LineStart(line),
		AtBlankLine: blank,
		Mode:        ModeInsert,
	}
	if blank {
		ctx.Mode = ModeInsertBlock
	}
	if from != to {
		lo, hi := from, to
		if lo > hi {
			lo, hi = hi, lo
		}
		ctx.HasSelection = true
		ctx.Selection = &Selection{From: lo, To: hi, Text: b.Slice(lo, hi)}
	}

	ctx.CodeBlock = DetectCodeBlock(b, cur)
	ctx.BlockMath = DetectBlockMath(b, cur)
	ctx.Table = DetectTable(b, cur)
	ctx.List = DetectList(b, cur)
	ctx.Blockquote = DetectBlockquote(b, cur)
	ctx.Heading = DetectHeading(b, cur)

	// Inline family only applies outside fenced code and block math.
	if ctx.CodeBlock == nil && ctx.BlockMath == nil {
		ctx.Image = DetectImage(b, cur)
		ctx.Link = DetectLink(b, cur)
		ctx.InlineMath = DetectInlineMath(b, cur)
		ctx.Footnote = DetectFootnote(b, cur)
		ctx.Formatted = DetectFormattedRange(b, cur)
	}
	ctx.Word = DetectWord(b, cur)
	return ctx
}
