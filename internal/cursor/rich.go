package cursor

import (
	"strings"

	"markfold/internal/doc"
)

// Rich-surface detection walks the resolved cursor location's ancestor path
// for block context and the enclosing textblock's runs for inline context.
// Offsets in the resulting infos are tree offsets.

// MarkRange is an accumulated run of inline content carrying one mark
// identity, in rune offsets within the block's flat text.
type MarkRange struct {
	Mark doc.Mark
	From int
	To   int
}

// markRanges groups contiguous runs of the block that carry a mark of type t
// with equal identity (same href for links, same label for footnotes).
func markRanges(block *doc.Node, t doc.MarkType) []MarkRange {
	var out []MarkRange
	pos := 0
	for _, r := range block.Runs {
		n := len([]rune(r.Text))
		if r.ImageSrc != "" {
			n = 1
		}
		m, ok := r.MarkOf(t)
		if ok && r.ImageSrc == "" {
			if len(out) > 0 && out[len(out)-1].To == pos && out[len(out)-1].Mark.Eq(m) {
				out[len(out)-1].To = pos + n
			} else {
				out = append(out, MarkRange{Mark: m, From: pos, To: pos + n})
			}
		}
		pos += n
	}
	return out
}

// MarkRangeAt returns the mark range of type t strictly enclosing off within
// the block's text, if any.
func MarkRangeAt(block *doc.Node, off int, t doc.MarkType) (MarkRange, bool) {
	for _, r := range markRanges(block, t) {
		if off > r.From && off < r.To {
			return r, true
		}
	}
	return MarkRange{}, false
}

// MarkRangeNear behaves like MarkRangeAt but additionally matches a range
// whose boundary the cursor sits on. Typing at the edge of a bold span then
// extends the span instead of starting plain text.
func MarkRangeNear(block *doc.Node, off int, t doc.MarkType) (MarkRange, bool) {
	if r, ok := MarkRangeAt(block, off, t); ok {
		return r, true
	}
	for _, r := range markRanges(block, t) {
		if off == r.From || off == r.To {
			return r, true
		}
	}
	return MarkRange{}, false
}

// formatMarkOrder is the order in which generic format marks are probed on
// the rich surface.
var formatMarkOrder = []doc.MarkType{
	doc.MarkCode,
	doc.MarkBold,
	doc.MarkItalic,
	doc.MarkStrike,
	doc.MarkHighlight,
	doc.MarkSub,
	doc.MarkSup,
}

// imageRunAt returns the atomic image run covering off, with its start
// offset within the block text.
func imageRunAt(block *doc.Node, off int) (doc.Run, int, bool) {
	pos := 0
	for _, r := range block.Runs {
		n := len([]rune(r.Text))
		if r.ImageSrc != "" {
			n = 1
			if off >= pos && off <= pos+1 {
				return r, pos, true
			}
		}
		pos += n
	}
	return doc.Run{}, 0, false
}

// FromRich builds the normalized cursor context for the rich surface.
// from/to is the current selection in tree offsets; the cursor sits at to.
func FromRich(t *doc.Tree, from, to int) Context {
	ctx := Context{Surface: SurfaceRich, Mode: ModeInsert}

	loc, ok := t.Resolve(to)
	if !ok {
		// Between blocks: nothing encloses the cursor.
		ctx.Mode = ModeInsertBlock
		ctx.AtLineStart = true
		ctx.AtBlankLine = true
		return ctx
	}

	if from != to {
		lo, hi := from, to
		if lo > hi {
			lo, hi = hi, lo
		}
		ctx.HasSelection = true
		sel := &Selection{From: lo, To: hi}
		// Selection text is only meaningful within one textblock.
		if lo >= loc.BlockStart && hi <= loc.BlockStart+len([]rune(loc.Block.FlatText())) {
			rs := []rune(loc.Block.FlatText())
			sel.Text = string(rs[lo-loc.BlockStart : hi-loc.BlockStart])
		}
		ctx.Selection = sel
	}

	flat := loc.Block.FlatText()
	ctx.AtLineStart = loc.TextOffset == 0
	ctx.AtBlankLine = strings.TrimSpace(flat) == ""
	if ctx.AtBlankLine {
		ctx.Mode = ModeInsertBlock
	}

	// Block context from the ancestor path. The rich surface renders block
	// math as an atomic node with a dedicated popup, so BlockMath stays nil.
	var table *doc.Node
	var row *doc.Node
	listDepth := 0
	var innerList *doc.Node
	var innerItem *doc.Node
	quoteDepth := 0
	for _, n := range loc.Path {
		switch n.Kind {
		case doc.KindTable:
			table = n
		case doc.KindTableRow:
			row = n
		case doc.KindList:
			listDepth++
			innerList = n
		case doc.KindListItem:
			innerItem = n
		case doc.KindBlockquote:
			quoteDepth++
		}
	}

	switch loc.Block.Kind {
	case doc.KindCodeBlock:
		ctx.CodeBlock = &CodeBlockInfo{
			Language: loc.Block.Lang,
			From:     loc.BlockStart,
			To:       loc.BlockStart + len([]rune(flat)),
		}
	case doc.KindHeading:
		ctx.Heading = &HeadingInfo{
			Level:   loc.Block.Level,
			NodePos: loc.BlockStart - 1,
			HasPos:  true,
		}
	}

	if table != nil && row != nil {
		info := &TableInfo{TotalRows: len(table.Children)}
		for i, r := range table.Children {
			if r == row {
				info.Row = i
			}
		}
		info.TotalCols = len(row.Children)
		for i, c := range row.Children {
			if c == loc.Block {
				info.Col = i
			}
		}
		ctx.Table = info
	}

	if innerList != nil {
		ctx.List = &ListInfo{ListType: innerList.ListType, Depth: listDepth}
		if innerItem != nil {
			ctx.List.Checked = innerItem.Checked
		}
	}

	if quoteDepth > 0 {
		ctx.Blockquote = &BlockquoteInfo{Depth: quoteDepth}
	}

	// Inline context only exists for blocks that carry runs.
	if loc.Block.Kind != doc.KindCodeBlock && loc.Block.Kind != doc.KindMathBlock {
		off := loc.TextOffset
		base := loc.BlockStart

		if run, pos, ok := imageRunAt(loc.Block, off); ok {
			ctx.Image = &ImageInfo{Src: run.ImageSrc, Alt: run.ImageAlt, From: base + pos, To: base + pos + 1}
		}
		if r, ok := MarkRangeNear(loc.Block, off, doc.MarkLink); ok {
			rs := []rune(flat)
			ctx.Link = &LinkInfo{
				Href:        r.Mark.Href,
				Text:        string(rs[r.From:r.To]),
				From:        base + r.From,
				To:          base + r.To,
				ContentFrom: base + r.From,
				ContentTo:   base + r.To,
			}
		}
		if r, ok := MarkRangeNear(loc.Block, off, doc.MarkInlineMath); ok {
			ctx.InlineMath = &InlineMathInfo{
				From: base + r.From, To: base + r.To,
				ContentFrom: base + r.From, ContentTo: base + r.To,
			}
		}
		if r, ok := MarkRangeNear(loc.Block, off, doc.MarkFootnote); ok {
			ctx.Footnote = &FootnoteInfo{
				Label: r.Mark.Label,
				From:  base + r.From, To: base + r.To,
				ContentFrom: base + r.From, ContentTo: base + r.To,
			}
		}
		for _, mt := range formatMarkOrder {
			if r, ok := MarkRangeNear(loc.Block, off, mt); ok {
				ctx.Formatted = &FormattedRangeInfo{
					MarkType:    mt,
					From:        base + r.From,
					To:          base + r.To,
					ContentFrom: base + r.From,
					ContentTo:   base + r.To,
				}
				break
			}
		}
		if f, t2, ok := wordInRunes([]rune(flat), off); ok {
			rs := []rune(flat)
			ctx.Word = &WordInfo{From: base + f, To: base + t2, Text: string(rs[f:t2])}
		}
	}
	return ctx
}
