package cursor

import (
	"testing"

	"markfold/internal/doc"
)

func headingTree(md string) (*doc.Tree, *doc.Node) {
	tr := doc.ParseTree(md)
	return tr, tr.Root.Children[0]
}

func TestMarkRangeAccumulatesRuns(t *testing.T) {
	// Contiguous runs carrying the same mark identity merge into one range.
	block := &doc.Node{Kind: doc.KindParagraph, Runs: []doc.Run{
		{Text: "a "},
		{Text: "bb", Marks: []doc.Mark{{Type: doc.MarkBold}}},
		{Text: "cc", Marks: []doc.Mark{{Type: doc.MarkBold}, {Type: doc.MarkItalic}}},
		{Text: " d"},
	}}
	r, ok := MarkRangeAt(block, 4, doc.MarkBold)
	if !ok {
		t.Fatalf("expected a bold range")
	}
	if r.From != 2 || r.To != 6 {
		t.Fatalf("range = [%d,%d], want [2,6]", r.From, r.To)
	}

	t.Run("different identity does not merge", func(t *testing.T) {
		block := &doc.Node{Kind: doc.KindParagraph, Runs: []doc.Run{
			{Text: "xx", Marks: []doc.Mark{{Type: doc.MarkLink, Href: "http://a"}}},
			{Text: "yy", Marks: []doc.Mark{{Type: doc.MarkLink, Href: "http://b"}}},
		}}
		r, ok := MarkRangeAt(block, 1, doc.MarkLink)
		if !ok || r.To != 2 {
			t.Fatalf("range = %+v ok=%v", r, ok)
		}
		if r.Mark.Href != "http://a" {
			t.Fatalf("href = %q", r.Mark.Href)
		}
	})
}

func TestMarkRangeBoundaries(t *testing.T) {
	block := &doc.Node{Kind: doc.KindParagraph, Runs: []doc.Run{
		{Text: "ab"},
		{Text: "cd", Marks: []doc.Mark{{Type: doc.MarkBold}}},
		{Text: "ef"},
	}}
	// Strict variant: only interior positions match.
	if _, ok := MarkRangeAt(block, 2, doc.MarkBold); ok {
		t.Fatalf("left boundary is not inside")
	}
	if _, ok := MarkRangeAt(block, 3, doc.MarkBold); !ok {
		t.Fatalf("interior should match")
	}
	// Adjacent variant: boundaries match too, for upgrade-on-boundary typing.
	if _, ok := MarkRangeNear(block, 2, doc.MarkBold); !ok {
		t.Fatalf("left boundary should match the adjacent variant")
	}
	if _, ok := MarkRangeNear(block, 4, doc.MarkBold); !ok {
		t.Fatalf("right boundary should match the adjacent variant")
	}
	if _, ok := MarkRangeNear(block, 6, doc.MarkBold); ok {
		t.Fatalf("positions away from the range must not match")
	}
}

func TestFromRichFormattedRange(t *testing.T) {
	tr, h := headingTree("# Hello **bold** world")
	if h.Kind != doc.KindHeading {
		t.Fatalf("kind = %v", h.Kind)
	}
	// Flat text "Hello bold world"; bold covers [6,10); block text starts
	// at tree offset 1.
	ctx := FromRich(tr, 8, 8)
	if ctx.Surface != SurfaceRich {
		t.Fatalf("surface = %v", ctx.Surface)
	}
	if ctx.Formatted == nil {
		t.Fatalf("expected a formatted range")
	}
	if ctx.Formatted.MarkType != doc.MarkBold {
		t.Fatalf("mark = %v", ctx.Formatted.MarkType)
	}
	if ctx.Formatted.From != 7 || ctx.Formatted.To != 11 {
		t.Fatalf("range = [%d,%d], want [7,11]", ctx.Formatted.From, ctx.Formatted.To)
	}
	if ctx.Heading == nil || ctx.Heading.Level != 1 || !ctx.Heading.HasPos {
		t.Fatalf("heading = %+v", ctx.Heading)
	}
	if ctx.Heading.NodePos != 0 {
		t.Fatalf("node pos = %d", ctx.Heading.NodePos)
	}
}

func TestFromRichTableCell(t *testing.T) {
	tr := doc.ParseTree("| a | b |\n| - | - |\n| 1 | 2 |")
	ctx := FromRich(tr, 14, 14)
	if ctx.Table == nil {
		t.Fatalf("expected table context")
	}
	if ctx.Table.Row != 1 || ctx.Table.Col != 1 {
		t.Fatalf("cell = (%d,%d), want (1,1)", ctx.Table.Row, ctx.Table.Col)
	}
	if ctx.Table.TotalRows != 2 || ctx.Table.TotalCols != 2 {
		t.Fatalf("totals = %dx%d", ctx.Table.TotalRows, ctx.Table.TotalCols)
	}
}

func TestFromRichListAndQuote(t *testing.T) {
	tr := doc.ParseTree("- [x] done")
	// doc > list > item > paragraph; paragraph text starts at offset 4.
	ctx := FromRich(tr, 5, 5)
	if ctx.List == nil {
		t.Fatalf("expected list context")
	}
	if ctx.List.ListType != doc.ListTask || ctx.List.Depth != 1 {
		t.Fatalf("list = %+v", ctx.List)
	}
	if ctx.List.Checked == nil || !*ctx.List.Checked {
		t.Fatalf("checked = %+v", ctx.List.Checked)
	}

	tr2 := doc.ParseTree("> quote me")
	ctx2 := FromRich(tr2, 3, 3)
	if ctx2.Blockquote == nil || ctx2.Blockquote.Depth != 1 {
		t.Fatalf("quote = %+v", ctx2.Blockquote)
	}
}

func TestFromRichCodeBlockHasNoBlockMath(t *testing.T) {
	tr := doc.ParseTree("```rs\nfn main() {}\n```")
	ctx := FromRich(tr, 3, 3)
	if ctx.CodeBlock == nil || ctx.CodeBlock.Language != "rs" {
		t.Fatalf("code = %+v", ctx.CodeBlock)
	}
	// The rich surface never reports block math; the node is atomic there.
	tr2 := doc.ParseTree("$$\nE=mc^2\n$$")
	ctx2 := FromRich(tr2, 3, 3)
	if ctx2.BlockMath != nil {
		t.Fatalf("rich surface must not populate block math")
	}
}

func TestFromRichLinkAndWord(t *testing.T) {
	tr := doc.ParseTree("see [docs](http://x) now")
	// Paragraph text "see docs now"; link covers [4,8); starts at offset 1.
	ctx := FromRich(tr, 6, 6)
	if ctx.Link == nil {
		t.Fatalf("expected link context")
	}
	if ctx.Link.Href != "http://x" || ctx.Link.Text != "docs" {
		t.Fatalf("link = %+v", ctx.Link)
	}
	if ctx.Link.From != 5 || ctx.Link.To != 9 {
		t.Fatalf("range = [%d,%d], want [5,9]", ctx.Link.From, ctx.Link.To)
	}
	if ctx.Word == nil || ctx.Word.Text != "docs" {
		t.Fatalf("word = %+v", ctx.Word)
	}
}

func TestFromRichEmptyDocument(t *testing.T) {
	tr := doc.ParseTree("")
	ctx := FromRich(tr, 0, 0)
	if ctx.Mode != ModeInsertBlock {
		t.Fatalf("mode = %v, want insert-block", ctx.Mode)
	}
	if !ctx.AtBlankLine || !ctx.AtLineStart {
		t.Fatalf("flags = start %v blank %v", ctx.AtLineStart, ctx.AtBlankLine)
	}
}

func TestFromRichSelection(t *testing.T) {
	tr := doc.ParseTree("plain words here")
	// Paragraph text starts at tree offset 1; select "words" = text [6,11).
	ctx := FromRich(tr, 7, 12)
	if !ctx.HasSelection || ctx.Selection == nil {
		t.Fatalf("expected a selection")
	}
	if ctx.Selection.Text != "words" {
		t.Fatalf("selection text = %q", ctx.Selection.Text)
	}
}
