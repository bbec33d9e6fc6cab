package intent

import "markfold/internal/cursor"

// The priority order is a total, fixed decision table: block-level context
// always outranks inline formatting (editing a cell or list marker is almost
// always what the user means when both are true), a deliberate selection is
// never overridden by an auto-detected span, and link/image are special
// because each owns a purpose-built popup rather than the generic toolbar.

type rule struct {
	match func(cursor.Context) bool
	build func(cursor.Context) Intent
}

var rules = []rule{
	// 1. Code block.
	{
		func(c cursor.Context) bool { return c.CodeBlock != nil },
		func(c cursor.Context) Intent { return Intent{Kind: KindCode, Code: c.CodeBlock} },
	},
	// 2. Block math (plain surface only; the rich surface renders it as an
	// atomic node and never populates the field).
	{
		func(c cursor.Context) bool { return c.BlockMath != nil },
		func(c cursor.Context) Intent { return Intent{Kind: KindBlockMath, BlockMath: c.BlockMath} },
	},
	// 3. Table cell.
	{
		func(c cursor.Context) bool { return c.Table != nil },
		func(c cursor.Context) Intent { return Intent{Kind: KindTable, Table: c.Table} },
	},
	// 4. List item.
	{
		func(c cursor.Context) bool { return c.List != nil },
		func(c cursor.Context) Intent { return Intent{Kind: KindList, List: c.List} },
	},
	// 5. Blockquote.
	{
		func(c cursor.Context) bool { return c.Blockquote != nil },
		func(c cursor.Context) Intent { return Intent{Kind: KindBlockquote, Blockquote: c.Blockquote} },
	},
	// 6. A deliberate user selection always wins over auto-detection.
	{
		func(c cursor.Context) bool { return c.HasSelection && c.Selection != nil },
		func(c cursor.Context) Intent {
			return Intent{Kind: KindFormat, Selection: c.Selection, AutoSelected: false}
		},
	},
	// 7. Auto-selectable formatted range.
	{
		func(c cursor.Context) bool { return c.Formatted != nil },
		func(c cursor.Context) Intent {
			return Intent{
				Kind:         KindFormat,
				AutoSelected: true,
				Selection: &cursor.Selection{
					From: c.Formatted.ContentFrom,
					To:   c.Formatted.ContentTo,
				},
			}
		},
	},
	// 8. Link. The rich surface opens the dedicated link popup; the plain
	// surface auto-selects the link text for the format toolbar.
	{
		func(c cursor.Context) bool { return c.Link != nil },
		func(c cursor.Context) Intent {
			if c.Surface == cursor.SurfaceRich {
				return Intent{Kind: KindLink, Link: c.Link}
			}
			return Intent{
				Kind:         KindFormat,
				AutoSelected: true,
				Selection: &cursor.Selection{
					From: c.Link.ContentFrom,
					To:   c.Link.ContentTo,
					Text: c.Link.Text,
				},
			}
		},
	},
	// 9. Image owns a separate popup on both surfaces; no toolbar here.
	{
		func(c cursor.Context) bool { return c.Image != nil },
		func(c cursor.Context) Intent { return Intent{Kind: KindNone} },
	},
	// 10. Inline math.
	{
		func(c cursor.Context) bool { return c.InlineMath != nil },
		func(c cursor.Context) Intent { return Intent{Kind: KindInlineMath, InlineMath: c.InlineMath} },
	},
	// 11. Footnote reference.
	{
		func(c cursor.Context) bool { return c.Footnote != nil },
		func(c cursor.Context) Intent { return Intent{Kind: KindFootnote, Footnote: c.Footnote} },
	},
	// 12. Heading.
	{
		func(c cursor.Context) bool { return c.Heading != nil },
		func(c cursor.Context) Intent { return Intent{Kind: KindHeading, Heading: c.Heading} },
	},
	// 13. Line start synthesizes a paragraph-level heading switcher.
	{
		func(c cursor.Context) bool { return c.AtLineStart },
		func(c cursor.Context) Intent {
			return Intent{Kind: KindHeading, Heading: &cursor.HeadingInfo{Level: 0}}
		},
	},
	// 14. Word under cursor.
	{
		func(c cursor.Context) bool { return c.Word != nil },
		func(c cursor.Context) Intent {
			return Intent{
				Kind:         KindFormat,
				AutoSelected: true,
				Selection: &cursor.Selection{
					From: c.Word.From,
					To:   c.Word.To,
					Text: c.Word.Text,
				},
			}
		},
	},
	// 15. Fallback insert.
	{
		func(c cursor.Context) bool { return true },
		func(c cursor.Context) Intent { return Intent{Kind: KindInsert, Mode: c.Mode} },
	},
}

// Resolve maps a cursor context to exactly one toolbar intent. It is pure
// and total: the first matching rule wins and the final rule always matches.
func Resolve(ctx cursor.Context) Intent {
	for _, r := range rules {
		if r.match(ctx) {
			return r.build(ctx)
		}
	}
	// Unreachable; the last rule is a catch-all.
	return Intent{Kind: KindInsert, Mode: ctx.Mode}
}
