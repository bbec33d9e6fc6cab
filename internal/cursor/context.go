// Package cursor classifies what structural markdown construct encloses the
// cursor on either editing surface, and normalizes the answer into one
// surface-agnostic Context snapshot.
//
// Detection is purely local: every detector re-derives its answer from the
// current document snapshot and cursor position, mutates nothing, and
// reports "no match" as nil rather than an error. Several construct fields
// may be non-nil at once (a word inside a heading, say); deciding which one
// wins is the intent resolver's job, not ours.
package cursor

import "markfold/internal/doc"

// Surface tags which editing surface produced a Context.
type Surface string

const (
	SurfaceRich  Surface = "rich"
	SurfacePlain Surface = "plain"
)

// Mode is the fallback classification when no construct matches.
type Mode string

const (
	ModeInsert      Mode = "insert"
	ModeInsertBlock Mode = "insert-block"
)

// Selection is a non-empty single range. Offsets are in the owning
// surface's coordinate space.
type Selection struct {
	From int
	To   int
	Text string
}

// CodeBlockInfo describes an enclosing fenced code block.
type CodeBlockInfo struct {
	Language string
	From     int
	To       int
}

// BlockMathInfo describes an enclosing $$ region. Plain surface only: the
// rich surface renders block math as an atomic node with its own popup.
type BlockMathInfo struct {
	From int
	To   int
}

// TableInfo describes the enclosing table cell.
type TableInfo struct {
	Row       int
	Col       int
	TotalRows int
	TotalCols int
}

// ListInfo describes the enclosing list item.
type ListInfo struct {
	ListType doc.ListType
	Depth    int
	Checked  *bool
}

// BlockquoteInfo describes the enclosing blockquote nesting.
type BlockquoteInfo struct {
	Depth int
}

// FormattedRangeInfo describes an enclosing formatted span. From/To cover
// the full syntax; ContentFrom/ContentTo the auto-selectable body.
type FormattedRangeInfo struct {
	MarkType    doc.MarkType
	From        int
	To          int
	ContentFrom int
	ContentTo   int
}

// LinkInfo describes an enclosing link.
type LinkInfo struct {
	Href        string
	Text        string
	From        int
	To          int
	ContentFrom int
	ContentTo   int
}

// ImageInfo describes an enclosing image.
type ImageInfo struct {
	Src  string
	Alt  string
	From int
	To   int
}

// InlineMathInfo describes an enclosing $…$ span.
type InlineMathInfo struct {
	From        int
	To          int
	ContentFrom int
	ContentTo   int
}

// FootnoteInfo describes an enclosing footnote reference.
type FootnoteInfo struct {
	Label       string
	From        int
	To          int
	ContentFrom int
	ContentTo   int
}

// HeadingInfo describes the enclosing heading. Level 0 means paragraph.
// NodePos is the heading block's position when the surface has one (rich).
type HeadingInfo struct {
	Level   int
	NodePos int
	HasPos  bool
}

// WordInfo describes the word under the cursor.
type WordInfo struct {
	From int
	To   int
	Text string
}

// Context is the normalized cursor snapshot consumed by the intent
// resolver. It is rebuilt on every selection or content change and never
// persisted.
type Context struct {
	Surface Surface

	HasSelection bool
	Selection    *Selection

	CodeBlock  *CodeBlockInfo
	BlockMath  *BlockMathInfo
	Table      *TableInfo
	List       *ListInfo
	Blockquote *BlockquoteInfo
	Formatted  *FormattedRangeInfo
	Link       *LinkInfo
	Image      *ImageInfo
	InlineMath *InlineMathInfo
	Footnote   *FootnoteInfo
	Heading    *HeadingInfo
	Word       *WordInfo

	AtLineStart bool
	AtBlankLine bool

	Mode Mode
}
