// Package intent turns a cursor context into the single decision of which
// contextual toolbar or popup to present. Menus, shortcuts and insert
// palettes all consume this decision instead of re-deriving context.
package intent

import (
	"markfold/internal/cursor"
)

// Kind tags the resolved intent.
type Kind string

const (
	KindCode       Kind = "code"
	KindBlockMath  Kind = "blockMath"
	KindTable      Kind = "table"
	KindList       Kind = "list"
	KindBlockquote Kind = "blockquote"
	KindFormat     Kind = "format"
	KindLink       Kind = "link"
	KindNone       Kind = "none"
	KindInlineMath Kind = "inlineMath"
	KindFootnote   Kind = "footnote"
	KindHeading    Kind = "heading"
	KindInsert     Kind = "insert"
)

// Intent is the resolver's sole output: one kind plus the payload for that
// kind. Exactly one payload field matching Kind is set.
type Intent struct {
	Kind Kind `json:"kind"`

	Code       *cursor.CodeBlockInfo  `json:"code,omitempty"`
	BlockMath  *cursor.BlockMathInfo  `json:"blockMath,omitempty"`
	Table      *cursor.TableInfo      `json:"table,omitempty"`
	List       *cursor.ListInfo       `json:"list,omitempty"`
	Blockquote *cursor.BlockquoteInfo `json:"blockquote,omitempty"`
	Link       *cursor.LinkInfo       `json:"link,omitempty"`
	InlineMath *cursor.InlineMathInfo `json:"inlineMath,omitempty"`
	Footnote   *cursor.FootnoteInfo   `json:"footnote,omitempty"`
	Heading    *cursor.HeadingInfo    `json:"heading,omitempty"`

	// Format payload: the selection driving the format toolbar, and whether
	// the engine auto-selected it (vs. a deliberate user selection).
	Selection    *cursor.Selection `json:"selection,omitempty"`
	AutoSelected bool              `json:"autoSelected,omitempty"`

	// Insert payload.
	Mode cursor.Mode `json:"mode,omitempty"`
}
