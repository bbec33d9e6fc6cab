package doc

// The rich surface edits a block/inline tree rather than a flat string.
// Blocks nest (quote > list > item > paragraph); textblocks carry a flat
// list of runs, each run a piece of text with the marks that apply to it.
//
// Tree addressing follows the usual structured-editor convention: every
// node boundary counts one position and text counts one position per rune.
// A cursor offset therefore resolves to (innermost textblock, offset within
// that block's text) without any global text reconstruction.

// NodeKind identifies a block node type.
type NodeKind int

const (
	KindDoc NodeKind = iota
	KindParagraph
	KindHeading
	KindCodeBlock
	KindBlockquote
	KindList
	KindListItem
	KindTable
	KindTableRow
	KindTableCell
	KindMathBlock
	KindRule
)

// ListType distinguishes the three markdown list flavors.
type ListType string

const (
	ListBullet  ListType = "bullet"
	ListOrdered ListType = "ordered"
	ListTask    ListType = "task"
)

// MarkType identifies an inline mark.
type MarkType string

const (
	MarkBold       MarkType = "bold"
	MarkItalic     MarkType = "italic"
	MarkCode       MarkType = "code"
	MarkStrike     MarkType = "strike"
	MarkHighlight  MarkType = "highlight"
	MarkSub        MarkType = "subscript"
	MarkSup        MarkType = "superscript"
	MarkLink       MarkType = "link"
	MarkInlineMath MarkType = "inlineMath"
	MarkFootnote   MarkType = "footnote"
)

// Mark is one inline mark instance. Href is set for links, Label for
// footnote references.
type Mark struct {
	Type  MarkType
	Href  string
	Label string
}

// Eq reports mark identity: same type and, where the type carries an
// attribute, the same attribute. Two bold marks are always the same mark;
// two links are the same mark only when they target the same URL.
func (m Mark) Eq(o Mark) bool {
	if m.Type != o.Type {
		return false
	}
	switch m.Type {
	case MarkLink:
		return m.Href == o.Href
	case MarkFootnote:
		return m.Label == o.Label
	default:
		return true
	}
}

// Run is a contiguous piece of inline content inside a textblock. A run is
// either text with marks or an atomic inline image (ImageSrc non-empty; such
// a run occupies one position).
type Run struct {
	Text     string
	Marks    []Mark
	ImageSrc string
	ImageAlt string
}

// HasMark reports whether the run carries a mark equal to m.
func (r Run) HasMark(m Mark) bool {
	for _, rm := range r.Marks {
		if rm.Eq(m) {
			return true
		}
	}
	return false
}

// MarkOf returns the run's mark of type t, if any.
func (r Run) MarkOf(t MarkType) (Mark, bool) {
	for _, rm := range r.Marks {
		if rm.Type == t {
			return rm, true
		}
	}
	return Mark{}, false
}

func (r Run) runeLen() int {
	if r.ImageSrc != "" {
		return 1
	}
	return len([]rune(r.Text))
}

// Node is one block node. Containers use Children; textblocks use Runs.
// Code and math blocks store their body verbatim in Text.
type Node struct {
	Kind     NodeKind
	Level    int      // heading level 1..6
	ListType ListType // on KindList
	Checked  *bool    // on task KindListItem
	Lang     string   // on KindCodeBlock
	Text     string   // on KindCodeBlock / KindMathBlock
	Children []*Node
	Runs     []Run
}

// IsTextblock reports whether the node holds inline content directly.
func (n *Node) IsTextblock() bool {
	switch n.Kind {
	case KindParagraph, KindHeading, KindTableCell, KindCodeBlock, KindMathBlock:
		return true
	}
	return false
}

// FlatText returns the node's inline content as a flat string. Image runs
// contribute one object-replacement placeholder rune so offsets stay aligned
// with tree positions.
func (n *Node) FlatText() string {
	if n.Kind == KindCodeBlock || n.Kind == KindMathBlock {
		return n.Text
	}
	var out []rune
	for _, r := range n.Runs {
		if r.ImageSrc != "" {
			out = append(out, '￼')
			continue
		}
		out = append(out, []rune(r.Text)...)
	}
	return string(out)
}

func (n *Node) size() int {
	if n.IsTextblock() {
		return 2 + len([]rune(n.FlatText()))
	}
	s := 2
	for _, c := range n.Children {
		s += c.size()
	}
	return s
}

// Tree is a rich document.
type Tree struct {
	Root *Node
}

// Len returns the total number of addressable positions.
func (t *Tree) Len() int {
	if t.Root == nil {
		return 0
	}
	s := 0
	for _, c := range t.Root.Children {
		s += c.size()
	}
	return s
}

// Loc is a resolved cursor position on the rich surface.
type Loc struct {
	// Path holds the ancestors of Block from the document root down,
	// excluding the root itself and including Block.
	Path []*Node
	// Block is the innermost textblock enclosing the position.
	Block *Node
	// BlockStart is the tree offset of Block's first text position.
	BlockStart int
	// TextOffset is the rune offset of the position within Block's FlatText.
	TextOffset int
}

// Resolve maps a tree offset to a location. It reports false when the offset
// does not fall inside any textblock (e.g. between two blocks or on a rule).
func (t *Tree) Resolve(off int) (Loc, bool) {
	if t.Root == nil {
		return Loc{}, false
	}
	var path []*Node
	pos := 0
	var walk func(n *Node) (Loc, bool)
	walk = func(n *Node) (Loc, bool) {
		for _, c := range n.Children {
			sz := c.size()
			if off < pos || off > pos+sz {
				pos += sz
				continue
			}
			path = append(path, c)
			if c.IsTextblock() {
				start := pos + 1
				txt := off - start
				max := len([]rune(c.FlatText()))
				if txt < 0 {
					txt = 0
				}
				if txt > max {
					txt = max
				}
				p := make([]*Node, len(path))
				copy(p, path)
				return Loc{Path: p, Block: c, BlockStart: start, TextOffset: txt}, true
			}
			entry := pos
			pos++ // enter container
			if l, ok := walk(c); ok {
				return l, true
			}
			path = path[:len(path)-1]
			pos = entry + sz // the recursion moved pos; resume past c
		}
		return Loc{}, false
	}
	return walk(t.Root)
}

// BlockStart returns the tree offset of a textblock's first text position,
// or -1 when the node is not in the tree.
func (t *Tree) BlockStart(target *Node) int {
	if t.Root == nil {
		return -1
	}
	pos := 0
	var walk func(n *Node) int
	walk = func(n *Node) int {
		for _, c := range n.Children {
			if c == target {
				return pos + 1
			}
			if c.IsTextblock() {
				pos += c.size()
				continue
			}
			pos++
			if r := walk(c); r >= 0 {
				return r
			}
			pos++
		}
		return -1
	}
	return walk(t.Root)
}
