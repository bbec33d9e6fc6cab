package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"markfold/internal/cursor"
	"markfold/internal/doc"
)

func (m *editorModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}

	var body string
	if m.surface == cursor.SurfaceRich {
		body = m.viewRich()
	} else {
		body = m.viewPlain()
	}
	body = normalizePane(body, m.width, m.editorHeight())

	if box, rect, ok := m.popups.View(); ok {
		body = overlayAt(body, normalizePane(box, rect.W, rect.H), rect)
	}

	return body + "\n" + m.statusBar()
}

func (m *editorModel) statusBar() string {
	mode := "plain"
	if m.surface == cursor.SurfaceRich {
		mode = "rich"
	}
	left := " " + m.path
	if m.dirty {
		left += " *"
	}
	left += "  [" + mode + "]"
	if m.debugEnabled {
		kind := "insert"
		if k, _, ok := m.popups.Open(); ok {
			kind = string(k)
		}
		left += "  intent:" + kind
	}

	right := m.notice
	st := lipgloss.NewStyle().Foreground(colorSurfaceFg).Background(colorInputBg)
	if m.noticeErr && right != "" {
		right = lipgloss.NewStyle().Background(colorNoticeErrBg).Foreground(colorAccentFg).Render(" " + right + " ")
	}

	gap := m.width - runewidth.StringWidth(left) - runewidth.StringWidth(m.notice)
	if gap < 1 {
		gap = 1
	}
	return st.Render(truncateCells(left+strings.Repeat(" ", gap), m.width-runewidth.StringWidth(m.notice))) + right
}

// --- plain surface --------------------------------------------------------

func (m *editorModel) viewPlain() string {
	selFrom, selTo := -1, -1
	if m.selecting {
		selFrom, selTo = m.selAnchor, m.curPlain
		if selFrom > selTo {
			selFrom, selTo = selTo, selFrom
		}
	}

	cursorSt := lipgloss.NewStyle().Reverse(true)
	selSt := lipgloss.NewStyle().Foreground(colorSelectedFg).Background(colorSelectedBg)

	var b strings.Builder
	last := m.scroll + m.editorHeight()
	for line := m.scroll; line < m.buf.LineCount() && line < last; line++ {
		if line > m.scroll {
			b.WriteString("\n")
		}
		start, end := m.buf.LineStart(line), m.buf.LineEnd(line)
		for off := start; off <= end; off++ {
			ch := " "
			if off < end {
				ch = string(m.buf.RuneAt(off))
			} else if off == end && off != m.curPlain && !(off >= selFrom && off < selTo) {
				break
			}
			switch {
			case off == m.curPlain:
				b.WriteString(cursorSt.Render(ch))
			case off >= selFrom && off < selTo:
				b.WriteString(selSt.Render(ch))
			default:
				b.WriteString(ch)
			}
		}
	}
	return b.String()
}

// --- rich surface ---------------------------------------------------------

// richLine is one rendered viewport row of the rich surface, tagged with the
// block it came from so cursor and anchor math can map rows back to tree
// offsets.
type richLine struct {
	text  string
	block *doc.Node
	start int // tree offset of the block's first text position
}

func (m *editorModel) richLines() []richLine {
	if m.tree == nil || m.tree.Root == nil {
		return nil
	}
	var out []richLine
	for _, blk := range m.tree.Root.Children {
		out = append(out, m.renderBlock(blk, "")...)
		// Separator rows carry no block so cursor and motion logic skip them.
		out = append(out, richLine{start: m.tree.BlockStart(firstTextblock(blk))})
	}
	if len(out) > 0 {
		out = out[:len(out)-1] // no trailing separator
	}
	return out
}

func firstTextblock(n *doc.Node) *doc.Node {
	if n.IsTextblock() {
		return n
	}
	for _, c := range n.Children {
		if tb := firstTextblock(c); tb != nil {
			return tb
		}
	}
	return nil
}

func (m *editorModel) renderBlock(n *doc.Node, indent string) []richLine {
	start := m.tree.BlockStart(firstTextblock(n))
	tag := func(lines ...string) []richLine {
		out := make([]richLine, len(lines))
		for i, s := range lines {
			out[i] = richLine{text: s, block: n, start: start}
		}
		return out
	}

	switch n.Kind {
	case doc.KindHeading:
		st := lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
		return tag(indent + st.Render(n.FlatText()))
	case doc.KindParagraph:
		return tag(indent + renderRuns(n.Runs))
	case doc.KindCodeBlock:
		lines := strings.Split(highlightCode(n.Text, n.Lang), "\n")
		out := make([]string, 0, len(lines)+1)
		out = append(out, indent+styleMuted().Render("code"+infoSuffix(n.Lang)))
		for _, ln := range lines {
			out = append(out, indent+"  "+ln)
		}
		return tag(out...)
	case doc.KindMathBlock:
		lines := strings.Split(n.Text, "\n")
		out := make([]string, 0, len(lines)+1)
		out = append(out, indent+styleMuted().Render("math"))
		for _, ln := range lines {
			out = append(out, indent+"  "+ln)
		}
		return tag(out...)
	case doc.KindBlockquote:
		var out []richLine
		for _, c := range n.Children {
			for _, rl := range m.renderBlock(c, indent) {
				rl.text = indent + "│ " + strings.TrimPrefix(rl.text, indent)
				out = append(out, rl)
			}
		}
		return out
	case doc.KindList:
		var out []richLine
		num := 1
		for _, item := range n.Children {
			marker := "• "
			switch {
			case n.ListType == doc.ListOrdered:
				marker = strconv.Itoa(num) + ". "
				num++
			case n.ListType == doc.ListTask && item.Checked != nil:
				if *item.Checked {
					marker = "[x] "
				} else {
					marker = "[ ] "
				}
			}
			first := true
			for _, c := range item.Children {
				for _, rl := range m.renderBlock(c, indent+"  ") {
					if first {
						rl.text = indent + marker + strings.TrimPrefix(rl.text, indent+"  ")
						first = false
					}
					out = append(out, rl)
				}
			}
		}
		return out
	case doc.KindTable:
		var out []richLine
		for i, row := range n.Children {
			cells := make([]string, 0, len(row.Children))
			for _, cell := range row.Children {
				cells = append(cells, cell.FlatText())
			}
			ln := indent + "│ " + strings.Join(cells, " │ ") + " │"
			if i == 0 {
				ln = lipgloss.NewStyle().Bold(true).Render(ln)
			}
			rowStart := m.tree.BlockStart(firstTextblock(row))
			out = append(out, richLine{text: ln, block: row, start: rowStart})
		}
		return out
	case doc.KindRule:
		return tag(indent + styleMuted().Render("───"))
	default:
		return tag(indent + n.FlatText())
	}
}

func infoSuffix(lang string) string {
	if lang == "" {
		return ""
	}
	return " (" + lang + ")"
}

// renderRuns styles a textblock's inline runs with their marks.
func renderRuns(runs []doc.Run) string {
	var b strings.Builder
	for _, r := range runs {
		if r.ImageSrc != "" {
			b.WriteString(styleMuted().Render("[img: " + r.ImageAlt + "]"))
			continue
		}
		st := lipgloss.NewStyle()
		for _, mk := range r.Marks {
			switch mk.Type {
			case doc.MarkBold:
				st = st.Bold(true)
			case doc.MarkItalic:
				st = st.Italic(true)
			case doc.MarkCode:
				st = st.Foreground(colorSyntaxFg).Background(colorInputBg)
			case doc.MarkStrike:
				st = st.Strikethrough(true)
			case doc.MarkHighlight:
				st = st.Background(colorSelectedBg)
			case doc.MarkLink:
				st = st.Foreground(colorAccent).Underline(true)
			case doc.MarkInlineMath, doc.MarkFootnote:
				st = st.Foreground(colorSyntaxFg)
			}
		}
		b.WriteString(st.Render(r.Text))
	}
	return b.String()
}

func (m *editorModel) viewRich() string {
	lines := m.richLines()
	loc, locOK := m.tree.Resolve(m.curRich)

	var b strings.Builder
	last := m.scroll + m.editorHeight()
	cursorSt := lipgloss.NewStyle().Foreground(colorAccent)
	for i := m.scroll; i < len(lines) && i < last; i++ {
		if i > m.scroll {
			b.WriteString("\n")
		}
		marker := "  "
		if locOK && blockContains(lines[i].block, loc.Block) && firstLineOfBlock(lines, i) {
			marker = cursorSt.Render("▌ ")
		}
		b.WriteString(marker + lines[i].text)
	}
	return b.String()
}

func blockContains(n, target *doc.Node) bool {
	if n == nil {
		return false
	}
	if n == target {
		return true
	}
	for _, c := range n.Children {
		if blockContains(c, target) {
			return true
		}
	}
	return false
}

func firstLineOfBlock(lines []richLine, i int) bool {
	return i == 0 || lines[i-1].block != lines[i].block
}

// richScreenPos maps a tree offset to a viewport row/col for popup anchoring.
func (m *editorModel) richScreenPos(off int) (int, int) {
	lines := m.richLines()
	loc, ok := m.tree.Resolve(off)
	if !ok {
		return 0, 0
	}
	for i, rl := range lines {
		if blockContains(rl.block, loc.Block) && firstLineOfBlock(lines, i) {
			rs := []rune(loc.Block.FlatText())
			n := loc.TextOffset
			if n > len(rs) {
				n = len(rs)
			}
			return i - m.scroll, 2 + runewidth.StringWidth(string(rs[:n]))
		}
	}
	return 0, 0
}

// richOffsetAt maps a viewport row to the tree offset of that row's block.
func (m *editorModel) richOffsetAt(row int) int {
	lines := m.richLines()
	i := row + m.scroll
	if i < 0 || len(lines) == 0 {
		return 0
	}
	if i >= len(lines) {
		i = len(lines) - 1
	}
	if lines[i].start >= 0 {
		return lines[i].start
	}
	return 0
}

// moveRichBlock steps the rich cursor to the previous/next block.
func (m *editorModel) moveRichBlock(delta int) {
	lines := m.richLines()
	if len(lines) == 0 {
		return
	}
	// Locate the current block's line, then step to the nearest line whose
	// block differs.
	cur := 0
	if loc, ok := m.tree.Resolve(m.curRich); ok {
		for i, rl := range lines {
			if blockContains(rl.block, loc.Block) && firstLineOfBlock(lines, i) {
				cur = i
				break
			}
		}
	}
	i := cur + delta
	for i >= 0 && i < len(lines) && (lines[i].block == nil || lines[i].block == lines[cur].block) {
		i += delta
	}
	if i < 0 || i >= len(lines) {
		return
	}
	if lines[i].start >= 0 {
		m.curRich = lines[i].start
	}
}

func cellWidth(r rune) int {
	w := runewidth.RuneWidth(r)
	if w < 1 {
		w = 1
	}
	return w
}
