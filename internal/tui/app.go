package tui

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"markfold/internal/compose"
	"markfold/internal/cursor"
	"markfold/internal/doc"
	"markfold/internal/intent"
	"markfold/internal/popup"
)

// Run starts the interactive editor on path. A missing file starts an empty
// document; the file is created on first save.
func Run(path string) error {
	applyColorProfilePreference()
	applyThemePreference()

	m, err := newEditorModel(path)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

type editorModel struct {
	path string

	width  int
	height int
	// The very first WindowSizeMsg is initial sizing, not a user resize.
	seenWindowSize bool

	surface cursor.Surface
	buf     *doc.Buffer
	tree    *doc.Tree

	// Per-surface cursors: rune offset on plain, tree offset on rich. Each
	// surface keeps its position across tab switches.
	curPlain int
	curRich  int

	selAnchor int
	selecting bool

	scroll int

	popups *popupSet
	guard  *compose.Guard
	seq    compose.Seq

	notice    string
	noticeErr bool
	dirty     bool

	// hrefEditing/langEditing route printable keys into the popup input
	// instead of the document.
	hrefEditing bool
	langEditing bool

	// debugEnabled shows the resolved intent kind in the status bar.
	debugEnabled bool
}

func newEditorModel(path string) (*editorModel, error) {
	text := ""
	if b, err := os.ReadFile(path); err == nil {
		text = strings.ReplaceAll(string(b), "\r\n", "\n")
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	m := &editorModel{
		path:    path,
		surface: cursor.SurfacePlain,
		buf:     doc.NewBuffer(text),
		guard:   compose.NewGuard(),
	}
	m.tree = doc.ParseTree(text)
	m.popups = newPopupSet(editorHost{m})
	m.debugEnabled = strings.TrimSpace(os.Getenv("MARKFOLD_TUI_DEBUG")) != ""
	return m, nil
}

// editorHost adapts the model to the popup package's Host contract.
type editorHost struct{ m *editorModel }

func (h editorHost) Viewport() popup.Viewport {
	return popup.Viewport{W: h.m.width, H: h.m.editorHeight()}
}

func (h editorHost) FocusEditor() {
	h.m.hrefEditing = false
	h.m.langEditing = false
}

func (m *editorModel) editorHeight() int {
	h := m.height - 1 // status bar
	if h < 1 {
		h = 1
	}
	return h
}

func (m *editorModel) cur() int {
	if m.surface == cursor.SurfaceRich {
		return m.curRich
	}
	return m.curPlain
}

func (m *editorModel) setCur(off int) {
	if m.surface == cursor.SurfaceRich {
		if off < 0 {
			off = 0
		}
		if n := m.tree.Len(); off > n {
			off = n
		}
		m.curRich = off
		return
	}
	if off < 0 {
		off = 0
	}
	if off > m.buf.Len() {
		off = m.buf.Len()
	}
	m.curPlain = off
}

// context runs the active surface's adapter over the current selection.
func (m *editorModel) context() cursor.Context {
	from, to := m.cur(), m.cur()
	if m.selecting {
		from = m.selAnchor
	}
	if m.surface == cursor.SurfaceRich {
		return cursor.FromRich(m.tree, from, to)
	}
	return cursor.FromPlain(m.buf, from, to)
}

// refreshContext re-runs detect -> resolve -> popup lifecycle. Called after
// every cursor or content change.
func (m *editorModel) refreshContext() {
	ctx := m.context()
	it := intent.Resolve(ctx)
	m.popups.Apply(it, m.anchorFor(it), m.bodyFor(it))
}

// anchorFor maps the resolved intent's construct to a screen-cell rect.
func (m *editorModel) anchorFor(it intent.Intent) popup.AnchorRect {
	off := m.cur()
	text := " "
	switch {
	case it.Kind == intent.KindCode && it.Code != nil && m.surface == cursor.SurfacePlain:
		off = it.Code.From
	case it.Kind == intent.KindBlockMath && it.BlockMath != nil:
		off = it.BlockMath.From
	case it.Kind == intent.KindFormat && it.Selection != nil:
		off = it.Selection.From
		text = it.Selection.Text
	case it.Kind == intent.KindLink && it.Link != nil && m.surface == cursor.SurfacePlain:
		off = it.Link.From
	case it.Kind == intent.KindInlineMath && it.InlineMath != nil && m.surface == cursor.SurfacePlain:
		off = it.InlineMath.From
	case it.Kind == intent.KindFootnote && it.Footnote != nil && m.surface == cursor.SurfacePlain:
		off = it.Footnote.From
	}

	row, col := m.screenPos(off)
	if text == "" {
		text = " "
	}
	return popup.AnchorAt(row, col, text)
}

// screenPos converts the active surface's offset to viewport (row, col).
func (m *editorModel) screenPos(off int) (int, int) {
	if m.surface == cursor.SurfaceRich {
		return m.richScreenPos(off)
	}
	line := m.buf.LineAt(off)
	col := runewidth.StringWidth(m.buf.Slice(m.buf.LineStart(line), off))
	return line - m.scroll, col
}

// bodyFor extracts the construct source a popup previews.
func (m *editorModel) bodyFor(it intent.Intent) string {
	switch it.Kind {
	case intent.KindCode:
		if m.surface == cursor.SurfaceRich {
			loc, ok := m.tree.Resolve(m.curRich)
			if ok {
				return loc.Block.FlatText()
			}
			return ""
		}
		if it.Code == nil {
			return ""
		}
		return codeFenceBody(m.buf, it.Code.From, it.Code.To)
	case intent.KindBlockMath:
		if it.BlockMath == nil {
			return ""
		}
		return codeFenceBody(m.buf, it.BlockMath.From, it.BlockMath.To)
	case intent.KindInlineMath:
		if it.InlineMath == nil || m.surface == cursor.SurfaceRich {
			return ""
		}
		return m.buf.Slice(it.InlineMath.ContentFrom, it.InlineMath.ContentTo)
	}
	return ""
}

// codeFenceBody strips the delimiter lines from a fenced region.
func codeFenceBody(b *doc.Buffer, from, to int) string {
	s := b.Slice(from, to)
	lines := strings.Split(s, "\n")
	if len(lines) <= 2 {
		return ""
	}
	return strings.Join(lines[1:len(lines)-1], "\n")
}

// --- document mutations ---------------------------------------------------
//
// Every structural mutation goes through the composition guard so a command
// arriving mid-composition is deferred, not lost.

func (m *editorModel) edit(fn func()) {
	m.guard.RunOrQueue(func() {
		fn()
		m.tree = doc.ParseTree(m.buf.String())
		m.dirty = true
	})
}

func (m *editorModel) insertText(s string) {
	if m.surface != cursor.SurfacePlain {
		return
	}
	m.edit(func() {
		if m.selecting {
			m.deleteSelection()
		}
		m.buf = m.buf.Insert(m.curPlain, s)
		m.curPlain += len([]rune(s))
	})
}

func (m *editorModel) backspace() {
	if m.surface != cursor.SurfacePlain {
		return
	}
	m.edit(func() {
		if m.selecting {
			m.deleteSelection()
			return
		}
		if m.curPlain == 0 {
			return
		}
		m.buf = m.buf.Delete(m.curPlain-1, m.curPlain)
		m.curPlain--
	})
}

func (m *editorModel) deleteForward() {
	if m.surface != cursor.SurfacePlain {
		return
	}
	m.edit(func() {
		if m.selecting {
			m.deleteSelection()
			return
		}
		if m.curPlain >= m.buf.Len() {
			return
		}
		m.buf = m.buf.Delete(m.curPlain, m.curPlain+1)
	})
}

func (m *editorModel) deleteSelection() {
	from, to := m.selAnchor, m.curPlain
	if from > to {
		from, to = to, from
	}
	m.buf = m.buf.Delete(from, to)
	m.curPlain = from
	m.selecting = false
}

// setHeadingLevel rewrites the cursor line's heading prefix. Level 0 strips
// it back to a paragraph.
func (m *editorModel) setHeadingLevel(level int) {
	if m.surface != cursor.SurfacePlain || level < 0 || level > 6 {
		return
	}
	m.edit(func() {
		line := m.buf.LineAt(m.curPlain)
		start, end := m.buf.LineStart(line), m.buf.LineEnd(line)
		text := m.buf.Slice(start, end)
		body := strings.TrimLeft(text, "# ")
		prefix := ""
		if level > 0 {
			prefix = strings.Repeat("#", level) + " "
		}
		m.buf = m.buf.Delete(start, end).Insert(start, prefix+body)
		m.curPlain = start + len([]rune(prefix))
	})
}

// toggleTask flips the checkbox on the cursor line's task item.
func (m *editorModel) toggleTask() {
	if m.surface != cursor.SurfacePlain {
		return
	}
	m.edit(func() {
		line := m.buf.LineAt(m.curPlain)
		start, end := m.buf.LineStart(line), m.buf.LineEnd(line)
		text := m.buf.Slice(start, end)
		switch {
		case strings.Contains(text, "[ ]"):
			text = strings.Replace(text, "[ ]", "[x]", 1)
		case strings.Contains(text, "[x]"):
			text = strings.Replace(text, "[x]", "[ ]", 1)
		case strings.Contains(text, "[X]"):
			text = strings.Replace(text, "[X]", "[ ]", 1)
		default:
			return
		}
		m.buf = m.buf.Delete(start, end).Insert(start, text)
	})
}

// wrapSelection surrounds the format popup's selection with a mark delimiter.
func (m *editorModel) wrapSelection(marker string) {
	if m.surface != cursor.SurfacePlain {
		return
	}
	st := m.popups.format.Get()
	if !st.Open {
		return
	}
	from, to := st.Sel.From, st.Sel.To
	if from >= to {
		return
	}
	m.edit(func() {
		m.buf = m.buf.Insert(to, marker).Insert(from, marker)
		m.curPlain = to + 2*len([]rune(marker))
		m.selecting = false
	})
}

// setCodeLanguage rewrites the fence info string of the enclosing block.
func (m *editorModel) setCodeLanguage(lang string) {
	if m.surface != cursor.SurfacePlain {
		return
	}
	st := m.popups.code.Get()
	if !st.Open {
		return
	}
	m.edit(func() {
		line := m.buf.LineAt(st.Info.From)
		start, end := m.buf.LineStart(line), m.buf.LineEnd(line)
		text := m.buf.Slice(start, end)
		i := 0
		for i < len(text) && (text[i] == '`' || text[i] == '~' || text[i] == ' ') {
			i++
		}
		m.buf = m.buf.Delete(start, end).Insert(start, strings.TrimRight(text[:i], " ")+strings.TrimSpace(lang))
	})
}

// setLinkHref rewrites the target of the link under the popup.
func (m *editorModel) setLinkHref(href string) {
	if m.surface != cursor.SurfacePlain {
		return
	}
	st := m.popups.link.Get()
	if !st.Open {
		return
	}
	m.edit(func() {
		repl := "[" + st.Info.Text + "](" + strings.TrimSpace(href) + ")"
		m.buf = m.buf.Delete(st.Info.From, st.Info.To).Insert(st.Info.From, repl)
	})
}

// addTableRow appends an empty row after the cursor's table row.
func (m *editorModel) addTableRow() {
	if m.surface != cursor.SurfacePlain {
		return
	}
	st := m.popups.table.Get()
	if !st.Open {
		return
	}
	m.edit(func() {
		line := m.buf.LineAt(m.curPlain)
		end := m.buf.LineEnd(line)
		row := "\n|" + strings.Repeat("   |", st.Info.TotalCols)
		m.buf = m.buf.Insert(end, row)
	})
}

func (m *editorModel) save() {
	if err := os.WriteFile(m.path, []byte(m.buf.String()), 0o644); err != nil {
		m.setNotice("save failed: "+err.Error(), true)
		return
	}
	m.dirty = false
	m.setNotice("saved "+m.path, false)
}

func (m *editorModel) setNotice(s string, isErr bool) {
	m.notice = s
	m.noticeErr = isErr
}
