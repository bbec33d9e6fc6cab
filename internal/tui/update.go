package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"markfold/internal/cursor"
	"markfold/internal/doc"
	"markfold/internal/intent"
	"markfold/internal/popup"
)

type graceTickMsg struct{}

// linkOpenedMsg reports the async browser launch; ID guards against a stale
// completion racing a newer request.
type linkOpenedMsg struct {
	ID  int
	Err error
}

func (m *editorModel) Init() tea.Cmd { return nil }

func (m *editorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.seenWindowSize {
			m.seenWindowSize = true
			m.refreshContext()
		}
		m.popups.UpdatePositions()

	case graceTickMsg:
		// Wake-up after the composition grace window; the guard flushes any
		// queued mutations on observation.
		if !m.guard.IsComposing() {
			m.refreshContext()
		}

	case linkOpenedMsg:
		if m.seq.Latest(msg.ID) {
			if msg.Err != nil {
				m.setNotice("open failed: "+msg.Err.Error(), true)
			} else {
				m.setNotice("opened in browser", false)
			}
		}

	case tea.MouseMsg:
		cmd = m.handleMouse(msg)

	case tea.KeyMsg:
		cmd = m.handleKey(msg)
	}

	// The event cycle that opened a popup is fully processed at this point,
	// so the next event may dismiss it.
	m.popups.EndOpenFrame()
	return m, cmd
}

func (m *editorModel) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scrollBy(-3)
		return nil
	case tea.MouseButtonWheelDown:
		m.scrollBy(3)
		return nil
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return nil
	}

	if _, h, ok := m.popups.Open(); ok {
		if h.HandlePointer(msg.Y, msg.X) {
			// Press landed inside the popup; nothing else to do.
			return nil
		}
	}

	if m.surface == cursor.SurfacePlain {
		off := m.plainOffsetAt(msg.Y, msg.X)
		m.selecting = false
		m.curPlain = off
		// A press on an image opens its dedicated popup instead of the
		// context-driven one.
		if img := cursor.DetectImage(m.buf, off); img != nil {
			row, col := m.screenPos(img.From)
			m.popups.OpenImage(*img, popup.AnchorAt(row, col, img.Alt))
			return nil
		}
	} else {
		m.curRich = m.richOffsetAt(msg.Y)
	}
	m.refreshContext()
	return nil
}

func (m *editorModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	// Paste arrives as one burst of runes. Treat it like a composition
	// session: the insert itself runs, anything structural queued meanwhile
	// waits for the grace window.
	if msg.Paste {
		m.guard.Start()
		m.insertTextNow(string(msg.Runes))
		m.guard.End()
		m.refreshContext()
		if dl, ok := m.guard.Deadline(); ok {
			return tea.Tick(time.Until(dl), func(time.Time) tea.Msg { return graceTickMsg{} })
		}
		return nil
	}

	key := msg.String()

	// Popup-scoped keys first.
	if kind, h, ok := m.popups.Open(); ok {
		if consumed, cmd := m.handlePopupKey(kind, h, msg, key); consumed {
			return cmd
		}
	}

	switch key {
	case "ctrl+c":
		return tea.Quit
	case "ctrl+s":
		m.save()
		return nil
	case "tab":
		if m.surface == cursor.SurfacePlain {
			m.surface = cursor.SurfaceRich
		} else {
			m.surface = cursor.SurfacePlain
		}
		m.selecting = false
		m.refreshContext()
		return nil
	case "left":
		m.selecting = false
		m.setCur(m.cur() - 1)
	case "right":
		m.selecting = false
		m.setCur(m.cur() + 1)
	case "up":
		m.selecting = false
		m.moveVertical(-1)
	case "down":
		m.selecting = false
		m.moveVertical(1)
	case "shift+left":
		m.extendSelection(-1)
	case "shift+right":
		m.extendSelection(1)
	case "home":
		m.moveLineEdge(false)
	case "end":
		m.moveLineEdge(true)
	case "enter":
		m.insertText("\n")
	case "backspace":
		m.backspace()
	case "delete":
		m.deleteForward()
	case "esc":
		m.selecting = false
	default:
		if msg.Type == tea.KeyRunes && !msg.Alt {
			m.insertText(string(msg.Runes))
		} else if key == " " {
			m.insertText(" ")
		} else {
			return nil
		}
	}

	m.clampScroll()
	m.refreshContext()
	return nil
}

// handlePopupKey routes keys that belong to the open popup. Popup commands
// use alt chords (and esc) so plain typing keeps flowing into the document.
func (m *editorModel) handlePopupKey(kind intent.Kind, h popupHandle, msg tea.KeyMsg, key string) (bool, tea.Cmd) {
	// Field-editing modes swallow everything printable.
	if m.langEditing {
		switch key {
		case "esc":
			m.langEditing = false
			m.popups.langInput.Blur()
			return true, nil
		case "enter":
			m.langEditing = false
			m.popups.langInput.Blur()
			m.setCodeLanguage(m.popups.langInput.Value())
			m.refreshContext()
			return true, nil
		}
		var cmd tea.Cmd
		m.popups.langInput, cmd = m.popups.langInput.Update(msg)
		return true, cmd
	}
	if m.hrefEditing {
		switch key {
		case "esc":
			m.hrefEditing = false
			m.popups.hrefInput.Blur()
			return true, nil
		case "enter":
			m.hrefEditing = false
			m.popups.hrefInput.Blur()
			m.setLinkHref(m.popups.hrefInput.Value())
			m.refreshContext()
			return true, nil
		}
		var cmd tea.Cmd
		m.popups.hrefInput, cmd = m.popups.hrefInput.Update(msg)
		return true, cmd
	}

	// The armed "open in browser" prompt: enter confirms, anything else
	// disarms without side effects.
	if kind == intent.KindLink {
		st := m.popups.link.Get()
		if st.ConfirmOpen {
			if key == "enter" {
				m.popups.link.Update(func(s linkPopup) linkPopup {
					s.ConfirmOpen = false
					return s
				})
				id := m.seq.Next()
				href := st.Info.Href
				return true, func() tea.Msg {
					return linkOpenedMsg{ID: id, Err: openInBrowser(href)}
				}
			}
			m.popups.link.Update(func(s linkPopup) linkPopup {
				s.ConfirmOpen = false
				return s
			})
			return true, nil
		}
	}

	switch key {
	case "esc":
		return h.HandleEscape(), nil
	case "tab":
		return h.HandleTab(false), nil
	case "shift+tab":
		return h.HandleTab(true), nil
	}

	switch kind {
	case intent.KindHeading:
		if len(key) == 5 && key[:4] == "alt+" && key[4] >= '0' && key[4] <= '6' {
			m.setHeadingLevel(int(key[4] - '0'))
			m.refreshContext()
			return true, nil
		}
	case intent.KindList:
		if key == "alt+x" {
			m.toggleTask()
			m.refreshContext()
			return true, nil
		}
	case intent.KindTable:
		if key == "alt+r" {
			m.addTableRow()
			m.refreshContext()
			return true, nil
		}
	case intent.KindFormat:
		switch key {
		case "alt+b":
			m.wrapSelection("**")
		case "alt+i":
			m.wrapSelection("*")
		case "alt+e":
			m.wrapSelection("`")
		case "alt+s":
			m.wrapSelection("~~")
		case "alt+h":
			m.wrapSelection("==")
		default:
			return false, nil
		}
		m.refreshContext()
		return true, nil
	case intent.KindCode:
		if key == "alt+l" {
			m.langEditing = true
			m.popups.langInput.Focus()
			return true, nil
		}
	case intent.KindLink:
		switch key {
		case "alt+e":
			m.hrefEditing = true
			m.popups.hrefInput.Focus()
			return true, nil
		case "alt+c":
			if err := copyToClipboard(m.popups.link.Get().Info.Href); err != nil {
				m.setNotice("copy failed: "+err.Error(), true)
			} else {
				m.setNotice("href copied", false)
			}
			return true, nil
		case "alt+o":
			m.popups.link.Update(func(s linkPopup) linkPopup {
				s.ConfirmOpen = true
				return s
			})
			return true, nil
		}
	case intent.KindNone: // image popup
		if key == "alt+c" {
			if err := copyToClipboard(m.popups.image.Get().Info.Src); err != nil {
				m.setNotice("copy failed: "+err.Error(), true)
			} else {
				m.setNotice("src copied", false)
			}
			return true, nil
		}
	}
	return false, nil
}

// insertTextNow bypasses the guard's queue; used for the paste burst itself,
// which is the composition, not a structural command racing it.
func (m *editorModel) insertTextNow(s string) {
	if m.surface != cursor.SurfacePlain {
		return
	}
	if m.selecting {
		m.deleteSelection()
	}
	m.buf = m.buf.Insert(m.curPlain, s)
	m.curPlain += len([]rune(s))
	m.tree = doc.ParseTree(m.buf.String())
	m.dirty = true
}

func (m *editorModel) extendSelection(delta int) {
	if m.surface != cursor.SurfacePlain {
		return
	}
	if !m.selecting {
		m.selecting = true
		m.selAnchor = m.curPlain
	}
	m.setCur(m.curPlain + delta)
	if m.curPlain == m.selAnchor {
		m.selecting = false
	}
}

func (m *editorModel) moveVertical(delta int) {
	if m.surface == cursor.SurfaceRich {
		m.moveRichBlock(delta)
		return
	}
	line := m.buf.LineAt(m.curPlain)
	col := m.curPlain - m.buf.LineStart(line)
	line += delta
	if line < 0 || line >= m.buf.LineCount() {
		return
	}
	start, end := m.buf.LineStart(line), m.buf.LineEnd(line)
	if start+col > end {
		col = end - start
	}
	m.curPlain = start + col
}

func (m *editorModel) moveLineEdge(toEnd bool) {
	if m.surface != cursor.SurfacePlain {
		return
	}
	line := m.buf.LineAt(m.curPlain)
	if toEnd {
		m.curPlain = m.buf.LineEnd(line)
	} else {
		m.curPlain = m.buf.LineStart(line)
	}
}

func (m *editorModel) scrollBy(delta int) {
	m.scroll += delta
	m.clampScroll()
	m.popups.UpdatePositions()
}

func (m *editorModel) clampScroll() {
	maxLine := m.buf.LineCount() - 1
	if m.surface == cursor.SurfaceRich {
		maxLine = len(m.richLines()) - 1
	}
	if m.scroll > maxLine {
		m.scroll = maxLine
	}
	if m.scroll < 0 {
		m.scroll = 0
	}
	// Keep the cursor visible.
	row, _ := m.screenPos(m.cur())
	if row < 0 {
		m.scroll += row
	} else if row >= m.editorHeight() {
		m.scroll += row - m.editorHeight() + 1
	}
}

func (m *editorModel) plainOffsetAt(row, col int) int {
	line := row + m.scroll
	if line < 0 {
		line = 0
	}
	if line >= m.buf.LineCount() {
		return m.buf.Len()
	}
	start, end := m.buf.LineStart(line), m.buf.LineEnd(line)
	// Walk the line accumulating cell widths until col is covered.
	w := 0
	for off := start; off < end; off++ {
		w += cellWidth(m.buf.RuneAt(off))
		if w > col {
			return off
		}
	}
	return end
}
