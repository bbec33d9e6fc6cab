package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"markfold/internal/cursor"
	"markfold/internal/doc"
	"markfold/internal/intent"
)

func newTestModel(t *testing.T, text string) *editorModel {
	t.Helper()
	p := filepath.Join(t.TempDir(), "doc.md")
	if text != "" {
		if err := os.WriteFile(p, []byte(text), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
	}
	m, err := newEditorModel(p)
	if err != nil {
		t.Fatalf("newEditorModel: %v", err)
	}
	m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func altKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s), Alt: true}
}

func TestTypingEditsPlainBuffer(t *testing.T) {
	m := newTestModel(t, "")

	for _, r := range "hi" {
		m.Update(keyRunes(string(r)))
	}
	if got := m.buf.String(); got != "hi" {
		t.Fatalf("buffer = %q, want %q", got, "hi")
	}
	if m.curPlain != 2 {
		t.Fatalf("cursor = %d, want 2", m.curPlain)
	}
	if !m.dirty {
		t.Fatal("typing must mark the buffer dirty")
	}
}

func TestBackspaceAndDelete(t *testing.T) {
	m := newTestModel(t, "abc\n")
	m.curPlain = 2

	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if got := m.buf.String(); got != "ac\n" {
		t.Fatalf("after backspace: %q", got)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyDelete})
	if got := m.buf.String(); got != "a\n" {
		t.Fatalf("after delete: %q", got)
	}
}

func TestTabSwitchesSurfacePreservingCursors(t *testing.T) {
	m := newTestModel(t, "# One\n\ntext here\n")
	m.curPlain = 5

	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.surface != cursor.SurfaceRich {
		t.Fatal("tab must switch to the rich surface")
	}

	m.curRich = 3
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.surface != cursor.SurfacePlain {
		t.Fatal("tab must switch back to the plain surface")
	}
	if m.curPlain != 5 {
		t.Fatalf("plain cursor = %d, want preserved 5", m.curPlain)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.curRich != 3 {
		t.Fatalf("rich cursor = %d, want preserved 3", m.curRich)
	}
}

func TestRichSurfaceIgnoresTyping(t *testing.T) {
	m := newTestModel(t, "hello\n")
	m.Update(tea.KeyMsg{Type: tea.KeyTab})

	m.Update(keyRunes("x"))
	if got := m.buf.String(); got != "hello\n" {
		t.Fatalf("rich surface must not edit the buffer, got %q", got)
	}
}

func TestContextOpensCodePopup(t *testing.T) {
	text := "```go\nfunc main() {}\n```\n"
	m := newTestModel(t, text)
	m.curPlain = strings.Index(text, "func") + 1
	m.refreshContext()

	kind, _, ok := m.popups.Open()
	if !ok || kind != intent.KindCode {
		t.Fatalf("open popup = %v %v, want code", kind, ok)
	}
	if got := m.popups.langInput.Value(); got != "go" {
		t.Fatalf("language input = %q, want go", got)
	}
}

func TestTabCyclesInputPopupFocus(t *testing.T) {
	text := "```go\nfunc main() {}\n```\n"
	m := newTestModel(t, text)
	m.curPlain = strings.Index(text, "func") + 1
	m.refreshContext()
	m.popups.EndOpenFrame()

	// The code popup declares a focusable input, so tab cycles inside it
	// instead of switching surfaces.
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m.surface != cursor.SurfacePlain {
		t.Fatal("tab must stay on the popup while it holds focusables")
	}
	if kind, _, ok := m.popups.Open(); !ok || kind != intent.KindCode {
		t.Fatalf("open popup = %v %v, want code still open", kind, ok)
	}

	// A popup without focusables lets tab fall through to the surface switch.
	m2 := newTestModel(t, "plain line\n")
	m2.curPlain = 2
	m2.refreshContext()
	m2.popups.EndOpenFrame()
	if kind, _, ok := m2.popups.Open(); !ok || kind != intent.KindFormat {
		t.Fatalf("open popup = %v %v, want format", kind, ok)
	}
	m2.Update(tea.KeyMsg{Type: tea.KeyTab})
	if m2.surface != cursor.SurfaceRich {
		t.Fatal("tab must switch surfaces when no popup input wants it")
	}
}

func TestHeadingChordSetsLevel(t *testing.T) {
	text := "plain line\n"
	m := newTestModel(t, text)
	m.curPlain = 0
	m.refreshContext()

	// Line start on a paragraph resolves to the level switcher.
	if kind, _, ok := m.popups.Open(); !ok || kind != intent.KindHeading {
		t.Fatalf("open popup = %v %v, want heading", kind, ok)
	}

	m.Update(altKey("2"))
	if got := m.buf.String(); got != "## plain line\n" {
		t.Fatalf("buffer = %q, want heading prefix", got)
	}

	m.Update(altKey("0"))
	if got := m.buf.String(); got != "plain line\n" {
		t.Fatalf("buffer = %q, want prefix stripped", got)
	}
}

func TestTaskToggleChord(t *testing.T) {
	text := "- [ ] buy milk\n"
	m := newTestModel(t, text)
	m.curPlain = strings.Index(text, "buy")
	m.refreshContext()

	if kind, _, ok := m.popups.Open(); !ok || kind != intent.KindList {
		t.Fatalf("open popup = %v %v, want list", kind, ok)
	}

	m.Update(altKey("x"))
	if got := m.buf.String(); got != "- [x] buy milk\n" {
		t.Fatalf("buffer = %q, want checked", got)
	}
	m.Update(altKey("x"))
	if got := m.buf.String(); got != "- [ ] buy milk\n" {
		t.Fatalf("buffer = %q, want unchecked", got)
	}
}

func TestSelectionFormatWrap(t *testing.T) {
	text := "some bold text\n"
	m := newTestModel(t, text)
	from := strings.Index(text, "bold")
	m.curPlain = from
	for range "bold" {
		m.Update(tea.KeyMsg{Type: tea.KeyShiftRight})
	}

	if kind, _, ok := m.popups.Open(); !ok || kind != intent.KindFormat {
		t.Fatalf("open popup = %v %v, want format", kind, ok)
	}

	m.Update(altKey("b"))
	if got := m.buf.String(); got != "some **bold** text\n" {
		t.Fatalf("buffer = %q, want bold markers", got)
	}
}

func TestAddTableRowChord(t *testing.T) {
	text := "| a | b |\n| - | - |\n| 1 | 2 |\n"
	m := newTestModel(t, text)
	m.curPlain = strings.Index(text, "1")
	m.refreshContext()

	if kind, _, ok := m.popups.Open(); !ok || kind != intent.KindTable {
		t.Fatalf("open popup = %v %v, want table", kind, ok)
	}

	lines := len(strings.Split(m.buf.String(), "\n"))
	m.Update(altKey("r"))
	if got := len(strings.Split(m.buf.String(), "\n")); got != lines+1 {
		t.Fatalf("line count = %d, want %d", got, lines+1)
	}
}

func TestEscapeClosesPopup(t *testing.T) {
	text := "```go\nx\n```\n"
	m := newTestModel(t, text)
	m.curPlain = strings.Index(text, "x")
	m.refreshContext()
	m.popups.EndOpenFrame()

	if _, _, ok := m.popups.Open(); !ok {
		t.Fatal("expected an open popup")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, _, ok := m.popups.Open(); ok {
		t.Fatal("escape must close the popup")
	}
}

func TestPasteRunsAsComposition(t *testing.T) {
	m := newTestModel(t, "")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("pasted"), Paste: true})
	if got := m.buf.String(); got != "pasted" {
		t.Fatalf("buffer = %q, want paste applied immediately", got)
	}
	if cmd == nil {
		t.Fatal("paste must schedule a grace tick")
	}
	if _, ok := m.guard.Deadline(); !ok {
		t.Fatal("guard must be in its grace window after paste")
	}
}

func TestPasteReparsesTree(t *testing.T) {
	m := newTestModel(t, "")

	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("# hello"), Paste: true})
	if len(m.tree.Root.Children) != 1 {
		t.Fatalf("tree has %d blocks after paste, want 1", len(m.tree.Root.Children))
	}
	h := m.tree.Root.Children[0]
	if h.Kind != doc.KindHeading || h.FlatText() != "hello" {
		t.Fatalf("block = %v %q, want the pasted heading", h.Kind, h.FlatText())
	}
	if !m.dirty {
		t.Fatal("paste must mark the buffer dirty")
	}
}

func TestSaveClearsDirty(t *testing.T) {
	m := newTestModel(t, "")
	m.Update(keyRunes("z"))
	if !m.dirty {
		t.Fatal("expected dirty after edit")
	}

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	if m.dirty {
		t.Fatal("save must clear the dirty flag")
	}
	b, err := os.ReadFile(m.path)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if string(b) != "z" {
		t.Fatalf("saved = %q, want %q", string(b), "z")
	}
}

func TestViewRendersStatusAndCursor(t *testing.T) {
	m := newTestModel(t, "hello\n")
	out := m.View()
	if out == "" {
		t.Fatal("expected non-empty view")
	}
	lines := strings.Split(out, "\n")
	if len(lines) != 24 {
		t.Fatalf("view height = %d, want 24", len(lines))
	}
	if !strings.Contains(lines[len(lines)-1], "[plain]") {
		t.Fatalf("status bar missing surface tag: %q", lines[len(lines)-1])
	}
}
