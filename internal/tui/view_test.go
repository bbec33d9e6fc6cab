package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	xansi "github.com/charmbracelet/x/ansi"
)

func TestRichLinesLayout(t *testing.T) {
	m := newTestModel(t, "# Title\n\nbody text\n\n- one\n- two\n")

	lines := m.richLines()
	var texts []string
	for _, rl := range lines {
		texts = append(texts, rl.text)
	}

	// heading, sep, paragraph, sep, two bullets.
	if len(lines) != 6 {
		t.Fatalf("got %d lines (%q), want 6", len(lines), texts)
	}
	if !strings.Contains(lines[0].text, "Title") {
		t.Fatalf("line 0 = %q, want heading", lines[0].text)
	}
	if lines[1].block != nil || lines[1].text != "" {
		t.Fatal("line 1 must be a blank separator")
	}
	if !strings.HasPrefix(lines[4].text, "• one") {
		t.Fatalf("line 4 = %q, want bullet", lines[4].text)
	}
	if lines[0].start < 0 || lines[2].start <= lines[0].start {
		t.Fatalf("block starts not increasing: %d then %d", lines[0].start, lines[2].start)
	}
}

func TestRichLinesTaskList(t *testing.T) {
	m := newTestModel(t, "- [x] done\n- [ ] todo\n")

	lines := m.richLines()
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if !strings.HasPrefix(lines[0].text, "[x] done") {
		t.Fatalf("line 0 = %q", lines[0].text)
	}
	if !strings.HasPrefix(lines[1].text, "[ ] todo") {
		t.Fatalf("line 1 = %q", lines[1].text)
	}
}

func TestRichLinesCodeBlock(t *testing.T) {
	m := newTestModel(t, "```go\nx := 1\n```\n")

	lines := m.richLines()
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want label + 1 code line", len(lines))
	}
	if !strings.Contains(xansi.Strip(lines[0].text), "code (go)") {
		t.Fatalf("line 0 = %q, want language label", lines[0].text)
	}
	if !strings.Contains(xansi.Strip(lines[1].text), "x := 1") {
		t.Fatalf("line 1 = %q, want code body", lines[1].text)
	}
}

func TestMoveRichBlock(t *testing.T) {
	m := newTestModel(t, "first\n\nsecond\n\nthird\n")
	m.Update(tea.KeyMsg{Type: tea.KeyTab})

	lines := m.richLines()
	m.curRich = lines[0].start

	m.moveRichBlock(1)
	if m.curRich != lines[2].start {
		t.Fatalf("cursor = %d, want second block start %d", m.curRich, lines[2].start)
	}
	m.moveRichBlock(1)
	if m.curRich != lines[4].start {
		t.Fatalf("cursor = %d, want third block start %d", m.curRich, lines[4].start)
	}
	m.moveRichBlock(-1)
	if m.curRich != lines[2].start {
		t.Fatalf("cursor = %d, want back at second block", m.curRich)
	}
	// Stepping past the last block is a no-op.
	m.curRich = lines[4].start
	m.moveRichBlock(1)
	if m.curRich != lines[4].start {
		t.Fatal("moving past the end must not move the cursor")
	}
}

func TestRichScreenPosRoundTrip(t *testing.T) {
	m := newTestModel(t, "alpha\n\nbeta\n")
	m.Update(tea.KeyMsg{Type: tea.KeyTab})

	lines := m.richLines()
	row, col := m.richScreenPos(lines[2].start)
	if row != 2 {
		t.Fatalf("row = %d, want 2", row)
	}
	if col != 2 {
		t.Fatalf("col = %d, want text start after marker gutter", col)
	}
	if got := m.richOffsetAt(2); got != lines[2].start {
		t.Fatalf("richOffsetAt = %d, want %d", got, lines[2].start)
	}
}
