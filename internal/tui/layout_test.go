package tui

import (
	"strings"
	"testing"

	"markfold/internal/popup"
)

func TestNormalizePane(t *testing.T) {
	got := normalizePane("ab\ncdefg", 4, 3)
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[0] != "ab  " {
		t.Fatalf("line 0 = %q, want padded", lines[0])
	}
	if lines[1] != "cde…" {
		t.Fatalf("line 1 = %q, want truncated with ellipsis", lines[1])
	}
	if lines[2] != "    " {
		t.Fatalf("line 2 = %q, want blank padding", lines[2])
	}
}

func TestNormalizePaneTruncatesExtraLines(t *testing.T) {
	got := normalizePane("a\nb\nc\nd", 1, 2)
	if got != "a\nb" {
		t.Fatalf("got %q, want %q", got, "a\nb")
	}
}

func TestOverlayAt(t *testing.T) {
	base := normalizePane("", 10, 4)
	box := "XX\nYY"
	got := overlayAt(base, box, popup.Rect{Top: 1, Left: 3, W: 2, H: 2})
	lines := strings.Split(got, "\n")
	if lines[1] != "   XX     " {
		t.Fatalf("row 1 = %q", lines[1])
	}
	if lines[2] != "   YY     " {
		t.Fatalf("row 2 = %q", lines[2])
	}
	if lines[0] != strings.Repeat(" ", 10) || lines[3] != strings.Repeat(" ", 10) {
		t.Fatal("rows outside the rect must be untouched")
	}
}

func TestOverlayAtClipsToBase(t *testing.T) {
	base := normalizePane("", 4, 2)
	got := overlayAt(base, "ABCDEF\nZ", popup.Rect{Top: 1, Left: 2})
	lines := strings.Split(got, "\n")
	if lines[1] != "  AB" {
		t.Fatalf("row 1 = %q, want box clipped at base width", lines[1])
	}
	// Rows past the base are dropped, not appended.
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
}
