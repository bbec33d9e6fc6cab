package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"

	"markfold/internal/popup"
)

// Popup boxes avoid borders: some terminals show background artifacts when
// nesting bordered components inside a painted overlay. A contrasting header
// bar plus padded body reads as a floating window without them.

const popupBodyPad = 1

func renderPopupBox(width int, title string, body string) string {
	if width < 8 {
		width = 8
	}
	innerW := width - 2*popupBodyPad

	header := lipgloss.NewStyle().
		Foreground(colorPopupHeaderFg).
		Background(colorPopupHeaderBg).
		Bold(true).
		Padding(0, popupBodyPad).
		Width(width).
		Render(truncateCells(title, innerW))

	bodyStyle := lipgloss.NewStyle().
		Foreground(colorPopupFg).
		Background(colorPopupBg).
		Padding(0, popupBodyPad).
		Width(width)

	var b strings.Builder
	b.WriteString(header)
	for _, ln := range strings.Split(body, "\n") {
		b.WriteString("\n")
		b.WriteString(bodyStyle.Render(truncateCells(ln, innerW)))
	}
	return b.String()
}

// measureBox is the popup.Options Measure hook for a rendered box.
func measureBox(rendered string) popup.Size {
	lines := strings.Split(rendered, "\n")
	w := 0
	for _, ln := range lines {
		if lw := xansi.StringWidth(ln); lw > w {
			w = lw
		}
	}
	return popup.Size{W: w, H: len(lines)}
}

func truncateCells(s string, w int) string {
	if w <= 0 {
		return ""
	}
	if xansi.StringWidth(s) <= w {
		return s
	}
	if w == 1 {
		return xansi.Cut(s, 0, 1)
	}
	return xansi.Cut(s, 0, w-1) + "…"
}
