package tui

import (
	"strings"

	xansi "github.com/charmbracelet/x/ansi"

	"markfold/internal/popup"
)

// normalizePane forces s to be exactly width columns wide (ANSI-aware) and
// height lines tall, so overlay splicing can address any cell.
func normalizePane(s string, width, height int) string {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}

	lines := strings.Split(s, "\n")

	if height > 0 {
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
	}

	for i := range lines {
		ln := lines[i]
		w := xansi.StringWidth(ln)
		if w > width {
			if width <= 0 {
				ln = ""
			} else if width == 1 {
				ln = xansi.Cut(ln, 0, 1)
			} else {
				ln = xansi.Cut(ln, 0, width-1) + "…"
			}
			w = xansi.StringWidth(ln)
		}
		if w < width {
			ln = ln + strings.Repeat(" ", width-w)
		}
		lines[i] = ln
	}

	return strings.Join(lines, "\n")
}

// overlayAt splices box into base at rect r, clipping the box to the base's
// extent. base must already be normalized to the full viewport so every cell
// is addressable.
func overlayAt(base string, box string, r popup.Rect) string {
	baseLines := strings.Split(base, "\n")
	boxLines := strings.Split(box, "\n")

	for i, bl := range boxLines {
		row := r.Top + i
		if row < 0 || row >= len(baseLines) {
			continue
		}
		bg := baseLines[row]
		bgW := xansi.StringWidth(bg)
		if r.Left >= bgW {
			continue
		}
		blW := xansi.StringWidth(bl)
		right := r.Left + blW
		if right > bgW {
			bl = xansi.Cut(bl, 0, bgW-r.Left)
			right = bgW
		}
		left := xansi.Cut(bg, 0, r.Left)
		rest := xansi.Cut(bg, right, bgW)
		baseLines[row] = left + bl + rest
	}

	return strings.Join(baseLines, "\n")
}
