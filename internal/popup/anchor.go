package popup

import "github.com/mattn/go-runewidth"

// AnchorRect is the screen-cell rectangle a popup positions itself against,
// in host-relative coordinates. Right and Bottom are exclusive.
type AnchorRect struct {
	Top    int
	Left   int
	Bottom int
	Right  int
}

// AnchorAt builds a one-row anchor covering text starting at (row, col).
// Width is measured in terminal cells so CJK text anchors correctly.
func AnchorAt(row, col int, text string) AnchorRect {
	w := runewidth.StringWidth(text)
	if w < 1 {
		w = 1
	}
	return AnchorRect{Top: row, Left: col, Bottom: row + 1, Right: col + w}
}

// Size is a popup's rendered extent in cells.
type Size struct {
	W int
	H int
}

// Viewport is the host area popups must stay inside.
type Viewport struct {
	W int
	H int
}

// Rect is a placed popup rectangle.
type Rect struct {
	Top  int
	Left int
	W    int
	H    int
}

// Contains reports whether the cell (row, col) lies inside the rect.
func (r Rect) Contains(row, col int) bool {
	return row >= r.Top && row < r.Top+r.H && col >= r.Left && col < r.Left+r.W
}

// Place computes where a popup of size sz goes relative to anchor a.
//
// Vertical: above the anchor when there is room, else below. When the anchor
// is taller than the remaining space the popup overlaps it, pinned gap rows
// under the anchor's visible top edge. Horizontal: centered on the anchor
// and clamped to the viewport.
func Place(a AnchorRect, sz Size, vp Viewport, gap int) Rect {
	top := a.Top - gap - sz.H
	if top < 0 {
		below := a.Bottom + gap
		if below+sz.H <= vp.H {
			top = below
		} else {
			visibleTop := a.Top
			if visibleTop < 0 {
				visibleTop = 0
			}
			top = visibleTop + gap
			if top+sz.H > vp.H {
				top = vp.H - sz.H
			}
			if top < 0 {
				top = 0
			}
		}
	}

	mid := (a.Left + a.Right) / 2
	left := mid - sz.W/2
	if left+sz.W > vp.W {
		left = vp.W - sz.W
	}
	if left < 0 {
		left = 0
	}
	return Rect{Top: top, Left: left, W: sz.W, H: sz.H}
}
