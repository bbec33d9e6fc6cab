package popup

import "testing"

type linkState struct {
	Base
	Href string
}

type fakeHost struct {
	vp      Viewport
	focused int
}

func (h *fakeHost) Viewport() Viewport { return h.vp }
func (h *fakeHost) FocusEditor()       { h.focused++ }

func newLinkController(t *testing.T) (*Controller[linkState], *Cell[linkState], *fakeHost, *struct{ opened, closed int }) {
	t.Helper()
	host := &fakeHost{vp: Viewport{W: 80, H: 24}}
	cell := NewCell(linkState{})
	var calls struct{ opened, closed int }
	ctrl := NewController(host, cell, Options[linkState]{
		Measure:    func(linkState) Size { return Size{W: 30, H: 3} },
		Gap:        1,
		FocusCount: func(linkState) int { return 2 },
		OnOpen:     func(linkState) { calls.opened++ },
		OnClose:    func() { calls.closed++ },
		RequestClose: func() {
			cell.Set(linkState{})
		},
	})
	return ctrl, cell, host, &calls
}

func open(cell *Cell[linkState], row, col int) {
	cell.Set(linkState{
		Base: Base{Open: true, Anchor: AnchorAt(row, col, "anchor")},
		Href: "http://x",
	})
}

func TestControllerOpenClose(t *testing.T) {
	ctrl, cell, host, calls := newLinkController(t)
	if ctrl.Visible() {
		t.Fatal("visible before open")
	}

	open(cell, 10, 20)
	if !ctrl.Visible() || calls.opened != 1 {
		t.Fatalf("visible=%v opened=%d", ctrl.Visible(), calls.opened)
	}
	r := ctrl.Rect()
	if r.Top != 6 || r.H != 3 || r.W != 30 {
		t.Fatalf("rect = %+v", r)
	}

	ctrl.Close()
	if ctrl.Visible() || calls.closed != 1 || host.focused != 1 {
		t.Fatalf("visible=%v closed=%d focused=%d", ctrl.Visible(), calls.closed, host.focused)
	}

	// Closing again is a no-op.
	ctrl.Close()
	if calls.closed != 1 {
		t.Fatalf("closed = %d after second Close", calls.closed)
	}
}

func TestControllerAdoptsExistingState(t *testing.T) {
	host := &fakeHost{vp: Viewport{W: 80, H: 24}}
	cell := NewCell(linkState{Base: Base{Open: true, Anchor: AnchorAt(5, 5, "x")}})
	ctrl := NewController(host, cell, Options[linkState]{})
	defer ctrl.Destroy()
	if !ctrl.Visible() {
		t.Fatal("controller ignored already-open cell")
	}
}

func TestControllerJustOpenGuard(t *testing.T) {
	ctrl, cell, _, calls := newLinkController(t)
	open(cell, 10, 20)

	// The press that opened the popup lands outside it; during the open
	// frame that must not dismiss.
	if ctrl.HandlePointer(0, 0) {
		t.Fatal("outside press reported as inside")
	}
	if !ctrl.Visible() {
		t.Fatal("open-frame press dismissed the popup")
	}

	ctrl.EndOpenFrame()
	if ctrl.HandlePointer(0, 0) {
		t.Fatal("outside press reported as inside")
	}
	if ctrl.Visible() || calls.closed != 1 {
		t.Fatalf("visible=%v closed=%d", ctrl.Visible(), calls.closed)
	}
}

func TestControllerPointerInside(t *testing.T) {
	ctrl, cell, _, _ := newLinkController(t)
	open(cell, 10, 20)
	ctrl.EndOpenFrame()

	r := ctrl.Rect()
	if !ctrl.HandlePointer(r.Top, r.Left) {
		t.Fatal("inside press not reported")
	}
	if !ctrl.Visible() {
		t.Fatal("inside press dismissed the popup")
	}
}

func TestControllerEscape(t *testing.T) {
	ctrl, cell, _, _ := newLinkController(t)
	if ctrl.HandleEscape() {
		t.Fatal("escape consumed while hidden")
	}
	open(cell, 10, 20)
	if !ctrl.HandleEscape() {
		t.Fatal("escape not consumed while visible")
	}
	if ctrl.Visible() {
		t.Fatal("escape did not close")
	}
}

func TestControllerTabCycling(t *testing.T) {
	ctrl, cell, _, _ := newLinkController(t)
	if ctrl.HandleTab(false) {
		t.Fatal("tab consumed while hidden")
	}
	open(cell, 10, 20)

	// Two inputs: 0 -> 1 -> 0, and reverse wraps.
	if !ctrl.HandleTab(false) || ctrl.Focus() != 1 {
		t.Fatalf("focus = %d", ctrl.Focus())
	}
	if !ctrl.HandleTab(false) || ctrl.Focus() != 0 {
		t.Fatalf("focus = %d", ctrl.Focus())
	}
	if !ctrl.HandleTab(true) || ctrl.Focus() != 1 {
		t.Fatalf("reverse focus = %d", ctrl.Focus())
	}
}

func TestControllerUpdatePosition(t *testing.T) {
	ctrl, cell, _, _ := newLinkController(t)
	open(cell, 10, 20)
	before := ctrl.Rect()

	// The anchor moved (edit above the construct).
	cell.Update(func(s linkState) linkState {
		s.Anchor = AnchorAt(15, 20, "anchor")
		return s
	})
	ctrl.UpdatePosition()
	after := ctrl.Rect()
	if after.Top != before.Top+5 {
		t.Fatalf("Top = %d, want %d", after.Top, before.Top+5)
	}
}

func TestControllerDestroy(t *testing.T) {
	ctrl, cell, _, calls := newLinkController(t)
	open(cell, 10, 20)
	ctrl.Destroy()
	if ctrl.Visible() {
		t.Fatal("visible after destroy")
	}

	// Cell writes no longer reach the controller.
	cell.Set(linkState{})
	open(cell, 5, 5)
	if ctrl.Visible() || calls.opened != 1 {
		t.Fatalf("destroyed controller reacted: visible=%v opened=%d", ctrl.Visible(), calls.opened)
	}

	ctrl.Destroy() // safe to call twice
}
