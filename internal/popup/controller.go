package popup

// State is the contract a popup's cell value must satisfy for the
// controller: an open flag and the anchor it positions against.
type State interface {
	IsOpen() bool
	AnchorRect() AnchorRect
}

// Base carries the fields shared by every popup state. Embed it and extend
// with construct-specific payload.
type Base struct {
	Open   bool
	Anchor AnchorRect
}

func (b Base) IsOpen() bool           { return b.Open }
func (b Base) AnchorRect() AnchorRect { return b.Anchor }

// Host abstracts the editing surface a controller is mounted on. The two
// surfaces implement identical lifecycle semantics and differ only here.
type Host interface {
	// Viewport returns the area the popup must stay inside.
	Viewport() Viewport
	// FocusEditor returns input focus to the surface after a close.
	FocusEditor()
}

// Options configures a controller for one popup kind.
type Options[T State] struct {
	// Measure returns the rendered size of the popup for placement.
	Measure func(T) Size
	// Gap is the vertical distance kept between anchor and popup.
	Gap int
	// FocusCount returns how many focusable inputs the popup currently has;
	// Tab cycles through them. Zero disables cycling.
	FocusCount func(T) int
	// OnOpen seeds inputs and focus after the popup becomes visible.
	OnOpen func(T)
	// OnClose runs cleanup after the popup is hidden.
	OnClose func()
	// RequestClose writes the empty shape into the cell. The controller
	// never mutates the cell itself; the cell's single owner does.
	RequestClose func()
}

// Controller drives one popup's lifecycle from its state cell: show/hide on
// open transitions, outside-click and Escape dismissal, Tab focus cycling,
// and re-anchoring. Concrete popups on either surface extend it via Options.
type Controller[T State] struct {
	host Host
	cell *Cell[T]
	opts Options[T]

	sub       int
	visible   bool
	justOpen  bool
	rect      Rect
	focus     int
	destroyed bool
}

// NewController mounts a controller on host, driven by cell.
func NewController[T State](host Host, cell *Cell[T], opts Options[T]) *Controller[T] {
	c := &Controller[T]{host: host, cell: cell, opts: opts}
	c.sub = cell.Subscribe(c.apply)
	// Adopt whatever state the cell already holds.
	c.apply(cell.Get())
	return c
}

func (c *Controller[T]) apply(s T) {
	if c.destroyed {
		return
	}
	switch {
	case s.IsOpen() && !c.visible:
		c.visible = true
		// Guard for one frame so the event that opened the popup cannot
		// also dismiss it.
		c.justOpen = true
		c.focus = 0
		c.place(s)
		if c.opts.OnOpen != nil {
			c.opts.OnOpen(s)
		}
	case !s.IsOpen() && c.visible:
		c.visible = false
		c.host.FocusEditor()
		if c.opts.OnClose != nil {
			c.opts.OnClose()
		}
	case s.IsOpen():
		// Already open: payload or anchor changed.
		c.place(s)
	}
}

func (c *Controller[T]) place(s T) {
	sz := Size{W: 1, H: 1}
	if c.opts.Measure != nil {
		sz = c.opts.Measure(s)
	}
	c.rect = Place(s.AnchorRect(), sz, c.host.Viewport(), c.opts.Gap)
}

// Visible reports whether the popup is currently shown.
func (c *Controller[T]) Visible() bool { return c.visible }

// Rect returns the placed rectangle. Meaningless while hidden.
func (c *Controller[T]) Rect() Rect { return c.rect }

// Focus returns the index of the focused input for Tab cycling.
func (c *Controller[T]) Focus() int { return c.focus }

// EndOpenFrame clears the "just opened" guard. The host calls it once the
// event cycle that opened the popup has been fully processed.
func (c *Controller[T]) EndOpenFrame() { c.justOpen = false }

// Close requests dismissal. Closing an already-closed popup is a no-op.
func (c *Controller[T]) Close() {
	if !c.visible || c.destroyed {
		return
	}
	if c.opts.RequestClose != nil {
		c.opts.RequestClose()
	}
}

// HandleEscape dismisses the popup. Reports whether the event was consumed.
func (c *Controller[T]) HandleEscape() bool {
	if !c.visible {
		return false
	}
	c.Close()
	return true
}

// HandleTab advances focus across the popup's inputs, wrapping around.
// Reports whether the event was consumed.
func (c *Controller[T]) HandleTab(reverse bool) bool {
	if !c.visible || c.opts.FocusCount == nil {
		return false
	}
	n := c.opts.FocusCount(c.cell.Get())
	if n <= 0 {
		return false
	}
	if reverse {
		c.focus = (c.focus - 1 + n) % n
	} else {
		c.focus = (c.focus + 1) % n
	}
	return true
}

// HandlePointer processes a pointer-down at (row, col) in host coordinates.
// A press outside the popup dismisses it, except during the open frame,
// so the press that opened the popup does not immediately close it.
// Reports whether the press landed inside the popup.
func (c *Controller[T]) HandlePointer(row, col int) bool {
	if !c.visible {
		return false
	}
	if c.rect.Contains(row, col) {
		return true
	}
	if c.justOpen {
		return false
	}
	c.Close()
	return false
}

// UpdatePosition re-anchors the popup without an open/close transition,
// for when the enclosing construct moved (content edited above it, scroll).
func (c *Controller[T]) UpdatePosition() {
	if !c.visible {
		return
	}
	c.place(c.cell.Get())
}

// Destroy unsubscribes from the cell and drops all state. Required because
// a surface may be torn down while its popup is open. Safe to call twice.
func (c *Controller[T]) Destroy() {
	if c.destroyed {
		return
	}
	c.destroyed = true
	c.cell.Unsubscribe(c.sub)
	c.visible = false
}
