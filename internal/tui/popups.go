package tui

import (
	"github.com/charmbracelet/bubbles/textinput"

	"markfold/internal/cursor"
	"markfold/internal/intent"
	"markfold/internal/popup"
)

// One state struct per popup kind, each embedding popup.Base. The cells are
// the single source of truth; controllers react to cell writes.

type formatPopup struct {
	popup.Base
	Sel  cursor.Selection
	Auto bool
}

type tablePopup struct {
	popup.Base
	Info cursor.TableInfo
}

type listPopup struct {
	popup.Base
	Info cursor.ListInfo
}

type quotePopup struct {
	popup.Base
	Info cursor.BlockquoteInfo
}

type codePopup struct {
	popup.Base
	Info   cursor.CodeBlockInfo
	Source string
}

type mathPopup struct {
	popup.Base
	Source string
	Inline bool
}

type footnotePopup struct {
	popup.Base
	Info cursor.FootnoteInfo
}

type headingPopup struct {
	popup.Base
	Info cursor.HeadingInfo
}

type linkPopup struct {
	popup.Base
	Info cursor.LinkInfo
	// ConfirmOpen arms the "open in browser" prompt; a second confirm key is
	// required before anything is launched.
	ConfirmOpen bool
}

type imagePopup struct {
	popup.Base
	Info cursor.ImageInfo
}

// popupHandle is the kind-erased view of a Controller for uniform dispatch.
type popupHandle interface {
	Visible() bool
	Rect() popup.Rect
	EndOpenFrame()
	Close()
	HandleEscape() bool
	HandleTab(reverse bool) bool
	HandlePointer(row, col int) bool
	UpdatePosition()
	Destroy()
}

// popupSet owns every popup cell + controller for one editor instance and
// enforces the one-open-popup rule: applying an intent closes all siblings
// before opening the matching popup.
type popupSet struct {
	format   *popup.Cell[formatPopup]
	table    *popup.Cell[tablePopup]
	list     *popup.Cell[listPopup]
	quote    *popup.Cell[quotePopup]
	code     *popup.Cell[codePopup]
	math     *popup.Cell[mathPopup]
	footnote *popup.Cell[footnotePopup]
	heading  *popup.Cell[headingPopup]
	link     *popup.Cell[linkPopup]
	image    *popup.Cell[imagePopup]

	formatCtl   *popup.Controller[formatPopup]
	tableCtl    *popup.Controller[tablePopup]
	listCtl     *popup.Controller[listPopup]
	quoteCtl    *popup.Controller[quotePopup]
	codeCtl     *popup.Controller[codePopup]
	mathCtl     *popup.Controller[mathPopup]
	footnoteCtl *popup.Controller[footnotePopup]
	headingCtl  *popup.Controller[headingPopup]
	linkCtl     *popup.Controller[linkPopup]
	imageCtl    *popup.Controller[imagePopup]

	handles map[intent.Kind]popupHandle

	// Text inputs owned here, seeded by OnOpen hooks.
	langInput textinput.Model
	hrefInput textinput.Model
}

const popupGap = 0

func newPopupSet(host popup.Host) *popupSet {
	p := &popupSet{
		format:   popup.NewCell(formatPopup{}),
		table:    popup.NewCell(tablePopup{}),
		list:     popup.NewCell(listPopup{}),
		quote:    popup.NewCell(quotePopup{}),
		code:     popup.NewCell(codePopup{}),
		math:     popup.NewCell(mathPopup{}),
		footnote: popup.NewCell(footnotePopup{}),
		heading:  popup.NewCell(headingPopup{}),
		link:     popup.NewCell(linkPopup{}),
		image:    popup.NewCell(imagePopup{}),
	}

	p.langInput = textinput.New()
	p.langInput.Placeholder = "language"
	p.langInput.CharLimit = 32
	p.langInput.Width = 16
	p.hrefInput = textinput.New()
	p.hrefInput.Placeholder = "https://"
	p.hrefInput.CharLimit = 512
	p.hrefInput.Width = 38

	p.formatCtl = popup.NewController(host, p.format, popup.Options[formatPopup]{
		Measure:      func(s formatPopup) popup.Size { return measureBox(renderFormatPopup(s)) },
		Gap:          popupGap,
		RequestClose: func() { p.format.Set(formatPopup{}) },
	})
	p.tableCtl = popup.NewController(host, p.table, popup.Options[tablePopup]{
		Measure:      func(s tablePopup) popup.Size { return measureBox(renderTablePopup(s)) },
		Gap:          popupGap,
		RequestClose: func() { p.table.Set(tablePopup{}) },
	})
	p.listCtl = popup.NewController(host, p.list, popup.Options[listPopup]{
		Measure:      func(s listPopup) popup.Size { return measureBox(renderListPopup(s)) },
		Gap:          popupGap,
		RequestClose: func() { p.list.Set(listPopup{}) },
	})
	p.quoteCtl = popup.NewController(host, p.quote, popup.Options[quotePopup]{
		Measure:      func(s quotePopup) popup.Size { return measureBox(renderQuotePopup(s)) },
		Gap:          popupGap,
		RequestClose: func() { p.quote.Set(quotePopup{}) },
	})
	p.codeCtl = popup.NewController(host, p.code, popup.Options[codePopup]{
		Measure:    func(s codePopup) popup.Size { return measureBox(p.renderCodePopup(s)) },
		Gap:        popupGap,
		FocusCount: func(codePopup) int { return 1 },
		OnOpen: func(s codePopup) {
			p.langInput.SetValue(s.Info.Language)
			p.langInput.CursorEnd()
		},
		OnClose:      func() { p.langInput.Blur() },
		RequestClose: func() { p.code.Set(codePopup{}) },
	})
	p.mathCtl = popup.NewController(host, p.math, popup.Options[mathPopup]{
		Measure:      func(s mathPopup) popup.Size { return measureBox(renderMathPopup(s)) },
		Gap:          popupGap,
		RequestClose: func() { p.math.Set(mathPopup{}) },
	})
	p.footnoteCtl = popup.NewController(host, p.footnote, popup.Options[footnotePopup]{
		Measure:      func(s footnotePopup) popup.Size { return measureBox(renderFootnotePopup(s)) },
		Gap:          popupGap,
		RequestClose: func() { p.footnote.Set(footnotePopup{}) },
	})
	p.headingCtl = popup.NewController(host, p.heading, popup.Options[headingPopup]{
		Measure:      func(s headingPopup) popup.Size { return measureBox(renderHeadingPopup(s)) },
		Gap:          popupGap,
		RequestClose: func() { p.heading.Set(headingPopup{}) },
	})
	p.linkCtl = popup.NewController(host, p.link, popup.Options[linkPopup]{
		Measure:    func(s linkPopup) popup.Size { return measureBox(p.renderLinkPopup(s)) },
		Gap:        popupGap,
		FocusCount: func(linkPopup) int { return 1 },
		OnOpen: func(s linkPopup) {
			p.hrefInput.SetValue(s.Info.Href)
			p.hrefInput.CursorEnd()
		},
		OnClose:      func() { p.hrefInput.Blur() },
		RequestClose: func() { p.link.Set(linkPopup{}) },
	})
	p.imageCtl = popup.NewController(host, p.image, popup.Options[imagePopup]{
		Measure:      func(s imagePopup) popup.Size { return measureBox(renderImagePopup(s)) },
		Gap:          popupGap,
		RequestClose: func() { p.image.Set(imagePopup{}) },
	})

	p.handles = map[intent.Kind]popupHandle{
		intent.KindFormat:     p.formatCtl,
		intent.KindTable:      p.tableCtl,
		intent.KindList:       p.listCtl,
		intent.KindBlockquote: p.quoteCtl,
		intent.KindCode:       p.codeCtl,
		intent.KindBlockMath:  p.mathCtl,
		intent.KindInlineMath: p.mathCtl,
		intent.KindFootnote:   p.footnoteCtl,
		intent.KindHeading:    p.headingCtl,
		intent.KindLink:       p.linkCtl,
		intent.KindNone:       p.imageCtl,
	}

	return p
}

// Apply opens the popup matching the resolved intent at anchor and closes all
// others. body carries the construct's source text where a popup previews it
// (code, math). Insert and none intents close everything.
func (p *popupSet) Apply(it intent.Intent, anchor popup.AnchorRect, body string) {
	open := popup.Base{Open: true, Anchor: anchor}

	p.closeExcept(it.Kind)

	switch it.Kind {
	case intent.KindFormat:
		st := formatPopup{Base: open, Auto: it.AutoSelected}
		if it.Selection != nil {
			st.Sel = *it.Selection
		}
		p.format.Set(st)
	case intent.KindTable:
		p.table.Set(tablePopup{Base: open, Info: *it.Table})
	case intent.KindList:
		p.list.Set(listPopup{Base: open, Info: *it.List})
	case intent.KindBlockquote:
		p.quote.Set(quotePopup{Base: open, Info: *it.Blockquote})
	case intent.KindCode:
		p.code.Set(codePopup{Base: open, Info: *it.Code, Source: body})
	case intent.KindBlockMath:
		p.math.Set(mathPopup{Base: open, Source: body})
	case intent.KindInlineMath:
		p.math.Set(mathPopup{Base: open, Source: body, Inline: true})
	case intent.KindFootnote:
		p.footnote.Set(footnotePopup{Base: open, Info: *it.Footnote})
	case intent.KindHeading:
		p.heading.Set(headingPopup{Base: open, Info: *it.Heading})
	case intent.KindLink:
		p.link.Set(linkPopup{Base: open, Info: *it.Link})
	default:
		// insert, none: nothing to show.
	}
}

// OpenImage shows the image popup; images open on explicit press, not on
// cursor context.
func (p *popupSet) OpenImage(info cursor.ImageInfo, anchor popup.AnchorRect) {
	p.closeExcept(intent.KindNone)
	p.image.Set(imagePopup{Base: popup.Base{Open: true, Anchor: anchor}, Info: info})
}

func (p *popupSet) closeExcept(keep intent.Kind) {
	for k, h := range p.handles {
		if k == keep {
			continue
		}
		// Math serves two intent kinds through one controller.
		if h == p.handles[keep] {
			continue
		}
		h.Close()
	}
}

// CloseAll dismisses whatever is open.
func (p *popupSet) CloseAll() {
	for _, h := range p.handles {
		h.Close()
	}
}

// Open returns the visible popup's handle and intent kind, if any.
func (p *popupSet) Open() (intent.Kind, popupHandle, bool) {
	for k, h := range p.handles {
		if h.Visible() {
			return k, h, true
		}
	}
	return "", nil, false
}

// EndOpenFrame clears every controller's one-frame guard. Called once per
// fully processed event cycle.
func (p *popupSet) EndOpenFrame() {
	for _, h := range p.handles {
		h.EndOpenFrame()
	}
}

// UpdatePositions re-anchors the visible popup after scroll or resize.
func (p *popupSet) UpdatePositions() {
	for _, h := range p.handles {
		h.UpdatePosition()
	}
}

// Destroy tears down every controller. Safe to call more than once.
func (p *popupSet) Destroy() {
	for _, h := range p.handles {
		h.Destroy()
	}
}

// View renders the visible popup, if any, with its placed rect.
func (p *popupSet) View() (string, popup.Rect, bool) {
	switch {
	case p.formatCtl.Visible():
		return renderFormatPopup(p.format.Get()), p.formatCtl.Rect(), true
	case p.tableCtl.Visible():
		return renderTablePopup(p.table.Get()), p.tableCtl.Rect(), true
	case p.listCtl.Visible():
		return renderListPopup(p.list.Get()), p.listCtl.Rect(), true
	case p.quoteCtl.Visible():
		return renderQuotePopup(p.quote.Get()), p.quoteCtl.Rect(), true
	case p.codeCtl.Visible():
		return p.renderCodePopup(p.code.Get()), p.codeCtl.Rect(), true
	case p.mathCtl.Visible():
		return renderMathPopup(p.math.Get()), p.mathCtl.Rect(), true
	case p.footnoteCtl.Visible():
		return renderFootnotePopup(p.footnote.Get()), p.footnoteCtl.Rect(), true
	case p.headingCtl.Visible():
		return renderHeadingPopup(p.heading.Get()), p.headingCtl.Rect(), true
	case p.linkCtl.Visible():
		return p.renderLinkPopup(p.link.Get()), p.linkCtl.Rect(), true
	case p.imageCtl.Visible():
		return renderImagePopup(p.image.Get()), p.imageCtl.Rect(), true
	}
	return "", popup.Rect{}, false
}
