package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"markfold/internal/doc"
)

const popupWidth = 44

func popupButton(label string, active bool) string {
	st := lipgloss.NewStyle().
		Padding(0, 1).
		Foreground(colorPopupFg).
		Background(colorPopupHeaderBg)
	if active {
		st = st.Foreground(colorAccentFg).Background(colorAccent).Bold(true)
	}
	return st.Render(label)
}

func popupHelp(s string) string {
	return styleMuted().Render(s)
}

func renderFormatPopup(s formatPopup) string {
	buttons := []string{
		popupButton("B", false),
		popupButton("I", false),
		popupButton("`", false),
		popupButton("S", false),
		popupButton("H", false),
	}
	row := strings.Join(buttons, " ")

	sel := s.Sel.Text
	if sel == "" {
		sel = fmt.Sprintf("%d–%d", s.Sel.From, s.Sel.To)
	}
	how := "selection"
	if s.Auto {
		how = "auto"
	}
	body := strings.Join([]string{
		row,
		"",
		popupHelp(fmt.Sprintf("%s: %s", how, truncateCells(sel, popupWidth-12))),
		popupHelp("alt+b/i/e/s/h: toggle   esc: close"),
	}, "\n")
	return renderPopupBox(popupWidth, "Format", body)
}

func renderTablePopup(s tablePopup) string {
	body := strings.Join([]string{
		fmt.Sprintf("cell %d,%d of %d×%d", s.Info.Row+1, s.Info.Col+1, s.Info.TotalRows, s.Info.TotalCols),
		"",
		popupHelp("alt+r: add row   esc: close"),
	}, "\n")
	return renderPopupBox(popupWidth, "Table", body)
}

func renderListPopup(s listPopup) string {
	kind := "bullet"
	switch s.Info.ListType {
	case doc.ListOrdered:
		kind = "ordered"
	case doc.ListTask:
		kind = "task"
	}
	lines := []string{fmt.Sprintf("%s item, depth %d", kind, s.Info.Depth)}
	if s.Info.Checked != nil {
		mark := "[ ]"
		if *s.Info.Checked {
			mark = "[x]"
		}
		lines = append(lines, "state "+mark, "", popupHelp("alt+x: toggle   esc: close"))
	} else {
		lines = append(lines, "", popupHelp("esc: close"))
	}
	return renderPopupBox(popupWidth, "List", strings.Join(lines, "\n"))
}

func renderQuotePopup(s quotePopup) string {
	body := strings.Join([]string{
		fmt.Sprintf("quote depth %d", s.Info.Depth),
		"",
		popupHelp("esc: close"),
	}, "\n")
	return renderPopupBox(popupWidth, "Blockquote", body)
}

func (p *popupSet) renderCodePopup(s codePopup) string {
	lang := s.Info.Language
	hint := ""
	if lang != "" && !knownLanguage(lang) {
		hint = "  (unknown)"
	}

	preview := s.Source
	if preview != "" {
		lines := strings.Split(highlightCode(preview, lang), "\n")
		if len(lines) > 6 {
			lines = append(lines[:6], popupHelp("…"))
		}
		preview = strings.Join(lines, "\n")
	}

	parts := []string{"lang: " + p.langInput.View() + hint}
	if preview != "" {
		parts = append(parts, "", preview)
	}
	help := "alt+l: edit language   esc: close"
	if p.langInput.Focused() {
		help = "enter: set language   esc: cancel"
	}
	parts = append(parts, "", popupHelp(help))
	return renderPopupBox(popupWidth, "Code block", strings.Join(parts, "\n"))
}

func renderMathPopup(s mathPopup) string {
	title := "Math block"
	if s.Inline {
		title = "Inline math"
	}
	src := strings.TrimSpace(s.Source)
	if src == "" {
		src = popupHelp("(empty)")
	}
	body := strings.Join([]string{
		src,
		"",
		popupHelp("esc: close"),
	}, "\n")
	return renderPopupBox(popupWidth, title, body)
}

func renderFootnotePopup(s footnotePopup) string {
	body := strings.Join([]string{
		"[^" + s.Info.Label + "]",
		"",
		popupHelp("esc: close"),
	}, "\n")
	return renderPopupBox(popupWidth, "Footnote", body)
}

func renderHeadingPopup(s headingPopup) string {
	row := make([]string, 0, 7)
	row = append(row, popupButton("¶", s.Info.Level == 0))
	for lvl := 1; lvl <= 6; lvl++ {
		row = append(row, popupButton(fmt.Sprintf("H%d", lvl), s.Info.Level == lvl))
	}
	body := strings.Join([]string{
		strings.Join(row, " "),
		"",
		popupHelp("alt+0-6: set level   esc: close"),
	}, "\n")
	return renderPopupBox(popupWidth, "Heading", body)
}

func (p *popupSet) renderLinkPopup(s linkPopup) string {
	lines := []string{
		"text: " + truncateCells(s.Info.Text, popupWidth-10),
		"href: " + p.hrefInput.View(),
		"",
	}
	if s.ConfirmOpen {
		lines = append(lines, popupButton("open "+truncateCells(s.Info.Href, popupWidth-14)+"?", true))
		lines = append(lines, popupHelp("enter: open   any other key: cancel"))
	} else if p.hrefInput.Focused() {
		lines = append(lines, popupHelp("enter: set href   esc: cancel"))
	} else {
		lines = append(lines, popupHelp("alt+e: href   alt+c: copy   alt+o: open"))
	}
	return renderPopupBox(popupWidth, "Link", strings.Join(lines, "\n"))
}

func renderImagePopup(s imagePopup) string {
	body := strings.Join([]string{
		"src: " + truncateCells(s.Info.Src, popupWidth-9),
		"alt: " + truncateCells(s.Info.Alt, popupWidth-9),
		"",
		popupHelp("alt+c: copy src   esc: close"),
	}, "\n")
	return renderPopupBox(popupWidth, "Image", body)
}
