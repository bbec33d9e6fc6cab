package doc

import (
	"regexp"
	"strings"
)

// A deliberately small markdown reader: it builds just enough tree structure
// for the rich surface to host cursor-context detection and rendering.
// Full round-trip parsing/serialization belongs to the conversion layer, not
// here, so unknown syntax degrades to plain paragraphs instead of erroring.

var (
	fenceLineRe  = regexp.MustCompile("^\\s{0,3}(`{3,}|~{3,})\\s*(\\S*)\\s*$")
	mathLineRe   = regexp.MustCompile(`^\s*\$\$\s*$`)
	headingRe    = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	listItemRe   = regexp.MustCompile(`^(\s*)([-*+]|\d+[.)])\s+(\[([ xX])\]\s+)?(.*)$`)
	ruleRe       = regexp.MustCompile(`^\s{0,3}(-{3,}|\*{3,}|_{3,})\s*$`)
	quoteRe      = regexp.MustCompile(`^\s{0,3}>\s?(.*)$`)
	tableRowRe   = regexp.MustCompile(`^\s*\|.*\|\s*$`)
	tableDelimRe = regexp.MustCompile(`^\s*\|?[\s:|-]+\|?\s*$`)
)

// ParseTree builds a rich tree from markdown text.
func ParseTree(text string) *Tree {
	lines := strings.Split(text, "\n")
	root := &Node{Kind: KindDoc}
	root.Children = parseBlocks(lines)
	return &Tree{Root: root}
}

func parseBlocks(lines []string) []*Node {
	var out []*Node
	i := 0
	for i < len(lines) {
		line := lines[i]

		if strings.TrimSpace(line) == "" {
			i++
			continue
		}

		if m := fenceLineRe.FindStringSubmatch(line); m != nil {
			marker, lang := m[1], m[2]
			var body []string
			j := i + 1
			closed := false
			for ; j < len(lines); j++ {
				if cm := fenceLineRe.FindStringSubmatch(lines[j]); cm != nil &&
					cm[1][0] == marker[0] && len(cm[1]) >= len(marker) && cm[2] == "" {
					closed = true
					break
				}
				body = append(body, lines[j])
			}
			out = append(out, &Node{Kind: KindCodeBlock, Lang: lang, Text: strings.Join(body, "\n")})
			if closed {
				i = j + 1
			} else {
				i = j
			}
			continue
		}

		if mathLineRe.MatchString(line) {
			var body []string
			j := i + 1
			closed := false
			for ; j < len(lines); j++ {
				if mathLineRe.MatchString(lines[j]) {
					closed = true
					break
				}
				body = append(body, lines[j])
			}
			out = append(out, &Node{Kind: KindMathBlock, Text: strings.Join(body, "\n")})
			if closed {
				i = j + 1
			} else {
				i = j
			}
			continue
		}

		if m := headingRe.FindStringSubmatch(line); m != nil {
			out = append(out, &Node{Kind: KindHeading, Level: len(m[1]), Runs: ParseRuns(m[2])})
			i++
			continue
		}

		if ruleRe.MatchString(line) {
			out = append(out, &Node{Kind: KindRule})
			i++
			continue
		}

		if quoteRe.MatchString(line) {
			var inner []string
			j := i
			for ; j < len(lines); j++ {
				m := quoteRe.FindStringSubmatch(lines[j])
				if m == nil {
					break
				}
				inner = append(inner, m[1])
			}
			out = append(out, &Node{Kind: KindBlockquote, Children: parseBlocks(inner)})
			i = j
			continue
		}

		if tableRowRe.MatchString(line) {
			var rows []string
			j := i
			for ; j < len(lines); j++ {
				if !tableRowRe.MatchString(lines[j]) {
					break
				}
				rows = append(rows, lines[j])
			}
			out = append(out, parseTable(rows))
			i = j
			continue
		}

		if listItemRe.MatchString(line) {
			var items []string
			j := i
			for ; j < len(lines); j++ {
				if listItemRe.MatchString(lines[j]) {
					items = append(items, lines[j])
					continue
				}
				break
			}
			out = append(out, parseList(items, 0))
			i = j
			continue
		}

		// Paragraph: contiguous plain lines.
		var para []string
		j := i
		for ; j < len(lines); j++ {
			l := lines[j]
			if strings.TrimSpace(l) == "" || fenceLineRe.MatchString(l) || mathLineRe.MatchString(l) ||
				headingRe.MatchString(l) || ruleRe.MatchString(l) || quoteRe.MatchString(l) ||
				tableRowRe.MatchString(l) || listItemRe.MatchString(l) {
				break
			}
			para = append(para, l)
		}
		out = append(out, &Node{Kind: KindParagraph, Runs: ParseRuns(strings.Join(para, " "))})
		i = j
	}
	return out
}

func parseTable(rows []string) *Node {
	table := &Node{Kind: KindTable}
	for _, row := range rows {
		if tableDelimRe.MatchString(row) && strings.Contains(row, "-") {
			continue
		}
		tr := &Node{Kind: KindTableRow}
		trimmed := strings.TrimSpace(row)
		trimmed = strings.TrimPrefix(trimmed, "|")
		trimmed = strings.TrimSuffix(trimmed, "|")
		for _, cell := range splitCells(trimmed) {
			tr.Children = append(tr.Children, &Node{
				Kind: KindTableCell,
				Runs: ParseRuns(strings.TrimSpace(cell)),
			})
		}
		table.Children = append(table.Children, tr)
	}
	return table
}

// splitCells splits a table row body on unescaped pipes.
func splitCells(s string) []string {
	var cells []string
	var cur strings.Builder
	escaped := false
	for _, r := range s {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			cur.WriteRune(r)
			escaped = true
		case r == '|':
			cells = append(cells, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	cells = append(cells, cur.String())
	return cells
}

func parseList(items []string, depth int) *Node {
	list := &Node{Kind: KindList}
	for i := 0; i < len(items); {
		m := listItemRe.FindStringSubmatch(items[i])
		indent := indentWidth(m[1])
		if indent/2 > depth {
			// Deeper run: attach as a sublist of the previous item.
			var sub []string
			j := i
			for ; j < len(items); j++ {
				sm := listItemRe.FindStringSubmatch(items[j])
				if indentWidth(sm[1])/2 <= depth {
					break
				}
				sub = append(sub, items[j])
			}
			child := parseList(sub, depth+1)
			if n := len(list.Children); n > 0 {
				item := list.Children[n-1]
				item.Children = append(item.Children, child)
			} else {
				list.Children = append(list.Children, &Node{Kind: KindListItem, Children: []*Node{child}})
			}
			i = j
			continue
		}

		item := &Node{Kind: KindListItem}
		if m[3] != "" {
			checked := m[4] == "x" || m[4] == "X"
			item.Checked = &checked
			list.ListType = ListTask
		} else if list.ListType == "" {
			if m[2] == "-" || m[2] == "*" || m[2] == "+" {
				list.ListType = ListBullet
			} else {
				list.ListType = ListOrdered
			}
		}
		item.Children = []*Node{{Kind: KindParagraph, Runs: ParseRuns(m[5])}}
		list.Children = append(list.Children, item)
		i++
	}
	if list.ListType == "" {
		list.ListType = ListBullet
	}
	return list
}

func indentWidth(s string) int {
	w := 0
	for _, r := range s {
		if r == '\t' {
			w += 4
		} else {
			w++
		}
	}
	return w
}

// ParseRuns scans inline markdown into marked runs. Unterminated syntax is
// kept as literal text; the scanner never fails.
func ParseRuns(text string) []Run {
	rs := []rune(text)
	var runs []Run
	var plain []rune

	flush := func() {
		if len(plain) > 0 {
			runs = append(runs, Run{Text: string(plain)})
			plain = nil
		}
	}
	find := func(sub string, from int) int {
		idx := strings.Index(string(rs[from:]), sub)
		if idx < 0 {
			return -1
		}
		return from + len([]rune(string(rs[from:])[:idx]))
	}

	i := 0
	for i < len(rs) {
		// Image: ![alt](src)
		if rs[i] == '!' && i+1 < len(rs) && rs[i+1] == '[' {
			if alt, src, next, ok := scanLinkish(rs, i+1); ok {
				flush()
				runs = append(runs, Run{ImageSrc: src, ImageAlt: alt})
				i = next
				continue
			}
		}
		// Footnote reference: [^label]
		if rs[i] == '[' && i+1 < len(rs) && rs[i+1] == '^' {
			if end := find("]", i+2); end >= 0 {
				flush()
				label := string(rs[i+2 : end])
				runs = append(runs, Run{
					Text:  "[^" + label + "]",
					Marks: []Mark{{Type: MarkFootnote, Label: label}},
				})
				i = end + 1
				continue
			}
		}
		// Link: [text](href)
		if rs[i] == '[' {
			if txt, href, next, ok := scanLinkish(rs, i); ok {
				flush()
				runs = append(runs, Run{Text: txt, Marks: []Mark{{Type: MarkLink, Href: href}}})
				i = next
				continue
			}
		}
		// Inline code.
		if rs[i] == '`' {
			if end := find("`", i+1); end >= 0 {
				flush()
				runs = append(runs, Run{Text: string(rs[i+1 : end]), Marks: []Mark{{Type: MarkCode}}})
				i = end + 1
				continue
			}
		}
		// Inline math: $...$, but never the $$ block delimiter.
		if rs[i] == '$' && (i+1 >= len(rs) || rs[i+1] != '$') {
			if end := find("$", i+1); end >= 0 && end > i+1 {
				flush()
				runs = append(runs, Run{Text: string(rs[i+1 : end]), Marks: []Mark{{Type: MarkInlineMath}}})
				i = end + 1
				continue
			}
		}
		if r, next, ok := scanDelimited(rs, i, "***", []Mark{{Type: MarkBold}, {Type: MarkItalic}}); ok {
			flush()
			runs = append(runs, r)
			i = next
			continue
		}
		if r, next, ok := scanDelimited(rs, i, "**", []Mark{{Type: MarkBold}}); ok {
			flush()
			runs = append(runs, r)
			i = next
			continue
		}
		if r, next, ok := scanDelimited(rs, i, "~~", []Mark{{Type: MarkStrike}}); ok {
			flush()
			runs = append(runs, r)
			i = next
			continue
		}
		if r, next, ok := scanDelimited(rs, i, "==", []Mark{{Type: MarkHighlight}}); ok {
			flush()
			runs = append(runs, r)
			i = next
			continue
		}
		if r, next, ok := scanDelimited(rs, i, "*", []Mark{{Type: MarkItalic}}); ok {
			flush()
			runs = append(runs, r)
			i = next
			continue
		}
		if r, next, ok := scanDelimited(rs, i, "~", []Mark{{Type: MarkSub}}); ok {
			flush()
			runs = append(runs, r)
			i = next
			continue
		}
		if r, next, ok := scanDelimited(rs, i, "^", []Mark{{Type: MarkSup}}); ok {
			flush()
			runs = append(runs, r)
			i = next
			continue
		}
		plain = append(plain, rs[i])
		i++
	}
	flush()
	return runs
}

// scanLinkish matches [text](target) starting at the opening bracket and
// returns text, target and the index past the closing paren.
func scanLinkish(rs []rune, open int) (text, target string, next int, ok bool) {
	if open >= len(rs) || rs[open] != '[' {
		return "", "", 0, false
	}
	closeBracket := -1
	for j := open + 1; j < len(rs); j++ {
		if rs[j] == ']' {
			closeBracket = j
			break
		}
	}
	if closeBracket < 0 || closeBracket+1 >= len(rs) || rs[closeBracket+1] != '(' {
		return "", "", 0, false
	}
	closeParen := -1
	for j := closeBracket + 2; j < len(rs); j++ {
		if rs[j] == ')' {
			closeParen = j
			break
		}
	}
	if closeParen < 0 {
		return "", "", 0, false
	}
	return string(rs[open+1 : closeBracket]), string(rs[closeBracket+2 : closeParen]), closeParen + 1, true
}

// scanDelimited matches delim…delim at i with non-empty inner text.
func scanDelimited(rs []rune, i int, delim string, marks []Mark) (Run, int, bool) {
	d := []rune(delim)
	if i+len(d) > len(rs) || string(rs[i:i+len(d)]) != delim {
		return Run{}, 0, false
	}
	for j := i + len(d); j+len(d) <= len(rs); j++ {
		if string(rs[j:j+len(d)]) == delim {
			if j == i+len(d) {
				return Run{}, 0, false
			}
			return Run{Text: string(rs[i+len(d) : j]), Marks: marks}, j + len(d), true
		}
	}
	return Run{}, 0, false
}
