package cursor

import "markfold/internal/doc"

// IsWordRune reports whether r belongs to the word character class used for
// auto-selection. CJK ideographs and syllables are included so that cursor
// placement inside Chinese, Japanese or Korean text still yields a usable
// unit; they have no spaces to delimit words.
func IsWordRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
		return true
	case r >= 0x4E00 && r <= 0x9FFF: // CJK unified ideographs
		return true
	case r >= 0x3400 && r <= 0x4DBF: // CJK extension A
		return true
	case r >= 0x3040 && r <= 0x309F: // hiragana
		return true
	case r >= 0x30A0 && r <= 0x30FF: // katakana
		return true
	case r >= 0xAC00 && r <= 0xD7AF: // hangul syllables
		return true
	case r >= 0x1100 && r <= 0x11FF: // hangul jamo
		return true
	case r >= 0xFF66 && r <= 0xFF9D: // halfwidth katakana
		return true
	}
	return false
}

// wordInRunes finds the word enclosing off within rs. A cursor at either
// boundary of a word counts as inside it.
func wordInRunes(rs []rune, off int) (from, to int, ok bool) {
	if off < 0 || off > len(rs) {
		return 0, 0, false
	}
	inWordAt := func(i int) bool { return i >= 0 && i < len(rs) && IsWordRune(rs[i]) }
	if !inWordAt(off) && !inWordAt(off-1) {
		return 0, 0, false
	}
	from = off
	for from > 0 && IsWordRune(rs[from-1]) {
		from--
	}
	to = off
	for to < len(rs) && IsWordRune(rs[to]) {
		to++
	}
	if from == to {
		return 0, 0, false
	}
	return from, to, true
}

// DetectWord reports the word under the cursor on the plain surface, or nil.
func DetectWord(b *doc.Buffer, off int) *WordInfo {
	line := b.LineAt(off)
	start := b.LineStart(line)
	rs := []rune(b.Line(line))
	from, to, ok := wordInRunes(rs, off-start)
	if !ok {
		return nil
	}
	return &WordInfo{
		From: start + from,
		To:   start + to,
		Text: string(rs[from:to]),
	}
}
