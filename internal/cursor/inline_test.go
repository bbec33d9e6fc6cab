package cursor

import (
	"testing"

	"markfold/internal/doc"
)

func TestDetectLink(t *testing.T) {
	b := doc.NewBuffer("see [docs](https://example.com) here")

	info := DetectLink(b, 6) // inside "docs"
	if info == nil {
		t.Fatalf("expected a link")
	}
	if info.Href != "https://example.com" || info.Text != "docs" {
		t.Fatalf("link = %q %q", info.Text, info.Href)
	}
	if info.From != 4 || info.To != 31 {
		t.Fatalf("syntax range = [%d,%d]", info.From, info.To)
	}
	if info.ContentFrom != 5 || info.ContentTo != 9 {
		t.Fatalf("content range = [%d,%d]", info.ContentFrom, info.ContentTo)
	}

	t.Run("boundaries count as inside", func(t *testing.T) {
		if DetectLink(b, 4) == nil || DetectLink(b, 31) == nil {
			t.Fatalf("cursor at either edge of the syntax is inside")
		}
	})
	t.Run("outside", func(t *testing.T) {
		if DetectLink(b, 2) != nil {
			t.Fatalf("no link before the bracket")
		}
	})
}

func TestDetectImageBeatsLink(t *testing.T) {
	b := doc.NewBuffer("x ![alt](a.png) y")
	img := DetectImage(b, 5)
	if img == nil {
		t.Fatalf("expected an image")
	}
	if img.Src != "a.png" || img.Alt != "alt" {
		t.Fatalf("image = %q %q", img.Alt, img.Src)
	}
	// The link regex must not claim the image's bracket pair.
	if DetectLink(b, 5) != nil {
		t.Fatalf("image syntax is not a link")
	}
}

func TestDetectInlineMath(t *testing.T) {
	b := doc.NewBuffer("sum $a+b$ and $$ x $$")
	info := DetectInlineMath(b, 6)
	if info == nil {
		t.Fatalf("expected inline math")
	}
	if info.From != 4 || info.To != 9 {
		t.Fatalf("range = [%d,%d]", info.From, info.To)
	}
	if info.ContentFrom != 5 || info.ContentTo != 8 {
		t.Fatalf("content = [%d,%d]", info.ContentFrom, info.ContentTo)
	}
	t.Run("block delimiter excluded", func(t *testing.T) {
		if DetectInlineMath(b, 16) != nil {
			t.Fatalf("$$ region must not match as inline math")
		}
	})
}

func TestDetectFootnote(t *testing.T) {
	b := doc.NewBuffer("claim[^note] stands")
	info := DetectFootnote(b, 8)
	if info == nil {
		t.Fatalf("expected a footnote reference")
	}
	if info.Label != "note" {
		t.Fatalf("label = %q", info.Label)
	}
	if info.From != 5 || info.To != 12 {
		t.Fatalf("range = [%d,%d]", info.From, info.To)
	}

	t.Run("definition at line start excluded", func(t *testing.T) {
		b := doc.NewBuffer("[^note]: the definition")
		if DetectFootnote(b, 3) != nil {
			t.Fatalf("a definition is not a reference")
		}
	})
}

func TestDetectFormattedRange(t *testing.T) {
	cases := []struct {
		name string
		text string
		off  int
		mark doc.MarkType
		from int
		to   int
	}{
		{"bold", "a **bold** z", 5, doc.MarkBold, 2, 10},
		{"italic", "a *it* z", 4, doc.MarkItalic, 2, 6},
		{"code", "x `run()` y", 5, doc.MarkCode, 2, 9},
		{"strike", "~~gone~~", 3, doc.MarkStrike, 0, 8},
		{"highlight", "==hot==", 3, doc.MarkHighlight, 0, 7},
		{"subscript", "H~2~O", 3, doc.MarkSub, 1, 4},
		{"superscript", "x^2^", 2, doc.MarkSup, 1, 4},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := doc.NewBuffer(c.text)
			info := DetectFormattedRange(b, c.off)
			if info == nil {
				t.Fatalf("no formatted range in %q at %d", c.text, c.off)
			}
			if info.MarkType != c.mark {
				t.Fatalf("mark = %v, want %v", info.MarkType, c.mark)
			}
			if info.From != c.from || info.To != c.to {
				t.Fatalf("range = [%d,%d], want [%d,%d]", info.From, info.To, c.from, c.to)
			}
			if info.ContentFrom >= info.ContentTo {
				t.Fatalf("content range empty: [%d,%d]", info.ContentFrom, info.ContentTo)
			}
		})
	}

	t.Run("bold is not italic", func(t *testing.T) {
		b := doc.NewBuffer("**bold**")
		info := DetectFormattedRange(b, 4)
		if info == nil || info.MarkType != doc.MarkBold {
			t.Fatalf("got %+v", info)
		}
	})
	t.Run("plain text", func(t *testing.T) {
		b := doc.NewBuffer("nothing here")
		if DetectFormattedRange(b, 3) != nil {
			t.Fatalf("no span expected")
		}
	})
}

func TestInlineDetectorsWithCJKPrefix(t *testing.T) {
	// Regex indices are bytes; construct offsets are runes. Multibyte text
	// before the construct must not skew the reported ranges.
	b := doc.NewBuffer("你好 [链接](http://x)")
	info := DetectLink(b, 4)
	if info == nil {
		t.Fatalf("expected a link")
	}
	if info.From != 3 {
		t.Fatalf("From = %d, want 3", info.From)
	}
	if info.ContentFrom != 4 || info.ContentTo != 6 {
		t.Fatalf("content = [%d,%d], want [4,6]", info.ContentFrom, info.ContentTo)
	}
}
