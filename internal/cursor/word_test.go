package cursor

import (
	"testing"

	"markfold/internal/doc"
)

func TestDetectWordASCII(t *testing.T) {
	b := doc.NewBuffer("alpha beta_2 gamma")

	info := DetectWord(b, 8) // inside beta_2
	if info == nil {
		t.Fatalf("expected a word")
	}
	if info.Text != "beta_2" || info.From != 6 || info.To != 12 {
		t.Fatalf("word = %q [%d,%d]", info.Text, info.From, info.To)
	}

	t.Run("boundary belongs to the word", func(t *testing.T) {
		if got := DetectWord(b, 6); got == nil || got.Text != "beta_2" {
			t.Fatalf("left boundary: %+v", got)
		}
		if got := DetectWord(b, 12); got == nil || got.Text != "beta_2" {
			t.Fatalf("right boundary: %+v", got)
		}
	})
	t.Run("whitespace is no word", func(t *testing.T) {
		b := doc.NewBuffer("a  b")
		if DetectWord(b, 2) != nil {
			t.Fatalf("cursor between spaces has no word")
		}
	})
}

func TestDetectWordCJK(t *testing.T) {
	cases := []struct {
		name string
		text string
		off  int
		want string
	}{
		{"chinese", "前缀 中文词 后缀", 4, "中文词"},
		{"hiragana", "これは テスト", 1, "これは"},
		{"katakana", "カタカナ x", 2, "カタカナ"},
		{"hangul", "한국어 단어", 1, "한국어"},
		{"mixed ascii cjk", "go言語", 1, "go言語"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := doc.NewBuffer(c.text)
			info := DetectWord(b, c.off)
			if info == nil {
				t.Fatalf("no word in %q at %d", c.text, c.off)
			}
			if info.Text != c.want {
				t.Fatalf("word = %q, want %q", info.Text, c.want)
			}
		})
	}
}

func TestDetectWordStopsAtLine(t *testing.T) {
	b := doc.NewBuffer("one\ntwo")
	info := DetectWord(b, 5)
	if info == nil || info.Text != "two" {
		t.Fatalf("word = %+v", info)
	}
	if info.From != 4 || info.To != 7 {
		t.Fatalf("range = [%d,%d]", info.From, info.To)
	}
}

func TestIsWordRunePunctuation(t *testing.T) {
	for _, r := range []rune{' ', '\t', '.', ',', '(', '*', '`', '$'} {
		if IsWordRune(r) {
			t.Fatalf("%q must not be a word rune", r)
		}
	}
}
