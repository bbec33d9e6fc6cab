package tui

import "testing"

func TestMarkdownStyleRespectsTheme(t *testing.T) {
	t.Setenv("COLORFGBG", "")
	t.Setenv("MARKFOLD_TUI_DARKBG", "")

	t.Setenv("MARKFOLD_TUI_THEME", "light")
	if got := markdownStyle(); got != "light" {
		t.Fatalf("expected light; got %q", got)
	}

	t.Setenv("MARKFOLD_TUI_THEME", "dark")
	if got := markdownStyle(); got != "dark" {
		t.Fatalf("expected dark; got %q", got)
	}
}

func TestMarkdownStyleDarkBGOverride(t *testing.T) {
	t.Setenv("MARKFOLD_TUI_THEME", "")
	t.Setenv("COLORFGBG", "")

	t.Setenv("MARKFOLD_TUI_DARKBG", "true")
	if got := markdownStyle(); got != "dark" {
		t.Fatalf("expected dark; got %q", got)
	}

	t.Setenv("MARKFOLD_TUI_DARKBG", "false")
	if got := markdownStyle(); got != "light" {
		t.Fatalf("expected light; got %q", got)
	}
}

func TestMarkdownStyleColorFGBG(t *testing.T) {
	t.Setenv("MARKFOLD_TUI_THEME", "")
	t.Setenv("MARKFOLD_TUI_DARKBG", "")

	t.Setenv("COLORFGBG", "15;0")
	if got := markdownStyle(); got != "dark" {
		t.Fatalf("expected dark for bg 0; got %q", got)
	}

	t.Setenv("COLORFGBG", "0;15")
	if got := markdownStyle(); got != "light" {
		t.Fatalf("expected light for bg 15; got %q", got)
	}
}

func TestMarkdownStyleConfigPalettes(t *testing.T) {
	light := markdownStyleConfig("light")
	dark := markdownStyleConfig("dark")
	if light.Link.Color == nil || dark.Link.Color == nil {
		t.Fatal("link color must be set in both palettes")
	}
	if *light.Link.Color == *dark.Link.Color {
		t.Fatal("light and dark link colors should differ")
	}
	if light.BlockQuote.Faint == nil || *light.BlockQuote.Faint {
		t.Fatal("blockquote faint must be disabled")
	}
}
