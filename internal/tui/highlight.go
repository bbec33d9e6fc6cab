package tui

import (
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"
)

var (
	hlCacheMu sync.Mutex
	hlCache   = map[string]string{}
)

// highlightCode renders src with ANSI colors for the given fence language.
// Unknown languages and tokenizer failures fall back to the raw source, so a
// half-typed info string never breaks the code popup preview.
func highlightCode(src, language string) string {
	language = strings.TrimSpace(language)
	if language == "" || src == "" {
		return src
	}

	theme := "github"
	if lipgloss.HasDarkBackground() {
		theme = "monokai"
	}
	key := language + ":" + theme + ":" + src

	hlCacheMu.Lock()
	if v, ok := hlCache[key]; ok {
		hlCacheMu.Unlock()
		return v
	}
	hlCacheMu.Unlock()

	lex := lexers.Get(language)
	if lex == nil {
		return src
	}
	lex = chroma.Coalesce(lex)
	sty := styles.Get(theme)
	fmtr := formatters.Get("terminal256")
	if fmtr == nil {
		fmtr = formatters.Fallback
	}

	it, err := lex.Tokenise(nil, src)
	if err != nil {
		return src
	}
	var buf strings.Builder
	if err := fmtr.Format(&buf, sty, it); err != nil {
		return src
	}
	out := strings.TrimRight(buf.String(), "\n")

	hlCacheMu.Lock()
	if len(hlCache) > 500 {
		hlCache = map[string]string{}
	}
	hlCache[key] = out
	hlCacheMu.Unlock()
	return out
}

// knownLanguage reports whether chroma has a lexer for the fence info string.
// The code popup shows this as a hint next to the language input.
func knownLanguage(language string) bool {
	return lexers.Get(strings.TrimSpace(language)) != nil
}
