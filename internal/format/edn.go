package format

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// WriteEDN writes an EDN rendering of v. It targets the subset needed for
// the CLI payloads (maps, vectors, strings, numbers, booleans, nil); structs
// round-trip through JSON so json tags decide the field names, which are then
// emitted as kebab-case keywords.
func WriteEDN(w io.Writer, v any, pretty bool) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var x any
	if err := json.Unmarshal(b, &x); err != nil {
		return err
	}

	var sb strings.Builder
	ednValue(&sb, x, 0, pretty)
	sb.WriteByte('\n')
	_, err = io.WriteString(w, sb.String())
	return err
}

func ednValue(sb *strings.Builder, v any, depth int, pretty bool) {
	switch t := v.(type) {
	case nil:
		sb.WriteString("nil")
	case bool:
		sb.WriteString(strconv.FormatBool(t))
	case string:
		sb.WriteString(strconv.Quote(t))
	case float64:
		// encoding/json hands every number back as float64.
		if t == float64(int64(t)) {
			sb.WriteString(strconv.FormatInt(int64(t), 10))
		} else {
			sb.WriteString(strconv.FormatFloat(t, 'f', -1, 64))
		}
	case []any:
		ednSeq(sb, "[", "]", len(t), depth, pretty, func(i int, d int) {
			ednValue(sb, t[i], d, pretty)
		})
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		ednSeq(sb, "{", "}", len(keys), depth, pretty, func(i int, d int) {
			sb.WriteByte(':')
			sb.WriteString(ednKeyword(keys[i]))
			sb.WriteByte(' ')
			ednValue(sb, t[keys[i]], d, pretty)
		})
	default:
		sb.WriteString(strconv.Quote(fmt.Sprintf("%v", v)))
	}
}

func ednSeq(sb *strings.Builder, open, closing string, n, depth int, pretty bool, item func(i, d int)) {
	sb.WriteString(open)
	if n == 0 {
		sb.WriteString(closing)
		return
	}
	for i := 0; i < n; i++ {
		if pretty {
			sb.WriteByte('\n')
			sb.WriteString(strings.Repeat("  ", depth+1))
		} else if i > 0 {
			sb.WriteByte(' ')
		}
		item(i, depth+1)
	}
	if pretty {
		sb.WriteByte('\n')
		sb.WriteString(strings.Repeat("  ", depth))
	}
	sb.WriteString(closing)
}

// ednKeyword converts a JSON field name to an EDN keyword body,
// lowering camelCase to kebab-case ("blockStart" -> "block-start").
func ednKeyword(s string) string {
	var b strings.Builder
	for i, r := range s {
		switch {
		case unicode.IsUpper(r):
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
		case r == ' ' || r == '_':
			b.WriteByte('-')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
