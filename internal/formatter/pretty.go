package formatter

import "strings"

// breakBefore maps the keywords Pretty starts a new line at to their indent
var breakBefore = map[string]int{
	"USING": 2,
	"FROM":  4,
	"WHERE": 4,
	"JOIN":  6,
	"AND":   6,
	"OR":    6,
}

// Pretty breaks a generated statement onto several lines. Only whitespace
// between tokens changes: quoted text is left alone and collapsing the
// result's whitespace gives back the input.
func Pretty(sql string) string {
	var b strings.Builder
	for i, tok := range tokens(sql) {
		if i > 0 {
			if indent, ok := breakBefore[tok]; ok {
				b.WriteByte('\n')
				b.WriteString(strings.Repeat(" ", indent))
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteString(tok)
	}
	return b.String()
}

// tokens splits on whitespace outside single- and double-quoted text
func tokens(sql string) []string {
	var (
		out   []string
		cur   strings.Builder
		quote rune
	)
	flush := func() {
		if cur.Len() > 0 {
			out = append(out, cur.String())
			cur.Reset()
		}
	}

	for _, r := range sql {
		switch {
		case quote != 0:
			cur.WriteRune(r)
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
			cur.WriteRune(r)
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return out
}
