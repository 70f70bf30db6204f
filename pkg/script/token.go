package script

import (
	"strings"
	"unicode"
)

// Line is one meaningful source line: trimmed text, 1-based source line
// number, and the indentation depth used to match block closers.
type Line struct {
	Text   string
	Number int
	Indent int
}

// Tokenize converts raw DSL text into trimmed, comment-stripped lines.
// Blank lines are dropped. A '#' starts a comment unless it falls inside a
// double-quoted literal; a '#' after the closing quote still truncates.
func Tokenize(src string) []Line {
	var out []Line
	for i, raw := range strings.Split(src, "\n") {
		text := stripComment(raw)

		indent := 0
		for _, r := range text {
			if !unicode.IsSpace(r) {
				break
			}
			indent++
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		out = append(out, Line{Text: text, Number: i + 1, Indent: indent})
	}
	return out
}

func stripComment(line string) string {
	inQuote := false
	for i, r := range line {
		switch r {
		case '"':
			inQuote = !inQuote
		case '#':
			if !inQuote {
				return line[:i]
			}
		}
	}
	return line
}
