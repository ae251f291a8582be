package scanner

import (
	"regexp"
	"strings"
)

// FindSplit returns the index of the first byte at or after start that is
// one of delims and sits outside any <...> nesting, or -1.
//
// Depth is not clamped: a stray '>' drives it negative and no delimiter
// matches again until the brackets balance.
func FindSplit(text, delims string, start int) int {
	depth := 0
	for i := max(start, 0); i < len(text); i++ {
		switch text[i] {
		case '<':
			depth++
		case '>':
			depth--
		}
		if depth == 0 && strings.IndexByte(delims, text[i]) >= 0 {
			return i
		}
	}
	return -1
}

// Split cuts text at every top level delimiter and drops empty tokens, so
// Split("Pair<A,B>, C", ", ") is ["Pair<A,B>", "C"].
func Split(text, delims string) []string {
	var tokens []string
	last := 0
	for pos := FindSplit(text, delims, 0); pos >= 0; pos = FindSplit(text, delims, last) {
		if pos != last {
			tokens = append(tokens, text[last:pos])
		}
		last = pos + 1
	}
	if last < len(text) {
		tokens = append(tokens, text[last:])
	}
	return tokens
}

var (
	spaceBeforeSpecial = regexp.MustCompile(` *([<>,])`)
	spaceAfterSpecial  = regexp.MustCompile(`([<,]) *`)
)

// Normalize squeezes the blanks around generic brackets and commas:
// "Entry < K , V >" becomes "Entry<K,V>".
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\t", " ")
	text = spaceBeforeSpecial.ReplaceAllString(text, "$1")
	return spaceAfterSpecial.ReplaceAllString(text, "$1")
}
