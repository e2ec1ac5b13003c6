package template

// The lexer scans template source in a single pass and yields tokens for
// text and the three delimiter forms: variables {{ }}, block tags {% %},
// and comments {# #}.

import (
	"regexp"
	"strings"
)

// The inner match is non-greedy, so the first closing delimiter wins.
// Nested same-kind delimiters are not supported; a tag that never closes
// simply extends into the next construct or falls through as literal text.
var tagPattern = regexp.MustCompile(`(?s)\{\{.*?\}\}|\{%.*?%\}|\{#.*?#\}`)

// Tokenize splits source into tokens. It never fails: every span that is
// not a well-formed delimiter pair becomes a text token, and empty text
// spans are dropped.
func Tokenize(source string) []Token {
	var tokens []Token
	last := 0
	for _, loc := range tagPattern.FindAllStringIndex(source, -1) {
		if loc[0] > last {
			tokens = append(tokens, Token{Type: TokenText, Value: source[last:loc[0]], Raw: source[last:loc[0]]})
		}
		raw := source[loc[0]:loc[1]]
		inner := strings.TrimSpace(raw[2 : len(raw)-2])
		switch raw[1] {
		case '{':
			tokens = append(tokens, Token{Type: TokenVariable, Value: inner, Raw: raw})
		case '%':
			tokens = append(tokens, Token{Type: TokenBlock, Value: inner, Raw: raw})
		case '#':
			tokens = append(tokens, Token{Type: TokenComment, Value: inner, Raw: raw})
		}
		last = loc[1]
	}
	if last < len(source) {
		tokens = append(tokens, Token{Type: TokenText, Value: source[last:], Raw: source[last:]})
	}
	return tokens
}
