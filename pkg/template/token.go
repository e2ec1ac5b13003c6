package template

// TokenType classifies a lexed span of template source.
type TokenType int

const (
	TokenText TokenType = iota
	TokenVariable
	TokenBlock
	TokenComment
)

func (t TokenType) String() string {
	switch t {
	case TokenText:
		return "text"
	case TokenVariable:
		return "variable"
	case TokenBlock:
		return "block_start"
	case TokenComment:
		return "comment"
	default:
		return "unknown"
	}
}

// Token is a single lexed span. Value holds the trimmed delimiter content
// (or the literal text for TokenText); Raw preserves the original span
// including delimiters so unrecognized tags can be passed through verbatim.
type Token struct {
	Type  TokenType
	Value string
	Raw   string
}
