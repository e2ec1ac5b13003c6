package template

import (
	"fmt"
	"regexp"
)

// ParseError describes a structural problem in template source: an end tag
// with no opener, a malformed tag, or a block left open at end of input.
type ParseError struct {
	Tag    string // offending tag content, empty when end of input was hit
	Reason string
}

func (e *ParseError) Error() string {
	if e.Tag == "" {
		return "template parse error: " + e.Reason
	}
	return fmt.Sprintf("template parse error in {%% %s %%}: %s", e.Tag, e.Reason)
}

// Tag grammars are deliberately regex-level: the template language is
// small and fixed, so a full expression parser buys nothing here.
var (
	extendsPattern = regexp.MustCompile(`^extends\s+(?:"([^"]*)"|'([^']*)')$`)
	blockPattern   = regexp.MustCompile(`^block\s+([A-Za-z_][A-Za-z0-9_]*)$`)
	forPattern     = regexp.MustCompile(`^for\s+([A-Za-z_][A-Za-z0-9_]*)\s+in\s+([A-Za-z_][A-Za-z0-9_.]*)$`)
	includePattern = regexp.MustCompile(`^include\s+(?:"([^"]*)"|'([^']*)')$`)
)

// Parse tokenizes and parses source into a Document AST.
func Parse(source string) (*Document, error) {
	p := &parser{tokens: Tokenize(source)}
	nodes, err := p.parseBody(nil)
	if err != nil {
		return nil, err
	}
	return &Document{Nodes: nodes}, nil
}

// parser walks an immutable token slice with an explicit cursor. Stop tags
// are peeked, never consumed here: the caller that opened a block consumes
// its own terminator, which is what lets elif/else chains and an optional
// empty tag be detected without backtracking.
type parser struct {
	tokens []Token
	pos    int
}

func (p *parser) eof() bool { return p.pos >= len(p.tokens) }

func (p *parser) peek() Token { return p.tokens[p.pos] }

func (p *parser) next() Token {
	t := p.tokens[p.pos]
	p.pos++
	return t
}

// endTags are tags that only close or continue an enclosing construct.
// Meeting one outside its construct is an error, not an unknown tag.
var endTags = map[string]bool{
	"endblock": true,
	"endfor":   true,
	"endif":    true,
	"elif":     true,
	"else":     true,
	"empty":    true,
}

// parseBody parses nodes until a block tag named in stop is peeked, or
// until end of input when stop is nil. Reaching end of input with a
// non-nil stop set is an unterminated-block error.
func (p *parser) parseBody(stop map[string]bool) ([]Node, error) {
	var nodes []Node
	for !p.eof() {
		tok := p.peek()
		switch tok.Type {
		case TokenText:
			p.next()
			nodes = append(nodes, &TextNode{Text: tok.Value})
		case TokenVariable:
			p.next()
			nodes = append(nodes, &VariableNode{Expr: tok.Value})
		case TokenComment:
			p.next()
			nodes = append(nodes, &CommentNode{})
		case TokenBlock:
			name := tagName(tok.Value)
			if stop != nil && stop[name] {
				return nodes, nil
			}
			if endTags[name] {
				return nil, &ParseError{Tag: tok.Value, Reason: "no matching opening tag"}
			}
			node, err := p.parseTag(tok)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node)
		}
	}
	if stop != nil {
		return nil, &ParseError{Reason: "unterminated block, reached end of template"}
	}
	return nodes, nil
}

// parseTag consumes the peeked block token and any body it opens.
func (p *parser) parseTag(tok Token) (Node, error) {
	p.next()
	name := tagName(tok.Value)
	switch name {
	case "extends":
		m := extendsPattern.FindStringSubmatch(tok.Value)
		if m == nil {
			return nil, &ParseError{Tag: tok.Value, Reason: `expected extends "name"`}
		}
		return &ExtendsNode{Template: firstGroup(m)}, nil
	case "include":
		m := includePattern.FindStringSubmatch(tok.Value)
		if m == nil {
			return nil, &ParseError{Tag: tok.Value, Reason: `expected include "name"`}
		}
		return &IncludeNode{Template: firstGroup(m)}, nil
	case "block":
		return p.parseBlock(tok)
	case "for":
		return p.parseFor(tok)
	case "if":
		return p.parseIf(tok)
	default:
		// Unknown tags degrade to literal text so custom tags pass through.
		return &TextNode{Text: tok.Raw}, nil
	}
}

func (p *parser) parseBlock(tok Token) (Node, error) {
	m := blockPattern.FindStringSubmatch(tok.Value)
	if m == nil {
		return nil, &ParseError{Tag: tok.Value, Reason: "expected block name"}
	}
	body, err := p.parseBody(map[string]bool{"endblock": true})
	if err != nil {
		return nil, err
	}
	p.next() // endblock
	return &BlockNode{Name: m[1], Body: body}, nil
}

func (p *parser) parseFor(tok Token) (Node, error) {
	m := forPattern.FindStringSubmatch(tok.Value)
	if m == nil {
		return nil, &ParseError{Tag: tok.Value, Reason: "expected for x in y"}
	}
	n := &ForNode{Var: m[1], Iterable: m[2]}
	body, err := p.parseBody(map[string]bool{"empty": true, "endfor": true})
	if err != nil {
		return nil, err
	}
	n.Body = body
	if tagName(p.peek().Value) == "empty" {
		p.next()
		empty, err := p.parseBody(map[string]bool{"endfor": true})
		if err != nil {
			return nil, err
		}
		n.EmptyBody = empty
	}
	p.next() // endfor
	return n, nil
}

func (p *parser) parseIf(tok Token) (Node, error) {
	n := &IfNode{}
	cond := tagValueArgs(tok.Value)
	for {
		body, err := p.parseBody(map[string]bool{"elif": true, "else": true, "endif": true})
		if err != nil {
			return nil, err
		}
		n.Branches = append(n.Branches, IfBranch{Cond: cond, Body: body})
		stop := p.next()
		switch tagName(stop.Value) {
		case "elif":
			cond = tagValueArgs(stop.Value)
		case "else":
			body, err := p.parseBody(map[string]bool{"endif": true})
			if err != nil {
				return nil, err
			}
			n.Branches = append(n.Branches, IfBranch{Else: true, Body: body})
			p.next() // endif
			return n, nil
		case "endif":
			return n, nil
		}
	}
}

func tagName(value string) string {
	for i := 0; i < len(value); i++ {
		if isSpace(value[i]) {
			return value[:i]
		}
	}
	return value
}

// tagValueArgs returns the free-form remainder after the tag name,
// e.g. the condition string of an if/elif tag.
func tagValueArgs(value string) string {
	name := tagName(value)
	rest := value[len(name):]
	for len(rest) > 0 && isSpace(rest[0]) {
		rest = rest[1:]
	}
	return rest
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func firstGroup(m []string) string {
	for _, g := range m[1:] {
		if g != "" {
			return g
		}
	}
	return ""
}
