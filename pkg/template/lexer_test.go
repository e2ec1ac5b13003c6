package template

import "testing"

func TestTokenizeTextAndTags(t *testing.T) {
	toks := Tokenize("Hello {{ name }}!{% if x %}{# note #}")
	if len(toks) != 5 {
		t.Fatalf("want 5 tokens, got %d: %#v", len(toks), toks)
	}
	if toks[0].Type != TokenText || toks[0].Value != "Hello " {
		t.Fatalf("token 0: %#v", toks[0])
	}
	if toks[1].Type != TokenVariable || toks[1].Value != "name" || toks[1].Raw != "{{ name }}" {
		t.Fatalf("token 1: %#v", toks[1])
	}
	if toks[2].Type != TokenText || toks[2].Value != "!" {
		t.Fatalf("token 2: %#v", toks[2])
	}
	if toks[3].Type != TokenBlock || toks[3].Value != "if x" {
		t.Fatalf("token 3: %#v", toks[3])
	}
	if toks[4].Type != TokenComment || toks[4].Value != "note" {
		t.Fatalf("token 4: %#v", toks[4])
	}
}

func TestTokenizeUnclosedDelimiterIsText(t *testing.T) {
	toks := Tokenize("a {{ name } b")
	if len(toks) != 1 || toks[0].Type != TokenText || toks[0].Value != "a {{ name } b" {
		t.Fatalf("unclosed delimiter should stay literal: %#v", toks)
	}
}

func TestTokenizeFirstCloserWins(t *testing.T) {
	// Nested same-kind delimiters are not supported; the first closing
	// delimiter terminates the tag.
	toks := Tokenize("{{ a }}}}")
	if len(toks) != 2 {
		t.Fatalf("want 2 tokens, got %#v", toks)
	}
	if toks[0].Type != TokenVariable || toks[0].Value != "a" {
		t.Fatalf("token 0: %#v", toks[0])
	}
	if toks[1].Type != TokenText || toks[1].Value != "}}" {
		t.Fatalf("token 1: %#v", toks[1])
	}
}

func TestTokenizeEmptySpansDropped(t *testing.T) {
	toks := Tokenize("{{ a }}{{ b }}")
	if len(toks) != 2 {
		t.Fatalf("adjacent tags should not produce empty text tokens: %#v", toks)
	}
}

func TestTokenizeEmptySource(t *testing.T) {
	if toks := Tokenize(""); len(toks) != 0 {
		t.Fatalf("empty source: %#v", toks)
	}
}

func TestTokenizeMultilineComment(t *testing.T) {
	toks := Tokenize("a{# line one\nline two #}b")
	if len(toks) != 3 || toks[1].Type != TokenComment {
		t.Fatalf("multiline comment: %#v", toks)
	}
}
