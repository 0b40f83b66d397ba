package scanner

import (
	"nilan/token"
	"reflect"
	"testing"
)

func scanAll(t *testing.T, source string) []token.Token {
	t.Helper()
	s := New(source)
	var got []token.Token
	for {
		tok := s.NextToken()
		got = append(got, tok)
		if tok.Kind == token.Eof {
			return got
		}
	}
}

func kinds(tokens []token.Token) []token.Kind {
	out := make([]token.Kind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestOperatorsSuccess(t *testing.T) {
	expected := []token.Kind{
		token.EqualEqual, token.Slash, token.Equal, token.Star, token.Plus,
		token.Greater, token.Minus, token.Less, token.BangEqual,
		token.LessEqual, token.GreaterEqual, token.Bang, token.Bang,
		token.Eof,
	}
	got := kinds(scanAll(t, "==/=*+>-<!=<=>=!!"))
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("scan kinds = %v, want %v", got, expected)
	}
}

func TestScanSuccess(t *testing.T) {
	expected := []token.Kind{
		token.LeftParen, token.RightParen, token.LeftBrace, token.RightBrace,
		token.Star, token.Star, token.Semicolon, token.Plus, token.BangEqual,
		token.LessEqual, token.Eof,
	}
	got := kinds(scanAll(t, "(){}**;+!=<="))
	if !reflect.DeepEqual(got, expected) {
		t.Errorf("scan kinds = %v, want %v", got, expected)
	}
}

func TestLineComment(t *testing.T) {
	tokens := scanAll(t, "1 // a trailing comment\n2")
	got := kinds(tokens)
	want := []token.Kind{token.Number, token.Number, token.Eof}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("scan kinds = %v, want %v", got, want)
	}
	if tokens[1].Line != 2 {
		t.Errorf("second number on line %d, want 2", tokens[1].Line)
	}
}

func TestStringLiteralKeepsQuotes(t *testing.T) {
	tok := scanAll(t, `"hello"`)[0]
	if tok.Kind != token.String {
		t.Fatalf("kind = %v, want String", tok.Kind)
	}
	if tok.Lexeme != `"hello"` {
		t.Errorf("lexeme = %q, want %q (compiler strips quotes)", tok.Lexeme, `"hello"`)
	}
}

func TestUnterminatedString(t *testing.T) {
	tok := scanAll(t, `"never closes`)[0]
	if tok.Kind != token.Error {
		t.Fatalf("kind = %v, want Error", tok.Kind)
	}
	if tok.Lexeme != "Unterminated string." {
		t.Errorf("message = %q", tok.Lexeme)
	}
}

func TestNumberLiteral(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"123", "123"},
		{"3.14", "3.14"},
	}
	for _, tt := range tests {
		tok := scanAll(t, tt.source)[0]
		if tok.Kind != token.Number || tok.Lexeme != tt.want {
			t.Errorf("NextToken(%q) = %v, want Number %q", tt.source, tok, tt.want)
		}
	}
}

func TestKeywordVsIdentifier(t *testing.T) {
	tokens := scanAll(t, "and beverage")
	if tokens[0].Kind != token.And {
		t.Errorf("kind = %v, want And", tokens[0].Kind)
	}
	if tokens[1].Kind != token.Identifier {
		t.Errorf("kind = %v, want Identifier", tokens[1].Kind)
	}
}

func TestEofIsSticky(t *testing.T) {
	s := New("")
	first := s.NextToken()
	second := s.NextToken()
	if first.Kind != token.Eof || second.Kind != token.Eof {
		t.Errorf("expected repeated Eof, got %v then %v", first, second)
	}
}
