// Package token defines the lexical token kinds produced by the scanner
// and consumed by the compiler.
package token

import "fmt"

// Kind classifies a Token. The zero value is LeftParen. Eof and Error
// are sentinels, everything else is a real lexical class.
type Kind int

const (
	// single-character punctuation
	LeftParen Kind = iota
	RightParen
	LeftBrace
	RightBrace
	Dot
	Comma
	Semicolon
	Plus
	Minus
	Slash
	Star

	// one-or-two-character operators
	Bang
	BangEqual
	Equal
	EqualEqual
	Greater
	GreaterEqual
	Less
	LessEqual

	// literals
	Identifier
	String
	Number

	// keywords
	And
	Class
	Else
	False
	For
	Fun
	If
	Nil
	Or
	Print
	Return
	Super
	This
	True
	Var
	While

	// sentinels
	Error
	Eof
)

var names = map[Kind]string{
	LeftParen:    "(",
	RightParen:   ")",
	LeftBrace:    "{",
	RightBrace:   "}",
	Dot:          ".",
	Comma:        ",",
	Semicolon:    ";",
	Plus:         "+",
	Minus:        "-",
	Slash:        "/",
	Star:         "*",
	Bang:         "!",
	BangEqual:    "!=",
	Equal:        "=",
	EqualEqual:   "==",
	Greater:      ">",
	GreaterEqual: ">=",
	Less:         "<",
	LessEqual:    "<=",
	Identifier:   "IDENTIFIER",
	String:       "STRING",
	Number:       "NUMBER",
	And:          "and",
	Class:        "class",
	Else:         "else",
	False:        "false",
	For:          "for",
	Fun:          "fun",
	If:           "if",
	Nil:          "nil",
	Or:           "or",
	Print:        "print",
	Return:       "return",
	Super:        "super",
	This:         "this",
	True:         "true",
	Var:          "var",
	While:        "while",
	Error:        "ERROR",
	Eof:          "EOF",
}

func (k Kind) String() string {
	if name, ok := names[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Keywords maps reserved lexemes to their keyword Kind. Identifiers that
// don't appear here are classified as Identifier.
var Keywords = map[string]Kind{
	"and":    And,
	"class":  Class,
	"else":   Else,
	"false":  False,
	"for":    For,
	"fun":    Fun,
	"if":     If,
	"nil":    Nil,
	"or":     Or,
	"print":  Print,
	"return": Return,
	"super":  Super,
	"this":   This,
	"true":   True,
	"var":    Var,
	"while":  While,
}

// Token is {kind, lexeme, line}. Lexeme borrows from the source string
// that produced it; it is only valid for the lifetime of that string.
type Token struct {
	Kind   Kind
	Lexeme string
	Line   int
}

// String renders a Token for diagnostics and trace output.
func (t Token) String() string {
	return fmt.Sprintf("Token{%s %q line=%d}", t.Kind, t.Lexeme, t.Line)
}
