package scanner

import "fmt"

// LexError is the typed form of a lexical failure. NextToken itself
// keeps returning a bare Error token (scanner stays a pull-based token
// source with no side channel), but the compiler wraps that token's
// line and message in a LexError before folding it into CompileError,
// so lexical diagnostics carry the same typed-error shape compile-time
// and runtime failures do.
type LexError struct {
	Message string
	Line    int
}

func (e *LexError) Error() string {
	return fmt.Sprintf("[line %d] Error: %s", e.Line, e.Message)
}
