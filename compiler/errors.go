package compiler

import (
	"fmt"
	"strings"
)

// CompileError aggregates every diagnostic reported during one compile.
// panic_mode (see Parser) suppresses cascades, so this is usually one
// entry per distinct syntax mistake rather than one per token.
type CompileError struct {
	Diagnostics []string
}

func (e *CompileError) Error() string {
	return strings.Join(e.Diagnostics, "\n")
}

func (e *CompileError) add(line int, where, message string) {
	e.Diagnostics = append(e.Diagnostics, fmt.Sprintf("[line %d] Error%s: %s", line, where, message))
}

// DeveloperError signals a compiler bug rather than a user mistake --
// e.g. a parse rule invoked for a token kind it was never registered
// for. It should never surface from a correct implementation.
type DeveloperError struct {
	Message string
}

func (e DeveloperError) Error() string {
	return fmt.Sprintf("internal compiler error: %s", e.Message)
}
