// Package compiler implements the single-pass Pratt-style compiler that
// turns a token stream directly into bytecode. There is no intermediate
// AST: every parse rule either recurses into parsePrecedence or emits
// bytecode immediately into the chunk under construction.
package compiler

import (
	"fmt"
	"strconv"

	"nilan/chunk"
	"nilan/object"
	"nilan/scanner"
	"nilan/token"
	"nilan/value"
)

// Precedence levels, low to high. parsePrecedence(p) parses everything
// that binds at least as tightly as p.
type Precedence int

const (
	PrecNone       Precedence = iota
	PrecAssignment            // =
	PrecOr                    // or
	PrecAnd                   // and
	PrecEquality              // == !=
	PrecComparison            // < <= > >=
	PrecTerm                  // + -
	PrecFactor                // * /
	PrecUnary                 // ! -
	PrecCall                  // . ()
	PrecPrimary
)

// parseFunc is a prefix or infix parsing rule. canAssign threads whether
// the surrounding precedence context accepts an assignment target.
type parseFunc func(c *Compiler, canAssign bool)

type parseRule struct {
	prefix     parseFunc
	infix      parseFunc
	precedence Precedence
}

var rules map[token.Kind]parseRule

func init() {
	rules = map[token.Kind]parseRule{
		token.LeftParen:    {prefix: (*Compiler).grouping},
		token.Minus:        {prefix: (*Compiler).unary, infix: (*Compiler).binary, precedence: PrecTerm},
		token.Plus:         {infix: (*Compiler).binary, precedence: PrecTerm},
		token.Slash:        {infix: (*Compiler).binary, precedence: PrecFactor},
		token.Star:         {infix: (*Compiler).binary, precedence: PrecFactor},
		token.Bang:         {prefix: (*Compiler).unary},
		token.BangEqual:    {infix: (*Compiler).binary, precedence: PrecEquality},
		token.EqualEqual:   {infix: (*Compiler).binary, precedence: PrecEquality},
		token.Greater:      {infix: (*Compiler).binary, precedence: PrecComparison},
		token.GreaterEqual: {infix: (*Compiler).binary, precedence: PrecComparison},
		token.Less:         {infix: (*Compiler).binary, precedence: PrecComparison},
		token.LessEqual:    {infix: (*Compiler).binary, precedence: PrecComparison},
		token.True:         {prefix: (*Compiler).literal},
		token.False:        {prefix: (*Compiler).literal},
		token.Nil:          {prefix: (*Compiler).literal},
		token.Number:       {prefix: (*Compiler).number},
		token.String:       {prefix: (*Compiler).string},
		token.Identifier:   {prefix: (*Compiler).variable},
	}
}

func getRule(kind token.Kind) parseRule {
	return rules[kind]
}

// Parser tracks the two-token lookahead window and the sticky/transient
// error flags the compiler uses to recover from a bad statement without
// cascading diagnostics.
type Parser struct {
	scanner   *scanner.Scanner
	current   token.Token
	previous  token.Token
	hadError  bool
	panicMode bool
	errs      CompileError
}

// Compiler drives the scanner by pull and emits bytecode into a fresh
// chunk as it parses -- there is no separate AST-building phase.
type Compiler struct {
	parser *Parser
	chunk  *chunk.Chunk
	heap   *object.Heap
}

// Compile compiles source into a fresh Chunk, interning any string
// constants into heap (the same heap the VM will execute against).
// The returned error is non-nil, and of type *CompileError, iff any
// diagnostic was reported. A DeveloperError panic raised by a broken
// parse-rule invariant is recovered here and returned like any other
// error, rather than crashing the caller.
func Compile(source string, heap *object.Heap) (result *chunk.Chunk, err error) {
	p := &Parser{scanner: scanner.New(source)}
	comp := &Compiler{parser: p, chunk: chunk.New(), heap: heap}

	defer func() {
		if r := recover(); r != nil {
			de, ok := r.(DeveloperError)
			if !ok {
				panic(r)
			}
			err = de
		}
	}()

	comp.advance()
	for !comp.check(token.Eof) {
		comp.declaration()
	}
	comp.emitReturn()

	if p.hadError {
		return comp.chunk, &p.errs
	}
	return comp.chunk, nil
}

// --- token stream plumbing ---

func (c *Compiler) advance() {
	c.parser.previous = c.parser.current

	for {
		c.parser.current = c.parser.scanner.NextToken()
		if c.parser.current.Kind != token.Error {
			break
		}
		c.lexError(c.parser.current)
	}
}

// lexError folds a scanner-reported Error token into the aggregate
// CompileError. It builds a scanner.LexError from the token and reuses
// its own Error() formatting, so a lexical diagnostic is worded exactly
// the way the typed error it came from would report itself.
func (c *Compiler) lexError(tok token.Token) {
	if c.parser.panicMode {
		return
	}
	c.parser.panicMode = true
	lexErr := &scanner.LexError{Message: tok.Lexeme, Line: tok.Line}
	c.parser.errs.Diagnostics = append(c.parser.errs.Diagnostics, lexErr.Error())
	c.parser.hadError = true
}

func (c *Compiler) check(kind token.Kind) bool {
	return c.parser.current.Kind == kind
}

func (c *Compiler) match(kind token.Kind) bool {
	if !c.check(kind) {
		return false
	}
	c.advance()
	return true
}

func (c *Compiler) consume(kind token.Kind, message string) {
	if c.parser.current.Kind == kind {
		c.advance()
		return
	}
	c.errorAtCurrent(message)
}

// --- error reporting ---

func (c *Compiler) errorAtCurrent(message string) {
	c.errorAt(c.parser.current, message)
}

func (c *Compiler) error(message string) {
	c.errorAt(c.parser.previous, message)
}

func (c *Compiler) errorAt(tok token.Token, message string) {
	if c.parser.panicMode {
		return
	}
	c.parser.panicMode = true

	where := fmt.Sprintf(" at '%s'", tok.Lexeme)
	switch tok.Kind {
	case token.Eof:
		where = " at end"
	case token.Error:
		where = ""
	}
	c.parser.errs.add(tok.Line, where, message)
	c.parser.hadError = true
}

// --- declarations & statements ---

func (c *Compiler) declaration() {
	if c.match(token.Var) {
		c.varDeclaration()
	} else {
		c.statement()
	}

	if c.parser.panicMode {
		c.synchronize()
	}
}

func (c *Compiler) varDeclaration() {
	global := c.parseVariable("Expect variable name.")

	if c.match(token.Equal) {
		c.expression()
	} else {
		c.emitOp(chunk.OpNil)
	}
	c.consume(token.Semicolon, "Expect ';' after variable declaration.")
	c.defineVariable(global)
}

func (c *Compiler) statement() {
	switch {
	case c.match(token.Print):
		c.printStatement()
	default:
		c.expressionStatement()
	}
}

func (c *Compiler) printStatement() {
	c.expression()
	c.consume(token.Semicolon, "Expect ';' after value.")
	c.emitOp(chunk.OpPrint)
}

func (c *Compiler) expressionStatement() {
	c.expression()
	c.consume(token.Semicolon, "Expect ';' after expression.")
	c.emitOp(chunk.OpPop)
}

// synchronize discards tokens until it reaches a plausible statement
// boundary, so one bad statement doesn't cascade into spurious errors
// on the rest of the source. It is idempotent: called again with no
// tokens consumed in between, it returns immediately because the
// boundary that stopped the first call (Eof, a preceding ';', or a
// statement keyword) still holds.
func (c *Compiler) synchronize() {
	c.parser.panicMode = false

	for c.parser.current.Kind != token.Eof {
		if c.parser.previous.Kind == token.Semicolon {
			return
		}
		switch c.parser.current.Kind {
		case token.Class, token.Fun, token.Var, token.For, token.If,
			token.While, token.Print, token.Return:
			return
		}
		c.advance()
	}
}

// --- expressions ---

func (c *Compiler) expression() {
	c.parsePrecedence(PrecAssignment)
}

func (c *Compiler) parsePrecedence(precedence Precedence) {
	c.advance()
	prefix := getRule(c.parser.previous.Kind).prefix
	if prefix == nil {
		c.error("Expect expression.")
		return
	}

	canAssign := precedence <= PrecAssignment
	prefix(c, canAssign)

	for precedence <= getRule(c.parser.current.Kind).precedence {
		c.advance()
		infix := getRule(c.parser.previous.Kind).infix
		if infix == nil {
			// The precedence table promised an infix parser for this kind
			// (that's why the loop condition matched) but none is
			// registered -- a broken rule table, not a user mistake.
			panic(DeveloperError{Message: fmt.Sprintf("no infix rule registered for %s", c.parser.previous.Kind)})
		}
		infix(c, canAssign)
	}

	if canAssign && c.match(token.Equal) {
		c.error("Invalid assignment target.")
	}
}

func (c *Compiler) grouping(_ bool) {
	c.expression()
	c.consume(token.RightParen, "Expect ')' after expression.")
}

func (c *Compiler) unary(_ bool) {
	kind := c.parser.previous.Kind
	c.parsePrecedence(PrecUnary)
	switch kind {
	case token.Bang:
		c.emitOp(chunk.OpNot)
	case token.Minus:
		c.emitOp(chunk.OpNegate)
	}
}

func (c *Compiler) binary(_ bool) {
	kind := c.parser.previous.Kind
	rule := getRule(kind)
	c.parsePrecedence(rule.precedence + 1)

	switch kind {
	case token.Plus:
		c.emitOp(chunk.OpAdd)
	case token.Minus:
		c.emitOp(chunk.OpSubtract)
	case token.Star:
		c.emitOp(chunk.OpMultiply)
	case token.Slash:
		c.emitOp(chunk.OpDivide)
	case token.EqualEqual:
		c.emitOp(chunk.OpEqual)
	case token.BangEqual:
		c.emitOp(chunk.OpEqual)
		c.emitOp(chunk.OpNot)
	case token.Greater:
		c.emitOp(chunk.OpGreater)
	case token.Less:
		c.emitOp(chunk.OpLess)
	case token.GreaterEqual:
		c.emitOp(chunk.OpLess)
		c.emitOp(chunk.OpNot)
	case token.LessEqual:
		c.emitOp(chunk.OpGreater)
		c.emitOp(chunk.OpNot)
	}
}

func (c *Compiler) literal(_ bool) {
	switch c.parser.previous.Kind {
	case token.True:
		c.emitOp(chunk.OpTrue)
	case token.False:
		c.emitOp(chunk.OpFalse)
	case token.Nil:
		c.emitOp(chunk.OpNil)
	}
}

func (c *Compiler) number(_ bool) {
	n, _ := strconv.ParseFloat(c.parser.previous.Lexeme, 64)
	c.emitConstant(value.Number(n))
}

func (c *Compiler) string(_ bool) {
	lexeme := c.parser.previous.Lexeme
	content := lexeme[1 : len(lexeme)-1] // strip the surrounding quotes
	handle := c.heap.Intern(content)
	c.emitConstant(value.String(handle))
}

func (c *Compiler) variable(canAssign bool) {
	name := c.identifierConstant(c.parser.previous)

	if canAssign && c.match(token.Equal) {
		c.expression()
		c.emitByteOp(chunk.OpSetGlobal, name)
	} else {
		c.emitByteOp(chunk.OpGetGlobal, name)
	}
}

// parseVariable consumes the identifier naming a new global and returns
// its constant-pool index.
func (c *Compiler) parseVariable(message string) int {
	c.consume(token.Identifier, message)
	return c.identifierConstant(c.parser.previous)
}

func (c *Compiler) defineVariable(global int) {
	c.emitByteOp(chunk.OpDefineGlobal, global)
}

// identifierConstant interns tok's lexeme and adds it as a String
// constant, returning its index -- the "name operand" used by
// Get/Set/DefineGlobal.
func (c *Compiler) identifierConstant(tok token.Token) int {
	handle := c.heap.Intern(tok.Lexeme)
	return c.makeConstant(value.String(handle))
}

// --- bytecode emission ---

func (c *Compiler) emitOp(op chunk.OpCode) {
	c.chunk.WriteOp(op, c.currentLine())
}

func (c *Compiler) emitByteOp(op chunk.OpCode, operand int) {
	c.emitOp(op)
	c.chunk.Write(byte(operand), c.currentLine())
}

func (c *Compiler) emitConstant(v value.Value) {
	index := c.makeConstant(v)
	c.emitByteOp(chunk.OpConstant, index)
}

func (c *Compiler) emitReturn() {
	c.emitOp(chunk.OpReturn)
}

// makeConstant appends v and enforces the one-byte operand ceiling: an
// overflowing index is reported as an error and 0 is substituted so
// compilation can continue (the compile still fails overall).
func (c *Compiler) makeConstant(v value.Value) int {
	index := c.chunk.AddConstant(v)
	if index >= chunk.MaxConstants {
		c.error("Too many constants in one chunk.")
		return 0
	}
	return index
}

func (c *Compiler) currentLine() int {
	return c.parser.previous.Line
}
