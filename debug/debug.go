// Package debug renders a Chunk's bytecode as human-readable text for
// tracing and the CLI's disassemble subcommand. The exact text is not
// part of the bytecode contract; only Disassemble's ability to walk
// every instruction in the chunk is.
package debug

import (
	"fmt"
	"strings"

	"nilan/chunk"
	"nilan/object"
	"nilan/value"
)

// Disassemble walks every instruction in c and renders it, one per line,
// prefixed with "name" as a header.
func Disassemble(c *chunk.Chunk, name string, heap *object.Heap) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s ==\n", name)

	offset := 0
	for offset < len(c.Code) {
		line, next := DisassembleInstruction(c, offset, heap)
		b.WriteString(line)
		b.WriteByte('\n')
		offset = next
	}
	return b.String()
}

// DisassembleInstruction renders the single instruction starting at
// offset and returns the offset of the next one.
func DisassembleInstruction(c *chunk.Chunk, offset int, heap *object.Heap) (string, int) {
	var b strings.Builder
	fmt.Fprintf(&b, "%04d ", offset)

	if offset > 0 && c.Lines[offset] == c.Lines[offset-1] {
		b.WriteString("   | ")
	} else {
		fmt.Fprintf(&b, "%4d ", c.Lines[offset])
	}

	op := chunk.OpCode(c.Code[offset])
	operandBytes := chunk.OperandBytes(op)

	if operandBytes == 0 {
		b.WriteString(op.String())
		return b.String(), offset + 1
	}

	index := int(c.Code[offset+1])
	constant := "?"
	if index < len(c.Constants) {
		constant = value.Print(c.Constants[index], heap)
	}
	fmt.Fprintf(&b, "%-16s %4d '%s'", op.String(), index, constant)
	return b.String(), offset + 1 + operandBytes
}
