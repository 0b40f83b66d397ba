// Package vm implements the stack-based interpreter that executes a
// compiled Chunk: one dispatch loop, one value stack, one globals
// table, and the object heap that holds the chunk's string constants
// (Add interns string concatenations into the same heap).
package vm

import (
	"fmt"
	"io"
	"os"

	"nilan/chunk"
	"nilan/compiler"
	"nilan/debug"
	"nilan/object"
	"nilan/value"
)

// VM owns the value stack, the globals mapping, and the object heap for
// the lifetime of a process. It is not safe for concurrent use; nothing
// here yields or is invoked from more than one goroutine.
type VM struct {
	stack   *stack
	globals map[object.StringHandle]value.Value
	heap    *object.Heap

	ip    int
	chunk *chunk.Chunk

	// Trace, when set, makes Run print the stack and the disassembled
	// instruction before executing each one -- a debug aid, not part
	// of the bytecode contract.
	Trace bool
	Out   io.Writer
}

// New returns a VM with an empty stack at the default capacity, empty
// globals, and a fresh object heap.
func New() *VM {
	return NewWithStackSize(stackMax)
}

// NewWithStackSize is New with a caller-chosen stack capacity (the CLI
// wires internal/config's StackSize through here).
func NewWithStackSize(size int) *VM {
	return &VM{
		stack:   newStack(size),
		globals: make(map[object.StringHandle]value.Value),
		heap:    object.NewHeap(),
		Out:     os.Stdout,
	}
}

// Heap exposes the VM's object heap, the same heap Interpret compiles
// string constants into (the CLI reads its Allocated count for -stats).
func (vm *VM) Heap() *object.Heap { return vm.heap }

// Interpret compiles source and, if that succeeds, runs the resulting
// chunk. The returned error is nil on success, *compiler.CompileError
// on a compile failure, or *RuntimeError on a runtime failure.
func (vm *VM) Interpret(source string) error {
	c, err := compiler.Compile(source, vm.heap)
	if err != nil {
		return err
	}
	return vm.Run(c)
}

// Run executes c to completion. The VM's stack and globals persist
// across calls (a REPL compiles and runs one chunk per line), but the
// instruction pointer and current chunk are reset for each call.
func (vm *VM) Run(c *chunk.Chunk) error {
	vm.chunk = c
	vm.ip = 0

	for {
		if vm.Trace {
			vm.printTrace()
		}

		op := chunk.OpCode(vm.readByte())
		var opErr error

		switch op {
		case chunk.OpConstant:
			opErr = vm.push(c.Constants[vm.readByte()])

		case chunk.OpNil:
			opErr = vm.push(value.Nil)
		case chunk.OpTrue:
			opErr = vm.push(value.Bool(true))
		case chunk.OpFalse:
			opErr = vm.push(value.Bool(false))

		case chunk.OpPop:
			vm.stack.pop()

		case chunk.OpGetGlobal:
			name := vm.readGlobalName()
			v, ok := vm.globals[name]
			if !ok {
				return vm.runtimeError("Undefined variable '%s'.", vm.heap.Deref(name))
			}
			opErr = vm.push(v)

		case chunk.OpDefineGlobal:
			name := vm.readGlobalName()
			vm.globals[name] = vm.stack.pop()

		case chunk.OpSetGlobal:
			name := vm.readGlobalName()
			if _, ok := vm.globals[name]; !ok {
				return vm.runtimeError("Undefined variable '%s'.", vm.heap.Deref(name))
			}
			// assignment is an expression: leave the value on the stack
			vm.globals[name] = vm.stack.peek(0)

		case chunk.OpEqual:
			b := vm.stack.pop()
			a := vm.stack.pop()
			opErr = vm.push(value.Bool(value.Equal(a, b)))

		case chunk.OpGreater:
			opErr = vm.numericCompare(func(a, b float64) bool { return a > b })
		case chunk.OpLess:
			opErr = vm.numericCompare(func(a, b float64) bool { return a < b })

		case chunk.OpAdd:
			opErr = vm.add()
		case chunk.OpSubtract:
			opErr = vm.numericBinary(func(a, b float64) float64 { return a - b })
		case chunk.OpMultiply:
			opErr = vm.numericBinary(func(a, b float64) float64 { return a * b })
		case chunk.OpDivide:
			opErr = vm.numericBinary(func(a, b float64) float64 { return a / b })

		case chunk.OpNot:
			opErr = vm.push(value.Bool(vm.stack.pop().IsFalsy()))

		case chunk.OpNegate:
			if !vm.stack.peek(0).IsNumber() {
				return vm.runtimeError("Operand must be a number.")
			}
			v := vm.stack.pop()
			opErr = vm.push(value.Number(-v.AsNumber()))

		case chunk.OpPrint:
			v := vm.stack.pop()
			fmt.Fprintln(vm.Out, value.Print(v, vm.heap))

		case chunk.OpReturn:
			return nil

		default:
			return vm.runtimeError("Unknown opcode %d.", byte(op))
		}

		if opErr != nil {
			return opErr
		}
	}
}

func (vm *VM) readByte() byte {
	b := vm.chunk.Code[vm.ip]
	vm.ip++
	return b
}

func (vm *VM) readGlobalName() object.StringHandle {
	index := vm.readByte()
	return vm.chunk.Constants[index].AsStringHandle()
}

// push reports a stack-overflow RuntimeError instead of growing the
// stack past its logical capacity.
func (vm *VM) push(v value.Value) error {
	if err := vm.stack.push(v); err != nil {
		err.(*RuntimeError).Line = vm.currentLine()
		fmt.Fprintln(os.Stderr, err.Error())
		vm.stack.reset()
		return err
	}
	return nil
}

func (vm *VM) runtimeError(format string, args ...any) error {
	err := &RuntimeError{Message: fmt.Sprintf(format, args...), Line: vm.currentLine()}
	fmt.Fprintln(os.Stderr, err.Error())
	vm.stack.reset()
	return err
}

func (vm *VM) currentLine() int {
	return vm.chunk.Lines[vm.ip-1]
}

// numericBinary implements Subtract/Multiply/Divide: both operands must
// be Number, checked before either is popped so a type mismatch leaves
// the stack untouched (the runtime-error path clears it regardless).
func (vm *VM) numericBinary(op func(a, b float64) float64) error {
	b := vm.stack.peek(0)
	a := vm.stack.peek(1)
	if !a.IsNumber() || !b.IsNumber() {
		return vm.runtimeError("Operands must be numbers.")
	}
	vm.stack.pop()
	vm.stack.pop()
	return vm.push(value.Number(op(a.AsNumber(), b.AsNumber())))
}

func (vm *VM) numericCompare(op func(a, b float64) bool) error {
	b := vm.stack.peek(0)
	a := vm.stack.peek(1)
	if !a.IsNumber() || !b.IsNumber() {
		return vm.runtimeError("Operands must be numbers.")
	}
	vm.stack.pop()
	vm.stack.pop()
	return vm.push(value.Bool(op(a.AsNumber(), b.AsNumber())))
}

// add implements Add: Number+Number sums, String+String interns the
// concatenation, anything else is a type error. Both operands are
// peeked -- never popped -- until the match against one of the two
// accepted type pairs succeeds.
func (vm *VM) add() error {
	b := vm.stack.peek(0)
	a := vm.stack.peek(1)

	switch {
	case a.IsNumber() && b.IsNumber():
		vm.stack.pop()
		vm.stack.pop()
		return vm.push(value.Number(a.AsNumber() + b.AsNumber()))
	case a.IsString() && b.IsString():
		vm.stack.pop()
		vm.stack.pop()
		concatenated := vm.heap.Deref(a.AsStringHandle()) + vm.heap.Deref(b.AsStringHandle())
		return vm.push(value.String(vm.heap.Intern(concatenated)))
	default:
		return vm.runtimeError("Operands must be two numbers or two strings.")
	}
}

func (vm *VM) printTrace() {
	fmt.Fprint(vm.Out, "          ")
	for _, v := range vm.stack.values {
		fmt.Fprintf(vm.Out, "[ %s ]", value.Print(v, vm.heap))
	}
	fmt.Fprintln(vm.Out)
	line, _ := debug.DisassembleInstruction(vm.chunk, vm.ip, vm.heap)
	fmt.Fprintln(vm.Out, line)
}
