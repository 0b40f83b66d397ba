package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"nilan/compiler"
	"nilan/debug"
	"nilan/object"
)

type disassembleCmd struct{}

func (*disassembleCmd) Name() string     { return "disassemble" }
func (*disassembleCmd) Synopsis() string { return "Compile a source file and print its bytecode" }
func (*disassembleCmd) Usage() string {
	return `disassemble <file>:
  Compile a nilan source file and print the disassembled chunk without
  running it.
`
}

func (*disassembleCmd) SetFlags(*flag.FlagSet) {}

func (*disassembleCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "disassemble: expected exactly one file argument")
		return exitUsage
	}

	source, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "disassemble: %v\n", err)
		return exitUsage
	}

	heap := object.NewHeap()
	c, err := compiler.Compile(string(source), heap)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		return exitCompileError
	}

	fmt.Print(debug.Disassemble(c, args[0], heap))
	return exitOk
}
