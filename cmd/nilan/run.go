package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"nilan/compiler"
	"nilan/internal/config"
	"nilan/vm"
)

// Exit codes per the CLI surface: 0 Ok, 65 CompileError, 70 RuntimeError,
// 64 usage error.
const (
	exitOk           subcommands.ExitStatus = 0
	exitUsage        subcommands.ExitStatus = 64
	exitCompileError subcommands.ExitStatus = 65
	exitRuntimeError subcommands.ExitStatus = 70
)

type runCmd struct {
	trace     bool
	stats     bool
	stackSize int
	rcPath    string
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "Compile and execute a nilan source file" }
func (*runCmd) Usage() string {
	return `run <file>:
  Compile and execute a single nilan source file.
`
}

func (cmd *runCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.trace, "trace", false, "print the stack and the current instruction before executing it")
	f.BoolVar(&cmd.stats, "stats", false, "print heap byte usage to stderr after the program finishes")
	f.IntVar(&cmd.stackSize, "stack-size", 0, "override the VM's logical stack capacity (0 = use .nilanrc.yaml or the default)")
	f.StringVar(&cmd.rcPath, "rc", ".nilanrc.yaml", "path to the CLI's preference file")
}

func (cmd *runCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	args := f.Args()
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "run: expected exactly one file argument")
		return exitUsage
	}

	source, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "run: %v\n", err)
		return exitUsage
	}

	cfg, err := config.Load(cmd.rcPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "run: reading %s: %v\n", cmd.rcPath, err)
		return exitUsage
	}
	if cmd.stackSize > 0 {
		cfg.StackSize = cmd.stackSize
	}

	machine := vm.NewWithStackSize(cfg.StackSize)
	machine.Trace = cmd.trace || cfg.Trace

	runErr := machine.Interpret(string(source))

	if cmd.stats {
		fmt.Fprintf(os.Stderr, "heap: %d bytes interned\n", machine.Heap().Allocated())
	}

	if runErr != nil {
		if _, ok := runErr.(*compiler.CompileError); ok {
			fmt.Fprintln(os.Stderr, runErr.Error())
			return exitCompileError
		}
		// *vm.RuntimeError has already been written to stderr by the VM.
		return exitRuntimeError
	}
	return exitOk
}
