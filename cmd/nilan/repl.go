package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/google/subcommands"

	"nilan/compiler"
	"nilan/internal/config"
	"nilan/vm"
)

type replCmd struct {
	trace     bool
	stackSize int
	rcPath    string
}

func (*replCmd) Name() string     { return "repl" }
func (*replCmd) Synopsis() string { return "Start an interactive nilan session" }
func (*replCmd) Usage() string {
	return `repl:
  Read one line at a time, compile it, and run it against a VM whose
  stack and globals persist for the session.
`
}

func (cmd *replCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&cmd.trace, "trace", false, "print the stack and the current instruction before executing it")
	f.IntVar(&cmd.stackSize, "stack-size", 0, "override the VM's logical stack capacity")
	f.StringVar(&cmd.rcPath, "rc", ".nilanrc.yaml", "path to the CLI's preference file")
}

func (cmd *replCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if len(f.Args()) > 0 {
		fmt.Fprintln(os.Stderr, "repl: takes no arguments")
		return exitUsage
	}

	cfg, err := config.Load(cmd.rcPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "repl: reading %s: %v\n", cmd.rcPath, err)
		return exitUsage
	}
	if cmd.stackSize > 0 {
		cfg.StackSize = cmd.stackSize
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          ">>> ",
		HistoryFile:     historyPath(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "repl: %v\n", err)
		return exitUsage
	}
	defer rl.Close()

	machine := vm.NewWithStackSize(cfg.StackSize)
	machine.Trace = cmd.trace || cfg.Trace

	fmt.Fprintln(rl.Stderr(), "Welcome to Nilan!")

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return exitOk
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "repl: %v\n", err)
			return exitUsage
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		if err := machine.Interpret(line); err != nil {
			if ce, ok := err.(*compiler.CompileError); ok {
				fmt.Fprintln(os.Stderr, ce.Error())
			}
			// runtime errors are already printed by the VM itself.
			continue
		}
	}
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home + "/.nilan_history"
}
