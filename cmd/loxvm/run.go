package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/chazu/loxvm/pkg/bytecode"
	"github.com/chazu/loxvm/vm"
)

// app carries the resolved command-line state.
type app struct {
	vmConfig vm.Config
	disasm   bool
	output   string
	stdout   io.Writer
	stderr   io.Writer
}

// run processes the given chunk files, or the driver program when there are
// none, and returns the process exit code.
func (a *app) run(paths []string) int {
	if len(paths) == 0 {
		c, err := driverChunk()
		if err != nil {
			fmt.Fprintf(a.stderr, "Error: %v\n", err)
			return exitCompileError
		}
		return a.handle("driver", c)
	}

	if a.output != "" && len(paths) > 1 {
		fmt.Fprintf(a.stderr, "Error: -o takes a single input chunk, got %d\n", len(paths))
		return exitIOError
	}

	for _, path := range paths {
		c, err := bytecode.ReadFile(path)
		if err != nil {
			fmt.Fprintf(a.stderr, "Error: %v\n", err)
			if errors.Is(err, bytecode.ErrMalformedChunk) {
				return exitCompileError
			}
			return exitIOError
		}
		if code := a.handle(filepath.Base(path), c); code != exitOK {
			return code
		}
	}
	return exitOK
}

// handle disassembles, writes or interprets a single chunk.
func (a *app) handle(name string, c *bytecode.Chunk) int {
	if a.disasm {
		fmt.Fprint(a.stdout, c.DisassembleWithName(name))
	}

	if a.output != "" {
		if err := bytecode.WriteFile(a.output, c); err != nil {
			fmt.Fprintf(a.stderr, "Error: %v\n", err)
			return exitIOError
		}
		log.Infof("wrote %s (%d bytes of code, %d constants)", a.output, c.CodeLen(), c.ConstantCount())
		return exitOK
	}

	cfg := a.vmConfig
	if cfg.Trace && cfg.TraceWriter == nil {
		cfg.TraceWriter = a.stdout
	}
	machine := vm.NewVMWithConfig(cfg)
	defer machine.Free()

	log.Debugf("interpreting %s", name)
	result := machine.Interpret(c)
	if result != vm.InterpretOK {
		if rerr, ok := vm.IsRuntimeError(machine.Err()); ok {
			fmt.Fprintf(a.stderr, "%v\n[line %d] in script\n", rerr.Err, rerr.Line)
		} else {
			fmt.Fprintf(a.stderr, "%v\n", machine.Err())
		}
		return result.ExitCode()
	}

	fmt.Fprintln(a.stdout, machine.Result().String())
	return exitOK
}
