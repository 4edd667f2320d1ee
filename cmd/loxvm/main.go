// loxvm CLI - runs bytecode chunks on the loxvm stack machine
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
	"github.com/tliron/kutil/util"

	"github.com/chazu/loxvm/config"
)

// Exit codes follow sysexits.h.
const (
	exitOK           = 0
	exitCompileError = 65
	exitRuntimeError = 70
	exitIOError      = 74
	exitConfigError  = 78
)

var log = commonlog.GetLogger("loxvm.cli")

// countFlag is a flag.Value that counts how many times it was given.
type countFlag int

func (c *countFlag) String() string { return strconv.Itoa(int(*c)) }

func (c *countFlag) Set(s string) error {
	// -v=3 sets the level directly, bare -v increments it
	if s == "true" {
		*c++
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid verbosity %q", s)
	}
	*c = countFlag(n)
	return nil
}

func (c *countFlag) IsBoolFlag() bool { return true }

func main() {
	var verbose countFlag
	flag.Var(&verbose, "v", "Increase log verbosity (repeatable)")
	trace := flag.Bool("trace", false, "Print the stack and each instruction as it executes")
	disasm := flag.Bool("disasm", false, "Print a disassembly of each chunk before running it")
	output := flag.String("o", "", "Write the chunk as CBOR to `file` instead of running it")
	configPath := flag.String("config", "", "Read configuration from `file` instead of searching for loxvm.toml")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: loxvm [options] [chunk files...]\n\n")
		fmt.Fprintf(os.Stderr, "Runs CBOR-encoded bytecode chunks. With no files, runs the built-in driver program.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  loxvm                     # Run the driver program, prints 1\n")
		fmt.Fprintf(os.Stderr, "  loxvm -disasm -trace      # Same, with disassembly and execution trace\n")
		fmt.Fprintf(os.Stderr, "  loxvm -o driver.lxbc      # Write the driver chunk to a file\n")
		fmt.Fprintf(os.Stderr, "  loxvm -v -v driver.lxbc   # Run a chunk file with debug logging\n")
	}
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		util.Exit(configExitCode(err))
	}

	cfg.ConfigureLogging(int(verbose))

	opts := cfg.VMOptions()
	if *trace {
		opts.Trace = true
	}

	app := &app{
		vmConfig: opts,
		disasm:   *disasm,
		output:   *output,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
	util.Exit(app.run(flag.Args()))
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFile(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return config.Default(), nil
	}
	return config.FindAndLoad(wd)
}

// configExitCode tells an unreadable config file apart from a bad one.
func configExitCode(err error) int {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return exitIOError
	}
	return exitConfigError
}
