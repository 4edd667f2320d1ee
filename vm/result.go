package vm

import "fmt"

// InterpretResult is the status returned by Interpret.
type InterpretResult int

const (
	InterpretOK InterpretResult = iota
	// InterpretCompileError is reserved for a front end; the VM never returns it.
	InterpretCompileError
	InterpretRuntimeError
)

// String returns the status name.
func (r InterpretResult) String() string {
	switch r {
	case InterpretOK:
		return "OK"
	case InterpretCompileError:
		return "COMPILE_ERROR"
	case InterpretRuntimeError:
		return "RUNTIME_ERROR"
	default:
		return fmt.Sprintf("InterpretResult(%d)", int(r))
	}
}

// ExitCode maps the status to a sysexits-style process exit code.
func (r InterpretResult) ExitCode() int {
	switch r {
	case InterpretOK:
		return 0
	case InterpretCompileError:
		return 65 // EX_DATAERR
	default:
		return 70 // EX_SOFTWARE
	}
}
