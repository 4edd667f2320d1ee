package vm

import (
	"errors"
	"fmt"

	"github.com/chazu/loxvm/pkg/bytecode"
)

var (
	ErrStackUnderflow       = errors.New("stack underflow")
	ErrStackOverflow        = errors.New("stack overflow")
	ErrTruncatedInstruction = errors.New("instruction truncated")
	ErrConstantIndex        = errors.New("constant index out of range")
	ErrOperandsNotNumbers   = errors.New("operands must be numbers")
	ErrOperandNotNumber     = errors.New("operand must be a number")
	ErrUnknownOpcode        = errors.New("unknown opcode")
	ErrUnexpectedEnd        = errors.New("unexpected end of bytecode")
	ErrNilChunk             = errors.New("nil chunk")
)

// RuntimeError reports a failure inside the execution loop. Line is the
// source line of the failing instruction's opcode byte.
type RuntimeError struct {
	Line   int
	Offset int
	Op     bytecode.Opcode
	Err    error
}

func (e *RuntimeError) Error() string {
	if errors.Is(e.Err, ErrUnexpectedEnd) || errors.Is(e.Err, ErrNilChunk) {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d: %s at offset %04d: %v", e.Line, e.Op, e.Offset, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// IsRuntimeError checks if an error came from the execution loop.
func IsRuntimeError(err error) (*RuntimeError, bool) {
	var rerr *RuntimeError
	if errors.As(err, &rerr) {
		return rerr, true
	}
	return nil, false
}
