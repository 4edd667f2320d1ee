package vm

import (
	"fmt"
	"io"

	"github.com/tliron/commonlog"

	"github.com/chazu/loxvm/pkg/bytecode"
)

var log = commonlog.GetLogger("loxvm.vm")

// VM executes bytecode chunks.
type VM struct {
	// Current execution state
	chunk *bytecode.Chunk  // Borrowed for the duration of one Run
	ip    int              // Offset of the next byte to decode
	stack []bytecode.Value // Fixed-capacity value stack
	sp    int              // Stack pointer: index of the next free slot

	// Outcome of the last Interpret call
	result bytecode.Value
	err    error

	// Debug/trace mode
	Trace    bool
	traceOut io.Writer
}

// NewVM creates a VM with the default configuration.
func NewVM() *VM {
	return NewVMWithConfig(DefaultConfig())
}

// NewVMWithConfig creates a VM from cfg. A non-positive StackMax is a
// programming error and panics; it is not reported as a runtime error.
func NewVMWithConfig(cfg Config) *VM {
	if cfg.StackMax <= 0 {
		panic(fmt.Sprintf("vm: stack capacity must be positive, got %d", cfg.StackMax))
	}
	return &VM{
		stack:    make([]bytecode.Value, cfg.StackMax),
		Trace:    cfg.Trace,
		traceOut: cfg.traceWriter(),
	}
}

// Interpret runs chunk to completion and reports the outcome as a status.
// The returned value is available from Result and a failure from Err.
// Reporting a failure to the user is left to the caller; the VM only
// records it at Debug level.
func (vm *VM) Interpret(chunk *bytecode.Chunk) InterpretResult {
	vm.result, vm.err = vm.Run(chunk)
	if vm.err != nil {
		if rerr, ok := IsRuntimeError(vm.err); ok {
			log.Debug(rerr.Err.Error(), "offset", rerr.Offset, "op", rerr.Op.String(), "line", rerr.Line)
		} else {
			log.Debugf("%s", vm.err)
		}
		return InterpretRuntimeError
	}
	log.Infof("interpret ok: %d bytes, result %s", chunk.CodeLen(), vm.result)
	return InterpretOK
}

// Run executes chunk and returns the value popped by RETURN.
// Failures are returned as *RuntimeError. The stack is reset before every
// run and after every failure.
func (vm *VM) Run(chunk *bytecode.Chunk) (bytecode.Value, error) {
	vm.resetStack()
	vm.ip = 0
	if chunk == nil {
		return bytecode.Value{}, &RuntimeError{Err: ErrNilChunk}
	}

	vm.chunk = chunk
	defer func() { vm.chunk = nil }()

	result, err := vm.run()
	if err != nil {
		vm.resetStack()
		return bytecode.Value{}, err
	}
	return result, nil
}

// Result returns the value produced by the last successful Interpret.
func (vm *VM) Result() bytecode.Value {
	return vm.result
}

// Err returns the error from the last Interpret, or nil.
func (vm *VM) Err() error {
	return vm.err
}

// Stack returns a copy of the live stack, bottom first.
func (vm *VM) Stack() []bytecode.Value {
	out := make([]bytecode.Value, vm.sp)
	copy(out, vm.stack[:vm.sp])
	return out
}

// StackDepth returns the number of values on the stack.
func (vm *VM) StackDepth() int {
	return vm.sp
}

// Free drops all execution state. The VM may be used again afterwards.
func (vm *VM) Free() {
	vm.resetStack()
	vm.chunk = nil
	vm.ip = 0
	vm.result = bytecode.Value{}
	vm.err = nil
}

// run is the main execution loop.
func (vm *VM) run() (bytecode.Value, error) {
	code := vm.chunk.Code
	for {
		if vm.ip >= len(code) {
			return bytecode.Value{}, &RuntimeError{
				Line:   vm.chunk.LineAt(len(code) - 1),
				Offset: vm.ip,
				Err:    ErrUnexpectedEnd,
			}
		}

		start := vm.ip
		if vm.Trace {
			vm.traceInstruction(start)
		}

		op := bytecode.Opcode(code[vm.ip])
		vm.ip++

		// Stack effects come from the opcode table, so every instruction
		// is checked against underflow and overflow before it runs.
		info, ok := bytecode.LookupOpcode(byte(op))
		if !ok {
			return bytecode.Value{}, vm.fail(start, op,
				fmt.Errorf("%w: 0x%02X", ErrUnknownOpcode, byte(op)))
		}
		if vm.sp < info.StackPop {
			return bytecode.Value{}, vm.fail(start, op,
				fmt.Errorf("%w: %s needs %d operands, stack has %d", ErrStackUnderflow, op, info.StackPop, vm.sp))
		}
		if vm.sp-info.StackPop+info.StackPush > len(vm.stack) {
			return bytecode.Value{}, vm.fail(start, op,
				fmt.Errorf("%w: capacity %d", ErrStackOverflow, len(vm.stack)))
		}

		switch op {
		// ============ Constants ============
		case bytecode.OpConstant:
			if vm.ip >= len(code) {
				return bytecode.Value{}, vm.fail(start, op, ErrTruncatedInstruction)
			}
			idx := int(code[vm.ip])
			vm.ip++
			value, ok := vm.chunk.GetConstant(idx)
			if !ok {
				return bytecode.Value{}, vm.fail(start, op,
					fmt.Errorf("%w: index %d, pool size %d", ErrConstantIndex, idx, vm.chunk.ConstantCount()))
			}
			if err := vm.push(value); err != nil {
				return bytecode.Value{}, vm.fail(start, op, err)
			}

		// ============ Arithmetic ============
		case bytecode.OpAdd, bytecode.OpSubtract, bytecode.OpMultiply, bytecode.OpDivide:
			if err := vm.binaryOp(op); err != nil {
				return bytecode.Value{}, vm.fail(start, op, err)
			}

		case bytecode.OpNegate:
			v, err := vm.pop()
			if err != nil {
				return bytecode.Value{}, vm.fail(start, op, err)
			}
			if !v.IsNumber() {
				return bytecode.Value{}, vm.fail(start, op,
					fmt.Errorf("%w: got %s", ErrOperandNotNumber, v.Type))
			}
			if err := vm.push(bytecode.NumberValue(-v.AsNumber())); err != nil {
				return bytecode.Value{}, vm.fail(start, op, err)
			}

		// ============ Return ============
		case bytecode.OpReturn:
			v, err := vm.pop()
			if err != nil {
				return bytecode.Value{}, vm.fail(start, op, err)
			}
			return v, nil

		default:
			return bytecode.Value{}, vm.fail(start, op,
				fmt.Errorf("%w: 0x%02X", ErrUnknownOpcode, byte(op)))
		}
	}
}

// binaryOp pops the right operand, then the left, and pushes left op right.
func (vm *VM) binaryOp(op bytecode.Opcode) error {
	b, err := vm.pop()
	if err != nil {
		return err
	}
	a, err := vm.pop()
	if err != nil {
		return err
	}
	if !a.IsNumber() || !b.IsNumber() {
		return fmt.Errorf("%w: got %s and %s", ErrOperandsNotNumbers, a.Type, b.Type)
	}

	x, y := a.AsNumber(), b.AsNumber()
	var r float64
	switch op {
	case bytecode.OpAdd:
		r = x + y
	case bytecode.OpSubtract:
		r = x - y
	case bytecode.OpMultiply:
		r = x * y
	case bytecode.OpDivide:
		r = x / y
	}
	return vm.push(bytecode.NumberValue(r))
}

func (vm *VM) fail(offset int, op bytecode.Opcode, err error) error {
	return &RuntimeError{
		Line:   vm.chunk.LineAt(offset),
		Offset: offset,
		Op:     op,
		Err:    err,
	}
}

// Stack helpers

func (vm *VM) push(val bytecode.Value) error {
	if vm.sp >= len(vm.stack) {
		return fmt.Errorf("%w: capacity %d", ErrStackOverflow, len(vm.stack))
	}
	vm.stack[vm.sp] = val
	vm.sp++
	return nil
}

func (vm *VM) pop() (bytecode.Value, error) {
	if vm.sp == 0 {
		return bytecode.Value{}, ErrStackUnderflow
	}
	vm.sp--
	val := vm.stack[vm.sp]
	vm.stack[vm.sp] = bytecode.Value{}
	return val, nil
}

func (vm *VM) resetStack() {
	for i := 0; i < vm.sp; i++ {
		vm.stack[i] = bytecode.Value{}
	}
	vm.sp = 0
}
