package bytecode

import (
	"errors"
	"fmt"
)

// BytecodeVersion is the current bytecode format version.
// Increment when making incompatible changes to the format.
const BytecodeVersion uint16 = 1

// MaxConstants is the constant pool capacity addressable by a one-byte operand.
const MaxConstants = 256

var (
	// ErrConstantPoolOverflow is returned when a chunk already holds MaxConstants values.
	ErrConstantPoolOverflow = errors.New("constant pool overflow")

	// ErrMalformedChunk is wrapped by every Validate and UnmarshalChunk failure.
	ErrMalformedChunk = errors.New("malformed chunk")
)

// Chunk is a unit of compiled bytecode: the instruction stream, the
// constants it references and a line number for every byte of code.
type Chunk struct {
	Version uint16 // Bytecode format version

	Code      []byte  // Bytecode instructions
	Constants []Value // Constant pool, addressed by OpConstant operands
	Lines     []int   // Lines[i] is the source line of Code[i]
}

// NewChunk creates a new empty chunk with the current version.
func NewChunk() *Chunk {
	return &Chunk{
		Version:   BytecodeVersion,
		Code:      make([]byte, 0, 64),
		Constants: make([]Value, 0, 8),
		Lines:     make([]int, 0, 64),
	}
}

// Write appends a single byte, opcode or operand, together with its line.
// Returns the offset of the byte.
func (c *Chunk) Write(b byte, line int) int {
	offset := len(c.Code)
	c.Code = append(c.Code, b)
	c.Lines = append(c.Lines, line)
	return offset
}

// WriteOp appends an opcode. Returns its offset.
func (c *Chunk) WriteOp(op Opcode, line int) int {
	return c.Write(byte(op), line)
}

// AddConstant appends a value to the constant pool and returns its index.
// Duplicates are not folded: every call gets a fresh slot.
func (c *Chunk) AddConstant(value Value) (int, error) {
	if len(c.Constants) >= MaxConstants {
		return 0, fmt.Errorf("%w: %d constants already defined", ErrConstantPoolOverflow, len(c.Constants))
	}
	c.Constants = append(c.Constants, value)
	return len(c.Constants) - 1, nil
}

// EmitConstant adds value to the pool and writes an OpConstant instruction
// loading it. Returns the offset of the instruction.
func (c *Chunk) EmitConstant(value Value, line int) (int, error) {
	idx, err := c.AddConstant(value)
	if err != nil {
		return 0, err
	}
	offset := c.WriteOp(OpConstant, line)
	c.Write(byte(idx), line)
	return offset, nil
}

// GetConstant returns the constant at the given index.
func (c *Chunk) GetConstant(index int) (Value, bool) {
	if index < 0 || index >= len(c.Constants) {
		return Value{}, false
	}
	return c.Constants[index], true
}

// LineAt returns the source line for a bytecode offset, or 0 if the offset
// has no line information.
func (c *Chunk) LineAt(offset int) int {
	if offset < 0 || offset >= len(c.Lines) {
		return 0
	}
	return c.Lines[offset]
}

// CodeLen returns the length of the code section.
func (c *Chunk) CodeLen() int {
	return len(c.Code)
}

// ConstantCount returns the number of constants in the pool.
func (c *Chunk) ConstantCount() int {
	return len(c.Constants)
}

// Reset releases the code, constants and lines, leaving an empty chunk.
func (c *Chunk) Reset() {
	c.Code = nil
	c.Constants = nil
	c.Lines = nil
}

// Validate checks the structural invariants of the chunk: one line per byte,
// only known opcodes, complete operands and in-range constant indices.
// Chunks built through Write and EmitConstant only fail on the last three
// if bytes were written by hand.
func (c *Chunk) Validate() error {
	if len(c.Lines) != len(c.Code) {
		return fmt.Errorf("%w: %d code bytes but %d line entries", ErrMalformedChunk, len(c.Code), len(c.Lines))
	}
	if c.Version > BytecodeVersion {
		return fmt.Errorf("%w: bytecode version %d is newer than supported version %d", ErrMalformedChunk, c.Version, BytecodeVersion)
	}
	if len(c.Constants) > MaxConstants {
		return fmt.Errorf("%w: %d constants exceeds limit of %d", ErrMalformedChunk, len(c.Constants), MaxConstants)
	}

	offset := 0
	for offset < len(c.Code) {
		info, ok := LookupOpcode(c.Code[offset])
		if !ok {
			return fmt.Errorf("%w: unknown opcode 0x%02X at offset %d (line %d)", ErrMalformedChunk, c.Code[offset], offset, c.LineAt(offset))
		}
		if info.OperandLen > 0 && offset+info.OperandLen >= len(c.Code) {
			return fmt.Errorf("%w: %s at offset %d (line %d) is missing its operand", ErrMalformedChunk, info.Name, offset, c.LineAt(offset))
		}
		op := Opcode(c.Code[offset])
		if op == OpConstant {
			idx := int(c.Code[offset+1])
			if idx >= len(c.Constants) {
				return fmt.Errorf("%w: constant index %d at offset %d (line %d) out of range (pool size %d)", ErrMalformedChunk, idx, offset, c.LineAt(offset), len(c.Constants))
			}
		}
		offset += op.InstructionLen()
	}
	return nil
}
