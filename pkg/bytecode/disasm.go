package bytecode

import (
	"fmt"
	"strings"
)

// Disassemble returns a human-readable bytecode listing for the chunk.
func (c *Chunk) Disassemble() string {
	return c.DisassembleWithName("")
}

// DisassembleWithName returns a human-readable bytecode listing with a name header.
func (c *Chunk) DisassembleWithName(name string) string {
	var sb strings.Builder

	// Header
	if name != "" {
		sb.WriteString(fmt.Sprintf("== %s ==\n", name))
	}
	sb.WriteString(fmt.Sprintf("; loxvm bytecode v%d\n", c.Version))

	// Constants
	if len(c.Constants) > 0 {
		sb.WriteString("; Constants:\n")
		for i, v := range c.Constants {
			sb.WriteString(fmt.Sprintf(";   [%3d] %-8s %s\n", i, v.Type, v))
		}
	}

	// Code section
	sb.WriteString("; Code:\n")
	offset := 0
	for offset < len(c.Code) {
		line, instrLen := c.FormatInstruction(offset)
		sb.WriteString(line)
		sb.WriteString("\n")
		offset += instrLen
	}

	return sb.String()
}

// FormatInstruction renders the instruction at offset as a listing line:
// offset, source line (or "|" when unchanged from the previous byte) and
// the decoded instruction. Returns the line and the instruction length.
func (c *Chunk) FormatInstruction(offset int) (string, int) {
	text, instrLen := c.disassembleInstruction(offset)

	lineCol := "   |"
	if offset == 0 || c.LineAt(offset) != c.LineAt(offset-1) {
		lineCol = fmt.Sprintf("%4d", c.LineAt(offset))
	}
	return fmt.Sprintf("%04d %s %s", offset, lineCol, text), instrLen
}

// disassembleInstruction disassembles a single instruction at the given offset.
// Returns the formatted string and the instruction length. The length is
// always at least 1 while offset is inside the code, so listings terminate
// on malformed input.
func (c *Chunk) disassembleInstruction(offset int) (string, int) {
	if offset >= len(c.Code) {
		return "<end of code>", 0
	}

	op := Opcode(c.Code[offset])
	info, ok := LookupOpcode(byte(op))
	if !ok {
		return op.String(), 1
	}

	switch op {
	case OpConstant:
		if offset+1 >= len(c.Code) {
			return fmt.Sprintf("%-16s <truncated>", info.Name), len(c.Code) - offset
		}
		idx := int(c.Code[offset+1])
		constVal := "<out of range>"
		if v, ok := c.GetConstant(idx); ok {
			constVal = v.String()
		}
		return fmt.Sprintf("%-16s %4d '%s'", info.Name, idx, constVal), 2

	default:
		return info.Name, op.InstructionLen()
	}
}

// DisassembleInstruction returns a human-readable representation of a single instruction.
func (c *Chunk) DisassembleInstruction(offset int) string {
	line, _ := c.disassembleInstruction(offset)
	return line
}

// DisassembleToLines returns the disassembly as a slice of lines.
func (c *Chunk) DisassembleToLines() []string {
	var lines []string
	offset := 0
	for offset < len(c.Code) {
		line, instrLen := c.FormatInstruction(offset)
		lines = append(lines, line)
		offset += instrLen
	}
	return lines
}

// InstructionCount returns the number of instructions in the chunk.
// Note: This iterates through all code, so it's O(n).
func (c *Chunk) InstructionCount() int {
	count := 0
	offset := 0
	for offset < len(c.Code) {
		_, instrLen := c.disassembleInstruction(offset)
		offset += instrLen
		count++
	}
	return count
}
