package bytecode

import (
	"strings"
	"testing"
)

func TestDisassembleEmpty(t *testing.T) {
	c := NewChunk()

	output := c.Disassemble()

	if !strings.Contains(output, "loxvm bytecode v1") {
		t.Error("Disassembly missing header")
	}
	if strings.Contains(output, "Constants:") {
		t.Error("Empty chunk should not list constants")
	}
}

func TestDisassembleDriverProgram(t *testing.T) {
	c := NewChunk()
	c.EmitConstant(NumberValue(1.2), 123)
	c.EmitConstant(NumberValue(3.4), 123)
	c.WriteOp(OpAdd, 123)
	c.EmitConstant(NumberValue(5.6), 124)
	c.WriteOp(OpSubtract, 124)
	c.WriteOp(OpNegate, 124)
	c.WriteOp(OpReturn, 125)

	output := c.DisassembleWithName("test chunk")

	if !strings.HasPrefix(output, "== test chunk ==\n") {
		t.Errorf("missing name header:\n%s", output)
	}

	want := []string{
		"0000  123 CONSTANT            0 '1.2'",
		"0002    | CONSTANT            1 '3.4'",
		"0004    | ADD",
		"0005  124 CONSTANT            2 '5.6'",
		"0007    | SUBTRACT",
		"0008    | NEGATE",
		"0009  125 RETURN",
	}
	lines := c.DisassembleToLines()
	if len(lines) != len(want) {
		t.Fatalf("got %d lines, want %d:\n%s", len(lines), len(want), strings.Join(lines, "\n"))
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
		if !strings.Contains(output, want[i]) {
			t.Errorf("full listing missing %q", want[i])
		}
	}

	if !strings.Contains(output, "[  2] number   5.6") {
		t.Errorf("constants section missing 5.6:\n%s", output)
	}
}

func TestDisassembleMalformed(t *testing.T) {
	c := NewChunk()
	c.Write(0xEE, 1)
	c.WriteOp(OpConstant, 1)
	c.Write(9, 1) // no constant 9
	c.WriteOp(OpConstant, 2)

	lines := c.DisassembleToLines()
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), strings.Join(lines, "\n"))
	}
	if !strings.Contains(lines[0], "UNKNOWN(0xEE)") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.Contains(lines[1], "'<out of range>'") {
		t.Errorf("line 1 = %q", lines[1])
	}
	if !strings.Contains(lines[2], "<truncated>") {
		t.Errorf("line 2 = %q", lines[2])
	}
}

func TestDisassembleInstruction(t *testing.T) {
	c := NewChunk()
	c.EmitConstant(BoolValue(true), 1)
	c.WriteOp(OpReturn, 1)

	if got := c.DisassembleInstruction(0); got != "CONSTANT            0 'true'" {
		t.Errorf("DisassembleInstruction(0) = %q", got)
	}
	if got := c.DisassembleInstruction(2); got != "RETURN" {
		t.Errorf("DisassembleInstruction(2) = %q", got)
	}
	if got := c.DisassembleInstruction(3); got != "<end of code>" {
		t.Errorf("DisassembleInstruction(3) = %q", got)
	}
}

func TestInstructionCount(t *testing.T) {
	c := NewChunk()
	c.EmitConstant(NumberValue(1), 1)
	c.WriteOp(OpNegate, 1)
	c.WriteOp(OpReturn, 1)

	if got := c.InstructionCount(); got != 3 {
		t.Errorf("InstructionCount() = %d, want 3", got)
	}
}
