package bytecode

import (
	"errors"
	"testing"
)

func TestNewChunk(t *testing.T) {
	c := NewChunk()

	if c.Version != BytecodeVersion {
		t.Errorf("Version = %d, want %d", c.Version, BytecodeVersion)
	}
	if c.Code == nil {
		t.Error("Code is nil")
	}
	if c.Constants == nil {
		t.Error("Constants is nil")
	}
	if c.Lines == nil {
		t.Error("Lines is nil")
	}
	if c.CodeLen() != 0 || c.ConstantCount() != 0 {
		t.Errorf("new chunk not empty: code=%d constants=%d", c.CodeLen(), c.ConstantCount())
	}
}

func TestChunkAddConstant(t *testing.T) {
	c := NewChunk()

	idx0, err := c.AddConstant(NumberValue(1.2))
	if err != nil {
		t.Fatalf("AddConstant: %v", err)
	}
	if idx0 != 0 {
		t.Errorf("First constant index = %d, want 0", idx0)
	}

	idx1, err := c.AddConstant(NumberValue(3.4))
	if err != nil {
		t.Fatalf("AddConstant: %v", err)
	}
	if idx1 != 1 {
		t.Errorf("Second constant index = %d, want 1", idx1)
	}

	// Duplicates get their own slot
	idx2, err := c.AddConstant(NumberValue(1.2))
	if err != nil {
		t.Fatalf("AddConstant: %v", err)
	}
	if idx2 != 2 {
		t.Errorf("Duplicate constant index = %d, want 2", idx2)
	}

	if c.ConstantCount() != 3 {
		t.Errorf("ConstantCount() = %d, want 3", c.ConstantCount())
	}

	v, ok := c.GetConstant(1)
	if !ok || v.AsNumber() != 3.4 {
		t.Errorf("GetConstant(1) = %v, %v; want 3.4, true", v, ok)
	}
	if _, ok := c.GetConstant(3); ok {
		t.Error("GetConstant(3) should be out of range")
	}
	if _, ok := c.GetConstant(-1); ok {
		t.Error("GetConstant(-1) should be out of range")
	}
}

func TestChunkAddConstantOverflow(t *testing.T) {
	c := NewChunk()
	for i := 0; i < MaxConstants; i++ {
		idx, err := c.AddConstant(NumberValue(float64(i)))
		if err != nil {
			t.Fatalf("AddConstant(%d): %v", i, err)
		}
		if idx != i {
			t.Fatalf("AddConstant(%d) index = %d", i, idx)
		}
	}

	_, err := c.AddConstant(NumberValue(256))
	if !errors.Is(err, ErrConstantPoolOverflow) {
		t.Fatalf("expected ErrConstantPoolOverflow, got %v", err)
	}
	if c.ConstantCount() != MaxConstants {
		t.Errorf("pool grew past limit: %d", c.ConstantCount())
	}

	// EmitConstant must not write a half instruction on overflow
	before := c.CodeLen()
	if _, err := c.EmitConstant(NumberValue(1), 1); !errors.Is(err, ErrConstantPoolOverflow) {
		t.Fatalf("EmitConstant: expected ErrConstantPoolOverflow, got %v", err)
	}
	if c.CodeLen() != before {
		t.Errorf("EmitConstant wrote %d bytes on overflow", c.CodeLen()-before)
	}
}

func TestChunkWrite(t *testing.T) {
	c := NewChunk()

	off0 := c.WriteOp(OpConstant, 1)
	off1 := c.Write(0, 1)
	off2 := c.WriteOp(OpNegate, 2)
	off3 := c.WriteOp(OpReturn, 3)

	for i, off := range []int{off0, off1, off2, off3} {
		if off != i {
			t.Errorf("write %d returned offset %d", i, off)
		}
	}

	if c.CodeLen() != 4 {
		t.Fatalf("CodeLen() = %d, want 4", c.CodeLen())
	}
	if len(c.Lines) != len(c.Code) {
		t.Fatalf("len(Lines) = %d, len(Code) = %d", len(c.Lines), len(c.Code))
	}

	wantLines := []int{1, 1, 2, 3}
	for i, want := range wantLines {
		if got := c.LineAt(i); got != want {
			t.Errorf("LineAt(%d) = %d, want %d", i, got, want)
		}
	}
	if c.LineAt(4) != 0 || c.LineAt(-1) != 0 {
		t.Error("LineAt out of range should be 0")
	}

	if Opcode(c.Code[0]) != OpConstant {
		t.Errorf("Code[0] = 0x%02X, want OpConstant", c.Code[0])
	}
	if Opcode(c.Code[3]) != OpReturn {
		t.Errorf("Code[3] = 0x%02X, want OpReturn", c.Code[3])
	}
}

func TestChunkEmitConstant(t *testing.T) {
	c := NewChunk()
	off, err := c.EmitConstant(NumberValue(5.6), 7)
	if err != nil {
		t.Fatalf("EmitConstant: %v", err)
	}
	if off != 0 {
		t.Errorf("offset = %d, want 0", off)
	}
	if c.CodeLen() != 2 {
		t.Fatalf("CodeLen() = %d, want 2", c.CodeLen())
	}
	if Opcode(c.Code[0]) != OpConstant || c.Code[1] != 0 {
		t.Errorf("Code = %v, want [CONSTANT 0]", c.Code)
	}
	if c.Lines[0] != 7 || c.Lines[1] != 7 {
		t.Errorf("Lines = %v, want [7 7]", c.Lines)
	}
}

func TestChunkReset(t *testing.T) {
	c := NewChunk()
	c.EmitConstant(NumberValue(1), 1)
	c.WriteOp(OpReturn, 1)

	c.Reset()

	if c.CodeLen() != 0 || c.ConstantCount() != 0 || len(c.Lines) != 0 {
		t.Errorf("Reset left code=%d constants=%d lines=%d", c.CodeLen(), c.ConstantCount(), len(c.Lines))
	}

	// A reset chunk is reusable
	c.WriteOp(OpReturn, 2)
	if c.CodeLen() != 1 || c.LineAt(0) != 2 {
		t.Errorf("chunk not reusable after Reset")
	}
}

func TestChunkValidate(t *testing.T) {
	valid := NewChunk()
	valid.EmitConstant(NumberValue(1.2), 1)
	valid.EmitConstant(NumberValue(3.4), 1)
	valid.WriteOp(OpAdd, 1)
	valid.WriteOp(OpReturn, 1)
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate on well-formed chunk: %v", err)
	}

	if err := NewChunk().Validate(); err != nil {
		t.Fatalf("Validate on empty chunk: %v", err)
	}

	tests := []struct {
		name  string
		build func() *Chunk
	}{
		{"line mismatch", func() *Chunk {
			c := NewChunk()
			c.WriteOp(OpReturn, 1)
			c.Lines = append(c.Lines, 2)
			return c
		}},
		{"unknown opcode", func() *Chunk {
			c := NewChunk()
			c.Write(0xEE, 1)
			return c
		}},
		{"truncated constant", func() *Chunk {
			c := NewChunk()
			c.AddConstant(NumberValue(1))
			c.WriteOp(OpConstant, 1)
			return c
		}},
		{"constant index out of range", func() *Chunk {
			c := NewChunk()
			c.AddConstant(NumberValue(1))
			c.WriteOp(OpConstant, 1)
			c.Write(5, 1)
			return c
		}},
		{"future version", func() *Chunk {
			c := NewChunk()
			c.Version = BytecodeVersion + 1
			return c
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build().Validate()
			if !errors.Is(err, ErrMalformedChunk) {
				t.Errorf("Validate() = %v, want ErrMalformedChunk", err)
			}
		})
	}
}
