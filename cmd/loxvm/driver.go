package main

import (
	"github.com/chazu/loxvm/pkg/bytecode"
)

// driverChunk builds -((1.2 + 3.4) - 5.6), all on line 1.
func driverChunk() (*bytecode.Chunk, error) {
	c := bytecode.NewChunk()
	if _, err := c.EmitConstant(bytecode.NumberValue(1.2), 1); err != nil {
		return nil, err
	}
	if _, err := c.EmitConstant(bytecode.NumberValue(3.4), 1); err != nil {
		return nil, err
	}
	c.WriteOp(bytecode.OpAdd, 1)
	if _, err := c.EmitConstant(bytecode.NumberValue(5.6), 1); err != nil {
		return nil, err
	}
	c.WriteOp(bytecode.OpSubtract, 1)
	c.WriteOp(bytecode.OpNegate, 1)
	c.WriteOp(bytecode.OpReturn, 1)
	return c, nil
}
