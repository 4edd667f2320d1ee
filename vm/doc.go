// Package vm implements the loxvm virtual machine.
//
// This package contains:
//   - A bounded value stack with explicit overflow and underflow errors
//   - The fetch-decode-execute loop over a bytecode.Chunk
//   - Runtime error reporting with source lines
//   - An optional instruction trace
//
// A VM is not safe for concurrent use. The chunk it runs is only read, so
// one chunk may be handed to several VMs.
package vm
