// Package bytecode defines the chunk format executed by the loxvm virtual
// machine: the instruction stream, its constant pool and the per-byte line
// table used for diagnostics.
//
// The format is designed for:
//   - Compact representation (one byte per opcode, one byte per operand)
//   - Fast decoding (fixed-width opcodes, index-based constant references)
//   - Easy serialization (chunks round-trip through canonical CBOR)
//
// # Architecture Overview
//
//   - Opcodes: single-byte instruction tags grouped in ranges by category
//     (constants, arithmetic, return). Each opcode has an entry in a metadata
//     table giving its name, stack effect and operand width.
//
//   - Value: the runtime value variant. Numbers are float64; nil and bool
//     exist so that operand type checks are meaningful.
//
//   - Chunk: the container. Code, Constants and Lines are growable slices
//     addressed by index. A chunk is written once by its builder and then
//     only read.
//
//   - Disassembler: renders a chunk as text for debugging. Nothing in the
//     execution path depends on it.
//
// # Line Information
//
// Every byte written to Code carries the source line that produced it, so
// Lines always has the same length as Code. Operand bytes repeat the line of
// their opcode.
//
// # Constant Pool Limits
//
// Constant operands are one byte wide, so a chunk holds at most MaxConstants
// values. AddConstant refuses to grow the pool past that point rather than
// letting the index wrap.
package bytecode
