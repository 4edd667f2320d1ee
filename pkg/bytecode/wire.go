package bytecode

import (
	"fmt"
	"os"

	"github.com/fxamacker/cbor/v2"
)

// ChunkMagic identifies a serialized chunk: "LXBC" (loxvm bytecode).
const ChunkMagic = "LXBC"

var (
	cborEncMode cbor.EncMode
	cborDecMode cbor.DecMode
)

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("bytecode: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em

	dm, err := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyEnforcedAPF,
		ExtraReturnErrors: cbor.ExtraDecErrorUnknownField,
	}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("bytecode: failed to create CBOR dec mode: %v", err))
	}
	cborDecMode = dm
}

type wireValue struct {
	Type ValueType `cbor:"1,keyasint"`
	Num  float64   `cbor:"2,keyasint"`
	Bool bool      `cbor:"3,keyasint"`
}

type wireChunk struct {
	Magic     string      `cbor:"1,keyasint"`
	Version   uint16      `cbor:"2,keyasint"`
	Code      []byte      `cbor:"3,keyasint"`
	Lines     []int       `cbor:"4,keyasint"`
	Constants []wireValue `cbor:"5,keyasint"`
}

// MarshalChunk serializes a Chunk to canonical CBOR bytes.
func MarshalChunk(c *Chunk) ([]byte, error) {
	w := wireChunk{
		Magic:     ChunkMagic,
		Version:   c.Version,
		Code:      c.Code,
		Lines:     c.Lines,
		Constants: make([]wireValue, len(c.Constants)),
	}
	for i, v := range c.Constants {
		w.Constants[i] = wireValue{Type: v.Type, Num: v.num, Bool: v.b}
	}
	data, err := cborEncMode.Marshal(&w)
	if err != nil {
		return nil, fmt.Errorf("bytecode: marshal chunk: %w", err)
	}
	return data, nil
}

// UnmarshalChunk deserializes a Chunk from CBOR bytes and validates it.
func UnmarshalChunk(data []byte) (*Chunk, error) {
	var w wireChunk
	if err := cborDecMode.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("bytecode: %w: unmarshal chunk: %w", ErrMalformedChunk, err)
	}
	if w.Magic != ChunkMagic {
		return nil, fmt.Errorf("bytecode: %w: invalid chunk magic: expected %q, got %q", ErrMalformedChunk, ChunkMagic, w.Magic)
	}

	c := &Chunk{
		Version:   w.Version,
		Code:      w.Code,
		Lines:     w.Lines,
		Constants: make([]Value, len(w.Constants)),
	}
	for i, wv := range w.Constants {
		switch wv.Type {
		case ValNil:
			c.Constants[i] = NilValue()
		case ValBool:
			c.Constants[i] = BoolValue(wv.Bool)
		case ValNumber:
			c.Constants[i] = NumberValue(wv.Num)
		default:
			return nil, fmt.Errorf("bytecode: %w: constant %d has invalid type %d", ErrMalformedChunk, i, wv.Type)
		}
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("bytecode: %w", err)
	}
	return c, nil
}

// WriteFile serializes c to path.
func WriteFile(path string, c *Chunk) error {
	data, err := MarshalChunk(c)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	return nil
}

// ReadFile loads and validates a chunk written by WriteFile.
func ReadFile(path string) (*Chunk, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	c, err := UnmarshalChunk(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
