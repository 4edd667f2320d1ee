package bytecode

import (
	"fmt"
	"strconv"
)

// ValueType tags the variant held by a Value.
type ValueType uint8

const (
	ValNil ValueType = iota
	ValBool
	ValNumber
)

// String returns a human-readable name for ValueType.
func (t ValueType) String() string {
	switch t {
	case ValNil:
		return "nil"
	case ValBool:
		return "bool"
	case ValNumber:
		return "number"
	default:
		return fmt.Sprintf("ValueType(%d)", t)
	}
}

// Value is a runtime value. The zero Value is nil.
type Value struct {
	Type ValueType
	num  float64
	b    bool
}

// NumberValue wraps a float64.
func NumberValue(n float64) Value {
	return Value{Type: ValNumber, num: n}
}

// BoolValue wraps a bool.
func BoolValue(b bool) Value {
	return Value{Type: ValBool, b: b}
}

// NilValue returns the nil value.
func NilValue() Value {
	return Value{}
}

func (v Value) IsNumber() bool { return v.Type == ValNumber }
func (v Value) IsBool() bool   { return v.Type == ValBool }
func (v Value) IsNil() bool    { return v.Type == ValNil }

// AsNumber returns the number held by v. It returns 0 for other variants;
// callers check IsNumber first.
func (v Value) AsNumber() float64 {
	if v.Type != ValNumber {
		return 0
	}
	return v.num
}

// AsBool returns the bool held by v, or false for other variants.
func (v Value) AsBool() bool {
	if v.Type != ValBool {
		return false
	}
	return v.b
}

// Equal compares variant and payload. Numbers compare with ==, so NaN is
// not equal to itself.
func (v Value) Equal(o Value) bool {
	if v.Type != o.Type {
		return false
	}
	switch v.Type {
	case ValNil:
		return true
	case ValBool:
		return v.b == o.b
	case ValNumber:
		return v.num == o.num
	default:
		return false
	}
}

// String formats the value for printing. Numbers follow C's %g: six
// significant digits, exponent form for very large or small magnitudes.
func (v Value) String() string {
	switch v.Type {
	case ValNil:
		return "nil"
	case ValBool:
		return strconv.FormatBool(v.b)
	case ValNumber:
		return strconv.FormatFloat(v.num, 'g', 6, 64)
	default:
		return fmt.Sprintf("<invalid value type %d>", v.Type)
	}
}
