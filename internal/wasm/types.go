// Package wasm describes the static shape of a WebAssembly module: value
// and function types, the module's sections, and the opcode set the
// decoder and emitter agree on. It deliberately does not implement module
// instantiation, linking, or execution — those are external collaborators
// per the emitter's scope.
package wasm

import (
	"fmt"
	"strings"
)

// ValueType is a tagged enum of the value types the emitter has to move
// in and out of the operand stack. "any" is a polymorphic placeholder used
// during validation only and never appears in a well-formed FunctionType.
type ValueType byte

const (
	ValueTypeI32 ValueType = 0x7f
	ValueTypeI64 ValueType = 0x7e
	ValueTypeF32 ValueType = 0x7d
	ValueTypeF64 ValueType = 0x7c
	ValueTypeV128 ValueType = 0x7b
	// ValueTypeAny is never decoded from a module; the emitter's own
	// control-flow stack uses it as a wildcard while unreachable.
	ValueTypeAny ValueType = 0x00
)

func (v ValueType) String() string {
	switch v {
	case ValueTypeI32:
		return "i32"
	case ValueTypeI64:
		return "i64"
	case ValueTypeF32:
		return "f32"
	case ValueTypeF64:
		return "f64"
	case ValueTypeV128:
		return "v128"
	case ValueTypeAny:
		return "any"
	default:
		return fmt.Sprintf("0x%x", byte(v))
	}
}

// Size returns the value type's width in bytes, used for alignment checks
// on memory and atomic operators.
func (v ValueType) Size() uint32 {
	switch v {
	case ValueTypeI32, ValueTypeF32:
		return 4
	case ValueTypeI64, ValueTypeF64:
		return 8
	case ValueTypeV128:
		return 16
	default:
		panic(fmt.Errorf("BUG: no size for value type %s", v))
	}
}

// FunctionType is an ordered sequence of parameter types and an ordered
// sequence of result types. Two FunctionTypes are equal iff their
// Params and Results are pointwise equal.
type FunctionType struct {
	Params, Results []ValueType
}

func (t *FunctionType) String() string {
	var b strings.Builder
	b.WriteByte('(')
	for i, p := range t.Params {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.String())
	}
	b.WriteString(")->(")
	for i, r := range t.Results {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(r.String())
	}
	b.WriteByte(')')
	return b.String()
}

// Equal reports whether t and o describe the same signature.
func (t *FunctionType) Equal(o *FunctionType) bool {
	if len(t.Params) != len(o.Params) || len(t.Results) != len(o.Results) {
		return false
	}
	for i, p := range t.Params {
		if p != o.Params[i] {
			return false
		}
	}
	for i, r := range t.Results {
		if r != o.Results[i] {
			return false
		}
	}
	return true
}

// Index is an index into one of a module's index spaces (function, type,
// global, table, memory, exception).
type Index = uint32
