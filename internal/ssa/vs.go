package ssa

import (
	"fmt"
	"math"
)

// valueIDBits is the width, in bits, given to the ValueID portion of a packed Value;
// the remaining high bits hold the Value's Type.
const valueIDBits = 32

// Variable identifies a variable in the source program being compiled, e.g. a
// WebAssembly local. A Variable maps to a changing sequence of SSA Value(s) over the
// lifetime of the function: each store to the variable produces a new Value, and
// Builder.FindValue recovers whichever one is live at the current program point.
type Variable uint32

// String implements fmt.Stringer.
func (v Variable) String() string {
	return fmt.Sprintf("var%d", v)
}

// ValueID is the identity portion of a Value, with its Type bits stripped away. Two
// Value(s) referring to the same underlying definition always share a ValueID even if,
// through a packing bug, their Type bits somehow differed.
type ValueID uint32

const valueIDInvalid ValueID = math.MaxUint32

// Value is an SSA value, packed as a ValueID in the low valueIDBits bits and a Type in
// the bits above that. Packing the two into one word avoids a separate allocation per
// value just to remember its type alongside its identity.
type Value uint64

// ValueInvalid is the zero-information Value used where a Value slot is absent, e.g. an
// instruction operand that doesn't apply to the opcode in question.
const ValueInvalid Value = Value(valueIDInvalid)

// ID returns the identity portion of this Value, independent of its Type.
func (v Value) ID() ValueID {
	return ValueID(v)
}

// Type returns the Type packed into the high bits of this Value.
func (v Value) Type() Type {
	return Type(v >> valueIDBits)
}

// Valid reports whether this Value refers to an actual definition, as opposed to the
// ValueInvalid placeholder.
func (v Value) Valid() bool {
	return v.ID() != valueIDInvalid
}

// setType returns a copy of v with typ packed into its high bits; used once, right
// after a bare ValueID is minted, to attach its Type.
func (v Value) setType(typ Type) Value {
	return v | Value(typ)<<valueIDBits
}

// Format renders this Value for debug output, preferring any annotation attached via
// Builder.AnnotateValue over the bare "vN" identifier.
func (v Value) Format(b Builder) string {
	if name, annotated := lookupAnnotation(b, v); annotated {
		return name
	}
	return fmt.Sprintf("v%d", v.ID())
}

// formatWithType is Format with the Value's Type appended, used in contexts (block
// parameter lists, instruction results) where the type isn't otherwise evident.
func (v Value) formatWithType(b Builder) string {
	if name, annotated := lookupAnnotation(b, v); annotated {
		return name + ":" + v.Type().String()
	}
	return fmt.Sprintf("v%d:%s", v.ID(), v.Type())
}

// lookupAnnotation fetches the debug annotation, if any, recorded for v via
// Builder.AnnotateValue.
func lookupAnnotation(b Builder, v Value) (string, bool) {
	name, ok := b.(*builder).valueAnnotations[v.ID()]
	return name, ok
}
