package ssa

import "strings"

// SignatureID is the unique identifier of a Signature within a compilation unit.
type SignatureID uint32

// Signature represents a function signature, used both for the signature of the
// currently-compiled function (see Builder.Init) and for the callee signature of
// a Call/CallIndirect/Invoke instruction.
type Signature struct {
	// ID is the unique identifier of this signature, assigned by the frontend.
	ID SignatureID
	// Params lists the types of the function's incoming arguments, in order.
	Params []Type
	// Results lists the types of the function's return values, in order.
	Results []Type

	// used is reset to false by DeclareSignature and Init, and set to true by
	// AsCall/AsCallIndirect/AsInvoke whenever an instruction actually references this signature, so that
	// UsedSignatures can report only the signatures relevant to this function.
	used bool
}

// String implements fmt.Stringer.
func (s *Signature) String() string {
	ps := make([]string, len(s.Params))
	for i, p := range s.Params {
		ps[i] = p.String()
	}
	rs := make([]string, len(s.Results))
	for i, r := range s.Results {
		rs[i] = r.String()
	}
	return strings.Join(ps, ",") + "->" + strings.Join(rs, ",")
}

// FuncRef is a unique identifier of a function, used by Call/Invoke to name the callee.
type FuncRef uint32
