// Package unwind abstracts the one real difference between the two native unwinding
// models a try/catch region can lower to: a table-based unwinder (Itanium-style,
// ELF/Mach-O targets) recovers a thrown exception's argument values from a flat
// argument array in the reverse of the order they were thrown in, while a
// funclet-based unwinder (Windows SEH-style) has already had its filter function copy
// them into a frame-recoverable alloca in declaration order. Everything else a
// try/catch/throw/rethrow region needs — the landing pad, the type-index comparison
// chain, the rethrow-and-unreachable tail — is encoded directly by the SSA IR package's
// OpcodeLandingPad/OpcodeThrow/OpcodeRethrow/OpcodeInvoke and is shared by both models.
package unwind

import "github.com/wazevo-emit/ssaemit/internal/ssa"

// ExceptionLowering names one native unwinding model's argument-unpacking convention.
type ExceptionLowering interface {
	// Name identifies the backend, used only for diagnostics.
	Name() string

	// UnpackArgs loads the values of argTypes out of the exception's argument-data
	// value argsPtr (the pointer the throwException intrinsic's second parameter
	// received), returning them in the order the catch handler should push them onto
	// the operand stack.
	UnpackArgs(b ssa.Builder, argsPtr ssa.Value, argTypes []ssa.Type) []ssa.Value
}

// typeSize returns the byte width of t within the flat exception-argument layout.
func typeSize(t ssa.Type) int64 {
	switch t {
	case ssa.TypeI32, ssa.TypeF32:
		return 4
	case ssa.TypeV128:
		return 16
	default:
		return 8
	}
}

// loadArgsInOrder loads each of argTypes from argsPtr at consecutive offsets, visiting
// indices in the given order and returning the results indexed by their original
// position in argTypes (so callers can push in whichever order the caller wants
// independent of the load order used to compute addresses).
func loadArgsInOrder(b ssa.Builder, argsPtr ssa.Value, argTypes []ssa.Type, order []int) []ssa.Value {
	offsets := make([]int64, len(argTypes))
	var off int64
	for i, t := range argTypes {
		offsets[i] = off
		off += typeSize(t)
	}

	out := make([]ssa.Value, len(argTypes))
	for _, i := range order {
		instr := b.AllocateInstruction()
		instr.AsLoad(argsPtr, uint32(offsets[i]), argTypes[i])
		b.InsertInstruction(instr)
		out[i] = instr.Return()
	}
	return out
}
