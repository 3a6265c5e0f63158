package unwind

import "github.com/wazevo-emit/ssaemit/internal/ssa"

// itanium implements the table-based unwinder path: beginCatch hands back a pointer to
// the raw exception object and the argument values were appended to the flat argument
// array in throw order, so the handler must read them back starting from the last one
// thrown.
type itanium struct{}

// NewItanium returns the table-based (Itanium-style) ExceptionLowering.
func NewItanium() ExceptionLowering { return itanium{} }

func (itanium) Name() string { return "itanium" }

func (itanium) UnpackArgs(b ssa.Builder, argsPtr ssa.Value, argTypes []ssa.Type) []ssa.Value {
	order := make([]int, len(argTypes))
	for i := range order {
		order[i] = len(argTypes) - 1 - i
	}
	return loadArgsInOrder(b, argsPtr, argTypes, order)
}
