package unwind

import "github.com/wazevo-emit/ssaemit/internal/ssa"

// seh implements the funclet-based unwinder path: the catch's filter function already
// copied the exception data into a frame-recoverable alloca in declaration order
// before the handler block runs, so no reversal is needed here.
type seh struct{}

// NewSEH returns the funclet-based (Windows SEH-style) ExceptionLowering.
func NewSEH() ExceptionLowering { return seh{} }

func (seh) Name() string { return "seh" }

func (seh) UnpackArgs(b ssa.Builder, argsPtr ssa.Value, argTypes []ssa.Type) []ssa.Value {
	order := make([]int, len(argTypes))
	for i := range order {
		order[i] = i
	}
	return loadArgsInOrder(b, argsPtr, argTypes, order)
}
