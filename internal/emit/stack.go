package emit

import "github.com/wazevo-emit/ssaemit/internal/ssa"

// OperandStack is the emitter's abstract-interpretation value stack: its depth at any program
// point tracks the validator-computed stack depth exactly, so the control core can assert and
// restore it at block boundaries without re-deriving it from the operator stream.
type OperandStack struct {
	values []ssa.Value
}

// Depth returns the current number of live values on the stack.
func (s *OperandStack) Depth() int { return len(s.values) }

// Push appends a value to the top of the stack.
func (s *OperandStack) Push(v ssa.Value) { s.values = append(s.values, v) }

// Pop removes and returns the top value. Panics on underflow — the validator contract
// guarantees this never happens for well-typed input.
func (s *OperandStack) Pop() ssa.Value {
	n := len(s.values) - 1
	v := s.values[n]
	s.values = s.values[:n]
	return v
}

// PopN removes and returns the top n values in stack order (oldest first).
func (s *OperandStack) PopN(n int) []ssa.Value {
	if n == 0 {
		return nil
	}
	begin := len(s.values) - n
	vs := make([]ssa.Value, n)
	copy(vs, s.values[begin:])
	s.values = s.values[:begin]
	return vs
}

// PeekN returns (without popping) the top n values in stack order, as a freshly allocated
// slice so callers may safely retain it across further pushes/pops.
func (s *OperandStack) PeekN(n int) []ssa.Value {
	if n == 0 {
		return nil
	}
	begin := len(s.values) - n
	vs := make([]ssa.Value, n)
	copy(vs, s.values[begin:])
	return vs
}

// PeekAt returns the value offset entries below the top (0 is the top itself).
func (s *OperandStack) PeekAt(offset int) ssa.Value {
	return s.values[len(s.values)-1-offset]
}

// TruncateToDepth discards every value above depth, used when a control frame's `end`
// restores the stack to its frame-entry depth plus results.
func (s *OperandStack) TruncateToDepth(depth int) {
	s.values = s.values[:depth]
}
