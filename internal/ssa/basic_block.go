package ssa

import (
	"fmt"
	"strings"
)

// BasicBlockID is the unique identifier of a BasicBlock.
type BasicBlockID uint32

// basicBlockIDReturnBlock is the ID reserved for the per-function return block,
// which never appears in the builder's own block iteration since it has no instructions.
const basicBlockIDReturnBlock = 0xffffffff

// BasicBlock represents a basic block in a function, a region of straight-line
// instructions ending in a terminator (Jump, BrTable, Return, Trap, Invoke, Throw or
// Rethrow), which may be preceded by conditional branches (Brz, Brnz).
//
// Parameters on a BasicBlock play the role of phi nodes in textbook SSA: a value
// defined along one incoming edge and a different value along another is resolved
// by adding a block parameter and having each predecessor's branch pass its own
// definition as an argument.
type BasicBlock interface {
	// ID returns the unique ID of this block.
	ID() BasicBlockID

	// Name returns the debug name of this block.
	Name() string

	// AddParam adds a parameter to this block and returns the value to be used
	// to refer to this parameter within the block.
	AddParam(b Builder, typ Type) Value

	// Params returns the number of parameters to this block.
	Params() int

	// Param returns the i-th parameter of this block.
	Param(i int) Value

	// InsertInstruction inserts an instruction at the end of this block.
	InsertInstruction(raw *Instruction)

	// Root returns the root instruction of this block.
	Root() *Instruction

	// Tail returns the last instruction inserted into this block so far.
	Tail() *Instruction

	// ReturnBlock returns true if this block represents the function return block.
	ReturnBlock() bool

	// Sealed returns true if Builder.Seal has already been called on this block.
	Sealed() bool

	// Preds returns the number of predecessors of this block.
	Preds() int

	// Pred returns the i-th predecessor of this block.
	Pred(i int) BasicBlock

	// Succs returns the number of successors of this block.
	Succs() int

	// Succ returns the i-th successor of this block.
	Succ(i int) BasicBlock

	// FormatHeader returns the debug string of the header of this block, e.g. "blk0: (v0:i32)".
	FormatHeader(b Builder) string
}

// blockParam models a phi node materialized as a block parameter.
type blockParam struct {
	typ   Type
	value Value
}

// basicBlockPredecessorInfo pairs a predecessor block with the branch instruction
// inside it that jumps into the block owning this info.
type basicBlockPredecessorInfo struct {
	blk    *basicBlock
	branch *Instruction
}

// basicBlock implements BasicBlock.
type basicBlock struct {
	id                BasicBlockID
	rootInstr         *Instruction
	currentInstr      *Instruction
	params            []blockParam
	preds             []basicBlockPredecessorInfo
	success           []*basicBlock
	singlePred        *basicBlock
	lastDefinitions   map[Variable]Value
	unknownValues     map[Variable]Value
	reversePostOrder  int
	sealed            bool
}

// ID implements BasicBlock.ID.
func (bb *basicBlock) ID() BasicBlockID {
	return bb.id
}

// Name implements BasicBlock.Name.
func (bb *basicBlock) Name() string {
	if bb.ReturnBlock() {
		return "blk_ret"
	}
	return fmt.Sprintf("blk%d", bb.id)
}

// String implements fmt.Stringer, used by panic messages that embed a *basicBlock directly.
func (bb *basicBlock) String() string {
	return bb.Name()
}

// ReturnBlock implements BasicBlock.ReturnBlock.
func (bb *basicBlock) ReturnBlock() bool {
	return bb.id == basicBlockIDReturnBlock
}

// Sealed implements BasicBlock.Sealed.
func (bb *basicBlock) Sealed() bool {
	return bb.sealed
}

// Preds implements BasicBlock.Preds.
func (bb *basicBlock) Preds() int {
	return len(bb.preds)
}

// Pred implements BasicBlock.Pred.
func (bb *basicBlock) Pred(i int) BasicBlock {
	return bb.preds[i].blk
}

// Succs implements BasicBlock.Succs.
func (bb *basicBlock) Succs() int {
	return len(bb.success)
}

// Succ implements BasicBlock.Succ.
func (bb *basicBlock) Succ(i int) BasicBlock {
	return bb.success[i]
}

// AddParam implements BasicBlock.AddParam.
func (bb *basicBlock) AddParam(b Builder, typ Type) Value {
	paramValue := b.(*builder).allocateValue(typ)
	bb.params = append(bb.params, blockParam{typ: typ, value: paramValue})
	return paramValue
}

// addParamOn adds a parameter with an already-allocated value, used when resolving
// unknown values discovered while a block was not yet sealed.
func (bb *basicBlock) addParamOn(typ Type, v Value) {
	bb.params = append(bb.params, blockParam{typ: typ, value: v})
}

// Params implements BasicBlock.Params.
func (bb *basicBlock) Params() int {
	return len(bb.params)
}

// Param implements BasicBlock.Param.
func (bb *basicBlock) Param(i int) Value {
	return bb.params[i].value
}

// Root implements BasicBlock.Root.
func (bb *basicBlock) Root() *Instruction {
	return bb.rootInstr
}

// Tail implements BasicBlock.Tail.
func (bb *basicBlock) Tail() *Instruction {
	return bb.currentInstr
}

// reset reclaims this basicBlock for reuse by the arena, clearing every field
// back to its zero value except the maps, which are reused to avoid reallocating.
func (bb *basicBlock) reset() {
	bb.params = bb.params[:0]
	bb.preds = bb.preds[:0]
	bb.success = bb.success[:0]
	bb.rootInstr, bb.currentInstr, bb.singlePred = nil, nil, nil
	bb.sealed = false
	bb.reversePostOrder = 0
	for v := range bb.lastDefinitions {
		delete(bb.lastDefinitions, v)
	}
	for v := range bb.unknownValues {
		delete(bb.unknownValues, v)
	}
}

// InsertInstruction implements BasicBlock.InsertInstruction. Besides linking the
// instruction into the block's instruction list, this wires the CFG edges implied
// by branching instructions: the source block's successors and the target
// block(s)' predecessors.
func (bb *basicBlock) InsertInstruction(next *Instruction) {
	if prev := bb.currentInstr; prev != nil {
		prev.next = next
		next.prev = prev
	} else {
		bb.rootInstr = next
	}
	bb.currentInstr = next

	switch next.opcode {
	case OpcodeJump, OpcodeBrz, OpcodeBrnz, OpcodeInvoke:
		target := next.blk.(*basicBlock)
		bb.success = append(bb.success, target)
		target.preds = append(target.preds, basicBlockPredecessorInfo{blk: bb, branch: next})
	case OpcodeBrTable:
		for _, t := range next.targets {
			target := t.(*basicBlock)
			bb.success = append(bb.success, target)
			target.preds = append(target.preds, basicBlockPredecessorInfo{blk: bb, branch: next})
		}
	}
}

// validate asserts this block's invariants, used only when SSAValidationEnabled is true.
func (bb *basicBlock) validate(b *builder) {
	if !bb.sealed && !bb.ReturnBlock() {
		panic(fmt.Sprintf("%s is not sealed", bb))
	}
	for i := range bb.preds {
		pred := bb.preds[i]
		var found bool
		for _, succ := range pred.blk.success {
			if succ == bb {
				found = true
				break
			}
		}
		if !found {
			panic(fmt.Sprintf("%s is not a successor of its recorded predecessor %s", bb, pred.blk))
		}
	}
	for variable := range bb.unknownValues {
		panic(fmt.Sprintf("%s has an unresolved value for %s after sealing", bb, variable))
	}
}

// FormatHeader implements BasicBlock.FormatHeader.
func (bb *basicBlock) FormatHeader(b Builder) string {
	if bb.ReturnBlock() {
		return fmt.Sprintf("%s: (entry point: return)", bb.Name())
	}

	ps := make([]string, len(bb.params))
	for i, p := range bb.params {
		ps[i] = p.value.formatWithType(b)
	}

	if len(bb.preds) > 0 {
		preds := make([]string, 0, len(bb.preds))
		for _, pred := range bb.preds {
			preds = append(preds, fmt.Sprintf("blk%d", pred.blk.id))
		}
		return fmt.Sprintf("%s: (%s) <-- (%s)",
			bb.Name(), strings.Join(ps, ","), strings.Join(preds, ","))
	}
	return fmt.Sprintf("%s: (%s)", bb.Name(), strings.Join(ps, ","))
}
