package emit

import "github.com/wazevo-emit/ssaemit/internal/ssa"

// handleV128Load/handleV128Store share load/store's zero-extend-then-base addressing;
// the only difference from a scalar access is the 16-byte width.
func (e *Emitter) handleV128Load(offset uint32) {
	index := e.stack.Pop()
	addr := e.effectiveAddress(index, offset)
	instr := e.builder.AllocateInstruction()
	instr.AsLoad(addr, 0, ssa.TypeV128)
	e.builder.InsertInstruction(instr)
	e.stack.Push(instr.Return())
}

func (e *Emitter) handleV128Store(offset uint32) {
	value := e.stack.Pop()
	index := e.stack.Pop()
	addr := e.effectiveAddress(index, offset)
	instr := e.builder.AllocateInstruction()
	instr.AsStore(ssa.OpcodeStore, value, addr, 0)
	e.builder.InsertInstruction(instr)
}

func (e *Emitter) handleV128Const(bytes [16]byte) {
	var lo, hi uint64
	for i := 0; i < 8; i++ {
		lo |= uint64(bytes[i]) << (8 * i)
		hi |= uint64(bytes[i+8]) << (8 * i)
	}
	instr := e.builder.AllocateInstruction()
	instr.AsVconst(lo, hi)
	e.builder.InsertInstruction(instr)
	e.stack.Push(instr.Return())
}

// handleSplat/handleExtractLane/handleReplaceLane cover i32x4/i64x2/f32x4/f64x2, the
// lane widths the SSA IR's Type enum can faithfully represent (it has no distinct i8/i16
// member, so i8x16/i16x8's splat/extract_lane/replace_lane family is out of scope).
func (e *Emitter) handleSplat(lane ssa.Type) {
	x := e.stack.Pop()
	instr := e.builder.AllocateInstruction()
	instr.AsSplat(x, lane)
	e.builder.InsertInstruction(instr)
	e.stack.Push(instr.Return())
}

func (e *Emitter) handleExtractLane(lane ssa.Type, idx byte) {
	x := e.stack.Pop()
	instr := e.builder.AllocateInstruction()
	instr.AsExtractlane(x, idx, lane, false)
	e.builder.InsertInstruction(instr)
	e.stack.Push(instr.Return())
}

func (e *Emitter) handleReplaceLane(lane ssa.Type, idx byte) {
	y := e.stack.Pop()
	x := e.stack.Pop()
	instr := e.builder.AllocateInstruction()
	instr.AsInsertlane(x, y, idx, lane)
	e.builder.InsertInstruction(instr)
	e.stack.Push(instr.Return())
}

func (e *Emitter) vbinop(f func(instr *ssa.Instruction, x, y ssa.Value)) {
	y := e.stack.Pop()
	x := e.stack.Pop()
	instr := e.builder.AllocateInstruction()
	f(instr, x, y)
	e.builder.InsertInstruction(instr)
	e.stack.Push(instr.Return())
}

func (e *Emitter) handleI32x4Add() { e.vbinop(func(instr *ssa.Instruction, x, y ssa.Value) { instr.AsVIadd(x, y, ssa.TypeI32) }) }
func (e *Emitter) handleI32x4Sub() { e.vbinop(func(instr *ssa.Instruction, x, y ssa.Value) { instr.AsVIsub(x, y, ssa.TypeI32) }) }
func (e *Emitter) handleI32x4Mul() { e.vbinop(func(instr *ssa.Instruction, x, y ssa.Value) { instr.AsVImul(x, y, ssa.TypeI32) }) }

// handleF32x4Add/Sub/Mul/Div operate directly on the V128 operands: the IR's
// Fadd/Fsub/Fmul/Fdiv family derives its type from the operand's own Type rather than
// taking an explicit per-lane width, so f32x4 and (a hypothetical) f64x2 arithmetic are
// indistinguishable below this layer; only f32x4 is in the wasm opcode table this
// emitter decodes against, so that ambiguity never actually arises here.
func (e *Emitter) handleF32x4Add() { e.vbinop(func(instr *ssa.Instruction, x, y ssa.Value) { instr.AsFadd(x, y) }) }
func (e *Emitter) handleF32x4Sub() { e.vbinop(func(instr *ssa.Instruction, x, y ssa.Value) { instr.AsFsub(x, y) }) }
func (e *Emitter) handleF32x4Mul() { e.vbinop(func(instr *ssa.Instruction, x, y ssa.Value) { instr.AsFmul(x, y) }) }
func (e *Emitter) handleF32x4Div() { e.vbinop(func(instr *ssa.Instruction, x, y ssa.Value) { instr.AsFdiv(x, y) }) }

// handleAddSat covers the i8x16/i16x8 saturating-add family; the narrow lane width
// itself can't be represented (see handleSplat's doc), so both widths share the same
// TypeI32 lane parameter; the emitted instruction does not record the 8- or 16-bit width.
func (e *Emitter) handleAddSat(signed bool) {
	if signed {
		e.vbinop(func(instr *ssa.Instruction, x, y ssa.Value) { instr.AsSaddSat(x, y, ssa.TypeI32) })
	} else {
		e.vbinop(func(instr *ssa.Instruction, x, y ssa.Value) { instr.AsUaddSat(x, y, ssa.TypeI32) })
	}
}
